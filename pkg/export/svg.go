package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// Geometry shared by the SVG and PNG renderers.
const (
	chartWidth   = 720
	chartMargin  = 40
	chartHeader  = 80
	chartRowGap  = 64
	chartAxisX   = 140
	chartDotSize = 7
)

// chartHeight is the canvas height for n entries.
func chartHeight(n int) int {
	if n < 1 {
		n = 1
	}
	return chartHeader + n*chartRowGap + chartMargin
}

// rowY is the vertical center of entry i.
func rowY(i int) int {
	return chartHeader + i*chartRowGap + chartRowGap/2
}

// WriteSVG draws the timeline as a vertical axis with one marker per entry.
func WriteSVG(w io.Writer, tl model.Timeline) error {
	height := chartHeight(len(tl.Entries))

	canvas := svg.New(w)
	canvas.Start(chartWidth, height)
	canvas.Rect(0, 0, chartWidth, height, "fill:#282A36")
	canvas.Text(chartMargin, 48, tl.Title, "fill:#BD93F9;font-size:24px;font-family:sans-serif;font-weight:bold")

	if len(tl.Entries) > 0 {
		canvas.Line(chartAxisX, rowY(0), chartAxisX, rowY(len(tl.Entries)-1), "stroke:#6272A4;stroke-width:3")
	}
	for i, e := range tl.Entries {
		y := rowY(i)
		canvas.Text(chartAxisX-16, y+5, formatDate(e.Date), "fill:#BFBFBF;font-size:13px;font-family:monospace;text-anchor:end")
		canvas.Circle(chartAxisX, y, chartDotSize, "fill:#50FA7B;stroke:#282A36;stroke-width:2")

		title := e.Title
		if e.Link != "" {
			canvas.Link(e.Link, e.Title)
		}
		canvas.Text(chartAxisX+20, y+5, title, "fill:#F8F8F2;font-size:15px;font-family:sans-serif")
		if e.Link != "" {
			canvas.LinkEnd()
		}
		if e.Summary != "" {
			canvas.Text(chartAxisX+20, y+24, truncate(e.Summary, 70), "fill:#BFBFBF;font-size:12px;font-family:sans-serif")
		}
	}

	canvas.End()
	return nil
}

// SaveSVGToFile writes WriteSVG output to filename.
func SaveSVGToFile(tl model.Timeline, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if err := WriteSVG(f, tl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
