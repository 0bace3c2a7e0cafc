package export

import (
	"fmt"

	"git.sr.ht/~sbinet/gg"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// RenderPNG draws the same chart as WriteSVG onto a raster context.
func RenderPNG(tl model.Timeline) *gg.Context {
	height := chartHeight(len(tl.Entries))
	dc := gg.NewContext(chartWidth, height)

	dc.SetHexColor("#282A36")
	dc.Clear()

	dc.SetHexColor("#BD93F9")
	dc.DrawString(tl.Title, chartMargin, 48)

	if len(tl.Entries) > 0 {
		dc.SetHexColor("#6272A4")
		dc.SetLineWidth(3)
		dc.DrawLine(chartAxisX, float64(rowY(0)), chartAxisX, float64(rowY(len(tl.Entries)-1)))
		dc.Stroke()
	}

	for i, e := range tl.Entries {
		y := float64(rowY(i))

		dc.SetHexColor("#BFBFBF")
		dc.DrawStringAnchored(formatDate(e.Date), chartAxisX-16, y, 1, 0.5)

		dc.SetHexColor("#50FA7B")
		dc.DrawCircle(chartAxisX, y, chartDotSize)
		dc.Fill()

		dc.SetHexColor("#F8F8F2")
		dc.DrawStringAnchored(e.Title, chartAxisX+20, y, 0, 0.5)
		if e.Summary != "" {
			dc.SetHexColor("#BFBFBF")
			dc.DrawStringAnchored(truncate(e.Summary, 70), chartAxisX+20, y+18, 0, 0.5)
		}
	}
	return dc
}

// SavePNGToFile renders the chart and writes it to filename.
func SavePNGToFile(tl model.Timeline, filename string) error {
	if err := RenderPNG(tl).SavePNG(filename); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}
