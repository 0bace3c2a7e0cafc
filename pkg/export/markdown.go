// Package export writes a timeline to static formats: Markdown, SVG and PNG.
package export

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// createSlug creates a URL-friendly anchor from an ID
func createSlug(id string) string {
	slug := strings.ToLower(id)
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// formatDate renders an entry date, or "undated" for the zero time.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "undated"
	}
	return t.Format("2006-01-02")
}

// GenerateMarkdown renders the timeline as a single Markdown document with
// a table of contents followed by one section per entry.
func GenerateMarkdown(tl model.Timeline) (string, error) {
	var sb strings.Builder

	title := tl.Title
	if title == "" {
		title = "Timeline"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if tl.Subtitle != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n\n", tl.Subtitle))
	}

	if len(tl.Entries) == 0 {
		sb.WriteString("No entries.\n")
		return sb.String(), nil
	}

	// Table of Contents
	sb.WriteString("## Contents\n\n")
	for _, e := range tl.Entries {
		sb.WriteString(fmt.Sprintf("- [%s · %s](#%s)\n", formatDate(e.Date), e.Title, createSlug(e.ID)))
	}
	sb.WriteString("\n---\n\n")

	for _, e := range tl.Entries {
		sb.WriteString(fmt.Sprintf("<a id=\"%s\"></a>\n\n", createSlug(e.ID)))
		sb.WriteString(fmt.Sprintf("## %s\n\n", e.Title))
		sb.WriteString(fmt.Sprintf("*%s*\n\n", formatDate(e.Date)))
		if e.Summary != "" {
			sb.WriteString(fmt.Sprintf("> %s\n\n", e.Summary))
		}
		if body := strings.TrimSpace(e.Body); body != "" {
			sb.WriteString(body)
			sb.WriteString("\n\n")
		}
		for _, img := range e.Images {
			alt := img.Alt
			if alt == "" {
				alt = e.Title
			}
			sb.WriteString(fmt.Sprintf("![%s](%s)\n\n", alt, img.Src))
		}
		if e.Link != "" {
			sb.WriteString(fmt.Sprintf("[Read more](%s)\n\n", e.Link))
		}
	}

	return sb.String(), nil
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(tl model.Timeline, filename string) error {
	content, err := GenerateMarkdown(tl)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}
