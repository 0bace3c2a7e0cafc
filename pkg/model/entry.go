// Package model defines the content of a timeline as loaded from disk.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one item of a timeline before layout.
type Entry struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Date    time.Time `json:"date" yaml:"date"`
	Summary string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Body    string    `json:"body,omitempty" yaml:"body,omitempty"` // Markdown
	Link    string    `json:"link,omitempty" yaml:"link,omitempty"`
	Images  []Image   `json:"images,omitempty" yaml:"images,omitempty"`
	Track   *Track    `json:"track,omitempty" yaml:"track,omitempty"`

	// SourceRepo is the file prefix the entry was loaded under when several
	// timelines are merged.
	SourceRepo string `json:"-" yaml:"-"`
}

// Image is a lazy-loadable picture attached to an entry. Src is resolved
// relative to the timeline file.
type Image struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Track is the analytics metadata attached to a clickable element.
type Track struct {
	Category string `json:"category" yaml:"category"`
	Action   string `json:"action" yaml:"action"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
}

// IsZero reports whether t carries no metadata.
func (t *Track) IsZero() bool {
	return t == nil || (t.Category == "" && t.Action == "" && t.Label == "")
}

// Validate checks the fields an entry needs to be rendered.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("entry has empty id")
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("entry %s has empty title", e.ID)
	}
	for i, img := range e.Images {
		if strings.TrimSpace(img.Src) == "" {
			return fmt.Errorf("entry %s: image %d has empty src", e.ID, i)
		}
	}
	return nil
}

// Timeline is a titled, ordered list of entries.
type Timeline struct {
	Title    string  `json:"title" yaml:"title"`
	Subtitle string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Entries  []Entry `json:"entries" yaml:"entries"`

	// Dir is the directory relative image paths resolve against.
	Dir string `json:"-" yaml:"-"`
}
