// Package loader reads timeline files from disk.
//
// A timeline file is YAML (.yaml/.yml), JSON (.json) holding either a
// timeline document or a bare list of entries, or JSONL (.jsonl) with one
// entry per line.
package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// ErrNoTimeline is returned when a directory holds no timeline file.
var ErrNoTimeline = errors.New("no timeline file found")

// DefaultDir is the directory searched when no path is given.
const DefaultDir = ".tlv"

var timelineExts = map[string]bool{
	".yaml":  true,
	".yml":   true,
	".json":  true,
	".jsonl": true,
}

// preferredNames are tried in order before any other timeline file.
var preferredNames = []string{
	"timeline.yaml",
	"timeline.yml",
	"timeline.json",
	"timeline.jsonl",
}

// FindTimelinePath locates the timeline file in dir. Preferred names win,
// then any other non-empty candidate; an empty file is returned only as a
// last resort. Symlinks are resolved.
func FindTimelinePath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read timeline directory: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if !timelineExts[strings.ToLower(filepath.Ext(name))] || isArtifact(name) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, path)
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoTimeline, dir)
	}
	sort.Strings(candidates)

	for _, name := range preferredNames {
		for _, path := range candidates {
			if filepath.Base(path) == name && nonEmpty(path) {
				return resolve(path), nil
			}
		}
	}
	for _, path := range candidates {
		if nonEmpty(path) {
			return resolve(path), nil
		}
	}
	return resolve(candidates[0]), nil
}

// FindTimelinePaths returns every timeline file in dir, sorted by name.
func FindTimelinePaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read timeline directory: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !timelineExts[strings.ToLower(filepath.Ext(name))] || isArtifact(name) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

func isArtifact(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range []string{".backup", ".orig", ".merge", ".tmp", "~"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return strings.HasPrefix(lower, ".")
}

func nonEmpty(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

func resolve(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// LoadTimeline finds and loads the timeline in dir. An empty dir means the
// current directory's .tlv folder.
func LoadTimeline(dir string) (model.Timeline, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return model.Timeline{}, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = filepath.Join(cwd, DefaultDir)
	}

	path, err := FindTimelinePath(dir)
	if err != nil {
		return model.Timeline{}, err
	}
	return LoadTimelineFromFile(path)
}

// LoadTimelineFromFile parses path by extension. Entries that fail to
// parse or validate are skipped; the rest are sorted by date, keeping file
// order for equal dates.
func LoadTimelineFromFile(path string) (model.Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Timeline{}, fmt.Errorf("failed to open timeline file: %w", err)
	}

	var tl model.Timeline
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		tl.Entries, err = parseJSONL(data)
	case ".json":
		tl, err = parseJSON(data)
	default:
		tl, err = parseYAML(data)
	}
	if err != nil {
		return model.Timeline{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	if tl.Title == "" {
		tl.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	tl.Dir = filepath.Dir(path)
	tl.Entries = cleanEntries(tl.Entries)
	return tl, nil
}

func parseJSONL(data []byte) ([]model.Entry, error) {
	var entries []model.Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	// Entries with long markdown bodies can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e model.Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseJSON(data []byte) (model.Timeline, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return model.Timeline{}, nil
	}
	if trimmed[0] == '[' {
		var entries []model.Entry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return model.Timeline{}, err
		}
		return model.Timeline{Entries: entries}, nil
	}
	var tl model.Timeline
	if err := json.Unmarshal(trimmed, &tl); err != nil {
		return model.Timeline{}, err
	}
	return tl, nil
}

func parseYAML(data []byte) (model.Timeline, error) {
	var tl model.Timeline
	if len(bytes.TrimSpace(data)) == 0 {
		return tl, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return tl, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var entries []model.Entry
		if err := node.Decode(&entries); err != nil {
			return tl, err
		}
		tl.Entries = entries
		return tl, nil
	}
	if err := node.Decode(&tl); err != nil {
		return tl, err
	}
	return tl, nil
}

func cleanEntries(entries []model.Entry) []model.Entry {
	valid := entries[:0]
	for _, e := range entries {
		if e.Validate() != nil {
			continue
		}
		valid = append(valid, e)
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})
	return valid
}
