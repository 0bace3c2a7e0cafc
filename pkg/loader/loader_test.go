package loader_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/loader"
)

// =============================================================================
// FindTimelinePath Tests
// =============================================================================

func TestFindTimelinePath_NonExistentDirectory(t *testing.T) {
	_, err := loader.FindTimelinePath("/nonexistent/path/to/timeline")
	if err == nil {
		t.Fatal("Expected error for non-existent directory")
	}
	if !strings.Contains(err.Error(), "failed to read timeline directory") {
		t.Errorf("Expected 'failed to read timeline directory' error, got: %v", err)
	}
}

func TestFindTimelinePath_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := loader.FindTimelinePath(dir)
	if !errors.Is(err, loader.ErrNoTimeline) {
		t.Errorf("Expected ErrNoTimeline, got: %v", err)
	}
}

func TestFindTimelinePath_NoTimelineFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hello"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0644)

	if _, err := loader.FindTimelinePath(dir); err == nil {
		t.Fatal("Expected error when no timeline files exist")
	}
}

func TestFindTimelinePath_PrefersTimelineName(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "archive.yaml"), []byte("entries: []"), 0644)
	os.WriteFile(filepath.Join(dir, "timeline.yaml"), []byte("entries: []"), 0644)
	os.WriteFile(filepath.Join(dir, "other.jsonl"), []byte(`{"id":"3"}`), 0644)

	path, err := loader.FindTimelinePath(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(path) != "timeline.yaml" {
		t.Errorf("Expected timeline.yaml to be preferred, got: %s", path)
	}
}

func TestFindTimelinePath_SkipsArtifacts(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "timeline.backup.yaml"), []byte("x: 1"), 0644)
	os.WriteFile(filepath.Join(dir, "timeline.orig.json"), []byte("{}"), 0644)
	os.WriteFile(filepath.Join(dir, ".hidden.yaml"), []byte("x: 1"), 0644)
	os.WriteFile(filepath.Join(dir, "history.yaml"), []byte("x: 1"), 0644)

	path, err := loader.FindTimelinePath(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(path) != "history.yaml" {
		t.Errorf("Expected history.yaml, got: %s", path)
	}
}

func TestFindTimelinePath_SkipsEmptyPreferredFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "timeline.yaml"), []byte{}, 0644)
	os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("entries: []"), 0644)

	path, err := loader.FindTimelinePath(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(path) == "timeline.yaml" {
		t.Error("Should skip empty timeline.yaml and use non-empty file")
	}
}

func TestFindTimelinePath_ReturnsEmptyFileAsLastResort(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte{}, 0644)

	path, err := loader.FindTimelinePath(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if path == "" {
		t.Error("Should return empty file as last resort")
	}
}

func TestFindTimelinePath_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, "fake.yaml"), 0755)
	os.WriteFile(filepath.Join(dir, "real.yaml"), []byte("entries: []"), 0644)

	path, err := loader.FindTimelinePath(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if filepath.Base(path) != "real.yaml" {
		t.Errorf("Expected real.yaml, got: %s", path)
	}
}

func TestFindTimelinePath_FollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "history.yaml")
	if err := os.WriteFile(target, []byte("entries: []"), 0644); err != nil {
		t.Fatal(err)
	}

	link := filepath.Join(dir, "timeline.yaml")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported on this filesystem: %v", err)
	}

	path, err := loader.FindTimelinePath(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(target)
	if path != want {
		t.Errorf("Expected to resolve symlink to %s, got %s", want, path)
	}
}

// =============================================================================
// LoadTimelineFromFile Tests
// =============================================================================

func TestLoadTimelineFromFile_NonExistentFile(t *testing.T) {
	_, err := loader.LoadTimelineFromFile("/nonexistent/path/to/file.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "failed to open timeline file") {
		t.Errorf("Expected 'failed to open timeline file' error, got: %v", err)
	}
}

func TestLoadTimelineFromFile_YAMLDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timeline.yaml")
	content := `title: Company History
subtitle: Since 1999
entries:
  - id: b
    title: Second
    date: 2005-06-01
    images:
      - src: img/office.png
        alt: Office
  - id: a
    title: First
    date: 1999-01-01
    track:
      category: Timeline
      action: Founding
      label: "1999"
`
	os.WriteFile(path, []byte(content), 0644)

	tl, err := loader.LoadTimelineFromFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tl.Title != "Company History" || tl.Subtitle != "Since 1999" {
		t.Errorf("Header mismatch: %q / %q", tl.Title, tl.Subtitle)
	}
	if len(tl.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(tl.Entries))
	}
	// Sorted by date
	if tl.Entries[0].ID != "a" || tl.Entries[1].ID != "b" {
		t.Errorf("Expected entries sorted by date, got %s, %s", tl.Entries[0].ID, tl.Entries[1].ID)
	}
	if tl.Entries[0].Track.IsZero() || tl.Entries[0].Track.Label != "1999" {
		t.Errorf("Track metadata not loaded: %+v", tl.Entries[0].Track)
	}
	if len(tl.Entries[1].Images) != 1 || tl.Entries[1].Images[0].Src != "img/office.png" {
		t.Errorf("Images not loaded: %+v", tl.Entries[1].Images)
	}
	if tl.Dir != dir {
		t.Errorf("Dir = %s; want %s", tl.Dir, dir)
	}
}

func TestLoadTimelineFromFile_YAMLList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.yml")
	os.WriteFile(path, []byte("- id: one\n  title: One\n- id: two\n  title: Two\n"), 0644)

	tl, err := loader.LoadTimelineFromFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tl.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(tl.Entries))
	}
	if tl.Title != "events" {
		t.Errorf("Expected title from filename, got %q", tl.Title)
	}
}

func TestLoadTimelineFromFile_JSONArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.json")
	os.WriteFile(path, []byte(`[{"id":"1","title":"A"},{"id":"2","title":"B"}]`), 0644)

	tl, err := loader.LoadTimelineFromFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tl.Entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(tl.Entries))
	}
}

func TestLoadTimelineFromFile_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.json")
	os.WriteFile(path, []byte(`{"title": `), 0644)

	if _, err := loader.LoadTimelineFromFile(path); err == nil {
		t.Fatal("Expected parse error")
	}
}

func TestLoadTimelineFromFile_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.jsonl")
	os.WriteFile(path, []byte{}, 0644)

	tl, err := loader.LoadTimelineFromFile(path)
	if err != nil {
		t.Fatalf("Empty file should not error: %v", err)
	}
	if len(tl.Entries) != 0 {
		t.Errorf("Expected 0 entries from empty file, got %d", len(tl.Entries))
	}
}

func TestLoadTimelineFromFile_JSONLPartiallyMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.jsonl")
	content := `{"id":"1","title":"A"}
{"id":"2"
{"id":"3","title":"C"}

invalid
{"id":"4","title":"D"}
{"title":"No ID"}
`
	os.WriteFile(path, []byte(content), 0644)

	tl, err := loader.LoadTimelineFromFile(path)
	if err != nil {
		t.Fatalf("Should continue loading after malformed lines: %v", err)
	}
	if len(tl.Entries) != 3 {
		t.Errorf("Expected 3 valid entries, got %d", len(tl.Entries))
	}
}

func TestLoadTimelineFromFile_VeryLargeLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "large.jsonl")

	// ~2MB body exercises the scanner buffer
	largeBody := strings.Repeat("A", 2*1024*1024)
	line := fmt.Sprintf(`{"id":"big-1","title":"Big","body":"%s"}`, largeBody)
	if err := os.WriteFile(path, []byte(line+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tl, err := loader.LoadTimelineFromFile(path)
	if err != nil {
		t.Fatalf("Unexpected error reading large line: %v", err)
	}
	if len(tl.Entries) != 1 || len(tl.Entries[0].Body) != 2*1024*1024 {
		t.Fatalf("Large entry not loaded intact")
	}
}

func TestLoadTimelineFromFile_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("chmod 0000 permission test not reliable on Windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "denied.yaml")
	if err := os.WriteFile(path, []byte("entries: []"), 0000); err != nil {
		t.Fatal(err)
	}

	_, err := loader.LoadTimelineFromFile(path)
	if err == nil {
		t.Fatal("Expected permission error when reading file")
	}
	if !strings.Contains(err.Error(), "failed to open timeline file") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLoadTimeline_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "timeline.yaml"), []byte("entries:\n  - id: x\n    title: X\n"), 0644)

	tl, err := loader.LoadTimeline(dir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tl.Entries) != 1 || tl.Entries[0].ID != "x" {
		t.Errorf("Unexpected entries: %+v", tl.Entries)
	}
}

// =============================================================================
// AggregateLoader Tests
// =============================================================================

func TestAggregateLoader_MergesByDate(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "alpha.yaml")
	b := filepath.Join(dir, "beta.jsonl")
	os.WriteFile(a, []byte("title: Alpha\nentries:\n  - id: \"1\"\n    title: A1\n    date: 2001-01-01\n    images:\n      - src: pic.png\n"), 0644)
	os.WriteFile(b, []byte(`{"id":"1","title":"B1","date":"2000-01-01T00:00:00Z"}`+"\n"), 0644)

	tl, results, err := loader.NewAggregateLoader([]string{a, b}).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if len(tl.Entries) != 2 {
		t.Fatalf("Expected 2 merged entries, got %d", len(tl.Entries))
	}
	if tl.Entries[0].ID != "beta-1" || tl.Entries[1].ID != "alpha-1" {
		t.Errorf("Unexpected merge order: %s, %s", tl.Entries[0].ID, tl.Entries[1].ID)
	}
	if got := tl.Entries[1].Images[0].Src; got != filepath.Join(dir, "pic.png") {
		t.Errorf("Image path not resolved: %s", got)
	}
	if tl.Title != "Alpha + beta" {
		t.Errorf("Merged title = %q", tl.Title)
	}
}

func TestAggregateLoader_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	os.WriteFile(good, []byte("entries:\n  - id: g\n    title: G\n"), 0644)
	missing := filepath.Join(dir, "missing.yaml")

	l := loader.NewAggregateLoader([]string{good, missing})
	l.SetLogger(nil)
	tl, results, err := l.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tl.Entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(tl.Entries))
	}

	summary := loader.Summarize(results)
	if summary.FailedFiles != 1 || summary.SuccessfulFiles != 1 || summary.TotalEntries != 1 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

func TestAggregateLoader_AllFail(t *testing.T) {
	l := loader.NewAggregateLoader([]string{"/nonexistent/a.yaml"})
	l.SetLogger(nil)
	if _, _, err := l.LoadAll(context.Background()); !errors.Is(err, loader.ErrNoTimeline) {
		t.Errorf("Expected ErrNoTimeline, got %v", err)
	}
}

func TestQualifyID(t *testing.T) {
	tests := []struct {
		id, prefix, want string
	}{
		{"1", "alpha", "alpha-1"},
		{"alpha-1", "alpha", "alpha-1"},
		{"1", "", "1"},
	}
	for _, tt := range tests {
		if got := loader.QualifyID(tt.id, tt.prefix); got != tt.want {
			t.Errorf("QualifyID(%q, %q) = %q; want %q", tt.id, tt.prefix, got, tt.want)
		}
	}
}
