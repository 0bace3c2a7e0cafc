package loader

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// LoadResult contains the result of loading a single timeline file
type LoadResult struct {
	// Path is the file that was loaded
	Path string

	// Prefix is the namespace prefix applied to entry IDs
	Prefix string

	// Timeline is the parsed timeline with namespaced IDs
	Timeline model.Timeline

	// Error is set if loading failed
	Error error
}

// AggregateLoader loads several timeline files and merges them into one
type AggregateLoader struct {
	paths  []string
	logger *log.Logger
}

// NewAggregateLoader creates a loader for the given files
func NewAggregateLoader(paths []string) *AggregateLoader {
	return &AggregateLoader{
		paths:  paths,
		logger: log.Default(),
	}
}

// SetLogger sets a custom logger for error reporting
func (l *AggregateLoader) SetLogger(logger *log.Logger) {
	l.logger = logger
}

// LoadAll loads every file concurrently and merges the entries by date.
// Failed files are logged but don't break the overall load; it is an error
// only when no file loads at all.
func (l *AggregateLoader) LoadAll(ctx context.Context) (model.Timeline, []LoadResult, error) {
	if len(l.paths) == 0 {
		return model.Timeline{}, nil, fmt.Errorf("%w: no files given", ErrNoTimeline)
	}

	results, err := l.loadParallel(ctx)
	if err != nil {
		return model.Timeline{}, results, fmt.Errorf("fatal error during parallel loading: %w", err)
	}

	var merged model.Timeline
	var titles []string
	loaded := 0
	for _, result := range results {
		if result.Error != nil {
			l.logFileError(result.Path, result.Error)
			continue
		}
		loaded++
		titles = append(titles, result.Timeline.Title)
		merged.Entries = append(merged.Entries, result.Timeline.Entries...)
		if merged.Dir == "" {
			merged.Dir = result.Timeline.Dir
		}
	}
	if loaded == 0 {
		return model.Timeline{}, results, fmt.Errorf("%w: every file failed to load", ErrNoTimeline)
	}

	if len(results) == 1 {
		merged = results[0].Timeline
	} else {
		merged.Title = strings.Join(titles, " + ")
		sort.SliceStable(merged.Entries, func(i, j int) bool {
			return merged.Entries[i].Date.Before(merged.Entries[j].Date)
		})
	}
	return merged, results, nil
}

func (l *AggregateLoader) loadParallel(ctx context.Context) ([]LoadResult, error) {
	results := make([]LoadResult, len(l.paths))
	var mu sync.Mutex
	namespace := len(l.paths) > 1

	g, ctx := errgroup.WithContext(ctx)

	for i, path := range l.paths {
		i, path := i, path
		g.Go(func() error {
			prefix := ""
			if namespace {
				prefix = PrefixFor(path)
			}

			select {
			case <-ctx.Done():
				mu.Lock()
				results[i] = LoadResult{Path: path, Prefix: prefix, Error: ctx.Err()}
				mu.Unlock()
				return nil // Don't propagate context errors as fatal
			default:
			}

			tl, err := LoadTimelineFromFile(path)
			if err == nil && prefix != "" {
				tl.Entries = namespaceEntries(tl.Entries, prefix, tl.Dir)
			}

			mu.Lock()
			results[i] = LoadResult{Path: path, Prefix: prefix, Timeline: tl, Error: err}
			mu.Unlock()

			return nil // Individual file errors are captured in results, not propagated
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// PrefixFor derives the namespace prefix for a timeline file from its name.
func PrefixFor(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// QualifyID prefixes id with the namespace unless it already carries it.
func QualifyID(id, prefix string) string {
	if prefix == "" || strings.HasPrefix(id, prefix+"-") {
		return id
	}
	return prefix + "-" + id
}

// namespaceEntries qualifies IDs and makes relative image paths absolute so
// merged entries still resolve against their own file.
func namespaceEntries(entries []model.Entry, prefix, dir string) []model.Entry {
	result := make([]model.Entry, len(entries))
	for i, e := range entries {
		ns := e
		ns.ID = QualifyID(e.ID, prefix)
		ns.SourceRepo = prefix
		if len(e.Images) > 0 {
			ns.Images = make([]model.Image, len(e.Images))
			for j, img := range e.Images {
				if !filepath.IsAbs(img.Src) && !strings.Contains(img.Src, "://") {
					img.Src = filepath.Join(dir, img.Src)
				}
				ns.Images[j] = img
			}
		}
		result[i] = ns
	}
	return result
}

func (l *AggregateLoader) logFileError(path string, err error) {
	if l.logger != nil {
		l.logger.Printf("WARNING: Failed to load timeline %q: %v", path, err)
	}
}

// Summary of a multi-file load
type LoadSummary struct {
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalEntries    int
	FailedPaths     []string
}

// Summarize returns a summary of the load results
func Summarize(results []LoadResult) LoadSummary {
	summary := LoadSummary{TotalFiles: len(results)}
	for _, result := range results {
		if result.Error != nil {
			summary.FailedFiles++
			summary.FailedPaths = append(summary.FailedPaths, result.Path)
			continue
		}
		summary.SuccessfulFiles++
		summary.TotalEntries += len(result.Timeline.Entries)
	}
	return summary
}
