// Package lazyload loads timeline image headers on demand.
//
// Only image headers are decoded: the viewer needs format and dimensions
// to render a placeholder line, never the pixels.
package lazyload

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
)

// DefaultConcurrency bounds parallel decodes per batch.
const DefaultConcurrency = 4

// Result is the outcome of loading one image.
type Result struct {
	Src    string
	Format string
	Width  int
	Height int
	Err    error
}

// Loaded reports whether the image header was read successfully.
func (r Result) Loaded() bool {
	return r.Err == nil && r.Format != ""
}

// Loader reads image headers and caches results by resolved path.
type Loader struct {
	baseDir     string
	concurrency int

	mu    sync.RWMutex
	cache map[string]Result
}

// NewLoader creates a loader resolving relative sources against baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir:     baseDir,
		concurrency: DefaultConcurrency,
		cache:       make(map[string]Result),
	}
}

// SetConcurrency changes the per-batch decode limit.
func (l *Loader) SetConcurrency(n int) {
	if n > 0 {
		l.concurrency = n
	}
}

// Resolve returns the filesystem path for an image source.
func (l *Loader) Resolve(src string) string {
	if filepath.IsAbs(src) || l.baseDir == "" {
		return src
	}
	return filepath.Join(l.baseDir, src)
}

// Cached returns the stored result for src, if any.
func (l *Loader) Cached(src string) (Result, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.cache[l.Resolve(src)]
	return r, ok
}

// Load reads image headers concurrently. Results keep the order of images;
// per-image failures are reported in Result.Err and never fail the batch.
func (l *Loader) Load(ctx context.Context, images []model.Image) []Result {
	results := make([]Result, len(images))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, img := range images {
		i, img := i, img
		if r, ok := l.Cached(img.Src); ok {
			results[i] = r
			continue
		}
		g.Go(func() error {
			r := l.decodeHeader(ctx, img.Src)
			results[i] = r

			l.mu.Lock()
			l.cache[l.Resolve(img.Src)] = r
			l.mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// LoadAll loads the images of every entry, in entry order.
func (l *Loader) LoadAll(ctx context.Context, entries []model.Entry) map[string][]Result {
	out := make(map[string][]Result, len(entries))
	for _, e := range entries {
		if len(e.Images) == 0 {
			continue
		}
		out[e.ID] = l.Load(ctx, e.Images)
	}
	return out
}

func (l *Loader) decodeHeader(ctx context.Context, src string) Result {
	r := Result{Src: src}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}

	f, err := os.Open(l.Resolve(src))
	if err != nil {
		r.Err = fmt.Errorf("open image: %w", err)
		return r
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		r.Err = fmt.Errorf("decode %s: %w", filepath.Base(src), err)
		return r
	}
	r.Format = format
	r.Width = cfg.Width
	r.Height = cfg.Height
	return r
}
