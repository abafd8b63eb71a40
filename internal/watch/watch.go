// Package watch vectorizes drawings dropped into a directory.
//
// Every supported drawing that is created or rewritten in the watched
// directory is run through page-mode processing once its writes have settled,
// and one DXF file per view is written next to it.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ironsheep/ga-vector-mcp/internal/detection"
	"github.com/ironsheep/ga-vector-mcp/internal/dxf"
	"github.com/ironsheep/ga-vector-mcp/internal/imaging"
	"github.com/ironsheep/ga-vector-mcp/internal/pipeline"
)

// DefaultDebounce is how long a path must stay quiet before it is processed.
const DefaultDebounce = 500 * time.Millisecond

// Processor handles one settled drawing and returns the files it wrote.
type Processor func(ctx context.Context, path string) ([]string, error)

// Result reports one processed drawing.
type Result struct {
	Path    string
	Outputs []string
	Err     error
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period per path; zero means DefaultDebounce.
	Debounce time.Duration

	// Process runs on each settled drawing. Required.
	Process Processor

	// OnResult, when set, receives every outcome after it is logged.
	OnResult func(Result)
}

// Watcher watches one directory.
type Watcher struct {
	dir  string
	opts Options
	fsw  *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New starts watching dir. Events that happen after New returns are seen by
// Run.
func New(dir string, opts Options) (*Watcher, error) {
	if opts.Process == nil {
		return nil, errors.New("watch: Process is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		dir:    dir,
		opts:   opts,
		fsw:    fsw,
		timers: make(map[string]*time.Timer),
	}, nil
}

// Watched reports whether an event on path should trigger processing.
// Output files and hidden files are ignored.
func Watched(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if strings.EqualFold(filepath.Ext(name), ".dxf") {
		return false
	}
	return imaging.Supported(path)
}

// Run processes drawings until ctx is cancelled, then releases the watcher.
// Drawings are processed one at a time in the order they settle.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	defer w.stopTimers()

	ready := make(chan string)
	logCtx := slog.With("dir", w.dir)
	logCtx.Info("Watching for drawings", "debounce", w.opts.Debounce)

	for {
		select {
		case <-ctx.Done():
			logCtx.Info("Stopped watching")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !Watched(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name, ready)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logCtx.Warn("Watcher error", "error", err)

		case path := <-ready:
			w.process(ctx, path)
		}
	}
}

// schedule (re)starts the quiet-period timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.opts.Debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	start := time.Now()
	outputs, err := w.opts.Process(ctx, path)
	res := Result{Path: path, Outputs: outputs, Err: err}

	if err != nil {
		slog.Error("Failed to process drawing", "path", path, "error", err)
	} else {
		slog.Info("Processed drawing", "path", path, "files", len(outputs),
			"elapsed", time.Since(start).Round(time.Millisecond))
	}
	if w.opts.OnResult != nil {
		w.opts.OnResult(res)
	}
}

// PageProcessor returns a Processor that runs page-mode processing with
// tracer and writes <name>_<view>.dxf files next to each drawing.
func PageProcessor(tracer detection.Tracer, opts pipeline.Options, dxfOpts dxf.Options) Processor {
	cache := imaging.NewImageCache()

	return func(ctx context.Context, path string) ([]string, error) {
		// The file changed on disk, so never serve a stale decode.
		cache.Evict(path)
		defer cache.Evict(path)

		img, err := cache.Load(path)
		if err != nil {
			return nil, err
		}

		res, err := pipeline.ProcessPage(ctx, tracer, img, nil, opts)
		if err != nil {
			return nil, err
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return res.WriteDXF(filepath.Dir(path), base, dxfOpts)
	}
}
