// Package watch uploads documents that appear or change in a directory.
// Bursts of events for one path (editors often write a file in several
// steps) collapse into a single upload once the path has been quiet for the
// debounce period.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"docchat/internal/api"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Uploader sends one document to the backend.
type Uploader interface {
	AddDocument(ctx context.Context, path string) (api.UploadResponse, error)
}

// Options configure a Watcher.
type Options struct {
	// Debounce is the quiet period before a changed path is uploaded.
	Debounce time.Duration
	// Filter selects which paths are uploaded. Nil accepts every path.
	Filter func(path string) bool
	Logger *zap.Logger
}

// Stats counts watcher activity.
type Stats struct {
	Events   int
	Uploaded int
	Failed   int
	Errors   int
}

// Watcher feeds new and modified documents in one directory to an Uploader.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	uploader Uploader
	filter   func(string) bool
	debounce time.Duration
	pending  map[string]time.Time
	stats    Stats
	log      *zap.Logger
}

// New creates a Watcher for dir. The directory must exist.
func New(dir string, uploader Uploader, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Watcher{
		watcher:  fw,
		dir:      dir,
		uploader: uploader,
		filter:   opts.Filter,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		log:      log,
	}, nil
}

// Run processes events until ctx is cancelled, then releases the watcher.
// Uploads run on the calling goroutine, one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.log.Info("watching directory", zap.String("dir", w.dir), zap.Duration("debounce", w.debounce))

	tick := w.debounce / 5
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped", zap.String("dir", w.dir))
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if w.filter != nil && !w.filter(event.Name) {
		return
	}

	w.log.Debug("document changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))

	w.mu.Lock()
	w.stats.Events++
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush uploads every path that has been quiet for the debounce period.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		if ctx.Err() != nil {
			return
		}
		resp, err := w.uploader.AddDocument(ctx, path)

		w.mu.Lock()
		if err != nil {
			w.stats.Failed++
		} else {
			w.stats.Uploaded++
		}
		w.mu.Unlock()

		if err != nil {
			w.log.Error("Error uploading file", zap.String("path", path), zap.Error(err))
			continue
		}
		w.log.Info("file uploaded", zap.String("path", path), zap.String("message", resp.Message))
	}
}
