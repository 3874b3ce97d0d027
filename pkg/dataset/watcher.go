package dataset

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chronolab/chronopack/pkg/log"
)

// watchDebounce coalesces bursts of writes into a single change event.
const watchDebounce = 250 * time.Millisecond

// Watcher monitors a dataset directory via fsnotify and reports when files
// matching the pattern are written or created. Long-running training jobs
// use it to re-open the dataset between epochs instead of restarting.
type Watcher struct {
	dir     string
	pattern string // base-name glob, e.g. "*.jsonl"
	logger  log.Logger

	mu       sync.Mutex
	debounce *time.Timer
	changes  chan string
}

// NewWatcher creates a watcher for files matching pattern inside dir.
func NewWatcher(dir, pattern string, logger log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Watcher{
		dir:     dir,
		pattern: pattern,
		logger:  logger,
		changes: make(chan string, 1),
	}
}

// Changes delivers the path of the most recently changed file, debounced.
// The channel has capacity 1; unread notifications are coalesced.
func (w *Watcher) Changes() <-chan string { return w.changes }

// Run watches until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching dataset directory",
		log.String("dir", w.dir), log.String("pattern", w.pattern))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if match, _ := filepath.Match(w.pattern, name); !match {
				continue
			}
			w.notifyAfter(event.Name, watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("dataset watcher error", log.Err(err))
		}
	}
}

// notifyAfter schedules a debounced change notification.
func (w *Watcher) notifyAfter(path string, delay time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(delay, func() {
		select {
		case w.changes <- path:
		default:
		}
	})
}
