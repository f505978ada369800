/*
reloader.go - Dataset reloader for development

PURPOSE:
  Watches the dataset directory and republishes the snapshot when a file
  changes, so analysts editing JSON see the result on the next request
  without restarting the server.

DESIGN:
  - One background goroutine reads fsnotify events
  - Events are debounced: a burst of writes (an editor saving several
    files) triggers a single reload after the quiet period
  - A failed load keeps the previous snapshot and logs the error
  - A snapshot with consistency errors is still published; the report is
    logged and served at /api/dataset/report

CONFIGURATION:
  - Debounce: quiet period before reloading (default: 300ms)

USAGE:
  reloader := NewReloader(dir, factory.NewDatasetFactory(), data, logger)
  if err := reloader.Start(); err != nil { ... }
  // ... later
  reloader.Stop()

SEE ALSO:
  - handlers.go: ReloadDataset endpoint (manual reload)
  - factory/dataset.go: DatasetFactory.Load
  - store/memory: the published Catalog
*/
package api

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/warp/welfare-intel/store/memory"
	"github.com/warp/welfare-intel/welfare"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 300 * time.Millisecond

// SnapshotLoader builds a snapshot from a dataset directory.
type SnapshotLoader interface {
	Load(ctx context.Context, dir string) (*welfare.Snapshot, error)
}

// Reloader republishes the dataset when its files change.
type Reloader struct {
	Dir      string
	Loader   SnapshotLoader
	Data     *memory.Memory
	Debounce time.Duration
	Log      *zap.Logger

	watcher *fsnotify.Watcher
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	reload  sync.Mutex
}

// NewReloader creates a reloader for dir.
func NewReloader(dir string, loader SnapshotLoader, data *memory.Memory, logger *zap.Logger) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reloader{
		Dir:      dir,
		Loader:   loader,
		Data:     data,
		Debounce: DefaultDebounce,
		Log:      logger.Named("reloader"),
	}
}

// Start begins watching. Calling Start on a running reloader is a no-op.
func (rl *Reloader) Start() error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watchTree(watcher, rl.Dir); err != nil {
		watcher.Close()
		return err
	}

	rl.watcher = watcher
	rl.stop = make(chan struct{})
	rl.wg.Add(1)
	go rl.run(watcher, rl.stop)

	rl.Log.Info("started", zap.String("dir", rl.Dir), zap.Duration("debounce", rl.Debounce))
	return nil
}

// Stop stops watching and waits for the goroutine to exit.
func (rl *Reloader) Stop() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.watcher == nil {
		return
	}
	close(rl.stop)
	rl.wg.Wait()
	rl.watcher.Close()
	rl.watcher = nil
	rl.Log.Info("stopped")
}

// RunNow loads the dataset and publishes it. On error the current snapshot
// stays in place.
func (rl *Reloader) RunNow(ctx context.Context) (*welfare.Report, error) {
	rl.reload.Lock()
	defer rl.reload.Unlock()

	start := time.Now()
	snap, err := rl.Loader.Load(ctx, rl.Dir)
	if err != nil {
		rl.Log.Error("reload failed, keeping current dataset", zap.String("dir", rl.Dir), zap.Error(err))
		return nil, err
	}
	report := rl.Data.Replace(snap)

	fields := []zap.Field{
		zap.String("snapshot", snap.ID),
		zap.String("summary", report.Summary),
		zap.Duration("took", time.Since(start)),
	}
	if report.Valid {
		rl.Log.Info("dataset reloaded", fields...)
	} else {
		rl.Log.Warn("dataset reloaded with errors", fields...)
	}
	return report, nil
}

func (rl *Reloader) run(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	defer rl.wg.Done()

	debounce := rl.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// New subdirectories (facility/) need their own watch.
				if err := watchTree(watcher, ev.Name); err != nil {
					rl.Log.Debug("watch new path", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			rl.RunNow(context.Background())

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			rl.Log.Warn("watcher error", zap.Error(err))

		case <-stop:
			return
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".json", ".yaml", ".yml", "":
		return true
	}
	return false
}

// watchTree adds root and every directory below it.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
