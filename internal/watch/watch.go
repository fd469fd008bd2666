package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// debounceWindow collapses editor save bursts into a single callback run.
const debounceWindow = 800 * time.Millisecond

// Watcher re-runs a callback when files under a directory change.
type Watcher struct {
	dir      string
	onChange func()
	fsw      *fsnotify.Watcher
}

// New watches dir and its subdirectories.
func New(dir string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{dir: dir, onChange: onChange, fsw: fsw}
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if addErr := fsw.Add(path); addErr != nil {
				log.Warn().Str("path", path).Err(addErr).Msg("could not watch directory")
			}
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return w, nil
}

// Close releases the underlying watcher. Safe to call after Run returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run blocks, invoking the callback after each debounced burst of write or
// create events, until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	pending := false
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				pending = true
				debounce.Reset(debounceWindow)
			}
		case <-debounce.C:
			if pending {
				pending = false
				log.Debug().Str("dir", w.dir).Msg("change detected")
				w.onChange()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}
