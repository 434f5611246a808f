// Package watch invalidates the alias index when manifest directories
// change.
//
// Events are debounced: package managers touch many files in a burst, and
// one invalidation covers all of them. The index is only marked stale; the
// rebuild happens lazily on next access.
package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/logging"
)

// Watcher listens on manifest search paths and fires a callback after a
// quiet period follows a change.
type Watcher struct {
	fsw        *fsnotify.Watcher
	invalidate func()
	debounce   time.Duration
	logger     *logging.Logger
	done       chan struct{}
}

// New creates a watcher over dirs. Missing directories are skipped; a
// watcher with nothing to watch is still valid and simply never fires.
func New(dirs []string, debounce time.Duration, invalidate func(), logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if debounce <= 0 {
		debounce = 2 * time.Second
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := 0
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			logger.Debug("Not watching directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched++
	}
	logger.Info("Watching manifest directories", zap.Int("count", watched))

	return &Watcher{
		fsw:        fsw,
		invalidate: invalidate,
		debounce:   debounce,
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// Start runs the event loop until Close.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.logger.Debug("Manifest change", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("Manifest directories changed, invalidating alias index")
			w.invalidate()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
