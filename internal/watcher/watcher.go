package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/giantswarm/authsession/pkg/logging"
)

const (
	// DefaultPollInterval is the fallback polling interval when fsnotify is
	// not available.
	DefaultPollInterval = 2 * time.Second

	// DefaultDebounceInterval is the time to wait after the last change
	// before calling OnChange.
	DefaultDebounceInterval = 200 * time.Millisecond
)

// Config holds configuration for the token file watcher.
type Config struct {
	// Dir is the storage directory.
	Dir string

	// Files are the file names in Dir to watch. Changes to other files are
	// ignored.
	Files []string

	// PollInterval is the fallback polling interval.
	PollInterval time.Duration

	// Debounce is the quiet period before OnChange fires.
	Debounce time.Duration

	// OnChange is called when a watched file is written, created, removed
	// or renamed.
	OnChange func()
}

// Watcher monitors the token storage for changes made by other processes,
// such as a login or logout in another terminal. It uses fsnotify with a
// fallback to polling where fsnotify is unavailable.
type Watcher struct {
	mu sync.Mutex

	config Config
	files  map[string]bool

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool

	// lastSeen tracks modification times for polling; a zero time marks a
	// file that did not exist
	lastSeen map[string]time.Time

	debounceTimer *time.Timer
	debounceMu    sync.Mutex
}

// New creates a watcher.
func New(config Config) *Watcher {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounceInterval
	}

	files := make(map[string]bool, len(config.Files))
	for _, f := range config.Files {
		files[f] = true
	}

	return &Watcher{
		config:   config,
		files:    files,
		lastSeen: make(map[string]time.Time),
	}
}

// Start begins watching. It is a no-op when already running.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.stopCh = make(chan struct{})
	w.running = true

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn("TokenWatcher", "fsnotify not available, falling back to polling: %v", err)
		go w.poll(w.stopCh)
		return nil
	}

	if err := watcher.Add(w.config.Dir); err != nil {
		logging.Warn("TokenWatcher", "Failed to watch directory %s, falling back to polling: %v", w.config.Dir, err)
		watcher.Close()
		go w.poll(w.stopCh)
		return nil
	}
	w.fsWatcher = watcher

	go w.processEvents(w.stopCh, watcher.Events, watcher.Errors)

	logging.Info("TokenWatcher", "Watching %s for token changes", w.config.Dir)
	return nil
}

func (w *Watcher) processEvents(stopCh <-chan struct{}, eventsCh <-chan fsnotify.Event, errorsCh <-chan error) {
	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("TokenWatcher", err, "fsnotify error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !w.files[filepath.Base(event.Name)] {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	logging.Debug("TokenWatcher", "Token file changed: %s (%s)", event.Name, event.Op)
	w.triggerDebounced()
}

func (w *Watcher) triggerDebounced() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}

	w.debounceTimer = time.AfterFunc(w.config.Debounce, func() {
		w.mu.Lock()
		running := w.running
		callback := w.config.OnChange
		w.mu.Unlock()

		if running && callback != nil {
			callback()
		}
	})
}

func (w *Watcher) poll(stopCh <-chan struct{}) {
	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	w.checkForChanges()

	for {
		select {
		case <-stopCh:
			return

		case <-ticker.C:
			if w.checkForChanges() {
				logging.Debug("TokenWatcher", "Token file changes detected via polling")
				w.triggerDebounced()
			}
		}
	}
}

// checkForChanges reports whether any watched file was modified, created
// or removed since the previous call. The first call only records state.
func (w *Watcher) checkForChanges() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	changed := false
	for name := range w.files {
		path := filepath.Join(w.config.Dir, name)

		var current time.Time
		if info, err := os.Stat(path); err == nil {
			current = info.ModTime()
		}

		if last, seen := w.lastSeen[path]; seen && !current.Equal(last) {
			changed = true
		}
		w.lastSeen[path] = current
	}
	return changed
}

// Stop stops the watcher and cancels a pending callback.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMu.Unlock()

	if w.fsWatcher != nil {
		if err := w.fsWatcher.Close(); err != nil {
			logging.Warn("TokenWatcher", "Error closing fsnotify watcher: %v", err)
		}
		w.fsWatcher = nil
	}

	logging.Info("TokenWatcher", "Stopped token watcher")
	return nil
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
