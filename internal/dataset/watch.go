package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/framelabel/internal/logging"
)

// DefaultDebounce is how long the watcher waits for a burst of file events to
// settle before reporting a change.
const DefaultDebounce = 150 * time.Millisecond

// watchDepth is the number of directory levels below base that are watched:
// base itself, batches and subjects.
const watchDepth = 2

// Watcher reports when folders or frames appear or disappear below a base
// folder. Bursts of events are coalesced into a single notification.
type Watcher struct {
	watcher  *fsnotify.Watcher
	base     string
	debounce time.Duration
	logger   *logging.Logger

	changes chan struct{}
	stopCh  chan struct{}

	mu      sync.Mutex
	stopped bool
}

// NewWatcher creates a Watcher for base. Call Start to begin delivering changes.
func NewWatcher(base string, logger *logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger()
	}

	w := &Watcher{
		watcher:  fw,
		base:     filepath.Clean(base),
		debounce: DefaultDebounce,
		logger:   logger.With("component", "watcher"),
		changes:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
	if err := w.watchTree(w.base); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce changes the settle period. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Changes returns the notification channel. At most one notification is
// buffered; a receiver that falls behind sees a single pending change. The
// channel is closed once the watcher stops.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	return w.watcher.Close()
}

// watchTree adds root and its sub-directories down to watchDepth levels
// below base.
func (w *Watcher) watchTree(root string) error {
	if err := w.watcher.Add(root); err != nil {
		return err
	}
	if w.depth(root) >= watchDepth {
		return nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := w.watchTree(filepath.Join(root, entry.Name())); err != nil {
			w.logger.Warn("cannot watch folder", "path", filepath.Join(root, entry.Name()), "error", err.Error())
		}
	}
	return nil
}

// depth returns how many levels path sits below base.
func (w *Watcher) depth(path string) int {
	rel, err := filepath.Rel(w.base, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

func (w *Watcher) loop() {
	defer close(w.changes)

	timer := time.NewTimer(0)
	<-timer.C
	pending := false

	for {
		select {
		case <-w.stopCh:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 && w.depth(event.Name) <= watchDepth {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.watchTree(event.Name)
				}
			}
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err.Error())
		}
	}
}

// relevant filters out content writes and hidden files; only entries being
// added, removed or renamed change the listings.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
