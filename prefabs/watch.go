package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Change names a prefab file whose contents settled after an edit.
type Change struct {
	Path string
	// Name is the file name relative to the watched directory, suitable for
	// Load.
	Name string
}

// Watcher reports prefab yaml files that changed on disk. Editors write a
// file in bursts, so a change is only sent once a file has been quiet for
// the debounce window.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan Change
	Errors  chan error

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fw,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.loop(watchDebounce)
	return w, nil
}

// Close stops the watcher and closes both channels. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.Changes)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) loop(quiet time.Duration) {
	defer close(w.done)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !isSpecFile(ev.Name) {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(quiet)
			}
			pending[ev.Name] = time.Now()

		case <-timer.C:
			now := time.Now()
			for path, at := range pending {
				if now.Sub(at) < quiet {
					continue
				}
				delete(pending, path)
				select {
				case w.Changes <- Change{Path: path, Name: filepath.Base(path)}:
				case <-w.stop:
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(quiet)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}

		case <-w.stop:
			return
		}
	}
}

func isSpecFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
