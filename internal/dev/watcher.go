package dev

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/routegen/pkg/router"
)

// Op is the kind of a watch event.
type Op int

const (
	// OpStartup is the synthetic event logged before the first rebuild.
	OpStartup Op = iota
	OpFileAdded
	OpFileRemoved
	OpDirAdded
	OpDirRemoved
)

// String returns the label used in logs and metrics.
func (o Op) String() string {
	switch o {
	case OpStartup:
		return "startup"
	case OpFileAdded:
		return "file_added"
	case OpFileRemoved:
		return "file_removed"
	case OpDirAdded:
		return "dir_added"
	case OpDirRemoved:
		return "dir_removed"
	default:
		return "unknown"
	}
}

// Event is a structural change under the route root.
type Event struct {
	Op   Op
	Path string
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Root is the directory watched recursively.
	Root string

	// Conventions supply the ignore rules. Conventions.Root is not used.
	Conventions router.Conventions
}

// Watcher reports files and directories appearing and disappearing under a
// root. Content writes and permission changes are not reported.
type Watcher struct {
	fsw    *fsnotify.Watcher
	root   string
	ignore *ignoreMatcher

	events chan Event
	errors chan error

	mu   sync.Mutex
	dirs map[string]struct{}

	closeOnce sync.Once
}

// NewWatcher creates a watcher and registers every directory under the root.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, router.ErrNotDirectory
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		root:   root,
		ignore: newIgnoreMatcher(root, cfg.Conventions),
		events: make(chan Event, 64),
		errors: make(chan error, 8),
		dirs:   make(map[string]struct{}),
	}
	if _, err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events returns the event channel. It is closed when Start returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed when Start returns.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Root returns the absolute watched root.
func (w *Watcher) Root() string {
	return w.root
}

// Start forwards translated events until ctx is done or the watcher is
// closed.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.events)
	defer close(w.errors)

	for {
		select {
		case <-ctx.Done():
			w.Close()
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			for _, e := range w.translate(ev) {
				select {
				case w.events <- e:
				case <-ctx.Done():
					w.Close()
					return
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-ctx.Done():
				w.Close()
				return
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}

// translate maps one fsnotify event to zero or more watch events.
func (w *Watcher) translate(ev fsnotify.Event) []Event {
	name := filepath.Clean(ev.Name)
	if w.ignore.shouldIgnore(name) {
		return nil
	}

	switch {
	case ev.Has(fsnotify.Create):
		info, err := os.Lstat(name)
		if err != nil {
			// Already gone again.
			return nil
		}
		if !info.IsDir() {
			return []Event{{Op: OpFileAdded, Path: name}}
		}
		added, err := w.addTree(name)
		if err != nil {
			w.sendError(err)
		}
		return added

	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if w.forgetTree(name) {
			return []Event{{Op: OpDirRemoved, Path: name}}
		}
		return []Event{{Op: OpFileRemoved, Path: name}}
	}

	return nil
}

// addTree watches dir and its subdirectories and returns add events for
// everything found beneath dir, dir itself included unless it is the root.
func (w *Watcher) addTree(dir string) ([]Event, error) {
	var events []Event
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if w.ignore.shouldIgnore(p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			if p != dir {
				events = append(events, Event{Op: OpFileAdded, Path: p})
			}
			return nil
		}

		w.mu.Lock()
		_, known := w.dirs[p]
		w.dirs[p] = struct{}{}
		w.mu.Unlock()
		if known {
			return nil
		}
		if err := w.fsw.Add(p); err != nil {
			return err
		}
		if p != w.root {
			events = append(events, Event{Op: OpDirAdded, Path: p})
		}
		return nil
	})
	return events, err
}

// forgetTree drops dir and its subdirectories from the watch set and reports
// whether dir was a watched directory.
func (w *Watcher) forgetTree(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dirs[dir]; !ok {
		return false
	}
	prefix := dir + string(filepath.Separator)
	for p := range w.dirs {
		if p == dir || strings.HasPrefix(p, prefix) {
			delete(w.dirs, p)
			// Removed directories drop their watch on their own; renamed
			// ones keep it under the old name.
			_ = w.fsw.Remove(p)
		}
	}
	return true
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// watchedDirs returns the number of watched directories.
func (w *Watcher) watchedDirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs)
}
