package tui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

type storeChangedMsg struct{}

type watchErrMsg struct {
	err error
}

// watcher reports writes to the store file made by other processes. It
// watches the parent directory so atomic renames are seen too.
type watcher struct {
	fs   *fsnotify.Watcher
	path string
}

func newWatcher(path string) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, err
	}
	return &watcher{fs: fs, path: abs}, nil
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

func (w *watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// wait blocks until the store changes, then keeps absorbing events until the
// directory has been quiet for watchDebounce. It returns nil once the watcher
// is closed.
func (w *watcher) wait() tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.fs.Events:
				if !ok {
					return nil
				}
				if !w.relevant(ev) {
					continue
				}
				w.settle()
				return storeChangedMsg{}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (w *watcher) settle() {
	timer := time.NewTimer(watchDebounce)
	defer timer.Stop()
	for {
		select {
		case _, ok := <-w.fs.Events:
			if !ok {
				return
			}
			timer.Reset(watchDebounce)
		case <-timer.C:
			return
		}
	}
}
