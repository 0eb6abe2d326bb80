package ui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// graphChangedMsg reports that the graph file was written or replaced.
type graphChangedMsg struct{}

// watchErrMsg carries a watcher failure.
type watchErrMsg struct{ err error }

// graphWatcher watches one file. It watches the parent directory so editors
// that replace the file by rename are still seen.
type graphWatcher struct {
	w    *fsnotify.Watcher
	path string
}

func newGraphWatcher(path string) (*graphWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &graphWatcher{w: w, path: abs}, nil
}

// wait blocks until the next relevant change and reports it as a message.
func (g *graphWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-g.w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != g.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					return graphChangedMsg{}
				}
			case err, ok := <-g.w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (g *graphWatcher) Close() error {
	return g.w.Close()
}
