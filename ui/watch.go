package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ReloadFunc rebuilds the generator after the config file changed.
type ReloadFunc func() (Generator, error)

type (
	configChangedMsg struct{}
	configReloadedMsg struct {
		gen Generator
		err error
	}
)

// configWatcher reports writes to the config file. It watches the parent
// directory so editors that replace the file are noticed too.
type configWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

func newConfigWatcher(path string) *configWatcher {
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating fsnotify watcher", "error", err)
		return nil
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		log.Error("error adding dir to fsnotify watcher", "error", err)
		_ = w.Close()
		return nil
	}
	log.Info("fsnotify watching config", "path", abs)
	return &configWatcher{path: abs, watcher: w}
}

func (c *configWatcher) wait() tea.Msg {
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != c.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			return configChangedMsg{}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "path", c.path, "error", err)
		}
	}
}

func (c *configWatcher) close() {
	if c == nil {
		return
	}
	if err := c.watcher.Close(); err != nil {
		log.Debug("fsnotify close failed", "error", err)
	}
}

func reloadConfig(reload ReloadFunc) tea.Cmd {
	return func() tea.Msg {
		gen, err := reload()
		return configReloadedMsg{gen: gen, err: err}
	}
}
