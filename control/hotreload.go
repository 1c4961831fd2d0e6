// control/hotreload.go
// Author: momentics <momentics@gmail.com>
//
// fsnotify-driven config hot reload: re-reads the watched YAML file into
// the store whenever it changes on disk.

package control

import (
	"log"

	"github.com/fsnotify/fsnotify"
)

// ConfigWatcher reloads a ConfigStore from a file on filesystem changes.
type ConfigWatcher struct {
	w    *fsnotify.Watcher
	done chan struct{}
}

// WatchFile loads path into cs now and reloads it on every write or
// create event until Close. Store listeners fire on each reload.
func WatchFile(cs *ConfigStore, path string) (*ConfigWatcher, error) {
	if err := cs.LoadFile(path); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	cw := &ConfigWatcher{w: w, done: make(chan struct{})}
	go cw.run(cs, path)
	return cw, nil
}

func (cw *ConfigWatcher) run(cs *ConfigStore, path string) {
	for {
		select {
		case ev, ok := <-cw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := cs.LoadFile(path); err != nil {
				log.Printf("[control] hot reload of %s failed: %v", path, err)
			}
		case err, ok := <-cw.w.Errors:
			if !ok {
				return
			}
			log.Printf("[control] watcher error: %v", err)
		case <-cw.done:
			return
		}
	}
}

// Close stops the watcher.
func (cw *ConfigWatcher) Close() error {
	close(cw.done)
	return cw.w.Close()
}
