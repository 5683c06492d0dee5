package file

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/reportdraft/internal/logger"
)

// reloadOps are the events that can change a prompt's text.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Reloader is anything whose cached prompts can be dropped.
type Reloader interface {
	Reload()
}

// PromptWatcher reloads a prompt store whenever a .txt file in its
// directory changes, so long-running surfaces pick up edits.
type PromptWatcher struct {
	store    Reloader
	watcher  *fsnotify.Watcher
	onReload func(path string)

	done      chan struct{}
	closeOnce sync.Once
}

// NewPromptWatcher starts watching dir. The directory must exist; call
// PromptStore.Load once beforehand to create it. onReload may be nil; it
// is called after each reload with the changed file.
func NewPromptWatcher(store Reloader, dir string, onReload func(path string)) (*PromptWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create prompt watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch prompt directory %s: %w", dir, err)
	}

	pw := &PromptWatcher{
		store:    store,
		watcher:  w,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go pw.run()
	return pw, nil
}

func (pw *PromptWatcher) run() {
	defer close(pw.done)
	for {
		select {
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if !isPromptEvent(event) {
				continue
			}
			logger.Debug("prompts: %s changed (%s), reloading", filepath.Base(event.Name), event.Op)
			pw.store.Reload()
			if pw.onReload != nil {
				pw.onReload(event.Name)
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("prompts: watcher error: %v", err)
		}
	}
}

func isPromptEvent(event fsnotify.Event) bool {
	return event.Op&reloadOps != 0 && filepath.Ext(event.Name) == ".txt"
}

// Close stops watching. It is safe to call more than once.
func (pw *PromptWatcher) Close() error {
	var err error
	pw.closeOnce.Do(func() {
		err = pw.watcher.Close()
		<-pw.done
	})
	if err != nil && !errors.Is(err, fsnotify.ErrClosed) {
		return fmt.Errorf("close prompt watcher: %w", err)
	}
	return nil
}
