package service

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/ludo-technologies/jsbundle/internal/plugin"
)

// WatchService observes the graph's watched files and forwards change
// notifications to the plugin driver's watchChange hook. It does no
// rebuild diffing itself; the caller decides what a change triggers.
type WatchService struct {
	watcher  *fsnotify.Watcher
	driver   *plugin.Driver
	onChange func(id string)
}

// NewWatchService creates a watch service. onChange may be nil.
func NewWatchService(driver *plugin.Driver, onChange func(id string)) (*WatchService, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &WatchService{
		watcher:  watcher,
		driver:   driver,
		onChange: onChange,
	}, nil
}

// Add registers files to observe
func (s *WatchService) Add(files []string) error {
	for _, file := range files {
		if err := s.watcher.Add(filepath.FromSlash(file)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", file, err)
		}
	}
	return nil
}

// Run dispatches change notifications sequentially until the context
// is cancelled
func (s *WatchService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			id := filepath.ToSlash(event.Name)
			if s.driver != nil {
				s.driver.NotifyWatchChange(id)
			}
			if s.onChange != nil {
				s.onChange(id)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}
			if err != nil {
				return fmt.Errorf("watch error: %w", err)
			}
		}
	}
}

// Close stops the watcher
func (s *WatchService) Close() error {
	return s.watcher.Close()
}
