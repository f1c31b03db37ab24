package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ludo-technologies/jsbundle/internal/plugin"
)

func TestWatchServiceForwardsChanges(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.js")
	if err := os.WriteFile(file, []byte("export const x = 1;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	notified := make(chan string, 4)
	driver := plugin.NewDriver([]plugin.Plugin{{
		Name: "recorder",
		WatchChange: func(id string) {
			notified <- id
		},
	}})

	changed := make(chan string, 4)
	watcher, err := NewWatchService(driver, func(id string) {
		changed <- id
	})
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add([]string{filepath.ToSlash(file)}); err != nil {
		t.Fatalf("Failed to add watch: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go func() { _ = watcher.Run(ctx) }()

	if err := os.WriteFile(file, []byte("export const x = 2;\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case id := <-notified:
		if filepath.Base(id) != "a.js" {
			t.Errorf("Expected notification for a.js, got %s", id)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for the watchChange hook")
	}
	select {
	case id := <-changed:
		if filepath.Base(id) != "a.js" {
			t.Errorf("Expected change callback for a.js, got %s", id)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for the change callback")
	}
}

func TestWatchServiceAddMissingFile(t *testing.T) {
	watcher, err := NewWatchService(nil, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	defer watcher.Close()

	if err := watcher.Add([]string{"/definitely/not/a/file.js"}); err == nil {
		t.Error("Expected error when watching a missing file")
	}
}
