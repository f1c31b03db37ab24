package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/config"
)

func writeSource(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBundleServiceBuild(t *testing.T) {
	dir := t.TempDir()
	main := writeSource(t, dir, "main.js", `import { greet } from './greet'; export const msg = greet('world');`)
	writeSource(t, dir, "greet.js", `export function greet(name) { return 'hello ' + name; } export const unused = 1;`)

	cfg := config.DefaultConfig()
	cfg.Input = map[string]string{"main": main}
	cfg.EntryOrder = []string{"main"}

	svc := NewBundleService(cfg, nil, nil)
	result, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(result.Chunks))
	}
	chunk := result.Chunks[0]
	if len(chunk.OrderedModules) != 2 {
		t.Errorf("Expected 2 modules in the chunk, got %d", len(chunk.OrderedModules))
	}
	if _, ok := chunk.Exports["msg"]; !ok {
		t.Errorf("Expected chunk to export msg, got %v", chunk.Exports)
	}
	if result.Report.Version == "" || len(result.Report.Chunks) != 1 {
		t.Errorf("Expected a populated report, got %+v", result.Report)
	}
}

func TestBundleServiceMissingInput(t *testing.T) {
	cfg := config.DefaultConfig()
	svc := NewBundleService(cfg, nil, nil)
	if _, err := svc.Build(context.Background()); err == nil {
		t.Error("Expected missing input to fail")
	}
}

func TestBundleServiceStrictDeprecation(t *testing.T) {
	dir := t.TempDir()
	main := writeSource(t, dir, "main.js", `export const x = 1;`)

	cfg := config.DefaultConfig()
	cfg.Input = map[string]string{"main": main}
	cfg.EntryOrder = []string{"main"}
	cfg.Treeshake.PureExternalModules = true
	cfg.StrictDeprecations = true

	svc := NewBundleService(cfg, nil, nil)
	if _, err := svc.Build(context.Background()); err == nil {
		t.Error("Expected strict deprecations to fail the build")
	}
}

func TestBundleServiceWarningHandler(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.js", `import './b.js'; export const x = 1;`)
	writeSource(t, dir, "b.js", `import './a.js';`)

	cfg := config.DefaultConfig()
	cfg.Input = map[string]string{"main": a}
	cfg.EntryOrder = []string{"main"}

	var received []domain.Warning
	svc := NewBundleService(cfg, nil, nil)
	svc.SetWarningHandler(func(w domain.Warning) {
		received = append(received, w)
	})

	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	found := false
	for _, w := range received {
		if w.Code == domain.WarnCircularDependency {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected the circular dependency warning to reach the handler, got %v", received)
	}
}
