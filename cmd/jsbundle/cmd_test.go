package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/jsbundle/internal/config"
)

func TestCommandsRegisterFlags(t *testing.T) {
	build := buildCmd()
	for _, flag := range []string{"config", "format", "output", "external",
		"no-treeshake", "preserve-modules", "inline-dynamic-imports",
		"preserve-entry-signatures", "watch"} {
		if build.Flags().Lookup(flag) == nil {
			t.Errorf("build command missing flag %s", flag)
		}
	}

	graph := graphCmd()
	for _, flag := range []string{"rank-dir", "no-legend", "output"} {
		if graph.Flags().Lookup(flag) == nil {
			t.Errorf("graph command missing flag %s", flag)
		}
	}

	initCommand := initCmd()
	for _, flag := range []string{"config", "force", "entry", "type", "interactive"} {
		if initCommand.Flags().Lookup(flag) == nil {
			t.Errorf("init command missing flag %s", flag)
		}
	}
}

func TestApplyBuildFlags(t *testing.T) {
	cmd := buildCmd()
	if err := cmd.Flags().Set("no-treeshake", "true"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("preserve-modules", "true"); err != nil {
		t.Fatal(err)
	}
	buildNoTreeshake = true
	buildPreserveModules = true

	cfg := config.DefaultConfig()
	applyBuildFlags(cmd, cfg)

	if cfg.Treeshake.Enabled {
		t.Error("Expected tree-shaking disabled via flag")
	}
	if !cfg.PreserveModules {
		t.Error("Expected preserve-modules enabled via flag")
	}
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".jsbundle.yaml")

	cmd := initCmd()
	if err := cmd.Flags().Set("config", configPath); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("type", "library"); err != nil {
		t.Fatal(err)
	}
	if err := runInit(cmd, nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Expected config written: %v", err)
	}
	if !strings.Contains(string(data), "preserve_modules: true") {
		t.Errorf("Expected library preset in config, got:\n%s", data)
	}

	// Without --force a second init must refuse to overwrite
	if err := runInit(cmd, nil); err == nil {
		t.Error("Expected second init to fail without --force")
	}
}
