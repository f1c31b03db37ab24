package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/jsbundle/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Treeshake.Enabled {
		t.Error("Expected tree-shaking enabled by default")
	}
	if cfg.PreserveEntrySignatures != "strict" {
		t.Errorf("Expected strict entry signatures, got %q", cfg.PreserveEntrySignatures)
	}
	if cfg.CacheExpiry != 10 {
		t.Errorf("Expected cache expiry 10, got %d", cfg.CacheExpiry)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreserveEntrySignatures = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected invalid preserve_entry_signatures to fail validation")
	}

	cfg = DefaultConfig()
	cfg.Treeshake.ModuleSideEffects = "maybe"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected invalid module_side_effects to fail validation")
	}

	cfg = DefaultConfig()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected invalid output format to fail validation")
	}
}

func TestToInputOptionsDeprecationMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Treeshake.PureExternalModules = true

	opts, deprecations := cfg.ToInputOptions()
	if len(deprecations) != 1 {
		t.Fatalf("Expected 1 deprecation message, got %d", len(deprecations))
	}
	// pure_external_modules maps to moduleSideEffects: no-external
	if opts.Treeshake.ModuleSideEffects.HasSideEffects("ext", true) {
		t.Error("Expected external modules treated as pure")
	}
	if !opts.Treeshake.ModuleSideEffects.HasSideEffects("local.js", false) {
		t.Error("Expected internal modules to keep side effects")
	}
}

func TestToInputOptionsSignatureMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PreserveEntrySignatures = "allow-extension"
	opts, _ := cfg.ToInputOptions()
	if opts.PreserveEntrySignatures != domain.PreserveSignatureAllowExtension {
		t.Errorf("Expected allow-extension, got %s", opts.PreserveEntrySignatures)
	}

	cfg.PreserveEntrySignatures = "none"
	opts, _ = cfg.ToInputOptions()
	if opts.PreserveEntrySignatures != domain.PreserveSignatureNone {
		t.Errorf("Expected none, got %s", opts.PreserveEntrySignatures)
	}
}

func TestToInputOptionsEntryOrderFallbackDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input = map[string]string{
		"zeta":  "src/zeta.js",
		"alpha": "src/alpha.js",
		"mid":   "src/mid.js",
	}

	opts, _ := cfg.ToInputOptions()
	if len(opts.EntryOrder) != 3 {
		t.Fatalf("Expected 3 entries, got %v", opts.EntryOrder)
	}
	if opts.EntryOrder[0] != "alpha" || opts.EntryOrder[1] != "mid" || opts.EntryOrder[2] != "zeta" {
		t.Errorf("Expected sorted fallback order [alpha mid zeta], got %v", opts.EntryOrder)
	}

	// Repeated conversions must agree so chunk layout stays stable
	again, _ := cfg.ToInputOptions()
	for i := range opts.EntryOrder {
		if opts.EntryOrder[i] != again.EntryOrder[i] {
			t.Fatalf("Entry order differs between conversions: %v vs %v",
				opts.EntryOrder, again.EntryOrder)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundler.yaml")
	content := `
input:
  main: src/main.js
entry_order:
  - main
preserve_modules: true
treeshake:
  enabled: true
  module_side_effects: no-external
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Input["main"] != "src/main.js" {
		t.Errorf("Expected input main=src/main.js, got %v", cfg.Input)
	}
	if !cfg.PreserveModules {
		t.Error("Expected preserve_modules true")
	}
	if cfg.Treeshake.ModuleSideEffects != "no-external" {
		t.Errorf("Expected no-external, got %q", cfg.Treeshake.ModuleSideEffects)
	}
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(root, ".jsbundle.yaml")
	if err := os.WriteFile(configPath, []byte("input: {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	found, ok := FindConfigFile(nested)
	if !ok || found != configPath {
		t.Errorf("Expected to find %s, got %s (%v)", configPath, found, ok)
	}
}

func TestGenerateTemplate(t *testing.T) {
	content, err := GenerateTemplate(ProjectTypeLibrary, "src/index.ts")
	if err != nil {
		t.Fatalf("Failed to generate template: %v", err)
	}
	if content == "" {
		t.Fatal("Expected non-empty template")
	}
	if _, err := GenerateTemplate(ProjectType("spaceship"), "x.js"); err == nil {
		t.Error("Expected unknown project type to fail")
	}
}
