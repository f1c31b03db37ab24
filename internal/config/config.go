package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/constants"
)

// Default performance settings
const (
	// DefaultMaxGoroutines is the default performance.max_goroutines
	// value; module loading is not bounded by it
	DefaultMaxGoroutines = 4

	// DefaultTimeoutSeconds bounds one build
	DefaultTimeoutSeconds = 300
)

// TreeshakeConfig holds the includer options in their config-file shape
type TreeshakeConfig struct {
	// Enabled turns tree-shaking on
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Annotations honours pure-call annotations in source comments
	Annotations bool `json:"annotations" mapstructure:"annotations" yaml:"annotations"`

	// ModuleSideEffects is "true", "false" or "no-external"
	ModuleSideEffects string `json:"moduleSideEffects" mapstructure:"module_side_effects" yaml:"module_side_effects"`

	// PropertyReadSideEffects treats unknown property reads as effects
	PropertyReadSideEffects bool `json:"propertyReadSideEffects" mapstructure:"property_read_side_effects" yaml:"property_read_side_effects"`

	// PureExternalModules is deprecated; equivalent to
	// ModuleSideEffects: "no-external"
	PureExternalModules bool `json:"pureExternalModules,omitempty" mapstructure:"pure_external_modules" yaml:"pure_external_modules,omitempty"`

	// TryCatchDeoptimization disables value analysis in try blocks
	TryCatchDeoptimization bool `json:"tryCatchDeoptimization" mapstructure:"try_catch_deoptimization" yaml:"try_catch_deoptimization"`

	// UnknownGlobalSideEffects treats unknown global reads as effects
	UnknownGlobalSideEffects bool `json:"unknownGlobalSideEffects" mapstructure:"unknown_global_side_effects" yaml:"unknown_global_side_effects"`
}

// OutputConfig holds report output settings
type OutputConfig struct {
	// Format is text, json or dot
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Path is the report destination; empty means stdout
	Path string `json:"path,omitempty" mapstructure:"path" yaml:"path,omitempty"`
}

// PerformanceConfig holds concurrency settings
type PerformanceConfig struct {
	// MaxGoroutines bounds parallel tasks
	MaxGoroutines int `json:"maxGoroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds one build
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// Config is the main configuration structure
type Config struct {
	// Input maps output names to entry ids
	Input map[string]string `json:"input" mapstructure:"input" yaml:"input"`

	// EntryOrder preserves the declaration order of Input
	EntryOrder []string `json:"entryOrder,omitempty" mapstructure:"entry_order" yaml:"entry_order,omitempty"`

	// External lists specifiers treated as external
	External []string `json:"external,omitempty" mapstructure:"external" yaml:"external,omitempty"`

	// Context is the default top-level `this` identifier
	Context string `json:"context,omitempty" mapstructure:"context" yaml:"context,omitempty"`

	// ModuleContext overrides Context per module id
	ModuleContext map[string]string `json:"moduleContext,omitempty" mapstructure:"module_context" yaml:"module_context,omitempty"`

	// PreserveSymlinks skips symlink canonicalisation
	PreserveSymlinks bool `json:"preserveSymlinks" mapstructure:"preserve_symlinks" yaml:"preserve_symlinks"`

	// PreserveModules emits one chunk per module
	PreserveModules bool `json:"preserveModules" mapstructure:"preserve_modules" yaml:"preserve_modules"`

	// InlineDynamicImports folds everything into one chunk
	InlineDynamicImports bool `json:"inlineDynamicImports" mapstructure:"inline_dynamic_imports" yaml:"inline_dynamic_imports"`

	// PreserveEntrySignatures is none, strict or allow-extension
	PreserveEntrySignatures string `json:"preserveEntrySignatures" mapstructure:"preserve_entry_signatures" yaml:"preserve_entry_signatures"`

	// ShimMissingExports substitutes shims for missing exports
	ShimMissingExports bool `json:"shimMissingExports" mapstructure:"shim_missing_exports" yaml:"shim_missing_exports"`

	// Treeshake configures the includer
	Treeshake TreeshakeConfig `json:"treeshake" mapstructure:"treeshake" yaml:"treeshake"`

	// ManualChunks assigns seed ids to named chunks
	ManualChunks map[string][]string `json:"manualChunks,omitempty" mapstructure:"manual_chunks" yaml:"manual_chunks,omitempty"`

	// StrictDeprecations escalates deprecation warnings to errors
	StrictDeprecations bool `json:"strictDeprecations" mapstructure:"strict_deprecations" yaml:"strict_deprecations"`

	// CacheExpiry is the plugin cache eviction age
	CacheExpiry int `json:"cacheExpiry" mapstructure:"cache_expiry" yaml:"cache_expiry"`

	// Output configures build reports
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance configures concurrency
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`
}

// LoadFromFile reads a config file into a Config
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile searches the directory chain upward for the default
// config file name
func FindConfigFile(startDir string) (string, bool) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, constants.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Validate checks cross-field consistency
func (c *Config) Validate() error {
	switch c.PreserveEntrySignatures {
	case "", "none", "strict", "allow-extension":
	default:
		return fmt.Errorf("invalid preserve_entry_signatures %q", c.PreserveEntrySignatures)
	}
	switch c.Treeshake.ModuleSideEffects {
	case "", "true", "false", "no-external":
	default:
		return fmt.Errorf("invalid treeshake.module_side_effects %q", c.Treeshake.ModuleSideEffects)
	}
	switch c.Output.Format {
	case "", constants.OutputFormatText, constants.OutputFormatJSON, constants.OutputFormatDOT:
	default:
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	return nil
}

// ToInputOptions converts the file shape into the engine's options.
// The returned deprecation messages must be routed through the graph's
// deprecation path so strict mode can escalate them.
func (c *Config) ToInputOptions() (domain.InputOptions, []string) {
	var deprecations []string

	treeshake := domain.DefaultTreeshakeOptions()
	treeshake.Enabled = c.Treeshake.Enabled
	treeshake.Annotations = c.Treeshake.Annotations
	treeshake.PropertyReadSideEffects = c.Treeshake.PropertyReadSideEffects
	treeshake.TryCatchDeoptimization = c.Treeshake.TryCatchDeoptimization
	treeshake.UnknownGlobalSideEffects = c.Treeshake.UnknownGlobalSideEffects

	switch c.Treeshake.ModuleSideEffects {
	case "false":
		treeshake.ModuleSideEffects = domain.ModuleSideEffectsPolicy{Value: false}
	case "no-external":
		treeshake.ModuleSideEffects = domain.ModuleSideEffectsPolicy{NoExternal: true}
	default:
		treeshake.ModuleSideEffects = domain.ModuleSideEffectsPolicy{Value: true}
	}
	if c.Treeshake.PureExternalModules {
		deprecations = append(deprecations,
			"treeshake.pure_external_modules is deprecated, use treeshake.module_side_effects: no-external instead")
		treeshake.ModuleSideEffects = domain.ModuleSideEffectsPolicy{NoExternal: true}
	}

	preserve := domain.PreserveSignatureStrict
	switch c.PreserveEntrySignatures {
	case "none":
		preserve = domain.PreserveSignatureNone
	case "allow-extension":
		preserve = domain.PreserveSignatureAllowExtension
	}

	// Without an explicit entry_order the declaration order of a YAML
	// map is lost, so fall back to a sorted order to keep execution
	// order and chunk layout deterministic across runs
	entryOrder := c.EntryOrder
	if len(entryOrder) == 0 {
		for name := range c.Input {
			entryOrder = append(entryOrder, name)
		}
		sort.Strings(entryOrder)
	}

	cacheExpiry := c.CacheExpiry
	if cacheExpiry <= 0 {
		cacheExpiry = constants.DefaultCacheExpiry
	}

	return domain.InputOptions{
		Input:                   c.Input,
		EntryOrder:              entryOrder,
		External:                c.External,
		Context:                 c.Context,
		ModuleContext:           c.ModuleContext,
		PreserveSymlinks:        c.PreserveSymlinks,
		PreserveModules:         c.PreserveModules,
		InlineDynamicImports:    c.InlineDynamicImports,
		PreserveEntrySignatures: preserve,
		ShimMissingExports:      c.ShimMissingExports,
		Treeshake:               treeshake,
		ManualChunks:            c.ManualChunks,
		CacheExpiry:             cacheExpiry,
		StrictDeprecations:      c.StrictDeprecations,
	}, deprecations
}
