package domain

import "fmt"

// ModuleSideEffectsPolicy is the default liveness policy for module
// top-level statements: true, false, or "no-external"
type ModuleSideEffectsPolicy struct {
	// Value is the blanket policy when Fn is nil
	Value bool

	// NoExternal keeps internal modules effectful but treats external
	// modules as pure
	NoExternal bool

	// Fn, when set, decides per module id
	Fn func(id string, external bool) bool
}

// HasSideEffects applies the policy to one module id
func (p ModuleSideEffectsPolicy) HasSideEffects(id string, external bool) bool {
	if p.Fn != nil {
		return p.Fn(id, external)
	}
	if p.NoExternal {
		return !external
	}
	return p.Value
}

// TreeshakeOptions control the includer's liveness analysis
type TreeshakeOptions struct {
	// Enabled turns tree-shaking on; when false every statement of every
	// module is included
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// Annotations honours /*@__PURE__*/ call annotations
	Annotations bool `json:"annotations" mapstructure:"annotations" yaml:"annotations"`

	// ModuleSideEffects is the default liveness of top-level statements
	ModuleSideEffects ModuleSideEffectsPolicy `json:"-" yaml:"-"`

	// PropertyReadSideEffects treats reads of unknown properties as
	// side effects
	PropertyReadSideEffects bool `json:"property_read_side_effects" mapstructure:"property_read_side_effects" yaml:"property_read_side_effects"`

	// TryCatchDeoptimization disables value analysis inside try blocks
	TryCatchDeoptimization bool `json:"try_catch_deoptimization" mapstructure:"try_catch_deoptimization" yaml:"try_catch_deoptimization"`

	// UnknownGlobalSideEffects treats reads of unknown globals as
	// side effects
	UnknownGlobalSideEffects bool `json:"unknown_global_side_effects" mapstructure:"unknown_global_side_effects" yaml:"unknown_global_side_effects"`
}

// DefaultTreeshakeOptions returns the options rollout used when treeshake
// is simply enabled
func DefaultTreeshakeOptions() TreeshakeOptions {
	return TreeshakeOptions{
		Enabled:                  true,
		Annotations:              true,
		ModuleSideEffects:        ModuleSideEffectsPolicy{Value: true},
		PropertyReadSideEffects:  true,
		TryCatchDeoptimization:   true,
		UnknownGlobalSideEffects: true,
	}
}

// ExternalFn classifies a specifier as external
type ExternalFn func(id string, importer string, isResolved bool) bool

// InputOptions are the options the build-graph engine recognises
type InputOptions struct {
	// Input is the entry set: output name → id. Unnamed entries use a
	// generated name. Required non-empty.
	Input map[string]string

	// EntryOrder preserves the declaration order of Input keys
	EntryOrder []string

	// External lists specifiers or patterns treated as external; ExternalFn
	// takes precedence when set
	External   []string
	ExternalFn ExternalFn

	// Context is the default top-level `this` identifier
	Context string

	// ModuleContext overrides Context per module id
	ModuleContext map[string]string

	// PreserveSymlinks skips symlink canonicalisation of resolved ids
	PreserveSymlinks bool

	// PreserveModules emits one chunk per included module
	PreserveModules bool

	// InlineDynamicImports folds every module into a single chunk
	InlineDynamicImports bool

	// PreserveEntrySignatures is the default entry signature policy
	PreserveEntrySignatures PreserveSignature

	// ShimMissingExports substitutes a shim variable for missing exports
	// instead of an undefined binding
	ShimMissingExports bool

	// Treeshake configures the includer
	Treeshake TreeshakeOptions

	// ManualChunks assigns seed module ids to named chunks
	ManualChunks map[string][]string

	// ManualChunkFn classifies modules into named chunks; overrides
	// ManualChunks when set
	ManualChunkFn func(id string) string

	// Cache is the previous build's snapshot, nil for a cold build
	Cache *BuildCache

	// CacheExpiry is the number of snapshots a plugin cache entry survives
	// unread before eviction
	CacheExpiry int

	// StrictDeprecations escalates deprecation warnings to fatal errors
	StrictDeprecations bool

	// OnWarn receives every non-fatal diagnostic
	OnWarn WarningHandler
}

// BuildCache is the persisted state carried between builds
type BuildCache struct {
	// Modules are the serialised module records of the previous build
	Modules []SerializedModule `json:"modules"`

	// Plugins is the per-plugin key-value store with access counters
	Plugins map[string]map[string]PluginCacheEntry `json:"plugins,omitempty"`
}

// SerializedModule is the cacheable projection of a loaded module.
// The schema is implementation-private but stable across builds.
type SerializedModule struct {
	ID                string         `json:"id"`
	Source            string         `json:"source"`
	Sources           []string       `json:"sources,omitempty"`
	ResolvedIDs       map[string]string `json:"resolved_ids,omitempty"`
	Imports           []ImportRecord `json:"imports,omitempty"`
	Exports           []ExportRecord `json:"exports,omitempty"`
	ModuleSideEffects bool           `json:"module_side_effects"`
	ReassignedNames   []string       `json:"reassigned_names,omitempty"`
}

// PluginCacheEntry is one plugin cache slot with its access counter
type PluginCacheEntry struct {
	Accesses int `json:"accesses"`
	Value    any `json:"value"`
}

// ChunkSummary is the reporting projection of a generated chunk
type ChunkSummary struct {
	Name        string   `json:"name"`
	IsFacade    bool     `json:"is_facade"`
	FacadeOf    string   `json:"facade_of,omitempty"`
	EntryIDs    []string `json:"entry_ids,omitempty"`
	ModuleIDs   []string `json:"module_ids"`
	Exports     []string `json:"exports,omitempty"`
	ExternalIDs []string `json:"external_ids,omitempty"`
}

// BuildReport is what the output formatters render
type BuildReport struct {
	Chunks      []ChunkSummary `json:"chunks"`
	Modules     []ModuleInfo   `json:"modules"`
	Warnings    []Warning      `json:"warnings,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
	GeneratedAt string         `json:"generated_at"`
	Version     string         `json:"version"`
}

// ErrorCode identifies a class of fatal build error
type ErrorCode string

const (
	// ErrMissingInput is returned when the entry set is empty
	ErrMissingInput ErrorCode = "MISSING_INPUT"

	// ErrUnresolvedImport is returned when a non-external specifier
	// cannot be resolved
	ErrUnresolvedImport ErrorCode = "UNRESOLVED_IMPORT"

	// ErrLoadFailed is returned when a module's source cannot be loaded
	ErrLoadFailed ErrorCode = "LOAD_FAILED"

	// ErrParseFailed is returned when a module's source cannot be parsed
	ErrParseFailed ErrorCode = "PARSE_FAILED"

	// ErrUnknownModule is returned by ModuleInfo for an id not in the graph
	ErrUnknownModule ErrorCode = "UNKNOWN_MODULE"

	// ErrDeprecation is returned for deprecated options under
	// strictDeprecations
	ErrDeprecation ErrorCode = "DEPRECATION"

	// ErrPluginHook is returned when a plugin hook fails
	ErrPluginHook ErrorCode = "PLUGIN_HOOK"
)

// BuildError is a fatal error that terminates the build
type BuildError struct {
	Code    ErrorCode
	Message string
	Plugin  string
	Loc     *SourceLocation
	Err     error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	msg := e.Message
	if e.Plugin != "" {
		msg = fmt.Sprintf("[plugin %s] %s", e.Plugin, msg)
	}
	if e.Loc != nil && e.Loc.File != "" {
		msg = fmt.Sprintf("%s (%s:%d:%d)", msg, e.Loc.File, e.Loc.Line, e.Loc.Column)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}
