package domain

import "fmt"

// WarningCode identifies a class of build diagnostic
type WarningCode string

const (
	// WarnCircularDependency is emitted once per detected import cycle
	WarnCircularDependency WarningCode = "CIRCULAR_DEPENDENCY"

	// WarnMissingExport is emitted when an import names an export the
	// producing module does not have
	WarnMissingExport WarningCode = "MISSING_EXPORT"

	// WarnNonExistentExport is emitted when a re-export chain ends at a
	// name that does not exist
	WarnNonExistentExport WarningCode = "NON_EXISTENT_EXPORT"

	// WarnUnusedExternalImport is emitted when an external import name is
	// never referenced by included code
	WarnUnusedExternalImport WarningCode = "UNUSED_EXTERNAL_IMPORT"

	// WarnDeprecatedFeature is emitted for deprecated options
	WarnDeprecatedFeature WarningCode = "DEPRECATED_FEATURE"

	// WarnChunkConflict is emitted when two manual chunks claim the same
	// module; the chunk whose name sorts first keeps it
	WarnChunkConflict WarningCode = "CHUNK_CONFLICT"
)

// Warning is a non-fatal build diagnostic routed to the onwarn handler
type Warning struct {
	Code    WarningCode     `json:"code"`
	Message string          `json:"message"`
	Plugin  string          `json:"plugin,omitempty"`
	Loc     *SourceLocation `json:"loc,omitempty"`

	// Cycle holds the module path for CIRCULAR_DEPENDENCY warnings
	Cycle []string `json:"cycle,omitempty"`

	// Source and Names carry extra context for export-related warnings
	Source string   `json:"source,omitempty"`
	Names  []string `json:"names,omitempty"`
}

// String renders the warning the way the CLI prints it
func (w Warning) String() string {
	prefix := string(w.Code)
	if w.Plugin != "" {
		prefix = fmt.Sprintf("%s [plugin %s]", prefix, w.Plugin)
	}
	if w.Loc != nil && w.Loc.File != "" {
		return fmt.Sprintf("(%s) %s:%d:%d %s", prefix, w.Loc.File, w.Loc.Line, w.Loc.Column, w.Message)
	}
	return fmt.Sprintf("(%s) %s", prefix, w.Message)
}

// WarningHandler consumes warnings as they are emitted
type WarningHandler func(Warning)
