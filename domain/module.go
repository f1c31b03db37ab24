package domain

// ImportKind represents the way a module reference entered the graph
type ImportKind string

const (
	// ImportKindEntry represents a user-declared entry point
	ImportKindEntry ImportKind = "entry"

	// ImportKindStatic represents a static import declaration
	ImportKindStatic ImportKind = "static"

	// ImportKindDynamic represents a dynamic import() expression
	ImportKindDynamic ImportKind = "dynamic"
)

// SpecifierType represents the type of module specifier
type SpecifierType string

const (
	// SpecifierRelative represents relative specifiers: ./foo, ../bar
	SpecifierRelative SpecifierType = "relative"

	// SpecifierAbsolute represents absolute specifiers: /foo/bar
	SpecifierAbsolute SpecifierType = "absolute"

	// SpecifierPackage represents bare package specifiers: lodash, react
	SpecifierPackage SpecifierType = "package"

	// SpecifierBuiltin represents Node.js builtins: node:fs, fs
	SpecifierBuiltin SpecifierType = "builtin"
)

// PreserveSignature controls how an entry module's public exports are kept
type PreserveSignature string

const (
	// PreserveSignatureNone drops the entry signature entirely; only
	// side effects keep the entry alive
	PreserveSignatureNone PreserveSignature = "none"

	// PreserveSignatureStrict keeps the entry signature exactly
	PreserveSignatureStrict PreserveSignature = "strict"

	// PreserveSignatureAllowExtension keeps the signature but allows the
	// host chunk to expose additional exports
	PreserveSignatureAllowExtension PreserveSignature = "allow-extension"
)

// SourceLocation is a position inside a source file
type SourceLocation struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// ImportSpecifier represents an individual imported name
type ImportSpecifier struct {
	// Imported is the name in the producing module ("default" and "*"
	// are reserved)
	Imported string `json:"imported"`

	// Local is the local binding name
	Local string `json:"local"`
}

// ImportRecord represents one import declaration discovered in a module
type ImportRecord struct {
	// Source is the module specifier (e.g. './utils', 'lodash')
	Source string `json:"source"`

	// SourceType classifies the specifier
	SourceType SpecifierType `json:"source_type"`

	// Kind is static or dynamic
	Kind ImportKind `json:"kind"`

	// Specifiers are the individual imported names; empty for a pure
	// side-effect import
	Specifiers []ImportSpecifier `json:"specifiers,omitempty"`

	// Location is the position of the declaration
	Location SourceLocation `json:"location"`
}

// ExportSpecifier represents an individual exported name
type ExportSpecifier struct {
	// Local is the local name ("default" for default exports)
	Local string `json:"local"`

	// Exported is the externally visible name
	Exported string `json:"exported"`
}

// ExportRecord represents one export declaration discovered in a module
type ExportRecord struct {
	// Source is the re-export source, empty when exporting local bindings
	Source string `json:"source,omitempty"`

	// Specifiers are the exported names
	Specifiers []ExportSpecifier `json:"specifiers,omitempty"`

	// IsDefault marks `export default …`
	IsDefault bool `json:"is_default,omitempty"`

	// IsStar marks `export * from '…'`
	IsStar bool `json:"is_star,omitempty"`

	// Location is the position of the declaration
	Location SourceLocation `json:"location"`
}

// ModuleInfo is the read-only projection of a graph module handed to
// plugins and reporters
type ModuleInfo struct {
	ID                string   `json:"id"`
	IsEntry           bool     `json:"is_entry"`
	IsExternal        bool     `json:"is_external"`
	IsIncluded        bool     `json:"is_included"`
	ImportedIDs       []string `json:"imported_ids,omitempty"`
	DynamicImportedIDs []string `json:"dynamic_imported_ids,omitempty"`
	Importers         []string `json:"importers,omitempty"`
	DynamicImporters  []string `json:"dynamic_importers,omitempty"`
	ExportedNames     []string `json:"exported_names,omitempty"`
	ModuleSideEffects bool     `json:"module_side_effects"`
}
