package graph

import (
	"github.com/ludo-technologies/jsbundle/internal/parser"
)

// VariableKind tags the variants of a graph binding
type VariableKind string

const (
	// VarLocal is a binding declared by module code
	VarLocal VariableKind = "local"

	// VarExportDefault is the binding behind `export default`
	VarExportDefault VariableKind = "export_default"

	// VarNamespace is the synthetic object of all exports of a module
	VarNamespace VariableKind = "namespace"

	// VarExternal is a binding imported from an external module
	VarExternal VariableKind = "external"

	// VarGlobal is an ambient global binding
	VarGlobal VariableKind = "global"

	// VarUndefined substitutes for a missing export
	VarUndefined VariableKind = "undefined"
)

// Variable is a named binding tracked across the graph. Dispatch is on
// Kind; Module is the producing module for local/namespace/default
// variables, External for external ones.
type Variable struct {
	Kind     VariableKind
	Name     string
	Module   *Module
	External *ExternalModule

	// Declarations are the AST statements that create the binding
	Declarations []*parser.Node

	// Included is set once by the includer and never cleared in a build
	Included bool

	// Reassigned is set when module code writes the binding after its
	// declaration
	Reassigned bool

	// used tracks references from included code (external imports that
	// stay unused are warned about)
	used bool
}

// Include marks the variable live. Returns true on the first call so
// the includer can request another pass.
func (v *Variable) Include() bool {
	if v.Included {
		return false
	}
	v.Included = true
	return true
}

// MarkUsed records a reference from included code
func (v *Variable) MarkUsed() {
	v.used = true
}

// IsUsed reports whether included code referenced the variable
func (v *Variable) IsUsed() bool {
	return v.used
}
