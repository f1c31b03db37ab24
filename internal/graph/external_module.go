package graph

// ModuleRecord is either an internal Module or an ExternalModule; the
// orchestrator's moduleByID map holds exactly one record per id.
type ModuleRecord interface {
	ModuleID() string
	External() bool
}

// ExternalModule is a declared-external leaf that is never loaded
type ExternalModule struct {
	ID string

	// ModuleSideEffects decides whether a bare import of the module is
	// kept when tree-shaking
	ModuleSideEffects bool

	// DynamicOnly is true while the module has only been reached through
	// dynamic imports
	DynamicOnly bool

	// Importers are the ids of modules importing this one
	Importers []string

	// variables are the bindings handed out per imported name
	variables map[string]*Variable
}

// NewExternalModule creates an external leaf for an id
func NewExternalModule(id string, sideEffects bool) *ExternalModule {
	return &ExternalModule{
		ID:                id,
		ModuleSideEffects: sideEffects,
		DynamicOnly:       true,
		variables:         map[string]*Variable{},
	}
}

// ModuleID implements ModuleRecord
func (em *ExternalModule) ModuleID() string { return em.ID }

// External implements ModuleRecord
func (em *ExternalModule) External() bool { return true }

// VariableForName returns the external binding for an imported name,
// creating it on first sight. "*" yields the namespace binding that the
// emitter synthesises downstream.
func (em *ExternalModule) VariableForName(name string) *Variable {
	if v, ok := em.variables[name]; ok {
		return v
	}
	v := &Variable{
		Kind:     VarExternal,
		Name:     name,
		External: em,
	}
	em.variables[name] = v
	return v
}

// UsedNames returns the imported names referenced by included code and
// the ones that never were
func (em *ExternalModule) UsedNames() (used, unused []string) {
	for name, v := range em.variables {
		if v.IsUsed() {
			used = append(used, name)
		} else {
			unused = append(unused, name)
		}
	}
	return used, unused
}
