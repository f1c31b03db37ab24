package graph

import (
	"github.com/ludo-technologies/jsbundle/internal/parser"
)

// ScopeKind tags the scope tree levels
type ScopeKind string

const (
	// ScopeGlobal is the single process-lived scope shared by every
	// module of one build
	ScopeGlobal ScopeKind = "global"

	// ScopeModule is the top-level scope of one module
	ScopeModule ScopeKind = "module"

	// ScopeChild is a function or block scope
	ScopeChild ScopeKind = "child"
)

// scopeID indexes a scope inside its arena; -1 means no parent
type scopeID = int

const noScope scopeID = -1

// Scope is one lexical environment. Parent is an arena index, never an
// owning reference, so the scope graph stays acyclic for the allocator
// even though lookups walk upward.
type Scope struct {
	ID        scopeID
	Parent    scopeID
	Kind      ScopeKind
	Variables map[string]*Variable
}

// ScopeArena owns the scope records of one module. The global scope
// lives in its own arena owned by the Graph and outlives every module.
type ScopeArena struct {
	scopes []*Scope
}

// NewScopeArena creates an arena seeded with one root scope
func NewScopeArena(rootKind ScopeKind) *ScopeArena {
	a := &ScopeArena{}
	a.NewScope(noScope, rootKind)
	return a
}

// Root returns the arena's root scope id
func (a *ScopeArena) Root() scopeID {
	return 0
}

// NewScope allocates a child scope and returns its id
func (a *ScopeArena) NewScope(parent scopeID, kind ScopeKind) scopeID {
	s := &Scope{
		ID:        len(a.scopes),
		Parent:    parent,
		Kind:      kind,
		Variables: map[string]*Variable{},
	}
	a.scopes = append(a.scopes, s)
	return s.ID
}

// Get returns the scope record for an id
func (a *ScopeArena) Get(id scopeID) *Scope {
	return a.scopes[id]
}

// Declare adds a binding to a scope, reusing an existing variable of the
// same name (var hoisting redeclares freely)
func (a *ScopeArena) Declare(id scopeID, name string, v *Variable, decl *parser.Node) *Variable {
	s := a.Get(id)
	if existing, ok := s.Variables[name]; ok {
		if decl != nil {
			existing.Declarations = append(existing.Declarations, decl)
		}
		return existing
	}
	if decl != nil {
		v.Declarations = append(v.Declarations, decl)
	}
	s.Variables[name] = v
	return v
}

// Lookup resolves a name from a scope outward. The second return is
// false when no enclosing scope declares the name.
func (a *ScopeArena) Lookup(id scopeID, name string) (*Variable, bool) {
	for id != noScope {
		s := a.Get(id)
		if v, ok := s.Variables[name]; ok {
			return v, true
		}
		id = s.Parent
	}
	return nil, false
}
