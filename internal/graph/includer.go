package graph

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/parser"
)

// Includer marks the statements and variables that must be retained.
// The marked set is monotone over a finite domain, so iterating until a
// pass includes nothing new terminates.
type Includer struct {
	graph *Graph
	opts  domain.TreeshakeOptions

	needsAnotherPass bool
}

// NewIncluder creates an includer bound to a graph
func NewIncluder(g *Graph) *Includer {
	return &Includer{graph: g, opts: g.options.Treeshake}
}

// Include seeds liveness from the entry signatures and iterates to a
// fixed point
func (inc *Includer) Include(entryModules []*Module) {
	if !inc.opts.Enabled {
		inc.includeEverything()
		return
	}

	for _, entry := range entryModules {
		inc.markExecuted(entry)
		// An entry is part of the output even when nothing in it is live
		entry.IsIncluded = true
		if entry.PreserveSignature != domain.PreserveSignatureNone {
			for _, name := range entry.ExportNames(nil) {
				if v, found := entry.VariableForExportName(name, nil); found {
					inc.includeVariable(v)
				}
			}
		}
	}

	for {
		inc.needsAnotherPass = false
		for _, m := range inc.graph.moduleList() {
			if m.IsExecuted {
				inc.includeStatements(m)
			}
		}
		if !inc.needsAnotherPass {
			break
		}
	}

	inc.warnUnusedExternalImports()
}

// includeEverything is the no-tree-shaking mode: every statement of
// every module is live
func (inc *Includer) includeEverything() {
	for _, m := range inc.graph.moduleList() {
		m.IsExecuted = true
		m.IsIncluded = true
		if m.AST == nil {
			continue
		}
		for _, stmt := range m.AST.Body {
			m.IncludeNode(stmt)
		}
		scope := m.Arena.Get(m.ModuleScope)
		for _, v := range scope.Variables {
			v.Include()
			v.MarkUsed()
		}
	}
	for _, em := range inc.graph.externalList() {
		for _, v := range em.variables {
			v.Include()
			v.MarkUsed()
		}
	}
}

// markExecuted marks a module and its transitive static dependencies as
// executed; executed modules are walked each pass
func (inc *Includer) markExecuted(m *Module) {
	if m.IsExecuted {
		return
	}
	m.IsExecuted = true
	inc.needsAnotherPass = true
	for _, dep := range m.StaticDependencies() {
		inc.markExecuted(dep)
	}
}

// includeStatements walks one executed module's top-level statements
func (inc *Includer) includeStatements(m *Module) {
	if m.AST == nil {
		return
	}
	analyser := &effectsAnalyser{module: m, opts: inc.opts}

	for _, stmt := range m.AST.Body {
		switch stmt.Type {
		case parser.NodeImportDeclaration:
			inc.includeImportEdge(m, stmt)

		case parser.NodeExportAllDeclaration:
			inc.includeReexportEdge(m, stmt)

		case parser.NodeExportNamedDeclaration:
			if stmt.Source != nil {
				inc.includeReexportEdge(m, stmt)
				continue
			}
			if stmt.Declaration != nil && m.ModuleSideEffects && analyser.hasEffects(stmt.Declaration) {
				inc.includeStatement(m, stmt)
			}

		case parser.NodeExportDefaultDeclaration:
			if m.ModuleSideEffects && analyser.hasEffects(stmt.Declaration) {
				inc.includeStatement(m, stmt)
			}

		default:
			if m.ModuleSideEffects && analyser.hasEffects(stmt) {
				inc.includeStatement(m, stmt)
			}
		}
	}
}

// includeImportEdge keeps an import declaration when its target stays
// in the output
func (inc *Includer) includeImportEdge(m *Module, stmt *parser.Node) {
	if stmt.Source == nil {
		return
	}
	resolved, ok := m.ResolvedIDs[stmt.Source.StringValue()]
	if !ok {
		return
	}
	if resolved.External {
		em := inc.graph.externalByID(resolved.ID)
		if em != nil && em.ModuleSideEffects {
			if m.IncludeNode(stmt) {
				inc.needsAnotherPass = true
			}
		}
		return
	}
	dep := inc.graph.moduleFor(resolved.ID)
	if dep == nil {
		return
	}
	inc.markExecuted(dep)
	if dep.IsIncluded || (dep.ModuleSideEffects && dep.IncludedStatementCount() > 0) {
		if m.IncludeNode(stmt) {
			inc.needsAnotherPass = true
		}
	}
}

// includeReexportEdge keeps a re-export statement when any binding it
// forwards is included
func (inc *Includer) includeReexportEdge(m *Module, stmt *parser.Node) {
	if stmt.Source == nil {
		return
	}
	resolved, ok := m.ResolvedIDs[stmt.Source.StringValue()]
	if !ok {
		return
	}
	if resolved.External {
		if m.IncludeNode(stmt) {
			inc.needsAnotherPass = true
		}
		return
	}
	dep := inc.graph.moduleFor(resolved.ID)
	if dep == nil {
		return
	}
	inc.markExecuted(dep)
	if dep.IsIncluded {
		if m.IncludeNode(stmt) {
			inc.needsAnotherPass = true
		}
	}
}

// includeStatement marks one statement live and pulls in everything it
// references
func (inc *Includer) includeStatement(m *Module, stmt *parser.Node) {
	if m.IncludeNode(stmt) {
		inc.needsAnotherPass = true
	}
	names := map[string]bool{}
	referencedNames(stmt, names)
	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)
	for _, name := range ordered {
		if v, ok := m.Arena.Lookup(m.ModuleScope, name); ok {
			inc.includeVariable(v)
		}
	}
}

// includeVariable marks a binding live together with the statements
// that produce it
func (inc *Includer) includeVariable(v *Variable) {
	v.MarkUsed()
	if !v.Include() {
		return
	}
	inc.needsAnotherPass = true

	switch v.Kind {
	case VarNamespace:
		// A live namespace keeps every export of its module alive
		m := v.Module
		m.IsIncluded = true
		inc.markExecuted(m)
		for _, name := range m.ExportNames(nil) {
			if ev, found := m.VariableForExportName(name, nil); found {
				inc.includeVariable(ev)
			}
		}

	case VarExternal, VarUndefined, VarGlobal:
		// Nothing to pull in

	default:
		m := v.Module
		if m == nil {
			return
		}
		m.IsIncluded = true
		inc.markExecuted(m)
		for _, decl := range v.Declarations {
			inc.includeStatement(m, decl)
		}
	}
}

// warnUnusedExternalImports reports external import names never
// referenced by included code
func (inc *Includer) warnUnusedExternalImports() {
	for _, em := range inc.graph.externalList() {
		_, unused := em.UsedNames()
		if len(unused) == 0 {
			continue
		}
		sort.Strings(unused)
		label := "is"
		if len(unused) > 1 {
			label = "are"
		}
		inc.graph.Warn(domain.Warning{
			Code: domain.WarnUnusedExternalImport,
			Message: fmt.Sprintf("%v %s imported from external module %q but never used",
				unused, label, em.ID),
			Source: em.ID,
			Names:  unused,
		})
	}
}
