package graph

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/parser"
)

// Linker links loaded modules: local dependency resolution, execution
// ordering with cycle reporting, and binding of import references to
// concrete variables.
type Linker struct {
	graph *Graph
}

// NewLinker creates a linker bound to a graph
func NewLinker(g *Graph) *Linker {
	return &Linker{graph: g}
}

// Link runs the three passes over every module held by the orchestrator
func (l *Linker) Link(entryModules []*Module) {
	l.linkDependencies()
	l.sortModules(entryModules)
	l.bindReferences()
}

// linkDependencies attaches producing records to import descriptions
// and validates re-export chains
func (l *Linker) linkDependencies() {
	for _, m := range l.graph.moduleList() {
		for _, desc := range m.ImportDescriptions {
			resolved, ok := m.ResolvedIDs[desc.Source]
			if !ok {
				continue
			}
			desc.Module = l.graph.recordFor(resolved.ID)
		}
		for name, desc := range m.ExportDescriptions {
			if desc.Source == "" {
				continue
			}
			resolved, ok := m.ResolvedIDs[desc.Source]
			if !ok || resolved.External {
				// Re-exports from external modules bind at emit time
				continue
			}
			target := l.graph.moduleFor(resolved.ID)
			if target == nil {
				continue
			}
			if desc.ImportedName == "*" {
				continue
			}
			if _, found := target.VariableForExportName(desc.ImportedName, nil); !found {
				l.graph.Warn(domain.Warning{
					Code: domain.WarnNonExistentExport,
					Message: fmt.Sprintf("%q is not exported by %s, re-exported as %q by %s",
						desc.ImportedName, target.ID, name, m.ID),
					Loc:    &desc.Loc,
					Source: target.ID,
					Names:  []string{desc.ImportedName},
				})
			}
		}
	}
}

// sortModules computes the execution order: reversed post-order of a
// DFS from the entries in declaration order. Grey revisits report the
// full cycle path.
func (l *Linker) sortModules(entryModules []*Module) {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	colour := map[*Module]int{}
	var order []*Module
	var stack []*Module

	var visit func(m *Module)
	visit = func(m *Module) {
		switch colour[m] {
		case black:
			return
		case grey:
			l.graph.Warn(domain.Warning{
				Code:    domain.WarnCircularDependency,
				Message: fmt.Sprintf("circular dependency: %s", cyclePath(stack, m)),
				Cycle:   cycleIDs(stack, m),
			})
			return
		}
		colour[m] = grey
		stack = append(stack, m)
		for _, dep := range m.StaticDependencies() {
			visit(dep)
		}
		stack = stack[:len(stack)-1]
		colour[m] = black
		m.ExecIndex = len(order)
		order = append(order, m)
	}

	for _, entry := range entryModules {
		visit(entry)
	}

	// Modules only reachable through dynamic imports or manual chunk
	// seeds still need a position; roots sorted by id for determinism
	var rest []*Module
	for _, m := range l.graph.moduleList() {
		if colour[m] == white {
			rest = append(rest, m)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].ID < rest[j].ID })
	for _, m := range rest {
		if colour[m] == white {
			visit(m)
		}
	}

	l.graph.setModuleOrder(order)
}

// cycleIDs extracts the module id path of a cycle, closing the loop
func cycleIDs(stack []*Module, head *Module) []string {
	start := 0
	for i, m := range stack {
		if m == head {
			start = i
			break
		}
	}
	ids := make([]string, 0, len(stack)-start+1)
	for _, m := range stack[start:] {
		ids = append(ids, m.ID)
	}
	ids = append(ids, head.ID)
	return ids
}

// cyclePath renders a cycle as a -> b -> a
func cyclePath(stack []*Module, head *Module) string {
	ids := cycleIDs(stack, head)
	path := ""
	for i, id := range ids {
		if i > 0 {
			path += " -> "
		}
		path += id
	}
	return path
}

// bindReferences attaches the concrete Variable of the producing module
// to every import of every module, declaring the import locals in the
// importer's module scope so reference lookups resolve them
func (l *Linker) bindReferences() {
	for _, m := range l.graph.moduleList() {
		for local, desc := range m.ImportDescriptions {
			v := l.variableForImport(m, desc)
			desc.Variable = v
			m.Arena.Declare(m.ModuleScope, local, v, nil)
		}
		l.markReassignments(m)
	}
}

// variableForImport resolves one import description to a Variable,
// warning and substituting on missing exports
func (l *Linker) variableForImport(m *Module, desc *ImportDescription) *Variable {
	if desc.Module == nil {
		return &Variable{Kind: VarUndefined, Name: desc.LocalName}
	}
	if em, ok := desc.Module.(*ExternalModule); ok {
		return em.VariableForName(desc.Name)
	}
	target := desc.Module.(*Module)
	if v, found := target.VariableForExportName(desc.Name, nil); found {
		return v
	}

	l.graph.Warn(domain.Warning{
		Code: domain.WarnMissingExport,
		Message: fmt.Sprintf("%q is not exported by %s, imported by %s",
			desc.Name, target.ID, m.ID),
		Loc:    &desc.Loc,
		Source: target.ID,
		Names:  []string{desc.Name},
	})
	if l.graph.options.ShimMissingExports {
		// The shim is a local of the producing module so the emitter can
		// render a placeholder export
		shim := &Variable{Kind: VarLocal, Name: "_missingExportShim", Module: target}
		return shim
	}
	return &Variable{Kind: VarUndefined, Name: desc.LocalName}
}

// markReassignments flags module-scope variables written after their
// declaration
func (l *Linker) markReassignments(m *Module) {
	if m.AST == nil {
		return
	}
	m.AST.Walk(func(n *parser.Node) bool {
		var target *parser.Node
		switch n.Type {
		case parser.NodeAssignmentExpression:
			target = n.Left
		case parser.NodeUpdateExpression:
			target = n.Argument
		default:
			return true
		}
		if target != nil && target.Type == parser.NodeIdentifier {
			if v, ok := m.Arena.Lookup(m.ModuleScope, target.Name); ok {
				v.Reassigned = true
				l.graph.Deoptimized.Track(m.ID, []string{target.Name})
			}
		}
		return true
	})
}
