package graph

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/parser"
)

// ResolvedID is the resolution of one import specifier
type ResolvedID struct {
	ID       string
	External bool
}

// DynamicImport is one import() site in a module
type DynamicImport struct {
	// Node is the import expression
	Node *parser.Node

	// Specifier is the literal argument, empty when the argument is a
	// non-literal expression the engine cannot resolve
	Specifier string

	// Resolution is filled by the loader for literal specifiers
	Resolution *ResolvedID
}

// ImportDescription maps one imported local name to its origin
type ImportDescription struct {
	// Source is the specifier the name was imported from
	Source string

	// Name is the exported name in the producing module ("*" for
	// namespace imports, "default" for default imports)
	Name string

	// LocalName is the binding name inside the importing module
	LocalName string

	// Module is the producing record, filled by the linker
	Module ModuleRecord

	// Variable is the concrete binding, attached by the linker's bind pass
	Variable *Variable

	// Loc is the import declaration's position
	Loc domain.SourceLocation
}

// ExportDescription maps one exported name to its producer
type ExportDescription struct {
	// LocalName is the local binding behind the export; "*default*" for
	// anonymous default exports
	LocalName string

	// Source is the re-export source specifier, empty for local exports
	Source string

	// ImportedName is the name taken from Source for re-exports ("*" for
	// `export * as ns`)
	ImportedName string

	// Loc is the export declaration's position
	Loc domain.SourceLocation
}

// Module is an internal parsed source unit
type Module struct {
	ID    string
	Code  string
	AST   *parser.Node
	graph *Graph

	// Sources are the import specifiers in AST order, statics first
	// occurrence only
	Sources []string

	// ResolvedIDs maps each source to its resolution
	ResolvedIDs map[string]ResolvedID

	// DynamicImports are the import() sites in AST order
	DynamicImports []*DynamicImport

	// ImportDescriptions maps local names to their import origin
	ImportDescriptions map[string]*ImportDescription

	// ExportDescriptions maps exported names to their producer
	ExportDescriptions map[string]*ExportDescription

	// ExportAllSources are `export * from` specifiers in AST order
	ExportAllSources []string

	// Records are the reporting/cache projections of the declarations
	ImportRecords []domain.ImportRecord
	ExportRecords []domain.ExportRecord

	// Scope state
	Arena       *ScopeArena
	ModuleScope scopeID

	// Flags
	IsEntryPoint      bool
	IsExecuted        bool
	IsIncluded        bool
	ModuleSideEffects bool
	PreserveSignature domain.PreserveSignature

	// EntryName is the user-declared output name for named entries
	EntryName string

	// Reverse edges
	Importers        []string
	DynamicImporters []string

	// ExecIndex is the position in execution order, set by the linker
	ExecIndex int

	namespace *Variable

	// includedNodes marks live top-level statements and their live
	// subtrees; monotone within a build
	includedNodes map[*parser.Node]bool

	// bindings attaches import references to producing variables
	bindings map[*parser.Node]*Variable
}

// NewModule creates a module record and analyses its AST
func NewModule(g *Graph, id, code string, ast *parser.Node, sideEffects bool, preserve domain.PreserveSignature) *Module {
	m := &Module{
		ID:                 id,
		Code:               code,
		AST:                ast,
		graph:              g,
		ResolvedIDs:        map[string]ResolvedID{},
		ImportDescriptions: map[string]*ImportDescription{},
		ExportDescriptions: map[string]*ExportDescription{},
		Arena:              NewScopeArena(ScopeModule),
		ModuleSideEffects:  sideEffects,
		PreserveSignature:  preserve,
		ExecIndex:          -1,
		includedNodes:      map[*parser.Node]bool{},
		bindings:           map[*parser.Node]*Variable{},
	}
	m.ModuleScope = m.Arena.Root()
	m.analyse()
	return m
}

// ModuleID implements ModuleRecord
func (m *Module) ModuleID() string { return m.ID }

// External implements ModuleRecord
func (m *Module) External() bool { return false }

// analyse walks the top-level statements collecting sources, import and
// export descriptions, and declaring module-scope bindings
func (m *Module) analyse() {
	if m.AST == nil {
		return
	}
	for _, stmt := range m.AST.Body {
		switch stmt.Type {
		case parser.NodeImportDeclaration:
			m.analyseImport(stmt)
		case parser.NodeExportNamedDeclaration, parser.NodeExportDefaultDeclaration, parser.NodeExportAllDeclaration:
			m.analyseExport(stmt)
		default:
			m.declareStatement(stmt)
		}
	}
	// Dynamic imports can appear anywhere in the module body
	m.AST.Walk(func(n *parser.Node) bool {
		if n.Type == parser.NodeImportExpression {
			dyn := &DynamicImport{Node: n}
			if len(n.Arguments) == 1 && n.Arguments[0].Type == parser.NodeLiteral {
				dyn.Specifier = n.Arguments[0].StringValue()
			}
			m.DynamicImports = append(m.DynamicImports, dyn)
			if dyn.Specifier != "" {
				m.ImportRecords = append(m.ImportRecords, domain.ImportRecord{
					Source:     dyn.Specifier,
					SourceType: classifySpecifier(dyn.Specifier),
					Kind:       domain.ImportKindDynamic,
					Location:   toLocation(n.Location),
				})
			}
		}
		return true
	})
}

// analyseImport records one static import declaration
func (m *Module) analyseImport(stmt *parser.Node) {
	if stmt.Source == nil {
		return
	}
	source := stmt.Source.StringValue()
	m.addSource(source)

	record := domain.ImportRecord{
		Source:     source,
		SourceType: classifySpecifier(source),
		Kind:       domain.ImportKindStatic,
		Location:   toLocation(stmt.Location),
	}

	for _, spec := range stmt.Specifiers {
		var imported string
		switch spec.Type {
		case parser.NodeImportDefaultSpecifier:
			imported = "default"
		case parser.NodeImportNamespaceSpecifier:
			imported = "*"
		default:
			if spec.Imported != nil {
				imported = spec.Imported.Name
			}
		}
		if spec.Local == nil {
			continue
		}
		local := spec.Local.Name
		m.ImportDescriptions[local] = &ImportDescription{
			Source:    source,
			Name:      imported,
			LocalName: local,
			Loc:       toLocation(spec.Location),
		}
		record.Specifiers = append(record.Specifiers, domain.ImportSpecifier{
			Imported: imported,
			Local:    local,
		})
	}
	m.ImportRecords = append(m.ImportRecords, record)
}

// analyseExport records one export declaration
func (m *Module) analyseExport(stmt *parser.Node) {
	record := domain.ExportRecord{Location: toLocation(stmt.Location)}

	switch stmt.Type {
	case parser.NodeExportAllDeclaration:
		if stmt.Source == nil {
			return
		}
		source := stmt.Source.StringValue()
		m.addSource(source)
		record.Source = source
		record.IsStar = true
		if stmt.Exported != nil {
			// export * as ns from '…'
			m.ExportDescriptions[stmt.Exported.Name] = &ExportDescription{
				Source:       source,
				ImportedName: "*",
				Loc:          toLocation(stmt.Location),
			}
			record.Specifiers = append(record.Specifiers, domain.ExportSpecifier{
				Local: "*", Exported: stmt.Exported.Name,
			})
		} else {
			m.ExportAllSources = append(m.ExportAllSources, source)
		}

	case parser.NodeExportDefaultDeclaration:
		record.IsDefault = true
		localName := "*default*"
		v := &Variable{Kind: VarExportDefault, Name: "default", Module: m}
		if decl := stmt.Declaration; decl != nil && decl.Name != "" &&
			(decl.Type == parser.NodeFunctionDeclaration || decl.Type == parser.NodeClassDeclaration ||
				decl.Type == parser.NodeFunctionExpression || decl.Type == parser.NodeClassExpression) {
			localName = decl.Name
		}
		m.Arena.Declare(m.ModuleScope, localName, v, stmt)
		m.ExportDescriptions["default"] = &ExportDescription{
			LocalName: localName,
			Loc:       toLocation(stmt.Location),
		}
		record.Specifiers = append(record.Specifiers, domain.ExportSpecifier{
			Local: localName, Exported: "default",
		})

	default: // named export
		if stmt.Source != nil {
			// export { a as b } from '…'
			source := stmt.Source.StringValue()
			m.addSource(source)
			record.Source = source
			for _, spec := range stmt.Specifiers {
				if spec.Local == nil || spec.Exported == nil {
					continue
				}
				m.ExportDescriptions[spec.Exported.Name] = &ExportDescription{
					Source:       source,
					ImportedName: spec.Local.Name,
					Loc:          toLocation(spec.Location),
				}
				record.Specifiers = append(record.Specifiers, domain.ExportSpecifier{
					Local: spec.Local.Name, Exported: spec.Exported.Name,
				})
			}
			m.ExportRecords = append(m.ExportRecords, record)
			return
		}
		if stmt.Declaration != nil {
			// export const x = …, export function f …
			m.declareStatement(stmt)
			for _, name := range declaredNames(stmt.Declaration) {
				m.ExportDescriptions[name] = &ExportDescription{
					LocalName: name,
					Loc:       toLocation(stmt.Location),
				}
				record.Specifiers = append(record.Specifiers, domain.ExportSpecifier{
					Local: name, Exported: name,
				})
			}
		}
		for _, spec := range stmt.Specifiers {
			// export { a, b as c }
			if spec.Local == nil || spec.Exported == nil {
				continue
			}
			m.ExportDescriptions[spec.Exported.Name] = &ExportDescription{
				LocalName: spec.Local.Name,
				Loc:       toLocation(spec.Location),
			}
			record.Specifiers = append(record.Specifiers, domain.ExportSpecifier{
				Local: spec.Local.Name, Exported: spec.Exported.Name,
			})
		}
	}
	m.ExportRecords = append(m.ExportRecords, record)
}

// declareStatement declares the module-scope bindings a top-level
// statement introduces, pointing them at the statement for inclusion
func (m *Module) declareStatement(stmt *parser.Node) {
	target := stmt
	decl := stmt
	if stmt.Type == parser.NodeExportNamedDeclaration && stmt.Declaration != nil {
		decl = stmt.Declaration
	}
	for _, name := range declaredNames(decl) {
		v := &Variable{Kind: VarLocal, Name: name, Module: m}
		m.Arena.Declare(m.ModuleScope, name, v, target)
	}
}

// declaredNames lists the binding names a declaration introduces
func declaredNames(decl *parser.Node) []string {
	switch decl.Type {
	case parser.NodeFunctionDeclaration, parser.NodeClassDeclaration:
		if decl.Name != "" {
			return []string{decl.Name}
		}
	case parser.NodeVariableDeclaration:
		var names []string
		for _, d := range decl.Declarations {
			if d.ID == nil {
				continue
			}
			if d.ID.Type == parser.NodeIdentifier {
				names = append(names, d.ID.Name)
				continue
			}
			// Destructuring pattern: every identifier inside binds
			d.ID.Walk(func(n *parser.Node) bool {
				if n.Type == parser.NodeIdentifier {
					names = append(names, n.Name)
				}
				return true
			})
		}
		return names
	}
	return nil
}

// addSource appends a specifier once, preserving AST order
func (m *Module) addSource(source string) {
	for _, s := range m.Sources {
		if s == source {
			return
		}
	}
	m.Sources = append(m.Sources, source)
}

// Namespace returns the module's synthetic namespace variable
func (m *Module) Namespace() *Variable {
	if m.namespace == nil {
		m.namespace = &Variable{Kind: VarNamespace, Name: "*", Module: m}
	}
	return m.namespace
}

// VariableForExportName resolves an exported name to its concrete
// Variable, following re-export chains and stopping at external
// modules. The boolean is false when the name does not exist.
func (m *Module) VariableForExportName(name string, visited map[*Module]bool) (*Variable, bool) {
	if visited == nil {
		visited = map[*Module]bool{}
	}
	if visited[m] {
		return nil, false
	}
	visited[m] = true

	if name == "*" {
		return m.Namespace(), true
	}

	if desc, ok := m.ExportDescriptions[name]; ok {
		if desc.Source == "" {
			if v, found := m.Arena.Lookup(m.ModuleScope, desc.LocalName); found {
				return v, true
			}
			// A local export always has a module-scope binding; reaching
			// here means the export clause names an undeclared binding
			return nil, false
		}
		resolved, ok := m.ResolvedIDs[desc.Source]
		if !ok {
			return nil, false
		}
		if resolved.External {
			em := m.graph.externalByID(resolved.ID)
			if em == nil {
				return nil, false
			}
			return em.VariableForName(desc.ImportedName), true
		}
		target := m.graph.moduleFor(resolved.ID)
		if target == nil {
			return nil, false
		}
		if desc.ImportedName == "*" {
			return target.Namespace(), true
		}
		return target.VariableForExportName(desc.ImportedName, visited)
	}

	// default never flows through star re-exports
	if name == "default" {
		return nil, false
	}
	for _, source := range m.ExportAllSources {
		resolved, ok := m.ResolvedIDs[source]
		if !ok || resolved.External {
			continue
		}
		target := m.graph.moduleFor(resolved.ID)
		if target == nil {
			continue
		}
		if v, found := target.VariableForExportName(name, visited); found {
			return v, true
		}
	}
	return nil, false
}

// ExportNames returns every exported name, star re-exports included,
// sorted for stable enumeration
func (m *Module) ExportNames(visited map[*Module]bool) []string {
	if visited == nil {
		visited = map[*Module]bool{}
	}
	if visited[m] {
		return nil
	}
	visited[m] = true

	seen := map[string]bool{}
	for name := range m.ExportDescriptions {
		seen[name] = true
	}
	for _, source := range m.ExportAllSources {
		resolved, ok := m.ResolvedIDs[source]
		if !ok || resolved.External {
			continue
		}
		if target := m.graph.moduleFor(resolved.ID); target != nil {
			for _, name := range target.ExportNames(visited) {
				if name != "default" {
					seen[name] = true
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StaticDependencies returns the resolved internal modules of the
// static imports in source order
func (m *Module) StaticDependencies() []*Module {
	var deps []*Module
	for _, source := range m.Sources {
		resolved, ok := m.ResolvedIDs[source]
		if !ok || resolved.External {
			continue
		}
		if dep := m.graph.moduleFor(resolved.ID); dep != nil {
			deps = append(deps, dep)
		}
	}
	return deps
}

// IncludeNode marks an AST node live. Returns true on first inclusion.
func (m *Module) IncludeNode(n *parser.Node) bool {
	if m.includedNodes[n] {
		return false
	}
	m.includedNodes[n] = true
	m.IsIncluded = true
	return true
}

// NodeIncluded reports whether a node was marked live
func (m *Module) NodeIncluded(n *parser.Node) bool {
	return m.includedNodes[n]
}

// IncludedStatementCount counts live top-level statements
func (m *Module) IncludedStatementCount() int {
	count := 0
	if m.AST == nil {
		return 0
	}
	for _, stmt := range m.AST.Body {
		if m.includedNodes[stmt] {
			count++
		}
	}
	return count
}

// Serialize produces the cacheable projection of the module
func (m *Module) Serialize() domain.SerializedModule {
	resolved := map[string]string{}
	for source, r := range m.ResolvedIDs {
		id := r.ID
		if r.External {
			id = "external:" + id
		}
		resolved[source] = id
	}
	var reassigned []string
	if s := m.Arena.Get(m.ModuleScope); s != nil {
		for name, v := range s.Variables {
			if v.Reassigned {
				reassigned = append(reassigned, name)
			}
		}
	}
	sort.Strings(reassigned)
	return domain.SerializedModule{
		ID:                m.ID,
		Source:            m.Code,
		Sources:           append([]string(nil), m.Sources...),
		ResolvedIDs:       resolved,
		Imports:           append([]domain.ImportRecord(nil), m.ImportRecords...),
		Exports:           append([]domain.ExportRecord(nil), m.ExportRecords...),
		ModuleSideEffects: m.ModuleSideEffects,
		ReassignedNames:   reassigned,
	}
}

// Info returns the read-only projection handed to plugins
func (m *Module) Info() domain.ModuleInfo {
	var importedIDs, dynamicIDs []string
	for _, source := range m.Sources {
		if r, ok := m.ResolvedIDs[source]; ok {
			importedIDs = append(importedIDs, r.ID)
		}
	}
	for _, dyn := range m.DynamicImports {
		if dyn.Resolution != nil {
			dynamicIDs = append(dynamicIDs, dyn.Resolution.ID)
		}
	}
	return domain.ModuleInfo{
		ID:                 m.ID,
		IsEntry:            m.IsEntryPoint,
		IsIncluded:         m.IsIncluded,
		ImportedIDs:        importedIDs,
		DynamicImportedIDs: dynamicIDs,
		Importers:          append([]string(nil), m.Importers...),
		DynamicImporters:   append([]string(nil), m.DynamicImporters...),
		ExportedNames:      m.ExportNames(nil),
		ModuleSideEffects:  m.ModuleSideEffects,
	}
}

// classifySpecifier buckets a specifier the way the resolver does
func classifySpecifier(source string) domain.SpecifierType {
	switch {
	case strings.HasPrefix(source, "./"), strings.HasPrefix(source, "../"):
		return domain.SpecifierRelative
	case strings.HasPrefix(source, "/"):
		return domain.SpecifierAbsolute
	case strings.HasPrefix(source, "node:"), NodeBuiltins[source]:
		return domain.SpecifierBuiltin
	default:
		return domain.SpecifierPackage
	}
}

// toLocation converts a parser location to the domain form
func toLocation(l parser.Location) domain.SourceLocation {
	return domain.SourceLocation{
		File:   l.File,
		Line:   l.StartLine,
		Column: l.StartCol,
	}
}

// NodeBuiltins is the Node.js builtin module list. The resolver treats
// these as external by default; specifier classification buckets them
// as SpecifierBuiltin.
var NodeBuiltins = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "cluster": true,
	"console": true, "constants": true, "crypto": true, "dgram": true,
	"dns": true, "domain": true, "events": true, "fs": true, "http": true,
	"http2": true, "https": true, "module": true, "net": true, "os": true,
	"path": true, "perf_hooks": true, "process": true, "punycode": true,
	"querystring": true, "readline": true, "repl": true, "stream": true,
	"string_decoder": true, "sys": true, "timers": true, "tls": true,
	"tty": true, "url": true, "util": true, "v8": true, "vm": true,
	"wasi": true, "worker_threads": true, "zlib": true,
}
