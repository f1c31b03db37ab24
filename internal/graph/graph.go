package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ludo-technologies/jsbundle/domain"
)

// Phase is the orchestrator's position in the build pipeline
type Phase string

const (
	// PhaseLoadAndParse is the module materialisation phase
	PhaseLoadAndParse Phase = "LOAD_AND_PARSE"

	// PhaseAnalyse covers linking and tree-shaking
	PhaseAnalyse Phase = "ANALYSE"

	// PhaseGenerate is reached once chunks exist
	PhaseGenerate Phase = "GENERATE"
)

// Graph is the build orchestrator: it owns the module table, drives the
// loader, linker, includer and chunker in sequence, and collects
// diagnostics.
type Graph struct {
	options domain.InputOptions

	mu         sync.Mutex
	moduleByID map[string]ModuleRecord

	// modules is the execution order once the linker ran
	modules         []*Module
	externalModules []*ExternalModule

	phase Phase

	// GlobalScope is process-lived and shared across all modules of one
	// build
	GlobalScope *ScopeArena

	// Deoptimized is the structural path set used by value analysis
	Deoptimized *PathTracker

	// PluginCache carries plugin state across builds
	PluginCache *PluginCache

	resolve ResolveFn
	load    LoadFn
	parse   ParseFn

	// onModuleParsed is notified after each module materialises
	onModuleParsed func(domain.ModuleInfo)

	// progress is forwarded to the loader
	progress ProgressFn

	watchFiles map[string]bool
	warnings   []domain.Warning
}

// NewGraph creates an orchestrator over the given hook functions
func NewGraph(options domain.InputOptions, resolve ResolveFn, load LoadFn, parse ParseFn) *Graph {
	return &Graph{
		options:     options,
		moduleByID:  map[string]ModuleRecord{},
		phase:       PhaseLoadAndParse,
		GlobalScope: NewScopeArena(ScopeGlobal),
		Deoptimized: NewPathTracker(),
		PluginCache: NewPluginCache(options.Cache),
		resolve:     resolve,
		load:        load,
		parse:       parse,
		watchFiles:  map[string]bool{},
	}
}

// SetModuleParsedHook installs the moduleParsed notification
func (g *Graph) SetModuleParsedHook(fn func(domain.ModuleInfo)) {
	g.onModuleParsed = fn
}

// SetProgress installs a loader progress callback
func (g *Graph) SetProgress(fn ProgressFn) {
	g.progress = fn
}

// Options returns the build options
func (g *Graph) Options() domain.InputOptions {
	return g.options
}

// Phase returns the current pipeline phase
func (g *Graph) Phase() Phase {
	return g.phase
}

// Build runs the four phases and returns the chunk descriptors, body
// chunks first, facades last. Cancelling the context stops the loader
// from accepting new work; no partial chunk list is returned.
func (g *Graph) Build(ctx context.Context) ([]*Chunk, error) {
	order := g.options.EntryOrder
	if len(order) == 0 {
		for name := range g.options.Input {
			order = append(order, name)
		}
		sort.Strings(order)
	}
	entries := make([]UnresolvedEntry, 0, len(order))
	for _, name := range order {
		entries = append(entries, UnresolvedEntry{Name: name, Specifier: g.options.Input[name]})
	}

	g.phase = PhaseLoadAndParse
	loader := NewLoader(g, g.resolve, g.load, g.parse)
	if g.progress != nil {
		loader.SetProgress(g.progress)
	}
	entryModules, err := loader.AddEntries(ctx, entries)
	if err != nil {
		return nil, err
	}
	manualGroups, err := loader.AddManualChunks(ctx, g.options.ManualChunks)
	if err != nil {
		return nil, err
	}
	for _, m := range g.moduleList() {
		g.watchFiles[m.ID] = true
	}

	g.phase = PhaseAnalyse
	NewLinker(g).Link(entryModules)
	NewIncluder(g).Include(entryModules)

	chunks, err := NewChunker(g).GenerateChunks(ctx, entryModules, manualGroups)
	if err != nil {
		return nil, err
	}
	g.phase = PhaseGenerate
	return chunks, nil
}

// ModuleInfo returns the read-only projection of a module for plugins
func (g *Graph) ModuleInfo(id string) (domain.ModuleInfo, error) {
	g.mu.Lock()
	rec, ok := g.moduleByID[id]
	g.mu.Unlock()
	if !ok {
		return domain.ModuleInfo{}, &domain.BuildError{
			Code:    domain.ErrUnknownModule,
			Message: fmt.Sprintf("unable to find module %q", id),
		}
	}
	if em, external := rec.(*ExternalModule); external {
		used, _ := em.UsedNames()
		sort.Strings(used)
		return domain.ModuleInfo{
			ID:                em.ID,
			IsExternal:        true,
			ExportedNames:     used,
			ModuleSideEffects: em.ModuleSideEffects,
		}, nil
	}
	return rec.(*Module).Info(), nil
}

// CacheSnapshot sweeps stale plugin cache entries and serialises every
// module for the next build
func (g *Graph) CacheSnapshot() *domain.BuildCache {
	expiry := g.options.CacheExpiry
	snapshot := &domain.BuildCache{
		Plugins: g.PluginCache.Snapshot(expiry),
	}
	for _, m := range g.moduleList() {
		snapshot.Modules = append(snapshot.Modules, m.Serialize())
	}
	sort.Slice(snapshot.Modules, func(i, j int) bool {
		return snapshot.Modules[i].ID < snapshot.Modules[j].ID
	})
	return snapshot
}

// Warn routes a diagnostic to the configured handler
func (g *Graph) Warn(w domain.Warning) {
	g.mu.Lock()
	g.warnings = append(g.warnings, w)
	handler := g.options.OnWarn
	g.mu.Unlock()
	if handler != nil {
		handler(w)
	}
}

// WarnDeprecation warns, or fails the build under strict deprecations
func (g *Graph) WarnDeprecation(message string) error {
	if g.options.StrictDeprecations {
		return &domain.BuildError{
			Code:    domain.ErrDeprecation,
			Message: message,
		}
	}
	g.Warn(domain.Warning{
		Code:    domain.WarnDeprecatedFeature,
		Message: message,
	})
	return nil
}

// Warnings returns the diagnostics emitted so far, in phase order
func (g *Graph) Warnings() []domain.Warning {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Warning(nil), g.warnings...)
}

// WatchFiles returns the ids a watcher should observe
func (g *Graph) WatchFiles() []string {
	files := make([]string, 0, len(g.watchFiles))
	for id := range g.watchFiles {
		files = append(files, id)
	}
	sort.Strings(files)
	return files
}

// AddWatchFile registers an extra watched id (plugin hook surface)
func (g *Graph) AddWatchFile(id string) {
	g.mu.Lock()
	g.watchFiles[id] = true
	g.mu.Unlock()
}

// ModuleInfos lists every record's projection, internals first
func (g *Graph) ModuleInfos() []domain.ModuleInfo {
	var infos []domain.ModuleInfo
	for _, m := range g.moduleList() {
		infos = append(infos, m.Info())
	}
	for _, em := range g.externalList() {
		info, _ := g.ModuleInfo(em.ID)
		infos = append(infos, info)
	}
	return infos
}

// insertModule adds a loaded module; the caller holds the loader lock
// so insertion stays atomic per id
func (g *Graph) insertModule(m *Module) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.moduleByID[m.ID]; exists {
		return
	}
	g.moduleByID[m.ID] = m
	g.modules = append(g.modules, m)
}

// ensureExternalModule records an external leaf on first sight
func (g *Graph) ensureExternalModule(id string, sideEffects bool) *ExternalModule {
	g.mu.Lock()
	defer g.mu.Unlock()
	if rec, ok := g.moduleByID[id]; ok {
		if em, external := rec.(*ExternalModule); external {
			return em
		}
		return nil
	}
	em := NewExternalModule(id, sideEffects)
	g.moduleByID[id] = em
	g.externalModules = append(g.externalModules, em)
	return em
}

// moduleFor returns the internal module for an id, nil otherwise
func (g *Graph) moduleFor(id string) *Module {
	g.mu.Lock()
	defer g.mu.Unlock()
	if m, ok := g.moduleByID[id].(*Module); ok {
		return m
	}
	return nil
}

// externalByID returns the external module for an id, nil otherwise
func (g *Graph) externalByID(id string) *ExternalModule {
	g.mu.Lock()
	defer g.mu.Unlock()
	if em, ok := g.moduleByID[id].(*ExternalModule); ok {
		return em
	}
	return nil
}

// recordFor returns whichever record holds the id
func (g *Graph) recordFor(id string) ModuleRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moduleByID[id]
}

// moduleList returns the internal modules, in execution order once the
// linker ran
func (g *Graph) moduleList() []*Module {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modules
}

// externalList returns the external modules in first-sight order
func (g *Graph) externalList() []*ExternalModule {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.externalModules
}

// setModuleOrder stores the execution order computed by the linker
func (g *Graph) setModuleOrder(order []*Module) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.modules = order
}

// notifyModuleParsed forwards the moduleParsed hook
func (g *Graph) notifyModuleParsed(m *Module) {
	if g.onModuleParsed != nil {
		g.onModuleParsed(m.Info())
	}
}
