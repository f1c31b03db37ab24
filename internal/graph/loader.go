package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/parser"
)

// ResolveFn resolves a specifier against an importer. A nil ResolvedID
// means the specifier could not be resolved.
type ResolveFn func(ctx context.Context, specifier, importer string) (*ResolvedID, error)

// LoadFn fetches the source text for a resolved id
type LoadFn func(ctx context.Context, id string) (string, error)

// ParseFn parses source text into the internal AST
type ParseFn func(id, code string) (*parser.Node, error)

// UnresolvedEntry is one user entry before resolution
type UnresolvedEntry struct {
	// Name is the output name; empty for unnamed entries
	Name string

	// Specifier is the raw entry id
	Specifier string
}

// ProgressFn is notified once per module loaded
type ProgressFn func(loaded int)

// Loader materialises the transitive import closure of the entries.
// Resolve and load run in parallel; moduleByID insertion is atomic so
// each id loads at most once per build.
type Loader struct {
	graph       *Graph
	resolve     ResolveFn
	load        LoadFn
	parse       ParseFn
	sideEffects domain.ModuleSideEffectsPolicy
	preserve    domain.PreserveSignature
	cached      map[string]domain.SerializedModule
	progress    ProgressFn

	mu     sync.Mutex
	seen   map[string]bool
	edges  []pendingEdge
	loaded int
}

// pendingEdge is one importer→imported relation applied after the queue
// drains so reverse-edge mutation stays single-threaded
type pendingEdge struct {
	importerID string
	targetID   string
	dynamic    bool
}

// NewLoader creates a loader bound to a graph
func NewLoader(g *Graph, resolve ResolveFn, load LoadFn, parse ParseFn) *Loader {
	cached := map[string]domain.SerializedModule{}
	if g.options.Cache != nil {
		for _, sm := range g.options.Cache.Modules {
			cached[sm.ID] = sm
		}
	}
	return &Loader{
		graph:       g,
		resolve:     resolve,
		load:        load,
		parse:       parse,
		sideEffects: g.options.Treeshake.ModuleSideEffects,
		preserve:    g.options.PreserveEntrySignatures,
		cached:      cached,
		seen:        map[string]bool{},
	}
}

// SetProgress installs a per-module progress callback
func (l *Loader) SetProgress(fn ProgressFn) {
	l.progress = fn
}

// AddEntries loads the transitive closure of the entries and returns
// the entry modules in declaration order
func (l *Loader) AddEntries(ctx context.Context, entries []UnresolvedEntry) ([]*Module, error) {
	if len(entries) == 0 {
		return nil, &domain.BuildError{
			Code:    domain.ErrMissingInput,
			Message: "at least one entry module is required",
		}
	}

	// No worker limit: loading goroutines enqueue their imports from
	// inside the group, and a bounded group would deadlock once every
	// slot blocks in Go spawning children
	eg, ctx := errgroup.WithContext(ctx)

	resolvedIDs := make([]string, len(entries))
	for i, entry := range entries {
		eg.Go(func() error {
			resolved, err := l.resolve(ctx, entry.Specifier, "")
			if err != nil {
				return err
			}
			if resolved == nil {
				return &domain.BuildError{
					Code:    domain.ErrUnresolvedImport,
					Message: fmt.Sprintf("could not resolve entry module %q", entry.Specifier),
				}
			}
			if resolved.External {
				return &domain.BuildError{
					Code:    domain.ErrUnresolvedImport,
					Message: fmt.Sprintf("entry module %q cannot be external", entry.Specifier),
				}
			}
			resolvedIDs[i] = resolved.ID
			l.ensureModule(ctx, eg, resolved.ID)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	l.applyEdges()

	entryModules := make([]*Module, 0, len(entries))
	for i, entry := range entries {
		m := l.graph.moduleFor(resolvedIDs[i])
		if m == nil {
			return nil, &domain.BuildError{
				Code:    domain.ErrUnresolvedImport,
				Message: fmt.Sprintf("entry module %q did not produce a module", entry.Specifier),
			}
		}
		m.IsEntryPoint = true
		if entry.Name != "" {
			m.EntryName = entry.Name
		}
		entryModules = append(entryModules, m)
	}
	return entryModules, nil
}

// AddManualChunks loads the seed modules of every manual chunk and
// returns the resolved seed ids per chunk name
func (l *Loader) AddManualChunks(ctx context.Context, manual map[string][]string) (map[string][]string, error) {
	if len(manual) == 0 {
		return nil, nil
	}
	eg, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	groups := map[string][]string{}
	for name, seeds := range manual {
		for _, seed := range seeds {
			eg.Go(func() error {
				resolved, err := l.resolve(ctx, seed, "")
				if err != nil {
					return err
				}
				if resolved == nil || resolved.External {
					return &domain.BuildError{
						Code:    domain.ErrUnresolvedImport,
						Message: fmt.Sprintf("could not resolve manual chunk module %q", seed),
					}
				}
				l.ensureModule(ctx, eg, resolved.ID)
				mu.Lock()
				groups[name] = append(groups[name], resolved.ID)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	l.applyEdges()
	for name := range groups {
		sort.Strings(groups[name])
	}
	return groups, nil
}

// ensureModule schedules the load of an id exactly once
func (l *Loader) ensureModule(ctx context.Context, eg *errgroup.Group, id string) {
	l.mu.Lock()
	if l.seen[id] {
		l.mu.Unlock()
		return
	}
	l.seen[id] = true
	l.mu.Unlock()

	eg.Go(func() error {
		return l.loadModule(ctx, eg, id)
	})
}

// loadModule fetches, parses and records one module, then enqueues its
// imports
func (l *Loader) loadModule(ctx context.Context, eg *errgroup.Group, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var code string
	if sm, ok := l.cached[id]; ok {
		code = sm.Source
	} else {
		loaded, err := l.load(ctx, id)
		if err != nil {
			return &domain.BuildError{
				Code:    domain.ErrLoadFailed,
				Message: fmt.Sprintf("could not load %s", id),
				Err:     err,
			}
		}
		code = loaded
	}

	ast, err := l.parse(id, code)
	if err != nil {
		return &domain.BuildError{
			Code:    domain.ErrParseFailed,
			Message: err.Error(),
			Loc:     &domain.SourceLocation{File: id, Line: 1, Column: 0},
		}
	}

	m := NewModule(l.graph, id, code, ast, l.sideEffects.HasSideEffects(id, false), l.preserve)
	if sm, ok := l.cached[id]; ok {
		m.ModuleSideEffects = sm.ModuleSideEffects
	}

	l.mu.Lock()
	l.graph.insertModule(m)
	l.loaded++
	count := l.loaded
	l.mu.Unlock()
	if l.progress != nil {
		l.progress(count)
	}

	l.graph.notifyModuleParsed(m)

	// Enqueue every static and dynamic import discovered in the AST
	for _, source := range m.Sources {
		eg.Go(func() error {
			return l.processEdge(ctx, eg, m, source, false)
		})
	}
	for _, dyn := range m.DynamicImports {
		if dyn.Specifier == "" {
			continue
		}
		eg.Go(func() error {
			return l.processEdge(ctx, eg, m, dyn.Specifier, true)
		})
	}
	return nil
}

// processEdge resolves one import edge and schedules the target
func (l *Loader) processEdge(ctx context.Context, eg *errgroup.Group, importer *Module, specifier string, dynamic bool) error {
	resolved, err := l.resolve(ctx, specifier, importer.ID)
	if err != nil {
		return err
	}
	if resolved == nil {
		return &domain.BuildError{
			Code:    domain.ErrUnresolvedImport,
			Message: fmt.Sprintf("could not resolve %q from %s", specifier, importer.ID),
		}
	}

	l.mu.Lock()
	importer.ResolvedIDs[specifier] = *resolved
	if dynamic {
		for _, dyn := range importer.DynamicImports {
			if dyn.Specifier == specifier {
				dyn.Resolution = resolved
			}
		}
	}
	l.edges = append(l.edges, pendingEdge{
		importerID: importer.ID,
		targetID:   resolved.ID,
		dynamic:    dynamic,
	})
	l.mu.Unlock()

	if resolved.External {
		l.mu.Lock()
		em := l.graph.ensureExternalModule(resolved.ID, l.sideEffects.HasSideEffects(resolved.ID, true))
		if !dynamic {
			em.DynamicOnly = false
		}
		l.mu.Unlock()
		return nil
	}

	l.ensureModule(ctx, eg, resolved.ID)
	return nil
}

// applyEdges writes the reverse edges collected while loading. Sorted
// so importer lists are deterministic regardless of load order.
func (l *Loader) applyEdges() {
	l.mu.Lock()
	edges := l.edges
	l.edges = nil
	l.mu.Unlock()

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].targetID != edges[j].targetID {
			return edges[i].targetID < edges[j].targetID
		}
		return edges[i].importerID < edges[j].importerID
	})
	appended := map[string]bool{}
	for _, e := range edges {
		key := e.importerID + "\x00" + e.targetID + "\x00" + fmt.Sprint(e.dynamic)
		if appended[key] {
			continue
		}
		appended[key] = true
		if m := l.graph.moduleFor(e.targetID); m != nil {
			if e.dynamic {
				m.DynamicImporters = append(m.DynamicImporters, e.importerID)
			} else {
				m.Importers = append(m.Importers, e.importerID)
			}
		} else if em := l.graph.externalByID(e.targetID); em != nil {
			em.Importers = append(em.Importers, e.importerID)
		}
	}
}
