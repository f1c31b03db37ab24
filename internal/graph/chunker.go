package graph

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/jsbundle/domain"
)

// Chunker partitions the included modules into output chunks and
// synthesises facades that preserve entry signatures.
type Chunker struct {
	graph *Graph
}

// NewChunker creates a chunker bound to a graph
func NewChunker(g *Graph) *Chunker {
	return &Chunker{graph: g}
}

// GenerateChunks colours modules by the entry set that reaches them,
// groups equal colours, applies manual chunk assignments and returns
// all body chunks followed by all facades.
func (ck *Chunker) GenerateChunks(ctx context.Context, entryModules []*Module, manualGroups map[string][]string) ([]*Chunk, error) {
	included := ck.includedModules()
	opts := ck.graph.options

	var chunks []*Chunk
	switch {
	case opts.PreserveModules:
		chunks = ck.preserveModuleChunks(included)

	case opts.InlineDynamicImports:
		if len(manualGroups) > 0 {
			ck.graph.Warn(domain.Warning{
				Code:    domain.WarnChunkConflict,
				Message: "manualChunks is ignored when inlining dynamic imports",
			})
		}
		chunks = ck.inlineDynamicChunks(included, entryModules)

	default:
		var err error
		chunks, err = ck.colourChunks(ctx, included, entryModules, manualGroups)
		if err != nil {
			return nil, err
		}
	}

	moduleToChunk := map[*Module]*Chunk{}
	for _, c := range chunks {
		for _, m := range c.OrderedModules {
			moduleToChunk[m] = c
		}
	}
	for _, c := range chunks {
		c.link(moduleToChunk)
	}

	facades := ck.generateFacades(chunks, moduleToChunk)
	return append(chunks, facades...), nil
}

// includedModules returns the live modules in execution order
func (ck *Chunker) includedModules() []*Module {
	var included []*Module
	for _, m := range ck.graph.moduleList() {
		if m.IsIncluded {
			included = append(included, m)
		}
	}
	sort.Slice(included, func(i, j int) bool {
		return included[i].ExecIndex < included[j].ExecIndex
	})
	return included
}

// preserveModuleChunks emits one chunk per included module
func (ck *Chunker) preserveModuleChunks(included []*Module) []*Chunk {
	chunks := make([]*Chunk, 0, len(included))
	for _, m := range included {
		name := entryChunkName(m)
		c := newChunk(name)
		c.OrderedModules = []*Module{m}
		if m.IsEntryPoint {
			c.EntryModules = []*Module{m}
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// inlineDynamicChunks folds every included module into a single chunk
func (ck *Chunker) inlineDynamicChunks(included []*Module, entryModules []*Module) []*Chunk {
	name := "bundle"
	if len(entryModules) > 0 {
		name = entryChunkName(entryModules[0])
	}
	c := newChunk(name)
	c.OrderedModules = included
	for _, m := range included {
		if m.IsEntryPoint {
			c.EntryModules = append(c.EntryModules, m)
		}
	}
	return []*Chunk{c}
}

// colourChunks is the default mode: modules group by the exact set of
// entries that reach them, with manual assignments taking precedence
func (ck *Chunker) colourChunks(ctx context.Context, included []*Module, entryModules []*Module, manualGroups map[string][]string) ([]*Chunk, error) {
	colours := map[*Module]bitSet{}
	for _, m := range included {
		colours[m] = newBitSet(len(entryModules))
	}

	// Forward DFS from each entry runs as its own task with a private
	// reached set; bits merge sequentially afterwards
	reached := make([]map[*Module]bool, len(entryModules))
	eg, _ := errgroup.WithContext(ctx)
	for i, entry := range entryModules {
		eg.Go(func() error {
			seen := map[*Module]bool{}
			var visit func(m *Module)
			visit = func(m *Module) {
				if seen[m] || !m.IsIncluded {
					return
				}
				seen[m] = true
				for _, dep := range m.StaticDependencies() {
					visit(dep)
				}
			}
			visit(entry)
			reached[i] = seen
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for i := range entryModules {
		for m := range reached[i] {
			colours[m].setBit(i)
		}
	}

	manualAlias := ck.assignManualChunks(included, entryModules, manualGroups)

	// Group by manual alias first, then by colour
	chunkByKey := map[string]*Chunk{}
	var order []string
	for _, m := range included {
		var key string
		if alias, ok := manualAlias[m]; ok {
			key = "manual\x00" + alias
		} else {
			key = "colour\x00" + colours[m].key()
		}
		c, ok := chunkByKey[key]
		if !ok {
			c = newChunk("")
			chunkByKey[key] = c
			order = append(order, key)
			if alias, manual := manualAlias[m]; manual {
				c.Name = alias
			}
		}
		c.OrderedModules = append(c.OrderedModules, m)
		if m.IsEntryPoint {
			c.EntryModules = append(c.EntryModules, m)
		}
	}

	chunks := make([]*Chunk, 0, len(order))
	chunkIndex := 0
	for _, key := range order {
		c := chunkByKey[key]
		if c.Name == "" {
			if len(c.EntryModules) > 0 {
				c.Name = entryChunkName(c.EntryModules[0])
			} else {
				c.Name = fmt.Sprintf("chunk-%d", chunkIndex)
			}
		}
		chunkIndex++
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// assignManualChunks walks from every manual seed, claiming reachable
// modules until another entry point is hit. Manual chunks are applied in
// sorted name order, so on conflict the chunk whose name sorts first
// keeps the module; declaration order is not kept.
func (ck *Chunker) assignManualChunks(included []*Module, entryModules []*Module, manualGroups map[string][]string) map[*Module]string {
	alias := map[*Module]string{}
	if fn := ck.graph.options.ManualChunkFn; fn != nil {
		for _, m := range included {
			if name := fn(m.ID); name != "" {
				alias[m] = name
			}
		}
		return alias
	}
	if len(manualGroups) == 0 {
		return alias
	}

	names := make([]string, 0, len(manualGroups))
	for name := range manualGroups {
		names = append(names, name)
	}
	sort.Strings(names)

	isEntry := map[*Module]bool{}
	for _, e := range entryModules {
		isEntry[e] = true
	}

	for _, name := range names {
		for _, seedID := range manualGroups[name] {
			seed := ck.graph.moduleFor(seedID)
			if seed == nil || !seed.IsIncluded {
				continue
			}
			var visit func(m *Module)
			visit = func(m *Module) {
				if existing, claimed := alias[m]; claimed {
					if existing != name {
						ck.graph.Warn(domain.Warning{
							Code: domain.WarnChunkConflict,
							Message: fmt.Sprintf("module %s is claimed by manual chunks %q and %q; keeping %q",
								m.ID, existing, name, existing),
						})
					}
					return
				}
				alias[m] = name
				for _, dep := range m.StaticDependencies() {
					if !isEntry[dep] && dep.IsIncluded {
						visit(dep)
					}
				}
			}
			visit(seed)
		}
	}
	return alias
}

// generateFacades synthesises re-export chunks for entries whose
// signature the host chunk cannot express
func (ck *Chunker) generateFacades(chunks []*Chunk, moduleToChunk map[*Module]*Chunk) []*Chunk {
	if ck.graph.options.PreserveModules {
		return nil
	}
	var facades []*Chunk
	for _, host := range chunks {
		for i, entry := range host.EntryModules {
			if entry.PreserveSignature == domain.PreserveSignatureNone {
				continue
			}
			if !ck.needsFacade(host, entry, i) {
				continue
			}
			facade := newChunk(entryChunkName(entry))
			facade.IsFacade = true
			facade.FacadeTarget = host
			facade.FacadeModule = entry
			facade.EntryModules = []*Module{entry}
			for _, name := range entry.ExportNames(nil) {
				if v, found := entry.VariableForExportName(name, nil); found && v.Included {
					host.addExport(name, v)
					facade.Exports[name] = v
					facade.exportNameOf[v] = name
				}
			}
			facades = append(facades, facade)
		}
	}
	return facades
}

// needsFacade decides whether an entry signature is expressible by its
// host chunk directly
func (ck *Chunker) needsFacade(host *Chunk, entry *Module, entryIndex int) bool {
	// A merged chunk can only speak for its first entry
	if entryIndex > 0 {
		return true
	}
	if entry.PreserveSignature != domain.PreserveSignatureStrict {
		return false
	}
	// Strict signatures tolerate no extra exports on the chunk itself
	signature := map[string]bool{}
	for _, name := range entry.ExportNames(nil) {
		signature[name] = true
	}
	for name := range host.Exports {
		if !signature[name] {
			return true
		}
	}
	return false
}
