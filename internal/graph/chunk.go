package graph

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/jsbundle/domain"
)

// Chunk is a set of modules that emit together. Facade chunks hold no
// body modules; they only re-export an entry signature from their host.
type Chunk struct {
	Name string

	// EntryModules are the members whose public exports must surface
	EntryModules []*Module

	// OrderedModules are the members in execution order
	OrderedModules []*Module

	// IsFacade marks signature-preserving re-export chunks
	IsFacade bool

	// FacadeTarget is the host chunk a facade re-exports from
	FacadeTarget *Chunk

	// FacadeModule is the entry whose signature a facade preserves
	FacadeModule *Module

	// Dependencies are the other chunks this one imports from
	Dependencies []*Chunk

	// ExternalDependencies are the external ids this chunk imports
	ExternalDependencies []string

	// ImportsFromChunks lists the variables taken from each dependency
	ImportsFromChunks map[*Chunk][]*Variable

	// Exports maps the chosen external name to the exported variable
	Exports map[string]*Variable

	exportNameOf map[*Variable]string
}

// newChunk creates an empty body chunk
func newChunk(name string) *Chunk {
	return &Chunk{
		Name:              name,
		ImportsFromChunks: map[*Chunk][]*Variable{},
		Exports:           map[string]*Variable{},
		exportNameOf:      map[*Variable]string{},
	}
}

// addExport picks an externally visible name for a variable, resolving
// collisions by numeric suffix
func (c *Chunk) addExport(preferred string, v *Variable) string {
	if name, ok := c.exportNameOf[v]; ok {
		return name
	}
	name := preferred
	for i := 1; ; i++ {
		if _, taken := c.Exports[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s$%d", preferred, i)
	}
	c.Exports[name] = v
	c.exportNameOf[v] = name
	return name
}

// ExportName returns the chosen external name of a variable, or ""
func (c *Chunk) ExportName(v *Variable) string {
	return c.exportNameOf[v]
}

// link computes cross-chunk imports and export names. moduleToChunk
// maps every included module to its body chunk.
func (c *Chunk) link(moduleToChunk map[*Module]*Chunk) {
	// Entry signatures come first so their exports keep their own names
	for _, entry := range c.EntryModules {
		if entry.PreserveSignature == domain.PreserveSignatureNone {
			continue
		}
		for _, name := range entry.ExportNames(nil) {
			if v, found := entry.VariableForExportName(name, nil); found && v.Included {
				c.addExport(name, v)
			}
		}
	}

	externals := map[string]bool{}
	depSet := map[*Chunk]bool{}
	for _, m := range c.OrderedModules {
		for _, source := range m.Sources {
			resolved, ok := m.ResolvedIDs[source]
			if !ok {
				continue
			}
			if resolved.External {
				externals[resolved.ID] = true
			}
		}
		for _, desc := range m.ImportDescriptions {
			v := desc.Variable
			if v == nil || !v.Included {
				continue
			}
			if v.Kind == VarExternal {
				continue
			}
			producer := v.Module
			if producer == nil {
				continue
			}
			host, ok := moduleToChunk[producer]
			if !ok || host == c {
				continue
			}
			host.addExport(v.Name, v)
			if !depSet[host] {
				depSet[host] = true
				c.Dependencies = append(c.Dependencies, host)
			}
			c.ImportsFromChunks[host] = append(c.ImportsFromChunks[host], v)
		}
	}

	c.ExternalDependencies = make([]string, 0, len(externals))
	for id := range externals {
		c.ExternalDependencies = append(c.ExternalDependencies, id)
	}
	sort.Strings(c.ExternalDependencies)
	sort.Slice(c.Dependencies, func(i, j int) bool {
		return c.Dependencies[i].Name < c.Dependencies[j].Name
	})
}

// Summary produces the reporting projection of the chunk
func (c *Chunk) Summary() domain.ChunkSummary {
	s := domain.ChunkSummary{
		Name:        c.Name,
		IsFacade:    c.IsFacade,
		ExternalIDs: append([]string(nil), c.ExternalDependencies...),
	}
	if c.FacadeModule != nil {
		s.FacadeOf = c.FacadeModule.ID
	}
	for _, e := range c.EntryModules {
		s.EntryIDs = append(s.EntryIDs, e.ID)
	}
	for _, m := range c.OrderedModules {
		s.ModuleIDs = append(s.ModuleIDs, m.ID)
	}
	for name := range c.Exports {
		s.Exports = append(s.Exports, name)
	}
	sort.Strings(s.Exports)
	return s
}

// entryChunkName derives an output name for an entry module
func entryChunkName(m *Module) string {
	if m.EntryName != "" {
		return m.EntryName
	}
	base := filepath.Base(m.ID)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
