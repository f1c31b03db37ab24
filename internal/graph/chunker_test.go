package graph

import (
	"testing"

	"github.com/ludo-technologies/jsbundle/domain"
)

func TestManualChunkGrouping(t *testing.T) {
	files := map[string]string{
		"a.js":      `import { u } from './vendor/util'; export const x = u;`,
		"vendor/util.js": `import { c } from './core'; export const u = c;`,
		"vendor/core.js": `export const c = 1;`,
	}
	_, chunks := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"},
		func(opts *domain.InputOptions) {
			opts.ManualChunks = map[string][]string{
				"vendor": {"vendor/util.js"},
			}
		})

	vendorChunk := chunkContaining(chunks, "vendor/util.js")
	if vendorChunk == nil || vendorChunk.Name != "vendor" {
		t.Fatalf("Expected vendor/util.js in the vendor chunk, got %v", vendorChunk)
	}
	if chunkContaining(chunks, "vendor/core.js") != vendorChunk {
		t.Error("Expected the manual chunk to claim transitive dependencies")
	}
	mainChunk := chunkContaining(chunks, "a.js")
	if mainChunk == vendorChunk {
		t.Error("Expected the entry to stay outside the manual chunk")
	}
}

func TestManualChunkConflictFirstWins(t *testing.T) {
	files := map[string]string{
		"a.js":      `import { s } from './shared'; export const x = s;`,
		"shared.js": `export const s = 1;`,
	}
	g, chunks := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"},
		func(opts *domain.InputOptions) {
			opts.ManualChunks = map[string][]string{
				"alpha": {"shared.js"},
				"beta":  {"shared.js"},
			}
		})

	warns := warningsWithCode(g, domain.WarnChunkConflict)
	if len(warns) != 1 {
		t.Fatalf("Expected 1 chunk-conflict warning, got %d", len(warns))
	}
	// Declarations apply in name order, so alpha wins
	c := chunkContaining(chunks, "shared.js")
	if c == nil || c.Name != "alpha" {
		t.Errorf("Expected shared.js in chunk alpha, got %v", c)
	}
}

func TestManualChunkFn(t *testing.T) {
	files := map[string]string{
		"a.js":   `import { u } from './lib'; export const x = u;`,
		"lib.js": `export const u = 1;`,
	}
	_, chunks := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"},
		func(opts *domain.InputOptions) {
			opts.ManualChunkFn = func(id string) string {
				if id == "lib.js" {
					return "lib"
				}
				return ""
			}
		})

	c := chunkContaining(chunks, "lib.js")
	if c == nil || c.Name != "lib" {
		t.Errorf("Expected lib.js in chunk lib, got %v", c)
	}
}

func TestFacadeForMergedEntries(t *testing.T) {
	// e2 imports e1, so e1 shares a colour and a chunk with shared.js;
	// that chunk also exports s for e2, which e1's strict signature does
	// not allow, so e1 needs a facade
	files := map[string]string{
		"e1.js": `import { s } from './shared'; export const a = s;`,
		"e2.js": `import './e1'; import { s } from './shared'; export const b = s;`,
		"shared.js": `export const s = 1;`,
	}
	_, chunks := buildTestGraph(t, files,
		map[string]string{"one": "e2.js", "two": "e1.js"}, []string{"one", "two"}, nil)

	var facades []*Chunk
	for _, c := range chunks {
		if c.IsFacade {
			facades = append(facades, c)
		}
	}
	if len(facades) != 1 {
		t.Fatalf("Expected 1 facade, got %d", len(facades))
	}
	f := facades[0]
	if f.FacadeModule == nil || f.FacadeModule.ID != "e1.js" {
		t.Errorf("Expected the facade to preserve e1.js, got %v", f.FacadeModule)
	}
	if len(f.OrderedModules) != 0 {
		t.Errorf("Expected facade to contain no body modules, got %d", len(f.OrderedModules))
	}
	if f.FacadeTarget == nil || f.FacadeTarget.IsFacade {
		t.Error("Expected the facade to target a body chunk")
	}
	if _, ok := f.Exports["a"]; !ok {
		t.Errorf("Expected the facade to re-export a, got %v", f.Exports)
	}

	// Facades come after all body chunks
	seenFacade := false
	for _, c := range chunks {
		if c.IsFacade {
			seenFacade = true
		} else if seenFacade {
			t.Error("Expected body chunks before facades in the result")
		}
	}
}

func TestChunkCountAtLeastEntries(t *testing.T) {
	files := map[string]string{
		"x.js": `export const a = 1;`,
		"y.js": `export const b = 2;`,
	}
	_, chunks := buildTestGraph(t, files,
		map[string]string{"e1": "x.js", "e2": "y.js"}, []string{"e1", "e2"}, nil)

	if len(chunks) < 2 {
		t.Errorf("Expected at least as many chunks as entries, got %d", len(chunks))
	}
}

func TestExportNameCollisionSuffixed(t *testing.T) {
	c := newChunk("test")
	v1 := &Variable{Kind: VarLocal, Name: "value"}
	v2 := &Variable{Kind: VarLocal, Name: "value"}

	first := c.addExport("value", v1)
	second := c.addExport("value", v2)

	if first != "value" {
		t.Errorf("Expected first export to keep its name, got %s", first)
	}
	if second != "value$1" {
		t.Errorf("Expected suffixed name value$1, got %s", second)
	}
	if c.addExport("value", v1) != "value" {
		t.Error("Expected repeated addExport to return the existing name")
	}
}
