package graph

import (
	"testing"

	"github.com/ludo-technologies/jsbundle/domain"
)

func TestExecutionOrderDiamond(t *testing.T) {
	files := map[string]string{
		"a.js": `import { l } from './left'; import { r } from './right'; export const x = l + r;`,
		"left.js":  `import { s } from './shared'; export const l = s;`,
		"right.js": `import { s } from './shared'; export const r = s;`,
		"shared.js": `export const s = 1;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	order := map[string]int{}
	for _, m := range g.moduleList() {
		order[m.ID] = m.ExecIndex
	}
	if !(order["shared.js"] < order["left.js"] &&
		order["left.js"] < order["right.js"] &&
		order["right.js"] < order["a.js"]) {
		t.Errorf("Unexpected execution order: %v", order)
	}
}

func TestImportsPrecedeImporters(t *testing.T) {
	files := map[string]string{
		"a.js": `import { b } from './b'; export const x = b;`,
		"b.js": `import { c } from './c'; export const b = c;`,
		"c.js": `export const c = 1;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	for _, m := range g.moduleList() {
		for _, dep := range m.StaticDependencies() {
			if dep.ExecIndex >= m.ExecIndex {
				t.Errorf("Expected %s to precede %s in execution order", dep.ID, m.ID)
			}
		}
	}
}

func TestMissingExportWarns(t *testing.T) {
	files := map[string]string{
		"a.js": `import { nope } from './b'; export const x = nope;`,
		"b.js": `export const y = 1;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	warns := warningsWithCode(g, domain.WarnMissingExport)
	if len(warns) != 1 {
		t.Fatalf("Expected 1 missing-export warning, got %d", len(warns))
	}
	a := g.moduleFor("a.js")
	desc := a.ImportDescriptions["nope"]
	if desc == nil || desc.Variable == nil {
		t.Fatal("Expected a substitute binding for the missing export")
	}
	if desc.Variable.Kind != VarUndefined {
		t.Errorf("Expected undefined binding, got %s", desc.Variable.Kind)
	}
}

func TestShimMissingExports(t *testing.T) {
	files := map[string]string{
		"a.js": `import { nope } from './b'; export const x = nope;`,
		"b.js": `export const y = 1;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"},
		func(opts *domain.InputOptions) {
			opts.ShimMissingExports = true
		})

	a := g.moduleFor("a.js")
	desc := a.ImportDescriptions["nope"]
	if desc == nil || desc.Variable == nil {
		t.Fatal("Expected a shim binding")
	}
	if desc.Variable.Kind != VarLocal || desc.Variable.Name != "_missingExportShim" {
		t.Errorf("Expected the shim variable, got %s %s", desc.Variable.Kind, desc.Variable.Name)
	}
}

func TestReexportOfMissingNameWarns(t *testing.T) {
	files := map[string]string{
		"a.js": `export { ghost } from './b';`,
		"b.js": `export const y = 1;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	warns := warningsWithCode(g, domain.WarnNonExistentExport)
	if len(warns) != 1 {
		t.Fatalf("Expected 1 non-existent-export warning, got %d", len(warns))
	}
}

func TestReassignmentTracked(t *testing.T) {
	files := map[string]string{
		"a.js": `export let x = 1; x = 2;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	a := g.moduleFor("a.js")
	v, _ := a.VariableForExportName("x", nil)
	if v == nil || !v.Reassigned {
		t.Error("Expected x to be marked reassigned")
	}
	if !g.Deoptimized.Tracked("a.js", []string{"x"}) {
		t.Error("Expected the reassignment to be tracked as a deoptimized path")
	}
}

func TestNoDanglingImportsAfterLink(t *testing.T) {
	files := map[string]string{
		"a.js": `import def, { named } from './b'; import * as ns from './b'; export const x = def + named + ns.named;`,
		"b.js": `export default 1; export const named = 2;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	a := g.moduleFor("a.js")
	if len(a.ImportDescriptions) != 3 {
		t.Fatalf("Expected 3 import descriptions, got %d", len(a.ImportDescriptions))
	}
	for local, desc := range a.ImportDescriptions {
		if desc.Module == nil {
			t.Errorf("Import %s has no producing module after link", local)
		}
		if desc.Variable == nil {
			t.Errorf("Import %s has no bound variable after link", local)
		}
	}
	ns := a.ImportDescriptions["ns"]
	if ns.Variable.Kind != VarNamespace {
		t.Errorf("Expected namespace import to bind the namespace variable, got %s", ns.Variable.Kind)
	}
	def := a.ImportDescriptions["def"]
	if def.Variable.Kind != VarExportDefault {
		t.Errorf("Expected default import to bind the default variable, got %s", def.Variable.Kind)
	}
}
