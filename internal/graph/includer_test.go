package graph

import (
	"testing"

	"github.com/ludo-technologies/jsbundle/domain"
)

func TestTreeShakingDisabledIncludesEverything(t *testing.T) {
	files := map[string]string{
		"a.js": `import { y } from './b';`,
		"b.js": `export const y = 1; export const z = 2;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"},
		func(opts *domain.InputOptions) {
			opts.Treeshake.Enabled = false
		})

	b := g.moduleFor("b.js")
	for _, name := range []string{"y", "z"} {
		v, found := b.VariableForExportName(name, nil)
		if !found || !v.Included {
			t.Errorf("Expected %s included with tree-shaking off", name)
		}
	}
	if b.IncludedStatementCount() != 2 {
		t.Errorf("Expected every statement of b included, got %d", b.IncludedStatementCount())
	}
}

func TestSideEffectStatementsKept(t *testing.T) {
	files := map[string]string{
		"a.js": `import './b'; export const x = 1;`,
		"b.js": `console.log("boot"); export const unused = 1;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	b := g.moduleFor("b.js")
	if !b.IsIncluded {
		t.Fatal("Expected b included through its side effect")
	}
	if b.IncludedStatementCount() != 1 {
		t.Errorf("Expected only the console.log statement included, got %d", b.IncludedStatementCount())
	}
	unusedVar, _ := b.VariableForExportName("unused", nil)
	if unusedVar == nil || unusedVar.Included {
		t.Error("Expected unused export to stay excluded")
	}
}

func TestPureAnnotationDropped(t *testing.T) {
	files := map[string]string{
		"a.js": `export const x = 1;
const ignored = /*@__PURE__*/ heavy();
function heavy() { return 1; }`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	a := g.moduleFor("a.js")
	// Only the export statement should be live
	if a.IncludedStatementCount() != 1 {
		t.Errorf("Expected 1 included statement, got %d", a.IncludedStatementCount())
	}
}

func TestPureAnnotationIgnoredWhenDisabled(t *testing.T) {
	files := map[string]string{
		"a.js": `export const x = 1;
const kept = /*@__PURE__*/ heavy();
function heavy() { return 1; }`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"},
		func(opts *domain.InputOptions) {
			opts.Treeshake.Annotations = false
		})

	a := g.moduleFor("a.js")
	if a.IncludedStatementCount() < 2 {
		t.Errorf("Expected the annotated call kept without annotation support, got %d statements",
			a.IncludedStatementCount())
	}
}

func TestNamespaceImportIncludesAllExports(t *testing.T) {
	files := map[string]string{
		"a.js": `import * as ns from './b'; export const all = ns;`,
		"b.js": `export const one = 1; export const two = 2;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	b := g.moduleFor("b.js")
	for _, name := range []string{"one", "two"} {
		v, found := b.VariableForExportName(name, nil)
		if !found || !v.Included {
			t.Errorf("Expected %s included through the namespace import", name)
		}
	}
}

func TestDefaultParameterValueIncluded(t *testing.T) {
	files := map[string]string{
		"a.js": `import { run } from './b'; export const x = run();`,
		"b.js": `const CONFIG = { level: 1 };
export function run(opts = CONFIG) { return opts.level; }`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	b := g.moduleFor("b.js")
	cfg, ok := b.Arena.Lookup(b.ModuleScope, "CONFIG")
	if !ok {
		t.Fatal("Expected CONFIG declared in b's module scope")
	}
	// Calling run() without arguments reads CONFIG at runtime, so the
	// default-value reference must keep it alive
	if !cfg.Included {
		t.Error("Expected CONFIG included through the default parameter value")
	}
	if b.IncludedStatementCount() != 2 {
		t.Errorf("Expected both statements of b included, got %d", b.IncludedStatementCount())
	}
}

func TestUnusedExternalImportWarning(t *testing.T) {
	files := map[string]string{
		"a.js": `import { used, unused } from 'ext:lib'; export const x = used;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	warns := warningsWithCode(g, domain.WarnUnusedExternalImport)
	if len(warns) != 1 {
		t.Fatalf("Expected 1 unused-external-import warning, got %d", len(warns))
	}
	if len(warns[0].Names) != 1 || warns[0].Names[0] != "unused" {
		t.Errorf("Expected unused name reported, got %v", warns[0].Names)
	}
}

func TestIncludeIdempotent(t *testing.T) {
	files := map[string]string{
		"a.js": `import { y } from './b'; export const x = y;`,
		"b.js": `export const y = 1; export const z = 2;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	a := g.moduleFor("a.js")
	b := g.moduleFor("b.js")
	before := a.IncludedStatementCount() + b.IncludedStatementCount()

	// Re-running include over the already-marked graph must not change
	// the included set
	NewIncluder(g).Include([]*Module{a})
	after := a.IncludedStatementCount() + b.IncludedStatementCount()
	if before != after {
		t.Errorf("Include is not idempotent: %d then %d statements", before, after)
	}
}

func TestReexportChainResolved(t *testing.T) {
	files := map[string]string{
		"a.js": `import { v } from './b'; export const x = v;`,
		"b.js": `export { v } from './c';`,
		"c.js": `export const v = 7;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	c := g.moduleFor("c.js")
	v, found := c.VariableForExportName("v", nil)
	if !found || !v.Included {
		t.Error("Expected v included through the re-export chain")
	}
	a := g.moduleFor("a.js")
	desc := a.ImportDescriptions["v"]
	if desc == nil || desc.Variable != v {
		t.Error("Expected the import to bind to c's variable through b")
	}
}

func TestStarReexportResolved(t *testing.T) {
	files := map[string]string{
		"a.js": `import { v } from './b'; export const x = v;`,
		"b.js": `export * from './c';`,
		"c.js": `export const v = 7;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	c := g.moduleFor("c.js")
	v, found := c.VariableForExportName("v", nil)
	if !found || !v.Included {
		t.Error("Expected v included through the star re-export")
	}
	if warns := warningsWithCode(g, domain.WarnMissingExport); len(warns) != 0 {
		t.Errorf("Expected no missing-export warnings, got %v", warns)
	}
}
