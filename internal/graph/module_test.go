package graph

import (
	"testing"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/testutil"
)

func analyseModule(t *testing.T, source string) *Module {
	t.Helper()
	ast := testutil.CreateTestAST(t, source)
	g := NewGraph(defaultTestOptions(nil, nil), nil, nil, nil)
	return NewModule(g, "test.js", source, ast, true, domain.PreserveSignatureStrict)
}

func TestModuleAnalysisImports(t *testing.T) {
	m := analyseModule(t, `
import def from './a';
import * as ns from './b';
import { one, two as alias } from './c';
import './boot';
`)
	if len(m.Sources) != 4 {
		t.Fatalf("Expected 4 sources, got %v", m.Sources)
	}
	if m.Sources[0] != "./a" || m.Sources[3] != "./boot" {
		t.Errorf("Expected sources in AST order, got %v", m.Sources)
	}

	cases := map[string]struct {
		source string
		name   string
	}{
		"def":   {"./a", "default"},
		"ns":    {"./b", "*"},
		"one":   {"./c", "one"},
		"alias": {"./c", "two"},
	}
	for local, want := range cases {
		desc, ok := m.ImportDescriptions[local]
		if !ok {
			t.Errorf("Missing import description for %s", local)
			continue
		}
		if desc.Source != want.source || desc.Name != want.name {
			t.Errorf("Import %s: expected %s/%s, got %s/%s",
				local, want.source, want.name, desc.Source, desc.Name)
		}
	}
}

func TestModuleAnalysisExports(t *testing.T) {
	m := analyseModule(t, `
export const x = 1;
export function run() {}
export default class App {}
export { x as y };
export { inner } from './dep';
export * from './star';
`)
	for _, name := range []string{"x", "run", "default", "y", "inner"} {
		if _, ok := m.ExportDescriptions[name]; !ok {
			t.Errorf("Missing export description for %s", name)
		}
	}
	if desc := m.ExportDescriptions["inner"]; desc.Source != "./dep" || desc.ImportedName != "inner" {
		t.Errorf("Unexpected re-export description: %+v", desc)
	}
	if len(m.ExportAllSources) != 1 || m.ExportAllSources[0] != "./star" {
		t.Errorf("Expected star source ./star, got %v", m.ExportAllSources)
	}
	if desc := m.ExportDescriptions["y"]; desc.LocalName != "x" {
		t.Errorf("Expected y to alias local x, got %+v", desc)
	}
}

func TestModuleScopeDeclarations(t *testing.T) {
	m := analyseModule(t, `
const a = 1;
function f() {}
class C {}
const { d, e } = obj;
`)
	for _, name := range []string{"a", "f", "C", "d", "e"} {
		if _, ok := m.Arena.Lookup(m.ModuleScope, name); !ok {
			t.Errorf("Expected %s declared in the module scope", name)
		}
	}
}

func TestBitSetColours(t *testing.T) {
	a := newBitSet(10)
	b := newBitSet(10)
	a.setBit(0)
	a.setBit(9)
	b.setBit(0)

	if a.equals(b) {
		t.Error("Expected differing sets to compare unequal")
	}
	b.setBit(9)
	if !a.equals(b) {
		t.Error("Expected matching sets to compare equal")
	}
	if a.key() != b.key() {
		t.Error("Expected equal sets to share a key")
	}
	if !a.hasBit(9) || a.hasBit(5) {
		t.Error("Unexpected bit membership")
	}

	c := newBitSet(10)
	c.setBit(5)
	c.bitwiseOrWith(a)
	for _, bit := range []int{0, 5, 9} {
		if !c.hasBit(bit) {
			t.Errorf("Expected bit %d set after or", bit)
		}
	}
}
