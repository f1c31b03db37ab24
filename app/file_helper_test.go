package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollectEntriesNamedAndPlain(t *testing.T) {
	dir := t.TempDir()
	main := writeTemp(t, dir, "main.js", "export const x = 1;\n")
	worker := writeTemp(t, dir, "worker.js", "export const y = 1;\n")

	h := NewFileHelper()
	input, order, err := h.CollectEntries([]string{main, "bg=" + worker})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "main" || order[1] != "bg" {
		t.Errorf("Unexpected entry order: %v", order)
	}
	if input["main"] != main || input["bg"] != worker {
		t.Errorf("Unexpected input map: %v", input)
	}
}

func TestCollectEntriesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.js", "export const a = 1;\n")
	writeTemp(t, dir, "b.ts", "export const b = 1;\n")
	writeTemp(t, dir, "notes.txt", "not a module\n")

	h := NewFileHelper()
	input, order, err := h.CollectEntries([]string{dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("Expected 2 entries, got %v", order)
	}
	if _, ok := input["a"]; !ok {
		t.Errorf("Expected entry a, got %v", input)
	}
	if _, ok := input["b"]; !ok {
		t.Errorf("Expected entry b, got %v", input)
	}
}

func TestCollectEntriesGitignoreRespected(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.js", "export const a = 1;\n")
	writeTemp(t, dir, "generated.js", "export const g = 1;\n")
	writeTemp(t, dir, ".gitignore", "generated.js\n")

	h := NewFileHelper()
	input, _, err := h.CollectEntries([]string{dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := input["generated"]; ok {
		t.Error("Expected gitignored file to be skipped")
	}
	if _, ok := input["a"]; !ok {
		t.Errorf("Expected entry a kept, got %v", input)
	}
}

func TestCollectEntriesDuplicateNameFails(t *testing.T) {
	dir := t.TempDir()
	a := writeTemp(t, dir, "main.js", "export const a = 1;\n")

	h := NewFileHelper()
	if _, _, err := h.CollectEntries([]string{a, "main=" + a}); err == nil {
		t.Error("Expected duplicate entry name to fail")
	}
}

func TestIsJSFile(t *testing.T) {
	h := NewFileHelper()
	for _, path := range []string{"a.js", "b.TSX", "c.mjs", "d.cts"} {
		if !h.IsJSFile(path) {
			t.Errorf("Expected %s to be bundleable", path)
		}
	}
	for _, path := range []string{"a.css", "b.json", "c"} {
		if h.IsJSFile(path) {
			t.Errorf("Expected %s to be rejected", path)
		}
	}
}
