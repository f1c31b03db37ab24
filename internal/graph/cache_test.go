package graph

import (
	"testing"

	"github.com/ludo-technologies/jsbundle/domain"
)

func TestPluginCacheSetGet(t *testing.T) {
	pc := NewPluginCache(nil)
	pc.Set("my-plugin", "key", "value")

	got, ok := pc.Get("my-plugin", "key")
	if !ok || got != "value" {
		t.Errorf("Expected cached value, got %v (%v)", got, ok)
	}
	if _, ok := pc.Get("my-plugin", "missing"); ok {
		t.Error("Expected miss for unknown key")
	}
	if _, ok := pc.Get("other-plugin", "key"); ok {
		t.Error("Expected miss for unknown plugin")
	}
}

func TestPluginCacheExpiry(t *testing.T) {
	previous := &domain.BuildCache{
		Plugins: map[string]map[string]domain.PluginCacheEntry{
			"p": {
				"stale": {Accesses: 9, Value: "old"},
				"fresh": {Accesses: 0, Value: "new"},
			},
		},
	}
	// Loading increments counters: stale becomes 10, fresh becomes 1
	pc := NewPluginCache(previous)

	snapshot := pc.Snapshot(10)
	entries := snapshot["p"]
	if _, ok := entries["stale"]; ok {
		t.Error("Expected stale entry evicted at expiry")
	}
	if entry, ok := entries["fresh"]; !ok || entry.Value != "new" {
		t.Errorf("Expected fresh entry kept, got %v", entries)
	}
}

func TestPluginCacheAccessResetsAge(t *testing.T) {
	previous := &domain.BuildCache{
		Plugins: map[string]map[string]domain.PluginCacheEntry{
			"p": {"key": {Accesses: 9, Value: "v"}},
		},
	}
	pc := NewPluginCache(previous)
	// Reading resets the counter so the entry survives the sweep
	if _, ok := pc.Get("p", "key"); !ok {
		t.Fatal("Expected entry present before sweep")
	}
	snapshot := pc.Snapshot(10)
	if _, ok := snapshot["p"]["key"]; !ok {
		t.Error("Expected read entry to survive the sweep")
	}
}

func TestSerializedModuleShape(t *testing.T) {
	files := map[string]string{
		"a.js": `import { y } from './b'; export let x = y; x = x + 1;`,
		"b.js": `export const y = 1;`,
	}
	g, _ := buildTestGraph(t, files,
		map[string]string{"main": "a.js"}, []string{"main"}, nil)

	sm := g.moduleFor("a.js").Serialize()
	if sm.ID != "a.js" {
		t.Errorf("Expected id a.js, got %s", sm.ID)
	}
	if sm.Source != files["a.js"] {
		t.Error("Expected serialized source to match the loaded code")
	}
	if len(sm.Sources) != 1 || sm.Sources[0] != "./b" {
		t.Errorf("Expected sources [./b], got %v", sm.Sources)
	}
	if sm.ResolvedIDs["./b"] != "b.js" {
		t.Errorf("Expected ./b resolved to b.js, got %v", sm.ResolvedIDs)
	}
	if len(sm.ReassignedNames) != 1 || sm.ReassignedNames[0] != "x" {
		t.Errorf("Expected reassigned names [x], got %v", sm.ReassignedNames)
	}
}

func TestPathTracker(t *testing.T) {
	tracker := NewPathTracker()
	if !tracker.Track("m.js", []string{"a", "b"}) {
		t.Error("Expected first track to report new")
	}
	if tracker.Track("m.js", []string{"a", "b"}) {
		t.Error("Expected repeated track to report known")
	}
	if !tracker.Tracked("m.js", []string{"a", "b"}) {
		t.Error("Expected path to be tracked")
	}
	if tracker.Tracked("m.js", []string{"a"}) {
		t.Error("Expected prefix path to be distinct")
	}
}
