package graph

import (
	"strings"
	"sync"

	"github.com/ludo-technologies/jsbundle/domain"
)

// PluginCache is the per-plugin key-value store carried across builds.
// Every entry tracks how many snapshots passed since it was last read;
// stale entries are swept at snapshot time.
type PluginCache struct {
	mu      sync.Mutex
	plugins map[string]map[string]*pluginCacheSlot
}

type pluginCacheSlot struct {
	accesses int
	value    any
}

// NewPluginCache creates a cache, rehydrating the previous build's
// entries. Surviving entries have their counters incremented at load
// time so unread ones age toward eviction.
func NewPluginCache(previous *domain.BuildCache) *PluginCache {
	pc := &PluginCache{plugins: map[string]map[string]*pluginCacheSlot{}}
	if previous == nil {
		return pc
	}
	for plugin, entries := range previous.Plugins {
		store := map[string]*pluginCacheSlot{}
		for key, entry := range entries {
			store[key] = &pluginCacheSlot{
				accesses: entry.Accesses + 1,
				value:    entry.Value,
			}
		}
		pc.plugins[plugin] = store
	}
	return pc
}

// Get reads a value, resetting the entry's age
func (pc *PluginCache) Get(plugin, key string) (any, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	store, ok := pc.plugins[plugin]
	if !ok {
		return nil, false
	}
	slot, ok := store[key]
	if !ok {
		return nil, false
	}
	slot.accesses = 0
	return slot.value, true
}

// Set writes a value with a fresh age
func (pc *PluginCache) Set(plugin, key string, value any) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	store, ok := pc.plugins[plugin]
	if !ok {
		store = map[string]*pluginCacheSlot{}
		pc.plugins[plugin] = store
	}
	store[key] = &pluginCacheSlot{value: value}
}

// Snapshot evicts entries whose age reached the expiry and returns the
// survivors in the persisted shape
func (pc *PluginCache) Snapshot(expiry int) map[string]map[string]domain.PluginCacheEntry {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	out := map[string]map[string]domain.PluginCacheEntry{}
	for plugin, store := range pc.plugins {
		kept := map[string]domain.PluginCacheEntry{}
		for key, slot := range store {
			if expiry > 0 && slot.accesses >= expiry {
				delete(store, key)
				continue
			}
			kept[key] = domain.PluginCacheEntry{
				Accesses: slot.accesses,
				Value:    slot.value,
			}
		}
		if len(kept) > 0 {
			out[plugin] = kept
		}
	}
	return out
}

// PathTracker is the structural path set used by value analysis to
// remember deoptimized entity paths (reassigned bindings, mutated
// namespaces). Membership is monotone within a build.
type PathTracker struct {
	mu    sync.Mutex
	paths map[string]bool
}

// NewPathTracker creates an empty tracker
func NewPathTracker() *PathTracker {
	return &PathTracker{paths: map[string]bool{}}
}

func pathKey(entity string, path []string) string {
	return entity + "\x00" + strings.Join(path, "\x00")
}

// Track records a path; returns true the first time it is seen
func (t *PathTracker) Track(entity string, path []string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := pathKey(entity, path)
	if t.paths[key] {
		return false
	}
	t.paths[key] = true
	return true
}

// Tracked reports whether a path was deoptimized
func (t *PathTracker) Tracked(entity string, path []string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paths[pathKey(entity, path)]
}
