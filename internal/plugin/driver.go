// Package plugin hosts the hook driver the build graph consumes.
// Plugins are ordered; resolution hooks run first-wins, transform runs
// as a chain, notifications run sequentially.
package plugin

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/graph"
)

// Plugin is one hook bundle. Any hook may be nil.
type Plugin struct {
	Name string

	// ResolveID claims a specifier; a nil result passes to the next
	// plugin and finally to the default resolver
	ResolveID func(ctx context.Context, specifier, importer string) (*graph.ResolvedID, error)

	// Load fetches source for an id; ok=false passes on
	Load func(ctx context.Context, id string) (code string, ok bool, err error)

	// Transform rewrites loaded source
	Transform func(ctx context.Context, id, code string) (string, error)

	// ModuleParsed observes each materialised module
	ModuleParsed func(info domain.ModuleInfo)

	// WatchChange observes watched-file change notifications
	WatchChange func(id string)
}

// Driver dispatches hooks across the plugin list
type Driver struct {
	plugins []Plugin
	cache   *graph.PluginCache
}

// NewDriver creates a driver over an ordered plugin list
func NewDriver(plugins []Plugin) *Driver {
	return &Driver{plugins: plugins}
}

// AttachCache hands the driver the build's plugin cache
func (d *Driver) AttachCache(cache *graph.PluginCache) {
	d.cache = cache
}

// CacheGet reads a plugin's cache slot
func (d *Driver) CacheGet(plugin, key string) (any, bool) {
	if d.cache == nil {
		return nil, false
	}
	return d.cache.Get(plugin, key)
}

// CacheSet writes a plugin's cache slot
func (d *Driver) CacheSet(plugin, key string, value any) {
	if d.cache != nil {
		d.cache.Set(plugin, key, value)
	}
}

// hookError attributes a hook failure to its plugin
func hookError(pluginName, hook string, err error) error {
	return &domain.BuildError{
		Code:    domain.ErrPluginHook,
		Message: fmt.Sprintf("%s hook failed: %v", hook, err),
		Plugin:  pluginName,
		Err:     err,
	}
}

// ResolveFn composes the plugin resolveId chain with a fallback
func (d *Driver) ResolveFn(fallback graph.ResolveFn) graph.ResolveFn {
	return func(ctx context.Context, specifier, importer string) (*graph.ResolvedID, error) {
		for _, p := range d.plugins {
			if p.ResolveID == nil {
				continue
			}
			resolved, err := p.ResolveID(ctx, specifier, importer)
			if err != nil {
				return nil, hookError(p.Name, "resolveId", err)
			}
			if resolved != nil {
				return resolved, nil
			}
		}
		return fallback(ctx, specifier, importer)
	}
}

// LoadFn composes the plugin load chain, the fallback loader and the
// transform chain into the loader's load hook
func (d *Driver) LoadFn(fallback graph.LoadFn) graph.LoadFn {
	return func(ctx context.Context, id string) (string, error) {
		var code string
		loaded := false
		for _, p := range d.plugins {
			if p.Load == nil {
				continue
			}
			c, ok, err := p.Load(ctx, id)
			if err != nil {
				return "", hookError(p.Name, "load", err)
			}
			if ok {
				code = c
				loaded = true
				break
			}
		}
		if !loaded {
			c, err := fallback(ctx, id)
			if err != nil {
				return "", err
			}
			code = c
		}
		for _, p := range d.plugins {
			if p.Transform == nil {
				continue
			}
			c, err := p.Transform(ctx, id, code)
			if err != nil {
				return "", hookError(p.Name, "transform", err)
			}
			code = c
		}
		return code, nil
	}
}

// NotifyModuleParsed dispatches moduleParsed sequentially
func (d *Driver) NotifyModuleParsed(info domain.ModuleInfo) {
	for _, p := range d.plugins {
		if p.ModuleParsed != nil {
			p.ModuleParsed(info)
		}
	}
}

// NotifyWatchChange dispatches watchChange sequentially
func (d *Driver) NotifyWatchChange(id string) {
	for _, p := range d.plugins {
		if p.WatchChange != nil {
			p.WatchChange(id)
		}
	}
}
