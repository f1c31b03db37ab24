// Package resolver implements the default filesystem id resolution the
// loader falls back to when no plugin claims a specifier.
package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/jsbundle/domain"
	"github.com/ludo-technologies/jsbundle/internal/graph"
)

// DefaultExtensions are probed, in order, when a specifier has none
var DefaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}

// Config configures the default resolver
type Config struct {
	// RootDir anchors entry specifiers; defaults to the working directory
	RootDir string

	// PreserveSymlinks skips canonicalisation through symlinks
	PreserveSymlinks bool

	// External lists specifiers classified external; ExternalFn takes
	// precedence when set
	External   []string
	ExternalFn domain.ExternalFn

	// Extensions overrides the probe order
	Extensions []string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{Extensions: DefaultExtensions}
}

// Resolver resolves specifiers to module ids on the local filesystem
type Resolver struct {
	config   *Config
	external map[string]bool
}

// NewResolver creates a resolver; nil config uses defaults
func NewResolver(config *Config) *Resolver {
	if config == nil {
		config = DefaultConfig()
	}
	if len(config.Extensions) == 0 {
		config.Extensions = DefaultExtensions
	}
	external := make(map[string]bool, len(config.External))
	for _, id := range config.External {
		external[id] = true
	}
	return &Resolver{config: config, external: external}
}

// Resolve maps a specifier to a module id. A nil result with nil error
// means the specifier cannot be resolved; the loader treats that as
// fatal for non-external specifiers.
func (r *Resolver) Resolve(ctx context.Context, specifier, importer string) (*graph.ResolvedID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.isExternal(specifier, importer) {
		return &graph.ResolvedID{ID: specifier, External: true}, nil
	}

	var base string
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"):
		if importer == "" {
			base = filepath.Join(r.rootDir(), specifier)
		} else {
			base = filepath.Join(filepath.Dir(importer), specifier)
		}
	case filepath.IsAbs(specifier):
		base = specifier
	case importer == "":
		// Entry specifiers may be plain relative paths
		base = filepath.Join(r.rootDir(), specifier)
	default:
		// Bare specifier that is not external: not resolvable here
		return nil, nil
	}

	id, ok := r.probe(base)
	if !ok {
		return nil, nil
	}
	if !r.config.PreserveSymlinks {
		if canonical, err := filepath.EvalSymlinks(id); err == nil {
			id = canonical
		}
	}
	if abs, err := filepath.Abs(id); err == nil {
		id = abs
	}
	return &graph.ResolvedID{ID: filepath.ToSlash(id)}, nil
}

// isExternal applies the configured classification; Node builtins are
// external unless the predicate says otherwise
func (r *Resolver) isExternal(specifier, importer string) bool {
	if fn := r.config.ExternalFn; fn != nil {
		return fn(specifier, importer, false)
	}
	if r.external[specifier] {
		return true
	}
	if strings.HasPrefix(specifier, "node:") {
		return true
	}
	return graph.NodeBuiltins[specifier]
}

// probe finds the file a base path refers to, trying the configured
// extensions and index files
func (r *Resolver) probe(base string) (string, bool) {
	if isFile(base) {
		return base, true
	}
	for _, ext := range r.config.Extensions {
		if candidate := base + ext; isFile(candidate) {
			return candidate, true
		}
	}
	if isDir(base) {
		for _, ext := range r.config.Extensions {
			if candidate := filepath.Join(base, "index"+ext); isFile(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func (r *Resolver) rootDir() string {
	if r.config.RootDir != "" {
		return r.config.RootDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// LoadFile is the default load hook: it reads the id from disk
func LoadFile(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.FromSlash(id))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
