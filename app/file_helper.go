package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides entry-collection utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// jsExtensions are the source extensions treated as bundleable modules
var jsExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

// CollectEntries expands the CLI's entry arguments into the named entry
// map the engine expects. A directory argument contributes every
// bundleable file directly inside it (gitignore respected); `name=path`
// arguments declare named entries.
func (h *FileHelper) CollectEntries(args []string) (map[string]string, []string, error) {
	input := map[string]string{}
	var order []string

	add := func(name, path string) error {
		if _, taken := input[name]; taken {
			return fmt.Errorf("duplicate entry name %q", name)
		}
		input[name] = path
		order = append(order, name)
		return nil
	}

	for _, arg := range args {
		if name, path, named := strings.Cut(arg, "="); named {
			if err := add(name, path); err != nil {
				return nil, nil, err
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		if !info.IsDir() {
			if err := add(entryName(arg), arg); err != nil {
				return nil, nil, err
			}
			continue
		}

		gi := loadGitIgnore(arg)
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !h.IsJSFile(entry.Name()) {
				continue
			}
			if gi != nil && gi.MatchesPath(entry.Name()) {
				continue
			}
			path := filepath.Join(arg, entry.Name())
			if err := add(entryName(path), path); err != nil {
				return nil, nil, err
			}
		}
	}

	return input, order, nil
}

// IsJSFile reports whether a path has a bundleable extension
func (h *FileHelper) IsJSFile(path string) bool {
	return jsExtensions[strings.ToLower(filepath.Ext(path))]
}

// entryName derives the output name of an unnamed entry
func entryName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadGitIgnore loads the .gitignore of a directory, nil when absent
func loadGitIgnore(dir string) *ignore.GitIgnore {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
