package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the kind of JavaScript project being bundled
type ProjectType string

const (
	ProjectTypeApp     ProjectType = "app"
	ProjectTypeLibrary ProjectType = "library"
	ProjectTypeServer  ProjectType = "server"
)

// ProjectPreset holds per-project-type configuration defaults
type ProjectPreset struct {
	PreserveEntrySignatures string
	PreserveModules         bool
	External                []string
}

// GetProjectPresets returns presets for the supported project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeApp: {
			PreserveEntrySignatures: "none",
		},
		ProjectTypeLibrary: {
			PreserveEntrySignatures: "strict",
			PreserveModules:         true,
		},
		// Node builtins are external by default in the resolver, so the
		// server preset needs no External list of its own
		ProjectTypeServer: {
			PreserveEntrySignatures: "strict",
		},
	}
}

// GenerateTemplate renders a starter config file for a project type
func GenerateTemplate(projectType ProjectType, entry string) (string, error) {
	presets := GetProjectPresets()
	preset, ok := presets[projectType]
	if !ok {
		return "", fmt.Errorf("unknown project type %q", projectType)
	}

	cfg := DefaultConfig()
	cfg.Input = map[string]string{"main": entry}
	cfg.EntryOrder = []string{"main"}
	cfg.PreserveEntrySignatures = preset.PreserveEntrySignatures
	cfg.PreserveModules = preset.PreserveModules
	cfg.External = preset.External

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}
	header := "# jsbundle configuration\n# Generated for project type: " + string(projectType) + "\n"
	return header + string(data), nil
}
