package config

import (
	_ "embed"
	"encoding/json"
)

// DefaultConfigJSON contains the embedded default configuration file
//
//go:embed default_config.json
var DefaultConfigJSON string

// DefaultConfig parses the embedded default config. The embedded file
// is part of the build, so a parse failure is a programming error.
func DefaultConfig() *Config {
	var cfg Config
	if err := json.Unmarshal([]byte(DefaultConfigJSON), &cfg); err != nil {
		panic("invalid embedded default config: " + err.Error())
	}
	return &cfg
}
