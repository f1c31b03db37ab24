package service

import (
	"os"

	"github.com/ludo-technologies/jsbundle/internal/config"
)

// ConfigurationLoaderImpl loads bundler configuration files
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*config.Config, error) {
	return config.LoadFromFile(path)
}

// LoadDefaultConfig loads the nearest config file, falling back to the
// embedded defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *config.Config {
	if path := c.FindDefaultConfigFile(); path != "" {
		if cfg, err := config.LoadFromFile(path); err == nil {
			return cfg
		}
	}
	return config.DefaultConfig()
}

// FindDefaultConfigFile searches the directory chain upward for a
// config file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	if path, found := config.FindConfigFile(wd); found {
		return path
	}
	return ""
}
