package treepath

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds project settings loaded from .treepath.yaml.
type Config struct {
	// Aliases maps short names to full path expressions. A query that
	// matches an alias name is replaced by the aliased expression.
	Aliases map[string]string `yaml:"aliases"`

	// IgnorePaths lists path fragments skipped when walking directories.
	IgnorePaths []string `yaml:"ignore-paths"`

	// MaxVisited caps the node budget per query. Zero means unbounded.
	MaxVisited int `yaml:"max-visited"`

	// MaxDepth caps traversal depth per query. Zero means unbounded.
	MaxDepth int `yaml:"max-depth"`
}

// DefaultConfigName is the config filename looked up in the working
// directory when no explicit path is given.
const DefaultConfigName = ".treepath.yaml"

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// LoadDefaultConfig loads .treepath.yaml from the working directory,
// returning an empty config when the file does not exist.
func LoadDefaultConfig() (*Config, error) {
	cfg, err := LoadConfig(DefaultConfigName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// ResolveQuery expands q when it names an alias, otherwise returns q
// unchanged.
func (c *Config) ResolveQuery(q string) string {
	if c == nil || c.Aliases == nil {
		return q
	}
	if expanded, ok := c.Aliases[q]; ok {
		return expanded
	}
	return q
}

// Limits returns the traversal limits configured, if any.
func (c *Config) Limits() Limits {
	if c == nil {
		return Limits{}
	}
	return Limits{MaxVisited: c.MaxVisited, MaxDepth: c.MaxDepth}
}
