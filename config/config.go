// Package config provides configuration loading and management for rdfx.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete rdfx configuration
type Config struct {
	Log     LogConfig               `yaml:"log"`
	Targets map[string]TargetConfig `yaml:"targets"`
}

// LogConfig configures structured logging
type LogConfig struct {
	// Level is the minimum level to emit (debug, info, warn, error)
	Level string `yaml:"level"`
	// Format selects the handler ("text" or "json")
	Format string `yaml:"format"`
}

// TargetConfig describes one named persistence target. Kind selects
// the backend; only the matching section is read.
type TargetConfig struct {
	Kind string `yaml:"kind"`

	File       FileTarget       `yaml:"file"`
	S3         S3Target         `yaml:"s3"`
	NATS       NATSTarget       `yaml:"nats"`
	GraphStore GraphStoreTarget `yaml:"graphstore"`
	SOP        SOPTarget        `yaml:"sop"`
}

// FileTarget configures a directory-backed target
type FileTarget struct {
	// Dir is the directory assets are stored in (default: current directory)
	Dir string `yaml:"dir"`
}

// S3Target configures an S3-compatible object store target
type S3Target struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Region    string `yaml:"region"`
	Insecure  bool   `yaml:"insecure"`
}

// NATSTarget configures a JetStream object store target
type NATSTarget struct {
	// URL is the NATS server URL (default: nats://localhost:4222)
	URL    string `yaml:"url"`
	Bucket string `yaml:"bucket"`
}

// GraphStoreTarget configures a SPARQL graph store target
type GraphStoreTarget struct {
	// Flavor is "graphdb" or "fuseki"
	Flavor       string        `yaml:"flavor"`
	SystemIRI    string        `yaml:"system_iri"`
	RepositoryID string        `yaml:"repository_id"`
	GraphIRI     string        `yaml:"graph_iri"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Timeout      time.Duration `yaml:"timeout"`
}

// SOPTarget configures an ontology platform target
type SOPTarget struct {
	SystemIRI    string        `yaml:"system_iri"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	Organization string        `yaml:"organization"`
	Timeout      time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Targets: map[string]TargetConfig{
			"local": {
				Kind: "file",
				File: FileTarget{Dir: "."},
			},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json; got %q", c.Log.Format)
	}
	for name, target := range c.Targets {
		if err := target.validate(); err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
	}
	return nil
}

func (t TargetConfig) validate() error {
	switch t.Kind {
	case "string", "file":
	case "s3":
		if t.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required")
		}
	case "nats":
		if t.NATS.Bucket == "" {
			return fmt.Errorf("nats.bucket is required")
		}
	case "graphdb", "fuseki":
		if t.GraphStore.SystemIRI == "" {
			return fmt.Errorf("graphstore.system_iri is required")
		}
		if t.GraphStore.RepositoryID == "" {
			return fmt.Errorf("graphstore.repository_id is required")
		}
	case "sop":
		if t.SOP.SystemIRI == "" {
			return fmt.Errorf("sop.system_iri is required")
		}
	case "":
		return fmt.Errorf("kind is required")
	default:
		return fmt.Errorf("unknown kind %q", t.Kind)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence
// for non-zero values). Targets merge by name.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	for name, target := range other.Targets {
		if c.Targets == nil {
			c.Targets = map[string]TargetConfig{}
		}
		c.Targets[name] = target
	}
}
