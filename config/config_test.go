package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/surroundaustralia/rdfx/persistence"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected default log format text, got %s", cfg.Log.Format)
	}
	local, ok := cfg.Targets["local"]
	if !ok {
		t.Fatal("expected a default local target")
	}
	if local.Kind != "file" {
		t.Errorf("expected local target kind file, got %s", local.Kind)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			modify:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
		},
		{
			name: "target missing kind",
			modify: func(c *Config) {
				c.Targets["broken"] = TargetConfig{}
			},
			wantErr: true,
		},
		{
			name: "unknown target kind",
			modify: func(c *Config) {
				c.Targets["broken"] = TargetConfig{Kind: "carrier-pigeon"}
			},
			wantErr: true,
		},
		{
			name: "s3 target without bucket",
			modify: func(c *Config) {
				c.Targets["archive"] = TargetConfig{Kind: "s3"}
			},
			wantErr: true,
		},
		{
			name: "graphdb target without repository",
			modify: func(c *Config) {
				c.Targets["gdb"] = TargetConfig{
					Kind:       "graphdb",
					GraphStore: GraphStoreTarget{SystemIRI: "http://localhost:7200"},
				}
			},
			wantErr: true,
		},
		{
			name: "valid sop target",
			modify: func(c *Config) {
				c.Targets["platform"] = TargetConfig{
					Kind: "sop",
					SOP:  SOPTarget{SystemIRI: "http://localhost:8083"},
				}
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
log:
  level: debug
  format: json
targets:
  scratch:
    kind: file
    file:
      dir: /tmp/rdf
  archive:
    kind: s3
    s3:
      endpoint: "minio.local:9000"
      bucket: graphs
  platform:
    kind: sop
    sop:
      system_iri: "https://edg.example.com"
      username: alice
      timeout: 45s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Targets["scratch"].File.Dir != "/tmp/rdf" {
		t.Errorf("expected scratch dir /tmp/rdf, got %s", cfg.Targets["scratch"].File.Dir)
	}
	if cfg.Targets["archive"].S3.Bucket != "graphs" {
		t.Errorf("expected archive bucket graphs, got %s", cfg.Targets["archive"].S3.Bucket)
	}
	if cfg.Targets["platform"].SOP.Timeout != 45*time.Second {
		t.Errorf("expected platform timeout 45s, got %v", cfg.Targets["platform"].SOP.Timeout)
	}
	// defaults survive the overlay
	if _, ok := cfg.Targets["local"]; !ok {
		t.Error("expected default local target to survive loading")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Log: LogConfig{Level: "error"},
		Targets: map[string]TargetConfig{
			"platform": {
				Kind: "sop",
				SOP:  SOPTarget{SystemIRI: "http://localhost:8083"},
			},
		},
	}

	base.Merge(override)

	if base.Log.Level != "error" {
		t.Errorf("expected log level error, got %s", base.Log.Level)
	}
	// Format should remain from base since override didn't set it
	if base.Log.Format != "text" {
		t.Errorf("expected log format to remain default, got %s", base.Log.Format)
	}
	if _, ok := base.Targets["platform"]; !ok {
		t.Error("expected platform target after merge")
	}
	if _, ok := base.Targets["local"]; !ok {
		t.Error("expected local target to survive merge")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RDFX_LOG_LEVEL", "warn")
	t.Setenv("RDFX_SOP_USERNAME", "bob")
	t.Setenv("RDFX_SOP_PASSWORD", "hunter2")

	cfg := DefaultConfig()
	cfg.Targets["platform"] = TargetConfig{
		Kind: "sop",
		SOP:  SOPTarget{SystemIRI: "http://localhost:8083"},
	}
	cfg.applyEnv()

	if cfg.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Log.Level)
	}
	if cfg.Targets["platform"].SOP.Username != "bob" {
		t.Errorf("expected sop username bob, got %s", cfg.Targets["platform"].SOP.Username)
	}
	if cfg.Targets["platform"].SOP.Password != "hunter2" {
		t.Errorf("expected sop password from env, got %s", cfg.Targets["platform"].SOP.Password)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Log.Level = "debug"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", loaded.Log.Level)
	}
}

func TestOpenStringTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Targets["mem"] = TargetConfig{Kind: "string"}

	backend, closeFn, err := cfg.Open("mem")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()

	if _, ok := backend.(*persistence.StringBackend); !ok {
		t.Errorf("expected a StringBackend, got %T", backend)
	}
}

func TestOpenUnknownTarget(t *testing.T) {
	cfg := DefaultConfig()
	_, _, err := cfg.Open("nope")
	if err == nil {
		t.Fatal("expected error for unknown target")
	}
	if !persistence.IsInvalidConfiguration(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestOpenFileTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Targets["scratch"] = TargetConfig{
		Kind: "file",
		File: FileTarget{Dir: filepath.Join(t.TempDir(), "rdf")},
	}

	backend, closeFn, err := cfg.Open("scratch")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer closeFn()

	if _, ok := backend.(*persistence.FileBackend); !ok {
		t.Errorf("expected a FileBackend, got %T", backend)
	}
}
