package main

import (
	"os"
	"path/filepath"
	"testing"

	"freightworks/meridian/pkg/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = "memory"
	cfg.Ingest.Dedup.Backend = "memory"
	return cfg
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Run == nil {
		t.Error("versionCmd.Run should not be nil")
	}
}

func TestRootCommandRegistrations(t *testing.T) {
	want := map[string]bool{
		"run":       false,
		"validate":  false,
		"shipments": false,
		"version":   false,
	}

	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  listen_address: "127.0.0.1:9999"
storage:
  backend: memory
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	origCfg := cfgFile
	cfgFile = path
	defer func() { cfgFile = origCfg }()

	if err := validateConfig(validateCmd, nil); err != nil {
		t.Errorf("validateConfig failed: %v", err)
	}
}

func TestValidateCommandMissingFile(t *testing.T) {
	origCfg := cfgFile
	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")
	defer func() { cfgFile = origCfg }()

	if err := validateConfig(validateCmd, nil); err == nil {
		t.Errorf("expected error for missing config file")
	}
}

func TestBuildStoreUnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Backend = "cassandra"

	if _, err := buildStore(cfg); err == nil {
		t.Errorf("expected error for unknown storage backend")
	}
}

func TestBuildDedupBackends(t *testing.T) {
	cfg := testConfig()

	backend, err := buildDedup(cfg)
	if err != nil {
		t.Fatalf("memory dedup: %v", err)
	}
	backend.Close()

	cfg.Ingest.Dedup.Backend = "redis"
	if _, err := buildDedup(cfg); err == nil {
		t.Errorf("expected error for unknown dedup backend")
	}
}
