package config

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
`)

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	var reloads atomic.Int64
	var lastBackend atomic.Value

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watcher.Watch(ctx, func(cfg *Config) {
			lastBackend.Store(cfg.Storage.Backend)
			reloads.Add(1)
		})
	}()

	// Give the watch loop time to register the file.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte("storage:\n  backend: memory\nscheduler:\n  retention_days: 7\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if reloads.Load() == 0 {
		t.Fatal("reload callback never fired")
	}
	if lastBackend.Load() != "memory" {
		t.Errorf("unexpected reloaded backend %v", lastBackend.Load())
	}

	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestWatcherIgnoresInvalidReload(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
`)

	watcher, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	var reloads atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Watch(ctx, func(cfg *Config) { reloads.Add(1) })
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte("storage:\n  backend: etcd\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if reloads.Load() != 0 {
		t.Errorf("invalid configuration triggered a reload")
	}

	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}
