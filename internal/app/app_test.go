package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
	if cfg.SnapshotDir == "" {
		t.Error("SnapshotDir should not be empty")
	}
	if cfg.DatabaseURL != "" {
		t.Error("DatabaseURL should default to empty")
	}
	if !cfg.SeedDemo {
		t.Error("SeedDemo should default to true")
	}
}

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.SnapshotDir = t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, cfg)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_SavesSnapshotOnShutdown(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.SnapshotDir = dir

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	if err := Run(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// После остановки demo-каталог должен лежать в снапшоте.
	deps, err := NewDependencies(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("new dependencies: %v", err)
	}
	defer deps.Close(deps.Logger)

	if err := deps.Store.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	products := deps.Store.ListProducts()
	if len(products) != 4 {
		t.Fatalf("expected 4 seeded products in snapshot, got %d", len(products))
	}
}
