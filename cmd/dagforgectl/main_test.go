package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunDispatchesMissingCommand(t *testing.T) {
	err := run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for missing command")
	}
	if !strings.Contains(err.Error(), "missing command") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunDispatchesUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"frobnicate"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command: frobnicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunDispatchesVersion(t *testing.T) {
	if err := run(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
}

func TestRunDispatchesSnapshotRequiresRunID(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "dagforge.db")
	err := run(context.Background(), []string{"snapshot", "inspect", "--store", "memory", "--db-path", dbPath})
	if err == nil {
		t.Fatal("expected error when --run-id is missing")
	}
	if !strings.Contains(err.Error(), "--run-id is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUsageErrorMessageFormat(t *testing.T) {
	err := usageError("boom")
	want := "dagforgectl: boom (usage: dagforgectl run|snapshot|version)"
	if err.Error() != want {
		t.Errorf("usageError message = %q, want %q", err.Error(), want)
	}
}

func TestNewLoggerIsNotNil(t *testing.T) {
	if newLogger() == nil {
		t.Fatal("newLogger returned nil")
	}
}

func TestLoadConfigDefaultsWithNoArgs(t *testing.T) {
	cfg, rest, err := loadConfig(nil)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("expected no leftover args, got %v", rest)
	}
	if cfg.Store != "memory" {
		t.Errorf("Store = %q, want memory (default)", cfg.Store)
	}
}

func TestLoadConfigFlagsOverrideDefaults(t *testing.T) {
	cfg, _, err := loadConfig([]string{"--gens", "17", "--seed", "9"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.NGens != 17 {
		t.Errorf("NGens = %d, want 17", cfg.NGens)
	}
	if cfg.Seed != 9 {
		t.Errorf("Seed = %d, want 9", cfg.Seed)
	}
}

func TestLoadConfigFileLayerThenFlagOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("n_gens: 42\nseed: 3\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, _, err := loadConfig([]string{"--config", path, "--seed", "99"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.NGens != 42 {
		t.Errorf("NGens = %d, want 42 from file layer", cfg.NGens)
	}
	if cfg.Seed != 99 {
		t.Errorf("Seed = %d, want 99 (flag should win over file)", cfg.Seed)
	}
}

func TestLoadConfigReturnsLeftoverPositionalArgs(t *testing.T) {
	_, rest, err := loadConfig([]string{"--gens", "5", "extra1", "extra2"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(rest) != 2 || rest[0] != "extra1" || rest[1] != "extra2" {
		t.Errorf("rest = %v, want [extra1 extra2]", rest)
	}
}

func TestLoadConfigRejectsUnknownFlag(t *testing.T) {
	if _, _, err := loadConfig([]string{"--not-a-real-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
