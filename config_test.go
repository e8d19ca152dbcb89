package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	if cfg.BaudRate != 115200 {
		t.Errorf("expected default baud 115200, got %d", cfg.BaudRate)
	}
	if cfg.TrailCapacity != 20 {
		t.Errorf("expected default trail capacity 20, got %d", cfg.TrailCapacity)
	}
	if cfg.BoardWidthCm != 60.0 || cfg.BoardHeightCm != 45.0 {
		t.Errorf("expected 60x45 board, got %gx%g", cfg.BoardWidthCm, cfg.BoardHeightCm)
	}
	if len(cfg.DiagnosticPrefixes) == 0 {
		t.Error("expected default diagnostic prefixes")
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	data := "port: /dev/ttyUSB0\nbaud_rate: 57600\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "/dev/ttyUSB0" || cfg.BaudRate != 57600 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Fields absent from the file keep their defaults.
	if cfg.TrailCapacity != 20 || cfg.BoardWidthCm != 60.0 {
		t.Errorf("defaults lost on overlay: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte("trail_capacity: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Error("expected error for negative trail capacity")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
