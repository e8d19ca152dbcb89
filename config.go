// SPDX-FileCopyrightText: 2025 夕月霞
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"board-scope/ingest"
)

// Config enumerates every knob the monitor has. Constructed once at startup
// and passed to components; nothing reads ambient globals.
type Config struct {
	Port          string  `yaml:"port"`
	BaudRate      int     `yaml:"baud_rate"`
	TrailCapacity int     `yaml:"trail_capacity"`
	BoardWidthCm  float64 `yaml:"board_width_cm"`
	BoardHeightCm float64 `yaml:"board_height_cm"`

	// Case-sensitive prefixes of firmware banner lines to suppress.
	DiagnosticPrefixes []string `yaml:"diagnostic_prefixes"`
}

func defaultConfig() Config {
	return Config{
		Port:               "COM7",
		BaudRate:           115200,
		TrailCapacity:      20,
		BoardWidthCm:       60.0,
		BoardHeightCm:      45.0,
		DiagnosticPrefixes: ingest.DefaultDiagnosticPrefixes,
	}
}

// loadConfig overlays a YAML file onto the defaults. Fields absent from the
// file keep their default values.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if cfg.BaudRate <= 0 {
		return cfg, fmt.Errorf("baud_rate must be > 0, got %d", cfg.BaudRate)
	}
	if cfg.TrailCapacity <= 0 {
		return cfg, fmt.Errorf("trail_capacity must be > 0, got %d", cfg.TrailCapacity)
	}
	if cfg.BoardWidthCm <= 0 || cfg.BoardHeightCm <= 0 {
		return cfg, fmt.Errorf("board dimensions must be > 0, got %gx%g", cfg.BoardWidthCm, cfg.BoardHeightCm)
	}
	return cfg, nil
}
