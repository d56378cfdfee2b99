/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, which keeps older files loadable.

type InputConfig struct {
	// Devices lists the pointer kinds the board reacts to. Events from other
	// kinds are counted for diagnostics but never draw, erase, or pan.
	Devices []string `yaml:"devices"` // subset of "pen", "mouse", "touch"
	// ThrottleMs inserts an artificial delay per pointer event to cap the
	// sample density of very high-frequency devices. 0 disables it.
	ThrottleMs int `yaml:"throttle_ms"`
}

type RenderConfig struct {
	PointMode  bool    `yaml:"point_mode"`  // draw discrete dots instead of connected lines
	BaseRadius float64 `yaml:"base_radius"` // base point radius in canvas units
}

type EraserConfig struct {
	Mode string `yaml:"mode"` // "partial" or "full"
}

type DiagnosticsConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"` // empty means <config dir>/diag.db
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int               `yaml:"config_version"`
	Input         InputConfig       `yaml:"input"`
	Render        RenderConfig      `yaml:"render"`
	Eraser        EraserConfig      `yaml:"eraser"`
	Diagnostics   DiagnosticsConfig `yaml:"diagnostics"`
	Logging       LoggingConfig     `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Input:         InputConfig{Devices: []string{"pen", "mouse", "touch"}, ThrottleMs: 0},
		Render:        RenderConfig{PointMode: false, BaseRadius: 10},
		Eraser:        EraserConfig{Mode: "partial"},
		Diagnostics:   DiagnosticsConfig{Enabled: false, DBPath: ""},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvInputDevices = "INK_INPUT_DEVICES" // comma-separated
	EnvThrottleMs   = "INK_THROTTLE_MS"
	EnvPointMode    = "INK_POINT_MODE"
	EnvEraserMode   = "INK_ERASER_MODE"
	EnvDiagEnabled  = "INK_DIAG"
	EnvDiagDBPath   = "INK_DIAG_DB"
	EnvLogLevel     = "INK_LOG_LEVEL"
	EnvLogFormat    = "INK_LOG_FORMAT"
	EnvLogSource    = "INK_LOG_SOURCE"
	EnvLogFile      = "INK_LOG_FILE"
)

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Inkboard")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Inkboard")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "inkboard")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if len(src.Input.Devices) > 0 {
		dst.Input.Devices = normalizeDevices(src.Input.Devices)
	}
	if src.Input.ThrottleMs > 0 {
		dst.Input.ThrottleMs = src.Input.ThrottleMs
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Render.PointMode = src.Render.PointMode
	if src.Render.BaseRadius > 0 {
		dst.Render.BaseRadius = src.Render.BaseRadius
	}
	if m := strings.ToLower(strings.TrimSpace(src.Eraser.Mode)); m == "partial" || m == "full" {
		dst.Eraser.Mode = m
	}
	dst.Diagnostics.Enabled = src.Diagnostics.Enabled
	if strings.TrimSpace(src.Diagnostics.DBPath) != "" {
		dst.Diagnostics.DBPath = strings.TrimSpace(src.Diagnostics.DBPath)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvInputDevices)); v != "" {
		cfg.Input.Devices = normalizeDevices(strings.Split(v, ","))
	}
	if v := strings.TrimSpace(os.Getenv(EnvThrottleMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Input.ThrottleMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPointMode)); v != "" {
		cfg.Render.PointMode = parseBool(v)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvEraserMode))); v == "partial" || v == "full" {
		cfg.Eraser.Mode = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDiagEnabled)); v != "" {
		cfg.Diagnostics.Enabled = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvDiagDBPath)); v != "" {
		cfg.Diagnostics.DBPath = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// normalizeDevices lowercases, trims, and drops unknown device names.
func normalizeDevices(in []string) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		d = strings.ToLower(strings.TrimSpace(d))
		switch d {
		case "pen", "stylus":
			out = append(out, "pen")
		case "mouse", "touch":
			out = append(out, d)
		}
	}
	return out
}

// ResolveDBPath resolves the diagnostics database location, falling back to
// the user config directory.
func (d DiagnosticsConfig) ResolveDBPath() (string, error) {
	if strings.TrimSpace(d.DBPath) != "" {
		return d.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "diag.db"), nil
}
