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
	"testing"
)

func TestEnvOverridesInputDevices(t *testing.T) {
	t.Setenv(EnvInputDevices, "pen, Mouse")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Input.Devices) != 2 || cfg.Input.Devices[0] != "pen" || cfg.Input.Devices[1] != "mouse" {
		t.Fatalf("Input.Devices = %v, want [pen mouse]", cfg.Input.Devices)
	}
}

func TestEnvOverridesThrottle(t *testing.T) {
	t.Setenv(EnvThrottleMs, "7")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Input.ThrottleMs != 7 {
		t.Fatalf("Input.ThrottleMs = %d, want 7", cfg.Input.ThrottleMs)
	}
}

func TestEnvOverridesEraserModeRejectsUnknown(t *testing.T) {
	t.Setenv(EnvEraserMode, "chainsaw")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Eraser.Mode != Defaults().Eraser.Mode {
		t.Fatalf("Eraser.Mode = %q, unknown value should keep default", cfg.Eraser.Mode)
	}
	t.Setenv(EnvEraserMode, "FULL")
	cfg, _ = Load()
	if cfg.Eraser.Mode != "full" {
		t.Fatalf("Eraser.Mode = %q, want full", cfg.Eraser.Mode)
	}
}

func TestMergeIncludesRenderAndDiagnostics(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Render.PointMode = true
	src.Render.BaseRadius = 4
	src.Diagnostics.Enabled = true
	src.Diagnostics.DBPath = "/tmp/ink-diag.db"
	mergeInto(&dst, &src)
	if !dst.Render.PointMode || dst.Render.BaseRadius != 4 {
		t.Fatalf("render fields not merged: %#v", dst.Render)
	}
	if !dst.Diagnostics.Enabled || dst.Diagnostics.DBPath != "/tmp/ink-diag.db" {
		t.Fatalf("diagnostics fields not merged: %#v", dst.Diagnostics)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/ink.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/ink.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestNormalizeDevicesDropsUnknown(t *testing.T) {
	got := normalizeDevices([]string{"Stylus", "touch", "joystick", " MOUSE "})
	if len(got) != 3 || got[0] != "pen" || got[1] != "touch" || got[2] != "mouse" {
		t.Fatalf("normalizeDevices = %v", got)
	}
}

func TestResolveDBPathFallsBackToConfigDir(t *testing.T) {
	d := DiagnosticsConfig{}
	p, err := d.ResolveDBPath()
	if err != nil {
		t.Fatalf("ResolveDBPath error: %v", err)
	}
	if p == "" {
		t.Fatalf("expected non-empty fallback path")
	}
	d.DBPath = "/tmp/custom.db"
	p, _ = d.ResolveDBPath()
	if p != "/tmp/custom.db" {
		t.Fatalf("explicit path not honored: %q", p)
	}
}
