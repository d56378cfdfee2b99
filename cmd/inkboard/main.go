/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"inkboard/internal/config"
	"inkboard/internal/crash"
	"inkboard/internal/diag"
	applog "inkboard/internal/log"
	"inkboard/internal/ui"
	"inkboard/internal/version"
)

func usage() {
	fmt.Println("Inkboard — pressure-sensitive drawing board")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  inkboard [ui]                       Launch the drawing board (build with -tags fyne for full UI)")
	fmt.Println("  inkboard version|-v|--version       Show version")
	fmt.Println("  inkboard config                     Print the resolved configuration")
	fmt.Println("  inkboard sessions [n]               List recent recorded sessions (requires diagnostics)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer crash.Recover()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))

	cmd := "ui"
	if len(args) > 1 {
		cmd = args[1]
	}
	switch cmd {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "config":
		runConfig(l)
	case "sessions":
		limit := 20
		if len(args) > 2 {
			if n, err := strconv.Atoi(args[2]); err == nil && n > 0 {
				limit = n
			}
		}
		runSessions(l, limit)
	case "ui":
		runUI(l)
	default:
		usage()
		os.Exit(2)
	}
}

func runUI(l *slog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		l.Error("load config failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if err := ui.Run(cfg); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}

func runConfig(l *slog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		l.Error("load config failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if path, perr := config.ConfigPath(); perr == nil {
		fmt.Printf("# %s\n", path)
	}
	fmt.Print(string(out))
}

func runSessions(l *slog.Logger, limit int) {
	cfg, err := config.Load()
	if err != nil {
		l.Error("load config failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	path, err := cfg.Diagnostics.ResolveDBPath()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	r, err := diag.Open(path)
	if err != nil {
		l.Error("open diagnostics db failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer func() { _ = r.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sessions, err := r.RecentSessions(ctx, limit)
	if err != nil {
		l.Error("list sessions failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if len(sessions) == 0 {
		fmt.Println("No recorded sessions. Enable diagnostics with INK_DIAG=1.")
		return
	}
	for _, s := range sessions {
		dur := s.EndedAt.Sub(s.StartedAt).Round(time.Second)
		fmt.Printf("#%d  %s  %s  events=%d filtered=%d strokes=%d points=%d images=%d zoom=%.2f device=%s\n",
			s.ID, s.StartedAt.Format(time.RFC3339), dur,
			s.Events, s.Filtered, s.Strokes, s.LivePoints, s.Images, s.Zoom, strings.TrimSpace(s.Device))
	}
}
