//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"inkboard/internal/board"
	"inkboard/internal/config"
	"inkboard/internal/crash"
	"inkboard/internal/diag"
	"inkboard/internal/geom"
	"inkboard/internal/imaging"
	applog "inkboard/internal/log"
	"inkboard/internal/version"
)

// svgPlacementSize is the default canvas-space edge for dropped vector
// images, which carry no intrinsic pixel size.
const svgPlacementSize = 256

// Run starts the Fyne-based desktop drawing board.
func Run(cfg config.AppConfig) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	defer crash.Recover()

	fyneApp := app.NewWithID("inkboard")
	w := fyneApp.NewWindow("Inkboard")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	var bw *BoardWidget
	b := board.New(board.Config{
		Devices:    cfg.Input.Devices,
		ThrottleMs: cfg.Input.ThrottleMs,
		PointMode:  cfg.Render.PointMode,
		BaseRadius: float32(cfg.Render.BaseRadius),
		EraserMode: board.ParseEraseMode(cfg.Eraser.Mode),
		RequestRedraw: func() {
			if bw != nil {
				bw.Refresh()
			}
		},
	})
	bw = NewBoardWidget(b)

	status := widget.NewLabel("Ready")

	boardMenu := fyne.NewMenu("Board",
		fyne.NewMenuItem("Clear All", func() {
			l.Info("menu: clear all")
			b.ClearStrokes()
		}),
		fyne.NewMenuItem("Reset View", func() {
			l.Info("menu: reset view")
			b.ResetView()
		}),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Toggle Point Mode", func() {
			b.SetPointMode(!b.PointMode())
			l.Info("menu: point mode", slog.Bool("on", b.PointMode()))
		}),
		fyne.NewMenuItem("Toggle Eraser Mode", func() {
			mode := b.ToggleEraserMode()
			l.Info("menu: eraser mode", slog.String("mode", mode.String()))
			status.SetText(fmt.Sprintf("Eraser mode: %s", mode))
		}),
	)
	aboutMenu := fyne.NewMenu("About",
		fyne.NewMenuItem("About Inkboard", func() {
			info := fmt.Sprintf("Inkboard\nVersion: %s\nOS: %s\nArch: %s\nGo: %s",
				version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version())
			dialog.ShowInformation("About", info, w)
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(boardMenu, viewMenu, aboutMenu))

	// status ticker reads atomic counters off the event thread
	stop := make(chan struct{})
	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				st := b.Snapshot()
				fyne.Do(func() {
					status.SetText(fmt.Sprintf("events %d | strokes %d | points %d | images %d | zoom %.2fx | %s",
						st.Events, st.Strokes, st.LivePoints, st.Images, st.Zoom, st.LastDevice))
				})
			}
		}
	}()

	w.SetOnDropped(func(pos fyne.Position, uris []fyne.URI) {
		paths := make([]string, 0, len(uris))
		for _, u := range uris {
			paths = append(paths, u.Path())
		}
		loaded, err := imaging.Load(paths)
		if err != nil {
			// rejected drop or skipped files; whatever decoded still lands
			dialog.ShowError(err, w)
		}
		if len(loaded) == 0 {
			return
		}
		at := b.ScreenToCanvas(geom.Pt{X: pos.X, Y: pos.Y})
		for _, ld := range loaded {
			if ld.SVG {
				b.PlaceImageFile(ld.Name, ld.Path, at, svgPlacementSize, svgPlacementSize)
			} else {
				b.PlaceImage(ld.Name, ld.Bitmap, at)
			}
		}
		l.Info("images placed", slog.Int("count", len(loaded)))
		bw.Refresh()
	})

	sessionStart := time.Now().UTC()
	w.SetCloseIntercept(func() {
		close(stop)
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		recordSession(cfg, b, sessionStart, l)
		w.Close()
	})

	w.SetContent(container.NewBorder(nil, status, nil, nil, bw))
	w.ShowAndRun()
	return nil
}

// recordSession persists the session counters when diagnostics are enabled.
// Failures are logged and never block shutdown.
func recordSession(cfg config.AppConfig, b *board.Board, start time.Time, l *slog.Logger) {
	if !cfg.Diagnostics.Enabled {
		return
	}
	path, err := cfg.Diagnostics.ResolveDBPath()
	if err != nil {
		l.Error("resolve diagnostics db path failed", slog.Any("err", err))
		return
	}
	r, err := diag.Open(path)
	if err != nil {
		l.Error("open diagnostics db failed", slog.Any("err", err))
		return
	}
	defer func() { _ = r.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	st := b.Snapshot()
	if _, err := r.RecordSession(ctx, diag.Session{
		StartedAt:  start,
		EndedAt:    time.Now().UTC(),
		Events:     st.Events,
		Filtered:   st.Filtered,
		Strokes:    st.Strokes,
		LivePoints: st.LivePoints,
		Images:     st.Images,
		Zoom:       st.Zoom,
		Device:     st.LastDevice,
	}); err != nil {
		l.Error("record session failed", slog.Any("err", err))
	}
}
