/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package board implements the drawing-board core: the view transform, the
// per-contact stroke buffers, the touch gesture state machine, the eraser,
// and the input dispatcher tying them together. Everything here runs on the
// single UI event thread; only the counters read by the status ticker are
// published atomically.
package board

import (
	"image"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"inkboard/internal/geom"
	applog "inkboard/internal/log"
)

// Config carries the host-configurable knobs of the board.
type Config struct {
	// Devices is the input allow-list ("pen", "mouse", "touch"). Events from
	// kinds not listed are counted and dropped.
	Devices []string
	// ThrottleMs blocks the event path per pointer event to cap sampling
	// density. 0 disables throttling.
	ThrottleMs int
	// PointMode renders discrete dots instead of connected line segments.
	PointMode bool
	// BaseRadius is the base point radius in canvas units.
	BaseRadius float32
	// EraserMode is the initial erase mode.
	EraserMode EraseMode
	// RequestRedraw asks the surface to repaint; the surface coalesces the
	// request to its next frame. May be nil.
	RequestRedraw func()
}

// Stats is a point-in-time snapshot for the status display and diagnostics.
// Read by a periodic ticker off the event thread; counter fields are
// published atomically so a torn read never crashes, only lags.
type Stats struct {
	Events     uint64
	Filtered   uint64
	Strokes    int
	LivePoints int
	Images     int
	Zoom       float32
	LastDevice string
}

// Board owns all drawing state and dispatches raw pointer events.
type Board struct {
	vt       *ViewTransform
	strokes  *StrokeSet
	images   *ImageSet
	gestures *GestureController
	eraser   *EraserEngine

	allowed    map[PointerKind]bool
	throttle   time.Duration
	pointMode  bool
	baseRadius float32
	redraw     func()

	// active maps a contact id to the stroke it is drawing. Hosts reuse
	// contact ids across presses ("mouse" every time), so each press opens
	// a fresh stroke under a generated key.
	active map[string]string

	// pan latch for the non-touch middle-button / alt-drag path, independent
	// of the touch contact map
	panActive bool
	panLast   geom.Pt

	events   atomic.Uint64
	filtered atomic.Uint64

	// atomic mirrors of the stroke, point and image counts plus the zoom
	// factor, republished on the event thread after every mutation. The
	// status ticker reads these instead of walking the maps, so a snapshot
	// taken mid-stroke lags but never races.
	strokeN atomic.Int64
	liveN   atomic.Int64
	imageN  atomic.Int64
	zoom    atomic.Uint32 // float32 bits

	statusMu   sync.RWMutex
	status     string
	lastDevice string

	log *slog.Logger
}

func New(cfg Config) *Board {
	vt := NewViewTransform()
	allowed := make(map[PointerKind]bool, len(cfg.Devices))
	for _, d := range cfg.Devices {
		if k, ok := ParsePointerKind(d); ok {
			allowed[k] = true
		}
	}
	radius := cfg.BaseRadius
	if radius <= 0 {
		radius = 10
	}
	b := &Board{
		vt:         vt,
		strokes:    NewStrokeSet(),
		images:     NewImageSet(),
		gestures:   NewGestureController(vt),
		eraser:     NewEraserEngine(cfg.EraserMode),
		active:     make(map[string]string),
		allowed:    allowed,
		throttle:   time.Duration(cfg.ThrottleMs) * time.Millisecond,
		pointMode:  cfg.PointMode,
		baseRadius: radius,
		redraw:     cfg.RequestRedraw,
		status:     "ready",
		log:        applog.WithComponent("board"),
	}
	b.publishStats()
	return b
}

// publishStats republishes the counters shown by the status ticker.
// Must run on the event thread, after the mutation it summarizes.
func (b *Board) publishStats() {
	b.strokeN.Store(int64(b.strokes.Len()))
	b.liveN.Store(int64(b.strokes.LivePointCount()))
	b.imageN.Store(int64(b.images.Len()))
	b.zoom.Store(math.Float32bits(b.vt.Zoom()))
}

// View returns the board's view transform.
func (b *Board) View() *ViewTransform { return b.vt }

// Gestures returns the touch gesture controller.
func (b *Board) Gestures() *GestureController { return b.gestures }

// Eraser returns the eraser engine.
func (b *Board) Eraser() *EraserEngine { return b.eraser }

// Images returns the placed-image set.
func (b *Board) Images() *ImageSet { return b.images }

// Strokes returns the active stroke set.
func (b *Board) Strokes() *StrokeSet { return b.strokes }

// PointMode reports whether rendering draws discrete dots.
func (b *Board) PointMode() bool { return b.pointMode }

// SetPointMode switches between dot and line rendering.
func (b *Board) SetPointMode(on bool) {
	b.pointMode = on
	b.requestRedraw()
}

// Status returns the human-readable status string.
func (b *Board) Status() string {
	b.statusMu.RLock()
	defer b.statusMu.RUnlock()
	return b.status
}

// SetStatus updates the status string shown by the host.
func (b *Board) SetStatus(s string) {
	b.statusMu.Lock()
	b.status = s
	b.statusMu.Unlock()
}

// EventCount returns the number of pointer events seen.
func (b *Board) EventCount() uint64 { return b.events.Load() }

// Snapshot returns current counters and state for display. It reads only
// the atomic mirrors and is safe to call off the event thread.
func (b *Board) Snapshot() Stats {
	b.statusMu.RLock()
	last := b.lastDevice
	b.statusMu.RUnlock()
	return Stats{
		Events:     b.events.Load(),
		Filtered:   b.filtered.Load(),
		Strokes:    int(b.strokeN.Load()),
		LivePoints: int(b.liveN.Load()),
		Images:     int(b.imageN.Load()),
		Zoom:       math.Float32frombits(b.zoom.Load()),
		LastDevice: last,
	}
}

// ClearStrokes removes all active strokes.
func (b *Board) ClearStrokes() {
	b.strokes.Clear()
	b.publishStats()
	b.requestRedraw()
}

// ResetView restores the identity view transform.
func (b *Board) ResetView() {
	b.vt.Reset()
	b.publishStats()
	b.requestRedraw()
}

// PlaceImage adds a decoded bitmap at a canvas-space point.
func (b *Board) PlaceImage(name string, bmp image.Image, at geom.Pt) *CanvasImage {
	img := b.images.Add(name, bmp, at)
	b.publishStats()
	b.requestRedraw()
	return img
}

// PlaceImageFile adds a file-backed image the rendering surface rasterizes
// itself, sized w by h at the canvas-space point.
func (b *Board) PlaceImageFile(name, path string, at geom.Pt, w, h float32) *CanvasImage {
	img := b.images.AddFile(name, path, at, w, h)
	b.publishStats()
	b.requestRedraw()
	return img
}

// ScreenToCanvas converts for host-side overlays.
func (b *Board) ScreenToCanvas(p geom.Pt) geom.Pt { return b.vt.ScreenToCanvas(p) }

// CanvasToScreen converts for host-side overlays.
func (b *Board) CanvasToScreen(p geom.Pt) geom.Pt { return b.vt.CanvasToScreen(p) }

// ToggleEraserMode flips the erase mode and returns the new one.
func (b *Board) ToggleEraserMode() EraseMode { return b.eraser.Toggle() }

// DoubleTap clears all strokes unconditionally, bypassing normal dispatch.
func (b *Board) DoubleTap() {
	b.log.Debug("double tap clear", slog.Int("strokes", b.strokes.Len()))
	b.ClearStrokes()
}

// Wheel applies a discrete zoom step around the screen-space position.
func (b *Board) Wheel(direction float32, at geom.Pt) {
	b.vt.ZoomStep(direction, at, WheelZoomStep)
	b.publishStats()
	b.requestRedraw()
}

// HandlePointer is the single entry point for raw pointer events. It
// classifies the event (gesture vs. draw vs. erase), mutates state, and
// requests a redraw.
func (b *Board) HandlePointer(ev PointerEvent) {
	b.events.Add(1)
	defer b.publishStats()
	if b.throttle > 0 {
		// deliberate blocking delay: caps sample density of very
		// high-frequency devices
		time.Sleep(b.throttle)
	}
	b.requestRedraw()
	b.noteDevice(ev.Kind)

	if !b.allowed[ev.Kind] {
		b.filtered.Add(1)
		b.log.Debug("filtered device", slog.String("kind", ev.Kind.String()))
		return
	}

	if ev.Kind == PointerTouch {
		b.dispatchTouch(ev)
		return
	}

	if b.dispatchPanLatch(ev) {
		return
	}

	if ev.Eraser && ev.Pressure > 0 {
		area := EraseArea(b.vt.ScreenToCanvas(ev.Screen), ev.Pressure)
		if b.eraser.Erase(b.strokes, area) {
			b.requestRedraw()
		}
		return
	}

	// a stylus that reports zero pressure is hovering, not drawing
	if ev.Kind == PointerPen && ev.Pressure <= 0 && ev.Phase != PhaseReleased {
		return
	}
	switch ev.Phase {
	case PhasePressed:
		key := uuid.NewString()
		b.active[ev.ID] = key
		b.strokes.GetOrCreate(key).HandleEvent(ev, b.vt, b.baseRadius)
	case PhaseMoved:
		// a move without a press has no stroke to extend
		if key, ok := b.active[ev.ID]; ok {
			if s, ok := b.strokes.Get(key); ok {
				s.HandleEvent(ev, b.vt, b.baseRadius)
			}
		}
	case PhaseReleased:
		// only close out a stroke that was actually started
		if key, ok := b.active[ev.ID]; ok {
			if s, ok := b.strokes.Get(key); ok {
				s.HandleEvent(ev, b.vt, b.baseRadius)
			}
			delete(b.active, ev.ID)
		}
	}
}

func (b *Board) dispatchTouch(ev PointerEvent) {
	switch ev.Phase {
	case PhasePressed:
		b.gestures.TouchDown(ev.ID, ev.Screen)
	case PhaseMoved:
		if b.gestures.TouchMove(ev.ID, ev.Screen) {
			b.requestRedraw()
		}
	case PhaseReleased:
		b.gestures.TouchUp(ev.ID)
	}
}

// dispatchPanLatch implements drag-panning with the middle button or
// alt+primary. Returns true when the event was consumed.
func (b *Board) dispatchPanLatch(ev PointerEvent) bool {
	panButton := ev.Buttons&ButtonMiddle != 0 || (ev.Alt && ev.Buttons&ButtonPrimary != 0)
	if ev.Phase == PhasePressed && panButton {
		b.panActive = true
		b.panLast = ev.Screen
		return true
	}
	if !b.panActive {
		return false
	}
	switch ev.Phase {
	case PhaseMoved:
		b.vt.Pan(ev.Screen.Sub(b.panLast))
		b.panLast = ev.Screen
		b.requestRedraw()
	case PhaseReleased:
		b.panActive = false
	}
	return true
}

// Render draws images under ink in a single pass per stroke.
func (b *Board) Render(c Canvas) {
	b.images.Each(func(img *CanvasImage) bool {
		c.DrawImage(img)
		return true
	})
	b.strokes.Each(func(_ string, s *StrokeBuffer) bool {
		s.Render(c, b.pointMode)
		return true
	})
}

func (b *Board) noteDevice(k PointerKind) {
	b.statusMu.Lock()
	b.lastDevice = k.String()
	b.statusMu.Unlock()
}

func (b *Board) requestRedraw() {
	if b.redraw != nil {
		b.redraw()
	}
}
