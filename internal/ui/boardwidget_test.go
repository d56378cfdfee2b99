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
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"

	"inkboard/internal/board"
	"inkboard/internal/geom"
)

func newTestWidget() (*BoardWidget, *board.Board) {
	b := board.New(board.Config{Devices: []string{"pen", "mouse", "touch"}})
	return NewBoardWidget(b), b
}

func TestMouseDragDrawsStroke(t *testing.T) {
	w, b := newTestWidget()

	down := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	down.Position = fyne.NewPos(10, 10)
	w.MouseDown(down)

	w.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 12)}})

	up := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	up.Position = fyne.NewPos(30, 14)
	w.MouseUp(up)

	if b.Strokes().Len() != 1 {
		t.Fatalf("strokes = %d, want 1", b.Strokes().Len())
	}
	var s *board.StrokeBuffer
	b.Strokes().Each(func(_ string, sb *board.StrokeBuffer) bool {
		s = sb
		return false
	})
	if len(s.LivePoints()) != 3 {
		t.Fatalf("live points = %d, want 3", len(s.LivePoints()))
	}
}

func TestSecondaryButtonErases(t *testing.T) {
	w, b := newTestWidget()

	down := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	down.Position = fyne.NewPos(100, 100)
	w.MouseDown(down)
	up := *down
	w.MouseUp(&up)
	if b.Strokes().Len() != 1 {
		t.Fatalf("setup stroke missing")
	}

	erase := &desktop.MouseEvent{Button: desktop.MouseButtonSecondary}
	erase.Position = fyne.NewPos(100, 100)
	w.MouseDown(erase)
	if b.Strokes().Len() != 0 {
		t.Fatalf("secondary-button press should erase the stroke under it")
	}
}

func TestMiddleButtonPansInsteadOfDrawing(t *testing.T) {
	w, b := newTestWidget()

	down := &desktop.MouseEvent{Button: desktop.MouseButtonTertiary}
	down.Position = fyne.NewPos(0, 0)
	w.MouseDown(down)
	w.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(15, 0)}})

	if b.Strokes().Len() != 0 {
		t.Fatalf("middle drag must not draw")
	}
	if got := b.ScreenToCanvas(geom.Pt{}); got.X != -15 {
		t.Fatalf("origin canvas x = %v, want -15", got.X)
	}
}

func TestScrollZooms(t *testing.T) {
	w, b := newTestWidget()
	ev := &fyne.ScrollEvent{Scrolled: fyne.Delta{DY: 1}}
	ev.Position = fyne.NewPos(100, 100)
	w.Scrolled(ev)
	if b.View().Zoom() <= 1 {
		t.Fatalf("zoom = %v, want > 1", b.View().Zoom())
	}
	ev2 := &fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -1}}
	ev2.Position = fyne.NewPos(100, 100)
	w.Scrolled(ev2)
	w.Scrolled(ev2)
	if b.View().Zoom() >= 1 {
		t.Fatalf("zoom = %v, want < 1 after two scroll-downs", b.View().Zoom())
	}
}

func TestHorizontalScrollDoesNotZoom(t *testing.T) {
	w, b := newTestWidget()
	ev := &fyne.ScrollEvent{Scrolled: fyne.Delta{DX: 5, DY: 0}}
	ev.Position = fyne.NewPos(100, 100)
	w.Scrolled(ev)
	if z := b.View().Zoom(); z != 1 {
		t.Fatalf("zoom = %v after horizontal scroll, want 1", z)
	}
}

func TestDoubleTapClears(t *testing.T) {
	w, b := newTestWidget()
	down := &desktop.MouseEvent{Button: desktop.MouseButtonPrimary}
	down.Position = fyne.NewPos(10, 10)
	w.MouseDown(down)
	up := *down
	w.MouseUp(&up)

	w.DoubleTapped(&fyne.PointEvent{})
	if b.Strokes().Len() != 0 {
		t.Fatalf("double tap must clear")
	}
}

func TestObjectSinkScalesWidthWithZoom(t *testing.T) {
	_, b := newTestWidget()
	b.Wheel(1, geom.Pt{}) // zoom to 1.1

	sink := &objectSink{vt: b.View(), cache: map[string]*canvas.Image{}}
	pen := &board.Pen{Brush: board.BrushInk, Width: 5}
	sink.StrokeLine(geom.Pt{X: 0, Y: 0}, geom.Pt{X: 10, Y: 0}, pen)

	if len(sink.objs) != 1 {
		t.Fatalf("objects = %d, want 1", len(sink.objs))
	}
	ln, ok := sink.objs[0].(*canvas.Line)
	if !ok {
		t.Fatalf("object is %T, want *canvas.Line", sink.objs[0])
	}
	want := 5 * b.View().Zoom()
	if ln.StrokeWidth != want {
		t.Fatalf("stroke width = %v, want %v", ln.StrokeWidth, want)
	}
}
