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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"inkboard/internal/board"
	"inkboard/internal/geom"
)

// mousePressure stands in for pressure on devices that do not report any.
const mousePressure = 0.5

// BoardWidget is the interactive drawing surface. It translates toolkit
// pointer events into board events and draws whatever the board renders.
type BoardWidget struct {
	widget.BaseWidget
	board *board.Board

	// latched desktop drag state: Fyne drag events do not repeat the
	// button or modifiers of the press
	buttons board.Buttons
	alt     bool
	erasing bool

	// canvas.Image objects keyed by placed-image id, so a bitmap is
	// uploaded once and reused across refreshes
	imgCache map[string]*canvas.Image
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board) *BoardWidget {
	w := &BoardWidget{board: b, imgCache: make(map[string]*canvas.Image)}
	w.ExtendBaseWidget(w)
	return w
}

func toPt(p fyne.Position) geom.Pt { return geom.Pt{X: p.X, Y: p.Y} }

func mapButton(b desktop.MouseButton) board.Buttons {
	switch b {
	case desktop.MouseButtonSecondary:
		return board.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return board.ButtonMiddle
	default:
		return board.ButtonPrimary
	}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	w.buttons = mapButton(e.Button)
	w.alt = e.Modifier&fyne.KeyModifierAlt != 0
	// right-button drag erases; Fyne does not expose a stylus eraser end
	w.erasing = e.Button == desktop.MouseButtonSecondary
	w.board.HandlePointer(board.PointerEvent{
		ID:       "mouse",
		Kind:     board.PointerMouse,
		Phase:    board.PhasePressed,
		Screen:   toPt(e.Position),
		Pressure: mousePressure,
		Eraser:   w.erasing,
		Buttons:  w.buttons,
		Alt:      w.alt,
	})
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	w.board.HandlePointer(board.PointerEvent{
		ID:       "mouse",
		Kind:     board.PointerMouse,
		Phase:    board.PhaseReleased,
		Screen:   toPt(e.Position),
		Pressure: mousePressure,
		Eraser:   w.erasing,
		Buttons:  w.buttons,
		Alt:      w.alt,
	})
	w.buttons = 0
	w.alt = false
	w.erasing = false
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.board.HandlePointer(board.PointerEvent{
		ID:       "mouse",
		Kind:     board.PointerMouse,
		Phase:    board.PhaseMoved,
		Screen:   toPt(e.Position),
		Pressure: mousePressure,
		Eraser:   w.erasing,
		Buttons:  w.buttons,
		Alt:      w.alt,
	})
}

func (w *BoardWidget) DragEnd() {}

// Fyne's mobile.TouchEvent carries only a position, no contact id, so this
// glue cannot tell fingers apart and every touch maps to the one contact
// below. Pinch needs a host that feeds per-contact ids into HandlePointer.
func (w *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	w.board.HandlePointer(board.PointerEvent{
		ID:     "touch",
		Kind:   board.PointerTouch,
		Phase:  board.PhasePressed,
		Screen: toPt(e.Position),
	})
}

func (w *BoardWidget) TouchUp(e *mobile.TouchEvent) {
	w.board.HandlePointer(board.PointerEvent{
		ID:     "touch",
		Kind:   board.PointerTouch,
		Phase:  board.PhaseReleased,
		Screen: toPt(e.Position),
	})
}

func (w *BoardWidget) TouchCancel(e *mobile.TouchEvent) { w.TouchUp(e) }

func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	// horizontal-only scrolls carry no zoom intent
	if e.Scrolled.DY == 0 {
		return
	}
	dir := float32(1)
	if e.Scrolled.DY < 0 {
		dir = -1
	}
	w.board.Wheel(dir, toPt(e.Position))
}

func (w *BoardWidget) DoubleTapped(_ *fyne.PointEvent) {
	w.board.DoubleTap()
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	return &boardRenderer{w: w, bg: bg}
}

type boardRenderer struct {
	w  *BoardWidget
	bg *canvas.Rectangle
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	sink := &objectSink{
		vt:    r.w.board.View(),
		cache: r.w.imgCache,
		objs:  []fyne.CanvasObject{r.bg},
	}
	r.w.board.Render(sink)
	return sink.objs
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
}

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(600, 400) }
func (r *boardRenderer) Refresh()           { canvas.Refresh(r.w) }
func (r *boardRenderer) Destroy()           {}

// objectSink adapts the board's render pass to Fyne canvas objects. All
// geometry arrives in canvas space and is mapped through the view transform
// here; stroke widths scale with zoom.
type objectSink struct {
	vt    *board.ViewTransform
	cache map[string]*canvas.Image
	objs  []fyne.CanvasObject
}

func brushColor(b board.Brush) color.Color {
	switch b {
	case board.BrushStart:
		return color.RGBA{G: 140, B: 60, A: 255}
	case board.BrushLatest:
		return color.RGBA{R: 230, G: 80, B: 30, A: 255}
	case board.BrushEnd:
		return color.RGBA{R: 30, G: 60, B: 200, A: 255}
	default:
		return color.Black
	}
}

func (s *objectSink) StrokeLine(a, b geom.Pt, pen *board.Pen) {
	ln := canvas.NewLine(brushColor(pen.Brush))
	ln.StrokeWidth = pen.Width * s.vt.Zoom()
	sa := s.vt.CanvasToScreen(a)
	sb := s.vt.CanvasToScreen(b)
	ln.Position1 = fyne.NewPos(sa.X, sa.Y)
	ln.Position2 = fyne.NewPos(sb.X, sb.Y)
	s.objs = append(s.objs, ln)
}

func (s *objectSink) FillCircle(center geom.Pt, radius float32, brush board.Brush) {
	c := canvas.NewCircle(brushColor(brush))
	sc := s.vt.CanvasToScreen(center)
	r := radius * s.vt.Zoom()
	c.Move(fyne.NewPos(sc.X-r, sc.Y-r))
	c.Resize(fyne.NewSize(2*r, 2*r))
	s.objs = append(s.objs, c)
}

func (s *objectSink) FillRect(rect geom.Rect, brush board.Brush) {
	o := canvas.NewRectangle(brushColor(brush))
	min := s.vt.CanvasToScreen(rect.Min())
	max := s.vt.CanvasToScreen(rect.Max())
	o.Move(fyne.NewPos(min.X, min.Y))
	o.Resize(fyne.NewSize(max.X-min.X, max.Y-min.Y))
	s.objs = append(s.objs, o)
}

func (s *objectSink) DrawImage(img *board.CanvasImage) {
	o, ok := s.cache[img.ID]
	if !ok {
		if img.Bitmap != nil {
			o = canvas.NewImageFromImage(img.Bitmap)
		} else {
			o = canvas.NewImageFromFile(img.Path)
		}
		o.FillMode = canvas.ImageFillStretch
		s.cache[img.ID] = o
	}
	min := s.vt.CanvasToScreen(img.Bounds.Min())
	max := s.vt.CanvasToScreen(img.Bounds.Max())
	o.Move(fyne.NewPos(min.X, min.Y))
	o.Resize(fyne.NewSize(max.X-min.X, max.Y-min.Y))
	s.objs = append(s.objs, o)
}
