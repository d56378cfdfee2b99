/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"math"

	"inkboard/internal/geom"
)

// EraseMode selects how the eraser removes ink.
type EraseMode uint8

const (
	// EraseModePartial tombstones individual points inside the erase area.
	EraseModePartial EraseMode = iota
	// EraseModeFull removes whole strokes whose polyline intersects the area.
	EraseModeFull
)

func (m EraseMode) String() string {
	if m == EraseModeFull {
		return "full"
	}
	return "partial"
}

// ParseEraseMode maps a config value to a mode, defaulting to partial.
func ParseEraseMode(s string) EraseMode {
	if s == "full" {
		return EraseModeFull
	}
	return EraseModePartial
}

// Pressure-to-radius mapping for the erase area. The quadratic response
// gives finer control at low pressure.
const (
	eraserMinRadius float32 = 10
	eraserMaxRadius float32 = 150
	eraserGamma             = 2
)

// EraseRadius maps pressure in [0,1] to an erase radius in canvas units.
func EraseRadius(pressure float32) float32 {
	if pressure < 0 {
		pressure = 0
	}
	if pressure > 1 {
		pressure = 1
	}
	curve := float32(math.Pow(float64(pressure), eraserGamma))
	return eraserMinRadius + (eraserMaxRadius-eraserMinRadius)*curve
}

// EraseArea returns the square erase rectangle (side 2*radius) centered on
// the canvas-space pointer position. Recomputed on every event while erasing;
// never persisted.
func EraseArea(center geom.Pt, pressure float32) geom.Rect {
	return geom.RectAround(center, EraseRadius(pressure))
}

// EraserEngine applies partial or full erasing to the active stroke set.
type EraserEngine struct {
	mode EraseMode
}

func NewEraserEngine(mode EraseMode) *EraserEngine { return &EraserEngine{mode: mode} }

func (e *EraserEngine) Mode() EraseMode     { return e.mode }
func (e *EraserEngine) SetMode(m EraseMode) { e.mode = m }

// Toggle flips between partial and full mode and returns the new mode.
func (e *EraserEngine) Toggle() EraseMode {
	if e.mode == EraseModePartial {
		e.mode = EraseModeFull
	} else {
		e.mode = EraseModePartial
	}
	return e.mode
}

// Erase applies the erase area to every active stroke and reports whether
// anything changed. Strokes left with no live points, or hit in full mode,
// are removed from the set.
func (e *EraserEngine) Erase(set *StrokeSet, area geom.Rect) bool {
	changed := false
	var remove []string
	set.Each(func(id string, s *StrokeBuffer) bool {
		switch e.mode {
		case EraseModePartial:
			if s.EraseInArea(area) {
				changed = true
				if s.Empty() {
					remove = append(remove, id)
				}
			}
		case EraseModeFull:
			// cheap reject on the stroke bounds before segment clipping
			if !s.Bounds().Intersects(area) {
				return true
			}
			if polylineIntersectsRect(s.Points(), area) {
				changed = true
				remove = append(remove, id)
			}
		}
		return true
	})
	for _, id := range remove {
		set.Remove(id)
	}
	return changed
}

// polylineIntersectsRect tests the connecting segment of every consecutive
// live point pair. A tombstoned point breaks the polyline, mirroring render
// continuity.
func polylineIntersectsRect(pts []CanvasPoint, r geom.Rect) bool {
	var prev *CanvasPoint
	for i := range pts {
		p := &pts[i]
		if p.Deleted() {
			prev = nil
			continue
		}
		if prev != nil && segmentIntersectsRect(prev.Pos, p.Pos, r) {
			return true
		}
		prev = p
	}
	return false
}

// Cohen-Sutherland outcodes.
const (
	outLeft uint8 = 1 << iota
	outRight
	outBottom
	outTop
)

func outcode(p geom.Pt, r geom.Rect) uint8 {
	var code uint8
	if p.X < r.X {
		code |= outLeft
	} else if p.X > r.X+r.W {
		code |= outRight
	}
	if p.Y < r.Y {
		code |= outTop
	} else if p.Y > r.Y+r.H {
		code |= outBottom
	}
	return code
}

// segmentIntersectsRect is the Cohen-Sutherland accept/reject loop: trivially
// accept when both outcodes are zero, trivially reject when their AND is
// nonzero, otherwise clip the outside endpoint against the violated edge and
// re-classify.
func segmentIntersectsRect(a, b geom.Pt, r geom.Rect) bool {
	ca := outcode(a, r)
	cb := outcode(b, r)
	for {
		if ca|cb == 0 {
			return true
		}
		if ca&cb != 0 {
			return false
		}
		// pick the endpoint that is outside
		c := ca
		if c == 0 {
			c = cb
		}
		var p geom.Pt
		switch {
		case c&outTop != 0:
			p = geom.Pt{X: a.X + (b.X-a.X)*(r.Y-a.Y)/(b.Y-a.Y), Y: r.Y}
		case c&outBottom != 0:
			p = geom.Pt{X: a.X + (b.X-a.X)*(r.Y+r.H-a.Y)/(b.Y-a.Y), Y: r.Y + r.H}
		case c&outRight != 0:
			p = geom.Pt{X: r.X + r.W, Y: a.Y + (b.Y-a.Y)*(r.X+r.W-a.X)/(b.X-a.X)}
		case c&outLeft != 0:
			p = geom.Pt{X: r.X, Y: a.Y + (b.Y-a.Y)*(r.X-a.X)/(b.X-a.X)}
		}
		if c == ca {
			a = p
			ca = outcode(a, r)
		} else {
			b = p
			cb = outcode(b, r)
		}
	}
}
