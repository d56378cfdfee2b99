/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"time"

	"inkboard/internal/geom"
)

// StrokeCapacity bounds the number of samples a single stroke retains. Once
// full, the oldest sample is overwritten (ring semantics), so a stroke never
// grows unbounded.
const StrokeCapacity = 2048

// Smoothing constants: stage one is a weighted moving average over the last
// three raw points (most recent weighted highest), stage two an exponential
// blend against the previous smoothed point.
const (
	smoothBlendNew  float32 = 0.7
	smoothBlendPrev float32 = 0.3
)

// pointBoundsHalf is half the side of the box unioned into the stroke bounds
// for every appended point.
const pointBoundsHalf float32 = 2.5

// latestRadiusFactor enlarges the most recent sample of an in-progress
// stroke so the pen tip reads clearly.
const latestRadiusFactor float32 = 1.4

// lineWidthScale converts pressure into segment thickness in line mode.
const lineWidthScale float32 = 10

type penKey struct {
	brush Brush
	width float32
}

// StrokeBuffer owns the samples of one continuous ink path from contact-down
// to contact-up. Points are stored in a fixed-capacity ring; deletion marks a
// point's radius zero (tombstone) without moving its neighbors.
type StrokeBuffer struct {
	pts   [StrokeCapacity]CanvasPoint
	next  int // write index
	count int // live slots, <= StrokeCapacity

	// two-stage smoothing state
	win     [3]geom.Pt // recent raw points, win[0] oldest
	winLen  int
	prev    geom.Pt // last smoothed output
	hasPrev bool

	pens      map[penKey]*Pen
	bounds    geom.Rect
	hasBounds bool
	updatedAt time.Time
}

func NewStrokeBuffer() *StrokeBuffer {
	return &StrokeBuffer{pens: make(map[penKey]*Pen)}
}

// Len returns the number of occupied slots, including tombstones.
func (s *StrokeBuffer) Len() int { return s.count }

// UpdatedAt returns the time of the last append.
func (s *StrokeBuffer) UpdatedAt() time.Time { return s.updatedAt }

// Bounds returns the union of all appended point boxes.
func (s *StrokeBuffer) Bounds() geom.Rect { return s.bounds }

// ResetSmoothing clears the moving-average window and the previous smoothed
// point. Called at stroke start.
func (s *StrokeBuffer) ResetSmoothing() {
	s.winLen = 0
	s.hasPrev = false
}

// EndSmoothing clears only the "has previous" flag, keeping buffered window
// history. Called at release.
func (s *StrokeBuffer) EndSmoothing() { s.hasPrev = false }

// AddPoint smooths raw (canvas space) through both filter stages and appends
// the result.
func (s *StrokeBuffer) AddPoint(raw geom.Pt, brush Brush, radius, pressure float32) {
	st1 := s.stage1(raw)
	sm := st1
	if s.hasPrev {
		sm = geom.Pt{
			X: smoothBlendNew*st1.X + smoothBlendPrev*s.prev.X,
			Y: smoothBlendNew*st1.Y + smoothBlendPrev*s.prev.Y,
		}
	}
	s.prev = sm
	s.hasPrev = true
	s.append(CanvasPoint{Pos: sm, Brush: brush, Radius: radius, Pressure: pressure})
}

// stage1 pushes raw into the 3-point window and returns the weighted average
// with weights 1,2,3, most recent weighted highest, over however many points
// are buffered.
func (s *StrokeBuffer) stage1(raw geom.Pt) geom.Pt {
	if s.winLen < len(s.win) {
		s.win[s.winLen] = raw
		s.winLen++
	} else {
		s.win[0] = s.win[1]
		s.win[1] = s.win[2]
		s.win[2] = raw
	}
	var sx, sy, sw float32
	for i := 0; i < s.winLen; i++ {
		w := float32(i + 1)
		sx += s.win[i].X * w
		sy += s.win[i].Y * w
		sw += w
	}
	return geom.Pt{X: sx / sw, Y: sy / sw}
}

func (s *StrokeBuffer) append(p CanvasPoint) {
	s.pts[s.next] = p
	s.next = (s.next + 1) % StrokeCapacity
	if s.count < StrokeCapacity {
		s.count++
	}
	box := geom.RectAround(p.Pos, pointBoundsHalf)
	if s.hasBounds {
		s.bounds = s.bounds.Union(box)
	} else {
		s.bounds = box
		s.hasBounds = true
	}
	s.updatedAt = time.Now()
}

// Points returns the occupied slots in chronological order, oldest first,
// respecting ring wraparound. Tombstoned points are included.
func (s *StrokeBuffer) Points() []CanvasPoint {
	out := make([]CanvasPoint, 0, s.count)
	start := s.next - s.count
	if start < 0 {
		start += StrokeCapacity
	}
	for i := 0; i < s.count; i++ {
		out = append(out, s.pts[(start+i)%StrokeCapacity])
	}
	return out
}

// LivePoints returns the chronological points that have not been erased.
func (s *StrokeBuffer) LivePoints() []CanvasPoint {
	out := make([]CanvasPoint, 0, s.count)
	for _, p := range s.Points() {
		if !p.Deleted() {
			out = append(out, p)
		}
	}
	return out
}

// LiveLen counts the points that have not been erased, without copying.
func (s *StrokeBuffer) LiveLen() int {
	start := s.next - s.count
	if start < 0 {
		start += StrokeCapacity
	}
	n := 0
	for i := 0; i < s.count; i++ {
		if !s.pts[(start+i)%StrokeCapacity].Deleted() {
			n++
		}
	}
	return n
}

// Empty reports whether no live points remain.
func (s *StrokeBuffer) Empty() bool {
	for _, p := range s.Points() {
		if !p.Deleted() {
			return false
		}
	}
	return true
}

// EraseInArea tombstones every live point inside rect and reports whether
// anything was removed. Slots and ordering are preserved.
func (s *StrokeBuffer) EraseInArea(rect geom.Rect) bool {
	changed := false
	start := s.next - s.count
	if start < 0 {
		start += StrokeCapacity
	}
	for i := 0; i < s.count; i++ {
		idx := (start + i) % StrokeCapacity
		p := &s.pts[idx]
		if p.Deleted() {
			continue
		}
		if rect.Contains(p.Pos) {
			p.Radius = 0
			changed = true
		}
	}
	return changed
}

// pen returns the cached line style for (brush, width), allocating once.
func (s *StrokeBuffer) pen(b Brush, w float32) *Pen {
	k := penKey{brush: b, width: w}
	if p, ok := s.pens[k]; ok {
		return p
	}
	p := &Pen{Brush: b, Width: w}
	s.pens[k] = p
	return p
}

// Render draws the stroke in a single chronological pass. Tombstoned points
// are skipped and break line continuity: no segment is drawn across a gap.
// In line mode segment thickness is pressure*10, where pressure falls back
// to the neighboring point's reading or 0.5. In point mode each point is a
// filled circle of radius pressure*baseRadius.
func (s *StrokeBuffer) Render(c Canvas, pointsOnly bool) {
	pts := s.Points()
	if pointsOnly {
		for _, p := range pts {
			if p.Deleted() {
				continue
			}
			c.FillCircle(p.Pos, p.pressureOr(defaultPressure)*p.Radius, p.Brush)
		}
		return
	}
	var prev *CanvasPoint
	for i := range pts {
		p := &pts[i]
		if p.Deleted() {
			prev = nil
			continue
		}
		if prev != nil {
			pressure := p.pressureOr(prev.pressureOr(defaultPressure))
			c.StrokeLine(prev.Pos, p.Pos, s.pen(p.Brush, pressure*lineWidthScale))
		}
		prev = p
	}
}

// HandleEvent feeds one dispatched pointer event into the stroke. Positions
// arrive in screen space and are mapped through vt before smoothing.
func (s *StrokeBuffer) HandleEvent(ev PointerEvent, vt *ViewTransform, baseRadius float32) {
	switch ev.Phase {
	case PhasePressed:
		s.ResetSmoothing()
		s.AddPoint(vt.ScreenToCanvas(ev.Screen), BrushStart, baseRadius, pressureOf(ev.Pressure))
	case PhaseReleased:
		s.AddPoint(vt.ScreenToCanvas(ev.Screen), BrushEnd, baseRadius, pressureOf(ev.Pressure))
		s.EndSmoothing()
	case PhaseMoved:
		samples := ev.samples()
		for i, sm := range samples {
			brush := BrushInk
			radius := baseRadius
			if i == len(samples)-1 {
				brush = BrushLatest
				radius = baseRadius * latestRadiusFactor
			}
			s.AddPoint(vt.ScreenToCanvas(sm.Screen), brush, radius, pressureOf(sm.Pressure))
		}
	}
}

// pressureOf normalizes a device pressure reading: devices that do not
// support pressure report 0, which is treated as unknown.
func pressureOf(v float32) float32 {
	if v <= 0 {
		return PressureUnknown
	}
	if v > 1 {
		return 1
	}
	return v
}
