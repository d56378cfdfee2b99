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
	"testing"

	"inkboard/internal/geom"
)

func TestEraseRadiusPressureCurve(t *testing.T) {
	if r := EraseRadius(0); r != 10 {
		t.Fatalf("radius at zero pressure = %v, want min 10", r)
	}
	if r := EraseRadius(1); r != 150 {
		t.Fatalf("radius at full pressure = %v, want max 150", r)
	}
	// quadratic response: half pressure gives a quarter of the range
	want := 10 + (150-10)*0.25
	if r := EraseRadius(0.5); math.Abs(float64(r)-float64(want)) > 1e-3 {
		t.Fatalf("radius at half pressure = %v, want %v", r, want)
	}
	// out-of-range input is clamped
	if r := EraseRadius(2); r != 150 {
		t.Fatalf("radius above full pressure = %v", r)
	}
	if r := EraseRadius(-1); r != 10 {
		t.Fatalf("radius below zero pressure = %v", r)
	}
}

func TestEraseAreaCenteredSquare(t *testing.T) {
	a := EraseArea(geom.Pt{X: 100, Y: 100}, 1)
	if a.W != 300 || a.H != 300 {
		t.Fatalf("area = %+v, want 300x300 square", a)
	}
	if a.X != -50 || a.Y != -50 {
		t.Fatalf("area not centered: %+v", a)
	}
}

func TestSegmentIntersectsRect(t *testing.T) {
	r := geom.R(40, 40, 20, 20)
	cases := []struct {
		name string
		a, b geom.Pt
		want bool
	}{
		{"fully outside", geom.Pt{X: 0, Y: 0}, geom.Pt{X: 10, Y: 0}, false},
		{"crossing through", geom.Pt{X: 0, Y: 0}, geom.Pt{X: 100, Y: 100}, true},
		{"both endpoints inside", geom.Pt{X: 45, Y: 45}, geom.Pt{X: 55, Y: 55}, true},
		{"one endpoint inside", geom.Pt{X: 50, Y: 50}, geom.Pt{X: 200, Y: 50}, true},
		{"same side reject", geom.Pt{X: 0, Y: 0}, geom.Pt{X: 0, Y: 100}, false},
		{"diagonal miss", geom.Pt{X: 0, Y: 70}, geom.Pt{X: 30, Y: 100}, false},
		{"vertical crossing", geom.Pt{X: 50, Y: 0}, geom.Pt{X: 50, Y: 100}, true},
		{"horizontal crossing", geom.Pt{X: 0, Y: 50}, geom.Pt{X: 100, Y: 50}, true},
	}
	for _, c := range cases {
		if got := segmentIntersectsRect(c.a, c.b, r); got != c.want {
			t.Fatalf("%s: segment %v-%v vs %v = %v, want %v", c.name, c.a, c.b, r, got, c.want)
		}
	}
}

func TestPartialEraseRemovesPointsAndEmptyStrokes(t *testing.T) {
	set := NewStrokeSet()
	inside := set.GetOrCreate("a")
	inside.append(CanvasPoint{Pos: geom.Pt{X: 5, Y: 5}, Radius: 1})
	mixed := set.GetOrCreate("b")
	mixed.append(CanvasPoint{Pos: geom.Pt{X: 6, Y: 6}, Radius: 1})
	mixed.append(CanvasPoint{Pos: geom.Pt{X: 500, Y: 500}, Radius: 1})

	e := NewEraserEngine(EraseModePartial)
	if !e.Erase(set, geom.R(0, 0, 10, 10)) {
		t.Fatalf("expected a change")
	}
	if _, ok := set.Get("a"); ok {
		t.Fatalf("fully erased stroke must leave the active set")
	}
	b, ok := set.Get("b")
	if !ok {
		t.Fatalf("partially erased stroke must remain")
	}
	live := b.LivePoints()
	if len(live) != 1 || live[0].Pos.X != 500 {
		t.Fatalf("live points = %+v", live)
	}
}

func TestFullEraseRemovesCrossingStroke(t *testing.T) {
	set := NewStrokeSet()
	s := set.GetOrCreate("diag")
	s.append(CanvasPoint{Pos: geom.Pt{X: 0, Y: 0}, Radius: 1})
	s.append(CanvasPoint{Pos: geom.Pt{X: 100, Y: 100}, Radius: 1})

	e := NewEraserEngine(EraseModeFull)
	// rectangle fully between the two points: the segment crosses it
	if !e.Erase(set, geom.R(40, 40, 20, 20)) {
		t.Fatalf("crossing stroke should be removed")
	}
	if set.Len() != 0 {
		t.Fatalf("stroke still present after full erase")
	}
}

func TestFullEraseKeepsNonCrossingStroke(t *testing.T) {
	set := NewStrokeSet()
	s := set.GetOrCreate("flat")
	s.append(CanvasPoint{Pos: geom.Pt{X: 0, Y: 0}, Radius: 1})
	s.append(CanvasPoint{Pos: geom.Pt{X: 10, Y: 0}, Radius: 1})

	e := NewEraserEngine(EraseModeFull)
	if e.Erase(set, geom.R(40, 40, 20, 20)) {
		t.Fatalf("non-crossing stroke must survive")
	}
	if set.Len() != 1 {
		t.Fatalf("stroke was removed")
	}
}

func TestFullEraseBBoxRejectSkipsDistantStroke(t *testing.T) {
	set := NewStrokeSet()
	s := set.GetOrCreate("far")
	s.append(CanvasPoint{Pos: geom.Pt{X: 1000, Y: 1000}, Radius: 1})
	s.append(CanvasPoint{Pos: geom.Pt{X: 1010, Y: 1010}, Radius: 1})

	e := NewEraserEngine(EraseModeFull)
	if e.Erase(set, geom.R(0, 0, 10, 10)) {
		t.Fatalf("distant stroke must be rejected by its bounds")
	}
}

func TestFullEraseSegmentBothEndpointsInside(t *testing.T) {
	set := NewStrokeSet()
	s := set.GetOrCreate("in")
	s.append(CanvasPoint{Pos: geom.Pt{X: 45, Y: 45}, Radius: 1})
	s.append(CanvasPoint{Pos: geom.Pt{X: 55, Y: 55}, Radius: 1})

	e := NewEraserEngine(EraseModeFull)
	if !e.Erase(set, geom.R(40, 40, 20, 20)) {
		t.Fatalf("segment inside the rect must remove the stroke")
	}
}

func TestToggleMode(t *testing.T) {
	e := NewEraserEngine(EraseModePartial)
	if e.Toggle() != EraseModeFull {
		t.Fatalf("toggle from partial should yield full")
	}
	if e.Toggle() != EraseModePartial {
		t.Fatalf("toggle from full should yield partial")
	}
}

func TestParseEraseMode(t *testing.T) {
	if ParseEraseMode("full") != EraseModeFull {
		t.Fatalf("full not parsed")
	}
	if ParseEraseMode("anything-else") != EraseModePartial {
		t.Fatalf("default must be partial")
	}
}
