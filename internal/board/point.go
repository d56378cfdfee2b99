/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import "inkboard/internal/geom"

// Brush tags a point with its role within the stroke; rendering surfaces map
// tags to concrete colors.
type Brush uint8

const (
	BrushInk    Brush = iota // interior sample
	BrushStart               // first point of a stroke
	BrushLatest              // most recent sample of an in-progress stroke
	BrushEnd                 // final point of a stroke
)

func (b Brush) String() string {
	switch b {
	case BrushInk:
		return "ink"
	case BrushStart:
		return "start"
	case BrushLatest:
		return "latest"
	case BrushEnd:
		return "end"
	}
	return "unknown"
}

// PressureUnknown marks a point whose device did not report pressure.
const PressureUnknown float32 = -1

// defaultPressure is substituted when neither a point nor its neighbor
// carries a pressure reading.
const defaultPressure float32 = 0.5

// CanvasPoint is one sample of a stroke, stored in canvas space. A point is
// immutable once written except for Radius being zeroed to mark deletion
// (tombstone), which preserves the buffer slot and ordering.
type CanvasPoint struct {
	Pos      geom.Pt
	Brush    Brush
	Radius   float32 // base radius; 0 means deleted
	Pressure float32 // in [0,1], or PressureUnknown
}

// Deleted reports whether the point has been tombstoned.
func (p CanvasPoint) Deleted() bool { return p.Radius == 0 }

func (p CanvasPoint) pressureOr(def float32) float32 {
	if p.Pressure < 0 {
		return def
	}
	return p.Pressure
}
