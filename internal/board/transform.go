/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import "inkboard/internal/geom"

// Zoom bounds for the view. The scale can never reach zero, so the matrix
// stays invertible at all times.
const (
	MinZoom = 0.1
	MaxZoom = 20.0
)

// WheelZoomStep is the coarse step factor for discrete wheel/button zoom.
// PinchZoomStep is the finer factor used for continuous pinch zooming.
const (
	WheelZoomStep float32 = 0.1
	PinchZoomStep float32 = 0.02
)

// ViewTransform maintains the affine screen<->canvas mapping of the board.
// The matrix maps canvas space to screen space.
type ViewTransform struct {
	m    geom.Affine2D
	zoom float32
}

func NewViewTransform() *ViewTransform {
	return &ViewTransform{m: geom.Identity, zoom: 1}
}

// Zoom returns the current zoom scalar.
func (v *ViewTransform) Zoom() float32 { return v.zoom }

// Matrix returns the current canvas-to-screen matrix.
func (v *ViewTransform) Matrix() geom.Affine2D { return v.m }

// Reset restores the identity mapping.
func (v *ViewTransform) Reset() {
	v.m = geom.Identity
	v.zoom = 1
}

// CanvasToScreen maps a canvas-space point to screen space.
func (v *ViewTransform) CanvasToScreen(p geom.Pt) geom.Pt { return v.m.Apply(p) }

// ScreenToCanvas maps a screen-space point to canvas space.
func (v *ViewTransform) ScreenToCanvas(p geom.Pt) geom.Pt {
	inv, ok := v.m.Invert()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// Pan translates the view by a screen-space delta. The delta is divided by
// the current zoom and composed as a pre-translation, so content tracks the
// pointer by the same number of pixels at any zoom level.
func (v *ViewTransform) Pan(delta geom.Pt) {
	v.m = v.m.Mul(geom.Translate(delta.X/v.zoom, delta.Y/v.zoom))
}

// ZoomStep zooms in (direction > 0) or out (direction < 0) by step around
// center, a screen-space point that stays visually fixed. At the clamp
// boundaries the call is a no-op.
func (v *ViewTransform) ZoomStep(direction float32, center geom.Pt, step float32) {
	if direction == 0 {
		return
	}
	factor := 1 + step
	if direction < 0 {
		factor = 1 - step
	}
	newZoom := clampZoom(v.zoom * factor)
	ratio := newZoom / v.zoom
	if ratio == 1 {
		return
	}
	v.m = geom.Translate(center.X, center.Y).
		Mul(geom.Scale(ratio, ratio)).
		Mul(geom.Translate(-center.X, -center.Y)).
		Mul(v.m)
	v.zoom = newZoom
}

func clampZoom(z float32) float32 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
