/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import "inkboard/internal/geom"

// Pen is a reusable line style, cached per stroke by (brush, width) so the
// render pass does not allocate one per segment. Canvas implementations may
// key their own style objects off the pointer identity.
type Pen struct {
	Brush Brush
	Width float32
}

// Canvas is the drawing context a rendering surface supplies to the render
// pass. All coordinates are canvas-space; the implementation applies the
// current view transform.
type Canvas interface {
	StrokeLine(a, b geom.Pt, pen *Pen)
	FillCircle(center geom.Pt, radius float32, brush Brush)
	FillRect(r geom.Rect, brush Brush)
	DrawImage(img *CanvasImage)
}
