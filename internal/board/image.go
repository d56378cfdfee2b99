/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"image"

	"github.com/google/uuid"

	"inkboard/internal/geom"
)

// CanvasImage is a dropped image placed on the board. Raster drops carry a
// decoded Bitmap; vector drops carry only Path and are rasterized by the
// rendering surface. Bounds live in canvas space.
type CanvasImage struct {
	ID        string
	Name      string
	Path      string
	Bitmap    image.Image
	Bounds    geom.Rect
	Transform geom.Affine2D
}

// ImageSet stores placed images by generated id, preserving placement order
// for rendering.
type ImageSet struct {
	imgs  map[string]*CanvasImage
	order []string
}

func NewImageSet() *ImageSet {
	return &ImageSet{imgs: make(map[string]*CanvasImage)}
}

// Add places a decoded bitmap with its top-left corner at the canvas-space
// point and returns the new entry.
func (s *ImageSet) Add(name string, bmp image.Image, at geom.Pt) *CanvasImage {
	b := bmp.Bounds()
	img := &CanvasImage{
		ID:        uuid.NewString(),
		Name:      name,
		Bitmap:    bmp,
		Bounds:    geom.R(at.X, at.Y, float32(b.Dx()), float32(b.Dy())),
		Transform: geom.Identity,
	}
	s.imgs[img.ID] = img
	s.order = append(s.order, img.ID)
	return img
}

// AddFile places a file-backed image (vector formats the surface rasterizes
// itself) with the given canvas-space size.
func (s *ImageSet) AddFile(name, path string, at geom.Pt, w, h float32) *CanvasImage {
	img := &CanvasImage{
		ID:        uuid.NewString(),
		Name:      name,
		Path:      path,
		Bounds:    geom.R(at.X, at.Y, w, h),
		Transform: geom.Identity,
	}
	s.imgs[img.ID] = img
	s.order = append(s.order, img.ID)
	return img
}

// Remove deletes an image by id.
func (s *ImageSet) Remove(id string) {
	if _, ok := s.imgs[id]; !ok {
		return
	}
	delete(s.imgs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of placed images.
func (s *ImageSet) Len() int { return len(s.imgs) }

// Each visits images in placement order; the visitor returns false to stop.
func (s *ImageSet) Each(fn func(*CanvasImage) bool) {
	for _, id := range s.order {
		if !fn(s.imgs[id]) {
			return
		}
	}
}
