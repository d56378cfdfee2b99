/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

// StrokeSet maps per-contact input session ids to their strokes, keeping
// creation order for deterministic rendering.
type StrokeSet struct {
	m     map[string]*StrokeBuffer
	order []string
}

func NewStrokeSet() *StrokeSet {
	return &StrokeSet{m: make(map[string]*StrokeBuffer)}
}

// Get returns the stroke for id, if present.
func (s *StrokeSet) Get(id string) (*StrokeBuffer, bool) {
	sb, ok := s.m[id]
	return sb, ok
}

// GetOrCreate returns the stroke for id, creating it on first use.
func (s *StrokeSet) GetOrCreate(id string) *StrokeBuffer {
	if sb, ok := s.m[id]; ok {
		return sb
	}
	sb := NewStrokeBuffer()
	s.m[id] = sb
	s.order = append(s.order, id)
	return sb
}

// Remove deletes the stroke for id.
func (s *StrokeSet) Remove(id string) {
	if _, ok := s.m[id]; !ok {
		return
	}
	delete(s.m, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Clear drops all strokes.
func (s *StrokeSet) Clear() {
	s.m = make(map[string]*StrokeBuffer)
	s.order = s.order[:0]
}

// Len returns the number of active strokes.
func (s *StrokeSet) Len() int { return len(s.m) }

// Each visits strokes in creation order; the visitor returns false to stop.
func (s *StrokeSet) Each(fn func(id string, sb *StrokeBuffer) bool) {
	// copy ids: visitors may remove entries
	ids := append([]string(nil), s.order...)
	for _, id := range ids {
		if sb, ok := s.m[id]; ok {
			if !fn(id, sb) {
				return
			}
		}
	}
}

// LivePointCount sums live points across all strokes.
func (s *StrokeSet) LivePointCount() int {
	n := 0
	for _, sb := range s.m {
		n += sb.LiveLen()
	}
	return n
}
