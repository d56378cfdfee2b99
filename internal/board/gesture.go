/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"log/slog"

	applog "inkboard/internal/log"

	"inkboard/internal/geom"
)

// GestureState is the multi-touch interaction mode of the board.
type GestureState uint8

const (
	GestureNormal GestureState = iota
	GesturePanning
	GesturePinching
)

func (s GestureState) String() string {
	switch s {
	case GestureNormal:
		return "normal"
	case GesturePanning:
		return "panning"
	case GesturePinching:
		return "pinching"
	}
	return "unknown"
}

// CanTransition reports whether the state machine accepts a change from one
// state to another. The single forbidden edge is Pinching -> Panning: while
// pinching, a moving lone remaining contact must not start a pan, which
// avoids a view jump when one of two fingers lifts.
func CanTransition(from, to GestureState) bool {
	return !(from == GesturePinching && to == GesturePanning)
}

// GestureController tracks active touch contacts, computes pinch distance
// and center, and drives the view transform.
type GestureController struct {
	vt        *ViewTransform
	state     GestureState
	contacts  map[string]geom.Pt // contact id -> last known screen position
	pinchDist float32            // inter-contact distance at pinch start
	log       *slog.Logger
}

func NewGestureController(vt *ViewTransform) *GestureController {
	return &GestureController{
		vt:       vt,
		state:    GestureNormal,
		contacts: make(map[string]geom.Pt),
		log:      applog.WithComponent("gesture"),
	}
}

// State returns the current gesture state.
func (g *GestureController) State() GestureState { return g.state }

// ContactCount returns the number of active touch contacts.
func (g *GestureController) ContactCount() int { return len(g.contacts) }

func (g *GestureController) transitionTo(to GestureState) bool {
	if g.state == to {
		return true
	}
	if !CanTransition(g.state, to) {
		return false
	}
	g.log.Debug("gesture transition", slog.String("from", g.state.String()), slog.String("to", to.String()))
	g.state = to
	return true
}

// TouchDown registers a contact. When it is the second simultaneous contact
// the current inter-contact distance becomes the pinch baseline.
func (g *GestureController) TouchDown(id string, p geom.Pt) {
	if _, dup := g.contacts[id]; dup {
		// duplicate contact id: skip the update, keep state intact
		g.log.Warn("duplicate touch contact", slog.String("id", id))
		return
	}
	g.contacts[id] = p
	if len(g.contacts) == 2 {
		a, b := g.twoContacts()
		g.pinchDist = a.Dist(b)
	}
}

// TouchMove updates a contact position and applies pan or pinch. It returns
// whether the view changed.
func (g *GestureController) TouchMove(id string, p geom.Pt) bool {
	last, ok := g.contacts[id]
	if !ok {
		return false
	}
	g.contacts[id] = p

	switch len(g.contacts) {
	case 1:
		if g.state == GestureNormal && !g.transitionTo(GesturePanning) {
			return false
		}
		if g.state != GesturePanning {
			return false
		}
		g.vt.Pan(p.Sub(last))
		return true
	case 2:
		a, b := g.twoContacts()
		dist := a.Dist(b)
		if g.pinchDist <= 0 {
			// degenerate baseline: adopt the current distance, no scale change
			g.pinchDist = dist
			return false
		}
		scale := dist / g.pinchDist
		if scale == 1 {
			return false
		}
		if !g.transitionTo(GesturePinching) {
			return false
		}
		g.vt.ZoomStep(scale-1, a.Mid(b), PinchZoomStep)
		// incremental, not cumulative: next move scales against this distance
		g.pinchDist = dist
		return true
	}
	return false
}

// TouchUp removes a contact; dropping to zero contacts forces Normal.
func (g *GestureController) TouchUp(id string) {
	delete(g.contacts, id)
	if len(g.contacts) == 0 {
		g.state = GestureNormal
		g.pinchDist = 0
	}
}

func (g *GestureController) twoContacts() (geom.Pt, geom.Pt) {
	pts := make([]geom.Pt, 0, 2)
	for _, p := range g.contacts {
		pts = append(pts, p)
	}
	return pts[0], pts[1]
}
