/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import "inkboard/internal/geom"

// PointerKind identifies the class of input device behind an event.
type PointerKind uint8

const (
	PointerMouse PointerKind = iota
	PointerPen
	PointerTouch
)

func (k PointerKind) String() string {
	switch k {
	case PointerMouse:
		return "mouse"
	case PointerPen:
		return "pen"
	case PointerTouch:
		return "touch"
	}
	return "unknown"
}

// ParsePointerKind maps a config device name to a kind.
func ParsePointerKind(s string) (PointerKind, bool) {
	switch s {
	case "mouse":
		return PointerMouse, true
	case "pen", "stylus":
		return PointerPen, true
	case "touch":
		return PointerTouch, true
	}
	return PointerMouse, false
}

// EventPhase is the lifecycle stage of a pointer contact.
type EventPhase uint8

const (
	PhasePressed EventPhase = iota
	PhaseMoved
	PhaseReleased
)

func (p EventPhase) String() string {
	switch p {
	case PhasePressed:
		return "pressed"
	case PhaseMoved:
		return "moved"
	case PhaseReleased:
		return "released"
	}
	return "unknown"
}

// Buttons is a bitmask of pressed pointer buttons.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Sample is one device-reported position. High-frequency devices deliver
// several samples per dispatched move event.
type Sample struct {
	Screen   geom.Pt
	Pressure float32 // 0 when the device does not report pressure
}

// PointerEvent is the surface-agnostic input record the dispatcher consumes.
// Screen/Pressure describe the final (most recent) sample; Coalesced holds
// any intermediate samples delivered since the previous event, oldest first
// and excluding the final one.
type PointerEvent struct {
	ID        string // contact/session identifier, unique per active contact
	Kind      PointerKind
	Phase     EventPhase
	Screen    geom.Pt
	Pressure  float32
	Eraser    bool // device reports its eraser end is in use
	Buttons   Buttons
	Alt       bool // alt/option modifier held
	Coalesced []Sample
}

// samples returns all samples of the event in order, final sample last.
func (e PointerEvent) samples() []Sample {
	s := make([]Sample, 0, len(e.Coalesced)+1)
	s = append(s, e.Coalesced...)
	s = append(s, Sample{Screen: e.Screen, Pressure: e.Pressure})
	return s
}
