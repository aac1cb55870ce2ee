// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the pointer events that drive camera and
// hover/active interaction, and a mutex-guarded, double-buffered
// queue that holds them until the next frame.
package events

import (
	"fmt"
	"image"
	"time"

	"cogentcore.org/stage/math32"
)

// Event is a pointer event. Events are created on the input side
// and consumed on the render goroutine at the next frame boundary.
type Event struct {

	// Typ is the type of event.
	Typ Types `json:"type"`

	// Button is the mouse button being pressed or released, if relevant.
	Button Buttons `json:"button,omitempty"`

	// Where is the event location in surface pixel coordinates.
	Where image.Point `json:"where"`

	// Prev is the previous location, for MouseMove.
	Prev image.Point `json:"prev,omitempty"`

	// ScrollDelta is the scroll wheel delta in pixels, for Scroll.
	ScrollDelta math32.Vector2 `json:"scrollDelta,omitempty"`

	// Target is the name of the scene element the event is
	// addressed to, for MouseEnter, MouseLeave and clicks on elements.
	Target string `json:"target,omitempty"`

	// GenTime is when the event was generated.
	GenTime time.Time `json:"-"`

	handled bool
}

// NewMouse returns a new mouse event of the given type, for the given button and location.
func NewMouse(typ Types, but Buttons, where image.Point) *Event {
	return &Event{Typ: typ, Button: but, Where: where, GenTime: time.Now()}
}

// NewMouseMove returns a new MouseMove event from prev to where.
func NewMouseMove(where, prev image.Point) *Event {
	return &Event{Typ: MouseMove, Where: where, Prev: prev, GenTime: time.Now()}
}

// NewScroll returns a new Scroll event with the given delta.
func NewScroll(where image.Point, delta math32.Vector2) *Event {
	return &Event{Typ: Scroll, Where: where, ScrollDelta: delta, GenTime: time.Now()}
}

// NewTargeted returns a new event of the given type addressed to the named element.
func NewTargeted(typ Types, target string) *Event {
	return &Event{Typ: typ, Target: target, GenTime: time.Now()}
}

func (ev *Event) String() string {
	return fmt.Sprintf("%v{Button: %v, Pos: %v, Target: %q}", ev.Typ, ev.Button, ev.Where, ev.Target)
}

// Type returns the type of the event.
func (ev *Event) Type() Types {
	return ev.Typ
}

// Delta returns the movement since Prev, for MouseMove.
func (ev *Event) Delta() image.Point {
	return ev.Where.Sub(ev.Prev)
}

// IsHandled returns whether this event has already been processed.
func (ev *Event) IsHandled() bool {
	return ev.handled
}

// SetHandled marks the event as processed, which stops
// any further [Listeners] from being called.
func (ev *Event) SetHandled() {
	ev.handled = true
}
