// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"fmt"
	"strings"
)

// Types determines the type of pointer event delivered to the scene.
// The names follow the standard JavaScript pointer and wheel events,
// which is also what the websocket input bridge sends.
type Types int32

const (
	// zero value is an unknown type
	UnknownType Types = iota

	// MouseDown happens when a mouse button is pressed down. See Button for which.
	MouseDown

	// MouseUp happens when a mouse button is released. See Button for which.
	MouseUp

	// MouseMove is sent when the mouse is moving, with Prev holding
	// the previous position.
	MouseMove

	// MouseEnter is when the pointer enters the bounds of an element.
	// It is used for setting the Hover state.
	MouseEnter

	// MouseLeave is when the pointer leaves the bounds of an element
	// that previously had a MouseEnter event.
	MouseLeave

	// Scroll is a mouse wheel event, with ScrollDelta in pixels.
	Scroll

	// TypesN is the number of types.
	TypesN
)

var typesNames = [...]string{"UnknownType", "MouseDown", "MouseUp", "MouseMove", "MouseEnter", "MouseLeave", "Scroll"}

// String returns the name of the type.
func (tp Types) String() string {
	if tp < 0 || tp >= TypesN {
		return fmt.Sprintf("Types(%d)", int32(tp))
	}
	return typesNames[tp]
}

// SetString sets the type from its name, ignoring case.
func (tp *Types) SetString(s string) error {
	for i, nm := range typesNames {
		if strings.EqualFold(nm, s) {
			*tp = Types(i)
			return nil
		}
	}
	return fmt.Errorf("%q is not a valid value for type events.Types", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (tp Types) MarshalText() ([]byte, error) {
	return []byte(tp.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (tp *Types) UnmarshalText(text []byte) error {
	return tp.SetString(string(text))
}

// Buttons is a mouse button.
type Buttons int32

const (
	NoButton Buttons = iota
	Left
	Middle
	Right
)
