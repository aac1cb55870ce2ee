// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"image/color"

	"cogentcore.org/stage/anim"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/events"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/scenegraph"
)

// Animated keys of a [Box].
const (
	ScaleKey = "scale"
	ColorKey = "color"
)

var (
	// Orange is the resting color of a [Box].
	Orange = color.RGBA{255, 165, 0, 255}

	// Red is the color of an active [Box].
	Red = color.RGBA{255, 0, 0, 255}

	// HoverScale is the scale of a hovered [Box].
	HoverScale float32 = 1.5
)

// Interaction is the interaction state of a [Box].
type Interaction struct {

	// Hover is whether the pointer is over the box.
	Hover bool

	// Active is toggled by clicking on the box.
	Active bool
}

// Box is the interactive box: hovering scales it up and clicking
// toggles it red. Its scale and color are animated; the animated keys
// are prefixed with the box name so that several boxes can share one
// [anim.Engine].
type Box struct {

	// Name is the node name.
	Name string

	// Pos is the position.
	Pos math32.Vector3

	// Size is the edge length of the box.
	Size float32

	// Listeners are called after the box handles each event.
	Listeners events.Listeners

	anim  *anim.Engine
	state Interaction
}

// NewBox returns a new box with the given name and position, declaring
// its animated keys on the given engine.
func NewBox(name string, pos math32.Vector3, an *anim.Engine) (*Box, error) {
	b := &Box{Name: name, Pos: pos, Size: 1, anim: an}
	err := errors.Join(
		an.Declare(b.key(ScaleKey), anim.Vector3Value(math32.Vector3Scalar(1))),
		an.Declare(b.key(ColorKey), anim.ColorValue(Orange)),
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Box) key(k string) string {
	return b.Name + "." + k
}

// Interaction returns the interaction state.
func (b *Box) Interaction() Interaction {
	return b.state
}

// SetHover sets the hover state and the scale target.
func (b *Box) SetHover(hover bool) error {
	b.state.Hover = hover
	return b.retarget()
}

// SetActive sets the active state and the color target.
func (b *Box) SetActive(active bool) error {
	b.state.Active = active
	return b.retarget()
}

func (b *Box) retarget() error {
	scale := float32(1)
	if b.state.Hover {
		scale = HoverScale
	}
	clr := Orange
	if b.state.Active {
		clr = Red
	}
	return errors.Join(
		b.anim.SetTarget(b.key(ScaleKey), anim.Vector3Value(math32.Vector3Scalar(scale))),
		b.anim.SetTarget(b.key(ColorKey), anim.ColorValue(clr)),
	)
}

// HandleEvent updates the interaction state from an event addressed
// to the box: MouseEnter and MouseLeave set hover, and a MouseUp
// (a click) toggles active.
func (b *Box) HandleEvent(ev *events.Event) {
	switch ev.Type() {
	case events.MouseEnter:
		errors.Log(b.SetHover(true))
	case events.MouseLeave:
		errors.Log(b.SetHover(false))
	case events.MouseUp:
		errors.Log(b.SetActive(!b.state.Active))
	}
	b.Listeners.Call(ev)
}

// Scale returns the current animated scale.
func (b *Box) Scale() math32.Vector3 {
	return b.anim.Value(b.key(ScaleKey)).Vector3()
}

// Color returns the current animated color.
func (b *Box) Color() color.RGBA {
	return b.anim.Value(b.key(ColorKey)).Color()
}

// Template returns the parts of the box node that do not animate:
// its geometry, base material and shadow flags.
func (b *Box) Template() *scenegraph.Node {
	mat := scenegraph.Material{}
	mat.Defaults()
	mat.Color = Orange
	geom := scenegraph.Geometry{Shape: scenegraph.Box, Size: math32.Vector3Scalar(b.Size)}
	return scenegraph.NewMesh(b.Name, geom, mat).SetShadow(true, false)
}

// Apply sets the position, animated scale and animated color of the
// box on n, which is typically an instance of [Box.Template].
func (b *Box) Apply(n *scenegraph.Node) *scenegraph.Node {
	n.Material.Color = b.Color()
	return n.SetPos(b.Pos.X, b.Pos.Y, b.Pos.Z).SetScale(b.Scale())
}

// Node returns the scene node for the box at its current animated
// scale and color. It casts shadows but does not receive them.
func (b *Box) Node() *scenegraph.Node {
	return b.Apply(b.Template())
}
