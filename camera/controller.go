// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package camera provides the orbit camera rig: the camera [State] and the
// [Controller] that updates it once per frame from buffered pointer input
// and autonomous rotation.
package camera

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/events"
	"cogentcore.org/stage/math32"
)

// Modes are the states of the [Controller].
type Modes int32

const (
	// Idle means the camera is at rest.
	Idle Modes = iota

	// Dragging means a pointer is down and moves rotate the camera.
	Dragging

	// AutoRotating means the azimuth advances every frame.
	AutoRotating
)

func (m Modes) String() string {
	switch m {
	case Idle:
		return "Idle"
	case Dragging:
		return "Dragging"
	case AutoRotating:
		return "AutoRotating"
	}
	return fmt.Sprintf("Modes(%d)", int32(m))
}

// Options configure a [Controller].
type Options struct {

	// AutoRotate is whether the camera rotates on its own when no
	// pointer is down.
	AutoRotate bool

	// AutoRotateSpeed scales the per-frame auto rotation; 1 is
	// one full orbit per minute at 60 frames per second.
	AutoRotateSpeed float32 `default:"1"`

	// RotateSpeed scales drag rotation.
	RotateSpeed float32 `default:"1"`

	// ZoomSpeed scales scroll zoom; 0 disables zoom.
	ZoomSpeed float32 `default:"1"`

	// Height is the surface height in pixels; a drag across the full
	// height rotates by one full turn.
	Height int `default:"720"`
}

// Defaults sets default option values.
func (o *Options) Defaults() {
	o.AutoRotateSpeed = 1
	o.RotateSpeed = 1
	o.ZoomSpeed = 1
	o.Height = 720
}

// Controller is the camera rig controller. Pointer events may be sent
// from any goroutine; they are buffered and only applied in [Controller.Tick],
// which must be called on the render goroutine exactly once per frame.
type Controller struct {
	opts  Options
	state State
	mode  Modes
	input events.Queue
	views map[string]State
}

// NewController returns a new [Controller] starting from the given state.
// Inverted limits are fixed and logged.
func NewController(st State, opts Options) *Controller {
	errors.Log(st.Validate())
	if opts.Height <= 0 {
		opts.Height = 720
	}
	st.Clamp()
	st.UpdatePosition()
	c := &Controller{opts: opts, state: st}
	c.input.Init()
	c.mode = c.restMode()
	c.SaveView("default")
	return c
}

// State returns the current camera state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the current mode.
func (c *Controller) Mode() Modes {
	return c.mode
}

// Options returns the options.
func (c *Controller) Options() Options {
	return c.opts
}

// SetAutoRotate turns auto rotation on or off. It takes effect
// immediately unless a drag is in progress.
func (c *Controller) SetAutoRotate(on bool) {
	c.opts.AutoRotate = on
	if c.mode != Dragging {
		c.mode = c.restMode()
	}
}

// AutoRotateStep returns the azimuth increment applied per frame while
// [AutoRotating].
func (c *Controller) AutoRotateStep() float32 {
	return math32.TwoPi / 60 / 60 * c.opts.AutoRotateSpeed
}

func (c *Controller) restMode() Modes {
	if c.opts.AutoRotate {
		return AutoRotating
	}
	return Idle
}

// Send buffers the given pointer event for the next [Controller.Tick].
// It is safe to call from any goroutine.
func (c *Controller) Send(ev *events.Event) {
	c.input.Send(ev)
}

// PointerDown buffers a primary button press at the given location.
func (c *Controller) PointerDown(where image.Point) {
	c.Send(events.NewMouse(events.MouseDown, events.Left, where))
}

// PointerMove buffers a pointer move from prev to where.
func (c *Controller) PointerMove(where, prev image.Point) {
	c.Send(events.NewMouseMove(where, prev))
}

// PointerUp buffers a primary button release at the given location.
func (c *Controller) PointerUp(where image.Point) {
	c.Send(events.NewMouse(events.MouseUp, events.Left, where))
}

// Scroll buffers a scroll wheel event; positive dy zooms out.
func (c *Controller) Scroll(where image.Point, dy float32) {
	c.Send(events.NewScroll(where, math32.Vec2(0, dy)))
}

// Pending returns the number of buffered events.
func (c *Controller) Pending() int {
	return int(c.input.Len())
}

// Tick applies all buffered input, advances auto rotation by one step
// if [AutoRotating], clamps the polar angle and returns the new state.
// Each call is one frame: calling it twice in a frame advances auto
// rotation twice.
func (c *Controller) Tick(dt time.Duration) State {
	c.input.Drain(c.apply)
	if c.mode == AutoRotating {
		c.state.Azimuth += c.AutoRotateStep()
	}
	c.state.Clamp()
	c.state.UpdatePosition()
	return c.state
}

// apply applies one event to the state, clamping afterward.
func (c *Controller) apply(ev *events.Event) {
	switch ev.Type() {
	case events.MouseDown:
		c.mode = Dragging
	case events.MouseUp:
		c.mode = c.restMode()
	case events.MouseMove:
		if c.mode != Dragging {
			return
		}
		d := ev.Delta()
		scale := math32.TwoPi / float32(c.opts.Height) * c.opts.RotateSpeed
		c.state.Azimuth -= float32(d.X) * scale
		c.state.Polar -= float32(d.Y) * scale
	case events.Scroll:
		if c.opts.ZoomSpeed == 0 || ev.ScrollDelta.Y == 0 {
			return
		}
		zoom := math32.Exp(0.001 * c.opts.ZoomSpeed * ev.ScrollDelta.Y)
		c.state.Distance *= zoom
	default:
		return
	}
	c.state.Clamp()
	slog.Debug("camera input", "event", ev, "mode", c.mode, "polar", c.state.Polar, "azimuth", c.state.Azimuth)
}
