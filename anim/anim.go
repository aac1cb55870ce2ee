// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package anim provides the interpolation engine that smoothly animates
// derived values like scale and color, independent of the scene graph
// reconciliation cycle. Callers declare a static set of keys, set targets
// in response to state changes, tick once per frame, and read the current
// values when building scene nodes.
package anim

import (
	"image/color"
	"log/slog"
	"time"

	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/base/ordmap"
	"cogentcore.org/stage/math32"
)

// Modes are the update rules for moving values toward their targets.
type Modes int32

const (
	// Ease approaches the target exponentially: every tick moves a
	// fraction 1-exp(-Rate*dt) of the remaining distance, and the
	// value snaps to the target once within Epsilon.
	Ease Modes = iota

	// Tween moves from the value at the time of the target change
	// to the target over Duration, shaped by Timing.
	Tween
)

// Options are the interpolation parameters shared by all keys of an [Engine].
type Options struct {

	// Mode is the update rule.
	Mode Modes

	// Rate is the exponential approach rate per second, for [Ease].
	Rate float32 `default:"10"`

	// Duration is the length of a transition, for [Tween].
	Duration time.Duration `default:"250ms"`

	// Timing is the timing function for [Tween]; nil means [EaseInOut].
	Timing TimingFunc

	// Epsilon is the largest component difference at which
	// an [Ease] value is considered to have arrived.
	Epsilon float32 `default:"0.001"`
}

// Defaults sets default option values.
func (o *Options) Defaults() {
	o.Mode = Ease
	o.Rate = 10
	o.Duration = 250 * time.Millisecond
	o.Timing = EaseInOut
	o.Epsilon = 0.001
}

// track is the state of one animated key.
type track struct {
	kind     Kinds
	current  [4]float32
	start    [4]float32
	target   [4]float32
	elapsed  time.Duration
	inFlight bool
}

// Engine maintains a fixed set of animated values.
// It is not safe for concurrent use; it is ticked on the render goroutine.
type Engine struct {
	opts    Options
	tracks  ordmap.Map[string, *track]
	changed []string
}

// New returns a new [Engine] with the given options.
// Zero option fields are filled in from [Options.Defaults].
func New(opts Options) *Engine {
	var def Options
	def.Defaults()
	if opts.Rate <= 0 {
		opts.Rate = def.Rate
	}
	if opts.Duration <= 0 {
		opts.Duration = def.Duration
	}
	if opts.Timing == nil {
		opts.Timing = def.Timing
	}
	if opts.Epsilon <= 0 {
		opts.Epsilon = def.Epsilon
	}
	return &Engine{opts: opts}
}

// Options returns the options of the engine.
func (e *Engine) Options() Options {
	return e.opts
}

// Declare adds a new animated key with the given initial value,
// which is both its current value and its target. Keys must be
// declared before targets are set on them. Declaring an existing
// key is a [ConfigurationError].
func (e *Engine) Declare(key string, initial Value) error {
	if _, has := e.tracks.Get(key); has {
		return errors.Log(&ConfigurationError{Key: key, Reason: "already declared"})
	}
	e.tracks.Set(key, &track{kind: initial.Kind, current: initial.v, start: initial.v, target: initial.v})
	e.changed = make([]string, 0, e.tracks.Len())
	return nil
}

// SetTarget schedules a new target for the given key. Setting the
// current target again is a no-op. Unknown keys and kind mismatches
// are reported (and logged) as a [ConfigurationError].
func (e *Engine) SetTarget(key string, v Value) error {
	tr, ok := e.tracks.Get(key)
	if !ok {
		return errors.Log(&ConfigurationError{Key: key, Reason: "unknown key"})
	}
	if tr.kind != v.Kind {
		return errors.Log(&ConfigurationError{Key: key, Reason: "value kind " + v.Kind.String() + " does not match declared kind " + tr.kind.String()})
	}
	if tr.target == v.v {
		return nil
	}
	tr.target = v.v
	tr.start = tr.current
	tr.elapsed = 0
	tr.inFlight = tr.current != tr.target
	return nil
}

// Tick advances all in-flight values toward their targets by the given
// elapsed time, and returns the keys whose current value changed.
// The returned slice is reused by the next call to Tick.
func (e *Engine) Tick(dt time.Duration) []string {
	e.changed = e.changed[:0]
	if dt <= 0 {
		return e.changed
	}
	for i := range e.tracks.Len() {
		key, tr := e.tracks.At(i)
		if !tr.inFlight {
			continue
		}
		if e.step(tr, dt) {
			e.changed = append(e.changed, key)
		}
	}
	return e.changed
}

// step advances one track, returning whether its value changed.
func (e *Engine) step(tr *track, dt time.Duration) bool {
	n := tr.kind.components()
	prev := tr.current
	switch e.opts.Mode {
	case Tween:
		tr.elapsed += dt
		prop := math32.Clamp(float32(tr.elapsed)/float32(e.opts.Duration), 0, 1)
		if prop >= 1 {
			tr.current = tr.target
			break
		}
		f := math32.Clamp(e.opts.Timing(prop), 0, 1)
		for i := range n {
			tr.current[i] = tr.start[i] + (tr.target[i]-tr.start[i])*f
		}
	default:
		frac := 1 - math32.Exp(-e.opts.Rate*float32(dt.Seconds()))
		for i := range n {
			tr.current[i] += (tr.target[i] - tr.current[i]) * frac
		}
		if maxDiff(&tr.current, &tr.target, n) <= e.opts.Epsilon {
			tr.current = tr.target
		}
	}
	if tr.current == tr.target {
		tr.inFlight = false
	}
	return tr.current != prev
}

// Value returns the current value of the given key.
// Unknown keys log an error and return the zero value.
func (e *Engine) Value(key string) Value {
	tr, ok := e.tracks.Get(key)
	if !ok {
		slog.Error("anim.Engine.Value: unknown key", "key", key)
		return Value{}
	}
	return Value{Kind: tr.kind, v: tr.current}
}

// Float returns the current value of a [Float] key.
func (e *Engine) Float(key string) float32 {
	return e.Value(key).Float()
}

// Vector3 returns the current value of a [Vector3] key.
func (e *Engine) Vector3(key string) math32.Vector3 {
	return e.Value(key).Vector3()
}

// Color returns the current value of a [Color] key.
func (e *Engine) Color(key string) color.RGBA {
	return e.Value(key).Color()
}

// Target returns the current target of the given key.
func (e *Engine) Target(key string) Value {
	tr, ok := e.tracks.Get(key)
	if !ok {
		slog.Error("anim.Engine.Target: unknown key", "key", key)
		return Value{}
	}
	return Value{Kind: tr.kind, v: tr.target}
}

// InFlight returns whether the given key is still moving toward its target.
func (e *Engine) InFlight(key string) bool {
	tr, ok := e.tracks.Get(key)
	return ok && tr.inFlight
}

// Animating returns whether any key is still moving toward its target.
func (e *Engine) Animating() bool {
	for _, tr := range e.tracks.All() {
		if tr.inFlight {
			return true
		}
	}
	return false
}

// Keys returns the declared keys in declaration order.
func (e *Engine) Keys() []string {
	return e.tracks.Keys()
}
