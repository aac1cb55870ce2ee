// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import (
	"fmt"
	"image/color"

	"cogentcore.org/stage/math32"
)

// Kinds are the kinds of values that can be animated.
type Kinds int32

const (
	// Float is a single float32 value.
	Float Kinds = iota

	// Vector3 is a [math32.Vector3] value, such as a scale.
	Vector3

	// Color is a [color.RGBA] value, interpolated per channel.
	Color
)

func (k Kinds) String() string {
	switch k {
	case Float:
		return "Float"
	case Vector3:
		return "Vector3"
	case Color:
		return "Color"
	}
	return fmt.Sprintf("Kinds(%d)", int32(k))
}

// Value is an animatable value of one of the [Kinds].
// It is a comparable value type stored as up to four
// float32 components, so ticking never allocates.
type Value struct {
	Kind Kinds
	v    [4]float32
}

// FloatValue returns a [Float] value.
func FloatValue(f float32) Value {
	return Value{Kind: Float, v: [4]float32{f}}
}

// Vector3Value returns a [Vector3] value.
func Vector3Value(v math32.Vector3) Value {
	return Value{Kind: Vector3, v: [4]float32{v.X, v.Y, v.Z}}
}

// ColorValue returns a [Color] value.
func ColorValue(c color.RGBA) Value {
	return Value{Kind: Color, v: [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}}
}

// Float returns the value as a float32.
func (v Value) Float() float32 {
	return v.v[0]
}

// Vector3 returns the value as a [math32.Vector3].
func (v Value) Vector3() math32.Vector3 {
	return math32.Vec3(v.v[0], v.v[1], v.v[2])
}

// Color returns the value as a [color.RGBA], rounding each channel.
func (v Value) Color() color.RGBA {
	ch := func(f float32) uint8 {
		return uint8(math32.Round(math32.Clamp(f, 0, 255)))
	}
	return color.RGBA{ch(v.v[0]), ch(v.v[1]), ch(v.v[2]), ch(v.v[3])}
}

func (v Value) String() string {
	switch v.Kind {
	case Vector3:
		return v.Vector3().String()
	case Color:
		return fmt.Sprintf("%v", v.Color())
	}
	return fmt.Sprintf("%g", v.Float())
}

// components returns the number of meaningful components.
func (k Kinds) components() int {
	switch k {
	case Vector3:
		return 3
	case Color:
		return 4
	}
	return 1
}

// maxDiff returns the largest absolute component difference.
func maxDiff(a, b *[4]float32, n int) float32 {
	var md float32
	for i := range n {
		md = math32.Max(md, math32.Abs(b[i]-a[i]))
	}
	return md
}
