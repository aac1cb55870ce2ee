// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package math32 is the float32 vector and scalar math used by the
// scene: positions, spherical camera coordinates and interpolation.
package math32

import (
	"cmp"
	"math"

	"github.com/chewxy/math32"
)

const (
	Pi = math.Pi

	// TwoPi is a full turn in radians.
	TwoPi = 2 * math.Pi

	// DegToRadFactor is the number of radians per degree.
	DegToRadFactor = Pi / 180
)

// Scalar functions from chewxy/math32, which computes in float32
// rather than converting through float64.
var (
	Abs    = math32.Abs
	Acos   = math32.Acos
	Atan2  = math32.Atan2
	Cos    = math32.Cos
	Exp    = math32.Exp
	Max    = math32.Max
	Min    = math32.Min
	Mod    = math32.Mod
	Round  = math32.Round
	Sin    = math32.Sin
	Sincos = math32.Sincos
	Sqrt   = math32.Sqrt
	Tan    = math32.Tan
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float32) float32 {
	return degrees * DegToRadFactor
}

// Lerp returns the value amount of the way from start to stop.
func Lerp(start, stop, amount float32) float32 {
	return start + (stop-start)*amount
}

// Clamp returns x limited to [lo, hi]. When lo == hi the result is
// always lo, which is how a pinned camera angle is expressed.
func Clamp[T cmp.Ordered](x, lo, hi T) T {
	return max(lo, min(x, hi))
}

// WrapAngle wraps the given radian angle into [-Pi, Pi).
func WrapAngle(a float32) float32 {
	a = Mod(a+Pi, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	return a - Pi
}
