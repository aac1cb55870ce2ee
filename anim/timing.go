// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

// TimingFunc takes the proportion of the time of a tween that has
// taken place (0-1) and returns the total proportion of the difference
// between the starting and ending value that should be applied at
// that point in time (0-1). It must be non-decreasing, with
// f(0) = 0 and f(1) = 1, so tweens never overshoot.
type TimingFunc func(prop float32) float32

// Linear is a simple, linear, 1 to 1 timing function.
func Linear(prop float32) float32 {
	return prop
}

// EaseInOut accelerates and then decelerates (smoothstep).
func EaseInOut(prop float32) float32 {
	return prop * prop * (3 - 2*prop)
}

// EaseOut decelerates toward the end (quadratic).
func EaseOut(prop float32) float32 {
	inv := 1 - prop
	return 1 - inv*inv
}
