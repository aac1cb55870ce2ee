// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"fmt"

	"cogentcore.org/stage/math32"
)

// State is the orbit camera state consumed by the draw step.
// The camera sits on a sphere of radius Distance around Target,
// at the Polar angle from the +Y (up) axis and the Azimuth angle
// around it. Polar is always within [MinPolar, MaxPolar]; when the
// two are equal the elevation is pinned and only the azimuth changes.
type State struct {

	// Position is the camera position in world coordinates,
	// derived from the spherical coordinates by [State.UpdatePosition].
	Position math32.Vector3

	// Target is the point the camera orbits around and looks at.
	Target math32.Vector3

	// Distance is the distance from the Target.
	Distance float32

	// Polar is the angle from the +Y axis, in radians.
	Polar float32

	// Azimuth is the angle around the Y axis, in radians.
	Azimuth float32

	// MinPolar is the smallest allowed Polar angle.
	MinPolar float32

	// MaxPolar is the largest allowed Polar angle.
	MaxPolar float32

	// MinDistance is the closest the camera can zoom in.
	MinDistance float32

	// MaxDistance is the furthest the camera can zoom out.
	MaxDistance float32

	// FOV is the vertical field of view in degrees.
	FOV float32

	// Near is the near clipping plane distance.
	Near float32

	// Far is the far clipping plane distance.
	Far float32
}

// Defaults sets the default camera, looking at the origin
// from a distance of 10 with unconstrained elevation.
func (st *State) Defaults() {
	st.Target = math32.Vector3{}
	st.Distance = 10
	st.Polar = math32.Pi / 3
	st.Azimuth = 0
	st.MinPolar = 0
	st.MaxPolar = math32.Pi
	st.MinDistance = 1
	st.MaxDistance = 100
	st.FOV = 50
	st.Near = 0.1
	st.Far = 1000
	st.UpdatePosition()
}

// Clamp constrains the polar angle and distance to their limits, and
// wraps the azimuth into [-Pi, Pi) so that it keeps full float32
// precision however long the camera rotates.
// Clamping is the recovery for out of range values, not an error.
func (st *State) Clamp() {
	st.Azimuth = math32.WrapAngle(st.Azimuth)
	st.Polar = math32.Clamp(st.Polar, st.MinPolar, st.MaxPolar)
	if st.MaxDistance > 0 {
		st.Distance = math32.Clamp(st.Distance, st.MinDistance, st.MaxDistance)
	}
}

// UpdatePosition recomputes Position from the spherical coordinates.
func (st *State) UpdatePosition() {
	st.Position = st.Target.Add(math32.SphericalToVector3(st.Distance, st.Polar, st.Azimuth))
}

// Validate fixes inverted limits, returning an error describing what was fixed.
func (st *State) Validate() error {
	var err error
	if st.MinPolar > st.MaxPolar {
		err = fmt.Errorf("camera.State: MinPolar %g > MaxPolar %g; swapped", st.MinPolar, st.MaxPolar)
		st.MinPolar, st.MaxPolar = st.MaxPolar, st.MinPolar
	}
	if st.MinDistance > st.MaxDistance {
		err = fmt.Errorf("camera.State: MinDistance %g > MaxDistance %g; swapped", st.MinDistance, st.MaxDistance)
		st.MinDistance, st.MaxDistance = st.MaxDistance, st.MinDistance
	}
	return err
}

// ViewDir returns the unit direction the camera is looking in.
func (st *State) ViewDir() math32.Vector3 {
	return st.Target.Sub(st.Position).Normal()
}
