// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(float32(3), 0, 1))
	assert.Equal(t, float32(0), Clamp(float32(-3), 0, 1))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))

	pinned := float32(Pi / 3)
	assert.Equal(t, pinned, Clamp(float32(100), pinned, pinned))
	assert.Equal(t, pinned, Clamp(float32(-100), pinned, pinned))
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0, WrapAngle(TwoPi), 1e-5)
	assert.InDelta(t, -Pi/2, WrapAngle(3*Pi/2), 1e-5)
	assert.InDelta(t, Pi/4, WrapAngle(Pi/4), 1e-6)
}

func TestVector2(t *testing.T) {
	assert.Equal(t, Vector2{5, 10}, Vec2(5, 10))
	assert.Equal(t, Vector2{15, -5}, Vector2FromPoint(image.Pt(15, -5)))
	assert.Equal(t, Vector2{3, 4}, Vec2(1, 1).Add(Vec2(2, 3)))
	assert.True(t, Vec2(1, 1).Sub(Vec2(1, 1)).IsZero())
}

func TestVector3(t *testing.T) {
	v := Vec3(1, 2, 3)
	assert.Equal(t, Vector3{2, 4, 6}, v.MulScalar(2))
	assert.Equal(t, Vector3{0, 0, 0}, v.Sub(v))
	assert.Equal(t, float32(14), v.Dot(v))
	assert.Equal(t, Vector3Scalar(1.5), Vector3Scalar(1).Lerp(Vector3Scalar(2), 0.5))
	assert.InDelta(t, 5, Vec3(3, 4, 0).Length(), 1e-6)
	assert.InDelta(t, 1, Vec3(3, 4, 0).Normal().Length(), 1e-6)
	assert.Equal(t, float32(3), v.MaxComponent())
	assert.Equal(t, Vec3(0, 0, 1), Vec3(1, 0, 0).Cross(Vec3(0, 1, 0)))
	assert.InDelta(t, 1, Tan(Pi/4), 1e-6)

	p := SphericalToVector3(2, Pi/2, 0)
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, 0, p.Y, 1e-6)
	assert.InDelta(t, 2, p.Z, 1e-6)
}
