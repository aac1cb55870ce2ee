// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import (
	"fmt"
	"image/color"

	"cogentcore.org/stage/math32"
)

// All descriptors are plain comparable values, so that two
// descriptors are the same exactly when they are ==.

// Transform is the position, rotation and scale of a node
// relative to its parent.
type Transform struct {

	// Pos is the position.
	Pos math32.Vector3

	// Rot is the rotation as Euler angles in radians, applied in XYZ order.
	Rot math32.Vector3

	// Scale is the scale factor in each dimension.
	Scale math32.Vector3
}

// Defaults sets the identity transform.
func (tr *Transform) Defaults() {
	tr.Pos = math32.Vector3{}
	tr.Rot = math32.Vector3{}
	tr.Scale = math32.Vec3(1, 1, 1)
}

// Shapes are the kinds of mesh geometry.
type Shapes int32

const (
	NoShape Shapes = iota

	// Box is a rectangular box centered on the origin.
	Box

	// Plane is a flat rectangle in the XZ plane, facing +Y.
	Plane

	// Sphere is a UV sphere; Size.X is the radius.
	Sphere
)

func (s Shapes) String() string {
	switch s {
	case NoShape:
		return "NoShape"
	case Box:
		return "Box"
	case Plane:
		return "Plane"
	case Sphere:
		return "Sphere"
	}
	return fmt.Sprintf("Shapes(%d)", int32(s))
}

// Geometry describes the shape of a [Mesh] node.
type Geometry struct {

	// Shape is the kind of shape.
	Shape Shapes

	// Size is the size of the shape in each dimension.
	Size math32.Vector3

	// Segments is the number of segments along each axis.
	Segments int
}

// IsZero returns whether no geometry is set.
func (g Geometry) IsZero() bool {
	return g.Shape == NoShape
}

// MaterialKinds are the shading models for [Material].
type MaterialKinds int32

const (
	NoMaterial MaterialKinds = iota

	// Standard is physically based shading.
	Standard

	// Basic is unlit flat color.
	Basic

	// Phong is classic Phong lighting.
	Phong
)

func (m MaterialKinds) String() string {
	switch m {
	case NoMaterial:
		return "NoMaterial"
	case Standard:
		return "Standard"
	case Basic:
		return "Basic"
	case Phong:
		return "Phong"
	}
	return fmt.Sprintf("MaterialKinds(%d)", int32(m))
}

// Material describes the material properties of a surface.
// Color is used for both ambient and diffuse color, and its alpha
// component is used for opacity. Emissive is only for glowing objects.
type Material struct {

	// Kind is the shading model.
	Kind MaterialKinds

	// Color is the main color of the surface.
	Color color.RGBA

	// Emissive is the color the surface emits independent of any lighting.
	Emissive color.RGBA

	// Shiny is the specular shininess factor, with 0 = very broad diffuse
	// reflection and higher values (typically up to 128) giving a smaller
	// more focal specular reflection.
	Shiny float32

	// Reflective is how much the surface shines back directional light.
	Reflective float32

	// Bright is an overall multiplier on the final computed color.
	Bright float32
}

// Defaults sets default surface parameters.
func (mt *Material) Defaults() {
	mt.Kind = Standard
	mt.Color = color.RGBA{128, 128, 128, 255}
	mt.Emissive = color.RGBA{}
	mt.Shiny = 30
	mt.Reflective = 1
	mt.Bright = 1
}

// IsZero returns whether no material is set.
func (mt Material) IsZero() bool {
	return mt.Kind == NoMaterial
}

// IsTransparent returns true if the color has alpha < 255.
func (mt Material) IsTransparent() bool {
	return mt.Color.A < 255
}

// Shadow are the shadow flags of a node.
type Shadow struct {

	// Casts is whether the node appears in shadow map passes.
	Casts bool

	// Receives is whether the node is shadowed by other nodes.
	Receives bool
}

// LightKinds are the kinds of [LightDesc].
type LightKinds int32

const (
	NoLight LightKinds = iota

	// Ambient provides diffuse uniform lighting.
	Ambient

	// Directional projects light toward Target from Pos with no
	// attenuation, like the Sun.
	Directional

	// Point is an omnidirectional light at Pos.
	Point

	// Spot is a cone of light at Pos pointing at Target.
	Spot
)

func (l LightKinds) String() string {
	switch l {
	case NoLight:
		return "NoLight"
	case Ambient:
		return "Ambient"
	case Directional:
		return "Directional"
	case Point:
		return "Point"
	case Spot:
		return "Spot"
	}
	return fmt.Sprintf("LightKinds(%d)", int32(l))
}

// LightDesc describes a [Light] node.
type LightDesc struct {

	// Kind is the kind of light.
	Kind LightKinds

	// Color is the color of the light at full intensity.
	Color color.RGBA

	// Intensity multiplies the color.
	Intensity float32

	// Pos is the position of the light; for Directional lights only
	// the direction to Target matters.
	Pos math32.Vector3

	// Target is where Directional and Spot lights point.
	Target math32.Vector3

	// Angle is the cone angle of a Spot light in radians.
	Angle float32

	// CastShadow is whether the light renders a shadow map.
	CastShadow bool

	// ShadowMapSize is the shadow map resolution in pixels.
	ShadowMapSize int
}

// IsZero returns whether no light is set.
func (ld LightDesc) IsZero() bool {
	return ld.Kind == NoLight
}

// FogDesc describes linear distance [Fog].
type FogDesc struct {

	// Color is the fog color.
	Color color.RGBA

	// Near is the distance at which fog starts.
	Near float32

	// Far is the distance at which fog is fully opaque.
	Far float32
}

// IsZero returns whether no fog is set.
func (fd FogDesc) IsZero() bool {
	return fd == FogDesc{}
}

// Amount returns the fog amount in [0, 1] at the given distance.
func (fd FogDesc) Amount(dist float32) float32 {
	if fd.Far <= fd.Near {
		return 0
	}
	return math32.Clamp((dist-fd.Near)/(fd.Far-fd.Near), 0, 1)
}

// LightColors are standard light colors for different light sources.
type LightColors int32

const (
	DirectSun LightColors = iota
	CarbonArc
	Halogen
	Tungsten100W
	Tungsten40W
	Candle
	Overcast
	FluorWarm
	FluorStd
	FluorCool
	FluorFull
	FluorGrow
	MercuryVapor
	SodiumVapor
	MetalHalide
)

// LightColorMap provides a map of named light colors.
// http://planetpixelemporium.com/tutorialpages/light.html
var LightColorMap = map[LightColors]color.RGBA{
	DirectSun:    {255, 255, 255, 255},
	CarbonArc:    {255, 250, 244, 255},
	Halogen:      {255, 241, 224, 255},
	Tungsten100W: {255, 214, 170, 255},
	Tungsten40W:  {255, 197, 143, 255},
	Candle:       {255, 147, 41, 255},
	Overcast:     {201, 226, 255, 255},
	FluorWarm:    {255, 244, 229, 255},
	FluorStd:     {244, 255, 250, 255},
	FluorCool:    {212, 235, 255, 255},
	FluorFull:    {255, 244, 242, 255},
	FluorGrow:    {255, 239, 247, 255},
	MercuryVapor: {216, 247, 255, 255},
	SodiumVapor:  {255, 209, 178, 255},
	MetalHalide:  {242, 252, 255, 255},
}
