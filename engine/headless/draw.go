// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package headless

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"

	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/scenegraph"
	"golang.org/x/image/draw"
)

// Item is one drawn solid: a mesh or a resolved asset fragment.
type Item struct {

	// Path is the node path.
	Path string

	// Kind is Mesh or AssetPlaceholder.
	Kind scenegraph.Kinds

	// Pos is the world position.
	Pos math32.Vector3

	// Size is the world size.
	Size math32.Vector3

	// Shape is the geometry shape; fragments are drawn as a Box.
	Shape scenegraph.Shapes

	// Material is the surface.
	Material scenegraph.Material

	// Shadow are the shadow flags of the node.
	Shadow scenegraph.Shadow

	// Fragment is the name of the fragment, for AssetPlaceholder.
	Fragment string

	depth float32
}

// Frame is what the last call to Draw rendered.
type Frame struct {

	// Number is the frame number, starting at 1.
	Number int

	// Camera is the camera the frame was drawn from.
	Camera camera.State

	// Items are the solids, in tree order.
	Items []Item

	// Lights are the lights.
	Lights []scenegraph.LightDesc

	// Fog is the fog, if HasFog.
	Fog scenegraph.FogDesc

	// HasFog is whether there is a Fog node.
	HasFog bool

	// ShadowPass are the paths of the items drawn into the shadow maps.
	ShadowPass []string

	// Shadowed maps each receiving item path to the casters that shadow it.
	Shadowed map[string][]string
}

// Frame returns the last drawn frame.
func (e *Engine) Frame() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame
}

// Frames returns the number of frames drawn.
func (e *Engine) Frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *Engine) Draw(root *scenegraph.Node, cam camera.State) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.configured {
		return errors.New("headless: Draw before Configure")
	}
	e.frames++
	fr := Frame{Number: e.frames, Camera: cam, Shadowed: map[string][]string{}}
	var errs []error
	var walk func(p string, n *scenegraph.Node, pos, scale math32.Vector3)
	walk = func(p string, n *scenegraph.Node, pos, scale math32.Vector3) {
		r, ok := e.resources.Get(p)
		if !ok {
			errs = append(errs, fmt.Errorf("headless: no resource for %q", p))
			return
		}
		if len(n.Children) > 0 {
			e.order(r, n)
		}
		wpos := pos.Add(n.Transform.Pos.Mul(scale))
		wscale := scale.Mul(n.Transform.Scale)
		switch n.Kind {
		case scenegraph.Mesh:
			fr.Items = append(fr.Items, Item{Path: p, Kind: n.Kind, Pos: wpos, Size: n.Geometry.Size.Mul(wscale).Abs(),
				Shape: n.Geometry.Shape, Material: n.Material, Shadow: n.Shadow})
		case scenegraph.AssetPlaceholder:
			if n.Fragment == nil {
				break
			}
			mat := scenegraph.Material{}
			mat.Defaults()
			fr.Items = append(fr.Items, Item{Path: p, Kind: n.Kind, Pos: wpos, Size: wscale.Abs(),
				Shape: scenegraph.Box, Material: mat, Shadow: n.Shadow, Fragment: n.Fragment.Name})
		case scenegraph.Light:
			fr.Lights = append(fr.Lights, n.Light)
		case scenegraph.Fog:
			fr.Fog = n.Fog
			fr.HasFog = true
		}
		for _, c := range n.Children {
			walk(p+"/"+c.Name, c, wpos, wscale)
		}
	}
	if root != nil {
		walk(root.Name, root, math32.Vector3{}, math32.Vector3Scalar(1))
	}
	e.shadows(&fr)
	e.frame = fr
	e.rasterize(&fr)
	err := errors.Join(errs...)
	if err != nil {
		slog.Error("headless: draw", "frame", fr.Number, "err", err)
	}
	return err
}

// shadows works out the shadow map pass and which receivers each
// caster shadows. Items that do not cast are never in the pass, and
// items that do not receive are never shadowed.
func (e *Engine) shadows(fr *Frame) {
	if !e.caps.Shadows || !slices.ContainsFunc(fr.Lights, func(l scenegraph.LightDesc) bool { return l.CastShadow }) {
		return
	}
	for _, it := range fr.Items {
		if it.Shadow.Casts {
			fr.ShadowPass = append(fr.ShadowPass, it.Path)
		}
	}
	for _, rcv := range fr.Items {
		if !rcv.Shadow.Receives {
			continue
		}
		for _, cst := range fr.Items {
			if cst.Path == rcv.Path || !cst.Shadow.Casts {
				continue
			}
			if cst.Pos.Y > rcv.Pos.Y && math32.Abs(cst.Pos.X-rcv.Pos.X) <= rcv.Size.X/2 &&
				math32.Abs(cst.Pos.Z-rcv.Pos.Z) <= rcv.Size.Z/2 {
				fr.Shadowed[rcv.Path] = append(fr.Shadowed[rcv.Path], cst.Path)
			}
		}
	}
}

// rasterize draws the items as flat rectangles in far to near order.
func (e *Engine) rasterize(fr *Frame) {
	img := e.img
	bg := color.RGBA{0, 0, 0, 255}
	if fr.HasFog {
		bg = fr.Fog.Color
		bg.A = 255
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	cam := fr.Camera
	fwd := cam.Target.Sub(cam.Position).Normal()
	up := math32.Vec3(0, 1, 0)
	right := fwd.Cross(up).Normal()
	if right == (math32.Vector3{}) {
		right = math32.Vec3(1, 0, 0)
	}
	up = right.Cross(fwd)
	w, h := float32(img.Bounds().Dx()), float32(img.Bounds().Dy())
	tanHalf := math32.Tan(math32.DegToRad(cam.FOV) / 2)
	if tanHalf <= 0 {
		return
	}

	var light float32
	for _, l := range fr.Lights {
		light += l.Intensity
	}
	light = math32.Min(light, 1.5)

	items := slices.Clone(fr.Items)
	for i := range items {
		items[i].depth = items[i].Pos.Sub(cam.Position).Dot(fwd)
	}
	slices.SortStableFunc(items, func(a, b Item) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	for _, it := range items {
		if it.depth <= cam.Near {
			continue
		}
		d := it.Pos.Sub(cam.Position)
		sx := d.Dot(right) / (it.depth * tanHalf * w / h)
		sy := d.Dot(up) / (it.depth * tanHalf)
		cx, cy := (sx+1)/2*w, (1-sy)/2*h
		rad := it.Size.MaxComponent() / 2 / (it.depth * tanHalf) * h / 2
		vrad := rad
		if it.Shape == scenegraph.Plane {
			vrad = rad * math32.Abs(fwd.Y)
		}
		rect := image.Rect(int(cx-rad), int(cy-vrad), int(cx+rad)+1, int(cy+vrad)+1)

		f := light * it.Material.Bright
		if len(fr.Shadowed[it.Path]) > 0 {
			f *= 0.5
		}
		c := shade(it.Material.Color, it.Material.Emissive, f)
		if fr.HasFog {
			c = mix(c, fr.Fog.Color, fr.Fog.Amount(it.depth))
		}
		draw.Draw(img, rect, &image.Uniform{c}, image.Point{}, draw.Over)
	}
}

func shade(c, emissive color.RGBA, f float32) color.RGBA {
	ch := func(v, e uint8) uint8 {
		return uint8(math32.Clamp(float32(v)*f+float32(e), 0, 255))
	}
	return color.RGBA{ch(c.R, emissive.R), ch(c.G, emissive.G), ch(c.B, emissive.B), c.A}
}

func mix(a, b color.RGBA, t float32) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(math32.Clamp(math32.Lerp(float32(x), float32(y), t), 0, 255))
	}
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), a.A}
}

// Snapshot returns the last frame scaled to the given size,
// or at the surface size if either is zero.
func (e *Engine) Snapshot(width, height int) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.img == nil {
		return nil
	}
	if width <= 0 || height <= 0 {
		dst := image.NewRGBA(e.img.Bounds())
		draw.Copy(dst, image.Point{}, e.img, e.img.Bounds(), draw.Src, nil)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), e.img, e.img.Bounds(), draw.Src, nil)
	return dst
}
