// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package world composes the scene: a ground plane, an interactive
// box, a loaded model, lights, fog and the camera rig. It owns the
// application state and builds the desired scene graph from it every
// frame.
package world

import (
	"image/color"
	"log/slog"
	"sync/atomic"
	"time"

	"cogentcore.org/stage/anim"
	"cogentcore.org/stage/asset"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/events"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/scenegraph"
)

// Options configure the scene.
type Options struct {

	// Model is the path of the model to load; empty for none.
	Model string `toml:"model" yaml:"model"`

	// ModelPos is the position of the model.
	ModelPos math32.Vector3 `toml:"model_pos" yaml:"model_pos"`

	// Fog is whether there is fog.
	Fog bool `toml:"fog" yaml:"fog"`

	// FogNear is the distance at which fog starts.
	FogNear float32 `toml:"fog_near" yaml:"fog_near"`

	// FogFar is the distance at which fog is opaque.
	FogFar float32 `toml:"fog_far" yaml:"fog_far"`

	// GroundSize is the edge length of the ground plane.
	GroundSize float32 `toml:"ground_size" yaml:"ground_size"`

	// ShadowMapSize is the shadow map resolution of the spot light.
	ShadowMapSize int `toml:"shadow_map_size" yaml:"shadow_map_size"`
}

// Defaults sets the default scene options.
func (o *Options) Defaults() {
	o.ModelPos = math32.Vec3(2, -1, 0)
	o.Fog = true
	o.FogNear = 10
	o.FogFar = 50
	o.GroundSize = 50
	o.ShadowMapSize = 1024
}

// World is the application state of the scene. Events may be sent
// from any goroutine; everything else runs on the render goroutine.
type World struct {
	opts   Options
	anim   *anim.Engine
	box    *Box
	loader *asset.Loader
	model  *asset.Handle
	input  events.Queue
	reload atomic.Bool
	lib    scenegraph.Library
}

// New returns a new world with the given options, starting the
// model load with the given loader, which may be nil if there is no model.
func New(opts Options, an *anim.Engine, loader *asset.Loader) (*World, error) {
	w := &World{opts: opts, anim: an, loader: loader}
	w.input.Init()
	box, err := NewBox("box", math32.Vec3(0, 0, 0), an)
	if err != nil {
		return nil, err
	}
	w.box = box
	w.lib.Add(box.Template())
	w.lib.Add(groundTemplate(opts.GroundSize))
	if opts.Model != "" && loader != nil {
		w.model = loader.Load(opts.Model)
		slog.Info("world: loading model", "path", opts.Model)
	}
	return w, nil
}

// Box returns the interactive box.
func (w *World) Box() *Box {
	return w.box
}

// Model returns the model handle, or nil.
func (w *World) Model() *asset.Handle {
	return w.model
}

// Reload drops the cached model and loads it again.
func (w *World) Reload() {
	if w.model == nil {
		return
	}
	w.loader.Forget(w.opts.Model)
	w.model = w.loader.Load(w.opts.Model)
}

// RequestReload marks the model for [World.Reload] at the next
// [World.Tick]. It is safe to call from any goroutine.
func (w *World) RequestReload() {
	w.reload.Store(true)
}

// Send buffers an event addressed to a scene element by name, to be
// handled at the next [World.Tick]. It is safe to call from any goroutine.
func (w *World) Send(ev *events.Event) {
	w.input.Send(ev)
}

// Tick handles buffered events and then advances the animations.
func (w *World) Tick(dt time.Duration) []string {
	if w.reload.Swap(false) {
		w.Reload()
	}
	w.input.Drain(func(ev *events.Event) {
		if ev.Target == w.box.Name {
			w.box.HandleEvent(ev)
		}
	})
	return w.anim.Tick(dt)
}

// Library returns the templates that [World.Build] instances.
func (w *World) Library() *scenegraph.Library {
	return &w.lib
}

// instance returns a fresh copy of a template added in [New].
func (w *World) instance(name string) *scenegraph.Node {
	n, err := w.lib.Instance(name, "")
	errors.Must(err)
	return n
}

// groundTemplate returns the ground plane, one unit below the box,
// which receives shadows but does not cast them.
func groundTemplate(size float32) *scenegraph.Node {
	mat := scenegraph.Material{}
	mat.Defaults()
	mat.Color = color.RGBA{220, 220, 220, 255}
	geom := scenegraph.Geometry{Shape: scenegraph.Plane, Size: math32.Vec3(size, 0, size)}
	return scenegraph.NewMesh("ground", geom, mat).SetPos(0, -1, 0).SetShadow(false, true)
}

// Build returns the desired scene graph for the current state.
func (w *World) Build(cam camera.State) *scenegraph.Node {
	sc := scenegraph.NewGroup("scene",
		scenegraph.NewLight("ambient", scenegraph.LightDesc{Kind: scenegraph.Ambient,
			Color: scenegraph.LightColorMap[scenegraph.Overcast], Intensity: 0.5}),
		scenegraph.NewLight("spot", scenegraph.LightDesc{Kind: scenegraph.Spot,
			Color: scenegraph.LightColorMap[scenegraph.DirectSun], Intensity: 1,
			Pos: math32.Vec3(10, 10, 10), Angle: 0.15, CastShadow: true, ShadowMapSize: w.opts.ShadowMapSize}),
		scenegraph.NewLight("point", scenegraph.LightDesc{Kind: scenegraph.Point,
			Color: scenegraph.LightColorMap[scenegraph.DirectSun], Intensity: 0.5, Pos: math32.Vec3(-10, -10, -10)}),
	)
	if w.opts.Fog {
		sc.AddChild(scenegraph.NewFog("fog", scenegraph.FogDesc{Color: color.RGBA{255, 255, 255, 255},
			Near: w.opts.FogNear, Far: w.opts.FogFar}))
	}
	rig := scenegraph.NewCameraRig("rig")
	rig.Transform.Pos = cam.Position
	sc.AddChild(rig)

	sc.AddChild(w.instance("ground"), w.box.Apply(w.instance(w.box.Name)))
	if w.model != nil {
		p := w.opts.ModelPos
		sc.AddChild(scenegraph.NewPlaceholder("model", w.model).SetPos(p.X, p.Y, p.Z).SetShadow(true, true))
	}
	return sc
}
