// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package world

import (
	"context"
	"os"
	"testing"
	"time"

	"cogentcore.org/stage/anim"
	"cogentcore.org/stage/asset"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/engine"
	"cogentcore.org/stage/engine/headless"
	"cogentcore.org/stage/events"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/scenegraph"
	"cogentcore.org/stage/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

func newAnim() *anim.Engine {
	opts := anim.Options{}
	opts.Defaults()
	return anim.New(opts)
}

func TestHoverActive(t *testing.T) {
	an := newAnim()
	b, err := NewBox("box", math32.Vector3{}, an)
	require.NoError(t, err)
	assert.Equal(t, math32.Vector3Scalar(1), b.Scale())
	assert.Equal(t, Orange, b.Color())

	require.NoError(t, b.SetHover(true))
	require.NoError(t, b.SetActive(true))
	assert.Equal(t, anim.Vector3Value(math32.Vec3(1.5, 1.5, 1.5)), an.Target("box.scale"))
	assert.Equal(t, anim.ColorValue(Red), an.Target("box.color"))

	for range 120 {
		an.Tick(frame)
	}
	s := b.Scale()
	assert.InDelta(t, 1.5, s.X, 0.001)
	assert.InDelta(t, 1.5, s.Y, 0.001)
	assert.InDelta(t, 1.5, s.Z, 0.001)
	assert.Equal(t, Red, b.Color())
	assert.False(t, an.Animating())

	n := b.Node()
	assert.Equal(t, Red, n.Material.Color)
	assert.Equal(t, scenegraph.Shadow{Casts: true}, n.Shadow)
	assert.NoError(t, n.Validate("box"))
}

func TestDuplicateBox(t *testing.T) {
	an := newAnim()
	_, err := NewBox("box", math32.Vector3{}, an)
	require.NoError(t, err)
	_, err = NewBox("box", math32.Vector3{}, an)
	var ce *anim.ConfigurationError
	assert.ErrorAs(t, err, &ce)
}

func TestEvents(t *testing.T) {
	w, err := New(Options{}, newAnim(), nil)
	require.NoError(t, err)
	var seen []events.Types
	w.Box().Listeners.Add(events.MouseUp, func(ev *events.Event) { seen = append(seen, ev.Type()) })

	w.Send(events.NewTargeted(events.MouseEnter, "box"))
	w.Send(events.NewTargeted(events.MouseUp, "box"))
	w.Send(events.NewTargeted(events.MouseUp, "ground"))
	assert.Equal(t, Interaction{}, w.Box().Interaction(), "events wait for Tick")

	changed := w.Tick(frame)
	assert.Equal(t, Interaction{Hover: true, Active: true}, w.Box().Interaction())
	assert.ElementsMatch(t, []string{"box.scale", "box.color"}, changed)
	assert.Equal(t, []events.Types{events.MouseUp}, seen)

	w.Send(events.NewTargeted(events.MouseLeave, "box"))
	w.Send(events.NewTargeted(events.MouseUp, "box"))
	w.Tick(frame)
	assert.Equal(t, Interaction{}, w.Box().Interaction())
}

func TestBuild(t *testing.T) {
	opts := Options{}
	opts.Defaults()
	w, err := New(opts, newAnim(), nil)
	require.NoError(t, err)
	cam := camera.State{}
	cam.Defaults()
	sc := w.Build(cam)
	require.NoError(t, scenegraph.ValidateTree(sc))
	assert.Equal(t, 3, scenegraph.Count(sc, scenegraph.Light))
	assert.Equal(t, 1, scenegraph.Count(sc, scenegraph.Fog))
	assert.Equal(t, 2, scenegraph.Count(sc, scenegraph.Mesh))
	assert.Equal(t, 0, scenegraph.Count(sc, scenegraph.AssetPlaceholder))
	assert.Equal(t, cam.Position, scenegraph.Find(sc, "scene/rig").Transform.Pos)
	assert.Equal(t, scenegraph.Shadow{Receives: true}, sc.ChildByName("ground").Shadow)
	assert.Empty(t, scenegraph.Diff(sc, w.Build(cam)), "same state builds the same tree")

	opts.Fog = false
	w, err = New(opts, newAnim(), nil)
	require.NoError(t, err)
	assert.Nil(t, w.Build(cam).ChildByName("fog"))
}

func TestBuildFromLibrary(t *testing.T) {
	opts := Options{}
	opts.Defaults()
	opts.GroundSize = 20
	w, err := New(opts, newAnim(), nil)
	require.NoError(t, err)
	assert.True(t, w.Library().Has("box"))
	assert.True(t, w.Library().Has("ground"))

	cam := camera.State{}
	cam.Defaults()
	require.NoError(t, w.Box().SetActive(true))
	for range 120 {
		w.Tick(frame)
	}
	first := w.Build(cam)
	box := first.ChildByName("box")
	assert.Equal(t, Red, box.Material.Color)
	assert.Equal(t, scenegraph.Shadow{Casts: true}, box.Shadow)
	assert.Equal(t, math32.Vec3(20, 0, 20), first.ChildByName("ground").Geometry.Size)

	box.Material.Color = Orange
	first.ChildByName("ground").SetPos(5, 5, 5)
	second := w.Build(cam)
	assert.Equal(t, Red, second.ChildByName("box").Material.Color, "instances do not share state")
	assert.Equal(t, math32.Vec3(0, -1, 0), second.ChildByName("ground").Transform.Pos)

	tmpl, err := w.Library().Instance("box", "")
	require.NoError(t, err)
	assert.Equal(t, Orange, tmpl.Material.Color, "templates hold the resting color")
}

// TestFrames runs the whole frame loop over the headless engine,
// loading the model from the asset test data.
func TestFrames(t *testing.T) {
	ld := asset.NewLoader(&asset.FileFetcher{FS: os.DirFS("../asset/testdata")})
	opts := Options{}
	opts.Defaults()
	opts.Model = "duck.gltf"
	w, err := New(opts, newAnim(), ld)
	require.NoError(t, err)

	eng := headless.New()
	caps := engine.Caps{}
	caps.Defaults()
	caps.Width, caps.Height = 320, 180
	require.NoError(t, eng.Configure(caps))

	cs := camera.State{}
	cs.Defaults()
	cs.MinPolar, cs.MaxPolar = math32.Pi/3, math32.Pi/3
	cam := camera.NewController(cs, camera.Options{AutoRotate: true, AutoRotateSpeed: 1, Height: caps.Height})

	s := scheduler.New(cam, w, w.Build, scenegraph.NewReconciler(eng, nil), eng, scheduler.Options{})
	require.NoError(t, s.Step(frame))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = w.Model().Wait(ctx)
	require.NoError(t, err)

	w.Send(events.NewTargeted(events.MouseEnter, "box"))
	for range 90 {
		require.NoError(t, s.Step(frame))
	}
	tree := s.Tree()
	model := tree.ChildByName("model")
	require.NotNil(t, model)
	assert.Equal(t, "duck.gltf", model.Fragment.Name)
	assert.InDelta(t, 1.5, tree.ChildByName("box").Transform.Scale.X, 0.001)
	assert.Equal(t, float32(math32.Pi/3), cam.State().Polar)
	assert.Equal(t, 1, eng.Creates("scene/box"))
	assert.Equal(t, 1, eng.Creates("scene/model"))
	assert.Contains(t, eng.Frame().ShadowPass, "scene/box")
	assert.Contains(t, eng.Frame().Shadowed["scene/ground"], "scene/box")
	assert.Equal(t, 91, s.Stats().Frames)
}

func TestRequestReload(t *testing.T) {
	ff, err := asset.NewFileFetcher("../asset/testdata")
	require.NoError(t, err)
	ld := asset.NewLoader(ff)
	opts := Options{}
	opts.Defaults()
	opts.Model = "duck.gltf"
	w, err := New(opts, newAnim(), ld)
	require.NoError(t, err)
	first := w.Model()
	_, err = first.Wait(context.Background())
	require.NoError(t, err)

	w.Tick(time.Millisecond)
	assert.Same(t, first, w.Model())

	w.RequestReload()
	w.Tick(time.Millisecond)
	assert.NotSame(t, first, w.Model())
	_, err = w.Model().Wait(context.Background())
	assert.NoError(t, err)
}
