// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"strings"
	"testing"
	"time"

	"cogentcore.org/stage/asset"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a [Renderer] that records what it is asked to do.
type recorder struct {
	live    map[string]*Node
	creates map[string]int
	calls   []string
	fail    map[string]bool
}

type res struct{ path string }

func newRecorder() *recorder {
	return &recorder{live: map[string]*Node{}, creates: map[string]int{}, fail: map[string]bool{}}
}

func (r *recorder) Create(path string, n *Node) (Resource, error) {
	if r.fail[path] {
		return nil, fmt.Errorf("no resources for %s", path)
	}
	r.live[path] = n
	r.creates[path]++
	r.calls = append(r.calls, "Create "+path)
	return &res{path: path}, nil
}

func (r *recorder) Update(rs Resource, n *Node, p Patch) error {
	path := rs.(*res).path
	if r.fail[path] {
		return fmt.Errorf("cannot update %s", path)
	}
	r.live[path] = n
	r.calls = append(r.calls, p.String())
	return nil
}

func (r *recorder) Destroy(rs Resource) {
	path := rs.(*res).path
	delete(r.live, path)
	r.calls = append(r.calls, "Destroy "+path)
}

func orange() color.RGBA { return color.RGBA{255, 165, 0, 255} }

func box(name string) *Node {
	mat := Material{}
	mat.Defaults()
	mat.Color = orange()
	return NewMesh(name, Geometry{Shape: Box, Size: math32.Vec3(1, 1, 1)}, mat).SetShadow(true, false)
}

func ground() *Node {
	mat := Material{}
	mat.Defaults()
	return NewMesh("ground", Geometry{Shape: Plane, Size: math32.Vec3(10, 0, 10)}, mat).
		SetRot(-math32.Pi/2, 0, 0).SetShadow(false, true)
}

func scene(extra ...*Node) *Node {
	sc := NewGroup("scene",
		NewLight("sun", LightDesc{Kind: Directional, Color: LightColorMap[DirectSun], Intensity: 1, Pos: math32.Vec3(0, 5, 5), CastShadow: true}),
		NewFog("fog", FogDesc{Color: color.RGBA{255, 255, 255, 255}, Near: 10, Far: 50}),
		ground(),
		box("box"),
	)
	return sc.AddChild(extra...)
}

func ops(ps []Patch) []string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = p.String()
	}
	return s
}

func TestDiffCreateAndDestroy(t *testing.T) {
	sc := scene(NewGroup("grp", box("a"), box("b")))
	ps := Diff(nil, sc)
	assert.Equal(t, []string{"Create scene", "Create scene/sun", "Create scene/fog", "Create scene/ground",
		"Create scene/box", "Create scene/grp", "Create scene/grp/a", "Create scene/grp/b"}, ops(ps))
	assert.Equal(t, 4, ps[5].Index)
	assert.Equal(t, 0, ps[6].Index)
	assert.Equal(t, 1, ps[7].Index)

	ps = Diff(sc, nil)
	assert.Equal(t, []string{"Destroy scene/grp/b", "Destroy scene/grp/a", "Destroy scene/grp", "Destroy scene/box",
		"Destroy scene/ground", "Destroy scene/fog", "Destroy scene/sun", "Destroy scene"}, ops(ps))
	assert.Empty(t, Diff(nil, nil))
}

func TestDiffByValue(t *testing.T) {
	a := scene()
	b := scene()
	assert.Empty(t, Diff(a, b), "separately built equal trees")
	assert.Empty(t, Diff(a, a.Clone()))

	b.ChildByName("box").Material.Color = color.RGBA{255, 0, 0, 255}
	b.ChildByName("box").SetScale(math32.Vector3Scalar(1.5))
	b.ChildByName("ground").SetShadow(false, false)
	b.ChildByName("fog").Fog.Far = 80
	b.ChildByName("sun").Light.Intensity = 0.5
	assert.Equal(t, []string{"UpdateLight scene/sun", "UpdateFog scene/fog", "UpdateShadow scene/ground",
		"UpdateTransform scene/box", "UpdateMaterial scene/box"}, ops(Diff(a, b)))

	c := scene()
	c.ChildByName("box").Geometry.Shape = Sphere
	assert.Equal(t, []string{"UpdateGeometry scene/box"}, ops(Diff(a, c)))
}

func TestSameDescriptors(t *testing.T) {
	a := scene().ChildByName("box")
	b := a.Clone()
	assert.True(t, a.sameDescriptors(b))
	b.AddChild(NewGroup("extra"))
	assert.True(t, a.sameDescriptors(b), "children are compared separately")

	for _, change := range []func(n *Node){
		func(n *Node) { n.SetPos(1, 2, 3) },
		func(n *Node) { n.Geometry.Segments = 9 },
		func(n *Node) { n.Material.Shiny = 1 },
		func(n *Node) { n.SetShadow(false, true) },
		func(n *Node) { n.Light.Intensity = 2 },
		func(n *Node) { n.Fog.Far = 3 },
		func(n *Node) { n.Kind = Group },
	} {
		c := a.Clone()
		change(c)
		assert.False(t, a.sameDescriptors(c))
	}
}

func TestDiffChildren(t *testing.T) {
	old := NewGroup("g", box("a"), box("b"), box("c"))
	nw := NewGroup("g", box("c"), box("x"), box("a"))
	assert.Equal(t, []string{"Destroy g/b", "Create g/x", "Reorder g"}, ops(Diff(old, nw)))

	// inserts and removes alone do not need a reorder
	nw = NewGroup("g", box("a"), box("x"), box("c"))
	assert.Equal(t, []string{"Destroy g/b", "Create g/x"}, ops(Diff(old, nw)))

	// kind change at the same name recreates
	nw = NewGroup("g", box("a"), NewGroup("b"), box("c"))
	assert.Equal(t, []string{"Destroy g/b", "Create g/b"}, ops(Diff(old, nw)))

	// root rename recreates everything
	nw = NewGroup("h", box("a"))
	assert.Equal(t, []string{"Destroy g/c", "Destroy g/b", "Destroy g/a", "Destroy g", "Create h", "Create h/a"}, ops(Diff(old, nw)))
}

func TestDiffIsPure(t *testing.T) {
	old := scene()
	nw := scene(box("extra"))
	before := old.Clone()
	Diff(old, nw)
	assert.Empty(t, Diff(before, old))
	assert.Len(t, nw.Children, 5)
}

func TestReconcileIdempotent(t *testing.T) {
	r := newRecorder()
	rc := NewReconciler(r, nil)
	eff, ps, err := rc.Reconcile(nil, scene())
	require.NoError(t, err)
	assert.Len(t, ps, 5)
	assert.Equal(t, 5, rc.Len())

	eff2, ps, err := rc.Reconcile(eff, scene())
	require.NoError(t, err)
	assert.Empty(t, ps)
	assert.Empty(t, Diff(eff, eff2))
	for path, n := range r.creates {
		assert.Equal(t, 1, n, path)
	}

	// one change, one update, no recreation
	sc := scene()
	sc.ChildByName("box").Material.Color = color.RGBA{255, 0, 0, 255}
	_, ps, err = rc.Reconcile(eff2, sc)
	require.NoError(t, err)
	assert.Equal(t, []string{"UpdateMaterial scene/box"}, ops(ps))
	assert.Equal(t, 1, r.creates["scene/box"])
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, r.live["scene/box"].Material.Color)
}

func TestReconcileDoesNotModifyDesired(t *testing.T) {
	rc := NewReconciler(newRecorder(), nil)
	desired := scene(NewMesh("bad", Geometry{Shape: Box}, Material{}))
	_, _, err := rc.Reconcile(nil, desired)
	assert.Error(t, err)
	assert.Len(t, desired.Children, 5)
}

func TestShadowFlagsPropagate(t *testing.T) {
	r := newRecorder()
	rc := NewReconciler(r, nil)
	_, _, err := rc.Reconcile(nil, scene())
	require.NoError(t, err)
	assert.Equal(t, Shadow{Casts: true, Receives: false}, r.live["scene/box"].Shadow)
	assert.Equal(t, Shadow{Casts: false, Receives: true}, r.live["scene/ground"].Shadow)
}

func TestReconcilePlaceholder(t *testing.T) {
	ld := asset.NewLoader(&asset.FileFetcher{FS: os.DirFS("../asset/testdata")})
	h := ld.Load("duck.gltf")

	r := newRecorder()
	rc := NewReconciler(r, nil)
	pending := scene(NewPlaceholder("model", h))
	eff, _, err := rc.Reconcile(nil, pending)
	require.NoError(t, err)
	if h.State() == asset.Pending {
		assert.Nil(t, eff.ChildByName("model"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	frag, err := h.Wait(ctx)
	require.NoError(t, err)

	eff, _, err = rc.Reconcile(eff, scene(NewPlaceholder("model", h)))
	require.NoError(t, err)
	assert.Equal(t, 1, Count(eff, AssetPlaceholder))
	model := eff.ChildByName("model")
	require.NotNil(t, model)
	assert.Same(t, frag, model.Fragment)
	assert.Same(t, frag, r.live["scene/model"].Fragment)
	assert.Equal(t, 1, r.creates["scene/model"])

	_, ps, err := rc.Reconcile(eff, scene(NewPlaceholder("model", h)))
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestReconcileFailedAsset(t *testing.T) {
	ld := asset.NewLoader(asset.FetcherFunc(func(ctx context.Context, path string) ([]byte, error) {
		return nil, fmt.Errorf("connection refused")
	}))
	h := ld.Load("duck.gltf")
	ld.Wait()
	require.Equal(t, asset.Failed, h.State())

	rc := NewReconciler(newRecorder(), nil)
	eff, _, err := rc.Reconcile(nil, scene(NewPlaceholder("model", h)))
	require.NoError(t, err)
	assert.Nil(t, eff.ChildByName("model"))
	assert.Equal(t, 0, Count(eff, AssetPlaceholder))
	assert.NotNil(t, eff.ChildByName("box"))
}

func TestReconcileFailureIsolation(t *testing.T) {
	r := newRecorder()
	r.fail["scene/grp"] = true
	rc := NewReconciler(r, nil)
	eff, _, err := rc.Reconcile(nil, scene(NewGroup("grp", box("a")), box("after")))
	require.Error(t, err)
	assert.Nil(t, eff.ChildByName("grp"))
	assert.NotNil(t, eff.ChildByName("after"))
	assert.NotContains(t, r.live, "scene/grp/a")
	assert.Contains(t, r.live, "scene/after")

	// the next frame retries
	delete(r.fail, "scene/grp")
	eff, ps, err := rc.Reconcile(eff, scene(NewGroup("grp", box("a")), box("after")))
	require.NoError(t, err)
	assert.Equal(t, []string{"Create scene/grp", "Create scene/grp/a"}, ops(ps))
	assert.Equal(t, 4, ps[0].Index)
	assert.NotNil(t, Find(eff, "scene/grp/a"))

	// a failing update drops the subtree and its resources
	r.fail["scene/grp"] = true
	sc := scene(NewGroup("grp", box("a")).SetPos(1, 0, 0), box("after"))
	eff, _, err = rc.Reconcile(eff, sc)
	require.Error(t, err)
	assert.Nil(t, eff.ChildByName("grp"))
	assert.NotContains(t, r.live, "scene/grp/a")
	_, has := rc.Resource("scene/grp/a")
	assert.False(t, has)
}

func TestReconcilePanicIsolated(t *testing.T) {
	reg := NewRegistry()
	for k := Mesh; k < KindsN; k++ {
		reg.Register(k, Handler{})
	}
	reg.Register(Light, Handler{Create: func(r Renderer, path string, n *Node) (Resource, error) {
		panic("bad light")
	}})
	rc := NewReconciler(newRecorder(), reg)
	eff, _, err := rc.Reconcile(nil, scene())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad light")
	assert.Nil(t, eff.ChildByName("sun"))
	assert.NotNil(t, eff.ChildByName("box"))
}

func TestReconcileInvalid(t *testing.T) {
	rc := NewReconciler(newRecorder(), nil)
	eff, _, err := rc.Reconcile(nil, scene(NewMesh("nomat", Geometry{Shape: Box}, Material{})))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "scene/nomat", ve.Path)
	assert.Nil(t, eff.ChildByName("nomat"))
	assert.Len(t, eff.Children, 4)
}

func TestValidate(t *testing.T) {
	h := asset.NewResolved("m.gltf", &asset.Fragment{})
	mat := Material{}
	mat.Defaults()
	tests := []struct {
		node   *Node
		reason string
	}{
		{box("ok"), ""},
		{NewMesh("m", Geometry{}, mat), "no geometry"},
		{NewMesh("", Geometry{Shape: Box}, mat), "empty name"},
		{NewMesh("a/b", Geometry{Shape: Box}, mat), "'/'"},
		{&Node{Kind: Group, Name: "g", Material: mat}, "geometry or material"},
		{NewLight("l", LightDesc{}), "no light descriptor"},
		{NewFog("f", FogDesc{Near: 5, Far: 1}), "far"},
		{NewPlaceholder("p", nil), "no asset handle"},
		{NewPlaceholder("p", h).AddChild(box("c")), "has children"},
		{NewGroup("g", box("a"), box("a")), "duplicate"},
		{&Node{Name: "u"}, "unknown kind"},
		{NewCameraRig("rig"), ""},
	}
	for _, test := range tests {
		err := test.node.Validate("x")
		if test.reason == "" {
			assert.NoError(t, err)
			continue
		}
		if assert.Error(t, err, test.reason) {
			assert.True(t, strings.Contains(err.Error(), test.reason), err.Error())
		}
	}
	assert.NoError(t, ValidateTree(scene()))
}

func TestRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
	assert.True(t, DefaultRegistry().Has(CameraRig))
	assert.False(t, DefaultRegistry().Has(UnknownKind))

	const Billboard = KindsN + 1
	assert.Equal(t, "Kinds(8)", Billboard.String())
	made := 0
	reg := NewRegistry()
	reg.Register(Group, Handler{})
	reg.Register(Billboard, Handler{Create: func(r Renderer, path string, n *Node) (Resource, error) {
		made++
		return r.Create(path, n)
	}})
	r := newRecorder()
	rc := NewReconciler(r, reg)
	root := NewGroup("root", &Node{Kind: Billboard, Name: "bb"}, box("unregistered"))
	root.Children[0].Transform.Defaults()
	eff, _, err := rc.Reconcile(nil, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered for kind Mesh")
	assert.Equal(t, 1, made)
	assert.NotNil(t, eff.ChildByName("bb"))
	assert.Nil(t, eff.ChildByName("unregistered"))
}

func TestLibrary(t *testing.T) {
	h := asset.NewResolved("m.gltf", &asset.Fragment{Name: "m"})
	lib := &Library{}
	lib.Add(NewGroup("tree", box("trunk"), NewPlaceholder("leaves", h)))
	assert.True(t, lib.Has("tree"))

	a, err := lib.Instance("tree", "tree1")
	require.NoError(t, err)
	b, err := lib.Instance("tree", "")
	require.NoError(t, err)
	assert.Equal(t, "tree1", a.Name)
	assert.Equal(t, "tree", b.Name)

	a.ChildByName("trunk").Material.Color = color.RGBA{1, 2, 3, 255}
	a.ChildByName("trunk").SetPos(5, 0, 0)
	assert.Equal(t, orange(), b.ChildByName("trunk").Material.Color)
	assert.Equal(t, math32.Vector3{}, b.ChildByName("trunk").Transform.Pos)
	assert.Same(t, h, a.ChildByName("leaves").Asset)
	assert.Same(t, h, b.ChildByName("leaves").Asset)

	_, err = lib.Instance("nope", "")
	assert.Error(t, err)
}

func TestWalkFindCount(t *testing.T) {
	sc := scene(NewGroup("grp", box("a"), NewGroup("inner", box("b"))))
	var paths []string
	Walk(sc, func(path string, n *Node) bool {
		paths = append(paths, path)
		return n.Name != "inner"
	})
	assert.Equal(t, []string{"scene", "scene/sun", "scene/fog", "scene/ground", "scene/box",
		"scene/grp", "scene/grp/a", "scene/grp/inner"}, paths)
	assert.Equal(t, "b", Find(sc, "scene/grp/inner/b").Name)
	assert.Nil(t, Find(sc, "scene/grp/zz"))
	assert.Nil(t, Find(sc, "other/grp"))
	assert.Equal(t, 4, Count(sc, Mesh))
	assert.Equal(t, 3, Count(sc, Group))
}
