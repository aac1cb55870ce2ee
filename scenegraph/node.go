// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scenegraph provides the declarative 3D scene graph: a tree of
// [Node] values rebuilt every frame from application state, a pure [Diff]
// between two trees, and a [Reconciler] that applies the resulting patches
// to render resources through a node-kind [Registry].
package scenegraph

import (
	"strings"

	"cogentcore.org/stage/asset"
	"cogentcore.org/stage/math32"
)

// Node is one element of the scene graph. Which descriptors are
// meaningful depends on Kind; see [Node.Validate].
// A node exclusively owns its Children.
type Node struct {

	// Kind is the kind of node.
	Kind Kinds

	// Name is the reconciliation key, unique among siblings.
	Name string

	// Transform is relative to the parent.
	Transform Transform

	// Geometry is the shape of a Mesh.
	Geometry Geometry

	// Material is the surface of a Mesh.
	Material Material

	// Shadow are the shadow flags.
	Shadow Shadow

	// Light describes a Light.
	Light LightDesc

	// Fog describes a Fog.
	Fog FogDesc

	// Asset is the load handle of an AssetPlaceholder.
	Asset *asset.Handle `copier:"-"`

	// Fragment is the resolved asset of an AssetPlaceholder. It is only
	// set on trees produced by [Reconciler.Reconcile], is shared
	// read-only, and is compared by identity.
	Fragment *asset.Fragment `copier:"-"`

	// Children are the ordered child nodes.
	Children []*Node `copier:"-"`
}

func newNode(kind Kinds, name string) *Node {
	n := &Node{Kind: kind, Name: name}
	n.Transform.Defaults()
	return n
}

// NewMesh returns a new Mesh node with the given geometry and material.
func NewMesh(name string, geom Geometry, mat Material) *Node {
	n := newNode(Mesh, name)
	n.Geometry = geom
	n.Material = mat
	return n
}

// NewGroup returns a new Group node with the given children.
func NewGroup(name string, children ...*Node) *Node {
	n := newNode(Group, name)
	n.Children = children
	return n
}

// NewLight returns a new Light node.
func NewLight(name string, ld LightDesc) *Node {
	n := newNode(Light, name)
	n.Light = ld
	return n
}

// NewFog returns a new Fog node.
func NewFog(name string, fd FogDesc) *Node {
	n := newNode(Fog, name)
	n.Fog = fd
	return n
}

// NewCameraRig returns a new CameraRig node.
func NewCameraRig(name string) *Node {
	return newNode(CameraRig, name)
}

// NewPlaceholder returns a new AssetPlaceholder node for the given handle.
func NewPlaceholder(name string, h *asset.Handle) *Node {
	n := newNode(AssetPlaceholder, name)
	n.Asset = h
	return n
}

// PlanName returns the name for name-keyed planning of children.
func (n *Node) PlanName() string {
	return n.Name
}

// AddChild adds the given children and returns the node.
func (n *Node) AddChild(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// SetPos sets the position and returns the node.
func (n *Node) SetPos(x, y, z float32) *Node {
	n.Transform.Pos.Set(x, y, z)
	return n
}

// SetRot sets the Euler rotation in radians and returns the node.
func (n *Node) SetRot(x, y, z float32) *Node {
	n.Transform.Rot.Set(x, y, z)
	return n
}

// SetScale sets the scale and returns the node.
func (n *Node) SetScale(s math32.Vector3) *Node {
	n.Transform.Scale = s
	return n
}

// SetShadow sets the shadow flags and returns the node.
func (n *Node) SetShadow(casts, receives bool) *Node {
	n.Shadow = Shadow{Casts: casts, Receives: receives}
	return n
}

// ChildByName returns the child with the given name, or nil.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sameDescriptors returns whether everything except children and
// identity pointers is equal.
func (n *Node) sameDescriptors(o *Node) bool {
	return n.Kind == o.Kind && n.Transform == o.Transform && n.Geometry == o.Geometry &&
		n.Material == o.Material && n.Shadow == o.Shadow && n.Light == o.Light &&
		n.Fog == o.Fog && n.Fragment == o.Fragment
}

// Walk calls fun on n and all of its descendants in depth-first
// pre-order, with the slash-separated path of each node. If fun
// returns false the children of that node are skipped.
func Walk(n *Node, fun func(path string, n *Node) bool) {
	if n == nil {
		return
	}
	walk(n.Name, n, fun)
}

func walk(path string, n *Node, fun func(path string, n *Node) bool) {
	if !fun(path, n) {
		return
	}
	for _, c := range n.Children {
		walk(joinPath(path, c.Name), c, fun)
	}
}

// Find returns the node at the given slash-separated path, which
// starts with the root name, or nil if there is none.
func Find(root *Node, path string) *Node {
	if root == nil {
		return nil
	}
	names := strings.Split(path, "/")
	if names[0] != root.Name {
		return nil
	}
	n := root
	for _, nm := range names[1:] {
		if n = n.ChildByName(nm); n == nil {
			return nil
		}
	}
	return n
}

// Count returns the number of nodes of the given kind in the tree.
func Count(root *Node, kind Kinds) int {
	c := 0
	Walk(root, func(path string, n *Node) bool {
		if n.Kind == kind {
			c++
		}
		return true
	})
	return c
}

func joinPath(parent, name string) string {
	return parent + "/" + name
}
