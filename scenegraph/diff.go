// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import (
	"fmt"

	"cogentcore.org/stage/base/plan"
)

// Ops are the kinds of [Patch].
type Ops int32

const (
	// Create makes the render resource for a node.
	Create Ops = iota

	// Destroy tears down the render resource for a node.
	Destroy

	UpdateTransform
	UpdateGeometry
	UpdateMaterial
	UpdateShadow
	UpdateLight
	UpdateFog

	// UpdateFragment swaps the resolved asset fragment of a placeholder.
	UpdateFragment

	// Reorder changes the order of the children of a node to the
	// order of [Patch.Node] Children. It comes after all the other
	// patches for those children.
	Reorder
)

var opNames = [...]string{"Create", "Destroy", "UpdateTransform", "UpdateGeometry", "UpdateMaterial",
	"UpdateShadow", "UpdateLight", "UpdateFog", "UpdateFragment", "Reorder"}

func (op Ops) String() string {
	if op >= 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Ops(%d)", int32(op))
}

// Patch is one change to render resources.
type Patch struct {

	// Op is the kind of change.
	Op Ops

	// Path is the slash-separated path of the node.
	Path string

	// Index is the index of the node among its siblings in the new
	// tree, for Create.
	Index int

	// Node is the node in the new tree, or the old one for Destroy.
	Node *Node
}

func (p Patch) String() string {
	return fmt.Sprintf("%v %s", p.Op, p.Path)
}

// Diff returns the patches that turn the old tree into the new one.
// Either may be nil. Nodes are matched by name at each level and
// descriptors are compared by value, so unchanged nodes produce no
// patches at all. Creates are in depth-first pre-order (parents
// first) and Destroys in post-order (children first).
// Diff does not modify either tree.
func Diff(old, new *Node) []Patch {
	var ps []Patch
	switch {
	case old == nil && new == nil:
	case old == nil:
		ps = create(ps, new.Name, 0, new)
	case new == nil:
		ps = destroy(ps, old.Name, old)
	case old.Name != new.Name:
		ps = destroy(ps, old.Name, old)
		ps = create(ps, new.Name, 0, new)
	default:
		ps = diff(ps, new.Name, 0, old, new)
	}
	return ps
}

func create(ps []Patch, path string, index int, n *Node) []Patch {
	ps = append(ps, Patch{Op: Create, Path: path, Index: index, Node: n})
	for i, c := range n.Children {
		ps = create(ps, joinPath(path, c.Name), i, c)
	}
	return ps
}

func destroy(ps []Patch, path string, n *Node) []Patch {
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]
		ps = destroy(ps, joinPath(path, c.Name), c)
	}
	return append(ps, Patch{Op: Destroy, Path: path, Node: n})
}

// diff compares two nodes with the same name and path.
func diff(ps []Patch, path string, index int, old, new *Node) []Patch {
	if old.Kind != new.Kind {
		ps = destroy(ps, path, old)
		return create(ps, path, index, new)
	}
	up := func(op Ops) {
		ps = append(ps, Patch{Op: op, Path: path, Index: index, Node: new})
	}
	if !old.sameDescriptors(new) {
		if old.Transform != new.Transform {
			up(UpdateTransform)
		}
		if old.Geometry != new.Geometry {
			up(UpdateGeometry)
		}
		if old.Material != new.Material {
			up(UpdateMaterial)
		}
		if old.Shadow != new.Shadow {
			up(UpdateShadow)
		}
		if old.Light != new.Light {
			up(UpdateLight)
		}
		if old.Fog != new.Fog {
			up(UpdateFog)
		}
		if old.Fragment != new.Fragment {
			up(UpdateFragment)
		}
	}

	eds := plan.Edits(childNames(old), childNames(new))
	moved := false
	for _, ed := range eds {
		cp := joinPath(path, ed.Name)
		switch ed.Op {
		case plan.Remove:
			ps = destroy(ps, cp, old.Children[ed.Index])
		case plan.Insert:
			ps = create(ps, cp, ed.Index, new.Children[ed.Index])
		case plan.Keep:
			moved = moved || ed.Moved
			ps = diff(ps, cp, ed.Index, old.ChildByName(ed.Name), new.Children[ed.Index])
		}
	}
	if moved {
		up(Reorder)
	}
	return ps
}

func childNames(n *Node) []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	return names
}
