// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import (
	"fmt"
	"strings"
)

// ValidationError is returned for a node that violates the
// structural rules of its kind.
type ValidationError struct {

	// Path is the path of the offending node.
	Path string

	// Reason describes the violation.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenegraph: invalid node %q: %s", e.Path, e.Reason)
}

// Validate checks the structural rules of this node alone, using
// the given path in any error:
//   - a Mesh has a geometry and a material,
//   - Group, CameraRig, Fog and Light nodes have neither,
//   - a Light has a light descriptor and a Fog a fog descriptor,
//   - an AssetPlaceholder has a handle and no children,
//   - names are not empty, contain no '/', and are unique among siblings.
func (n *Node) Validate(path string) error {
	fail := func(format string, args ...any) error {
		return &ValidationError{Path: path, Reason: fmt.Sprintf(format, args...)}
	}
	if n.Name == "" {
		return fail("empty name")
	}
	if strings.Contains(n.Name, "/") {
		return fail("name contains '/'")
	}
	hasSurface := !n.Geometry.IsZero() || !n.Material.IsZero()
	switch n.Kind {
	case Mesh:
		if n.Geometry.IsZero() {
			return fail("Mesh has no geometry")
		}
		if n.Material.IsZero() {
			return fail("Mesh has no material")
		}
	case Group, CameraRig:
		if hasSurface {
			return fail("%v has geometry or material", n.Kind)
		}
	case Light:
		if hasSurface {
			return fail("Light has geometry or material")
		}
		if n.Light.IsZero() {
			return fail("Light has no light descriptor")
		}
	case Fog:
		if hasSurface {
			return fail("Fog has geometry or material")
		}
		if n.Fog.Far <= n.Fog.Near {
			return fail("Fog far %g <= near %g", n.Fog.Far, n.Fog.Near)
		}
	case AssetPlaceholder:
		if n.Asset == nil {
			return fail("AssetPlaceholder has no asset handle")
		}
		if len(n.Children) > 0 {
			return fail("AssetPlaceholder has children")
		}
	case UnknownKind:
		return fail("unknown kind")
	}
	names := make(map[string]struct{}, len(n.Children))
	for _, c := range n.Children {
		if c == nil {
			return fail("nil child")
		}
		if _, has := names[c.Name]; has {
			return fail("duplicate child name %q", c.Name)
		}
		names[c.Name] = struct{}{}
	}
	return nil
}

// ValidateTree validates every node in the tree, returning the first error.
func ValidateTree(root *Node) error {
	var err error
	Walk(root, func(path string, n *Node) bool {
		if err != nil {
			return false
		}
		err = n.Validate(path)
		return err == nil
	})
	return err
}
