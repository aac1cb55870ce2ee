// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import "fmt"

// Formats are the asset container formats that can be decoded.
type Formats int32

const (
	// GLTF is a JSON glTF 2.0 document.
	GLTF Formats = iota

	// GLB is a binary glTF 2.0 container.
	GLB
)

func (f Formats) String() string {
	if f == GLB {
		return "GLB"
	}
	return "GLTF"
}

// Fragment is a resolved scene fragment produced from an asset file.
// The scene graph treats it as an opaque subtree and hands it to the
// engine unchanged; it is never mutated after the handle resolves.
type Fragment struct {

	// Name is the asset path the fragment was loaded from.
	Name string

	// Format is the container format.
	Format Formats

	// Version is the declared asset format version.
	Version string

	// Generator is the tool that produced the asset, if declared.
	Generator string

	// Nodes are the nodes of the fragment, in file order.
	Nodes []FragmentNode

	// Meshes are the mesh names, in file order.
	Meshes []string

	// Roots are the indexes of the root nodes of the default scene.
	Roots []int

	// Size is the number of bytes that were decoded.
	Size int
}

// FragmentNode is one node of a [Fragment].
type FragmentNode struct {
	Name string

	// Mesh is the index into [Fragment.Meshes], or -1.
	Mesh int

	// Children are indexes into [Fragment.Nodes].
	Children []int
}

func (f *Fragment) String() string {
	return fmt.Sprintf("%s{%s %s, %d nodes, %d meshes}", f.Name, f.Format, f.Version, len(f.Nodes), len(f.Meshes))
}
