// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import "fmt"

// Kinds are the kinds of scene graph [Node]. Additional kinds
// may be defined starting at [KindsN] and given handlers with
// [Registry.Register].
type Kinds int32

const (
	// UnknownKind is the zero value; nodes of this kind are invalid.
	UnknownKind Kinds = iota

	// Mesh is a renderable solid with one geometry and one material.
	Mesh

	// Light illuminates the scene.
	Light

	// Fog is scene-wide distance fog.
	Fog

	// Group only routes its children, applying its transform to them.
	Group

	// CameraRig is the orbit camera rig; its transform is set from
	// the camera state each frame.
	CameraRig

	// AssetPlaceholder stands in for a loaded asset fragment. It renders
	// nothing until the asset resolves.
	AssetPlaceholder

	// KindsN is the number of built-in kinds.
	KindsN
)

var kindNames = [...]string{"UnknownKind", "Mesh", "Light", "Fog", "Group", "CameraRig", "AssetPlaceholder"}

func (k Kinds) String() string {
	if k >= 0 && k < KindsN {
		return kindNames[k]
	}
	return fmt.Sprintf("Kinds(%d)", int32(k))
}
