// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine defines the interface to the external 3D engine
// that owns render resources and draws frames, and a registry of
// named engine implementations.
package engine

import (
	"fmt"
	"slices"
	"sync"

	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/scenegraph"
)

// ShadowTypes are the shadow map filtering modes.
type ShadowTypes int32

const (
	// BasicShadows is unfiltered shadow mapping.
	BasicShadows ShadowTypes = iota

	// PCFShadows filters shadow maps with percentage closer filtering.
	PCFShadows

	// PCFSoftShadows is PCF with softer edges.
	PCFSoftShadows
)

func (st ShadowTypes) String() string {
	switch st {
	case BasicShadows:
		return "Basic"
	case PCFShadows:
		return "PCF"
	case PCFSoftShadows:
		return "PCFSoft"
	}
	return fmt.Sprintf("ShadowTypes(%d)", int32(st))
}

// Caps are the renderer capabilities configured once when the
// presentation surface is made.
type Caps struct {

	// Shadows is whether shadow mapping is enabled.
	Shadows bool

	// ShadowType is the shadow map filtering mode.
	ShadowType ShadowTypes

	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int
}

// Defaults sets the default capabilities: soft shadows on a 1280x720 surface.
func (c *Caps) Defaults() {
	c.Shadows = true
	c.ShadowType = PCFSoftShadows
	c.Width = 1280
	c.Height = 720
}

// ErrConfigured is returned by Configure when it is called more than once.
var ErrConfigured = errors.New("engine: already configured")

// Engine is the external 3D engine. Configure is called once before
// anything else. The resource methods are driven by a
// [scenegraph.Reconciler], and Draw is called once per frame with the
// effective tree.
type Engine interface {
	scenegraph.Renderer

	// Configure sets the capabilities. It returns [ErrConfigured] if
	// called more than once.
	Configure(caps Caps) error

	// Draw renders one frame of the given tree from the given camera,
	// honoring shadow flags and fog.
	Draw(root *scenegraph.Node, cam camera.State) error
}

// Factory makes a new [Engine].
type Factory func() Engine

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register makes an engine available by the given name.
// It panics if the name is already registered.
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := factories[name]; dup {
		panic("engine: Register called twice for " + name)
	}
	factories[name] = f
}

// New returns a new engine of the given registered name.
func New(name string) (Engine, error) {
	factoriesMu.RLock()
	f, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("engine: unknown engine %q (forgotten import?)", name)
	}
	return f(), nil
}

// Names returns the sorted names of the registered engines.
func Names() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for nm := range factories {
		names = append(names, nm)
	}
	slices.Sort(names)
	return names
}
