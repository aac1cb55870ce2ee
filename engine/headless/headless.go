// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package headless provides an [engine.Engine] that needs no GPU.
// It keeps a table of render resources, works out the shadow and
// lighting passes of each frame, and rasterizes a flat preview image.
// Import it for its side effect of registering the "headless" engine.
package headless

import (
	"fmt"
	"image"
	"path"
	"slices"
	"sync"

	"cogentcore.org/stage/base/ordmap"
	"cogentcore.org/stage/base/plan"
	"cogentcore.org/stage/engine"
	"cogentcore.org/stage/scenegraph"
)

func init() {
	engine.Register("headless", func() engine.Engine { return New() })
}

// Resource is the render resource of one scene graph node.
type Resource struct {

	// Path is the path of the node.
	Path string

	// Node is a copy of the node descriptors, without children.
	Node scenegraph.Node

	// Children are the resources of the child nodes, in render order.
	Children []*Resource

	// Updates is the number of updates applied.
	Updates int

	parent *Resource
}

// PlanName returns the node name, for ordering children.
func (r *Resource) PlanName() string {
	return path.Base(r.Path)
}

// Engine is the headless engine.
type Engine struct {
	mu         sync.Mutex
	caps       engine.Caps
	configured bool
	resources  *ordmap.Map[string, *Resource]
	creates    map[string]int
	frame      Frame
	frames     int
	img        *image.RGBA
}

// New returns a new unconfigured headless engine.
func New() *Engine {
	return &Engine{resources: ordmap.New[string, *Resource](), creates: make(map[string]int)}
}

func (e *Engine) Configure(caps engine.Caps) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.configured {
		return engine.ErrConfigured
	}
	if caps.Width <= 0 || caps.Height <= 0 {
		return fmt.Errorf("headless: invalid surface size %dx%d", caps.Width, caps.Height)
	}
	e.caps = caps
	e.configured = true
	e.img = image.NewRGBA(image.Rect(0, 0, caps.Width, caps.Height))
	return nil
}

// Caps returns the configured capabilities.
func (e *Engine) Caps() engine.Caps {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caps
}

func (e *Engine) Create(p string, n *scenegraph.Node) (scenegraph.Resource, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, has := e.resources.Get(p); has {
		return nil, fmt.Errorf("headless: resource %q already exists", p)
	}
	r := &Resource{Path: p, Node: *n}
	r.Node.Children = nil
	if par, ok := e.resources.Get(path.Dir(p)); ok {
		r.parent = par
		par.Children = append(par.Children, r)
	}
	e.resources.Set(p, r)
	e.creates[p]++
	return r, nil
}

func (e *Engine) Update(res scenegraph.Resource, n *scenegraph.Node, pt scenegraph.Patch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := res.(*Resource)
	if !ok {
		return fmt.Errorf("headless: foreign resource %T", res)
	}
	if cur, has := e.resources.Get(r.Path); !has || cur != r {
		return fmt.Errorf("headless: resource %q was destroyed", r.Path)
	}
	if pt.Op == scenegraph.Reorder {
		e.order(r, n)
		return nil
	}
	r.Node = *n
	r.Node.Children = nil
	r.Updates++
	return nil
}

// order puts the child resources of r in the order of the children of n.
func (e *Engine) order(r *Resource, n *scenegraph.Node) bool {
	var mods bool
	r.Children, mods = plan.Update(r.Children, len(n.Children),
		func(i int) string { return n.Children[i].Name },
		func(name string, i int) *Resource {
			c, _ := e.resources.Get(r.Path + "/" + name)
			return c
		}, nil)
	r.Children = slices.DeleteFunc(r.Children, func(c *Resource) bool { return c == nil })
	return mods
}

func (e *Engine) Destroy(res scenegraph.Resource) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := res.(*Resource)
	if !ok {
		return
	}
	if r.parent != nil {
		r.parent.Children = slices.DeleteFunc(r.parent.Children, func(c *Resource) bool { return c == r })
	}
	e.resources.Delete(r.Path)
}

// Len returns the number of live resources.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resources.Len()
}

// Resource returns the live resource at the given path.
func (e *Engine) Resource(p string) (*Resource, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resources.Get(p)
}

// Creates returns how many times a resource has been made for the given path.
func (e *Engine) Creates(p string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.creates[p]
}

// ChildOrder returns the names of the child resources of the given path,
// in render order.
func (e *Engine) ChildOrder(p string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.resources.Get(p)
	if !ok {
		return nil
	}
	names := make([]string, len(r.Children))
	for i, c := range r.Children {
		names[i] = c.PlanName()
	}
	return names
}
