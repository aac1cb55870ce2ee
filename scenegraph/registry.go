// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import (
	"fmt"
	"sync"
)

// Resource is an opaque render resource made by a [Renderer].
type Resource any

// Renderer is the resource side of the external engine: it makes,
// updates and tears down the render resource of each node.
type Renderer interface {

	// Create makes the resource for the given node at the given path.
	// Children are created by separate calls.
	Create(path string, n *Node) (Resource, error)

	// Update applies the given patch to the resource of the node.
	Update(res Resource, n *Node, p Patch) error

	// Destroy tears down the resource.
	Destroy(res Resource)
}

// Handler has the functions used to manage the resources of one
// kind of node. Nil functions forward to the [Renderer].
type Handler struct {
	Create  func(r Renderer, path string, n *Node) (Resource, error)
	Update  func(r Renderer, res Resource, n *Node, p Patch) error
	Destroy func(r Renderer, res Resource)
}

func (h *Handler) fill() {
	if h.Create == nil {
		h.Create = func(r Renderer, path string, n *Node) (Resource, error) { return r.Create(path, n) }
	}
	if h.Update == nil {
		h.Update = func(r Renderer, res Resource, n *Node, p Patch) error { return r.Update(res, n, p) }
	}
	if h.Destroy == nil {
		h.Destroy = func(r Renderer, res Resource) { r.Destroy(res) }
	}
}

// Registry maps node kinds to their [Handler]. It is safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Kinds]Handler
}

// NewRegistry returns a new empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Kinds]Handler)}
}

// Register sets the handler for the given kind, replacing any existing one.
func (rg *Registry) Register(kind Kinds, h Handler) {
	h.fill()
	rg.mu.Lock()
	rg.handlers[kind] = h
	rg.mu.Unlock()
}

// Handler returns the handler for the given kind.
func (rg *Registry) Handler(kind Kinds) (Handler, error) {
	rg.mu.RLock()
	h, ok := rg.handlers[kind]
	rg.mu.RUnlock()
	if !ok {
		return h, fmt.Errorf("scenegraph: no handler registered for kind %v", kind)
	}
	return h, nil
}

// Has returns whether the kind has a handler.
func (rg *Registry) Has(kind Kinds) bool {
	_, err := rg.Handler(kind)
	return err == nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry, made on first
// use with forwarding handlers for all of the built-in kinds.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for k := Mesh; k < KindsN; k++ {
			defaultRegistry.Register(k, Handler{})
		}
	})
	return defaultRegistry
}
