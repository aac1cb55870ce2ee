// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import (
	"fmt"
	"sync"

	"github.com/jinzhu/copier"
)

// Clone returns a deep copy of the node and its children.
// Asset handles and fragments are shared, not copied.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{}
	c.CopyFieldsFrom(n)
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, ch := range n.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// CopyFieldsFrom copies the descriptor fields of the given node,
// along with the shared asset handle and fragment, but not the children.
func (n *Node) CopyFieldsFrom(from *Node) {
	err := copier.CopyWithOption(n, from, copier.Option{CaseSensitive: true, DeepCopy: true})
	if err != nil {
		panic(fmt.Errorf("scenegraph.Node.CopyFieldsFrom: %w", err))
	}
	n.Asset = from.Asset
	n.Fragment = from.Fragment
}

// Library is a set of named template subtrees that can be instanced
// any number of times into a scene graph. It is safe for concurrent use.
type Library struct {
	mu    sync.RWMutex
	items map[string]*Node
}

// Add adds the given subtree to the library, using its name as the key.
// The library keeps its own copy.
func (lb *Library) Add(n *Node) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.items == nil {
		lb.items = make(map[string]*Node)
	}
	lb.items[n.Name] = n.Clone()
}

// Has returns whether there is an item with the given name.
func (lb *Library) Has(name string) bool {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	_, ok := lb.items[name]
	return ok
}

// Instance returns a clone of the named item, renamed to newName
// if that is not empty. Returns an error if the item is not found.
func (lb *Library) Instance(name, newName string) (*Node, error) {
	lb.mu.RLock()
	n, ok := lb.items[name]
	lb.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scenegraph.Library.Instance: item %q not found", name)
	}
	c := n.Clone()
	if newName != "" {
		c.Name = newName
	}
	return c, nil
}
