// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scenegraph

import (
	"cmp"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"cogentcore.org/stage/asset"
	"cogentcore.org/stage/base/errors"
)

// Reconciler keeps the render resources of a scene graph in sync with
// a desired tree that is rebuilt every frame. It must only be used
// from one goroutine.
type Reconciler struct {

	// Renderer makes the render resources.
	Renderer Renderer

	// Registry has the handlers for each node kind.
	// If nil, [DefaultRegistry] is used.
	Registry *Registry

	resources map[string]entry
}

type entry struct {
	kind Kinds
	res  Resource
}

// NewReconciler returns a new [Reconciler] for the given renderer and
// registry, which may be nil for [DefaultRegistry].
func NewReconciler(r Renderer, reg *Registry) *Reconciler {
	return &Reconciler{Renderer: r, Registry: reg}
}

func (rc *Reconciler) registry() *Registry {
	if rc.Registry == nil {
		return DefaultRegistry()
	}
	return rc.Registry
}

// Resource returns the render resource for the node at the given path.
func (rc *Reconciler) Resource(path string) (Resource, bool) {
	e, ok := rc.resources[path]
	return e.res, ok
}

// Len returns the number of live render resources.
func (rc *Reconciler) Len() int {
	return len(rc.resources)
}

// Reconcile makes the render resources match the desired tree and
// returns the effective tree that was actually applied, along with
// the patches that were applied. prev must be the effective tree
// returned by the previous call, or nil on the first call.
//
// Placeholders whose asset is pending or failed are omitted from the
// effective tree, and resolved ones carry the asset fragment.
// An invalid node, or one whose resources fail to apply, is dropped
// from the effective tree along with its subtree, and the rest of the
// tree is still applied; all such errors are logged and joined into
// the returned error. Reconciling the same desired tree again yields
// no patches.
func (rc *Reconciler) Reconcile(prev, desired *Node) (*Node, []Patch, error) {
	if rc.resources == nil {
		rc.resources = make(map[string]entry)
	}
	var errs []error
	var eff *Node
	if desired != nil {
		eff = resolve(desired.Name, desired, &errs)
	}
	ps := Diff(prev, eff)
	var applied []Patch
	var failed []string
	for _, p := range ps {
		if p.Op != Destroy && underAny(p.Path, failed) {
			continue
		}
		if p.Op == Create {
			p.Index = indexIn(eff, p.Path, p.Index)
		}
		if err := rc.apply(p); err != nil {
			slog.Error("scenegraph: dropping subtree", "path", p.Path, "op", p.Op, "err", err)
			errs = append(errs, err)
			if p.Op != Destroy {
				failed = append(failed, p.Path)
				rc.destroyUnder(p.Path)
				eff = prune(eff, p.Path)
			}
			continue
		}
		applied = append(applied, p)
	}
	return eff, applied, errors.Join(errs...)
}

// Resolve returns the effective tree for the given desired tree without
// touching any resources: a copy with invalid subtrees and unresolved
// placeholders removed, and resolved placeholders carrying their fragment.
func Resolve(desired *Node) (*Node, error) {
	if desired == nil {
		return nil, nil
	}
	var errs []error
	eff := resolve(desired.Name, desired, &errs)
	return eff, errors.Join(errs...)
}

func resolve(path string, n *Node, errs *[]error) *Node {
	if err := n.Validate(path); err != nil {
		slog.Error("scenegraph: invalid node", "path", path, "err", err)
		*errs = append(*errs, err)
		return nil
	}
	c := *n
	c.Children = nil
	if n.Kind == AssetPlaceholder {
		switch n.Asset.State() {
		case asset.Resolved:
			c.Fragment = n.Asset.Fragment()
		case asset.Failed:
			slog.Debug("scenegraph: omitting failed asset", "path", path, "err", n.Asset.Err())
			return nil
		default:
			return nil
		}
		return &c
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, 0, len(n.Children))
	}
	for _, ch := range n.Children {
		if rc := resolve(joinPath(path, ch.Name), ch, errs); rc != nil {
			c.Children = append(c.Children, rc)
		}
	}
	return &c
}

func (rc *Reconciler) apply(p Patch) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scenegraph: panic applying %v: %v", p, r)
		}
	}()
	switch p.Op {
	case Create:
		h, err := rc.registry().Handler(p.Node.Kind)
		if err != nil {
			return err
		}
		if e, has := rc.resources[p.Path]; has {
			rc.destroy(p.Path, e)
		}
		res, err := h.Create(rc.Renderer, p.Path, p.Node)
		if err != nil {
			return fmt.Errorf("scenegraph: create %q: %w", p.Path, err)
		}
		rc.resources[p.Path] = entry{kind: p.Node.Kind, res: res}
	case Destroy:
		if e, has := rc.resources[p.Path]; has {
			rc.destroy(p.Path, e)
		}
	default:
		e, has := rc.resources[p.Path]
		if !has {
			return fmt.Errorf("scenegraph: %v: no resource for %q", p.Op, p.Path)
		}
		h, err := rc.registry().Handler(e.kind)
		if err != nil {
			return err
		}
		if err := h.Update(rc.Renderer, e.res, p.Node, p); err != nil {
			return fmt.Errorf("scenegraph: %v %q: %w", p.Op, p.Path, err)
		}
	}
	return nil
}

func (rc *Reconciler) destroy(path string, e entry) {
	delete(rc.resources, path)
	h, err := rc.registry().Handler(e.kind)
	if err != nil {
		rc.Renderer.Destroy(e.res)
		return
	}
	h.Destroy(rc.Renderer, e.res)
}

// destroyUnder destroys the resources at and below the given path,
// deepest first.
func (rc *Reconciler) destroyUnder(p string) {
	var paths []string
	for rp := range rc.resources {
		if underAny(rp, []string{p}) {
			paths = append(paths, rp)
		}
	}
	slices.SortFunc(paths, func(a, b string) int {
		return cmp.Compare(strings.Count(b, "/"), strings.Count(a, "/"))
	})
	for _, rp := range paths {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("scenegraph: panic in destroy", "path", rp, "panic", r)
				}
			}()
			rc.destroy(rp, rc.resources[rp])
		}()
	}
}

func underAny(p string, roots []string) bool {
	for _, r := range roots {
		if p == r || strings.HasPrefix(p, r+"/") {
			return true
		}
	}
	return false
}

// prune removes the node at the given path from the tree.
func prune(root *Node, p string) *Node {
	if root == nil || p == root.Name {
		return nil
	}
	parent := Find(root, path.Dir(p))
	if parent == nil {
		return root
	}
	name := path.Base(p)
	parent.Children = slices.DeleteFunc(parent.Children, func(c *Node) bool { return c.Name == name })
	return root
}

// indexIn returns the current index of the node at the given path
// among its siblings.
func indexIn(root *Node, p string, def int) int {
	if p == root.Name {
		return 0
	}
	parent := Find(root, path.Dir(p))
	if parent == nil {
		return def
	}
	name := path.Base(p)
	if i := slices.IndexFunc(parent.Children, func(c *Node) bool { return c.Name == name }); i >= 0 {
		return i
	}
	return def
}
