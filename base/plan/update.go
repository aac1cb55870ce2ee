// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan computes the minimal edits that turn one list of
// uniquely named elements into another, and applies them to slices.
// The scene graph diff uses it to match the children of a node
// across frames by name.
package plan

// Namer is implemented by elements that have a unique name in a plan.
type Namer interface {
	PlanName() string
}

// Update returns the slice rearranged to hold, in order, the n
// elements named by name, following the [Edits] between the current
// and target names. Existing elements are kept by name, new is called
// for each missing name at its final index, and destroy, if non-nil,
// is called on each element that is removed. When nothing changes,
// the slice is returned as is with mods false.
func Update[T Namer](s []T, n int, name func(i int) string, new func(name string, i int) T, destroy func(e T)) (r []T, mods bool) {
	target := make([]string, n)
	for i := range n {
		target[i] = name(i)
	}
	current := make([]string, len(s))
	byName := make(map[string]T, len(s))
	for i, e := range s {
		current[i] = e.PlanName()
		byName[current[i]] = e
	}
	eds := Edits(current, target)
	if !Changed(eds) {
		return s, false
	}
	r = make([]T, 0, n)
	for _, ed := range eds {
		switch ed.Op {
		case Remove:
			if destroy != nil {
				destroy(s[ed.Index])
			}
		case Insert:
			r = append(r, new(ed.Name, ed.Index))
		case Keep:
			r = append(r, byName[ed.Name])
		}
	}
	return r, true
}
