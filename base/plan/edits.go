// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"log/slog"
	"slices"
)

// Ops are the kinds of [Edit] produced by [Edits].
type Ops int32

const (
	// Remove removes the named element.
	Remove Ops = iota

	// Insert inserts a new element with the name at the index.
	Insert

	// Keep retains an existing element, which ends up at the index.
	// Moved is set when its relative position changed.
	Keep
)

// Edit is one step of turning a current list of names into a target list.
type Edit struct {
	Op Ops

	// Name is the unique name of the element.
	Name string

	// Index is the final index for Insert and Keep, and the
	// previous index for Remove.
	Index int

	// Moved is true for a Keep whose element was moved.
	Moved bool
}

// Edits returns the edits that turn the current list of names into
// the target list, using the same ordering logic as [Update].
// Removes come first, in descending index order, followed by one
// Insert or Keep for every target name in ascending order.
// Edits is a pure function of its inputs.
func Edits(current, target []string) []Edit {
	tmap := make(map[string]struct{}, len(target))
	for _, nm := range target {
		if _, has := tmap[nm]; has {
			slog.Error("plan.Edits: duplicate name", "name", nm)
		}
		tmap[nm] = struct{}{}
	}
	var eds []Edit
	r := slices.Clone(current)
	for i := len(r) - 1; i >= 0; i-- {
		if _, ok := tmap[r[i]]; !ok {
			eds = append(eds, Edit{Op: Remove, Name: r[i], Index: i})
			r = slices.Delete(r, i, i+1)
		}
	}
	for i, tn := range target {
		ci := slices.Index(r, tn)
		switch {
		case ci < 0:
			eds = append(eds, Edit{Op: Insert, Name: tn, Index: i})
			r = slices.Insert(r, i, tn)
		case ci != i:
			eds = append(eds, Edit{Op: Keep, Name: tn, Index: i, Moved: true})
			r = slices.Delete(r, ci, ci+1)
			r = slices.Insert(r, i, tn)
		default:
			eds = append(eds, Edit{Op: Keep, Name: tn, Index: i})
		}
	}
	return eds
}

// Changed returns whether any of the given edits modifies the list.
func Changed(eds []Edit) bool {
	for _, ed := range eds {
		if ed.Op != Keep || ed.Moved {
			return true
		}
	}
	return false
}
