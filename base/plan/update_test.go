// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type nameObj struct {
	name string
}

func (n *nameObj) PlanName() string {
	return n.name
}

func assertNames(t *testing.T, names []string, items []*nameObj) {
	if len(names) != len(items) {
		t.Error("lengths of lists are not the same:", len(names), len(items))
	}
	for i, nm := range names {
		inm := items[i].PlanName()
		if nm != inm {
			t.Error("item at index:", i, "name mismatch, should be:", nm, "was:", inm)
		}
	}
}

func update(s []*nameObj, names []string, destroyed *[]string) ([]*nameObj, bool) {
	return Update(s, len(names),
		func(i int) string { return names[i] },
		func(name string, i int) *nameObj { return &nameObj{name: name} },
		func(e *nameObj) { *destroyed = append(*destroyed, e.name) })
}

func TestUpdate(t *testing.T) {
	var s []*nameObj
	var destroyed []string

	names1 := []string{"a", "b", "c"}
	s, changed := update(s, names1, &destroyed)
	assertNames(t, names1, s)
	assert.True(t, changed)

	names2 := []string{"a", "aa", "b", "c"}
	s, changed = update(s, names2, &destroyed)
	assertNames(t, names2, s)
	assert.True(t, changed)

	names3 := []string{"c", "aa", "bb"}
	s, changed = update(s, names3, &destroyed)
	assertNames(t, names3, s)
	assert.True(t, changed)
	assert.ElementsMatch(t, []string{"a", "b"}, destroyed)

	first := s[0]
	s, changed = update(s, names3, &destroyed)
	assertNames(t, names3, s)
	assert.False(t, changed)
	assert.Same(t, first, s[0])
}

func TestEdits(t *testing.T) {
	eds := Edits([]string{"a", "b", "c"}, []string{"c", "a", "d"})
	assert.Equal(t, []Edit{
		{Op: Remove, Name: "b", Index: 1},
		{Op: Keep, Name: "c", Index: 0, Moved: true},
		{Op: Keep, Name: "a", Index: 1},
		{Op: Insert, Name: "d", Index: 2},
	}, eds)
	assert.True(t, Changed(eds))

	same := Edits([]string{"x", "y"}, []string{"x", "y"})
	assert.False(t, Changed(same))
	assert.Len(t, same, 2)
}
