// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ordmap provides a map that iterates in insertion order.
// Animated keys and engine resources are kept in one so that every
// frame visits them in the same order.
package ordmap

import (
	"fmt"
	"iter"
	"slices"
)

// Map is a map from keys to values that remembers the order in which
// keys were first set. Lookup is O(1); Delete is O(n) since the
// positions of later keys shift down. The zero value is ready to use.
type Map[K comparable, V any] struct {
	keys  []K
	vals  []V
	index map[K]int
}

// New returns a new empty map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{index: make(map[K]int)}
}

// Set sets the value for key. A new key goes at the end; an existing
// one keeps its position.
func (m *Map[K, V]) Set(key K, val V) {
	if i, ok := m.index[key]; ok {
		m.vals[i] = val
		return
	}
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
}

// Get returns the value for key and whether it is present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i, ok := m.index[key]; ok {
		return m.vals[i], true
	}
	var zero V
	return zero, false
}

// Index returns the position of key, or -1.
func (m *Map[K, V]) Index(key K) int {
	if i, ok := m.index[key]; ok {
		return i
	}
	return -1
}

// Delete removes key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	delete(m.index, key)
	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	return true
}

// Len returns the number of keys; a nil map has none.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// At returns the key and value at position i.
func (m *Map[K, V]) At(i int) (K, V) {
	return m.keys[i], m.vals[i]
}

// Keys returns a copy of the keys in order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// All iterates over the keys and values in order. The map must not
// be modified during the iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

func (m *Map[K, V]) String() string {
	s := "{"
	for i, k := range m.keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v:%v", k, m.vals[i])
	}
	return s + "}"
}
