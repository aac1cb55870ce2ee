// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"context"
	"fmt"
	"sync"
)

// States are the states of a [Handle].
type States int32

const (
	// Pending means the load is still in flight.
	Pending States = iota

	// Resolved means the fragment is available.
	Resolved

	// Failed means the load ended with an error.
	Failed
)

func (s States) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Resolved:
		return "Resolved"
	case Failed:
		return "Failed"
	}
	return fmt.Sprintf("States(%d)", int32(s))
}

// Handle is the pending result of a [Loader.Load]. It transitions
// exactly once from [Pending] to either [Resolved] or [Failed],
// and never reverts. It is safe for concurrent use; the render
// goroutine reads it at frame boundaries while the load goroutine
// resolves it.
type Handle struct {
	path string

	mu    sync.Mutex
	state States
	frag  *Fragment
	err   error
	done  chan struct{}
}

func newHandle(path string) *Handle {
	return &Handle{path: path, done: make(chan struct{})}
}

// Path returns the path that was requested.
func (h *Handle) Path() string {
	return h.path
}

// State returns the current state.
func (h *Handle) State() States {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Fragment returns the resolved fragment, or nil if the handle
// is not [Resolved]. The fragment must be treated as read-only.
func (h *Handle) Fragment() *Fragment {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frag
}

// Err returns the load error, or nil if the handle is not [Failed].
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Done returns a channel that is closed once the handle reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the handle reaches a terminal state or the
// context is done, returning the fragment or the error.
func (h *Handle) Wait(ctx context.Context) (*Fragment, error) {
	select {
	case <-h.done:
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.frag, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// settle moves the handle to its terminal state. It returns
// false, leaving the handle unchanged, if it was already settled.
func (h *Handle) settle(frag *Fragment, err error) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != Pending {
		return false
	}
	if err != nil {
		h.state = Failed
		h.err = err
	} else {
		h.state = Resolved
		h.frag = frag
	}
	close(h.done)
	return true
}

// NewResolved returns a handle that is already resolved to the
// given fragment, which is useful for fragments built in code.
func NewResolved(path string, frag *Fragment) *Handle {
	h := newHandle(path)
	h.settle(frag, nil)
	return h
}
