// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import "sync"

// Queue buffers events between the input goroutines that Send them
// and the render goroutine that drains them once per frame, so that
// events are never applied in the middle of a frame. Drain swaps the
// pending buffer out under the lock and calls the handler without it,
// so a handler may Send further events, which go to the next Drain.
// It must be initialized using [Queue.Init] before use.
type Queue struct {
	mu      sync.Mutex
	pending []*Event
	spare   []*Event
}

// Init initializes the queue, dropping any pending events.
func (q *Queue) Init() {
	q.mu.Lock()
	q.pending = make([]*Event, 0, 16)
	q.spare = nil
	q.mu.Unlock()
}

// Send adds an event to the end of the queue.
func (q *Queue) Send(ev *Event) {
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
}

// NextEvent removes and returns the next event in the queue,
// or nil if it is empty.
func (q *Queue) NextEvent() *Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	ev := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return ev
}

// Len returns the number of pending events.
func (q *Queue) Len() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return uint64(len(q.pending))
}

// Drain calls fun on every pending event in order, and returns how
// many there were.
func (q *Queue) Drain(fun func(ev *Event)) int {
	q.mu.Lock()
	evs := q.pending
	q.pending = q.spare[:0]
	q.mu.Unlock()

	for _, ev := range evs {
		fun(ev)
	}
	clear(evs)

	q.mu.Lock()
	q.spare = evs
	q.mu.Unlock()
	return len(evs)
}
