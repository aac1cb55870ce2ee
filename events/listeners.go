// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

// Listeners are the functions registered on a scene element for each
// event type. The zero value is ready to use.
type Listeners map[Types][]func(ev *Event)

// Add adds fun to the listeners for typ.
func (ls *Listeners) Add(typ Types, fun func(*Event)) {
	if *ls == nil {
		*ls = Listeners{}
	}
	(*ls)[typ] = append((*ls)[typ], fun)
}

// Call calls the listeners for the type of ev, most recently added
// first, until one of them marks it handled. It returns whether ev
// ended up handled.
func (ls Listeners) Call(ev *Event) bool {
	funs := ls[ev.Type()]
	for i := len(funs) - 1; i >= 0 && !ev.IsHandled(); i-- {
		funs[i](ev)
	}
	return ev.IsHandled()
}
