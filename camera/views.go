// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package camera

import (
	"fmt"

	"cogentcore.org/stage/base/errors"
)

// SaveView saves the current camera state with given name, to be
// restored later with SetView. "default" is saved automatically
// when the controller is made and is restored by Reset.
func (c *Controller) SaveView(name string) {
	if c.views == nil {
		c.views = make(map[string]State)
	}
	c.views[name] = c.state
}

// SetView sets the current camera state to the saved view of the
// given name. The current limits are kept, so the restored view
// is clamped to them.
func (c *Controller) SetView(name string) error {
	v, ok := c.views[name]
	if !ok {
		return fmt.Errorf("camera.Controller: saved view %q not found", name)
	}
	st := c.state
	st.Target = v.Target
	st.Distance = v.Distance
	st.Polar = v.Polar
	st.Azimuth = v.Azimuth
	st.Clamp()
	st.UpdatePosition()
	c.state = st
	return nil
}

// Reset restores the "default" view, logging and returning the
// error if it was never saved.
func (c *Controller) Reset() error {
	return errors.Log(c.SetView("default"))
}
