// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package anim

import "fmt"

// ConfigurationError is returned for targets on keys that were never
// declared with [Engine.Declare], or whose value kind does not match.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("anim: configuration error for key %q: %s", e.Key, e.Reason)
}
