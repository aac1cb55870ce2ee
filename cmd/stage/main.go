// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command stage runs the interactive 3D scene.
package main

import (
	"os"

	"cogentcore.org/stage/base/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Log(err)
		os.Exit(1)
	}
}
