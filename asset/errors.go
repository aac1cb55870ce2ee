// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import "fmt"

// LoadError is a failure to fetch an asset: network or IO errors,
// missing files, and timeouts.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("asset: loading %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ParseError is a failure to decode fetched asset content.
type ParseError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asset: parsing %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("asset: parsing %q: %s", e.Path, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
