// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors re-exports the standard library error functions
// together with helpers that log an error, with its caller, where it
// is not returned any further.
package errors

import (
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
)

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nil values.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Log logs err with the location of its caller if it is non-nil, and
// returns it, for use where an error stops propagating:
//
//	errors.Log(wt.Add(path))
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error(), "caller", callerInfo(2))
	}
	return err
}

// Log1 is [Log] for functions that return a value and an error.
// It returns v, which is typically the zero value when err is non-nil.
//
//	n := errors.Log1(strconv.Atoi(s))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error(), "caller", callerInfo(2))
	}
	return v
}

// Must panics if err is non-nil. It is for errors that can only come
// from programmer mistakes, such as registering a handler twice.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Ignore1 returns v and drops err, for results that are only wanted
// for their side effects or whose error was already reported.
func Ignore1[T any](v T, err error) T {
	return v
}

// CallerInfo returns the function, file and line of the caller
// of the function that calls it.
func CallerInfo() string {
	return callerInfo(3)
}

// callerInfo describes the frame skip levels above itself.
func callerInfo(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return runtime.FuncForPC(pc).Name() + " " + filepath.Base(file) + ":" + strconv.Itoa(line)
}
