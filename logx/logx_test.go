// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, slog.LevelInfo, termenv.WithProfile(termenv.Ascii))
	h.NoTime = true
	log := slog.New(h)
	log.Debug("hidden")
	log.Info("frame", "n", 3)
	log.With("scene", "demo").WithGroup("cam").Warn("clamped", "polar", 1.5)
	assert.Equal(t, "INFO frame n=3\nWARN clamped scene=demo cam.polar=1.5\n", buf.String())
}

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelError, LevelFromFlags(true, true))
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, false))
}
