// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides a colored [slog.Handler] for terminal output
// and the user-facing log level used by the stage runtime.
package logx

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

// UserLevel is the minimum level of the messages shown by the
// [Handler] that [Install] sets up. The stage command sets it from
// its verbose and quiet flags.
var UserLevel = slog.LevelInfo

// LevelFromFlags returns the level for the verbose and quiet flags;
// quiet wins.
func LevelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelError
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Handler is a [slog.Handler] that writes single-line records with
// the level colored according to its severity. Colors are dropped
// automatically when the output is not a terminal.
type Handler struct {
	level  slog.Leveler
	out    *termenv.Output
	mu     *sync.Mutex
	attrs  []groupedAttr
	groups []string

	// NoTime omits the timestamp, which is useful for tests.
	NoTime bool
}

// NewHandler returns a new [Handler] writing to the given writer,
// with the given level (nil means [UserLevel] at every call).
func NewHandler(w io.Writer, level slog.Leveler, opts ...termenv.OutputOption) *Handler {
	return &Handler{level: level, out: termenv.NewOutput(w, opts...), mu: &sync.Mutex{}}
}

// Install makes a [Handler] on stderr the default slog logger,
// at the current [UserLevel].
func Install() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, nil)))
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return level >= UserLevel
	}
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	if !h.NoTime && !r.Time.IsZero() {
		buf.WriteString(r.Time.Format(time.TimeOnly))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.levelString(r.Level))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	for _, ga := range h.attrs {
		writeAttr(&buf, ga.prefix, ga.attr)
	}
	prefix := h.prefix()
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, prefix, a)
		return true
	})
	buf.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = slices.Clip(h.attrs)
	prefix := h.prefix()
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, groupedAttr{prefix: prefix, attr: a})
	}
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = append(slices.Clip(h.groups), name)
	return &nh
}

// groupedAttr is an attribute recorded with the group prefix
// that was active when it was added.
type groupedAttr struct {
	prefix string
	attr   slog.Attr
}

func (h *Handler) prefix() string {
	prefix := ""
	for _, g := range h.groups {
		prefix += g + "."
	}
	return prefix
}

func (h *Handler) levelString(level slog.Level) string {
	s := h.out.String(level.String())
	switch {
	case level >= slog.LevelError:
		s = s.Foreground(h.out.Color("1")).Bold()
	case level >= slog.LevelWarn:
		s = s.Foreground(h.out.Color("3"))
	case level >= slog.LevelInfo:
		s = s.Foreground(h.out.Color("4"))
	default:
		s = s.Faint()
	}
	return s.String()
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(buf, prefix+a.Key+".", ga)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(a.Value.String())
}
