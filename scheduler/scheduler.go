// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scheduler drives the frame loop: each frame ticks the camera
// rig, then the animations, then rebuilds and reconciles the scene
// graph and draws it.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/scenegraph"
)

// Camera is the camera rig stage of a frame.
type Camera interface {
	Tick(dt time.Duration) camera.State
}

// Animator is the animation stage of a frame.
type Animator interface {
	Tick(dt time.Duration) []string
}

// BuildFunc returns the desired scene graph for the current state.
type BuildFunc func(cam camera.State) *scenegraph.Node

// Reconciler is the reconciliation stage of a frame.
type Reconciler interface {
	Reconcile(prev, desired *scenegraph.Node) (*scenegraph.Node, []scenegraph.Patch, error)
}

// Drawer is the draw stage of a frame.
type Drawer interface {
	Draw(root *scenegraph.Node, cam camera.State) error
}

// Options are the scheduler options.
type Options struct {

	// FPS is the target number of frames per second.
	FPS int `default:"60"`

	// MaxFrames stops Run after this many frames, if > 0.
	MaxFrames int
}

// Defaults sets default options.
func (o *Options) Defaults() {
	o.FPS = 60
}

// Stats are running statistics of the frame loop.
type Stats struct {

	// Frames is the number of frames run.
	Frames int

	// Dropped is the number of frames skipped because an earlier
	// frame overran its budget.
	Dropped int

	// Errors is the number of stage errors, including panics.
	Errors int

	// Patches is the number of patches applied in the last frame.
	Patches int

	// LastFrame is how long the last frame took.
	LastFrame time.Duration
}

// Scheduler runs frames. Step and Run must not be called concurrently;
// Stats and Tree may be called from any goroutine.
type Scheduler struct {
	cam   Camera
	anim  Animator
	build BuildFunc
	rec   Reconciler
	draw  Drawer
	opts  Options

	mu    sync.Mutex
	stats Stats
	tree  *scenegraph.Node
}

// New returns a new scheduler running the given stages.
func New(cam Camera, anim Animator, build BuildFunc, rec Reconciler, draw Drawer, opts Options) *Scheduler {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	return &Scheduler{cam: cam, anim: anim, build: build, rec: rec, draw: draw, opts: opts}
}

// Period returns the target frame period.
func (s *Scheduler) Period() time.Duration {
	return time.Second / time.Duration(s.opts.FPS)
}

// Stats returns the current statistics.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Tree returns the effective tree of the last frame.
func (s *Scheduler) Tree() *scenegraph.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Run runs frames at the target rate until the context is done,
// returning its error, or until MaxFrames have run, returning nil.
// A frame that overruns does not cause extra frames to catch up:
// the ticks it missed are dropped.
func (s *Scheduler) Run(ctx context.Context) error {
	period := s.Period()
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	last := time.Now()
	slog.Info("scheduler: running", "fps", s.opts.FPS, "maxFrames", s.opts.MaxFrames)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if missed := int((dt+period/2)/period) - 1; missed > 0 {
				s.mu.Lock()
				s.stats.Dropped += missed
				s.mu.Unlock()
			}
			errors.Log(s.Step(dt))
			if s.opts.MaxFrames > 0 && s.Stats().Frames >= s.opts.MaxFrames {
				return nil
			}
		}
	}
}

// Step runs one frame with the given elapsed time, in order:
// camera, animation, build, reconcile and draw. A failing stage is
// logged and counted and the rest of the frame still runs: a failed
// build or reconcile draws the previous tree. The returned error
// joins all of the stage errors.
func (s *Scheduler) Step(dt time.Duration) error {
	start := time.Now()
	var errs []error
	run := func(name string, fun func() error) {
		if err := stage(name, fun); err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	prev := s.tree
	s.mu.Unlock()

	var cam camera.State
	run("camera", func() error {
		cam = s.cam.Tick(dt)
		return nil
	})
	run("animation", func() error {
		s.anim.Tick(dt)
		return nil
	})
	var desired *scenegraph.Node
	built := false
	run("build", func() error {
		desired = s.build(cam)
		built = true
		return nil
	})
	eff := prev
	npatch := 0
	if built {
		run("reconcile", func() error {
			t, ps, err := s.rec.Reconcile(prev, desired)
			eff = t
			npatch = len(ps)
			return err
		})
	}
	run("draw", func() error {
		return s.draw.Draw(eff, cam)
	})

	s.mu.Lock()
	s.tree = eff
	s.stats.Frames++
	s.stats.Errors += len(errs)
	s.stats.Patches = npatch
	s.stats.LastFrame = time.Since(start)
	s.mu.Unlock()
	return errors.Join(errs...)
}

// stage runs one stage, turning a panic into an error.
func stage(name string, fun func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scheduler: panic in %s stage: %v", name, r)
		}
	}()
	if err := fun(); err != nil {
		return fmt.Errorf("scheduler: %s stage: %w", name, err)
	}
	return nil
}
