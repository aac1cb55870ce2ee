// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides the configuration of the stage runtime,
// loaded from TOML or YAML files and overridden by command line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"cogentcore.org/stage/anim"
	"cogentcore.org/stage/asset"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/engine"
	"cogentcore.org/stage/math32"
	"cogentcore.org/stage/scheduler"
	"cogentcore.org/stage/world"
)

// Duration is a [time.Duration] that is written as a string like "250ms".
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the main config struct.
type Config struct {

	// Includes are other config files that are opened first, so
	// that settings in this file override theirs.
	Includes []string `toml:"includes,omitempty" yaml:"includes,omitempty"`

	// Engine is the name of the registered engine to draw with.
	Engine string `toml:"engine" yaml:"engine"`

	// Assets is the directory or http(s) URL that asset paths are relative to.
	Assets string `toml:"assets" yaml:"assets"`

	// Listen is the address of the websocket input server; empty for none.
	Listen string `toml:"listen" yaml:"listen"`

	// LoadTimeout bounds each asset load.
	LoadTimeout Duration `toml:"load_timeout" yaml:"load_timeout"`

	// MaxLoads is the maximum number of concurrent asset loads.
	MaxLoads int `toml:"max_loads" yaml:"max_loads"`

	// Surface is the presentation surface.
	Surface Surface `toml:"surface" yaml:"surface"`

	// Frames configures the frame loop.
	Frames Frames `toml:"frames" yaml:"frames"`

	// Camera configures the camera rig.
	Camera Camera `toml:"camera" yaml:"camera"`

	// Anim configures the interpolation of animated values.
	Anim Anim `toml:"anim" yaml:"anim"`

	// World configures the scene.
	World world.Options `toml:"world" yaml:"world"`
}

// Surface configures the presentation surface.
type Surface struct {
	Width   int    `toml:"width" yaml:"width"`
	Height  int    `toml:"height" yaml:"height"`
	Shadows bool   `toml:"shadows" yaml:"shadows"`
	Shadow  string `toml:"shadow_type" yaml:"shadow_type"`
}

// Frames configures the frame loop.
type Frames struct {
	FPS int `toml:"fps" yaml:"fps"`

	// Max stops after this many frames, if > 0.
	Max int `toml:"max" yaml:"max"`
}

// Camera configures the camera rig. Angles are in degrees.
type Camera struct {
	Distance        float32 `toml:"distance" yaml:"distance"`
	Polar           float32 `toml:"polar" yaml:"polar"`
	MinPolar        float32 `toml:"min_polar" yaml:"min_polar"`
	MaxPolar        float32 `toml:"max_polar" yaml:"max_polar"`
	MinDistance     float32 `toml:"min_distance" yaml:"min_distance"`
	MaxDistance     float32 `toml:"max_distance" yaml:"max_distance"`
	AutoRotate      bool    `toml:"auto_rotate" yaml:"auto_rotate"`
	AutoRotateSpeed float32 `toml:"auto_rotate_speed" yaml:"auto_rotate_speed"`
	RotateSpeed     float32 `toml:"rotate_speed" yaml:"rotate_speed"`
	ZoomSpeed       float32 `toml:"zoom_speed" yaml:"zoom_speed"`
}

// Anim configures the interpolation of animated values.
type Anim struct {

	// Mode is "ease" or "tween".
	Mode     string   `toml:"mode" yaml:"mode"`
	Rate     float32  `toml:"rate" yaml:"rate"`
	Duration Duration `toml:"duration" yaml:"duration"`
}

// Defaults sets the default configuration: the headless engine, and a
// slowly auto rotating camera pinned at 60 degrees of elevation.
func (c *Config) Defaults() {
	c.Engine = "headless"
	c.Assets = "."
	c.LoadTimeout = Duration(asset.DefaultTimeout)
	c.MaxLoads = 4
	c.Surface = Surface{Width: 1280, Height: 720, Shadows: true, Shadow: "pcfsoft"}
	c.Frames = Frames{FPS: 60}
	c.Camera = Camera{Distance: 10, Polar: 60, MinPolar: 60, MaxPolar: 60, MinDistance: 2, MaxDistance: 50,
		AutoRotate: true, AutoRotateSpeed: 1, RotateSpeed: 1, ZoomSpeed: 1}
	c.Anim = Anim{Mode: "ease", Rate: 10, Duration: Duration(250 * time.Millisecond)}
	c.World.Defaults()
}

// IncludesPtr returns a pointer to the Includes field.
func (c *Config) IncludesPtr() *[]string {
	return &c.Includes
}

// Caps returns the engine capabilities.
func (c *Config) Caps() (engine.Caps, error) {
	caps := engine.Caps{Shadows: c.Surface.Shadows, Width: c.Surface.Width, Height: c.Surface.Height}
	switch strings.ToLower(c.Surface.Shadow) {
	case "basic":
		caps.ShadowType = engine.BasicShadows
	case "pcf":
		caps.ShadowType = engine.PCFShadows
	case "pcfsoft", "":
		caps.ShadowType = engine.PCFSoftShadows
	default:
		return caps, fmt.Errorf("config: unknown shadow type %q", c.Surface.Shadow)
	}
	return caps, nil
}

// CameraState returns the initial camera state.
func (c *Config) CameraState() camera.State {
	st := camera.State{}
	st.Defaults()
	cc := c.Camera
	st.Distance = cc.Distance
	st.Polar = math32.DegToRad(cc.Polar)
	st.MinPolar = math32.DegToRad(cc.MinPolar)
	st.MaxPolar = math32.DegToRad(cc.MaxPolar)
	st.MinDistance = cc.MinDistance
	st.MaxDistance = cc.MaxDistance
	return st
}

// CameraOptions returns the camera controller options.
func (c *Config) CameraOptions() camera.Options {
	cc := c.Camera
	return camera.Options{AutoRotate: cc.AutoRotate, AutoRotateSpeed: cc.AutoRotateSpeed,
		RotateSpeed: cc.RotateSpeed, ZoomSpeed: cc.ZoomSpeed, Height: c.Surface.Height}
}

// AnimOptions returns the interpolation options.
func (c *Config) AnimOptions() (anim.Options, error) {
	opts := anim.Options{}
	opts.Defaults()
	switch strings.ToLower(c.Anim.Mode) {
	case "ease", "":
		opts.Mode = anim.Ease
	case "tween":
		opts.Mode = anim.Tween
	default:
		return opts, fmt.Errorf("config: unknown anim mode %q", c.Anim.Mode)
	}
	if c.Anim.Rate > 0 {
		opts.Rate = c.Anim.Rate
	}
	if c.Anim.Duration > 0 {
		opts.Duration = time.Duration(c.Anim.Duration)
	}
	return opts, nil
}

// SchedulerOptions returns the frame loop options.
func (c *Config) SchedulerOptions() scheduler.Options {
	return scheduler.Options{FPS: c.Frames.FPS, MaxFrames: c.Frames.Max}
}
