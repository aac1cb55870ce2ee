// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/stage/anim"
	"cogentcore.org/stage/engine"
	"cogentcore.org/stage/math32"
	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0666))
	return p
}

func TestRoundTrip(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			def := Config{}
			def.Defaults()
			file := filepath.Join(t.TempDir(), "stage"+ext)
			require.NoError(t, Save(&def, file))

			got := Config{}
			require.NoError(t, Open(&got, file))
			assert.Equal(t, def, got)
		})
	}
}

func TestOverride(t *testing.T) {
	dir := t.TempDir()
	tf := write(t, dir, "a.toml", `
engine = "headless"
[frames]
max = 10
[camera]
min_polar = 30
max_polar = 80
[anim]
mode = "tween"
duration = "1s"
`)
	cfg := Config{}
	cfg.Defaults()
	require.NoError(t, Open(&cfg, tf))
	assert.Equal(t, 10, cfg.Frames.Max)
	assert.Equal(t, 60, cfg.Frames.FPS, "unset fields keep defaults")
	st := cfg.CameraState()
	assert.InDelta(t, math32.Pi/6, st.MinPolar, 1e-6)
	assert.InDelta(t, 80*math32.Pi/180, st.MaxPolar, 1e-6)
	ao, err := cfg.AnimOptions()
	require.NoError(t, err)
	assert.Equal(t, anim.Tween, ao.Mode)
	assert.Equal(t, time.Second, ao.Duration)

	yf := write(t, dir, "b.yaml", "surface:\n  width: 640\n  height: 360\n  shadows: false\n  shadow_type: basic\n")
	require.NoError(t, Open(&cfg, yf))
	caps, err := cfg.Caps()
	require.NoError(t, err)
	assert.Equal(t, engine.Caps{Shadows: false, ShadowType: engine.BasicShadows, Width: 640, Height: 360}, caps)
	assert.Equal(t, 360, cfg.CameraOptions().Height)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{}
	cfg.Defaults()
	assert.Error(t, Open(&cfg, write(t, dir, "bad.toml", "nope = 1\n")), "unknown field")
	assert.Error(t, Open(&cfg, write(t, dir, "bad.yaml", "nope: 1\n")), "unknown field")
	assert.Error(t, Open(&cfg, write(t, dir, "bad.json", "{}")))
	assert.Error(t, Open(&cfg, filepath.Join(dir, "missing.toml")))
	assert.Error(t, Save(&cfg, filepath.Join(dir, "x.ini")))

	cfg.Surface.Shadow = "vsm"
	_, err := cfg.Caps()
	assert.Error(t, err)
	cfg.Anim.Mode = "spring"
	_, err = cfg.AnimOptions()
	assert.Error(t, err)
}

func TestIncludes(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "base.toml", "assets = \"base\"\nmax_loads = 2\n[frames]\nfps = 30\n")
	write(t, dir, "mid.toml", "includes = [\"base.toml\"]\nassets = \"mid\"\n")
	write(t, dir, "top.toml", "includes = [\"mid.toml\"]\nlisten = \":8080\"\n")

	cfg := Config{}
	cfg.Defaults()
	require.NoError(t, OpenWithIncludes([]string{dir}, &cfg, "top.toml"))
	assert.Equal(t, "mid", cfg.Assets)
	assert.Equal(t, 2, cfg.MaxLoads)
	assert.Equal(t, 30, cfg.Frames.FPS)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, []string{"mid.toml", "base.toml"}, cfg.Includes)

	write(t, dir, "loop1.toml", "includes = [\"loop2.toml\"]\n")
	write(t, dir, "loop2.toml", "includes = [\"loop1.toml\"]\n")
	assert.Error(t, OpenWithIncludes([]string{dir}, &Config{}, "loop1.toml"))
	assert.Error(t, OpenWithIncludes([]string{dir}, &Config{}, "none.toml"))
}

func TestIncludesShared(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "common.toml", "max_loads = 3\n[frames]\nfps = 24\n")
	write(t, dir, "left.toml", "includes = [\"common.toml\"]\nassets = \"left\"\n")
	write(t, dir, "right.toml", "includes = [\"common.toml\"]\nlisten = \":9090\"\n")
	write(t, dir, "both.toml", "includes = [\"left.toml\", \"right.toml\"]\n")

	cfg := Config{}
	cfg.Defaults()
	require.NoError(t, OpenWithIncludes([]string{dir}, &cfg, "both.toml"))
	assert.Equal(t, "left", cfg.Assets)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 3, cfg.MaxLoads)
	assert.Equal(t, 24, cfg.Frames.FPS)
	assert.Equal(t, []string{"left.toml", "common.toml", "right.toml"}, cfg.Includes)

	write(t, dir, "self.toml", "includes = [\"inner.toml\"]\n")
	write(t, dir, "inner.toml", "includes = [\"common.toml\", \"self.toml\"]\n")
	assert.Error(t, OpenWithIncludes([]string{dir}, &Config{}, "self.toml"))
}

func TestFindFilesOnPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()
	require.NoError(t, os.Mkdir(filepath.Join(home, ".stage"), 0777))
	p := write(t, filepath.Join(home, ".stage"), "stage.yaml", "engine: headless\n")

	assert.Equal(t, []string{p}, FindFilesOnPaths([]string{"~/.stage", t.TempDir()}, "stage.yaml"))
	assert.Equal(t, []string{p}, FindFilesOnPaths(nil, "~/.stage/stage.yaml"))
	assert.Empty(t, FindFilesOnPaths([]string{"~"}, "stage.yaml"))
}
