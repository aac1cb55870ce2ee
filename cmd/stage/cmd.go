// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/stage/anim"
	"cogentcore.org/stage/asset"
	"cogentcore.org/stage/base/errors"
	"cogentcore.org/stage/camera"
	"cogentcore.org/stage/config"
	"cogentcore.org/stage/engine"
	"cogentcore.org/stage/engine/headless"
	"cogentcore.org/stage/events/wsinput"
	"cogentcore.org/stage/logx"
	"cogentcore.org/stage/scenegraph"
	"cogentcore.org/stage/scheduler"
	"cogentcore.org/stage/world"
	"github.com/spf13/cobra"
)

// flags are the global flags.
type flags struct {
	config  string
	verbose bool
	quiet   bool
	assets  string
	model   string
	engine  string
	frames  int
	listen  string
}

// configPaths are the directories searched for a relative config file.
var configPaths = []string{".", "~/.config/stage"}

func newRootCmd() *cobra.Command {
	fl := &flags{}
	cfg := &config.Config{}
	root := &cobra.Command{
		Use:           "stage",
		Short:         "Run an interactive 3D scene",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logx.UserLevel = logx.LevelFromFlags(fl.verbose, fl.quiet)
			logx.Install()
			return loadConfig(cmd, fl, cfg)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&fl.config, "config", "c", "", "config file (.toml or .yaml)")
	pf.BoolVarP(&fl.verbose, "verbose", "v", false, "log debug messages")
	pf.BoolVarP(&fl.quiet, "quiet", "q", false, "only log errors")
	pf.StringVar(&fl.assets, "assets", "", "directory or http(s) URL that asset paths are relative to")
	pf.StringVar(&fl.model, "model", "", "model to load")
	pf.StringVar(&fl.engine, "engine", "", "engine to draw with")
	pf.IntVarP(&fl.frames, "frames", "n", 0, "stop after this many frames")

	run := &cobra.Command{
		Use:   "run",
		Short: "Run the frame loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(cmd.Context(), cfg)
		},
	}
	run.Flags().StringVar(&fl.listen, "listen", "", "address of the websocket input server")

	var out string
	var width, height int
	snapshot := &cobra.Command{
		Use:   "snapshot",
		Short: "Run frames with the headless engine and write a PNG preview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), cfg, out, width, height)
		},
	}
	snapshot.Flags().StringVarP(&out, "out", "o", "stage.png", "output file")
	snapshot.Flags().IntVar(&width, "width", 0, "image width (default surface width)")
	snapshot.Flags().IntVar(&height, "height", 0, "image height (default surface height)")

	inspect := &cobra.Command{
		Use:   "inspect [asset...]",
		Short: "Print the scene graph, or the structure of the given assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	defaults := &cobra.Command{
		Use:   "defaults file",
		Short: "Write the default config to the given .toml or .yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def := config.Config{}
			def.Defaults()
			return config.Save(&def, args[0])
		},
	}
	root.AddCommand(run, snapshot, inspect, defaults)
	return root
}

// loadConfig sets the defaults, then the config file, then the flags.
func loadConfig(cmd *cobra.Command, fl *flags, cfg *config.Config) error {
	cfg.Defaults()
	if fl.config != "" {
		if err := config.OpenWithIncludes(configPaths, cfg, fl.config); err != nil {
			return err
		}
	}
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if set("assets") {
		cfg.Assets = fl.assets
	}
	if set("model") {
		cfg.World.Model = fl.model
	}
	if set("engine") {
		cfg.Engine = fl.engine
	}
	if set("frames") {
		cfg.Frames.Max = fl.frames
	}
	if set("listen") {
		cfg.Listen = fl.listen
	}
	slog.Debug("config", "engine", cfg.Engine, "assets", cfg.Assets, "model", cfg.World.Model)
	return nil
}

// stage is everything needed to run frames.
type stage struct {
	cfg    *config.Config
	loader *asset.Loader
	world  *world.World
	cam    *camera.Controller
	eng    engine.Engine
	sched  *scheduler.Scheduler
}

func fetcher(assets string) (asset.Fetcher, string, error) {
	if strings.HasPrefix(assets, "http://") || strings.HasPrefix(assets, "https://") {
		u, err := url.Parse(assets)
		if err != nil {
			return nil, "", err
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		return &asset.HTTPFetcher{BaseURL: u}, "", nil
	}
	ff, err := asset.NewFileFetcher(assets)
	if err != nil {
		return nil, "", err
	}
	return ff, assets, nil
}

func newStage(cfg *config.Config) (*stage, string, error) {
	f, dir, err := fetcher(cfg.Assets)
	if err != nil {
		return nil, "", err
	}
	loader := asset.NewLoader(f, asset.WithTimeout(time.Duration(cfg.LoadTimeout)), asset.WithMaxConcurrent(cfg.MaxLoads))
	aopts, err := cfg.AnimOptions()
	if err != nil {
		return nil, "", err
	}
	w, err := world.New(cfg.World, anim.New(aopts), loader)
	if err != nil {
		return nil, "", err
	}
	caps, err := cfg.Caps()
	if err != nil {
		return nil, "", err
	}
	eng, err := engine.New(cfg.Engine)
	if err != nil {
		return nil, "", err
	}
	if err := eng.Configure(caps); err != nil {
		return nil, "", err
	}
	cam := camera.NewController(cfg.CameraState(), cfg.CameraOptions())
	sched := scheduler.New(cam, w, w.Build, scenegraph.NewReconciler(eng, nil), eng, cfg.SchedulerOptions())
	return &stage{cfg: cfg, loader: loader, world: w, cam: cam, eng: eng, sched: sched}, dir, nil
}

func runLoop(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	st, dir, err := newStage(cfg)
	if err != nil {
		return err
	}
	if dir != "" && cfg.World.Model != "" {
		wt, err := asset.NewWatcher(st.loader, dir)
		if err == nil {
			defer wt.Close()
			wt.OnChange = func(path string) {
				st.world.RequestReload()
			}
			errors.Log(wt.Add(cfg.World.Model))
		} else {
			errors.Log(err)
		}
	}
	if cfg.Listen != "" {
		srv := wsinput.NewServer(st.cam, st.world)
		go func() {
			errors.Log(srv.ListenAndServe(ctx, cfg.Listen))
		}()
	}
	err = st.sched.Run(ctx)
	stats := st.sched.Stats()
	slog.Info("stopped", "frames", stats.Frames, "dropped", stats.Dropped, "errors", stats.Errors)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runSnapshot(ctx context.Context, cfg *config.Config, out string, width, height int) error {
	cfg.Engine = "headless"
	if cfg.Frames.Max <= 0 {
		cfg.Frames.Max = 60
	}
	st, _, err := newStage(cfg)
	if err != nil {
		return err
	}
	if h := st.world.Model(); h != nil {
		wctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.LoadTimeout))
		_, err := h.Wait(wctx)
		cancel()
		errors.Log(err)
	}
	if failed := runFrames(st.sched, cfg.Frames.Max, st.sched.Period()); failed > 0 {
		slog.Warn("snapshot: some frames had errors", "frames", cfg.Frames.Max, "failed", failed)
	}
	hl := st.eng.(*headless.Engine)
	img := hl.Snapshot(width, height)
	if img == nil {
		return fmt.Errorf("snapshot: no frame was drawn")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0777); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	slog.Info("wrote snapshot", "file", out, "frames", cfg.Frames.Max, "size", img.Bounds().Size())
	return f.Close()
}

type stepper interface {
	Step(dt time.Duration) error
}

// runFrames steps n frames of the given period, logging the error of
// each frame that has one, and returns how many did.
func runFrames(s stepper, n int, period time.Duration) int {
	failed := 0
	for range n {
		if errors.Log(s.Step(period)) != nil {
			failed++
		}
	}
	return failed
}

func runInspect(ctx context.Context, w io.Writer, cfg *config.Config, paths []string) error {
	if len(paths) == 0 {
		cfg.Engine = "headless"
		st, _, err := newStage(cfg)
		if err != nil {
			return err
		}
		if h := st.world.Model(); h != nil {
			errors.Ignore1(h.Wait(ctx))
		}
		errors.Log(st.sched.Step(st.sched.Period()))
		printTree(w, st.sched.Tree())
		return nil
	}
	f, _, err := fetcher(cfg.Assets)
	if err != nil {
		return err
	}
	loader := asset.NewLoader(f, asset.WithTimeout(time.Duration(cfg.LoadTimeout)), asset.WithMaxConcurrent(cfg.MaxLoads))
	var errs []error
	for _, p := range paths {
		frag, err := loader.Load(p).Wait(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "%s: %v %s (%s), %d bytes\n", p, frag.Format, frag.Version, frag.Generator, frag.Size)
		fmt.Fprintf(w, "  %d nodes, %d meshes, roots %v\n", len(frag.Nodes), len(frag.Meshes), frag.Roots)
		for i, n := range frag.Nodes {
			fmt.Fprintf(w, "  [%d] %s mesh=%d children=%v\n", i, n.Name, n.Mesh, n.Children)
		}
	}
	return errors.Join(errs...)
}

func printTree(w io.Writer, root *scenegraph.Node) {
	if root == nil {
		fmt.Fprintln(w, "(empty)")
		return
	}
	scenegraph.Walk(root, func(path string, n *scenegraph.Node) bool {
		depth := strings.Count(path, "/")
		fmt.Fprintf(w, "%s%s %v", strings.Repeat("  ", depth), n.Name, n.Kind)
		switch n.Kind {
		case scenegraph.Mesh:
			fmt.Fprintf(w, " %v %v pos=%v scale=%v shadow=%+v", n.Geometry.Shape, n.Material.Color, n.Transform.Pos, n.Transform.Scale, n.Shadow)
		case scenegraph.Light:
			fmt.Fprintf(w, " %v intensity=%g castShadow=%v", n.Light.Kind, n.Light.Intensity, n.Light.CastShadow)
		case scenegraph.Fog:
			fmt.Fprintf(w, " near=%g far=%g", n.Fog.Near, n.Fog.Far)
		case scenegraph.AssetPlaceholder:
			if n.Fragment != nil {
				fmt.Fprintf(w, " %s", n.Fragment)
			}
		}
		fmt.Fprintln(w)
		return true
	})
}
