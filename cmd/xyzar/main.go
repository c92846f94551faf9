// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xyzar opens a window and runs the viewer in it. In standalone
// mode it serves a telemetry endpoint that a robot connects to, and in
// AR mode it plays a tracking script and places models where the window
// is clicked.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"cogentcore.org/xyzar/base/errors"
	"cogentcore.org/xyzar/base/logx"
	"cogentcore.org/xyzar/config"
	"cogentcore.org/xyzar/gpu/glgpu"
	"cogentcore.org/xyzar/telemetry"
	"cogentcore.org/xyzar/viewer"
)

func init() {
	// the graphics context must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	cfgPath := flag.String("config", "", "path of a TOML or YAML config file")
	mode := flag.String("mode", "", "standalone or ar, overriding the config file")
	script := flag.String("script", "", "tracking script to play in ar mode")
	debug := flag.Bool("debug", false, "show debug messages")
	verbose := flag.Bool("verbose", false, "show informational messages")
	quiet := flag.Bool("quiet", false, "only show errors")
	flag.Parse()

	cfg := config.Defaults()
	if *cfgPath != "" {
		cfg = errors.Must1(config.Load(*cfgPath))
	}
	if *mode != "" {
		errors.Must(cfg.Mode.SetString(*mode))
	}
	if *script != "" {
		cfg.AR.Script = *script
	}
	logx.UserLevel = logx.LevelFromString(cfg.Log.Level)
	if *debug || *verbose || *quiet {
		logx.UserLevel = logx.LevelFromFlags(*debug, *verbose, *quiet)
	}
	logx.SetDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errors.Must(glfw.Init())
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window := errors.Must1(glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil))
	defer window.Destroy()
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	dev := errors.Must1(glgpu.Init())

	var source telemetry.Source
	if cfg.Mode == config.Standalone {
		sv := telemetry.NewServer()
		defer sv.Close()
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Path, sv)
		hs := &http.Server{Addr: cfg.Telemetry.Addr, Handler: mux}
		defer hs.Close()
		go func() {
			if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errors.Log(err)
			}
		}()
		slog.Info("serving telemetry", "addr", cfg.Telemetry.Addr, "path", cfg.Telemetry.Path)
		source = sv
	}

	v := errors.Must1(viewer.New(cfg, dev, source))
	v.Start(ctx)
	errors.Must(v.OnContextCreated())
	v.OnSurfaceResized(window.GetFramebufferSize())
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		v.OnSurfaceResized(width, height)
	})
	window.SetIconifyCallback(func(w *glfw.Window, iconified bool) {
		if iconified {
			errors.Log(v.OnTeardown())
			return
		}
		v.Start(ctx)
		errors.Must(v.OnContextCreated())
		v.OnSurfaceResized(w.GetFramebufferSize())
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft || action != glfw.Press {
			return
		}
		x, y := w.GetCursorPos()
		width, height := w.GetSize()
		nx := float32(2*x/float64(width) - 1)
		ny := float32(1 - 2*y/float64(height))
		v.TapAt(nx, ny, float32(width)/float32(height))
	})

	for !window.ShouldClose() && ctx.Err() == nil {
		errors.Must(v.OnDrawTick())
		window.SwapBuffers()
		glfw.PollEvents()
	}
	errors.Log(v.Close())
}
