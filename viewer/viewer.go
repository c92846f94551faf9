// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package viewer composes the render pipeline, the anchor manager and
// the telemetry feed into the four lifecycle callbacks of a graphics
// context host.
package viewer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"cogentcore.org/xyzar/ar"
	"cogentcore.org/xyzar/base/errors"
	"cogentcore.org/xyzar/config"
	"cogentcore.org/xyzar/gpu"
	"cogentcore.org/xyzar/render"
	"cogentcore.org/xyzar/telemetry"
	"cogentcore.org/xyzar/xyz"
)

// Snapshot is the most recent telemetry applied to the viewer.
type Snapshot struct {
	DistanceCm float32
	Pitch      float32
	Image      image.Image
	Format     telemetry.Formats
	Time       time.Time
}

// Viewer runs the configured mode on a graphics device. The lifecycle
// callbacks must be called on the goroutine that owns the graphics
// context; [Viewer.Start] runs background work on other goroutines.
// A teardown pauses the viewer, and a later [Viewer.Start] and
// [Viewer.OnContextCreated] resume it with the same scene.
// [Viewer.Close] ends it for good.
type Viewer struct {

	// Config is the configuration the viewer was made with.
	Config *config.Config

	// Renderer is the frame render pipeline.
	Renderer *render.Renderer

	// Scene is the scene in AR mode, and nil otherwise.
	Scene *xyz.Scene

	// Manager is the anchor manager in AR mode, and nil otherwise.
	Manager *ar.Manager

	// Player plays the tracking script in AR mode, if there is one.
	Player *ar.Player

	// Now returns the current time, and defaults to [time.Now].
	Now func() time.Time

	source telemetry.Source

	// life is canceled by Close, and bounds the content builds.
	life      context.Context
	closeLife context.CancelFunc

	// cancel and group belong to the current Start.
	cancel context.CancelFunc
	group  *errgroup.Group

	// started is when the current context was created, and played is
	// the script time accumulated before it.
	started time.Time
	played  time.Duration

	snapshot atomic.Pointer[Snapshot]
	paused   bool
	closed   bool
}

// New returns a viewer for the configuration, drawing on the given
// device. The telemetry source is optional, and only used in
// standalone mode.
func New(cfg *config.Config, dev gpu.Device, source telemetry.Source) (*Viewer, error) {
	params, err := cfg.Render.Params()
	if err != nil {
		return nil, err
	}
	v := &Viewer{
		Config:   cfg,
		Renderer: render.NewRenderer(dev, params),
		Now:      time.Now,
		source:   source,
	}
	v.life, v.closeLife = context.WithCancel(context.Background())

	if cfg.Shaders.Vertex != "" || cfg.Shaders.Fragment != "" {
		vert, frag, err := v.readShaders()
		if err != nil {
			v.closeLife()
			return nil, err
		}
		v.Renderer.SetShaderSources(vert, frag)
	}

	builder := cfg.Assets.Builder()
	switch cfg.Mode {
	case config.Standalone:
		src, err := cfg.Assets.ModelSource()
		if err != nil {
			v.closeLife()
			return nil, err
		}
		v.Renderer.SetModel(builder.Build(v.life, src))
	case config.AR:
		srcs, err := cfg.Assets.Sources()
		if err != nil {
			v.closeLife()
			return nil, err
		}
		v.Scene = xyz.NewScene("scene")
		v.Manager = ar.NewManager(v.Scene, ar.BuildContent(v.life, builder, srcs), nil)
		v.Renderer.SetScene(v.Scene)
		if cfg.AR.Script != "" {
			scr, err := ar.OpenScript(cfg.AR.Script)
			if err != nil {
				v.closeLife()
				return nil, fmt.Errorf("viewer: %w", err)
			}
			v.Player = &ar.Player{Script: scr, Manager: v.Manager}
		}
	}
	return v, nil
}

// Start starts the background work: the telemetry consumer and the
// shader file watcher. It stops when the context is done or at
// [Viewer.OnTeardown]. Starting again replaces the previous work, and
// subscribes to the telemetry anew.
func (v *Viewer) Start(ctx context.Context) {
	if v.closed {
		return
	}
	errors.Log(v.stop())
	ctx, v.cancel = context.WithCancel(ctx)
	v.group, ctx = errgroup.WithContext(ctx)
	if v.source != nil && v.Config.Mode == config.Standalone {
		v.group.Go(func() error {
			return v.consume(ctx)
		})
	}
	if v.Config.Shaders.Watch {
		v.group.Go(func() error {
			return v.watchShaders(ctx)
		})
	}
}

// stop cancels the background work and waits for it to finish.
func (v *Viewer) stop() error {
	if v.cancel == nil {
		return nil
	}
	v.cancel()
	err := v.group.Wait()
	v.cancel, v.group = nil, nil
	return err
}

// Snapshot returns the most recent telemetry, or nil if there has been none.
func (v *Viewer) Snapshot() *Snapshot {
	return v.snapshot.Load()
}

// OnContextCreated sets up a new graphics context, resuming the
// viewer after a teardown.
func (v *Viewer) OnContextCreated() error {
	if v.closed {
		return nil
	}
	v.holdClock()
	v.paused = false
	v.started = v.Now()
	return v.Renderer.OnContextCreated()
}

// OnSurfaceResized adapts to a new surface size.
func (v *Viewer) OnSurfaceResized(width, height int) {
	if v.paused || v.closed {
		return
	}
	v.Renderer.OnSurfaceResized(width, height)
}

// OnDrawTick applies pending tracking updates and draws a frame.
// The tracking script only advances while the viewer is running.
func (v *Viewer) OnDrawTick() error {
	if v.paused || v.closed {
		return nil
	}
	if v.Player != nil {
		if err := v.Player.Advance(v.playTime()); err != nil {
			return err
		}
	} else if v.Manager != nil {
		if err := v.Manager.Update(ar.Frame{}); err != nil {
			return err
		}
	}
	return v.Renderer.OnDrawTick()
}

func (v *Viewer) playTime() time.Duration {
	return v.played + v.Now().Sub(v.started)
}

// holdClock folds the script time of the current context into played.
func (v *Viewer) holdClock() {
	if !v.paused && !v.started.IsZero() {
		v.played = v.playTime()
	}
}

// Update passes a frame from a live tracking service to the anchor
// manager. It does nothing outside of AR mode or while paused.
func (v *Viewer) Update(frame ar.Frame) error {
	if v.paused || v.closed || v.Manager == nil {
		return nil
	}
	return v.Manager.Update(frame)
}

// Tap places a model at the hit pose in AR mode.
func (v *Viewer) Tap(hit ar.HitResult) bool {
	if v.paused || v.closed || v.Manager == nil {
		return false
	}
	return v.Manager.Tap(hit)
}

// OnTeardown pauses the viewer: it stops the background work, waits
// for it to finish and releases all graphics resources. The scene and
// its anchors are kept for when the viewer resumes. It returns the
// first error from the background work.
func (v *Viewer) OnTeardown() error {
	if v.closed {
		return nil
	}
	err := v.stop()
	v.holdClock()
	v.paused = true
	v.Renderer.OnTeardown()
	slog.Info("viewer paused")
	return err
}

// Close tears the viewer down for good: it also cancels content
// builds and destroys all anchors. Later calls do nothing.
func (v *Viewer) Close() error {
	if v.closed {
		return nil
	}
	err := v.OnTeardown()
	v.closed = true
	v.closeLife()
	if v.Manager != nil {
		v.Manager.Reset()
	}
	slog.Info("viewer closed")
	return err
}

func (v *Viewer) consume(ctx context.Context) error {
	for rd := range v.source.Subscribe(ctx) {
		v.apply(rd)
	}
	return nil
}

// apply publishes the orientation for the reading and decodes its image.
func (v *Viewer) apply(rd telemetry.Reading) {
	maxd := v.Config.Telemetry.MaxDistanceCm
	v.Renderer.SetOrientation(telemetry.Orientation(rd.DistanceCm, maxd))
	snap := &Snapshot{DistanceCm: rd.DistanceCm, Pitch: telemetry.Pitch(rd.DistanceCm, maxd), Time: v.Now()}
	if len(rd.Image) > 0 {
		img, f, err := telemetry.DecodeImage(rd.Image, v.Config.Telemetry.ThumbnailSize)
		if errors.Log(err) == nil {
			snap.Image, snap.Format = img, f
		}
	}
	v.snapshot.Store(snap)
	slog.Debug("telemetry applied", "distance", rd.DistanceCm, "pitch", snap.Pitch)
}
