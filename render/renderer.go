// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render is the per-frame transform and draw pipeline. A
// [Renderer] is driven by the four callbacks of a graphics context host
// and computes the model, view and projection matrices for every ready
// drawable on each tick.
package render

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"cogentcore.org/xyzar/asset"
	"cogentcore.org/xyzar/base/errors"
	"cogentcore.org/xyzar/gpu"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/xyz"
)

// States are the states of the [Renderer] lifecycle.
type States int32

const (
	// Uninitialized is the state before a graphics context exists
	// and after teardown.
	Uninitialized States = iota

	// SurfaceReady is the state after the context has been created
	// and before the surface has a size.
	SurfaceReady

	// SurfaceResized is the state after the surface has a size,
	// until the first tick.
	SurfaceResized

	// Rendering is the state once ticks are drawing.
	Rendering
)

var stateNames = [...]string{"Uninitialized", "SurfaceReady", "SurfaceResized", "Rendering"}

func (s States) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("States(%d)", int32(s))
	}
	return stateNames[s]
}

// FrameState holds the matrices of the current draw. It is reused
// across frames.
type FrameState struct {
	Model      math32.Matrix4
	View       math32.Matrix4
	Projection math32.Matrix4
	MV         math32.Matrix4
	MVP        math32.Matrix4

	// Light is the light position in view space.
	Light math32.Vector4
}

type shaderSources struct {
	vert, frag string
}

// Renderer is the frame render pipeline. Its lifecycle callbacks must
// all be called on the goroutine that owns the graphics context.
// [Renderer.SetOrientation] and [Renderer.SetShaderSources] may be
// called from any goroutine.
type Renderer struct {

	// Params are the camera, lighting and animation parameters.
	// Changes take effect on the next context creation or resize.
	Params Params

	// Frame is the state of the most recent draw.
	Frame FrameState

	// Now returns the current time, and defaults to [time.Now].
	Now func() time.Time

	dev     gpu.Device
	state   States
	program *gpu.ProgramContext
	meshes  *gpu.MeshCache
	start   time.Time

	model       *asset.Future[*xyz.Renderable]
	modelFailed bool
	scene       *xyz.Scene

	vertSrc, fragSrc string
	pendingSrc       atomic.Pointer[shaderSources]
	orientation      atomic.Pointer[math32.Matrix4]
}

// NewRenderer returns a renderer drawing on the given device with the
// default shaders.
func NewRenderer(dev gpu.Device, params Params) *Renderer {
	r := &Renderer{
		Params:  params,
		Now:     time.Now,
		dev:     dev,
		meshes:  gpu.NewMeshCache(dev),
		vertSrc: gpu.DefaultVertexShader,
		fragSrc: gpu.DefaultFragmentShader,
	}
	r.SetOrientation(PitchMatrix(params.Pitch))
	return r
}

// State returns the current lifecycle state.
func (r *Renderer) State() States {
	return r.state
}

// Program returns the current program context, which is nil before
// the first context creation.
func (r *Renderer) Program() *gpu.ProgramContext {
	return r.program
}

// SetModel sets the standalone model, drawn in front of the camera
// with the current orientation once the future resolves.
func (r *Renderer) SetModel(model *asset.Future[*xyz.Renderable]) {
	r.model = model
	r.modelFailed = false
}

// SetScene sets the scene whose ready solids are drawn with their
// world transforms. Scene nodes are in world space, so the view
// matrix is the only camera transform applied to them.
func (r *Renderer) SetScene(sc *xyz.Scene) {
	r.scene = sc
}

// SetOrientation publishes the orientation of the standalone model.
func (r *Renderer) SetOrientation(m math32.Matrix4) {
	r.orientation.Store(&m)
}

// Orientation returns the current orientation of the standalone model.
func (r *Renderer) Orientation() math32.Matrix4 {
	return *r.orientation.Load()
}

// SetShaderSources replaces the shader sources. The program is rebuilt
// from them on the next tick.
func (r *Renderer) SetShaderSources(vert, frag string) {
	r.pendingSrc.Store(&shaderSources{vert: vert, frag: frag})
}

// OnContextCreated configures the new graphics context and builds the
// program context. Everything that belonged to a previous context is
// dropped. An error is fatal.
func (r *Renderer) OnContextCreated() error {
	if src := r.pendingSrc.Swap(nil); src != nil {
		r.vertSrc, r.fragSrc = src.vert, src.frag
	}
	r.state = Uninitialized
	r.program.Invalidate()
	r.program = nil
	r.meshes.Forget()

	r.dev.ClearColor(r.Params.ClearColor)
	r.dev.Enable(gpu.CullFace | gpu.DepthTest)

	pc, err := gpu.NewProgramContext(r.dev, r.vertSrc, r.fragSrc)
	if err != nil {
		return fmt.Errorf("render: building program: %w", err)
	}
	r.program = pc
	r.Frame.View.SetLookAt(r.Params.Eye, r.Params.Center, r.Params.Up)
	r.state = SurfaceReady
	slog.Info("render context created", "program", pc.Program)
	return nil
}

// OnSurfaceResized sets the viewport and projection for the new surface
// size and restarts the animation clock. It is ignored before
// [Renderer.OnContextCreated] and for an empty surface.
func (r *Renderer) OnSurfaceResized(width, height int) {
	if r.state == Uninitialized || width <= 0 || height <= 0 {
		return
	}
	r.dev.Viewport(width, height)
	ratio := float32(width) / float32(height)
	r.Frame.Projection.SetFrustum(-ratio, ratio, -1, 1, r.Params.Near, r.Params.Far)
	r.start = r.Now()
	r.state = SurfaceResized
	slog.Debug("render surface resized", "width", width, "height", height)
}

// OnDrawTick draws one frame. Ticks before the first resize and after
// teardown do nothing, and content that is not ready yet is skipped.
// An error is fatal.
func (r *Renderer) OnDrawTick() error {
	if r.state < SurfaceResized {
		return nil
	}
	if src := r.pendingSrc.Swap(nil); src != nil {
		if err := r.rebuild(src); err != nil {
			return err
		}
	}
	if err := r.program.Use(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	r.state = Rendering
	r.dev.Clear(true, true)
	r.Frame.Light = r.Params.Light.MulMatrix4(&r.Frame.View)

	if rd := r.readyModel(); rd != nil {
		r.Frame.Model.SetTranslation(0, 0, -r.Params.Distance)
		orient := r.Orientation()
		r.Frame.Model.SetMul(&orient)
		if r.Params.Spin != (math32.Vector3{}) {
			angle := Animate(r.Now().Sub(r.start), r.Params.Period)
			r.Frame.Model.Rotate(angle, r.Params.Spin.X, r.Params.Spin.Y, r.Params.Spin.Z)
		}
		if err := r.draw(rd); err != nil {
			return err
		}
	}
	if r.scene != nil {
		return r.scene.Drawables(func(d *xyz.Drawable) error {
			r.Frame.Model = d.World
			return r.draw(d.Renderable)
		})
	}
	return nil
}

// OnTeardown releases the program and mesh buffers. Later callbacks
// other than [Renderer.OnContextCreated] do nothing.
func (r *Renderer) OnTeardown() {
	if r.state == Uninitialized {
		return
	}
	r.program.Release()
	r.meshes.Release()
	r.state = Uninitialized
	slog.Info("render torn down")
}

func (r *Renderer) rebuild(src *shaderSources) error {
	pc, err := gpu.NewProgramContext(r.dev, src.vert, src.frag)
	if err != nil {
		return fmt.Errorf("render: rebuilding program: %w", err)
	}
	r.program.Release()
	r.program = pc
	r.vertSrc, r.fragSrc = src.vert, src.frag
	slog.Info("render program rebuilt", "program", pc.Program)
	return nil
}

// readyModel returns the standalone model if it has been built.
// A failed build is logged once and the model stays absent.
func (r *Renderer) readyModel() *xyz.Renderable {
	if r.model == nil || r.modelFailed {
		return nil
	}
	rd, ok, err := r.model.Poll()
	if !ok {
		return nil
	}
	if err != nil {
		errors.Log(fmt.Errorf("render: model: %w", err))
		r.modelFailed = true
		return nil
	}
	return rd
}

// draw binds the mesh of the renderable, computes the model-view and
// model-view-projection matrices from the current model matrix,
// uploads the uniforms and issues one indexed draw.
func (r *Renderer) draw(rd *xyz.Renderable) error {
	if rd == nil || rd.Mesh == nil {
		return nil
	}
	mb, err := r.meshes.Buffers(rd.Mesh)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	pc := r.program
	r.dev.VertexAttrib(mb, pc.Position, mb.Coords, 3)
	r.dev.VertexAttrib(mb, pc.Normal, mb.Normals, 3)

	fs := &r.Frame
	fs.MV.MulMatrices(&fs.View, &fs.Model)
	fs.MVP.MulMatrices(&fs.Projection, &fs.MV)
	r.dev.UniformMatrix4(pc.MVMatrix, &fs.MV)
	r.dev.UniformMatrix4(pc.MVPMatrix, &fs.MVP)
	r.dev.Uniform3(pc.LightPosition, fs.Light.Vector3())
	if pc.Color.Valid() {
		c := rd.Color
		r.dev.Uniform4(pc.Color, math32.Vec4(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255))
	}
	r.dev.DrawIndexed(mb)
	return nil
}
