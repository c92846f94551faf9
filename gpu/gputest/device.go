// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gputest provides a recording [gpu.Device] that runs without a
// graphics context, for testing the render pipeline.
package gputest

import (
	"errors"
	"image"
	"image/color"
	"strings"

	"cogentcore.org/xyzar/gpu"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/shape"
)

// Slot locations the fake assigns to known names.
var (
	UniformSlots = map[string]gpu.Slot{
		gpu.UMVMatrix:      0,
		gpu.UMVPMatrix:     1,
		gpu.ULightPosition: 2,
		gpu.UColor:         3,
	}
	AttribSlots = map[string]gpu.Slot{
		gpu.APosition: 0,
		gpu.ANormal:   1,
	}
)

// Draw records the uniform state at the time of an indexed draw.
type Draw struct {
	Program    gpu.Handle
	Mesh       gpu.MeshBuffers
	MVMatrix   math32.Matrix4
	MVPMatrix  math32.Matrix4
	Light      math32.Vector3
	Color      math32.Vector4
	Attributes map[gpu.Slot]gpu.Handle
}

// Device is a fake [gpu.Device] that records what it is asked to do.
// Shader sources that are empty or contain "#error" fail to compile.
type Device struct {

	// CompileErr, when set for a shader type, fails every compile of that type.
	CompileErr map[gpu.ShaderTypes]error

	// LinkErr, when set, fails every link.
	LinkErr error

	// UploadErr, when set, fails every mesh upload.
	UploadErr error

	// Missing lists uniform and attribute names reported as absent.
	Missing map[string]bool

	ClearColorValue color.RGBA
	Enabled         gpu.Capabilities
	ViewportSize    image.Point
	Clears          int
	Current         gpu.Handle

	// Live programs, shaders and mesh vertex arrays.
	Programs map[gpu.Handle]bool
	Shaders  map[gpu.Handle]bool
	Meshes   map[gpu.Handle]gpu.MeshBuffers

	// Uploads counts mesh uploads.
	Uploads int

	Draws []Draw

	// Calls is the sequence of method names called.
	Calls []string

	next     gpu.Handle
	uniforms map[gpu.Slot]any
	attribs  map[gpu.Slot]gpu.Handle
}

// NewDevice returns a new fake device.
func NewDevice() *Device {
	return &Device{
		Programs: map[gpu.Handle]bool{},
		Shaders:  map[gpu.Handle]bool{},
		Meshes:   map[gpu.Handle]gpu.MeshBuffers{},
		uniforms: map[gpu.Slot]any{},
		attribs:  map[gpu.Slot]gpu.Handle{},
	}
}

func (d *Device) handle() gpu.Handle {
	d.next++
	return d.next
}

func (d *Device) call(name string) {
	d.Calls = append(d.Calls, name)
}

// Count returns how many times the named method was called.
func (d *Device) Count(name string) int {
	n := 0
	for _, c := range d.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls and draws, keeping live objects.
func (d *Device) Reset() {
	d.Calls = nil
	d.Draws = nil
	d.Clears = 0
}

func (d *Device) ClearColor(c color.RGBA) {
	d.call("ClearColor")
	d.ClearColorValue = c
}

func (d *Device) Enable(caps gpu.Capabilities) {
	d.call("Enable")
	d.Enabled |= caps
}

func (d *Device) Viewport(width, height int) {
	d.call("Viewport")
	d.ViewportSize = image.Pt(width, height)
}

func (d *Device) Clear(color, depth bool) {
	d.call("Clear")
	d.Clears++
}

func (d *Device) CompileShader(typ gpu.ShaderTypes, src string) (gpu.Handle, error) {
	d.call("CompileShader")
	if err := d.CompileErr[typ]; err != nil {
		return 0, err
	}
	if strings.TrimSpace(src) == "" || strings.Contains(src, "#error") {
		return 0, errors.New("0:1: syntax error")
	}
	h := d.handle()
	d.Shaders[h] = true
	return h, nil
}

func (d *Device) DeleteShader(sh gpu.Handle) {
	d.call("DeleteShader")
	delete(d.Shaders, sh)
}

func (d *Device) LinkProgram(shaders []gpu.Handle, attribs ...string) (gpu.Handle, error) {
	d.call("LinkProgram")
	if d.LinkErr != nil {
		return 0, d.LinkErr
	}
	for _, sh := range shaders {
		if !d.Shaders[sh] {
			return 0, errors.New("attached shader is not compiled")
		}
	}
	h := d.handle()
	d.Programs[h] = true
	return h, nil
}

func (d *Device) UniformLocation(prog gpu.Handle, name string) gpu.Slot {
	return d.location(UniformSlots, name)
}

func (d *Device) AttribLocation(prog gpu.Handle, name string) gpu.Slot {
	return d.location(AttribSlots, name)
}

func (d *Device) location(slots map[string]gpu.Slot, name string) gpu.Slot {
	if d.Missing[name] {
		return gpu.NoSlot
	}
	if sl, ok := slots[name]; ok {
		return sl
	}
	return gpu.NoSlot
}

func (d *Device) UseProgram(prog gpu.Handle) {
	d.call("UseProgram")
	d.Current = prog
}

func (d *Device) DeleteProgram(prog gpu.Handle) {
	d.call("DeleteProgram")
	delete(d.Programs, prog)
	if d.Current == prog {
		d.Current = 0
	}
}

func (d *Device) UploadMesh(ms *shape.Mesh) (gpu.MeshBuffers, error) {
	d.call("UploadMesh")
	if d.UploadErr != nil {
		return gpu.MeshBuffers{}, d.UploadErr
	}
	d.Uploads++
	mb := gpu.MeshBuffers{VertexArray: d.handle(), Coords: d.handle(), Normals: d.handle(), Indices: d.handle(), NumIndices: ms.NumIndices()}
	d.Meshes[mb.VertexArray] = mb
	return mb, nil
}

func (d *Device) ReleaseMesh(mb gpu.MeshBuffers) {
	d.call("ReleaseMesh")
	delete(d.Meshes, mb.VertexArray)
}

func (d *Device) VertexAttrib(mb gpu.MeshBuffers, slot gpu.Slot, buf gpu.Handle, size int) {
	d.call("VertexAttrib")
	d.attribs[slot] = buf
}

func (d *Device) UniformMatrix4(slot gpu.Slot, m *math32.Matrix4) {
	d.call("UniformMatrix4")
	d.uniforms[slot] = *m
}

func (d *Device) Uniform3(slot gpu.Slot, v math32.Vector3) {
	d.call("Uniform3")
	d.uniforms[slot] = v
}

func (d *Device) Uniform4(slot gpu.Slot, v math32.Vector4) {
	d.call("Uniform4")
	d.uniforms[slot] = v
}

func (d *Device) DrawIndexed(mb gpu.MeshBuffers) {
	d.call("DrawIndexed")
	dr := Draw{Program: d.Current, Mesh: mb, Attributes: map[gpu.Slot]gpu.Handle{}}
	dr.MVMatrix, _ = d.uniforms[UniformSlots[gpu.UMVMatrix]].(math32.Matrix4)
	dr.MVPMatrix, _ = d.uniforms[UniformSlots[gpu.UMVPMatrix]].(math32.Matrix4)
	dr.Light, _ = d.uniforms[UniformSlots[gpu.ULightPosition]].(math32.Vector3)
	dr.Color, _ = d.uniforms[UniformSlots[gpu.UColor]].(math32.Vector4)
	for k, v := range d.attribs {
		dr.Attributes[k] = v
	}
	d.Draws = append(d.Draws, dr)
}

var _ gpu.Device = (*Device)(nil)
