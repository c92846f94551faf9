// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package glgpu implements [gpu.Device] on OpenGL 3.3 core profile.
// All calls must be made on the goroutine where the context is current.
package glgpu

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"cogentcore.org/xyzar/gpu"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/shape"
)

// Device is the OpenGL graphics context.
type Device struct{}

// Init loads the OpenGL function pointers for the current context
// and returns a new Device.
func Init() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("glgpu: init: %w", err)
	}
	slog.Info("OpenGL initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)), "renderer", gl.GoStr(gl.GetString(gl.RENDERER)))
	return &Device{}, nil
}

func (d *Device) ClearColor(c color.RGBA) {
	gl.ClearColor(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
}

func (d *Device) Enable(caps gpu.Capabilities) {
	if caps&gpu.CullFace != 0 {
		gl.Enable(gl.CULL_FACE)
	}
	if caps&gpu.DepthTest != 0 {
		gl.Enable(gl.DEPTH_TEST)
	}
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears the given properties of the current render target
func (d *Device) Clear(color, depth bool) {
	bits := uint32(0)
	if color {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

var glShaders = map[gpu.ShaderTypes]uint32{
	gpu.VertexShader:   gl.VERTEX_SHADER,
	gpu.FragmentShader: gl.FRAGMENT_SHADER,
}

// CompileShader compiles given source code for the shader.
// The source does not need to be null terminated.
func (d *Device) CompileShader(typ gpu.ShaderTypes, src string) (gpu.Handle, error) {
	handle := gl.CreateShader(glShaders[typ])
	csources, free := gl.Strs(cString(src))
	gl.ShaderSource(handle, 1, csources, nil)
	free()
	gl.CompileShader(handle)

	var status int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteShader(handle)
		return 0, errors.New(strings.TrimRight(msg, "\x00"))
	}
	return gpu.Handle(handle), nil
}

func (d *Device) DeleteShader(sh gpu.Handle) {
	gl.DeleteShader(uint32(sh))
}

// LinkProgram links the shaders, binding attribs to locations in order.
func (d *Device) LinkProgram(shaders []gpu.Handle, attribs ...string) (gpu.Handle, error) {
	handle := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(handle, uint32(sh))
	}
	for i, nm := range attribs {
		gl.BindAttribLocation(handle, uint32(i), gl.Str(cString(nm)))
	}
	gl.LinkProgram(handle)
	for _, sh := range shaders {
		gl.DetachShader(handle, uint32(sh))
	}

	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		msg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(msg))
		gl.DeleteProgram(handle)
		return 0, errors.New(strings.TrimRight(msg, "\x00"))
	}
	return gpu.Handle(handle), nil
}

func (d *Device) UniformLocation(prog gpu.Handle, name string) gpu.Slot {
	return gpu.Slot(gl.GetUniformLocation(uint32(prog), gl.Str(cString(name))))
}

func (d *Device) AttribLocation(prog gpu.Handle, name string) gpu.Slot {
	return gpu.Slot(gl.GetAttribLocation(uint32(prog), gl.Str(cString(name))))
}

func (d *Device) UseProgram(prog gpu.Handle) {
	gl.UseProgram(uint32(prog))
}

func (d *Device) DeleteProgram(prog gpu.Handle) {
	gl.DeleteProgram(uint32(prog))
}

// UploadMesh creates a vertex array with coordinate, normal and
// element buffers for the mesh.
func (d *Device) UploadMesh(ms *shape.Mesh) (gpu.MeshBuffers, error) {
	if ms.NumIndices() == 0 {
		return gpu.MeshBuffers{}, fmt.Errorf("glgpu: mesh %q has no indices", ms.Name)
	}
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	defer gl.BindVertexArray(0)

	var bufs [3]uint32
	gl.GenBuffers(3, &bufs[0])
	gl.BindBuffer(gl.ARRAY_BUFFER, bufs[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(ms.Coords)*4, gl.Ptr(ms.Coords), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, bufs[1])
	gl.BufferData(gl.ARRAY_BUFFER, len(ms.Normals)*4, gl.Ptr(ms.Normals), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, bufs[2])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(ms.Indices)*4, gl.Ptr(ms.Indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	mb := gpu.MeshBuffers{
		VertexArray: gpu.Handle(vao),
		Coords:      gpu.Handle(bufs[0]),
		Normals:     gpu.Handle(bufs[1]),
		Indices:     gpu.Handle(bufs[2]),
		NumIndices:  ms.NumIndices(),
	}
	if e := gl.GetError(); e != gl.NO_ERROR {
		d.ReleaseMesh(mb)
		return gpu.MeshBuffers{}, fmt.Errorf("glgpu: uploading mesh %q: gl error 0x%x", ms.Name, e)
	}
	return mb, nil
}

func (d *Device) ReleaseMesh(mb gpu.MeshBuffers) {
	bufs := [3]uint32{uint32(mb.Coords), uint32(mb.Normals), uint32(mb.Indices)}
	gl.DeleteBuffers(3, &bufs[0])
	vao := uint32(mb.VertexArray)
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) VertexAttrib(mb gpu.MeshBuffers, slot gpu.Slot, buf gpu.Handle, size int) {
	gl.BindVertexArray(uint32(mb.VertexArray))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.VertexAttribPointer(uint32(slot), int32(size), gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(uint32(slot))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) UniformMatrix4(slot gpu.Slot, m *math32.Matrix4) {
	gl.UniformMatrix4fv(int32(slot), 1, false, &m[0])
}

func (d *Device) Uniform3(slot gpu.Slot, v math32.Vector3) {
	gl.Uniform3f(int32(slot), v.X, v.Y, v.Z)
}

func (d *Device) Uniform4(slot gpu.Slot, v math32.Vector4) {
	gl.Uniform4f(int32(slot), v.X, v.Y, v.Z, v.W)
}

// DrawIndexed draws the triangles of the mesh from its element buffer.
func (d *Device) DrawIndexed(mb gpu.MeshBuffers) {
	gl.BindVertexArray(uint32(mb.VertexArray))
	gl.DrawElements(gl.TRIANGLES, int32(mb.NumIndices), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// cString returns a null-terminated version of the given string.
func cString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

var _ gpu.Device = (*Device)(nil)
