// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu is the graphics context abstraction used by the render
// pipeline: a [Device] exposes the small set of OpenGL-style calls the
// renderer needs, and a [ProgramContext] holds a linked shader program
// with its resolved uniform and attribute slots.
package gpu

import (
	"errors"
	"image/color"

	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/shape"
)

var (
	// ErrCompile is returned when a shader fails to compile.
	ErrCompile = errors.New("gpu: shader compile failed")

	// ErrLink is returned when a program fails to link.
	ErrLink = errors.New("gpu: program link failed")

	// ErrMissingSlot is returned when a required uniform or attribute
	// is not present in the linked program.
	ErrMissingSlot = errors.New("gpu: missing program slot")

	// ErrStale is returned when a program context is used after it
	// has been released.
	ErrStale = errors.New("gpu: stale program context")
)

// ShaderTypes is a list of GPU shader types
type ShaderTypes int32

const (
	VertexShader ShaderTypes = iota
	FragmentShader
)

func (st ShaderTypes) String() string {
	switch st {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	}
	return "unknown"
}

// Capabilities are bit flags for server-side context features.
type Capabilities int32

const (
	// CullFace removes back faces.
	CullFace Capabilities = 1 << iota

	// DepthTest enables depth testing.
	DepthTest
)

// Handle is a GPU object name (shader, program, buffer, vertex array).
// Zero is never a valid handle.
type Handle uint32

// Slot is a uniform or attribute location in a linked program.
// Negative values mean the slot is absent.
type Slot int32

// NoSlot is the location reported for names the program does not have.
const NoSlot Slot = -1

// Valid returns whether the slot refers to an actual location.
func (sl Slot) Valid() bool {
	return sl >= 0
}

// MeshBuffers holds the GPU buffers for an uploaded [shape.Mesh].
type MeshBuffers struct {
	VertexArray Handle
	Coords      Handle
	Normals     Handle
	Indices     Handle
	NumIndices  int
}

// Device is the graphics context. All methods must be called on the
// goroutine that owns the context, and handles are only meaningful
// until the context is destroyed.
type Device interface {

	// ClearColor sets the color used by Clear.
	ClearColor(c color.RGBA)

	// Enable turns on the given capabilities.
	Enable(caps Capabilities)

	// Viewport sets the viewport to the given size in pixels.
	Viewport(width, height int)

	// Clear clears the color and / or depth buffers.
	Clear(color, depth bool)

	// CompileShader compiles the given source as a shader of the given type.
	CompileShader(typ ShaderTypes, src string) (Handle, error)

	// DeleteShader deletes a compiled shader.
	DeleteShader(sh Handle)

	// LinkProgram links the given shaders into a program, binding the
	// given attribute names to locations 0, 1, ... in order before linking.
	LinkProgram(shaders []Handle, attribs ...string) (Handle, error)

	// UniformLocation returns the location of the named uniform,
	// or [NoSlot] if it is absent.
	UniformLocation(prog Handle, name string) Slot

	// AttribLocation returns the location of the named attribute,
	// or [NoSlot] if it is absent.
	AttribLocation(prog Handle, name string) Slot

	// UseProgram makes the program current.
	UseProgram(prog Handle)

	// DeleteProgram deletes a linked program.
	DeleteProgram(prog Handle)

	// UploadMesh copies the mesh arrays into new GPU buffers.
	UploadMesh(ms *shape.Mesh) (MeshBuffers, error)

	// ReleaseMesh deletes the buffers of an uploaded mesh.
	ReleaseMesh(mb MeshBuffers)

	// VertexAttrib binds the given float buffer, with size components per
	// vertex, to the attribute slot of the given mesh vertex array.
	VertexAttrib(mb MeshBuffers, slot Slot, buf Handle, size int)

	// UniformMatrix4 sets a mat4 uniform.
	UniformMatrix4(slot Slot, m *math32.Matrix4)

	// Uniform3 sets a vec3 uniform.
	Uniform3(slot Slot, v math32.Vector3)

	// Uniform4 sets a vec4 uniform.
	Uniform4(slot Slot, v math32.Vector4)

	// DrawIndexed draws the triangles of the given mesh.
	DrawIndexed(mb MeshBuffers)
}
