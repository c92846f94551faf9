// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"log/slog"
)

// Names of the uniforms and attributes of the lighting program.
const (
	UMVMatrix      = "u_mvMatrix"
	UMVPMatrix     = "u_mvpMatrix"
	ULightPosition = "u_lightPosition"
	UColor         = "u_color"

	APosition = "a_Position"
	ANormal   = "a_Normal"
)

// ProgramContext is a linked vertex and fragment shader program with its
// uniform and attribute slots resolved. It belongs to one graphics
// context and must be rebuilt when that context is recreated.
type ProgramContext struct {

	// Program is the linked program handle.
	Program Handle

	// MVMatrix is the model-view matrix uniform slot.
	MVMatrix Slot

	// MVPMatrix is the model-view-projection matrix uniform slot.
	MVPMatrix Slot

	// LightPosition is the view-space light position uniform slot.
	LightPosition Slot

	// Color is the surface color uniform slot. It is optional, and
	// [NoSlot] when the fragment pipeline does not use it.
	Color Slot

	// Position is the vertex position attribute slot.
	Position Slot

	// Normal is the vertex normal attribute slot.
	Normal Slot

	dev   Device
	stale bool
}

// NewProgramContext compiles the given vertex and fragment shader sources,
// links them with [APosition] and [ANormal] bound to locations 0 and 1,
// and resolves all required slots. Any failure is returned wrapping
// [ErrCompile], [ErrLink] or [ErrMissingSlot]; nothing is retried.
func NewProgramContext(dev Device, vertSrc, fragSrc string) (*ProgramContext, error) {
	vs, err := dev.CompileShader(VertexShader, vertSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v shader: %w", ErrCompile, VertexShader, err)
	}
	defer dev.DeleteShader(vs)
	fs, err := dev.CompileShader(FragmentShader, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v shader: %w", ErrCompile, FragmentShader, err)
	}
	defer dev.DeleteShader(fs)

	prog, err := dev.LinkProgram([]Handle{vs, fs}, APosition, ANormal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLink, err)
	}
	pc := &ProgramContext{Program: prog, dev: dev}

	uniforms := []struct {
		name string
		slot *Slot
	}{
		{UMVMatrix, &pc.MVMatrix},
		{UMVPMatrix, &pc.MVPMatrix},
		{ULightPosition, &pc.LightPosition},
	}
	for _, u := range uniforms {
		*u.slot = dev.UniformLocation(prog, u.name)
		if !u.slot.Valid() {
			dev.DeleteProgram(prog)
			return nil, fmt.Errorf("%w: uniform %s", ErrMissingSlot, u.name)
		}
	}
	attribs := []struct {
		name string
		slot *Slot
	}{
		{APosition, &pc.Position},
		{ANormal, &pc.Normal},
	}
	for _, a := range attribs {
		*a.slot = dev.AttribLocation(prog, a.name)
		if !a.slot.Valid() {
			dev.DeleteProgram(prog)
			return nil, fmt.Errorf("%w: attribute %s", ErrMissingSlot, a.name)
		}
	}
	pc.Color = dev.UniformLocation(prog, UColor)
	slog.Debug("gpu program linked", "program", prog, "mv", pc.MVMatrix, "mvp", pc.MVPMatrix, "light", pc.LightPosition, "position", pc.Position, "normal", pc.Normal)
	return pc, nil
}

// Valid returns whether the context can still be used.
func (pc *ProgramContext) Valid() bool {
	return pc != nil && !pc.stale
}

// Use makes the program current. It returns [ErrStale] after [ProgramContext.Release].
func (pc *ProgramContext) Use() error {
	if !pc.Valid() {
		return ErrStale
	}
	pc.dev.UseProgram(pc.Program)
	return nil
}

// Release deletes the program and marks the context stale.
// It is safe to call more than once.
func (pc *ProgramContext) Release() {
	if !pc.Valid() {
		return
	}
	pc.dev.DeleteProgram(pc.Program)
	pc.stale = true
}

// Invalidate marks the context stale without deleting the program,
// for use when the graphics context has already been destroyed and
// its objects went with it.
func (pc *ProgramContext) Invalidate() {
	if pc != nil {
		pc.stale = true
	}
}
