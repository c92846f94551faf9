// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"image/color"

	"cogentcore.org/xyzar/shape"
	"cogentcore.org/xyzar/tree"
)

// Renderable is an immutable handle to drawable content: a mesh and
// a surface color. It is produced asynchronously and never modified
// once published, so it is shared between nodes without copying.
type Renderable struct {
	Name  string
	Mesh  *shape.Mesh
	Color color.RGBA
}

// Solid represents an individual 3D solid element.
// It has its own unique spatial transforms and points to the
// renderable defining its shape and color. A nil Renderable
// means the content is not ready yet and the solid is skipped
// when drawing.
type Solid struct {
	NodeBase

	// Renderable is the content to draw, shared by reference.
	Renderable *Renderable `copier:"-"`
}

func (sld *Solid) IsSolid() bool {
	return true
}

func (sld *Solid) AsSolid() *Solid {
	return sld
}

// CopyFieldsFrom copies the fields and shares the renderable of the
// given solid.
func (sld *Solid) CopyFieldsFrom(from tree.Node) {
	sld.NodeBase.CopyFieldsFrom(from)
	if fn, ok := from.(Node); ok && fn.AsSolid() != nil {
		sld.Renderable = fn.AsSolid().Renderable
	}
}

// Manipulable is a solid that the user can select and move,
// placed by a tap.
type Manipulable struct {
	Solid

	// Selected is whether this is the current selection.
	Selected bool
}

// test for impl
var (
	_ Node = &Solid{}
	_ Node = &Manipulable{}
)
