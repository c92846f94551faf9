// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shape provides immutable triangle mesh geometry:
// interleaved-free coordinate, normal and index arrays ready
// for upload as vertex buffers.
package shape

import (
	"fmt"

	"cogentcore.org/xyzar/math32"
)

// Mesh is indexed triangle geometry. Coords and Normals hold three
// floats per vertex; Indices holds three vertex indices per triangle.
// A Mesh is not modified after construction, so it can be shared freely
// between goroutines and scene nodes.
type Mesh struct {

	// Name identifies the mesh in logs.
	Name string

	// Coords are the vertex positions, x, y, z per vertex.
	Coords []float32

	// Normals are the vertex normals, x, y, z per vertex.
	Normals []float32

	// Indices are the triangle vertex indices, counter-clockwise when
	// seen from the front.
	Indices []uint32
}

// NumVertices returns the number of vertices in the mesh.
func (ms *Mesh) NumVertices() int {
	return len(ms.Coords) / 3
}

// NumIndices returns the number of indices in the mesh.
func (ms *Mesh) NumIndices() int {
	return len(ms.Indices)
}

// Validate checks that the arrays are consistent with each other.
func (ms *Mesh) Validate() error {
	if len(ms.Coords)%3 != 0 {
		return fmt.Errorf("shape.Mesh %q: coords length %d is not a multiple of 3", ms.Name, len(ms.Coords))
	}
	if len(ms.Normals) != len(ms.Coords) {
		return fmt.Errorf("shape.Mesh %q: %d normals for %d coords", ms.Name, len(ms.Normals), len(ms.Coords))
	}
	if len(ms.Indices)%3 != 0 {
		return fmt.Errorf("shape.Mesh %q: index length %d is not a multiple of 3", ms.Name, len(ms.Indices))
	}
	nv := uint32(ms.NumVertices())
	for i, idx := range ms.Indices {
		if idx >= nv {
			return fmt.Errorf("shape.Mesh %q: index %d at %d out of range for %d vertices", ms.Name, idx, i, nv)
		}
	}
	return nil
}

// addQuad appends a quad centered at c with normal n, spanned by the
// unit axes u and v (u × v = n) scaled by the half extents hu and hv.
func (ms *Mesh) addQuad(c, n, u, v math32.Vector3, hu, hv float32) {
	base := uint32(ms.NumVertices())
	du := u.MulScalar(hu)
	dv := v.MulScalar(hv)
	corners := [4]math32.Vector3{
		c.Sub(du).Sub(dv),
		c.Add(du).Sub(dv),
		c.Add(du).Add(dv),
		c.Sub(du).Add(dv),
	}
	for _, p := range corners {
		ms.Coords = append(ms.Coords, p.X, p.Y, p.Z)
		ms.Normals = append(ms.Normals, n.X, n.Y, n.Z)
	}
	ms.Indices = append(ms.Indices, base, base+1, base+2, base, base+2, base+3)
}
