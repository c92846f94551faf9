// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/xyzar/math32"
)

func vertex(a []float32, i uint32) math32.Vector3 {
	return math32.Vec3(a[3*i], a[3*i+1], a[3*i+2])
}

// checkWinding verifies that every triangle is counter-clockwise
// when seen from the side its normal points to.
func checkWinding(t *testing.T, ms *Mesh) {
	t.Helper()
	for i := 0; i < len(ms.Indices); i += 3 {
		i0, i1, i2 := ms.Indices[i], ms.Indices[i+1], ms.Indices[i+2]
		p0 := vertex(ms.Coords, i0)
		face := vertex(ms.Coords, i1).Sub(p0).Cross(vertex(ms.Coords, i2).Sub(p0))
		assert.Greater(t, face.Dot(vertex(ms.Normals, i0)), float32(0), "triangle %d", i/3)
	}
}

func TestCube(t *testing.T) {
	ms := NewCube("cube", 0.5)
	require.NoError(t, ms.Validate())
	assert.Equal(t, 24, ms.NumVertices())
	assert.Equal(t, 36, ms.NumIndices())
	checkWinding(t, ms)

	for i := uint32(0); i < uint32(ms.NumVertices()); i++ {
		p := vertex(ms.Coords, i)
		assert.InDelta(t, 0.25, math32.Abs(p.X), 1e-6)
		assert.InDelta(t, 0.25, math32.Abs(p.Y), 1e-6)
		assert.InDelta(t, 0.25, math32.Abs(p.Z), 1e-6)
		// normals point away from the center
		assert.Greater(t, p.Dot(vertex(ms.Normals, i)), float32(0))
	}
}

func TestPanel(t *testing.T) {
	ms := NewPanel("panel", 0.2, 0.1)
	require.NoError(t, ms.Validate())
	assert.Equal(t, 8, ms.NumVertices())
	assert.Equal(t, 12, ms.NumIndices())
	checkWinding(t, ms)
	for i := uint32(0); i < uint32(ms.NumVertices()); i++ {
		p := vertex(ms.Coords, i)
		assert.Equal(t, float32(0), p.Z)
		assert.InDelta(t, 0.1, math32.Abs(p.X), 1e-6)
		assert.InDelta(t, 0.05, math32.Abs(p.Y), 1e-6)
	}
}

func TestValidate(t *testing.T) {
	ms := &Mesh{Name: "bad", Coords: []float32{0, 0, 0}, Normals: []float32{0, 0, 1}, Indices: []uint32{0, 0, 1}}
	assert.Error(t, ms.Validate())
	ms.Indices = []uint32{0, 0}
	assert.Error(t, ms.Validate())
	ms.Indices = []uint32{0, 0, 0}
	assert.NoError(t, ms.Validate())
	ms.Normals = nil
	assert.Error(t, ms.Validate())
}
