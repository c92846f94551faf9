// Copyright 2022 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import "cogentcore.org/xyzar/math32"

// NewCube returns a cube mesh centered on the origin with the given
// edge length, with one flat-shaded quad per face.
func NewCube(name string, size float32) *Mesh {
	return NewBox(name, size, size, size)
}

// NewBox returns a rectangular-shaped solid (cuboid) mesh centered on
// the origin with the given width (x), height (y) and depth (z).
func NewBox(name string, width, height, depth float32) *Mesh {
	ms := &Mesh{Name: name}
	hx, hy, hz := width/2, height/2, depth/2
	x := math32.Vec3(1, 0, 0)
	y := math32.Vec3(0, 1, 0)
	z := math32.Vec3(0, 0, 1)
	ms.addQuad(x.MulScalar(hx), x, z.MulScalar(-1), y, hz, hy)  // px
	ms.addQuad(x.MulScalar(-hx), x.MulScalar(-1), z, y, hz, hy) // nx
	ms.addQuad(y.MulScalar(hy), y, x, z.MulScalar(-1), hx, hz)  // py
	ms.addQuad(y.MulScalar(-hy), y.MulScalar(-1), x, z, hx, hz) // ny
	ms.addQuad(z.MulScalar(hz), z, x, y, hx, hy)                // pz
	ms.addQuad(z.MulScalar(-hz), z.MulScalar(-1), x.MulScalar(-1), y, hx, hy)
	return ms
}
