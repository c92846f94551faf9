// Copyright 2022 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import "cogentcore.org/xyzar/math32"

// NewPanel returns a flat two-sided rectangle mesh in the XY plane,
// centered on the origin, with the given width and height. It is used
// for control panels and labels, which must be visible from behind
// when face culling is enabled.
func NewPanel(name string, width, height float32) *Mesh {
	ms := &Mesh{Name: name}
	o := math32.Vec3(0, 0, 0)
	x := math32.Vec3(1, 0, 0)
	y := math32.Vec3(0, 1, 0)
	z := math32.Vec3(0, 0, 1)
	ms.addQuad(o, z, x, y, width/2, height/2)
	ms.addQuad(o, z.MulScalar(-1), x.MulScalar(-1), y, width/2, height/2)
	return ms
}
