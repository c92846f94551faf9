// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "fmt"

// Matrix4 is 4x4 matrix organized internally as column matrix,
// which is the layout expected by OpenGL uniform uploads.
// Element (row r, column c) is at index c*4 + r.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	m := Matrix4{}
	m.SetIdentity()
	return m
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	*m = Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// CopyFrom copies from source matrix into this matrix
// (a regular = assign does not copy data, just the pointer!)
func (m *Matrix4) CopyFrom(src *Matrix4) {
	*m = *src
}

// MulMatrices sets this matrix as matrix multiplication a by b (i.e., a*b).
// The receiver may be the same matrix as a or b.
func (m *Matrix4) MulMatrices(a, b *Matrix4) {
	var r Matrix4
	for c := 0; c < 4; c++ {
		b0 := b[c*4]
		b1 := b[c*4+1]
		b2 := b[c*4+2]
		b3 := b[c*4+3]
		for row := 0; row < 4; row++ {
			r[c*4+row] = a[row]*b0 + a[4+row]*b1 + a[8+row]*b2 + a[12+row]*b3
		}
	}
	*m = r
}

// SetMul sets this matrix to this matrix * other
func (m *Matrix4) SetMul(other *Matrix4) {
	m.MulMatrices(m, other)
}

// SetTranslation sets this matrix to a translation matrix from the given x, y and z values.
func (m *Matrix4) SetTranslation(x, y, z float32) {
	m.SetIdentity()
	m[12] = x
	m[13] = y
	m[14] = z
}

// Translate post-multiplies this matrix by a translation of x, y and z,
// in place: m = m * T(x, y, z).
func (m *Matrix4) Translate(x, y, z float32) {
	for i := 0; i < 4; i++ {
		m[12+i] += m[i]*x + m[4+i]*y + m[8+i]*z
	}
}

// SetRotate sets this matrix to a rotation of angle degrees about the
// axis (x, y, z). The axis is normalized if it is not unit length.
func (m *Matrix4) SetRotate(angle, x, y, z float32) {
	m.SetIdentity()
	a := DegToRad(angle)
	s := Sin(a)
	c := Cos(a)
	switch {
	case x == 1 && y == 0 && z == 0:
		m[5], m[10] = c, c
		m[6], m[9] = s, -s
	case x == 0 && y == 1 && z == 0:
		m[0], m[10] = c, c
		m[8], m[2] = s, -s
	case x == 0 && y == 0 && z == 1:
		m[0], m[5] = c, c
		m[1], m[4] = s, -s
	default:
		ln := Sqrt(x*x + y*y + z*z)
		if ln != 1 {
			rl := 1 / ln
			x *= rl
			y *= rl
			z *= rl
		}
		nc := 1 - c
		xy := x * y
		yz := y * z
		zx := z * x
		xs := x * s
		ys := y * s
		zs := z * s
		m[0] = x*x*nc + c
		m[4] = xy*nc - zs
		m[8] = zx*nc + ys
		m[1] = xy*nc + zs
		m[5] = y*y*nc + c
		m[9] = yz*nc - xs
		m[2] = zx*nc - ys
		m[6] = yz*nc + xs
		m[10] = z*z*nc + c
	}
}

// Rotate post-multiplies this matrix by a rotation of angle degrees
// about the axis (x, y, z), in place: m = m * R(angle, axis).
func (m *Matrix4) Rotate(angle, x, y, z float32) {
	var r Matrix4
	r.SetRotate(angle, x, y, z)
	m.MulMatrices(m, &r)
}

// SetTransform sets this matrix to a transformation matrix for the specified position,
// rotation specified by the quaternion and scale.
func (m *Matrix4) SetTransform(pos Vector3, quat Quat, scale Vector3) {
	x, y, z, w := quat.X, quat.Y, quat.Z, quat.W
	x2 := x + x
	y2 := y + y
	z2 := z + z
	xx := x * x2
	xy := x * y2
	xz := x * z2
	yy := y * y2
	yz := y * z2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	m[0] = (1 - (yy + zz)) * scale.X
	m[1] = (xy + wz) * scale.X
	m[2] = (xz - wy) * scale.X
	m[3] = 0
	m[4] = (xy - wz) * scale.Y
	m[5] = (1 - (xx + zz)) * scale.Y
	m[6] = (yz + wx) * scale.Y
	m[7] = 0
	m[8] = (xz + wy) * scale.Z
	m[9] = (yz - wx) * scale.Z
	m[10] = (1 - (xx + yy)) * scale.Z
	m[11] = 0
	m[12] = pos.X
	m[13] = pos.Y
	m[14] = pos.Z
	m[15] = 1
}

// SetFrustum sets this matrix to a perspective projection frustum
// from the given clipping planes. near and far are positive distances.
func (m *Matrix4) SetFrustum(left, right, bottom, top, near, far float32) {
	rw := 1 / (right - left)
	rh := 1 / (top - bottom)
	rd := 1 / (near - far)
	*m = Matrix4{}
	m[0] = 2 * near * rw
	m[5] = 2 * near * rh
	m[8] = (right + left) * rw
	m[9] = (top + bottom) * rh
	m[10] = (far + near) * rd
	m[11] = -1
	m[14] = 2 * far * near * rd
}

// SetLookAt sets this matrix to a view transform for a camera at eye,
// looking at center, with the given up direction. A zero length up
// vector, or one parallel to the view direction, yields NaN entries.
func (m *Matrix4) SetLookAt(eye, center, up Vector3) {
	f := center.Sub(eye).Normal()
	s := f.Cross(up).Normal()
	u := s.Cross(f)
	*m = Matrix4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		0, 0, 0, 1,
	}
	m.Translate(-eye.X, -eye.Y, -eye.Z)
}

// MulVector4 returns the product m × v.
func (m *Matrix4) MulVector4(v Vector4) Vector4 {
	return v.MulMatrix4(m)
}

// IsEqualTol returns whether all elements are within tol of the other matrix.
func (m *Matrix4) IsEqualTol(other *Matrix4, tol float32) bool {
	for i := range m {
		if Abs(m[i]-other[i]) > tol {
			return false
		}
	}
	return true
}

func (m Matrix4) String() string {
	return fmt.Sprintf("[%v %v %v %v | %v %v %v %v | %v %v %v %v | %v %v %v %v]",
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15])
}
