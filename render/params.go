// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image/color"
	"math"
	"time"

	"cogentcore.org/xyzar/math32"
)

// Params are the camera, lighting and animation parameters of a [Renderer].
type Params struct {

	// ClearColor is the background color.
	ClearColor color.RGBA

	// Eye is the camera position.
	Eye math32.Vector3

	// Center is the point the camera looks at.
	Center math32.Vector3

	// Up is the camera up direction. A zero vector yields a NaN view.
	Up math32.Vector3

	// Near and Far are the clipping planes of the frustum.
	Near, Far float32

	// Distance is how far in front of the camera along -Z the model
	// is placed.
	Distance float32

	// Light is the world-space light position, with W = 1.
	Light math32.Vector4

	// Period is the duration of one full animation turn.
	Period time.Duration

	// Spin is the axis the standalone model turns about. A zero axis
	// disables the animation.
	Spin math32.Vector3

	// Pitch is the initial orientation of the standalone model, in
	// degrees about the X axis.
	Pitch float32
}

// DefaultParams returns the default parameters.
func DefaultParams() Params {
	return Params{
		ClearColor: color.RGBA{0, 0, 255, 255},
		Eye:        math32.Vec3(0, 0, 1.5),
		Center:     math32.Vec3(0, 0, -5),
		Up:         math32.Vec3(0, 1, 0),
		Near:       1,
		Far:        100,
		Distance:   0.5,
		Light:      math32.Vec4(0, 1, 1, 1),
		Period:     14 * time.Second,
		Spin:       math32.Vec3(1, 1, 0),
		Pitch:      10,
	}
}

// Animate returns the animation angle in degrees for the given elapsed
// time: the fraction of the current period that has passed, times 360.
// It is 0 at the start of every period and approaches 360 at its end.
// A non-positive period yields 0.
func Animate(elapsed, period time.Duration) float32 {
	ms := period.Milliseconds()
	if ms <= 0 {
		return 0
	}
	el := elapsed.Milliseconds() % ms
	if el < 0 {
		el += ms
	}
	deg := float32(float64(el) / float64(ms) * 360)
	if deg >= 360 {
		return math.Nextafter32(360, 0)
	}
	return deg
}

// PitchMatrix returns a rotation of the given degrees about the X axis.
func PitchMatrix(deg float32) math32.Matrix4 {
	var m math32.Matrix4
	m.SetRotate(deg, 1, 0, 0)
	return m
}
