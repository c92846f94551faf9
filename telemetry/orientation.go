// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import "cogentcore.org/xyzar/math32"

// Pitch returns the model pitch in degrees for the given distance:
// 0 at distance 0 rising linearly to 90 at maxDistanceCm, clamped to
// that range.
func Pitch(distanceCm, maxDistanceCm float32) float32 {
	if maxDistanceCm <= 0 {
		return 0
	}
	return math32.Clamp(distanceCm/maxDistanceCm, 0, 1) * 90
}

// Orientation returns the model orientation for the given distance,
// a rotation of [Pitch] degrees about the X axis.
func Orientation(distanceCm, maxDistanceCm float32) math32.Matrix4 {
	var m math32.Matrix4
	m.SetRotate(Pitch(distanceCm, maxDistanceCm), 1, 0, 0)
	return m
}
