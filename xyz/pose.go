// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import "cogentcore.org/xyzar/math32"

// Pose contains the full specification of position and orientation,
// always relevant to the parent element.
type Pose struct {

	// position of center of element (relative to parent)
	Pos math32.Vector3 `toml:"pos" yaml:"pos"`

	// scale (relative to parent)
	Scale math32.Vector3 `toml:"scale" yaml:"scale"`

	// Node rotation specified as a Quat (relative to parent)
	Quat math32.Quat `toml:"quat" yaml:"quat"`
}

// NewPose returns a pose at the given position with the given rotation
// and unit scale.
func NewPose(pos math32.Vector3, quat math32.Quat) Pose {
	ps := Pose{Pos: pos, Quat: quat}
	ps.Defaults()
	return ps
}

// Defaults sets defaults only if current values are nil
func (ps *Pose) Defaults() {
	if ps.Scale == (math32.Vector3{}) {
		ps.Scale.Set(1, 1, 1)
	}
	if ps.Quat.IsNil() {
		ps.Quat.SetIdentity()
	}
}

// CopyFrom copies the pose information from the other pose.
func (ps *Pose) CopyFrom(op *Pose) {
	ps.Pos = op.Pos
	ps.Scale = op.Scale
	ps.Quat = op.Quat
	ps.Defaults()
}

// LocalMatrix returns the local transform matrix for the current
// position, quaternion and scale, without modifying the pose.
func (ps *Pose) LocalMatrix() math32.Matrix4 {
	sc := ps.Scale
	if sc == (math32.Vector3{}) {
		sc.Set(1, 1, 1)
	}
	q := ps.Quat
	if q.IsNil() {
		q.SetIdentity()
	}
	var m math32.Matrix4
	m.SetTransform(ps.Pos, q, sc)
	return m
}
