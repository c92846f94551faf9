// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package viewer

import (
	"cogentcore.org/xyzar/ar"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/xyz"
)

// TapDepth is the distance from the eye at which a screen tap places
// a model, standing in for a surface hit test.
var TapDepth float32 = 2

// TapAt places a model under the given point of a surface with the
// given width over height ratio. The point is in normalized device
// coordinates: x and y from -1 to 1, with y up.
func (v *Viewer) TapAt(x, y, ratio float32) bool {
	return v.Tap(ar.HitResult{Pose: v.ScreenPose(x, y, ratio)})
}

// ScreenPose returns the pose [TapDepth] in front of the eye under the
// given normalized device point.
func (v *Viewer) ScreenPose(x, y, ratio float32) xyz.Pose {
	p := v.Renderer.Params
	fwd := p.Center.Sub(p.Eye).Normal()
	right := fwd.Cross(p.Up).Normal()
	up := right.Cross(fwd)
	scale := TapDepth / p.Near
	pos := p.Eye.Add(fwd.MulScalar(TapDepth)).
		Add(right.MulScalar(x * ratio * scale)).
		Add(up.MulScalar(y * scale))
	return xyz.NewPose(pos, math32.NewQuatIdentity())
}
