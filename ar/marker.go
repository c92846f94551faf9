// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ar

import (
	"fmt"
	"strings"

	"cogentcore.org/xyzar/xyz"
)

// TrackingStates are the tracking states reported for the camera
// and for each marker.
type TrackingStates int32

const (
	// Detected means a marker has been seen but is not yet tracked.
	Detected TrackingStates = iota

	// Tracking means the pose is being actively tracked.
	Tracking

	// Stopped means tracking has been lost for good. A marker seen
	// again afterwards is a new occurrence.
	Stopped
)

var trackingNames = [...]string{"detected", "tracking", "stopped"}

func (ts TrackingStates) String() string {
	if !ts.IsValid() {
		return fmt.Sprintf("TrackingStates(%d)", int32(ts))
	}
	return trackingNames[ts]
}

// IsValid returns whether the state is one of the known states.
func (ts TrackingStates) IsValid() bool {
	return ts >= 0 && int(ts) < len(trackingNames)
}

// SetString sets the state from its name.
func (ts *TrackingStates) SetString(s string) error {
	for i, nm := range trackingNames {
		if strings.EqualFold(nm, s) {
			*ts = TrackingStates(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTrackingState, s)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (ts *TrackingStates) UnmarshalText(text []byte) error {
	return ts.SetString(string(text))
}

// MarshalText implements [encoding.TextMarshaler].
func (ts TrackingStates) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

// Marker is a recognized image as reported by the tracking service.
// It is never modified by this package.
type Marker struct {

	// ID is the stable identity of the marker across frames.
	ID string

	// Index is the index of the marker in the recognition database.
	Index int

	// Pose is the current pose of the marker center in world space.
	Pose xyz.Pose

	// State is the current tracking state of the marker.
	State TrackingStates
}

// Frame is one update from the tracking service.
type Frame struct {

	// CameraState is the tracking state of the camera. Frames are only
	// processed while the camera is [Tracking].
	CameraState TrackingStates

	// Updated are the markers whose state changed in this frame.
	Updated []Marker
}

// HitResult is a surface hit from a user tap.
type HitResult struct {

	// Pose is the world pose at the hit point.
	Pose xyz.Pose
}

// AnchorProvider acquires platform anchors, which keep a pose fixed to
// the world as tracking improves.
type AnchorProvider interface {

	// Acquire returns an anchor at the given pose and a function that
	// releases it.
	Acquire(pose xyz.Pose) (release func(), err error)
}
