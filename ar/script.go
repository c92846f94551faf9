// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ar

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/xyz"
)

// Script is a recorded sequence of tracking updates and taps, which
// stands in for a live tracking service.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is one entry of a [Script].
type Step struct {

	// At is the time of the step from the start of playback.
	At time.Duration `yaml:"at"`

	// Lost is whether the camera is not tracking during this step.
	Lost bool `yaml:"lost"`

	// Markers are the markers updated in this step.
	Markers []ScriptMarker `yaml:"markers"`

	// Tap, if set, is the position of a tap.
	Tap *math32.Vector3 `yaml:"tap"`
}

// ScriptMarker is a marker update in a [Step].
type ScriptMarker struct {
	ID    string         `yaml:"id"`
	Index int            `yaml:"index"`
	State TrackingStates `yaml:"state"`
	Pos   math32.Vector3 `yaml:"pos"`
}

// Frame returns the tracking frame of the step.
func (st *Step) Frame() Frame {
	fr := Frame{CameraState: Tracking}
	if st.Lost {
		fr.CameraState = Stopped
	}
	for _, sm := range st.Markers {
		fr.Updated = append(fr.Updated, Marker{
			ID:    sm.ID,
			Index: sm.Index,
			Pose:  xyz.NewPose(sm.Pos, math32.NewQuatIdentity()),
			State: sm.State,
		})
	}
	return fr
}

// Hit returns the tap of the step, if any.
func (st *Step) Hit() (HitResult, bool) {
	if st.Tap == nil {
		return HitResult{}, false
	}
	return HitResult{Pose: xyz.NewPose(*st.Tap, math32.NewQuatIdentity())}, true
}

// ReadScript reads a YAML script.
func ReadScript(r io.Reader) (*Script, error) {
	sc := &Script{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		return nil, fmt.Errorf("ar: reading script: %w", err)
	}
	for i := 1; i < len(sc.Steps); i++ {
		if sc.Steps[i].At < sc.Steps[i-1].At {
			return nil, fmt.Errorf("ar: reading script: step %d at %v is before step %d", i, sc.Steps[i].At, i-1)
		}
	}
	return sc, nil
}

// OpenScript reads the YAML script at the given path.
func OpenScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadScript(f)
}

// Player plays a [Script] against a [Manager].
type Player struct {
	Script  *Script
	Manager *Manager
	next    int
}

// Advance applies every step due at the given elapsed time that has not
// been applied yet. The first error from [Manager.Update] stops playback.
func (p *Player) Advance(elapsed time.Duration) error {
	for ; p.next < len(p.Script.Steps); p.next++ {
		st := &p.Script.Steps[p.next]
		if st.At > elapsed {
			break
		}
		if err := p.Manager.Update(st.Frame()); err != nil {
			return err
		}
		if hit, ok := st.Hit(); ok {
			p.Manager.Tap(hit)
		}
	}
	return p.Manager.Update(Frame{})
}

// Done returns whether every step has been applied.
func (p *Player) Done() bool {
	return p.next >= len(p.Script.Steps)
}
