// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ar_test

import (
	"errors"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/xyzar/ar"
	"cogentcore.org/xyzar/asset"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/shape"
	"cogentcore.org/xyzar/xyz"
)

const tol = 1e-5

type provider struct {
	acquired int
	released int
	err      error
}

func (p *provider) Acquire(pose xyz.Pose) (func(), error) {
	if p.err != nil {
		return nil, p.err
	}
	p.acquired++
	return func() { p.released++ }, nil
}

func renderable(name string) *xyz.Renderable {
	return &xyz.Renderable{Name: name, Mesh: shape.NewCube(name, 0.1), Color: color.RGBA{255, 255, 255, 255}}
}

func readyContent() Content {
	return Content{
		Control: asset.Resolved(renderable("control")),
		Model:   asset.Resolved(renderable("model")),
		Label:   asset.Resolved(renderable("label")),
	}
}

func marker(id string, state TrackingStates, x, y, z float32) Marker {
	return Marker{ID: id, State: state, Pose: xyz.NewPose(math32.Vec3(x, y, z), math32.NewQuatIdentity())}
}

func tracking(markers ...Marker) Frame {
	return Frame{CameraState: Tracking, Updated: markers}
}

func TestMarkerLifecycle(t *testing.T) {
	sc := xyz.NewScene()
	pv := &provider{}
	mgr := NewManager(sc, readyContent(), pv)

	require.NoError(t, mgr.Update(tracking(marker("img1", Detected, 0, 0, 0))))
	assert.Empty(t, mgr.Tracked())
	assert.Equal(t, 1, sc.NumNodes())

	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1))))
	first := mgr.Anchor("img1")
	require.NotNil(t, first)
	assert.Equal(t, "img1", first.MarkerID)
	assert.True(t, sc.Contains(first))
	require.Len(t, first.Children, 1)
	control := first.Children[0].(*xyz.Solid)
	assert.Equal(t, "control", control.Renderable.Name)
	pos, err := sc.WorldPos(control)
	require.NoError(t, err)
	assert.True(t, pos.IsEqualTol(math32.Vec3(0, 0.04, -1), tol), "pos %v", pos)

	require.NoError(t, mgr.Update(tracking(marker("img1", Stopped, 0, 0, -1))))
	assert.Nil(t, mgr.Anchor("img1"))
	assert.Empty(t, mgr.Tracked())
	assert.True(t, first.IsDestroyed())
	assert.True(t, control.IsDestroyed())
	assert.Equal(t, 1, sc.NumNodes())
	assert.Equal(t, 1, pv.released)

	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0.3, 0.1, -1.2))))
	second := mgr.Anchor("img1")
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	pos, err = sc.WorldPos(second.Children[0].(xyz.Node))
	require.NoError(t, err)
	assert.True(t, pos.IsEqualTol(math32.Vec3(0.3, 0.14, -1.2), tol), "pos %v", pos)
	assert.Equal(t, 2, pv.acquired)
	assert.Equal(t, 1, pv.released)
}

func TestSingleAnchorPerMarker(t *testing.T) {
	sc := xyz.NewScene()
	mgr := NewManager(sc, readyContent(), nil)
	for range 5 {
		require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1), marker("img2", Tracking, 1, 0, -1))))
	}
	assert.Equal(t, []string{"img1", "img2"}, mgr.Tracked())
	assert.Equal(t, 5, sc.NumNodes())
	assert.Len(t, sc.Root.Children, 2)

	require.NoError(t, mgr.Update(tracking(marker("img2", Stopped, 0, 0, 0), marker("img3", Stopped, 0, 0, 0))))
	assert.Equal(t, []string{"img1"}, mgr.Tracked())
	assert.Equal(t, 3, sc.NumNodes())
}

func TestCameraNotTracking(t *testing.T) {
	sc := xyz.NewScene()
	mgr := NewManager(sc, readyContent(), nil)
	for _, cs := range []TrackingStates{Detected, Stopped} {
		fr := Frame{CameraState: cs, Updated: []Marker{marker("img1", Tracking, 0, 0, -1)}}
		require.NoError(t, mgr.Update(fr))
	}
	assert.Empty(t, mgr.Tracked())
	assert.Equal(t, 1, sc.NumNodes())

	// an unknown state is not checked when the frame is skipped
	fr := Frame{CameraState: Stopped, Updated: []Marker{{ID: "img1", State: TrackingStates(7)}}}
	assert.NoError(t, mgr.Update(fr))
}

func TestUnknownTrackingState(t *testing.T) {
	sc := xyz.NewScene()
	mgr := NewManager(sc, readyContent(), nil)
	bad := Marker{ID: "img2", State: TrackingStates(42)}
	err := mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1), bad, marker("img3", Tracking, 0, 0, -1)))
	assert.ErrorIs(t, err, ErrUnknownTrackingState)
	assert.Contains(t, err.Error(), "img2")
	assert.Equal(t, []string{"img1"}, mgr.Tracked())
}

func TestTap(t *testing.T) {
	sc := xyz.NewScene()
	pv := &provider{}
	content := readyContent()
	model := asset.NewFuture[*xyz.Renderable]()
	content.Model = model
	mgr := NewManager(sc, content, pv)

	hit := HitResult{Pose: xyz.NewPose(math32.Vec3(0.2, -0.1, -0.8), math32.NewQuatIdentity())}
	assert.False(t, mgr.Tap(hit))
	assert.Equal(t, 1, sc.NumNodes())
	assert.Zero(t, pv.acquired)

	model.Resolve(renderable("model"))
	require.True(t, mgr.Tap(hit))
	require.Len(t, mgr.Taps(), 1)
	first := mgr.Selected()
	require.NotNil(t, first)
	assert.True(t, first.Selected)
	assert.Equal(t, "model", first.Renderable.Name)
	require.Len(t, first.Children, 1)
	label := first.Children[0].(*xyz.Solid)
	assert.Equal(t, "label", label.Renderable.Name)
	pos, err := sc.WorldPos(label)
	require.NoError(t, err)
	assert.True(t, pos.IsEqualTol(math32.Vec3(0.2, 0.15, -0.8), tol), "pos %v", pos)

	for range 3 {
		require.True(t, mgr.Tap(hit))
	}
	assert.Len(t, mgr.Taps(), 4)
	assert.False(t, first.Selected)
	assert.True(t, mgr.Selected().Selected)
	assert.Equal(t, 1+4*3, sc.NumNodes())
	assert.Equal(t, 4, pv.acquired)
	assert.Empty(t, mgr.Tracked())

	// every model is its own subtree sharing the same renderables
	last := mgr.Selected()
	assert.NotSame(t, first, last)
	assert.Equal(t, "model", last.Name)
	assert.Same(t, first.Renderable, last.Renderable)
	require.Len(t, last.Children, 1)
	lastLabel := last.Children[0].(*xyz.Solid)
	assert.NotSame(t, label, lastLabel)
	assert.Same(t, label.Renderable, lastLabel.Renderable)
	assert.Equal(t, label.Pose.Pos, lastLabel.Pose.Pos)
	sc.Destroy(mgr.Taps()[0])
	assert.True(t, first.IsDestroyed())
	assert.False(t, last.IsDestroyed())
	assert.Equal(t, 1+3*3, sc.NumNodes())
}

func TestPendingContent(t *testing.T) {
	sc := xyz.NewScene()
	content := readyContent()
	control := asset.NewFuture[*xyz.Renderable]()
	content.Control = control
	mgr := NewManager(sc, content, nil)

	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1))))
	an := mgr.Anchor("img1")
	require.NotNil(t, an)
	sld := an.Children[0].(*xyz.Solid)
	assert.Nil(t, sld.Renderable)
	count := 0
	require.NoError(t, sc.Drawables(func(d *xyz.Drawable) error { count++; return nil }))
	assert.Zero(t, count)

	// still pending: nothing changes
	require.NoError(t, mgr.Update(Frame{}))
	assert.Nil(t, sld.Renderable)

	rd := renderable("control")
	control.Resolve(rd)
	require.NoError(t, mgr.Update(Frame{}))
	assert.Same(t, rd, sld.Renderable)
	require.NoError(t, sc.Drawables(func(d *xyz.Drawable) error { count++; return nil }))
	assert.Equal(t, 1, count)
}

func TestPendingContentDestroyed(t *testing.T) {
	sc := xyz.NewScene()
	content := readyContent()
	control := asset.NewFuture[*xyz.Renderable]()
	content.Control = control
	mgr := NewManager(sc, content, nil)

	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1))))
	sld := mgr.Anchor("img1").Children[0].(*xyz.Solid)
	require.NoError(t, mgr.Update(tracking(marker("img1", Stopped, 0, 0, -1))))
	control.Resolve(renderable("control"))
	require.NoError(t, mgr.Update(Frame{}))
	assert.Nil(t, sld.Renderable)
}

func TestFailedContent(t *testing.T) {
	sc := xyz.NewScene()
	content := readyContent()
	control := asset.NewFuture[*xyz.Renderable]()
	control.Fail(errors.New("no such asset"))
	content.Control = control
	mgr := NewManager(sc, content, nil)

	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1))))
	an := mgr.Anchor("img1")
	require.NotNil(t, an)
	assert.Nil(t, an.Children[0].(*xyz.Solid).Renderable)
}

func TestProviderError(t *testing.T) {
	sc := xyz.NewScene()
	pv := &provider{err: errors.New("anchor limit")}
	mgr := NewManager(sc, readyContent(), pv)
	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1))))
	assert.Empty(t, mgr.Tracked())
	assert.False(t, mgr.Tap(HitResult{}))
	assert.Equal(t, 1, sc.NumNodes())

	pv.err = nil
	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1))))
	assert.Equal(t, []string{"img1"}, mgr.Tracked())
}

func TestReset(t *testing.T) {
	sc := xyz.NewScene()
	pv := &provider{}
	mgr := NewManager(sc, readyContent(), pv)
	require.NoError(t, mgr.Update(tracking(marker("img1", Tracking, 0, 0, -1), marker("img2", Tracking, 1, 0, -1))))
	require.True(t, mgr.Tap(HitResult{}))

	mgr.Reset()
	assert.Empty(t, mgr.Tracked())
	assert.Empty(t, mgr.Taps())
	assert.Nil(t, mgr.Selected())
	assert.Equal(t, 1, sc.NumNodes())
	assert.Equal(t, 3, pv.acquired)
	assert.Equal(t, 3, pv.released)

	mgr.Reset()
	assert.Equal(t, 3, pv.released)
}

func TestTrackingStatesText(t *testing.T) {
	var ts TrackingStates
	require.NoError(t, ts.UnmarshalText([]byte("Tracking")))
	assert.Equal(t, Tracking, ts)
	assert.Equal(t, "stopped", Stopped.String())
	assert.ErrorIs(t, ts.SetString("paused"), ErrUnknownTrackingState)
	assert.Equal(t, "TrackingStates(9)", TrackingStates(9).String())
	assert.False(t, TrackingStates(-1).IsValid())
}

func TestScriptPlayer(t *testing.T) {
	scr, err := OpenScript("testdata/img1.yaml")
	require.NoError(t, err)
	require.Len(t, scr.Steps, 6)
	assert.Equal(t, 500*time.Millisecond, scr.Steps[1].At)
	assert.True(t, scr.Steps[3].Lost)

	sc := xyz.NewScene()
	mgr := NewManager(sc, readyContent(), nil)
	pl := &Player{Script: scr, Manager: mgr}

	require.NoError(t, pl.Advance(0))
	assert.Empty(t, mgr.Tracked())
	require.NoError(t, pl.Advance(time.Second))
	first := mgr.Anchor("img1")
	require.NotNil(t, first)
	assert.Len(t, mgr.Taps(), 1)

	// the camera is lost at 2s, so the stop is only seen at 3s
	require.NoError(t, pl.Advance(2*time.Second))
	assert.NotNil(t, mgr.Anchor("img1"))
	require.NoError(t, pl.Advance(3*time.Second))
	assert.Nil(t, mgr.Anchor("img1"))
	assert.True(t, first.IsDestroyed())

	require.NoError(t, pl.Advance(10*time.Second))
	assert.True(t, pl.Done())
	second := mgr.Anchor("img1")
	require.NotNil(t, second)
	pos, err := sc.WorldPos(second)
	require.NoError(t, err)
	assert.True(t, pos.IsEqualTol(math32.Vec3(0.3, 0.1, -1.2), tol))
}

func TestReadScriptErrors(t *testing.T) {
	_, err := ReadScript(strings.NewReader("steps:\n  - at: 2s\n  - at: 1s\n"))
	assert.Error(t, err)
	_, err = ReadScript(strings.NewReader("steps:\n  - markers: [{id: a, state: paused}]\n"))
	assert.ErrorIs(t, err, ErrUnknownTrackingState)
	_, err = ReadScript(strings.NewReader("stepz: []\n"))
	assert.Error(t, err)
}
