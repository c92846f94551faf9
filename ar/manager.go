// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ar keeps the scene graph in step with the markers reported by
// a spatial tracking service. A [Manager] creates one anchored subtree of
// content per tracked marker, removes it when tracking stops, and places
// models where the user taps.
package ar

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"cogentcore.org/xyzar/asset"
	xerrors "cogentcore.org/xyzar/base/errors"
	"cogentcore.org/xyzar/tree"
	"cogentcore.org/xyzar/xyz"
)

// ErrUnknownTrackingState is returned by [Manager.Update] for a marker
// in a state outside of [TrackingStates]. It is a contract violation
// of the tracking service and should be treated as fatal.
var ErrUnknownTrackingState = errors.New("ar: unknown tracking state")

// Local positions of the content relative to its parent.
var (
	ControlOffset = [3]float32{0, 0.04, 0}
	LabelOffset   = [3]float32{0, 0.25, 0}
)

// tracked is the content of a marker that is being tracked.
type tracked struct {
	anchor  *xyz.Anchor
	control *xyz.Solid
}

// fill is a solid waiting for its renderable to finish building.
type fill struct {
	solid  *xyz.Solid
	future *asset.Future[*xyz.Renderable]
}

// Manager maintains at most one anchored content subtree per tracked
// marker, plus any number of tap-placed models. It is not safe for
// concurrent use; call it from the goroutine that receives tracking
// updates. Scene mutations go through the scene's lock, so rendering
// may walk the scene concurrently.
type Manager struct {
	scene    *xyz.Scene
	content  Content
	provider AnchorProvider

	markers  map[string]*tracked
	taps     []*xyz.Anchor
	selected *xyz.Manipulable
	pending  []fill

	// template is the model subtree that every tap clones.
	template *xyz.Manipulable
}

// NewManager returns a manager adding content to the given scene.
// The provider is optional.
func NewManager(sc *xyz.Scene, content Content, provider AnchorProvider) *Manager {
	return &Manager{
		scene:    sc,
		content:  content,
		provider: provider,
		markers:  map[string]*tracked{},
	}
}

// Update processes one frame from the tracking service. Frames are
// ignored unless the camera is tracking. Markers that start tracking get
// an anchor with a control panel, and markers that stop tracking have
// theirs destroyed. A marker in an unknown state stops processing and
// returns an error wrapping [ErrUnknownTrackingState].
func (m *Manager) Update(frame Frame) error {
	m.fillPending()
	if frame.CameraState != Tracking {
		return nil
	}
	for _, mk := range frame.Updated {
		switch mk.State {
		case Detected:
			slog.Info("marker detected", "id", mk.ID, "index", mk.Index)
		case Tracking:
			m.track(mk)
		case Stopped:
			m.stop(mk)
		default:
			return fmt.Errorf("%w: marker %q: %v", ErrUnknownTrackingState, mk.ID, mk.State)
		}
	}
	return nil
}

func (m *Manager) track(mk Marker) {
	tr, ok := m.markers[mk.ID]
	if !ok {
		an, err := m.newAnchor("marker-"+mk.ID, mk.Pose)
		if xerrors.Log(err) != nil {
			return
		}
		an.MarkerID = mk.ID
		control := tree.New[*xyz.Solid](an)
		control.Name = "control"
		control.SetPos(ControlOffset[0], ControlOffset[1], ControlOffset[2])
		m.setRenderable(control, m.content.Control)
		m.scene.Attach(an, nil)
		tr = &tracked{anchor: an, control: control}
		m.markers[mk.ID] = tr
		slog.Info("marker tracking started", "id", mk.ID, "pos", mk.Pose.Pos)
	}
	pos, err := m.scene.WorldPos(tr.control)
	if err == nil {
		slog.Debug("marker tracking", "id", mk.ID, "content", pos)
	}
}

func (m *Manager) stop(mk Marker) {
	tr, ok := m.markers[mk.ID]
	if !ok {
		slog.Info("marker lost", "id", mk.ID)
		return
	}
	m.remove(mk.ID, tr)
	slog.Info("marker lost", "id", mk.ID, "removed", tr.anchor.Name)
}

func (m *Manager) remove(id string, tr *tracked) {
	m.scene.Destroy(tr.anchor)
	tr.anchor.Release()
	delete(m.markers, id)
}

// Tap places a selected model, with a label above it, at the hit pose.
// It returns false and does nothing while the content is still building.
func (m *Manager) Tap(hit HitResult) bool {
	if !m.content.Ready() {
		return false
	}
	an, err := m.newAnchor("", hit.Pose)
	if xerrors.Log(err) != nil {
		return false
	}
	model := m.tapContent()
	model.Selected = true
	an.AddChild(model)

	m.scene.Update(func() {
		if m.selected != nil {
			m.selected.Selected = false
		}
	})
	m.scene.Attach(an, nil)
	m.selected = model
	m.taps = append(m.taps, an)
	slog.Info("model placed", "anchor", an.Name, "pos", hit.Pose.Pos)
	return true
}

// tapContent returns a new model with its label, cloned from a template
// that is made the first time. The clones share the renderables of the
// template, which must be ready.
func (m *Manager) tapContent() *xyz.Manipulable {
	if m.template == nil {
		model := tree.NewRoot[*xyz.Manipulable]("model")
		m.setRenderable(&model.Solid, m.content.Model)
		label := tree.New[*xyz.Solid](model)
		label.Name = "label"
		label.SetPos(LabelOffset[0], LabelOffset[1], LabelOffset[2])
		m.setRenderable(label, m.content.Label)
		m.template = model
	}
	return m.template.Clone().(*xyz.Manipulable)
}

// Reset destroys all anchors created by the manager and releases
// their platform anchors.
func (m *Manager) Reset() {
	for id, tr := range m.markers {
		m.remove(id, tr)
	}
	for _, an := range m.taps {
		m.scene.Destroy(an)
		an.Release()
	}
	m.taps = nil
	m.selected = nil
	m.pending = nil
}

// ContentReady returns whether all of the content has finished building.
func (m *Manager) ContentReady() bool {
	return m.content.Ready()
}

// Anchor returns the anchor of the given marker, or nil if the marker
// is not being tracked.
func (m *Manager) Anchor(id string) *xyz.Anchor {
	if tr, ok := m.markers[id]; ok {
		return tr.anchor
	}
	return nil
}

// Tracked returns the sorted IDs of the markers that have an anchor.
func (m *Manager) Tracked() []string {
	ids := make([]string, 0, len(m.markers))
	for id := range m.markers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Taps returns the anchors placed by taps.
func (m *Manager) Taps() []*xyz.Anchor {
	return m.taps
}

// Selected returns the most recently placed model.
func (m *Manager) Selected() *xyz.Manipulable {
	return m.selected
}

// newAnchor returns a detached anchor at the given pose, holding a
// platform anchor when there is a provider.
func (m *Manager) newAnchor(name string, pose xyz.Pose) (*xyz.Anchor, error) {
	an := tree.New[*xyz.Anchor]()
	an.Name = name
	an.Pose.CopyFrom(&pose)
	if m.provider != nil {
		release, err := m.provider.Acquire(pose)
		if err != nil {
			return nil, fmt.Errorf("ar: acquiring anchor: %w", err)
		}
		an.SetRelease(release)
	}
	return an, nil
}

// setRenderable sets the renderable of a solid that is not yet in the
// scene if it is built, and otherwise queues it to be set later.
func (m *Manager) setRenderable(sld *xyz.Solid, f *asset.Future[*xyz.Renderable]) {
	if f == nil {
		return
	}
	rd, ok, err := f.Poll()
	switch {
	case !ok:
		m.pending = append(m.pending, fill{solid: sld, future: f})
	case err != nil:
		xerrors.Log(fmt.Errorf("ar: content for %q: %w", sld.Name, err))
	default:
		sld.Renderable = rd
	}
}

// fillPending sets the renderables of queued solids whose content has
// finished building.
func (m *Manager) fillPending() {
	m.pending = slices.DeleteFunc(m.pending, func(fl fill) bool {
		if fl.solid.IsDestroyed() {
			return true
		}
		rd, ok, err := fl.future.Poll()
		if !ok {
			return false
		}
		if err != nil {
			xerrors.Log(fmt.Errorf("ar: content for %q: %w", fl.solid.Name, err))
			return true
		}
		m.scene.SetRenderable(fl.solid, rd)
		return true
	})
}
