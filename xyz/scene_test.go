// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/shape"
	"cogentcore.org/xyzar/tree"
)

var testRenderable = &Renderable{Name: "cube", Mesh: shape.NewCube("cube", 0.1), Color: color.RGBA{R: 255, A: 255}}

func TestWorldMatrixComposition(t *testing.T) {
	sc := NewScene("scene")
	an := tree.New[*Anchor]()
	an.SetPos(1, 0, 0)
	sc.Attach(an, nil)
	sld := tree.New[*Solid](an)
	sld.SetPos(0, 0.04, 0)

	p, err := sc.WorldPos(sld)
	require.NoError(t, err)
	assert.True(t, p.IsEqualTol(math32.Vec3(1, 0.04, 0), 1e-6), p.String())

	sc.Update(func() { an.Pose.Quat.SetFromAxisAngle(math32.Vec3(0, 0, 1), math32.DegToRad(90)) })
	sc.Update(func() { sld.SetPos(1, 0, 0) })
	p, err = sc.WorldPos(sld)
	require.NoError(t, err)
	assert.True(t, p.IsEqualTol(math32.Vec3(1, 1, 0), 1e-5), p.String())

	wm, err := sc.WorldMatrix(sld)
	require.NoError(t, err)
	am := an.Pose.LocalMatrix()
	sm := sld.Pose.LocalMatrix()
	var want math32.Matrix4
	want.MulMatrices(&am, &sm)
	assert.True(t, wm.IsEqualTol(&want, 1e-6))

	orphan := tree.New[*Solid]()
	_, err = sc.WorldMatrix(orphan)
	assert.ErrorIs(t, err, ErrNotInScene)
}

func TestDestroyRecursive(t *testing.T) {
	sc := NewScene("scene")
	an := tree.New[*Anchor]()
	a := tree.New[*Solid](an)
	b := tree.New[*Solid](a)
	sc.Attach(an, nil)
	assert.Equal(t, 4, sc.NumNodes())
	assert.True(t, sc.Contains(b))

	sc.Destroy(an)
	assert.Equal(t, 1, sc.NumNodes())
	for _, n := range []Node{an, a, b} {
		assert.True(t, n.AsTree().IsDestroyed())
		assert.Nil(t, n.AsTree().Parent)
		assert.False(t, sc.Contains(n))
	}
}

func TestDetachAndReattach(t *testing.T) {
	sc := NewScene("scene")
	g1 := tree.New[*Group]()
	g2 := tree.New[*Group]()
	sc.Attach(g1, nil)
	sc.Attach(g2, nil)
	sld := tree.New[*Solid]()
	sc.Attach(sld, g1)
	assert.Equal(t, tree.Node(g1), sld.Parent)

	sc.Attach(sld, g2)
	assert.Empty(t, g1.Children)
	assert.Equal(t, tree.Node(g2), sld.Parent)

	assert.True(t, sc.Detach(sld))
	assert.False(t, sld.AsTree().IsDestroyed())
	assert.False(t, sc.Contains(sld))
	assert.False(t, sc.Detach(sld))
}

func TestDrawables(t *testing.T) {
	sc := NewScene("scene")
	an := tree.New[*Anchor]()
	an.SetPos(0, 0, -1)
	ready := tree.New[*Solid](an)
	ready.SetPos(0, 1, 0)
	pending := tree.New[*Solid](an)
	sc.Attach(an, nil)
	sc.SetRenderable(ready, testRenderable)

	var got []*Drawable
	require.NoError(t, sc.Drawables(func(d *Drawable) error {
		got = append(got, d)
		return nil
	}))
	require.Len(t, got, 1)
	assert.Same(t, ready, got[0].Solid)
	assert.Same(t, testRenderable, got[0].Renderable)
	var p math32.Vector3
	p.SetFromMatrixPos(&got[0].World)
	assert.True(t, p.IsEqualTol(math32.Vec3(0, 1, -1), 1e-6))

	sc.SetRenderable(pending, testRenderable)
	n := 0
	require.NoError(t, sc.Drawables(func(d *Drawable) error {
		n++
		return nil
	}))
	assert.Equal(t, 2, n)

	err := sc.Drawables(func(d *Drawable) error { return ErrNotInScene })
	assert.ErrorIs(t, err, ErrNotInScene)
}

func TestCloneSharesRenderable(t *testing.T) {
	an := tree.New[*Anchor]()
	an.MarkerID = "img1"
	m := tree.New[*Manipulable](an)
	m.Renderable = testRenderable
	m.Selected = true
	m.SetPos(0, 0.25, 0)

	cl := an.Clone().(*Anchor)
	assert.Empty(t, cl.MarkerID)
	require.Len(t, cl.Children, 1)
	cm := cl.Children[0].(*Manipulable)
	assert.NotSame(t, m, cm)
	assert.Same(t, testRenderable, cm.Renderable)
	assert.True(t, cm.Selected)
	assert.Equal(t, math32.Vec3(0, 0.25, 0), cm.Pose.Pos)
}

func TestAnchorRelease(t *testing.T) {
	an := tree.New[*Anchor]()
	an.Release() // no release func set
	n := 0
	an = tree.New[*Anchor]()
	an.SetRelease(func() { n++ })
	an.Release()
	an.Release()
	assert.Equal(t, 1, n)
}

func TestConcurrentAttachAndWalk(t *testing.T) {
	sc := NewScene("scene")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			an := tree.New[*Anchor]()
			for range 2 {
				sld := tree.New[*Solid](an)
				sld.Renderable = testRenderable
			}
			sc.Attach(an, nil)
			sc.Destroy(an)
		}
	}()
	for i := 0; i < 200; i++ {
		n := 0
		require.NoError(t, sc.Drawables(func(d *Drawable) error {
			n++
			return nil
		}))
		assert.Equal(t, 0, n%2, "walk observed a partial subtree")
	}
	wg.Wait()
	assert.Equal(t, 1, sc.NumNodes())
}
