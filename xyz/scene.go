// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"errors"
	"sync"

	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/tree"
)

// ErrNotInScene is returned when a node does not belong to the scene.
var ErrNotInScene = errors.New("xyz: node is not in the scene")

// Scene is the overall scenegraph containing nodes as children of
// its root group. Structural mutations take the write lock and render
// walks take the read lock, so a walk never observes a half-applied
// attach or destroy.
type Scene struct {

	// Root is the top of the scene graph; its pose is the world frame.
	Root *Group

	mu sync.RWMutex
}

// NewScene creates a new Scene to contain a 3D scenegraph.
func NewScene(name ...string) *Scene {
	return &Scene{Root: tree.NewRoot[*Group](name...)}
}

// Update runs the given function while holding the write lock.
// It is used for field changes on nodes that a render walk reads.
func (sc *Scene) Update(fun func()) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	fun()
}

// Attach adds child under parent, detaching it from any previous
// parent first. A nil parent attaches to the scene root.
func (sc *Scene) Attach(child, parent Node) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if parent == nil {
		parent = sc.Root
	}
	if child.AsTree().Parent != nil {
		tree.MoveToParent(child, parent)
		return
	}
	parent.AsTree().AddChild(child)
}

// Detach removes the node from its parent without destroying it.
// It returns false if the node had no parent.
func (sc *Scene) Detach(n Node) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return n.AsTree().Detach()
}

// Destroy recursively destroys the node and all of its descendants,
// and removes it from its parent.
func (sc *Scene) Destroy(n Node) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	n.AsTree().Delete()
}

// SetRenderable publishes the renderable of the given solid.
func (sc *Scene) SetRenderable(sld *Solid, r *Renderable) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sld.Renderable = r
}

// Contains returns whether the node is currently attached under the
// scene root.
func (sc *Scene) Contains(n Node) bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.contains(n)
}

func (sc *Scene) contains(n Node) bool {
	if n.AsTree().IsDestroyed() {
		return false
	}
	return tree.Root(n) == tree.Node(sc.Root)
}

// WorldMatrix returns the world transform of the node, as the fold
// of the local pose matrices along the path from the scene root.
func (sc *Scene) WorldMatrix(n Node) (math32.Matrix4, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if !sc.contains(n) {
		return math32.Identity4(), ErrNotInScene
	}
	var chain []*NodeBase
	n.AsTree().WalkUp(func(k tree.Node) bool {
		_, nb := AsNode(k)
		if nb == nil {
			return tree.Break
		}
		chain = append(chain, nb)
		return tree.Continue
	})
	wm := math32.Identity4()
	for i := len(chain) - 1; i >= 0; i-- {
		lm := chain[i].Pose.LocalMatrix()
		wm.MulMatrices(&wm, &lm)
	}
	return wm, nil
}

// WorldPos returns the world position of the node.
func (sc *Scene) WorldPos(n Node) (math32.Vector3, error) {
	wm, err := sc.WorldMatrix(n)
	var p math32.Vector3
	p.SetFromMatrixPos(&wm)
	return p, err
}

// Drawable is a solid with content ready to draw, and its world
// transform at the time of the walk.
type Drawable struct {
	Solid      *Solid
	Renderable *Renderable
	World      math32.Matrix4
}

// Drawables calls the given function for every solid in the scene whose
// renderable is ready, in depth-first order, while holding the read lock.
// World transforms are computed during the walk without modifying any
// node. It stops at the first error returned by the function.
func (sc *Scene) Drawables(fun func(d *Drawable) error) error {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return drawables(sc.Root, math32.Identity4(), fun)
}

func drawables(n Node, parWorld math32.Matrix4, fun func(d *Drawable) error) error {
	nb := n.AsNode()
	lm := nb.Pose.LocalMatrix()
	var wm math32.Matrix4
	wm.MulMatrices(&parWorld, &lm)
	if sld := n.AsSolid(); sld != nil && sld.Renderable != nil {
		if err := fun(&Drawable{Solid: sld, Renderable: sld.Renderable, World: wm}); err != nil {
			return err
		}
	}
	for _, kid := range nb.Children {
		kn, _ := AsNode(kid)
		if kn == nil || kn.AsTree().IsDestroyed() {
			continue
		}
		if err := drawables(kn, wm, fun); err != nil {
			return err
		}
	}
	return nil
}

// NumNodes returns the number of nodes in the scene, including the root.
func (sc *Scene) NumNodes() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	count := 0
	sc.Root.WalkDown(func(k tree.Node) bool {
		count++
		return tree.Continue
	})
	return count
}
