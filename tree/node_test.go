// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "cogentcore.org/xyzar/tree"
)

type testNode struct {
	NodeBase
	Mass  float32
	Tags  []string
	added int
}

func (t *testNode) OnAdd() { t.added++ }

func TestNodeAddChild(t *testing.T) {
	parent := NewRoot[*testNode]("root")
	child := &testNode{}
	parent.AddChild(child)
	assert.Len(t, parent.Children, 1)
	assert.Equal(t, Node(parent), child.Parent)
	assert.Equal(t, Node(child), child.This)
	assert.Equal(t, "/root/test-node-0", child.Path())
	assert.Equal(t, 1, child.added)
}

func TestNewAutoName(t *testing.T) {
	root := NewRoot[*testNode]()
	assert.Equal(t, "test-node", root.Name)
	c0 := New[*testNode](root)
	c1 := New[*testNode](root)
	c1.Name = "named"
	c2 := New[*testNode](root)
	assert.Equal(t, "test-node-0", c0.Name)
	assert.Equal(t, "named", c1.Name)
	assert.Equal(t, "test-node-2", c2.Name)
	assert.Equal(t, 1, IndexOf(root.Children, c1))
	assert.Equal(t, -1, IndexOf(root.Children, New[*testNode]()))
	assert.Equal(t, 2, c2.IndexInParent())

	orphan := New[*testNode]()
	assert.Nil(t, orphan.Parent)
	assert.Equal(t, Node(orphan), orphan.This)
}

func TestNodeDetach(t *testing.T) {
	root := NewRoot[*testNode]("root")
	a := New[*testNode](root)
	b := New[*testNode](a)

	assert.True(t, a.Detach())
	assert.False(t, a.Detach())
	assert.Empty(t, root.Children)
	assert.Nil(t, a.Parent)
	assert.False(t, a.IsDestroyed())
	assert.Equal(t, Node(a), b.Parent)
	assert.True(t, IsRoot(a))
}

func TestMoveToParent(t *testing.T) {
	root := NewRoot[*testNode]("root")
	a := New[*testNode](root)
	b := New[*testNode](root)
	c := New[*testNode](a)

	MoveToParent(c, b)
	assert.Empty(t, a.Children)
	require.Len(t, b.Children, 1)
	assert.Equal(t, Node(c), b.Children[0])
	assert.Equal(t, Node(b), c.Parent)
	assert.Equal(t, Node(root), Root(c))
	assert.Equal(t, 2, c.added)
}

func TestNodeDeleteRecursive(t *testing.T) {
	root := NewRoot[*testNode]("root")
	a := New[*testNode](root)
	b := New[*testNode](a)
	c := New[*testNode](b)
	keep := New[*testNode](root)

	a.Delete()
	assert.True(t, a.IsDestroyed())
	assert.True(t, b.IsDestroyed())
	assert.True(t, c.IsDestroyed())
	assert.Nil(t, a.Parent)
	assert.Nil(t, b.Parent)
	assert.Nil(t, c.Parent)
	assert.Empty(t, a.Children)
	require.Len(t, root.Children, 1)
	assert.Equal(t, Node(keep), root.Children[0])

	// destroying twice is harmless
	a.Destroy()
	a.Delete()
	assert.False(t, root.DeleteChild(a))
	assert.False(t, root.DeleteChildAt(5))
}

func TestWalk(t *testing.T) {
	root := NewRoot[*testNode]("root")
	c0 := New[*testNode](root)
	c0.Name = "child0"
	c1 := New[*testNode](root)
	c1.Name = "child1"
	sc := New[*testNode](c1)
	sc.Name = "subchild1"
	ssc := New[*testNode](sc)
	ssc.Name = "subsubchild1"
	c2 := New[*testNode](root)
	c2.Name = "child2"

	var res []string
	root.WalkDown(func(n Node) bool {
		res = append(res, n.AsTree().Path())
		return Continue
	})
	assert.Equal(t, []string{"/root", "/root/child0", "/root/child1", "/root/child1/subchild1", "/root/child1/subchild1/subsubchild1", "/root/child2"}, res)

	res = nil
	root.WalkDown(func(n Node) bool {
		res = append(res, n.AsTree().Name)
		return n.AsTree().Name != "child1"
	})
	assert.Equal(t, []string{"root", "child0", "child1", "child2"}, res)

	res = nil
	ssc.WalkUp(func(n Node) bool {
		res = append(res, n.AsTree().Name)
		return Continue
	})
	assert.Equal(t, []string{"subsubchild1", "subchild1", "child1", "root"}, res)

	res = nil
	finished := ssc.WalkUp(func(n Node) bool {
		res = append(res, n.AsTree().Name)
		return n.AsTree().Name != "subchild1"
	})
	assert.False(t, finished)
	assert.Equal(t, []string{"subsubchild1", "subchild1"}, res)
}

func TestWalkDownDestroying(t *testing.T) {
	root := NewRoot[*testNode]("root")
	a := New[*testNode](root)
	New[*testNode](a)
	b := New[*testNode](root)

	var visited []Node
	root.WalkDown(func(n Node) bool {
		visited = append(visited, n)
		if n == Node(a) {
			a.Delete()
		}
		return Continue
	})
	assert.Equal(t, []Node{root, a, b}, visited)
}

func TestClone(t *testing.T) {
	root := NewRoot[*testNode]("root")
	root.Mass = 2
	root.Tags = []string{"x"}
	kid := New[*testNode](root)
	kid.Name = "kid"
	kid.Mass = 3

	cl := root.Clone().(*testNode)
	assert.Equal(t, "root", cl.Name)
	assert.Nil(t, cl.Parent)
	assert.Equal(t, float32(2), cl.Mass)
	assert.Equal(t, []string{"x"}, cl.Tags)
	cl.Tags[0] = "y"
	assert.Equal(t, "x", root.Tags[0])

	require.Len(t, cl.Children, 1)
	ck := cl.Children[0].(*testNode)
	assert.Equal(t, "kid", ck.Name)
	assert.Equal(t, float32(3), ck.Mass)
	assert.Equal(t, Node(cl), ck.Parent)
	assert.NotSame(t, kid, ck)
}
