// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xyz is a retained 3D scene graph: groups, solids and anchors
// arranged in a [tree] with local poses, whose world transforms are the
// composition of the local transforms along the path from the root.
// All structural changes go through [Scene], which serializes them
// against render walks.
package xyz

import "cogentcore.org/xyzar/tree"

// Node is the common interface for all xyz scene graph nodes.
type Node interface {
	tree.Node

	// AsNode returns a generic [NodeBase] for our node, giving generic
	// access to all the base-level data structures.
	AsNode() *NodeBase

	// IsSolid returns true if this is an [Solid] node (else a [Group]).
	IsSolid() bool

	// AsSolid returns the node as a [Solid] (nil if not).
	AsSolid() *Solid
}

// NodeBase is the basic xyz scenegraph node, which has the full transform
// information relative to parent, and computed world transform.
type NodeBase struct {
	tree.NodeBase

	// complete specification of position and orientation
	Pose Pose
}

// Init sets the default pose.
func (nb *NodeBase) Init() {
	nb.Pose.Defaults()
}

// AsNode returns a generic [NodeBase] for our node.
func (nb *NodeBase) AsNode() *NodeBase {
	return nb
}

func (nb *NodeBase) IsSolid() bool {
	return false
}

func (nb *NodeBase) AsSolid() *Solid {
	return nil
}

// SetPos sets the [Pose.Pos] position of the node.
func (nb *NodeBase) SetPos(x, y, z float32) {
	nb.Pose.Pos.Set(x, y, z)
}

// AsNode converts the given tree node to a [Node] and [NodeBase],
// returning nil if that is not possible.
func AsNode(n tree.Node) (Node, *NodeBase) {
	ni, ok := n.(Node)
	if ok {
		return ni, ni.AsNode()
	}
	return nil, nil
}
