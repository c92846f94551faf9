// Copyright (c) 2018, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tree

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// admin.go has infrastructure code outside of the Node interface.

// InitNode initializes the node. It sets [NodeBase.This] and
// calls [Node.Init] the first time it is called for a node.
func InitNode(n Node) {
	nb := n.AsTree()
	if nb.This != n {
		nb.This = n
		nb.This.Init()
	}
}

// SetParent sets the parent of the given node to the given parent node.
// This is only for nodes with no existing parent; see [MoveToParent] to
// move nodes that already have a parent. It does not add the node to the
// parent's list of children; see [NodeBase.AddChild] for a version that does.
func SetParent(child Node, parent Node) {
	n := child.AsTree()
	n.Parent = parent
	if parent != nil {
		pn := parent.AsTree()
		pn.numLifetimeChildren++
		if n.Name == "" {
			n.Name = TypeIDName(child) + "-" + strconv.FormatUint(pn.numLifetimeChildren-1, 10) // start at 0
		}
	}
	child.OnAdd()
}

// MoveToParent removes the given node from its current parent
// and adds it as a child of the given new parent.
// The old and new parents can be in different trees (or not).
func MoveToParent(child Node, parent Node) {
	child.AsTree().Detach()
	parent.AsTree().AddChild(child)
}

// New returns a new node of the given type, added as a child of the
// given parent if one is specified. If the name is not set, it
// defaults to the kebab-case name of the type, plus the number of
// children ever added to the parent.
func New[T Node](parent ...Node) T {
	n := newOfType[T]()
	if len(parent) == 0 || parent[0] == nil {
		InitNode(n)
		return n
	}
	parent[0].AsTree().AddChild(n)
	return n
}

// NewRoot returns a new root node of the given the type
// with the given name. If the name is unspecified, it
// defaults to the kebab-case name of the type.
func NewRoot[T Node](name ...string) T {
	n := newOfType[T]()
	InitNode(n)
	if len(name) > 0 {
		n.AsTree().Name = name[0]
	} else {
		n.AsTree().Name = TypeIDName(n)
	}
	return n
}

func newOfType[T Node]() T {
	var n T
	return reflect.New(reflect.TypeOf(n).Elem()).Interface().(T)
}

// IsRoot tests whether the given node is the root node in its tree.
func IsRoot(n Node) bool {
	nb := n.AsTree()
	return nb.This == nil || nb.Parent == nil || nb.Parent.AsTree().This == nil
}

// Root returns the root node of the given node's tree.
func Root(n Node) Node {
	if IsRoot(n) {
		return n.AsTree().This
	}
	return Root(n.AsTree().Parent)
}

// IndexOf returns the index of the given node in the given slice,
// or -1 if it is not found. The optional startIndex argument is a
// guess at where the node might be, which is checked first.
func IndexOf(slice []Node, child Node, startIndex ...int) int {
	if len(startIndex) > 0 {
		si := startIndex[0]
		if si >= 0 && si < len(slice) && slice[si] == child {
			return si
		}
	}
	return slices.Index(slice, child)
}

// TypeIDName returns the kebab-case name of the concrete type of the
// given node, such as "solid" for *xyz.Solid.
func TypeIDName(n Node) string {
	typ := reflect.TypeOf(n)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	var b strings.Builder
	for i, r := range typ.Name() {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
