// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import "sync"

// Group collects individual elements in a scene but does not have a
// renderable of its own. It does have a transform that applies to all
// nodes under it.
type Group struct {
	NodeBase
}

// Anchor is a group whose pose is bound to an externally tracked
// position, such as a recognized image or a tapped surface point.
// It owns the content subtree attached under it.
type Anchor struct {
	Group

	// MarkerID is the identity of the tracked marker this anchor
	// follows; it is empty for anchors placed by a tap.
	MarkerID string `copier:"-"`

	release     func()
	releaseOnce sync.Once
}

// SetRelease sets the function that releases the platform resource
// backing this anchor. It is called at most once, by [Anchor.Release].
func (an *Anchor) SetRelease(fn func()) {
	an.release = fn
}

// Release releases the platform resource backing this anchor, if any.
// It is safe to call more than once.
func (an *Anchor) Release() {
	an.releaseOnce.Do(func() {
		if an.release != nil {
			an.release()
		}
	})
}

// test for impl
var (
	_ Node = &Group{}
	_ Node = &Anchor{}
)
