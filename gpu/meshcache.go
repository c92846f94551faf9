// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"cogentcore.org/xyzar/shape"
)

// MeshCache uploads each mesh once per graphics context and reuses
// its buffers on later frames.
type MeshCache struct {
	dev  Device
	bufs map[*shape.Mesh]MeshBuffers
}

// NewMeshCache returns an empty cache uploading to the given device.
func NewMeshCache(dev Device) *MeshCache {
	return &MeshCache{dev: dev, bufs: map[*shape.Mesh]MeshBuffers{}}
}

// Buffers returns the buffers for the mesh, uploading it on first use.
func (mc *MeshCache) Buffers(ms *shape.Mesh) (MeshBuffers, error) {
	if mb, ok := mc.bufs[ms]; ok {
		return mb, nil
	}
	mb, err := mc.dev.UploadMesh(ms)
	if err != nil {
		return MeshBuffers{}, fmt.Errorf("gpu: uploading mesh %q: %w", ms.Name, err)
	}
	mc.bufs[ms] = mb
	return mb, nil
}

// Len returns the number of meshes currently uploaded.
func (mc *MeshCache) Len() int {
	return len(mc.bufs)
}

// Release deletes all uploaded buffers and empties the cache.
func (mc *MeshCache) Release() {
	for _, mb := range mc.bufs {
		mc.dev.ReleaseMesh(mb)
	}
	clear(mc.bufs)
}

// Forget empties the cache without deleting anything, for buffers
// that belonged to a graphics context that no longer exists.
func (mc *MeshCache) Forget() {
	clear(mc.bufs)
}
