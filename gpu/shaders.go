// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import _ "embed"

// DefaultVertexShader is the per-vertex diffuse lighting shader.
//
//go:embed shaders/lighting.vert.glsl
var DefaultVertexShader string

// DefaultFragmentShader passes the interpolated vertex color through.
//
//go:embed shaders/lighting.frag.glsl
var DefaultFragmentShader string
