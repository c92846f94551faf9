// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ar

import (
	"context"
	"image/color"

	"cogentcore.org/xyzar/asset"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/xyz"
)

// Content are the renderables placed into the scene.
type Content struct {

	// Control is the control panel shown on each tracked marker.
	Control *asset.Future[*xyz.Renderable]

	// Model is the model placed by a tap.
	Model *asset.Future[*xyz.Renderable]

	// Label is the label shown above a tapped model.
	Label *asset.Future[*xyz.Renderable]
}

// Sources are the sources of the [Content].
type Sources struct {
	Control asset.Source
	Model   asset.Source
	Label   asset.Source
}

// DefaultSources returns the standard content.
func DefaultSources() Sources {
	return Sources{
		Control: asset.Source{Name: "control", Kind: asset.Panel, Size: math32.Vec3(0.2, 0.1, 0), Color: color.RGBA{200, 200, 200, 255}},
		Model:   asset.Source{Name: "model", Kind: asset.Cube, Size: math32.Vec3(0.1, 0.1, 0.1), Color: color.RGBA{120, 200, 80, 255}},
		Label:   asset.Source{Name: "label", Kind: asset.Panel, Size: math32.Vec3(0.15, 0.05, 0), Color: color.RGBA{255, 255, 255, 255}},
	}
}

// BuildContent starts building all of the sources.
func BuildContent(ctx context.Context, b *asset.Builder, src Sources) Content {
	return Content{
		Control: b.Build(ctx, src.Control),
		Model:   b.Build(ctx, src.Model),
		Label:   b.Build(ctx, src.Label),
	}
}

// Ready returns whether every renderable has finished building,
// successfully or not.
func (c *Content) Ready() bool {
	return ready(c.Control) && ready(c.Model) && ready(c.Label)
}

func ready(f *asset.Future[*xyz.Renderable]) bool {
	return f == nil || f.Ready()
}
