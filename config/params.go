// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"time"

	"cogentcore.org/xyzar/ar"
	"cogentcore.org/xyzar/asset"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/render"
)

// Params returns the render parameters. The colors must be valid,
// which [Config.Validate] ensures.
func (r *Render) Params() (render.Params, error) {
	cc, err := ParseHex(r.ClearColor)
	if err != nil {
		return render.Params{}, err
	}
	return render.Params{
		ClearColor: cc,
		Eye:        r.Eye,
		Center:     r.Center,
		Up:         r.Up,
		Near:       r.Near,
		Far:        r.Far,
		Distance:   r.Distance,
		Light:      math32.Vector4FromVector3(r.Light, 1),
		Period:     r.Period(),
		Spin:       r.Spin,
		Pitch:      r.Pitch,
	}, nil
}

// Sources returns the sources of the AR content.
func (a *Assets) Sources() (ar.Sources, error) {
	src := ar.DefaultSources()
	var err error
	if src.Model.Color, err = ParseHex(a.ModelColor); err != nil {
		return src, err
	}
	if src.Control.Color, err = ParseHex(a.ControlColor); err != nil {
		return src, err
	}
	if src.Label.Color, err = ParseHex(a.LabelColor); err != nil {
		return src, err
	}
	if src.Model.Kind, err = asset.ParseKind(a.ModelKind); err != nil {
		return src, err
	}
	src.Model.Size = math32.Vec3(a.CubeSize, a.CubeSize, a.CubeSize)
	src.Control.Size = math32.Vec3(a.PanelWidth, a.PanelHeight, 0)
	return src, nil
}

// ModelSource returns the source of the standalone model.
func (a *Assets) ModelSource() (asset.Source, error) {
	c, err := ParseHex(a.ModelColor)
	if err != nil {
		return asset.Source{}, err
	}
	k, err := asset.ParseKind(a.ModelKind)
	if err != nil {
		return asset.Source{}, err
	}
	return asset.Source{Name: "model", Kind: k, Size: math32.Vec3(a.CubeSize, a.CubeSize, a.CubeSize), Color: c}, nil
}

// Builder returns the asset builder.
func (a *Assets) Builder() *asset.Builder {
	return &asset.Builder{Latency: time.Duration(a.LatencyMs) * time.Millisecond}
}
