// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/xyzar/asset"
	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/render"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	params, err := cfg.Render.Params()
	require.NoError(t, err)
	assert.Equal(t, render.DefaultParams(), params)
}

func TestLoadTOML(t *testing.T) {
	cfg, err := Load("testdata/viewer.toml")
	require.NoError(t, err)
	assert.Equal(t, AR, cfg.Mode)
	assert.Equal(t, "robot", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.Equal(t, float32(50), cfg.Render.Far)
	assert.Equal(t, float32(1), cfg.Render.Near)
	assert.Equal(t, 7*time.Second, cfg.Render.Period())
	assert.Equal(t, math32.Vec3(0, 0.5, 2), cfg.Render.Eye)
	assert.Equal(t, "127.0.0.1:9000", cfg.Telemetry.Addr)
	assert.Equal(t, "/telemetry", cfg.Telemetry.Path)
	assert.Equal(t, "img1.yaml", cfg.AR.Script)

	params, err := cfg.Render.Params()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0xff}, params.ClearColor)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load("testdata/viewer.yaml")
	require.NoError(t, err)
	assert.Equal(t, Standalone, cfg.Mode)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 480, cfg.Window.Height)
	assert.Equal(t, float32(30), cfg.Render.Pitch)
	assert.Equal(t, "custom.vert.glsl", cfg.Shaders.Vertex)
	assert.True(t, cfg.Shaders.Watch)
	assert.Equal(t, "debug", cfg.Log.Level)

	params, err := cfg.Render.Params()
	require.NoError(t, err)
	assert.Equal(t, math32.Vec4(1, 2, 3, 1), params.Light)

	src, err := cfg.Assets.ModelSource()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, src.Color)
	assert.Equal(t, asset.Panel, src.Kind)
	assert.Equal(t, math32.Vec3(0.1, 0.1, 0.1), src.Size)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "cfg.json", "{}"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "cfg.toml", "colour = 1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "cfg.yaml", "mode: vr\n"))
	assert.ErrorContains(t, err, "unknown mode")

	_, err = Load(writeFile(t, "cfg.yml", "render:\n  near: 5\n  far: 2\n"))
	assert.ErrorContains(t, err, "near")

	_, err = Load(writeFile(t, "cfg.toml", "[assets]\nlabel_color = \"white\"\n"))
	assert.ErrorContains(t, err, "invalid hex color")

	_, err = Load(writeFile(t, "cfg.yaml", "assets:\n  model_kind: sphere\n"))
	assert.ErrorIs(t, err, asset.ErrUnknownKind)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#0000ff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, c)
	c, err = ParseHex("11223344")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x11, 0x22, 0x33, 0x44}, c)
	c, err = ParseHex("#abc")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xaa, 0xbb, 0xcc, 0xff}, c)
	for _, bad := range []string{"", "#12345", "#gggggg", "blue"} {
		_, err := ParseHex(bad)
		assert.Error(t, err, bad)
	}
}

func TestSources(t *testing.T) {
	a := Defaults().Assets
	a.PanelWidth = 0.3
	src, err := a.Sources()
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(0.3, 0.1, 0), src.Control.Size)
	assert.Equal(t, color.RGBA{0xc8, 0xc8, 0xc8, 0xff}, src.Control.Color)
	assert.Equal(t, asset.Cube, src.Model.Kind)
	assert.Equal(t, time.Duration(0), a.Builder().Latency)
}
