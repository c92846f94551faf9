// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration of the xyzar viewer,
// loaded from a TOML or YAML file on top of [Defaults].
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"cogentcore.org/xyzar/asset"
	"cogentcore.org/xyzar/math32"
)

// ErrUnknownFormat is returned for a config file with an unsupported extension.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Modes are the ways the viewer can run.
type Modes int32

const (
	// Standalone renders a single model oriented by robot telemetry.
	Standalone Modes = iota

	// AR renders content anchored to tracked markers.
	AR
)

var modeNames = [...]string{"standalone", "ar"}

func (m Modes) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Modes(%d)", int32(m))
	}
	return modeNames[m]
}

// SetString sets the mode from its name.
func (m *Modes) SetString(s string) error {
	for i, nm := range modeNames {
		if strings.EqualFold(nm, s) {
			*m = Modes(i)
			return nil
		}
	}
	return fmt.Errorf("config: unknown mode %q", s)
}

func (m *Modes) UnmarshalText(text []byte) error { return m.SetString(string(text)) }

func (m Modes) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Config is the main config struct that contains all of the
// configuration options for the viewer.
type Config struct {

	// Mode is how the viewer runs.
	Mode Modes `toml:"mode" yaml:"mode"`

	// Window has the options for the desktop window.
	Window Window `toml:"window" yaml:"window"`

	// Render has the camera, lighting and animation options.
	Render Render `toml:"render" yaml:"render"`

	// Shaders has the options for custom shader sources.
	Shaders Shaders `toml:"shaders" yaml:"shaders"`

	// Telemetry has the options for the robot connection.
	Telemetry Telemetry `toml:"telemetry" yaml:"telemetry"`

	// Assets has the options for the content that is built.
	Assets Assets `toml:"assets" yaml:"assets"`

	// AR has the options for AR mode.
	AR ARConfig `toml:"ar" yaml:"ar"`

	// Log has the logging options.
	Log Log `toml:"log" yaml:"log"`
}

type Window struct {
	Title  string `toml:"title" yaml:"title"`
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
}

type Render struct {

	// ClearColor is the background color as #rrggbb or #rrggbbaa.
	ClearColor string `toml:"clear_color" yaml:"clear_color"`

	Eye    math32.Vector3 `toml:"eye" yaml:"eye"`
	Center math32.Vector3 `toml:"center" yaml:"center"`
	Up     math32.Vector3 `toml:"up" yaml:"up"`
	Near   float32        `toml:"near" yaml:"near"`
	Far    float32        `toml:"far" yaml:"far"`

	// Distance is how far in front of the camera the model is placed.
	Distance float32 `toml:"distance" yaml:"distance"`

	// Light is the world-space light position.
	Light math32.Vector3 `toml:"light" yaml:"light"`

	// PeriodMs is the duration of one animation turn in milliseconds.
	PeriodMs int `toml:"period_ms" yaml:"period_ms"`

	// Spin is the animation axis; zero disables the animation.
	Spin math32.Vector3 `toml:"spin" yaml:"spin"`

	// Pitch is the initial model pitch in degrees.
	Pitch float32 `toml:"pitch" yaml:"pitch"`
}

// Period returns the animation period.
func (r *Render) Period() time.Duration {
	return time.Duration(r.PeriodMs) * time.Millisecond
}

type Shaders struct {

	// Vertex is the path of the vertex shader; empty uses the built-in one.
	Vertex string `toml:"vertex" yaml:"vertex"`

	// Fragment is the path of the fragment shader; empty uses the built-in one.
	Fragment string `toml:"fragment" yaml:"fragment"`

	// Watch is whether to reload the shaders when their files change.
	Watch bool `toml:"watch" yaml:"watch"`
}

type Telemetry struct {

	// Addr is the address the telemetry server listens on.
	Addr string `toml:"addr" yaml:"addr"`

	// Path is the URL path of the WebSocket endpoint.
	Path string `toml:"path" yaml:"path"`

	// MaxDistanceCm is the distance that maps to a 90 degree pitch.
	MaxDistanceCm float32 `toml:"max_distance_cm" yaml:"max_distance_cm"`

	// ThumbnailSize is the largest side of decoded camera images.
	ThumbnailSize int `toml:"thumbnail_size" yaml:"thumbnail_size"`
}

type Assets struct {

	// ModelKind is the shape of the model: cube or panel.
	ModelKind string `toml:"model_kind" yaml:"model_kind"`

	CubeSize     float32 `toml:"cube_size" yaml:"cube_size"`
	PanelWidth   float32 `toml:"panel_width" yaml:"panel_width"`
	PanelHeight  float32 `toml:"panel_height" yaml:"panel_height"`
	ModelColor   string  `toml:"model_color" yaml:"model_color"`
	ControlColor string  `toml:"control_color" yaml:"control_color"`
	LabelColor   string  `toml:"label_color" yaml:"label_color"`

	// LatencyMs delays every build, to exercise pending content.
	LatencyMs int `toml:"latency_ms" yaml:"latency_ms"`
}

type ARConfig struct {

	// Script is the path of the tracking script to play.
	Script string `toml:"script" yaml:"script"`
}

type Log struct {

	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Mode:   Standalone,
		Window: Window{Title: "xyzar", Width: 1024, Height: 768},
		Render: Render{
			ClearColor: "#0000ff",
			Eye:        math32.Vec3(0, 0, 1.5),
			Center:     math32.Vec3(0, 0, -5),
			Up:         math32.Vec3(0, 1, 0),
			Near:       1,
			Far:        100,
			Distance:   0.5,
			Light:      math32.Vec3(0, 1, 1),
			PeriodMs:   14000,
			Spin:       math32.Vec3(1, 1, 0),
			Pitch:      10,
		},
		Telemetry: Telemetry{Addr: ":8080", Path: "/telemetry", MaxDistanceCm: 200, ThumbnailSize: 256},
		Assets: Assets{
			ModelKind:    "cube",
			CubeSize:     0.1,
			PanelWidth:   0.2,
			PanelHeight:  0.1,
			ModelColor:   "#78c850",
			ControlColor: "#c8c8c8",
			LabelColor:   "#ffffff",
		},
		Log: Log{Level: "info"},
	}
}

// Load returns the configuration in the given file on top of [Defaults].
// The format is chosen by the extension: .toml, .yaml or .yml.
// Unknown keys are an error.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return cfg, nil
}

// Validate returns an error describing every invalid option.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", cfg.Window.Width, cfg.Window.Height))
	}
	if cfg.Render.Near <= 0 || cfg.Render.Far <= cfg.Render.Near {
		errs = append(errs, fmt.Errorf("render near %v and far %v must satisfy 0 < near < far", cfg.Render.Near, cfg.Render.Far))
	}
	if cfg.Render.PeriodMs <= 0 {
		errs = append(errs, fmt.Errorf("render period_ms %d must be positive", cfg.Render.PeriodMs))
	}
	if cfg.Telemetry.MaxDistanceCm <= 0 {
		errs = append(errs, fmt.Errorf("telemetry max_distance_cm %v must be positive", cfg.Telemetry.MaxDistanceCm))
	}
	for _, c := range []string{cfg.Render.ClearColor, cfg.Assets.ModelColor, cfg.Assets.ControlColor, cfg.Assets.LabelColor} {
		if _, err := ParseHex(c); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := asset.ParseKind(cfg.Assets.ModelKind); err != nil {
		errs = append(errs, fmt.Errorf("assets model_kind: %w", err))
	}
	return errors.Join(errs...)
}
