// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"cogentcore.org/xyzar/math32"
	"cogentcore.org/xyzar/shape"
	"cogentcore.org/xyzar/xyz"
)

// ErrUnknownKind is returned when a [Source] names a shape kind that
// the builder does not know how to make.
var ErrUnknownKind = errors.New("asset: unknown source kind")

// Kinds are the kinds of content a [Builder] can make.
type Kinds int32

const (
	// Cube is a solid cube, Size.X on each side.
	Cube Kinds = iota

	// Panel is a flat two-sided rectangle of Size.X by Size.Y,
	// used for control panels and labels.
	Panel
)

var kindNames = [...]string{Cube: "cube", Panel: "panel"}

func (k Kinds) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kinds(%d)", int32(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kinds, error) {
	for i, nm := range kindNames {
		if strings.EqualFold(nm, s) {
			return Kinds(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Source describes content to build.
type Source struct {
	Name  string
	Kind  Kinds
	Size  math32.Vector3
	Color color.RGBA
}

// Builder makes [xyz.Renderable]s asynchronously.
type Builder struct {

	// Latency delays every build, standing in for slow decoding or
	// download of real assets.
	Latency time.Duration
}

// Build starts building the given source in a new goroutine and returns
// a future for the result. Canceling the context fails a pending build.
func (b *Builder) Build(ctx context.Context, src Source) *Future[*xyz.Renderable] {
	return Go(ctx, func(ctx context.Context) (*xyz.Renderable, error) {
		return b.build(ctx, src)
	})
}

func (b *Builder) build(ctx context.Context, src Source) (*xyz.Renderable, error) {
	if b.Latency > 0 {
		tm := time.NewTimer(b.Latency)
		defer tm.Stop()
		select {
		case <-tm.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("asset: building %q: %w", src.Name, ctx.Err())
		}
	}
	var ms *shape.Mesh
	switch src.Kind {
	case Cube:
		ms = shape.NewCube(src.Name, src.Size.X)
	case Panel:
		ms = shape.NewPanel(src.Name, src.Size.X, src.Size.Y)
	default:
		return nil, fmt.Errorf("asset: building %q: %w: %v", src.Name, ErrUnknownKind, src.Kind)
	}
	if err := ms.Validate(); err != nil {
		return nil, fmt.Errorf("asset: building %q: %w", src.Name, err)
	}
	slog.Debug("asset built", "name", src.Name, "kind", src.Kind, "vertices", ms.NumVertices())
	return &xyz.Renderable{Name: src.Name, Mesh: ms, Color: src.Color}, nil
}
