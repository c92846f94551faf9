// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"log/slog"
	"time"

	"cogentcore.org/xyzar/math32"
)

// Simulator produces synthetic readings: a distance that sweeps back
// and forth, and a small gradient image that shifts with it.
type Simulator struct {

	// MaxDistanceCm is the farthest distance of the sweep.
	MaxDistanceCm float32

	// Period is the duration of one full sweep out and back.
	Period time.Duration

	// ImageSize is the side of the square image.
	ImageSize int

	// Format is the image encoding.
	Format Formats
}

// Reading returns the reading at the given time from the start.
func (sm *Simulator) Reading(elapsed time.Duration) (Reading, error) {
	phase := float32(0)
	if sm.Period > 0 {
		phase = float32(elapsed%sm.Period) / float32(sm.Period)
	}
	frac := (1 - math32.Cos(phase*2*math32.Pi)) / 2
	rd := Reading{DistanceCm: frac * sm.MaxDistanceCm}
	if sm.ImageSize <= 0 {
		return rd, nil
	}
	img := image.NewRGBA(image.Rect(0, 0, sm.ImageSize, sm.ImageSize))
	shade := uint8(frac * 255)
	for y := range sm.ImageSize {
		for x := range sm.ImageSize {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / sm.ImageSize), uint8(y * 255 / sm.ImageSize), shade, 255})
		}
	}
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, sm.Format); err != nil {
		return rd, err
	}
	rd.Image = buf.Bytes()
	return rd, nil
}

// Run sends a reading through the client at every interval until the
// context is done or the connection closes.
func (sm *Simulator) Run(ctx context.Context, cl *Client, interval time.Duration) error {
	start := time.Now()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-cl.Done():
			slog.Info("telemetry connection closed")
			return nil
		case <-tick.C:
		}
		rd, err := sm.Reading(time.Since(start))
		if err != nil {
			return err
		}
		if err := cl.Send(rd); err != nil {
			return err
		}
		slog.Debug("telemetry sent", "distance", rd.DistanceCm, "bytes", len(rd.Image))
	}
}
