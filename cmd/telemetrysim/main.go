// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command telemetrysim is a synthetic robot: it connects to a viewer
// and sends a sweeping distance and a generated camera image.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"cogentcore.org/xyzar/base/errors"
	"cogentcore.org/xyzar/base/logx"
	"cogentcore.org/xyzar/telemetry"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/telemetry", "WebSocket URL of the viewer")
	interval := flag.Duration("interval", 100*time.Millisecond, "time between readings")
	period := flag.Duration("period", 10*time.Second, "time of one sweep out and back")
	maxDist := flag.Float64("max-distance", 200, "farthest distance of the sweep in cm")
	size := flag.Int("image-size", 64, "side of the generated image, 0 for none")
	format := flag.String("format", "jpeg", "image format: png, jpeg or bmp")
	debug := flag.Bool("debug", false, "show debug messages")
	flag.Parse()

	logx.UserLevel = logx.LevelFromFlags(*debug, true, false)
	logx.SetDefaultLogger()

	sim := &telemetry.Simulator{
		MaxDistanceCm: float32(*maxDist),
		Period:        *period,
		ImageSize:     *size,
		Format:        parseFormat(*format),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cl := errors.Must1(telemetry.Dial(ctx, *url))
	defer cl.Close()
	slog.Info("sending telemetry", "url", *url, "interval", *interval)
	errors.Must(sim.Run(ctx, cl, *interval))
}

func parseFormat(s string) telemetry.Formats {
	switch s {
	case "png":
		return telemetry.PNG
	case "bmp":
		return telemetry.BMP
	default:
		return telemetry.JPEG
	}
}
