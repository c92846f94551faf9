// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package telemetry carries readings from a robot to a viewer over a
// WebSocket. Each reading is one binary message: the distance in
// centimeters as a little-endian float32, followed by the raw bytes
// of a camera image.
package telemetry

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrShortMessage is returned when a message is too short to hold a reading.
var ErrShortMessage = errors.New("telemetry: message too short")

// headerSize is the size of the distance that starts every message.
const headerSize = 4

// Reading is one telemetry sample.
type Reading struct {

	// DistanceCm is the range sensor distance in centimeters.
	DistanceCm float32

	// Image is the encoded camera image (JPEG, PNG, BMP or WebP).
	Image []byte
}

// Encode returns the wire form of the reading.
func (rd *Reading) Encode() []byte {
	b := make([]byte, headerSize+len(rd.Image))
	binary.LittleEndian.PutUint32(b, math.Float32bits(rd.DistanceCm))
	copy(b[headerSize:], rd.Image)
	return b
}

// Decode parses a reading from its wire form. The image of the
// returned reading shares memory with msg.
func Decode(msg []byte) (Reading, error) {
	if len(msg) < headerSize {
		return Reading{}, fmt.Errorf("%w: %d bytes", ErrShortMessage, len(msg))
	}
	rd := Reading{DistanceCm: math.Float32frombits(binary.LittleEndian.Uint32(msg))}
	if len(msg) > headerSize {
		rd.Image = msg[headerSize:]
	}
	return rd, nil
}

// Source is a restartable sequence of readings. Every call to Subscribe
// starts a new subscription; its channel is closed when the context is
// canceled or the source shuts down. Readings may be delivered from any
// goroutine, and are dropped rather than block a subscriber that falls
// behind.
type Source interface {
	Subscribe(ctx context.Context) <-chan Reading
}
