// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/xyzar/base/websocket"
	"cogentcore.org/xyzar/math32"
)

func TestReadingWire(t *testing.T) {
	rd := Reading{DistanceCm: 12.5, Image: []byte{1, 2, 3}}
	msg := rd.Encode()
	assert.Equal(t, []byte{0x00, 0x00, 0x48, 0x41, 1, 2, 3}, msg)

	got, err := Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, rd, got)

	got, err = Decode(msg[:4])
	require.NoError(t, err)
	assert.Equal(t, float32(12.5), got.DistanceCm)
	assert.Nil(t, got.Image)

	_, err = Decode(msg[:3])
	assert.ErrorIs(t, err, ErrShortMessage)
}

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 100, 255})
		}
	}
	return img
}

func TestDecodeImage(t *testing.T) {
	for _, f := range []Formats{PNG, JPEG, BMP} {
		var buf bytes.Buffer
		require.NoError(t, EncodeImage(&buf, testImage(64, 32), f))

		sf, err := Sniff(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, f, sf)

		img, df, err := DecodeImage(buf.Bytes(), 16)
		require.NoError(t, err, f.String())
		assert.Equal(t, f, df)
		assert.Equal(t, image.Pt(16, 8), img.Bounds().Size(), f.String())

		img, _, err = DecodeImage(buf.Bytes(), 0)
		require.NoError(t, err)
		assert.Equal(t, image.Pt(64, 32), img.Bounds().Size())
	}
	assert.Error(t, EncodeImage(&bytes.Buffer{}, testImage(2, 2), WebP))
}

func TestDecodeImageErrors(t *testing.T) {
	_, _, err := DecodeImage(nil, 0)
	assert.ErrorIs(t, err, ErrUnknownImage)
	_, _, err = DecodeImage([]byte("plain text, not an image"), 0)
	assert.ErrorIs(t, err, ErrUnknownImage)
	_, _, err = DecodeImage([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"), 0)
	assert.ErrorIs(t, err, ErrUnknownImage)

	_, f, err := DecodeImage([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x00broken"), 0)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownImage)
	assert.Equal(t, PNG, f)
}

func TestThumbnail(t *testing.T) {
	img := testImage(20, 40)
	assert.Equal(t, image.Pt(5, 10), Thumbnail(img, 10).Bounds().Size())
	assert.Same(t, img, Thumbnail(img, 40))
	assert.Equal(t, image.Pt(1, 100), Thumbnail(testImage(1, 400), 100).Bounds().Size())
}

func TestPitch(t *testing.T) {
	assert.Equal(t, float32(0), Pitch(0, 100))
	assert.InDelta(t, 45, Pitch(50, 100), 1e-5)
	assert.Equal(t, float32(90), Pitch(250, 100))
	assert.Equal(t, float32(0), Pitch(-3, 100))
	assert.Equal(t, float32(0), Pitch(10, 0))

	m := Orientation(100, 100)
	up := math32.Vec4(0, 1, 0, 0).MulMatrix4(&m)
	assert.True(t, up.IsEqualTol(math32.Vec4(0, 0, 1, 0), 1e-5), "up %v", up)
}

func TestSimulator(t *testing.T) {
	sm := &Simulator{MaxDistanceCm: 200, Period: 4 * time.Second, ImageSize: 8, Format: PNG}
	rd, err := sm.Reading(0)
	require.NoError(t, err)
	assert.InDelta(t, 0, rd.DistanceCm, 1e-3)
	f, err := Sniff(rd.Image)
	require.NoError(t, err)
	assert.Equal(t, PNG, f)

	rd, err = sm.Reading(2 * time.Second)
	require.NoError(t, err)
	assert.InDelta(t, 200, rd.DistanceCm, 1e-3)
	rd2, err := sm.Reading(6 * time.Second)
	require.NoError(t, err)
	assert.InDelta(t, rd.DistanceCm, rd2.DistanceCm, 1e-3)
}

func TestServerDropsForSlowSubscriber(t *testing.T) {
	sv := NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := sv.Subscribe(ctx)
	for i := range 3 {
		sv.Publish(Reading{DistanceCm: float32(i)})
	}
	st := sv.Stats()
	assert.Equal(t, int64(3), st.Received)
	assert.Equal(t, int64(2), st.Dropped)
	assert.Equal(t, float32(0), (<-sub).DistanceCm)
}

func TestServerUnsubscribe(t *testing.T) {
	sv := NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	sub := sv.Subscribe(ctx)
	other := sv.Subscribe(context.Background())
	assert.Equal(t, 2, sv.NumSubscribers())

	cancel()
	_, ok := <-sub
	assert.False(t, ok)
	assert.Equal(t, 1, sv.NumSubscribers())

	sv.Close()
	_, ok = <-other
	assert.False(t, ok)
	_, ok = <-sv.Subscribe(context.Background())
	assert.False(t, ok)
	sv.Publish(Reading{})
	assert.Zero(t, sv.NumSubscribers())
}

func TestServerClient(t *testing.T) {
	sv := NewServer()
	sv.Buffer = 8
	srv := httptest.NewServer(sv)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := sv.Subscribe(ctx)

	cl, err := Dial(ctx, url)
	require.NoError(t, err)
	defer cl.Close()

	var buf bytes.Buffer
	require.NoError(t, EncodeImage(&buf, testImage(4, 4), PNG))
	require.NoError(t, cl.Send(Reading{DistanceCm: 42, Image: buf.Bytes()}))
	select {
	case rd := <-sub:
		assert.Equal(t, float32(42), rd.DistanceCm)
		assert.Equal(t, buf.Bytes(), rd.Image)
	case <-ctx.Done():
		t.Fatal("no reading delivered")
	}

	// invalid messages are counted and dropped without ending the stream
	require.NoError(t, cl.ws.Send(websocket.TextMessage, []byte("hi")))
	require.NoError(t, cl.ws.Send(websocket.BinaryMessage, []byte{1}))
	require.NoError(t, cl.Send(Reading{DistanceCm: 7}))
	select {
	case rd := <-sub:
		assert.Equal(t, float32(7), rd.DistanceCm)
	case <-ctx.Done():
		t.Fatal("stream ended")
	}
	assert.Equal(t, int64(2), sv.Stats().Invalid)
	assert.Equal(t, int64(2), sv.Stats().Received)
}

func TestDialError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv := httptest.NewServer(NewServer())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()
	_, err := Dial(ctx, url)
	assert.Error(t, err)
}
