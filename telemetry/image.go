// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package telemetry

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/anthonynsimon/bild/transform"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnknownImage is returned for image bytes in an unsupported format.
var ErrUnknownImage = errors.New("telemetry: unknown image format")

// Formats are the supported camera image formats.
type Formats int32

const (
	None Formats = iota
	PNG
	JPEG
	BMP
	WebP
)

var formatNames = [...]string{"none", "png", "jpeg", "bmp", "webp"}

func (f Formats) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Formats(%d)", int32(f))
	}
	return formatNames[f]
}

// extToFormat maps file type extensions to formats.
var extToFormat = map[string]Formats{
	"png":  PNG,
	"jpg":  JPEG,
	"jpeg": JPEG,
	"bmp":  BMP,
	"webp": WebP,
}

// Sniff returns the format of the given image bytes from their
// leading signature.
func Sniff(data []byte) (Formats, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return None, ErrUnknownImage
	}
	f, ok := extToFormat[kind.Extension]
	if !ok {
		return None, fmt.Errorf("%w: %s", ErrUnknownImage, kind.MIME.Value)
	}
	return f, nil
}

// DecodeImage decodes the camera image of a reading. If maxSize is
// positive, an image with a side larger than maxSize is scaled down
// to fit, keeping its aspect ratio.
func DecodeImage(data []byte, maxSize int) (image.Image, Formats, error) {
	f, err := Sniff(data)
	if err != nil {
		return nil, None, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, f, fmt.Errorf("telemetry: decoding %v image: %w", f, err)
	}
	return Thumbnail(img, maxSize), f, nil
}

// Thumbnail scales the image down so neither side exceeds maxSize,
// keeping its aspect ratio. It returns the image unchanged if it
// already fits or maxSize is not positive.
func Thumbnail(img image.Image, maxSize int) image.Image {
	sz := img.Bounds().Size()
	if maxSize <= 0 || (sz.X <= maxSize && sz.Y <= maxSize) {
		return img
	}
	w, h := maxSize, maxSize
	if sz.X > sz.Y {
		h = max(1, sz.Y*maxSize/sz.X)
	} else {
		w = max(1, sz.X*maxSize/sz.Y)
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// EncodeImage writes the image in the given format.
// WebP can only be decoded.
func EncodeImage(w io.Writer, img image.Image, f Formats) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("telemetry: cannot encode %v images", f)
}
