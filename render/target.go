// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gputypes"
)

// ErrOutOfRange is returned by WriteAt when the write does not fit the buffer.
var ErrOutOfRange = errors.New("render: write out of range")

// Target defines where painted tiles go.
//
// It matches what mosaic painters need: a pixel format, a row stride and a
// bounded write. Implementations must allow concurrent WriteAt calls on
// disjoint ranges, as io.WriterAt requires.
type Target interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Stride returns the number of bytes per row.
	Stride() int

	io.WriterAt
}

// PixmapTarget is a CPU-backed target holding 8-bit premultiplied pixels
// in RGBA or BGRA byte order.
//
// Example:
//
//	target := render.NewPixmapTarget(800, 600)
//	m.Render(target)
//	img := target.Image()
type PixmapTarget struct {
	pix    []byte
	width  int
	height int
	stride int
	format gputypes.TextureFormat
}

// NewPixmapTarget creates a new RGBA target.
func NewPixmapTarget(width, height int) *PixmapTarget {
	return NewPixmapTargetWithFormat(width, height, gputypes.TextureFormatRGBA8Unorm)
}

// NewPixmapTargetWithFormat creates a new target with the given byte order.
// Formats other than RGBA8Unorm and BGRA8Unorm are accepted so that callers
// can exercise painters' format checks; painting into them fails.
func NewPixmapTargetWithFormat(width, height int, format gputypes.TextureFormat) *PixmapTarget {
	width, height = max(width, 0), max(height, 0)
	return &PixmapTarget{
		pix:    make([]byte, width*height*4),
		width:  width,
		height: height,
		stride: width * 4,
		format: format,
	}
}

// NewPixmapTargetFromImage wraps an existing *image.RGBA as a target.
// The image is used directly without copying.
func NewPixmapTargetFromImage(img *image.RGBA) *PixmapTarget {
	b := img.Bounds()
	return &PixmapTarget{
		pix:    img.Pix,
		width:  b.Dx(),
		height: b.Dy(),
		stride: img.Stride,
		format: gputypes.TextureFormatRGBA8Unorm,
	}
}

// Width returns the target width in pixels.
func (t *PixmapTarget) Width() int {
	return t.width
}

// Height returns the target height in pixels.
func (t *PixmapTarget) Height() int {
	return t.height
}

// Format returns the pixel format.
func (t *PixmapTarget) Format() gputypes.TextureFormat {
	return t.format
}

// Stride returns the number of bytes per row.
func (t *PixmapTarget) Stride() int {
	return t.stride
}

// Pixels returns direct access to the pixel data.
func (t *PixmapTarget) Pixels() []byte {
	return t.pix
}

// WriteAt copies p into the pixel data at byte offset off.
// Writes that would not fit entirely are rejected with ErrOutOfRange.
func (t *PixmapTarget) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(t.pix)) || int64(len(p)) > int64(len(t.pix))-off {
		return 0, fmt.Errorf("%w: %d bytes at offset %d, buffer is %d bytes",
			ErrOutOfRange, len(p), off, len(t.pix))
	}
	return copy(t.pix[off:], p), nil
}

// Image returns the contents as an *image.RGBA.
// RGBA targets share memory with the returned image; BGRA targets are
// converted into a new image.
func (t *PixmapTarget) Image() *image.RGBA {
	img := &image.RGBA{
		Pix:    t.pix,
		Stride: t.stride,
		Rect:   image.Rect(0, 0, t.width, t.height),
	}
	if t.format != gputypes.TextureFormatBGRA8Unorm {
		return img
	}

	out := image.NewRGBA(img.Rect)
	for y := range t.height {
		src := t.pix[y*t.stride : y*t.stride+t.width*4]
		dst := out.Pix[y*out.Stride:]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return out
}

// RGBAAt returns the pixel at (x, y) in RGBA order regardless of format.
// Out-of-bounds coordinates return the zero color.
func (t *PixmapTarget) RGBAAt(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return color.RGBA{}
	}
	i := y*t.stride + x*4
	p := t.pix[i : i+4 : i+4]
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		return color.RGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Clear fills the entire target with the given color.
func (t *PixmapTarget) Clear(c color.Color) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	px := [4]byte{rgba.R, rgba.G, rgba.B, rgba.A}
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		px[0], px[2] = px[2], px[0]
	}
	for y := range t.height {
		row := t.pix[y*t.stride : y*t.stride+t.width*4]
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+4], px[:])
		}
	}
}

// Resize creates a new pixel buffer with the given dimensions.
// The contents are not preserved.
func (t *PixmapTarget) Resize(width, height int) {
	*t = *NewPixmapTargetWithFormat(width, height, t.format)
}

// Ensure PixmapTarget implements Target.
var _ Target = (*PixmapTarget)(nil)
