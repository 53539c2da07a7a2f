package model

import (
	"image"
	"image/color"

	"golang.org/x/xerrors"
)

// Frame is an immutable raw RGB pixel buffer. It is the source of truth for
// one analysis call; stages crop and resize copies of it, never the frame
// itself.
type Frame struct {
	Pixels []uint8 // interleaved RGB, len = Width*Height*3
	Width  int
	Height int
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Pixels: make([]uint8, width*height*3),
		Width:  width,
		Height: height,
	}
}

// NewFrameFromImage copies a decoded image into a raw RGB buffer.
func NewFrameFromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	frame := NewFrame(bounds.Dx(), bounds.Dy())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			frame.Pixels[i] = uint8(r >> 8)
			frame.Pixels[i+1] = uint8(g >> 8)
			frame.Pixels[i+2] = uint8(b >> 8)
			i += 3
		}
	}

	return frame
}

func (f *Frame) Validate() error {
	if f == nil {
		return xerrors.New("nil frame")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return xerrors.New("frame has empty dimensions")
	}
	if len(f.Pixels) != f.Width*f.Height*3 {
		return xerrors.New("frame pixel buffer does not match dimensions")
	}
	return nil
}

// ToImage renders the buffer back into an image for resizing and annotation.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	i := 0
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: f.Pixels[i],
				G: f.Pixels[i+1],
				B: f.Pixels[i+2],
				A: 255,
			})
			i += 3
		}
	}
	return img
}

// Crop copies the pixel rectangle into a new frame. The rectangle is
// clamped to the frame bounds.
func (f *Frame) Crop(x0, y0, x1, y1 int) *Frame {
	x0 = clampInt(x0, 0, f.Width)
	x1 = clampInt(x1, 0, f.Width)
	y0 = clampInt(y0, 0, f.Height)
	y1 = clampInt(y1, 0, f.Height)
	if x1 <= x0 || y1 <= y0 {
		return NewFrame(0, 0)
	}

	out := NewFrame(x1-x0, y1-y0)
	for y := y0; y < y1; y++ {
		srcOff := (y*f.Width + x0) * 3
		dstOff := (y - y0) * out.Width * 3
		copy(out.Pixels[dstOff:dstOff+out.Width*3], f.Pixels[srcOff:srcOff+out.Width*3])
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
