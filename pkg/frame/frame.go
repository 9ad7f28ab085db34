package frame

import (
	"image"
	"unsafe"

	"github.com/tauraamui/framecv/pkg/native"
)

// Frame is a single plane pixel buffer plus the metadata needed to
// interpret it. Frames never own their memory.
type Frame struct {
	Width, Height int
	Depth         Depth
	Channels      int
	// Stride is the row pitch in samples, not bytes.
	Stride int
	Image  [][]byte
	// Opaque optionally points back to a native image which already
	// aliases Image[0].
	Opaque native.Descriptor
}

// StrideBytes returns the row pitch in bytes.
func (f *Frame) StrideBytes() int {
	return f.Stride * f.Depth.Bits() / 8
}

// NativeView returns the frame's back-reference when it is tagged with
// the given flavor.
func (f *Frame) NativeView(fl native.Flavor) (native.Descriptor, bool) {
	if f.Opaque == nil || f.Opaque.Flavor() != fl {
		return nil, false
	}
	return f.Opaque, true
}

// Address returns the start address of a buffer view, or 0 if the view
// is empty.
func Address(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// FromRGBA returns a frame aliasing the image's pixels.
func FromRGBA(img *image.RGBA) *Frame {
	b := img.Bounds()
	return &Frame{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Depth:    DepthUByte,
		Channels: 4,
		Stride:   img.Stride,
		Image:    [][]byte{img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]},
	}
}

// FromGray returns a frame aliasing the image's pixels.
func FromGray(img *image.Gray) *Frame {
	b := img.Bounds()
	return &Frame{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Depth:    DepthUByte,
		Channels: 1,
		Stride:   img.Stride,
		Image:    [][]byte{img.Pix[img.PixOffset(b.Min.X, b.Min.Y):]},
	}
}

// MinBytes returns the smallest buffer length which can hold every row
// of the frame. The last row does not need its padding.
func (f *Frame) MinBytes() int {
	if f.Width <= 0 || f.Height <= 0 {
		return 0
	}
	return (f.Height-1)*f.StrideBytes() + f.Width*f.Channels*f.Depth.BytesPerSample()
}
