package frame

import (
	"encoding/binary"
	"math"

	"github.com/tauraamui/xerror"
)

const (
	trailerSize = 17
	magicA      = 0x13
	magicB      = 0x31
)

// Marshal appends the frame's layout to its pixel bytes. The rows are
// written exactly as they sit in the buffer, padding included.
func Marshal(f *Frame) ([]byte, error) {
	if f == nil {
		return nil, xerror.New("cannot marshal nil frame")
	}
	if len(f.Image) != 1 {
		return nil, xerror.Errorf("frame dump expects a single plane, got %d", len(f.Image))
	}
	if !f.Depth.Supported() {
		return nil, xerror.Errorf("frame dump does not support depth %d", f.Depth)
	}

	if !fitsUint32(f.Width) || !fitsUint32(f.Height) || !fitsUint32(f.Stride) ||
		f.Channels < 1 || f.Channels > math.MaxUint8 {
		return nil, xerror.Errorf("frame dump cannot encode %dx%d stride %d with %d channels", f.Width, f.Height, f.Stride, f.Channels)
	}

	pix := f.Image[0]
	if len(pix) < f.MinBytes() {
		return nil, xerror.Errorf("frame buffer holds %d bytes, layout needs %d", len(pix), f.MinBytes())
	}
	if full := f.Height * f.StrideBytes(); full > 0 && len(pix) > full {
		pix = pix[:full]
	}

	suffix := make([]byte, trailerSize)
	binary.LittleEndian.PutUint32(suffix[0:4], uint32(f.Width))
	binary.LittleEndian.PutUint32(suffix[4:8], uint32(f.Height))
	binary.LittleEndian.PutUint32(suffix[8:12], uint32(f.Stride))
	binary.LittleEndian.PutUint16(suffix[12:14], uint16(int16(f.Depth)))
	suffix[14] = uint8(f.Channels)
	suffix[15] = magicA
	suffix[16] = magicB

	out := make([]byte, 0, len(pix)+trailerSize)
	out = append(out, pix...)
	return append(out, suffix...), nil
}

func fitsUint32(n int) bool {
	return n >= 0 && uint64(n) <= math.MaxUint32
}

// Unmarshal reads a frame dump. The returned frame aliases d.
func Unmarshal(d []byte) (*Frame, error) {
	if len(d) < trailerSize {
		return nil, xerror.Errorf("frame dump expects at least %d bytes to load", trailerSize)
	}

	dl := len(d)
	suffix := d[dl-trailerSize:]
	if suffix[15] != magicA || suffix[16] != magicB {
		return nil, xerror.New("frame dump bytes missing trailing suffix")
	}

	f := &Frame{
		Width:    int(binary.LittleEndian.Uint32(suffix[0:4])),
		Height:   int(binary.LittleEndian.Uint32(suffix[4:8])),
		Stride:   int(binary.LittleEndian.Uint32(suffix[8:12])),
		Depth:    Depth(int16(binary.LittleEndian.Uint16(suffix[12:14]))),
		Channels: int(suffix[14]),
	}
	if !f.Depth.Supported() {
		return nil, xerror.Errorf("frame dump has unsupported depth %d", f.Depth)
	}
	if f.Channels < 1 {
		return nil, xerror.New("frame dump has no channels")
	}

	pix := d[:dl-trailerSize]
	if len(pix) < f.MinBytes() {
		return nil, xerror.Errorf("frame dump truncated: %d pixel bytes, layout needs %d", len(pix), f.MinBytes())
	}
	f.Image = [][]byte{pix}
	return f, nil
}
