package convert

import (
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
)

// SameView reports whether d describes exactly the memory and layout of
// f, so that neither side needs rebuilding.
func SameView[D native.Descriptor](fl Flavor[D], f *frame.Frame, d D) bool {
	if f == nil || isNil(d) || len(f.Image) == 0 || len(f.Image[0]) == 0 {
		return false
	}
	depth := fl.NativeDepth(f.Depth)
	return depth != native.Unsupported && depth == d.DepthCode() &&
		f.Width == d.Width() && f.Height == d.Height() && f.Channels == d.Channels() &&
		frame.Address(f.Image[0]) == d.DataAddress() &&
		f.StrideBytes() == d.Step()
}

func isNil[D any](d D) bool {
	var zero D
	return any(d) == any(zero)
}
