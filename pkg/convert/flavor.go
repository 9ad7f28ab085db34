package convert

import (
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
)

// Flavor is what a native image type supplies to the converter. D must
// be a pointer type so a nil D means "no descriptor".
type Flavor[D native.Descriptor] interface {
	Kind() native.Flavor
	// NativeDepth maps a frame depth to the flavor's depth code, or
	// native.Unsupported.
	NativeDepth(frame.Depth) int
	// FrameDepth maps a depth code back, or frame.DepthUnsupported.
	FrameDepth(code int) frame.Depth
	// Alias builds a header over data without copying it.
	Alias(l native.Layout, data []byte) (D, error)
	// Release frees a header previously returned by Alias.
	Release(D)
}
