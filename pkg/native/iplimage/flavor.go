package iplimage

import (
	"github.com/tauraamui/framecv/pkg/convert"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
)

// Flavor plugs Header into the generic converter.
type Flavor struct{}

var _ convert.Flavor[*Header] = Flavor{}

// NewConverter returns a converter between frames and headers.
func NewConverter() *convert.Converter[*Header] {
	return convert.New[*Header](Flavor{})
}

func (Flavor) Kind() native.Flavor { return native.FlavorIplImage }

func (Flavor) NativeDepth(d frame.Depth) int {
	switch d {
	case frame.DepthUByte:
		return int(Depth8U)
	case frame.DepthByte:
		return int(Depth8S)
	case frame.DepthUShort:
		return int(Depth16U)
	case frame.DepthShort:
		return int(Depth16S)
	case frame.DepthFloat:
		return int(Depth32F)
	case frame.DepthInt:
		return int(Depth32S)
	case frame.DepthDouble:
		return int(Depth64F)
	default:
		return native.Unsupported
	}
}

func (Flavor) FrameDepth(code int) frame.Depth {
	switch code {
	case int(Depth8U):
		return frame.DepthUByte
	case int(Depth8S):
		return frame.DepthByte
	case int(Depth16U):
		return frame.DepthUShort
	case int(Depth16S):
		return frame.DepthShort
	case int(Depth32F):
		return frame.DepthFloat
	case int(Depth32S):
		return frame.DepthInt
	case int(Depth64F):
		return frame.DepthDouble
	default:
		return frame.DepthUnsupported
	}
}

func (Flavor) Alias(l native.Layout, data []byte) (*Header, error) {
	return CreateHeader(l.Width, l.Height, int32(l.Depth), l.Channels).
		SetImageData(data).
		SetWidthStep(l.Step), nil
}

// Release is a no-op, headers hold no native memory.
func (Flavor) Release(*Header) {}
