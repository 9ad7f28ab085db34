package mat

import (
	"image"

	"github.com/tauraamui/framecv/pkg/convert"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/log"
	"github.com/tauraamui/framecv/pkg/native"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// Flavor plugs Mat into the generic converter.
type Flavor struct{}

var _ convert.Flavor[*Mat] = Flavor{}

// NewConverter returns a converter between frames and Mats.
func NewConverter() *convert.Converter[*Mat] {
	return convert.New[*Mat](Flavor{})
}

func (Flavor) Kind() native.Flavor { return native.FlavorMat }

func (Flavor) NativeDepth(d frame.Depth) int {
	switch d {
	case frame.DepthUByte:
		return int(gocv.MatTypeCV8U)
	case frame.DepthByte:
		return int(gocv.MatTypeCV8S)
	case frame.DepthUShort:
		return int(gocv.MatTypeCV16U)
	case frame.DepthShort:
		return int(gocv.MatTypeCV16S)
	case frame.DepthFloat:
		return int(gocv.MatTypeCV32F)
	case frame.DepthInt:
		return int(gocv.MatTypeCV32S)
	case frame.DepthDouble:
		return int(gocv.MatTypeCV64F)
	default:
		return native.Unsupported
	}
}

func (Flavor) FrameDepth(code int) frame.Depth {
	switch code {
	case int(gocv.MatTypeCV8U):
		return frame.DepthUByte
	case int(gocv.MatTypeCV8S):
		return frame.DepthByte
	case int(gocv.MatTypeCV16U):
		return frame.DepthUShort
	case int(gocv.MatTypeCV16S):
		return frame.DepthShort
	case int(gocv.MatTypeCV32F):
		return frame.DepthFloat
	case int(gocv.MatTypeCV32S):
		return frame.DepthInt
	case int(gocv.MatTypeCV64F):
		return frame.DepthDouble
	default:
		return frame.DepthUnsupported
	}
}

// Alias builds a Mat header over data. A padded row pitch is expressed
// as a region of a wider matrix, so it must be a whole number of
// elements and the last row must carry its padding.
func (Flavor) Alias(l native.Layout, data []byte) (*Mat, error) {
	elem := l.Channels * bytesPerSample(l.Depth)
	if elem == 0 {
		return nil, xerror.Errorf("mat depth code %d: %w", l.Depth, convert.ErrUnsupportedDepth)
	}
	mt := MakeType(l.Depth, l.Channels)

	packed := l.Width * elem
	if l.Step == packed {
		m, err := gocv.NewMatFromBytes(l.Height, l.Width, mt, data[:l.Height*packed])
		if err != nil {
			return nil, xerror.Errorf("unable to alias frame buffer as mat: %w", err)
		}
		return &Mat{m: m, data: data}, nil
	}

	if l.Step%elem != 0 {
		return nil, xerror.Errorf("step %d is not a multiple of element size %d: %w", l.Step, elem, convert.ErrUnaliasableStride)
	}
	if len(data) < l.Height*l.Step {
		return nil, xerror.Errorf("last row of %d bytes lacks padding for step %d: %w", len(data), l.Step, convert.ErrUnaliasableStride)
	}

	full, err := gocv.NewMatFromBytes(l.Height, l.Step/elem, mt, data[:l.Height*l.Step])
	if err != nil {
		return nil, xerror.Errorf("unable to alias frame buffer as mat: %w", err)
	}
	roi := full.Region(image.Rect(0, 0, l.Width, l.Height))
	if err := full.Close(); err != nil {
		log.Warn("unable to close padded parent mat: %v", err)
	}
	return &Mat{m: roi, data: data}, nil
}

func (Flavor) Release(m *Mat) {
	if err := m.Close(); err != nil {
		log.Warn("unable to release mat header: %v", err)
	}
}
