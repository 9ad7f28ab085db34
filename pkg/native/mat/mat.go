// Package mat is the matrix style native image, backed by gocv.
package mat

import (
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
	"gocv.io/x/gocv"
)

const depthMask = 7

// Mat wraps a gocv.Mat so it can be handed to the converters.
type Mat struct {
	isClosed bool
	m        gocv.Mat
	// data is the Go memory the header aliases, nil when OpenCV owns it.
	data []byte
}

// Wrap adopts a Mat whose memory is owned by OpenCV, for example one
// filled by a video capture read.
func Wrap(m gocv.Mat) *Mat {
	return &Mat{m: m}
}

func (m *Mat) Mat() *gocv.Mat { return &m.m }

func (m *Mat) Close() error {
	if m.isClosed {
		return nil
	}
	m.isClosed = true
	return m.m.Close()
}

func (m *Mat) Flavor() native.Flavor { return native.FlavorMat }

func (m *Mat) Width() int { return m.m.Cols() }

func (m *Mat) Height() int { return m.m.Rows() }

func (m *Mat) Channels() int { return m.m.Channels() }

func (m *Mat) DepthCode() int { return int(m.m.Type()) & depthMask }

func (m *Mat) Step() int { return m.m.Step() }

func (m *Mat) DataAddress() uintptr { return frame.Address(m.Bytes()) }

// Bytes returns the pixel memory. OpenCV owned data is only reachable
// when the matrix is continuous, otherwise Bytes returns nil.
func (m *Mat) Bytes() []byte {
	if m.data != nil {
		return m.data
	}
	if m.m.Empty() {
		return nil
	}
	b, err := m.m.DataPtrUint8()
	if err != nil {
		return nil
	}
	return b
}

// MakeType combines a depth code and channel count into a Mat type.
func MakeType(depth, channels int) gocv.MatType {
	return gocv.MatType((depth & depthMask) + ((channels - 1) << 3))
}

func bytesPerSample(depth int) int {
	switch gocv.MatType(depth) {
	case gocv.MatTypeCV8U, gocv.MatTypeCV8S:
		return 1
	case gocv.MatTypeCV16U, gocv.MatTypeCV16S:
		return 2
	case gocv.MatTypeCV32S, gocv.MatTypeCV32F:
		return 4
	case gocv.MatTypeCV64F:
		return 8
	default:
		return 0
	}
}
