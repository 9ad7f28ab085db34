// Package iplimage is the legacy header style native image: a plain
// header describing a block of interleaved pixels it does not own.
package iplimage

import (
	"math"

	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
)

const (
	DepthSign int32 = math.MinInt32

	Depth8U  int32 = 8
	Depth8S  int32 = DepthSign | 8
	Depth16U int32 = 16
	Depth16S int32 = DepthSign | 16
	Depth32S int32 = DepthSign | 32
	Depth32F int32 = 32
	Depth64F int32 = 64
)

// rowAlign is the default width step alignment of a new header.
const rowAlign = 4

type Header struct {
	width, height int
	nChannels     int
	depth         int32
	widthStep     int
	imageData     []byte
}

// CreateHeader returns a header with no data attached. Its width step
// is the packed row length rounded up to four bytes.
func CreateHeader(width, height int, depth int32, channels int) *Header {
	row := width * channels * bitsOf(depth) / 8
	return &Header{
		width:     width,
		height:    height,
		nChannels: channels,
		depth:     depth,
		widthStep: (row + rowAlign - 1) &^ (rowAlign - 1),
	}
}

// Create returns a header with freshly allocated, zeroed pixel memory.
func Create(width, height int, depth int32, channels int) *Header {
	h := CreateHeader(width, height, depth, channels)
	h.imageData = make([]byte, h.widthStep*height)
	return h
}

// SetImageData points the header at d.
func (h *Header) SetImageData(d []byte) *Header {
	h.imageData = d
	return h
}

func (h *Header) SetWidthStep(step int) *Header {
	h.widthStep = step
	return h
}

func bitsOf(depth int32) int {
	return int(depth &^ DepthSign)
}

func (h *Header) Flavor() native.Flavor { return native.FlavorIplImage }

func (h *Header) Width() int { return h.width }

func (h *Header) Height() int { return h.height }

func (h *Header) Channels() int { return h.nChannels }

func (h *Header) Depth() int32 { return h.depth }

func (h *Header) DepthCode() int { return int(h.depth) }

// Step returns the width step in bytes.
func (h *Header) Step() int { return h.widthStep }

func (h *Header) DataAddress() uintptr { return frame.Address(h.imageData) }

func (h *Header) Bytes() []byte { return h.imageData }
