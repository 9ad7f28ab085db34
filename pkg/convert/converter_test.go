package convert_test

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/framecv/pkg/convert"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
	"github.com/tauraamui/framecv/pkg/native/iplimage"
)

type countingFlavor struct {
	iplimage.Flavor
	released []*iplimage.Header
}

func (c *countingFlavor) Release(h *iplimage.Header) {
	c.released = append(c.released, h)
}

type otherFlavorDescriptor struct {
	*iplimage.Header
}

func (otherFlavorDescriptor) Flavor() native.Flavor { return native.FlavorMat }

func newFrame(w, h, channels int, depth frame.Depth, stride int) *frame.Frame {
	return &frame.Frame{
		Width: w, Height: h, Channels: channels,
		Depth: depth, Stride: stride,
		Image: [][]byte{make([]byte, h*stride*depth.BytesPerSample())},
	}
}

func TestToNativeNilFrameYieldsNil(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	h, err := c.ToNative(nil)
	is.NoErr(err)
	is.True(h == nil)
}

func TestFromNativeNilHeaderYieldsNil(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f, err := c.FromNative(nil)
	is.NoErr(err)
	is.True(f == nil)
}

func TestToNativeAliasesFrameBuffer(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f := newFrame(4, 3, 3, frame.DepthUShort, 16)

	h, err := c.ToNative(f)
	is.NoErr(err)
	is.Equal(h.Width(), 4)
	is.Equal(h.Height(), 3)
	is.Equal(h.Channels(), 3)
	is.Equal(h.Depth(), iplimage.Depth16U)
	is.Equal(h.Step(), 32)
	is.Equal(h.DataAddress(), frame.Address(f.Image[0]))

	f.Image[0][5] = 42
	is.Equal(h.Bytes()[5], byte(42))
}

func TestToNativeAliasesFromCurrentPosition(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f := newFrame(4, 2, 1, frame.DepthUByte, 4)
	backing := make([]byte, 12)
	f.Image[0] = backing[4:]

	h, err := c.ToNative(f)
	is.NoErr(err)
	is.Equal(h.DataAddress(), frame.Address(backing)+4)
}

func TestToNativeReusesCachedHeader(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f := newFrame(8, 8, 1, frame.DepthUByte, 8)

	first, err := c.ToNative(f)
	is.NoErr(err)
	second, err := c.ToNative(f)
	is.NoErr(err)
	is.True(first == second)

	// a distinct frame over the same memory and layout is the same view
	same := *f
	third, err := c.ToNative(&same)
	is.NoErr(err)
	is.True(first == third)
}

func TestToNativeRebuildsForDifferentBuffer(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f1 := newFrame(8, 8, 1, frame.DepthUByte, 8)
	f2 := newFrame(8, 8, 1, frame.DepthUByte, 8)

	h1, err := c.ToNative(f1)
	is.NoErr(err)
	h2, err := c.ToNative(f2)
	is.NoErr(err)
	is.True(h1 != h2)
	is.Equal(h2.DataAddress(), frame.Address(f2.Image[0]))
}

func TestToNativeRebuildsForChangedLayout(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f := newFrame(8, 8, 1, frame.DepthUByte, 8)
	h1, err := c.ToNative(f)
	is.NoErr(err)

	narrower := *f
	narrower.Width = 6
	h2, err := c.ToNative(&narrower)
	is.NoErr(err)
	is.True(h1 != h2)
	is.Equal(h2.Width(), 6)
	is.Equal(h2.Step(), 8)
}

func TestToNativeUnsupportedDepthClearsCache(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f := newFrame(8, 8, 1, frame.DepthUByte, 8)
	h1, err := c.ToNative(f)
	is.NoErr(err)

	bad := *f
	bad.Depth = 999
	h, err := c.ToNative(&bad)
	is.True(h == nil)
	is.True(errors.Is(err, convert.ErrUnsupportedDepth))

	cached, ok := c.Cached()
	is.True(!ok)
	is.True(cached == nil)
	is.True(!convert.SameView[*iplimage.Header](c.Flavor(), f, cached))

	h2, err := c.ToNative(f)
	is.NoErr(err)
	is.True(h1 != h2)
}

func TestToNativeRejectsMalformedFrames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*frame.Frame)
	}{
		{"no planes", func(f *frame.Frame) { f.Image = nil }},
		{"two planes", func(f *frame.Frame) { f.Image = append(f.Image, []byte{1}) }},
		{"empty buffer", func(f *frame.Frame) { f.Image[0] = f.Image[0][:0] }},
		{"zero width", func(f *frame.Frame) { f.Width = 0 }},
		{"no channels", func(f *frame.Frame) { f.Channels = 0 }},
		{"stride shorter than row", func(f *frame.Frame) { f.Stride = 3 }},
		{"buffer shorter than rows", func(f *frame.Frame) { f.Image[0] = f.Image[0][:10] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			c := iplimage.NewConverter()
			_, err := c.ToNative(newFrame(4, 4, 1, frame.DepthUByte, 4))
			is.NoErr(err)

			f := newFrame(4, 4, 1, frame.DepthUByte, 4)
			tt.mutate(f)
			h, err := c.ToNative(f)
			is.True(h == nil)
			is.True(errors.Is(err, convert.ErrMalformedFrame))

			_, ok := c.Cached()
			is.True(!ok)
		})
	}
}

func TestToNativeAcceptsUnpaddedLastRow(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f := newFrame(3, 2, 1, frame.DepthUByte, 8)
	f.Image[0] = f.Image[0][:8+3]

	h, err := c.ToNative(f)
	is.NoErr(err)
	is.Equal(h.Step(), 8)
}

func TestToNativeOpaqueFastPath(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	// deliberately unrelated to the frame's own layout
	opaque := iplimage.Create(2, 2, iplimage.Depth64F, 4)
	f := newFrame(8, 8, 1, frame.DepthUByte, 8)
	f.Opaque = opaque

	h, err := c.ToNative(f)
	is.NoErr(err)
	is.True(h == opaque)

	_, ok := c.Cached()
	is.True(!ok)

	f.Depth = 999
	h, err = c.ToNative(f)
	is.NoErr(err)
	is.True(h == opaque)
}

func TestToNativeIgnoresOpaqueOfOtherFlavor(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	f := newFrame(8, 8, 1, frame.DepthUByte, 8)
	other := otherFlavorDescriptor{iplimage.Create(2, 2, iplimage.Depth8U, 1)}
	f.Opaque = other

	h, err := c.ToNative(f)
	is.NoErr(err)
	is.True(h != other.Header)
	is.Equal(h.DataAddress(), frame.Address(f.Image[0]))
}

func TestFromNativeStrideUnitConversion(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()

	ub := iplimage.Create(640, 4, iplimage.Depth8U, 1)
	is.Equal(ub.Step(), 640)
	f, err := c.FromNative(ub)
	is.NoErr(err)
	is.Equal(f.Stride, 640)
	is.Equal(f.Depth, frame.DepthUByte)

	fl := iplimage.Create(320, 4, iplimage.Depth32F, 1)
	is.Equal(fl.Step(), 1280)
	f, err = c.FromNative(fl)
	is.NoErr(err)
	is.Equal(f.Stride, 320)
	is.Equal(f.Depth, frame.DepthFloat)
}

func TestFromNativeBuildsAliasingFrame(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	h := iplimage.Create(5, 3, iplimage.Depth16S, 3)

	f, err := c.FromNative(h)
	is.NoErr(err)
	is.Equal(f.Width, 5)
	is.Equal(f.Height, 3)
	is.Equal(f.Channels, 3)
	is.Equal(f.Depth, frame.DepthShort)
	is.Equal(f.Stride, h.Step()/2)
	is.Equal(len(f.Image), 1)
	is.Equal(frame.Address(f.Image[0]), h.DataAddress())
	is.True(f.Opaque == native.Descriptor(h))
}

func TestFromNativeReusesCachedFrame(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	h := iplimage.Create(16, 16, iplimage.Depth8U, 1)

	f1, err := c.FromNative(h)
	is.NoErr(err)
	f2, err := c.FromNative(h)
	is.NoErr(err)
	is.True(f1 == f2)

	f3, err := c.FromNative(iplimage.Create(16, 16, iplimage.Depth8U, 1))
	is.NoErr(err)
	is.True(f1 != f3)
}

func TestFromNativeUnsupportedDepthFails(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	good := iplimage.Create(4, 4, iplimage.Depth8U, 1)
	_, err := c.FromNative(good)
	is.NoErr(err)

	bad := iplimage.CreateHeader(4, 4, 999, 1).SetImageData(make([]byte, 16)).SetWidthStep(4)
	f, err := c.FromNative(bad)
	is.True(f == nil)
	is.True(errors.Is(err, convert.ErrUnsupportedDepth))

	cached, ok := c.CachedFrame()
	is.True(!ok)
	is.True(cached == nil)
}

func TestFromNativeUnsupportedDepthForgetsCachedFrame(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	good := iplimage.Create(4, 4, iplimage.Depth8U, 1)
	first, err := c.FromNative(good)
	is.NoErr(err)

	bad := iplimage.CreateHeader(4, 4, 999, 1).SetImageData(make([]byte, 16)).SetWidthStep(4)
	_, err = c.FromNative(bad)
	is.True(errors.Is(err, convert.ErrUnsupportedDepth))

	second, err := c.FromNative(good)
	is.NoErr(err)
	is.True(second != first)
	is.True(second.Opaque == native.Descriptor(good))
}

func TestFromNativeHeaderWithoutPixelsIsMalformed(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	_, err := c.FromNative(iplimage.Create(4, 4, iplimage.Depth8U, 1))
	is.NoErr(err)

	f, err := c.FromNative(iplimage.CreateHeader(4, 4, iplimage.Depth8U, 1))
	is.True(f == nil)
	is.True(errors.Is(err, convert.ErrMalformedFrame))

	_, ok := c.CachedFrame()
	is.True(!ok)
}

func TestFromNativeDoesNotReuseFrameOfAnotherHeader(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	buf := make([]byte, 16)
	h1 := iplimage.CreateHeader(4, 4, iplimage.Depth8U, 1).SetImageData(buf).SetWidthStep(4)
	h2 := iplimage.CreateHeader(4, 4, iplimage.Depth8U, 1).SetImageData(buf).SetWidthStep(4)

	f1, err := c.FromNative(h1)
	is.NoErr(err)
	f2, err := c.FromNative(h2)
	is.NoErr(err)
	is.True(f1 != f2)
	is.True(f2.Opaque == native.Descriptor(h2))
}

func TestRoundTripPreservesLayoutAndAddress(t *testing.T) {
	for _, depth := range frame.Depths {
		t.Run(depth.String(), func(t *testing.T) {
			is := is.New(t)
			c := iplimage.NewConverter()
			src := newFrame(7, 5, 3, depth, 24)

			h, err := c.ToNative(src)
			is.NoErr(err)
			back, err := c.FromNative(h)
			is.NoErr(err)

			is.Equal(back.Width, src.Width)
			is.Equal(back.Height, src.Height)
			is.Equal(back.Channels, src.Channels)
			is.Equal(back.Depth, src.Depth)
			is.Equal(back.Stride, src.Stride)
			is.Equal(frame.Address(back.Image[0]), frame.Address(src.Image[0]))

			again, err := c.ToNative(back)
			is.NoErr(err)
			is.True(again == h)
		})
	}
}

func TestReplacedHeadersAreReleased(t *testing.T) {
	is := is.New(t)
	fl := &countingFlavor{}
	c := convert.New[*iplimage.Header](fl)

	h1, err := c.ToNative(newFrame(4, 4, 1, frame.DepthUByte, 4))
	is.NoErr(err)
	_, err = c.ToNative(newFrame(4, 4, 1, frame.DepthUByte, 4))
	is.NoErr(err)
	is.Equal(len(fl.released), 1)
	is.True(fl.released[0] == h1)

	c.Close()
	is.Equal(len(fl.released), 2)

	c.Close()
	is.Equal(len(fl.released), 2)
}

func TestReleasedHeaderNeverComesBackThroughCachedFrame(t *testing.T) {
	is := is.New(t)
	fl := &countingFlavor{}
	c := convert.New[*iplimage.Header](fl)
	a := newFrame(4, 4, 1, frame.DepthUByte, 4)
	b := newFrame(4, 4, 1, frame.DepthUByte, 4)

	hA, err := c.ToNative(a)
	is.NoErr(err)
	frA, err := c.FromNative(hA)
	is.NoErr(err)

	// converting b replaces and releases hA
	_, err = c.ToNative(b)
	is.NoErr(err)
	is.Equal(len(fl.released), 1)
	is.True(fl.released[0] == hA)

	cached, ok := c.CachedFrame()
	is.True(!ok)
	is.True(cached == nil)

	hA2, err := c.ToNative(a)
	is.NoErr(err)
	is.True(hA2 != hA)

	fr, err := c.FromNative(hA2)
	is.NoErr(err)
	is.True(fr != frA)
	is.True(fr.Opaque == native.Descriptor(hA2))

	got, err := c.ToNative(fr)
	is.NoErr(err)
	is.True(got == hA2)
	for _, released := range fl.released {
		is.True(got != released)
	}
}

func TestConverterUUIDIsStable(t *testing.T) {
	is := is.New(t)
	c := iplimage.NewConverter()
	id := c.UUID()
	is.True(len(id) > 0)
	is.Equal(c.UUID(), id)
	is.True(iplimage.NewConverter().UUID() != id)
}
