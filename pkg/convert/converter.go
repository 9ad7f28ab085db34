// Package convert maps frames to native image headers and back without
// copying pixel data.
//
// A Converter remembers the last header and the last frame it produced.
// Converting the same buffer again returns the remembered object. Headers
// built by ToNative stay valid until the converter replaces them or is
// closed. A Converter must not be shared between goroutines, use Locked
// for that.
package convert

import (
	"github.com/google/uuid"
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/log"
	"github.com/tauraamui/framecv/pkg/native"
	"github.com/tauraamui/xerror"
)

type Converter[D native.Descriptor] struct {
	uuid   string
	flavor Flavor[D]
	cache  Cache[D]
}

func New[D native.Descriptor](fl Flavor[D]) *Converter[D] {
	return &Converter[D]{flavor: fl}
}

func (c *Converter[D]) UUID() string {
	if len(c.uuid) == 0 {
		c.uuid = uuid.NewString()
	}
	return c.uuid
}

func (c *Converter[D]) Flavor() Flavor[D] { return c.flavor }

// Cached returns the header from the last successful ToNative call.
func (c *Converter[D]) Cached() (D, bool) {
	return c.cache.native.product, c.cache.native.set
}

// CachedFrame returns the frame from the last successful FromNative call.
func (c *Converter[D]) CachedFrame() (*frame.Frame, bool) {
	return c.cache.frame.product, c.cache.frame.set
}

// ToNative returns a native header aliasing f's pixels. A nil frame
// yields a nil header and no error.
func (c *Converter[D]) ToNative(f *frame.Frame) (D, error) {
	var none D
	if f == nil {
		return none, nil
	}

	if op, ok := f.NativeView(c.flavor.Kind()); ok {
		if d, ok := op.(D); ok {
			return d, nil
		}
	}

	if c.cache.native.set && SameView(c.flavor, f, c.cache.native.product) {
		return c.cache.native.product, nil
	}

	depth := c.flavor.NativeDepth(f.Depth)
	if depth == native.Unsupported {
		c.dropNative()
		return none, xerror.Errorf("cannot build %s header for frame depth %d: %w", c.flavor.Kind(), f.Depth, ErrUnsupportedDepth)
	}

	if err := checkLayout(f); err != nil {
		c.dropNative()
		return none, err
	}

	d, err := c.flavor.Alias(native.Layout{
		Width:    f.Width,
		Height:   f.Height,
		Channels: f.Channels,
		Depth:    depth,
		Step:     f.StrideBytes(),
	}, f.Image[0])
	if err != nil {
		c.dropNative()
		return none, err
	}

	c.dropNative()
	c.cache.native.store(f, d)
	log.Debug("converter %s: built %s header %dx%d step %d", c.UUID(), c.flavor.Kind(), f.Width, f.Height, d.Step())
	return d, nil
}

// FromNative returns a frame aliasing d's pixels. The frame's Opaque
// points back at d. A nil header yields a nil frame and no error.
func (c *Converter[D]) FromNative(d D) (*frame.Frame, error) {
	if isNil(d) {
		return nil, nil
	}

	// the cached frame points back at its source, so it is only reusable
	// for that same header
	if c.cache.frame.set && any(c.cache.frame.source) == any(d) &&
		SameView(c.flavor, c.cache.frame.product, d) {
		return c.cache.frame.product, nil
	}

	depth := c.flavor.FrameDepth(d.DepthCode())
	if depth == frame.DepthUnsupported {
		c.cache.frame.take()
		return nil, xerror.Errorf("cannot build frame from %s depth code %d: %w", c.flavor.Kind(), d.DepthCode(), ErrUnsupportedDepth)
	}

	pix := d.Bytes()
	if len(pix) == 0 {
		c.cache.frame.take()
		return nil, xerror.Errorf("%s header exposes no pixel memory: %w", c.flavor.Kind(), ErrMalformedFrame)
	}

	f := &frame.Frame{
		Width:    d.Width(),
		Height:   d.Height(),
		Depth:    depth,
		Channels: d.Channels(),
		Stride:   d.Step() * 8 / depth.Bits(),
		Image:    [][]byte{pix},
		Opaque:   d,
	}
	c.cache.frame.store(d, f)
	log.Debug("converter %s: built frame %dx%d stride %d from %s", c.UUID(), f.Width, f.Height, f.Stride, c.flavor.Kind())
	return f, nil
}

// Close releases the cached header and forgets the cached frame.
func (c *Converter[D]) Close() {
	c.dropNative()
	c.cache.frame.take()
}

// dropNative releases the cached header. A cached frame built from it
// would point back at released memory, so it is forgotten too.
func (c *Converter[D]) dropNative() {
	d, ok := c.cache.native.take()
	if !ok || isNil(d) {
		return
	}
	if c.cache.frame.set {
		fr := c.cache.frame.product
		if any(c.cache.frame.source) == any(d) || (fr != nil && fr.Opaque == native.Descriptor(d)) {
			c.cache.frame.take()
		}
	}
	c.flavor.Release(d)
}

func checkLayout(f *frame.Frame) error {
	if len(f.Image) != 1 {
		return xerror.Errorf("frame has %d planes, expected 1: %w", len(f.Image), ErrMalformedFrame)
	}
	if len(f.Image[0]) == 0 {
		return xerror.Errorf("frame buffer is empty: %w", ErrMalformedFrame)
	}
	if f.Width <= 0 || f.Height <= 0 || f.Channels < 1 {
		return xerror.Errorf("frame size %dx%dx%d is invalid: %w", f.Width, f.Height, f.Channels, ErrMalformedFrame)
	}
	if f.StrideBytes() < f.Width*f.Channels*f.Depth.BytesPerSample() {
		return xerror.Errorf("frame stride %d is shorter than a row: %w", f.Stride, ErrMalformedFrame)
	}
	if n := len(f.Image[0]); n < f.MinBytes() {
		return xerror.Errorf("frame buffer holds %d bytes, layout needs %d: %w", n, f.MinBytes(), ErrMalformedFrame)
	}
	return nil
}
