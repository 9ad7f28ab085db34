package convert

import (
	"sync"

	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
)

// Locked serialises every call on a shared converter.
type Locked[D native.Descriptor] struct {
	mu   sync.Mutex
	conv *Converter[D]
}

func NewLocked[D native.Descriptor](c *Converter[D]) *Locked[D] {
	return &Locked[D]{conv: c}
}

func (l *Locked[D]) ToNative(f *frame.Frame) (D, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conv.ToNative(f)
}

func (l *Locked[D]) FromNative(d D) (*frame.Frame, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conv.FromNative(d)
}

func (l *Locked[D]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conv.Close()
}
