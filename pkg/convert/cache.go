package convert

import (
	"github.com/tauraamui/framecv/pkg/frame"
	"github.com/tauraamui/framecv/pkg/native"
)

// slot remembers the last object produced in one direction and what it
// was produced from.
type slot[S, P any] struct {
	source  S
	product P
	set     bool
}

func (s *slot[S, P]) store(src S, p P) {
	s.source, s.product, s.set = src, p, true
}

// take empties the slot and hands back what it held.
func (s *slot[S, P]) take() (P, bool) {
	p, ok := s.product, s.set
	*s = slot[S, P]{}
	return p, ok
}

// Cache holds one slot per conversion direction. It is not safe for
// concurrent use.
type Cache[D native.Descriptor] struct {
	native slot[*frame.Frame, D]
	frame  slot[D, *frame.Frame]
}
