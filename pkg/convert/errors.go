package convert

import "errors"

var (
	ErrUnsupportedDepth  = errors.New("unsupported depth")
	ErrMalformedFrame    = errors.New("malformed frame")
	ErrUnaliasableStride = errors.New("row pitch cannot be aliased")
)
