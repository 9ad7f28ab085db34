package native

// Unsupported is returned by depth lookups which have no mapping.
const Unsupported = -1

// Flavor tags which native image type a descriptor is.
type Flavor int

const (
	FlavorNone Flavor = iota
	FlavorIplImage
	FlavorMat
)

func (f Flavor) String() string {
	switch f {
	case FlavorIplImage:
		return "iplimage"
	case FlavorMat:
		return "mat"
	default:
		return "none"
	}
}

// Descriptor is the narrow view of a native image header the
// converters need. Step is the row pitch in bytes.
type Descriptor interface {
	Flavor() Flavor
	Width() int
	Height() int
	Channels() int
	DepthCode() int
	Step() int
	DataAddress() uintptr
	// Bytes returns a view over the descriptor's own pixel memory.
	Bytes() []byte
}

// Layout describes a header to build over caller owned memory.
type Layout struct {
	Width, Height int
	Channels      int
	Depth         int
	Step          int
}
