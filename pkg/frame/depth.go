package frame

// Depth is the sample depth of a frame. The sign marks signedness and
// the magnitude is the number of bits per sample.
type Depth int

const (
	DepthUByte  Depth = 8
	DepthByte   Depth = -8
	DepthUShort Depth = 16
	DepthShort  Depth = -16
	DepthInt    Depth = -32
	DepthFloat  Depth = 32
	DepthDouble Depth = 64

	DepthUnsupported Depth = -1
)

// Depths lists every depth a frame can carry.
var Depths = []Depth{
	DepthUByte, DepthByte, DepthUShort, DepthShort, DepthInt, DepthFloat, DepthDouble,
}

func (d Depth) Supported() bool {
	switch d {
	case DepthUByte, DepthByte, DepthUShort, DepthShort, DepthInt, DepthFloat, DepthDouble:
		return true
	}
	return false
}

// Bits returns the sample bit width, which is the magnitude of d.
func (d Depth) Bits() int {
	if d < 0 {
		return int(-d)
	}
	return int(d)
}

func (d Depth) BytesPerSample() int {
	return d.Bits() / 8
}

func (d Depth) String() string {
	switch d {
	case DepthUByte:
		return "UBYTE"
	case DepthByte:
		return "BYTE"
	case DepthUShort:
		return "USHORT"
	case DepthShort:
		return "SHORT"
	case DepthInt:
		return "INT"
	case DepthFloat:
		return "FLOAT"
	case DepthDouble:
		return "DOUBLE"
	default:
		return "UNSUPPORTED"
	}
}
