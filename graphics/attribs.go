package graphics

import (
	"fmt"
)

// Attrib is a platform-neutral attribute key. Backends translate keys and
// values to WGL_*_ARB, EGL_* or GLFW hints.
type Attrib int32

const (
	AttribEnd Attrib = iota

	// pixel format
	AttribDrawToWindow
	AttribSupportOpenGL
	AttribDoubleBuffer
	AttribAcceleration
	AttribPixelType
	AttribColorBits
	AttribRedBits
	AttribGreenBits
	AttribBlueBits
	AttribAlphaBits
	AttribDepthBits
	AttribStencilBits

	// context
	AttribContextMajor
	AttribContextMinor
	AttribContextProfileMask
	AttribContextFlags
)

var attribNames = map[Attrib]string{
	AttribEnd:                "End",
	AttribDrawToWindow:       "DrawToWindow",
	AttribSupportOpenGL:      "SupportOpenGL",
	AttribDoubleBuffer:       "DoubleBuffer",
	AttribAcceleration:       "Acceleration",
	AttribPixelType:          "PixelType",
	AttribColorBits:          "ColorBits",
	AttribRedBits:            "RedBits",
	AttribGreenBits:          "GreenBits",
	AttribBlueBits:           "BlueBits",
	AttribAlphaBits:          "AlphaBits",
	AttribDepthBits:          "DepthBits",
	AttribStencilBits:        "StencilBits",
	AttribContextMajor:       "ContextMajor",
	AttribContextMinor:       "ContextMinor",
	AttribContextProfileMask: "ContextProfileMask",
	AttribContextFlags:       "ContextFlags",
}

func (a Attrib) String() string {
	if s, ok := attribNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Attrib(%d)", int32(a))
}

// Attribute values.
const (
	AccelerationNone int32 = 0
	AccelerationFull int32 = 1

	PixelTypeRGBA int32 = 0

	ProfileCore          int32 = 0x1
	ProfileCompatibility int32 = 0x2

	FlagDebug             int32 = 0x1
	FlagForwardCompatible int32 = 0x2
)

// AttribList is a flat list of key/value pairs terminated by AttribEnd.
type AttribList []int32

// Pair is a single key/value entry of an AttribList.
type Pair struct {
	Key   Attrib
	Value int32
}

// Validate checks that l is a sequence of pairs followed by the zero
// sentinel.
func (l AttribList) Validate() error {
	if len(l) == 0 || l[len(l)-1] != int32(AttribEnd) {
		return fmt.Errorf("%w: missing zero terminator", ErrBadAttribList)
	}
	if (len(l)-1)%2 != 0 {
		return fmt.Errorf("%w: odd number of entries before terminator", ErrBadAttribList)
	}
	for i := 0; i < len(l)-1; i += 2 {
		if l[i] == int32(AttribEnd) {
			return fmt.Errorf("%w: terminator at position %d", ErrBadAttribList, i)
		}
	}
	return nil
}

// Pairs returns the entries of l up to the terminator.
func (l AttribList) Pairs() []Pair {
	var pairs []Pair
	for i := 0; i+1 < len(l); i += 2 {
		if l[i] == int32(AttribEnd) {
			break
		}
		pairs = append(pairs, Pair{Key: Attrib(l[i]), Value: l[i+1]})
	}
	return pairs
}

// Get returns the value stored under key.
func (l AttribList) Get(key Attrib) (int32, bool) {
	for _, p := range l.Pairs() {
		if p.Key == key {
			return p.Value, true
		}
	}
	return 0, false
}

// Attribs builds a terminated list from pairs.
func Attribs(pairs ...Pair) AttribList {
	l := make(AttribList, 0, len(pairs)*2+1)
	for _, p := range pairs {
		l = append(l, int32(p.Key), p.Value)
	}
	return append(l, int32(AttribEnd))
}

// ContextVersion is the requested context version and profile.
type ContextVersion struct {
	Major             int
	Minor             int
	Core              bool
	ForwardCompatible bool
	Debug             bool
}

func (v ContextVersion) String() string {
	profile := "compatibility"
	if v.Core {
		profile = "core"
	}
	return fmt.Sprintf("%d.%d %s", v.Major, v.Minor, profile)
}

// AtLeast reports whether v is major.minor or newer.
func (v ContextVersion) AtLeast(major, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// Attribs returns the context creation attribute list for v.
func (v ContextVersion) Attribs() AttribList {
	pairs := []Pair{
		{AttribContextMajor, int32(v.Major)},
		{AttribContextMinor, int32(v.Minor)},
	}
	if v.Core {
		pairs = append(pairs, Pair{AttribContextProfileMask, ProfileCore})
	}
	var flags int32
	if v.Debug {
		flags |= FlagDebug
	}
	if v.ForwardCompatible {
		flags |= FlagForwardCompatible
	}
	if flags != 0 {
		pairs = append(pairs, Pair{AttribContextFlags, flags})
	}
	return Attribs(pairs...)
}

// DefaultPixelAttribs is hardware accelerated, double-buffered RGBA with
// 32 bit color, 24 bit depth and 8 bit stencil.
func DefaultPixelAttribs() AttribList {
	return Attribs(
		Pair{AttribDrawToWindow, 1},
		Pair{AttribSupportOpenGL, 1},
		Pair{AttribDoubleBuffer, 1},
		Pair{AttribAcceleration, AccelerationFull},
		Pair{AttribPixelType, PixelTypeRGBA},
		Pair{AttribColorBits, 32},
		Pair{AttribDepthBits, 24},
		Pair{AttribStencilBits, 8},
	)
}
