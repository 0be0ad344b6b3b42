package graphics

// PixelRequest is a pixel attribute list resolved to per-channel sizes, for
// backends that ask for formats channel by channel (EGL configs, GLFW
// hints).
type PixelRequest struct {
	Red, Green, Blue, Alpha int
	Depth, Stencil          int
	DoubleBuffer            bool
	Accelerated             bool
}

// Channel size limits. No format offers more.
const (
	MaxChannelBits = 16
	MaxDepthBits   = 32
	MaxStencilBits = 8
)

// ParsePixelAttribs resolves l. A color size without explicit channel sizes
// is split over RGBA when it is 32 or more, over RGB otherwise.
func ParsePixelAttribs(l AttribList) (PixelRequest, error) {
	if err := l.Validate(); err != nil {
		return PixelRequest{}, err
	}
	var r PixelRequest
	color := int32(-1)
	for _, p := range l.Pairs() {
		v := int(p.Value)
		switch p.Key {
		case AttribColorBits:
			color = p.Value
		case AttribRedBits:
			r.Red = v
		case AttribGreenBits:
			r.Green = v
		case AttribBlueBits:
			r.Blue = v
		case AttribAlphaBits:
			r.Alpha = v
		case AttribDepthBits:
			r.Depth = v
		case AttribStencilBits:
			r.Stencil = v
		case AttribDoubleBuffer:
			r.DoubleBuffer = v != 0
		case AttribAcceleration:
			r.Accelerated = p.Value == AccelerationFull
		}
	}
	if color >= 0 && r.Red == 0 && r.Green == 0 && r.Blue == 0 {
		per := int(color) / 3
		if color >= 32 {
			per = int(color) / 4
			if r.Alpha == 0 {
				r.Alpha = per
			}
		}
		r.Red, r.Green, r.Blue = per, per, per
	}
	return r, nil
}

// Satisfiable reports whether any real format could match r.
func (r PixelRequest) Satisfiable() bool {
	for _, c := range []int{r.Red, r.Green, r.Blue, r.Alpha} {
		if c < 0 || c > MaxChannelBits {
			return false
		}
	}
	return r.Depth >= 0 && r.Depth <= MaxDepthBits && r.Stencil >= 0 && r.Stencil <= MaxStencilBits
}
