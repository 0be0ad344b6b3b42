package egl

import (
	"fmt"

	"github.com/richinsley/glbootstrap/graphics"
)

// EGL enums, from EGL 1.5 and EGL_KHR_create_context.
const (
	eglNone          = 0x3038
	eglTrue          = 1
	eglAlphaSize     = 0x3021
	eglBlueSize      = 0x3022
	eglGreenSize     = 0x3023
	eglRedSize       = 0x3024
	eglDepthSize     = 0x3025
	eglStencilSize   = 0x3026
	eglConfigCaveat  = 0x3027
	eglSurfaceType   = 0x3033
	eglRenderable    = 0x3040
	eglWidth         = 0x3057
	eglHeight        = 0x3056
	eglPbufferBit    = 0x0001
	eglWindowBit     = 0x0004
	eglOpenGLBit     = 0x0008
	eglOpenGLAPI     = 0x30A2
	eglContextMajor  = 0x3098
	eglContextMinor  = 0x30FB
	eglProfileMask   = 0x30FD
	eglCoreBit       = 0x0001
	eglCompatBit     = 0x0002
	eglContextDebug  = 0x31B0
	eglForwardCompat = 0x31B1
)

// configAttribs turns a pixel request into an eglChooseConfig list.
func configAttribs(r graphics.PixelRequest, pbuffer bool) []int32 {
	surface := int32(eglWindowBit)
	if pbuffer {
		surface = eglPbufferBit
	}
	l := []int32{
		eglSurfaceType, surface,
		eglRenderable, eglOpenGLBit,
		eglRedSize, int32(r.Red),
		eglGreenSize, int32(r.Green),
		eglBlueSize, int32(r.Blue),
		eglAlphaSize, int32(r.Alpha),
		eglDepthSize, int32(r.Depth),
		eglStencilSize, int32(r.Stencil),
	}
	if r.Accelerated {
		// Rules out EGL_SLOW_CONFIG software fallbacks.
		l = append(l, eglConfigCaveat, eglNone)
	}
	return append(l, eglNone)
}

// legacyConfigAttribs is the fixed format of the throwaway surface.
func legacyConfigAttribs(pbuffer bool) []int32 {
	return configAttribs(graphics.PixelRequest{Red: 8, Green: 8, Blue: 8}, pbuffer)
}

// contextAttribs translates context attributes to eglCreateContext form.
func contextAttribs(l graphics.AttribList) ([]int32, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	var out []int32
	for _, a := range l.Pairs() {
		switch a.Key {
		case graphics.AttribContextMajor:
			out = append(out, eglContextMajor, a.Value)
		case graphics.AttribContextMinor:
			out = append(out, eglContextMinor, a.Value)
		case graphics.AttribContextProfileMask:
			switch a.Value {
			case graphics.ProfileCore:
				out = append(out, eglProfileMask, eglCoreBit)
			case graphics.ProfileCompatibility:
				out = append(out, eglProfileMask, eglCompatBit)
			default:
				return nil, fmt.Errorf("egl: unknown profile mask 0x%x", a.Value)
			}
		case graphics.AttribContextFlags:
			if a.Value&graphics.FlagDebug != 0 {
				out = append(out, eglContextDebug, eglTrue)
			}
			if a.Value&graphics.FlagForwardCompatible != 0 {
				out = append(out, eglForwardCompat, eglTrue)
			}
		default:
			return nil, fmt.Errorf("egl: unsupported context attribute %s", a.Key)
		}
	}
	return append(out, eglNone), nil
}
