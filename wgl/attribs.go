// Package wgl implements graphics.Platform with Win32 windows and WGL
// contexts, calling user32, gdi32 and opengl32 directly without cgo.
package wgl

import (
	"fmt"
	"strings"

	"github.com/richinsley/glbootstrap/graphics"
)

// WGL_ARB_pixel_format and WGL_ARB_create_context(_profile) enums.
const (
	wglDrawToWindowARB     = 0x2001
	wglAccelerationARB     = 0x2003
	wglSupportOpenGLARB    = 0x2010
	wglDoubleBufferARB     = 0x2011
	wglPixelTypeARB        = 0x2013
	wglColorBitsARB        = 0x2014
	wglRedBitsARB          = 0x2015
	wglGreenBitsARB        = 0x2017
	wglBlueBitsARB         = 0x2019
	wglAlphaBitsARB        = 0x201B
	wglDepthBitsARB        = 0x2022
	wglStencilBitsARB      = 0x2023
	wglNoAccelerationARB   = 0x2025
	wglFullAccelerationARB = 0x2027
	wglTypeRGBAARB         = 0x202B

	wglContextMajorVersionARB      = 0x2091
	wglContextMinorVersionARB      = 0x2092
	wglContextFlagsARB             = 0x2094
	wglContextProfileMaskARB       = 0x9126
	wglContextCoreProfileBitARB    = 0x0001
	wglContextCompatProfileBitARB  = 0x0002
	wglContextDebugBitARB          = 0x0001
	wglContextForwardCompatibleARB = 0x0002
)

// Extensions the context creation path depends on.
var requiredExtensions = []string{"WGL_ARB_pixel_format", "WGL_ARB_create_context"}

// Entry points resolved during the dummy phase on top of the GL ones.
var procNames = []string{"wglChoosePixelFormatARB", "wglCreateContextAttribsARB"}

var pixelKeys = map[graphics.Attrib]int32{
	graphics.AttribDrawToWindow:  wglDrawToWindowARB,
	graphics.AttribSupportOpenGL: wglSupportOpenGLARB,
	graphics.AttribDoubleBuffer:  wglDoubleBufferARB,
	graphics.AttribColorBits:     wglColorBitsARB,
	graphics.AttribRedBits:       wglRedBitsARB,
	graphics.AttribGreenBits:     wglGreenBitsARB,
	graphics.AttribBlueBits:      wglBlueBitsARB,
	graphics.AttribAlphaBits:     wglAlphaBitsARB,
	graphics.AttribDepthBits:     wglDepthBitsARB,
	graphics.AttribStencilBits:   wglStencilBitsARB,
}

// pixelFormatAttribs translates l to wglChoosePixelFormatARB form.
func pixelFormatAttribs(l graphics.AttribList) ([]int32, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	var out []int32
	for _, a := range l.Pairs() {
		switch a.Key {
		case graphics.AttribAcceleration:
			v := int32(wglNoAccelerationARB)
			if a.Value == graphics.AccelerationFull {
				v = wglFullAccelerationARB
			}
			out = append(out, wglAccelerationARB, v)
		case graphics.AttribPixelType:
			if a.Value != graphics.PixelTypeRGBA {
				return nil, fmt.Errorf("wgl: unsupported pixel type %d", a.Value)
			}
			out = append(out, wglPixelTypeARB, wglTypeRGBAARB)
		default:
			key, ok := pixelKeys[a.Key]
			if !ok {
				return nil, fmt.Errorf("wgl: unsupported pixel attribute %s", a.Key)
			}
			out = append(out, key, a.Value)
		}
	}
	return append(out, 0), nil
}

// contextAttribs translates l to wglCreateContextAttribsARB form.
func contextAttribs(l graphics.AttribList) ([]int32, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	var out []int32
	for _, a := range l.Pairs() {
		switch a.Key {
		case graphics.AttribContextMajor:
			out = append(out, wglContextMajorVersionARB, a.Value)
		case graphics.AttribContextMinor:
			out = append(out, wglContextMinorVersionARB, a.Value)
		case graphics.AttribContextProfileMask:
			switch a.Value {
			case graphics.ProfileCore:
				out = append(out, wglContextProfileMaskARB, wglContextCoreProfileBitARB)
			case graphics.ProfileCompatibility:
				out = append(out, wglContextProfileMaskARB, wglContextCompatProfileBitARB)
			default:
				return nil, fmt.Errorf("wgl: unknown profile mask 0x%x", a.Value)
			}
		case graphics.AttribContextFlags:
			var flags int32
			if a.Value&graphics.FlagDebug != 0 {
				flags |= wglContextDebugBitARB
			}
			if a.Value&graphics.FlagForwardCompatible != 0 {
				flags |= wglContextForwardCompatibleARB
			}
			out = append(out, wglContextFlagsARB, flags)
		default:
			return nil, fmt.Errorf("wgl: unsupported context attribute %s", a.Key)
		}
	}
	return append(out, 0), nil
}

// validProc filters the small integers some drivers return from
// wglGetProcAddress instead of NULL.
func validProc(addr uintptr) bool {
	switch addr {
	case 0, 1, 2, 3, ^uintptr(0):
		return false
	}
	return true
}

// missingExtensions returns the entries of want absent from the space
// separated extension string list.
func missingExtensions(list string, want []string) []string {
	have := make(map[string]bool)
	for _, name := range strings.Fields(list) {
		have[name] = true
	}
	var missing []string
	for _, name := range want {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
