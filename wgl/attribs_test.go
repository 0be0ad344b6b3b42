package wgl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glbootstrap/graphics"
)

func TestPixelFormatAttribsDefault(t *testing.T) {
	l, err := pixelFormatAttribs(graphics.DefaultPixelAttribs())
	require.NoError(t, err)
	assert.Equal(t, []int32{
		wglDrawToWindowARB, 1,
		wglSupportOpenGLARB, 1,
		wglDoubleBufferARB, 1,
		wglAccelerationARB, wglFullAccelerationARB,
		wglPixelTypeARB, wglTypeRGBAARB,
		wglColorBitsARB, 32,
		wglDepthBitsARB, 24,
		wglStencilBitsARB, 8,
		0,
	}, l)
}

func TestPixelFormatAttribsRejects(t *testing.T) {
	_, err := pixelFormatAttribs(graphics.AttribList{int32(graphics.AttribColorBits), 32})
	assert.ErrorIs(t, err, graphics.ErrBadAttribList)

	_, err = pixelFormatAttribs(graphics.Attribs(graphics.Pair{Key: graphics.AttribContextMajor, Value: 3}))
	assert.Error(t, err)

	_, err = pixelFormatAttribs(graphics.Attribs(graphics.Pair{Key: graphics.AttribPixelType, Value: 7}))
	assert.Error(t, err)
}

func TestContextAttribs(t *testing.T) {
	v := graphics.ContextVersion{Major: 3, Minor: 3, Core: true, Debug: true}
	l, err := contextAttribs(v.Attribs())
	require.NoError(t, err)
	assert.Equal(t, []int32{
		wglContextMajorVersionARB, 3,
		wglContextMinorVersionARB, 3,
		wglContextProfileMaskARB, wglContextCoreProfileBitARB,
		wglContextFlagsARB, wglContextDebugBitARB,
		0,
	}, l)

	_, err = contextAttribs(graphics.Attribs(graphics.Pair{Key: graphics.AttribContextProfileMask, Value: 0x40}))
	assert.Error(t, err)
	_, err = contextAttribs(graphics.Attribs(graphics.Pair{Key: graphics.AttribDepthBits, Value: 24}))
	assert.Error(t, err)
}

func TestValidProc(t *testing.T) {
	for _, bad := range []uintptr{0, 1, 2, 3, ^uintptr(0)} {
		assert.False(t, validProc(bad), "%#x", bad)
	}
	assert.True(t, validProc(4))
	assert.True(t, validProc(0x7ff812340000))
}

func TestMissingExtensions(t *testing.T) {
	list := "WGL_ARB_extensions_string WGL_ARB_pixel_format  WGL_EXT_swap_control"
	assert.Equal(t, []string{"WGL_ARB_create_context"}, missingExtensions(list, requiredExtensions))
	assert.Empty(t, missingExtensions(list+" WGL_ARB_create_context", requiredExtensions))
	assert.Equal(t, requiredExtensions, missingExtensions("", requiredExtensions))
}
