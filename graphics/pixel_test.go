package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultPixelAttribs(t *testing.T) {
	r, err := ParsePixelAttribs(DefaultPixelAttribs())
	require.NoError(t, err)
	assert.Equal(t, PixelRequest{
		Red: 8, Green: 8, Blue: 8, Alpha: 8,
		Depth: 24, Stencil: 8,
		DoubleBuffer: true, Accelerated: true,
	}, r)
	assert.True(t, r.Satisfiable())
}

func TestParseExplicitChannels(t *testing.T) {
	r, err := ParsePixelAttribs(Attribs(
		Pair{AttribColorBits, 24},
		Pair{AttribRedBits, 5},
		Pair{AttribGreenBits, 6},
		Pair{AttribBlueBits, 5},
	))
	require.NoError(t, err)
	assert.Equal(t, 5, r.Red)
	assert.Equal(t, 6, r.Green)
	assert.Equal(t, 0, r.Alpha)
	assert.False(t, r.DoubleBuffer)
}

func TestParseRGBColor(t *testing.T) {
	r, err := ParsePixelAttribs(Attribs(Pair{AttribColorBits, 24}))
	require.NoError(t, err)
	assert.Equal(t, 8, r.Red)
	assert.Equal(t, 0, r.Alpha)
}

func TestUnsatisfiable(t *testing.T) {
	r, err := ParsePixelAttribs(Attribs(Pair{AttribColorBits, 255}))
	require.NoError(t, err)
	assert.False(t, r.Satisfiable())

	r, err = ParsePixelAttribs(Attribs(Pair{AttribStencilBits, 16}))
	require.NoError(t, err)
	assert.False(t, r.Satisfiable())
}

func TestParseRejectsBadList(t *testing.T) {
	_, err := ParsePixelAttribs(AttribList{int32(AttribColorBits)})
	assert.ErrorIs(t, err, ErrBadAttribList)
}
