package graphics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPixelAttribs(t *testing.T) {
	l := DefaultPixelAttribs()
	require.NoError(t, l.Validate())
	assert.Equal(t, int32(AttribEnd), l[len(l)-1])

	v, ok := l.Get(AttribColorBits)
	assert.True(t, ok)
	assert.EqualValues(t, 32, v)

	v, ok = l.Get(AttribAcceleration)
	assert.True(t, ok)
	assert.Equal(t, AccelerationFull, v)

	_, ok = l.Get(AttribRedBits)
	assert.False(t, ok)
	assert.Len(t, l.Pairs(), 8)
}

func TestAttribListValidate(t *testing.T) {
	cases := []struct {
		name string
		list AttribList
		ok   bool
	}{
		{"empty", AttribList{}, false},
		{"only terminator", AttribList{0}, true},
		{"unterminated", AttribList{int32(AttribColorBits), 32}, false},
		{"odd", AttribList{int32(AttribColorBits), 32, int32(AttribDepthBits), 0}, false},
		{"early terminator", AttribList{0, 5, 0}, false},
		{"good", Attribs(Pair{AttribDepthBits, 24}), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.list.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrBadAttribList), "got %v", err)
		})
	}
}

func TestPairsStopAtTerminator(t *testing.T) {
	l := AttribList{int32(AttribDepthBits), 24, 0, int32(AttribStencilBits), 8}
	assert.Equal(t, []Pair{{AttribDepthBits, 24}}, l.Pairs())
}

func TestContextVersionAttribs(t *testing.T) {
	v := ContextVersion{Major: 3, Minor: 3, Core: true}
	l := v.Attribs()
	require.NoError(t, l.Validate())
	assert.Equal(t, []Pair{
		{AttribContextMajor, 3},
		{AttribContextMinor, 3},
		{AttribContextProfileMask, ProfileCore},
	}, l.Pairs())
	assert.Equal(t, "3.3 core", v.String())

	v = ContextVersion{Major: 4, Minor: 1, Core: true, ForwardCompatible: true, Debug: true}
	flags, ok := v.Attribs().Get(AttribContextFlags)
	assert.True(t, ok)
	assert.Equal(t, FlagDebug|FlagForwardCompatible, flags)

	assert.True(t, v.AtLeast(4, 1))
	assert.True(t, v.AtLeast(3, 3))
	assert.False(t, v.AtLeast(4, 2))
	assert.Equal(t, "2.1 compatibility", ContextVersion{Major: 2, Minor: 1}.String())
}

func TestAttribString(t *testing.T) {
	assert.Equal(t, "DepthBits", AttribDepthBits.String())
	assert.Equal(t, "Attrib(99)", Attrib(99).String())
}

func TestHandleMessage(t *testing.T) {
	for _, k := range []MessageKind{MessageClose, MessageDestroy} {
		assert.True(t, HandleMessage(Message{Kind: k}), k.String())
	}
	for _, k := range []MessageKind{MessageOther, MessageQuit, MessageKey, MessageResize, MessagePaint} {
		assert.False(t, HandleMessage(Message{Kind: k}), k.String())
	}
}
