package options

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glbootstrap/graphics"
)

func parse(t *testing.T, args ...string) *Options {
	t.Helper()
	fs := flag.NewFlagSet("glbootstrap", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o := Register(fs)
	require.NoError(t, fs.Parse(args))
	return o
}

func TestDefaults(t *testing.T) {
	o := parse(t)
	assert.Equal(t, 1024, *o.Width)
	assert.Equal(t, 720, *o.Height)
	assert.Equal(t, "OpenGL", *o.Title)
	assert.Equal(t, "triangle", *o.Scene)
	assert.False(t, *o.Record)
	require.NoError(t, o.Validate())

	v, err := o.ContextVersion()
	require.NoError(t, err)
	assert.Equal(t, graphics.ContextVersion{Major: 3, Minor: 3, Core: true}, v)
}

func TestContextVersion(t *testing.T) {
	o := parse(t, "-gl", "4.1", "-debug")
	v, err := o.ContextVersion()
	require.NoError(t, err)
	assert.Equal(t, 4, v.Major)
	assert.Equal(t, 1, v.Minor)
	assert.True(t, v.Debug)
	assert.True(t, v.Core)

	for _, bad := range []string{"3", "x.3", "3.y", "2.1", ""} {
		o := parse(t, "-gl", bad)
		_, err := o.ContextVersion()
		assert.Error(t, err, bad)
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, parse(t, "-width", "0").Validate())
	assert.Error(t, parse(t, "-frames", "-1").Validate())
	assert.Error(t, parse(t, "-record", "-fps", "0").Validate())
	assert.Error(t, parse(t, "-headless").Validate())
	assert.NoError(t, parse(t, "-headless", "-frames", "1").Validate())
	assert.NoError(t, parse(t, "-record", "-frames", "120", "-output", "tri.mp4").Validate())
}
