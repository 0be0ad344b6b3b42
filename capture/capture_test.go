package capture

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/gles/glestest"
	"github.com/richinsley/glbootstrap/graphics/graphicstest"
	"github.com/richinsley/glbootstrap/renderer"
)

func newTarget(t *testing.T, width, height int) (*bootstrap.Target, *glestest.Recorder, *graphicstest.Window) {
	t.Helper()
	p := graphicstest.NewPlatform()
	rec := glestest.NewRecorder()
	cfg := bootstrap.DefaultConfig()
	cfg.Width, cfg.Height = width, height
	cfg.Bind = func(*extensions.Table) (gles.API, error) { return rec, nil }

	tgt, err := bootstrap.Run(p, cfg)
	require.NoError(t, err)
	t.Cleanup(tgt.Shutdown)
	return tgt, rec, tgt.Window.(*graphicstest.Window)
}

func TestRecorderStopsAfterLimit(t *testing.T) {
	tgt, rec, win := newTarget(t, 4, 2)
	var sink bytes.Buffer
	r := NewRecorder(&sink, 3)

	drawn := 0
	tgt.Draw = r.Wrap(func(*bootstrap.Target) { drawn++ })

	assert.Equal(t, 3, renderer.Run(tgt))
	assert.Equal(t, 3, drawn)
	assert.Equal(t, 3, r.Frames())
	assert.Equal(t, 3, win.Swaps)
	assert.NoError(t, r.Err())
	assert.Equal(t, 3*4*2*4, sink.Len())

	reads := rec.Find("ReadPixels")
	require.Len(t, reads, 3)
	assert.Equal(t, []any{int32(0), int32(0), int32(4), int32(2), uint32(gles.RGBA), uint32(gles.UNSIGNED_BYTE), 32}, reads[0].Args)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecorderWriteErrorEndsLoop(t *testing.T) {
	tgt, _, _ := newTarget(t, 2, 2)
	r := NewRecorder(failingWriter{}, 0)
	tgt.Draw = r.Wrap(nil)

	assert.Equal(t, 1, renderer.Run(tgt))
	assert.ErrorContains(t, r.Err(), "disk full")
	assert.Zero(t, r.Frames())
}

func TestReadFrameReusesBuffer(t *testing.T) {
	rec := glestest.NewRecorder()
	buf := make([]byte, 0, 64)
	out := ReadFrame(rec, 2, 2, buf)
	assert.Len(t, out, 16)
	assert.Same(t, &buf[:1][0], &out[0])
}

func TestImageFlipsRows(t *testing.T) {
	// two rows, one pixel each, bottom row first
	pixels := []byte{1, 0, 0, 255, 2, 0, 0, 255}
	img, err := Image(1, 2, pixels)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(1), img.RGBAAt(0, 1).R)

	_, err = Image(4, 4, pixels)
	assert.Error(t, err)
}

func TestScreenshot(t *testing.T) {
	tgt, rec, _ := newTarget(t, 3, 2)
	path := filepath.Join(t.TempDir(), "shot.png")
	tgt.Draw = Screenshot(path, nil)
	tgt.Draw(tgt)
	tgt.Draw(tgt)
	assert.Equal(t, 1, rec.Count("ReadPixels"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestEncoderArgs(t *testing.T) {
	in, out := EncoderConfig{Output: "out.mp4", Width: 1024, Height: 720, FPS: 30}.args()
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "1024x720", in["s"])
	assert.Equal(t, 30, in["framerate"])
	assert.Equal(t, "vflip", out["vf"])
	assert.Equal(t, "yuv420p", out["pix_fmt"])
	assert.Equal(t, "libx264", out["c:v"])
	assert.NotContains(t, out, "tag:v")

	in, out = EncoderConfig{Output: "out.mp4", Width: 8, Height: 8, Codec: "libx265"}.args()
	assert.Equal(t, 60, in["framerate"])
	assert.Equal(t, "hvc1", out["tag:v"])
}

func TestStartEncoderValidates(t *testing.T) {
	_, err := StartEncoder(EncoderConfig{Width: 8, Height: 8})
	assert.Error(t, err)
	_, err = StartEncoder(EncoderConfig{Output: "out.mp4"})
	assert.Error(t, err)
}
