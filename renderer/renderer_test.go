package renderer

import (
	"bytes"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/gles/glestest"
	"github.com/richinsley/glbootstrap/graphics"
	"github.com/richinsley/glbootstrap/graphics/graphicstest"
	"github.com/richinsley/glbootstrap/inputs"
)

type harness struct {
	p   *graphicstest.Platform
	rec *glestest.Recorder
	t   *bootstrap.Target
	win *graphicstest.Window
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	p := graphicstest.NewPlatform()
	rec := glestest.NewRecorder()
	cfg := bootstrap.DefaultConfig()
	cfg.Bind = func(*extensions.Table) (gles.API, error) { return rec, nil }

	tgt, err := bootstrap.Run(p, cfg)
	require.NoError(t, err)
	win, ok := tgt.Window.(*graphicstest.Window)
	require.True(t, ok)
	rec.Reset()
	return &harness{p: p, rec: rec, t: tgt, win: win}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestTriangleSingleFrame(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 1024, h.t.Width)
	assert.Equal(t, 720, h.t.Height)

	scene, err := NewTriangle(h.rec, nil)
	require.NoError(t, err)
	Attach(h.t, scene)
	h.t.Draw = CloseAfter(1, h.t.Draw)

	h.rec.Reset()
	frames := Run(h.t)
	assert.Equal(t, 1, frames)
	assert.Equal(t, 1, h.win.Swaps)

	assert.Equal(t, 1, h.rec.Count("Clear"))
	assert.Equal(t, []any{uint32(gles.COLOR_BUFFER_BIT | gles.DEPTH_BUFFER_BIT)}, h.rec.Find("Clear")[0].Args)
	draws := h.rec.Find("DrawArrays")
	require.Len(t, draws, 1)
	assert.Equal(t, []any{uint32(gles.TRIANGLES), int32(0), int32(3)}, draws[0].Args)
	assert.Equal(t, []any{int32(0), int32(0), int32(1024), int32(720)}, h.rec.Find("Viewport")[0].Args)

	h.t.Shutdown()
	assert.Empty(t, h.rec.LivePrograms())
	assert.Empty(t, h.p.Violations)

	ctx := h.p.Index(graphicstest.OpDestroyContext+" WGL_glbootstrap", 0)
	win := h.p.Index(graphicstest.OpDestroyWindow+" WGL_glbootstrap", 0)
	require.GreaterOrEqual(t, ctx, 0)
	assert.Less(t, ctx, win)
	assert.Equal(t, 0, h.p.RegisteredClasses())
}

func TestQuitBeforeFirstFrame(t *testing.T) {
	h := newHarness(t)
	drawn := 0
	h.t.Draw = func(*bootstrap.Target) { drawn++ }

	h.win.Post(graphics.Message{Kind: graphics.MessageClose})
	assert.Equal(t, 0, Run(h.t))
	assert.Zero(t, drawn)
	assert.Zero(t, h.win.Swaps, "no frame may be presented after quit")
}

func TestOtherMessagesKeepRunning(t *testing.T) {
	h := newHarness(t)
	drawn := 0
	h.t.Draw = CloseAfter(3, func(*bootstrap.Target) { drawn++ })

	h.win.Post(
		graphics.Message{Kind: graphics.MessageKey, Key: 'A'},
		graphics.Message{Kind: graphics.MessagePaint},
		graphics.Message{Kind: graphics.MessageResize, Width: 640, Height: 480},
		graphics.Message{Kind: graphics.MessageOther},
	)
	assert.Equal(t, 3, Run(h.t))
	assert.Equal(t, 3, drawn)
	assert.Equal(t, 3, h.win.Swaps)

	kinds := make([]graphics.MessageKind, len(h.win.Dispatched))
	for i, m := range h.win.Dispatched {
		kinds[i] = m.Kind
	}
	assert.Equal(t, []graphics.MessageKind{
		graphics.MessageKey, graphics.MessagePaint, graphics.MessageResize,
		graphics.MessageOther, graphics.MessageClose,
	}, kinds)
}

func TestStoppedIsTerminal(t *testing.T) {
	h := newHarness(t)
	l := &Loop{Target: h.t}
	h.win.RequestClose()
	assert.Equal(t, Stopped, l.Step())
	assert.Equal(t, Stopped, l.Step())
	assert.Equal(t, "stopped", l.State.String())
	assert.Equal(t, "running", Running.String())
}

func TestLoopWithoutDrawStillSwaps(t *testing.T) {
	h := newHarness(t)
	l := &Loop{Target: h.t}
	assert.Equal(t, Running, l.Step())
	assert.Equal(t, 1, h.win.Swaps)
	assert.Equal(t, 1, l.Frames)
}

func TestResizeUpdatesViewport(t *testing.T) {
	h := newHarness(t)
	scene, err := New("triangle", h.rec, SceneOptions{})
	require.NoError(t, err)
	Attach(h.t, scene)
	h.t.Draw = CloseAfter(1, h.t.Draw)

	h.win.Post(graphics.Message{Kind: graphics.MessageResize, Width: 640, Height: 480})
	h.rec.Reset()
	Run(h.t)
	assert.Equal(t, []any{int32(0), int32(0), int32(640), int32(480)}, h.rec.Find("Viewport")[0].Args)
}

func TestQuadWithoutTexture(t *testing.T) {
	buf := captureLog(t)
	h := newHarness(t)

	q, err := NewQuad(h.rec, nil, filepath.Join(t.TempDir(), "container.jpg"), inputs.DefaultSampler())
	require.NoError(t, err)
	assert.False(t, q.Textured())
	assert.Contains(t, buf.String(), "Failed to load texture")

	Attach(h.t, q)
	h.t.Draw = CloseAfter(2, h.t.Draw)
	h.rec.Reset()
	assert.Equal(t, 2, Run(h.t))

	elems := h.rec.Find("DrawElements")
	require.Len(t, elems, 2)
	assert.Equal(t, []any{uint32(gles.TRIANGLES), int32(6), uint32(gles.UNSIGNED_INT), 0}, elems[0].Args)
	assert.Equal(t, []any{float32(0.2), float32(0.3), float32(0.3), float32(1.0)}, h.rec.Find("ClearColor")[0].Args)
	assert.Zero(t, h.rec.Count("BindTexture"))
}

func TestQuadWithTexture(t *testing.T) {
	h := newHarness(t)
	h.rec.Uniforms["texture1"] = 4
	h.rec.Uniforms["textured"] = 5

	path := filepath.Join(t.TempDir(), "container.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	require.NoError(t, f.Close())

	q, err := NewQuad(h.rec, nil, path, inputs.DefaultSampler())
	require.NoError(t, err)
	assert.True(t, q.Textured())

	uniforms := h.rec.Find("Uniform1i")
	require.Len(t, uniforms, 2)
	assert.Equal(t, []any{int32(4), int32(0)}, uniforms[0].Args)
	assert.Equal(t, []any{int32(5), int32(1)}, uniforms[1].Args)

	vbo := h.rec.Find("BufferData")
	require.Len(t, vbo, 2)
	assert.Equal(t, []any{uint32(gles.ARRAY_BUFFER), 32 * 4, uint32(gles.STATIC_DRAW)}, vbo[0].Args)
	assert.Equal(t, []any{uint32(gles.ELEMENT_ARRAY_BUFFER), 6 * 4, uint32(gles.STATIC_DRAW)}, vbo[1].Args)

	q.Destroy()
	assert.Equal(t, 1, h.rec.Count("DeleteTexture"))
	assert.Equal(t, 2, h.rec.Count("DeleteBuffer"))
	assert.Empty(t, h.rec.LivePrograms())
}

func TestVertexIDScene(t *testing.T) {
	h := newHarness(t)
	s, err := New("vertexid", h.rec, SceneOptions{})
	require.NoError(t, err)
	Attach(h.t, s)
	h.t.Draw = CloseAfter(1, h.t.Draw)
	h.rec.Reset()
	Run(h.t)

	clears := h.rec.Find("ClearBufferfv")
	require.Len(t, clears, 1)
	assert.Equal(t, []any{uint32(gles.COLOR), int32(0), [4]float32{0, 0.25, 0, 1}}, clears[0].Args)
	assert.Equal(t, 1, h.rec.Count("DrawArrays"))
	assert.Zero(t, h.rec.Count("BufferData"))
}

func TestGLErrorIsSoft(t *testing.T) {
	buf := captureLog(t)
	h := newHarness(t)
	s, err := NewTriangle(h.rec, nil)
	require.NoError(t, err)
	Attach(h.t, s)
	h.t.Draw = CloseAfter(2, h.t.Draw)

	h.rec.Errors = []uint32{0x0502}
	assert.Equal(t, 2, Run(h.t))
	assert.Contains(t, buf.String(), "oh bugger")
	assert.Equal(t, 2, h.rec.Count("DrawArrays"))
}

func TestSceneCompileFailure(t *testing.T) {
	h := newHarness(t)
	h.rec.FailLink = true
	_, err := New("triangle", h.rec, SceneOptions{})
	assert.Error(t, err)
	assert.Empty(t, h.rec.LivePrograms())
	assert.Empty(t, h.rec.LiveShaders())
}

func TestUnknownScene(t *testing.T) {
	_, err := New("teapot", glestest.NewRecorder(), SceneOptions{})
	assert.Error(t, err)
}

func TestShutdownDestroysScene(t *testing.T) {
	h := newHarness(t)
	s, err := New("quad", h.rec, SceneOptions{Texture: filepath.Join(t.TempDir(), "none.jpg")})
	require.NoError(t, err)
	Attach(h.t, s)

	h.t.Shutdown()
	assert.Empty(t, h.rec.LivePrograms())
	assert.Equal(t, 1, h.rec.Count("DeleteVertexArray"))
	assert.Empty(t, h.p.Violations)
}
