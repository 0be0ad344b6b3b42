package capture

import (
	"fmt"
	"io"
	"log"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/gles"
)

// Recorder reads every drawn frame back and writes it to a sink. After
// Limit frames it asks the window to close, which ends the loop the normal
// way.
type Recorder struct {
	Sink  io.Writer
	Limit int

	frames int
	pixels []byte
	err    error
}

func NewRecorder(sink io.Writer, limit int) *Recorder {
	return &Recorder{Sink: sink, Limit: limit}
}

// Frames returns the number of frames written.
func (r *Recorder) Frames() int { return r.frames }

// Err returns the first write error.
func (r *Recorder) Err() error { return r.err }

// Wrap returns a draw callback that runs draw and then captures the back
// buffer before it is swapped.
func (r *Recorder) Wrap(draw bootstrap.DrawFunc) bootstrap.DrawFunc {
	return func(t *bootstrap.Target) {
		if draw != nil {
			draw(t)
		}
		if r.err != nil {
			return
		}
		pixels := ReadFrame(t.GL, t.Width, t.Height, r.pixels)
		r.pixels = pixels
		if _, err := r.Sink.Write(pixels); err != nil {
			r.err = fmt.Errorf("frame %d: %w", r.frames, err)
			log.Printf("capture stopped: %v", r.err)
			t.Window.RequestClose()
			return
		}
		r.frames++
		if r.Limit > 0 && r.frames == r.Limit {
			t.Window.RequestClose()
		}
	}
}

// ReadFrame reads the current framebuffer as bottom-up RGBA rows, reusing
// buf when it is large enough.
func ReadFrame(api gles.API, width, height int, buf []byte) []byte {
	n := width * height * 4
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	api.ReadPixels(0, 0, int32(width), int32(height), gles.RGBA, gles.UNSIGNED_BYTE, buf)
	return buf
}
