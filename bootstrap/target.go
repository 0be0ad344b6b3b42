package bootstrap

import (
	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/graphics"
)

// DrawFunc issues one frame of draw calls.
type DrawFunc func(t *Target)

// Destroyer is implemented by user data that owns GL objects.
type Destroyer interface {
	Destroy()
}

// Target is the state owned by the process for its whole run: the real
// window, its surface and context, the resolved entry points and the
// per-frame draw callback. It is only touched from the thread that created
// it.
type Target struct {
	Width  int
	Height int

	Window     graphics.Window
	Surface    graphics.Surface
	Context    graphics.Context
	Extensions *extensions.Table
	GL         gles.API

	UserData any
	Draw     DrawFunc

	shutdown bool
}

// Shutdown releases user data, then the context, then the surface, and
// only then destroys the window. Releasing a context after its window is
// gone is undefined, so the order is fixed. Calling Shutdown again is a
// no-op.
func (t *Target) Shutdown() {
	if t == nil || t.shutdown {
		return
	}
	t.shutdown = true

	if d, ok := t.UserData.(Destroyer); ok {
		d.Destroy()
	}
	t.UserData = nil
	t.Draw = nil

	if t.Context != nil {
		release("release context", t.Context.ReleaseCurrent)
		release("delete context", t.Context.Destroy)
	}
	if t.Surface != nil {
		release("release surface", t.Surface.Release)
	}
	if t.Window != nil {
		release("destroy window", t.Window.Destroy)
	}
}
