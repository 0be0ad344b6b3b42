package renderer

import (
	"fmt"
	"log"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/inputs"
	"github.com/richinsley/glbootstrap/shader"
)

// Scene is a draw callback that owns GL objects.
type Scene interface {
	Draw(t *bootstrap.Target)
	Destroy()
}

// SceneOptions configures New.
type SceneOptions struct {
	// Translator, when set, compiles the GLSL ES sources through it.
	Translator shader.Translator
	// Texture is the image used by the quad scene.
	Texture string
	Sampler inputs.Sampler
}

// Scenes lists the names New accepts.
var Scenes = []string{"triangle", "quad", "vertexid"}

// New builds the named scene on the current context.
func New(name string, api gles.API, opts SceneOptions) (Scene, error) {
	switch name {
	case "triangle", "":
		return NewTriangle(api, opts.Translator)
	case "quad":
		return NewQuad(api, opts.Translator, opts.Texture, opts.Sampler)
	case "vertexid":
		return NewVertexID(api, opts.Translator)
	}
	return nil, fmt.Errorf("unknown scene %q", name)
}

// Attach makes s the target's draw callback and hands ownership of its GL
// objects to the target.
func Attach(t *bootstrap.Target, s Scene) {
	t.Draw = s.Draw
	t.UserData = s
}

// checkError reports a GL error raised by the frame and carries on.
func checkError(api gles.API) bool {
	if code := api.GetError(); code != gles.NO_ERROR {
		log.Printf("oh bugger: GL error 0x%04x", code)
		return false
	}
	return true
}

func viewport(t *bootstrap.Target) {
	w, h := t.Width, t.Height
	if t.Window != nil {
		w, h = t.Window.Size()
	}
	t.GL.Viewport(0, 0, int32(w), int32(h))
}
