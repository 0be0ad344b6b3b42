package renderer

import (
	"fmt"
	"log"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/inputs"
	"github.com/richinsley/glbootstrap/shader"
)

// DefaultTexture is read relative to the working directory.
const DefaultTexture = "resources/container.jpg"

var quadVertices = []float32{
	// positions      // colors       // texture coords
	0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 1.0, 1.0,
	0.5, -0.5, 0.0, 0.0, 1.0, 0.0, 1.0, 0.0,
	-0.5, -0.5, 0.0, 0.0, 0.0, 1.0, 0.0, 0.0,
	-0.5, 0.5, 0.0, 1.0, 1.0, 0.0, 0.0, 1.0,
}

var quadIndices = []uint32{
	0, 1, 3,
	1, 2, 3,
}

// Quad draws a textured rectangle from an element buffer. Without its
// texture it still draws, using the vertex colours.
type Quad struct {
	api     gles.API
	program *shader.Program
	vao     uint32
	vbo     uint32
	ebo     uint32
	texture *inputs.Texture
}

func NewQuad(api gles.API, tr shader.Translator, texturePath string, sampler inputs.Sampler) (*Quad, error) {
	program, err := shader.Build(api, shader.Quad, tr)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	s := &Quad{api: api, program: program}

	s.vao = api.GenVertexArray()
	s.vbo = api.GenBuffer()
	s.ebo = api.GenBuffer()

	api.BindVertexArray(s.vao)
	api.BindBuffer(gles.ARRAY_BUFFER, s.vbo)
	api.BufferData(gles.ARRAY_BUFFER, gles.Float32Bytes(quadVertices), gles.STATIC_DRAW)
	api.BindBuffer(gles.ELEMENT_ARRAY_BUFFER, s.ebo)
	api.BufferData(gles.ELEMENT_ARRAY_BUFFER, gles.Uint32Bytes(quadIndices), gles.STATIC_DRAW)

	const stride = 8 * 4
	api.VertexAttribPointer(0, 3, gles.FLOAT, false, stride, 0)
	api.EnableVertexAttribArray(0)
	api.VertexAttribPointer(1, 3, gles.FLOAT, false, stride, 3*4)
	api.EnableVertexAttribArray(1)
	api.VertexAttribPointer(2, 2, gles.FLOAT, false, stride, 6*4)
	api.EnableVertexAttribArray(2)
	api.BindVertexArray(0)

	if texturePath == "" {
		texturePath = DefaultTexture
	}
	if sampler == (inputs.Sampler{}) {
		sampler = inputs.DefaultSampler()
	}
	s.texture, err = inputs.LoadTexture(api, texturePath, sampler)
	if err != nil {
		log.Printf("Failed to load texture: %v", err)
		s.texture = nil
	}

	api.UseProgram(program.ID)
	if loc := program.UniformLocation(api, "texture1"); loc >= 0 {
		api.Uniform1i(loc, 0)
	}
	if loc := program.UniformLocation(api, "textured"); loc >= 0 {
		var textured int32
		if s.texture != nil {
			textured = 1
		}
		api.Uniform1i(loc, textured)
	}
	return s, nil
}

// Textured reports whether the texture loaded.
func (s *Quad) Textured() bool { return s.texture != nil }

func (s *Quad) Draw(t *bootstrap.Target) {
	api := s.api
	viewport(t)
	api.ClearColor(0.2, 0.3, 0.3, 1.0)
	api.Clear(gles.COLOR_BUFFER_BIT)

	if s.texture != nil {
		s.texture.Bind(api, 0)
	}
	api.UseProgram(s.program.ID)
	api.BindVertexArray(s.vao)
	api.DrawElements(gles.TRIANGLES, int32(len(quadIndices)), gles.UNSIGNED_INT, 0)
	api.BindVertexArray(0)
	checkError(api)
}

func (s *Quad) Destroy() {
	s.texture.Destroy(s.api)
	s.api.DeleteVertexArray(s.vao)
	s.api.DeleteBuffer(s.vbo)
	s.api.DeleteBuffer(s.ebo)
	s.program.Delete(s.api)
}
