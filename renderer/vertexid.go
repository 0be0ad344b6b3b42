package renderer

import (
	"fmt"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/shader"
)

var clearGreen = [4]float32{0.0, 0.25, 0.0, 1.0}

// VertexID draws a triangle whose corners come from gl_VertexID. Core
// profiles still need a vertex array bound to draw, so an empty one is kept.
type VertexID struct {
	api     gles.API
	program *shader.Program
	vao     uint32
}

func NewVertexID(api gles.API, tr shader.Translator) (*VertexID, error) {
	program, err := shader.Build(api, shader.VertexID, tr)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	return &VertexID{api: api, program: program, vao: api.GenVertexArray()}, nil
}

func (s *VertexID) Draw(t *bootstrap.Target) {
	api := s.api
	viewport(t)
	api.ClearBufferfv(gles.COLOR, 0, clearGreen)

	api.UseProgram(s.program.ID)
	api.BindVertexArray(s.vao)
	api.DrawArrays(gles.TRIANGLES, 0, 3)
	api.BindVertexArray(0)
	checkError(api)
}

func (s *VertexID) Destroy() {
	s.api.DeleteVertexArray(s.vao)
	s.program.Delete(s.api)
}
