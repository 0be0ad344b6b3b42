package renderer

import (
	"fmt"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/shader"
)

var triangleVertices = []float32{
	0.0, 0.5, 0.0,
	-0.5, -0.5, 0.0,
	0.5, -0.5, 0.0,
}

// Triangle draws one static red triangle.
type Triangle struct {
	api     gles.API
	program *shader.Program
	vao     uint32
	vbo     uint32
}

func NewTriangle(api gles.API, tr shader.Translator) (*Triangle, error) {
	program, err := shader.Build(api, shader.Triangle, tr)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	s := &Triangle{api: api, program: program}

	s.vbo = api.GenBuffer()
	api.BindBuffer(gles.ARRAY_BUFFER, s.vbo)
	api.BufferData(gles.ARRAY_BUFFER, gles.Float32Bytes(triangleVertices), gles.STATIC_DRAW)

	s.vao = api.GenVertexArray()
	api.BindVertexArray(s.vao)
	api.VertexAttribPointer(0, 3, gles.FLOAT, false, 3*4, 0)
	api.EnableVertexAttribArray(0)

	api.BindBuffer(gles.ARRAY_BUFFER, 0)
	api.BindVertexArray(0)
	return s, nil
}

func (s *Triangle) Draw(t *bootstrap.Target) {
	api := s.api
	viewport(t)
	api.ClearColor(0, 0, 0, 1)
	api.Clear(gles.COLOR_BUFFER_BIT | gles.DEPTH_BUFFER_BIT)

	api.UseProgram(s.program.ID)
	api.BindVertexArray(s.vao)
	api.DrawArrays(gles.TRIANGLES, 0, 3)
	api.BindVertexArray(0)
	checkError(api)
}

func (s *Triangle) Destroy() {
	s.api.DeleteVertexArray(s.vao)
	s.api.DeleteBuffer(s.vbo)
	s.program.Delete(s.api)
}
