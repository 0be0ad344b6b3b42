package shader

import (
	"fmt"
	"log"

	"github.com/richinsley/glbootstrap/gles"
)

// Translator rewrites GLSL ES 3.00 sources for the current context. Variables
// maps the names used in the source to the names in the translated code.
type Translator interface {
	Translate(source, stage string) (code string, variables map[string]string, err error)
}

// Program is a linked program object.
type Program struct {
	ID uint32
	// names maps source uniform names to translated ones. Nil when the
	// sources were compiled as written.
	names map[string]string
}

// UniformLocation looks up a uniform by the name it has in the source.
func (p *Program) UniformLocation(api gles.API, name string) int32 {
	if mapped, ok := p.names[name]; ok {
		name = mapped
	}
	return api.GetUniformLocation(p.ID, name)
}

// Delete releases the program object.
func (p *Program) Delete(api gles.API) {
	if p == nil || p.ID == 0 {
		return
	}
	api.DeleteProgram(p.ID)
	p.ID = 0
}

// Build compiles and links src. With a non-nil translator the GLSL ES form
// of the sources is translated first and the result compiled instead.
func Build(api gles.API, src func(isGLES bool) Sources, tr Translator) (*Program, error) {
	if tr == nil {
		s := src(false)
		id, err := NewProgram(api, s.Vertex, s.Fragment)
		if err != nil {
			return nil, err
		}
		return &Program{ID: id}, nil
	}

	s := src(true)
	vs, _, err := tr.Translate(s.Vertex, "vertex")
	if err != nil {
		return nil, fmt.Errorf("vertex shader translation failed: %w", err)
	}
	fs, names, err := tr.Translate(s.Fragment, "fragment")
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}
	id, err := NewProgram(api, vs, fs)
	if err != nil {
		return nil, err
	}
	return &Program{ID: id, names: names}, nil
}

// NewProgram compiles both stages and links them. On any failure it returns
// 0 and releases every object it created; the fragment stage is never
// compiled when the vertex stage fails.
func NewProgram(api gles.API, vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := Compile(api, vertexSource, gles.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := Compile(api, fragmentSource, gles.FRAGMENT_SHADER)
	if err != nil {
		api.DeleteShader(vertexShader)
		return 0, err
	}

	program := api.CreateProgram()
	if program == 0 {
		api.DeleteShader(vertexShader)
		api.DeleteShader(fragmentShader)
		return 0, fmt.Errorf("failed to create program")
	}
	api.AttachShader(program, vertexShader)
	api.AttachShader(program, fragmentShader)
	api.LinkProgram(program)

	// The program keeps the compiled code, linked or not.
	api.DeleteShader(vertexShader)
	api.DeleteShader(fragmentShader)

	if api.GetProgramiv(program, gles.LINK_STATUS) == gles.FALSE {
		msg := programLog(api, program)
		api.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %s", msg)
	}
	return program, nil
}

// Compile compiles one stage and returns the shader object.
func Compile(api gles.API, source string, shaderType uint32) (uint32, error) {
	shader := api.CreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Errorf("failed to create %s shader", stageName(shaderType))
	}
	api.ShaderSource(shader, source)
	api.CompileShader(shader)

	if api.GetShaderiv(shader, gles.COMPILE_STATUS) == gles.FALSE {
		msg := shaderLog(api, shader, shaderType)
		api.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile %s shader: %s", stageName(shaderType), msg)
	}
	return shader, nil
}

// Some drivers report a length of 1 for an empty log.
func shaderLog(api gles.API, shader, shaderType uint32) string {
	length := api.GetShaderiv(shader, gles.INFO_LOG_LENGTH)
	if length <= 1 {
		return "no info log"
	}
	msg := api.GetShaderInfoLog(shader, length)
	log.Printf("Error compiling %s shader:\n%s", stageName(shaderType), msg)
	return msg
}

func programLog(api gles.API, program uint32) string {
	length := api.GetProgramiv(program, gles.INFO_LOG_LENGTH)
	if length <= 1 {
		return "no info log"
	}
	msg := api.GetProgramInfoLog(program, length)
	log.Printf("Error linking program:\n%s", msg)
	return msg
}

func stageName(shaderType uint32) string {
	switch shaderType {
	case gles.VERTEX_SHADER:
		return "vertex"
	case gles.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%x", shaderType)
}
