// Package glimpl binds gles.API to the go-gl OpenGL 3.3 core bindings.
package glimpl

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/gles"
)

// Functions implements gles.API. The go-gl bindings keep their pointers in
// package state, so there is exactly one binding per process.
type Functions struct{}

var (
	initOnce sync.Once
	initErr  error
)

// New binds the go-gl entry points through the bootstrap's extension table.
// The context that owns the table's entry points must be current.
func New(table *extensions.Table) (gles.API, error) {
	if table == nil {
		return nil, fmt.Errorf("glimpl: nil extension table")
	}
	initOnce.Do(func() {
		initErr = gl.InitWithProcAddrFunc(table.ProcAddress)
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &Functions{}, nil
}

var _ gles.API = (*Functions)(nil)

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}

func (f *Functions) GetError() uint32 { return gl.GetError() }

func (f *Functions) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

func (f *Functions) Enable(capability uint32) { gl.Enable(capability) }

func (f *Functions) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (f *Functions) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (f *Functions) Clear(mask uint32) { gl.Clear(mask) }

func (f *Functions) ClearBufferfv(buffer uint32, drawBuffer int32, value [4]float32) {
	gl.ClearBufferfv(buffer, drawBuffer, &value[0])
}

func (f *Functions) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (f *Functions) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (f *Functions) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (f *Functions) GetShaderiv(shader uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (f *Functions) GetShaderInfoLog(shader uint32, length int32) string {
	if length <= 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(length+1))
	gl.GetShaderInfoLog(shader, length, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (f *Functions) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (f *Functions) CreateProgram() uint32 { return gl.CreateProgram() }

func (f *Functions) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (f *Functions) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (f *Functions) GetProgramiv(program uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (f *Functions) GetProgramInfoLog(program uint32, length int32) string {
	if length <= 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(length+1))
	gl.GetProgramInfoLog(program, length, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (f *Functions) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (f *Functions) UseProgram(program uint32) { gl.UseProgram(program) }

func (f *Functions) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (f *Functions) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (f *Functions) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (f *Functions) BindVertexArray(array uint32) { gl.BindVertexArray(array) }

func (f *Functions) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }

func (f *Functions) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (f *Functions) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (f *Functions) BufferData(target uint32, data []byte, usage uint32) {
	gl.BufferData(target, len(data), ptr(data), usage)
}

func (f *Functions) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (f *Functions) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, xtype, normalized, stride, gl.PtrOffset(offset))
}

func (f *Functions) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (f *Functions) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (f *Functions) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElements(mode, count, xtype, gl.PtrOffset(offset))
}

func (f *Functions) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (f *Functions) ActiveTexture(unit uint32) { gl.ActiveTexture(unit) }

func (f *Functions) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }

func (f *Functions) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (f *Functions) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr(pixels))
}

func (f *Functions) GenerateMipmap(target uint32) { gl.GenerateMipmap(target) }

func (f *Functions) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (f *Functions) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	gl.ReadPixels(x, y, width, height, format, xtype, ptr(pixels))
}
