// Package gles describes the OpenGL entry points this program issues. The
// set is bound once after bootstrap and passed by reference to everything
// that draws.
package gles

import "unsafe"

// API is the resolved set of GL entry points. All calls act on the context
// current on the calling thread.
type API interface {
	GetError() uint32
	GetString(name uint32) string
	Enable(capability uint32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	ClearBufferfv(buffer uint32, drawBuffer int32, value [4]float32)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	GetShaderInfoLog(shader uint32, length int32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32, length int32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)

	GenVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)
	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	DeleteBuffer(buffer uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	GenerateMipmap(target uint32)
	DeleteTexture(texture uint32)
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte)
}

// ProcNames are the entry points that must resolve during bootstrap. Any
// one missing is fatal.
var ProcNames = []string{
	"glActiveTexture",
	"glAttachShader",
	"glBindBuffer",
	"glBindTexture",
	"glBindVertexArray",
	"glBufferData",
	"glClear",
	"glClearBufferfv",
	"glClearColor",
	"glCompileShader",
	"glCreateProgram",
	"glCreateShader",
	"glDeleteBuffers",
	"glDeleteProgram",
	"glDeleteShader",
	"glDeleteTextures",
	"glDeleteVertexArrays",
	"glDrawArrays",
	"glDrawElements",
	"glEnable",
	"glEnableVertexAttribArray",
	"glGenBuffers",
	"glGenTextures",
	"glGenVertexArrays",
	"glGenerateMipmap",
	"glGetError",
	"glGetProgramInfoLog",
	"glGetProgramiv",
	"glGetShaderInfoLog",
	"glGetShaderiv",
	"glGetString",
	"glGetUniformLocation",
	"glLinkProgram",
	"glReadPixels",
	"glShaderSource",
	"glTexImage2D",
	"glTexParameteri",
	"glUniform1i",
	"glUseProgram",
	"glVertexAttribPointer",
	"glViewport",
}

// Float32Bytes reinterprets v as raw bytes for BufferData.
func Float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// Uint32Bytes reinterprets v as raw bytes for BufferData.
func Uint32Bytes(v []uint32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
