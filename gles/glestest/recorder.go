// Package glestest provides a recording gles.API for tests that run without
// a GPU.
package glestest

import (
	"fmt"
	"strings"

	"github.com/richinsley/glbootstrap/gles"
)

// Call is one recorded GL call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}

// Recorder implements gles.API by recording calls. Object names are handed
// out from a single counter starting at 1.
type Recorder struct {
	Calls []Call

	// FailCompile makes compilation of the given shader stages fail.
	FailCompile map[uint32]bool
	// FailLink makes every link fail.
	FailLink bool
	// InfoLog is returned as the shader or program log. When empty the
	// reported log length is 1, as some drivers do for "no message".
	InfoLog string
	// Errors are returned by successive GetError calls.
	Errors []uint32
	// Strings answers GetString.
	Strings map[uint32]string
	// Uniforms maps uniform names to locations; unknown names return -1.
	Uniforms map[string]int32

	next     uint32
	shaders  map[uint32]*shaderState
	programs map[uint32]*programState
}

type shaderState struct {
	xtype    uint32
	compiled bool
	deleted  bool
}

type programState struct {
	attached []uint32
	linked   bool
	deleted  bool
}

var _ gles.API = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{
		FailCompile: make(map[uint32]bool),
		Strings:     make(map[uint32]string),
		Uniforms:    make(map[string]int32),
		shaders:     make(map[uint32]*shaderState),
		programs:    make(map[uint32]*programState),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) newName() uint32 {
	r.next++
	return r.next
}

// Count returns how many times name was called.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Find returns the recorded calls named name.
func (r *Recorder) Find(name string) []Call {
	var calls []Call
	for _, c := range r.Calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}

// Names returns the call names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Reset forgets recorded calls but keeps object state.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// LiveShaders returns the names of shaders not yet deleted.
func (r *Recorder) LiveShaders() []uint32 {
	var live []uint32
	for id := uint32(1); id <= r.next; id++ {
		if s, ok := r.shaders[id]; ok && !s.deleted {
			live = append(live, id)
		}
	}
	return live
}

// LivePrograms returns the names of programs not yet deleted.
func (r *Recorder) LivePrograms() []uint32 {
	var live []uint32
	for id := uint32(1); id <= r.next; id++ {
		if p, ok := r.programs[id]; ok && !p.deleted {
			live = append(live, id)
		}
	}
	return live
}

func (r *Recorder) logLength() int32 {
	return int32(len(r.InfoLog)) + 1
}

func (r *Recorder) GetError() uint32 {
	r.record("GetError")
	if len(r.Errors) == 0 {
		return gles.NO_ERROR
	}
	e := r.Errors[0]
	r.Errors = r.Errors[1:]
	return e
}

func (r *Recorder) GetString(name uint32) string {
	r.record("GetString", name)
	return r.Strings[name]
}

func (r *Recorder) Enable(capability uint32) { r.record("Enable", capability) }

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask uint32) { r.record("Clear", mask) }

func (r *Recorder) ClearBufferfv(buffer uint32, drawBuffer int32, value [4]float32) {
	r.record("ClearBufferfv", buffer, drawBuffer, value)
}

func (r *Recorder) CreateShader(xtype uint32) uint32 {
	id := r.newName()
	r.shaders[id] = &shaderState{xtype: xtype}
	r.record("CreateShader", xtype)
	return id
}

func (r *Recorder) ShaderSource(shader uint32, source string) {
	r.record("ShaderSource", shader, source)
}

func (r *Recorder) CompileShader(shader uint32) {
	r.record("CompileShader", shader)
	if s, ok := r.shaders[shader]; ok {
		s.compiled = !r.FailCompile[s.xtype]
	}
}

func (r *Recorder) GetShaderiv(shader uint32, pname uint32) int32 {
	r.record("GetShaderiv", shader, pname)
	s, ok := r.shaders[shader]
	if !ok {
		return 0
	}
	switch pname {
	case gles.COMPILE_STATUS:
		if s.compiled {
			return gles.TRUE
		}
		return gles.FALSE
	case gles.INFO_LOG_LENGTH:
		return r.logLength()
	}
	return 0
}

func (r *Recorder) GetShaderInfoLog(shader uint32, length int32) string {
	r.record("GetShaderInfoLog", shader, length)
	return r.InfoLog
}

func (r *Recorder) DeleteShader(shader uint32) {
	r.record("DeleteShader", shader)
	if s, ok := r.shaders[shader]; ok {
		s.deleted = true
	}
}

func (r *Recorder) CreateProgram() uint32 {
	id := r.newName()
	r.programs[id] = &programState{}
	r.record("CreateProgram")
	return id
}

func (r *Recorder) AttachShader(program, shader uint32) {
	r.record("AttachShader", program, shader)
	if p, ok := r.programs[program]; ok {
		p.attached = append(p.attached, shader)
	}
}

func (r *Recorder) LinkProgram(program uint32) {
	r.record("LinkProgram", program)
	p, ok := r.programs[program]
	if !ok {
		return
	}
	p.linked = !r.FailLink
	for _, id := range p.attached {
		if s, ok := r.shaders[id]; !ok || !s.compiled {
			p.linked = false
		}
	}
}

func (r *Recorder) GetProgramiv(program uint32, pname uint32) int32 {
	r.record("GetProgramiv", program, pname)
	p, ok := r.programs[program]
	if !ok {
		return 0
	}
	switch pname {
	case gles.LINK_STATUS:
		if p.linked {
			return gles.TRUE
		}
		return gles.FALSE
	case gles.INFO_LOG_LENGTH:
		return r.logLength()
	}
	return 0
}

func (r *Recorder) GetProgramInfoLog(program uint32, length int32) string {
	r.record("GetProgramInfoLog", program, length)
	return r.InfoLog
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.record("DeleteProgram", program)
	if p, ok := r.programs[program]; ok {
		p.deleted = true
	}
}

func (r *Recorder) UseProgram(program uint32) { r.record("UseProgram", program) }

func (r *Recorder) GetUniformLocation(program uint32, name string) int32 {
	r.record("GetUniformLocation", program, name)
	if loc, ok := r.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (r *Recorder) Uniform1i(location int32, v int32) { r.record("Uniform1i", location, v) }

func (r *Recorder) GenVertexArray() uint32 {
	id := r.newName()
	r.record("GenVertexArray")
	return id
}

func (r *Recorder) BindVertexArray(array uint32) { r.record("BindVertexArray", array) }

func (r *Recorder) DeleteVertexArray(array uint32) { r.record("DeleteVertexArray", array) }

func (r *Recorder) GenBuffer() uint32 {
	id := r.newName()
	r.record("GenBuffer")
	return id
}

func (r *Recorder) BindBuffer(target, buffer uint32) { r.record("BindBuffer", target, buffer) }

func (r *Recorder) BufferData(target uint32, data []byte, usage uint32) {
	r.record("BufferData", target, len(data), usage)
}

func (r *Recorder) DeleteBuffer(buffer uint32) { r.record("DeleteBuffer", buffer) }

func (r *Recorder) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	r.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (r *Recorder) EnableVertexAttribArray(index uint32) {
	r.record("EnableVertexAttribArray", index)
}

func (r *Recorder) DrawArrays(mode uint32, first, count int32) {
	r.record("DrawArrays", mode, first, count)
}

func (r *Recorder) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	r.record("DrawElements", mode, count, xtype, offset)
}

func (r *Recorder) GenTexture() uint32 {
	id := r.newName()
	r.record("GenTexture")
	return id
}

func (r *Recorder) ActiveTexture(unit uint32) { r.record("ActiveTexture", unit) }

func (r *Recorder) BindTexture(target, texture uint32) { r.record("BindTexture", target, texture) }

func (r *Recorder) TexParameteri(target, pname uint32, param int32) {
	r.record("TexParameteri", target, pname, param)
}

func (r *Recorder) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	r.record("TexImage2D", target, level, internalFormat, width, height, format, xtype, len(pixels))
}

func (r *Recorder) GenerateMipmap(target uint32) { r.record("GenerateMipmap", target) }

func (r *Recorder) DeleteTexture(texture uint32) { r.record("DeleteTexture", texture) }

func (r *Recorder) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	r.record("ReadPixels", x, y, width, height, format, xtype, len(pixels))
	for i := range pixels {
		pixels[i] = byte(i)
	}
}
