// Package glfwcontext implements graphics.Platform on GLFW. It is the
// backend for macOS and a portable fallback elsewhere.
//
// GLFW creates a window and its context in one call, so a Window here is
// only a description until a context is created for it. The legacy phase
// creates a hidden window with default hints; the real phase turns the
// chosen pixel format and the context attributes into window hints.
package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/graphics"
)

// Platform is the GLFW backend. All methods must be called from the thread
// that called New.
type Platform struct {
	formats []graphics.PixelRequest
	module  extensions.ProcFunc
}

var _ graphics.Platform = (*Platform)(nil)

// New initializes GLFW. Must be called from the main thread.
func New() (*Platform, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, err
	}
	log.Printf("GLFW Initialized")

	p := &Platform{}
	if module, err := extensions.Module(moduleNames()...); err == nil {
		p.module = module
	} else {
		log.Printf("glfw: no GL module fallback: %v", err)
	}
	return p, nil
}

func moduleNames() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/System/Library/Frameworks/OpenGL.framework/OpenGL"}
	case "windows":
		return []string{"opengl32.dll"}
	}
	return []string{"libGL.so.1", "libGL.so"}
}

func (p *Platform) Name() string { return "glfw" }

// Terminate shuts down GLFW. Must be called from the main thread.
func (p *Platform) Terminate() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

func (p *Platform) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	return &Window{cfg: cfg}, nil
}

func (p *Platform) surface(s graphics.Surface) (*Surface, error) {
	gs, ok := s.(*Surface)
	if !ok || gs == nil {
		return nil, fmt.Errorf("glfw: foreign surface %T", s)
	}
	return gs, nil
}

func (p *Platform) SetLegacyPixelFormat(s graphics.Surface) error {
	gs, err := p.surface(s)
	if err != nil {
		return err
	}
	if gs.formatSet {
		return graphics.ErrPixelFormatSet
	}
	gs.formatSet = true
	gs.legacy = true
	return nil
}

func (p *Platform) CreateLegacyContext(s graphics.Surface) (graphics.Context, error) {
	gs, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	if !gs.legacy {
		return nil, fmt.Errorf("glfw: surface has no legacy pixel format")
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	return gs.w.create()
}

func (p *Platform) LoadExtensions(names []string) (*extensions.Table, error) {
	if glfw.GetCurrentContext() == nil {
		return nil, fmt.Errorf("glfw: no current context")
	}
	chain := extensions.Chain{
		Context: func(name string) uintptr {
			return uintptr(glfw.GetProcAddress(name))
		},
		Module: p.module,
	}
	return extensions.Load(chain, names, nil)
}

func (p *Platform) ChoosePixelFormat(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.PixelFormat, int, error) {
	if ext == nil {
		return 0, 0, fmt.Errorf("glfw: extension table not loaded")
	}
	req, err := graphics.ParsePixelAttribs(attribs)
	if err != nil {
		return 0, 0, err
	}
	if !req.Satisfiable() {
		return 0, 0, nil
	}
	p.formats = append(p.formats, req)
	return graphics.PixelFormat(len(p.formats)), 1, nil
}

func (p *Platform) SetPixelFormat(s graphics.Surface, f graphics.PixelFormat) error {
	gs, err := p.surface(s)
	if err != nil {
		return err
	}
	if gs.formatSet {
		return graphics.ErrPixelFormatSet
	}
	if f < 1 || int(f) > len(p.formats) {
		return fmt.Errorf("glfw: unknown pixel format %d", f)
	}
	gs.formatSet = true
	gs.format = p.formats[f-1]
	return nil
}

func (p *Platform) CreateContextAttribs(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.Context, error) {
	if ext == nil {
		return nil, fmt.Errorf("glfw: extension table not loaded")
	}
	gs, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	if !gs.formatSet || gs.legacy {
		return nil, fmt.Errorf("glfw: surface has no pixel format")
	}
	if err := attribs.Validate(); err != nil {
		return nil, err
	}

	glfw.DefaultWindowHints()
	applyPixelHints(gs.format)
	if err := applyContextHints(attribs); err != nil {
		return nil, err
	}
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	return gs.w.create()
}

func hint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func applyPixelHints(r graphics.PixelRequest) {
	glfw.WindowHint(glfw.RedBits, r.Red)
	glfw.WindowHint(glfw.GreenBits, r.Green)
	glfw.WindowHint(glfw.BlueBits, r.Blue)
	glfw.WindowHint(glfw.AlphaBits, r.Alpha)
	glfw.WindowHint(glfw.DepthBits, r.Depth)
	glfw.WindowHint(glfw.StencilBits, r.Stencil)
	glfw.WindowHint(glfw.DoubleBuffer, hint(r.DoubleBuffer))
}

func applyContextHints(attribs graphics.AttribList) error {
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	for _, a := range attribs.Pairs() {
		switch a.Key {
		case graphics.AttribContextMajor:
			glfw.WindowHint(glfw.ContextVersionMajor, int(a.Value))
		case graphics.AttribContextMinor:
			glfw.WindowHint(glfw.ContextVersionMinor, int(a.Value))
		case graphics.AttribContextProfileMask:
			switch a.Value {
			case graphics.ProfileCore:
				glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
			case graphics.ProfileCompatibility:
				glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
			default:
				return fmt.Errorf("glfw: unknown profile mask 0x%x", a.Value)
			}
		case graphics.AttribContextFlags:
			glfw.WindowHint(glfw.OpenGLDebugContext, hint(a.Value&graphics.FlagDebug != 0))
			glfw.WindowHint(glfw.OpenGLForwardCompatible, hint(a.Value&graphics.FlagForwardCompatible != 0))
		default:
			return fmt.Errorf("glfw: unsupported context attribute %s", a.Key)
		}
	}
	// macOS only hands out core profiles to forward compatible requests.
	if runtime.GOOS == "darwin" {
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	return nil
}

// Window is a GLFW window and its event queue.
type Window struct {
	cfg    graphics.WindowConfig
	native *glfw.Window
	queue  []graphics.Message
	polled bool
}

func (w *Window) create() (graphics.Context, error) {
	if w.native != nil {
		return nil, fmt.Errorf("glfw: window %q already has a context", w.cfg.Title)
	}
	win, err := glfw.CreateWindow(w.cfg.Width, w.cfg.Height, w.cfg.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	w.native = win

	win.SetCloseCallback(func(*glfw.Window) {
		w.post(graphics.Message{Kind: graphics.MessageClose})
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.post(graphics.Message{Kind: graphics.MessageResize, Width: width, Height: height})
	})
	win.SetRefreshCallback(func(*glfw.Window) {
		w.post(graphics.Message{Kind: graphics.MessagePaint})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		w.post(graphics.Message{Kind: graphics.MessageKey, Key: int(key)})
		if key == glfw.KeyEscape {
			w.RequestClose()
		}
	})
	return &Context{w: w}, nil
}

func (w *Window) post(m graphics.Message) {
	w.queue = append(w.queue, m)
}

func (w *Window) Surface() (graphics.Surface, error) {
	return &Surface{w: w}, nil
}

func (w *Window) Show() {
	if w.native != nil {
		w.native.Show()
	}
}

func (w *Window) Size() (int, int) {
	if w.native == nil {
		return w.cfg.Width, w.cfg.Height
	}
	return w.native.GetFramebufferSize()
}

// PeekMessage polls GLFW once per drain, then hands out what the callbacks
// queued.
func (w *Window) PeekMessage() (graphics.Message, bool) {
	if !w.polled {
		glfw.PollEvents()
		w.polled = true
	}
	if len(w.queue) == 0 {
		w.polled = false
		return graphics.Message{}, false
	}
	m := w.queue[0]
	w.queue = w.queue[1:]
	return m, true
}

func (w *Window) DispatchMessage(m graphics.Message) {
	if graphics.HandleMessage(m) {
		if w.native != nil {
			w.native.SetShouldClose(true)
		}
		w.post(graphics.Message{Kind: graphics.MessageQuit})
	}
}

func (w *Window) RequestClose() {
	w.post(graphics.Message{Kind: graphics.MessageClose})
}

func (w *Window) Destroy() error {
	if w.native != nil {
		w.native.Destroy()
		w.native = nil
	}
	w.queue = nil
	return nil
}

// Surface is the window's default framebuffer.
type Surface struct {
	w         *Window
	format    graphics.PixelRequest
	formatSet bool
	legacy    bool
}

func (s *Surface) SwapBuffers() error {
	if s.w.native == nil {
		return fmt.Errorf("glfw: swap on window without context")
	}
	s.w.native.SwapBuffers()
	return nil
}

func (s *Surface) Release() error { return nil }

// Context is owned by its window. The native context goes away with the
// window, so Destroy only detaches it.
type Context struct {
	w *Window
}

func (c *Context) MakeCurrent(graphics.Surface) error {
	if c.w.native == nil {
		return fmt.Errorf("glfw: window destroyed")
	}
	c.w.native.MakeContextCurrent()
	return nil
}

func (c *Context) ReleaseCurrent() error {
	glfw.DetachCurrentContext()
	return nil
}

func (c *Context) Destroy() error {
	if c.w.native != nil && glfw.GetCurrentContext() == c.w.native {
		glfw.DetachCurrentContext()
	}
	return nil
}
