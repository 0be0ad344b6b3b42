// Package graphicstest provides a recording graphics.Platform that needs no
// display. It keeps a journal of every native operation, tracks window class
// registration and flags lifetime violations such as destroying a window
// whose context is still alive.
package graphicstest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/graphics"
)

// ErrInjected is returned by operations listed in Platform.FailAt.
var ErrInjected = errors.New("injected failure")

// Operation names used in the journal and in FailAt.
const (
	OpRegisterClass        = "register-class"
	OpCreateWindow         = "create-window"
	OpGetSurface           = "get-surface"
	OpSetLegacyFormat      = "set-legacy-format"
	OpCreateLegacyContext  = "create-legacy-context"
	OpMakeCurrent          = "make-current"
	OpLoadExtensions       = "load-extensions"
	OpChooseFormat         = "choose-format"
	OpSetFormat            = "set-format"
	OpCreateContextAttribs = "create-context-attribs"
	OpReleaseCurrent       = "release-current"
	OpDestroyContext       = "destroy-context"
	OpReleaseSurface       = "release-surface"
	OpDestroyWindow        = "destroy-window"
	OpUnregisterClass      = "unregister-class"
	OpSwap                 = "swap"
)

// Platform is a fake graphics.Platform.
type Platform struct {
	// Journal lists operations in call order as "op" or "op class".
	Journal []string
	// FailAt makes the named operations fail with ErrInjected.
	FailAt map[string]bool
	// MaxColorBits and MaxDepthBits bound what the format chooser accepts.
	MaxColorBits int32
	MaxDepthBits int32
	// Missing names are left unresolved by LoadExtensions.
	Missing map[string]bool
	// Violations collects lifetime errors detected along the way.
	Violations []string

	// LastPixelAttribs and LastContextAttribs capture what the bootstrap
	// asked for.
	LastPixelAttribs   graphics.AttribList
	LastContextAttribs graphics.AttribList

	classes    map[string]bool
	current    *Context
	tableReady bool
	windows    []*Window
	terminated bool
}

var _ graphics.Platform = (*Platform)(nil)

func NewPlatform() *Platform {
	return &Platform{
		FailAt:       make(map[string]bool),
		MaxColorBits: 32,
		MaxDepthBits: 32,
		Missing:      make(map[string]bool),
		classes:      make(map[string]bool),
	}
}

func (p *Platform) log(op string, detail ...string) error {
	entry := op
	if len(detail) > 0 && detail[0] != "" {
		entry += " " + strings.Join(detail, " ")
	}
	p.Journal = append(p.Journal, entry)
	if p.FailAt[op] {
		return fmt.Errorf("%s: %w", op, ErrInjected)
	}
	return nil
}

func (p *Platform) violate(format string, args ...any) {
	p.Violations = append(p.Violations, fmt.Sprintf(format, args...))
}

// Registered reports whether class is currently registered.
func (p *Platform) Registered(class string) bool {
	return p.classes[class]
}

// RegisteredClasses returns the number of registered classes.
func (p *Platform) RegisteredClasses() int {
	n := 0
	for _, ok := range p.classes {
		if ok {
			n++
		}
	}
	return n
}

// Windows returns every window created so far.
func (p *Platform) Windows() []*Window {
	return p.windows
}

// Index returns the position of the first journal entry starting with
// prefix at or after from, or -1.
func (p *Platform) Index(prefix string, from int) int {
	for i := from; i < len(p.Journal); i++ {
		if strings.HasPrefix(p.Journal[i], prefix) {
			return i
		}
	}
	return -1
}

// Terminated reports whether Terminate was called.
func (p *Platform) Terminated() bool {
	return p.terminated
}

func (p *Platform) Name() string { return "fake" }

func (p *Platform) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	if err := p.log(OpRegisterClass, cfg.Class); err != nil {
		return nil, err
	}
	if p.classes[cfg.Class] {
		return nil, fmt.Errorf("class %q already registered", cfg.Class)
	}
	p.classes[cfg.Class] = true
	if err := p.log(OpCreateWindow, cfg.Class); err != nil {
		p.classes[cfg.Class] = false
		p.log(OpUnregisterClass, cfg.Class)
		return nil, err
	}
	w := &Window{p: p, cfg: cfg, width: cfg.Width, height: cfg.Height}
	p.windows = append(p.windows, w)
	return w, nil
}

func (p *Platform) surface(s graphics.Surface) (*Surface, error) {
	fs, ok := s.(*Surface)
	if !ok || fs == nil {
		return nil, fmt.Errorf("foreign surface %T", s)
	}
	if fs.released {
		p.violate("use of released surface of %q", fs.w.cfg.Class)
	}
	return fs, nil
}

func (p *Platform) SetLegacyPixelFormat(s graphics.Surface) error {
	fs, err := p.surface(s)
	if err != nil {
		return err
	}
	if err := p.log(OpSetLegacyFormat, fs.w.cfg.Class); err != nil {
		return err
	}
	return fs.setFormat(1)
}

func (p *Platform) CreateLegacyContext(s graphics.Surface) (graphics.Context, error) {
	fs, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	if err := p.log(OpCreateLegacyContext, fs.w.cfg.Class); err != nil {
		return nil, err
	}
	if fs.format == 0 {
		return nil, fmt.Errorf("surface of %q has no pixel format", fs.w.cfg.Class)
	}
	return fs.w.newContext(true), nil
}

func (p *Platform) LoadExtensions(names []string) (*extensions.Table, error) {
	if err := p.log(OpLoadExtensions); err != nil {
		return nil, err
	}
	if p.current == nil {
		return nil, fmt.Errorf("load extensions: no current context")
	}
	required := append([]string{"fakeChoosePixelFormat", "fakeCreateContextAttribs"}, names...)
	next := uintptr(0x1000)
	chain := extensions.Chain{
		Context: func(name string) uintptr {
			if p.Missing[name] {
				return 0
			}
			next += 0x10
			return next
		},
	}
	t, err := extensions.Load(chain, required, nil)
	if err != nil {
		return nil, err
	}
	p.tableReady = true
	return t, nil
}

func (p *Platform) requireTable(op string, ext *extensions.Table) {
	if !p.tableReady || ext == nil || !ext.Has("fakeChoosePixelFormat") {
		p.violate("%s before the extension table was loaded", op)
	}
}

func (p *Platform) ChoosePixelFormat(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.PixelFormat, int, error) {
	p.requireTable(OpChooseFormat, ext)
	fs, err := p.surface(s)
	if err != nil {
		return 0, 0, err
	}
	if err := p.log(OpChooseFormat, fs.w.cfg.Class); err != nil {
		return 0, 0, err
	}
	if err := attribs.Validate(); err != nil {
		return 0, 0, err
	}
	p.LastPixelAttribs = append(graphics.AttribList(nil), attribs...)
	if v, ok := attribs.Get(graphics.AttribColorBits); ok && v > p.MaxColorBits {
		return 0, 0, nil
	}
	if v, ok := attribs.Get(graphics.AttribDepthBits); ok && v > p.MaxDepthBits {
		return 0, 0, nil
	}
	return 7, 3, nil
}

func (p *Platform) SetPixelFormat(s graphics.Surface, f graphics.PixelFormat) error {
	fs, err := p.surface(s)
	if err != nil {
		return err
	}
	if err := p.log(OpSetFormat, fs.w.cfg.Class); err != nil {
		return err
	}
	return fs.setFormat(f)
}

func (p *Platform) CreateContextAttribs(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.Context, error) {
	p.requireTable(OpCreateContextAttribs, ext)
	fs, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	if err := p.log(OpCreateContextAttribs, fs.w.cfg.Class); err != nil {
		return nil, err
	}
	if err := attribs.Validate(); err != nil {
		return nil, err
	}
	if fs.format == 0 {
		return nil, fmt.Errorf("surface of %q has no pixel format", fs.w.cfg.Class)
	}
	p.LastContextAttribs = append(graphics.AttribList(nil), attribs...)
	return fs.w.newContext(false), nil
}

func (p *Platform) Terminate() {
	p.terminated = true
}

// Window is a fake native window with a message queue.
type Window struct {
	p         *Platform
	cfg       graphics.WindowConfig
	width     int
	height    int
	surface   *Surface
	contexts  []*Context
	queue     []graphics.Message
	shown     bool
	destroyed bool

	// Dispatched records every message handed to the window procedure.
	Dispatched []graphics.Message
	// Swaps counts SwapBuffers calls on the window's surface.
	Swaps int
}

// Config returns the configuration the window was created with.
func (w *Window) Config() graphics.WindowConfig { return w.cfg }

// Shown reports whether Show was called.
func (w *Window) Shown() bool { return w.shown }

// Destroyed reports whether Destroy was called.
func (w *Window) Destroyed() bool { return w.destroyed }

// Post queues messages for PeekMessage.
func (w *Window) Post(msgs ...graphics.Message) {
	w.queue = append(w.queue, msgs...)
}

// Pending returns the number of queued messages.
func (w *Window) Pending() int { return len(w.queue) }

func (w *Window) newContext(legacy bool) *Context {
	c := &Context{w: w, legacy: legacy}
	w.contexts = append(w.contexts, c)
	return c
}

func (w *Window) Surface() (graphics.Surface, error) {
	if err := w.p.log(OpGetSurface, w.cfg.Class); err != nil {
		return nil, err
	}
	if w.destroyed {
		w.p.violate("surface requested from destroyed window %q", w.cfg.Class)
	}
	if w.surface == nil {
		w.surface = &Surface{w: w}
	}
	w.surface.released = false
	return w.surface, nil
}

func (w *Window) Show() { w.shown = true }

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) PeekMessage() (graphics.Message, bool) {
	if len(w.queue) == 0 {
		return graphics.Message{}, false
	}
	m := w.queue[0]
	w.queue = w.queue[1:]
	return m, true
}

func (w *Window) DispatchMessage(m graphics.Message) {
	w.Dispatched = append(w.Dispatched, m)
	if m.Kind == graphics.MessageResize {
		w.width, w.height = m.Width, m.Height
	}
	if graphics.HandleMessage(m) {
		w.Post(graphics.Message{Kind: graphics.MessageQuit})
	}
}

func (w *Window) RequestClose() {
	w.Post(graphics.Message{Kind: graphics.MessageClose})
}

func (w *Window) Destroy() error {
	if w.destroyed {
		return nil
	}
	for _, c := range w.contexts {
		if !c.destroyed {
			w.p.violate("window %q destroyed before its context was released", w.cfg.Class)
		}
	}
	if w.surface != nil && !w.surface.released {
		w.p.violate("window %q destroyed before its surface was released", w.cfg.Class)
	}
	w.destroyed = true
	err := w.p.log(OpDestroyWindow, w.cfg.Class)
	w.p.classes[w.cfg.Class] = false
	w.p.log(OpUnregisterClass, w.cfg.Class)
	return err
}

// Surface is a fake drawing surface. Its pixel format can be set once.
type Surface struct {
	w        *Window
	format   graphics.PixelFormat
	released bool
}

// Format returns the applied pixel format, or zero.
func (s *Surface) Format() graphics.PixelFormat { return s.format }

func (s *Surface) setFormat(f graphics.PixelFormat) error {
	if s.format != 0 {
		return graphics.ErrPixelFormatSet
	}
	s.format = f
	return nil
}

func (s *Surface) SwapBuffers() error {
	s.w.Swaps++
	if s.w.destroyed || s.released {
		s.w.p.violate("swap on dead surface of %q", s.w.cfg.Class)
	}
	return s.w.p.log(OpSwap, s.w.cfg.Class)
}

func (s *Surface) Release() error {
	if s.released {
		return nil
	}
	for _, c := range s.w.contexts {
		if c == s.w.p.current {
			s.w.p.violate("surface of %q released while its context is current", s.w.cfg.Class)
		}
	}
	s.released = true
	return s.w.p.log(OpReleaseSurface, s.w.cfg.Class)
}

// Context is a fake rendering context.
type Context struct {
	w         *Window
	legacy    bool
	destroyed bool
}

// Legacy reports whether the context came from CreateLegacyContext.
func (c *Context) Legacy() bool { return c.legacy }

// Destroyed reports whether Destroy was called.
func (c *Context) Destroyed() bool { return c.destroyed }

func (c *Context) MakeCurrent(s graphics.Surface) error {
	if err := c.w.p.log(OpMakeCurrent, c.w.cfg.Class); err != nil {
		return err
	}
	if c.destroyed || c.w.destroyed {
		c.w.p.violate("make current on dead context of %q", c.w.cfg.Class)
	}
	c.w.p.current = c
	return nil
}

func (c *Context) ReleaseCurrent() error {
	if c.w.p.current == c {
		c.w.p.current = nil
	}
	return c.w.p.log(OpReleaseCurrent, c.w.cfg.Class)
}

func (c *Context) Destroy() error {
	if c.destroyed {
		return nil
	}
	if c.w.destroyed {
		c.w.p.violate("context of %q released after its window was destroyed", c.w.cfg.Class)
	}
	if c.w.p.current == c {
		c.w.p.current = nil
	}
	c.destroyed = true
	return c.w.p.log(OpDestroyContext, c.w.cfg.Class)
}
