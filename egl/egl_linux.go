//go:build linux

// Package egl implements graphics.Platform with Xlib windows and EGL
// contexts, or with EGL pbuffers and no display server at all.
package egl

/*
#cgo LDFLAGS: -lEGL -lX11
#include <stdlib.h>
#include <stdint.h>
#include <X11/Xlib.h>
#include <X11/Xutil.h>
#include <X11/keysym.h>
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}

static EGLDisplay get_x11_display(Display *dpy) {
    return eglGetDisplay((EGLNativeDisplayType)dpy);
}

static EGLDisplay get_default_display() {
    return eglGetDisplay(EGL_DEFAULT_DISPLAY);
}

static EGLSurface create_window_surface(EGLDisplay dpy, EGLConfig config, Window win) {
    return eglCreateWindowSurface(dpy, config, (EGLNativeWindowType)win, NULL);
}

static uintptr_t proc_address(const char *name) {
    return (uintptr_t)eglGetProcAddress(name);
}

// XEvent is a union; cgo cannot reach into it.
static int event_type(XEvent *e) { return e->type; }
static Window event_window(XEvent *e) { return e->xany.window; }
static long client_data0(XEvent *e) { return e->xclient.data.l[0]; }
static int configure_width(XEvent *e) { return e->xconfigure.width; }
static int configure_height(XEvent *e) { return e->xconfigure.height; }
static long key_sym(XEvent *e) { return (long)XLookupKeysym(&e->xkey, 0); }

static Window create_window(Display *dpy, int width, int height) {
    int screen = DefaultScreen(dpy);
    return XCreateSimpleWindow(dpy, RootWindow(dpy, screen), 0, 0, width, height, 0,
                               BlackPixel(dpy, screen), BlackPixel(dpy, screen));
}

static void set_class(Display *dpy, Window win, char *name, char *class) {
    XClassHint hint;
    hint.res_name = name;
    hint.res_class = class;
    XSetClassHint(dpy, win, &hint);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"unsafe"

	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/graphics"
)

const escapeKeySym = 0xff1b

// Platform is the EGL backend. All calls must come from the thread that
// called New.
type Platform struct {
	headless bool
	xdpy     *C.Display
	wmDelete C.Atom
	display  C.EGLDisplay
	configs  []C.EGLConfig
	module   extensions.ProcFunc
	windows  map[C.Window]*Window
}

var _ graphics.Platform = (*Platform)(nil)

// getEGLDisplay tries device enumeration first and falls back to the
// default display.
func getEGLDisplay() (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var numDevices C.EGLint
	if C.query_devices(0, nil, &numDevices) == C.EGL_FALSE || numDevices == 0 {
		log.Println("Warning: EGL_EXT_device_query not supported or no devices found. Falling back to EGL_DEFAULT_DISPLAY.")
		display := C.get_default_display()
		if display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return display, fmt.Errorf("fallback to eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	log.Printf("Found %d EGL device(s).", numDevices)
	devices := make([]C.EGLDeviceEXT, numDevices)
	if C.query_devices(numDevices, &devices[0], &numDevices) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}

	for i := 0; i < int(numDevices); i++ {
		display := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			log.Printf("Successfully got EGL display from device %d.", i)
			return display, nil
		}
	}
	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("could not get a valid EGL display from any available device")
}

// New opens the X display (unless headless) and initializes EGL for
// desktop OpenGL.
func New(headless bool) (*Platform, error) {
	runtime.LockOSThread()
	p := &Platform{headless: headless, windows: make(map[C.Window]*Window)}

	if headless {
		display, err := getEGLDisplay()
		if err != nil {
			return nil, fmt.Errorf("failed to get EGL display: %w", err)
		}
		p.display = display
	} else {
		p.xdpy = C.XOpenDisplay(nil)
		if p.xdpy == nil {
			return nil, fmt.Errorf("failed to open X display")
		}
		name := C.CString("WM_DELETE_WINDOW")
		p.wmDelete = C.XInternAtom(p.xdpy, name, C.False)
		C.free(unsafe.Pointer(name))
		p.display = C.get_x11_display(p.xdpy)
		if p.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			C.XCloseDisplay(p.xdpy)
			return nil, fmt.Errorf("failed to get EGL display for X11")
		}
	}

	var major, minor C.EGLint
	if C.eglInitialize(p.display, &major, &minor) == C.EGL_FALSE {
		p.closeX()
		return nil, fmt.Errorf("failed to initialize EGL: %w", lastError())
	}
	log.Printf("EGL Initialized. Version: %d.%d", major, minor)

	if C.eglBindAPI(eglOpenGLAPI) == C.EGL_FALSE {
		p.Terminate()
		return nil, fmt.Errorf("failed to bind the OpenGL API: %w", lastError())
	}

	if module, err := extensions.Module("libGL.so.1", "libOpenGL.so.0"); err == nil {
		p.module = module
	} else {
		log.Printf("egl: no GL module fallback: %v", err)
	}
	return p, nil
}

// ErrEGL carries an eglGetError code.
type ErrEGL int

func (e ErrEGL) Error() string { return fmt.Sprintf("EGL error 0x%04x", int(e)) }

func lastError() error {
	return ErrEGL(C.eglGetError())
}

func (p *Platform) Name() string {
	if p.headless {
		return "egl-headless"
	}
	return "egl"
}

func (p *Platform) closeX() {
	if p.xdpy != nil {
		C.XCloseDisplay(p.xdpy)
		p.xdpy = nil
	}
}

func (p *Platform) Terminate() {
	C.eglTerminate(p.display)
	p.closeX()
}

func (p *Platform) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	w := &Window{p: p, cfg: cfg, width: cfg.Width, height: cfg.Height}
	if p.headless {
		return w, nil
	}

	w.xid = C.create_window(p.xdpy, C.int(cfg.Width), C.int(cfg.Height))
	if w.xid == 0 {
		return nil, fmt.Errorf("failed to create X window")
	}
	title := C.CString(cfg.Title)
	C.XStoreName(p.xdpy, w.xid, title)
	C.free(unsafe.Pointer(title))

	name, class := C.CString(cfg.Class), C.CString(cfg.Class)
	C.set_class(p.xdpy, w.xid, name, class)
	C.free(unsafe.Pointer(name))
	C.free(unsafe.Pointer(class))

	C.XSelectInput(p.xdpy, w.xid, C.ExposureMask|C.KeyPressMask|C.StructureNotifyMask)
	C.XSetWMProtocols(p.xdpy, w.xid, &p.wmDelete, 1)
	p.windows[w.xid] = w
	return w, nil
}

func (p *Platform) surface(s graphics.Surface) (*Surface, error) {
	es, ok := s.(*Surface)
	if !ok || es == nil {
		return nil, fmt.Errorf("egl: foreign surface %T", s)
	}
	return es, nil
}

func (p *Platform) chooseConfig(attribs []int32) (C.EGLConfig, int, error) {
	var config C.EGLConfig
	var count C.EGLint
	if C.eglChooseConfig(p.display, (*C.EGLint)(unsafe.Pointer(&attribs[0])), &config, 1, &count) == C.EGL_FALSE {
		return config, 0, fmt.Errorf("eglChooseConfig: %w", lastError())
	}
	return config, int(count), nil
}

func (p *Platform) SetLegacyPixelFormat(s graphics.Surface) error {
	es, err := p.surface(s)
	if err != nil {
		return err
	}
	config, count, err := p.chooseConfig(legacyConfigAttribs(p.headless))
	if err != nil {
		return err
	}
	if count == 0 {
		return graphics.ErrNoPixelFormat
	}
	return es.setConfig(config)
}

func (p *Platform) CreateLegacyContext(s graphics.Surface) (graphics.Context, error) {
	es, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	if !es.configured {
		return nil, fmt.Errorf("egl: surface has no config")
	}
	none := []C.EGLint{eglNone}
	ctx := C.eglCreateContext(p.display, es.config, C.EGLContext(C.EGL_NO_CONTEXT), &none[0])
	if ctx == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, fmt.Errorf("eglCreateContext: %w", lastError())
	}
	return &Context{p: p, ctx: ctx}, nil
}

func (p *Platform) LoadExtensions(names []string) (*extensions.Table, error) {
	if C.eglGetCurrentContext() == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, fmt.Errorf("egl: no current context")
	}
	chain := extensions.Chain{
		Context: func(name string) uintptr {
			cname := C.CString(name)
			defer C.free(unsafe.Pointer(cname))
			return uintptr(C.proc_address(cname))
		},
		Module: p.module,
	}
	return extensions.Load(chain, names, nil)
}

func (p *Platform) ChoosePixelFormat(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.PixelFormat, int, error) {
	if ext == nil {
		return 0, 0, errors.New("egl: extension table not loaded")
	}
	req, err := graphics.ParsePixelAttribs(attribs)
	if err != nil {
		return 0, 0, err
	}
	if !req.Satisfiable() {
		return 0, 0, nil
	}
	config, count, err := p.chooseConfig(configAttribs(req, p.headless))
	if err != nil || count == 0 {
		return 0, 0, err
	}
	p.configs = append(p.configs, config)
	return graphics.PixelFormat(len(p.configs)), count, nil
}

func (p *Platform) SetPixelFormat(s graphics.Surface, f graphics.PixelFormat) error {
	es, err := p.surface(s)
	if err != nil {
		return err
	}
	if f < 1 || int(f) > len(p.configs) {
		return fmt.Errorf("egl: unknown pixel format %d", f)
	}
	return es.setConfig(p.configs[f-1])
}

func (p *Platform) CreateContextAttribs(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.Context, error) {
	if ext == nil {
		return nil, errors.New("egl: extension table not loaded")
	}
	es, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	if !es.configured {
		return nil, fmt.Errorf("egl: surface has no config")
	}
	list, err := contextAttribs(attribs)
	if err != nil {
		return nil, err
	}
	ctx := C.eglCreateContext(p.display, es.config, C.EGLContext(C.EGL_NO_CONTEXT), (*C.EGLint)(unsafe.Pointer(&list[0])))
	if ctx == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, fmt.Errorf("eglCreateContext: %w", lastError())
	}
	return &Context{p: p, ctx: ctx}, nil
}

// Window is an X window, or only a size in headless mode.
type Window struct {
	p       *Platform
	cfg     graphics.WindowConfig
	xid     C.Window
	width   int
	height  int
	surface *Surface
	queue   []graphics.Message
}

func (w *Window) Surface() (graphics.Surface, error) {
	if w.surface == nil {
		w.surface = &Surface{w: w}
	}
	return w.surface, nil
}

func (w *Window) Show() {
	if w.xid != 0 && !w.cfg.Hidden {
		C.XMapWindow(w.p.xdpy, w.xid)
		C.XFlush(w.p.xdpy)
	}
}

func (w *Window) Size() (int, int) { return w.width, w.height }

func (w *Window) post(m graphics.Message) {
	w.queue = append(w.queue, m)
}

// PeekMessage returns queued messages first, then pending X events for this
// window. Events for other windows are dropped.
func (w *Window) PeekMessage() (graphics.Message, bool) {
	if len(w.queue) > 0 {
		m := w.queue[0]
		w.queue = w.queue[1:]
		return m, true
	}
	if w.xid == 0 {
		return graphics.Message{}, false
	}
	for C.XPending(w.p.xdpy) > 0 {
		var ev C.XEvent
		C.XNextEvent(w.p.xdpy, &ev)
		if C.event_window(&ev) != w.xid {
			continue
		}
		m := graphics.Message{Kind: graphics.MessageOther}
		switch C.event_type(&ev) {
		case C.ClientMessage:
			if C.Atom(C.client_data0(&ev)) == w.p.wmDelete {
				m.Kind = graphics.MessageClose
			}
		case C.DestroyNotify:
			m.Kind = graphics.MessageDestroy
		case C.ConfigureNotify:
			m.Kind = graphics.MessageResize
			m.Width = int(C.configure_width(&ev))
			m.Height = int(C.configure_height(&ev))
		case C.Expose:
			m.Kind = graphics.MessagePaint
		case C.KeyPress:
			m.Kind = graphics.MessageKey
			m.Key = int(C.key_sym(&ev))
		}
		return m, true
	}
	return graphics.Message{}, false
}

func (w *Window) DispatchMessage(m graphics.Message) {
	switch m.Kind {
	case graphics.MessageResize:
		w.width, w.height = m.Width, m.Height
	case graphics.MessageKey:
		if m.Key == escapeKeySym {
			w.RequestClose()
		}
	}
	if graphics.HandleMessage(m) {
		w.post(graphics.Message{Kind: graphics.MessageQuit})
	}
}

func (w *Window) RequestClose() {
	w.post(graphics.Message{Kind: graphics.MessageClose})
}

func (w *Window) Destroy() error {
	if w.xid != 0 {
		delete(w.p.windows, w.xid)
		C.XDestroyWindow(w.p.xdpy, w.xid)
		C.XFlush(w.p.xdpy)
		w.xid = 0
	}
	w.queue = nil
	return nil
}

// Surface is an EGL window or pbuffer surface. It exists once a config has
// been set.
type Surface struct {
	w          *Window
	config     C.EGLConfig
	configured bool
	surf       C.EGLSurface
}

func (s *Surface) setConfig(config C.EGLConfig) error {
	if s.configured {
		return graphics.ErrPixelFormatSet
	}
	p := s.w.p
	if p.headless {
		attribs := []C.EGLint{eglWidth, C.EGLint(s.w.width), eglHeight, C.EGLint(s.w.height), eglNone}
		s.surf = C.eglCreatePbufferSurface(p.display, config, &attribs[0])
	} else {
		s.surf = C.create_window_surface(p.display, config, s.w.xid)
	}
	if s.surf == C.EGLSurface(C.EGL_NO_SURFACE) {
		return fmt.Errorf("failed to create EGL surface: %w", lastError())
	}
	s.config = config
	s.configured = true
	return nil
}

func (s *Surface) SwapBuffers() error {
	if C.eglSwapBuffers(s.w.p.display, s.surf) == C.EGL_FALSE {
		return fmt.Errorf("eglSwapBuffers: %w", lastError())
	}
	return nil
}

func (s *Surface) Release() error {
	if !s.configured {
		return nil
	}
	s.configured = false
	if C.eglDestroySurface(s.w.p.display, s.surf) == C.EGL_FALSE {
		return fmt.Errorf("eglDestroySurface: %w", lastError())
	}
	return nil
}

// Context is an EGL rendering context.
type Context struct {
	p   *Platform
	ctx C.EGLContext
}

func (c *Context) MakeCurrent(s graphics.Surface) error {
	es, err := c.p.surface(s)
	if err != nil {
		return err
	}
	if C.eglMakeCurrent(c.p.display, es.surf, es.surf, c.ctx) == C.EGL_FALSE {
		return fmt.Errorf("eglMakeCurrent: %w", lastError())
	}
	return nil
}

func (c *Context) ReleaseCurrent() error {
	if C.eglMakeCurrent(c.p.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT)) == C.EGL_FALSE {
		return fmt.Errorf("eglMakeCurrent: %w", lastError())
	}
	return nil
}

func (c *Context) Destroy() error {
	if c.ctx == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil
	}
	ctx := c.ctx
	c.ctx = C.EGLContext(C.EGL_NO_CONTEXT)
	if C.eglDestroyContext(c.p.display, ctx) == C.EGL_FALSE {
		return fmt.Errorf("eglDestroyContext: %w", lastError())
	}
	return nil
}
