//go:build windows

package wgl

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/graphics"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procRegisterClassEx  = user32.NewProc("RegisterClassExW")
	procUnregisterClass  = user32.NewProc("UnregisterClassW")
	procCreateWindowEx   = user32.NewProc("CreateWindowExW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procDefWindowProc    = user32.NewProc("DefWindowProcW")
	procAdjustWindowRect = user32.NewProc("AdjustWindowRect")
	procGetClientRect    = user32.NewProc("GetClientRect")
	procShowWindow       = user32.NewProc("ShowWindow")
	procUpdateWindow     = user32.NewProc("UpdateWindow")
	procGetDC            = user32.NewProc("GetDC")
	procReleaseDC        = user32.NewProc("ReleaseDC")
	procPeekMessage      = user32.NewProc("PeekMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessage  = user32.NewProc("DispatchMessageW")
	procPostMessage      = user32.NewProc("PostMessageW")
	procPostQuitMessage  = user32.NewProc("PostQuitMessage")
	procLoadCursor       = user32.NewProc("LoadCursorW")
	procMessageBox       = user32.NewProc("MessageBoxW")

	gdi32                   = windows.NewLazySystemDLL("gdi32.dll")
	procChoosePixelFormat   = gdi32.NewProc("ChoosePixelFormat")
	procDescribePixelFormat = gdi32.NewProc("DescribePixelFormat")
	procSetPixelFormat      = gdi32.NewProc("SetPixelFormat")
	procSwapBuffers         = gdi32.NewProc("SwapBuffers")

	opengl32              = windows.NewLazySystemDLL("opengl32.dll")
	procWglCreateContext  = opengl32.NewProc("wglCreateContext")
	procWglDeleteContext  = opengl32.NewProc("wglDeleteContext")
	procWglMakeCurrent    = opengl32.NewProc("wglMakeCurrent")
	procWglGetProcAddress = opengl32.NewProc("wglGetProcAddress")
	procWglGetCurrentDC   = opengl32.NewProc("wglGetCurrentDC")
	procWglGetCurrentCtx  = opengl32.NewProc("wglGetCurrentContext")

	kernel32            = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle = kernel32.NewProc("GetModuleHandleW")
)

const (
	csVRedraw = 0x0001
	csHRedraw = 0x0002
	csOwnDC   = 0x0020

	wsOverlappedWindow = 0x00CF0000
	cwUseDefault       = 0x80000000
	swShow             = 5
	idcArrow           = 32512

	wmDestroy = 0x0002
	wmSize    = 0x0005
	wmPaint   = 0x000F
	wmClose   = 0x0010
	wmQuit    = 0x0012
	wmKeyDown = 0x0100
	vkEscape  = 0x1B
	pmRemove  = 0x0001

	mbOK        = 0x00000000
	mbIconError = 0x00000010

	pfdDoubleBuffer   = 0x00000001
	pfdDrawToWindow   = 0x00000004
	pfdSupportOpenGL  = 0x00000020
	pfdTypeRGBA       = 0
	pfdMainPlane      = 0
	pfdDescriptorSize = 40
)

type wndClassEx struct {
	size       uint32
	style      uint32
	wndProc    uintptr
	clsExtra   int32
	wndExtra   int32
	instance   windows.Handle
	icon       windows.Handle
	cursor     windows.Handle
	background windows.Handle
	menuName   *uint16
	className  *uint16
	iconSm     windows.Handle
}

type point struct {
	x, y int32
}

type msg struct {
	hwnd    windows.HWND
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

type rect struct {
	left, top, right, bottom int32
}

type pixelFormatDescriptor struct {
	size           uint16
	version        uint16
	flags          uint32
	pixelType      byte
	colorBits      byte
	redBits        byte
	redShift       byte
	greenBits      byte
	greenShift     byte
	blueBits       byte
	blueShift      byte
	alphaBits      byte
	alphaShift     byte
	accumBits      byte
	accumRedBits   byte
	accumGreenBits byte
	accumBlueBits  byte
	accumAlphaBits byte
	depthBits      byte
	stencilBits    byte
	auxBuffers     byte
	layerType      byte
	reserved       byte
	layerMask      uint32
	visibleMask    uint32
	damageMask     uint32
}

// Windows created by this package, for the window procedure.
var windowsByHandle = map[windows.HWND]*Window{}

var wndProcCallback = windows.NewCallback(wndProc)

func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	w := windowsByHandle[windows.HWND(hwnd)]
	switch message {
	case wmSize:
		if w != nil {
			w.width = int(lParam & 0xffff)
			w.height = int((lParam >> 16) & 0xffff)
		}
	case wmKeyDown:
		if wParam == vkEscape && w != nil {
			w.RequestClose()
			return 0
		}
	case wmClose, wmDestroy:
		if graphics.HandleMessage(graphics.Message{Kind: kindOf(uint32(message))}) {
			procPostQuitMessage.Call(0)
			return 0
		}
	}
	r, _, _ := procDefWindowProc.Call(hwnd, message, wParam, lParam)
	return r
}

func kindOf(message uint32) graphics.MessageKind {
	switch message {
	case wmQuit:
		return graphics.MessageQuit
	case wmClose:
		return graphics.MessageClose
	case wmDestroy:
		return graphics.MessageDestroy
	case wmKeyDown:
		return graphics.MessageKey
	case wmSize:
		return graphics.MessageResize
	case wmPaint:
		return graphics.MessagePaint
	}
	return graphics.MessageOther
}

// Platform is the Win32 backend. All calls must come from the thread that
// called New; window messages are delivered to the creating thread only.
type Platform struct {
	instance windows.Handle
}

var (
	_ graphics.Platform      = (*Platform)(nil)
	_ graphics.FatalReporter = (*Platform)(nil)
)

// New locks the calling thread and returns the Win32 platform.
func New() (*Platform, error) {
	runtime.LockOSThread()
	if err := opengl32.Load(); err != nil {
		return nil, fmt.Errorf("failed to load opengl32.dll: %w", err)
	}
	instance, _, err := procGetModuleHandle.Call(0)
	if instance == 0 {
		return nil, fmt.Errorf("GetModuleHandle: %w", err)
	}
	return &Platform{instance: windows.Handle(instance)}, nil
}

func (p *Platform) Name() string { return "wgl" }

func (p *Platform) Terminate() {}

// ReportFatal shows msg in a blocking message box.
func (p *Platform) ReportFatal(message string) {
	text, _ := windows.UTF16PtrFromString(message)
	caption, _ := windows.UTF16PtrFromString("Error")
	procMessageBox.Call(0, uintptr(unsafe.Pointer(text)), uintptr(unsafe.Pointer(caption)), mbOK|mbIconError)
}

func (p *Platform) CreateWindow(cfg graphics.WindowConfig) (graphics.Window, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	className, err := windows.UTF16PtrFromString(cfg.Class)
	if err != nil {
		return nil, err
	}
	title, err := windows.UTF16PtrFromString(cfg.Title)
	if err != nil {
		return nil, err
	}

	// Hidden windows never see the message loop, so they keep the default
	// window procedure and cannot post a quit on destruction.
	proc := wndProcCallback
	if cfg.Hidden {
		proc = procDefWindowProc.Addr()
	}
	cursor, _, _ := procLoadCursor.Call(0, idcArrow)
	wc := wndClassEx{
		style:     csHRedraw | csVRedraw | csOwnDC,
		wndProc:   proc,
		instance:  p.instance,
		cursor:    windows.Handle(cursor),
		className: className,
	}
	wc.size = uint32(unsafe.Sizeof(wc))
	if r, _, err := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
		return nil, fmt.Errorf("failed to register window class %q: %w", cfg.Class, err)
	}

	r := rect{right: int32(cfg.Width), bottom: int32(cfg.Height)}
	procAdjustWindowRect.Call(uintptr(unsafe.Pointer(&r)), wsOverlappedWindow, 0)

	hwnd, _, err := procCreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(title)),
		wsOverlappedWindow,
		cwUseDefault, cwUseDefault,
		uintptr(r.right-r.left), uintptr(r.bottom-r.top),
		0, 0, uintptr(p.instance), 0,
	)
	if hwnd == 0 {
		procUnregisterClass.Call(uintptr(unsafe.Pointer(className)), uintptr(p.instance))
		return nil, fmt.Errorf("CreateWindowEx: %w", err)
	}

	w := &Window{
		p:      p,
		cfg:    cfg,
		hwnd:   windows.HWND(hwnd),
		class:  className,
		width:  cfg.Width,
		height: cfg.Height,
	}
	windowsByHandle[w.hwnd] = w
	return w, nil
}

func (p *Platform) surface(s graphics.Surface) (*Surface, error) {
	ws, ok := s.(*Surface)
	if !ok || ws == nil {
		return nil, fmt.Errorf("wgl: foreign surface %T", s)
	}
	return ws, nil
}

func (p *Platform) SetLegacyPixelFormat(s graphics.Surface) error {
	ws, err := p.surface(s)
	if err != nil {
		return err
	}
	if ws.formatSet {
		return graphics.ErrPixelFormatSet
	}
	pfd := pixelFormatDescriptor{
		size:        pfdDescriptorSize,
		version:     1,
		flags:       pfdDrawToWindow | pfdSupportOpenGL | pfdDoubleBuffer,
		pixelType:   pfdTypeRGBA,
		colorBits:   32,
		alphaBits:   8,
		depthBits:   24,
		stencilBits: 8,
		layerType:   pfdMainPlane,
	}
	format, _, err := procChoosePixelFormat.Call(ws.hdc, uintptr(unsafe.Pointer(&pfd)))
	if format == 0 {
		return fmt.Errorf("ChoosePixelFormat: %w", err)
	}
	if r, _, err := procSetPixelFormat.Call(ws.hdc, format, uintptr(unsafe.Pointer(&pfd))); r == 0 {
		return fmt.Errorf("SetPixelFormat: %w", err)
	}
	ws.formatSet = true
	return nil
}

func (p *Platform) CreateLegacyContext(s graphics.Surface) (graphics.Context, error) {
	ws, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	hglrc, _, err := procWglCreateContext.Call(ws.hdc)
	if hglrc == 0 {
		return nil, fmt.Errorf("wglCreateContext: %w", err)
	}
	return &Context{hglrc: hglrc}, nil
}

func getProcAddress(name string) uintptr {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return 0
	}
	addr, _, _ := procWglGetProcAddress.Call(uintptr(unsafe.Pointer(cname)))
	if !validProc(addr) {
		return 0
	}
	return addr
}

func (p *Platform) LoadExtensions(names []string) (*extensions.Table, error) {
	if current, _, _ := procWglGetCurrentCtx.Call(); current == 0 {
		return nil, errors.New("wgl: no current context")
	}
	module, err := extensions.Module("opengl32.dll")
	if err != nil {
		return nil, err
	}
	chain := extensions.Chain{Context: getProcAddress, Module: module}

	required := append(append([]string{}, procNames...), names...)
	table, err := extensions.Load(chain, required, []string{"wglGetExtensionsStringARB"})
	if err != nil {
		return nil, err
	}

	if proc := table.Proc("wglGetExtensionsStringARB"); proc != 0 {
		hdc, _, _ := procWglGetCurrentDC.Call()
		list, _, _ := syscall.SyscallN(proc, hdc)
		if list != 0 {
			exts := windows.BytePtrToString((*byte)(unsafe.Pointer(list)))
			if missing := missingExtensions(exts, requiredExtensions); len(missing) > 0 {
				return nil, fmt.Errorf("wgl: driver lacks %v", missing)
			}
		}
	} else {
		log.Printf("wgl: wglGetExtensionsStringARB unavailable, assuming %v", requiredExtensions)
	}
	return table, nil
}

func (p *Platform) ChoosePixelFormat(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.PixelFormat, int, error) {
	ws, err := p.surface(s)
	if err != nil {
		return 0, 0, err
	}
	proc := ext.Proc("wglChoosePixelFormatARB")
	if proc == 0 {
		return 0, 0, errors.New("wgl: wglChoosePixelFormatARB not loaded")
	}
	list, err := pixelFormatAttribs(attribs)
	if err != nil {
		return 0, 0, err
	}
	var format int32
	var count uint32
	r, _, _ := syscall.SyscallN(proc,
		ws.hdc,
		uintptr(unsafe.Pointer(&list[0])),
		0,
		1,
		uintptr(unsafe.Pointer(&format)),
		uintptr(unsafe.Pointer(&count)),
	)
	if r == 0 {
		return 0, 0, fmt.Errorf("wglChoosePixelFormatARB failed")
	}
	if count == 0 {
		return 0, 0, nil
	}
	return graphics.PixelFormat(format), int(count), nil
}

func (p *Platform) SetPixelFormat(s graphics.Surface, f graphics.PixelFormat) error {
	ws, err := p.surface(s)
	if err != nil {
		return err
	}
	if ws.formatSet {
		return graphics.ErrPixelFormatSet
	}
	var pfd pixelFormatDescriptor
	if r, _, err := procDescribePixelFormat.Call(ws.hdc, uintptr(f), pfdDescriptorSize, uintptr(unsafe.Pointer(&pfd))); r == 0 {
		return fmt.Errorf("DescribePixelFormat: %w", err)
	}
	if r, _, err := procSetPixelFormat.Call(ws.hdc, uintptr(f), uintptr(unsafe.Pointer(&pfd))); r == 0 {
		return fmt.Errorf("SetPixelFormat: %w", err)
	}
	ws.formatSet = true
	return nil
}

func (p *Platform) CreateContextAttribs(s graphics.Surface, attribs graphics.AttribList, ext *extensions.Table) (graphics.Context, error) {
	ws, err := p.surface(s)
	if err != nil {
		return nil, err
	}
	proc := ext.Proc("wglCreateContextAttribsARB")
	if proc == 0 {
		return nil, errors.New("wgl: wglCreateContextAttribsARB not loaded")
	}
	list, err := contextAttribs(attribs)
	if err != nil {
		return nil, err
	}
	hglrc, _, _ := syscall.SyscallN(proc, ws.hdc, 0, uintptr(unsafe.Pointer(&list[0])))
	if hglrc == 0 {
		return nil, fmt.Errorf("wglCreateContextAttribsARB failed")
	}
	return &Context{hglrc: hglrc}, nil
}

// Window is a Win32 window with its own class.
type Window struct {
	p      *Platform
	cfg    graphics.WindowConfig
	hwnd   windows.HWND
	class  *uint16
	width  int
	height int
}

func (w *Window) Surface() (graphics.Surface, error) {
	hdc, _, err := procGetDC.Call(uintptr(w.hwnd))
	if hdc == 0 {
		return nil, fmt.Errorf("GetDC: %w", err)
	}
	return &Surface{w: w, hdc: hdc}, nil
}

func (w *Window) Show() {
	if w.cfg.Hidden {
		return
	}
	procShowWindow.Call(uintptr(w.hwnd), swShow)
	procUpdateWindow.Call(uintptr(w.hwnd))
}

func (w *Window) Size() (int, int) {
	var r rect
	if ok, _, _ := procGetClientRect.Call(uintptr(w.hwnd), uintptr(unsafe.Pointer(&r))); ok == 0 {
		return w.width, w.height
	}
	return int(r.right - r.left), int(r.bottom - r.top)
}

// PeekMessage reads the thread queue, so a quit posted by any window of
// this thread is seen here.
func (w *Window) PeekMessage() (graphics.Message, bool) {
	m := &msg{}
	if r, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(m)), 0, 0, 0, pmRemove); r == 0 {
		return graphics.Message{}, false
	}
	out := graphics.Message{Kind: kindOf(m.message), Native: m}
	switch out.Kind {
	case graphics.MessageKey:
		out.Key = int(m.wParam)
	case graphics.MessageResize:
		out.Width = int(m.lParam & 0xffff)
		out.Height = int((m.lParam >> 16) & 0xffff)
	}
	return out, true
}

func (w *Window) DispatchMessage(m graphics.Message) {
	native, ok := m.Native.(*msg)
	if !ok {
		if graphics.HandleMessage(m) {
			procPostQuitMessage.Call(0)
		}
		return
	}
	procTranslateMessage.Call(uintptr(unsafe.Pointer(native)))
	procDispatchMessage.Call(uintptr(unsafe.Pointer(native)))
}

func (w *Window) RequestClose() {
	procPostMessage.Call(uintptr(w.hwnd), wmClose, 0, 0)
}

func (w *Window) Destroy() error {
	if w.hwnd == 0 {
		return nil
	}
	hwnd := w.hwnd
	w.hwnd = 0
	delete(windowsByHandle, hwnd)
	if r, _, err := procDestroyWindow.Call(uintptr(hwnd)); r == 0 {
		return fmt.Errorf("DestroyWindow: %w", err)
	}
	if r, _, err := procUnregisterClass.Call(uintptr(unsafe.Pointer(w.class)), uintptr(w.p.instance)); r == 0 {
		return fmt.Errorf("UnregisterClass: %w", err)
	}
	return nil
}

// Surface is a window device context.
type Surface struct {
	w         *Window
	hdc       uintptr
	formatSet bool
}

func (s *Surface) SwapBuffers() error {
	if r, _, err := procSwapBuffers.Call(s.hdc); r == 0 {
		return fmt.Errorf("SwapBuffers: %w", err)
	}
	return nil
}

func (s *Surface) Release() error {
	if s.hdc == 0 {
		return nil
	}
	hdc := s.hdc
	s.hdc = 0
	if r, _, _ := procReleaseDC.Call(uintptr(s.w.hwnd), hdc); r == 0 {
		return errors.New("ReleaseDC failed")
	}
	return nil
}

// Context is a WGL rendering context.
type Context struct {
	hglrc uintptr
}

func (c *Context) MakeCurrent(s graphics.Surface) error {
	ws, ok := s.(*Surface)
	if !ok || ws == nil {
		return fmt.Errorf("wgl: foreign surface %T", s)
	}
	if r, _, err := procWglMakeCurrent.Call(ws.hdc, c.hglrc); r == 0 {
		return fmt.Errorf("wglMakeCurrent: %w", err)
	}
	return nil
}

func (c *Context) ReleaseCurrent() error {
	if r, _, err := procWglMakeCurrent.Call(0, 0); r == 0 {
		return fmt.Errorf("wglMakeCurrent: %w", err)
	}
	return nil
}

func (c *Context) Destroy() error {
	if c.hglrc == 0 {
		return nil
	}
	hglrc := c.hglrc
	c.hglrc = 0
	if r, _, err := procWglDeleteContext.Call(hglrc); r == 0 {
		return fmt.Errorf("wglDeleteContext: %w", err)
	}
	return nil
}
