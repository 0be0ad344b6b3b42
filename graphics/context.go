package graphics

import (
	"errors"

	"github.com/richinsley/glbootstrap/extensions"
)

var (
	// ErrNoPixelFormat is returned when the extension-based chooser reports
	// zero matching formats. No lesser format is tried.
	ErrNoPixelFormat = errors.New("no pixel format matches the requested attributes")

	// ErrPixelFormatSet is returned when a second pixel format is applied to
	// a surface. A native surface takes a pixel format exactly once.
	ErrPixelFormatSet = errors.New("pixel format already set on surface")

	// ErrBadAttribList is returned for attribute lists that are not zero
	// terminated or do not consist of key/value pairs.
	ErrBadAttribList = errors.New("malformed attribute list")
)

// WindowConfig describes a native window and the window class it is
// registered under.
type WindowConfig struct {
	Class  string
	Title  string
	Width  int
	Height int
	Hidden bool
}

// Window is a native window together with its class registration.
type Window interface {
	// Surface returns the window's drawing surface (the device context on
	// Windows, the EGL/GLFW surface elsewhere).
	Surface() (Surface, error)
	Show()
	// Size returns the client area size.
	Size() (int, int)
	// PeekMessage removes and returns the next pending message without
	// waiting. ok is false when the queue is empty.
	PeekMessage() (msg Message, ok bool)
	// DispatchMessage hands msg to the window procedure.
	DispatchMessage(msg Message)
	// RequestClose posts a close message to the window.
	RequestClose()
	// Destroy destroys the window and unregisters its class.
	Destroy() error
}

// Surface is the drawing surface of a window.
type Surface interface {
	SwapBuffers() error
	Release() error
}

// Context is a rendering context.
type Context interface {
	MakeCurrent(s Surface) error
	ReleaseCurrent() error
	Destroy() error
}

// PixelFormat is a platform pixel format index.
type PixelFormat int

// Platform is the per-OS capability set driven by the bootstrap. The order
// in which these are called is owned by the bootstrap package, not by the
// implementations.
type Platform interface {
	Name() string
	CreateWindow(cfg WindowConfig) (Window, error)

	// SetLegacyPixelFormat picks any baseline format (double-buffered RGBA
	// with depth and stencil) through the static, non-extension call and
	// applies it to s.
	SetLegacyPixelFormat(s Surface) error
	// CreateLegacyContext creates a baseline context on s. It is not made
	// current.
	CreateLegacyContext(s Surface) (Context, error)
	// LoadExtensions resolves the platform's context creation entry points
	// plus names. A context must be current.
	LoadExtensions(names []string) (*extensions.Table, error)

	// ChoosePixelFormat asks the extension-based chooser for the first
	// format matching attribs and reports how many formats matched.
	ChoosePixelFormat(s Surface, attribs AttribList, ext *extensions.Table) (PixelFormat, int, error)
	// SetPixelFormat describes f and applies it to s.
	SetPixelFormat(s Surface, f PixelFormat) error
	// CreateContextAttribs creates a versioned context through the
	// extension-based creation call. It is not made current.
	CreateContextAttribs(s Surface, attribs AttribList, ext *extensions.Table) (Context, error)

	Terminate()
}

// FatalReporter is implemented by platforms that can show a blocking
// diagnostic (a message box) before the process exits.
type FatalReporter interface {
	ReportFatal(msg string)
}
