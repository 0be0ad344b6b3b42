// Package bootstrap creates a versioned core-profile OpenGL context on a
// native window.
//
// Context creation entry points are themselves extensions, and extensions can
// only be resolved while some context is current. So a throwaway window with
// a legacy context is created first, the entry points are resolved through
// it, and it is torn down again before the real window exists. The throwaway
// window cannot be reused: a surface accepts a pixel format exactly once,
// and the legacy format is not the one we want.
package bootstrap

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/graphics"
)

// ErrNoExtensions is returned when the real context is requested without a
// loaded extension table.
var ErrNoExtensions = errors.New("extension table not loaded")

// Config controls both bootstrap phases.
type Config struct {
	Title  string
	Width  int
	Height int

	Class      string
	DummyClass string

	PixelAttribs graphics.AttribList
	Version      graphics.ContextVersion

	// Procs must all resolve during the dummy phase.
	Procs []string

	// Bind builds the GL function set once the real context is current.
	Bind func(*extensions.Table) (gles.API, error)
}

// DefaultConfig returns a 1024x720 window titled "OpenGL" asking for a
// 3.3 core profile context.
func DefaultConfig() Config {
	return Config{
		Title:        "OpenGL",
		Width:        1024,
		Height:       720,
		Class:        "WGL_glbootstrap",
		DummyClass:   "Dummy_WGL_glbootstrap",
		PixelAttribs: graphics.DefaultPixelAttribs(),
		Version:      graphics.ContextVersion{Major: 3, Minor: 3, Core: true},
		Procs:        gles.ProcNames,
	}
}

// release runs a teardown step and logs its failure. Teardown errors never
// replace the error that caused the teardown.
func release(what string, fn func() error) {
	if err := fn(); err != nil {
		log.Printf("bootstrap: failed to %s: %v", what, err)
	}
}

// Dummy creates the throwaway window and legacy context, resolves the
// extension table through it and tears everything down again, on success
// and on failure alike.
func Dummy(p graphics.Platform, cfg Config) (*extensions.Table, error) {
	win, err := p.CreateWindow(graphics.WindowConfig{
		Class:  cfg.DummyClass,
		Title:  "Dummy OpenGL Window",
		Width:  1,
		Height: 1,
		Hidden: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dummy OpenGL window: %w", err)
	}
	defer release("destroy dummy window", win.Destroy)

	surface, err := win.Surface()
	if err != nil {
		return nil, fmt.Errorf("failed to get dummy window surface: %w", err)
	}
	defer release("release dummy surface", surface.Release)

	if err := p.SetLegacyPixelFormat(surface); err != nil {
		return nil, fmt.Errorf("failed to find a suitable pixel format: %w", err)
	}

	ctx, err := p.CreateLegacyContext(surface)
	if err != nil {
		return nil, fmt.Errorf("failed to create a dummy OpenGL rendering context: %w", err)
	}
	defer release("delete dummy context", ctx.Destroy)

	if err := ctx.MakeCurrent(surface); err != nil {
		return nil, fmt.Errorf("failed to activate dummy OpenGL rendering context: %w", err)
	}
	defer release("release dummy context", ctx.ReleaseCurrent)

	table, err := p.LoadExtensions(cfg.Procs)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenGL extensions: %w", err)
	}
	log.Printf("%s: resolved %d entry points", p.Name(), table.Len())
	return table, nil
}

// Real creates the visible window and the versioned context through the
// extension entry points in table, and makes it current. Anything acquired
// before a failure is released before returning.
func Real(p graphics.Platform, cfg Config, table *extensions.Table) (t *Target, err error) {
	if table == nil {
		return nil, ErrNoExtensions
	}

	win, err := p.CreateWindow(graphics.WindowConfig{
		Class:  cfg.Class,
		Title:  cfg.Title,
		Width:  cfg.Width,
		Height: cfg.Height,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	defer func() {
		if err != nil {
			release("destroy window", win.Destroy)
		}
	}()

	surface, err := win.Surface()
	if err != nil {
		return nil, fmt.Errorf("failed to get window surface: %w", err)
	}
	defer func() {
		if err != nil {
			release("release surface", surface.Release)
		}
	}()

	if err := cfg.PixelAttribs.Validate(); err != nil {
		return nil, err
	}
	format, count, err := p.ChoosePixelFormat(surface, cfg.PixelAttribs, table)
	if err != nil {
		return nil, fmt.Errorf("failed to choose the OpenGL %d.%d pixel format: %w", cfg.Version.Major, cfg.Version.Minor, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("failed to choose the OpenGL %d.%d pixel format: %w", cfg.Version.Major, cfg.Version.Minor, graphics.ErrNoPixelFormat)
	}
	if err := p.SetPixelFormat(surface, format); err != nil {
		return nil, fmt.Errorf("failed to set the OpenGL %d.%d pixel format: %w", cfg.Version.Major, cfg.Version.Minor, err)
	}

	ctx, err := p.CreateContextAttribs(surface, cfg.Version.Attribs(), table)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL %s context: %w", cfg.Version, err)
	}
	defer func() {
		if err != nil {
			release("delete context", ctx.Destroy)
		}
	}()

	if err := ctx.MakeCurrent(surface); err != nil {
		return nil, fmt.Errorf("failed to activate OpenGL %s rendering context: %w", cfg.Version, err)
	}

	return &Target{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Window:     win,
		Surface:    surface,
		Context:    ctx,
		Extensions: table,
	}, nil
}

// Run performs both phases and binds the GL function set. Every error it
// returns is an initialization failure the caller is expected to treat as
// fatal.
func Run(p graphics.Platform, cfg Config) (*Target, error) {
	table, err := Dummy(p, cfg)
	if err != nil {
		return nil, err
	}
	t, err := Real(p, cfg, table)
	if err != nil {
		return nil, err
	}
	if cfg.Bind != nil {
		api, err := cfg.Bind(table)
		if err != nil {
			t.Shutdown()
			return nil, fmt.Errorf("failed to bind OpenGL functions: %w", err)
		}
		t.GL = api
		log.Printf("OpenGL %s, %s", api.GetString(gles.VERSION), api.GetString(gles.RENDERER))
	}
	return t, nil
}
