package main

import (
	"fmt"

	"github.com/richinsley/glbootstrap/glfwcontext"
	"github.com/richinsley/glbootstrap/graphics"
	"github.com/richinsley/glbootstrap/wgl"
)

func newPlatform(backend string, headless bool) (graphics.Platform, error) {
	if headless {
		return nil, fmt.Errorf("headless rendering needs the egl backend")
	}
	switch backend {
	case "", "wgl":
		return wgl.New()
	case "glfw":
		return glfwcontext.New()
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}
