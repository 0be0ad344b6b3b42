package main

import (
	"fmt"

	"github.com/richinsley/glbootstrap/egl"
	"github.com/richinsley/glbootstrap/glfwcontext"
	"github.com/richinsley/glbootstrap/graphics"
)

func newPlatform(backend string, headless bool) (graphics.Platform, error) {
	switch backend {
	case "", "egl":
		return egl.New(headless)
	case "glfw":
		if headless {
			return nil, fmt.Errorf("headless rendering needs the egl backend")
		}
		return glfwcontext.New()
	}
	return nil, fmt.Errorf("unknown backend %q", backend)
}
