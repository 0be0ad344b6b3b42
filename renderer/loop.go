// Package renderer runs the message/draw loop and provides the scenes it
// draws.
package renderer

import (
	"log"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/graphics"
)

// State is the loop state. Stopped is terminal.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Loop drives one target. The zero value is Running.
type Loop struct {
	Target *bootstrap.Target
	State  State
	Frames int
}

// Step drains every pending message without blocking. A quit message stops
// the loop before anything is drawn; otherwise the frame is drawn and the
// buffers swapped.
func (l *Loop) Step() State {
	if l.State == Stopped {
		return Stopped
	}
	t := l.Target
	for {
		m, ok := t.Window.PeekMessage()
		if !ok {
			break
		}
		if m.Kind == graphics.MessageQuit {
			l.State = Stopped
			return Stopped
		}
		t.Window.DispatchMessage(m)
	}

	if t.Draw != nil {
		t.Draw(t)
	}
	if err := t.Surface.SwapBuffers(); err != nil {
		log.Printf("swap buffers: %v", err)
	}
	l.Frames++
	return Running
}

// Run steps until the window quits and returns the number of frames drawn.
func Run(t *bootstrap.Target) int {
	l := &Loop{Target: t}
	for l.Step() == Running {
	}
	return l.Frames
}

// CloseAfter wraps draw so the window is asked to close once n frames have
// been drawn. The loop then stops through the normal close path.
func CloseAfter(n int, draw bootstrap.DrawFunc) bootstrap.DrawFunc {
	frames := 0
	return func(t *bootstrap.Target) {
		if draw != nil {
			draw(t)
		}
		frames++
		if frames == n {
			t.Window.RequestClose()
		}
	}
}
