// Package options holds the command-line configuration.
package options

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/richinsley/glbootstrap/graphics"
)

// Options are flag-backed; every field is set by Register.
type Options struct {
	Backend   *string
	Scene     *string
	Width     *int
	Height    *int
	Title     *string
	GL        *string
	Debug     *bool
	Translate *bool
	Texture   *string
	Headless  *bool
	Help      *bool

	// Recording options
	Record     *bool
	OutputFile *string
	Frames     *int
	FPS        *int
	Codec      *string
	FFMPEGPath *string
	Screenshot *string
}

// Register defines the flags on fs. The defaults reproduce a plain
// 1024x720 "OpenGL" window with a 3.3 core context.
func Register(fs *flag.FlagSet) *Options {
	return &Options{
		Backend:   fs.String("backend", "", "Platform backend: wgl, egl or glfw (default: native for this OS)"),
		Scene:     fs.String("scene", "triangle", "Scene to draw: triangle, quad or vertexid"),
		Width:     fs.Int("width", 1024, "Client area width"),
		Height:    fs.Int("height", 720, "Client area height"),
		Title:     fs.String("title", "OpenGL", "Window title"),
		GL:        fs.String("gl", "3.3", "Core profile context version"),
		Debug:     fs.Bool("debug", false, "Request a debug context"),
		Translate: fs.Bool("translate", false, "Compile the GLSL ES shaders through the shader translator"),
		Texture:   fs.String("texture", "resources/container.jpg", "Image used by the quad scene"),
		Headless:  fs.Bool("headless", false, "Render without a visible window (EGL pbuffer)"),
		Help:      fs.Bool("help", false, "Show help message"),

		Record:     fs.Bool("record", false, "Pipe rendered frames to ffmpeg"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		Frames:     fs.Int("frames", 0, "Close the window after this many frames (0 runs until closed)"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		Codec:      fs.String("codec", "libx264", "ffmpeg video encoder for recording"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Screenshot: fs.String("screenshot", "", "Save the first frame as a PNG"),
	}
}

// ContextVersion parses the -gl flag ("3.3", "4.1", ...) into a core profile
// request.
func (o *Options) ContextVersion() (graphics.ContextVersion, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(*o.GL), ".")
	if !ok {
		return graphics.ContextVersion{}, fmt.Errorf("invalid GL version %q: want major.minor", *o.GL)
	}
	majorN, err := strconv.Atoi(major)
	if err != nil {
		return graphics.ContextVersion{}, fmt.Errorf("invalid GL version %q: %w", *o.GL, err)
	}
	minorN, err := strconv.Atoi(minor)
	if err != nil {
		return graphics.ContextVersion{}, fmt.Errorf("invalid GL version %q: %w", *o.GL, err)
	}
	v := graphics.ContextVersion{Major: majorN, Minor: minorN, Core: true, Debug: *o.Debug}
	if !v.AtLeast(3, 2) {
		return graphics.ContextVersion{}, fmt.Errorf("core profiles need OpenGL 3.2 or later, got %s", *o.GL)
	}
	return v, nil
}

// Validate checks values flag parsing cannot.
func (o *Options) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", *o.Width, *o.Height)
	}
	if *o.Frames < 0 {
		return fmt.Errorf("-frames must not be negative")
	}
	if *o.Headless && *o.Frames == 0 {
		return fmt.Errorf("-headless needs -frames; nothing can close the window")
	}
	if *o.Record && *o.FPS <= 0 {
		return fmt.Errorf("-fps must be positive")
	}
	if _, err := o.ContextVersion(); err != nil {
		return err
	}
	return nil
}
