package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/richinsley/glbootstrap/bootstrap"
	"github.com/richinsley/glbootstrap/capture"
	"github.com/richinsley/glbootstrap/glimpl"
	"github.com/richinsley/glbootstrap/graphics"
	"github.com/richinsley/glbootstrap/inputs"
	"github.com/richinsley/glbootstrap/options"
	"github.com/richinsley/glbootstrap/renderer"
	"github.com/richinsley/glbootstrap/translator"
)

func init() {
	// Window messages and the GL context both belong to the main thread.
	runtime.LockOSThread()
}

// fatal shows msg through the platform when it can and exits.
func fatal(p graphics.Platform, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r, ok := p.(graphics.FatalReporter); ok {
		r.ReportFatal(msg)
	}
	log.Fatal(msg)
}

func run(opts *options.Options) {
	platform, err := newPlatform(*opts.Backend, *opts.Headless)
	if err != nil {
		log.Fatalf("Failed to initialize %q backend: %v", *opts.Backend, err)
	}
	defer platform.Terminate()

	version, err := opts.ContextVersion()
	if err != nil {
		fatal(platform, "%v", err)
	}
	cfg := bootstrap.DefaultConfig()
	cfg.Title = *opts.Title
	cfg.Width = *opts.Width
	cfg.Height = *opts.Height
	cfg.Version = version
	cfg.Bind = glimpl.New

	target, err := bootstrap.Run(platform, cfg)
	if err != nil {
		fatal(platform, "%v", err)
	}
	defer target.Shutdown()

	sceneOpts := renderer.SceneOptions{
		Texture: *opts.Texture,
		Sampler: inputs.DefaultSampler(),
	}
	if *opts.Translate {
		sceneOpts.Translator = translator.New(version)
	}
	scene, err := renderer.New(*opts.Scene, target.GL, sceneOpts)
	if err != nil {
		target.Shutdown()
		fatal(platform, "Failed to initialize scene: %v", err)
	}
	renderer.Attach(target, scene)

	if *opts.Screenshot != "" {
		target.Draw = capture.Screenshot(*opts.Screenshot, target.Draw)
	}

	var encoder *capture.Encoder
	var recorder *capture.Recorder
	switch {
	case *opts.Record:
		encoder, err = capture.StartEncoder(capture.EncoderConfig{
			Output:     *opts.OutputFile,
			Width:      target.Width,
			Height:     target.Height,
			FPS:        *opts.FPS,
			Codec:      *opts.Codec,
			FFMPEGPath: *opts.FFMPEGPath,
		})
		if err != nil {
			target.Shutdown()
			fatal(platform, "Failed to start encoder: %v", err)
		}
		recorder = capture.NewRecorder(encoder, *opts.Frames)
		target.Draw = recorder.Wrap(target.Draw)
	case *opts.Frames > 0:
		target.Draw = renderer.CloseAfter(*opts.Frames, target.Draw)
	}

	target.Window.Show()
	log.Printf("Starting %s render loop...", platform.Name())
	frames := renderer.Run(target)
	log.Printf("Render loop finished after %d frames", frames)

	if encoder != nil {
		if err := encoder.Close(); err != nil {
			log.Printf("Recording failed: %v", err)
		} else if recorder.Err() == nil {
			log.Printf("Successfully rendered %d frames to %s", recorder.Frames(), *opts.OutputFile)
		}
	}
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("OpenGL core profile bootstrap")
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	run(opts)
}
