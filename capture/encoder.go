// Package capture reads rendered frames back from the GPU and hands them to
// ffmpeg or to PNG files.
package capture

import (
	"fmt"
	"io"
	"log"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// EncoderConfig describes the video written by an Encoder.
type EncoderConfig struct {
	Output     string
	Width      int
	Height     int
	FPS        int
	Codec      string // ffmpeg encoder name, libx264 when empty
	FFMPEGPath string
}

// Encoder pipes raw RGBA frames into an ffmpeg process.
type Encoder struct {
	cfg    EncoderConfig
	pipe   *io.PipeWriter
	errc   chan error
	closed bool
}

func (cfg EncoderConfig) args() (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": fps,
	}

	codec := cfg.Codec
	if codec == "" {
		codec = "libx264"
	}
	outputArgs = ffmpeg.KwArgs{
		// glReadPixels rows run bottom to top.
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"c:v":     codec,
	}
	if strings.HasPrefix(codec, "hevc") || codec == "libx265" {
		if strings.HasSuffix(cfg.Output, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	}
	return
}

// StartEncoder launches ffmpeg and returns once it is consuming stdin.
func StartEncoder(cfg EncoderConfig) (*Encoder, error) {
	if cfg.Output == "" {
		return nil, fmt.Errorf("no output file")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := cfg.args()

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}

	e := &Encoder{cfg: cfg, pipe: pipeWriter, errc: make(chan error, 1)}
	go func() {
		err := ffmpegCmd.Run()
		// Unblock a writer still waiting on a dead ffmpeg.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		e.errc <- err
	}()
	log.Printf("Recording %dx%d to %s", cfg.Width, cfg.Height, cfg.Output)
	return e, nil
}

// Write sends one frame of Width*Height*4 bytes.
func (e *Encoder) Write(frame []byte) (int, error) {
	if want := e.cfg.Width * e.cfg.Height * 4; len(frame) != want {
		return 0, fmt.Errorf("frame is %d bytes, want %d", len(frame), want)
	}
	return e.pipe.Write(frame)
}

// Close ends the stream and waits for ffmpeg to exit.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.pipe.Close()
	if err := <-e.errc; err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
