package capture

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/richinsley/glbootstrap/bootstrap"
)

// Image converts bottom-up RGBA rows into a top-down image.
func Image(width, height int, pixels []byte) (*image.RGBA, error) {
	if len(pixels) < width*height*4 {
		return nil, fmt.Errorf("have %d bytes for a %dx%d frame", len(pixels), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		copy(img.Pix[y*img.Stride:], pixels[(height-1-y)*row:(height-y)*row])
	}
	return img, nil
}

// WritePNG writes a bottom-up RGBA frame to path.
func WritePNG(path string, width, height int, pixels []byte) error {
	img, err := Image(width, height, pixels)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Screenshot returns a draw callback that saves the first frame drawn by
// draw to path.
func Screenshot(path string, draw bootstrap.DrawFunc) bootstrap.DrawFunc {
	done := false
	return func(t *bootstrap.Target) {
		if draw != nil {
			draw(t)
		}
		if done {
			return
		}
		done = true
		pixels := ReadFrame(t.GL, t.Width, t.Height, nil)
		if err := WritePNG(path, t.Width, t.Height, pixels); err != nil {
			log.Printf("Failed to save screenshot: %v", err)
			return
		}
		log.Printf("Saved screenshot to %s", path)
	}
}
