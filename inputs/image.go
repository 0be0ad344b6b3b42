// Package inputs turns image files into OpenGL textures.
package inputs

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"

	// Blank imports for image decoders so image.Decode can handle them.
	_ "image/jpeg"
	_ "image/png"

	"github.com/richinsley/glbootstrap/gles"
)

// Sampler describes how a texture is sampled.
type Sampler struct {
	Wrap   string // "repeat" or "clamp"
	Filter string // "mipmap", "linear" or "nearest"
	VFlip  bool
	SRGB   bool
}

// DefaultSampler repeats and uses trilinear filtering with mipmaps.
func DefaultSampler() Sampler {
	return Sampler{Wrap: "repeat", Filter: "mipmap"}
}

// Texture is a 2D texture object and its size.
type Texture struct {
	ID     uint32
	Width  int32
	Height int32
}

// LoadImage decodes a JPEG or PNG file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}

// vflip vertically flips the provided RGBA image.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// NewTexture uploads img as an RGBA texture on the current context.
func NewTexture(api gles.API, img image.Image, sampler Sampler) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("input image is empty")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	if sampler.VFlip {
		rgba = vflip(rgba)
	}

	width := int32(rgba.Rect.Size().X)
	height := int32(rgba.Rect.Size().Y)

	id := api.GenTexture()
	api.BindTexture(gles.TEXTURE_2D, id)

	var internalFormat int32 = gles.RGBA8
	if sampler.SRGB {
		internalFormat = gles.SRGB8_ALPHA8
		log.Printf("texture %d: using sRGB format", id)
	}

	api.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_WRAP_S, getWrapMode(sampler.Wrap))
	api.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_WRAP_T, getWrapMode(sampler.Wrap))

	minFilter, magFilter := getFilterMode(sampler.Filter)
	api.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MIN_FILTER, minFilter)
	api.TexParameteri(gles.TEXTURE_2D, gles.TEXTURE_MAG_FILTER, magFilter)

	api.TexImage2D(gles.TEXTURE_2D, 0, internalFormat, width, height, gles.RGBA, gles.UNSIGNED_BYTE, rgba.Pix)

	if sampler.Filter == "mipmap" {
		api.GenerateMipmap(gles.TEXTURE_2D)
	}

	api.BindTexture(gles.TEXTURE_2D, 0)

	return &Texture{ID: id, Width: width, Height: height}, nil
}

// LoadTexture reads path and uploads it.
func LoadTexture(api gles.API, path string, sampler Sampler) (*Texture, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return NewTexture(api, img, sampler)
}

// Bind makes the texture current on the given texture unit.
func (t *Texture) Bind(api gles.API, unit uint32) {
	api.ActiveTexture(gles.TEXTURE0 + unit)
	api.BindTexture(gles.TEXTURE_2D, t.ID)
}

func (t *Texture) Destroy(api gles.API) {
	if t == nil || t.ID == 0 {
		return
	}
	api.DeleteTexture(t.ID)
	t.ID = 0
}
