package inputs

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/gles/glestest"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(y), G: uint8(x), B: 0, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestLoadTexture(t *testing.T) {
	rec := glestest.NewRecorder()
	path := writePNG(t, 4, 3)

	tex, err := LoadTexture(rec, path, DefaultSampler())
	require.NoError(t, err)
	assert.NotZero(t, tex.ID)
	assert.Equal(t, int32(4), tex.Width)
	assert.Equal(t, int32(3), tex.Height)

	up := rec.Find("TexImage2D")
	require.Len(t, up, 1)
	assert.Equal(t, []any{uint32(gles.TEXTURE_2D), int32(0), int32(gles.RGBA8), int32(4), int32(3),
		uint32(gles.RGBA), uint32(gles.UNSIGNED_BYTE), 4 * 3 * 4}, up[0].Args)
	assert.Equal(t, 1, rec.Count("GenerateMipmap"))

	params := map[any]any{}
	for _, c := range rec.Find("TexParameteri") {
		params[c.Args[1]] = c.Args[2]
	}
	assert.Equal(t, int32(gles.REPEAT), params[uint32(gles.TEXTURE_WRAP_S)])
	assert.Equal(t, int32(gles.LINEAR_MIPMAP_LINEAR), params[uint32(gles.TEXTURE_MIN_FILTER)])
	assert.Equal(t, int32(gles.LINEAR), params[uint32(gles.TEXTURE_MAG_FILTER)])

	tex.Destroy(rec)
	assert.Equal(t, 1, rec.Count("DeleteTexture"))
	tex.Destroy(rec)
	assert.Equal(t, 1, rec.Count("DeleteTexture"))
}

func TestLoadTextureMissingFile(t *testing.T) {
	rec := glestest.NewRecorder()
	_, err := LoadTexture(rec, filepath.Join(t.TempDir(), "container.jpg"), DefaultSampler())
	assert.True(t, os.IsNotExist(err), "got %v", err)
	assert.Zero(t, rec.Count("GenTexture"))
}

func TestLoadImageGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err := LoadImage(path)
	assert.Error(t, err)
}

func TestNewTextureRejectsEmpty(t *testing.T) {
	rec := glestest.NewRecorder()
	_, err := NewTexture(rec, nil, DefaultSampler())
	assert.Error(t, err)
	_, err = NewTexture(rec, image.NewRGBA(image.Rect(0, 0, 0, 0)), DefaultSampler())
	assert.Error(t, err)
	assert.Zero(t, rec.Count("GenTexture"))
}

func TestSamplerModes(t *testing.T) {
	rec := glestest.NewRecorder()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	_, err := NewTexture(rec, img, Sampler{Wrap: "clamp", Filter: "nearest", SRGB: true})
	require.NoError(t, err)

	params := map[any]any{}
	for _, c := range rec.Find("TexParameteri") {
		params[c.Args[1]] = c.Args[2]
	}
	assert.Equal(t, int32(gles.CLAMP_TO_EDGE), params[uint32(gles.TEXTURE_WRAP_T)])
	assert.Equal(t, int32(gles.NEAREST), params[uint32(gles.TEXTURE_MIN_FILTER)])
	assert.Zero(t, rec.Count("GenerateMipmap"))
	assert.Equal(t, int32(gles.SRGB8_ALPHA8), rec.Find("TexImage2D")[0].Args[2])
}

func TestVFlip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 3))
	for y := 0; y < 3; y++ {
		src.Set(0, y, color.RGBA{R: uint8(y), A: 255})
	}
	out := vflip(src)
	for y := 0; y < 3; y++ {
		assert.Equal(t, uint8(2-y), out.RGBAAt(0, y).R)
	}
}

func TestBind(t *testing.T) {
	rec := glestest.NewRecorder()
	tex := &Texture{ID: 9}
	tex.Bind(rec, 1)
	assert.Equal(t, []any{uint32(gles.TEXTURE0 + 1)}, rec.Find("ActiveTexture")[0].Args)
	assert.Equal(t, []any{uint32(gles.TEXTURE_2D), uint32(9)}, rec.Find("BindTexture")[0].Args)
}
