package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestDecodeTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, path, 4, 2)

	img, err := DecodeTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.NRGBAAt(0, 0))
}

func TestDecodeTextureFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := DecodeTexture(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, core.ErrFileNotFound)

	garbage := writeFile(t, dir, "garbage.png", "not an image")
	_, err = DecodeTexture(garbage)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrFileNotFound)
}

func TestTextureLoaderResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	writePNG(t, path, 8, 8)

	tl := NewTextureLoader()
	tm := metadata.NewTextureMap("tex.png", path)

	img := tl.Resolve(tm)
	require.NotNil(t, img)
	assert.True(t, tm.Loaded())
	assert.Same(t, img, tm.Image())

	// A second map for the same file shares the cached decode.
	other := metadata.NewTextureMap("tex.png", path)
	assert.Same(t, img, tl.Resolve(other))

	tl.Forget(path)
	assert.NotSame(t, img, tl.Resolve(metadata.NewTextureMap("tex.png", path)))
}

func TestTextureLoaderResolveMissingFallsBack(t *testing.T) {
	tl := NewTextureLoader()
	tm := metadata.NewTextureMap("gone.png", filepath.Join(t.TempDir(), "gone.png"))

	assert.Nil(t, tl.Resolve(tm))
	assert.True(t, tm.Loaded())
	assert.ErrorIs(t, tm.Err(), core.ErrFileNotFound)

	tm.Release()
	assert.False(t, tm.Loaded())
	assert.Nil(t, tm.Err())
}

func TestTextureLoaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	writePNG(t, path, 2, 2)

	tl := NewTextureLoader()
	res, err := tl.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, metadata.ResourceTypeImage, res.Type)
	assert.EqualValues(t, 2*2*4, res.DataSize)
	require.NoError(t, tl.Unload(res))
	assert.Nil(t, res.Data)
}
