package loaders

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// TextureLoader decodes material textures on first use and caches them by path.
type TextureLoader struct {
	mu    sync.Mutex
	cache map[string]*textureEntry
}

type textureEntry struct {
	img *image.NRGBA
	err error
}

func NewTextureLoader() *TextureLoader {
	return &TextureLoader{
		cache: make(map[string]*textureEntry),
	}
}

func (tl *TextureLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	img, err := tl.decode(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeImage,
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(len(img.Pix)),
		Data:     img,
	}, nil
}

func (tl *TextureLoader) Unload(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	tl.Forget(res.FullPath)
	res.Data = nil
	return nil
}

// Resolve returns the decoded image of tm, decoding it on the first call.
// A failed decode is logged once and yields nil: the material renders untextured.
func (tl *TextureLoader) Resolve(tm *metadata.TextureMap) *image.NRGBA {
	if tm == nil {
		return nil
	}
	if tm.Loaded() {
		return tm.Image()
	}
	img, err := tl.decode(tm.Path)
	if err != nil {
		core.LogWarn("texture '%s' unavailable, rendering without it: %v", tm.Name, err)
	}
	tm.SetDecoded(img, err)
	return img
}

// Forget drops a cached decode, so the next Resolve reads the file again.
func (tl *TextureLoader) Forget(path string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	delete(tl.cache, path)
}

func (tl *TextureLoader) decode(path string) (*image.NRGBA, error) {
	tl.mu.Lock()
	if entry, ok := tl.cache[path]; ok {
		tl.mu.Unlock()
		return entry.img, entry.err
	}
	tl.mu.Unlock()

	img, err := DecodeTexture(path)

	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.cache[path] = &textureEntry{img: img, err: err}
	return img, err
}

// DecodeTexture reads a PNG, JPEG, GIF, TGA, BMP, TIFF or WebP file as NRGBA.
func DecodeTexture(path string) (*image.NRGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: texture %s: %v", core.ErrFileNotFound, path, err)
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	if n, ok := src.(*image.NRGBA); ok {
		return n, nil
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}
