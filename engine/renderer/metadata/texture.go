package metadata

import "image"

/**
 * @brief A texture referenced by a material. The image is decoded on first
 * use; a decode failure leaves the map without an image.
 */
type TextureMap struct {
	/** @brief The file name as written in the material library. */
	Name string
	/** @brief The resolved path of the image file. */
	Path string

	loaded bool
	image  *image.NRGBA
	err    error
}

func NewTextureMap(name, path string) *TextureMap {
	return &TextureMap{Name: name, Path: path}
}

// Loaded reports whether a decode was attempted.
func (tm *TextureMap) Loaded() bool {
	return tm.loaded
}

// Image returns the decoded image, or nil if not decoded or the decode failed.
func (tm *TextureMap) Image() *image.NRGBA {
	return tm.image
}

// Err returns the decode failure, if any.
func (tm *TextureMap) Err() error {
	return tm.err
}

// SetDecoded records the result of a decode attempt.
func (tm *TextureMap) SetDecoded(img *image.NRGBA, err error) {
	tm.loaded = true
	tm.image = img
	tm.err = err
}

// Release drops the decoded image so it can be decoded again later.
func (tm *TextureMap) Release() {
	tm.loaded = false
	tm.image = nil
	tm.err = nil
}
