package scene

import (
	"image"
	"image/draw"
)

// Texture holds CPU-side pixel data for a 2D texture.
// GLID is set by the OpenGL backend after upload; do not access directly.
type Texture struct {
	Name   string
	Width  int
	Height int
	// Pixels in non-premultiplied RGBA8 (row-major, top-to-bottom).
	Pixels []byte
	// Dirty asks the backend to re-upload Pixels before the next draw.
	Dirty bool
	GLID  uint32
}

// NewTextureFromImage copies img into a new texture.
func NewTextureFromImage(name string, img image.Image) *Texture {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*b.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	pix := make([]byte, len(nrgba.Pix))
	copy(pix, nrgba.Pix)
	return &Texture{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: pix,
		Dirty:  true,
	}
}

// Replace swaps in new pixels of the same size and marks the texture dirty.
func (t *Texture) Replace(img *image.NRGBA) {
	t.Pixels = append(t.Pixels[:0], img.Pix...)
	t.Width = img.Rect.Dx()
	t.Height = img.Rect.Dy()
	t.Dirty = true
}
