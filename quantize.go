package icitools

import (
	"image"
	"image/color"

	"github.com/emmabritton/ici-tools/ici"
)

// Quantize builds a palette of the distinct colors in m, in the order they
// first appear scanning rows top to bottom, and maps every pixel to its
// palette index. Colors are never merged; an image with more colors than a
// palette can hold is rejected.
func Quantize(m image.Image) (ici.Palette, []uint8, error) {
	b := m.Bounds()
	if b.Dx() > ici.MaxSize || b.Dy() > ici.MaxSize {
		return nil, nil, &ImageTooLargeError{b.Dx(), b.Dy()}
	}

	var palette ici.Palette
	index := make(map[color.NRGBA]int)
	pix := make([]uint8, 0, b.Dx()*b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			i, ok := index[c]
			if !ok {
				i = len(index)
				index[c] = i
				if i < ici.MaxColors {
					palette = append(palette, c)
				}
			}
			if i < ici.MaxColors {
				pix = append(pix, uint8(i))
			}
		}
	}

	if len(index) > ici.MaxColors {
		return nil, nil, &TooManyColorsError{len(index)}
	}

	return palette, pix, nil
}

// NewImage quantizes m into an ICI image.
func NewImage(m image.Image) (*ici.Image, error) {
	p, pix, err := Quantize(m)
	if err != nil {
		return nil, err
	}
	return &ici.Image{
		Width:   m.Bounds().Dx(),
		Height:  m.Bounds().Dy(),
		Palette: p,
		Pix:     pix,
	}, nil
}
