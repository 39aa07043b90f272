package icitools

import (
	"bytes"
	"fmt"

	"github.com/emmabritton/ici-tools/ici"
)

// Kind identifies which shape of indexed image is held by an IndexedImage.
type Kind int

// Kinds of IndexedImage.
const (
	KindStatic Kind = iota
	KindAnimated
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindAnimated:
		return "animated"
	}
	return fmt.Sprintf("unknown (%d)", int(k))
}

// IndexedImage holds either a static ICI image or an animated ICA image,
// never both, along with the palette block it was read with.
type IndexedImage struct {
	kind      Kind
	static    *ici.Image
	animated  *ici.Animation
	embedding ici.FilePalette
}

// NewStatic wraps m. Its colors are considered stored in the file.
func NewStatic(m *ici.Image) *IndexedImage {
	return &IndexedImage{kind: KindStatic, static: m, embedding: ici.FilePalette{Kind: ici.Colors}}
}

// NewAnimated wraps a. Its colors are considered stored in the file.
func NewAnimated(a *ici.Animation) *IndexedImage {
	return &IndexedImage{kind: KindAnimated, animated: a, embedding: ici.FilePalette{Kind: ici.Colors}}
}

// Kind returns which of Static or Animated holds the image.
func (m *IndexedImage) Kind() Kind {
	return m.kind
}

// Static returns the static image, ok is false for animations.
func (m *IndexedImage) Static() (*ici.Image, bool) {
	return m.static, m.kind == KindStatic
}

// Animated returns the animation, ok is false for static images.
func (m *IndexedImage) Animated() (*ici.Animation, bool) {
	return m.animated, m.kind == KindAnimated
}

// Embedding returns the palette block the image was read with.
func (m *IndexedImage) Embedding() ici.FilePalette {
	return m.embedding
}

// Size returns the width and height of the image, or of every frame.
func (m *IndexedImage) Size() (int, int) {
	switch m.kind {
	case KindStatic:
		return m.static.Width, m.static.Height
	case KindAnimated:
		return m.animated.Width, m.animated.Height
	}
	panic("icitools: invalid kind " + m.kind.String())
}

// Palette returns the image palette. For images that don't store their
// colors this is a placeholder of the right length.
func (m *IndexedImage) Palette() ici.Palette {
	switch m.kind {
	case KindStatic:
		return m.static.Palette
	case KindAnimated:
		return m.animated.Palette
	}
	panic("icitools: invalid kind " + m.kind.String())
}

// SetPalette replaces the palette colors positionally, pixel data is left
// untouched. Afterwards the image is considered to store its colors.
func (m *IndexedImage) SetPalette(p ici.Palette) error {
	if n := len(m.Palette()); n != len(p) {
		return &PaletteSizeMismatchError{Expected: len(p), Actual: n}
	}

	var err error
	switch m.kind {
	case KindStatic:
		err = m.static.SetPalette(p)
	case KindAnimated:
		err = m.animated.SetPalette(p)
	}
	if err != nil {
		return err
	}

	m.embedding = ici.FilePalette{Kind: ici.Colors}
	return nil
}

// MarshalBinary encodes the image storing its colors in the file.
func (m *IndexedImage) MarshalBinary() ([]byte, error) {
	b := new(bytes.Buffer)
	fp := ici.FilePalette{Kind: ici.Colors}

	var err error
	switch m.kind {
	case KindStatic:
		err = ici.Encode(b, m.static, fp)
	case KindAnimated:
		err = ici.EncodeAnimation(b, m.animated, fp)
	default:
		err = fmt.Errorf("icitools: invalid kind %s", m.kind)
	}
	if err != nil {
		return nil, &CodecError{"encode", err}
	}
	return b.Bytes(), nil
}

type decodeFunc func([]byte) (*IndexedImage, error)

func decodeStatic(b []byte) (*IndexedImage, error) {
	m, fp, err := ici.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return &IndexedImage{kind: KindStatic, static: m, embedding: fp}, nil
}

func decodeAnimated(b []byte) (*IndexedImage, error) {
	a, fp, err := ici.DecodeAnimation(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return &IndexedImage{kind: KindAnimated, animated: a, embedding: fp}, nil
}

// Load decodes b as a static image, falling back to an animation. When both
// fail the static error is returned if the two errors read the same,
// otherwise the animation error is. With validate set the file must store
// its colors rather than reference a palette.
func Load(b []byte, validate bool) (*IndexedImage, error) {
	return load(b, validate, decodeStatic, decodeAnimated)
}

func load(b []byte, validate bool, static, animated decodeFunc) (*IndexedImage, error) {
	m, staticErr := static(b)
	if staticErr != nil {
		var animErr error
		if m, animErr = animated(b); animErr != nil {
			if staticErr.Error() == animErr.Error() {
				return nil, &CodecError{"decode", staticErr}
			}
			return nil, &CodecError{"decode", animErr}
		}
	}

	if validate {
		if err := checkPalette(m.embedding); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func checkPalette(fp ici.FilePalette) error {
	if fp.Kind != ici.Colors {
		return &UnsupportedPaletteKindError{fp.Kind}
	}
	return nil
}
