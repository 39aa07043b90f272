/*
Package ici implements an ICI indexed image decoder and encoder, along with
the ICA animated variant.

Every file starts with a five byte header; the magic "ICI", a version byte and
a format byte that is 1 for a static image and 2 for an animation. The palette
block follows: a kind byte, a color count and a kind specific payload which is
either a little-endian 16-bit ID, a length prefixed name, count RGBA quads or
nothing at all.

A static image continues with its width and height as single bytes and one
palette index per pixel. An animation stores its width, height, frame count
and play type as single bytes, then a 32-bit millisecond duration for every
frame, then the pixel indices of each frame in turn.

Width and height are therefore limited to 255 pixels, the palette to 255
colors and an animation to 255 frames.
*/
package ici

import (
	"fmt"
	"image"
	"image/color"
	"time"
)

const (
	magic      = "ICI"
	version    = 1
	headerSize = len(magic) + 2

	formatStatic   = 1
	formatAnimated = 2

	// MaxColors is the largest number of colors a palette can hold
	MaxColors = 255
	// MaxSize is the largest width or height of an image
	MaxSize = 255
	// MaxFrames is the largest number of frames in an animation
	MaxFrames = 255
)

// PaletteKind describes how a file stores its palette.
type PaletteKind byte

// Palette kinds as stored in the file.
const (
	NoData PaletteKind = iota
	ID
	Name
	Colors
)

func (k PaletteKind) String() string {
	switch k {
	case NoData:
		return "no data"
	case ID:
		return "id"
	case Name:
		return "name"
	case Colors:
		return "colors"
	}
	return fmt.Sprintf("unknown (%d)", byte(k))
}

// FilePalette is the palette block of a file. ID is only meaningful for the
// ID kind and Name for the Name kind.
type FilePalette struct {
	Kind PaletteKind
	ID   uint16
	Name string
}

// Palette is an ordered list of colors, the position of a color is the index
// used by pixel data.
type Palette []color.NRGBA

// Clone returns a copy of p.
func (p Palette) Clone() Palette {
	if p == nil {
		return nil
	}
	dup := make(Palette, len(p))
	copy(dup, p)
	return dup
}

// ColorPalette converts p for use with the image packages.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c
	}
	return cp
}

// placeholder returns a gray ramp used in place of palettes that aren't
// stored in the file.
func placeholder(n int) Palette {
	p := make(Palette, n)
	for i := range p {
		var v uint8
		if n > 1 {
			v = uint8(i * 0xff / (n - 1))
		}
		p[i] = color.NRGBA{v, v, v, 0xff}
	}
	return p
}

// Image is a single frame indexed image.
type Image struct {
	Width   int
	Height  int
	Palette Palette
	Pix     []uint8
}

// Paletted returns the image as an *image.Paletted sharing the pixel data.
func (m *Image) Paletted() *image.Paletted {
	return paletted(m.Width, m.Height, m.Palette, m.Pix)
}

// SetPalette replaces the palette colors positionally, the new palette must
// be the same length as the existing one.
func (m *Image) SetPalette(p Palette) error {
	return setPalette(&m.Palette, p)
}

// Validate checks the image can be encoded.
func (m *Image) Validate() error {
	if err := validateSize(m.Width, m.Height, len(m.Palette)); err != nil {
		return err
	}
	return validatePix(m.Pix, m.Width*m.Height, len(m.Palette))
}

// PlayType controls how an animation advances through its frames.
type PlayType byte

// Play types as stored in the file.
const (
	Once PlayType = iota
	OnceReversed
	Loops
	LoopsReversed
	LoopsBoth
)

func (t PlayType) String() string {
	switch t {
	case Once:
		return "once"
	case OnceReversed:
		return "once reversed"
	case Loops:
		return "loops"
	case LoopsReversed:
		return "loops reversed"
	case LoopsBoth:
		return "loops both"
	}
	return fmt.Sprintf("unknown (%d)", byte(t))
}

// Frame is a single frame of an animation. Durations are stored with
// millisecond precision.
type Frame struct {
	Pix      []uint8
	Duration time.Duration
}

// Animation is a sequence of frames sharing one palette.
type Animation struct {
	Width   int
	Height  int
	Palette Palette
	Play    PlayType
	Frames  []Frame
}

// Frame returns frame i as an *image.Paletted sharing the pixel data.
func (a *Animation) Frame(i int) *image.Paletted {
	return paletted(a.Width, a.Height, a.Palette, a.Frames[i].Pix)
}

// SetPalette replaces the palette colors positionally, the new palette must
// be the same length as the existing one.
func (a *Animation) SetPalette(p Palette) error {
	return setPalette(&a.Palette, p)
}

// Validate checks the animation can be encoded.
func (a *Animation) Validate() error {
	if err := validateSize(a.Width, a.Height, len(a.Palette)); err != nil {
		return err
	}
	if len(a.Frames) == 0 {
		return errNoFrames
	}
	if len(a.Frames) > MaxFrames {
		return errTooManyFrames
	}
	if a.Play > LoopsBoth {
		return errBadPlayType
	}
	for _, f := range a.Frames {
		if f.Duration < 0 || f.Duration/time.Millisecond > 1<<32-1 {
			return errBadDuration
		}
		if err := validatePix(f.Pix, a.Width*a.Height, len(a.Palette)); err != nil {
			return err
		}
	}
	return nil
}

func paletted(w, h int, p Palette, pix []uint8) *image.Paletted {
	return &image.Paletted{
		Pix:     pix,
		Stride:  w,
		Rect:    image.Rect(0, 0, w, h),
		Palette: p.ColorPalette(),
	}
}

func setPalette(dst *Palette, p Palette) error {
	if len(*dst) != len(p) {
		return fmt.Errorf("ici: palette has %d colors, expected %d", len(p), len(*dst))
	}
	copy(*dst, p)
	return nil
}

func validateSize(w, h, colors int) error {
	if w < 0 || h < 0 || w > MaxSize || h > MaxSize {
		return errBadSize
	}
	if colors > MaxColors {
		return errTooManyColors
	}
	return nil
}

func validatePix(pix []uint8, n, colors int) error {
	if len(pix) != n {
		return errBadPixCount
	}
	for _, i := range pix {
		if int(i) >= colors {
			return errBadIndex
		}
	}
	return nil
}
