package icitools

import (
	"errors"
	"fmt"

	"github.com/emmabritton/ici-tools/ici"
)

var (
	// ErrUnsupportedSourceFormat is returned when an input file extension
	// isn't a recognised image or palette format.
	ErrUnsupportedSourceFormat = errors.New("unsupported source format")
	// ErrUnsupportedOutputFormat is returned when an output file extension
	// isn't a format that can be written.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
	// ErrInvalidOutputPath is returned when an output path can't be derived
	// from the input path.
	ErrInvalidOutputPath = errors.New("couldn't create file name as input file is incomplete/invalid")
	// ErrMissingPalette is returned when an image doesn't store its colors
	// and no palette was supplied or could be found.
	ErrMissingPalette = errors.New("image has no palette data and no palette was provided")
	// ErrPaletteNotFound is returned by the palette database for unknown
	// IDs and names.
	ErrPaletteNotFound = errors.New("palette not found")
)

// ImageTooLargeError is returned when a source image is wider or taller
// than 255 pixels.
type ImageTooLargeError struct {
	Width, Height int
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("image is too big, max width and height are %d (was %d x %d)", ici.MaxSize, e.Width, e.Height)
}

// TooManyColorsError is returned when a source image has more than 255
// distinct colors.
type TooManyColorsError struct {
	Count int
}

func (e *TooManyColorsError) Error() string {
	return fmt.Sprintf("image has too many colours, max is %d (was %d)", ici.MaxColors, e.Count)
}

// UnsupportedPaletteKindError is returned when a file's colors were required
// but it only references a palette, or has none.
type UnsupportedPaletteKindError struct {
	Kind ici.PaletteKind
}

func (e *UnsupportedPaletteKindError) Error() string {
	return fmt.Sprintf("palette type %s is unsupported", e.Kind)
}

// PaletteSizeMismatchError is returned when a palette is applied to an image
// with a different number of colors.
type PaletteSizeMismatchError struct {
	Expected, Actual int
}

func (e *PaletteSizeMismatchError) Error() string {
	return fmt.Sprintf("palette wrong size, was %d must be %d", e.Actual, e.Expected)
}

// CodecError wraps failures from the image and palette codecs.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}
