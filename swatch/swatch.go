/*
Package swatch reads and writes standalone palette files.

Two formats are supported, the JASC-PAL text format used by Paint Shop Pro and
most pixel art editors, and a small YAML document holding an optional name and
a list of "#rrggbb" or "#rrggbbaa" colors. Colors keep their order in both.
*/
package swatch

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/emmabritton/ici-tools/ici"
)

// ErrUnsupportedFormat is returned for extensions that don't name a swatch
// format.
var ErrUnsupportedFormat = errors.New("swatch: unsupported format")

// A Swatch is an ordered list of colors with an optional name.
type Swatch struct {
	Name   string
	Colors ici.Palette
}

type format int

const (
	formatJASC format = iota
	formatYAML
)

func formatFromExt(ext string) (format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pal", "jasc":
		return formatJASC, nil
	case "yaml", "yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Supported reports whether ext names a swatch format.
func Supported(ext string) bool {
	_, err := formatFromExt(ext)
	return err == nil
}

// Read decodes a swatch from r using the format implied by the file
// extension ext.
func Read(r io.Reader, ext string) (*Swatch, error) {
	f, err := formatFromExt(ext)
	if err != nil {
		return nil, err
	}
	if f == formatYAML {
		return DecodeYAML(r)
	}
	p, err := DecodeJASC(r)
	if err != nil {
		return nil, err
	}
	return &Swatch{Colors: p}, nil
}

// Write encodes s to w using the format implied by the file extension ext.
func Write(w io.Writer, ext string, s *Swatch) error {
	f, err := formatFromExt(ext)
	if err != nil {
		return err
	}
	if f == formatYAML {
		return EncodeYAML(w, s)
	}
	return EncodeJASC(w, s.Colors)
}

// ParseHex parses "#rrggbb" or "#rrggbbaa", the leading '#' is optional.
func ParseHex(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("swatch: %q is not a hex color", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("swatch: %q is not a hex color", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when it isn't opaque.
func Hex(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
