package swatch

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/emmabritton/ici-tools/ici"
)

const (
	jascHeader  = "JASC-PAL"
	jascVersion = "0100"
)

var (
	errJASCHeader  = errors.New("swatch: invalid JASC-PAL header")
	errJASCVersion = errors.New("swatch: unsupported JASC-PAL version")
	errJASCCount   = errors.New("swatch: invalid JASC-PAL color count")
	errNotEnough   = errors.New("swatch: not enough colors")
	errTooMuch     = errors.New("swatch: too many colors")
)

func parseChannel(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("swatch: %q is not a color channel", s)
	}
	return uint8(v), nil
}

func parseJASCColor(line string) (color.NRGBA, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 && len(fields) != 4 {
		return color.NRGBA{}, fmt.Errorf("swatch: %q is not a color", line)
	}
	c := [4]uint8{3: 0xff}
	for i, f := range fields {
		v, err := parseChannel(f)
		if err != nil {
			return color.NRGBA{}, err
		}
		c[i] = v
	}
	return color.NRGBA{c[0], c[1], c[2], c[3]}, nil
}

// DecodeJASC reads a JASC-PAL palette from r. Lines may end with CRLF or LF
// and an optional fourth value per color is read as alpha.
func DecodeJASC(r io.Reader) (ici.Palette, error) {
	s := bufio.NewScanner(r)

	var lines []string
	for s.Scan() {
		lines = append(lines, strings.TrimSpace(s.Text()))
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	// Ignore trailing blank lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	if len(lines) < 1 || lines[0] != jascHeader {
		return nil, errJASCHeader
	}
	if len(lines) < 2 || lines[1] != jascVersion {
		return nil, errJASCVersion
	}
	if len(lines) < 3 {
		return nil, errJASCCount
	}
	count, err := strconv.Atoi(lines[2])
	if err != nil || count < 0 {
		return nil, errJASCCount
	}

	lines = lines[3:]
	switch {
	case len(lines) < count:
		return nil, errNotEnough
	case len(lines) > count:
		return nil, errTooMuch
	}

	p := make(ici.Palette, count)
	for i, line := range lines {
		if p[i], err = parseJASCColor(line); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// EncodeJASC writes p to w as a JASC-PAL palette. Alpha is only written for
// colors that aren't opaque.
func EncodeJASC(w io.Writer, p ici.Palette) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\r\n%s\r\n%d\r\n", jascHeader, jascVersion, len(p))
	for _, c := range p {
		if c.A == 0xff {
			fmt.Fprintf(bw, "%d %d %d\r\n", c.R, c.G, c.B)
		} else {
			fmt.Fprintf(bw, "%d %d %d %d\r\n", c.R, c.G, c.B, c.A)
		}
	}
	return bw.Flush()
}
