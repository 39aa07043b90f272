package icitools

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emmabritton/ici-tools/ici"
	"github.com/emmabritton/ici-tools/swatch"
)

// Extract returns a copy of the palette stored in the indexed image b, in
// stored order. The image must store its colors.
func Extract(b []byte) (ici.Palette, error) {
	m, err := Load(b, true)
	if err != nil {
		return nil, err
	}
	return m.Palette().Clone(), nil
}

// Transplant replaces the palette of the indexed image b with p and returns
// the re-encoded image. The image may reference its palette or have none but
// p must be the same length as the palette it declares. Pixel data is left
// as is so index i now refers to p[i].
func Transplant(b []byte, p ici.Palette) ([]byte, error) {
	m, err := Load(b, false)
	if err != nil {
		return nil, err
	}
	if err := m.SetPalette(p); err != nil {
		return nil, err
	}
	return m.MarshalBinary()
}

// Outcome is the result of applying a palette to one target file.
type Outcome struct {
	File string
	Err  error
}

// ReadPalette reads a palette from an ICI or ICA image that stores its
// colors, or from a swatch file.
func (t *Tool) ReadPalette(file string) (ici.Palette, error) {
	ext := extension(file)
	switch {
	case ext == "ici" || ext == "ica":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return Extract(b)
	case swatch.Supported(ext):
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		s, err := swatch.Read(bufio.NewReader(f), ext)
		if err != nil {
			return nil, &CodecError{"decode " + ext, err}
		}
		return s.Colors, nil
	case ext == "":
		return nil, fmt.Errorf("%w: can't find file extension", ErrUnsupportedSourceFormat)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSourceFormat, ext)
	}
}

// ExtractPalette writes the palette of the indexed image input to the swatch
// file output, or to a JASC palette next to input when output is empty, and
// returns the path written.
func (t *Tool) ExtractPalette(input, output string) (string, error) {
	file, err := OutputPath(input, output, "pal")
	if err != nil {
		return "", err
	}
	ext := extension(file)
	if !swatch.Supported(ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOutputFormat, ext)
	}

	b, err := os.ReadFile(input)
	if err != nil {
		return "", err
	}
	p, err := Extract(b)
	if err != nil {
		return "", err
	}

	base := filepath.Base(input)
	s := &swatch.Swatch{
		Name:   strings.TrimSuffix(base, filepath.Ext(base)),
		Colors: p,
	}

	buf := new(bytes.Buffer)
	if err := swatch.Write(buf, ext, s); err != nil {
		return "", &CodecError{"encode " + ext, err}
	}
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	t.logger.Printf("Wrote %d colors to \"%s\"\n", len(p), file)

	return file, nil
}

func (t *Tool) transplant(file string, p ici.Palette) error {
	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	if b, err = Transplant(b, p); err != nil {
		return err
	}
	return os.WriteFile(file, b, 0644)
}

// SetPalette applies the palette read from source to each target in turn.
// A target that fails is left as it was and the remaining targets are still
// processed. Failures are only reported through the returned outcomes. The
// error is only for failing to read source.
func (t *Tool) SetPalette(source string, targets []string) ([]Outcome, error) {
	p, err := t.ReadPalette(source)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(targets))
	for _, target := range targets {
		err := t.transplant(target, p)
		if err == nil {
			t.logger.Printf("Set palette of \"%s\"\n", target)
		}
		outcomes = append(outcomes, Outcome{target, err})
	}

	return outcomes, nil
}

// StorePalette adds the palette read from source to the palette database
// under name and returns its ID.
func (t *Tool) StorePalette(name, source string) (int64, error) {
	if t.db == nil {
		return 0, errNoDB
	}
	p, err := t.ReadPalette(source)
	if err != nil {
		return 0, err
	}
	return t.db.Add(name, p)
}

// Palettes lists the palette database.
func (t *Tool) Palettes() ([]StoredPalette, error) {
	if t.db == nil {
		return nil, errNoDB
	}
	return t.db.List()
}
