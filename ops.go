package icitools

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/emmabritton/ici-tools/ici"
)

func (t *Tool) readIndexed(file string, validate bool) (*IndexedImage, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Load(b, validate)
}

// Convert converts the truecolor image input to an ICI image written to
// output, or next to input when output is empty, and returns the path
// written. When paletteName is set the palette is stored in the palette
// database under that name and the file references it instead of storing
// the colors.
func (t *Tool) Convert(input, output, paletteName string) (string, error) {
	file, err := OutputPath(input, output, "ici")
	if err != nil {
		return "", err
	}

	src, err := OpenSource(input)
	if err != nil {
		return "", err
	}

	m, err := NewImage(src)
	if err != nil {
		return "", err
	}

	fp := ici.FilePalette{Kind: ici.Colors}
	if paletteName != "" {
		if t.db == nil {
			return "", errNoDB
		}
		fp = ici.FilePalette{Kind: ici.Name, Name: paletteName}
	}

	// Only store the palette once the image has encoded
	b := new(bytes.Buffer)
	if err := ici.Encode(b, m, fp); err != nil {
		return "", &CodecError{"encode", err}
	}

	if paletteName != "" {
		id, err := t.db.Add(paletteName, m.Palette)
		if err != nil {
			return "", err
		}
		t.logger.Printf("Stored palette %q with ID %d\n", paletteName, id)
	}

	if err := os.WriteFile(file, b.Bytes(), 0644); err != nil {
		return "", err
	}

	t.logger.Printf("Converted \"%s\" to \"%s\", %d x %d with %d colors\n", input, file, m.Width, m.Height, len(m.Palette))

	return file, nil
}

// Open reads an indexed image for display. If palette is set the colors are
// replaced with those read from it, otherwise a referenced palette is looked
// up in the palette database. ErrMissingPalette is returned when there are
// no colors to show.
func (t *Tool) Open(input, palette string) (*IndexedImage, error) {
	m, err := t.readIndexed(input, false)
	if err != nil {
		return nil, err
	}

	var p ici.Palette
	switch fp := m.Embedding(); {
	case palette != "":
		if p, err = t.ReadPalette(palette); err != nil {
			return nil, err
		}
	case fp.Kind == ici.Colors:
		return m, nil
	case fp.Kind == ici.ID || fp.Kind == ici.Name:
		if t.db == nil {
			return nil, fmt.Errorf("%w: palette type %s", ErrMissingPalette, fp.Kind)
		}
		if p, err = t.db.Resolve(fp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingPalette, err)
		}
		t.logger.Printf("Resolved palette %s %d %q\n", fp.Kind, fp.ID, fp.Name)
	default:
		return nil, fmt.Errorf("%w: palette type %s", ErrMissingPalette, fp.Kind)
	}

	if err := m.SetPalette(p); err != nil {
		return nil, err
	}
	return m, nil
}

// ToPNG writes the indexed image input as a PNG to output, or next to input
// when output is empty, and returns the path written. For animations frame
// selects which frame is written. See Open for how palette is used.
func (t *Tool) ToPNG(input, palette, output string, frame int) (string, error) {
	file, err := OutputPath(input, output, "png")
	if err != nil {
		return "", err
	}

	m, err := t.Open(input, palette)
	if err != nil {
		return "", err
	}

	var pm *image.Paletted
	switch m.Kind() {
	case KindStatic:
		if frame != 0 {
			return "", fmt.Errorf("frame %d out of range, image is static", frame)
		}
		s, _ := m.Static()
		pm = s.Paletted()
	case KindAnimated:
		a, _ := m.Animated()
		if frame < 0 || frame >= len(a.Frames) {
			return "", fmt.Errorf("frame %d out of range, animation has %d frames", frame, len(a.Frames))
		}
		pm = a.Frame(frame)
	}

	b := new(bytes.Buffer)
	if err := (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(b, pm); err != nil {
		return "", &CodecError{"encode png", err}
	}
	if err := os.WriteFile(file, b.Bytes(), 0644); err != nil {
		return "", err
	}

	t.logger.Printf("Wrote \"%s\"\n", file)

	return file, nil
}
