package ici

import (
	"encoding/binary"
	"io"
	"time"
)

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) write(b ...byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) writeHeader(format byte) {
	e.write(append([]byte(magic), version, format)...)
}

func (e *encoder) writePalette(p Palette, fp FilePalette) {
	e.write(byte(fp.Kind), byte(len(p)))

	switch fp.Kind {
	case NoData:
	case ID:
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], fp.ID)
		e.write(tmp[:]...)
	case Name:
		e.write(byte(len(fp.Name)))
		e.write([]byte(fp.Name)...)
	case Colors:
		b := make([]byte, 0, 4*len(p))
		for _, c := range p {
			b = append(b, c.R, c.G, c.B, c.A)
		}
		e.write(b...)
	}
}

func validateFilePalette(fp FilePalette) error {
	if fp.Kind > Colors {
		return errPaletteKind
	}
	if fp.Kind == Name && len(fp.Name) > 0xff {
		return errNameTooLong
	}
	return nil
}

// Encode writes the Image m to w in ICI format, storing the palette as
// described by fp.
func Encode(w io.Writer, m *Image, fp FilePalette) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := validateFilePalette(fp); err != nil {
		return err
	}

	e := encoder{w: w}
	e.writeHeader(formatStatic)
	e.writePalette(m.Palette, fp)
	e.write(byte(m.Width), byte(m.Height))
	e.write(m.Pix...)

	return e.err
}

// EncodeAnimation writes the Animation a to w in ICA format, storing the
// palette as described by fp.
func EncodeAnimation(w io.Writer, a *Animation, fp FilePalette) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := validateFilePalette(fp); err != nil {
		return err
	}

	e := encoder{w: w}
	e.writeHeader(formatAnimated)
	e.writePalette(a.Palette, fp)
	e.write(byte(a.Width), byte(a.Height), byte(len(a.Frames)), byte(a.Play))

	var tmp [4]byte
	for _, f := range a.Frames {
		binary.LittleEndian.PutUint32(tmp[:], uint32(f.Duration/time.Millisecond))
		e.write(tmp[:]...)
	}
	for _, f := range a.Frames {
		e.write(f.Pix...)
	}

	return e.err
}
