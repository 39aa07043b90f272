package ici

import (
	"encoding/binary"
	"errors"
	"image/color"
	"io"
	"time"
)

var (
	errHeader        = errors.New("ici: invalid header")
	errVersion       = errors.New("ici: unsupported version")
	errNotStatic     = errors.New("ici: not a static image")
	errNotAnimated   = errors.New("ici: not an animated image")
	errNotEnough     = errors.New("ici: not enough image data")
	errTooMuch       = errors.New("ici: too much image data")
	errPaletteKind   = errors.New("ici: invalid palette kind")
	errBadIndex      = errors.New("ici: invalid palette index")
	errBadSize       = errors.New("ici: invalid image size")
	errBadPixCount   = errors.New("ici: pixel count doesn't match image size")
	errTooManyColors = errors.New("ici: too many colors")
	errNoFrames      = errors.New("ici: animation has no frames")
	errTooManyFrames = errors.New("ici: too many frames")
	errBadPlayType   = errors.New("ici: invalid play type")
	errBadDuration   = errors.New("ici: invalid frame duration")
	errNameTooLong   = errors.New("ici: palette name too long")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	format  byte
	fp      FilePalette
	palette Palette

	width, height int

	tmp [4 * MaxColors]byte
}

func (d *decoder) readHeader(format byte) error {
	if err := readFull(d.r, d.tmp[:headerSize]); err != nil {
		return errHeader
	}
	if string(d.tmp[:len(magic)]) != magic {
		return errHeader
	}
	if d.tmp[len(magic)] != version {
		return errVersion
	}
	switch d.format = d.tmp[len(magic)+1]; d.format {
	case formatStatic, formatAnimated:
	default:
		return errHeader
	}
	if d.format != format {
		if format == formatStatic {
			return errNotStatic
		}
		return errNotAnimated
	}
	return nil
}

func (d *decoder) readPalette() error {
	if err := readFull(d.r, d.tmp[:2]); err != nil {
		return err
	}
	d.fp.Kind = PaletteKind(d.tmp[0])
	count := int(d.tmp[1])

	switch d.fp.Kind {
	case NoData:
	case ID:
		if err := readFull(d.r, d.tmp[:2]); err != nil {
			return err
		}
		d.fp.ID = binary.LittleEndian.Uint16(d.tmp[:2])
	case Name:
		if err := readFull(d.r, d.tmp[:1]); err != nil {
			return err
		}
		name := d.tmp[1 : 1+int(d.tmp[0])]
		if err := readFull(d.r, name); err != nil {
			return err
		}
		d.fp.Name = string(name)
	case Colors:
		b := d.tmp[:4*count]
		if err := readFull(d.r, b); err != nil {
			return err
		}
		d.palette = make(Palette, count)
		for i := range d.palette {
			d.palette[i] = color.NRGBA{b[4*i], b[4*i+1], b[4*i+2], b[4*i+3]}
		}
		return nil
	default:
		return errPaletteKind
	}

	d.palette = placeholder(count)
	return nil
}

func (d *decoder) readSize() error {
	if err := readFull(d.r, d.tmp[:2]); err != nil {
		return err
	}
	d.width, d.height = int(d.tmp[0]), int(d.tmp[1])
	return nil
}

func (d *decoder) readPix() ([]uint8, error) {
	pix := make([]uint8, d.width*d.height)
	if err := readFull(d.r, pix); err != nil {
		return nil, err
	}
	for _, i := range pix {
		if int(i) >= len(d.palette) {
			return nil, errBadIndex
		}
	}
	return pix, nil
}

func (d *decoder) readEOF() error {
	if n, err := d.r.Read(d.tmp[:1]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil && n == 0 {
			return err
		}
		return errTooMuch
	}
	return nil
}

func (d *decoder) decodeImage(r io.Reader) (*Image, error) {
	d.r = r

	if err := d.readHeader(formatStatic); err != nil {
		return nil, err
	}
	if err := d.readPalette(); err != nil {
		return nil, notEnough(err)
	}
	if err := d.readSize(); err != nil {
		return nil, notEnough(err)
	}
	pix, err := d.readPix()
	if err != nil {
		return nil, notEnough(err)
	}
	if err := d.readEOF(); err != nil {
		return nil, err
	}

	return &Image{
		Width:   d.width,
		Height:  d.height,
		Palette: d.palette,
		Pix:     pix,
	}, nil
}

func (d *decoder) decodeAnimation(r io.Reader) (*Animation, error) {
	d.r = r

	if err := d.readHeader(formatAnimated); err != nil {
		return nil, err
	}
	if err := d.readPalette(); err != nil {
		return nil, notEnough(err)
	}
	if err := d.readSize(); err != nil {
		return nil, notEnough(err)
	}
	if err := readFull(d.r, d.tmp[:2]); err != nil {
		return nil, notEnough(err)
	}
	frames, play := int(d.tmp[0]), PlayType(d.tmp[1])
	if frames == 0 {
		return nil, errNoFrames
	}
	if play > LoopsBoth {
		return nil, errBadPlayType
	}

	a := &Animation{
		Width:   d.width,
		Height:  d.height,
		Palette: d.palette,
		Play:    play,
		Frames:  make([]Frame, frames),
	}

	for i := range a.Frames {
		if err := readFull(d.r, d.tmp[:4]); err != nil {
			return nil, notEnough(err)
		}
		a.Frames[i].Duration = time.Duration(binary.LittleEndian.Uint32(d.tmp[:4])) * time.Millisecond
	}
	for i := range a.Frames {
		pix, err := d.readPix()
		if err != nil {
			return nil, notEnough(err)
		}
		a.Frames[i].Pix = pix
	}
	if err := d.readEOF(); err != nil {
		return nil, err
	}

	return a, nil
}

func notEnough(err error) error {
	if err == io.ErrUnexpectedEOF {
		return errNotEnough
	}
	return err
}

// Decode reads a static ICI image from r. It also returns the palette block
// so callers can tell whether the colors were stored in the file; when they
// weren't the returned palette is a gray ramp of the declared length.
func Decode(r io.Reader) (*Image, FilePalette, error) {
	var d decoder
	m, err := d.decodeImage(r)
	if err != nil {
		return nil, FilePalette{}, err
	}
	return m, d.fp, nil
}

// DecodeAnimation reads an animated ICA image from r, see Decode.
func DecodeAnimation(r io.Reader) (*Animation, FilePalette, error) {
	var d decoder
	a, err := d.decodeAnimation(r)
	if err != nil {
		return nil, FilePalette{}, err
	}
	return a, d.fp, nil
}
