package icitools

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

type sourceDecoder func(io.Reader) (image.Image, error)

// JPEGs from cameras and phones are commonly stored sideways with an EXIF
// orientation tag
func decodeJPEG(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

var sourceDecoders = map[string]sourceDecoder{
	"png":  png.Decode,
	"bmp":  bmp.Decode,
	"tiff": tiff.Decode,
	"tif":  tiff.Decode,
	"tga":  tga.Decode,
	"jpeg": decodeJPEG,
	"jpg":  decodeJPEG,
	"webp": webp.Decode,
}

func extension(file string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
}

// DecodeSource decodes a truecolor image from r, ext is the file extension
// naming its format.
func DecodeSource(r io.Reader, ext string) (image.Image, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	decode, ok := sourceDecoders[ext]
	if !ok {
		if ext == "" {
			return nil, fmt.Errorf("%w: can't find file extension", ErrUnsupportedSourceFormat)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSourceFormat, ext)
	}

	m, err := decode(r)
	if err != nil {
		return nil, &CodecError{"decode " + ext, err}
	}
	return m, nil
}

// OpenSource decodes the truecolor image file, the format is chosen by the
// file extension.
func OpenSource(file string) (image.Image, error) {
	ext := extension(file)
	if _, ok := sourceDecoders[ext]; !ok {
		return DecodeSource(nil, ext)
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return DecodeSource(bufio.NewReader(f), ext)
}
