package icitools

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emmabritton/ici-tools/ici"
	"github.com/emmabritton/ici-tools/swatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTool(t *testing.T, withDB bool) *Tool {
	logger := log.New(io.Discard, "", 0)
	if !withDB {
		return New(nil, logger)
	}
	db, err := NewPaletteDB(filepath.Join(t.TempDir(), "palettes.db"))
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, logger)
}

func writeFile(t *testing.T, file string, b []byte) string {
	require.Nil(t, os.WriteFile(file, b, 0644))
	return file
}

func writePNG(t *testing.T, file string, m image.Image) string {
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, png.Encode(f, m))
	return file
}

func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func TestConvert(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, false)
	input := writePNG(t, filepath.Join(dir, "sprite.png"), newNRGBA(3, 2, colorA, colorB, colorA, colorC, colorB, colorA))

	file, err := tool.Convert(input, "", "")
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "sprite.ici"), file)

	b, err := os.ReadFile(file)
	require.Nil(t, err)
	assert.Equal(t, encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}), b)

	_, err = tool.Convert(input, "", "gb")
	assert.ErrorIs(t, err, errNoDB)
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, false)

	_, err := tool.Convert(writeFile(t, filepath.Join(dir, "image.gif"), []byte("GIF89a")), "", "")
	assert.ErrorIs(t, err, ErrUnsupportedSourceFormat)

	input := writePNG(t, filepath.Join(dir, "wide.png"), image.NewNRGBA(image.Rect(0, 0, 256, 1)))
	_, err = tool.Convert(input, "", "")
	var tooLarge *ImageTooLargeError
	assert.ErrorAs(t, err, &tooLarge)
	assert.NoFileExists(t, filepath.Join(dir, "wide.ici"))
}

func TestConvertPaletteName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, true)
	input := writePNG(t, filepath.Join(dir, "sprite.png"), newNRGBA(3, 2, colorA, colorB, colorA, colorC, colorB, colorA))

	file, err := tool.Convert(input, filepath.Join(dir, "out.ici"), "sprites")
	require.Nil(t, err)

	b, err := os.ReadFile(file)
	require.Nil(t, err)
	m, err := Load(b, false)
	require.Nil(t, err)
	assert.Equal(t, ici.FilePalette{Kind: ici.Name, Name: "sprites"}, m.Embedding())

	// The palette is resolved from the database
	m, err = tool.Open(file, "")
	require.Nil(t, err)
	assert.Equal(t, ici.Palette{colorA, colorB, colorC}, m.Palette())
}

func TestConvertLongPaletteName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, true)
	input := writePNG(t, filepath.Join(dir, "sprite.png"), newNRGBA(1, 1, colorA))

	_, err := tool.Convert(input, "", strings.Repeat("x", 256))
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.NoFileExists(t, filepath.Join(dir, "sprite.ici"))

	palettes, err := tool.Palettes()
	require.Nil(t, err)
	assert.Empty(t, palettes)
}

func TestOpenMissingPalette(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := writeFile(t, filepath.Join(dir, "ref.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.ID, ID: 3}))

	_, err := newTestTool(t, false).Open(file, "")
	assert.ErrorIs(t, err, ErrMissingPalette)

	_, err = newTestTool(t, true).Open(file, "")
	assert.ErrorIs(t, err, ErrMissingPalette)
	assert.ErrorIs(t, err, ErrPaletteNotFound)

	file = writeFile(t, filepath.Join(dir, "none.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.NoData}))
	_, err = newTestTool(t, true).Open(file, "")
	assert.ErrorIs(t, err, ErrMissingPalette)
}

func TestToPNG(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, false)
	writeFile(t, filepath.Join(dir, "colors.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}))
	source := writeFile(t, filepath.Join(dir, "swap.ici"), encodeImage(t, &ici.Image{
		Width:   1,
		Height:  1,
		Palette: ici.Palette{colorC, colorC, colorB},
		Pix:     []uint8{0},
	}, ici.FilePalette{Kind: ici.Colors}))
	input := writeFile(t, filepath.Join(dir, "none.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.NoData}))

	_, err := tool.ToPNG(input, "", "", 0)
	assert.ErrorIs(t, err, ErrMissingPalette)

	file, err := tool.ToPNG(input, source, "", 0)
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(dir, "none.png"), file)

	f, err := os.Open(file)
	require.Nil(t, err)
	defer f.Close()
	m, err := png.Decode(f)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), m.Bounds())
	assert.Equal(t, colorB, toNRGBA(m.At(0, 1)))
	assert.Equal(t, colorC, toNRGBA(m.At(0, 0)))

	_, err = tool.ToPNG(input, source, "", 1)
	assert.Error(t, err)
}

func TestToPNGFrame(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, false)
	input := writeFile(t, filepath.Join(dir, "anim.ica"), encodeAnimation(t, testAnimation(), ici.FilePalette{Kind: ici.Colors}))

	file, err := tool.ToPNG(input, "", filepath.Join(dir, "frame.png"), 2)
	require.Nil(t, err)

	f, err := os.Open(file)
	require.Nil(t, err)
	defer f.Close()
	m, err := png.Decode(f)
	require.Nil(t, err)
	assert.Equal(t, colorB, toNRGBA(m.At(1, 1)))

	_, err = tool.ToPNG(input, "", "", 3)
	assert.Error(t, err)
}

func TestExtractPalette(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, false)
	input := writeFile(t, filepath.Join(dir, "sprite.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}))

	for _, output := range []string{"", filepath.Join(dir, "sprite.yaml")} {
		file, err := tool.ExtractPalette(input, output)
		require.Nil(t, err)

		p, err := tool.ReadPalette(file)
		require.Nil(t, err)
		assert.Equal(t, ici.Palette{colorA, colorB, colorC}, p)
	}
	assert.FileExists(t, filepath.Join(dir, "sprite.pal"))

	f, err := os.Open(filepath.Join(dir, "sprite.yaml"))
	require.Nil(t, err)
	defer f.Close()
	s, err := swatch.Read(f, "yaml")
	require.Nil(t, err)
	assert.Equal(t, "sprite", s.Name)

	_, err = tool.ExtractPalette(input, filepath.Join(dir, "sprite.png"))
	assert.ErrorIs(t, err, ErrUnsupportedOutputFormat)
}

func TestReadPaletteUnsupported(t *testing.T) {
	t.Parallel()
	tool := newTestTool(t, false)

	_, err := tool.ReadPalette("palette.gpl")
	assert.ErrorIs(t, err, ErrUnsupportedSourceFormat)
	_, err = tool.ReadPalette("palette")
	assert.ErrorIs(t, err, ErrUnsupportedSourceFormat)
}

func TestSetPalette(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tool := newTestTool(t, false)

	source := filepath.Join(dir, "source.pal")
	f, err := os.Create(source)
	require.Nil(t, err)
	require.Nil(t, swatch.EncodeJASC(f, ici.Palette{colorC, colorB, colorA}))
	require.Nil(t, f.Close())

	good := writeFile(t, filepath.Join(dir, "good.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.ID, ID: 9}))
	animation := encodeAnimation(t, testAnimation(), ici.FilePalette{Kind: ici.Colors})
	bad := writeFile(t, filepath.Join(dir, "bad.ica"), animation)
	missing := filepath.Join(dir, "missing.ici")

	outcomes, err := tool.SetPalette(source, []string{bad, good, missing})
	require.Nil(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, bad, outcomes[0].File)
	var mismatch *PaletteSizeMismatchError
	assert.ErrorAs(t, outcomes[0].Err, &mismatch)
	assert.Equal(t, good, outcomes[1].File)
	assert.Nil(t, outcomes[1].Err)
	assert.Equal(t, missing, outcomes[2].File)
	assert.ErrorIs(t, outcomes[2].Err, os.ErrNotExist)

	// Failed targets are untouched
	b, err := os.ReadFile(bad)
	require.Nil(t, err)
	assert.Equal(t, animation, b)
	assert.NoFileExists(t, missing)

	p, err := tool.ReadPalette(good)
	require.Nil(t, err)
	assert.Equal(t, ici.Palette{colorC, colorB, colorA}, p)

	_, err = tool.SetPalette(filepath.Join(dir, "nothing.pal"), []string{good})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetPaletteLogsSuccesses(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	buf := new(bytes.Buffer)
	tool := New(nil, log.New(buf, "", 0))

	source := writeFile(t, filepath.Join(dir, "source.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}))
	good := writeFile(t, filepath.Join(dir, "good.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.NoData}))
	bad := writeFile(t, filepath.Join(dir, "bad.ica"), encodeAnimation(t, testAnimation(), ici.FilePalette{Kind: ici.Colors}))

	outcomes, err := tool.SetPalette(source, []string{good, bad})
	require.Nil(t, err)
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[1].Err)

	assert.Contains(t, buf.String(), good)
	assert.NotContains(t, buf.String(), bad)
}

func TestStorePalette(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	source := writeFile(t, filepath.Join(dir, "sprite.ici"), encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}))

	_, err := newTestTool(t, false).StorePalette("sprite", source)
	assert.ErrorIs(t, err, errNoDB)

	tool := newTestTool(t, true)
	id, err := tool.StorePalette("sprite", source)
	require.Nil(t, err)

	palettes, err := tool.Palettes()
	require.Nil(t, err)
	require.Len(t, palettes, 1)
	assert.Equal(t, id, palettes[0].ID)
	assert.Equal(t, "sprite", palettes[0].Name)
	assert.Equal(t, ici.Palette{colorA, colorB, colorC}, palettes[0].Palette)
}
