package icitools

import (
	"testing"

	"github.com/emmabritton/ici-tools/ici"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()
	p, err := Extract(encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}))
	require.Nil(t, err)
	assert.Equal(t, ici.Palette{colorA, colorB, colorC}, p)

	p, err = Extract(encodeAnimation(t, testAnimation(), ici.FilePalette{Kind: ici.Colors}))
	require.Nil(t, err)
	assert.Equal(t, ici.Palette{colorA, colorB}, p)

	_, err = Extract(encodeImage(t, testImage(), ici.FilePalette{Kind: ici.ID, ID: 1}))
	var kindErr *UnsupportedPaletteKindError
	assert.ErrorAs(t, err, &kindErr)
}

func TestTransplantRoundTrip(t *testing.T) {
	t.Parallel()

	for _, b := range [][]byte{
		encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}),
		encodeAnimation(t, testAnimation(), ici.FilePalette{Kind: ici.Colors}),
	} {
		p, err := Extract(b)
		require.Nil(t, err)
		out, err := Transplant(b, p)
		require.Nil(t, err)
		assert.Equal(t, b, out)
	}
}

func TestTransplant(t *testing.T) {
	t.Parallel()
	p := ici.Palette{colorC, colorA, colorB}

	// Referenced palettes are replaced by the colors
	b, err := Transplant(encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Name, Name: "old"}), p)
	require.Nil(t, err)

	m, err := Load(b, true)
	require.Nil(t, err)
	assert.Equal(t, p, m.Palette())
	s, _ := m.Static()
	assert.Equal(t, testImage().Pix, s.Pix)
}

func TestTransplantSizeMismatch(t *testing.T) {
	t.Parallel()
	_, err := Transplant(encodeAnimation(t, testAnimation(), ici.FilePalette{Kind: ici.Colors}), ici.Palette{colorA, colorB, colorC})
	var mismatch *PaletteSizeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.Expected)
	assert.Equal(t, 2, mismatch.Actual)
}

func TestTransplantDuplicateColors(t *testing.T) {
	t.Parallel()
	p := ici.Palette{colorA, colorA, colorA}
	b, err := Transplant(encodeImage(t, testImage(), ici.FilePalette{Kind: ici.Colors}), p)
	require.Nil(t, err)

	m, err := Load(b, true)
	require.Nil(t, err)
	assert.Equal(t, p, m.Palette())
}
