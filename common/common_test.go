package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
	assert.Equal(t, "a", Coalesce("a", "b"))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, Color{1, 0, 0, 1}, c)

	c, err = ParseHexColor("0f08")
	require.Error(t, err)

	c, err = ParseHexColor("#fff")
	require.NoError(t, err)
	assert.Equal(t, White, c)

	c, err = ParseHexColor("00000000")
	require.NoError(t, err)
	assert.Equal(t, Transparent, c)

	_, err = ParseHexColor("#zzzzzz")
	assert.Error(t, err)
}

func TestSolidTexture(t *testing.T) {
	tex := SolidTexture(Color{1, 0.5, 0, 1})
	assert.True(t, tex.Valid())
	assert.Equal(t, []byte{255, 128, 0, 255}, tex.Pixels)
}

func TestTextureSourceDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex, err := TextureSource{Data: buf.Bytes()}.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, tex.Pixels)

	_, err = TextureSource{}.Decode()
	assert.ErrorIs(t, err, ErrNoTextureSource)
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), AlignUp(0, 4))
	assert.Equal(t, uint64(256), AlignUp(17, 256))
	assert.Equal(t, uint64(16), AlignUp(16, 16))
}
