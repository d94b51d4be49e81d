package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 13}
	webpHeader = append([]byte("RIFF\x24\x00\x00\x00WEBP"), []byte("VP8 ")...)
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
)

func TestImageIntake_Validate(t *testing.T) {
	intake := NewImageIntake(10 << 20)

	t.Run("accepts JPEG", func(t *testing.T) {
		img, err := intake.Validate(jpegHeader, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", img.MIME)
		assert.Equal(t, "jpg", img.Ext)
		assert.Equal(t, jpegHeader, img.Data)
		assert.NotEmpty(t, img.ID)
	})

	t.Run("accepts PNG", func(t *testing.T) {
		img, err := intake.Validate(pngHeader, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.MIME)
	})

	t.Run("accepts WebP", func(t *testing.T) {
		img, err := intake.Validate(webpHeader, "image/webp")
		require.NoError(t, err)
		assert.Equal(t, "image/webp", img.MIME)
	})

	t.Run("sniffs real bytes over declared type", func(t *testing.T) {
		// GIF bytes declared as JPEG must still be rejected.
		_, err := intake.Validate(gifHeader, "image/jpeg")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("rejects text payload", func(t *testing.T) {
		_, err := intake.Validate([]byte("definitely not an image"), "image/jpeg")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		_, err := intake.Validate(nil, "image/jpeg")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("rejects oversized payload before sniffing", func(t *testing.T) {
		big := make([]byte, 12<<20)
		copy(big, jpegHeader)
		_, err := intake.Validate(big, "image/jpeg")
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("ceiling is configurable", func(t *testing.T) {
		small := NewImageIntake(4)
		_, err := small.Validate(jpegHeader, "image/jpeg")
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})
}
