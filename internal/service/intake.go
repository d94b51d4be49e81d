package service

import (
	"net/http"

	"github.com/google/uuid"
)

// ValidatedImage is an opaque handle to upload bytes that passed local
// validation. The bytes are never modified.
type ValidatedImage struct {
	ID   uuid.UUID
	Data []byte
	MIME string
	Ext  string
}

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageIntake performs all local validation of an uploaded photo. It
// must run before any external call so oversized or bogus uploads never
// cost vision quota.
type ImageIntake struct {
	maxBytes int64
}

// NewImageIntake creates an ImageIntake with the given size ceiling.
func NewImageIntake(maxBytes int64) *ImageIntake {
	return &ImageIntake{maxBytes: maxBytes}
}

// Validate checks the payload size and sniffs the actual content type
// from the leading bytes. The declared MIME is advisory only: a payload
// claiming image/jpeg but carrying PNG magic bytes is treated as PNG,
// and anything outside the allow-list is rejected.
func (i *ImageIntake) Validate(data []byte, declaredMIME string) (*ValidatedImage, error) {
	if int64(len(data)) > i.maxBytes {
		return nil, ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, ErrUnsupportedFormat
	}

	sniffed := http.DetectContentType(data)
	ext, ok := allowedImageTypes[sniffed]
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	return &ValidatedImage{
		ID:   uuid.New(),
		Data: data,
		MIME: sniffed,
		Ext:  ext,
	}, nil
}
