package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasExif(t *testing.T) {
	assert.True(t, HasExif(".jpg"))
	assert.True(t, HasExif(".jpeg"))
	assert.True(t, HasExif(".tiff"))
	assert.True(t, HasExif(".tif"))

	assert.False(t, HasExif(".png"))
	assert.False(t, HasExif(".mp4"))
	assert.False(t, HasExif(".bin"))
	assert.False(t, HasExif(""))
}

func TestGetTakenAtInvalidInput(t *testing.T) {
	// extraction is best-effort: garbage yields nil, never an error
	assert.Nil(t, GetTakenAt(bytes.NewReader([]byte("not an image"))))
	assert.Nil(t, GetTakenAt(bytes.NewReader(nil)))

	// a JPEG without EXIF has no capture time
	plainJPEG := append([]byte{0xFF, 0xD8, 0xFF, 0xDB}, bytes.Repeat([]byte{0x00}, 64)...)
	assert.Nil(t, GetTakenAt(bytes.NewReader(plainJPEG)))
}
