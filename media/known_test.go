package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownExtensions(t *testing.T) {
	assert.True(t, IsImage(".jpg"))
	assert.True(t, IsImage(".JPG"))
	assert.True(t, IsImage(".heic"))
	assert.True(t, IsImage(".cr2"))
	assert.False(t, IsImage(".mp4"))
	assert.False(t, IsImage(".bin"))
	assert.False(t, IsImage(""))

	assert.True(t, IsVideo(".mp4"))
	assert.True(t, IsVideo(".MOV"))
	assert.True(t, IsVideo(".webm"))
	assert.False(t, IsVideo(".jpg"))
	assert.False(t, IsVideo(".bin"))
}

func TestDataTypeClassification(t *testing.T) {
	assert.Equal(t, DataTypeImage, TypeInfo{Extension: ".png"}.DataType())
	assert.Equal(t, DataTypeVideo, TypeInfo{Extension: ".mkv"}.DataType())
	assert.Equal(t, DataTypeBinary, TypeInfo{Extension: ".bin"}.DataType())
	assert.Equal(t, DataTypeBinary, Unknown.DataType())

	assert.Equal(t, "image", DataTypeImage.String())
	assert.Equal(t, "video", DataTypeVideo.String())
	assert.Equal(t, "binary", DataTypeBinary.String())
}
