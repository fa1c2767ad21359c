package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func TestResizeToFit(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		maxSize int
		wantW   int
		wantH   int
	}{
		{"wide landscape", 1000, 500, 100, 100, 50},
		{"tall portrait", 500, 1000, 100, 50, 100},
		{"square", 800, 800, 200, 200, 200},
		{"already within cap", 100, 80, 512, 100, 80},
		{"exactly at cap", 512, 512, 512, 512, 512},
		{"extreme aspect ratio clamps to 1px", 10000, 10, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ResizeToFit(testImage(tt.w, tt.h), tt.maxSize)
			bounds := out.Bounds()
			assert.Equal(t, tt.wantW, bounds.Dx())
			assert.Equal(t, tt.wantH, bounds.Dy())
		})
	}
}

func TestResizeToFitPassThrough(t *testing.T) {
	img := testImage(100, 100)
	out := ResizeToFit(img, 512)
	// no resampling when within the cap
	assert.Same(t, img, out)
}

func TestConvertToJPEGFromPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(40, 30)))

	conv := NewUnifiedImageConverter(nil)
	jpegData, err := conv.ConvertToJPEG(&buf, ".png", 85)
	require.NoError(t, err)

	// JPEG SOI marker
	require.GreaterOrEqual(t, len(jpegData), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, jpegData[:2])

	img, format, err := image.Decode(bytes.NewReader(jpegData))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestConvertToJPEGDefaultQuality(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(8, 8)))

	conv := NewUnifiedImageConverter(nil)
	jpegData, err := conv.ConvertToJPEG(&buf, ".png", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, jpegData)
}

func TestConvertToJPEGRejectsNonImage(t *testing.T) {
	conv := NewUnifiedImageConverter(nil)
	_, err := conv.ConvertToJPEG(bytes.NewReader([]byte("data")), ".mp4", 85)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConvertToJPEGRawNeedsFFmpeg(t *testing.T) {
	conv := NewUnifiedImageConverter(nil)
	_, err := conv.ConvertToJPEG(bytes.NewReader([]byte("raw bytes")), ".cr2", 85)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConvertToJPEGGarbageInput(t *testing.T) {
	conv := NewUnifiedImageConverter(nil)
	_, err := conv.ConvertToJPEG(bytes.NewReader([]byte("not a png at all")), ".png", 85)
	assert.Error(t, err)
}
