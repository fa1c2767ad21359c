package media

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pad extends b with zeros to at least n bytes
func pad(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func withAt(b []byte, offset int, s string) []byte {
	copy(b[offset:], s)
	return b
}

func TestDetectTypeFromBytes(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantExt  string
		wantMime string
	}{
		{"jpeg jfif", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, ".jpg", "image/jpeg"},
		{"jpeg exif", []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x00, 0x10}, ".jpg", "image/jpeg"},
		{"jpeg raw", []byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00, 0x10}, ".jpg", "image/jpeg"},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, ".png", "image/png"},
		{"gif87a", []byte("GIF87a..."), ".gif", "image/gif"},
		{"gif89a", []byte("GIF89a..."), ".gif", "image/gif"},
		{"bmp", []byte("BM\x36\x00"), ".bmp", "image/bmp"},
		{"webp", append([]byte("RIFF\x10\x00\x00\x00"), []byte("WEBPVP8 ")...), ".webp", "image/webp"},
		{"avi", append([]byte("RIFF\x10\x00\x00\x00"), []byte("AVI LIST")...), ".avi", "video/x-msvideo"},
		{"riff without known tag", append([]byte("RIFF\x10\x00\x00\x00"), []byte("WAVEfmt ")...), ".bin", "application/x-binary"},
		{"cr2", []byte{0x49, 0x49, 0x2A, 0x00, 0x10, 0x00, 0x00, 0x00, 'C', 'R', 0x02, 0x00}, ".cr2", "image/x-canon-cr2"},
		{"dng le", withAt(pad([]byte{0x49, 0x49, 0x2A, 0x00}, 128), 40, "Adobe"), ".dng", "image/x-adobe-dng"},
		{"nef be", withAt(pad([]byte{0x4D, 0x4D, 0x00, 0x2A}, 128), 40, "NIKON CORPORATION"), ".nef", "image/x-nikon-nef"},
		{"arw", withAt(pad([]byte{0x49, 0x49, 0x2A, 0x00}, 128), 40, "SONY"), ".arw", "image/x-sony-arw"},
		{"orf", []byte("IIRO\x08\x00"), ".orf", "image/x-olympus-orf"},
		{"plain tiff le", []byte{0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}, ".tiff", "image/tiff"},
		{"plain tiff be", []byte{0x4D, 0x4D, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x08}, ".tiff", "image/tiff"},
		{"bigtiff", []byte{0x49, 0x49, 0x2B, 0x00, 0x08, 0x00}, ".tiff", "image/tiff"},
		{"ico", []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00}, ".ico", "image/vnd.microsoft.icon"},
		{"svg tag", []byte(`<svg xmlns="http://www.w3.org/2000/svg">`), ".svg", "image/svg+xml"},
		{"svg xml decl", []byte(`<?xml version="1.0"?>`), ".svg", "image/svg+xml"},
		{"heic", withAt(make([]byte, 16), 4, "ftypheic"), ".heic", "image/heic"},
		{"heif", withAt(make([]byte, 16), 4, "ftypmif1"), ".heif", "image/heif"},
		{"avif", withAt(make([]byte, 16), 4, "ftypavif"), ".avif", "image/avif"},
		{"mp4 isom", withAt(make([]byte, 16), 4, "ftypisom"), ".mp4", "video/mp4"},
		{"mp4 avc1", withAt(make([]byte, 16), 4, "ftypavc1"), ".mp4", "video/mp4"},
		{"mov qt", withAt(make([]byte, 16), 4, "ftypqt  "), ".mov", "video/quicktime"},
		{"mov moov", withAt(make([]byte, 16), 4, "moov"), ".mov", "video/quicktime"},
		{"mkv", withAt(pad([]byte{0x1A, 0x45, 0xDF, 0xA3}, 64), 24, "matroska"), ".mkv", "video/x-matroska"},
		{"webm", withAt(pad([]byte{0x1A, 0x45, 0xDF, 0xA3}, 64), 24, "webm"), ".webm", "video/webm"},
		{"flv", []byte("FLV\x01"), ".flv", "video/x-flv"},
		{"wmv", pad([]byte{
			0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
			0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
		}, 32), ".wmv", "video/x-ms-wmv"},
		{"mpeg video", []byte{0x00, 0x00, 0x01, 0xB3, 0x14, 0x00}, ".mpg", "video/mpeg"},
		{"mpeg program", []byte{0x00, 0x00, 0x01, 0xBA, 0x44, 0x00}, ".mpg", "video/mpeg"},
		{"plain text", []byte("hello world, definitely not media"), ".bin", "application/x-binary"},
		{"empty", []byte{}, ".bin", "application/x-binary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DetectTypeFromBytes(tt.data)
			assert.Equal(t, tt.wantExt, info.Extension)
			assert.Equal(t, tt.wantMime, info.MimeType)
		})
	}
}

func TestDetectTypeMpegTransportStream(t *testing.T) {
	buf := make([]byte, 400)
	buf[0] = 0x47
	buf[188] = 0x47
	info := DetectTypeFromBytes(buf)
	assert.Equal(t, ".ts", info.Extension)
	assert.Equal(t, "video/mp2t", info.MimeType)

	// a single sync byte without the packet-aligned repeat is not a stream
	short := []byte{0x47, 0x00, 0x11}
	assert.Equal(t, Unknown, DetectTypeFromBytes(short))
}

func TestDetectTypeRestoresPosition(t *testing.T) {
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0xAB}, 64)...)
	rs := bytes.NewReader(data)

	// move to the middle before detecting
	_, err := rs.Seek(10, io.SeekStart)
	require.NoError(t, err)

	info := DetectType(rs)
	assert.Equal(t, ".jpg", info.Extension)

	pos, err := rs.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pos)
}

func TestDetectTypeNilAndShortInputs(t *testing.T) {
	assert.Equal(t, Unknown, DetectType(nil))

	// shorter than sniffLength still detects
	info := DetectType(bytes.NewReader([]byte("GIF89a")))
	assert.Equal(t, ".gif", info.Extension)

	assert.Equal(t, Unknown, DetectType(bytes.NewReader(nil)))
}

func TestRawFormatsRequireMakerStrings(t *testing.T) {
	// a long LE TIFF without any maker string stays plain TIFF
	buf := pad([]byte{0x49, 0x49, 0x2A, 0x00}, 256)
	info := DetectTypeFromBytes(buf)
	assert.Equal(t, ".tiff", info.Extension)
}
