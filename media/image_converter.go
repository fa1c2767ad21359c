package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultJpegQuality is used when callers pass a non-positive quality.
const DefaultJpegQuality = 85

// ErrUnsupportedFormat is returned for source formats no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageConverter normalizes a source image stream to JPEG bytes.
type ImageConverter interface {
	ConvertToJPEG(r io.Reader, sourceExtension string, quality int) ([]byte, error)
}

// directly decodable by the registered Go image decoders; everything else
// known goes through the ffmpeg fallback
var nativeDecodeExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
}

// UnifiedImageConverter decodes common raster formats natively and falls
// back to ffmpeg for RAW/HEIC/AVIF sources, always encoding JPEG output.
type UnifiedImageConverter struct {
	ffmpeg *FFmpeg
}

// NewUnifiedImageConverter creates a converter; ffmpeg may be nil, which
// limits support to the natively decodable formats.
func NewUnifiedImageConverter(ffmpeg *FFmpeg) *UnifiedImageConverter {
	return &UnifiedImageConverter{ffmpeg: ffmpeg}
}

// ConvertToJPEG decodes the stream as sourceExtension and re-encodes it as
// JPEG at the given quality.
func (c *UnifiedImageConverter) ConvertToJPEG(r io.Reader, sourceExtension string, quality int) ([]byte, error) {
	if quality <= 0 {
		quality = DefaultJpegQuality
	}
	ext := strings.ToLower(sourceExtension)
	if !IsImage(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, sourceExtension)
	}

	var img image.Image
	var err error
	if nativeDecodeExtensions[ext] {
		img, _, err = image.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s image: %w", ext, err)
		}
	} else {
		img, err = c.decodeWithFFmpeg(r, ext)
		if err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *UnifiedImageConverter) decodeWithFFmpeg(r io.Reader, ext string) (image.Image, error) {
	if c.ffmpeg == nil {
		return nil, fmt.Errorf("%w: %s (no ffmpeg fallback configured)", ErrUnsupportedFormat, ext)
	}
	pngData, err := c.ffmpeg.decodeImageStream(context.Background(), r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image via ffmpeg: %w", ext, err)
	}
	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}

// ResizeToFit downscales img so its longer side is at most maxSize,
// preserving aspect ratio. Images already within the cap pass through.
func ResizeToFit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}
	longer := w
	if h > w {
		longer = h
	}
	k := float64(maxSize) / float64(longer)
	newW := int(float64(w) * k)
	newH := int(float64(h) * k)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}
