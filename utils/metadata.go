package utils

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// exif decoding only understands JPEG and TIFF containers
var exifCapableExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".tif":  true,
}

// HasExif reports whether EXIF extraction is worth attempting for the
// detected extension.
func HasExif(extension string) bool {
	return exifCapableExtensions[extension]
}

// GetTakenAt extracts the EXIF capture timestamp from an image stream.
// Returns nil when the stream carries no usable EXIF data; extraction is
// strictly best-effort.
func GetTakenAt(r io.Reader) *int64 {
	exifData, err := exif.Decode(r)
	if err != nil {
		return nil
	}
	takenTime, err := exifData.DateTime()
	if err != nil {
		return nil
	}
	ts := takenTime.Unix()
	return &ts
}
