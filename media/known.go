package media

import "strings"

// Canonical target formats for normalization
const (
	CanonicalImageExtension = ".jpg"
	CanonicalImageMimeType  = "image/jpeg"
	CanonicalVideoExtension = ".mp4"
	CanonicalVideoMimeType  = "video/mp4"
)

var knownImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".bmp":  true,
	".gif":  true,
	".heic": true,
	".heif": true,
	".ico":  true,
	".svg":  true,
	".tiff": true,
	".webp": true,
	".avif": true,

	// RAW
	".dng": true,
	".cr2": true,
	".nef": true,
	".arw": true,
	".orf": true,
	".sr2": true,
	".srf": true,
}

var knownVideoExtensions = map[string]bool{
	".mov":  true,
	".mp4":  true,
	".avi":  true,
	".webm": true,
	".wmv":  true,
	".mkv":  true,
	".flv":  true,
	".mpg":  true,
	".ts":   true,
}

// IsImage checks if the extension belongs to a supported image format
func IsImage(extension string) bool {
	return knownImageExtensions[strings.ToLower(extension)]
}

// IsVideo checks if the extension belongs to a supported video format
func IsVideo(extension string) bool {
	return knownVideoExtensions[strings.ToLower(extension)]
}
