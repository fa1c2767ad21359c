package media

import (
	"bytes"
	"io"
)

// Unknown is returned when no signature matches.
var Unknown = TypeInfo{Extension: ".bin", MimeType: "application/x-binary"}

const sniffLength = 512

// fileSignature is one rule of the sniffer: a byte pattern at a fixed offset
// plus an optional secondary predicate over the same buffer, used to
// disambiguate formats that share a container signature.
type fileSignature struct {
	signature []byte
	offset    int
	extension string
	mimeType  string
	check     func(buffer []byte) bool
}

// signatures are tried in declaration order; the first full match wins.
// Order encodes priority: the TIFF-header RAW variants (CR2, DNG, NEF, ARW,
// SR2, SRF) share the generic TIFF prefixes and must come before the plain
// TIFF rules.
var signatures = []fileSignature{
	// JPEG variants
	{signature: []byte{0xFF, 0xD8, 0xFF, 0xE0}, extension: ".jpg", mimeType: "image/jpeg"},
	{signature: []byte{0xFF, 0xD8, 0xFF, 0xE1}, extension: ".jpg", mimeType: "image/jpeg"},
	{signature: []byte{0xFF, 0xD8, 0xFF, 0xDB}, extension: ".jpg", mimeType: "image/jpeg"},
	{signature: []byte{0xFF, 0xD8, 0xFF, 0xEE}, extension: ".jpg", mimeType: "image/jpeg"},

	// PNG
	{signature: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, extension: ".png", mimeType: "image/png"},

	// GIF
	{signature: []byte("GIF87a"), extension: ".gif", mimeType: "image/gif"},
	{signature: []byte("GIF89a"), extension: ".gif", mimeType: "image/gif"},

	// BMP
	{signature: []byte("BM"), extension: ".bmp", mimeType: "image/bmp"},

	// WebP (RIFF container with WEBP tag)
	{signature: []byte("RIFF"), extension: ".webp", mimeType: "image/webp",
		check: func(buffer []byte) bool {
			return len(buffer) >= 12 && bytes.Equal(buffer[8:12], []byte("WEBP"))
		}},

	// Canon CR2: little-endian TIFF with "CR" tag and version 2.0 at offset 8
	{signature: []byte{0x49, 0x49, 0x2A, 0x00}, extension: ".cr2", mimeType: "image/x-canon-cr2",
		check: func(buffer []byte) bool {
			return len(buffer) >= 12 &&
				buffer[8] == 'C' && buffer[9] == 'R' &&
				buffer[10] == 0x02 && buffer[11] == 0x00
		}},

	// Olympus ORF
	{signature: []byte("MMOR"), extension: ".orf", mimeType: "image/x-olympus-orf"},
	{signature: []byte("IIRO"), extension: ".orf", mimeType: "image/x-olympus-orf"},
	{signature: []byte("IIRS"), extension: ".orf", mimeType: "image/x-olympus-orf"},

	// Adobe DNG: standard TIFF headers, identified by embedded maker strings
	{signature: []byte{0x49, 0x49, 0x2A, 0x00}, extension: ".dng", mimeType: "image/x-adobe-dng", check: checkDngFormat},
	{signature: []byte{0x4D, 0x4D, 0x00, 0x2A}, extension: ".dng", mimeType: "image/x-adobe-dng", check: checkDngFormat},

	// Nikon NEF
	{signature: []byte{0x4D, 0x4D, 0x00, 0x2A}, extension: ".nef", mimeType: "image/x-nikon-nef", check: checkNefFormat},
	{signature: []byte{0x49, 0x49, 0x2A, 0x00}, extension: ".nef", mimeType: "image/x-nikon-nef", check: checkNefFormat},

	// Sony ARW / SR2 / SRF
	{signature: []byte{0x49, 0x49, 0x2A, 0x00}, extension: ".arw", mimeType: "image/x-sony-arw", check: checkArwFormat},
	{signature: []byte{0x49, 0x49, 0x2A, 0x00}, extension: ".sr2", mimeType: "image/x-sony-sr2", check: checkSr2Format},
	{signature: []byte{0x49, 0x49, 0x2A, 0x00}, extension: ".srf", mimeType: "image/x-sony-srf", check: checkSrfFormat},

	// TIFF little/big endian, then BigTIFF
	{signature: []byte{0x49, 0x49, 0x2A, 0x00}, extension: ".tiff", mimeType: "image/tiff"},
	{signature: []byte{0x4D, 0x4D, 0x00, 0x2A}, extension: ".tiff", mimeType: "image/tiff"},
	{signature: []byte{0x49, 0x49, 0x2B, 0x00}, extension: ".tiff", mimeType: "image/tiff"},
	{signature: []byte{0x4D, 0x4D, 0x00, 0x2B}, extension: ".tiff", mimeType: "image/tiff"},

	// ICO
	{signature: []byte{0x00, 0x00, 0x01, 0x00}, extension: ".ico", mimeType: "image/vnd.microsoft.icon"},

	// SVG: XML declaration or direct tag
	{signature: []byte("<?xml "), extension: ".svg", mimeType: "image/svg+xml"},
	{signature: []byte("<svg "), extension: ".svg", mimeType: "image/svg+xml"},

	// HEIF/HEIC (ISO BMFF brands at offset 4)
	{signature: []byte("ftypmif1"), offset: 4, extension: ".heif", mimeType: "image/heif"},
	{signature: []byte("ftypheic"), offset: 4, extension: ".heic", mimeType: "image/heic"},
	{signature: []byte("ftypheix"), offset: 4, extension: ".heic", mimeType: "image/heic"},

	// AVIF
	{signature: []byte("ftypavif"), offset: 4, extension: ".avif", mimeType: "image/avif"},

	// MP4 brands
	{signature: []byte("ftypisom"), offset: 4, extension: ".mp4", mimeType: "video/mp4"},
	{signature: []byte("ftypmp41"), offset: 4, extension: ".mp4", mimeType: "video/mp4"},
	{signature: []byte("ftypmp42"), offset: 4, extension: ".mp4", mimeType: "video/mp4"},
	{signature: []byte("ftypavc1"), offset: 4, extension: ".mp4", mimeType: "video/mp4"},
	{signature: []byte("ftyphev1"), offset: 4, extension: ".mp4", mimeType: "video/mp4"},
	{signature: []byte("ftypdash"), offset: 4, extension: ".mp4", mimeType: "video/mp4"},

	// MOV (QuickTime), including legacy atom layouts
	{signature: []byte("ftypqt  "), offset: 4, extension: ".mov", mimeType: "video/quicktime"},
	{signature: []byte("ftypM4V "), offset: 4, extension: ".mov", mimeType: "video/quicktime"},
	{signature: []byte("moov"), offset: 4, extension: ".mov", mimeType: "video/quicktime"},
	{signature: []byte("mdat"), offset: 4, extension: ".mov", mimeType: "video/quicktime"},

	// AVI (RIFF container with "AVI " tag)
	{signature: []byte("RIFF"), extension: ".avi", mimeType: "video/x-msvideo",
		check: func(buffer []byte) bool {
			return len(buffer) >= 12 && bytes.Equal(buffer[8:12], []byte("AVI "))
		}},

	// Matroska vs WebM share the EBML magic; the doctype string decides
	{signature: []byte{0x1A, 0x45, 0xDF, 0xA3}, extension: ".mkv", mimeType: "video/x-matroska",
		check: func(buffer []byte) bool { return checkMatroskaDocType(buffer, "matroska") }},
	{signature: []byte{0x1A, 0x45, 0xDF, 0xA3}, extension: ".webm", mimeType: "video/webm",
		check: func(buffer []byte) bool { return checkMatroskaDocType(buffer, "webm") }},

	// FLV
	{signature: []byte("FLV"), extension: ".flv", mimeType: "video/x-flv"},

	// WMV/ASF header GUID
	{signature: []byte{
		0x30, 0x26, 0xB2, 0x75, 0x8E, 0x66, 0xCF, 0x11,
		0xA6, 0xD9, 0x00, 0xAA, 0x00, 0x62, 0xCE, 0x6C,
	}, extension: ".wmv", mimeType: "video/x-ms-wmv"},

	// MPEG elementary / program streams
	{signature: []byte{0x00, 0x00, 0x01, 0xB3}, extension: ".mpg", mimeType: "video/mpeg"},
	{signature: []byte{0x00, 0x00, 0x01, 0xBA}, extension: ".mpg", mimeType: "video/mpeg"},

	// MPEG transport stream: sync byte repeating at the 188-byte packet size
	{signature: []byte{0x47}, extension: ".ts", mimeType: "video/mp2t", check: checkMpegTransportStream},
}

// DetectType inspects the first bytes of rs and classifies the content.
// The read position is restored before returning, whatever happens, so
// detection is always non-destructive.
func DetectType(rs io.ReadSeeker) TypeInfo {
	if rs == nil {
		return Unknown
	}
	originalPos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return Unknown
	}
	defer rs.Seek(originalPos, io.SeekStart)

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Unknown
	}
	buffer := make([]byte, sniffLength)
	n, _ := io.ReadFull(rs, buffer)
	if n == 0 {
		return Unknown
	}
	return DetectTypeFromBytes(buffer[:n])
}

// DetectTypeFromBytes classifies content from an already-buffered prefix.
func DetectTypeFromBytes(buffer []byte) TypeInfo {
	for i := range signatures {
		if matchSignature(buffer, &signatures[i]) {
			return TypeInfo{Extension: signatures[i].extension, MimeType: signatures[i].mimeType}
		}
	}
	return Unknown
}

func matchSignature(buffer []byte, sig *fileSignature) bool {
	if len(buffer) < sig.offset+len(sig.signature) {
		return false
	}
	if !bytes.Equal(buffer[sig.offset:sig.offset+len(sig.signature)], sig.signature) {
		return false
	}
	if sig.check != nil {
		return sig.check(buffer)
	}
	return true
}

func checkMatroskaDocType(buffer []byte, expectedDocType string) bool {
	limit := len(buffer)
	if limit > 100 {
		limit = 100
	}
	return bytes.Contains(buffer[:limit], []byte(expectedDocType))
}

func checkMpegTransportStream(buffer []byte) bool {
	if len(buffer) < 376 {
		return false
	}
	return buffer[0] == 0x47 && buffer[188] == 0x47
}

// The TIFF-based RAW formats cannot be told apart by header alone; the
// original cameras leave maker strings near the start of the file.

func checkDngFormat(buffer []byte) bool {
	if len(buffer) < 100 {
		return false
	}
	return bytes.Contains(buffer, []byte("Adobe")) || bytes.Contains(buffer, []byte("DNG"))
}

func checkNefFormat(buffer []byte) bool {
	if len(buffer) < 100 {
		return false
	}
	return bytes.Contains(buffer, []byte("NIKON")) || bytes.Contains(buffer, []byte("COOLPIX"))
}

func checkArwFormat(buffer []byte) bool {
	if len(buffer) < 100 {
		return false
	}
	return bytes.Contains(buffer, []byte("SONY")) || bytes.Contains(buffer, []byte("ARW"))
}

func checkSr2Format(buffer []byte) bool {
	if len(buffer) < 100 {
		return false
	}
	return bytes.Contains(buffer, []byte("SONY")) &&
		(bytes.Contains(buffer, []byte("SR2")) || bytes.Contains(buffer, []byte("DSC-R1")))
}

func checkSrfFormat(buffer []byte) bool {
	if len(buffer) < 100 {
		return false
	}
	return bytes.Contains(buffer, []byte("SONY")) &&
		(bytes.Contains(buffer, []byte("SRF")) || bytes.Contains(buffer, []byte("DSC-F828")))
}
