package media

// DataType is the coarse classification of a stored object.
type DataType int

const (
	DataTypeBinary DataType = iota
	DataTypeImage
	DataTypeVideo
)

func (t DataType) String() string {
	switch t {
	case DataTypeImage:
		return "image"
	case DataTypeVideo:
		return "video"
	}
	return "binary"
}

// TypeInfo is the result of content sniffing: the authoritative extension
// and MIME type, independent of any caller-supplied filename.
type TypeInfo struct {
	Extension string
	MimeType  string
}

// IsImage reports whether the detected type is a known image format.
func (t TypeInfo) IsImage() bool { return IsImage(t.Extension) }

// IsVideo reports whether the detected type is a known video format.
func (t TypeInfo) IsVideo() bool { return IsVideo(t.Extension) }

// DataType returns the coarse classification for the detected type.
func (t TypeInfo) DataType() DataType {
	if t.IsImage() {
		return DataTypeImage
	}
	if t.IsVideo() {
		return DataTypeVideo
	}
	return DataTypeBinary
}
