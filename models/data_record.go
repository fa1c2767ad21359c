package models

// NoAlbumID is the AlbumID sentinel for records that belong to no album.
const NoAlbumID int64 = -1

// Preview generation states
const (
	PreviewWaiting    = 0
	PreviewHasPreview = 1
	PreviewNoPreview  = 2
)

// Format conversion states
const (
	ConvertWaiting   = 0
	ConvertCompleted = 1
)

// DataRecord describes one stored object and its derived preview.
// (ShardIndex, Index) permanently identify the on-disk location of both the
// primary file and the preview file; they never change, even when the format
// is converted in place (only Extension/MimeType change then).
// It corresponds to the 'data_records' table.
type DataRecord struct {
	ID               int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AlbumID          int64  `gorm:"not null;default:-1;index" json:"album_id"`
	Size             int64  `gorm:"not null" json:"size"`
	CreatedTimestamp int64  `gorm:"not null" json:"created_timestamp"`
	ShardIndex       int    `gorm:"not null" json:"-"`
	Index            int    `gorm:"not null" json:"-"`
	Name             string `gorm:"not null" json:"name"`
	Extension        string `gorm:"not null" json:"extension"`
	Description      string `gorm:"" json:"description,omitempty"`
	MimeType         string `gorm:"not null" json:"mime_type"`

	// Tags holds ';'-separated labels
	Tags string `gorm:"" json:"tags,omitempty"`

	// TakenAt is the EXIF capture timestamp, when one could be extracted
	TakenAt *int64 `gorm:"" json:"taken_at,omitempty"`

	// InRemoving marks the record for deferred physical deletion
	InRemoving bool `gorm:"not null;default:false;index" json:"-"`

	PreviewStatus int `gorm:"not null;default:0;index" json:"-"`
	ConvertStatus int `gorm:"not null;default:0;index" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (DataRecord) TableName() string {
	return "data_records"
}
