package models

// Album groups data records under a shared access token.
// It corresponds to the 'albums' table.
type Album struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string `gorm:"not null" json:"name"`
	Description    string `gorm:"" json:"description,omitempty"`
	ImagePreviewID int64  `gorm:"not null;default:-1" json:"image_preview_id"`

	// Token is the album access token; empty means the album is unprotected
	Token string `gorm:"" json:"-"`

	// AllowRemoveData permits deleting items (and the album itself) with the
	// album token alone; the master token bypasses the flag
	AllowRemoveData bool `gorm:"not null;default:false" json:"allow_remove_data"`

	// InRemoving marks the album for deferred physical deletion
	InRemoving bool `gorm:"not null;default:false;index" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Album) TableName() string {
	return "albums"
}

// IsProtected reports whether the album requires an access token.
func (a *Album) IsProtected() bool {
	return a.Token != ""
}
