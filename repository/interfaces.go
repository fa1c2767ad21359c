package repository

import (
	"github.com/zerogal/zerogalbackend/models"
)

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	Create(album *models.Album) error
	ListActive() ([]models.Album, error)
	ListRemoving() ([]models.Album, error)
	GetByID(id int64) (*models.Album, error)
	MarkRemoving(id int64) error
	Delete(id int64) (int64, error)
	DeleteAll() error
}

// DataRecordRepositoryInterface defines the methods for data record operations
type DataRecordRepositoryInterface interface {
	Create(record *models.DataRecord) error
	GetByID(id int64) (*models.DataRecord, error)
	ListActive() ([]models.DataRecord, error)
	ListActiveByAlbum(albumID int64) ([]models.DataRecord, error)
	ListActiveWithoutAlbum() ([]models.DataRecord, error)
	ListWaitingPreview() ([]models.DataRecord, error)
	ListWaitingConvert() ([]models.DataRecord, error)
	ListRemoving() ([]models.DataRecord, error)
	CountActiveByAlbum(albumID int64) (int64, error)
	SetPreviewStatus(id int64, status int) error
	SetConvertStatus(id int64, status int) error
	SetFormat(id int64, extension, mimeType string) error
	MarkRemoving(id int64) error
	MarkRemovingByAlbum(albumID int64) error
	Delete(id int64) (int64, error)
	DeleteAll() error
}
