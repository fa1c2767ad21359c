package repository

import (
	"fmt"
	"sort"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/zerogal/zerogalbackend/models"
)

// AlbumRepository handles database operations for Album entities
type AlbumRepository struct {
	DB *gorm.DB
}

// NewAlbumRepository creates a new instance of AlbumRepository
func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{DB: db}
}

// Create inserts a new album row and fills in its assigned ID
func (r *AlbumRepository) Create(album *models.Album) error {
	err := r.DB.Create(album).Error
	if err != nil {
		return fmt.Errorf("failed to create album %s: %w", album.Name, err)
	}
	return nil
}

// ListActive retrieves all albums not marked for removal, in natural name order
func (r *AlbumRepository) ListActive() ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Where("in_removing = ?", false).Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	sort.SliceStable(albums, func(i, j int) bool {
		return natsort.Compare(albums[i].Name, albums[j].Name)
	})
	return albums, nil
}

// ListRemoving retrieves albums marked for removal, for the scavenger
func (r *AlbumRepository) ListRemoving() ([]models.Album, error) {
	var albums []models.Album
	err := r.DB.Where("in_removing = ?", true).Find(&albums).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list removing albums: %w", err)
	}
	return albums, nil
}

// GetByID retrieves an album by its ID; albums marked for removal are
// treated as gone
func (r *AlbumRepository) GetByID(id int64) (*models.Album, error) {
	var album models.Album
	err := r.DB.Where("id = ? AND in_removing = ?", id, false).First(&album).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get album by ID %d: %w", id, err)
	}
	return &album, nil
}

// MarkRemoving flags an album for deferred physical deletion
func (r *AlbumRepository) MarkRemoving(id int64) error {
	result := r.DB.Model(&models.Album{}).Where("id = ?", id).Update("in_removing", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark album ID %d for removal: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an album row; returns the number of rows deleted
func (r *AlbumRepository) Delete(id int64) (int64, error) {
	result := r.DB.Delete(&models.Album{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete album ID %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteAll removes every album row
func (r *AlbumRepository) DeleteAll() error {
	err := r.DB.Where("1 = 1").Delete(&models.Album{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete all albums: %w", err)
	}
	return nil
}
