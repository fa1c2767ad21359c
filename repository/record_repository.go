package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/zerogal/zerogalbackend/models"
)

// DataRecordRepository handles database operations for DataRecord entities
type DataRecordRepository struct {
	DB *gorm.DB
}

// NewDataRecordRepository creates a new instance of DataRecordRepository
func NewDataRecordRepository(db *gorm.DB) *DataRecordRepository {
	return &DataRecordRepository{DB: db}
}

// Create inserts a new record row and fills in its assigned ID
func (r *DataRecordRepository) Create(record *models.DataRecord) error {
	err := r.DB.Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to create data record %s: %w", record.Name, err)
	}
	return nil
}

// GetByID retrieves a record by its ID; records marked for removal are
// treated as gone
func (r *DataRecordRepository) GetByID(id int64) (*models.DataRecord, error) {
	var record models.DataRecord
	err := r.DB.Where("id = ? AND in_removing = ?", id, false).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get data record by ID %d: %w", id, err)
	}
	return &record, nil
}

// ListActive retrieves every record not marked for removal
func (r *DataRecordRepository) ListActive() ([]models.DataRecord, error) {
	return r.listWhere("in_removing = ?", false)
}

// ListActiveByAlbum retrieves an album's records, newest first
func (r *DataRecordRepository) ListActiveByAlbum(albumID int64) ([]models.DataRecord, error) {
	return r.listWhere("in_removing = ? AND album_id = ?", false, albumID)
}

// ListActiveWithoutAlbum retrieves records that belong to no album
func (r *DataRecordRepository) ListActiveWithoutAlbum() ([]models.DataRecord, error) {
	return r.listWhere("in_removing = ? AND album_id = ?", false, models.NoAlbumID)
}

// ListWaitingPreview retrieves records the preview worker should handle
func (r *DataRecordRepository) ListWaitingPreview() ([]models.DataRecord, error) {
	return r.listWhere("in_removing = ? AND preview_status = ?", false, models.PreviewWaiting)
}

// ListWaitingConvert retrieves records the convert worker should handle
func (r *DataRecordRepository) ListWaitingConvert() ([]models.DataRecord, error) {
	return r.listWhere("in_removing = ? AND convert_status = ?", false, models.ConvertWaiting)
}

// ListRemoving retrieves records marked for removal, for the scavenger
func (r *DataRecordRepository) ListRemoving() ([]models.DataRecord, error) {
	var records []models.DataRecord
	err := r.DB.Where("in_removing = ?", true).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list removing records: %w", err)
	}
	return records, nil
}

func (r *DataRecordRepository) listWhere(query string, args ...interface{}) ([]models.DataRecord, error) {
	var records []models.DataRecord
	err := r.DB.Where(query, args...).Order("created_timestamp DESC, id DESC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list data records: %w", err)
	}
	return records, nil
}

// CountActiveByAlbum counts an album's records not marked for removal
func (r *DataRecordRepository) CountActiveByAlbum(albumID int64) (int64, error) {
	var count int64
	err := r.DB.Model(&models.DataRecord{}).
		Where("in_removing = ? AND album_id = ?", false, albumID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count records for album ID %d: %w", albumID, err)
	}
	return count, nil
}

// SetPreviewStatus updates a record's preview state
func (r *DataRecordRepository) SetPreviewStatus(id int64, status int) error {
	return r.updateByID(id, map[string]interface{}{"preview_status": status})
}

// SetConvertStatus updates a record's conversion state
func (r *DataRecordRepository) SetConvertStatus(id int64, status int) error {
	return r.updateByID(id, map[string]interface{}{"convert_status": status})
}

// SetFormat rewrites a record's extension and MIME type after an in-place
// format conversion; the shard location never changes
func (r *DataRecordRepository) SetFormat(id int64, extension, mimeType string) error {
	return r.updateByID(id, map[string]interface{}{
		"extension": extension,
		"mime_type": mimeType,
	})
}

// MarkRemoving flags a record for deferred physical deletion
func (r *DataRecordRepository) MarkRemoving(id int64) error {
	return r.updateByID(id, map[string]interface{}{"in_removing": true})
}

// MarkRemovingByAlbum flags every record of an album for removal
func (r *DataRecordRepository) MarkRemovingByAlbum(albumID int64) error {
	err := r.DB.Model(&models.DataRecord{}).
		Where("album_id = ?", albumID).
		Update("in_removing", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark records of album ID %d for removal: %w", albumID, err)
	}
	return nil
}

func (r *DataRecordRepository) updateByID(id int64, updates map[string]interface{}) error {
	result := r.DB.Model(&models.DataRecord{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update data record ID %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a record row; returns the number of rows deleted
func (r *DataRecordRepository) Delete(id int64) (int64, error) {
	result := r.DB.Delete(&models.DataRecord{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete data record ID %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteAll removes every record row
func (r *DataRecordRepository) DeleteAll() error {
	err := r.DB.Where("1 = 1").Delete(&models.DataRecord{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete all data records: %w", err)
	}
	return nil
}
