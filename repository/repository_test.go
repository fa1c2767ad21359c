package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zerogal/zerogalbackend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Album{}, &models.DataRecord{}))
	return db
}

func mustCreateAlbum(t *testing.T, repo AlbumRepositoryInterface, name, token string) *models.Album {
	t.Helper()
	album := &models.Album{Name: name, Token: token, ImagePreviewID: -1}
	require.NoError(t, repo.Create(album))
	return album
}

func mustCreateRecord(t *testing.T, repo DataRecordRepositoryInterface, albumID int64, name string, createdTimestamp int64) *models.DataRecord {
	t.Helper()
	record := &models.DataRecord{
		AlbumID:          albumID,
		Name:             name,
		Extension:        ".jpg",
		MimeType:         "image/jpeg",
		Size:             100,
		CreatedTimestamp: createdTimestamp,
		ShardIndex:       int(createdTimestamp % 255),
		Index:            1,
	}
	require.NoError(t, repo.Create(record))
	return record
}
