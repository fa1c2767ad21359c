package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zerogal/zerogalbackend/config"
	"github.com/zerogal/zerogalbackend/media"
	"github.com/zerogal/zerogalbackend/metrics"
	"github.com/zerogal/zerogalbackend/models"
	"github.com/zerogal/zerogalbackend/repository"
	"github.com/zerogal/zerogalbackend/utils"
)

// FileDescriptor points a caller at a stored file. Missing is set when the
// record exists but its backing file is absent; callers are expected to
// substitute a placeholder asset rather than fail.
type FileDescriptor struct {
	FilePath string
	Name     string
	MimeType string
	DataType media.DataType
	Missing  bool
}

// Engine orchestrates writes, reads, deletion marking and token-based access
// checks. It owns the shard path allocator and delegates row storage to the
// repositories; all derived work (previews, conversions, physical deletion)
// happens asynchronously in the workers.
type Engine struct {
	cfg     config.Config
	albums  repository.AlbumRepositoryInterface
	records repository.DataRecordRepositoryInterface
	paths   *PathAllocator
}

// NewEngine creates the storage engine and recovers shard counters from disk.
func NewEngine(cfg config.Config, albums repository.AlbumRepositoryInterface, records repository.DataRecordRepositoryInterface) (*Engine, error) {
	paths, err := NewPathAllocator(cfg.DataFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path allocator: %w", err)
	}
	return &Engine{
		cfg:     cfg,
		albums:  albums,
		records: records,
		paths:   paths,
	}, nil
}

// Paths exposes the allocator to the workers, which resolve record paths
// through the same shard layout.
func (e *Engine) Paths() *PathAllocator { return e.paths }

// CreateAlbum validates and inserts a new album. An empty token leaves the
// album unprotected.
func (e *Engine) CreateAlbum(name, description, token string, allowRemoveData bool) (*models.Album, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	album := &models.Album{
		Name:            name,
		Description:     description,
		Token:           token,
		AllowRemoveData: allowRemoveData,
		ImagePreviewID:  -1,
	}
	if err := e.albums.Create(album); err != nil {
		return nil, err
	}
	log.Printf("storage: album '%s' created (id %d)", album.Name, album.ID)
	return album, nil
}

// Write streams the source bytes to a freshly allocated shard location,
// sniffs the stored content for its authoritative type, and inserts the
// record with preview/convert statuses derived from that type. The row is
// inserted only after the file write has fully succeeded.
func (e *Engine) Write(name, description, tags string, albumID int64, r io.Reader) (*models.DataRecord, error) {
	timestamp := time.Now().Unix()
	shardIndex := ShardForTimestamp(timestamp)

	fileIndex, dataPath, _, err := e.paths.Allocate(shardIndex)
	if err != nil {
		return nil, err
	}

	size, info, takenAt, err := e.storeAndSniff(dataPath, r)
	if err != nil {
		return nil, err
	}

	previewStatus, convertStatus := e.initialStatuses(info)

	record := &models.DataRecord{
		AlbumID:          albumID,
		Size:             size,
		CreatedTimestamp: timestamp,
		ShardIndex:       shardIndex,
		Index:            fileIndex,
		Name:             name,
		Extension:        info.Extension,
		Description:      description,
		MimeType:         info.MimeType,
		Tags:             tags,
		TakenAt:          takenAt,
		PreviewStatus:    previewStatus,
		ConvertStatus:    convertStatus,
	}
	if err := e.records.Create(record); err != nil {
		// keep the shard tree consistent: no row means the file must go too
		if rmErr := os.Remove(dataPath); rmErr != nil {
			log.Printf("storage: failed to remove orphan file %s after insert failure: %v", dataPath, rmErr)
		}
		return nil, err
	}

	metrics.WritesTotal.WithLabelValues(info.DataType().String()).Inc()
	metrics.WriteBytesTotal.Add(float64(size))
	log.Printf("storage: stored '%s' as %s (%d bytes, shard %03d, index %d)", name, info.Extension, size, shardIndex, fileIndex)
	return record, nil
}

// storeAndSniff copies the stream to dataPath and classifies the stored
// bytes. Any transfer failure aborts the whole write and removes the
// partial file.
func (e *Engine) storeAndSniff(dataPath string, r io.Reader) (int64, media.TypeInfo, *int64, error) {
	outFile, err := os.Create(dataPath)
	if err != nil {
		return 0, media.Unknown, nil, fmt.Errorf("failed to create data file '%s': %w", dataPath, err)
	}

	size, err := io.Copy(outFile, r)
	if err != nil {
		outFile.Close()
		os.Remove(dataPath)
		return 0, media.Unknown, nil, fmt.Errorf("failed to write data to '%s': %w", dataPath, err)
	}

	// classify from the stored bytes; the caller-supplied name is never
	// trusted for typing
	info := media.DetectType(outFile)

	var takenAt *int64
	if utils.HasExif(info.Extension) {
		if _, err := outFile.Seek(0, io.SeekStart); err == nil {
			takenAt = utils.GetTakenAt(outFile)
		}
	}

	if err := outFile.Close(); err != nil {
		os.Remove(dataPath)
		return 0, media.Unknown, nil, fmt.Errorf("failed to close data file '%s': %w", dataPath, err)
	}
	return size, info, takenAt, nil
}

// initialStatuses derives the starting preview/convert states from the
// detected type, per the lifecycle rules: non-media needs no derived work;
// video previews must wait for the transcode to finish first.
func (e *Engine) initialStatuses(info media.TypeInfo) (previewStatus, convertStatus int) {
	switch {
	case info.IsVideo():
		previewStatus = models.PreviewWaiting
		if info.Extension == media.CanonicalVideoExtension || !e.cfg.ConvertVideoToMP4 {
			convertStatus = models.ConvertCompleted
		} else {
			convertStatus = models.ConvertWaiting
		}
	case info.IsImage():
		previewStatus = models.PreviewWaiting
		if e.cfg.ImageConvertEnabled(info.Extension) {
			convertStatus = models.ConvertWaiting
		} else {
			convertStatus = models.ConvertCompleted
		}
	default:
		previewStatus = models.PreviewNoPreview
		convertStatus = models.ConvertCompleted
	}
	return previewStatus, convertStatus
}

// GetAlbums lists all albums not marked for removal, regardless of
// protection; access filtering happens at the read boundary.
func (e *Engine) GetAlbums() ([]models.Album, error) {
	return e.albums.ListActive()
}

// GetDataWithoutAlbums lists records that belong to no album.
func (e *Engine) GetDataWithoutAlbums() ([]models.DataRecord, error) {
	return e.records.ListActiveWithoutAlbum()
}

// GetDataByAlbum lists a single album's records.
func (e *Engine) GetDataByAlbum(albumID int64) ([]models.DataRecord, error) {
	return e.records.ListActiveByAlbum(albumID)
}

// GetData resolves a record's primary file.
func (e *Engine) GetData(id int64) (*FileDescriptor, error) {
	record, err := e.getActiveRecord(id)
	if err != nil {
		return nil, err
	}
	path := e.paths.DataPath(record.ShardIndex, record.Index)
	return &FileDescriptor{
		FilePath: path,
		Name:     record.Name,
		MimeType: record.MimeType,
		DataType: dataTypeOf(record),
		Missing:  !fileExists(path),
	}, nil
}

// GetPreview resolves a record's preview file. Previews are always JPEG.
func (e *Engine) GetPreview(id int64) (*FileDescriptor, error) {
	record, err := e.getActiveRecord(id)
	if err != nil {
		return nil, err
	}
	path := e.paths.PreviewPath(record.ShardIndex, record.Index)
	return &FileDescriptor{
		FilePath: path,
		Name:     record.Name,
		MimeType: media.CanonicalImageMimeType,
		DataType: dataTypeOf(record),
		Missing:  !fileExists(path),
	}, nil
}

// GetAlbumToken returns the access token guarding an album. The no-album
// sentinel resolves to the empty token.
func (e *Engine) GetAlbumToken(albumID int64) (string, error) {
	if albumID == models.NoAlbumID {
		return "", nil
	}
	album, err := e.albums.GetByID(albumID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("album %d: %w", albumID, ErrNotFound)
		}
		return "", err
	}
	return album.Token, nil
}

// GetItemAlbumToken resolves the token guarding a record through its owning
// album.
func (e *Engine) GetItemAlbumToken(recordID int64) (string, error) {
	record, err := e.getActiveRecord(recordID)
	if err != nil {
		return "", err
	}
	return e.GetAlbumToken(record.AlbumID)
}

// RemoveRecord marks a record for deferred deletion. Items inside a
// protected album may be removed only when the album allows data removal,
// or when the caller is an admin.
func (e *Engine) RemoveRecord(id int64, isAdmin bool) error {
	record, err := e.getActiveRecord(id)
	if err != nil {
		return err
	}
	if record.AlbumID != models.NoAlbumID {
		album, err := e.albums.GetByID(record.AlbumID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if album != nil && !removalAllowed(album, isAdmin) {
			return ErrPermissionDenied
		}
	}
	if err := e.records.MarkRemoving(id); err != nil {
		return err
	}
	log.Printf("storage: record %d marked for removal", id)
	return nil
}

// RemoveAlbum marks an album and all of its records for deferred deletion.
func (e *Engine) RemoveAlbum(id int64, isAdmin bool) error {
	album, err := e.albums.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("album %d: %w", id, ErrNotFound)
		}
		return err
	}
	if !removalAllowed(album, isAdmin) {
		return ErrPermissionDenied
	}
	if err := e.records.MarkRemovingByAlbum(id); err != nil {
		return err
	}
	if err := e.albums.MarkRemoving(id); err != nil {
		return err
	}
	log.Printf("storage: album %d ('%s') marked for removal", id, album.Name)
	return nil
}

// DropAll deletes every row and recreates empty shard trees. Test/reset hook.
func (e *Engine) DropAll() error {
	if err := e.records.DeleteAll(); err != nil {
		return err
	}
	if err := e.albums.DeleteAll(); err != nil {
		return err
	}
	if err := e.paths.Reset(); err != nil {
		return err
	}
	log.Println("storage: all data dropped")
	return nil
}

func (e *Engine) getActiveRecord(id int64) (*models.DataRecord, error) {
	record, err := e.records.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("data record %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return record, nil
}

func removalAllowed(album *models.Album, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if !album.IsProtected() {
		return true
	}
	return album.AllowRemoveData
}

func dataTypeOf(record *models.DataRecord) media.DataType {
	if media.IsImage(record.Extension) {
		return media.DataTypeImage
	}
	if media.IsVideo(record.Extension) {
		return media.DataTypeVideo
	}
	return media.DataTypeBinary
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
