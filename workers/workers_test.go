package workers

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zerogal/zerogalbackend/config"
	"github.com/zerogal/zerogalbackend/models"
	"github.com/zerogal/zerogalbackend/repository"
	"github.com/zerogal/zerogalbackend/storage"
)

type testEnv struct {
	cfg     config.Config
	albums  *repository.AlbumRepository
	records *repository.DataRecordRepository
	paths   *storage.PathAllocator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Album{}, &models.DataRecord{}))

	paths, err := storage.NewPathAllocator(t.TempDir())
	require.NoError(t, err)

	return &testEnv{
		cfg: config.Config{
			PreviewMaxSize:    64,
			ConvertVideoToMP4: true,
		},
		albums:  repository.NewAlbumRepository(db),
		records: repository.NewDataRecordRepository(db),
		paths:   paths,
	}
}

// addRecord inserts a row and writes content to its allocated data path.
func (env *testEnv) addRecord(t *testing.T, extension, mimeType string, previewStatus, convertStatus int, content []byte) *models.DataRecord {
	t.Helper()

	shard := 1
	index, dataPath, _, err := env.paths.Allocate(shard)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dataPath, content, 0644))

	record := &models.DataRecord{
		AlbumID:          models.NoAlbumID,
		Size:             int64(len(content)),
		CreatedTimestamp: time.Now().Unix(),
		ShardIndex:       shard,
		Index:            index,
		Name:             "test" + extension,
		Extension:        extension,
		MimeType:         mimeType,
		PreviewStatus:    previewStatus,
		ConvertStatus:    convertStatus,
	}
	require.NoError(t, env.records.Create(record))
	return record
}

func (env *testEnv) reload(t *testing.T, id int64) *models.DataRecord {
	t.Helper()
	record, err := env.records.GetByID(id)
	require.NoError(t, err)
	return record
}

func smallJPEG(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(16, 12, image.White.C)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := imaging.New(16, 12, image.White.C)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

// fakeCodec simulates ffmpeg: successes produce real output files, failures
// produce nothing.
type fakeCodec struct {
	duration    time.Duration
	probeErr    error
	transcodeOK bool
	extractOK   bool
	frame       []byte
	mp4Output   []byte

	probeCalls     int
	transcodeCalls int
	extractCalls   int
	lastInputPath  string
}

func (f *fakeCodec) ProbeDuration(_ context.Context, inputPath string) (time.Duration, error) {
	f.probeCalls++
	f.lastInputPath = inputPath
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.duration, nil
}

func (f *fakeCodec) TranscodeToMP4(_ context.Context, inputPath, outputPath string) (bool, error) {
	f.transcodeCalls++
	f.lastInputPath = inputPath
	if !f.transcodeOK {
		return false, nil
	}
	return true, os.WriteFile(outputPath, f.mp4Output, 0644)
}

func (f *fakeCodec) ExtractFrame(_ context.Context, inputPath, outputPath string, _ time.Duration, _, _ int) (bool, error) {
	f.extractCalls++
	f.lastInputPath = inputPath
	if !f.extractOK {
		return false, nil
	}
	return true, os.WriteFile(outputPath, f.frame, 0644)
}

// fakeConverter returns canned JPEG bytes for any image input.
type fakeConverter struct {
	output []byte
	err    error
	calls  int
}

func (f *fakeConverter) ConvertToJPEG(r io.Reader, _ string, _ int) ([]byte, error) {
	f.calls++
	io.Copy(io.Discard, r)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

var errConvertFailed = errors.New("conversion failed")

// failOnceConverter fails its first call and succeeds afterwards.
type failOnceConverter struct {
	output []byte
	calls  int
}

func (f *failOnceConverter) ConvertToJPEG(r io.Reader, _ string, _ int) ([]byte, error) {
	f.calls++
	io.Copy(io.Discard, r)
	if f.calls == 1 {
		return nil, errConvertFailed
	}
	return f.output, nil
}
