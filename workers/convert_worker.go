package workers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/zerogal/zerogalbackend/config"
	"github.com/zerogal/zerogalbackend/media"
	"github.com/zerogal/zerogalbackend/metrics"
	"github.com/zerogal/zerogalbackend/models"
	"github.com/zerogal/zerogalbackend/repository"
	"github.com/zerogal/zerogalbackend/storage"
)

// ConvertWorker normalizes stored media to the canonical web formats:
// videos to MP4 via the codec and toggled image formats to JPEG in-process.
// A record always ends up COMPLETED once its conversion has been attempted;
// a failed video transcode keeps the original bytes.
type ConvertWorker struct {
	cfg       config.Config
	records   repository.DataRecordRepositoryInterface
	paths     *storage.PathAllocator
	converter media.ImageConverter
	codec     media.VideoCodec
}

func NewConvertWorker(cfg config.Config, records repository.DataRecordRepositoryInterface, paths *storage.PathAllocator, converter media.ImageConverter, codec media.VideoCodec) *ConvertWorker {
	return &ConvertWorker{
		cfg:       cfg,
		records:   records,
		paths:     paths,
		converter: converter,
		codec:     codec,
	}
}

// Run processes every record currently waiting for conversion.
func (w *ConvertWorker) Run(ctx context.Context) {
	waiting, err := w.records.ListWaitingConvert()
	if err != nil {
		log.Printf("ConvertWorker: failed to list waiting records: %v", err)
		return
	}

	for i := range waiting {
		record := &waiting[i]
		if err := w.process(ctx, record); err != nil {
			log.Printf("ConvertWorker: record %d: %v", record.ID, err)
			metrics.ConversionsTotal.WithLabelValues("error").Inc()
		}
	}
}

func (w *ConvertWorker) process(ctx context.Context, record *models.DataRecord) error {
	switch {
	case media.IsVideo(record.Extension):
		return w.processVideo(ctx, record)
	case media.IsImage(record.Extension):
		return w.processImage(record)
	default:
		return w.complete(record.ID, "skipped")
	}
}

func (w *ConvertWorker) processVideo(ctx context.Context, record *models.DataRecord) error {
	if record.Extension == media.CanonicalVideoExtension || !w.cfg.ConvertVideoToMP4 {
		return w.complete(record.ID, "skipped")
	}

	dataPath := w.paths.DataPath(record.ShardIndex, record.Index)

	// stage under the source extension so ffmpeg reads the right container
	namedPath := dataPath + record.Extension
	if err := os.Rename(dataPath, namedPath); err != nil {
		return fmt.Errorf("failed to stage video file: %w", err)
	}
	defer func() {
		// after a successful transcode the staged file is gone
		if _, err := os.Stat(namedPath); err == nil {
			if err := os.Rename(namedPath, dataPath); err != nil {
				log.Printf("ConvertWorker: failed to restore video file %s: %v", dataPath, err)
			}
		}
	}()

	outputPath := filepath.Join(filepath.Dir(dataPath), uuid.NewString()+media.CanonicalVideoExtension)
	ok, err := w.codec.TranscodeToMP4(ctx, namedPath, outputPath)
	if err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to transcode video: %w", err)
	}
	if !ok {
		// keep the original playable rather than retrying forever
		os.Remove(outputPath)
		log.Printf("ConvertWorker: transcode of record %d failed, keeping original %s", record.ID, record.Extension)
		return w.complete(record.ID, "failed")
	}

	if err := os.Remove(namedPath); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to remove original video: %w", err)
	}
	if err := os.Rename(outputPath, dataPath); err != nil {
		return fmt.Errorf("failed to place converted video: %w", err)
	}

	if err := w.records.SetFormat(record.ID, media.CanonicalVideoExtension, media.CanonicalVideoMimeType); err != nil {
		return fmt.Errorf("failed to update record format: %w", err)
	}
	log.Printf("ConvertWorker: converted record %d (%s) to MP4", record.ID, record.Extension)
	return w.complete(record.ID, "ok")
}

func (w *ConvertWorker) processImage(record *models.DataRecord) error {
	if !w.cfg.ImageConvertEnabled(record.Extension) {
		return w.complete(record.ID, "skipped")
	}

	dataPath := w.paths.DataPath(record.ShardIndex, record.Index)
	src, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}

	jpegData, err := w.converter.ConvertToJPEG(src, record.Extension, media.DefaultJpegQuality)
	src.Close()
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}

	if err := os.WriteFile(dataPath, jpegData, 0644); err != nil {
		return fmt.Errorf("failed to write converted image: %w", err)
	}
	if err := w.records.SetFormat(record.ID, media.CanonicalImageExtension, media.CanonicalImageMimeType); err != nil {
		return fmt.Errorf("failed to update record format: %w", err)
	}
	log.Printf("ConvertWorker: converted record %d (%s) to JPEG (%d bytes)", record.ID, record.Extension, len(jpegData))
	return w.complete(record.ID, "ok")
}

func (w *ConvertWorker) complete(id int64, result string) error {
	if err := w.records.SetConvertStatus(id, models.ConvertCompleted); err != nil {
		return fmt.Errorf("failed to mark conversion completed: %w", err)
	}
	metrics.ConversionsTotal.WithLabelValues(result).Inc()
	return nil
}
