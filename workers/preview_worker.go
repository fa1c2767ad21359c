package workers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/disintegration/imaging"

	"github.com/zerogal/zerogalbackend/config"
	"github.com/zerogal/zerogalbackend/media"
	"github.com/zerogal/zerogalbackend/metrics"
	"github.com/zerogal/zerogalbackend/models"
	"github.com/zerogal/zerogalbackend/repository"
	"github.com/zerogal/zerogalbackend/storage"
)

// PreviewWorker generates JPEG previews for records in the waiting state.
// Image previews are produced in-process; video previews grab a frame from
// the converted file via the codec. A failure on one record is logged and
// never blocks the rest of the batch.
type PreviewWorker struct {
	cfg       config.Config
	records   repository.DataRecordRepositoryInterface
	paths     *storage.PathAllocator
	converter media.ImageConverter
	codec     media.VideoCodec
}

func NewPreviewWorker(cfg config.Config, records repository.DataRecordRepositoryInterface, paths *storage.PathAllocator, converter media.ImageConverter, codec media.VideoCodec) *PreviewWorker {
	return &PreviewWorker{
		cfg:       cfg,
		records:   records,
		paths:     paths,
		converter: converter,
		codec:     codec,
	}
}

// Run processes every record currently waiting for a preview.
func (w *PreviewWorker) Run(ctx context.Context) {
	waiting, err := w.records.ListWaitingPreview()
	if err != nil {
		log.Printf("PreviewWorker: failed to list waiting records: %v", err)
		return
	}

	for i := range waiting {
		record := &waiting[i]
		if err := w.process(ctx, record); err != nil {
			log.Printf("PreviewWorker: record %d: %v", record.ID, err)
			metrics.PreviewsGenerated.WithLabelValues("error").Inc()
		}
	}
}

func (w *PreviewWorker) process(ctx context.Context, record *models.DataRecord) error {
	switch {
	case media.IsImage(record.Extension):
		return w.processImage(record)
	case media.IsVideo(record.Extension):
		return w.processVideo(ctx, record)
	default:
		// nothing previewable
		if err := w.records.SetPreviewStatus(record.ID, models.PreviewNoPreview); err != nil {
			return fmt.Errorf("failed to mark no-preview: %w", err)
		}
		metrics.PreviewsGenerated.WithLabelValues("skipped").Inc()
		return nil
	}
}

func (w *PreviewWorker) processImage(record *models.DataRecord) error {
	dataPath := w.paths.DataPath(record.ShardIndex, record.Index)

	src, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	defer src.Close()

	var img image.Image
	if record.Extension == media.CanonicalImageExtension || record.Extension == ".jpeg" {
		img, err = imaging.Decode(src)
		if err != nil {
			return fmt.Errorf("failed to decode image: %w", err)
		}
	} else {
		jpegData, err := w.converter.ConvertToJPEG(src, record.Extension, media.DefaultJpegQuality)
		if err != nil {
			return fmt.Errorf("failed to convert image for preview: %w", err)
		}
		img, err = imaging.Decode(bytes.NewReader(jpegData))
		if err != nil {
			return fmt.Errorf("failed to decode converted image: %w", err)
		}
	}

	preview := media.ResizeToFit(img, w.cfg.PreviewMaxSize)
	previewPath := w.paths.PreviewPath(record.ShardIndex, record.Index)
	if err := imaging.Save(preview, previewPath+media.CanonicalImageExtension); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	// previews carry no extension in the shard tree
	if err := os.Rename(previewPath+media.CanonicalImageExtension, previewPath); err != nil {
		return fmt.Errorf("failed to place preview file: %w", err)
	}

	if err := w.records.SetPreviewStatus(record.ID, models.PreviewHasPreview); err != nil {
		return fmt.Errorf("failed to mark preview done: %w", err)
	}
	metrics.PreviewsGenerated.WithLabelValues("ok").Inc()
	log.Printf("PreviewWorker: generated image preview for record %d", record.ID)
	return nil
}

func (w *PreviewWorker) processVideo(ctx context.Context, record *models.DataRecord) error {
	// the frame must come from the final rendition, not from a file the
	// converter may still rewrite
	if record.ConvertStatus == models.ConvertWaiting {
		return nil
	}

	dataPath := w.paths.DataPath(record.ShardIndex, record.Index)
	if _, err := os.Stat(dataPath); err != nil {
		return fmt.Errorf("data file not accessible: %w", err)
	}

	// ffmpeg infers the container from the name; give the extensionless
	// shard file its extension back for the duration of the extraction
	namedPath := dataPath + record.Extension
	if err := os.Rename(dataPath, namedPath); err != nil {
		return fmt.Errorf("failed to stage video file: %w", err)
	}
	defer func() {
		if err := os.Rename(namedPath, dataPath); err != nil {
			log.Printf("PreviewWorker: failed to restore video file %s: %v", dataPath, err)
		}
	}()

	duration, err := w.codec.ProbeDuration(ctx, namedPath)
	if err != nil {
		return fmt.Errorf("failed to probe video duration: %w", err)
	}

	// a frame somewhere inside the middle 90% avoids black lead-ins and
	// credits
	position := time.Duration(float64(duration) * (0.05 + rand.Float64()*0.90))

	previewPath := w.paths.PreviewPath(record.ShardIndex, record.Index)
	framePath := previewPath + media.CanonicalImageExtension
	ok, err := w.codec.ExtractFrame(ctx, namedPath, framePath, position, w.cfg.PreviewMaxSize, 3)
	if err != nil {
		return fmt.Errorf("failed to extract video frame: %w", err)
	}
	if !ok {
		// leave the record waiting; the next tick retries
		return fmt.Errorf("frame extraction unsuccessful")
	}
	if err := os.Rename(framePath, previewPath); err != nil {
		return fmt.Errorf("failed to place preview file: %w", err)
	}

	if err := w.records.SetPreviewStatus(record.ID, models.PreviewHasPreview); err != nil {
		return fmt.Errorf("failed to mark preview done: %w", err)
	}
	metrics.PreviewsGenerated.WithLabelValues("ok").Inc()
	log.Printf("PreviewWorker: generated video preview for record %d (frame at %s of %s)", record.ID, position.Round(time.Second), duration.Round(time.Second))
	return nil
}
