package workers

import (
	"context"
	"log"
	"os"

	"github.com/zerogal/zerogalbackend/metrics"
	"github.com/zerogal/zerogalbackend/models"
	"github.com/zerogal/zerogalbackend/repository"
	"github.com/zerogal/zerogalbackend/storage"
)

// Scavenger performs all physical deletion. The frequent removal sweep
// deletes files and rows for records and albums marked in_removing; the
// infrequent consistency sweep repairs drift between rows and the shard
// trees.
type Scavenger struct {
	albums  repository.AlbumRepositoryInterface
	records repository.DataRecordRepositoryInterface
	paths   *storage.PathAllocator
}

func NewScavenger(albums repository.AlbumRepositoryInterface, records repository.DataRecordRepositoryInterface, paths *storage.PathAllocator) *Scavenger {
	return &Scavenger{
		albums:  albums,
		records: records,
		paths:   paths,
	}
}

// RunRemoval deletes everything currently marked for removal.
func (s *Scavenger) RunRemoval(ctx context.Context) {
	s.removeRecords()
	s.removeEmptyAlbums()
}

func (s *Scavenger) removeRecords() {
	removing, err := s.records.ListRemoving()
	if err != nil {
		log.Printf("Scavenger: failed to list removing records: %v", err)
		return
	}

	for i := range removing {
		record := &removing[i]

		dataPath := s.paths.DataPath(record.ShardIndex, record.Index)
		if err := removeIfPresent(dataPath); err != nil {
			log.Printf("Scavenger: failed to remove data file for record %d: %v", record.ID, err)
			continue
		}
		previewPath := s.paths.PreviewPath(record.ShardIndex, record.Index)
		if err := removeIfPresent(previewPath); err != nil {
			log.Printf("Scavenger: failed to remove preview file for record %d: %v", record.ID, err)
			continue
		}

		rows, err := s.records.Delete(record.ID)
		if err != nil {
			log.Printf("Scavenger: failed to delete record %d: %v", record.ID, err)
			continue
		}
		if rows == 0 {
			log.Printf("Scavenger: record %d already gone", record.ID)
			continue
		}
		metrics.ScavengerRemovals.Inc()
		log.Printf("Scavenger: removed record %d", record.ID)
	}
}

// removeEmptyAlbums deletes a removing album only once the removal sweep
// has drained all of its records.
func (s *Scavenger) removeEmptyAlbums() {
	removing, err := s.albums.ListRemoving()
	if err != nil {
		log.Printf("Scavenger: failed to list removing albums: %v", err)
		return
	}

	for i := range removing {
		album := &removing[i]

		count, err := s.records.CountActiveByAlbum(album.ID)
		if err != nil {
			log.Printf("Scavenger: failed to count records of album %d: %v", album.ID, err)
			continue
		}
		if count > 0 {
			continue
		}

		if _, err := s.albums.Delete(album.ID); err != nil {
			log.Printf("Scavenger: failed to delete album %d: %v", album.ID, err)
			continue
		}
		metrics.ScavengerRemovals.Inc()
		log.Printf("Scavenger: removed album %d ('%s')", album.ID, album.Name)
	}
}

// RunConsistency repairs drift: records whose primary file vanished are
// dropped entirely, and records claiming a preview that is gone are put
// back in the preview queue.
func (s *Scavenger) RunConsistency(ctx context.Context) {
	active, err := s.records.ListActive()
	if err != nil {
		log.Printf("Scavenger: consistency sweep failed to list records: %v", err)
		return
	}

	for i := range active {
		record := &active[i]

		dataPath := s.paths.DataPath(record.ShardIndex, record.Index)
		if !fileExists(dataPath) {
			log.Printf("Scavenger: record %d lost its data file, dropping row", record.ID)
			if err := removeIfPresent(s.paths.PreviewPath(record.ShardIndex, record.Index)); err != nil {
				log.Printf("Scavenger: failed to remove dangling preview for record %d: %v", record.ID, err)
			}
			if _, err := s.records.Delete(record.ID); err != nil {
				log.Printf("Scavenger: failed to delete orphan record %d: %v", record.ID, err)
				continue
			}
			metrics.ConsistencyRepairs.WithLabelValues("orphan_row").Inc()
			continue
		}

		if record.PreviewStatus == models.PreviewHasPreview && !fileExists(s.paths.PreviewPath(record.ShardIndex, record.Index)) {
			log.Printf("Scavenger: record %d lost its preview, requeueing", record.ID)
			if err := s.records.SetPreviewStatus(record.ID, models.PreviewWaiting); err != nil {
				log.Printf("Scavenger: failed to requeue preview for record %d: %v", record.ID, err)
				continue
			}
			metrics.ConsistencyRepairs.WithLabelValues("lost_preview").Inc()
		}
	}
}

func removeIfPresent(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
