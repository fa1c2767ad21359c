package storage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// ShardCount bounds per-directory file counts; a record's shard index is
// always in [0, ShardCount).
const ShardCount = 255

// fileNameWidth is the fixed decimal width of on-disk filenames. Zero
// padding makes a lexical directory listing equal a numeric sort, which
// Recover relies on.
var fileNameWidth = len(strconv.Itoa(math.MaxInt32))

// PathAllocator maps write events to deterministic, collision-free on-disk
// locations: <root>/data/<shard>/<index> with the preview at the same
// relative path under <root>/thumbs. Per-shard counters are recovered from
// the filenames already on disk, so indexes stay durable across restarts
// without a separate counter table.
type PathAllocator struct {
	mu       sync.Mutex
	counters [ShardCount]int

	dataRoot   string
	thumbsRoot string
}

// NewPathAllocator prepares the data/thumbs roots under dataFolder and
// recovers the shard counters from disk.
func NewPathAllocator(dataFolder string) (*PathAllocator, error) {
	p := &PathAllocator{
		dataRoot:   filepath.Join(dataFolder, "data"),
		thumbsRoot: filepath.Join(dataFolder, "thumbs"),
	}
	if err := os.MkdirAll(p.dataRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data root '%s': %w", p.dataRoot, err)
	}
	if err := os.MkdirAll(p.thumbsRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbs root '%s': %w", p.thumbsRoot, err)
	}
	if err := p.Recover(); err != nil {
		return nil, err
	}
	return p, nil
}

// Recover rescans every shard directory and seeds each counter with the
// highest filename found, or 0 for empty/absent shards.
func (p *PathAllocator) Recover() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for shard := 0; shard < ShardCount; shard++ {
		p.counters[shard] = 0
		entries, err := os.ReadDir(p.shardDataDir(shard))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("failed to scan shard %03d: %w", shard, err)
		}
		maxIndex := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			idx, err := strconv.Atoi(entry.Name())
			if err != nil {
				continue
			}
			if idx > maxIndex {
				maxIndex = idx
			}
		}
		p.counters[shard] = maxIndex
	}
	return nil
}

// ShardForTimestamp selects the shard for a new write.
func ShardForTimestamp(unixTimestamp int64) int {
	return int(unixTimestamp % ShardCount)
}

// Allocate reserves the next file index in the shard and returns it together
// with the absolute data and preview paths. Shard directories are created
// lazily on first allocation.
func (p *PathAllocator) Allocate(shardIndex int) (int, string, string, error) {
	if shardIndex < 0 || shardIndex >= ShardCount {
		return 0, "", "", fmt.Errorf("shard index %d out of range", shardIndex)
	}

	p.mu.Lock()
	fileIndex := p.counters[shardIndex] + 1
	p.counters[shardIndex] = fileIndex
	p.mu.Unlock()

	dataDir := p.shardDataDir(shardIndex)
	thumbsDir := p.shardThumbsDir(shardIndex)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return 0, "", "", fmt.Errorf("failed to create shard data dir '%s': %w", dataDir, err)
	}
	if err := os.MkdirAll(thumbsDir, 0755); err != nil {
		return 0, "", "", fmt.Errorf("failed to create shard thumbs dir '%s': %w", thumbsDir, err)
	}

	name := formatFileName(fileIndex)
	return fileIndex, filepath.Join(dataDir, name), filepath.Join(thumbsDir, name), nil
}

// DataPath returns the absolute primary file path for a stored record.
func (p *PathAllocator) DataPath(shardIndex, fileIndex int) string {
	return filepath.Join(p.shardDataDir(shardIndex), formatFileName(fileIndex))
}

// PreviewPath returns the absolute preview file path for a stored record.
func (p *PathAllocator) PreviewPath(shardIndex, fileIndex int) string {
	return filepath.Join(p.shardThumbsDir(shardIndex), formatFileName(fileIndex))
}

// Reset wipes both shard trees, recreates the empty roots and re-runs
// counter recovery. Used by DropAll.
func (p *PathAllocator) Reset() error {
	if err := os.RemoveAll(p.dataRoot); err != nil {
		return fmt.Errorf("failed to remove data root: %w", err)
	}
	if err := os.RemoveAll(p.thumbsRoot); err != nil {
		return fmt.Errorf("failed to remove thumbs root: %w", err)
	}
	if err := os.MkdirAll(p.dataRoot, 0755); err != nil {
		return fmt.Errorf("failed to recreate data root: %w", err)
	}
	if err := os.MkdirAll(p.thumbsRoot, 0755); err != nil {
		return fmt.Errorf("failed to recreate thumbs root: %w", err)
	}
	return p.Recover()
}

func (p *PathAllocator) shardDataDir(shardIndex int) string {
	return filepath.Join(p.dataRoot, shardDirName(shardIndex))
}

func (p *PathAllocator) shardThumbsDir(shardIndex int) string {
	return filepath.Join(p.thumbsRoot, shardDirName(shardIndex))
}

func shardDirName(shardIndex int) string {
	return fmt.Sprintf("%03d", shardIndex)
}

func formatFileName(fileIndex int) string {
	return fmt.Sprintf("%0*d", fileNameWidth, fileIndex)
}
