package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultDataSubDir   = "data"
	DefaultThumbsSubDir = "thumbs"
)

const (
	defaultPreviewMaxSize      = 512
	defaultPreviewInterval     = 30 * time.Second
	defaultConvertInterval     = 30 * time.Second
	defaultScavengerInterval   = 10 * time.Second
	defaultConsistencyInterval = 3 * time.Hour
	defaultCodecTimeout        = 5 * time.Minute
)

type Config struct {
	// root for stored objects; data/ and thumbs/ shard trees live under it
	DataFolder string

	// database path
	DatabasePath string

	// assets directory with blank placeholder previews
	AssetsPath string

	// access control tokens; empty disables the corresponding check
	APIWriteToken  string
	APIMasterToken string

	// preview generation settings
	PreviewMaxSize int

	// video conversion master switch
	ConvertVideoToMP4 bool

	// per-source-format image conversion toggles
	ConvertHeicToJpg bool
	ConvertTiffToJpg bool
	ConvertDngToJpg  bool
	ConvertCr2ToJpg  bool
	ConvertNefToJpg  bool
	ConvertArwToJpg  bool
	ConvertOrfToJpg  bool
	ConvertSr2ToJpg  bool
	ConvertSrfToJpg  bool

	// external codec binaries
	FFmpegPath  string
	FFprobePath string

	// bound on a single codec invocation so a hung ffmpeg cannot stall a
	// worker tick forever
	CodecTimeout time.Duration

	// worker schedules
	PreviewInterval     time.Duration
	ConvertInterval     time.Duration
	ScavengerInterval   time.Duration
	ConsistencyInterval time.Duration
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %v. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvDurationOrDefault(envVar string, defaultVal time.Duration) time.Duration {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := time.ParseDuration(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %s. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dataFolder := getEnvOrDefault("DATA_FOLDER", filepath.Join(".", "gallery_data"))
	absDataFolder, err := filepath.Abs(dataFolder)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for data folder '%s': %w", dataFolder, err)
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "gallery.db")
	assetsPath := getEnvOrDefault("ASSETS_PATH", filepath.Join(".", "assets"))

	cfg := Config{
		DataFolder:   absDataFolder,
		DatabasePath: dbPath,
		AssetsPath:   assetsPath,

		APIWriteToken:  os.Getenv("API_WRITE_TOKEN"),
		APIMasterToken: os.Getenv("API_MASTER_TOKEN"),

		PreviewMaxSize: getEnvIntOrDefault("PREVIEW_MAX_SIZE", defaultPreviewMaxSize),

		ConvertVideoToMP4: getEnvBoolOrDefault("CONVERT_VIDEO_TO_MP4", true),
		ConvertHeicToJpg:  getEnvBoolOrDefault("CONVERT_HEIC_TO_JPG", false),
		ConvertTiffToJpg:  getEnvBoolOrDefault("CONVERT_TIFF_TO_JPG", false),
		ConvertDngToJpg:   getEnvBoolOrDefault("CONVERT_DNG_TO_JPG", true),
		ConvertCr2ToJpg:   getEnvBoolOrDefault("CONVERT_CR2_TO_JPG", true),
		ConvertNefToJpg:   getEnvBoolOrDefault("CONVERT_NEF_TO_JPG", true),
		ConvertArwToJpg:   getEnvBoolOrDefault("CONVERT_ARW_TO_JPG", true),
		ConvertOrfToJpg:   getEnvBoolOrDefault("CONVERT_ORF_TO_JPG", true),
		ConvertSr2ToJpg:   getEnvBoolOrDefault("CONVERT_SR2_TO_JPG", true),
		ConvertSrfToJpg:   getEnvBoolOrDefault("CONVERT_SRF_TO_JPG", true),

		FFmpegPath:   getEnvOrDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:  getEnvOrDefault("FFPROBE_PATH", "ffprobe"),
		CodecTimeout: getEnvDurationOrDefault("CODEC_TIMEOUT", defaultCodecTimeout),

		PreviewInterval:     getEnvDurationOrDefault("PREVIEW_INTERVAL", defaultPreviewInterval),
		ConvertInterval:     getEnvDurationOrDefault("CONVERT_INTERVAL", defaultConvertInterval),
		ScavengerInterval:   getEnvDurationOrDefault("SCAVENGER_INTERVAL", defaultScavengerInterval),
		ConsistencyInterval: getEnvDurationOrDefault("CONSISTENCY_INTERVAL", defaultConsistencyInterval),
	}

	return cfg, nil
}

// ImageConvertEnabled reports whether the given source extension should be
// normalized to JPEG. Each source format has its own independent toggle.
func (c Config) ImageConvertEnabled(extension string) bool {
	switch extension {
	case ".heic", ".heif":
		return c.ConvertHeicToJpg
	case ".tiff", ".tif":
		return c.ConvertTiffToJpg
	case ".dng":
		return c.ConvertDngToJpg
	case ".cr2":
		return c.ConvertCr2ToJpg
	case ".nef":
		return c.ConvertNefToJpg
	case ".arw":
		return c.ConvertArwToJpg
	case ".orf":
		return c.ConvertOrfToJpg
	case ".sr2":
		return c.ConvertSr2ToJpg
	case ".srf":
		return c.ConvertSrfToJpg
	}
	return false
}
