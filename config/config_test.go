package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.PreviewMaxSize)
	assert.True(t, cfg.ConvertVideoToMP4)
	assert.False(t, cfg.ConvertHeicToJpg)
	assert.False(t, cfg.ConvertTiffToJpg)
	assert.True(t, cfg.ConvertDngToJpg)
	assert.True(t, cfg.ConvertCr2ToJpg)
	assert.Equal(t, 30*time.Second, cfg.PreviewInterval)
	assert.Equal(t, 10*time.Second, cfg.ScavengerInterval)
	assert.Equal(t, 3*time.Hour, cfg.ConsistencyInterval)
	assert.Equal(t, 5*time.Minute, cfg.CodecTimeout)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PREVIEW_MAX_SIZE", "256")
	t.Setenv("CONVERT_VIDEO_TO_MP4", "false")
	t.Setenv("CONVERT_HEIC_TO_JPG", "true")
	t.Setenv("SCAVENGER_INTERVAL", "2s")
	t.Setenv("CODEC_TIMEOUT", "90s")
	t.Setenv("API_WRITE_TOKEN", "write-token")
	t.Setenv("API_MASTER_TOKEN", "master-token")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.PreviewMaxSize)
	assert.False(t, cfg.ConvertVideoToMP4)
	assert.True(t, cfg.ConvertHeicToJpg)
	assert.Equal(t, 2*time.Second, cfg.ScavengerInterval)
	assert.Equal(t, 90*time.Second, cfg.CodecTimeout)
	assert.Equal(t, "write-token", cfg.APIWriteToken)
	assert.Equal(t, "master-token", cfg.APIMasterToken)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("PREVIEW_MAX_SIZE", "not-a-number")
	t.Setenv("CONVERT_VIDEO_TO_MP4", "maybe")
	t.Setenv("PREVIEW_INTERVAL", "-5s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 512, cfg.PreviewMaxSize)
	assert.True(t, cfg.ConvertVideoToMP4)
	assert.Equal(t, 30*time.Second, cfg.PreviewInterval)
}

func TestImageConvertEnabled(t *testing.T) {
	cfg := Config{
		ConvertHeicToJpg: true,
		ConvertDngToJpg:  true,
		ConvertTiffToJpg: false,
	}

	assert.True(t, cfg.ImageConvertEnabled(".heic"))
	assert.True(t, cfg.ImageConvertEnabled(".heif"))
	assert.True(t, cfg.ImageConvertEnabled(".dng"))
	assert.False(t, cfg.ImageConvertEnabled(".tiff"))
	assert.False(t, cfg.ImageConvertEnabled(".tif"))

	// canonical and unknown formats are never converted
	assert.False(t, cfg.ImageConvertEnabled(".jpg"))
	assert.False(t, cfg.ImageConvertEnabled(".png"))
	assert.False(t, cfg.ImageConvertEnabled(".mp4"))
}
