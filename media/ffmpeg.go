package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// VideoCodec is the conversion contract consumed by the background workers.
// Implementations perform the actual frame/pixel work; the engine and the
// workers only care about success and the produced files.
type VideoCodec interface {
	// ProbeDuration returns the total duration of the media at inputPath
	ProbeDuration(ctx context.Context, inputPath string) (time.Duration, error)
	// TranscodeToMP4 writes a constant-quality MP4 rendition to outputPath
	TranscodeToMP4(ctx context.Context, inputPath, outputPath string) (bool, error)
	// ExtractFrame writes a single JPEG frame taken at position to outputPath
	ExtractFrame(ctx context.Context, inputPath, outputPath string, position time.Duration, width, quality int) (bool, error)
}

// FFmpeg drives the external ffmpeg/ffprobe binaries. Every invocation is
// bounded by Timeout so a hung codec cannot stall a worker tick forever.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	Timeout     time.Duration

	// CRF for MP4 transcodes; 21 matches a "high" constant-quality encode
	CRF int
}

// NewFFmpeg creates a codec around the given binary paths.
func NewFFmpeg(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Timeout:     timeout,
		CRF:         21,
	}
}

func (f *FFmpeg) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, f.Timeout)
}

// ProbeDuration asks ffprobe for the container duration in seconds.
func (f *FFmpeg) ProbeDuration(ctx context.Context, inputPath string) (time.Duration, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}

	durStr := strings.TrimSpace(stdout.String())
	seconds, err := strconv.ParseFloat(durStr, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparsable duration %q: %w", durStr, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// TranscodeToMP4 produces a web-playable H.264/AAC MP4 at outputPath.
func (f *FFmpeg) TranscodeToMP4(ctx context.Context, inputPath, outputPath string) (bool, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(f.CRF),
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("media.ffmpeg: transcode of %s failed: %v: %s", inputPath, err, tail(stderr.String()))
		return false, nil
	}
	return true, nil
}

// ExtractFrame grabs one frame at position as a JPEG, scaled to width
// (height follows the aspect ratio). quality is ffmpeg's 1-31 q:v scale.
func (f *FFmpeg) ExtractFrame(ctx context.Context, inputPath, outputPath string, position time.Duration, width, quality int) (bool, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-y",
		"-ss", fmt.Sprintf("%.3f", position.Seconds()),
		"-i", inputPath,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:-1", width),
		"-q:v", strconv.Itoa(quality),
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("media.ffmpeg: frame extraction from %s failed: %v: %s", inputPath, err, tail(stderr.String()))
		return false, nil
	}
	return true, nil
}

// decodeImageStream renders an arbitrary still image (RAW, HEIC, anything
// ffmpeg can read) from r into a single PNG frame on stdout.
func (f *FFmpeg) decodeImageStream(ctx context.Context, r io.Reader) ([]byte, error) {
	ctx, cancel := f.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-i", "-",
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	cmd.Stdin = r

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg image decode failed: %w: %s", err, tail(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg image decode produced no output")
	}
	return stdout.Bytes(), nil
}

// tail keeps log lines readable when ffmpeg dumps its full banner to stderr
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 400 {
		return s
	}
	return "..." + s[len(s)-400:]
}
