package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// TargetSampleRate is the rate the speech model expects.
const TargetSampleRate = 16000

// Converter normalizes an arbitrary audio container into a mono 16 kHz PCM16 WAV.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) error
}

// FFmpegConverter runs the ffmpeg binary as a blocking subprocess.
type FFmpegConverter struct {
	Path string
}

func NewFFmpegConverter(path string) *FFmpegConverter {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegConverter{Path: path}
}

func ffmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-ar", strconv.Itoa(TargetSampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outputPath,
	}
}

// Convert returns a *ConversionError when ffmpeg cannot be started, exits non-zero
// or leaves no output file behind.
func (c *FFmpegConverter) Convert(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, c.Path, ffmpegArgs(inputPath, outputPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Printf("[FFmpeg] converting %s -> %s", filepath.Base(inputPath), filepath.Base(outputPath))
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ConversionError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
				Err:      err,
			}
		}
		return &ConversionError{ExitCode: -1, Err: fmt.Errorf("run %s: %w", c.Path, err)}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return &ConversionError{ExitCode: 0, Stderr: strings.TrimSpace(stderr.String()), Err: fmt.Errorf("no output file: %w", err)}
	}
	return nil
}

// ConvertedPath derives the scratch path for the normalized copy of inputPath:
// the extension is replaced by "_converted.wav". A dotted suffix containing "_"
// belongs to the name (e.g. a timestamp prefix), not the extension, and is kept.
func ConvertedPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	if strings.Contains(ext, "_") {
		ext = ""
	}
	return strings.TrimSuffix(inputPath, ext) + "_converted.wav"
}
