package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFmpegArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-i", "in.webm", "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", "-y", "out.wav"},
		ffmpegArgs("in.webm", "out.wav"))
}

func TestConvertedPath(t *testing.T) {
	assert.Equal(t, "/tmp/a/memo_converted.wav", ConvertedPath("/tmp/a/memo.webm"))
	assert.Equal(t, "/tmp/a/memo_converted.wav", ConvertedPath("/tmp/a/memo"))
	assert.Equal(t, "clip.v2_converted.wav", ConvertedPath("clip.v2.wav"))
	assert.Equal(t, "/up/20240101120000001000_blob_converted.wav", ConvertedPath("/up/20240101120000001000_blob"))
	assert.Equal(t, "/up/20240101120000.001000_memo_converted.wav", ConvertedPath("/up/20240101120000.001000_memo"))
}

func TestFFmpegConverter_MissingBinary(t *testing.T) {
	conv := NewFFmpegConverter(filepath.Join(t.TempDir(), "no-ffmpeg-here"))
	err := conv.Convert(context.Background(), "in.webm", "out.wav")

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, -1, convErr.ExitCode)
}

// fakeFFmpeg installs a shell script standing in for the ffmpeg binary.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestFFmpegConverter_NonZeroExit(t *testing.T) {
	conv := NewFFmpegConverter(fakeFFmpeg(t, `echo "Invalid data found when processing input" >&2; exit 1`))
	err := conv.Convert(context.Background(), "in.webm", filepath.Join(t.TempDir(), "out.wav"))

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, 1, convErr.ExitCode)
	assert.Equal(t, "Invalid data found when processing input", convErr.Stderr)
}

func TestFFmpegConverter_NoOutput(t *testing.T) {
	conv := NewFFmpegConverter(fakeFFmpeg(t, `exit 0`))
	err := conv.Convert(context.Background(), "in.webm", filepath.Join(t.TempDir(), "out.wav"))

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, 0, convErr.ExitCode)
}

func TestFFmpegConverter_Success(t *testing.T) {
	// The last argument is the output path.
	conv := NewFFmpegConverter(fakeFFmpeg(t, `for last; do :; done; printf RIFF > "$last"`))
	out := filepath.Join(t.TempDir(), "out.wav")
	require.NoError(t, conv.Convert(context.Background(), "in.webm", out))
	assert.FileExists(t, out)
}
