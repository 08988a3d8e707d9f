package services

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
)

// MediaPipeline turns an uploaded voice memo into text:
// receive -> normalize (ffmpeg) -> transcribe -> cleanup.
type MediaPipeline struct {
	uploads    *UploadStorage
	converter  Converter
	recognizer Recognizer
}

func NewMediaPipeline(uploads *UploadStorage, converter Converter, recognizer Recognizer) *MediaPipeline {
	return &MediaPipeline{uploads: uploads, converter: converter, recognizer: recognizer}
}

// TranscribeUpload stores the upload under a unique scratch name, runs Transcribe on
// it and deletes the scratch file on every path.
func (p *MediaPipeline) TranscribeUpload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if r == nil || strings.TrimSpace(filename) == "" {
		return "", &MissingFileError{Field: "audio_file"}
	}

	name, err := p.uploads.Save(filename, r)
	if err != nil {
		return "", &StorageError{Op: "save audio upload", Err: err}
	}
	path, err := p.uploads.Path(name)
	if err != nil {
		return "", err
	}
	defer removeScratch(path, "original audio file")

	return p.Transcribe(ctx, path)
}

// Transcribe converts audioPath to a 16 kHz mono WAV next to it and feeds that to the
// recognizer. The converted file is always removed before returning. When conversion
// fails the recognizer is never called and audioPath is removed as well.
func (p *MediaPipeline) Transcribe(ctx context.Context, audioPath string) (string, error) {
	converted := ConvertedPath(audioPath)

	if err := p.converter.Convert(ctx, audioPath, converted); err != nil {
		removeScratch(converted, "converted audio file")
		removeScratch(audioPath, "original audio file")
		var convErr *ConversionError
		if !errors.As(err, &convErr) {
			err = &ConversionError{ExitCode: -1, Err: err}
		}
		log.Printf("[Transcribe] conversion failed: %v", err)
		return "", err
	}
	defer removeScratch(converted, "converted audio file")

	wave, err := LoadWaveform(converted)
	if err != nil {
		return "", &TranscriptionError{Err: err}
	}

	text, err := p.recognizer.Transcribe(ctx, wave)
	if err != nil {
		return "", &TranscriptionError{Err: err}
	}
	log.Printf("[Transcribe] %.1fs of audio transcribed", wave.Duration())
	return strings.TrimSpace(text), nil
}
