package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned where absence is exceptional (e.g. serving a missing upload).
// Entry lookups report absence through their bool result instead.
var ErrNotFound = errors.New("not found")

// ValidationError represents missing or malformed required input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func requiredField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// StorageError reports a failed persistence operation. Writes are rolled back
// before it is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// MissingFileError is returned when an upload is absent or has no filename.
type MissingFileError struct {
	Field string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("no file provided in %q", e.Field)
}

// ConversionError is returned when the audio converter is missing or exits non-zero.
type ConversionError struct {
	ExitCode int // -1 when the executable could not be started
	Stderr   string
	Err      error
}

func (e *ConversionError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("audio conversion failed: %v", e.Err)
	}
	return fmt.Sprintf("audio conversion failed (exit code %d): %s", e.ExitCode, e.Stderr)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// TranscriptionError wraps any failure while decoding the waveform or running the
// speech-recognition model.
type TranscriptionError struct {
	Err error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %v", e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// SynthesisError wraps a summarization failure.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("story generation failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
