package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
)

// Recognizer turns a mono 16 kHz waveform into plain transcript text.
type Recognizer interface {
	Transcribe(ctx context.Context, w *Waveform) (string, error)
}

// WhisperRecognizer sends audio to an OpenAI-compatible transcription endpoint.
// The client is built once at startup and shared by all requests.
type WhisperRecognizer struct {
	client     openai.Client
	model      string
	scratchDir string
}

// NewWhisperRecognizer writes its request audio to scratchDir, or os.TempDir() when
// empty. scratchDir must not be a publicly served directory.
func NewWhisperRecognizer(client openai.Client, model, scratchDir string) *WhisperRecognizer {
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &WhisperRecognizer{client: client, model: model, scratchDir: scratchDir}
}

func (r *WhisperRecognizer) Transcribe(ctx context.Context, w *Waveform) (string, error) {
	if w.SampleRate != TargetSampleRate {
		w = w.Resample(TargetSampleRate)
	}

	f, err := os.CreateTemp(r.scratchDir, "asr-*.wav")
	if err != nil {
		return "", fmt.Errorf("create request audio: %w", err)
	}
	defer removeScratch(f.Name(), "speech request audio")
	defer f.Close()

	if err := w.WriteWAV(f); err != nil {
		return "", err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return "", err
	}

	res, err := r.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(r.model),
	})
	if err != nil {
		return "", fmt.Errorf("speech model %s: %w", r.model, err)
	}
	return strings.TrimSpace(res.Text), nil
}
