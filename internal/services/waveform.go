package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Waveform is a mono signal with samples in [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the length of the signal in seconds.
func (w *Waveform) Duration() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// LoadWaveform decodes a PCM WAV file, keeps only its first channel and resamples
// to TargetSampleRate if the file uses any other rate.
func LoadWaveform(path string) (*Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	if channels < 1 || depth < 8 || depth > 32 {
		return nil, fmt.Errorf("unsupported wav layout: %d channels, %d bits", channels, depth)
	}

	w := &Waveform{
		Samples:    firstChannel(buf.Data, channels, depth),
		SampleRate: int(dec.SampleRate),
	}
	if w.SampleRate != TargetSampleRate {
		log.Printf("Warning: converted audio sample rate is %dHz, expected %dHz. Resampling again.", w.SampleRate, TargetSampleRate)
		w = w.Resample(TargetSampleRate)
	}
	return w, nil
}

// firstChannel de-interleaves channel 0 and scales integer PCM to [-1, 1].
func firstChannel(data []int, channels, bitDepth int) []float32 {
	scale := float32(int64(1) << uint(bitDepth-1))
	frames := len(data) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		v := data[i*channels]
		if bitDepth == 8 {
			// 8-bit WAV is unsigned.
			v -= 128
		}
		out[i] = float32(v) / scale
	}
	return out
}

// Resample converts the signal to rate by linear interpolation.
func (w *Waveform) Resample(rate int) *Waveform {
	if rate == w.SampleRate || len(w.Samples) == 0 || w.SampleRate == 0 {
		return &Waveform{Samples: w.Samples, SampleRate: rate}
	}
	ratio := float64(w.SampleRate) / float64(rate)
	n := int(math.Round(float64(len(w.Samples)) / ratio))
	out := make([]float32, n)
	last := len(w.Samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		if j >= last {
			out[i] = w.Samples[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = w.Samples[j]*(1-frac) + w.Samples[j+1]*frac
	}
	return &Waveform{Samples: out, SampleRate: rate}
}

// WriteWAV encodes the signal as mono 16-bit PCM.
func (w *Waveform) WriteWAV(ws io.WriteSeeker) error {
	data := make([]int, len(w.Samples))
	for i, s := range w.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(math.Round(float64(s) * math.MaxInt16))
	}

	enc := wav.NewEncoder(ws, w.SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return enc.Close()
}
