package transcode

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-eq/logging"
)

// EncoderConfig holds encoder configuration
type EncoderConfig struct {
	BitDepth int `json:"bit_depth" yaml:"bit_depth"`
}

// DefaultEncoderConfig returns 16-bit PCM output
func DefaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{BitDepth: 16}
}

// EncodeStats reports what happened while writing samples
type EncodeStats struct {
	Frames  int `json:"frames"`
	Clipped int `json:"clipped"`
}

// Encoder writes mono float samples as PCM WAV.
// Samples that do not fit the target bit depth are clipped.
type Encoder struct {
	config *EncoderConfig
}

// NewEncoder creates a new WAV encoder
func NewEncoder(config *EncoderConfig) (*Encoder, error) {
	if config == nil {
		config = DefaultEncoderConfig()
	}
	if !supportedBitDepth(config.BitDepth) {
		return nil, fmt.Errorf("%w: %d-bit output", ErrUnsupportedFormat, config.BitDepth)
	}
	return &Encoder{config: config}, nil
}

// EncodeFile writes data to a new file at path
func (e *Encoder) EncodeFile(path string, data *AudioData) (EncodeStats, error) {
	f, err := os.Create(path)
	if err != nil {
		return EncodeStats{}, fmt.Errorf("output file creation error: %w", err)
	}

	stats, err := e.Encode(f, data)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return stats, err
}

// Encode writes data as a WAV stream to w
func (e *Encoder) Encode(w io.WriteSeeker, data *AudioData) (EncodeStats, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "wav_encoder",
		"function":  "Encode",
	})

	if data == nil || len(data.PCM) == 0 {
		return EncodeStats{}, ErrEmptyAudio
	}
	if data.SampleRate <= 0 {
		return EncodeStats{}, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, data.SampleRate)
	}

	ints, clipped := quantize(data.PCM, e.config.BitDepth)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: data.SampleRate},
		Data:           ints,
		SourceBitDepth: e.config.BitDepth,
	}

	enc := wav.NewEncoder(w, data.SampleRate, e.config.BitDepth, 1, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return EncodeStats{}, fmt.Errorf("data writing error: %w", err)
	}
	if err := enc.Close(); err != nil {
		return EncodeStats{}, fmt.Errorf("failed to finalize WAV header: %w", err)
	}

	stats := EncodeStats{Frames: len(ints), Clipped: clipped}
	if clipped > 0 {
		logger.Warn("Samples clipped while encoding", logging.Fields{
			"clipped": clipped,
			"frames":  len(ints),
		})
	}

	return stats, nil
}

// quantize maps [-1, 1] floats to integer PCM, counting clipped samples
func quantize(pcm []float64, bitDepth int) ([]int, int) {
	scale := fullScale(bitDepth)
	maxInt := scale - 1
	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	out := make([]int, len(pcm))
	clipped := 0
	for i, v := range pcm {
		s := math.Round(v * scale)
		switch {
		case s > maxInt:
			s = maxInt
			clipped++
		case s < -scale:
			s = -scale
			clipped++
		}
		out[i] = int(s) + offset
	}
	return out, clipped
}
