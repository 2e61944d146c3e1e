package transcode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"

	"github.com/RyanBlaney/sonido-eq/logging"
)

var (
	// ErrInvalidWAV is returned when the input is not a readable RIFF/WAVE stream
	ErrInvalidWAV = errors.New("invalid WAV data")
	// ErrUnsupportedFormat is returned for non-PCM encodings and unsupported bit depths
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
	// ErrEmptyAudio is returned when there are no samples to decode or encode
	ErrEmptyAudio = errors.New("empty audio data")
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// ksDataFormatTail is the sub-format GUID of WAVE_FORMAT_EXTENSIBLE after its
// leading format code
var ksDataFormatTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xaa, 0x00, 0x38, 0x9b, 0x71}

// AudioData represents decoded mono audio
type AudioData struct {
	PCM        []float64       `json:"-"` // samples in [-1, 1)
	SampleRate int             `json:"sample_rate"`
	Channels   int             `json:"channels"`
	Duration   time.Duration   `json:"duration"`
	Timestamp  time.Time       `json:"timestamp"`
	Metadata   *SourceMetadata `json:"metadata,omitempty"`
}

// SourceMetadata describes the file the audio was decoded from
type SourceMetadata struct {
	Path           string `json:"path,omitempty"`
	Format         string `json:"format"`
	BitDepth       int    `json:"bit_depth"`
	SourceChannels int    `json:"source_channels"`
	Frames         int    `json:"frames"`
}

// NewAudioData wraps mono samples at sampleRate
func NewAudioData(pcm []float64, sampleRate int) *AudioData {
	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   samplesDuration(len(pcm), sampleRate),
		Timestamp:  time.Now(),
	}
}

// WithPCM returns a copy of a carrying different samples at the same rate
func (a *AudioData) WithPCM(pcm []float64) *AudioData {
	out := NewAudioData(pcm, a.SampleRate)
	if a.Metadata != nil {
		md := *a.Metadata
		out.Metadata = &md
	}
	return out
}

func samplesDuration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(sampleRate) * float64(time.Second))
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// MaxDuration truncates longer inputs. Zero means no limit.
	MaxDuration time.Duration `json:"max_duration" yaml:"max_duration"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{MaxDuration: 0}
}

// Decoder reads integer PCM WAV streams, plain or WAVE_FORMAT_EXTENSIBLE,
// into mono float samples.
// Multi-channel input is downmixed by averaging the channels of each frame,
// and the native sample rate is kept.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new WAV decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeFile decodes the WAV file at path
func (d *Decoder) DecodeFile(path string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "wav_decoder",
		"function":  "DecodeFile",
		"filename":  path,
	})

	f, err := os.Open(path)
	if err != nil {
		logger.Error(err, "Failed to open audio file")
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	data, err := d.Decode(f)
	if err != nil {
		logger.Error(err, "Failed to decode audio file")
		return nil, err
	}
	data.Metadata.Path = path
	return data, nil
}

// Decode reads a complete WAV stream from r
func (d *Decoder) Decode(r io.ReadSeeker) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "wav_decoder",
		"function":  "Decode",
	})

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return nil, ErrInvalidWAV
	}

	format := dec.WavAudioFormat
	if format == wavFormatExtensible {
		sub, err := extensibleSubFormat(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		if err := dec.Rewind(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		format = sub
	}
	if format != wavFormatPCM {
		return nil, fmt.Errorf("%w: audio format tag %d, only integer PCM is supported", ErrUnsupportedFormat, format)
	}
	bitDepth := int(dec.BitDepth)
	if !supportedBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	logger.Debug("WAV header parsed", logging.Fields{
		"input_sample_rate": dec.SampleRate,
		"input_channels":    dec.NumChans,
		"input_bit_depth":   bitDepth,
	})

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: could not read PCM buffer: %v", ErrInvalidWAV, err)
	}

	pcm := downmix(buf, bitDepth)
	if len(pcm) == 0 {
		return nil, ErrEmptyAudio
	}

	sampleRate := int(dec.SampleRate)
	if d.config.MaxDuration > 0 {
		limit := int(d.config.MaxDuration.Seconds() * float64(sampleRate))
		if limit > 0 && limit < len(pcm) {
			logger.Warn("Truncating audio to max duration", logging.Fields{
				"frames":       len(pcm),
				"max_frames":   limit,
				"max_duration": d.config.MaxDuration.String(),
			})
			pcm = pcm[:limit]
		}
	}

	data := NewAudioData(pcm, sampleRate)
	data.Metadata = &SourceMetadata{
		Format:         "wav",
		BitDepth:       bitDepth,
		SourceChannels: int(dec.NumChans),
		Frames:         len(pcm),
	}

	logger.Debug("Decoded audio", logging.Fields{
		"frames":   len(pcm),
		"duration": data.Duration.Seconds(),
	})

	return data, nil
}

// extensibleSubFormat returns the format code carried in the sub-format GUID
// of a WAVE_FORMAT_EXTENSIBLE fmt chunk, or 0 for a GUID outside the standard
// KSDATAFORMAT family. r is read from its start.
func extensibleSubFormat(r io.ReadSeeker) (uint16, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}

	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		var ext struct {
			Format         uint16
			Channels       uint16
			SampleRate     uint32
			AvgBytesPerSec uint32
			BlockAlign     uint16
			BitsPerSample  uint16
			ExtensionSize  uint16
			ValidBits      uint16
			ChannelMask    uint32
			SubFormat      [16]byte
		}
		if ch.Size < binary.Size(ext) {
			return 0, fmt.Errorf("extensible fmt chunk is %d bytes", ch.Size)
		}
		if err := ch.ReadLE(&ext); err != nil {
			return 0, err
		}
		if !bytes.Equal(ext.SubFormat[2:], ksDataFormatTail) {
			return 0, nil
		}
		return binary.LittleEndian.Uint16(ext.SubFormat[:2]), nil
	}
}

func supportedBitDepth(bits int) bool {
	switch bits {
	case 8, 16, 24, 32:
		return true
	}
	return false
}

// fullScale is the magnitude of the most negative sample at the given depth
func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

// downmix converts interleaved integer frames to mono floats in [-1, 1).
// 8-bit WAV samples are unsigned and are re-centred first.
func downmix(buf *audio.IntBuffer, bitDepth int) []float64 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(buf.Data) / channels
	scale := fullScale(bitDepth)

	offset := 0
	if bitDepth == 8 {
		offset = 128
	}

	out := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += float64(buf.Data[i*channels+c]-offset) / scale
		}
		out[i] = sum / float64(channels)
	}
	return out
}
