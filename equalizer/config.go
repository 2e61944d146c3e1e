package equalizer

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-eq/algorithms/spectral"
)

// Config configures the equalizer, the analyzer and the output encoder.
type Config struct {
	// TrebleCeiling is the upper edge of the treble band in Hz. Bins above it
	// (and, for MaskSymmetric, below its negative) are never scaled.
	TrebleCeiling float64 `yaml:"treble_ceiling" json:"treble_ceiling"`

	MaskMode MaskMode         `yaml:"mask_mode" json:"mask_mode"`
	Backend  spectral.Backend `yaml:"fft_backend" json:"fft_backend"`

	// Gains used when the caller does not supply any
	Gains GainSettings `yaml:"gains" json:"gains"`

	// OutputBitDepth is the PCM bit depth of written WAV files
	OutputBitDepth int `yaml:"output_bit_depth" json:"output_bit_depth"`
}

// DefaultConfig returns the default configuration: 12 kHz treble ceiling,
// observed band masks, go-dsp FFT, unity gains and 16-bit output.
func DefaultConfig() *Config {
	return &Config{
		TrebleCeiling:  DefaultTrebleCeiling,
		MaskMode:       MaskObserved,
		Backend:        spectral.BackendGoDSP,
		Gains:          UnityGains(),
		OutputBitDepth: 16,
	}
}

// WideConfig is DefaultConfig with the 25 kHz treble ceiling
func WideConfig() *Config {
	cfg := DefaultConfig()
	cfg.TrebleCeiling = TrebleCeilingWide
	return cfg
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig overlays YAML data on DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the equalizer cannot use
func (c *Config) Validate() error {
	if math.IsNaN(c.TrebleCeiling) || math.IsInf(c.TrebleCeiling, 0) || c.TrebleCeiling < TrebleCutoff {
		return fmt.Errorf("%w: treble ceiling %v must be at least %v Hz", ErrInvalidConfig, c.TrebleCeiling, TrebleCutoff)
	}
	if _, err := MaskFor(c.MaskMode, c.TrebleCeiling); err != nil {
		return err
	}
	if _, err := spectral.ParseBackend(string(c.Backend)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Gains.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.OutputBitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: unsupported output bit depth %d", ErrInvalidConfig, c.OutputBitDepth)
	}
	return nil
}
