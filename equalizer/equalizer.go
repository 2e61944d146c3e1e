// Package equalizer implements a three-band spectral equalizer and the
// band-energy analysis used to compare a signal before and after equalization.
package equalizer

import (
	"fmt"

	"github.com/RyanBlaney/sonido-eq/algorithms/spectral"
	"github.com/RyanBlaney/sonido-eq/logging"
)

// Equalizer applies flat per-band gains in the frequency domain.
//
// The whole signal is transformed at once, every bin is scaled by the gain of
// the band its frequency falls in, and the real part of the inverse transform
// is returned. An Equalizer holds no per-call state and is safe to reuse.
type Equalizer struct {
	fft  *spectral.FFT
	mask BandMask
}

// New creates an equalizer from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) (*Equalizer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fft, err := spectral.NewFFTWithBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	mask, err := MaskFor(cfg.MaskMode, cfg.TrebleCeiling)
	if err != nil {
		return nil, err
	}

	return &Equalizer{fft: fft, mask: mask}, nil
}

// Mask returns the band mask used for equalization
func (e *Equalizer) Mask() BandMask {
	return e.mask
}

// Equalize returns a copy of signal with each band scaled by its gain.
// The output has the same length as the input. With unity gains it equals
// the input up to floating-point round-trip error.
func (e *Equalizer) Equalize(signal []float64, sampleRate int, gains GainSettings) ([]float64, error) {
	if err := gains.Validate(); err != nil {
		return nil, err
	}

	spectrum, err := e.fft.Compute(signal)
	if err != nil {
		return nil, fmt.Errorf("forward transform: %w", err)
	}
	freqs, err := spectral.FrequencyAxis(len(signal), sampleRate)
	if err != nil {
		return nil, err
	}

	if err := e.ApplyGains(spectrum, freqs, gains); err != nil {
		return nil, err
	}

	out, err := e.fft.ComputeInverseReal(spectrum)
	if err != nil {
		return nil, fmt.Errorf("inverse transform: %w", err)
	}

	logging.Debug("Equalized signal", logging.Fields{
		"component":   "equalizer",
		"samples":     len(signal),
		"sample_rate": sampleRate,
		"mask":        e.mask.Name(),
	}, gains.fields())

	return out, nil
}

// ApplyGains scales spectrum in place. Bins whose frequency falls in no band
// are left unchanged. spectrum and freqs must have the same length.
func (e *Equalizer) ApplyGains(spectrum []complex128, freqs []float64, gains GainSettings) error {
	if len(spectrum) != len(freqs) {
		return fmt.Errorf("%w: %d bins for %d frequencies", ErrInvalidInput, len(spectrum), len(freqs))
	}
	for i, f := range freqs {
		b, ok := e.mask.Classify(f)
		if !ok {
			continue
		}
		spectrum[i] *= complex(gains.Get(b), 0)
	}
	return nil
}
