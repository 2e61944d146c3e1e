package equalizer

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-eq/algorithms/common"
	"github.com/RyanBlaney/sonido-eq/algorithms/spectral"
)

// BandMeans is the mean spectral magnitude of each band
type BandMeans struct {
	Bass   float64 `json:"bass"`
	Mid    float64 `json:"mid"`
	Treble float64 `json:"treble"`
}

// Get returns the mean for band b
func (m BandMeans) Get(b Band) float64 {
	switch b {
	case Bass:
		return m.Bass
	case Mid:
		return m.Mid
	case Treble:
		return m.Treble
	default:
		return 0
	}
}

func (m *BandMeans) set(b Band, v float64) {
	switch b {
	case Bass:
		m.Bass = v
	case Mid:
		m.Mid = v
	case Treble:
		m.Treble = v
	}
}

// Analyzer summarizes a signal's spectrum per band using AnalysisMask.
type Analyzer struct {
	fft  *spectral.FFT
	mask BandMask
}

// NewAnalyzer creates an analyzer from cfg. A nil cfg uses DefaultConfig.
// The analyzer always uses AnalysisMask regardless of cfg.MaskMode.
func NewAnalyzer(cfg *Config) (*Analyzer, error) {
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

	return &Analyzer{fft: fft, mask: AnalysisMask(cfg.TrebleCeiling)}, nil
}

// FrequencySpectrum returns the frequency axis and the magnitude of every bin
func (a *Analyzer) FrequencySpectrum(signal []float64, sampleRate int) ([]float64, []float64, error) {
	freqs, err := spectral.FrequencyAxis(len(signal), sampleRate)
	if err != nil {
		return nil, nil, err
	}
	spectrum, err := a.fft.Compute(signal)
	if err != nil {
		return nil, nil, err
	}
	return freqs, spectral.Magnitude(spectrum), nil
}

// BandMeans averages magnitudes over the bins of each band.
// A band with no bins yields ErrEmptyBand.
func (a *Analyzer) BandMeans(freqs, magnitudes []float64) (BandMeans, error) {
	means, empty, err := a.bandMeans(freqs, magnitudes)
	if err != nil {
		return BandMeans{}, err
	}
	if len(empty) > 0 {
		return BandMeans{}, fmt.Errorf("%w: no bins in %s band (%d bins, bin width %.3g Hz)",
			ErrEmptyBand, empty[0], len(freqs), binWidth(freqs))
	}
	return means, nil
}

// Analyze is FrequencySpectrum followed by BandMeans
func (a *Analyzer) Analyze(signal []float64, sampleRate int) (BandMeans, error) {
	freqs, mags, err := a.FrequencySpectrum(signal, sampleRate)
	if err != nil {
		return BandMeans{}, err
	}
	return a.BandMeans(freqs, mags)
}

// AnalyzeAvailable is Analyze for signals whose spectrum does not reach every
// band, such as low sample rates or very short clips. Bands without bins are
// returned in empty and their means are left at zero.
func (a *Analyzer) AnalyzeAvailable(signal []float64, sampleRate int) (means BandMeans, empty []Band, err error) {
	freqs, mags, err := a.FrequencySpectrum(signal, sampleRate)
	if err != nil {
		return BandMeans{}, nil, err
	}
	return a.bandMeans(freqs, mags)
}

func (a *Analyzer) bandMeans(freqs, magnitudes []float64) (BandMeans, []Band, error) {
	if len(freqs) == 0 {
		return BandMeans{}, nil, fmt.Errorf("%w: empty spectrum", ErrInvalidInput)
	}
	if len(freqs) != len(magnitudes) {
		return BandMeans{}, nil, fmt.Errorf("%w: %d frequencies for %d magnitudes", ErrInvalidInput, len(freqs), len(magnitudes))
	}

	partition := a.mask.Partition(freqs)

	var (
		means BandMeans
		empty []Band
	)
	for _, b := range Bands {
		idx := partition[b]
		if len(idx) == 0 {
			empty = append(empty, b)
			continue
		}

		values := make([]float64, len(idx))
		for i, k := range idx {
			values[i] = magnitudes[k]
		}
		means.set(b, common.Mean(values))
	}

	return means, empty, nil
}

func binWidth(freqs []float64) float64 {
	if len(freqs) < 2 {
		return 0
	}
	return math.Abs(freqs[1] - freqs[0])
}
