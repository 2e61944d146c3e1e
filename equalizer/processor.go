package equalizer

import (
	"fmt"

	"github.com/RyanBlaney/sonido-eq/algorithms/common"
	"github.com/RyanBlaney/sonido-eq/logging"
	"github.com/RyanBlaney/sonido-eq/transcode"
)

// Result is everything produced by one equalization run
type Result struct {
	Equalized      *transcode.AudioData `json:"-"`
	Gains          GainSettings         `json:"gains"`
	Original       BandMeans            `json:"original_band_means"`
	After          BandMeans            `json:"equalized_band_means"`
	Comparison     Comparison           `json:"comparison"`
	OriginalStats  common.WaveformStats `json:"original_waveform"`
	EqualizedStats common.WaveformStats `json:"equalized_waveform"`
}

// Processor runs the full pipeline on decoded audio: equalize, then analyze
// the original and the equalized signal and compare them band by band.
type Processor struct {
	equalizer *Equalizer
	analyzer  *Analyzer
	logger    logging.Logger
}

// NewProcessor creates a processor from cfg. A nil cfg uses DefaultConfig.
func NewProcessor(cfg *Config) (*Processor, error) {
	eq, err := New(cfg)
	if err != nil {
		return nil, err
	}
	an, err := NewAnalyzer(cfg)
	if err != nil {
		return nil, err
	}

	return &Processor{
		equalizer: eq,
		analyzer:  an,
		logger: logging.WithFields(logging.Fields{
			"component": "eq_processor",
		}),
	}, nil
}

// Process equalizes audio with gains and reports the before/after comparison.
// Bands the signal's spectrum does not reach are marked unavailable in the
// comparison; the equalized audio is still returned. The input is not modified.
func (p *Processor) Process(audio *transcode.AudioData, gains GainSettings) (*Result, error) {
	if audio == nil {
		return nil, fmt.Errorf("%w: nil audio", ErrInvalidInput)
	}

	logger := p.logger.WithFields(logging.Fields{
		"function":    "Process",
		"samples":     len(audio.PCM),
		"sample_rate": audio.SampleRate,
	})
	logger.Debug("Starting equalization", gains.fields())

	equalized, err := p.equalizer.Equalize(audio.PCM, audio.SampleRate, gains)
	if err != nil {
		logger.Error(err, "Equalization failed")
		return nil, err
	}

	before, unavailable, err := p.analyzer.AnalyzeAvailable(audio.PCM, audio.SampleRate)
	if err != nil {
		logger.Error(err, "Failed to analyze original signal")
		return nil, fmt.Errorf("analyze original: %w", err)
	}
	// same length and rate, so the same bands are empty
	after, _, err := p.analyzer.AnalyzeAvailable(equalized, audio.SampleRate)
	if err != nil {
		logger.Error(err, "Failed to analyze equalized signal")
		return nil, fmt.Errorf("analyze equalized: %w", err)
	}

	if len(unavailable) > 0 {
		logger.Warn("Some bands have no frequency bins and are left out of the comparison", logging.Fields{
			"bands":      fmt.Sprint(unavailable),
			"bin_width":  float64(audio.SampleRate) / float64(len(audio.PCM)),
			"nyquist_hz": audio.SampleRate / 2,
		})
	}

	result := &Result{
		Equalized:      audio.WithPCM(equalized),
		Gains:          gains,
		Original:       before,
		After:          after,
		Comparison:     Compare(before, after, unavailable...),
		OriginalStats:  common.Summarize(audio.PCM),
		EqualizedStats: common.Summarize(equalized),
	}

	if result.EqualizedStats.Peak > 1 {
		logger.Warn("Equalized signal exceeds full scale and will clip when written", logging.Fields{
			"peak": result.EqualizedStats.Peak,
		})
	}

	logger.Info("Equalization complete", logging.Fields{
		"bass_change_db":   result.Comparison.Rows[Bass].ChangeDB,
		"mid_change_db":    result.Comparison.Rows[Mid].ChangeDB,
		"treble_change_db": result.Comparison.Rows[Treble].ChangeDB,
	})

	return result, nil
}
