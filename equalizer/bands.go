package equalizer

import (
	"fmt"
	"math"
)

// Band identifies one of the three equalizer bands
type Band int

const (
	Bass Band = iota
	Mid
	Treble
)

// Bands lists every band in reporting order
var Bands = [...]Band{Bass, Mid, Treble}

func (b Band) String() string {
	switch b {
	case Bass:
		return "Bass"
	case Mid:
		return "Mid"
	case Treble:
		return "Treble"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// Band edges in Hz
const (
	BassCutoff   = 300.0
	TrebleCutoff = 3000.0

	TrebleCeilingNarrow  = 12000.0
	TrebleCeilingWide    = 25000.0
	DefaultTrebleCeiling = TrebleCeilingNarrow
)

// MaskMode selects how the equalizer assigns signed FFT frequencies to bands.
type MaskMode string

const (
	// MaskObserved tests the raw signed frequency: every negative bin is bass.
	MaskObserved MaskMode = "observed"
	// MaskSymmetric tests |f|, so a band's negative mirror gets the band's own gain.
	MaskSymmetric MaskMode = "symmetric"
)

// BandMask assigns a frequency to at most one band.
// Frequencies assigned to no band are left alone by the equalizer and
// ignored by the analyzer.
type BandMask struct {
	name     string
	ceiling  float64
	classify func(freq, ceiling float64) (Band, bool)
}

// EqualizationMask is the mask applied when equalizing in MaskObserved mode:
// bass f < 300 (all negative frequencies included), mid 300 <= f < 3000,
// treble 3000 <= f <= ceiling.
func EqualizationMask(ceiling float64) BandMask {
	return BandMask{name: "equalization", ceiling: ceiling, classify: classifySigned}
}

// AnalysisMask is the mask used for band means: bass 0 <= f < 300,
// mid 300 <= f < 3000, treble 3000 <= f <= ceiling. Negative bins are ignored.
func AnalysisMask(ceiling float64) BandMask {
	return BandMask{name: "analysis", ceiling: ceiling, classify: func(freq, ceiling float64) (Band, bool) {
		if freq < 0 {
			return 0, false
		}
		return classifySigned(freq, ceiling)
	}}
}

// SymmetricMask applies the analysis boundaries to |f|.
func SymmetricMask(ceiling float64) BandMask {
	return BandMask{name: "symmetric", ceiling: ceiling, classify: func(freq, ceiling float64) (Band, bool) {
		return classifySigned(math.Abs(freq), ceiling)
	}}
}

// MaskFor returns the equalization mask for a mode
func MaskFor(mode MaskMode, ceiling float64) (BandMask, error) {
	switch mode {
	case MaskObserved, "":
		return EqualizationMask(ceiling), nil
	case MaskSymmetric:
		return SymmetricMask(ceiling), nil
	default:
		return BandMask{}, fmt.Errorf("%w: unknown mask mode %q", ErrInvalidConfig, mode)
	}
}

func classifySigned(freq, ceiling float64) (Band, bool) {
	switch {
	case freq < BassCutoff:
		return Bass, true
	case freq < TrebleCutoff:
		return Mid, true
	case freq <= ceiling:
		return Treble, true
	default:
		return 0, false
	}
}

// Name returns the mask's name
func (m BandMask) Name() string { return m.name }

// Ceiling returns the treble ceiling in Hz
func (m BandMask) Ceiling() float64 { return m.ceiling }

// Classify reports the band freq belongs to, if any
func (m BandMask) Classify(freq float64) (Band, bool) {
	return m.classify(freq, m.ceiling)
}

// Partition holds the bin indices that fall in each band
type Partition [len(Bands)][]int

// Count returns the number of bins in band b
func (p *Partition) Count(b Band) int {
	return len(p[b])
}

// Partition splits freqs into per-band index lists
func (m BandMask) Partition(freqs []float64) Partition {
	var p Partition
	for i, f := range freqs {
		if b, ok := m.Classify(f); ok {
			p[b] = append(p[b], i)
		}
	}
	return p
}
