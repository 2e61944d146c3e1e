package equalizer

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-eq/logging"
)

// GainSettings holds the linear amplitude gain of each band.
// 1.0 leaves a band unchanged, 0.0 removes it. There is no upper bound.
type GainSettings struct {
	Bass   float64 `yaml:"bass" json:"bass"`
	Mid    float64 `yaml:"mid" json:"mid"`
	Treble float64 `yaml:"treble" json:"treble"`
}

// UnityGains returns settings that leave the signal unchanged
func UnityGains() GainSettings {
	return GainSettings{Bass: 1, Mid: 1, Treble: 1}
}

// Get returns the gain for band b
func (g GainSettings) Get(b Band) float64 {
	switch b {
	case Bass:
		return g.Bass
	case Mid:
		return g.Mid
	case Treble:
		return g.Treble
	default:
		return 1
	}
}

// Validate rejects negative and non-finite gains
func (g GainSettings) Validate() error {
	for _, b := range Bands {
		v := g.Get(b)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s gain is %v", ErrInvalidInput, b, v)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s gain %v", ErrNegativeGain, b, v)
		}
	}
	return nil
}

// Clamp limits every gain to [0, limit]. It is meant for user-facing input
// such as command-line flags; the equalizer itself never clamps.
func (g GainSettings) Clamp(limit float64) (GainSettings, bool) {
	clamped := false
	clamp := func(v float64) float64 {
		switch {
		case v < 0:
			clamped = true
			return 0
		case v > limit:
			clamped = true
			return limit
		}
		return v
	}
	out := GainSettings{Bass: clamp(g.Bass), Mid: clamp(g.Mid), Treble: clamp(g.Treble)}
	return out, clamped
}

func (g GainSettings) fields() logging.Fields {
	return logging.Fields{"bass_gain": g.Bass, "mid_gain": g.Mid, "treble_gain": g.Treble}
}
