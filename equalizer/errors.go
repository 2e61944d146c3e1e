package equalizer

import (
	"errors"

	"github.com/RyanBlaney/sonido-eq/algorithms/spectral"
)

var (
	// ErrInvalidInput covers empty or non-finite signals, bad sample rates
	// and non-finite gains. It is the same value as spectral.ErrInvalidInput.
	ErrInvalidInput = spectral.ErrInvalidInput

	// ErrNegativeGain is returned when any band gain is below zero. Gains are
	// rejected, never clamped.
	ErrNegativeGain = errors.New("negative gain")

	// ErrEmptyBand is returned by BandMeans when no frequency bin falls in a band.
	ErrEmptyBand = errors.New("empty frequency band")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid equalizer config")
)
