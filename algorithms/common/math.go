package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical functions shared by the analyzers, backed by gonum

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// Peak returns the largest absolute sample value
func Peak(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Max(math.Abs(floats.Min(data)), math.Abs(floats.Max(data)))
}

// AmplitudeRatioDB converts an amplitude ratio to decibels.
// A non-positive reference yields 0. A silent value against a positive
// reference yields -Inf.
func AmplitudeRatioDB(value, reference float64) float64 {
	if reference <= 0 {
		return 0.0
	}
	if value <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(value/reference)
}

// WaveformStats summarizes a time-domain signal
type WaveformStats struct {
	Samples int     `json:"samples"`
	Peak    float64 `json:"peak"`
	RMS     float64 `json:"rms"`
	DC      float64 `json:"dc_offset"`
}

// Summarize computes WaveformStats for a signal
func Summarize(data []float64) WaveformStats {
	return WaveformStats{
		Samples: len(data),
		Peak:    Peak(data),
		RMS:     RMS(data),
		DC:      Mean(data),
	}
}
