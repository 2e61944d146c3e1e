package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrInvalidInput is returned for empty sequences, non-finite samples and
// non-positive lengths or sample rates.
var ErrInvalidInput = errors.New("invalid input")

// Backend selects the FFT implementation behind a Transformer.
type Backend string

const (
	// BackendGoDSP uses mjibson/go-dsp. Handles any length (Bluestein for non powers of 2).
	BackendGoDSP Backend = "go-dsp"
	// BackendGonum uses gonum's FFTPACK port.
	BackendGonum Backend = "gonum"
)

// ParseBackend maps a backend name to a Backend. The empty string selects BackendGoDSP.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case "", BackendGoDSP:
		return BackendGoDSP, nil
	case BackendGonum:
		return BackendGonum, nil
	default:
		return "", fmt.Errorf("%w: unknown FFT backend %q", ErrInvalidInput, name)
	}
}

// FFT provides whole-signal forward and inverse transforms.
// A single transform covers the entire sequence: no windowing, no framing.
type FFT struct {
	backend Backend
}

// NewFFT creates a transformer using the default go-dsp backend
func NewFFT() *FFT {
	return &FFT{backend: BackendGoDSP}
}

// NewFFTWithBackend creates a transformer using the given backend
func NewFFTWithBackend(backend Backend) (*FFT, error) {
	b, err := ParseBackend(string(backend))
	if err != nil {
		return nil, err
	}
	return &FFT{backend: b}, nil
}

// Backend reports which implementation the transformer uses
func (f *FFT) Backend() Backend {
	return f.backend
}

// Compute computes the discrete Fourier transform of x.
// The result has the same length as x and is unnormalized.
func (f *FFT) Compute(x []float64) ([]complex128, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty signal", ErrInvalidInput)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite sample %v at index %d", ErrInvalidInput, v, i)
		}
	}

	switch f.backend {
	case BackendGonum:
		seq := make([]complex128, len(x))
		for i, v := range x {
			seq[i] = complex(v, 0)
		}
		return fourier.NewCmplxFFT(len(seq)).Coefficients(nil, seq), nil
	default:
		return fft.FFTReal(x), nil
	}
}

// ComputeInverse computes the normalized inverse transform of x
func (f *FFT) ComputeInverse(x []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%w: empty spectrum", ErrInvalidInput)
	}

	switch f.backend {
	case BackendGonum:
		out := fourier.NewCmplxFFT(len(x)).Sequence(nil, x)
		scale := complex(1/float64(len(x)), 0)
		for i := range out {
			out[i] *= scale
		}
		return out, nil
	default:
		return fft.IFFT(x), nil
	}
}

// ComputeInverseReal computes the inverse transform and keeps the real part only.
// Any imaginary residue is discarded without inspection.
func (f *FFT) ComputeInverseReal(x []complex128) ([]float64, error) {
	result, err := f.ComputeInverse(x)
	if err != nil {
		return nil, err
	}

	realResult := make([]float64, len(result))
	for i, val := range result {
		realResult[i] = real(val)
	}

	return realResult, nil
}

// FrequencyAxis returns the centre frequency in Hz of each of the n bins of
// an n-point transform at sampleRate, in standard FFT order: 0, the positive
// frequencies, then the negative mirror. For even n the Nyquist bin n/2 is
// reported as -sampleRate/2.
func FrequencyAxis(n, sampleRate int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: bin count %d", ErrInvalidInput, n)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrInvalidInput, sampleRate)
	}

	freqs := make([]float64, n)
	positive := (n-1)/2 + 1
	sr := float64(sampleRate)
	fn := float64(n)

	for k := range positive {
		freqs[k] = float64(k) * sr / fn
	}
	for k := positive; k < n; k++ {
		freqs[k] = float64(k-n) * sr / fn
	}

	return freqs, nil
}

// Magnitude returns |X[k]| for every bin
func Magnitude(spectrum []complex128) []float64 {
	mags := make([]float64, len(spectrum))
	for i, c := range spectrum {
		mags[i] = cmplx.Abs(c)
	}
	return mags
}
