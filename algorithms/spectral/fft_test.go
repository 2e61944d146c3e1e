package spectral

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func testSignal(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		t := float64(i)
		x[i] = 0.5*math.Sin(2*math.Pi*3*t/float64(n)) + 0.25*math.Cos(2*math.Pi*7*t/float64(n)) + 0.1*float64(i%5)
	}
	return x
}

func allBackends(t *testing.T) []*FFT {
	t.Helper()
	var out []*FFT
	for _, b := range []Backend{BackendGoDSP, BackendGonum} {
		f, err := NewFFTWithBackend(b)
		if err != nil {
			t.Fatalf("NewFFTWithBackend(%s): %v", b, err)
		}
		out = append(out, f)
	}
	return out
}

func TestFrequencyAxisEven(t *testing.T) {
	got, err := FrequencyAxis(8, 8000)
	if err != nil {
		t.Fatalf("FrequencyAxis error: %v", err)
	}

	want := []float64{0, 1000, 2000, 3000, -4000, -3000, -2000, -1000}
	if !floats.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestFrequencyAxisOdd(t *testing.T) {
	got, err := FrequencyAxis(7, 7000)
	if err != nil {
		t.Fatalf("FrequencyAxis error: %v", err)
	}

	want := []float64{0, 1000, 2000, 3000, -3000, -2000, -1000}
	if !floats.Equal(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestFrequencyAxisSingleBin(t *testing.T) {
	got, err := FrequencyAxis(1, 44100)
	if err != nil {
		t.Fatalf("FrequencyAxis error: %v", err)
	}
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("got=%v want=[0]", got)
	}
}

func TestFrequencyAxisInvalid(t *testing.T) {
	tests := []struct {
		n, sr int
	}{
		{0, 8000},
		{-1, 8000},
		{8, 0},
		{8, -44100},
	}

	for _, tt := range tests {
		if _, err := FrequencyAxis(tt.n, tt.sr); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("FrequencyAxis(%d, %d) err=%v want ErrInvalidInput", tt.n, tt.sr, err)
		}
	}
}

func TestComputeMatchesNaiveDFT(t *testing.T) {
	x := testSignal(12)

	want := make([]complex128, len(x))
	for k := range want {
		var sum complex128
		for n, v := range x {
			angle := -2 * math.Pi * float64(k*n) / float64(len(x))
			sum += complex(v, 0) * cmplx.Exp(complex(0, angle))
		}
		want[k] = sum
	}

	for _, f := range allBackends(t) {
		got, err := f.Compute(x)
		if err != nil {
			t.Fatalf("%s Compute error: %v", f.Backend(), err)
		}
		if len(got) != len(x) {
			t.Fatalf("%s length=%d want=%d", f.Backend(), len(got), len(x))
		}
		for k := range want {
			if cmplx.Abs(got[k]-want[k]) > 1e-9 {
				t.Fatalf("%s bin %d=%v want=%v", f.Backend(), k, got[k], want[k])
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64, 100, 1023} {
		x := testSignal(n)
		for _, f := range allBackends(t) {
			spec, err := f.Compute(x)
			if err != nil {
				t.Fatalf("%s Compute(n=%d) error: %v", f.Backend(), n, err)
			}
			back, err := f.ComputeInverseReal(spec)
			if err != nil {
				t.Fatalf("%s ComputeInverseReal(n=%d) error: %v", f.Backend(), n, err)
			}
			if !floats.EqualApprox(back, x, 1e-9) {
				t.Fatalf("%s round trip mismatch for n=%d: max diff %g", f.Backend(), n, maxAbsDiff(back, x))
			}
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	x := testSignal(441)
	backends := allBackends(t)

	a, err := backends[0].Compute(x)
	if err != nil {
		t.Fatal(err)
	}
	b, err := backends[1].Compute(x)
	if err != nil {
		t.Fatal(err)
	}

	for k := range a {
		if cmplx.Abs(a[k]-b[k]) > 1e-8 {
			t.Fatalf("bin %d: go-dsp=%v gonum=%v", k, a[k], b[k])
		}
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	f := NewFFT()

	if _, err := f.Compute(nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty input err=%v want ErrInvalidInput", err)
	}
	if _, err := f.Compute([]float64{0, math.NaN(), 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("NaN input err=%v want ErrInvalidInput", err)
	}
	if _, err := f.Compute([]float64{math.Inf(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Inf input err=%v want ErrInvalidInput", err)
	}
	if _, err := f.ComputeInverseReal(nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty spectrum err=%v want ErrInvalidInput", err)
	}
}

func TestParseBackend(t *testing.T) {
	if b, err := ParseBackend(""); err != nil || b != BackendGoDSP {
		t.Fatalf("ParseBackend(\"\")=%q,%v want go-dsp", b, err)
	}
	if b, err := ParseBackend("gonum"); err != nil || b != BackendGonum {
		t.Fatalf("ParseBackend(gonum)=%q,%v", b, err)
	}
	if _, err := ParseBackend("fftw"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ParseBackend(fftw) err=%v want ErrInvalidInput", err)
	}
}

func TestMagnitude(t *testing.T) {
	mag := Magnitude([]complex128{3 + 4i, -1, 0})
	want := []float64{5, 1, 0}
	if !floats.EqualApprox(mag, want, 1e-12) {
		t.Fatalf("got=%v want=%v", mag, want)
	}
}

func maxAbsDiff(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}
