package equalizer

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-eq/transcode"
)

func TestProcessorObservedMaskChanges(t *testing.T) {
	p, err := NewProcessor(nil)
	if err != nil {
		t.Fatal(err)
	}

	audio := transcode.NewAudioData(randomSignal(800, 42), 8000)
	audio.Metadata = &transcode.SourceMetadata{Path: "in.wav", Format: "wav", BitDepth: 16}

	res, err := p.Process(audio, GainSettings{Bass: 2, Mid: 1, Treble: 1})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(res.Equalized.PCM) != len(audio.PCM) || res.Equalized.SampleRate != 8000 {
		t.Fatalf("equalized audio len=%d rate=%d", len(res.Equalized.PCM), res.Equalized.SampleRate)
	}
	if res.Equalized.Metadata == nil || res.Equalized.Metadata.Path != "in.wav" {
		t.Fatalf("metadata not carried over: %+v", res.Equalized.Metadata)
	}

	// Bass bins double; mid and treble bins pick up half of the bass gain
	// through their negative mirrors.
	want := map[Band]float64{
		Bass:   20 * math.Log10(2),
		Mid:    20 * math.Log10(1.5),
		Treble: 20 * math.Log10(1.5),
	}
	for b, db := range want {
		row, ok := res.Comparison.Row(b)
		if !ok {
			t.Fatalf("missing row %s", b)
		}
		if math.Abs(row.ChangeDB-db) > 1e-6 {
			t.Fatalf("%s change=%f dB want=%f dB", b, row.ChangeDB, db)
		}
	}

	if res.OriginalStats.Samples != 800 || res.EqualizedStats.Samples != 800 {
		t.Fatalf("stats samples %d/%d", res.OriginalStats.Samples, res.EqualizedStats.Samples)
	}
}

func TestProcessorUnityGainsKeepsMeans(t *testing.T) {
	p, err := NewProcessor(WideConfig())
	if err != nil {
		t.Fatal(err)
	}

	audio := transcode.NewAudioData(randomSignal(2048, 9), 44100)
	res, err := p.Process(audio, UnityGains())
	if err != nil {
		t.Fatal(err)
	}

	for _, row := range res.Comparison.Rows {
		if math.Abs(row.Original-row.Equalized) > 1e-9 || math.Abs(row.ChangeDB) > 1e-9 {
			t.Fatalf("row %+v should be unchanged", row)
		}
	}
}

func TestProcessorErrors(t *testing.T) {
	p, err := NewProcessor(nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Process(nil, UnityGains()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nil audio err=%v want ErrInvalidInput", err)
	}
	if _, err := p.Process(transcode.NewAudioData(randomSignal(16, 1), 8000), GainSettings{Bass: -2}); !errors.Is(err, ErrNegativeGain) {
		t.Fatalf("negative gain err=%v want ErrNegativeGain", err)
	}
	if _, err := p.Process(transcode.NewAudioData(nil, 8000), UnityGains()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty audio err=%v want ErrInvalidInput", err)
	}
}

func TestProcessorLowSampleRate(t *testing.T) {
	p, err := NewProcessor(nil)
	if err != nil {
		t.Fatal(err)
	}

	// 6 kHz audio has no bins in the 3 kHz to 12 kHz treble band
	const sr = 6000
	pcm := make([]float64, sr)
	for i := range pcm {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sr)
	}

	res, err := p.Process(transcode.NewAudioData(pcm, sr), GainSettings{Bass: 2, Mid: 1, Treble: 1})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Equalized == nil || len(res.Equalized.PCM) != sr {
		t.Fatalf("equalized audio missing: %+v", res.Equalized)
	}

	treble, _ := res.Comparison.Row(Treble)
	if treble.Available || treble.Original != 0 || treble.Equalized != 0 {
		t.Fatalf("treble row=%+v want unavailable", treble)
	}
	for _, b := range []Band{Bass, Mid} {
		if row, _ := res.Comparison.Row(b); !row.Available {
			t.Fatalf("%s row should be available: %+v", b, row)
		}
	}
	if got := res.Comparison.Unavailable(); len(got) != 1 || got[0] != "Treble" {
		t.Fatalf("Unavailable()=%v want=[Treble]", got)
	}
}

func TestProcessorShortClip(t *testing.T) {
	p, err := NewProcessor(nil)
	if err != nil {
		t.Fatal(err)
	}

	// 4 samples at 800 Hz: only the bass band has bins
	res, err := p.Process(transcode.NewAudioData([]float64{1, 0, -1, 0}, 800), UnityGains())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(res.Equalized.PCM) != 4 {
		t.Fatalf("equalized len=%d want=4", len(res.Equalized.PCM))
	}
	if got := res.Comparison.Unavailable(); len(got) != 2 {
		t.Fatalf("Unavailable()=%v want Mid and Treble", got)
	}
}
