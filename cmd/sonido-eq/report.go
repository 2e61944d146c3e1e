package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/RyanBlaney/sonido-eq/equalizer"
	"github.com/RyanBlaney/sonido-eq/transcode"
)

type jsonReport struct {
	*equalizer.Result
	Audio  *transcode.AudioData  `json:"audio"`
	Output transcode.EncodeStats `json:"output"`
}

func writeJSONReport(w io.Writer, result *equalizer.Result, stats transcode.EncodeStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Result: result, Audio: result.Equalized, Output: stats})
}

func writeTableReport(w io.Writer, result *equalizer.Result, stats transcode.EncodeStats) error {
	fmt.Fprintf(w, "Gains: bass=%.2f mid=%.2f treble=%.2f\n\n", result.Gains.Bass, result.Gains.Mid, result.Gains.Treble)

	fmt.Fprintln(w, "Band mean magnitude")
	if err := result.Comparison.WriteTable(w); err != nil {
		return err
	}

	o, e := result.OriginalStats, result.EqualizedStats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Waveform   peak %.4f -> %.4f   rms %.4f -> %.4f\n", o.Peak, e.Peak, o.RMS, e.RMS)
	if stats.Clipped > 0 {
		fmt.Fprintf(w, "Clipped    %d of %d samples\n", stats.Clipped, stats.Frames)
	}
	return nil
}
