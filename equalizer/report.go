package equalizer

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"text/tabwriter"

	"github.com/RyanBlaney/sonido-eq/algorithms/common"
)

// ComparisonRow holds one band's mean magnitude before and after equalization.
// Rows of bands that have no frequency bins are not Available and carry zeros.
// ChangeDB is -Inf when the band was silenced.
type ComparisonRow struct {
	Band      string  `json:"band"`
	Available bool    `json:"available"`
	Original  float64 `json:"original"`
	Equalized float64 `json:"equalized"`
	ChangeDB  float64 `json:"change_db"`
}

// MarshalJSON encodes a non-finite ChangeDB as null
func (r ComparisonRow) MarshalJSON() ([]byte, error) {
	type row ComparisonRow
	out := struct {
		row
		ChangeDB *float64 `json:"change_db"`
	}{row: row(r)}
	if !math.IsInf(r.ChangeDB, 0) && !math.IsNaN(r.ChangeDB) {
		out.ChangeDB = &r.ChangeDB
	}
	return json.Marshal(out)
}

// Comparison is the before/after band table: one row per band, in
// Bass, Mid, Treble order.
type Comparison struct {
	Rows []ComparisonRow `json:"rows"`
}

// Compare builds the comparison table from two sets of band means.
// Bands listed in unavailable get a row marked not Available.
func Compare(original, equalized BandMeans, unavailable ...Band) Comparison {
	rows := make([]ComparisonRow, 0, len(Bands))
	for _, b := range Bands {
		if slices.Contains(unavailable, b) {
			rows = append(rows, ComparisonRow{Band: b.String()})
			continue
		}
		o, e := original.Get(b), equalized.Get(b)
		rows = append(rows, ComparisonRow{
			Band:      b.String(),
			Available: true,
			Original:  o,
			Equalized: e,
			ChangeDB:  common.AmplitudeRatioDB(e, o),
		})
	}
	return Comparison{Rows: rows}
}

// Unavailable returns the names of the bands that could not be measured
func (c Comparison) Unavailable() []string {
	var names []string
	for _, r := range c.Rows {
		if !r.Available {
			names = append(names, r.Band)
		}
	}
	return names
}

// Row returns the row for band b
func (c Comparison) Row(b Band) (ComparisonRow, bool) {
	for _, r := range c.Rows {
		if r.Band == b.String() {
			return r, true
		}
	}
	return ComparisonRow{}, false
}

// WriteTable writes the comparison as an aligned text table
func (c Comparison) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Band\tOriginal\tEqualized\tChange (dB)\t")
	for _, r := range c.Rows {
		if !r.Available {
			fmt.Fprintf(tw, "%s\tn/a\tn/a\tn/a\t\n", r.Band)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%s\t\n", r.Band, r.Original, r.Equalized, formatDB(r.ChangeDB))
	}
	return tw.Flush()
}

func formatDB(db float64) string {
	switch {
	case math.IsInf(db, -1):
		return "-inf"
	case math.IsInf(db, 1):
		return "+inf"
	default:
		return fmt.Sprintf("%+.2f", db)
	}
}

// WriteJSON writes the comparison as indented JSON
func (c Comparison) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
