package summarizers

import (
	"math"
	"math/cmplx"

	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal/profiling"
)

// Numeric summarizes int64, float64 and complex128 columns. Complex values
// are measured by their modulus.
func (s *Summarizer) Numeric(cols []*frame.Column, rows int) *summary.Table {
	stats := []string{summary.StatMissing, summary.StatMissingPct, summary.StatMean, "sd"}
	for _, q := range s.cfg.Quantiles {
		stats = append(stats, summary.QuantileLabel(q))
	}
	stats = append(stats, summary.StatHist)
	tbl := summary.NewTable(summary.SectionNumber.Title(), stats...)

	sf := s.cfg.NumericSigFigs
	for _, col := range cols {
		na, pct := s.missing(col, rows)
		data := Floats(col)

		row := []any{na, pct}
		d, err := s.dist.Analyze(data)
		if err != nil {
			row = append(row, math.NaN(), math.NaN())
			for range s.cfg.Quantiles {
				row = append(row, math.NaN())
			}
			row = append(row, "")
			tbl.AppendRow(col.Name, row...)
			continue
		}

		row = append(row, profiling.RoundSigFigs(d.Mean, sf), profiling.RoundSigFigs(d.StdDev, sf))
		for _, q := range d.Quantiles {
			row = append(row, profiling.RoundSigFigs(q, sf))
		}
		row = append(row, s.hist.Render(data))
		tbl.AppendRow(col.Name, row...)
	}
	return tbl
}

// Floats returns the non-null numeric values of col as float64.
func Floats(col *frame.Column) []float64 {
	out := make([]float64, 0, len(col.Values))
	for _, v := range col.Values {
		switch x := v.(type) {
		case int64:
			out = append(out, float64(x))
		case float64:
			if !math.IsNaN(x) {
				out = append(out, x)
			}
		case complex128:
			out = append(out, cmplx.Abs(x))
		}
	}
	return out
}
