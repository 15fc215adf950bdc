package summarizers

import (
	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal/profiling"
)

// Category summarizes categorical columns.
func (s *Summarizer) Category(cols []*frame.Column, rows int) *summary.Table {
	tbl := summary.NewTable(summary.SectionCategory.Title(),
		summary.StatMissing, summary.StatMissingPct, "ordered", "unique")
	for _, col := range cols {
		na, pct := s.missing(col, rows)
		ordered := col.Categories != nil && col.Categories.Ordered

		distinct := make(map[any]struct{})
		for _, v := range col.NonNull() {
			distinct[v] = struct{}{}
		}
		tbl.AppendRow(col.Name, na, pct, ordered, len(distinct))
	}
	return tbl
}

// Bool summarizes boolean columns. Nulls count as not true.
func (s *Summarizer) Bool(cols []*frame.Column, rows int) *summary.Table {
	tbl := summary.NewTable(summary.SectionBool.Title(), "true", "true rate", summary.StatHist)
	for _, col := range cols {
		var vals []bool
		trues := 0
		for _, v := range col.Values {
			b, ok := v.(bool)
			if !ok {
				continue
			}
			vals = append(vals, b)
			if b {
				trues++
			}
		}

		rate := 0.0
		if rows > 0 {
			rate = profiling.RoundSigFigs(float64(trues)/float64(rows), s.cfg.TrueRateSigFigs)
		}
		tbl.AppendRow(col.Name, trues, rate, s.hist.RenderBools(vals))
	}
	return tbl
}
