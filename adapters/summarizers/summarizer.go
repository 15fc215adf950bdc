package summarizers

import (
	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal/histogram"
	"goskim/internal/profiling"
)

// Summarizer builds one statistics table per section kind.
type Summarizer struct {
	cfg  summary.Config
	hist histogram.Renderer
	dist *profiling.DistributionAnalyzer
}

// New creates a summarizer for cfg.
func New(cfg summary.Config) *Summarizer {
	return &Summarizer{
		cfg:  cfg,
		hist: histogram.Renderer{Bins: cfg.Bins, Posix: cfg.Posix},
		dist: profiling.NewDistributionAnalyzer(cfg.Quantiles),
	}
}

// Summarize dispatches cols to the summarizer of kind. rows is the row
// count of the dataset.
func (s *Summarizer) Summarize(kind summary.SectionKind, cols []*frame.Column, rows int) *summary.Table {
	switch kind {
	case summary.SectionAllNull:
		return s.AllNull(cols, rows)
	case summary.SectionNumber:
		return s.Numeric(cols, rows)
	case summary.SectionCategory:
		return s.Category(cols, rows)
	case summary.SectionBool:
		return s.Bool(cols, rows)
	case summary.SectionDatetime:
		return s.Datetime(cols, rows)
	case summary.SectionDate:
		return s.Date(cols, rows)
	case summary.SectionTimedelta:
		return s.Duration(cols, rows)
	case summary.SectionString:
		return s.String(cols, rows)
	}
	return nil
}

// AllNull reports the missing counts of columns without any value.
func (s *Summarizer) AllNull(cols []*frame.Column, rows int) *summary.Table {
	tbl := summary.NewTable(summary.SectionAllNull.Title(), summary.StatMissing, summary.StatMissingPct)
	for _, col := range cols {
		na, pct := s.missing(col, rows)
		tbl.AppendRow(col.Name, na, pct)
	}
	return tbl
}

// missing returns the null count of col and its share of rows in percent.
func (s *Summarizer) missing(col *frame.Column, rows int) (int, float64) {
	na := col.NullCount()
	if rows == 0 {
		return na, 0
	}
	return na, profiling.RoundSigFigs(100*float64(na)/float64(rows), s.cfg.MissingSigFigs)
}
