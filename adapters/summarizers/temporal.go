package summarizers

import (
	"math/big"
	"sort"
	"time"

	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal/frequency"
)

const statFrequency = "frequency"

// Datetime summarizes datetime columns.
func (s *Summarizer) Datetime(cols []*frame.Column, rows int) *summary.Table {
	return s.temporal(summary.SectionDatetime, cols, rows, func(v any) (time.Time, bool) {
		t, ok := v.(time.Time)
		return t, ok
	}, func(t time.Time) any { return t })
}

// Date summarizes date-only columns. Bounds are reported as dates.
func (s *Summarizer) Date(cols []*frame.Column, rows int) *summary.Table {
	return s.temporal(summary.SectionDate, cols, rows, func(v any) (time.Time, bool) {
		d, ok := v.(frame.Date)
		return d.Time(), ok
	}, func(t time.Time) any { return frame.DateOf(t) })
}

// temporal reports first, last and, for groups with enough rows, the
// inferred frequency of each column.
func (s *Summarizer) temporal(kind summary.SectionKind, cols []*frame.Column, rows int,
	extract func(any) (time.Time, bool), present func(time.Time) any) *summary.Table {

	withFreq := rows > s.cfg.FrequencyMinRows
	stats := []string{summary.StatMissing, summary.StatMissingPct, summary.StatFirst, summary.StatLast}
	if withFreq {
		stats = append(stats, statFrequency)
	}
	tbl := summary.NewTable(kind.Title(), stats...)

	for _, col := range cols {
		na, pct := s.missing(col, rows)

		times := make([]time.Time, 0, len(col.Values))
		for _, v := range col.Values {
			if t, ok := extract(v); ok {
				times = append(times, t)
			}
		}

		var first, last any
		if len(times) > 0 {
			lo, hi := times[0], times[0]
			for _, t := range times[1:] {
				if t.Before(lo) {
					lo = t
				}
				if t.After(hi) {
					hi = t
				}
			}
			first, last = present(lo), present(hi)
		}

		row := []any{na, pct, first, last}
		if withFreq {
			var freq any
			// A gap breaks the sequence; no frequency is inferred.
			if na == 0 {
				if alias, ok := frequency.Infer(times); ok {
					freq = alias
				}
			}
			row = append(row, freq)
		}
		tbl.AppendRow(col.Name, row...)
	}
	return tbl
}

// Duration summarizes timedelta columns: mean and median floored to whole
// seconds, min floored, max ceiled.
func (s *Summarizer) Duration(cols []*frame.Column, rows int) *summary.Table {
	tbl := summary.NewTable(summary.SectionTimedelta.Title(),
		summary.StatMissing, summary.StatMissingPct, summary.StatMean, "median", "min", "max")

	for _, col := range cols {
		na, pct := s.missing(col, rows)

		var ds []time.Duration
		for _, v := range col.Values {
			if d, ok := v.(time.Duration); ok {
				ds = append(ds, d)
			}
		}
		if len(ds) == 0 {
			tbl.AppendRow(col.Name, na, pct, nil, nil, nil, nil)
			continue
		}

		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
		tbl.AppendRow(col.Name, na, pct,
			floorSecond(meanDuration(ds)),
			floorSecond(medianDuration(ds)),
			floorSecond(ds[0]),
			ceilSecond(ds[len(ds)-1]),
		)
	}
	return tbl
}

// meanDuration averages without overflowing int64 on the sum.
func meanDuration(ds []time.Duration) time.Duration {
	sum := new(big.Int)
	for _, d := range ds {
		sum.Add(sum, big.NewInt(int64(d)))
	}
	sum.Div(sum, big.NewInt(int64(len(ds))))
	return time.Duration(sum.Int64())
}

// medianDuration expects sorted input.
func medianDuration(ds []time.Duration) time.Duration {
	n := len(ds)
	if n%2 == 1 {
		return ds[n/2]
	}
	a, b := ds[n/2-1], ds[n/2]
	return a + (b-a)/2
}

func floorSecond(d time.Duration) time.Duration {
	r := d % time.Second
	if r < 0 {
		r += time.Second
	}
	return d - r
}

func ceilSecond(d time.Duration) time.Duration {
	f := floorSecond(d)
	if f == d {
		return d
	}
	return f + time.Second
}
