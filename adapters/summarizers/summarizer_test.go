package summarizers

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goskim/domain/frame"
	"goskim/domain/summary"
)

func posixSummarizer() *Summarizer {
	cfg := summary.DefaultConfig()
	cfg.Posix = true
	return New(cfg)
}

func rowOf(t *testing.T, tbl *summary.Table, column string) map[string]any {
	t.Helper()
	out := make(map[string]any, len(tbl.Stats))
	for _, stat := range tbl.Stats {
		v, ok := tbl.Get(column, stat)
		require.True(t, ok, "missing %s/%s", column, stat)
		out[stat] = v
	}
	return out
}

func TestStringSummary(t *testing.T) {
	col := frame.NewColumn("text", []any{
		"How are you?",
		"What weather!",
		"Indeed, it was the most outrageously pompous cat I have ever seen.",
		nil,
		"blah",
	})
	tbl := posixSummarizer().String([]*frame.Column{col}, 5)

	assert.Equal(t, []string{
		"NA", "NA %", "shortest", "longest", "min", "max",
		"chars per row", "words per row", "total words",
	}, tbl.Stats)
	assert.Equal(t, []any{
		1,
		20.0,
		"blah",
		"Indeed, it was the most outrageously pompous cat I have ever seen.",
		"How are you?",
		"blah",
		23.8,
		3.6,
		18,
	}, tbl.Rows[0].Values)
}

func TestStringTiesKeepFirst(t *testing.T) {
	col := frame.NewColumn("s", []any{"bb", "aa", "cccc", "dddd"})
	row := rowOf(t, posixSummarizer().String([]*frame.Column{col}, 4), "s")
	assert.Equal(t, "bb", row["shortest"])
	assert.Equal(t, "cccc", row["longest"])
	assert.Equal(t, "aa", row["min"])
	assert.Equal(t, "dddd", row["max"])
}

func TestBoolSummary(t *testing.T) {
	col := frame.NewBoolColumn("bool", []bool{true, false, false, true})

	tbl := posixSummarizer().Bool([]*frame.Column{col}, 4)
	assert.Equal(t, []any{2, 0.5, "█    █"}, tbl.Rows[0].Values)

	cfg := summary.DefaultConfig()
	cfg.Posix = false
	tbl = New(cfg).Bool([]*frame.Column{col}, 4)
	assert.Equal(t, []any{2, 0.5, "▇    ▇"}, tbl.Rows[0].Values)
}

func TestNumericSummary(t *testing.T) {
	ints := frame.NewColumn("ints", []any{int64(1), int64(2), int64(3), int64(4), nil})
	floats := frame.NewFloatColumn("floats", []float64{10001, 10001, 10001, 10001, 10001})
	tbl := posixSummarizer().Numeric([]*frame.Column{ints, floats}, 5)

	assert.Equal(t, []string{"NA", "NA %", "mean", "sd", "p0", "p25", "p50", "p75", "p100", "hist"}, tbl.Stats)

	row := rowOf(t, tbl, "ints")
	assert.Equal(t, 1, row["NA"])
	assert.Equal(t, 20.0, row["NA %"])
	assert.Equal(t, 2.5, row["mean"])
	assert.Equal(t, 1.291, row["sd"])
	assert.Equal(t, 1.0, row["p0"])
	assert.Equal(t, 1.75, row["p25"])
	assert.Equal(t, 2.5, row["p50"])
	assert.Equal(t, 3.25, row["p75"])
	assert.Equal(t, 4.0, row["p100"])
	assert.Equal(t, "█ █ ██", row["hist"])

	row = rowOf(t, tbl, "floats")
	assert.Equal(t, 10000.0, row["mean"])
	assert.Equal(t, 0.0, row["sd"])
	assert.Equal(t, 1, strings.Count(row["hist"].(string), "█"))
}

func TestNumericComplexUsesModulus(t *testing.T) {
	col := frame.NewColumn("z", []any{complex128(3 + 4i), complex128(6 + 8i)})
	row := rowOf(t, posixSummarizer().Numeric([]*frame.Column{col}, 2), "z")
	assert.Equal(t, 7.5, row["mean"])
	assert.Equal(t, 5.0, row["p0"])
	assert.Equal(t, 10.0, row["p100"])
}

func TestNumericSingleValueHasNoSD(t *testing.T) {
	col := frame.NewColumn("one", []any{int64(7)})
	row := rowOf(t, posixSummarizer().Numeric([]*frame.Column{col}, 1), "one")
	assert.True(t, math.IsNaN(row["sd"].(float64)))
}

func TestCategorySummary(t *testing.T) {
	col := frame.NewCategoryColumn("loc", []any{"UK", "USA", nil, "UK"}, true)
	tbl := posixSummarizer().Category([]*frame.Column{col}, 4)
	assert.Equal(t, []any{1, 25.0, true, 2}, tbl.Rows[0].Values)
}

func TestAllNullSummary(t *testing.T) {
	col := frame.NewColumn("nothing", []any{nil, nil, nil})
	tbl := posixSummarizer().AllNull([]*frame.Column{col}, 3)
	assert.Equal(t, "All null", tbl.Title)
	assert.Equal(t, []any{3, 100.0}, tbl.Rows[0].Values)
}

func TestDatetimeFrequencyGuard(t *testing.T) {
	start := time.Date(2018, 1, 31, 0, 0, 0, 0, time.UTC)
	monthEnds := func(n int) []any {
		out := make([]any, n)
		for i := range out {
			out[i] = time.Date(start.Year(), start.Month()+time.Month(i)+1, 0, 0, 0, 0, 0, time.UTC)
		}
		return out
	}

	s := posixSummarizer()

	few := s.Datetime([]*frame.Column{frame.NewColumn("dt", monthEnds(3))}, 3)
	assert.False(t, few.HasStat("frequency"))

	many := s.Datetime([]*frame.Column{frame.NewColumn("dt", monthEnds(6))}, 6)
	row := rowOf(t, many, "dt")
	assert.Equal(t, "ME", row["frequency"])
	assert.Equal(t, start, row["first"])
	assert.Equal(t, time.Date(2018, 6, 30, 0, 0, 0, 0, time.UTC), row["last"])
}

func TestDatetimeWithoutRegularFrequency(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	col := frame.NewColumn("dt", []any{base, base.Add(time.Hour), base.Add(5 * time.Hour), base.Add(6 * time.Hour)})
	row := rowOf(t, posixSummarizer().Datetime([]*frame.Column{col}, 4), "dt")
	assert.Nil(t, row["frequency"])
}

func TestDateSummary(t *testing.T) {
	dates := []any{
		frame.Date{Year: 2021, Month: 1, Day: 3},
		frame.Date{Year: 2021, Month: 1, Day: 1},
		frame.Date{Year: 2021, Month: 1, Day: 2},
		nil,
	}
	row := rowOf(t, posixSummarizer().Date([]*frame.Column{frame.NewColumn("d", dates)}, 4), "d")
	assert.Equal(t, frame.Date{Year: 2021, Month: 1, Day: 1}, row["first"])
	assert.Equal(t, frame.Date{Year: 2021, Month: 1, Day: 3}, row["last"])
	assert.Nil(t, row["frequency"])
}

func TestDurationSummary(t *testing.T) {
	col := frame.NewColumn("td", []any{
		365 * 24 * time.Hour,
		-19 * 24 * time.Hour,
		1500 * time.Millisecond,
		nil,
	})
	row := rowOf(t, posixSummarizer().Duration([]*frame.Column{col}, 4), "td")

	assert.Equal(t, 1, row["NA"])
	assert.Equal(t, 25.0, row["NA %"])
	assert.Equal(t, floorSecond((365*24*time.Hour-19*24*time.Hour+1500*time.Millisecond)/3), row["mean"])
	assert.Equal(t, time.Second, row["median"])
	assert.Equal(t, -19*24*time.Hour, row["min"])
	assert.Equal(t, 365*24*time.Hour, row["max"])
}

// The "median" statistic is the true median of the column, reported next
// to a separate "min" rather than standing in for it.
func TestDurationMedianIsTrueMedian(t *testing.T) {
	col := frame.NewColumn("td", []any{time.Second, 10 * time.Second, 100 * time.Second, 1000 * time.Second})
	row := rowOf(t, posixSummarizer().Duration([]*frame.Column{col}, 4), "td")
	assert.Equal(t, 55*time.Second, row["median"])
	assert.Equal(t, time.Second, row["min"])
	assert.NotEqual(t, row["min"], row["median"])
}

func TestRoundingToSeconds(t *testing.T) {
	tests := []struct {
		in          time.Duration
		floor, ceil time.Duration
	}{
		{1500 * time.Millisecond, time.Second, 2 * time.Second},
		{-1500 * time.Millisecond, -2 * time.Second, -time.Second},
		{3 * time.Second, 3 * time.Second, 3 * time.Second},
		{-time.Nanosecond, -time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.floor, floorSecond(tt.in))
			assert.Equal(t, tt.ceil, ceilSecond(tt.in))
		})
	}
}

func TestSummarizeDispatch(t *testing.T) {
	s := posixSummarizer()
	for _, kind := range summary.SectionKinds {
		tbl := s.Summarize(kind, nil, 0)
		require.NotNil(t, tbl, kind.Title())
		assert.Equal(t, kind.Title(), tbl.Title)
	}
}
