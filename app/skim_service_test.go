package app

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goskim/domain/core"
	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal"
)

func newService(t *testing.T) *SkimService {
	t.Helper()
	cfg := summary.DefaultConfig()
	cfg.Posix = true
	svc, err := NewSkimService(cfg, internal.NewNopLogger())
	require.NoError(t, err)
	return svc
}

func variousTypes(t *testing.T) *frame.Dataset {
	t.Helper()
	day := 24 * time.Hour
	ds, err := frame.NewDataset("",
		frame.NewColumn("string_col", []any{"apple", "banana", "orange"}),
		frame.NewColumn("int_col", []any{1, 2, 3}),
		frame.NewColumn("float_col", []any{1.1, 2.2, 3.3}),
		frame.NewColumn("timedelta_col", []any{day, 2 * day, 3 * day}),
		frame.NewColumn("datetime_col", []any{
			time.Date(2023, 7, 22, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 7, 23, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 7, 24, 0, 0, 0, 0, time.UTC),
		}),
		frame.NewCategoryColumn("categorical_col", []any{"cat", "dog", "bird"}, false),
		frame.NewColumn("bool_col", []any{true, false, true}),
	)
	require.NoError(t, err)
	return ds
}

func TestSkimSectionOrder(t *testing.T) {
	res, err := newService(t).Skim(context.Background(), variousTypes(t))
	require.NoError(t, err)

	want := []string{
		"Data Summary",
		"Data Types",
		"Categories",
		"number",
		"category",
		"bool",
		"datetime",
		"timedelta64[ns]",
		"string",
	}
	assert.Equal(t, want, res.Titles())

	b, err := json.Marshal(res)
	require.NoError(t, err)
	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Len(t, decoded, len(want))

	// Keys appear in the encoded document in section order. Every section
	// value is an object, which tells a section key from a dtype key.
	pos := -1
	for _, title := range want {
		idx := strings.Index(string(b), `"`+title+`":{`)
		require.Greater(t, idx, pos, title)
		pos = idx
	}
}

func TestSkimMetadataSections(t *testing.T) {
	res, err := newService(t).Skim(context.Background(), variousTypes(t))
	require.NoError(t, err)

	sum, ok := res.Section(summary.TitleDataSummary)
	require.True(t, ok)
	assert.Equal(t, []summary.Entry{
		{Key: "Number of rows", Value: 3},
		{Key: "Number of columns", Value: 7},
	}, sum.Entries)

	types, ok := res.Section(summary.TitleDataTypes)
	require.True(t, ok)
	keys := make([]string, len(types.Entries))
	for i, e := range types.Entries {
		keys[i] = e.Key
		assert.Equal(t, 1, e.Value)
	}
	assert.Equal(t, []string{"string", "int64", "float64", "timedelta64[ns]", "datetime64[ns]", "category", "bool"}, keys)

	cats, ok := res.Section(summary.TitleCategories)
	require.True(t, ok)
	assert.Equal(t, []string{"categorical_col"}, cats.Entries[0].Value)

	num, ok := res.Table(summary.SectionNumber)
	require.True(t, ok)
	assert.Equal(t, []string{"int_col", "float_col"}, num.Columns())
}

func TestDataTypesOrderedByCount(t *testing.T) {
	ds, err := frame.NewDataset("",
		frame.NewColumn("s", []any{"a"}),
		frame.NewColumn("f1", []any{1.5}),
		frame.NewColumn("f2", []any{2.5}),
	)
	require.NoError(t, err)
	res, err := newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)

	types, _ := res.Section(summary.TitleDataTypes)
	assert.Equal(t, []summary.Entry{{Key: "float64", Value: 2}, {Key: "string", Value: 1}}, types.Entries)
}

func TestSkimDoesNotMutateInput(t *testing.T) {
	zone := time.FixedZone("AEST", 10*3600)
	when := time.Date(2024, 2, 29, 23, 59, 59, 123456789, zone)
	ds, err := frame.NewDataset("",
		frame.NewColumn("header", []any{365 * 24 * time.Hour, -19 * 24 * time.Hour}),
		frame.NewColumn("header_1", []any{"length_one", "length_two"}),
		frame.NewColumn("when", []any{when, nil}),
		frame.NewColumn("small", []any{int16(3), uint8(4)}),
	)
	require.NoError(t, err)
	before := ds.Clone()

	_, err = newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, before.Names(), ds.Names())
	for i := 0; i < ds.NumCols(); i++ {
		assert.Equal(t, before.Column(i).Type, ds.Column(i).Type)
		assert.Equal(t, before.Column(i).Values, ds.Column(i).Values)
	}
	assert.IsType(t, time.Duration(0), ds.Column(0).Values[0])
	assert.Same(t, zone, ds.Column(2).Values[0].(time.Time).Location())
}

func TestSkimUnsupportedOnly(t *testing.T) {
	ds, err := frame.NewDataset("", frame.NewColumn("object_col", []any{"How are you?", 23, true, 304.92048}))
	require.NoError(t, err)

	res, err := newService(t).Skim(context.Background(), ds)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, core.ErrUnsupportedSchema)
}

func TestSkimMixedAlongsideSupported(t *testing.T) {
	ds, err := frame.NewDataset("",
		frame.NewColumn("object_col", []any{"How are you?", 23, true, 304.92048}),
		frame.NewColumn("date", []any{
			frame.Date{Year: 2003, Month: 1, Day: 1},
			frame.Date{Year: 2003, Month: 1, Day: 1},
			frame.Date{Year: 2003, Month: 1, Day: 1},
			frame.Date{Year: 2003, Month: 1, Day: 1},
		}),
		frame.NewColumn("other_real_data", []any{55.008, 55.008, 55.008, 55.008}),
	)
	require.NoError(t, err)

	res, err := newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data Summary", "Data Types", "number", "date"}, res.Titles())

	dates, ok := res.Table(summary.SectionDate)
	require.True(t, ok)
	first, _ := dates.Get("date", summary.StatFirst)
	assert.Equal(t, frame.Date{Year: 2003, Month: 1, Day: 1}, first)
}

func TestSkimRejectsMultiIndex(t *testing.T) {
	col := frame.NewColumn("one", []any{0.5, 1.5})
	col.Levels = []string{"bar", "one"}
	mixed := frame.NewColumn("bad", []any{1, "x"})
	ds, err := frame.NewDataset("", col, mixed)
	require.NoError(t, err)

	_, err = newService(t).Skim(context.Background(), ds)
	assert.ErrorIs(t, err, core.ErrUnsupportedInputShape)
	assert.NotErrorIs(t, err, core.ErrUnsupportedSchema)
}

func TestSkimAllNullFirst(t *testing.T) {
	ds, err := frame.NewDataset("",
		frame.NewColumn("x", []any{1.0, 2.0}),
		frame.NewColumn("nothing", []any{nil, nil}),
	)
	require.NoError(t, err)

	res, err := newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data Summary", "Data Types", "All null", "number"}, res.Titles())

	types, _ := res.Section(summary.TitleDataTypes)
	assert.Equal(t, []summary.Entry{{Key: "float64", Value: 1}, {Key: "object", Value: 1}}, types.Entries)
}

func TestSkimNonFiniteFloats(t *testing.T) {
	ds, err := frame.NewDataset("",
		frame.NewColumn("inf", []any{1.0, 2.0, math.Inf(1)}),
		frame.NewColumn("huge", []any{-1e308, 1e308, 0.0}),
	)
	require.NoError(t, err)

	res, err := newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)
	tbl, ok := res.Table(summary.SectionNumber)
	require.True(t, ok)

	mean, _ := tbl.Get("inf", "mean")
	assert.True(t, math.IsInf(mean.(float64), 1))
	sd, _ := tbl.Get("inf", "sd")
	assert.True(t, math.IsNaN(sd.(float64)))
	p100, _ := tbl.Get("inf", "p100")
	assert.True(t, math.IsInf(p100.(float64), 1))

	for _, col := range []string{"inf", "huge"} {
		hist, _ := tbl.Get(col, summary.StatHist)
		assert.Equal(t, 6, utf8.RuneCountInString(hist.(string)), col)
	}
}

func TestSkimUnnamedColumnsGetDistinctKeys(t *testing.T) {
	ds, err := frame.NewDataset("",
		frame.NewColumn("", []any{1.0, 2.0}),
		frame.NewColumn("Unnamed: 2", []any{3.0, 4.0}),
		frame.NewColumn("", []any{5.0, 6.0}),
	)
	require.NoError(t, err)

	res, err := newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)
	tbl, ok := res.Table(summary.SectionNumber)
	require.True(t, ok)

	want := map[string]float64{"Unnamed: 0": 1.5, "Unnamed: 2": 3.5, "Unnamed: 2.1": 5.5}
	for col, mean := range want {
		got, ok := tbl.Get(col, summary.StatMean)
		require.True(t, ok, col)
		assert.Equal(t, mean, got, col)
	}
	assert.Equal(t, []string{"", "Unnamed: 2", ""}, ds.Names())
}

func TestSkimFrequencyGuard(t *testing.T) {
	times := func(n int) []any {
		out := make([]any, n)
		for i := range out {
			out[i] = time.Date(2018, time.Month(i+2), 0, 0, 0, 0, 0, time.UTC)
		}
		return out
	}

	small, err := frame.NewDataset("", frame.NewColumn("dt", times(2)))
	require.NoError(t, err)
	res, err := newService(t).Skim(context.Background(), small)
	require.NoError(t, err)
	tbl, _ := res.Table(summary.SectionDatetime)
	assert.False(t, tbl.HasStat("frequency"))

	large, err := frame.NewDataset("", frame.NewColumn("dt", times(12)))
	require.NoError(t, err)
	res, err = newService(t).Skim(context.Background(), large)
	require.NoError(t, err)
	tbl, _ = res.Table(summary.SectionDatetime)
	freq, ok := tbl.Get("dt", "frequency")
	require.True(t, ok)
	assert.Equal(t, "ME", freq)
}

func TestSkimDisplayName(t *testing.T) {
	ds, err := frame.NewDataset("Named dataframe", frame.NewColumn("x", []any{1}))
	require.NoError(t, err)
	res, err := newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, "Named dataframe", res.Name)

	ds, err = frame.NewDataset("Named dataframe", frame.NewColumn("name", []any{"x"}))
	require.NoError(t, err)
	res, err = newService(t).Skim(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, frame.DefaultName, res.Name)
}

func TestSkimCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(t).Skim(ctx, variousTypes(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewSkimServiceValidatesConfig(t *testing.T) {
	cfg := summary.DefaultConfig()
	cfg.Parallelism = 0
	_, err := NewSkimService(cfg, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
