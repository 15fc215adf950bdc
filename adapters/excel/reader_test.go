package excel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"goskim/domain/frame"
	"goskim/internal"
	apperrors "goskim/internal/errors"
)

const bookCSV = `title,year,price,in stock,published
Dune,1965,9.99,true,1965-08-01
Emma,1815,,false,1815-12-23
Ulysses,,12.5,true,
`

func TestCSVStreamLoad(t *testing.T) {
	r := NewCSVStreamReader(strings.NewReader(bookCSV), DefaultExcelConfig()).WithLogger(internal.NewNopLogger())
	ds, err := r.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"title", "year", "price", "in stock", "published"}, ds.Names())
	assert.Equal(t, 3, ds.NumRows())

	year, _ := ds.Lookup("year")
	assert.Equal(t, []any{int64(1965), int64(1815), nil}, year.Values)

	price, _ := ds.Lookup("price")
	assert.Equal(t, []any{9.99, nil, 12.5}, price.Values)

	stock, _ := ds.Lookup("in stock")
	assert.Equal(t, []any{true, false, true}, stock.Values)

	published, _ := ds.Lookup("published")
	assert.Equal(t, frame.Date{Year: 1965, Month: 8, Day: 1}, published.Values[0])
	assert.Nil(t, published.Values[2])
}

func TestCSVFileWithDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	require.NoError(t, os.WriteFile(path, []byte("name;score\nann;1\nbob\n"), 0o644))

	cfg := DefaultExcelConfig()
	cfg.FilePath = path
	cfg.Delimiter = ';'
	cfg.Name = "scores"
	ds, err := NewDataReader(cfg).WithLogger(internal.NewNopLogger()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "scores", ds.Name)
	score, _ := ds.Lookup("score")
	assert.Equal(t, []any{int64(1), nil}, score.Values)
}

func TestXLSXLoad(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"label", "flag", "amount"},
		{"a", true, 1.5},
		{"b", false, 2},
		{"c", true, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := DefaultExcelConfig()
	cfg.FilePath = path
	ds, err := NewDataReader(cfg).WithLogger(internal.NewNopLogger()).Load(context.Background())
	require.NoError(t, err)

	flag, _ := ds.Lookup("flag")
	assert.Equal(t, []any{true, false, true}, flag.Values)
	amount, _ := ds.Lookup("amount")
	assert.Equal(t, []any{1.5, 2.0, nil}, amount.Values)
}

func TestMissingFile(t *testing.T) {
	cfg := DefaultExcelConfig()
	cfg.FilePath = filepath.Join(t.TempDir(), "nope.csv")
	_, err := NewDataReader(cfg).WithLogger(internal.NewNopLogger()).Load(context.Background())
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestRejectsLongRows(t *testing.T) {
	r := NewCSVStreamReader(strings.NewReader("a,b\n1,2,3\n"), DefaultExcelConfig()).WithLogger(internal.NewNopLogger())
	_, err := r.Load(context.Background())
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}

func TestDedupeHeaders(t *testing.T) {
	tests := []struct {
		in, want []string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{[]string{"", "x", ""}, []string{"Unnamed: 0", "x", "Unnamed: 2"}},
		{[]string{"a", "a.1", "a"}, []string{"a", "a.1", "a.2"}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.in, ","), func(t *testing.T) {
			assert.Equal(t, tt.want, dedupeHeaders(tt.in))
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCSVStreamReader(strings.NewReader(bookCSV), DefaultExcelConfig()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
