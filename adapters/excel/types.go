package excel

import "goskim/adapters/datareadiness/coercer"

// RawData is a file's cells before typing, row-major, every row padded to
// the header width.
type RawData struct {
	Headers []string
	Rows    [][]string
	// Hints forces a column's type from native spreadsheet cell types;
	// nil or an empty entry means the cells decide.
	Hints []coercer.ValueType
}

// Column returns the cells of column j top to bottom
func (d *RawData) Column(j int) []string {
	out := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[j]
	}
	return out
}
