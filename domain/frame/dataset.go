package frame

import (
	"goskim/domain/core"
)

// DefaultName is the display name used when a dataset carries none.
const DefaultName = "Dataframe"

// Dataset is an ordered, rectangular collection of columns.
type Dataset struct {
	Name    string
	columns []*Column
	rows    int
}

// NewDataset builds a dataset from columns, checking that every column has
// the same length and that non-null names are unique.
func NewDataset(name string, cols ...*Column) (*Dataset, error) {
	ds := &Dataset{Name: name}
	if len(cols) > 0 {
		ds.rows = cols[0].Len()
	}
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		if col.Len() != ds.rows {
			return nil, core.NewRaggedDatasetError(col.Name, col.Len(), ds.rows)
		}
		if col.Name != "" {
			if seen[col.Name] {
				return nil, core.NewDuplicateColumnError(col.Name)
			}
			seen[col.Name] = true
		}
	}
	ds.columns = append([]*Column(nil), cols...)
	return ds, nil
}

// FromRecords builds a dataset from row-oriented records. Short rows are
// padded with nulls; long rows are an error.
func FromRecords(name string, headers []string, rows [][]any) (*Dataset, error) {
	cols := make([]*Column, len(headers))
	for j, h := range headers {
		cols[j] = NewColumn(h, make([]any, len(rows)))
	}
	for i, row := range rows {
		if len(row) > len(headers) {
			return nil, core.NewRaggedDatasetError("row", len(row), len(headers))
		}
		for j, v := range row {
			cols[j].Values[i] = v
		}
	}
	return NewDataset(name, cols...)
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return d.rows }

// NumCols returns the column count.
func (d *Dataset) NumCols() int { return len(d.columns) }

// Column returns the i-th column.
func (d *Dataset) Column(i int) *Column { return d.columns[i] }

// Columns returns the columns in order. The slice is a copy; the columns
// are shared.
func (d *Dataset) Columns() []*Column {
	return append([]*Column(nil), d.columns...)
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the first column with the given name.
func (d *Dataset) Lookup(name string) (*Column, bool) {
	for _, c := range d.columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports whether a column with the given name exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.Lookup(name)
	return ok
}

// IsMultiIndex reports whether any column carries a hierarchical header.
func (d *Dataset) IsMultiIndex() bool {
	for _, c := range d.columns {
		if c.IsHierarchical() {
			return true
		}
	}
	return false
}

// DisplayName returns the dataset name unless it is empty or a column is
// literally called "name".
func (d *Dataset) DisplayName() string {
	if d.Name == "" || d.HasColumn("name") {
		return DefaultName
	}
	return d.Name
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Name: d.Name, rows: d.rows, columns: make([]*Column, len(d.columns))}
	for i, c := range d.columns {
		out.columns[i] = c.Clone()
	}
	return out
}

// Filter returns a dataset sharing the columns for which keep returns true.
func (d *Dataset) Filter(keep func(*Column) bool) *Dataset {
	out := &Dataset{Name: d.Name, rows: d.rows}
	for _, c := range d.columns {
		if keep(c) {
			out.columns = append(out.columns, c)
		}
	}
	return out
}

// Select returns the columns for which match returns true.
func (d *Dataset) Select(match func(*Column) bool) []*Column {
	var out []*Column
	for _, c := range d.columns {
		if match(c) {
			out = append(out, c)
		}
	}
	return out
}

// WithColumnNames returns a copy of the dataset with its columns renamed.
func (d *Dataset) WithColumnNames(names []string) (*Dataset, error) {
	if len(names) != len(d.columns) {
		return nil, core.NewInvalidArgumentError("names", "length does not match column count")
	}
	cols := make([]*Column, len(d.columns))
	for i, c := range d.columns {
		cols[i] = c.Clone()
		cols[i].Name = names[i]
		cols[i].Levels = nil
	}
	out, err := NewDataset(d.Name, cols...)
	if err != nil {
		return nil, err
	}
	out.rows = d.rows
	return out, nil
}
