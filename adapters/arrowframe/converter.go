// Package arrowframe converts Apache Arrow record batches into datasets.
package arrowframe

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"goskim/domain/frame"
	"goskim/internal"
	apperrors "goskim/internal/errors"
)

// Source serves one or more record batches sharing a schema as a dataset.
type Source struct {
	Name    string
	Records []arrow.Record
}

// Load implements ports.DatasetSource
func (s *Source) Load(ctx context.Context) (*frame.Dataset, error) {
	return FromRecords(ctx, s.Name, s.Records...)
}

// FileSource reads an Arrow IPC (feather v2) file.
type FileSource struct {
	Path   string
	Name   string
	Logger *internal.Logger
}

// Load opens the file and converts every record batch in it
func (s *FileSource) Load(ctx context.Context) (*frame.Dataset, error) {
	logger := s.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NotFound(fmt.Sprintf("arrow file %s", s.Path))
		}
		return nil, apperrors.Wrap(err, "failed to open arrow file")
	}
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("failed to read arrow file: %w", err))
	}
	defer r.Close()

	records := make([]arrow.Record, 0, r.NumRecords())
	for i := 0; i < r.NumRecords(); i++ {
		rec, err := r.Record(i)
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeInvalidInput, fmt.Errorf("failed to read record batch %d: %w", i, err))
		}
		// The reader reuses the batch on the next call.
		rec.Retain()
		defer rec.Release()
		records = append(records, rec)
	}
	logger.Debug("[arrowframe] %s: %d record batches", s.Path, len(records))

	if len(records) == 0 {
		return emptyDataset(s.Name, r.Schema())
	}
	return FromRecords(ctx, s.Name, records...)
}

// FromRecords concatenates record batches row-wise into one dataset. Struct
// columns are flattened into one column per leaf field carrying the
// hierarchical header.
func FromRecords(ctx context.Context, name string, records ...arrow.Record) (*frame.Dataset, error) {
	if len(records) == 0 {
		return frame.NewDataset(name)
	}
	schema := records[0].Schema()

	var cols []*frame.Column
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !rec.Schema().Equal(schema) {
			return nil, apperrors.InvalidInput("record batches have different schemas")
		}
		batch := make([]*frame.Column, 0, len(cols))
		for i, field := range schema.Fields() {
			batch = append(batch, convertField([]string{field.Name}, rec.Column(i))...)
		}
		if cols == nil {
			cols = batch
			continue
		}
		for j, c := range batch {
			cols[j].Values = append(cols[j].Values, c.Values...)
		}
	}
	return frame.NewDataset(name, cols...)
}

func emptyDataset(name string, schema *arrow.Schema) (*frame.Dataset, error) {
	cols := make([]*frame.Column, 0, schema.NumFields())
	for _, field := range schema.Fields() {
		cols = append(cols, frame.NewColumn(field.Name, []any{}))
	}
	return frame.NewDataset(name, cols...)
}

// convertField turns one arrow array into columns; only structs produce
// more than one.
func convertField(path []string, arr arrow.Array) []*frame.Column {
	if st, ok := arr.(*array.Struct); ok {
		stType := st.DataType().(*arrow.StructType)
		var out []*frame.Column
		for j, child := range stType.Fields() {
			childPath := append(append([]string(nil), path...), child.Name)
			for _, c := range convertField(childPath, st.Field(j)) {
				// A null struct row nulls every leaf.
				for i := range c.Values {
					if st.IsNull(i) {
						c.Values[i] = nil
					}
				}
				out = append(out, c)
			}
		}
		return out
	}

	col := &frame.Column{Name: path[len(path)-1], Type: frame.TypeObject}
	if len(path) > 1 {
		col.Levels = path
	}

	if dict, ok := arr.(*array.Dictionary); ok {
		col.Type = frame.TypeCategory
		col.Categories = dictionaryInfo(dict)
		col.Values = make([]any, dict.Len())
		for i := range col.Values {
			if !dict.IsNull(i) {
				col.Values[i] = extractValue(dict.Dictionary(), dict.GetValueIndex(i))
			}
		}
		return []*frame.Column{col}
	}

	col.Values = make([]any, arr.Len())
	for i := range col.Values {
		col.Values[i] = extractValue(arr, i)
	}
	return []*frame.Column{col}
}

func dictionaryInfo(dict *array.Dictionary) *frame.CategoryInfo {
	values := dict.Dictionary()
	levels := make([]string, 0, values.Len())
	for i := 0; i < values.Len(); i++ {
		if !values.IsNull(i) {
			levels = append(levels, values.ValueStr(i))
		}
	}
	ordered := dict.DataType().(*arrow.DictionaryType).Ordered
	return &frame.CategoryInfo{Levels: levels, Ordered: ordered}
}

// extractValue extracts a value from an Arrow array at a specific index
func extractValue(arr arrow.Array, index int) any {
	if arr.IsNull(index) {
		return nil
	}

	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(index)
	case *array.Int8:
		return a.Value(index)
	case *array.Int16:
		return a.Value(index)
	case *array.Int32:
		return a.Value(index)
	case *array.Int64:
		return a.Value(index)
	case *array.Uint8:
		return a.Value(index)
	case *array.Uint16:
		return a.Value(index)
	case *array.Uint32:
		return a.Value(index)
	case *array.Uint64:
		return a.Value(index)
	case *array.Float32:
		return a.Value(index)
	case *array.Float64:
		return a.Value(index)
	case *array.String:
		return a.Value(index)
	case *array.LargeString:
		return a.Value(index)
	case *array.Date32:
		return frame.DateOf(a.Value(index).ToTime())
	case *array.Date64:
		return frame.DateOf(a.Value(index).ToTime())
	case *array.Timestamp:
		tsType := a.DataType().(*arrow.TimestampType)
		t := a.Value(index).ToTime(tsType.Unit)
		if loc, err := tsType.GetZone(); err == nil && loc != nil {
			t = t.In(loc)
		}
		return t
	case *array.Duration:
		unit := a.DataType().(*arrow.DurationType).Unit
		return time.Duration(a.Value(index)) * unit.Multiplier()
	}
	return Opaque{Value: arr.GetOneForMarshal(index)}
}

// Opaque wraps a cell whose Arrow type (list, map, decimal, binary and the
// like) has no frame counterpart. Inference treats such columns as
// unsupported instead of reading them as text.
type Opaque struct {
	Value any
}
