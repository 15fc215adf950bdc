package arrowframe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goskim/adapters/inference"
	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal"
)

func flatRecord(t *testing.T, mem memory.Allocator) arrow.Record {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int32},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "label", Type: arrow.BinaryTypes.String},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32},
		{Name: "at", Type: &arrow.TimestampType{Unit: arrow.Millisecond}},
		{Name: "took", Type: &arrow.DurationType{Unit: arrow.Second}},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.Int32Builder).AppendValues([]int32{1, 2}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{0.5, 0}, []bool{true, false})
	b.Field(2).(*array.StringBuilder).AppendValues([]string{"a", "b"}, nil)
	b.Field(3).(*array.Date32Builder).AppendValues([]arrow.Date32{
		arrow.Date32FromTime(time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC)),
		arrow.Date32FromTime(time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)),
	}, nil)
	at := time.Date(2022, 5, 1, 12, 30, 0, 0, time.UTC)
	b.Field(4).(*array.TimestampBuilder).AppendValues([]arrow.Timestamp{
		arrow.Timestamp(at.UnixMilli()),
		arrow.Timestamp(at.Add(time.Hour).UnixMilli()),
	}, nil)
	b.Field(5).(*array.DurationBuilder).AppendValues([]arrow.Duration{90, 3600}, nil)

	return b.NewRecord()
}

func TestFromRecords(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec := flatRecord(t, mem)
	defer rec.Release()

	ds, err := FromRecords(context.Background(), "arrow", rec, rec)
	require.NoError(t, err)

	assert.Equal(t, "arrow", ds.Name)
	assert.Equal(t, []string{"id", "score", "label", "day", "at", "took"}, ds.Names())
	assert.Equal(t, 4, ds.NumRows())

	id, _ := ds.Lookup("id")
	assert.Equal(t, []any{int32(1), int32(2), int32(1), int32(2)}, id.Values)
	score, _ := ds.Lookup("score")
	assert.Equal(t, []any{0.5, nil, 0.5, nil}, score.Values)
	day, _ := ds.Lookup("day")
	assert.Equal(t, frame.Date{Year: 2021, Month: 1, Day: 3}, day.Values[0])
	at, _ := ds.Lookup("at")
	assert.True(t, time.Date(2022, 5, 1, 12, 30, 0, 0, time.UTC).Equal(at.Values[0].(time.Time)))
	took, _ := ds.Lookup("took")
	assert.Equal(t, 90*time.Second, took.Values[0])
}

func TestStructFieldsBecomeHierarchical(t *testing.T) {
	mem := memory.NewGoAllocator()
	inner := arrow.StructOf(
		arrow.Field{Name: "one", Type: arrow.PrimitiveTypes.Float64},
		arrow.Field{Name: "two", Type: arrow.PrimitiveTypes.Float64},
	)
	schema := arrow.NewSchema([]arrow.Field{{Name: "bar", Type: inner, Nullable: true}}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	sb := b.Field(0).(*array.StructBuilder)
	sb.AppendValues([]bool{true, false})
	sb.FieldBuilder(0).(*array.Float64Builder).AppendValues([]float64{1, 0}, nil)
	sb.FieldBuilder(1).(*array.Float64Builder).AppendValues([]float64{2, 0}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	ds, err := FromRecords(context.Background(), "", rec)
	require.NoError(t, err)

	assert.True(t, ds.IsMultiIndex())
	assert.Equal(t, []string{"bar", "one"}, ds.Column(0).Levels)
	assert.Equal(t, []any{1.0, nil}, ds.Column(0).Values)
	assert.Equal(t, []any{2.0, nil}, ds.Column(1).Values)
}

func TestDictionaryBecomesCategory(t *testing.T) {
	mem := memory.NewGoAllocator()
	dictType := &arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int8, ValueType: arrow.BinaryTypes.String, Ordered: true}
	bldr := array.NewDictionaryBuilder(mem, dictType).(*array.BinaryDictionaryBuilder)
	defer bldr.Release()
	require.NoError(t, bldr.AppendString("UK"))
	require.NoError(t, bldr.AppendString("USA"))
	bldr.AppendNull()
	require.NoError(t, bldr.AppendString("UK"))
	arr := bldr.NewArray()
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "location", Type: dictType, Nullable: true}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, int64(arr.Len()))
	defer rec.Release()

	ds, err := FromRecords(context.Background(), "", rec)
	require.NoError(t, err)

	col := ds.Column(0)
	assert.Equal(t, frame.TypeCategory, col.Type)
	assert.Equal(t, []any{"UK", "USA", nil, "UK"}, col.Values)
	assert.Equal(t, &frame.CategoryInfo{Levels: []string{"UK", "USA"}, Ordered: true}, col.Categories)
}

func TestNestedColumnsAreUnsupported(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "tags", Type: arrow.ListOf(arrow.PrimitiveTypes.Int64), Nullable: true},
		{Name: "n", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	lb := b.Field(0).(*array.ListBuilder)
	vb := lb.ValueBuilder().(*array.Int64Builder)
	lb.Append(true)
	vb.AppendValues([]int64{1, 2}, nil)
	lb.AppendNull()
	lb.Append(true)
	vb.AppendValues([]int64{3}, nil)
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	ds, err := FromRecords(context.Background(), "", rec)
	require.NoError(t, err)

	tags := ds.Column(0)
	assert.IsType(t, Opaque{}, tags.Values[0])
	assert.Nil(t, tags.Values[1])

	engine := inference.NewEngine(summary.DefaultConfig())
	assert.Equal(t, frame.KindUnknownArray, engine.Detect(tags))
	kept, err := engine.DeleteUnsupported(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, kept.Names())
}

func TestFileSource(t *testing.T) {
	mem := memory.NewGoAllocator()
	rec := flatRecord(t, mem)
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "data.arrow")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := ipc.NewFileWriter(f, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	src := &FileSource{Path: path, Name: "feather", Logger: internal.NewNopLogger()}
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.NumRows())
	assert.Equal(t, 6, ds.NumCols())
}

func TestEmptySource(t *testing.T) {
	ds, err := (&Source{Name: "none"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ds.NumCols())
}
