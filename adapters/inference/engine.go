package inference

import (
	"math"
	"time"

	"goskim/domain/core"
	"goskim/domain/frame"
	"goskim/domain/summary"
)

// Engine detects the raw kind of each column and coerces columns to their
// canonical storage type.
type Engine struct {
	cfg summary.Config
}

// NewEngine creates an engine that drops the unsupported kinds of cfg.
func NewEngine(cfg summary.Config) *Engine {
	return &Engine{cfg: cfg}
}

// valueClass is the kind of a single non-null value.
type valueClass int

const (
	classUnknown valueClass = iota
	classInteger
	classFloating
	classString
	classBoolean
	classDatetime
	classDate
	classTimedelta
	classComplex
)

func classify(v any) valueClass {
	switch x := v.(type) {
	case uint:
		if uint64(x) > math.MaxInt64 {
			return classFloating
		}
		return classInteger
	case uint64:
		// Beyond int64 the value only fits a float.
		if x > math.MaxInt64 {
			return classFloating
		}
		return classInteger
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return classInteger
	case float32, float64:
		return classFloating
	case string:
		return classString
	case bool:
		return classBoolean
	case time.Time:
		return classDatetime
	case frame.Date:
		return classDate
	case time.Duration:
		return classTimedelta
	case complex64, complex128:
		return classComplex
	}
	return classUnknown
}

var kindOfClass = map[valueClass]frame.Kind{
	classUnknown:   frame.KindUnknownArray,
	classInteger:   frame.KindInteger,
	classFloating:  frame.KindFloating,
	classString:    frame.KindString,
	classBoolean:   frame.KindBoolean,
	classDatetime:  frame.KindDatetime,
	classDate:      frame.KindDate,
	classTimedelta: frame.KindTimedelta,
	classComplex:   frame.KindComplex,
}

// Detect returns the raw kind of col without modifying it. Nulls are
// skipped; a column with no other values is empty.
func (e *Engine) Detect(col *frame.Column) frame.Kind {
	if col.Categories != nil {
		return frame.KindCategorical
	}

	seen := make(map[valueClass]bool)
	for _, v := range col.Values {
		if frame.IsNull(v) {
			continue
		}
		seen[classify(v)] = true
	}

	switch len(seen) {
	case 0:
		return frame.KindEmpty
	case 1:
		for c := range seen {
			return kindOfClass[c]
		}
	}

	if seen[classInteger] {
		if len(seen) == 2 && seen[classFloating] {
			return frame.KindMixedIntegerFloat
		}
		return frame.KindMixedInteger
	}
	return frame.KindMixed
}

// DeleteUnsupported returns a dataset without the columns whose kind is
// unsupported. It fails when nothing is left.
func (e *Engine) DeleteUnsupported(ds *frame.Dataset) (*frame.Dataset, error) {
	var found []string
	seen := make(map[frame.Kind]bool)
	out := ds.Filter(func(col *frame.Column) bool {
		k := e.Detect(col)
		if !e.cfg.IsUnsupported(k) {
			return true
		}
		if !seen[k] {
			seen[k] = true
			found = append(found, string(k))
		}
		return false
	})

	if out.NumCols() == 0 {
		if len(found) == 0 {
			return nil, core.ErrEmptyDataset
		}
		return nil, core.NewUnsupportedSchemaError(found)
	}
	return out, nil
}

// Infer coerces every column in place to its canonical type. Callers own
// ds; pass a clone to keep the original intact.
func (e *Engine) Infer(ds *frame.Dataset) *frame.Dataset {
	for _, col := range ds.Columns() {
		kind := e.Detect(col)
		switch kind {
		case frame.KindString:
			coerce(col, frame.TypeString, identity)
		case frame.KindInteger:
			coerce(col, frame.TypeInt, toInt64)
		case frame.KindFloating:
			coerce(col, frame.TypeFloat, toFloat64)
		case frame.KindTimedelta:
			coerce(col, frame.TypeTimedelta, identity)
		case frame.KindDatetime:
			coerce(col, frame.TypeDatetime, toNaive)
		case frame.KindCategorical:
			coerce(col, frame.TypeCategory, identity)
		case frame.KindBoolean:
			coerce(col, frame.TypeBool, identity)
		case frame.KindComplex:
			coerce(col, frame.TypeComplex, toComplex128)
		case frame.KindEmpty:
			// A declared type survives when there is nothing to contradict it.
			coerce(col, col.Type, identity)
		case frame.KindDate:
			// Left as object; picked up later as date-only.
			col.Type = frame.TypeObject
		default:
			col.Type = frame.TypeObject
		}
	}
	return ds
}

// IsDateColumn reports whether every non-null value of col is a date
// without a time of day.
func IsDateColumn(col *frame.Column) bool {
	found := false
	for _, v := range col.Values {
		if frame.IsNull(v) {
			continue
		}
		if _, ok := v.(frame.Date); !ok {
			return false
		}
		found = true
	}
	return found
}

func coerce(col *frame.Column, t frame.SemanticType, conv func(any) any) {
	for i, v := range col.Values {
		if frame.IsNull(v) {
			col.Values[i] = nil
			continue
		}
		col.Values[i] = conv(v)
	}
	col.Type = t
}

func identity(v any) any { return v }

func toInt64(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	}
	return v
}

func toFloat64(v any) any {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case uint:
		return float64(x)
	case uint64:
		return float64(x)
	}
	return v
}

func toComplex128(v any) any {
	if x, ok := v.(complex64); ok {
		return complex128(x)
	}
	return v
}

// toNaive drops the zone and keeps the wall clock.
func toNaive(v any) any {
	t := v.(time.Time)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
