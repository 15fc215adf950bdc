package frame

import (
	"fmt"
	"time"
)

// Kind is the raw kind detected from a column's values before any coercion.
type Kind string

const (
	KindEmpty             Kind = "empty"
	KindString            Kind = "string"
	KindInteger           Kind = "integer"
	KindFloating          Kind = "floating"
	KindBoolean           Kind = "boolean"
	KindDatetime          Kind = "datetime64"
	KindDate              Kind = "date"
	KindTimedelta         Kind = "timedelta64"
	KindCategorical       Kind = "categorical"
	KindComplex           Kind = "complex"
	KindMixed             Kind = "mixed"
	KindMixedInteger      Kind = "mixed-integer"
	KindMixedIntegerFloat Kind = "mixed-integer-float"
	KindUnknownArray      Kind = "unknown-array"
)

// SemanticType is the canonical storage type of a column after inference.
type SemanticType int

const (
	TypeObject SemanticType = iota
	TypeString
	TypeInt
	TypeFloat
	TypeDatetime
	TypeTimedelta
	TypeCategory
	TypeBool
	TypeComplex
)

// String returns the dtype name used in the "Data Types" section.
func (t SemanticType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int64"
	case TypeFloat:
		return "float64"
	case TypeDatetime:
		return "datetime64[ns]"
	case TypeTimedelta:
		return "timedelta64[ns]"
	case TypeCategory:
		return "category"
	case TypeBool:
		return "bool"
	case TypeComplex:
		return "complex128"
	default:
		return "object"
	}
}

// IsNumeric reports whether the type is summarized by the numeric summarizer.
func (t SemanticType) IsNumeric() bool {
	return t == TypeInt || t == TypeFloat || t == TypeComplex
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText encodes the date as YYYY-MM-DD.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// CategoryInfo carries the category levels of a categorical column.
type CategoryInfo struct {
	Levels  []string
	Ordered bool
}
