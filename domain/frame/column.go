package frame

import (
	"math"
	"sort"
)

// Column is a named, ordered sequence of nullable values.
type Column struct {
	Name       string        `json:"name"`
	Levels     []string      `json:"levels,omitempty"` // hierarchical header, outermost first
	Type       SemanticType  `json:"type"`
	Values     []any         `json:"values"`
	Categories *CategoryInfo `json:"categories,omitempty"`
}

// NewColumn creates an object column; its type is settled by inference.
func NewColumn(name string, values []any) *Column {
	return &Column{Name: name, Type: TypeObject, Values: values}
}

// NewFloatColumn creates a float64 column. NaN entries are nulls.
func NewFloatColumn(name string, values []float64) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		out[i] = v
	}
	return &Column{Name: name, Type: TypeFloat, Values: out}
}

// NewIntColumn creates an int64 column without nulls.
func NewIntColumn(name string, values []int64) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return &Column{Name: name, Type: TypeInt, Values: out}
}

// NewStringColumn creates a string column without nulls.
func NewStringColumn(name string, values []string) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return &Column{Name: name, Type: TypeString, Values: out}
}

// NewBoolColumn creates a bool column without nulls.
func NewBoolColumn(name string, values []bool) *Column {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return &Column{Name: name, Type: TypeBool, Values: out}
}

// NewCategoryColumn creates a categorical column. Levels are the sorted
// distinct non-null string forms of values.
func NewCategoryColumn(name string, values []any, ordered bool) *Column {
	seen := make(map[string]struct{})
	var levels []string
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			levels = append(levels, s)
		}
	}
	sort.Strings(levels)
	return &Column{
		Name:       name,
		Type:       TypeCategory,
		Values:     values,
		Categories: &CategoryInfo{Levels: levels, Ordered: ordered},
	}
}

// IsNull reports whether v is a missing value.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.Values) }

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool { return IsNull(c.Values[i]) }

// NullCount returns the number of missing rows.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if IsNull(v) {
			n++
		}
	}
	return n
}

// AllNull reports whether every row is missing.
func (c *Column) AllNull() bool {
	return c.NullCount() == len(c.Values)
}

// NonNull returns the non-missing values in order.
func (c *Column) NonNull() []any {
	out := make([]any, 0, len(c.Values))
	for _, v := range c.Values {
		if !IsNull(v) {
			out = append(out, v)
		}
	}
	return out
}

// IsHierarchical reports whether the column header has more than one level.
func (c *Column) IsHierarchical() bool { return len(c.Levels) > 1 }

// Clone returns a deep copy. Stored values are immutable value types, so
// copying the slice is enough.
func (c *Column) Clone() *Column {
	out := &Column{
		Name:   c.Name,
		Type:   c.Type,
		Values: append([]any(nil), c.Values...),
	}
	if c.Levels != nil {
		out.Levels = append([]string(nil), c.Levels...)
	}
	if c.Categories != nil {
		out.Categories = &CategoryInfo{
			Levels:  append([]string(nil), c.Categories.Levels...),
			Ordered: c.Categories.Ordered,
		}
	}
	return out
}
