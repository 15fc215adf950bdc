package summary

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"goskim/domain/frame"
)

// Statistic names shared by several summarizers.
const (
	StatMissing    = "NA"
	StatMissingPct = "NA %"
	StatMean       = "mean"
	StatFirst      = "first"
	StatLast       = "last"
	StatHist       = "hist"
)

// Fixed section titles.
const (
	TitleDataSummary = "Data Summary"
	TitleDataTypes   = "Data Types"
	TitleCategories  = "Categories"
)

// SectionKind enumerates the per-type sections in their output order.
type SectionKind int

const (
	SectionAllNull SectionKind = iota
	SectionNumber
	SectionCategory
	SectionBool
	SectionDatetime
	SectionDate
	SectionTimedelta
	SectionString
)

// SectionKinds lists every per-type section in output order.
var SectionKinds = []SectionKind{
	SectionAllNull,
	SectionNumber,
	SectionCategory,
	SectionBool,
	SectionDatetime,
	SectionDate,
	SectionTimedelta,
	SectionString,
}

// Title returns the section key used in the result.
func (k SectionKind) Title() string {
	switch k {
	case SectionAllNull:
		return "All null"
	case SectionNumber:
		return "number"
	case SectionCategory:
		return "category"
	case SectionBool:
		return "bool"
	case SectionDatetime:
		return "datetime"
	case SectionDate:
		return "date"
	case SectionTimedelta:
		return "timedelta64[ns]"
	case SectionString:
		return "string"
	}
	return fmt.Sprintf("section(%d)", int(k))
}

func (k SectionKind) String() string { return k.Title() }

// QuantileLabel returns the statistic name for quantile q, e.g. 0.25 -> "p25".
func QuantileLabel(q float64) string {
	return "p" + strconv.Itoa(int(q*100))
}

// Row is one column's statistics, aligned with the owning table's Stats.
type Row struct {
	Column string
	Values []any
}

// Table holds statistics for a group of same-typed columns: one row per
// column, one entry per statistic.
type Table struct {
	Title string
	Stats []string
	Rows  []Row
}

// NewTable creates an empty table with the given statistic names.
func NewTable(title string, stats ...string) *Table {
	return &Table{Title: title, Stats: stats}
}

// AppendRow adds a row. Values must line up with Stats.
func (t *Table) AppendRow(column string, values ...any) {
	if len(values) != len(t.Stats) {
		panic(fmt.Sprintf("summary: row %q has %d values for %d stats", column, len(values), len(t.Stats)))
	}
	t.Rows = append(t.Rows, Row{Column: column, Values: values})
}

// Get returns the value of stat for column.
func (t *Table) Get(column, stat string) (any, bool) {
	j := t.statIndex(stat)
	if j < 0 {
		return nil, false
	}
	for _, r := range t.Rows {
		if r.Column == column {
			return r.Values[j], true
		}
	}
	return nil, false
}

// HasStat reports whether the table carries stat.
func (t *Table) HasStat(stat string) bool { return t.statIndex(stat) >= 0 }

// Columns returns the row keys in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Column
	}
	return out
}

func (t *Table) statIndex(stat string) int {
	for j, s := range t.Stats {
		if s == stat {
			return j
		}
	}
	return -1
}

// Entry is one key/value pair of a scalar section.
type Entry struct {
	Key   string
	Value any
}

// Section is either a list of scalar entries or a statistics table.
type Section struct {
	Title   string
	Entries []Entry
	Table   *Table
}

// IsTable reports whether the section holds a statistics table.
func (s Section) IsTable() bool { return s.Table != nil }

// Result is the ordered summary of one dataset.
type Result struct {
	Name     string
	Sections []Section
}

// Section returns the section with the given title.
func (r *Result) Section(title string) (*Section, bool) {
	for i := range r.Sections {
		if r.Sections[i].Title == title {
			return &r.Sections[i], true
		}
	}
	return nil, false
}

// Table returns the statistics table of the given section kind.
func (r *Result) Table(kind SectionKind) (*Table, bool) {
	s, ok := r.Section(kind.Title())
	if !ok || s.Table == nil {
		return nil, false
	}
	return s.Table, true
}

// Titles returns the section titles in order.
func (r *Result) Titles() []string {
	out := make([]string, len(r.Sections))
	for i, s := range r.Sections {
		out[i] = s.Title
	}
	return out
}

// Add appends a section.
func (r *Result) Add(s Section) {
	r.Sections = append(r.Sections, s)
}

// Cell converts a stored statistic into its encoded form: NaN becomes nil,
// durations become their string form, times are formatted RFC 3339.
func Cell(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case time.Duration:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case frame.Date:
		return x.String()
	}
	return v
}
