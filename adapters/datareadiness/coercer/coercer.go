package coercer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"goskim/domain/frame"
)

// ValueType is the storage type a text column is coerced to
type ValueType string

const (
	ValueTypeInteger   ValueType = "integer"
	ValueTypeFloat     ValueType = "float"
	ValueTypeBoolean   ValueType = "boolean"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeDate      ValueType = "date"
	ValueTypeDuration  ValueType = "duration"
	ValueTypeString    ValueType = "string"
	ValueTypeMissing   ValueType = "missing"
)

// defaultNullTokens are the cell spellings read as missing values.
var defaultNullTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// TypeCoercer types whole columns of text cells with threshold rules
type TypeCoercer struct {
	config CoercionConfig
	nulls  map[string]struct{}
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64  `json:"numeric_threshold"`   // share of non-null cells that must parse as numbers
	BooleanThreshold   float64  `json:"boolean_threshold"`   // share that must parse as booleans
	TimestampThreshold float64  `json:"timestamp_threshold"` // share that must parse as timestamps or dates
	DurationThreshold  float64  `json:"duration_threshold"`  // share that must parse as durations
	NullTokens         []string `json:"null_tokens"`
	TrimSpace          bool     `json:"trim_space"`
}

// DefaultCoercionConfig requires every non-null cell to parse before a
// column is given a typed representation.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		BooleanThreshold:   1.0,
		TimestampThreshold: 1.0,
		DurationThreshold:  1.0,
		NullTokens:         defaultNullTokens,
		TrimSpace:          true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	nulls := make(map[string]struct{}, len(config.NullTokens))
	for _, tok := range config.NullTokens {
		nulls[tok] = struct{}{}
	}
	return &TypeCoercer{config: config, nulls: nulls}
}

// IsNull reports whether a raw cell is a missing value
func (c *TypeCoercer) IsNull(raw string) bool {
	_, ok := c.nulls[c.clean(raw)]
	return ok
}

// AnalyzeTypeDistribution counts how many non-null cells parse as each type
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}

	for _, raw := range values {
		if c.IsNull(raw) {
			continue
		}
		analysis.ValidCount++
		s := c.clean(raw)

		if _, ok := parseInteger(s); ok {
			analysis.IntegerCount++
		}
		if _, ok := parseFloat(s); ok {
			analysis.NumericCount++
		}
		if _, ok := parseBoolean(s); ok {
			analysis.BooleanCount++
		}
		if _, ok := parseDate(s); ok {
			analysis.DateCount++
			analysis.TimestampCount++
		} else if _, ok := parseTimestamp(s); ok {
			analysis.TimestampCount++
		}
		if _, ok := parseDuration(s); ok {
			analysis.DurationCount++
		}
	}

	if analysis.ValidCount > 0 {
		valid := float64(analysis.ValidCount)
		analysis.IntegerRatio = float64(analysis.IntegerCount) / valid
		analysis.NumericRatio = float64(analysis.NumericCount) / valid
		analysis.BooleanRatio = float64(analysis.BooleanCount) / valid
		analysis.TimestampRatio = float64(analysis.TimestampCount) / valid
		analysis.DateRatio = float64(analysis.DateCount) / valid
		analysis.DurationRatio = float64(analysis.DurationCount) / valid
	}

	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// CoerceColumn converts text cells to typed values. Null tokens become nil;
// cells that do not parse as the recommended type become nil too.
func (c *TypeCoercer) CoerceColumn(values []string) ([]any, ValueType) {
	vt := c.AnalyzeTypeDistribution(values).RecommendedType
	out := make([]any, len(values))
	for i, raw := range values {
		if c.IsNull(raw) {
			continue
		}
		out[i] = c.CoerceValue(raw, vt)
	}
	return out, vt
}

// CoerceValue parses one cell as vt, returning nil when it does not parse
func (c *TypeCoercer) CoerceValue(raw string, vt ValueType) any {
	s := c.clean(raw)
	var (
		v  any
		ok bool
	)
	switch vt {
	case ValueTypeInteger:
		v, ok = parseInteger(s)
	case ValueTypeFloat:
		v, ok = parseFloat(s)
	case ValueTypeBoolean:
		v, ok = parseBoolean(s)
	case ValueTypeDate:
		v, ok = parseDate(s)
	case ValueTypeTimestamp:
		if d, isDate := parseDate(s); isDate {
			return d.Time()
		}
		v, ok = parseTimestamp(s)
	case ValueTypeDuration:
		v, ok = parseDuration(s)
	case ValueTypeString:
		return s
	}
	if !ok {
		return nil
	}
	return v
}

func (c *TypeCoercer) clean(s string) string {
	if c.config.TrimSpace {
		return strings.TrimSpace(s)
	}
	return s
}

// determineRecommendedType chooses the best type based on analysis
func (c *TypeCoercer) determineRecommendedType(a TypeAnalysis) ValueType {
	if a.ValidCount == 0 {
		return ValueTypeMissing
	}
	// Most restrictive first
	if a.IntegerRatio >= c.config.NumericThreshold {
		return ValueTypeInteger
	}
	if a.NumericRatio >= c.config.NumericThreshold {
		return ValueTypeFloat
	}
	if a.BooleanRatio >= c.config.BooleanThreshold {
		return ValueTypeBoolean
	}
	if a.DateRatio >= c.config.TimestampThreshold {
		return ValueTypeDate
	}
	if a.TimestampRatio >= c.config.TimestampThreshold {
		return ValueTypeTimestamp
	}
	if a.DurationRatio >= c.config.DurationThreshold {
		return ValueTypeDuration
	}
	return ValueTypeString
}

func parseInteger(s string) (int64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func parseBoolean(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func parseDate(s string) (frame.Date, bool) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return frame.DateOf(t), true
		}
	}
	return frame.Date{}, false
}

// parseTimestamp keeps the wall clock of zoned values; inference makes
// them naive later.
func parseTimestamp(s string) (time.Time, bool) {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDuration accepts Go duration strings ("1h30m") and the
// "N days HH:MM:SS" form.
func parseDuration(s string) (time.Duration, bool) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	fields := strings.Fields(s)
	if len(fields) < 2 || len(fields) > 3 || (fields[1] != "days" && fields[1] != "day") {
		return 0, false
	}
	days, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, false
	}
	d := time.Duration(days) * 24 * time.Hour
	if len(fields) == 3 {
		clock, err := time.Parse("15:04:05", fields[2])
		if err != nil {
			return 0, false
		}
		offset := time.Duration(clock.Hour())*time.Hour +
			time.Duration(clock.Minute())*time.Minute +
			time.Duration(clock.Second())*time.Second
		if days < 0 {
			offset = -offset
		}
		d += offset
	}
	return d, true
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int       `json:"total_count"`
	ValidCount      int       `json:"valid_count"`
	IntegerCount    int       `json:"integer_count"`
	NumericCount    int       `json:"numeric_count"`
	BooleanCount    int       `json:"boolean_count"`
	TimestampCount  int       `json:"timestamp_count"`
	DateCount       int       `json:"date_count"`
	DurationCount   int       `json:"duration_count"`
	IntegerRatio    float64   `json:"integer_ratio"`
	NumericRatio    float64   `json:"numeric_ratio"`
	BooleanRatio    float64   `json:"boolean_ratio"`
	TimestampRatio  float64   `json:"timestamp_ratio"`
	DateRatio       float64   `json:"date_ratio"`
	DurationRatio   float64   `json:"duration_ratio"`
	RecommendedType ValueType `json:"recommended_type"`
}
