// Package frequency infers a regular frequency alias ("D", "2h", "ME",
// "QS-OCT", "W-SUN", ...) from a sequence of timestamps.
package frequency

import (
	"sort"
	"strconv"
	"time"
)

// MinValues is the smallest number of timestamps a frequency can be
// inferred from.
const MinValues = 3

const day = 24 * time.Hour

var weekdayAliases = map[time.Weekday]string{
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
	time.Sunday:    "SUN",
}

var monthAliases = [...]string{
	"", "JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// Infer returns the frequency alias of times, which must be ordered. It
// reports false when fewer than MinValues timestamps are given, when they
// are not strictly increasing, or when no regular frequency fits.
func Infer(times []time.Time) (string, bool) {
	if len(times) < MinValues {
		return "", false
	}
	in := newInferer(times)
	if in == nil {
		return "", false
	}
	alias := in.rule()
	return alias, alias != ""
}

type inferer struct {
	times  []time.Time
	deltas []time.Duration // sorted, unique
	raw    []time.Duration
}

func newInferer(times []time.Time) *inferer {
	raw := make([]time.Duration, len(times)-1)
	for i := 1; i < len(times); i++ {
		d := times[i].Sub(times[i-1])
		if d <= 0 {
			return nil
		}
		raw[i-1] = d
	}
	return &inferer{times: times, raw: raw, deltas: uniqueSorted(raw)}
}

func (in *inferer) uniform() bool { return len(in.deltas) == 1 }

func (in *inferer) rule() string {
	smallest := in.deltas[0]
	if smallest%day == 0 {
		return in.dailyRule()
	}
	if !in.uniform() {
		return ""
	}
	switch {
	case smallest%time.Hour == 0:
		return withCount("h", int64(smallest/time.Hour))
	case smallest%time.Minute == 0:
		return withCount("min", int64(smallest/time.Minute))
	case smallest%time.Second == 0:
		return withCount("s", int64(smallest/time.Second))
	case smallest%time.Millisecond == 0:
		return withCount("ms", int64(smallest/time.Millisecond))
	case smallest%time.Microsecond == 0:
		return withCount("us", int64(smallest/time.Microsecond))
	}
	return withCount("ns", int64(smallest))
}

func (in *inferer) dailyRule() string {
	if rule := in.annualRule(); rule != "" {
		return rule
	}
	if rule := in.quarterlyRule(); rule != "" {
		return rule
	}
	if rule := in.monthlyRule(); rule != "" {
		return rule
	}
	if in.uniform() {
		days := int64(in.deltas[0] / day)
		if days%7 == 0 {
			return withCount("W-"+weekdayAliases[in.times[0].Weekday()], days/7)
		}
		return withCount("D", days)
	}
	if in.businessDaily() {
		return "B"
	}
	return ""
}

func (in *inferer) annualRule() string {
	years := in.yearDiffs()
	if len(years) != 1 {
		return ""
	}
	month := in.times[0].Month()
	for _, t := range in.times {
		if t.Month() != month {
			return ""
		}
	}
	prefix, ok := map[string]string{"cs": "YS", "bs": "BYS", "ce": "YE", "be": "BYE"}[in.monthPosition()]
	if !ok {
		return ""
	}
	return withCount(prefix+"-"+monthAliases[month], int64(years[0]))
}

func (in *inferer) quarterlyRule() string {
	months := in.monthDiffs()
	if len(months) != 1 || months[0]%3 != 0 {
		return ""
	}
	prefix, ok := map[string]string{"cs": "QS", "bs": "BQS", "ce": "QE", "be": "BQE"}[in.monthPosition()]
	if !ok {
		return ""
	}
	anchor := (int(in.times[0].Month())-1)%3 + 10
	return withCount(prefix+"-"+monthAliases[anchor], int64(months[0]/3))
}

func (in *inferer) monthlyRule() string {
	months := in.monthDiffs()
	if len(months) != 1 {
		return ""
	}
	prefix, ok := map[string]string{"cs": "MS", "bs": "BMS", "ce": "ME", "be": "BME"}[in.monthPosition()]
	if !ok {
		return ""
	}
	return withCount(prefix, int64(months[0]))
}

// monthPosition classifies where every timestamp falls within its month:
// "ce" calendar end, "be" business end, "cs" calendar start, "bs" business
// start, or "" when they disagree.
func (in *inferer) monthPosition() string {
	calendarStart, businessStart := true, true
	calendarEnd, businessEnd := true, true
	for _, t := range in.times {
		d, wd := t.Day(), t.Weekday()
		last := daysIn(t.Year(), t.Month())

		cs := d == 1
		calendarStart = calendarStart && cs
		businessStart = businessStart && (cs || (d <= 3 && wd == time.Monday))

		ce := d == last
		calendarEnd = calendarEnd && ce
		businessEnd = businessEnd && (ce || (last-d < 3 && wd == time.Friday))

		if !calendarStart && !businessStart && !calendarEnd && !businessEnd {
			return ""
		}
	}
	switch {
	case calendarEnd:
		return "ce"
	case businessEnd:
		return "be"
	case calendarStart:
		return "cs"
	case businessStart:
		return "bs"
	}
	return ""
}

// businessDaily reports whether the timestamps step one day at a time on
// weekdays and three days over each weekend.
func (in *inferer) businessDaily() bool {
	if len(in.deltas) != 2 || in.deltas[0] != day || in.deltas[1] != 3*day {
		return false
	}
	wd := int(in.times[0].Weekday()+6) % 7 // Monday = 0
	for _, d := range in.raw {
		shift := int(d / day)
		wd = (wd + shift) % 7
		switch {
		case wd == 0 && shift == 3:
		case wd > 0 && wd <= 4 && shift == 1:
		default:
			return false
		}
	}
	return true
}

func (in *inferer) yearDiffs() []int {
	vals := make([]int, len(in.times))
	for i, t := range in.times {
		vals[i] = t.Year()
	}
	return uniqueDiffs(vals)
}

func (in *inferer) monthDiffs() []int {
	vals := make([]int, len(in.times))
	for i, t := range in.times {
		vals[i] = t.Year()*12 + int(t.Month())
	}
	return uniqueDiffs(vals)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func withCount(base string, n int64) string {
	if n == 1 {
		return base
	}
	return strconv.FormatInt(n, 10) + base
}

func uniqueSorted(ds []time.Duration) []time.Duration {
	seen := make(map[time.Duration]bool, len(ds))
	var out []time.Duration
	for _, d := range ds {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func uniqueDiffs(vals []int) []int {
	seen := make(map[int]bool)
	var out []int
	for i := 1; i < len(vals); i++ {
		d := vals[i] - vals[i-1]
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
