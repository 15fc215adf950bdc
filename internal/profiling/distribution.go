package profiling

import (
	"errors"
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"
)

// ErrNoData is returned when a distribution is requested over no values.
var ErrNoData = errors.New("profiling: no data")

// Distribution holds the summary statistics of one numeric column.
type Distribution struct {
	Count     int
	Mean      float64
	StdDev    float64 // sample standard deviation; NaN below two values
	Min       float64
	Max       float64
	Quantiles []float64 // aligned with the requested levels
}

// DistributionAnalyzer computes summary statistics over float slices.
type DistributionAnalyzer struct {
	Levels []float64
}

// NewDistributionAnalyzer creates an analyzer for the given quantile levels.
func NewDistributionAnalyzer(levels []float64) *DistributionAnalyzer {
	return &DistributionAnalyzer{Levels: levels}
}

// Analyze computes the distribution of data. NaN entries are ignored.
func (da *DistributionAnalyzer) Analyze(data []float64) (Distribution, error) {
	clean := DropNaN(data)
	if len(clean) == 0 {
		return Distribution{}, ErrNoData
	}

	mean, err := stats.Mean(clean)
	if err != nil {
		return Distribution{}, err
	}

	// Sample standard deviation (n-1 denominator)
	stdDev := math.NaN()
	if len(clean) > 1 {
		stdDev, err = stats.StandardDeviationSample(clean)
		if err != nil {
			return Distribution{}, err
		}
	}

	min, err := stats.Min(clean)
	if err != nil {
		return Distribution{}, err
	}

	max, err := stats.Max(clean)
	if err != nil {
		return Distribution{}, err
	}

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)
	qs := make([]float64, len(da.Levels))
	for i, p := range da.Levels {
		qs[i] = Quantile(sorted, p)
	}

	return Distribution{
		Count:     len(clean),
		Mean:      mean,
		StdDev:    stdDev,
		Min:       min,
		Max:       max,
		Quantiles: qs,
	}, nil
}

// Quantile returns the p-quantile of sorted data using linear interpolation
// between closest ranks (h = (n-1)p).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	// Equal neighbours need no interpolation; for infinities it would give NaN.
	if h == lo || sorted[i] == sorted[i+1] {
		return sorted[i]
	}
	frac := h - lo
	if diff := sorted[i+1] - sorted[i]; !math.IsInf(diff, 0) {
		return sorted[i] + frac*diff
	}
	return sorted[i]*(1-frac) + sorted[i+1]*frac
}

// RoundSigFigs rounds x to n significant figures, e.g. 10001 -> 10000 and
// -0.643 -> -0.64 for n = 2. NaN and infinities pass through.
func RoundSigFigs(x float64, n int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x == 0 {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'g', n, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// DropNaN returns data without NaN entries.
func DropNaN(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, x := range data {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
