// Package histogram draws a numeric distribution as a short row of unicode
// block characters.
package histogram

import (
	"math"
	"runtime"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type level struct {
	frac  float64
	glyph rune
}

// levels maps bar heights to glyphs: space, then U+2581..U+2588.
var levels = []level{
	{0, ' '},
	{1.0 / 8, '▁'},
	{1.0 / 4, '▂'},
	{3.0 / 8, '▃'},
	{1.0 / 2, '▄'},
	{5.0 / 8, '▅'},
	{3.0 / 4, '▆'},
	{7.0 / 8, '▇'},
	{1, '█'},
}

// Renderer turns values into a glyph string of Bins characters.
type Renderer struct {
	Bins int
	// Posix selects the full glyph table. Without it the half and full
	// blocks are left out, since their widths vary between Windows fonts.
	Posix bool
}

// New returns a renderer for the current platform.
func New(bins int) Renderer {
	return Renderer{Bins: bins, Posix: runtime.GOOS != "windows"}
}

// Render returns the histogram of values. NaN and infinite entries are
// dropped; empty input renders as an empty string.
func (r Renderer) Render(values []float64) string {
	data := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			data = append(data, v)
		}
	}
	if len(data) == 0 || r.Bins <= 0 {
		return ""
	}

	counts := Counts(data, r.Bins)
	tallest := floats.Max(counts)
	table := r.table()

	var b strings.Builder
	for _, c := range counts {
		b.WriteRune(nearest(table, c/tallest))
	}
	return b.String()
}

// RenderBools renders booleans as a histogram of zeros and ones.
func (r Renderer) RenderBools(values []bool) string {
	data := make([]float64, len(values))
	for i, v := range values {
		if v {
			data[i] = 1
		}
	}
	return r.Render(data)
}

// Counts bins finite data into n equal-width bins over [min, max]. All bins
// are half-open except the last, which includes max. When every value is
// the same the range is widened by 0.5 on each side.
func Counts(data []float64, n int) []float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	dividers := edges(lo, hi, n)
	// Let the maximum fall inside the last bin.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	return stat.Histogram(nil, dividers, sorted, nil)
}

// edges returns n+1 sorted bin edges from lo to hi. Ranges wider than
// MaxFloat64 are interpolated term by term so no edge overflows.
func edges(lo, hi float64, n int) []float64 {
	dividers := make([]float64, n+1)
	if !math.IsInf(hi-lo, 0) {
		return floats.Span(dividers, lo, hi)
	}
	for i := range dividers {
		t := float64(i) / float64(n)
		dividers[i] = lo*(1-t) + hi*t
	}
	dividers[0], dividers[n] = lo, hi
	for i := 1; i <= n; i++ {
		dividers[i] = math.Max(dividers[i], dividers[i-1])
	}
	return dividers
}

func (r Renderer) table() []level {
	if r.Posix {
		return levels
	}
	out := make([]level, 0, len(levels))
	for _, l := range levels {
		if l.frac == 0.5 || l.frac == 1 {
			continue
		}
		out = append(out, l)
	}
	return out
}

// nearest returns the glyph whose fraction is closest to h; ties go to the
// lower fraction.
func nearest(table []level, h float64) rune {
	best := table[0]
	bestDist := math.Abs(h - best.frac)
	for _, l := range table[1:] {
		if d := math.Abs(h - l.frac); d < bestDist {
			best, bestDist = l, d
		}
	}
	return best.glyph
}
