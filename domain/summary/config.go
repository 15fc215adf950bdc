package summary

import (
	"runtime"

	"goskim/domain/core"
	"goskim/domain/frame"
)

// Config carries the tunables of a skim run. It is passed to the service at
// construction time; nothing here is package-level state.
type Config struct {
	Bins             int
	Quantiles        []float64
	UnsupportedKinds []frame.Kind

	// Significant figures per statistic.
	NumericSigFigs     int
	TrueRateSigFigs    int
	CharsPerRowSigFigs int
	WordsPerRowSigFigs int
	MissingSigFigs     int

	// Frequency is reported only when a datetime group has more rows than this.
	FrequencyMinRows int

	Parallelism int
	Posix       bool
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Bins:      6,
		Quantiles: []float64{0, 0.25, 0.5, 0.75, 1},
		UnsupportedKinds: []frame.Kind{
			frame.KindMixedInteger,
			frame.KindMixed,
			frame.KindMixedIntegerFloat,
			frame.KindUnknownArray,
		},
		NumericSigFigs:     4,
		TrueRateSigFigs:    2,
		CharsPerRowSigFigs: 3,
		WordsPerRowSigFigs: 2,
		MissingSigFigs:     4,
		FrequencyMinRows:   3,
		Parallelism:        runtime.NumCPU(),
		Posix:              runtime.GOOS != "windows",
	}
}

// Validate checks the configuration for values no summarizer can work with.
func (c Config) Validate() error {
	if c.Bins <= 0 {
		return core.NewInvalidArgumentError("bins", "must be positive")
	}
	for _, q := range c.Quantiles {
		if q < 0 || q > 1 {
			return core.NewInvalidArgumentError("quantiles", "must lie in [0, 1]")
		}
	}
	for _, n := range []int{c.NumericSigFigs, c.TrueRateSigFigs, c.CharsPerRowSigFigs, c.WordsPerRowSigFigs, c.MissingSigFigs} {
		if n <= 0 {
			return core.NewInvalidArgumentError("significant figures", "must be positive")
		}
	}
	if c.Parallelism <= 0 {
		return core.NewInvalidArgumentError("parallelism", "must be positive")
	}
	return nil
}

// IsUnsupported reports whether k is dropped before summarization.
func (c Config) IsUnsupported(k frame.Kind) bool {
	for _, u := range c.UnsupportedKinds {
		if u == k {
			return true
		}
	}
	return false
}
