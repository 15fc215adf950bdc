// Package naming normalizes column names: replacement, accent stripping,
// case conversion and de-duplication, applied in that order.
package naming

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"goskim/domain/frame"
)

// nullName replaces empty column names.
const nullName = "header"

// Replacement substitutes Old with New, ignoring case.
type Replacement struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// Options configures Normalize.
type Options struct {
	Case          CaseStyle     `json:"case" yaml:"case"`
	Replace       []Replacement `json:"replace,omitempty" yaml:"replace,omitempty"`
	RemoveAccents bool          `json:"remove_accents" yaml:"remove_accents"`
}

// DefaultOptions returns snake case with accents removed.
func DefaultOptions() Options {
	return Options{Case: Snake, RemoveAccents: true}
}

// Normalize rewrites names according to opts. The input is not modified.
func Normalize(names []string, opts Options) ([]string, error) {
	style, err := ParseCase(string(opts.Case))
	if err != nil {
		return nil, err
	}
	rules, err := compile(opts.Replace)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(names))
	for i, name := range names {
		if name != "" {
			name = rules.apply(name)
		}
		if opts.RemoveAccents {
			name = RemoveAccents(name)
		}
		out[i] = convertCase(name, style)
	}
	return renameDuplicates(out, style), nil
}

// CleanColumns returns a copy of ds with normalized column names.
func CleanColumns(ds *frame.Dataset, opts Options) (*frame.Dataset, error) {
	names, err := Normalize(ds.Names(), opts)
	if err != nil {
		return nil, err
	}
	return ds.WithColumnNames(names)
}

// RemoveAccents decomposes s and drops every non-ASCII rune, so "é"
// becomes "e" and symbols such as "★" disappear.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

type rule struct {
	pattern *regexp.Regexp
	repl    string
}

type ruleSet []rule

func compile(reps []Replacement) (ruleSet, error) {
	rules := make(ruleSet, 0, len(reps))
	for _, r := range reps {
		if r.Old == "" {
			continue
		}
		pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(r.Old))
		if err != nil {
			return nil, err
		}
		repl := r.New
		if !isAlnum(r.Old) || !isAlnum(r.New) {
			// Underscores keep the replacement a separate token.
			repl = "_" + r.New + "_"
		}
		rules = append(rules, rule{pattern: pattern, repl: repl})
	}
	return rules, nil
}

func (rs ruleSet) apply(name string) string {
	for _, r := range rs {
		name = r.pattern.ReplaceAllLiteralString(name, r.repl)
	}
	return name
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// renameDuplicates suffixes the k-th repeat of a name with the style's
// separator and k. The first occurrence is left alone.
func renameDuplicates(names []string, style CaseStyle) []string {
	sep := style.separator()
	counts := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		n := counts[name]
		if n > 0 {
			out[i] = strings.Join([]string{name, strconv.Itoa(n)}, sep)
		} else {
			out[i] = name
		}
		counts[name] = n + 1
	}
	return out
}
