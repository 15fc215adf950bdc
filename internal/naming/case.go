package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"goskim/domain/core"
)

// CaseStyle is a column-name formatting convention.
type CaseStyle string

const (
	Snake    CaseStyle = "snake"
	Kebab    CaseStyle = "kebab"
	Camel    CaseStyle = "camel"
	Pascal   CaseStyle = "pascal"
	Const    CaseStyle = "const"
	Sentence CaseStyle = "sentence"
	Title    CaseStyle = "title"
	Lower    CaseStyle = "lower"
	Upper    CaseStyle = "upper"
)

// CaseStyles lists every supported style.
var CaseStyles = []CaseStyle{Snake, Kebab, Camel, Pascal, Const, Sentence, Title, Lower, Upper}

// ParseCase validates a case style name.
func ParseCase(s string) (CaseStyle, error) {
	for _, c := range CaseStyles {
		if string(c) == s {
			return c, nil
		}
	}
	valid := make([]string, len(CaseStyles))
	for i, c := range CaseStyles {
		valid[i] = string(c)
	}
	return "", core.NewInvalidCaseError(s, valid)
}

// strips reports whether the style drops punctuation while tokenizing.
func (c CaseStyle) strips() bool {
	switch c {
	case Snake, Kebab, Camel, Pascal, Const:
		return true
	}
	return false
}

// separator is placed between a repeated name and its repeat index.
func (c CaseStyle) separator() string {
	switch c {
	case Snake, Const:
		return "_"
	case Camel, Pascal:
		return ""
	case Kebab:
		return "-"
	}
	return " "
}

var (
	punctuation   = regexp.MustCompile(`[!()*+,\-./:;<=>?\[\]^_{|}~]`)
	quotes        = regexp.MustCompile("['\"`]")
	boundaries    = regexp.MustCompile(`([A-Z]+|[0-9]+|[^\p{L}\p{N}_]+)`)
	capitalized   = regexp.MustCompile(`([A-Z][a-z]+)`)
	plainSplitter = regexp.MustCompile(`[-_]`)
)

// words splits a name into tokens for the given style.
func words(name string, style CaseStyle) []string {
	if style.strips() {
		name = punctuation.ReplaceAllString(name, " ")
		name = quotes.ReplaceAllString(name, "")
		name = boundaries.ReplaceAllString(name, " ${1}")
	} else {
		name = plainSplitter.ReplaceAllString(name, " ")
	}
	name = capitalized.ReplaceAllString(name, " ${1}")
	return strings.Fields(name)
}

// convertCase rewrites a single name in the given style.
func convertCase(name string, style CaseStyle) string {
	if name == "" {
		name = nullName
	}
	ws := words(name, style)
	if len(ws) == 0 {
		return nullName
	}

	switch style {
	case Snake:
		return strings.ToLower(strings.Join(ws, "_"))
	case Kebab:
		return strings.ToLower(strings.Join(ws, "-"))
	case Camel:
		return strings.ToLower(ws[0]) + capitalizeAll(ws[1:], "")
	case Pascal:
		return capitalizeAll(ws, "")
	case Const:
		return strings.ToUpper(strings.Join(ws, "_"))
	case Sentence:
		return capitalize(strings.Join(ws, " "))
	case Title:
		return capitalizeAll(ws, " ")
	case Lower:
		return strings.ToLower(strings.Join(ws, " "))
	case Upper:
		return strings.ToUpper(strings.Join(ws, " "))
	}
	return name
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

func capitalizeAll(ws []string, sep string) string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = capitalize(w)
	}
	return strings.Join(out, sep)
}
