package summarizers

import (
	"strings"
	"unicode/utf8"

	"goskim/domain/frame"
	"goskim/domain/summary"
	"goskim/internal/profiling"
)

// String summarizes text columns: lengths, alphabetical bounds and word
// counts. A word count is the number of spaces plus one.
func (s *Summarizer) String(cols []*frame.Column, rows int) *summary.Table {
	tbl := summary.NewTable(summary.SectionString.Title(),
		summary.StatMissing, summary.StatMissingPct,
		"shortest", "longest", "min", "max",
		"chars per row", "words per row", "total words")

	for _, col := range cols {
		na, pct := s.missing(col, rows)

		var (
			shortest, longest string
			minStr, maxStr    string
			shortLen, longLen int
			chars, words      int
			n                 int
		)
		for _, v := range col.Values {
			str, ok := v.(string)
			if !ok {
				continue
			}
			l := utf8.RuneCountInString(str)
			if n == 0 {
				shortest, longest, shortLen, longLen = str, str, l, l
				minStr, maxStr = str, str
			} else {
				if l < shortLen {
					shortest, shortLen = str, l
				}
				if l > longLen {
					longest, longLen = str, l
				}
				if str < minStr {
					minStr = str
				}
				if str > maxStr {
					maxStr = str
				}
			}
			chars += l
			words += strings.Count(str, " ") + 1
			n++
		}

		var shortCell, longCell, minCell, maxCell any
		charsPerRow, wordsPerRow := 0.0, 0.0
		if n > 0 {
			shortCell, longCell, minCell, maxCell = shortest, longest, minStr, maxStr
			charsPerRow = profiling.RoundSigFigs(float64(chars)/float64(n), s.cfg.CharsPerRowSigFigs)
		}
		if rows > 0 {
			wordsPerRow = profiling.RoundSigFigs(float64(words)/float64(rows), s.cfg.WordsPerRowSigFigs)
		}
		tbl.AppendRow(col.Name, na, pct, shortCell, longCell, minCell, maxCell, charsPerRow, wordsPerRow, words)
	}
	return tbl
}
