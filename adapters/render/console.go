package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/muesli/termenv"

	"goskim/domain/frame"
	"goskim/domain/summary"
)

// ConsoleRenderer prints each section as an aligned plain-text table.
// Section titles are bold when the writer is a colour terminal.
type ConsoleRenderer struct {
	Options []termenv.OutputOption
}

// NewConsoleRenderer detects the terminal profile from the writer
func NewConsoleRenderer(opts ...termenv.OutputOption) *ConsoleRenderer {
	return &ConsoleRenderer{Options: opts}
}

func (c *ConsoleRenderer) Render(w io.Writer, r *summary.Result) error {
	out := termenv.NewOutput(w, c.Options...)

	header := fmt.Sprintf("── skim summary: %s ──", r.Name)
	if _, err := fmt.Fprintln(out, out.String(header).Bold()); err != nil {
		return err
	}

	for _, s := range r.Sections {
		if _, err := fmt.Fprintf(out, "\n%s\n", out.String(s.Title).Bold().Underline()); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		if s.Table != nil {
			writeTable(tw, s.Table)
		} else {
			for _, e := range s.Entries {
				fmt.Fprintf(tw, "%s\t%s\n", e.Key, FormatCell(e.Value))
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(tw *tabwriter.Writer, t *summary.Table) {
	fmt.Fprintf(tw, "column\t%s\n", strings.Join(t.Stats, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = FormatCell(v)
		}
		fmt.Fprintf(tw, "%s\t%s\n", row.Column, strings.Join(cells, "\t"))
	}
}

// FormatCell renders one value for the console. Floats drop trailing
// zeros, midnight timestamps print as dates, durations print as
// "N days HH:MM:SS".
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NaN"
	case float64:
		return formatFloat(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case time.Duration:
		return formatDuration(x)
	case frame.Date:
		return x.String()
	case []string:
		return strings.Join(x, ", ")
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.Abs(f) >= 1e16 || (f != 0 && math.Abs(f) < 1e-4):
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatDuration floors to whole days, so negative durations read
// "-1 days 23:00:00" for minus one hour.
func formatDuration(d time.Duration) string {
	day := 24 * time.Hour
	days := d / day
	rem := d % day
	if rem < 0 {
		days--
		rem += day
	}
	h := rem / time.Hour
	rem -= h * time.Hour
	m := rem / time.Minute
	rem -= m * time.Minute
	s := rem / time.Second
	rem -= s * time.Second

	out := fmt.Sprintf("%d days %02d:%02d:%02d", days, h, m, s)
	if rem > 0 {
		out += fmt.Sprintf(".%09d", int64(rem))
		out = strings.TrimRight(out, "0")
	}
	return out
}
