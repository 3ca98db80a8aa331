package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math/bits"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"track/internal/event"
	"track/internal/record"
)

var labels = map[record.Status]string{
	record.Waste:       "Time wasted",
	record.Working:     "Time spent working",
	record.Reading:     "Time spent reading",
	record.Writing:     "Time spent writing",
	record.Programming: "Time spent programming",
	record.Studying:    "Time spent studying",
}

// FormatDuration renders microseconds as H:MM, or H:MM:SS.mmm when precise.
// Hours are not wrapped.
func FormatDuration(us uint64, precise bool) string {
	milli := us / 1000
	seconds := milli / 1000
	minutes := seconds / 60
	hours := minutes / 60

	milli -= seconds * 1000
	seconds -= minutes * 60
	minutes -= hours * 60

	if precise {
		return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, seconds, milli)
	}
	return fmt.Sprintf("%d:%02d", hours, minutes)
}

// Percent returns floor(part*100/denom) without overflowing.
func Percent(part, denom uint64) uint64 {
	if denom == 0 {
		return 0
	}
	if part >= denom {
		return 100
	}
	hi, lo := bits.Mul64(part, 100)
	q, _ := bits.Div64(hi, lo, denom)
	return q
}

// Line is one category row of a report.
type Line struct {
	Status   record.Status `json:"-"`
	Category string        `json:"category"`
	Label    string        `json:"-"`
	Micros   uint64        `json:"micros"`
	Duration string        `json:"duration"`
	Percent  uint64        `json:"percent"`
}

// Summary is the data behind a report.
type Summary struct {
	Current string `json:"current"`
	Tracked uint64 `json:"tracked_micros"`
	Lines   []Line `json:"categories"`
}

// Summarize computes per-category durations and shares. The share
// denominator is one more than the sum of all counters, so an empty record
// reports 0% everywhere.
func Summarize(r record.Record, precise bool) Summary {
	sum := r.Sum()
	denom := sum + 1
	out := Summary{
		Current: r.Status.String(),
		Tracked: sum,
		Lines:   make([]Line, 0, len(record.Categories)),
	}
	for _, s := range record.Categories {
		total := r.Total(s)
		out.Lines = append(out.Lines, Line{
			Status:   s,
			Category: s.Token(),
			Label:    labels[s],
			Micros:   total,
			Duration: FormatDuration(total, precise),
			Percent:  Percent(total, denom),
		})
	}
	return out
}

// FormatReport renders the human-readable report printed by -l.
func FormatReport(r record.Record, precise bool) string {
	s := Summarize(r, precise)
	var b strings.Builder
	fmt.Fprintf(&b, "Currently %s\n\n", s.Current)
	for _, l := range s.Lines {
		fmt.Fprintf(&b, "%-24s%s (%d%%)\n", l.Label, l.Duration, l.Percent)
	}
	return b.String()
}

// WriteJSON writes the report as an indented JSON object.
func WriteJSON(w io.Writer, r record.Record, precise bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Summarize(r, precise))
}

// FormatHistory lists journaled sessions, one per line, in the given order.
func FormatHistory(sessions []event.Session, now time.Time, precise bool) string {
	if len(sessions) == 0 {
		return "No sessions recorded.\n"
	}
	var b strings.Builder
	for _, s := range sessions {
		fmt.Fprintf(&b, "%-12s %s  started %s (%s)\n",
			s.Status.String(),
			FormatDuration(s.Elapsed, precise),
			s.StartTime().Local().Format("2006-01-02 15:04"),
			humanize.RelTime(s.StartTime(), now, "ago", "from now"),
		)
	}
	return b.String()
}
