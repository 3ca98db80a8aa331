package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track/internal/event"
	"track/internal/record"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		us      uint64
		precise bool
		want    string
	}{
		{3_723_000_000, true, "1:02:03.000"},
		{3_723_000_000, false, "1:02"},
		{0, false, "0:00"},
		{0, true, "0:00:00.000"},
		{59_999_999, true, "0:00:59.999"},
		{60_000_000, false, "0:01"},
		{1_500, true, "0:00:00.001"},
		{100 * 3_600_000_000, false, "100:00"},
		{26*3_600_000_000 + 5*60_000_000 + 7_089_000, true, "26:05:07.089"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.us, c.precise), "%d precise=%v", c.us, c.precise)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, uint64(0), Percent(0, 1))
	assert.Equal(t, uint64(49), Percent(50, 101))
	assert.Equal(t, uint64(99), Percent(100, 101))
	assert.Equal(t, uint64(49), Percent(math.MaxUint64/2, math.MaxUint64))
	assert.Equal(t, uint64(0), Percent(5, 0))
}

func TestFormatReportZeroRecord(t *testing.T) {
	want := "Currently not tracking\n" +
		"\n" +
		"Time wasted             0:00 (0%)\n" +
		"Time spent working      0:00 (0%)\n" +
		"Time spent reading      0:00 (0%)\n" +
		"Time spent writing      0:00 (0%)\n" +
		"Time spent programming  0:00 (0%)\n" +
		"Time spent studying     0:00 (0%)\n"

	assert.Equal(t, want, FormatReport(record.Record{}, false))
}

func TestFormatReportShares(t *testing.T) {
	r := record.Record{
		Status:           record.Programming,
		TotalWorking:     3 * 3_600_000_000,
		TotalProgramming: 1 * 3_600_000_000,
	}

	out := FormatReport(r, false)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Currently programming", lines[0])
	assert.Equal(t, "Time spent working      3:00 (74%)", lines[3])
	assert.Equal(t, "Time spent programming  1:00 (24%)", lines[6])
}

func TestFormatReportPrecise(t *testing.T) {
	r := record.Record{Status: record.Waste, TotalWaste: 3_723_000_000}

	out := FormatReport(r, true)
	assert.Contains(t, out, "Currently wasting time\n")
	assert.Contains(t, out, "Time wasted             1:02:03.000 (99%)\n")
	assert.Contains(t, out, "Time spent studying     0:00:00.000 (0%)\n")
}

func TestWriteJSON(t *testing.T) {
	r := record.Record{Status: record.Reading, TotalReading: 60_000_000}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, r, false))

	var got Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "reading", got.Current)
	assert.Equal(t, uint64(60_000_000), got.Tracked)
	require.Len(t, got.Lines, 6)
	assert.Equal(t, "read", got.Lines[2].Category)
	assert.Equal(t, "0:01", got.Lines[2].Duration)
	assert.Equal(t, uint64(99), got.Lines[2].Percent)
}

func TestFormatHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-3 * time.Hour)
	sessions := []event.Session{{
		Status:  record.Studying,
		Start:   uint64(start.UnixMicro()),
		End:     uint64(start.Add(90 * time.Minute).UnixMicro()),
		Elapsed: uint64((90 * time.Minute).Microseconds()),
	}}

	out := FormatHistory(sessions, now, false)
	assert.True(t, strings.HasPrefix(out, "studying     1:30  started "), out)
	assert.Contains(t, out, "(3 hours ago)")

	assert.Equal(t, "No sessions recorded.\n", FormatHistory(nil, now, false))
}
