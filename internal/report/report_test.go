package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "focus_tracker/internal/errors"
	"focus_tracker/internal/timelog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)

func entry(offset time.Duration, status timelog.Status, note string) timelog.Entry {
	return timelog.Entry{Timestamp: base.Add(offset), Status: status, Note: note}
}

func TestFocusScore(t *testing.T) {
	tests := []struct {
		name      string
		entries   []timelog.Entry
		expected  string
		expectedN int
	}{
		{
			name: "ignores non-sampling entries",
			entries: []timelog.Entry{
				entry(0, timelog.Focused, ""),
				entry(time.Second, timelog.Focused, ""),
				entry(2*time.Second, timelog.Distracted, ""),
				entry(3*time.Second, timelog.Focused, ""),
				entry(4*time.Second, timelog.TimerStopped, "Stopped at Session: 0m, Break: 0m"),
			},
			expected:  "75.00%",
			expectedN: 4,
		},
		{
			name:     "no sampling entries is no data",
			entries:  []timelog.Entry{entry(0, timelog.TimerLogSaved, "Session: 0m 5s, Break: 0m 0s")},
			expected: "no data",
		},
		{
			name:     "empty log is no data",
			entries:  nil,
			expected: "no data",
		},
		{
			name: "all distracted",
			entries: []timelog.Entry{
				entry(0, timelog.Distracted, ""),
				entry(time.Second, timelog.Distracted, ""),
			},
			expected:  "0.00%",
			expectedN: 2,
		},
		{
			name: "one third",
			entries: []timelog.Entry{
				entry(0, timelog.Focused, ""),
				entry(time.Second, timelog.Distracted, ""),
				entry(2*time.Second, timelog.Distracted, ""),
			},
			expected:  "33.33%",
			expectedN: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := FocusScore(tt.entries)
			assert.Equal(t, tt.expected, FormatScore(score, ok))
			assert.Equal(t, tt.expectedN, Count(tt.entries).Samples())
		})
	}
}

func TestCount(t *testing.T) {
	c := Count([]timelog.Entry{
		entry(0, timelog.Focused, ""),
		entry(0, timelog.Distracted, ""),
		entry(0, timelog.TimerStopped, "x"),
		entry(0, timelog.TimerLogSaved, "y"),
	})

	assert.Equal(t, Counts{Focused: 1, Distracted: 1, Other: 2}, c)
}

func TestExport_EmptyLogIsRefused(t *testing.T) {
	dir := t.TempDir()

	path, err := Export(dir, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidExport))
	assert.Empty(t, path)
	_, statErr := os.Stat(filepath.Join(dir, ExportFileName))
	assert.True(t, os.IsNotExist(statErr), "no file may be produced")
}

func TestExport_MalformedEntryIsRefused(t *testing.T) {
	dir := t.TempDir()

	_, err := Export(dir, []timelog.Entry{{Status: timelog.Focused}})

	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidExport))
	_, statErr := os.Stat(filepath.Join(dir, ExportFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_SingleEntry(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 1, 14, 5, 9, 0, time.Local)

	path, err := Export(dir, []timelog.Entry{{Timestamp: ts, Status: timelog.Focused, Note: ""}})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "focus_log.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"timestamp", "status", "note"}, records[0])
	assert.Equal(t, []string{"2024-03-01 14:05:09", "🟢 Focused", ""}, records[1])
}

func TestWriteCSV_QuotesNotes(t *testing.T) {
	var sb strings.Builder

	err := WriteCSV(&sb, []timelog.Entry{entry(0, timelog.TimerStopped, "Stopped at Session: 1m, Break: 0m")})

	require.NoError(t, err)
	assert.Contains(t, sb.String(), `"Stopped at Session: 1m, Break: 0m"`)
}

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		name     string
		entry    timelog.Entry
		expected string
	}{
		{
			name:     "sampling entry has no note",
			entry:    entry(0, timelog.Focused, ""),
			expected: "2024-03-01 09:00:00 — 🟢 Focused",
		},
		{
			name:     "note is appended",
			entry:    entry(time.Minute, timelog.TimerLogSaved, "Session: 1m 30s, Break: 0m 0s"),
			expected: "2024-03-01 09:01:00 — ⏱️ Timer Log – Session: 1m 30s, Break: 0m 0s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SummaryLine(tt.entry))
		})
	}
}

func TestSummary_ShowsLastHundredNewestFirst(t *testing.T) {
	entries := make([]timelog.Entry, 0, 150)
	for i := 0; i < 150; i++ {
		entries = append(entries, entry(time.Duration(i)*time.Second, timelog.TimerLogSaved, fmt.Sprintf("n%d", i)))
	}

	lines := Summary(entries, SummaryLimit)

	require.Len(t, lines, 100)
	assert.True(t, strings.HasSuffix(lines[0], "– n149"))
	assert.True(t, strings.HasSuffix(lines[99], "– n50"))
}

func TestSummary_Empty(t *testing.T) {
	assert.Empty(t, Summary(nil, SummaryLimit))
}

func TestTable(t *testing.T) {
	assert.Empty(t, Table(nil))

	out := Table([]timelog.Entry{
		{Seq: 7, Timestamp: base, Status: timelog.Distracted},
	})

	assert.Contains(t, out, "7")
	assert.Contains(t, out, "2024-03-01 09:00:00")
	assert.Contains(t, out, "🔴 Distracted")
	assert.Contains(t, strings.ToLower(out), "timestamp")
}
