// Package report derives read-only views from the focus log: the focus score,
// CSV export, and the readable recent-activity summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "focus_tracker/internal/errors"
	"focus_tracker/internal/timelog"
)

const (
	// ExportFileName is the name of the CSV written by Export.
	ExportFileName = "focus_log.csv"
	// SummaryLimit is the default number of entries in the readable summary.
	SummaryLimit = 100
	// TimeLayout renders timestamps in local time.
	TimeLayout = "2006-01-02 15:04:05"
)

var csvHeader = []string{"timestamp", "status", "note"}

// Counts tallies entries by kind.
type Counts struct {
	Focused    int
	Distracted int
	Other      int
}

// Samples is the number of sampling entries.
func (c Counts) Samples() int {
	return c.Focused + c.Distracted
}

func Count(entries []timelog.Entry) Counts {
	var c Counts
	for _, e := range entries {
		switch e.Status {
		case timelog.Focused:
			c.Focused++
		case timelog.Distracted:
			c.Distracted++
		default:
			c.Other++
		}
	}
	return c
}

// FocusScore is the percentage of sampling entries that are Focused.
// ok is false when there are no sampling entries.
func FocusScore(entries []timelog.Entry) (score float64, ok bool) {
	c := Count(entries)
	if c.Samples() == 0 {
		return 0, false
	}
	return 100 * float64(c.Focused) / float64(c.Samples()), true
}

// FormatScore renders a score as "75.00%", or "no data".
func FormatScore(score float64, ok bool) string {
	if !ok {
		return "no data"
	}
	return fmt.Sprintf("%.2f%%", score)
}

// FormatTimestamp renders t in local time.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// Rows builds the tabular form of the log, one row per entry.
func Rows(entries []timelog.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{FormatTimestamp(e.Timestamp), e.Status.Label(), e.Note})
	}
	return rows
}

// WriteCSV writes the header and one row per entry. An empty log is refused.
func WriteCSV(w io.Writer, entries []timelog.Entry) error {
	if len(entries) == 0 {
		return apperrors.NewInvalidExport("No valid log data available.", nil)
	}
	for i, e := range entries {
		if e.Timestamp.IsZero() {
			return apperrors.NewInvalidExport("No valid log data available.", nil).WithContext("index", i)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(Rows(entries)); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// Export writes focus_log.csv into dir and returns its path. Validation
// happens before the file is created so an invalid log leaves nothing behind.
func Export(dir string, entries []timelog.Entry) (string, error) {
	var sb strings.Builder
	if err := WriteCSV(&sb, entries); err != nil {
		return "", err
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewInvalidExport("could not create export directory", err)
	}
	path := filepath.Join(dir, ExportFileName)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", apperrors.NewInvalidExport("could not write export file", err)
	}
	return path, nil
}

// SummaryLine renders "<local timestamp> — <label>[ – <note>]".
func SummaryLine(e timelog.Entry) string {
	line := fmt.Sprintf("%s — %s", FormatTimestamp(e.Timestamp), e.Status.Label())
	if e.Note != "" {
		line += " – " + e.Note
	}
	return line
}

// Summary renders the latest limit entries, newest first.
func Summary(entries []timelog.Entry, limit int) []string {
	recent := timelog.Latest(entries, limit)
	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		lines = append(lines, SummaryLine(e))
	}
	return lines
}
