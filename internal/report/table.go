package report

import (
	"strconv"

	"focus_tracker/internal/timelog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table renders entries as a rounded table with a sequence column.
func Table(entries []timelog.Entry) string {
	if len(entries) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "timestamp", "status", "note"})

	for _, e := range entries {
		tw.AppendRow(table.Row{strconv.FormatInt(e.Seq, 10), FormatTimestamp(e.Timestamp), e.Status.Label(), e.Note})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 48},
	})

	return tw.Render()
}
