package internal

import (
	"fmt"
	"strings"
	"time"

	"focus_tracker/internal/report"
	"focus_tracker/internal/timelog"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	captionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	sessionTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	breakTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	distractedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	taskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	taskItemSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	taskDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noticeStyles = map[noticeLevel]lipgloss.Style{
		noticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		noticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("82")),
		noticeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		noticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

const (
	previewCols   = 40
	previewRows   = 12
	activityLines = 8
)

// formatMinSec renders the live timer panel value, e.g. "1 min 30 sec".
func formatMinSec(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d min %d sec", total/60, total%60)
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(96).Render("🎯 Focus Tracker"))
	sb.WriteString("\n")
	sb.WriteString(m.captionView())
	sb.WriteString("\n\n")

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.timerView(),
		" ",
		m.focusView(),
	)
	sb.WriteString(top)
	sb.WriteString("\n")

	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		m.taskListView(),
		" ",
		m.activityView(),
	)
	sb.WriteString(bottom)
	sb.WriteString("\n")

	if m.Notice.text != "" {
		sb.WriteString(noticeStyles[m.Notice.level].Render(m.Notice.text))
	}
	sb.WriteString("\n")
	sb.WriteString(m.helpView())

	return sb.String()
}

func (m *Model) captionView() string {
	s := m.Session
	caption := fmt.Sprintf("🕒 Session started at %s (%s)",
		report.FormatTimestamp(s.StartedAt), humanize.Time(s.StartedAt))
	if !s.Tracking && !s.EndedAt.IsZero() {
		caption += fmt.Sprintf("  ·  Session ended at %s", report.FormatTimestamp(s.EndedAt))
	}
	return captionStyle.Render(caption)
}

func (m *Model) timerView() string {
	live := m.Session.Timer.Live()

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("⏱️ Live timer summary"))
	sb.WriteString("\n\n")
	sb.WriteString("🟢 Session Time\n")
	sb.WriteString(sessionTimeStyle.Render(formatMinSec(live.Session)))
	sb.WriteString("\n\n")
	sb.WriteString("🟡 Break Time\n")
	sb.WriteString(breakTimeStyle.Render(formatMinSec(live.Break)))
	sb.WriteString("\n\n")
	sb.WriteString(inactiveStyle.Render("State: " + m.Session.Timer.State().String()))

	return boxStyle.Width(30).Height(previewRows + 5).Render(sb.String())
}

func (m *Model) focusView() string {
	entries, err := m.Session.Log.Entries()
	if err != nil {
		entries = nil
	}
	score, ok := report.FocusScore(entries)
	counts := report.Count(entries)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("🎯 Focus Score "))
	sb.WriteString(report.FormatScore(score, ok))
	sb.WriteString(inactiveStyle.Render(fmt.Sprintf("  (%d focused / %d distracted)", counts.Focused, counts.Distracted)))
	sb.WriteString("\n")

	switch {
	case m.Tracking():
		sb.WriteString(focusedStyle.Render("📹 Tracking is active."))
	default:
		sb.WriteString(inactiveStyle.Render("Tracking is off. Press t to run."))
	}
	sb.WriteString("\n\n")

	if m.Preview != nil {
		status := timelog.StatusForVerdict(m.PreviewFocus)
		style := distractedStyle
		if m.PreviewFocus {
			style = focusedStyle
		}
		sb.WriteString(style.Render(status.Label()))
		sb.WriteString("\n")
		sb.WriteString(renderPreview(m.Preview, previewCols, previewRows))
	} else {
		sb.WriteString(inactiveStyle.Render("No camera preview."))
	}

	return boxStyle.Width(62).Height(previewRows + 5).Render(sb.String())
}

func (m *Model) taskListView() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("📝 To-Do List"))
	sb.WriteString("\n\n")

	tasks := m.Session.Tasks.Tasks()
	if len(tasks) == 0 {
		sb.WriteString(inactiveStyle.Render("No tasks yet. Press a to add one."))
		sb.WriteString("\n")
	}
	for i, t := range tasks {
		mark := "[ ]"
		text := t.Description
		if t.Done {
			mark = "[✔]"
			text = taskDoneStyle.Render(text)
		}
		line := fmt.Sprintf("%d. %s %s", i+1, mark, text)
		if i == m.SelectedTask && !m.AddingTask {
			sb.WriteString(taskItemSelectedStyle.Render(line))
		} else {
			sb.WriteString(taskItemStyle.Render(line))
		}
		sb.WriteString("\n")
	}

	if m.AddingTask {
		sb.WriteString("\n")
		sb.WriteString(m.TaskInput.View())
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render("Enter: Add | Esc: Done"))
	}

	return boxStyle.Width(40).Height(activityLines + 4).Render(sb.String())
}

func (m *Model) activityView() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("📄 Recent activity"))
	sb.WriteString("\n\n")

	entries, err := m.Session.Log.Entries()
	if err != nil || len(entries) == 0 {
		sb.WriteString(inactiveStyle.Render("No log data yet."))
	} else {
		limit := min(m.Config.SummaryLimit, activityLines)
		for _, line := range report.Summary(entries, limit) {
			sb.WriteString("- " + line + "\n")
		}
	}

	return boxStyle.Width(52).Height(activityLines + 4).Render(sb.String())
}

func (m *Model) helpView() string {
	if m.AddingTask {
		return helpStyle.Render("Type a task | Enter: Add | Esc: Leave input | Ctrl+C: Quit")
	}
	run := "Run: t"
	if m.Tracking() {
		run = "Stop: t"
	}
	return helpStyle.Render(run + " | Start/Resume: s | Pause: p | Stop timer: x | Reset timer: r | Restart session: R\n" +
		"Save timer log: w | Export CSV: e | Add task: a | Toggle: Space | Delete: d | Log: l | Quit: q")
}

func (m *Model) logView() string {
	var sb strings.Builder
	title := "📝 Readable Log Summary"
	if m.LogTable {
		title = "📄 Current Log Data"
	}
	sb.WriteString(titleStyle.Width(96).Render(title))
	sb.WriteString("\n\n")

	entries, err := m.Session.Log.Entries()
	if err != nil || len(entries) == 0 {
		sb.WriteString(inactiveStyle.Render("No log data yet."))
		sb.WriteString("\n\n")
		sb.WriteString(helpStyle.Render("Back: l / Esc"))
		return sb.String()
	}

	var lines []string
	if m.LogTable {
		lines = strings.Split(report.Table(timelog.Latest(entries, m.Config.SummaryLimit)), "\n")
	} else {
		for _, line := range report.Summary(entries, m.Config.SummaryLimit) {
			lines = append(lines, "- "+line)
		}
	}

	visible := max(m.Height-6, 5)
	maxScroll := max(len(lines)-visible, 0)
	if m.LogViewScroll > maxScroll {
		m.LogViewScroll = maxScroll
	}
	end := min(m.LogViewScroll+visible, len(lines))
	sb.WriteString(strings.Join(lines[m.LogViewScroll:end], "\n"))
	sb.WriteString("\n\n")
	shown := min(len(entries), m.Config.SummaryLimit)
	sb.WriteString(helpStyle.Render(fmt.Sprintf("Latest %d of %d entries, newest first | Table: Tab | Scroll: Up/Down | Back: l / Esc",
		shown, len(entries))))

	return sb.String()
}
