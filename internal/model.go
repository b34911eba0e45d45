package internal

import (
	"context"
	"fmt"
	"image"

	"focus_tracker/internal/camera"
	"focus_tracker/internal/config"
	apperrors "focus_tracker/internal/errors"
	"focus_tracker/internal/report"
	"focus_tracker/internal/sampler"
	"focus_tracker/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type MsgTick struct{}

// msgSample carries one classified frame from a tracking run.
type msgSample struct {
	run    *sampler.Run
	sample sampler.Sample
}

// msgSamplerDone reports that a tracking run has released the camera.
type msgSamplerDone struct {
	run *sampler.Run
	err error
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeWarning
	noticeError
)

type notice struct {
	level noticeLevel
	text  string
}

type Model struct {
	Session *session.Session
	Config  config.Config

	// Sampler is nil when no face detector could be loaded.
	Sampler *sampler.Sampler
	run     *sampler.Run

	Preview      image.Image
	PreviewFocus bool

	TaskInput    textinput.Model
	AddingTask   bool
	SelectedTask int

	ShowLogView   bool
	LogTable      bool
	LogViewScroll int

	Notice notice
	Width  int
	Height int

	logger zerolog.Logger
}

func NewModel(sess *session.Session, smp *sampler.Sampler, cfg config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "Add a new task"
	ti.CharLimit = 200
	ti.Prompt = "→ "

	return &Model{
		Session:   sess,
		Config:    cfg,
		Sampler:   smp,
		TaskInput: ti,
		Width:     100,
		Height:    40,
		logger:    sess.Logger(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		// The live timer values are recomputed by View on every redraw.
		return m, nil
	case msgSample:
		if msg.run != m.run {
			return m, nil
		}
		m.Preview = msg.sample.Frame
		m.PreviewFocus = msg.sample.Focused
		return m, waitForSample(m.run)
	case msgSamplerDone:
		if msg.run != m.run {
			return m, nil
		}
		m.run = nil
		m.Session.SetTracking(false)
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("tracking ended")
			m.notify(noticeError, apperrors.UserMessage(msg.err))
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowLogView {
		return m.logView()
	}
	return m.mainView()
}

// Tracking reports whether a sampling run is active.
func (m *Model) Tracking() bool {
	return m.run != nil
}

func (m *Model) Close() error {
	m.stopTracking()
	return m.Session.Log.Close()
}

func (m *Model) notify(level noticeLevel, text string) {
	m.Notice = notice{level: level, text: text}
}

// Warn shows text in the notice line until the next action replaces it.
func (m *Model) Warn(text string) {
	m.notify(noticeWarning, text)
}

func (m *Model) warn(err error) {
	m.notify(noticeWarning, apperrors.UserMessage(err))
}

func waitForSample(run *sampler.Run) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-run.Samples():
			return msgSample{run: run, sample: s}
		case <-run.Done():
			return msgSamplerDone{run: run, err: run.Err()}
		}
	}
}

func (m *Model) toggleTracking() tea.Cmd {
	if m.Session.Tracking {
		m.stopTracking()
		m.notify(noticeInfo, "Tracking stopped.")
		return nil
	}

	if err := camera.Unsupported(m.Config.Camera.Disabled); err != nil {
		m.warn(err)
		return nil
	}
	if m.Sampler == nil {
		m.notify(noticeWarning, "Face detector unavailable: set detector.cascade_path in the config file.")
		return nil
	}

	m.Session.SetTracking(true)
	m.run = m.Sampler.Start(context.Background())
	m.logger.Info().Msg("tracking toggled on")
	m.notify(noticeSuccess, "Tracking is active. Press t to stop.")
	return waitForSample(m.run)
}

// stopTracking cancels the run and waits for the camera to be released.
func (m *Model) stopTracking() {
	if m.run != nil {
		m.run.Stop()
		if err := m.run.Wait(); err != nil {
			m.logger.Warn().Err(err).Msg("tracking ended with error")
		}
		m.run = nil
		m.logger.Info().Msg("tracking toggled off")
	}
	m.Session.SetTracking(false)
}

func (m *Model) submitTask() {
	added, err := m.Session.Tasks.Add(m.TaskInput.Value())
	if err != nil {
		m.warn(err)
		return
	}
	m.TaskInput.SetValue("")
	m.SelectedTask = m.Session.Tasks.Len() - 1
	m.notify(noticeSuccess, fmt.Sprintf("Task '%s' added.", added.Description))
}

func (m *Model) removeSelectedTask() {
	removed, err := m.Session.Tasks.Remove(m.SelectedTask)
	if err != nil {
		m.warn(err)
		return
	}
	if m.SelectedTask >= m.Session.Tasks.Len() {
		m.SelectedTask = max(m.Session.Tasks.Len()-1, 0)
	}
	m.notify(noticeSuccess, fmt.Sprintf("Task '%s' removed!", removed.Description))
}

func (m *Model) exportLog() {
	entries, err := m.Session.Log.Entries()
	if err != nil {
		m.warn(err)
		return
	}
	path, err := report.Export(m.Config.ExportDir, entries)
	if err != nil {
		m.logger.Warn().Err(err).Int("entries", len(entries)).Msg("export refused")
		m.warn(err)
		return
	}
	m.logger.Info().Str("path", path).Int("entries", len(entries)).Msg("log exported")
	m.notify(noticeSuccess, fmt.Sprintf("Focus log written to %s", path))
}

func (m *Model) restartSession() {
	m.stopTracking()
	if err := m.Session.Restart(); err != nil {
		m.warn(err)
		return
	}
	m.logger = m.Session.Logger()
	m.Preview = nil
	m.LogViewScroll = 0
	m.notify(noticeSuccess, "Session restarted.")
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowLogView {
		return m.handleLogViewInput(msg)
	}

	if m.AddingTask {
		return m.handleTaskInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.stopTracking()
		return m, tea.Quit
	case "t":
		return m, m.toggleTracking()
	case "s":
		if m.Session.StartTimer() {
			m.notify(noticeInfo, "Timer running.")
		} else {
			m.notify(noticeInfo, "Timer is already running.")
		}
	case "p":
		if m.Session.PauseTimer() {
			m.notify(noticeInfo, "Timer paused. Break time is counting.")
		} else {
			m.notify(noticeInfo, "Timer is not running.")
		}
	case "x":
		entry, ok, err := m.Session.StopTimer()
		switch {
		case err != nil:
			m.warn(err)
		case !ok:
			m.notify(noticeInfo, "Timer is not running.")
		default:
			m.notify(noticeSuccess, entry.Note)
		}
	case "r":
		m.Session.ResetTimer()
		m.notify(noticeInfo, "Timer reset.")
	case "R":
		m.restartSession()
	case "w":
		if _, err := m.Session.SaveTimerLog(); err != nil {
			m.warn(err)
		} else {
			m.notify(noticeSuccess, "Timer log saved!")
		}
	case "e":
		m.exportLog()
	case "a":
		m.AddingTask = true
		return m, m.TaskInput.Focus()
	case "up", "k":
		if m.SelectedTask > 0 {
			m.SelectedTask--
		}
	case "down", "j":
		if m.SelectedTask < m.Session.Tasks.Len()-1 {
			m.SelectedTask++
		}
	case " ":
		if err := m.Session.Tasks.Toggle(m.SelectedTask); err != nil {
			m.warn(err)
		}
	case "d":
		m.removeSelectedTask()
	case "l":
		m.ShowLogView = true
		m.LogViewScroll = 0
	}
	return m, nil
}

func (m *Model) handleTaskInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.stopTracking()
		return m, tea.Quit
	case "esc":
		m.AddingTask = false
		m.TaskInput.Blur()
		return m, nil
	case "enter":
		m.submitTask()
		return m, nil
	}

	var cmd tea.Cmd
	m.TaskInput, cmd = m.TaskInput.Update(msg)
	return m, cmd
}

func (m *Model) handleLogViewInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc", "l":
		m.ShowLogView = false
	case "tab":
		m.LogTable = !m.LogTable
		m.LogViewScroll = 0
	case "up", "k":
		if m.LogViewScroll > 0 {
			m.LogViewScroll--
		}
	case "down", "j":
		m.LogViewScroll++
	}
	return m, nil
}
