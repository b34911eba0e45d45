package main

import (
	"fmt"
	"os"
	"time"

	"focus_tracker/internal"
	"focus_tracker/internal/camera"
	"focus_tracker/internal/config"
	"focus_tracker/internal/detector"
	apperrors "focus_tracker/internal/errors"
	"focus_tracker/internal/logging"
	"focus_tracker/internal/sampler"
	"focus_tracker/internal/session"
	"focus_tracker/internal/timelog"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	var warnings []string

	cfg, err := config.Load()
	if err != nil {
		warnings = append(warnings, apperrors.UserMessage(err))
	}

	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	logger, logFile, err := logging.Open(logPath, cfg.Logging.Level)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Diagnostics logging disabled: %v", err))
	} else {
		defer logFile.Close()
	}

	store, err := newStore(cfg.LogStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log := timelog.New(store)

	sess := session.New(log, session.WithLogger(logger))
	sessLogger := sess.Logger()
	sessLogger.Info().Str("store", cfg.LogStore).Str("config_log", logPath).Msg("session started")

	var smp *sampler.Sampler
	det, err := detector.LoadPigo(cfg.Detector.CascadePath, detector.Options{
		MinSize:    cfg.Detector.MinSize,
		MinQuality: cfg.Detector.MinQuality,
	})
	if err != nil {
		sessLogger.Warn().Err(err).Msg("face detector unavailable")
	} else {
		source := camera.NewFFmpeg(camera.FFmpegConfig{
			Binary:      cfg.Camera.FFmpegPath,
			InputFormat: cfg.Camera.InputFormat,
			Device:      cfg.Camera.Device,
			Width:       cfg.Camera.Width,
			Height:      cfg.Camera.Height,
		})
		smp = sampler.New(source, det, log, cfg.SampleInterval, sessLogger)
	}

	m := internal.NewModel(sess, smp, cfg)
	for _, w := range warnings {
		m.Warn(w)
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Send(internal.MsgTick{})
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func newStore(kind string) (timelog.Store, error) {
	if kind == config.StoreSQLite {
		return timelog.NewSQLiteStore()
	}
	return timelog.NewMemoryStore(), nil
}
