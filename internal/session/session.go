package session

import (
	"fmt"
	"time"

	"focus_tracker/internal/task"
	"focus_tracker/internal/timelog"
	"focus_tracker/internal/timer"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session is the state of one interactive session. The host creates it once
// and passes it by pointer to everything that reads or mutates it.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Tracking  bool

	Timer *timer.Timer
	Log   *timelog.Log
	Tasks *task.List

	now    func() time.Time
	base   zerolog.Logger
	logger zerolog.Logger
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.base = logger
	}
}

func New(log *timelog.Log, opts ...Option) *Session {
	s := &Session{
		now:   time.Now,
		base:  zerolog.Nop(),
		Tasks: task.NewList(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if log == nil {
		log = timelog.New(nil)
	}
	s.Log = log.WithClock(s.now)
	s.Timer = timer.New(timer.WithClock(s.now))
	s.ID = uuid.NewString()
	s.StartedAt = s.now()
	s.logger = s.base.With().Str("session", s.ID).Logger()
	return s
}

func (s *Session) Logger() zerolog.Logger {
	return s.logger
}

// StartTimer starts or resumes the on-task clock.
func (s *Session) StartTimer() bool {
	ok := s.Timer.Start()
	if ok {
		s.logger.Debug().Msg("timer started")
	}
	return ok
}

func (s *Session) PauseTimer() bool {
	ok := s.Timer.Pause()
	if ok {
		s.logger.Debug().Msg("timer paused")
	}
	return ok
}

// StopTimer closes the open interval and records a TimerStopped entry.
// It does nothing when the timer is idle.
func (s *Session) StopTimer() (timelog.Entry, bool, error) {
	totals, ok := s.Timer.Stop()
	if !ok {
		return timelog.Entry{}, false, nil
	}
	note := fmt.Sprintf("Stopped at Session: %dm, Break: %dm", wholeMinutes(totals.Session), wholeMinutes(totals.Break))
	entry, err := s.Log.Record(timelog.TimerStopped, note)
	if err != nil {
		return timelog.Entry{}, true, err
	}
	s.logger.Info().Dur("session_time", totals.Session).Dur("break_time", totals.Break).Msg("timer stopped")
	return entry, true, nil
}

// ResetTimer zeroes the timer without touching the log.
func (s *Session) ResetTimer() {
	s.Timer.Reset()
	s.logger.Debug().Msg("timer reset")
}

// SaveTimerLog records the live timer values as a TimerLogSaved entry.
func (s *Session) SaveTimerLog() (timelog.Entry, error) {
	live := s.Timer.Live()
	note := fmt.Sprintf("Session: %s, Break: %s", MinSec(live.Session), MinSec(live.Break))
	return s.Log.Record(timelog.TimerLogSaved, note)
}

// SetTracking flips the tracking flag, recording the end time when tracking
// is switched off.
func (s *Session) SetTracking(on bool) {
	if s.Tracking && !on {
		s.EndedAt = s.now()
	}
	s.Tracking = on
}

// Restart clears the log, resets the timer, stops tracking and begins a new
// session. Tasks belong to the to-do list and survive a restart.
func (s *Session) Restart() error {
	if err := s.Log.Clear(); err != nil {
		return err
	}
	s.Timer.Reset()
	s.Tracking = false
	s.EndedAt = time.Time{}
	s.StartedAt = s.now()
	s.ID = uuid.NewString()
	s.logger = s.base.With().Str("session", s.ID).Logger()
	s.logger.Info().Msg("session restarted")
	return nil
}

// MinSec renders d as "<m>m <s>s" with both parts rounded down.
func MinSec(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}
