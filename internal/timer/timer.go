package timer

import (
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	Running
	OnBreak
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case OnBreak:
		return "On break"
	default:
		return "Idle"
	}
}

// Totals is the accumulated on-task and break time at one instant.
type Totals struct {
	Session time.Duration
	Break   time.Duration
}

type Option func(*Timer)

// WithClock replaces time.Now as the timer's source of instants.
func WithClock(now func() time.Time) Option {
	return func(t *Timer) {
		t.now = now
	}
}

// Timer accumulates on-task and break time across pause/resume cycles.
// At most one of the two intervals is open at any instant.
type Timer struct {
	mu           sync.RWMutex
	now          func() time.Time
	running      bool
	session      time.Duration
	runningSince time.Time
	breaks       time.Duration
	breakSince   time.Time
}

func New(opts ...Option) *Timer {
	t := &Timer{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start opens an on-task interval, closing an open break first.
// It reports false when the timer is already running.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return false
	}

	now := t.now()
	t.closeBreakLocked(now)
	t.running = true
	t.runningSince = now
	return true
}

// Pause closes the on-task interval and opens a break. Only valid while running.
func (t *Timer) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return false
	}

	now := t.now()
	t.closeSessionLocked(now)
	t.breakSince = now
	return true
}

// Stop closes whichever interval is open and returns the totals.
// It reports false when the timer was already idle.
func (t *Timer) Stop() (Totals, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stateLocked() == Idle {
		return Totals{Session: t.session, Break: t.breaks}, false
	}

	now := t.now()
	t.closeSessionLocked(now)
	t.closeBreakLocked(now)
	return Totals{Session: t.session, Break: t.breaks}, true
}

func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = false
	t.session = 0
	t.runningSince = time.Time{}
	t.breaks = 0
	t.breakSince = time.Time{}
}

func (t *Timer) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stateLocked()
}

func (t *Timer) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// SessionElapsed is the live on-task time, including the open interval.
func (t *Timer) SessionElapsed() time.Duration {
	return t.Live().Session
}

// BreakElapsed is the live break time, including the open interval.
func (t *Timer) BreakElapsed() time.Duration {
	return t.Live().Break
}

// Live computes both live values from a single instant. It never mutates state.
func (t *Timer) Live() Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	live := Totals{Session: t.session, Break: t.breaks}
	if t.running {
		live.Session += sinceNonNegative(now, t.runningSince)
	}
	if !t.breakSince.IsZero() {
		live.Break += sinceNonNegative(now, t.breakSince)
	}
	return live
}

// Accumulated returns the closed-interval totals only.
func (t *Timer) Accumulated() Totals {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Totals{Session: t.session, Break: t.breaks}
}

// OpenIntervals reports which intervals are currently open.
func (t *Timer) OpenIntervals() (session, onBreak bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running, !t.breakSince.IsZero()
}

func (t *Timer) stateLocked() State {
	switch {
	case t.running:
		return Running
	case !t.breakSince.IsZero():
		return OnBreak
	default:
		return Idle
	}
}

func (t *Timer) closeSessionLocked(now time.Time) {
	if !t.running {
		return
	}
	t.session += sinceNonNegative(now, t.runningSince)
	t.running = false
	t.runningSince = time.Time{}
}

func (t *Timer) closeBreakLocked(now time.Time) {
	if t.breakSince.IsZero() {
		return
	}
	t.breaks += sinceNonNegative(now, t.breakSince)
	t.breakSince = time.Time{}
}

// A clock that steps backwards must not shrink the accumulators.
func sinceNonNegative(now, since time.Time) time.Duration {
	d := now.Sub(since)
	if d < 0 {
		return 0
	}
	return d
}
