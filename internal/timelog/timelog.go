package timelog

import "time"

// Status tags an entry in the focus log.
type Status string

const (
	Focused       Status = "focused"
	Distracted    Status = "distracted"
	TimerStopped  Status = "timer_stopped"
	TimerLogSaved Status = "timer_log"
)

var labels = map[Status]string{
	Focused:       "🟢 Focused",
	Distracted:    "🔴 Distracted",
	TimerStopped:  "🛑 Timer Stopped",
	TimerLogSaved: "⏱️ Timer Log",
}

// Label returns the display label, or the raw tag for unknown statuses.
func (s Status) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// IsSample reports whether entries with this status come from the focus sampler.
func (s Status) IsSample() bool {
	return s == Focused || s == Distracted
}

// StatusForVerdict maps a detector verdict to a sampling status.
func StatusForVerdict(focused bool) Status {
	if focused {
		return Focused
	}
	return Distracted
}

// Entry is one immutable record in the focus log.
type Entry struct {
	Seq       int64
	Timestamp time.Time
	Status    Status
	Note      string
}
