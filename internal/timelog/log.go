package timelog

import (
	"sync"
	"time"
)

// Store persists entries for the lifetime of one session.
type Store interface {
	Append(e *Entry) error
	All() ([]Entry, error)
	Clear() error
	Close() error
}

// Log is the append-only, insertion-ordered focus log.
// It is safe for concurrent use by the sampler and the dashboard.
type Log struct {
	mu    sync.Mutex
	store Store
	now   func() time.Time
}

func New(store Store) *Log {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Log{store: store, now: time.Now}
}

// WithClock replaces time.Now for Record.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Record appends an entry stamped with the current time.
func (l *Log) Record(status Status, note string) (Entry, error) {
	return l.Append(Entry{Timestamp: l.now(), Status: status, Note: note})
}

// Append adds e to the end of the log and returns it with its sequence set.
func (l *Log) Append(e Entry) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Append(&e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Entries returns a copy of every entry in insertion order.
func (l *Log) Entries() ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.All()
}

// Recent returns at most n of the latest entries, newest first.
func (l *Log) Recent(n int) ([]Entry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	return Latest(entries, n), nil
}

func (l *Log) Len() (int, error) {
	entries, err := l.Entries()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Clear removes every entry. Only a full session restart may call it.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Clear()
}

func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Close()
}

// Latest returns at most n of the last entries in reverse order.
func Latest(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	start := len(entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Entry, 0, len(entries)-start)
	for i := len(entries) - 1; i >= start; i-- {
		out = append(out, entries[i])
	}
	return out
}

// MemoryStore keeps entries in a slice.
// Sequence numbers keep increasing across Clear.
type MemoryStore struct {
	entries []Entry
	lastSeq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(e *Entry) error {
	s.lastSeq++
	e.Seq = s.lastSeq
	s.entries = append(s.entries, *e)
	return nil
}

func (s *MemoryStore) All() ([]Entry, error) {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *MemoryStore) Clear() error {
	s.entries = nil
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
