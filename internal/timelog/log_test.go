package timelog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLiteStore()
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestLog_AppendPreservesInsertionOrder(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			log := New(store)
			defer log.Close()

			// Timestamps out of order are accepted; insertion order wins.
			_, err := log.Append(Entry{Timestamp: base.Add(2 * time.Second), Status: Focused})
			require.NoError(t, err)
			_, err = log.Append(Entry{Timestamp: base, Status: Distracted})
			require.NoError(t, err)
			_, err = log.Append(Entry{Timestamp: base.Add(3 * time.Second), Status: TimerStopped, Note: "Stopped at Session: 1m, Break: 0m"})
			require.NoError(t, err)

			entries, err := log.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 3)
			assert.Equal(t, Focused, entries[0].Status)
			assert.Equal(t, Distracted, entries[1].Status)
			assert.Equal(t, TimerStopped, entries[2].Status)
			assert.Equal(t, "Stopped at Session: 1m, Break: 0m", entries[2].Note)
			assert.True(t, entries[1].Timestamp.Equal(base))
			assert.Less(t, entries[0].Seq, entries[1].Seq)
			assert.Less(t, entries[1].Seq, entries[2].Seq)
		})
	}
}

func TestLog_EntriesReturnsCopy(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			log := New(store)
			defer log.Close()

			_, err := log.Append(Entry{Timestamp: base, Status: Focused})
			require.NoError(t, err)

			entries, err := log.Entries()
			require.NoError(t, err)
			entries[0].Status = Distracted

			again, err := log.Entries()
			require.NoError(t, err)
			assert.Equal(t, Focused, again[0].Status)
		})
	}
}

func TestLog_ClearEmptiesLog(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			log := New(store)
			defer log.Close()

			_, err := log.Append(Entry{Timestamp: base, Status: Focused})
			require.NoError(t, err)
			require.NoError(t, log.Clear())

			n, err := log.Len()
			require.NoError(t, err)
			assert.Equal(t, 0, n)

			e, err := log.Append(Entry{Timestamp: base, Status: Distracted})
			require.NoError(t, err)
			assert.Equal(t, int64(2), e.Seq)
		})
	}
}

func TestLog_RecordUsesClock(t *testing.T) {
	log := New(nil).WithClock(func() time.Time { return base })

	e, err := log.Record(TimerLogSaved, "Session: 1m 30s, Break: 0m 0s")

	require.NoError(t, err)
	assert.Equal(t, base, e.Timestamp)
	assert.Equal(t, TimerLogSaved, e.Status)
	assert.Equal(t, int64(1), e.Seq)
}

func TestLog_RecentNewestFirst(t *testing.T) {
	log := New(nil)
	for i := 0; i < 150; i++ {
		_, err := log.Append(Entry{Timestamp: base.Add(time.Duration(i) * time.Second), Status: Focused, Note: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	recent, err := log.Recent(100)

	require.NoError(t, err)
	require.Len(t, recent, 100)
	assert.Equal(t, "149", recent[0].Note)
	assert.Equal(t, "50", recent[99].Note)
}

func TestLatest(t *testing.T) {
	entries := []Entry{{Note: "a"}, {Note: "b"}, {Note: "c"}}

	tests := []struct {
		name     string
		n        int
		expected []string
	}{
		{name: "fewer than available", n: 2, expected: []string{"c", "b"}},
		{name: "more than available", n: 10, expected: []string{"c", "b", "a"}},
		{name: "zero", n: 0, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var notes []string
			for _, e := range Latest(entries, tt.n) {
				notes = append(notes, e.Note)
			}
			assert.Equal(t, tt.expected, notes)
		})
	}
}

func TestLog_ConcurrentAppends(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			log := New(store)
			defer log.Close()

			var wg sync.WaitGroup
			for w := 0; w < 4; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 25; i++ {
						_, _ = log.Record(Focused, "")
					}
				}()
			}
			wg.Wait()

			entries, err := log.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 100)
			for i := 1; i < len(entries); i++ {
				assert.Less(t, entries[i-1].Seq, entries[i].Seq)
			}
		})
	}
}

func TestStatus_LabelAndSample(t *testing.T) {
	tests := []struct {
		status   Status
		label    string
		isSample bool
	}{
		{Focused, "🟢 Focused", true},
		{Distracted, "🔴 Distracted", true},
		{TimerStopped, "🛑 Timer Stopped", false},
		{TimerLogSaved, "⏱️ Timer Log", false},
		{Status("custom"), "custom", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.label, tt.status.Label())
			assert.Equal(t, tt.isSample, tt.status.IsSample())
		})
	}
}

func TestStatusForVerdict(t *testing.T) {
	assert.Equal(t, Focused, StatusForVerdict(true))
	assert.Equal(t, Distracted, StatusForVerdict(false))
}
