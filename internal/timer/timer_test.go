package timer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTimer() (*Timer, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	return New(WithClock(clock.Now)), clock
}

func TestTimer_InitialState(t *testing.T) {
	tm, _ := newTestTimer()

	assert.Equal(t, Idle, tm.State())
	assert.False(t, tm.Running())
	assert.Equal(t, Totals{}, tm.Live())
	assert.Equal(t, Totals{}, tm.Accumulated())
}

func TestTimer_StartAccumulatesLiveSession(t *testing.T) {
	tm, clock := newTestTimer()

	require.True(t, tm.Start())
	clock.Advance(45 * time.Second)

	assert.Equal(t, Running, tm.State())
	assert.Equal(t, 45*time.Second, tm.SessionElapsed())
	assert.Equal(t, time.Duration(0), tm.BreakElapsed())
	assert.Equal(t, time.Duration(0), tm.Accumulated().Session, "open interval is not accumulated")
}

func TestTimer_StartWhileRunningIsNoOp(t *testing.T) {
	tm, clock := newTestTimer()

	require.True(t, tm.Start())
	clock.Advance(10 * time.Second)
	assert.False(t, tm.Start())
	clock.Advance(5 * time.Second)

	assert.Equal(t, 15*time.Second, tm.SessionElapsed())
}

func TestTimer_PauseOpensBreak(t *testing.T) {
	tm, clock := newTestTimer()

	tm.Start()
	clock.Advance(2 * time.Minute)
	require.True(t, tm.Pause())
	clock.Advance(30 * time.Second)

	assert.Equal(t, OnBreak, tm.State())
	assert.Equal(t, 2*time.Minute, tm.SessionElapsed())
	assert.Equal(t, 30*time.Second, tm.BreakElapsed())
	assert.Equal(t, 2*time.Minute, tm.Accumulated().Session)
}

func TestTimer_ResumeClosesBreak(t *testing.T) {
	tm, clock := newTestTimer()

	tm.Start()
	clock.Advance(time.Minute)
	tm.Pause()
	clock.Advance(20 * time.Second)
	require.True(t, tm.Start())
	clock.Advance(10 * time.Second)

	assert.Equal(t, Running, tm.State())
	assert.Equal(t, 20*time.Second, tm.Accumulated().Break)
	assert.Equal(t, 20*time.Second, tm.BreakElapsed())
	assert.Equal(t, 70*time.Second, tm.SessionElapsed())
}

func TestTimer_PauseWhileIdleIsNoOp(t *testing.T) {
	tm, clock := newTestTimer()

	clock.Advance(time.Minute)
	assert.False(t, tm.Pause())

	assert.Equal(t, Idle, tm.State())
	assert.Equal(t, Totals{}, tm.Accumulated())
	assert.Equal(t, Totals{}, tm.Live())
}

func TestTimer_PauseWhileOnBreakIsNoOp(t *testing.T) {
	tm, clock := newTestTimer()

	tm.Start()
	clock.Advance(time.Minute)
	tm.Pause()
	clock.Advance(time.Minute)
	assert.False(t, tm.Pause())
	clock.Advance(time.Minute)

	assert.Equal(t, 2*time.Minute, tm.BreakElapsed())
}

func TestTimer_StopFromRunning(t *testing.T) {
	tm, clock := newTestTimer()

	tm.Start()
	clock.Advance(90 * time.Second)
	totals, ok := tm.Stop()

	require.True(t, ok)
	assert.Equal(t, Totals{Session: 90 * time.Second}, totals)
	assert.Equal(t, Idle, tm.State())
	clock.Advance(time.Minute)
	assert.Equal(t, 90*time.Second, tm.SessionElapsed(), "stopped timer must not accumulate")
	assert.Equal(t, time.Duration(0), tm.BreakElapsed(), "stop does not open a break")
}

func TestTimer_StopFromBreak(t *testing.T) {
	tm, clock := newTestTimer()

	tm.Start()
	clock.Advance(3 * time.Minute)
	tm.Pause()
	clock.Advance(2 * time.Minute)
	totals, ok := tm.Stop()

	require.True(t, ok)
	assert.Equal(t, Totals{Session: 3 * time.Minute, Break: 2 * time.Minute}, totals)
	assert.Equal(t, Idle, tm.State())
}

func TestTimer_StopWhileIdleIsNoOp(t *testing.T) {
	tm, _ := newTestTimer()

	totals, ok := tm.Stop()

	assert.False(t, ok)
	assert.Equal(t, Totals{}, totals)
}

func TestTimer_ResetClearsEverything(t *testing.T) {
	tm, clock := newTestTimer()

	tm.Start()
	clock.Advance(time.Minute)
	tm.Pause()
	clock.Advance(time.Minute)
	tm.Reset()

	assert.Equal(t, Idle, tm.State())
	assert.Equal(t, Totals{}, tm.Accumulated())
	assert.Equal(t, Totals{}, tm.Live())
	session, onBreak := tm.OpenIntervals()
	assert.False(t, session)
	assert.False(t, onBreak)
}

func TestTimer_ClockSteppingBackwardsNeverShrinks(t *testing.T) {
	tm, clock := newTestTimer()

	tm.Start()
	clock.Advance(time.Minute)
	tm.Pause()
	clock.Advance(-5 * time.Minute)
	tm.Start()

	assert.Equal(t, time.Minute, tm.Accumulated().Session)
	assert.Equal(t, time.Duration(0), tm.Accumulated().Break)
}

func TestTimer_RandomSequencesHoldInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		tm, clock := newTestTimer()
		var prev Totals

		for step := 0; step < 200; step++ {
			clock.Advance(time.Duration(rng.Intn(120)) * time.Second)

			reset := false
			switch rng.Intn(4) {
			case 0:
				tm.Start()
			case 1:
				tm.Pause()
			case 2:
				tm.Stop()
			case 3:
				tm.Reset()
				reset = true
			}

			session, onBreak := tm.OpenIntervals()
			require.False(t, session && onBreak, "both intervals open at run %d step %d", run, step)

			acc := tm.Accumulated()
			require.GreaterOrEqual(t, acc.Session, time.Duration(0))
			require.GreaterOrEqual(t, acc.Break, time.Duration(0))
			if !reset {
				require.GreaterOrEqual(t, acc.Session, prev.Session)
				require.GreaterOrEqual(t, acc.Break, prev.Break)
			}
			prev = acc
		}
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Running", Running.String())
	assert.Equal(t, "On break", OnBreak.String())
}
