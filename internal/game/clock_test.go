package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePausedTime(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, NoPlayer, ActionPause, clock.Advance(time.Minute))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, NoPlayer, ActionUnpause, clock.Advance(2*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, CalculatePausedTime(g.Log, clock.Now()))
	// A pause still open counts up to the query time.
	g, _, err = AddLogEntry(g, NoPlayer, ActionPause, clock.Advance(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute+30*time.Second, CalculatePausedTime(g.Log, clock.Advance(30*time.Second)))
}

func TestSaveLoadStopsClock(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, NoPlayer, ActionSaveGame, clock.Advance(time.Minute))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, NoPlayer, ActionLoadGame, clock.Advance(time.Hour))
	require.NoError(t, err)

	g, entry, err := AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Minute), WithCount(1))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, entry.GameTime)
	assert.NotEmpty(t, g.Log)
}

func TestGameTimeExcludesPauses(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, NoPlayer, ActionPause, clock.Advance(time.Minute))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, NoPlayer, ActionUnpause, clock.Advance(10*time.Minute))
	require.NoError(t, err)

	_, entry, err := AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Minute), WithCount(1))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, entry.GameTime)
}

func TestGameEndTime(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	assert.True(t, GameEndTime(g.Log).IsZero())

	g, _, err := AddLogEntry(g, NoPlayer, ActionEndGame, clock.Advance(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), GameEndTime(g.Log))
}

func TestCalculateTurnDurations(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, 1, ActionNextTurn, clock.Advance(3*time.Minute))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 0, ActionNextTurn, clock.Advance(5*time.Minute))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, NoPlayer, ActionEndGame, clock.Advance(time.Minute))
	require.NoError(t, err)

	durations := CalculateTurnDurations(g.Log)
	require.Len(t, durations, 3)
	assert.Equal(t, 3*time.Minute, durations[0].Duration)
	assert.Equal(t, 0, durations[0].PlayerIndex)
	assert.Equal(t, 5*time.Minute, durations[1].Duration)
	assert.Equal(t, 1, durations[1].PlayerIndex)
	assert.Equal(t, time.Minute, durations[2].Duration)

	assert.Equal(t, 3*time.Minute, CalculateAverageTurnDuration(g.Log))
	assert.Equal(t, 2*time.Minute, CalculateAverageTurnDurationForPlayer(g.Log, 0))
}

func TestCalculateCurrentTurnDuration(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	g, _, err := AddLogEntry(g, 1, ActionNextTurn, clock.Advance(3*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, CalculateCurrentTurnDuration(g.Log, clock.Advance(90*time.Second)))
}

func TestFormatTimeSpan(t *testing.T) {
	assert.Equal(t, "0d 0h 0m 0s", FormatTimeSpan(0))
	assert.Equal(t, "0d 0h 1m 30s", FormatTimeSpan(90*time.Second))
	assert.Equal(t, "1d 2h 3m 4s", FormatTimeSpan(26*time.Hour+3*time.Minute+4*time.Second))
	assert.Equal(t, "0d 0h 0m 0s", FormatTimeSpan(-time.Minute))
}

func TestRebuildGameTimeHistory(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Minute), WithCount(1))
	require.NoError(t, err)

	// Corrupt the stored game time, then rebuild from raw timestamps.
	g.Log[1].GameTime = 0
	rebuilt := RebuildGameTimeHistory(g)
	assert.Equal(t, time.Minute, rebuilt.Log[1].GameTime)
	assert.Equal(t, time.Duration(0), rebuilt.Log[0].GameTime)
}
