package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// playSampleGame drives a short two-player game through a few turns.
func playSampleGame(t *testing.T, clock *testClock) Game {
	t.Helper()
	g := startedGame(t, 2, clock)

	steps := []struct {
		player int
		action GameLogAction
		count  int
	}{
		{0, ActionAddCoins, 3},
		{0, ActionAddBuys, 1},
		{0, ActionAddEstates, 1},
		{1, ActionNextTurn, 0},
		{1, ActionAddCoins, 6},
		{1, ActionAddProvinces, 1},
		{0, ActionNextTurn, 0},
		{0, ActionAddCoffers, 2},
	}
	var err error
	for _, s := range steps {
		var opts []EntryOption
		if s.count > 0 {
			opts = append(opts, WithCount(s.count))
		}
		g, _, err = AddLogEntry(g, s.player, s.action, clock.Advance(10*time.Second), opts...)
		require.NoError(t, err)
	}
	return g
}

func TestReconstructGameStateMatchesLive(t *testing.T) {
	clock := newTestClock()
	g := playSampleGame(t, clock)

	rebuilt, err := ReconstructGameState(g.Setup, g.Log)
	require.NoError(t, err)

	assert.Equal(t, g.CurrentTurn, rebuilt.CurrentTurn)
	assert.Equal(t, g.Players, rebuilt.Players)
	assert.Equal(t, g.Supply, rebuilt.Supply)
	assert.Equal(t, Checksum(g), Checksum(rebuilt))
}

func TestReconstructGameStateIsDeterministic(t *testing.T) {
	clock := newTestClock()
	g := playSampleGame(t, clock)

	first, err := ReconstructGameState(g.Setup, g.Log)
	require.NoError(t, err)
	second, err := ReconstructGameState(g.Setup, g.Log)
	require.NoError(t, err)

	assert.Equal(t, Checksum(first), Checksum(second))
}

func TestReconstructRejectsLogWithoutStart(t *testing.T) {
	clock := newTestClock()
	g := playSampleGame(t, clock)

	_, err := ReconstructGameState(g.Setup, g.Log[1:])
	assert.ErrorIs(t, err, ErrLogNotStarted)
}

func TestReconstructReportsFailingEntry(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	bad := LogEntry{
		ID:          g.Log[0].ID,
		Timestamp:   clock.Advance(time.Second),
		Action:      ActionRemoveCoins,
		PlayerIndex: 0,
		Count:       5,
		Turn:        1,
	}
	_, err := ReconstructGameState(g.Setup, append(g.Log, bad))
	var entryErr *InvalidLogEntryError
	require.ErrorAs(t, err, &entryErr)
	var subfieldErr *NotEnoughSubfieldError
	assert.ErrorAs(t, err, &subfieldErr)
}

func TestReconstructRejectsEntryWhilePaused(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, NoPlayer, ActionPause, clock.Advance(time.Second))
	require.NoError(t, err)

	// A stored log carrying an entry inside an open pause window must be
	// rejected on replay, not just on live append.
	bad := LogEntry{
		ID:          g.Log[0].ID,
		Timestamp:   clock.Advance(time.Second),
		Action:      ActionAddCoins,
		PlayerIndex: 0,
		Count:       2,
		Turn:        1,
	}
	_, err = ReconstructGameState(g.Setup, append(g.Log, bad))
	var entryErr *InvalidLogEntryError
	require.ErrorAs(t, err, &entryErr)
	assert.ErrorIs(t, err, ErrGamePaused)
}

func TestBuildLinkedActionIndex(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, master, err := AddLogEntry(g, 0, ActionAddActions, clock.Advance(time.Second), WithCount(2))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 0, ActionRemoveActions, clock.Advance(time.Second),
		WithCount(1), WithLinkedAction(master.ID))
	require.NoError(t, err)

	index := BuildLinkedActionIndex(g.Log)
	assert.Equal(t, []int{1, 2}, index[master.ID])
	assert.Equal(t, []int{0}, index[g.Log[0].ID])
}

func TestRebuildTurnStatisticsCache(t *testing.T) {
	clock := newTestClock()
	g := playSampleGame(t, clock)
	require.Len(t, g.TurnStatisticsCache, 2)

	stale := g.Copy()
	stale.TurnStatisticsCache = nil

	rebuilt, err := RebuildTurnStatisticsCache(stale)
	require.NoError(t, err)
	assert.Equal(t, g.TurnStatisticsCache, rebuilt)
}

func TestVictoryPointsAndSupplyByTurn(t *testing.T) {
	clock := newTestClock()
	g := playSampleGame(t, clock)

	series, err := VictoryPointsAndSupplyByTurn(g.Setup, g.Log)
	require.NoError(t, err)
	require.Len(t, series, 2)

	// End of turn 1: player 0 gained an estate.
	assert.Equal(t, 1, series[0].Turn)
	assert.Equal(t, []int{4, 3}, series[0].PlayerScores)
	assert.Equal(t, 7, series[0].Supply.Estates)

	// End of turn 2: player 1 gained a province.
	assert.Equal(t, 2, series[1].Turn)
	assert.Equal(t, []int{4, 9}, series[1].PlayerScores)
	assert.Equal(t, 7, series[1].Supply.Provinces)
}
