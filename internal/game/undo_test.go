package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUndo() *UndoController {
	return NewUndoController(zap.NewNop())
}

func TestUndoSimpleAdjustment(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, _, err := AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Second), WithCount(3))
	require.NoError(t, err)

	require.True(t, undo.CanUndoAction(g, 1))
	next, ok := undo.UndoAction(g, 1)
	require.True(t, ok)
	assert.Equal(t, 0, next.Players[0].Turn.Coins)
	assert.Len(t, next.Log, 1)
}

func TestUndoGroupIsAtomic(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, master, err := AddLogEntry(g, 0, ActionAddActions, clock.Advance(time.Second), WithCount(2))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 0, ActionRemoveActions, clock.Advance(time.Second),
		WithCount(1), WithLinkedAction(master.ID))
	require.NoError(t, err)
	require.Equal(t, 2, g.Players[0].Turn.Actions)

	// Undoing either index removes both entries.
	for _, index := range []int{1, 2} {
		next, ok := undo.UndoAction(g, index)
		require.True(t, ok, "undo at index %d", index)
		assert.Len(t, next.Log, 1)
		assert.Equal(t, 1, next.Players[0].Turn.Actions)
	}
}

func TestUndoRejectedWhenStateWouldGoNegative(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	// Raise by two, then lower twice to zero. Undoing only the raise would
	// leave the lowers replaying into negative territory.
	var err error
	g, _, err = AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Second), WithCount(2))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 0, ActionRemoveCoins, clock.Advance(time.Second), WithCount(1))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 0, ActionRemoveCoins, clock.Advance(time.Second), WithCount(1))
	require.NoError(t, err)

	assert.False(t, undo.CanUndoAction(g, 1))

	next, ok := undo.UndoAction(g, 1)
	assert.False(t, ok)
	assert.Equal(t, Checksum(g), Checksum(next))
	assert.Len(t, next.Log, 4)
}

func TestStartGameNeverUndoable(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	assert.False(t, undo.CanUndoAction(g, 0))
}

func TestAdministrativeKindsNotUndoable(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, _, err := AddLogEntry(g, NoPlayer, ActionPause, clock.Advance(time.Second))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, NoPlayer, ActionUnpause, clock.Advance(time.Second))
	require.NoError(t, err)

	assert.False(t, undo.CanUndoAction(g, 1))
	assert.False(t, undo.CanUndoAction(g, 2))
}

func TestNextTurnUndoableOnlyAsLastEntry(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, _, err := AddLogEntry(g, 1, ActionNextTurn, clock.Advance(time.Minute))
	require.NoError(t, err)
	assert.True(t, undo.CanUndoAction(g, 1))

	g, _, err = AddLogEntry(g, 1, ActionAddCoins, clock.Advance(time.Second), WithCount(1))
	require.NoError(t, err)
	assert.False(t, undo.CanUndoAction(g, 1))
}

func TestSelectPlayerUndoableOnlyAsLastEntry(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 3, clock)
	undo := newTestUndo()

	g, _, err := AddLogEntry(g, 2, ActionSelectPlayer, clock.Advance(time.Second))
	require.NoError(t, err)
	assert.True(t, undo.CanUndoAction(g, 1))

	next, ok := undo.UndoAction(g, 1)
	require.True(t, ok)
	assert.Equal(t, 0, next.SelectedPlayerIndex)

	g, _, err = AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Second), WithCount(1))
	require.NoError(t, err)
	assert.False(t, undo.CanUndoAction(g, 1))
}

func TestUndoOutOfBounds(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	assert.False(t, undo.CanUndoAction(g, -1))
	assert.False(t, undo.CanUndoAction(g, 7))
}

func TestUndoDanglingLinkRejected(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, _, err := AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Second), WithCount(1))
	require.NoError(t, err)

	// Point the entry at a master that is not in the log.
	g.Log[1].LinkedActionID = g.ID
	assert.False(t, undo.CanUndoAction(g, 1))
}

func TestUndoGroupedActionRemovesWholeGroup(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, err := ApplyGroupedAction(g, DefaultRecipes(), "market", clock.Advance(time.Second))
	require.NoError(t, err)
	require.Len(t, g.Log, 6)

	// Undo via one of the children.
	next, ok := undo.UndoAction(g, 3)
	require.True(t, ok)
	assert.Len(t, next.Log, 1)
	assert.Equal(t, 1, next.Players[0].Turn.Actions)
	assert.Equal(t, 5, next.Players[0].Turn.Cards)
	assert.Equal(t, 0, next.Players[0].Turn.Coins)
}

func TestUndoDropsOwnPendingTriggers(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, err := ApplyGroupedAction(g, DefaultRecipes(), "wharf", clock.Advance(time.Second))
	require.NoError(t, err)
	require.NotEmpty(t, g.PendingGroupedActions)

	next, ok := undo.UndoAction(g, 1)
	require.True(t, ok)
	assert.Empty(t, next.PendingGroupedActions)
}

func TestUndoDryRunLeavesStateUntouched(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)
	undo := newTestUndo()

	g, _, err := AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Second), WithCount(3))
	require.NoError(t, err)
	before := Checksum(g)

	require.True(t, undo.CanUndoAction(g, 1))
	assert.Equal(t, before, Checksum(g))
	assert.Equal(t, 3, g.Players[0].Turn.Coins)
}
