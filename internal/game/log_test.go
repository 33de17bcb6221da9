package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionStringSubstitutesCount(t *testing.T) {
	assert.Equal(t, "Added 3 Actions", ActionString(ActionAddActions, 3, false))
	assert.Equal(t, "Removed 1 Coins", ActionString(ActionRemoveCoins, 1, false))
}

func TestActionStringDropsPlaceholderWithoutCount(t *testing.T) {
	assert.Equal(t, "Added Actions", ActionString(ActionAddActions, 0, false))
	assert.Equal(t, "Next Turn", ActionString(ActionNextTurn, 0, false))
}

func TestActionStringFutureTense(t *testing.T) {
	assert.Equal(t, "Will Add 2 Cards", ActionString(ActionAddCards, 2, true))
	assert.Equal(t, "Will Remove 1 Buys", ActionString(ActionRemoveBuys, 1, true))
	// Kinds without a future template fall back to the present form.
	assert.Equal(t, "Next Turn", ActionString(ActionNextTurn, 0, true))
}

func TestLogEntryStringUsesGroupedActionName(t *testing.T) {
	entry := LogEntry{Action: ActionGroupedAct, ActionName: "Council Room"}
	assert.Equal(t, "Council Room", LogEntryString(entry))

	entry = LogEntry{Action: ActionAddCoins, Count: 4}
	assert.Equal(t, "Added 4 Coins", LogEntryString(entry))
}

func TestAddLogEntryStampsEntryFields(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	g, entry, err := AddLogEntry(g, 0, ActionAddCoins, clock.Advance(45*time.Second), WithCount(2))
	require.NoError(t, err)

	assert.NotEqual(t, entry.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, 1, entry.Turn)
	assert.Equal(t, 0, entry.CurrentPlayerIndex)
	assert.Equal(t, NoPlayer, entry.PrevPlayerIndex)
	assert.Equal(t, 45*time.Second, entry.GameTime)
	assert.Equal(t, entry, g.Log[len(g.Log)-1])
}

func TestNextTurnEntryCarriesTurnDetails(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Second), WithCount(3))
	require.NoError(t, err)

	_, entry, err := AddLogEntry(g, 1, ActionNextTurn, clock.Advance(time.Minute))
	require.NoError(t, err)

	require.Len(t, entry.PlayerTurnDetails, 2)
	assert.Equal(t, 3, entry.PlayerTurnDetails[0].Coins)
	assert.Equal(t, 0, entry.PrevPlayerIndex)
}

func TestMasterIDFallsBackToOwnID(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	g, master, err := AddLogEntry(g, 0, ActionAddActions, clock.Advance(time.Second), WithCount(1))
	require.NoError(t, err)
	assert.Equal(t, master.ID, master.MasterID())

	_, child, err := AddLogEntry(g, 0, ActionRemoveActions, clock.Advance(time.Second),
		WithCount(1), WithLinkedAction(master.ID))
	require.NoError(t, err)
	assert.Equal(t, master.ID, child.MasterID())
}
