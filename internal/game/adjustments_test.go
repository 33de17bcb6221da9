package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnAdjustments(t *testing.T) {
	clock := newTestClock()
	g := startedGame(t, 2, clock)

	var err error
	g, _, err = AddLogEntry(g, 0, ActionAddCoins, clock.Advance(time.Second), WithCount(3))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 0, ActionRemoveCoins, clock.Advance(time.Second), WithCount(1))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 1, ActionNextTurn, clock.Advance(time.Minute))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 1, ActionAddBuys, clock.Advance(time.Second), WithCount(2))
	require.NoError(t, err)

	turnOne := TurnAdjustments(g, 1)
	require.Len(t, turnOne, 2)
	assert.Equal(t, 3, turnOne[0].Increment)
	assert.Equal(t, -1, turnOne[1].Increment)

	turnTwo := TurnAdjustments(g, 2)
	require.Len(t, turnTwo, 1)
	assert.Equal(t, SubfieldBuys, turnTwo[0].Subfield)
}

func TestGroupTurnAdjustmentsNetsAndFilters(t *testing.T) {
	adjustments := []TurnAdjustment{
		{PlayerIndex: 0, Field: FieldTurn, Subfield: SubfieldCoins, Increment: 3},
		{PlayerIndex: 0, Field: FieldTurn, Subfield: SubfieldCoins, Increment: -1},
		{PlayerIndex: 0, Field: FieldTurn, Subfield: SubfieldBuys, Increment: 1},
		{PlayerIndex: 0, Field: FieldTurn, Subfield: SubfieldBuys, Increment: -1},
	}
	grouped := GroupTurnAdjustments(adjustments)
	require.Len(t, grouped, 1)
	assert.Equal(t, SubfieldCoins, grouped[0].Subfield)
	assert.Equal(t, 2, grouped[0].Increment)
}

func TestGroupTurnAdjustmentsByPlayer(t *testing.T) {
	adjustments := []TurnAdjustment{
		{PlayerIndex: 0, Field: FieldTurn, Subfield: SubfieldCoins, Increment: 2},
		{PlayerIndex: 1, Field: FieldTurn, Subfield: SubfieldCoins, Increment: 1},
		{PlayerIndex: 1, Field: FieldTurn, Subfield: SubfieldCoins, Increment: -1},
	}
	byPlayer := GroupTurnAdjustmentsByPlayer(adjustments)
	require.Len(t, byPlayer[0], 1)
	assert.Equal(t, 2, byPlayer[0][0].Increment)
	assert.Equal(t, 0, byPlayer[0][0].PlayerIndex)
	assert.Empty(t, byPlayer[1])
}
