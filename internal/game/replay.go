package game

import "github.com/google/uuid"

// ReconstructGameState folds the log over the canonical initial state for
// the setup. It is a pure function of its inputs: no clock, no randomness,
// and the first failing entry aborts the fold with the entry id attached.
func ReconstructGameState(setup GameSetup, log []LogEntry) (Game, error) {
	g, err := NewGame(setup)
	if err != nil {
		return Game{}, err
	}
	if len(log) > 0 && log[0].Action != ActionStartGame {
		return Game{}, ErrLogNotStarted
	}
	for _, entry := range log {
		g, err = ApplyLogAction(g, entry)
		if err != nil {
			return Game{}, &InvalidLogEntryError{EntryID: entry.ID.String(), Err: err}
		}
	}
	return g, nil
}

// BuildLinkedActionIndex maps each master id to the ordered log indices of
// the entries in its group. Standalone entries index under their own id.
func BuildLinkedActionIndex(log []LogEntry) map[uuid.UUID][]int {
	index := make(map[uuid.UUID][]int, len(log))
	for i, e := range log {
		master := e.MasterID()
		index[master] = append(index[master], i)
	}
	return index
}

// removeTargetAndLinkedActions returns a candidate log with the entry at
// index and every entry sharing its master id removed. The input log is not
// modified.
func removeTargetAndLinkedActions(log []LogEntry, index int) []LogEntry {
	master := log[index].MasterID()
	group := BuildLinkedActionIndex(log)[master]
	remove := make(map[int]bool, len(group)+1)
	for _, i := range group {
		remove[i] = true
	}
	remove[index] = true

	out := make([]LogEntry, 0, len(log)-len(remove))
	for i, e := range log {
		if remove[i] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// RebuildTurnStatisticsCache re-derives the statistics cache from raw
// history, discarding whatever cache the stored game carried.
func RebuildTurnStatisticsCache(g Game) ([]TurnStatistics, error) {
	rebuilt, err := ReconstructGameState(g.Setup, g.Log)
	if err != nil {
		return nil, err
	}
	return rebuilt.TurnStatisticsCache, nil
}

// TurnSnapshot is one point in the per-turn score/supply series.
type TurnSnapshot struct {
	Turn         int    `json:"turn"`
	PlayerScores []int  `json:"playerScores"`
	Supply       Supply `json:"supply"`
}

// VictoryPointsAndSupplyByTurn replays the log once and emits each turn
// boundary's scores and supply, for graphing score progression.
func VictoryPointsAndSupplyByTurn(setup GameSetup, log []LogEntry) ([]TurnSnapshot, error) {
	g, err := NewGame(setup)
	if err != nil {
		return nil, err
	}
	var series []TurnSnapshot
	snapshot := func(state Game) TurnSnapshot {
		scores := make([]int, len(state.Players))
		for i, p := range state.Players {
			scores[i] = VictoryPoints(p)
		}
		return TurnSnapshot{Turn: state.CurrentTurn, PlayerScores: scores, Supply: state.Supply}
	}
	for _, entry := range log {
		if entry.Action == ActionNextTurn || entry.Action == ActionEndGame {
			series = append(series, snapshot(g))
		}
		g, err = ApplyLogAction(g, entry)
		if err != nil {
			return nil, &InvalidLogEntryError{EntryID: entry.ID.String(), Err: err}
		}
	}
	return series, nil
}
