package game

// validateLogAction checks an entry against the current state before any
// mutation. Every failure here leaves the caller's state untouched.
func validateLogAction(g Game, entry LogEntry) error {
	action := entry.Action
	if !action.IsValid() {
		return &InvalidActionError{Action: action}
	}
	if n := len(g.Log); n > 0 && g.Log[n-1].Action == ActionPause && action != ActionUnpause {
		return ErrGamePaused
	}

	if noPlayerActions[action] {
		if entry.PlayerIndex != NoPlayer {
			return &InvalidPlayerIndexError{PlayerIndex: entry.PlayerIndex, Action: action}
		}
	} else if actionsWithPlayer[action] {
		if !g.ValidPlayerIndex(entry.PlayerIndex) {
			return &InvalidPlayerIndexError{PlayerIndex: entry.PlayerIndex, Action: action}
		}
	} else if entry.PlayerIndex != NoPlayer && !g.ValidPlayerIndex(entry.PlayerIndex) {
		return &InvalidPlayerIndexError{PlayerIndex: entry.PlayerIndex, Action: action}
	}

	if adjustmentActions[action] && entry.Count <= 0 {
		return &CountRequiredError{Action: action}
	}

	if entry.Trash && !trashableActions[action] {
		return &InvalidTrashActionError{Action: action}
	}
	return nil
}

// trashableActions are the only kinds that may carry the trash flag: removing
// a victory card the player already holds.
var trashableActions = actionSet(
	ActionRemoveCurses, ActionRemoveEstates, ActionRemoveDuchies,
	ActionRemoveProvinces, ActionRemoveColonies,
)

// ApplyLogAction is the pure transition function of the engine: it validates
// the entry, then returns a new state with the entry appended to the log and
// its effect applied. On any error the input state is returned unchanged.
func ApplyLogAction(g Game, entry LogEntry) (Game, error) {
	if err := validateLogAction(g, entry); err != nil {
		return g, err
	}

	out := g.Copy()
	out.Log = append(out.Log, entry)

	switch entry.Action {
	case ActionStartGame:
		out.Status = StatusInProgress
		out.CurrentTurn = 1
		out.CurrentPlayerIndex = entry.PlayerIndex
		out.SelectedPlayerIndex = entry.PlayerIndex
		out.FirstPlayerIndex = entry.PlayerIndex

	case ActionNextTurn:
		// Snapshot the finishing turn from the pre-advance state so the
		// statistics reflect the completed turn, not the reset counters.
		out.TurnStatisticsCache = append(out.TurnStatisticsCache, snapshotTurnStatistics(g, entry))
		out.CurrentTurn = g.CurrentTurn + 1
		out.CurrentPlayerIndex = entry.PlayerIndex
		out.SelectedPlayerIndex = entry.PlayerIndex
		for i := range out.Players {
			out.Players[i].Turn = out.Players[i].NewTurn
		}

	case ActionEndGame:
		out.TurnStatisticsCache = append(out.TurnStatisticsCache, snapshotTurnStatistics(g, entry))
		out.Status = StatusEnded

	case ActionSelectPlayer:
		out.SelectedPlayerIndex = entry.PlayerIndex

	case ActionPause:
		out.Status = StatusPaused

	case ActionUnpause:
		out.Status = StatusInProgress

	case ActionSaveGame, ActionLoadGame:
		// Clock bookkeeping only; the entries bound stopped-clock windows.

	case ActionGroupedAct:
		// Marker entry: the linked child entries carry the real effects.

	default:
		target, ok := actionTargetFor(entry.Action)
		if !ok {
			return g, &InvalidActionError{Action: entry.Action}
		}
		delta := target.sign * entry.Count
		if target.field == FieldProphecy {
			suns := out.RisingSun.Prophecy.Suns + delta
			if suns < 0 {
				return g, &NotEnoughProphecyError{}
			}
			out.RisingSun.Prophecy.Suns = suns
			break
		}
		if err := updatePlayerField(&out, entry.PlayerIndex, target.field, target.subfield, delta, entry.Trash); err != nil {
			return g, err
		}
	}
	return out, nil
}

// updatePlayerField applies a signed delta to one player counter, keeping the
// supply pile in sync for victory-card gains and returns. A trash removal
// skips the supply leg entirely.
func updatePlayerField(g *Game, playerIndex int, field Field, subfield Subfield, delta int, trash bool) error {
	p := &g.Players[playerIndex]
	value, err := counterValue(p, field, subfield)
	if err != nil {
		return err
	}
	if value+delta < 0 {
		return &NotEnoughSubfieldError{Field: field, Subfield: subfield}
	}

	if field == FieldVictory && !trash {
		if pile := supplyPile(&g.Supply, subfield); pile != nil {
			if *pile == NotPresent {
				return &NotEnoughSupplyError{Pile: subfield}
			}
			if *pile-delta < 0 {
				return &NotEnoughSupplyError{Pile: subfield}
			}
			*pile -= delta
		}
	}
	return setCounterValue(p, field, subfield, value+delta)
}

// SignedCount returns the entry's count with the action's sign applied, or
// zero for non-adjustment kinds.
func SignedCount(entry LogEntry) int {
	target, ok := actionTargetFor(entry.Action)
	if !ok {
		return 0
	}
	return target.sign * entry.Count
}
