package game

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UndoController removes past entries from the log, validating with a
// dry-run replay before committing. Both phases re-derive from scratch: the
// dry run never touches the live state, and the commit never trusts a stale
// validation result.
type UndoController struct {
	logger *zap.Logger
}

// NewUndoController creates an undo controller. The logger receives only
// unexpected reconstruction failures; expected invariant violations are the
// normal "not undoable" outcome.
func NewUndoController(logger *zap.Logger) *UndoController {
	return &UndoController{logger: logger}
}

// CanUndoAction reports whether the entry at index (and its linked group)
// can be removed while keeping the remaining log replayable.
func (u *UndoController) CanUndoAction(g Game, index int) bool {
	if !u.checkUndoShape(g, index) {
		return false
	}
	candidate := removeTargetAndLinkedActions(g.Log, index)
	if _, err := ReconstructGameState(g.Setup, candidate); err != nil {
		u.reportUndoFailure(g, index, err)
		return false
	}
	return true
}

// UndoAction removes the entry at index and its linked group, replays the
// remaining log, and returns the re-derived state. On any failure the
// original state is returned unchanged with ok=false.
func (u *UndoController) UndoAction(g Game, index int) (Game, bool) {
	if !u.checkUndoShape(g, index) {
		return g, false
	}
	candidate := removeTargetAndLinkedActions(g.Log, index)
	rebuilt, err := ReconstructGameState(g.Setup, candidate)
	if err != nil {
		u.reportUndoFailure(g, index, err)
		return g, false
	}

	// Deferred triggers whose group survived the removal are carried over;
	// triggers belonging to the undone group vanish with it.
	surviving := make(map[uuid.UUID]bool, len(candidate))
	for _, e := range candidate {
		surviving[e.MasterID()] = true
	}
	for _, pending := range g.PendingGroupedActions {
		if surviving[pending.LinkedActionID] {
			rebuilt.PendingGroupedActions = append(rebuilt.PendingGroupedActions, pending)
		}
	}
	return rebuilt, true
}

// checkUndoShape covers the rejections that need no replay: bounds, the
// non-undoable kinds, last-entry-only kinds, and dangling links.
func (u *UndoController) checkUndoShape(g Game, index int) bool {
	if index < 0 || index >= len(g.Log) {
		return false
	}
	entry := g.Log[index]
	if noUndoActions[entry.Action] {
		return false
	}
	if actionsWithOnlyLastActionUndo[entry.Action] && index != len(g.Log)-1 {
		return false
	}
	if entry.IsLinked() {
		found := false
		for _, e := range g.Log {
			if e.ID == entry.LinkedActionID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// reportUndoFailure logs unexpected replay errors; invariant violations are
// expected and stay quiet.
func (u *UndoController) reportUndoFailure(g Game, index int, err error) {
	if isExpectedUndoError(err) {
		return
	}
	if u.logger == nil {
		return
	}
	u.logger.Error("unexpected error during undo validation",
		zap.String("game_id", g.ID.String()),
		zap.Int("log_index", index),
		zap.Error(err),
	)
}

func isExpectedUndoError(err error) bool {
	var supplyErr *NotEnoughSupplyError
	var subfieldErr *NotEnoughSubfieldError
	var prophecyErr *NotEnoughProphecyError
	return errors.As(err, &supplyErr) ||
		errors.As(err, &subfieldErr) ||
		errors.As(err, &prophecyErr)
}
