package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GroupedActionDest selects which players a recipe's sub-actions target.
type GroupedActionDest string

const (
	DestCurrentPlayer            GroupedActionDest = "Current Player"
	DestSelectedPlayer           GroupedActionDest = "Selected Player"
	DestAllPlayers               GroupedActionDest = "All Players"
	DestAllPlayersExceptCurrent  GroupedActionDest = "All Players Except Current"
	DestAllPlayersExceptSelected GroupedActionDest = "All Players Except Selected"
)

// destOrder fixes the iteration order over a recipe's destination map so a
// group always materializes its entries in the same sequence.
var destOrder = []GroupedActionDest{
	DestCurrentPlayer,
	DestSelectedPlayer,
	DestAllPlayers,
	DestAllPlayersExceptCurrent,
	DestAllPlayersExceptSelected,
}

// GroupedActionTrigger names a point at which deferred sub-actions fire.
type GroupedActionTrigger string

// TriggerAfterNextTurnBegins fires when the targeted player next becomes the
// current player.
const TriggerAfterNextTurnBegins GroupedActionTrigger = "After Next Turn Begins"

// CountKind discriminates the closed count-expression form.
type CountKind string

const (
	// CountNone means the sub-action applies with a count of one.
	CountNone CountKind = ""
	// CountFixed uses a literal count.
	CountFixed CountKind = "fixed"
	// CountField reads the current value of a field/subfield on the target
	// player when the sub-action materializes.
	CountField CountKind = "field"
)

// CountSpec is a serializable count expression. Recipes and deferred
// triggers persist these instead of closures so a stored log replays
// deterministically.
type CountSpec struct {
	Kind     CountKind `json:"kind,omitempty"`
	Value    int       `json:"value,omitempty"`
	Field    Field     `json:"field,omitempty"`
	Subfield Subfield  `json:"subfield,omitempty"`
}

// FixedCount builds a literal count expression.
func FixedCount(n int) CountSpec {
	return CountSpec{Kind: CountFixed, Value: n}
}

// FieldCount builds a count expression that reads a player counter at
// materialization time.
func FieldCount(field Field, subfield Subfield) CountSpec {
	return CountSpec{Kind: CountField, Field: field, Subfield: subfield}
}

// Evaluate resolves the expression against the given state and player.
func (c CountSpec) Evaluate(g Game, playerIndex int) (int, error) {
	switch c.Kind {
	case CountNone:
		return 1, nil
	case CountFixed:
		return c.Value, nil
	case CountField:
		if !g.ValidPlayerIndex(playerIndex) {
			return 0, &InvalidPlayerIndexError{PlayerIndex: playerIndex}
		}
		return counterValue(&g.Players[playerIndex], c.Field, c.Subfield)
	}
	return 0, fmt.Errorf("unknown count kind %q", string(c.Kind))
}

// SubAction is one partial entry inside a recipe.
type SubAction struct {
	Action GameLogAction `json:"action"`
	Count  CountSpec     `json:"count,omitempty"`
}

// GroupedAction is a recipe: a named bundle of sub-actions per destination,
// plus optional deferred triggers.
type GroupedAction struct {
	Name     string                                                     `json:"name"`
	Actions  map[GroupedActionDest][]SubAction                          `json:"actions"`
	Triggers map[GroupedActionTrigger]map[GroupedActionDest][]SubAction `json:"triggers,omitempty"`
}

// RecipeCatalog looks recipes up by key. The catalog is the source of truth
// for a recipe's display name.
type RecipeCatalog interface {
	Recipe(key string) (GroupedAction, bool)
	Keys() []string
}

// PendingAction is a deferred sub-action waiting for its activation turn.
type PendingAction struct {
	Action         GameLogAction `json:"action"`
	PlayerIndex    int           `json:"playerIndex"`
	Count          CountSpec     `json:"count,omitempty"`
	ActivationTurn int           `json:"activationTurn"`
	LinkedActionID uuid.UUID     `json:"linkedActionId"`
	ActionName     string        `json:"actionName,omitempty"`
	ActionKey      string        `json:"actionKey,omitempty"`
}

// resolveDest expands a destination selector into concrete player indices
// against the given state. Selectors resolve once per group.
func resolveDest(g Game, dest GroupedActionDest) ([]int, error) {
	var players []int
	switch dest {
	case DestCurrentPlayer:
		players = []int{g.CurrentPlayerIndex}
	case DestSelectedPlayer:
		players = []int{g.SelectedPlayerIndex}
	case DestAllPlayers:
		for i := range g.Players {
			players = append(players, i)
		}
	case DestAllPlayersExceptCurrent:
		for i := range g.Players {
			if i != g.CurrentPlayerIndex {
				players = append(players, i)
			}
		}
	case DestAllPlayersExceptSelected:
		for i := range g.Players {
			if i != g.SelectedPlayerIndex {
				players = append(players, i)
			}
		}
	default:
		return nil, fmt.Errorf("unknown grouped action destination %q", string(dest))
	}
	for _, p := range players {
		if !g.ValidPlayerIndex(p) {
			return nil, &InvalidPlayerIndexError{PlayerIndex: p}
		}
	}
	return players, nil
}

// ApplyGroupedAction expands the catalog recipe under key into a marker
// entry plus linked child entries, applies them atomically, and schedules
// the recipe's deferred triggers. On any failure the input state is returned
// unchanged; nothing is committed partially.
func ApplyGroupedAction(g Game, catalog RecipeCatalog, key string, now time.Time) (Game, error) {
	recipe, ok := catalog.Recipe(key)
	if !ok {
		return g, fmt.Errorf("unknown grouped action %q", key)
	}

	next, marker, err := AddLogEntry(g, g.SelectedPlayerIndex, ActionGroupedAct, now,
		WithActionName(recipe.Name, key))
	if err != nil {
		return g, err
	}
	groupID := marker.ID

	// Selectors are resolved once, against the state the group started from.
	resolved := make(map[GroupedActionDest][]int)
	for _, dest := range destOrder {
		if _, used := recipe.Actions[dest]; !used {
			if !triggerUsesDest(recipe, dest) {
				continue
			}
		}
		players, err := resolveDest(g, dest)
		if err != nil {
			return g, err
		}
		resolved[dest] = players
	}

	for _, dest := range destOrder {
		subs := recipe.Actions[dest]
		for _, playerIndex := range resolved[dest] {
			for _, sub := range subs {
				count, err := sub.Count.Evaluate(next, playerIndex)
				if err != nil {
					return g, err
				}
				next, _, err = AddLogEntry(next, playerIndex, sub.Action, now,
					WithCount(count), WithLinkedAction(groupID))
				if err != nil {
					return g, err
				}
				next, err = applyGreatLeaderBonus(next, playerIndex, sub.Action, groupID, now)
				if err != nil {
					return g, err
				}
			}
		}
	}

	next, err = prepareGroupedActionTriggers(next, recipe, key, groupID, resolved)
	if err != nil {
		return g, err
	}
	return next, nil
}

func triggerUsesDest(recipe GroupedAction, dest GroupedActionDest) bool {
	for _, dests := range recipe.Triggers {
		if _, ok := dests[dest]; ok {
			return true
		}
	}
	return false
}

// applyGreatLeaderBonus implements the Rising Sun Great Leader prophecy: a
// sub-action that spends a player's last remaining action grants one back
// when the prophecy is active and no sun tokens remain.
func applyGreatLeaderBonus(g Game, playerIndex int, action GameLogAction, groupID uuid.UUID, now time.Time) (Game, error) {
	if action != ActionRemoveActions {
		return g, nil
	}
	if !g.RisingSun.GreatLeaderProphecy || g.RisingSun.Prophecy.Suns != 0 {
		return g, nil
	}
	if g.Players[playerIndex].Turn.Actions != 0 {
		return g, nil
	}
	next, _, err := AddLogEntry(g, playerIndex, ActionAddActions, now,
		WithCount(1), WithLinkedAction(groupID))
	return next, err
}

// prepareGroupedActionTriggers pushes the recipe's deferred sub-actions onto
// the pending queue, each stamped with the turn at which its target player
// next becomes current.
func prepareGroupedActionTriggers(g Game, recipe GroupedAction, key string, groupID uuid.UUID, resolved map[GroupedActionDest][]int) (Game, error) {
	if len(recipe.Triggers) == 0 {
		return g, nil
	}
	for trigger := range recipe.Triggers {
		if trigger != TriggerAfterNextTurnBegins {
			return g, fmt.Errorf("unknown grouped action trigger %q", string(trigger))
		}
	}
	dests := recipe.Triggers[TriggerAfterNextTurnBegins]

	out := g.Copy()
	for _, dest := range destOrder {
		subs := dests[dest]
		for _, playerIndex := range resolved[dest] {
			for _, sub := range subs {
				out.PendingGroupedActions = append(out.PendingGroupedActions, PendingAction{
					Action:         sub.Action,
					PlayerIndex:    playerIndex,
					Count:          sub.Count,
					ActivationTurn: out.PlayerNextTurn(playerIndex),
					LinkedActionID: groupID,
					ActionName:     recipe.Name,
					ActionKey:      key,
				})
			}
		}
	}
	return out, nil
}

// ApplyPendingGroupedActions drains every pending action whose activation
// turn has arrived, materializing and applying it against the post-advance
// state. Called from the live append path after a turn advance.
func ApplyPendingGroupedActions(g Game, now time.Time) (Game, error) {
	if len(g.PendingGroupedActions) == 0 {
		return g, nil
	}
	next := g
	var remaining []PendingAction
	for _, pending := range g.PendingGroupedActions {
		if pending.ActivationTurn != next.CurrentTurn {
			remaining = append(remaining, pending)
			continue
		}
		count, err := pending.Count.Evaluate(next, pending.PlayerIndex)
		if err != nil {
			return g, err
		}
		next, _, err = AddLogEntry(next, pending.PlayerIndex, pending.Action, now,
			WithCount(count), WithLinkedAction(pending.LinkedActionID))
		if err != nil {
			return g, err
		}
	}
	out := next.Copy()
	out.PendingGroupedActions = remaining
	return out, nil
}
