package game

import "fmt"

// GameLogAction identifies one kind of log entry. The value doubles as the
// log display template; {COUNT} is substituted with the entry's count.
type GameLogAction string

const (
	ActionStartGame    GameLogAction = "Started Game"
	ActionEndGame      GameLogAction = "Ended Game"
	ActionSaveGame     GameLogAction = "Saved Game"
	ActionLoadGame     GameLogAction = "Loaded Game"
	ActionNextTurn     GameLogAction = "Next Turn"
	ActionPause        GameLogAction = "Paused Game"
	ActionUnpause      GameLogAction = "Unpaused Game"
	ActionSelectPlayer GameLogAction = "Selected Player"
	ActionGroupedAct   GameLogAction = "Grouped Action"

	ActionAddActions    GameLogAction = "Added {COUNT} Actions"
	ActionRemoveActions GameLogAction = "Removed {COUNT} Actions"
	ActionAddBuys       GameLogAction = "Added {COUNT} Buys"
	ActionRemoveBuys    GameLogAction = "Removed {COUNT} Buys"
	ActionAddCoins      GameLogAction = "Added {COUNT} Coins"
	ActionRemoveCoins   GameLogAction = "Removed {COUNT} Coins"
	ActionAddCards      GameLogAction = "Added {COUNT} Cards"
	ActionRemoveCards   GameLogAction = "Removed {COUNT} Cards"
	ActionAddGains      GameLogAction = "Added {COUNT} Gains"
	ActionRemoveGains   GameLogAction = "Removed {COUNT} Gains"
	ActionAddDiscard    GameLogAction = "Added {COUNT} Discards"
	ActionRemoveDiscard GameLogAction = "Removed {COUNT} Discards"
	ActionAddPotions    GameLogAction = "Added {COUNT} Potions"
	ActionRemovePotions GameLogAction = "Removed {COUNT} Potions"

	ActionAddCoffers      GameLogAction = "Added {COUNT} Coffers"
	ActionRemoveCoffers   GameLogAction = "Removed {COUNT} Coffers"
	ActionAddVillagers    GameLogAction = "Added {COUNT} Villagers"
	ActionRemoveVillagers GameLogAction = "Removed {COUNT} Villagers"
	ActionAddDebt         GameLogAction = "Added {COUNT} Debt"
	ActionRemoveDebt      GameLogAction = "Removed {COUNT} Debt"
	ActionAddFavors       GameLogAction = "Added {COUNT} Favors"
	ActionRemoveFavors    GameLogAction = "Removed {COUNT} Favors"

	ActionAddCurses       GameLogAction = "Added {COUNT} Curses"
	ActionRemoveCurses    GameLogAction = "Removed {COUNT} Curses"
	ActionAddEstates      GameLogAction = "Added {COUNT} Estates"
	ActionRemoveEstates   GameLogAction = "Removed {COUNT} Estates"
	ActionAddDuchies      GameLogAction = "Added {COUNT} Duchies"
	ActionRemoveDuchies   GameLogAction = "Removed {COUNT} Duchies"
	ActionAddProvinces    GameLogAction = "Added {COUNT} Provinces"
	ActionRemoveProvinces GameLogAction = "Removed {COUNT} Provinces"
	ActionAddColonies     GameLogAction = "Added {COUNT} Colonies"
	ActionRemoveColonies  GameLogAction = "Removed {COUNT} Colonies"
	ActionAddVPTokens     GameLogAction = "Added {COUNT} VP Tokens"
	ActionRemoveVPTokens  GameLogAction = "Removed {COUNT} VP Tokens"
	ActionAddOtherVP      GameLogAction = "Added {COUNT} Other VP"
	ActionRemoveOtherVP   GameLogAction = "Removed {COUNT} Other VP"

	ActionAddProphecy    GameLogAction = "Added {COUNT} Prophecy Suns"
	ActionRemoveProphecy GameLogAction = "Removed {COUNT} Prophecy Suns"

	ActionAddNextTurnActions    GameLogAction = "Added {COUNT} Next Turn Actions"
	ActionRemoveNextTurnActions GameLogAction = "Removed {COUNT} Next Turn Actions"
	ActionAddNextTurnBuys       GameLogAction = "Added {COUNT} Next Turn Buys"
	ActionRemoveNextTurnBuys    GameLogAction = "Removed {COUNT} Next Turn Buys"
	ActionAddNextTurnCoins      GameLogAction = "Added {COUNT} Next Turn Coins"
	ActionRemoveNextTurnCoins   GameLogAction = "Removed {COUNT} Next Turn Coins"
	ActionAddNextTurnCards      GameLogAction = "Added {COUNT} Next Turn Cards"
	ActionRemoveNextTurnCards   GameLogAction = "Removed {COUNT} Next Turn Cards"
	ActionAddNextTurnDiscard    GameLogAction = "Added {COUNT} Next Turn Discards"
	ActionRemoveNextTurnDiscard GameLogAction = "Removed {COUNT} Next Turn Discards"
	ActionAddNextTurnPotions    GameLogAction = "Added {COUNT} Next Turn Potions"
	ActionRemoveNextTurnPotions GameLogAction = "Removed {COUNT} Next Turn Potions"
)

// Field identifies the player (or game-wide) counter group an action mutates.
type Field int

const (
	FieldTurn Field = iota
	FieldMats
	FieldVictory
	FieldNewTurn
	FieldProphecy
)

var fieldNames = map[Field]string{
	FieldTurn:     "turn",
	FieldMats:     "mats",
	FieldVictory:  "victory",
	FieldNewTurn:  "newTurn",
	FieldProphecy: "prophecy",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("FIELD_%d", int(f))
}

// Subfield identifies the individual counter inside a Field.
type Subfield int

const (
	SubfieldActions Subfield = iota
	SubfieldBuys
	SubfieldCoins
	SubfieldCards
	SubfieldGains
	SubfieldDiscard
	SubfieldPotions
	SubfieldCoffers
	SubfieldVillagers
	SubfieldDebt
	SubfieldFavors
	SubfieldCurses
	SubfieldEstates
	SubfieldDuchies
	SubfieldProvinces
	SubfieldColonies
	SubfieldTokens
	SubfieldOther
	SubfieldSuns
)

var subfieldNames = map[Subfield]string{
	SubfieldActions:   "actions",
	SubfieldBuys:      "buys",
	SubfieldCoins:     "coins",
	SubfieldCards:     "cards",
	SubfieldGains:     "gains",
	SubfieldDiscard:   "discard",
	SubfieldPotions:   "potions",
	SubfieldCoffers:   "coffers",
	SubfieldVillagers: "villagers",
	SubfieldDebt:      "debt",
	SubfieldFavors:    "favors",
	SubfieldCurses:    "curses",
	SubfieldEstates:   "estates",
	SubfieldDuchies:   "duchies",
	SubfieldProvinces: "provinces",
	SubfieldColonies:  "colonies",
	SubfieldTokens:    "tokens",
	SubfieldOther:     "other",
	SubfieldSuns:      "suns",
}

func (s Subfield) String() string {
	if name, ok := subfieldNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SUBFIELD_%d", int(s))
}

// actionTarget describes where an adjustment action lands and with which sign.
type actionTarget struct {
	field    Field
	subfield Subfield
	sign     int
}

// actionTargetFor resolves an adjustment action to its (field, subfield, sign)
// triple. The switch is the single source of truth for the dispatch table;
// non-adjustment actions (and unknown strings) report ok=false.
func actionTargetFor(action GameLogAction) (actionTarget, bool) {
	switch action {
	case ActionAddActions:
		return actionTarget{FieldTurn, SubfieldActions, 1}, true
	case ActionRemoveActions:
		return actionTarget{FieldTurn, SubfieldActions, -1}, true
	case ActionAddBuys:
		return actionTarget{FieldTurn, SubfieldBuys, 1}, true
	case ActionRemoveBuys:
		return actionTarget{FieldTurn, SubfieldBuys, -1}, true
	case ActionAddCoins:
		return actionTarget{FieldTurn, SubfieldCoins, 1}, true
	case ActionRemoveCoins:
		return actionTarget{FieldTurn, SubfieldCoins, -1}, true
	case ActionAddCards:
		return actionTarget{FieldTurn, SubfieldCards, 1}, true
	case ActionRemoveCards:
		return actionTarget{FieldTurn, SubfieldCards, -1}, true
	case ActionAddGains:
		return actionTarget{FieldTurn, SubfieldGains, 1}, true
	case ActionRemoveGains:
		return actionTarget{FieldTurn, SubfieldGains, -1}, true
	case ActionAddDiscard:
		return actionTarget{FieldTurn, SubfieldDiscard, 1}, true
	case ActionRemoveDiscard:
		return actionTarget{FieldTurn, SubfieldDiscard, -1}, true
	case ActionAddPotions:
		return actionTarget{FieldTurn, SubfieldPotions, 1}, true
	case ActionRemovePotions:
		return actionTarget{FieldTurn, SubfieldPotions, -1}, true
	case ActionAddCoffers:
		return actionTarget{FieldMats, SubfieldCoffers, 1}, true
	case ActionRemoveCoffers:
		return actionTarget{FieldMats, SubfieldCoffers, -1}, true
	case ActionAddVillagers:
		return actionTarget{FieldMats, SubfieldVillagers, 1}, true
	case ActionRemoveVillagers:
		return actionTarget{FieldMats, SubfieldVillagers, -1}, true
	case ActionAddDebt:
		return actionTarget{FieldMats, SubfieldDebt, 1}, true
	case ActionRemoveDebt:
		return actionTarget{FieldMats, SubfieldDebt, -1}, true
	case ActionAddFavors:
		return actionTarget{FieldMats, SubfieldFavors, 1}, true
	case ActionRemoveFavors:
		return actionTarget{FieldMats, SubfieldFavors, -1}, true
	case ActionAddCurses:
		return actionTarget{FieldVictory, SubfieldCurses, 1}, true
	case ActionRemoveCurses:
		return actionTarget{FieldVictory, SubfieldCurses, -1}, true
	case ActionAddEstates:
		return actionTarget{FieldVictory, SubfieldEstates, 1}, true
	case ActionRemoveEstates:
		return actionTarget{FieldVictory, SubfieldEstates, -1}, true
	case ActionAddDuchies:
		return actionTarget{FieldVictory, SubfieldDuchies, 1}, true
	case ActionRemoveDuchies:
		return actionTarget{FieldVictory, SubfieldDuchies, -1}, true
	case ActionAddProvinces:
		return actionTarget{FieldVictory, SubfieldProvinces, 1}, true
	case ActionRemoveProvinces:
		return actionTarget{FieldVictory, SubfieldProvinces, -1}, true
	case ActionAddColonies:
		return actionTarget{FieldVictory, SubfieldColonies, 1}, true
	case ActionRemoveColonies:
		return actionTarget{FieldVictory, SubfieldColonies, -1}, true
	case ActionAddVPTokens:
		return actionTarget{FieldVictory, SubfieldTokens, 1}, true
	case ActionRemoveVPTokens:
		return actionTarget{FieldVictory, SubfieldTokens, -1}, true
	case ActionAddOtherVP:
		return actionTarget{FieldVictory, SubfieldOther, 1}, true
	case ActionRemoveOtherVP:
		return actionTarget{FieldVictory, SubfieldOther, -1}, true
	case ActionAddProphecy:
		return actionTarget{FieldProphecy, SubfieldSuns, 1}, true
	case ActionRemoveProphecy:
		return actionTarget{FieldProphecy, SubfieldSuns, -1}, true
	case ActionAddNextTurnActions:
		return actionTarget{FieldNewTurn, SubfieldActions, 1}, true
	case ActionRemoveNextTurnActions:
		return actionTarget{FieldNewTurn, SubfieldActions, -1}, true
	case ActionAddNextTurnBuys:
		return actionTarget{FieldNewTurn, SubfieldBuys, 1}, true
	case ActionRemoveNextTurnBuys:
		return actionTarget{FieldNewTurn, SubfieldBuys, -1}, true
	case ActionAddNextTurnCoins:
		return actionTarget{FieldNewTurn, SubfieldCoins, 1}, true
	case ActionRemoveNextTurnCoins:
		return actionTarget{FieldNewTurn, SubfieldCoins, -1}, true
	case ActionAddNextTurnCards:
		return actionTarget{FieldNewTurn, SubfieldCards, 1}, true
	case ActionRemoveNextTurnCards:
		return actionTarget{FieldNewTurn, SubfieldCards, -1}, true
	case ActionAddNextTurnDiscard:
		return actionTarget{FieldNewTurn, SubfieldDiscard, 1}, true
	case ActionRemoveNextTurnDiscard:
		return actionTarget{FieldNewTurn, SubfieldDiscard, -1}, true
	case ActionAddNextTurnPotions:
		return actionTarget{FieldNewTurn, SubfieldPotions, 1}, true
	case ActionRemoveNextTurnPotions:
		return actionTarget{FieldNewTurn, SubfieldPotions, -1}, true
	}
	return actionTarget{}, false
}

// ActionForField is the inverse of actionTargetFor: it maps a field/subfield
// pair and a signed increment back to the matching adjustment action.
func ActionForField(field Field, subfield Subfield, increment int) (GameLogAction, error) {
	for _, action := range allActions {
		target, ok := actionTargetFor(action)
		if !ok {
			continue
		}
		if target.field != field || target.subfield != subfield {
			continue
		}
		if (increment > 0) == (target.sign > 0) {
			return action, nil
		}
	}
	return "", &InvalidFieldError{Field: field, Subfield: subfield}
}

// allActions lists every known action kind, administrative kinds first.
var allActions = []GameLogAction{
	ActionStartGame, ActionEndGame, ActionSaveGame, ActionLoadGame,
	ActionNextTurn, ActionPause, ActionUnpause, ActionSelectPlayer,
	ActionGroupedAct,
	ActionAddActions, ActionRemoveActions,
	ActionAddBuys, ActionRemoveBuys,
	ActionAddCoins, ActionRemoveCoins,
	ActionAddCards, ActionRemoveCards,
	ActionAddGains, ActionRemoveGains,
	ActionAddDiscard, ActionRemoveDiscard,
	ActionAddPotions, ActionRemovePotions,
	ActionAddCoffers, ActionRemoveCoffers,
	ActionAddVillagers, ActionRemoveVillagers,
	ActionAddDebt, ActionRemoveDebt,
	ActionAddFavors, ActionRemoveFavors,
	ActionAddCurses, ActionRemoveCurses,
	ActionAddEstates, ActionRemoveEstates,
	ActionAddDuchies, ActionRemoveDuchies,
	ActionAddProvinces, ActionRemoveProvinces,
	ActionAddColonies, ActionRemoveColonies,
	ActionAddVPTokens, ActionRemoveVPTokens,
	ActionAddOtherVP, ActionRemoveOtherVP,
	ActionAddProphecy, ActionRemoveProphecy,
	ActionAddNextTurnActions, ActionRemoveNextTurnActions,
	ActionAddNextTurnBuys, ActionRemoveNextTurnBuys,
	ActionAddNextTurnCoins, ActionRemoveNextTurnCoins,
	ActionAddNextTurnCards, ActionRemoveNextTurnCards,
	ActionAddNextTurnDiscard, ActionRemoveNextTurnDiscard,
	ActionAddNextTurnPotions, ActionRemoveNextTurnPotions,
}

var validActions = actionSet(allActions...)

// IsValid reports whether the action is one of the known kinds.
func (a GameLogAction) IsValid() bool {
	return validActions[a]
}

func actionSet(actions ...GameLogAction) map[GameLogAction]bool {
	set := make(map[GameLogAction]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}
	return set
}

// noPlayerActions never carry a player index.
var noPlayerActions = actionSet(
	ActionEndGame, ActionSaveGame, ActionLoadGame, ActionPause, ActionUnpause,
)

// adjustmentActions require a positive count.
var adjustmentActions = func() map[GameLogAction]bool {
	set := make(map[GameLogAction]bool)
	for _, a := range allActions {
		if _, ok := actionTargetFor(a); ok {
			set[a] = true
		}
	}
	return set
}()

// actionsWithPlayer require a valid player index.
var actionsWithPlayer = func() map[GameLogAction]bool {
	set := make(map[GameLogAction]bool)
	for a := range adjustmentActions {
		set[a] = true
	}
	set[ActionStartGame] = true
	set[ActionNextTurn] = true
	set[ActionSelectPlayer] = true
	return set
}()

// actionsWithOnlyLastActionUndo may be undone only while they are the most
// recent entry in the log.
var actionsWithOnlyLastActionUndo = actionSet(ActionSelectPlayer, ActionNextTurn)

// noUndoActions can never be undone.
var noUndoActions = actionSet(
	ActionStartGame, ActionEndGame, ActionSaveGame, ActionLoadGame,
	ActionPause, ActionUnpause,
)

// IsNegativeAdjustment reports whether the action removes from its counter.
func (a GameLogAction) IsNegativeAdjustment() bool {
	target, ok := actionTargetFor(a)
	return ok && target.sign < 0
}

// futureActionStrings holds the future-tense templates used when describing
// deferred actions that have not been applied yet.
var futureActionStrings = map[GameLogAction]string{
	ActionAddActions:            "Will Add {COUNT} Actions",
	ActionRemoveActions:         "Will Remove {COUNT} Actions",
	ActionAddBuys:               "Will Add {COUNT} Buys",
	ActionRemoveBuys:            "Will Remove {COUNT} Buys",
	ActionAddCoins:              "Will Add {COUNT} Coins",
	ActionRemoveCoins:           "Will Remove {COUNT} Coins",
	ActionAddCards:              "Will Add {COUNT} Cards",
	ActionRemoveCards:           "Will Remove {COUNT} Cards",
	ActionAddGains:              "Will Add {COUNT} Gains",
	ActionRemoveGains:           "Will Remove {COUNT} Gains",
	ActionAddDiscard:            "Will Add {COUNT} Discards",
	ActionRemoveDiscard:         "Will Remove {COUNT} Discards",
	ActionAddPotions:            "Will Add {COUNT} Potions",
	ActionRemovePotions:         "Will Remove {COUNT} Potions",
	ActionAddCoffers:            "Will Add {COUNT} Coffers",
	ActionRemoveCoffers:         "Will Remove {COUNT} Coffers",
	ActionAddVillagers:          "Will Add {COUNT} Villagers",
	ActionRemoveVillagers:       "Will Remove {COUNT} Villagers",
	ActionAddDebt:               "Will Add {COUNT} Debt",
	ActionRemoveDebt:            "Will Remove {COUNT} Debt",
	ActionAddFavors:             "Will Add {COUNT} Favors",
	ActionRemoveFavors:          "Will Remove {COUNT} Favors",
	ActionAddCurses:             "Will Add {COUNT} Curses",
	ActionRemoveCurses:          "Will Remove {COUNT} Curses",
	ActionAddEstates:            "Will Add {COUNT} Estates",
	ActionRemoveEstates:         "Will Remove {COUNT} Estates",
	ActionAddDuchies:            "Will Add {COUNT} Duchies",
	ActionRemoveDuchies:         "Will Remove {COUNT} Duchies",
	ActionAddProvinces:          "Will Add {COUNT} Provinces",
	ActionRemoveProvinces:       "Will Remove {COUNT} Provinces",
	ActionAddColonies:           "Will Add {COUNT} Colonies",
	ActionRemoveColonies:        "Will Remove {COUNT} Colonies",
	ActionAddVPTokens:           "Will Add {COUNT} VP Tokens",
	ActionRemoveVPTokens:        "Will Remove {COUNT} VP Tokens",
	ActionAddOtherVP:            "Will Add {COUNT} Other VP",
	ActionRemoveOtherVP:         "Will Remove {COUNT} Other VP",
	ActionAddProphecy:           "Will Add {COUNT} Prophecy Suns",
	ActionRemoveProphecy:        "Will Remove {COUNT} Prophecy Suns",
	ActionAddNextTurnActions:    "Will Add {COUNT} Next Turn Actions",
	ActionRemoveNextTurnActions: "Will Remove {COUNT} Next Turn Actions",
	ActionAddNextTurnBuys:       "Will Add {COUNT} Next Turn Buys",
	ActionRemoveNextTurnBuys:    "Will Remove {COUNT} Next Turn Buys",
	ActionAddNextTurnCoins:      "Will Add {COUNT} Next Turn Coins",
	ActionRemoveNextTurnCoins:   "Will Remove {COUNT} Next Turn Coins",
	ActionAddNextTurnCards:      "Will Add {COUNT} Next Turn Cards",
	ActionRemoveNextTurnCards:   "Will Remove {COUNT} Next Turn Cards",
	ActionAddNextTurnDiscard:    "Will Add {COUNT} Next Turn Discards",
	ActionRemoveNextTurnDiscard: "Will Remove {COUNT} Next Turn Discards",
	ActionAddNextTurnPotions:    "Will Add {COUNT} Next Turn Potions",
	ActionRemoveNextTurnPotions: "Will Remove {COUNT} Next Turn Potions",
}
