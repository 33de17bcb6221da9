package game

import "sort"

// Catalog is the built-in recipe lookup, keyed by a stable string id.
type Catalog map[string]GroupedAction

// Recipe returns the recipe stored under key.
func (c Catalog) Recipe(key string) (GroupedAction, bool) {
	recipe, ok := c[key]
	return recipe, ok
}

// Keys lists the catalog's recipe keys in sorted order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DefaultRecipes returns the built-in grouped-action catalog: common card
// plays expressed as counter bundles. Counts use the closed expression form
// so recipes survive a save/load round trip.
func DefaultRecipes() Catalog {
	return Catalog{
		"oneCardOneAction": {
			Name: "One Card, One Action",
			Actions: map[GroupedActionDest][]SubAction{
				DestCurrentPlayer: {
					{Action: ActionAddCards, Count: FixedCount(1)},
					{Action: ActionAddActions, Count: FixedCount(1)},
				},
			},
		},
		"market": {
			Name: "Market",
			Actions: map[GroupedActionDest][]SubAction{
				DestCurrentPlayer: {
					{Action: ActionAddCards, Count: FixedCount(1)},
					{Action: ActionAddActions, Count: FixedCount(1)},
					{Action: ActionAddBuys, Count: FixedCount(1)},
					{Action: ActionAddCoins, Count: FixedCount(1)},
				},
			},
		},
		"festival": {
			Name: "Festival",
			Actions: map[GroupedActionDest][]SubAction{
				DestCurrentPlayer: {
					{Action: ActionAddActions, Count: FixedCount(2)},
					{Action: ActionAddBuys, Count: FixedCount(1)},
					{Action: ActionAddCoins, Count: FixedCount(2)},
				},
			},
		},
		"councilRoom": {
			Name: "Council Room",
			Actions: map[GroupedActionDest][]SubAction{
				DestCurrentPlayer: {
					{Action: ActionAddCards, Count: FixedCount(4)},
					{Action: ActionAddBuys, Count: FixedCount(1)},
				},
				DestAllPlayersExceptCurrent: {
					{Action: ActionAddCards, Count: FixedCount(1)},
				},
			},
		},
		"witch": {
			Name: "Witch",
			Actions: map[GroupedActionDest][]SubAction{
				DestCurrentPlayer: {
					{Action: ActionAddCards, Count: FixedCount(2)},
				},
				DestAllPlayersExceptCurrent: {
					{Action: ActionAddCurses, Count: FixedCount(1)},
				},
			},
		},
		// Draws back whatever was just discarded: the count reads the
		// player's discard counter when the sub-action materializes.
		"cellarDraw": {
			Name: "Cellar Draw",
			Actions: map[GroupedActionDest][]SubAction{
				DestCurrentPlayer: {
					{Action: ActionAddCards, Count: FieldCount(FieldTurn, SubfieldDiscard)},
				},
			},
		},
		"wharf": {
			Name: "Wharf",
			Actions: map[GroupedActionDest][]SubAction{
				DestCurrentPlayer: {
					{Action: ActionAddCards, Count: FixedCount(2)},
					{Action: ActionAddBuys, Count: FixedCount(1)},
				},
			},
			Triggers: map[GroupedActionTrigger]map[GroupedActionDest][]SubAction{
				TriggerAfterNextTurnBegins: {
					DestCurrentPlayer: {
						{Action: ActionAddCards, Count: FixedCount(2)},
						{Action: ActionAddBuys, Count: FixedCount(1)},
					},
				},
			},
		},
	}
}
