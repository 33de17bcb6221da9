package game

// TurnAdjustment is one counter change made during a turn, in resolved form.
type TurnAdjustment struct {
	PlayerIndex int      `json:"playerIndex"`
	Field       Field    `json:"field"`
	Subfield    Subfield `json:"subfield"`
	Increment   int      `json:"increment"`
}

// TurnAdjustments lists every adjustment logged during the given turn,
// in log order.
func TurnAdjustments(g Game, turn int) []TurnAdjustment {
	var out []TurnAdjustment
	for _, e := range g.Log {
		if e.Turn != turn {
			continue
		}
		target, ok := actionTargetFor(e.Action)
		if !ok || target.field == FieldProphecy {
			continue
		}
		out = append(out, TurnAdjustment{
			PlayerIndex: e.PlayerIndex,
			Field:       target.field,
			Subfield:    target.subfield,
			Increment:   SignedCount(e),
		})
	}
	return out
}

// GroupTurnAdjustments nets adjustments sharing a field/subfield and drops
// the ones that cancel out, preserving first-seen order.
func GroupTurnAdjustments(adjustments []TurnAdjustment) []TurnAdjustment {
	type key struct {
		field    Field
		subfield Subfield
	}
	totals := make(map[key]int)
	var order []key
	for _, a := range adjustments {
		k := key{a.Field, a.Subfield}
		if _, seen := totals[k]; !seen {
			order = append(order, k)
		}
		totals[k] += a.Increment
	}
	var out []TurnAdjustment
	for _, k := range order {
		if totals[k] == 0 {
			continue
		}
		out = append(out, TurnAdjustment{
			PlayerIndex: NoPlayer,
			Field:       k.field,
			Subfield:    k.subfield,
			Increment:   totals[k],
		})
	}
	return out
}

// GroupTurnAdjustmentsByPlayer nets each player's adjustments separately.
func GroupTurnAdjustmentsByPlayer(adjustments []TurnAdjustment) map[int][]TurnAdjustment {
	byPlayer := make(map[int][]TurnAdjustment)
	for _, a := range adjustments {
		byPlayer[a.PlayerIndex] = append(byPlayer[a.PlayerIndex], a)
	}
	out := make(map[int][]TurnAdjustment, len(byPlayer))
	for player, list := range byPlayer {
		grouped := GroupTurnAdjustments(list)
		for i := range grouped {
			grouped[i].PlayerIndex = player
		}
		out[player] = grouped
	}
	return out
}
