package game

import "time"

// TurnStatistics is the per-turn aggregate captured at each turn boundary.
// Every per-player slice is indexed by player index and reflects the state
// just before the boundary entry reset the counters.
type TurnStatistics struct {
	Turn            int           `json:"turn"`
	PlayerIndex     int           `json:"playerIndex"`
	Start           time.Time     `json:"start"`
	End             time.Time     `json:"end"`
	TurnDuration    time.Duration `json:"turnDuration"`
	PlayerActions   []int         `json:"playerActions"`
	PlayerBuys      []int         `json:"playerBuys"`
	PlayerCoins     []int         `json:"playerCoins"`
	PlayerCards     []int         `json:"playerCards"`
	PlayerGains     []int         `json:"playerGains"`
	PlayerDiscards  []int         `json:"playerDiscards"`
	PlayerPotions   []int         `json:"playerPotions,omitempty"`
	PlayerCoffers   []int         `json:"playerCoffers"`
	PlayerVillagers []int         `json:"playerVillagers"`
	PlayerDebt      []int         `json:"playerDebt"`
	PlayerFavors    []int         `json:"playerFavors"`
	PlayerVPTokens  []int         `json:"playerVpTokens"`
	PlayerScores    []int         `json:"playerScores"`
	Supply          Supply        `json:"supply"`
	ProphecySuns    int           `json:"prophecySuns"`
	CurrentPlayerVP int           `json:"currentPlayerVp"`
}

// Copy returns a deep copy of the snapshot.
func (ts TurnStatistics) Copy() TurnStatistics {
	out := ts
	out.PlayerActions = copyInts(ts.PlayerActions)
	out.PlayerBuys = copyInts(ts.PlayerBuys)
	out.PlayerCoins = copyInts(ts.PlayerCoins)
	out.PlayerCards = copyInts(ts.PlayerCards)
	out.PlayerGains = copyInts(ts.PlayerGains)
	out.PlayerDiscards = copyInts(ts.PlayerDiscards)
	out.PlayerPotions = copyInts(ts.PlayerPotions)
	out.PlayerCoffers = copyInts(ts.PlayerCoffers)
	out.PlayerVillagers = copyInts(ts.PlayerVillagers)
	out.PlayerDebt = copyInts(ts.PlayerDebt)
	out.PlayerFavors = copyInts(ts.PlayerFavors)
	out.PlayerVPTokens = copyInts(ts.PlayerVPTokens)
	out.PlayerScores = copyInts(ts.PlayerScores)
	return out
}

func copyInts(in []int) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	return out
}

// snapshotTurnStatistics captures the finishing turn from the pre-boundary
// state. entry is the NEXT_TURN or END_GAME entry closing the turn.
func snapshotTurnStatistics(g Game, entry LogEntry) TurnStatistics {
	n := len(g.Players)
	ts := TurnStatistics{
		Turn:            g.CurrentTurn,
		PlayerIndex:     g.CurrentPlayerIndex,
		End:             entry.Timestamp,
		PlayerActions:   make([]int, n),
		PlayerBuys:      make([]int, n),
		PlayerCoins:     make([]int, n),
		PlayerCards:     make([]int, n),
		PlayerGains:     make([]int, n),
		PlayerDiscards:  make([]int, n),
		PlayerCoffers:   make([]int, n),
		PlayerVillagers: make([]int, n),
		PlayerDebt:      make([]int, n),
		PlayerFavors:    make([]int, n),
		PlayerVPTokens:  make([]int, n),
		PlayerScores:    make([]int, n),
		Supply:          g.Supply,
		ProphecySuns:    g.RisingSun.Prophecy.Suns,
	}
	if start, ok := TurnStartEntry(g.Log); ok {
		ts.Start = start.Timestamp
		ts.TurnDuration = entry.Timestamp.Sub(start.Timestamp) -
			(CalculatePausedTime(g.Log, entry.Timestamp) - CalculatePausedTime(g.Log, start.Timestamp))
	}
	if g.Options.Expansions.Alchemy {
		ts.PlayerPotions = make([]int, n)
	}
	for i, p := range g.Players {
		ts.PlayerActions[i] = p.Turn.Actions
		ts.PlayerBuys[i] = p.Turn.Buys
		ts.PlayerCoins[i] = p.Turn.Coins
		ts.PlayerCards[i] = p.Turn.Cards
		ts.PlayerGains[i] = p.Turn.Gains
		ts.PlayerDiscards[i] = p.Turn.Discard
		if ts.PlayerPotions != nil {
			ts.PlayerPotions[i] = p.Turn.Potions
		}
		ts.PlayerCoffers[i] = p.Mats.Coffers
		ts.PlayerVillagers[i] = p.Mats.Villagers
		ts.PlayerDebt[i] = p.Mats.Debt
		ts.PlayerFavors[i] = p.Mats.Favors
		ts.PlayerVPTokens[i] = p.Victory.Tokens
		ts.PlayerScores[i] = VictoryPoints(p)
	}
	if g.ValidPlayerIndex(g.CurrentPlayerIndex) {
		ts.CurrentPlayerVP = ts.PlayerScores[g.CurrentPlayerIndex]
	}
	return ts
}
