package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// isoTimestamp matches the wire format the companion app writes
// (Date.toISOString): UTC with millisecond precision.
const isoTimestamp = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(isoTimestamp)
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &InvalidTimestampError{Value: value}
	}
	return t, nil
}

// LogEntryRaw is the persisted form of a LogEntry: timestamps are ISO-8601
// strings and the game time is milliseconds.
type LogEntryRaw struct {
	ID                 string         `json:"id"`
	Timestamp          string         `json:"timestamp"`
	GameTime           int64          `json:"gameTime"`
	Action             string         `json:"action"`
	PlayerIndex        int            `json:"playerIndex"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Turn               int            `json:"turn"`
	Count              int            `json:"count,omitempty"`
	Correction         bool           `json:"correction,omitempty"`
	Trash              bool           `json:"trash,omitempty"`
	LinkedActionID     string         `json:"linkedActionId,omitempty"`
	ActionName         string         `json:"actionName,omitempty"`
	ActionKey          string         `json:"actionKey,omitempty"`
	PrevPlayerIndex    int            `json:"prevPlayerIndex"`
	PlayerTurnDetails  []TurnCounters `json:"playerTurnDetails,omitempty"`
}

// TurnStatisticsRaw is the persisted form of a TurnStatistics snapshot.
type TurnStatisticsRaw struct {
	Turn            int    `json:"turn"`
	PlayerIndex     int    `json:"playerIndex"`
	Start           string `json:"start"`
	End             string `json:"end"`
	TurnDuration    int64  `json:"turnDuration"`
	PlayerActions   []int  `json:"playerActions"`
	PlayerBuys      []int  `json:"playerBuys"`
	PlayerCoins     []int  `json:"playerCoins"`
	PlayerCards     []int  `json:"playerCards"`
	PlayerGains     []int  `json:"playerGains"`
	PlayerDiscards  []int  `json:"playerDiscards"`
	PlayerPotions   []int  `json:"playerPotions,omitempty"`
	PlayerCoffers   []int  `json:"playerCoffers"`
	PlayerVillagers []int  `json:"playerVillagers"`
	PlayerDebt      []int  `json:"playerDebt"`
	PlayerFavors    []int  `json:"playerFavors"`
	PlayerVPTokens  []int  `json:"playerVpTokens"`
	PlayerScores    []int  `json:"playerScores"`
	Supply          Supply `json:"supply"`
	ProphecySuns    int    `json:"prophecySuns"`
	CurrentPlayerVP int    `json:"currentPlayerVp"`
}

// GameRaw is the persisted form of a full game.
type GameRaw struct {
	ID                    string              `json:"id"`
	Players               []Player            `json:"players"`
	Supply                Supply              `json:"supply"`
	Options               GameOptions         `json:"options"`
	Setup                 GameSetup           `json:"setup"`
	Status                string              `json:"status"`
	CurrentTurn           int                 `json:"currentTurn"`
	CurrentPlayerIndex    int                 `json:"currentPlayerIndex"`
	SelectedPlayerIndex   int                 `json:"selectedPlayerIndex"`
	FirstPlayerIndex      int                 `json:"firstPlayerIndex"`
	Log                   []LogEntryRaw       `json:"log"`
	TurnStatisticsCache   []TurnStatisticsRaw `json:"turnStatisticsCache"`
	PendingGroupedActions []PendingAction     `json:"pendingGroupedActions"`
	RisingSun             RisingSunState      `json:"risingSun"`
	Renaissance           RenaissanceState    `json:"renaissance"`
	Checksum              string              `json:"checksum,omitempty"`
}

// EntryToRaw converts an entry to its wire form.
func EntryToRaw(e LogEntry) LogEntryRaw {
	raw := LogEntryRaw{
		ID:                 e.ID.String(),
		Timestamp:          formatTimestamp(e.Timestamp),
		GameTime:           e.GameTime.Milliseconds(),
		Action:             string(e.Action),
		PlayerIndex:        e.PlayerIndex,
		CurrentPlayerIndex: e.CurrentPlayerIndex,
		Turn:               e.Turn,
		Count:              e.Count,
		Correction:         e.Correction,
		Trash:              e.Trash,
		ActionName:         e.ActionName,
		ActionKey:          e.ActionKey,
		PrevPlayerIndex:    e.PrevPlayerIndex,
		PlayerTurnDetails:  e.PlayerTurnDetails,
	}
	if e.IsLinked() {
		raw.LinkedActionID = e.LinkedActionID.String()
	}
	return raw
}

// EntryFromRaw parses a wire entry. A malformed timestamp is rejected, never
// coerced.
func EntryFromRaw(raw LogEntryRaw) (LogEntry, error) {
	id, err := uuid.Parse(raw.ID)
	if err != nil {
		return LogEntry{}, fmt.Errorf("invalid log entry id %q: %w", raw.ID, err)
	}
	ts, err := parseTimestamp(raw.Timestamp)
	if err != nil {
		return LogEntry{}, err
	}
	entry := LogEntry{
		ID:                 id,
		Timestamp:          ts,
		GameTime:           time.Duration(raw.GameTime) * time.Millisecond,
		Action:             GameLogAction(raw.Action),
		PlayerIndex:        raw.PlayerIndex,
		CurrentPlayerIndex: raw.CurrentPlayerIndex,
		Turn:               raw.Turn,
		Count:              raw.Count,
		Correction:         raw.Correction,
		Trash:              raw.Trash,
		ActionName:         raw.ActionName,
		ActionKey:          raw.ActionKey,
		PrevPlayerIndex:    raw.PrevPlayerIndex,
		PlayerTurnDetails:  raw.PlayerTurnDetails,
	}
	if raw.LinkedActionID != "" {
		linked, err := uuid.Parse(raw.LinkedActionID)
		if err != nil {
			return LogEntry{}, fmt.Errorf("invalid linked action id %q: %w", raw.LinkedActionID, err)
		}
		entry.LinkedActionID = linked
	}
	if !entry.Action.IsValid() {
		return LogEntry{}, &InvalidActionError{Action: entry.Action}
	}
	return entry, nil
}

func statsToRaw(ts TurnStatistics) TurnStatisticsRaw {
	return TurnStatisticsRaw{
		Turn:            ts.Turn,
		PlayerIndex:     ts.PlayerIndex,
		Start:           formatTimestamp(ts.Start),
		End:             formatTimestamp(ts.End),
		TurnDuration:    ts.TurnDuration.Milliseconds(),
		PlayerActions:   ts.PlayerActions,
		PlayerBuys:      ts.PlayerBuys,
		PlayerCoins:     ts.PlayerCoins,
		PlayerCards:     ts.PlayerCards,
		PlayerGains:     ts.PlayerGains,
		PlayerDiscards:  ts.PlayerDiscards,
		PlayerPotions:   ts.PlayerPotions,
		PlayerCoffers:   ts.PlayerCoffers,
		PlayerVillagers: ts.PlayerVillagers,
		PlayerDebt:      ts.PlayerDebt,
		PlayerFavors:    ts.PlayerFavors,
		PlayerVPTokens:  ts.PlayerVPTokens,
		PlayerScores:    ts.PlayerScores,
		Supply:          ts.Supply,
		ProphecySuns:    ts.ProphecySuns,
		CurrentPlayerVP: ts.CurrentPlayerVP,
	}
}

func statsFromRaw(raw TurnStatisticsRaw) (TurnStatistics, error) {
	start, err := parseTimestamp(raw.Start)
	if err != nil {
		return TurnStatistics{}, err
	}
	end, err := parseTimestamp(raw.End)
	if err != nil {
		return TurnStatistics{}, err
	}
	return TurnStatistics{
		Turn:            raw.Turn,
		PlayerIndex:     raw.PlayerIndex,
		Start:           start,
		End:             end,
		TurnDuration:    time.Duration(raw.TurnDuration) * time.Millisecond,
		PlayerActions:   raw.PlayerActions,
		PlayerBuys:      raw.PlayerBuys,
		PlayerCoins:     raw.PlayerCoins,
		PlayerCards:     raw.PlayerCards,
		PlayerGains:     raw.PlayerGains,
		PlayerDiscards:  raw.PlayerDiscards,
		PlayerPotions:   raw.PlayerPotions,
		PlayerCoffers:   raw.PlayerCoffers,
		PlayerVillagers: raw.PlayerVillagers,
		PlayerDebt:      raw.PlayerDebt,
		PlayerFavors:    raw.PlayerFavors,
		PlayerVPTokens:  raw.PlayerVPTokens,
		PlayerScores:    raw.PlayerScores,
		Supply:          raw.Supply,
		ProphecySuns:    raw.ProphecySuns,
		CurrentPlayerVP: raw.CurrentPlayerVP,
	}, nil
}

var statusValues = map[string]Status{
	"NOT_STARTED": StatusNotStarted,
	"IN_PROGRESS": StatusInProgress,
	"PAUSED":      StatusPaused,
	"ENDED":       StatusEnded,
}

// ToRaw converts a game to its wire form, stamping a checksum over the
// derived state so a loader can verify replay integrity.
func ToRaw(g Game) GameRaw {
	raw := GameRaw{
		ID:                    g.ID.String(),
		Players:               g.Players,
		Supply:                g.Supply,
		Options:               g.Options,
		Setup:                 g.Setup,
		Status:                g.Status.String(),
		CurrentTurn:           g.CurrentTurn,
		CurrentPlayerIndex:    g.CurrentPlayerIndex,
		SelectedPlayerIndex:   g.SelectedPlayerIndex,
		FirstPlayerIndex:      g.FirstPlayerIndex,
		Log:                   make([]LogEntryRaw, len(g.Log)),
		TurnStatisticsCache:   make([]TurnStatisticsRaw, len(g.TurnStatisticsCache)),
		PendingGroupedActions: g.PendingGroupedActions,
		RisingSun:             g.RisingSun,
		Renaissance:           g.Renaissance,
		Checksum:              Checksum(g),
	}
	for i, e := range g.Log {
		raw.Log[i] = EntryToRaw(e)
	}
	for i, ts := range g.TurnStatisticsCache {
		raw.TurnStatisticsCache[i] = statsToRaw(ts)
	}
	return raw
}

// FromRaw parses a wire game back into the in-memory form. Timestamps are
// validated strictly; statistics are taken as stored (use
// RebuildTurnStatisticsCache to re-derive them from the log).
func FromRaw(raw GameRaw) (Game, error) {
	id, err := uuid.Parse(raw.ID)
	if err != nil {
		return Game{}, fmt.Errorf("invalid game id %q: %w", raw.ID, err)
	}
	status, ok := statusValues[raw.Status]
	if !ok {
		return Game{}, fmt.Errorf("invalid game status %q", raw.Status)
	}
	g := Game{
		ID:                    id,
		Players:               raw.Players,
		Supply:                raw.Supply,
		Options:               raw.Options,
		Setup:                 raw.Setup,
		Status:                status,
		CurrentTurn:           raw.CurrentTurn,
		CurrentPlayerIndex:    raw.CurrentPlayerIndex,
		SelectedPlayerIndex:   raw.SelectedPlayerIndex,
		FirstPlayerIndex:      raw.FirstPlayerIndex,
		Log:                   make([]LogEntry, len(raw.Log)),
		TurnStatisticsCache:   make([]TurnStatistics, len(raw.TurnStatisticsCache)),
		PendingGroupedActions: raw.PendingGroupedActions,
		RisingSun:             raw.RisingSun,
		Renaissance:           raw.Renaissance,
	}
	for i, e := range raw.Log {
		entry, err := EntryFromRaw(e)
		if err != nil {
			return Game{}, err
		}
		g.Log[i] = entry
	}
	for i, ts := range raw.TurnStatisticsCache {
		stats, err := statsFromRaw(ts)
		if err != nil {
			return Game{}, err
		}
		g.TurnStatisticsCache[i] = stats
	}
	return g, nil
}

// Checksum computes a deterministic SHA-256 over the replay-relevant state:
// counters, supply, indices, and the log's ids/actions/counts. Timestamps
// are excluded so two replays of the same log always agree.
func Checksum(g Game) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "GAME:%d|%d|%d|%d|%d\n",
		int(g.Status), g.CurrentTurn, g.CurrentPlayerIndex, g.SelectedPlayerIndex, g.FirstPlayerIndex)
	fmt.Fprintf(&buf, "SUPPLY:%d|%d|%d|%d|%d|%d|%d|%d|%d|%d\n",
		g.Supply.Coppers, g.Supply.Silvers, g.Supply.Golds, g.Supply.Platinums,
		g.Supply.Potions, g.Supply.Curses, g.Supply.Estates, g.Supply.Duchies,
		g.Supply.Provinces, g.Supply.Colonies)
	fmt.Fprintf(&buf, "PROPHECY:%d|%t\n", g.RisingSun.Prophecy.Suns, g.RisingSun.GreatLeaderProphecy)
	for i, p := range g.Players {
		turn, _ := json.Marshal(p.Turn)
		mats, _ := json.Marshal(p.Mats)
		victory, _ := json.Marshal(p.Victory)
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%s|%s|%s\n", i, p.Name, turn, mats, victory)
	}
	for _, e := range g.Log {
		fmt.Fprintf(&buf, "LOG:%s|%s|%d|%d|%d|%t|%s\n",
			e.ID, string(e.Action), e.PlayerIndex, e.Turn, e.Count, e.Trash, e.LinkedActionID)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:])
}

// VerifyChecksum reports whether the stored checksum matches the state.
func VerifyChecksum(raw GameRaw) (bool, error) {
	if raw.Checksum == "" {
		return false, fmt.Errorf("game %s carries no checksum", raw.ID)
	}
	g, err := FromRaw(raw)
	if err != nil {
		return false, err
	}
	return Checksum(g) == raw.Checksum, nil
}
