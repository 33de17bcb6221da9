package game

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LogEntry is one immutable record in the append-only game log.
type LogEntry struct {
	ID                 uuid.UUID      `json:"id"`
	Timestamp          time.Time      `json:"timestamp"`
	GameTime           time.Duration  `json:"gameTime"`
	Action             GameLogAction  `json:"action"`
	PlayerIndex        int            `json:"playerIndex"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	Turn               int            `json:"turn"`
	Count              int            `json:"count,omitempty"`
	Correction         bool           `json:"correction,omitempty"`
	Trash              bool           `json:"trash,omitempty"`
	LinkedActionID     uuid.UUID      `json:"linkedActionId,omitempty"`
	ActionName         string         `json:"actionName,omitempty"`
	ActionKey          string         `json:"actionKey,omitempty"`
	PrevPlayerIndex    int            `json:"prevPlayerIndex"`
	PlayerTurnDetails  []TurnCounters `json:"playerTurnDetails,omitempty"`
}

// Copy returns a deep copy of the entry.
func (e LogEntry) Copy() LogEntry {
	out := e
	if e.PlayerTurnDetails != nil {
		out.PlayerTurnDetails = make([]TurnCounters, len(e.PlayerTurnDetails))
		copy(out.PlayerTurnDetails, e.PlayerTurnDetails)
	}
	return out
}

// IsLinked reports whether the entry belongs to a grouped action.
func (e LogEntry) IsLinked() bool {
	return e.LinkedActionID != uuid.Nil
}

// MasterID returns the id the entry's linked group shares: the linked action
// id when present, otherwise the entry's own id.
func (e LogEntry) MasterID() uuid.UUID {
	if e.IsLinked() {
		return e.LinkedActionID
	}
	return e.ID
}

// EntryOption customizes an entry built by AddLogEntry.
type EntryOption func(*LogEntry)

// WithCount sets the adjustment count.
func WithCount(count int) EntryOption {
	return func(e *LogEntry) { e.Count = count }
}

// WithCorrection marks the entry as a manual correction.
func WithCorrection() EntryOption {
	return func(e *LogEntry) { e.Correction = true }
}

// WithTrash marks a victory-card removal as a trash (the card does not
// return to the supply).
func WithTrash() EntryOption {
	return func(e *LogEntry) { e.Trash = true }
}

// WithLinkedAction ties the entry to a grouped action's master id.
func WithLinkedAction(id uuid.UUID) EntryOption {
	return func(e *LogEntry) { e.LinkedActionID = id }
}

// WithActionName records a grouped action's display name and catalog key.
func WithActionName(name, key string) EntryOption {
	return func(e *LogEntry) {
		e.ActionName = name
		e.ActionKey = key
	}
}

// AddLogEntry validates the action against the current state, builds the
// entry, applies it, and drains any deferred grouped-action triggers that
// the entry's turn advance activated. It never mutates g: the returned game
// is a fresh value and g is unchanged on error.
func AddLogEntry(g Game, playerIndex int, action GameLogAction, now time.Time, opts ...EntryOption) (Game, LogEntry, error) {
	entry := LogEntry{
		ID:                 uuid.New(),
		Timestamp:          now,
		Action:             action,
		PlayerIndex:        playerIndex,
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		Turn:               g.CurrentTurn,
		PrevPlayerIndex:    NoPlayer,
	}
	for _, opt := range opts {
		opt(&entry)
	}

	if err := validateAppend(g, entry); err != nil {
		return g, LogEntry{}, err
	}

	switch action {
	case ActionStartGame:
		entry.GameTime = 0
	default:
		entry.GameTime = CalculateDurationUpToEvent(g.Log, now)
	}
	if action == ActionNextTurn || action == ActionEndGame {
		entry.PrevPlayerIndex = g.CurrentPlayerIndex
		entry.PlayerTurnDetails = snapshotTurnDetails(g)
	}
	if action == ActionNextTurn {
		entry.Turn = g.CurrentTurn + 1
	}

	next, err := ApplyLogAction(g, entry)
	if err != nil {
		return g, LogEntry{}, err
	}

	// Deferred triggers fire only on the live append path; replay sees the
	// materialized entries in the log and must not apply them twice.
	if action == ActionNextTurn {
		next, err = ApplyPendingGroupedActions(next, now)
		if err != nil {
			return g, LogEntry{}, err
		}
	}
	return next, entry, nil
}

// validateAppend checks everything about an append that depends on log
// position rather than the entry's own shape.
func validateAppend(g Game, entry LogEntry) error {
	if !entry.Action.IsValid() {
		return &InvalidActionError{Action: entry.Action}
	}
	if g.Status == StatusEnded {
		return ErrGameEnded
	}
	if len(g.Log) == 0 {
		if entry.Action != ActionStartGame {
			return ErrLogNotStarted
		}
	} else if entry.Action == ActionStartGame {
		return &InvalidActionError{Action: ActionStartGame}
	}
	return validateLogAction(g, entry)
}

func snapshotTurnDetails(g Game) []TurnCounters {
	details := make([]TurnCounters, len(g.Players))
	for i, p := range g.Players {
		details[i] = p.Turn
	}
	return details
}

// LogEntryString renders an entry for display, substituting the count into
// the action's template.
func LogEntryString(entry LogEntry) string {
	if entry.Action == ActionGroupedAct && entry.ActionName != "" {
		return entry.ActionName
	}
	return ActionString(entry.Action, entry.Count, false)
}

// ActionString renders an action kind with an optional count. When
// futureTense is set the deferred-action template table is used, for
// describing triggers that have not fired yet.
func ActionString(action GameLogAction, count int, futureTense bool) string {
	template := string(action)
	if futureTense {
		if future, ok := futureActionStrings[action]; ok {
			template = future
		}
	}
	if count > 0 {
		return strings.ReplaceAll(template, "{COUNT}", strconv.Itoa(count))
	}
	// No count: drop the placeholder and its leading space.
	template = strings.ReplaceAll(template, " {COUNT}", "")
	return strings.ReplaceAll(template, "{COUNT}", "")
}
