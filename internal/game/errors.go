package game

import (
	"errors"
	"fmt"
)

var (
	// ErrGamePaused is returned when a mutation arrives while the last log
	// entry is an unmatched PAUSE.
	ErrGamePaused = errors.New("game is paused, unpause before logging actions")

	// ErrLogNotStarted is returned when the first log entry is not a
	// start-game entry.
	ErrLogNotStarted = errors.New("log must start with a Started Game entry")

	// ErrGameEnded is returned when a mutation arrives after an end-game entry.
	ErrGameEnded = errors.New("game has already ended")

	// ErrMinPlayers / ErrMaxPlayers bound game creation.
	ErrMinPlayers = errors.New("game requires at least 2 players")
	ErrMaxPlayers = errors.New("game supports at most 6 players")
)

// CountRequiredError indicates an adjustment action arrived without a
// positive count.
type CountRequiredError struct {
	Action GameLogAction
}

func (e *CountRequiredError) Error() string {
	return fmt.Sprintf("action %q requires a positive count", string(e.Action))
}

// InvalidActionError indicates an unknown or contextually invalid action kind.
type InvalidActionError struct {
	Action GameLogAction
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid log action %q", string(e.Action))
}

// InvalidPlayerIndexError indicates a player index outside the roster, or a
// player index supplied for an action that takes none.
type InvalidPlayerIndexError struct {
	PlayerIndex int
	Action      GameLogAction
}

func (e *InvalidPlayerIndexError) Error() string {
	return fmt.Sprintf("invalid player index %d for action %q", e.PlayerIndex, string(e.Action))
}

// InvalidFieldError indicates a field/subfield pair with no matching action.
type InvalidFieldError struct {
	Field    Field
	Subfield Subfield
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s/%s", e.Field, e.Subfield)
}

// InvalidTrashActionError indicates the trash flag on an action that cannot
// carry it; only victory-pile removals may trash.
type InvalidTrashActionError struct {
	Action GameLogAction
}

func (e *InvalidTrashActionError) Error() string {
	return fmt.Sprintf("action %q cannot be a trash action", string(e.Action))
}

// NotEnoughSupplyError indicates a supply pile would go negative.
type NotEnoughSupplyError struct {
	Pile Subfield
}

func (e *NotEnoughSupplyError) Error() string {
	return fmt.Sprintf("not enough %s in supply", e.Pile)
}

// NotEnoughSubfieldError indicates a player counter would go negative.
type NotEnoughSubfieldError struct {
	Field    Field
	Subfield Subfield
}

func (e *NotEnoughSubfieldError) Error() string {
	return fmt.Sprintf("player does not have enough %s/%s", e.Field, e.Subfield)
}

// NotEnoughProphecyError indicates the shared prophecy sun pool would go
// negative.
type NotEnoughProphecyError struct{}

func (e *NotEnoughProphecyError) Error() string {
	return "not enough prophecy suns"
}

// InvalidTimestampError indicates a raw timestamp string that failed to parse.
type InvalidTimestampError struct {
	Value string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("Invalid timestamp: %s", e.Value)
}

// InvalidLogEntryError wraps a replay failure with the offending entry id.
type InvalidLogEntryError struct {
	EntryID string
	Err     error
}

func (e *InvalidLogEntryError) Error() string {
	return fmt.Sprintf("invalid log entry %s: %v", e.EntryID, e.Err)
}

func (e *InvalidLogEntryError) Unwrap() error {
	return e.Err
}
