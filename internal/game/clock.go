package game

import (
	"fmt"
	"time"
)

// Game-clock arithmetic. The clock runs from the start-game entry and stops
// inside PAUSE..UNPAUSE and SAVE_GAME..LOAD_GAME windows; every duration here
// is pause-adjusted plain arithmetic over entry timestamps.

// TurnDuration describes one completed turn's wall-clock span.
type TurnDuration struct {
	Turn        int           `json:"turn"`
	PlayerIndex int           `json:"playerIndex"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Duration    time.Duration `json:"duration"`
}

// GameStartTime returns the timestamp of the start-game entry, or the zero
// time when the log has not started.
func GameStartTime(log []LogEntry) time.Time {
	if len(log) == 0 || log[0].Action != ActionStartGame {
		return time.Time{}
	}
	return log[0].Timestamp
}

// GameEndTime returns the timestamp of the end-game entry, or the zero time
// while the game is still running.
func GameEndTime(log []LogEntry) time.Time {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].Action == ActionEndGame {
			return log[i].Timestamp
		}
	}
	return time.Time{}
}

// pauseOpener reports whether the action opens a stopped-clock window.
func pauseOpener(a GameLogAction) bool {
	return a == ActionPause || a == ActionSaveGame
}

// pauseCloser reports whether the action closes a stopped-clock window.
func pauseCloser(a GameLogAction) bool {
	return a == ActionUnpause || a == ActionLoadGame
}

// CalculatePausedTime sums the stopped-clock time in log strictly before
// upTo. An open window (pause without a matching unpause yet) counts up to
// upTo.
func CalculatePausedTime(log []LogEntry, upTo time.Time) time.Duration {
	var paused time.Duration
	var openedAt time.Time
	open := false
	for _, e := range log {
		if !e.Timestamp.Before(upTo) {
			break
		}
		switch {
		case pauseOpener(e.Action) && !open:
			open = true
			openedAt = e.Timestamp
		case pauseCloser(e.Action) && open:
			paused += e.Timestamp.Sub(openedAt)
			open = false
		}
	}
	if open && upTo.After(openedAt) {
		paused += upTo.Sub(openedAt)
	}
	return paused
}

// CalculateDurationUpToEvent returns the pause-adjusted game time elapsed
// between the start-game entry and eventTime.
func CalculateDurationUpToEvent(log []LogEntry, eventTime time.Time) time.Duration {
	start := GameStartTime(log)
	if start.IsZero() || !eventTime.After(start) {
		return 0
	}
	return eventTime.Sub(start) - CalculatePausedTime(log, eventTime)
}

// TurnStartEntry returns the entry that began the current turn: the latest
// NEXT_TURN, or the start-game entry on turn one.
func TurnStartEntry(log []LogEntry) (LogEntry, bool) {
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].Action == ActionNextTurn || log[i].Action == ActionStartGame {
			return log[i], true
		}
	}
	return LogEntry{}, false
}

// CalculateTurnDurations derives one TurnDuration per completed turn. A turn
// completes at the following NEXT_TURN or at END_GAME; stopped-clock time
// inside the turn is excluded.
func CalculateTurnDurations(log []LogEntry) []TurnDuration {
	var durations []TurnDuration
	var turnStart time.Time
	turn := 0
	player := NoPlayer

	closeTurn := func(end time.Time) {
		adjusted := end.Sub(turnStart) -
			(CalculatePausedTime(log, end) - CalculatePausedTime(log, turnStart))
		durations = append(durations, TurnDuration{
			Turn:        turn,
			PlayerIndex: player,
			Start:       turnStart,
			End:         end,
			Duration:    adjusted,
		})
	}

	for _, e := range log {
		switch e.Action {
		case ActionStartGame:
			turnStart = e.Timestamp
			turn = 1
			player = e.PlayerIndex
		case ActionNextTurn:
			if turn > 0 {
				closeTurn(e.Timestamp)
			}
			turnStart = e.Timestamp
			turn = e.Turn
			player = e.PlayerIndex
		case ActionEndGame:
			if turn > 0 {
				closeTurn(e.Timestamp)
				turn = 0
			}
		}
	}
	return durations
}

// CalculateCurrentTurnDuration returns the pause-adjusted time spent in the
// still-open turn as of now.
func CalculateCurrentTurnDuration(log []LogEntry, now time.Time) time.Duration {
	start, ok := TurnStartEntry(log)
	if !ok || !now.After(start.Timestamp) {
		return 0
	}
	return now.Sub(start.Timestamp) -
		(CalculatePausedTime(log, now) - CalculatePausedTime(log, start.Timestamp))
}

// CalculateAverageTurnDuration averages all completed turns.
func CalculateAverageTurnDuration(log []LogEntry) time.Duration {
	durations := CalculateTurnDurations(log)
	if len(durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range durations {
		total += d.Duration
	}
	return total / time.Duration(len(durations))
}

// CalculateAverageTurnDurationForPlayer averages the completed turns that
// ended on the given player's seat.
func CalculateAverageTurnDurationForPlayer(log []LogEntry, playerIndex int) time.Duration {
	var total time.Duration
	count := 0
	for _, d := range CalculateTurnDurations(log) {
		if d.PlayerIndex != playerIndex {
			continue
		}
		total += d.Duration
		count++
	}
	if count == 0 {
		return 0
	}
	return total / time.Duration(count)
}

// FormatTimeSpan renders a duration as "0d 0h 0m 0s". Negative spans clamp
// to zero.
func FormatTimeSpan(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}

// RebuildGameTimeHistory recomputes every entry's gameTime from the raw
// timestamps, repairing logs written before the clock accounted for pauses.
func RebuildGameTimeHistory(g Game) Game {
	out := g.Copy()
	for i := range out.Log {
		if out.Log[i].Action == ActionStartGame {
			out.Log[i].GameTime = 0
			continue
		}
		out.Log[i].GameTime = CalculateDurationUpToEvent(out.Log, out.Log[i].Timestamp)
	}
	return out
}
