package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

// testClock hands out strictly increasing timestamps.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: testStart}
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Advance(d time.Duration) time.Time {
	c.current = c.current.Add(d)
	return c.current
}

func testSetup(numPlayers int, opts ...func(*GameSetup)) GameSetup {
	names := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}
	colors := []string{"#e91e63", "#2196f3", "#4caf50", "#ff9800", "#9c27b0", "#795548"}
	setup := GameSetup{Options: DefaultGameOptions()}
	for i := 0; i < numPlayers; i++ {
		setup.Players = append(setup.Players, PlayerSetup{Name: names[i], Color: colors[i]})
	}
	for _, opt := range opts {
		opt(&setup)
	}
	return setup
}

func withProsperity() func(*GameSetup) {
	return func(s *GameSetup) { s.Options.Expansions.Prosperity = true }
}

func withRisingSun(greatLeader bool) func(*GameSetup) {
	return func(s *GameSetup) {
		s.Options.Expansions.RisingSun = true
		s.GreatLeader = greatLeader
	}
}

// startedGame builds an n-player game with the start entry applied.
func startedGame(t *testing.T, numPlayers int, clock *testClock, opts ...func(*GameSetup)) Game {
	t.Helper()
	g, err := NewGame(testSetup(numPlayers, opts...))
	require.NoError(t, err)
	g, _, err = AddLogEntry(g, 0, ActionStartGame, clock.Now())
	require.NoError(t, err)
	return g
}
