package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digital-defiance/dominion-server-go/internal/game"
)

func testGame(t *testing.T) game.Game {
	t.Helper()
	g, err := game.NewGame(game.GameSetup{
		Players: []game.PlayerSetup{{Name: "Alice"}, {Name: "Bob"}},
		Options: game.DefaultGameOptions(),
	})
	require.NoError(t, err)
	return g
}

func TestCreateAndGet(t *testing.T) {
	mgr := NewManager(time.Minute, 10, zap.NewNop())

	sess, err := mgr.Create(testGame(t))
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, err := mgr.Get(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, mgr.Count())

	_, err = mgr.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionLimit(t *testing.T) {
	mgr := NewManager(time.Minute, 1, zap.NewNop())

	_, err := mgr.Create(testGame(t))
	require.NoError(t, err)
	_, err = mgr.Create(testGame(t))
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestUpdateCommitsOnSuccess(t *testing.T) {
	mgr := NewManager(time.Minute, 10, zap.NewNop())
	sess, err := mgr.Create(testGame(t))
	require.NoError(t, err)

	err = sess.Update(func(g game.Game) (game.Game, error) {
		next, _, err := game.AddLogEntry(g, 0, game.ActionStartGame, time.Now())
		return next, err
	})
	require.NoError(t, err)
	assert.Len(t, sess.State().Log, 1)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	mgr := NewManager(time.Minute, 10, zap.NewNop())
	sess, err := mgr.Create(testGame(t))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = sess.Update(func(g game.Game) (game.Game, error) {
		next, _, err := game.AddLogEntry(g, 0, game.ActionStartGame, time.Now())
		require.NoError(t, err)
		_ = next
		return game.Game{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sess.State().Log)
}

func TestStateReturnsCopy(t *testing.T) {
	mgr := NewManager(time.Minute, 10, zap.NewNop())
	sess, err := mgr.Create(testGame(t))
	require.NoError(t, err)

	state := sess.State()
	state.Players[0].Turn.Actions = 99
	assert.Equal(t, 1, sess.State().Players[0].Turn.Actions)
}

func TestExpireSessions(t *testing.T) {
	mgr := NewManager(time.Millisecond, 10, zap.NewNop())
	sess, err := mgr.Create(testGame(t))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	mgr.expireSessions()

	_, err = mgr.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, mgr.Count())
}

func TestCloseAll(t *testing.T) {
	mgr := NewManager(time.Minute, 10, zap.NewNop())
	for i := 0; i < 3; i++ {
		_, err := mgr.Create(testGame(t))
		require.NoError(t, err)
	}
	mgr.CloseAll()
	assert.Equal(t, 0, mgr.Count())
}
