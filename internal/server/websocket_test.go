package server

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digital-defiance/dominion-server-go/internal/config"
	"github.com/digital-defiance/dominion-server-go/internal/game"
	"github.com/digital-defiance/dominion-server-go/internal/session"
)

func newTestServer(t *testing.T) *WSServer {
	t.Helper()
	logger := zap.NewNop()
	sessions := session.NewManager(time.Minute, 10, logger)
	srv := NewWSServer(config.WebSocketConfig{Address: ":0"}, sessions, nil, game.DefaultRecipes(), logger)

	clock := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	srv.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return srv
}

func payload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func startTestGame(t *testing.T, srv *WSServer) string {
	t.Helper()
	resp := srv.dispatch(context.Background(), Command{
		Type: "start_game",
		Payload: payload(t, startGamePayload{
			Players: []game.PlayerSetup{{Name: "Alice"}, {Name: "Bob"}},
			Options: game.DefaultGameOptions(),
		}),
	})
	require.True(t, resp.OK, resp.Error)
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestStartGameCommand(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.dispatch(context.Background(), Command{
		Type: "start_game",
		Payload: payload(t, startGamePayload{
			Players: []game.PlayerSetup{{Name: "Alice"}, {Name: "Bob"}},
			Options: game.DefaultGameOptions(),
		}),
	})
	require.True(t, resp.OK, resp.Error)
	require.NotNil(t, resp.Game)
	assert.Len(t, resp.Game.Log, 1)
	assert.Equal(t, "IN_PROGRESS", resp.Game.Status)
}

func TestStartGameRejectsShortRoster(t *testing.T) {
	srv := newTestServer(t)

	resp := srv.dispatch(context.Background(), Command{
		Type: "start_game",
		Payload: payload(t, startGamePayload{
			Players: []game.PlayerSetup{{Name: "Alice"}},
		}),
	})
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Error)
}

func TestAddLogEntryCommand(t *testing.T) {
	srv := newTestServer(t)
	sessionID := startTestGame(t, srv)

	resp := srv.dispatch(context.Background(), Command{
		Type:      "add_log_entry",
		SessionID: sessionID,
		Payload: payload(t, addLogEntryPayload{
			Action: string(game.ActionAddCoins), PlayerIndex: 0, Count: 3,
		}),
	})
	require.True(t, resp.OK, resp.Error)
	assert.Equal(t, 3, resp.Game.Players[0].Turn.Coins)
}

func TestAddLogEntryErrorLeavesSessionUnchanged(t *testing.T) {
	srv := newTestServer(t)
	sessionID := startTestGame(t, srv)

	resp := srv.dispatch(context.Background(), Command{
		Type:      "add_log_entry",
		SessionID: sessionID,
		Payload: payload(t, addLogEntryPayload{
			Action: string(game.ActionRemoveCoins), PlayerIndex: 0, Count: 5,
		}),
	})
	assert.False(t, resp.OK)

	state := srv.dispatch(context.Background(), Command{Type: "get_state", SessionID: sessionID})
	require.True(t, state.OK)
	assert.Len(t, state.Game.Log, 1)
}

func TestGroupedActionAndUndoCommands(t *testing.T) {
	srv := newTestServer(t)
	sessionID := startTestGame(t, srv)

	resp := srv.dispatch(context.Background(), Command{
		Type:      "grouped_action",
		SessionID: sessionID,
		Payload:   payload(t, groupedActionPayload{Key: "market"}),
	})
	require.True(t, resp.OK, resp.Error)
	require.Len(t, resp.Game.Log, 6)

	canUndo := srv.dispatch(context.Background(), Command{
		Type:      "can_undo",
		SessionID: sessionID,
		Payload:   payload(t, undoPayload{Index: 2}),
	})
	require.True(t, canUndo.OK)
	assert.Equal(t, map[string]bool{"canUndo": true}, canUndo.Data)

	undone := srv.dispatch(context.Background(), Command{
		Type:      "undo",
		SessionID: sessionID,
		Payload:   payload(t, undoPayload{Index: 2}),
	})
	require.True(t, undone.OK, undone.Error)
	assert.Len(t, undone.Game.Log, 1)
}

func TestListRecipesCommand(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.dispatch(context.Background(), Command{Type: "list_recipes"})
	require.True(t, resp.OK)

	keys, ok := resp.Data.([]string)
	require.True(t, ok)
	assert.Equal(t, game.DefaultRecipes().Keys(), keys)
	assert.Contains(t, keys, "market")
}

func TestUnknownCommand(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.dispatch(context.Background(), Command{Type: "summon_dragon"})
	assert.False(t, resp.OK)
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t)
	resp := srv.dispatch(context.Background(), Command{Type: "get_state", SessionID: "nope"})
	assert.False(t, resp.OK)
	assert.Equal(t, session.ErrSessionNotFound.Error(), resp.Error)
}

func TestEndGameCommand(t *testing.T) {
	srv := newTestServer(t)
	sessionID := startTestGame(t, srv)

	resp := srv.dispatch(context.Background(), Command{Type: "end_game", SessionID: sessionID})
	require.True(t, resp.OK, resp.Error)
	assert.Equal(t, "ENDED", resp.Game.Status)
}
