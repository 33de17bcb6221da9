package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/digital-defiance/dominion-server-go/internal/config"
	"github.com/digital-defiance/dominion-server-go/internal/game"
	"github.com/digital-defiance/dominion-server-go/internal/repository"
	"github.com/digital-defiance/dominion-server-go/internal/session"
)

// Command is one client request on the websocket.
type Command struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Response is the server's reply to a Command.
type Response struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId,omitempty"`
	SessionID string        `json:"sessionId,omitempty"`
	OK        bool          `json:"ok"`
	Error     string        `json:"error,omitempty"`
	Game      *game.GameRaw `json:"game,omitempty"`
	Data      any           `json:"data,omitempty"`
}

// WSServer serves the game command protocol over websockets. Each command
// addresses one session; the session's own lock serializes mutations, so
// concurrent clients of the same game are applied one at a time.
type WSServer struct {
	cfg      config.WebSocketConfig
	sessions *session.Manager
	games    *repository.GameRepository
	catalog  game.RecipeCatalog
	undo     *game.UndoController
	logger   *zap.Logger
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewWSServer wires the websocket command API.
func NewWSServer(cfg config.WebSocketConfig, sessions *session.Manager, games *repository.GameRepository, catalog game.RecipeCatalog, logger *zap.Logger) *WSServer {
	return &WSServer{
		cfg:      cfg,
		sessions: sessions,
		games:    games,
		catalog:  catalog,
		undo:     game.NewUndoController(logger),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
		},
		now: time.Now,
	}
}

// Start blocks serving websocket connections on /ws until the listener
// fails.
func (s *WSServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleConnection)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.logger.Info("starting websocket server", zap.String("address", s.cfg.Address))
	return http.ListenAndServe(s.cfg.Address, mux)
}

func (s *WSServer) handleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.logger.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		resp := s.dispatch(r.Context(), cmd)
		resp.Type = cmd.Type
		resp.RequestID = cmd.RequestID
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("websocket write error", zap.Error(err))
			return
		}
	}
}

func (s *WSServer) dispatch(ctx context.Context, cmd Command) Response {
	switch cmd.Type {
	case "start_game":
		return s.handleStartGame(cmd)
	case "add_log_entry":
		return s.handleAddLogEntry(cmd)
	case "grouped_action":
		return s.handleGroupedAction(cmd)
	case "can_undo":
		return s.handleCanUndo(cmd)
	case "undo":
		return s.handleUndo(cmd)
	case "get_state":
		return s.handleGetState(cmd)
	case "end_game":
		return s.handleEndGame(cmd)
	case "save_game":
		return s.handleSaveGame(ctx, cmd)
	case "load_game":
		return s.handleLoadGame(ctx, cmd)
	case "list_games":
		return s.handleListGames(ctx)
	case "list_recipes":
		return Response{OK: true, Data: s.catalog.Keys()}
	case "close_session":
		s.sessions.Close(cmd.SessionID)
		return Response{OK: true}
	default:
		return errorResponse(fmt.Errorf("unknown command type %q", cmd.Type))
	}
}

func errorResponse(err error) Response {
	return Response{OK: false, Error: err.Error()}
}

func gameResponse(g game.Game) Response {
	raw := game.ToRaw(g)
	return Response{OK: true, Game: &raw}
}

type startGamePayload struct {
	Players          []game.PlayerSetup `json:"players"`
	Options          game.GameOptions   `json:"options"`
	FirstPlayerIndex int                `json:"firstPlayerIndex"`
	GreatLeader      bool               `json:"greatLeader"`
}

func (s *WSServer) handleStartGame(cmd Command) Response {
	var payload startGamePayload
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return errorResponse(fmt.Errorf("invalid start_game payload: %w", err))
	}

	setup := game.GameSetup{
		Players:          payload.Players,
		Options:          payload.Options,
		FirstPlayerIndex: payload.FirstPlayerIndex,
		GreatLeader:      payload.GreatLeader,
	}
	g, err := game.NewGame(setup)
	if err != nil {
		return errorResponse(err)
	}
	g, _, err = game.AddLogEntry(g, setup.FirstPlayerIndex, game.ActionStartGame, s.now())
	if err != nil {
		return errorResponse(err)
	}

	sess, err := s.sessions.Create(g)
	if err != nil {
		return errorResponse(err)
	}
	resp := gameResponse(g)
	resp.SessionID = sess.ID
	return resp
}

type addLogEntryPayload struct {
	Action      string `json:"action"`
	PlayerIndex int    `json:"playerIndex"`
	Count       int    `json:"count,omitempty"`
	Trash       bool   `json:"trash,omitempty"`
	Correction  bool   `json:"correction,omitempty"`
}

func (s *WSServer) handleAddLogEntry(cmd Command) Response {
	var payload addLogEntryPayload
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return errorResponse(fmt.Errorf("invalid add_log_entry payload: %w", err))
	}
	return s.mutate(cmd.SessionID, func(g game.Game) (game.Game, error) {
		var opts []game.EntryOption
		if payload.Count > 0 {
			opts = append(opts, game.WithCount(payload.Count))
		}
		if payload.Trash {
			opts = append(opts, game.WithTrash())
		}
		if payload.Correction {
			opts = append(opts, game.WithCorrection())
		}
		next, _, err := game.AddLogEntry(g, payload.PlayerIndex, game.GameLogAction(payload.Action), s.now(), opts...)
		return next, err
	})
}

type groupedActionPayload struct {
	Key string `json:"key"`
}

func (s *WSServer) handleGroupedAction(cmd Command) Response {
	var payload groupedActionPayload
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return errorResponse(fmt.Errorf("invalid grouped_action payload: %w", err))
	}
	return s.mutate(cmd.SessionID, func(g game.Game) (game.Game, error) {
		return game.ApplyGroupedAction(g, s.catalog, payload.Key, s.now())
	})
}

type undoPayload struct {
	Index int `json:"index"`
}

func (s *WSServer) handleCanUndo(cmd Command) Response {
	var payload undoPayload
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return errorResponse(fmt.Errorf("invalid can_undo payload: %w", err))
	}
	sess, err := s.sessions.Get(cmd.SessionID)
	if err != nil {
		return errorResponse(err)
	}
	can := s.undo.CanUndoAction(sess.State(), payload.Index)
	return Response{OK: true, Data: map[string]bool{"canUndo": can}}
}

func (s *WSServer) handleUndo(cmd Command) Response {
	var payload undoPayload
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return errorResponse(fmt.Errorf("invalid undo payload: %w", err))
	}
	return s.mutate(cmd.SessionID, func(g game.Game) (game.Game, error) {
		next, ok := s.undo.UndoAction(g, payload.Index)
		if !ok {
			return g, fmt.Errorf("log entry %d cannot be undone", payload.Index)
		}
		return next, nil
	})
}

func (s *WSServer) handleGetState(cmd Command) Response {
	sess, err := s.sessions.Get(cmd.SessionID)
	if err != nil {
		return errorResponse(err)
	}
	return gameResponse(sess.State())
}

func (s *WSServer) handleEndGame(cmd Command) Response {
	return s.mutate(cmd.SessionID, func(g game.Game) (game.Game, error) {
		next, _, err := game.AddLogEntry(g, game.NoPlayer, game.ActionEndGame, s.now())
		return next, err
	})
}

type saveGamePayload struct {
	Name string `json:"name"`
}

func (s *WSServer) handleSaveGame(ctx context.Context, cmd Command) Response {
	var payload saveGamePayload
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return errorResponse(fmt.Errorf("invalid save_game payload: %w", err))
	}
	sess, err := s.sessions.Get(cmd.SessionID)
	if err != nil {
		return errorResponse(err)
	}

	var saved game.Game
	err = sess.Update(func(g game.Game) (game.Game, error) {
		next, _, err := game.AddLogEntry(g, game.NoPlayer, game.ActionSaveGame, s.now())
		if err != nil {
			return g, err
		}
		saved = next
		return next, nil
	})
	if err != nil {
		return errorResponse(err)
	}
	if err := s.games.Save(ctx, payload.Name, saved); err != nil {
		return errorResponse(err)
	}
	return gameResponse(saved)
}

type loadGamePayload struct {
	ID string `json:"id"`
}

func (s *WSServer) handleLoadGame(ctx context.Context, cmd Command) Response {
	var payload loadGamePayload
	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return errorResponse(fmt.Errorf("invalid load_game payload: %w", err))
	}
	g, err := s.games.Load(ctx, payload.ID)
	if err != nil {
		return errorResponse(err)
	}
	g, _, err = game.AddLogEntry(g, game.NoPlayer, game.ActionLoadGame, s.now())
	if err != nil {
		return errorResponse(err)
	}

	sess, err := s.sessions.Create(g)
	if err != nil {
		return errorResponse(err)
	}
	resp := gameResponse(g)
	resp.SessionID = sess.ID
	return resp
}

func (s *WSServer) handleListGames(ctx context.Context) Response {
	games, err := s.games.List(ctx)
	if err != nil {
		return errorResponse(err)
	}
	return Response{OK: true, Data: games}
}

// mutate runs a state transition through the session's serialized update
// point and replies with the committed state.
func (s *WSServer) mutate(sessionID string, fn func(game.Game) (game.Game, error)) Response {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return errorResponse(err)
	}
	var committed game.Game
	err = sess.Update(func(g game.Game) (game.Game, error) {
		next, err := fn(g)
		if err != nil {
			return g, err
		}
		committed = next
		return next, nil
	})
	if err != nil {
		return errorResponse(err)
	}
	return gameResponse(committed)
}
