package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/digital-defiance/dominion-server-go/internal/game"
)

// ErrGameNotFound is returned when no saved game exists under the given id.
var ErrGameNotFound = errors.New("saved game not found")

// SavedGame is one row of the saved-game listing.
type SavedGame struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SavedAt   time.Time `json:"savedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GameRepository persists games in their wire form as JSONB rows.
type GameRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGameRepository creates a saved-game store over the shared pool.
func NewGameRepository(db *DB, logger *zap.Logger) *GameRepository {
	return &GameRepository{db: db, logger: logger}
}

const gamesSchema = `
CREATE TABLE IF NOT EXISTS saved_games (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	state      JSONB NOT NULL,
	saved_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS saved_games_updated_at_idx ON saved_games (updated_at DESC);
`

// EnsureSchema creates the saved-game table when missing.
func (r *GameRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, gamesSchema); err != nil {
		return fmt.Errorf("failed to ensure saved_games schema: %w", err)
	}
	return nil
}

// Save upserts a game's wire form under its id.
func (r *GameRepository) Save(ctx context.Context, name string, g game.Game) error {
	raw := game.ToRaw(g)
	state, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", raw.ID, err)
	}

	_, err = r.db.pool.Exec(ctx, `
		INSERT INTO saved_games (id, name, state, saved_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, state = EXCLUDED.state, updated_at = now()`,
		raw.ID, name, state,
	)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", raw.ID, err)
	}

	r.logger.Info("saved game",
		zap.String("game_id", raw.ID),
		zap.String("name", name),
		zap.Int("log_entries", len(raw.Log)),
	)
	return nil
}

// Load reads a game's wire form back by id.
func (r *GameRepository) Load(ctx context.Context, id string) (game.Game, error) {
	var state []byte
	err := r.db.pool.QueryRow(ctx,
		`SELECT state FROM saved_games WHERE id = $1`, id,
	).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return game.Game{}, ErrGameNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("failed to load game %s: %w", id, err)
	}

	var raw game.GameRaw
	if err := json.Unmarshal(state, &raw); err != nil {
		return game.Game{}, fmt.Errorf("failed to unmarshal game %s: %w", id, err)
	}
	g, err := game.FromRaw(raw)
	if err != nil {
		return game.Game{}, fmt.Errorf("failed to parse game %s: %w", id, err)
	}

	r.logger.Info("loaded game",
		zap.String("game_id", id),
		zap.Int("log_entries", len(g.Log)),
	)
	return g, nil
}

// List returns saved-game metadata, most recently updated first.
func (r *GameRepository) List(ctx context.Context) ([]SavedGame, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, name, saved_at, updated_at
		FROM saved_games
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved games: %w", err)
	}
	defer rows.Close()

	var games []SavedGame
	for rows.Next() {
		var sg SavedGame
		if err := rows.Scan(&sg.ID, &sg.Name, &sg.SavedAt, &sg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan saved game row: %w", err)
		}
		games = append(games, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved games: %w", err)
	}
	return games, nil
}

// Delete removes a saved game by id.
func (r *GameRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM saved_games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGameNotFound
	}
	r.logger.Info("deleted saved game", zap.String("game_id", id))
	return nil
}
