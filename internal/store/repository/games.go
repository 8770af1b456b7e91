package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/gridiron/internal/store"
)

// Games handles persistence for game results.
type Games struct {
	db *store.Database
}

// NewGames constructs a Games repository.
func NewGames(db *store.Database) *Games {
	return &Games{db: db}
}

// Upsert writes a game result, replacing any previous row with the same
// date, opponent and score.
func (r *Games) Upsert(ctx context.Context, g *store.GameResult) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	query := r.db.Rebind(`
		INSERT INTO game_results (id, game_date, opponent, site, result, score, duration, attendance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_date, opponent, score) DO UPDATE SET
			site = excluded.site,
			result = excluded.result,
			duration = excluded.duration,
			attendance = excluded.attendance
	`)

	if _, err := r.db.DB().ExecContext(ctx, query,
		g.ID, g.GameDate, g.Opponent, g.Site, g.Result, g.Score,
		g.Duration, g.Attendance, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("upsert game result: %w", err)
	}
	return nil
}

// List returns game results ordered by date. A zero year returns every
// season.
func (r *Games) List(ctx context.Context, year int) ([]*store.GameResult, error) {
	query := `
		SELECT id, game_date, opponent, site, result, score, duration, attendance, created_at
		FROM game_results
	`
	var args []interface{}
	if year > 0 {
		query += ` WHERE game_date >= ? AND game_date <= ?`
		args = append(args, fmt.Sprintf("%d-01-01", year), fmt.Sprintf("%d-12-31", year))
	}
	query += ` ORDER BY game_date`

	rows, err := r.db.DB().QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list game results: %w", err)
	}
	defer rows.Close()

	var out []*store.GameResult
	for rows.Next() {
		g := &store.GameResult{}
		if err := rows.Scan(
			&g.ID, &g.GameDate, &g.Opponent, &g.Site, &g.Result,
			&g.Score, &g.Duration, &g.Attendance, &g.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
