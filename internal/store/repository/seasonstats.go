package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/gridiron/internal/store"
)

// SeasonStats handles persistence for per-player season stat lines.
type SeasonStats struct {
	db *store.Database
}

// NewSeasonStats constructs a SeasonStats repository.
func NewSeasonStats(db *store.Database) *SeasonStats {
	return &SeasonStats{db: db}
}

// Upsert writes a stat line, replacing any previous line for the same
// (category, player, year).
func (r *SeasonStats) Upsert(ctx context.Context, stat *store.SeasonStat) error {
	statsJSON, err := json.Marshal(stat.Stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	if stat.ID == "" {
		stat.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO season_stats (id, category, player_name, jersey, year, stats, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (category, player_name, year) DO UPDATE SET
			jersey = excluded.jersey,
			stats = excluded.stats,
			updated_at = excluded.updated_at
	`)

	if _, err := r.db.DB().ExecContext(ctx, query,
		stat.ID, stat.Category, stat.PlayerName, stat.Jersey, stat.Year,
		string(statsJSON), now, now,
	); err != nil {
		return fmt.Errorf("upsert season stat: %w", err)
	}
	return nil
}

// ListByCategoryYear returns every stat line for a category and season.
func (r *SeasonStats) ListByCategoryYear(ctx context.Context, category string, year int) ([]*store.SeasonStat, error) {
	query := r.db.Rebind(`
		SELECT id, category, player_name, jersey, year, stats, created_at, updated_at
		FROM season_stats
		WHERE category = ? AND year = ?
		ORDER BY player_name
	`)

	rows, err := r.db.DB().QueryContext(ctx, query, category, year)
	if err != nil {
		return nil, fmt.Errorf("list season stats: %w", err)
	}
	defer rows.Close()

	return scanSeasonStats(rows)
}

// GetByPlayer returns a player's line in one category and season.
func (r *SeasonStats) GetByPlayer(ctx context.Context, category, playerName string, year int) (*store.SeasonStat, error) {
	query := r.db.Rebind(`
		SELECT id, category, player_name, jersey, year, stats, created_at, updated_at
		FROM season_stats
		WHERE category = ? AND player_name = ? AND year = ?
	`)

	row := r.db.DB().QueryRowContext(ctx, query, category, playerName, year)
	stat, err := scanSeasonStat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get season stat: %w", err)
	}
	return stat, nil
}

// SearchPlayers finds distinct player names matching a case-insensitive
// substring.
func (r *SeasonStats) SearchPlayers(ctx context.Context, q string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 25
	}
	query := r.db.Rebind(`
		SELECT DISTINCT player_name
		FROM season_stats
		WHERE LOWER(player_name) LIKE LOWER(?)
		ORDER BY player_name
		LIMIT ?
	`)

	rows, err := r.db.DB().QueryContext(ctx, query, "%"+q+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Years lists the seasons present for a category, ascending.
func (r *SeasonStats) Years(ctx context.Context, category string) ([]int, error) {
	query := r.db.Rebind(`
		SELECT DISTINCT year FROM season_stats
		WHERE category = ?
		ORDER BY year
	`)

	rows, err := r.db.DB().QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		out = append(out, y)
	}
	return out, rows.Err()
}

func scanSeasonStats(rows *sql.Rows) ([]*store.SeasonStat, error) {
	var out []*store.SeasonStat
	for rows.Next() {
		stat, err := scanSeasonStat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

func scanSeasonStat(scanner interface {
	Scan(dest ...interface{}) error
}) (*store.SeasonStat, error) {
	stat := &store.SeasonStat{}
	var statsJSON string
	err := scanner.Scan(
		&stat.ID,
		&stat.Category,
		&stat.PlayerName,
		&stat.Jersey,
		&stat.Year,
		&statsJSON,
		&stat.CreatedAt,
		&stat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(statsJSON), &stat.Stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return stat, nil
}
