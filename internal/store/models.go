package store

import (
	"time"
)

// SeasonStat is one player's line in one category for one season. The
// category-specific columns live in Stats; the columns shared by every
// category are first-class fields.
type SeasonStat struct {
	ID         string            `json:"id" db:"id"`
	Category   string            `json:"category" db:"category"`
	PlayerName string            `json:"player_name" db:"player_name"`
	Jersey     string            `json:"jersey,omitempty" db:"jersey"`
	Year       int               `json:"year" db:"year"`
	Stats      map[string]string `json:"stats" db:"stats"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}

// GameResult is one game of one season.
type GameResult struct {
	ID         string    `json:"id" db:"id"`
	GameDate   string    `json:"game_date" db:"game_date"`
	Opponent   string    `json:"opponent" db:"opponent"`
	Site       string    `json:"site,omitempty" db:"site"`
	Result     string    `json:"result,omitempty" db:"result"`
	Score      string    `json:"score,omitempty" db:"score"`
	Duration   string    `json:"duration,omitempty" db:"duration"`
	Attendance string    `json:"attendance,omitempty" db:"attendance"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
