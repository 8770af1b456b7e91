package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/gridiron/internal/backfill"
	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

func testServer(t *testing.T) (*Server, *store.Database) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	jobs := backfill.NewService(db, nil, nil, nil)
	return NewServer("0", db, jobs), db
}

func doJSON(t *testing.T, srv *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealthCheck(t *testing.T) {
	srv, _ := testServer(t)

	rec, body := doJSON(t, srv, "GET", "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "healthy", body["status"])
}

func TestGetCategories(t *testing.T) {
	srv, _ := testServer(t)

	rec, body := doJSON(t, srv, "GET", "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cats := body["categories"].([]interface{})
	require.Contains(t, cats, "rushing")
	require.Contains(t, cats, "results")
}

func TestGetSeasonStats(t *testing.T) {
	srv, db := testServer(t)
	ctx := context.Background()

	stats := repository.NewSeasonStats(db)
	require.NoError(t, stats.Upsert(ctx, &store.SeasonStat{
		Category: "rushing", PlayerName: "Brown, Marcus", Jersey: "28", Year: 2021,
		Stats: map[string]string{"ATT": "100", "Net": "500"},
	}))

	rec, body := doJSON(t, srv, "GET", "/api/v1/stats/rushing/2021", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, body["count"])

	rec, _ = doJSON(t, srv, "GET", "/api/v1/stats/bowling/2021", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = doJSON(t, srv, "GET", "/api/v1/stats/rushing/years", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []interface{}{float64(2021)}, body["years"])
}

func TestPlayerEndpoints(t *testing.T) {
	srv, db := testServer(t)
	ctx := context.Background()

	stats := repository.NewSeasonStats(db)
	require.NoError(t, stats.Upsert(ctx, &store.SeasonStat{
		Category: "receiving", PlayerName: "Lee, Bo", Year: 2020,
		Stats: map[string]string{"NO": "30"},
	}))

	rec, body := doJSON(t, srv, "GET", "/api/v1/players/search?q=lee", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []interface{}{"Lee, Bo"}, body["players"])

	rec, body = doJSON(t, srv, "GET", "/api/v1/players/stats?name=Lee,+Bo&category=receiving&year=2020", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Lee, Bo", body["player_name"])

	rec, _ = doJSON(t, srv, "GET", "/api/v1/players/stats?name=Nobody&category=receiving&year=2020", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, srv, "GET", "/api/v1/players/search", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetGameResults(t *testing.T) {
	srv, db := testServer(t)
	ctx := context.Background()

	games := repository.NewGames(db)
	require.NoError(t, games.Upsert(ctx, &store.GameResult{
		GameDate: "2024-09-07", Opponent: "Gannon", Site: "H", Result: "W", Score: "24-17",
	}))
	require.NoError(t, games.Upsert(ctx, &store.GameResult{
		GameDate: "2023-09-09", Opponent: "Edinboro", Result: "L", Score: "10-20",
	}))

	rec, body := doJSON(t, srv, "GET", "/api/v1/games?year=2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 1, body["count"])

	rec, body = doJSON(t, srv, "GET", "/api/v1/games", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 2, body["count"])
}

func TestScrapeJobEndpoints(t *testing.T) {
	srv, _ := testServer(t)

	rec, body := doJSON(t, srv, "POST", "/api/v1/scrape",
		`{"category":"punting","start_year":2020,"end_year":2022}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	job := body["job"].(map[string]interface{})
	require.Equal(t, "queued", job["status"])
	jobID := job["job_id"].(string)

	rec, body = doJSON(t, srv, "GET", "/api/v1/scrape/jobs/"+jobID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "punting", body["category"])

	rec, body = doJSON(t, srv, "GET", "/api/v1/scrape/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, body["history"], 1)

	rec, _ = doJSON(t, srv, "POST", "/api/v1/scrape", `{"category":"bowling"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, srv, "GET", "/api/v1/scrape/jobs/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
