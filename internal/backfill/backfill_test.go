package backfill

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/gridiron/internal/store"
	"github.com/fortuna/gridiron/internal/store/repository"
)

func testDB(t *testing.T) *store.Database {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRequestValidate(t *testing.T) {
	req := Request{Category: "punting"}
	require.NoError(t, req.Validate())
	require.Equal(t, DefaultStartYear, req.StartYear)
	require.Equal(t, DefaultEndYear, req.EndYear)

	require.NoError(t, (&Request{Category: CategoryResults, StartYear: 2020, EndYear: 2021}).Validate())

	require.Error(t, (&Request{Category: "bowling"}).Validate())
	require.Error(t, (&Request{Category: "punting", StartYear: 2022, EndYear: 2020}).Validate())
}

func TestRepositoryJobLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))

	job, err := repo.CreateJob(ctx, &Job{
		Category:      "rushing",
		StartYear:     2020,
		EndYear:       2022,
		Status:        JobStatusQueued,
		StatusMessage: "Queued",
		ProgressTotal: 3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, job.JobID)
	require.Equal(t, JobStatusQueued, job.Status)
	require.Nil(t, job.StartedAt)

	claimed, err := repo.MarkNextJobRunning(ctx)
	require.NoError(t, err)
	require.NotNil(t, claimed)
	require.Equal(t, job.JobID, claimed.JobID)
	require.Equal(t, JobStatusRunning, claimed.Status)
	require.NotNil(t, claimed.StartedAt)

	// nothing left in the queue
	none, err := repo.MarkNextJobRunning(ctx)
	require.NoError(t, err)
	require.Nil(t, none)

	require.NoError(t, repo.UpdateProgress(ctx, job.JobID, 1, 3, "Scraping 2021 (2/3)"))
	require.NoError(t, repo.AppendEvent(ctx, job.JobID, "year", "Season 2020 done, 12 rows", nil, nil))

	active, err := repo.GetActiveJob(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Equal(t, 1, active.ProgressCurrent)

	require.NoError(t, repo.UpdateStatus(ctx, job.JobID, JobStatusCompleted, "Job completed", nil))

	done, err := repo.GetJob(ctx, job.JobID)
	require.NoError(t, err)
	require.Equal(t, JobStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	recent, err := repo.ListRecentJobs(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestRepositoryResetStuckJobs(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(testDB(t))

	_, err := repo.CreateJob(ctx, &Job{Category: "defense", StartYear: 2021, EndYear: 2021, Status: JobStatusQueued})
	require.NoError(t, err)

	claimed, err := repo.MarkNextJobRunning(ctx)
	require.NoError(t, err)
	require.NotNil(t, claimed)

	require.NoError(t, repo.ResetStuckJobs(ctx))

	job, err := repo.GetJob(ctx, claimed.JobID)
	require.NoError(t, err)
	require.Equal(t, JobStatusQueued, job.Status)
}

type fakeClient struct {
	pages map[int]string
}

func (f *fakeClient) FetchSeason(ctx context.Context, year int) (string, error) {
	return f.pages[year], nil
}

func (f *fakeClient) Close() {}

const puntingSeasonPage = `<html><body>
<table>
<caption>Individual Punting Statistics</caption>
<thead><tr><th>#</th><th>Player</th><th>GP</th><th>No</th><th>Yds</th><th>Avg</th></tr></thead>
<tbody>
<tr><td>44</td><td>Koch, Sam</td><td>10</td><td>41</td><td>1640</td><td>40.0</td></tr>
<tr><td></td><td>Totals</td><td>10</td><td>41</td><td>1640</td><td>40.0</td></tr>
</tbody>
</table>
</body></html>`

const resultsSeasonPage = `<html><body>
<table>
<tr><th>Date</th><th>Opponent</th><th>Score</th><th>Attendance</th></tr>
<tr><td>Sep 7, 2024</td><td>vs Gannon</td><td>W 24-17</td><td>3,215</td></tr>
<tr><td>Sep 14, 2024</td><td>at Edinboro</td><td>L 10-20</td><td>1,800</td></tr>
</table>
</body></html>`

func TestRunnerSeasonJob(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	client := &fakeClient{pages: map[int]string{
		2023: puntingSeasonPage,
		2024: puntingSeasonPage,
	}}
	runner := NewRunner(db, client, nil)

	err := runner.Run(ctx, JobSpec{Category: "punting", StartYear: 2023, EndYear: 2024}, nil)
	require.NoError(t, err)

	stats := repository.NewSeasonStats(db)
	rows, err := stats.ListByCategoryYear(ctx, "punting", 2023)
	require.NoError(t, err)
	require.Len(t, rows, 1, "filler Totals row must not be stored")
	require.Equal(t, "Koch, Sam", rows[0].PlayerName)
	require.Equal(t, "44", rows[0].Jersey)
	require.Equal(t, "41", rows[0].Stats["NO"])

	years, err := stats.Years(ctx, "punting")
	require.NoError(t, err)
	require.Equal(t, []int{2023, 2024}, years)
}

func TestRunnerResultsJob(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	client := &fakeClient{pages: map[int]string{2024: resultsSeasonPage}}
	runner := NewRunner(db, client, nil)

	err := runner.Run(ctx, JobSpec{Category: CategoryResults, StartYear: 2024, EndYear: 2024}, nil)
	require.NoError(t, err)

	games := repository.NewGames(db)
	all, err := games.List(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Gannon", all[0].Opponent)
	require.Equal(t, "W", all[0].Result)
	require.Equal(t, "3215", all[0].Attendance)
	require.Equal(t, "A", all[1].Site)
}

func TestRunnerSkipsMissingSeasons(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	client := &fakeClient{pages: map[int]string{
		2022: `<html><body><p>no stats published</p></body></html>`,
		2023: puntingSeasonPage,
	}}
	runner := NewRunner(db, client, nil)

	err := runner.Run(ctx, JobSpec{Category: "punting", StartYear: 2022, EndYear: 2023}, nil)
	require.NoError(t, err)

	years, err := repository.NewSeasonStats(db).Years(ctx, "punting")
	require.NoError(t, err)
	require.Equal(t, []int{2023}, years)
}
