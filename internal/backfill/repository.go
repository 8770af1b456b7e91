package backfill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/gridiron/internal/store"
)

// Repository handles persistence for scrape jobs and events.
type Repository struct {
	db *store.Database
}

// NewRepository constructs a Repository.
func NewRepository(db *store.Database) *Repository {
	return &Repository{db: db}
}

// CreateJob inserts a new job row and returns the stored record.
func (r *Repository) CreateJob(ctx context.Context, job *Job) (*Job, error) {
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	now := time.Now().UTC()

	query := r.db.Rebind(`
		INSERT INTO scrape_jobs (
			job_id, category, start_year, end_year,
			status, status_message, progress_current, progress_total,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	if _, err := r.db.DB().ExecContext(ctx, query,
		job.JobID, job.Category, job.StartYear, job.EndYear,
		job.Status, job.StatusMessage, job.ProgressCurrent, job.ProgressTotal,
		now, now,
	); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	return r.GetJob(ctx, job.JobID)
}

// GetJob fetches one job by id. Returns nil when the id is unknown.
func (r *Repository) GetJob(ctx context.Context, jobID string) (*Job, error) {
	query := r.db.Rebind(`
		SELECT job_id, category, start_year, end_year,
			status, status_message, progress_current, progress_total,
			last_error, retry_count, created_at, updated_at, started_at, completed_at
		FROM scrape_jobs
		WHERE job_id = ?
	`)

	job, err := scanJob(r.db.DB().QueryRowContext(ctx, query, jobID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// UpdateStatus updates status, message and optional error.
func (r *Repository) UpdateStatus(ctx context.Context, jobID string, status JobStatus, message string, lastErr error) error {
	var errText sql.NullString
	if lastErr != nil {
		errText = sql.NullString{String: lastErr.Error(), Valid: true}
	}
	now := time.Now().UTC()

	terminal := status == JobStatusCompleted || status == JobStatusFailed || status == JobStatusCancelled

	var err error
	if terminal {
		query := r.db.Rebind(`
			UPDATE scrape_jobs
			SET status = ?, status_message = ?, last_error = ?, updated_at = ?, completed_at = ?
			WHERE job_id = ?
		`)
		_, err = r.db.DB().ExecContext(ctx, query, status, message, errText, now, now, jobID)
	} else {
		query := r.db.Rebind(`
			UPDATE scrape_jobs
			SET status = ?, status_message = ?, last_error = ?, updated_at = ?
			WHERE job_id = ?
		`)
		_, err = r.db.DB().ExecContext(ctx, query, status, message, errText, now, jobID)
	}
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// UpdateProgress updates the progress counters and optional message.
func (r *Repository) UpdateProgress(ctx context.Context, jobID string, current, total int, message string) error {
	query := r.db.Rebind(`
		UPDATE scrape_jobs
		SET progress_current = ?, progress_total = ?, status_message = ?, updated_at = ?
		WHERE job_id = ?
	`)

	if _, err := r.db.DB().ExecContext(ctx, query, current, total, message, time.Now().UTC(), jobID); err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return nil
}

// AppendEvent stores a log entry for a job.
func (r *Repository) AppendEvent(ctx context.Context, jobID string, eventType, message string, current, total *int) error {
	query := r.db.Rebind(`
		INSERT INTO scrape_job_events (event_id, job_id, event_type, message, progress_current, progress_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	var currentVal interface{}
	if current != nil {
		currentVal = *current
	}
	var totalVal interface{}
	if total != nil {
		totalVal = *total
	}

	if _, err := r.db.DB().ExecContext(ctx, query,
		uuid.NewString(), jobID, eventType, message, currentVal, totalVal, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("insert job event: %w", err)
	}
	return nil
}

// ResetStuckJobs moves running jobs back to queued (used during service restarts).
func (r *Repository) ResetStuckJobs(ctx context.Context) error {
	query := r.db.Rebind(`
		UPDATE scrape_jobs
		SET status = 'queued',
			status_message = 'Reset after service restart',
			updated_at = ?
		WHERE status = 'running'
	`)
	if _, err := r.db.DB().ExecContext(ctx, query, time.Now().UTC()); err != nil {
		return fmt.Errorf("reset stuck jobs: %w", err)
	}
	return nil
}

// MarkNextJobRunning claims the oldest queued job. The claim runs inside a
// transaction with a status guard on the UPDATE, so two workers cannot take
// the same job.
func (r *Repository) MarkNextJobRunning(ctx context.Context) (*Job, error) {
	tx, err := r.db.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim: %w", err)
	}
	defer tx.Rollback()

	var jobID string
	err = tx.QueryRowContext(ctx, r.db.Rebind(`
		SELECT job_id FROM scrape_jobs
		WHERE status = 'queued'
		ORDER BY created_at
		LIMIT 1
	`)).Scan(&jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select next job: %w", err)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, r.db.Rebind(`
		UPDATE scrape_jobs
		SET status = 'running',
			status_message = 'Starting job...',
			started_at = COALESCE(started_at, ?),
			updated_at = ?
		WHERE job_id = ? AND status = 'queued'
	`), now, now, jobID)
	if err != nil {
		return nil, fmt.Errorf("claim job: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// lost the race to another worker
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}

	return r.GetJob(ctx, jobID)
}

// GetActiveJob returns the currently running job, if any.
func (r *Repository) GetActiveJob(ctx context.Context) (*Job, error) {
	query := `
		SELECT job_id, category, start_year, end_year,
			status, status_message, progress_current, progress_total,
			last_error, retry_count, created_at, updated_at, started_at, completed_at
		FROM scrape_jobs
		WHERE status = 'running'
		ORDER BY started_at DESC
		LIMIT 1
	`

	job, err := scanJob(r.db.DB().QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active job: %w", err)
	}
	return job, nil
}

// ListRecentJobs returns the most recently created jobs.
func (r *Repository) ListRecentJobs(ctx context.Context, limit int) ([]*Job, error) {
	query := r.db.Rebind(`
		SELECT job_id, category, start_year, end_year,
			status, status_message, progress_current, progress_total,
			last_error, retry_count, created_at, updated_at, started_at, completed_at
		FROM scrape_jobs
		ORDER BY created_at DESC
		LIMIT ?
	`)

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

func scanJob(scanner interface {
	Scan(dest ...interface{}) error
}) (*Job, error) {
	job := &Job{}
	var lastError sql.NullString
	var startedAt, completedAt sql.NullTime
	err := scanner.Scan(
		&job.JobID,
		&job.Category,
		&job.StartYear,
		&job.EndYear,
		&job.Status,
		&job.StatusMessage,
		&job.ProgressCurrent,
		&job.ProgressTotal,
		&lastError,
		&job.RetryCount,
		&job.CreatedAt,
		&job.UpdatedAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastError.Valid {
		job.LastError = &lastError.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		job.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}
	return job, nil
}
