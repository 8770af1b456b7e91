// Package backfill queues and executes season scrape jobs against the
// stats database.
package backfill

import (
	"time"
)

// CategoryResults is the pseudo-category for game results scraping. Every
// other category name comes from the scrape package registry.
const CategoryResults = "results"

// Default season window probed when a request leaves the years blank.
const (
	DefaultStartYear = 2012
	DefaultEndYear   = 2025
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job models the database representation of a scrape job.
type Job struct {
	JobID           string     `json:"job_id"`
	Category        string     `json:"category"`
	StartYear       int        `json:"start_year"`
	EndYear         int        `json:"end_year"`
	Status          JobStatus  `json:"status"`
	StatusMessage   string     `json:"status_message"`
	ProgressCurrent int        `json:"progress_current"`
	ProgressTotal   int        `json:"progress_total"`
	LastError       *string    `json:"last_error,omitempty"`
	RetryCount      int        `json:"retry_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	return &cpy
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	Category  string
	StartYear int
	EndYear   int
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnYearStart(year int, index int, total int)
	OnYearComplete(year int, rows int)
	OnProgress(message string, current int, total int)
	OnJobComplete()
	OnJobError(err error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs,omitempty"`
}

// StatusUpdate is pushed to subscribers whenever a job changes.
type StatusUpdate struct {
	JobID    string    `json:"job_id"`
	Category string    `json:"category"`
	Status   JobStatus `json:"status"`
	Message  string    `json:"message"`
	Current  int       `json:"current"`
	Total    int       `json:"total"`
}
