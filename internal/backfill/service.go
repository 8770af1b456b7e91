package backfill

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fortuna/gridiron/internal/fetch"
	"github.com/fortuna/gridiron/internal/scrape"
	"github.com/fortuna/gridiron/internal/store"
)

// Request represents a scrape invocation request.
type Request struct {
	Category  string `json:"category"`
	StartYear int    `json:"start_year"`
	EndYear   int    `json:"end_year"`
}

// Validate checks the category name and fills default years.
func (r *Request) Validate() error {
	if r.Category != CategoryResults {
		if _, err := scrape.Lookup(r.Category); err != nil {
			return err
		}
	}
	if r.StartYear == 0 {
		r.StartYear = DefaultStartYear
	}
	if r.EndYear == 0 {
		r.EndYear = DefaultEndYear
	}
	if r.EndYear < r.StartYear {
		return fmt.Errorf("end_year %d precedes start_year %d", r.EndYear, r.StartYear)
	}
	return nil
}

// Service coordinates job persistence, execution, and status reporting.
type Service struct {
	repo   *Repository
	runner *Runner

	historyLimit int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	broadcast func(StatusUpdate)

	logger *log.Logger
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(db *store.Database, static, rendered fetch.Client, logger *log.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	if logger == nil {
		logger = log.New(log.Writer(), "[scrape-jobs] ", log.LstdFlags)
	}

	return &Service{
		repo:         NewRepository(db),
		runner:       NewRunner(db, static, rendered),
		historyLimit: 10,
		ctx:          ctx,
		cancel:       cancel,
		logger:       logger,
	}
}

// SetBroadcast registers a callback invoked on every status change. Used by
// the websocket hub to push live progress.
func (s *Service) SetBroadcast(fn func(StatusUpdate)) {
	s.mu.Lock()
	s.broadcast = fn
	s.mu.Unlock()
}

func (s *Service) publish(u StatusUpdate) {
	s.mu.Lock()
	fn := s.broadcast
	s.mu.Unlock()
	if fn != nil {
		fn(u)
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	if err := s.repo.ResetStuckJobs(s.ctx); err != nil {
		s.logger.Printf("failed to reset jobs: %v", err)
	}

	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops the worker and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := &Job{
		Category:      req.Category,
		StartYear:     req.StartYear,
		EndYear:       req.EndYear,
		Status:        JobStatusQueued,
		StatusMessage: "Queued",
		ProgressTotal: req.EndYear - req.StartYear + 1,
	}

	stored, err := s.repo.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}

	_ = s.repo.AppendEvent(ctx, stored.JobID, "queued", "Job queued", nil, nil)
	s.publish(StatusUpdate{
		JobID:    stored.JobID,
		Category: stored.Category,
		Status:   JobStatusQueued,
		Message:  "Job queued",
		Total:    stored.ProgressTotal,
	})

	return stored, nil
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	active, err := s.repo.GetActiveJob(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.ListRecentJobs(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{
		ActiveJob: active,
		History:   history,
	}, nil
}

// GetJob returns one job by id, or nil.
func (s *Service) GetJob(ctx context.Context, jobID string) (*Job, error) {
	return s.repo.GetJob(ctx, jobID)
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
			job, err := s.repo.MarkNextJobRunning(s.ctx)
			if err != nil {
				s.logger.Printf("claim job error: %v", err)
				time.Sleep(time.Second)
				continue
			}
			if job == nil {
				select {
				case <-s.ctx.Done():
					return
				case <-ticker.C:
					continue
				}
			}

			s.executeJob(job)
		}
	}
}

func (s *Service) executeJob(job *Job) {
	spec := JobSpec{
		Category:  job.Category,
		StartYear: job.StartYear,
		EndYear:   job.EndYear,
	}

	reporter := &jobReporter{
		svc:      s,
		jobID:    job.JobID,
		category: job.Category,
		total:    spec.EndYear - spec.StartYear + 1,
	}

	if err := s.runner.Run(s.ctx, spec, reporter); err != nil {
		s.logger.Printf("job %s failed: %v", job.JobID, err)
		_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Job failed", err)
		s.publish(StatusUpdate{
			JobID:    job.JobID,
			Category: job.Category,
			Status:   JobStatusFailed,
			Message:  err.Error(),
			Total:    reporter.total,
		})
		return
	}

	_ = s.repo.UpdateStatus(s.ctx, job.JobID, JobStatusCompleted, "Job completed", nil)
	s.publish(StatusUpdate{
		JobID:    job.JobID,
		Category: job.Category,
		Status:   JobStatusCompleted,
		Message:  "Job completed",
		Current:  reporter.total,
		Total:    reporter.total,
	})
}

type jobReporter struct {
	svc      *Service
	jobID    string
	category string
	total    int
}

func (r *jobReporter) progress(message string, current int) {
	_ = r.svc.repo.UpdateProgress(r.svc.ctx, r.jobID, current, r.total, message)
	r.svc.publish(StatusUpdate{
		JobID:    r.jobID,
		Category: r.category,
		Status:   JobStatusRunning,
		Message:  message,
		Current:  current,
		Total:    r.total,
	})
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	r.progress("Job starting", 0)
}

func (r *jobReporter) OnYearStart(year int, index int, total int) {
	if total > 0 {
		r.total = total
	}
	r.progress(fmt.Sprintf("Scraping %d (%d/%d)", year, index+1, total), index)
}

func (r *jobReporter) OnYearComplete(year int, rows int) {
	_ = r.svc.repo.AppendEvent(r.svc.ctx, r.jobID, "year",
		fmt.Sprintf("Season %d done, %d rows", year, rows), nil, nil)
}

func (r *jobReporter) OnProgress(message string, current int, total int) {
	if total > 0 {
		r.total = total
	}
	r.progress(message, current)
}

func (r *jobReporter) OnJobComplete() {
	r.progress("Job complete", r.total)
}

func (r *jobReporter) OnJobError(err error) {
	_ = r.svc.repo.AppendEvent(r.svc.ctx, r.jobID, "error", err.Error(), nil, nil)
}
