package services

import (
	"context"
	"time"

	"github.com/soundpost/transcriptor/internal/cache"
	"github.com/soundpost/transcriptor/internal/models"
	pgrepo "github.com/soundpost/transcriptor/internal/repositories/postgres"
	"github.com/soundpost/transcriptor/internal/utils"
)

// JobService backs the inspection API.
type JobService interface {
	Get(ctx context.Context, jobID string) (*models.TranscriptionJob, error)
	ListRecent(ctx context.Context, limit int) ([]models.TranscriptionJob, error)
	History(ctx context.Context, bucket, object string) ([]models.TranscriptionJob, error)
}

const jobCacheTTL = 10 * time.Minute

type jobService struct {
	jobs  pgrepo.JobRepository
	cache cache.Cache // optional
}

func NewJobService(jobs pgrepo.JobRepository, c cache.Cache) JobService {
	return &jobService{jobs: jobs, cache: c}
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.TranscriptionJob, error) {
	const op = "JobService.Get"

	if jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job_id is required", nil)
	}

	key := "jobs:row:" + jobID
	if s.cache != nil {
		var cached models.TranscriptionJob
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			return nil, err
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	// Only terminal rows are cacheable; a processing row changes under us.
	if s.cache != nil && job.Status != models.JobProcessing {
		_ = s.cache.SetJSON(ctx, key, job, jobCacheTTL)
	}
	return job, nil
}

func (s *jobService) ListRecent(ctx context.Context, limit int) ([]models.TranscriptionJob, error) {
	const op = "JobService.ListRecent"

	rows, err := s.jobs.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return rows, nil
}

func (s *jobService) History(ctx context.Context, bucket, object string) ([]models.TranscriptionJob, error) {
	const op = "JobService.History"

	if bucket == "" || object == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "bucket and object are required", nil)
	}
	rows, err := s.jobs.ListByObject(ctx, bucket, object)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs for object", err)
	}
	return rows, nil
}
