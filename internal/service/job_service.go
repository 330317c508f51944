package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/brandkit/api/internal/model"
	"github.com/brandkit/api/internal/store"
)

const (
	TaskTypeGenerate = "brand:generate"
	QueueGenerate    = "generate"

	jobTTL = 24 * time.Hour
)

// ErrJobNotFound is returned for missing jobs and jobs owned by another user
var ErrJobNotFound = errors.New("job not found")

// JobService manages async generation jobs stored in Redis
type JobService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
	identities  store.IdentityStore
	newID       func() string
}

// NewJobService creates a new job service
func NewJobService(redisClient *redis.Client, asynqClient *asynq.Client, identities store.IdentityStore) *JobService {
	return &JobService{
		redis:       redisClient,
		asynqClient: asynqClient,
		identities:  identities,
		newID:       func() string { return uuid.New().String() },
	}
}

// Start records a queued job and enqueues it
func (s *JobService) Start(ctx context.Context, userID string, req *model.GenerateRequest) (*model.JobStartResponse, error) {
	job := &model.Job{
		ID:        s.newID(),
		UserID:    userID,
		Status:    model.JobStatusQueued,
		Request:   *req,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	task, err := NewGenerateTask(&model.GenerateJobPayload{
		JobID:   job.ID,
		UserID:  userID,
		Request: *req,
	})
	if err != nil {
		s.discardJob(ctx, job.ID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	// The pipeline is never retried; a failed job stays failed.
	_, err = s.asynqClient.EnqueueContext(ctx, task,
		asynq.Queue(QueueGenerate),
		asynq.MaxRetry(0),
		asynq.Retention(jobTTL),
	)
	if err != nil {
		s.discardJob(ctx, job.ID)
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.JobStartResponse{
		JobID:     job.ID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
	}, nil
}

// GetStatus returns the job if it belongs to userID
func (s *JobService) GetStatus(ctx context.Context, userID, jobID string) (*model.JobStatusResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, ErrJobNotFound
	}

	resp := &model.JobStatusResponse{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		CurrentStep: job.CurrentStep,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
	}

	if job.Status == model.JobStatusSucceeded && job.BrandID != "" {
		brand, err := s.identities.FindOwned(ctx, userID, job.BrandID)
		if err != nil {
			return nil, fmt.Errorf("failed to load brand: %w", err)
		}
		resp.Brand = brand.ToResponse()
	}

	return resp, nil
}

// UpdateProgress records a pipeline transition (called by worker)
func (s *JobService) UpdateProgress(ctx context.Context, jobID string, state model.PipelineState) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = state.Progress()
	job.CurrentStep = state

	if job.Status == model.JobStatusQueued {
		job.Status = model.JobStatusRunning
		now := time.Now().UTC()
		job.StartedAt = &now
	}

	return s.saveJob(ctx, job)
}

// CompleteJob marks job as succeeded (called by worker)
func (s *JobService) CompleteJob(ctx context.Context, jobID, brandID string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusSucceeded
	job.Progress = 100
	job.CurrentStep = model.StateDone
	job.BrandID = brandID
	now := time.Now().UTC()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// FailJob marks job as failed (called by worker)
func (s *JobService) FailJob(ctx context.Context, jobID string, jobErr *model.JobError) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusFailed
	job.CurrentStep = model.StateFailed
	job.Error = jobErr
	now := time.Now().UTC()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// Helper methods

func jobKey(jobID string) string {
	return fmt.Sprintf("brandjob:%s", jobID)
}

func (s *JobService) saveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, jobKey(job.ID), data, jobTTL).Err()
}

// discardJob removes a record whose task never reached the queue
func (s *JobService) discardJob(ctx context.Context, jobID string) {
	s.redis.Del(context.WithoutCancel(ctx), jobKey(jobID))
}

func (s *JobService) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}

	return &job, nil
}

// NewGenerateTask wraps a payload in an asynq task
func NewGenerateTask(payload *model.GenerateJobPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeGenerate, data), nil
}

// JobErrorFrom converts a pipeline error into its client-facing form
func JobErrorFrom(err error) *model.JobError {
	var gerr *model.GenerationError
	if errors.As(err, &gerr) {
		return &model.JobError{Stage: gerr.Stage, Kind: gerr.Kind, Message: gerr.Message()}
	}
	return &model.JobError{Message: "Failed to generate brand identity"}
}
