package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/brandkit/api/internal/model"
	"github.com/brandkit/api/internal/service"
)

// JobTracker persists job state between pipeline transitions
type JobTracker interface {
	UpdateProgress(ctx context.Context, jobID string, state model.PipelineState) error
	CompleteJob(ctx context.Context, jobID, brandID string) error
	FailJob(ctx context.Context, jobID string, jobErr *model.JobError) error
}

// Notifier pushes job events to live subscribers
type Notifier interface {
	BroadcastProgress(jobID string, status model.JobStatus, state model.PipelineState)
	BroadcastComplete(jobID string, brand *model.BrandResponse)
	BroadcastError(jobID string, jobErr model.JobError)
}

// GenerationWorker runs queued brand generations
type GenerationWorker struct {
	generation *service.GenerationService
	jobs       JobTracker
	notifier   Notifier
	logger     *zap.Logger
}

// NewGenerationWorker creates a new generation worker
func NewGenerationWorker(generation *service.GenerationService, jobs JobTracker, notifier Notifier, logger *zap.Logger) *GenerationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationWorker{
		generation: generation,
		jobs:       jobs,
		notifier:   notifier,
		logger:     logger.Named("worker"),
	}
}

// ProcessTask handles generation task processing. Pipeline failures are
// recorded on the job and the task is skipped so asynq does not retry it.
func (w *GenerationWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.GenerateJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal generate payload: %v: %w", err, asynq.SkipRetry)
	}

	log := w.logger.With(zap.String("job_id", payload.JobID), zap.String("user_id", payload.UserID))
	log.Info("starting generation job")

	identity, err := w.generation.Generate(ctx, payload.UserID, &payload.Request, func(state model.PipelineState) {
		if state == model.StateDone || state == model.StateFailed {
			return
		}
		w.updateProgress(ctx, log, payload.JobID, state)
	})
	if err != nil {
		w.failJob(ctx, log, payload.JobID, service.JobErrorFrom(err))
		return fmt.Errorf("generation failed: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.jobs.CompleteJob(ctx, payload.JobID, identity.ID); err != nil {
		log.Error("failed to mark job as completed", zap.Error(err))
		return err
	}

	w.notifier.BroadcastComplete(payload.JobID, identity.ToResponse())
	log.Info("generation job completed", zap.String("brand_id", identity.ID))
	return nil
}

func (w *GenerationWorker) updateProgress(ctx context.Context, log *zap.Logger, jobID string, state model.PipelineState) {
	if err := w.jobs.UpdateProgress(ctx, jobID, state); err != nil {
		log.Warn("failed to update progress", zap.String("state", string(state)), zap.Error(err))
	}
	w.notifier.BroadcastProgress(jobID, model.JobStatusRunning, state)
}

func (w *GenerationWorker) failJob(ctx context.Context, log *zap.Logger, jobID string, jobErr *model.JobError) {
	if err := w.jobs.FailJob(ctx, jobID, jobErr); err != nil {
		log.Error("failed to mark job as failed", zap.Error(err))
	}
	w.notifier.BroadcastError(jobID, *jobErr)
}
