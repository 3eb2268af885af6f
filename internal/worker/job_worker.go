package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/model"
	"github.com/makeasinger/musicvideo/internal/pipeline"
	"github.com/makeasinger/musicvideo/internal/service"
)

// JobStore persists job state for the status API.
type JobStore interface {
	pipeline.Tracker
	Complete(ctx context.Context, jobID, videoURL string) error
	Fail(ctx context.Context, jobID, errMsg string) error
}

// Broadcaster pushes job updates to websocket subscribers.
type Broadcaster interface {
	pipeline.Tracker
	BroadcastComplete(jobID string, result interface{})
	BroadcastError(jobID string, code, message string)
}

// JobWorker runs queued jobs through the pipeline.
type JobWorker struct {
	orchestrator *pipeline.Orchestrator
	jobs         JobStore
	hub          Broadcaster
}

func NewJobWorker(orchestrator *pipeline.Orchestrator, jobs JobStore, hub Broadcaster) *JobWorker {
	return &JobWorker{
		orchestrator: orchestrator,
		jobs:         jobs,
		hub:          hub,
	}
}

// ProcessTask handles a job:process task. Failed jobs are never retried.
func (w *JobWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload service.JobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}

	jobID := payload.JobID
	logger := log.With().Str("job_id", jobID).Logger()
	logger.Info().Msg("starting job")

	tracker := pipeline.Trackers{w.jobs, w.hub}
	result, err := w.orchestrator.Run(ctx, jobID, payload.Body, tracker)
	if err != nil {
		w.failJob(ctx, jobID, err)
		return fmt.Errorf("job %s failed: %v: %w", jobID, err, asynq.SkipRetry)
	}

	if err := w.jobs.Complete(ctx, jobID, result.VideoURL); err != nil {
		logger.Error().Err(err).Msg("failed to mark job as responded")
	}
	w.hub.BroadcastComplete(jobID, model.CreateResponse{VideoURL: result.VideoURL})

	logger.Info().Str("video_url", result.VideoURL).Msg("job completed")
	return nil
}

func (w *JobWorker) failJob(ctx context.Context, jobID string, err error) {
	message, _ := pipeline.Describe(err)
	if ferr := w.jobs.Fail(ctx, jobID, message); ferr != nil {
		log.Error().Err(ferr).Str("job_id", jobID).Msg("failed to mark job as failed")
	}

	code := string(pipeline.KindOf(err))
	if code == "" {
		code = "JOB_FAILED"
	}
	w.hub.BroadcastError(jobID, code, message)
}
