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
	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/model"
)

const (
	TaskTypeJobProcess = "job:process"
	QueueJobs          = "jobs"

	jobTTL = 24 * time.Hour
)

var (
	ErrJobNotFound     = errors.New("job not found")
	ErrJobNotCompleted = errors.New("job not completed")
)

// JobPayload is the asynq task body for a queued job.
type JobPayload struct {
	JobID string          `json:"jobId"`
	Body  json.RawMessage `json:"body"`
}

// JobService keeps job records in Redis and queues pipeline runs.
type JobService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
}

func NewJobService(redisClient *redis.Client, asynqClient *asynq.Client) *JobService {
	return &JobService{
		redis:       redisClient,
		asynqClient: asynqClient,
	}
}

// NewJobID returns a fresh job identifier.
func NewJobID() string {
	return uuid.New().String()
}

// Submit records a new job and queues it for the worker.
func (s *JobService) Submit(ctx context.Context, body []byte) (*model.JobSubmitResponse, error) {
	jobID := NewJobID()

	task, err := NewJobTask(jobID, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	job, err := s.Create(ctx, jobID)
	if err != nil {
		return nil, err
	}

	_, err = s.asynqClient.EnqueueContext(ctx, task,
		asynq.Queue(QueueJobs),
		asynq.MaxRetry(0),
		asynq.Retention(jobTTL),
		asynq.TaskID(jobID),
	)
	if err != nil {
		if delErr := s.redis.Del(ctx, jobKey(jobID)).Err(); delErr != nil {
			log.Warn().Err(delErr).Str("job_id", jobID).Msg("failed to remove unqueued job record")
		}
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}

	return &model.JobSubmitResponse{
		JobID:     jobID,
		State:     job.State,
		CreatedAt: job.CreatedAt,
	}, nil
}

// Create stores a job record in the received state.
func (s *JobService) Create(ctx context.Context, jobID string) (*model.Job, error) {
	now := time.Now()
	job := &model.Job{
		ID:        jobID,
		State:     model.JobStateReceived,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []model.JobTransition{{State: model.JobStateReceived, At: now}},
	}
	if err := s.saveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	return job, nil
}

// GetStatus returns the current status of a job
func (s *JobService) GetStatus(ctx context.Context, jobID string) (*model.JobStatusResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return &model.JobStatusResponse{
		JobID:       job.ID,
		State:       job.State,
		Progress:    job.Progress,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
		History:     job.History,
	}, nil
}

// GetResult returns the video URL of a job that has responded.
func (s *JobService) GetResult(ctx context.Context, jobID string) (*model.JobResultResponse, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.State != model.JobStateResponded {
		return nil, ErrJobNotCompleted
	}
	return &model.JobResultResponse{JobID: job.ID, VideoURL: job.VideoURL}, nil
}

// Transition moves a job to state, rejecting steps the lifecycle forbids.
// A failed state stores detail as the job error.
func (s *JobService) Transition(ctx context.Context, jobID string, state model.JobState, detail string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !model.CanTransition(job.State, state) {
		return fmt.Errorf("illegal job transition %s -> %s", job.State, state)
	}

	now := time.Now()
	job.State = state
	job.Progress = state.Progress()
	job.UpdatedAt = now
	job.History = append(job.History, model.JobTransition{State: state, At: now})

	if state.Failed() {
		msg := detail
		job.Error = &msg
		job.CompletedAt = &now
	}

	return s.saveJob(ctx, job)
}

// Complete records the video URL and moves the job to responded.
func (s *JobService) Complete(ctx context.Context, jobID, videoURL string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if !model.CanTransition(job.State, model.JobStateResponded) {
		return fmt.Errorf("illegal job transition %s -> %s", job.State, model.JobStateResponded)
	}

	now := time.Now()
	job.State = model.JobStateResponded
	job.Progress = model.JobStateResponded.Progress()
	job.VideoURL = videoURL
	job.UpdatedAt = now
	job.CompletedAt = &now
	job.History = append(job.History, model.JobTransition{State: model.JobStateResponded, At: now})

	return s.saveJob(ctx, job)
}

// Fail stores errMsg on a job that died before reaching a stage, leaving its
// state untouched.
func (s *JobService) Fail(ctx context.Context, jobID, errMsg string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Error != nil {
		return nil
	}

	now := time.Now()
	job.Error = &errMsg
	job.UpdatedAt = now
	job.CompletedAt = &now
	return s.saveJob(ctx, job)
}

func jobKey(jobID string) string {
	return fmt.Sprintf("job:%s", jobID)
}

func (s *JobService) saveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, jobKey(job.ID), data, jobTTL).Err()
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

// NewJobTask builds the asynq task for a job.
func NewJobTask(jobID string, body []byte) (*asynq.Task, error) {
	data, err := json.Marshal(JobPayload{JobID: jobID, Body: body})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeJobProcess, data), nil
}
