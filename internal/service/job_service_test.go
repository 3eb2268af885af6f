package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/musicvideo/internal/model"
)

// newTestRedis connects to a local Redis on a scratch DB or skips the test.
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})
	return rdb
}

func newTestJobService(t *testing.T) (*JobService, *redis.Client) {
	rdb := newTestRedis(t)
	ac := asynq.NewClient(asynq.RedisClientOpt{Addr: "localhost:6379", DB: 15})
	t.Cleanup(func() { ac.Close() })
	return NewJobService(rdb, ac), rdb
}

func TestSubmitEnqueueFailureLeavesNoRecord(t *testing.T) {
	rdb := newTestRedis(t)
	dead := asynq.NewClient(asynq.RedisClientOpt{Addr: "localhost:1", DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { dead.Close() })
	svc := NewJobService(rdb, dead)
	ctx := context.Background()

	_, err := svc.Submit(ctx, []byte(`{"vision":"neon"}`))
	require.Error(t, err)

	keys, err := rdb.Keys(ctx, "job:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestJobLifecycle(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	sub, err := svc.Submit(ctx, []byte(`{"musicStyle":"unique","uniqueVision":"dreamy synth"}`))
	require.NoError(t, err)
	assert.Equal(t, model.JobStateReceived, sub.State)

	for _, st := range []model.JobState{
		model.JobStateMusicInProgress,
		model.JobStateMusicDone,
		model.JobStateVideoInProgress,
		model.JobStateVideoDone,
	} {
		require.NoError(t, svc.Transition(ctx, sub.JobID, st, ""))
	}

	_, err = svc.GetResult(ctx, sub.JobID)
	assert.ErrorIs(t, err, ErrJobNotCompleted)

	require.NoError(t, svc.Complete(ctx, sub.JobID, "/static/sample_result.mp4"))

	status, err := svc.GetStatus(ctx, sub.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobStateResponded, status.State)
	assert.Equal(t, 100, status.Progress)
	assert.Len(t, status.History, 6)
	assert.NotNil(t, status.CompletedAt)

	res, err := svc.GetResult(ctx, sub.JobID)
	require.NoError(t, err)
	assert.Equal(t, "/static/sample_result.mp4", res.VideoURL)
}

func TestJobTransitionRejectsSkips(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, NewJobID())
	require.NoError(t, err)

	assert.Error(t, svc.Transition(ctx, job.ID, model.JobStateVideoInProgress, ""))
	assert.Error(t, svc.Complete(ctx, job.ID, "/x.mp4"))
}

func TestJobFailureIsTerminal(t *testing.T) {
	svc, _ := newTestJobService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, NewJobID())
	require.NoError(t, err)
	require.NoError(t, svc.Transition(ctx, job.ID, model.JobStateMusicInProgress, ""))
	require.NoError(t, svc.Transition(ctx, job.ID, model.JobStateMusicFailed, "Missing GROK_API_KEY"))

	status, err := svc.GetStatus(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, status.Error)
	assert.Equal(t, "Missing GROK_API_KEY", *status.Error)
	assert.Error(t, svc.Transition(ctx, job.ID, model.JobStateVideoInProgress, ""))
}

func TestJobNotFound(t *testing.T) {
	svc, _ := newTestJobService(t)

	_, err := svc.GetStatus(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestNewJobTask(t *testing.T) {
	task, err := NewJobTask("job-1", []byte(`{"vision":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, TaskTypeJobProcess, task.Type())

	var p JobPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "job-1", p.JobID)
	assert.JSONEq(t, `{"vision":"x"}`, string(p.Body))
}
