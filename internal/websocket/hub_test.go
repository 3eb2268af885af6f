package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/musicvideo/internal/model"
)

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestHubBroadcastsToJobSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	watcher := newClient("job-1", nil, 4)
	other := newClient("job-2", nil, 4)
	hub.Register(watcher)
	hub.Register(other)
	assert.Eventually(t, func() bool { return hub.Subscribers("job-1") == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Transition(context.Background(), "job-1", model.JobStateMusicDone, "/tmp/a.mp3"))

	var progress model.WSProgressMessage
	require.NoError(t, json.Unmarshal(receive(t, watcher), &progress))
	assert.Equal(t, model.WSMessageTypeProgress, progress.Type)
	assert.Equal(t, model.JobStateMusicDone, progress.State)
	assert.Equal(t, 50, progress.Progress)

	hub.BroadcastComplete("job-1", model.CreateResponse{VideoURL: "/static/sample_result.mp4"})
	assert.JSONEq(t,
		`{"type":"complete","jobId":"job-1","result":{"video_url":"/static/sample_result.mp4"}}`,
		string(receive(t, watcher)))

	hub.BroadcastError("job-1", "STAGE_PROCESS_ERROR", "Music generation failed")
	var errMsg model.WSErrorMessage
	require.NoError(t, json.Unmarshal(receive(t, watcher), &errMsg))
	assert.Equal(t, "Music generation failed", errMsg.Error.Message)

	assert.Empty(t, other.Send)

	hub.Unregister(watcher)
	assert.Eventually(t, func() bool { return hub.Subscribers("job-1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubDropsSlowClientWithoutClosingSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := newClient("job-slow", nil, 1)
	hub.Register(slow)
	assert.Eventually(t, func() bool { return hub.Subscribers("job-slow") == 1 }, time.Second, 5*time.Millisecond)

	hub.BroadcastState("job-slow", model.JobStateMusicInProgress, "")
	hub.BroadcastState("job-slow", model.JobStateMusicDone, "")
	assert.Eventually(t, func() bool { return hub.Subscribers("job-slow") == 0 }, time.Second, 5*time.Millisecond)

	// a late pong from the reader loop must not panic
	assert.NotPanics(t, func() {
		assert.False(t, slow.trySend([]byte(`{"type":"pong"}`)))
	})

	select {
	case <-slow.done:
	default:
		t.Fatal("dropped client not marked done")
	}

	msg, ok := <-slow.Send
	assert.True(t, ok, "send channel must stay open")
	assert.NotEmpty(t, msg)

	// unregistering an already dropped client is a no-op
	assert.NotPanics(t, func() { hub.Unregister(slow) })
}
