package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/musicvideo/internal/model"
)

func TestJobs_Submit(t *testing.T) {
	ta := setupApp(t, nil)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/jobs", `{"musicStyle":"similar","artistReference":"Daft Punk"}`)
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := parseJSON(t, resp)
	assert.Equal(t, "job-1", body["jobId"])
	assert.Equal(t, "received", body["state"])
	require.Len(t, ta.jobs.submitted, 1)
	assert.JSONEq(t, `{"musicStyle":"similar","artistReference":"Daft Punk"}`, string(ta.jobs.submitted[0]))
}

func TestJobs_SubmitEmptyBody(t *testing.T) {
	ta := setupApp(t, nil)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/jobs", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, ta.jobs.submitted)
}

func TestJobs_StatusAndResult(t *testing.T) {
	ta := setupApp(t, nil)
	ta.jobs.status["abc"] = &model.JobStatusResponse{JobID: "abc", State: model.JobStateVideoInProgress, Progress: 60, CreatedAt: time.Now()}

	resp, err := doRequest(ta.app, http.MethodGet, "/api/jobs/abc", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video_in_progress", parseJSON(t, resp)["state"])

	resp, err = doRequest(ta.app, http.MethodGet, "/api/jobs/abc/result", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	ta.jobs.results["abc"] = &model.JobResultResponse{JobID: "abc", VideoURL: "/static/sample_result.mp4"}
	resp, err = doRequest(ta.app, http.MethodGet, "/api/jobs/abc/result", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/static/sample_result.mp4", parseJSON(t, resp)["video_url"])
}

func TestJobs_NotFound(t *testing.T) {
	ta := setupApp(t, nil)

	resp, err := doRequest(ta.app, http.MethodGet, "/api/jobs/missing", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, `{"error":"Job not found"}`, readBody(t, resp))
}
