package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/model"
	"github.com/makeasinger/musicvideo/internal/pipeline"
	"github.com/makeasinger/musicvideo/internal/service"
)

// fakeGrok answers every tag request with a fixed completion.
type fakeGrok struct {
	reply string
}

func (f fakeGrok) ChatCompletion(context.Context, string) (string, error) { return f.reply, nil }
func (f fakeGrok) IsConfigured() bool                                     { return true }

// fakeJobs is an in-memory JobQueue.
type fakeJobs struct {
	submitted [][]byte
	status    map[string]*model.JobStatusResponse
	results   map[string]*model.JobResultResponse
}

func (f *fakeJobs) Submit(_ context.Context, body []byte) (*model.JobSubmitResponse, error) {
	f.submitted = append(f.submitted, body)
	return &model.JobSubmitResponse{JobID: fmt.Sprintf("job-%d", len(f.submitted)), State: model.JobStateReceived, CreatedAt: time.Now()}, nil
}

func (f *fakeJobs) GetStatus(_ context.Context, jobID string) (*model.JobStatusResponse, error) {
	if s, ok := f.status[jobID]; ok {
		return s, nil
	}
	return nil, service.ErrJobNotFound
}

func (f *fakeJobs) GetResult(_ context.Context, jobID string) (*model.JobResultResponse, error) {
	if r, ok := f.results[jobID]; ok {
		return r, nil
	}
	if _, ok := f.status[jobID]; ok {
		return nil, service.ErrJobNotCompleted
	}
	return nil, service.ErrJobNotFound
}

type testApp struct {
	app     *fiber.App
	jobs    *fakeJobs
	workDir string
}

// setupApp builds the router with placeholder backends and the given runner.
// A nil runner means the in-process pipeline.
func setupApp(t *testing.T, runner pipeline.StageRunner) *testApp {
	t.Helper()

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "sample_result.mp4"), []byte("sample"), 0o644))

	if runner == nil {
		runner = &pipeline.InProcessRunner{
			Music: &pipeline.MusicStage{
				Resolver:       service.NewTagService(fakeGrok{reply: "dreamy, synthwave, ambient"}),
				Synthesizer:    pipeline.PlaceholderMusic{},
				FallbackPrompt: "pop, upbeat",
			},
			Video: &pipeline.VideoStage{
				Beats:         pipeline.FixedBeats{Count: 24},
				Images:        pipeline.PlaceholderImages{},
				Assembler:     pipeline.PlaceholderVideo{},
				Publisher:     pipeline.StaticPublisher{URL: "/static/sample_result.mp4"},
				DefaultVision: "hyperrealistic vibrant concert scene",
			},
		}
	}

	workDir := t.TempDir()
	jobs := &fakeJobs{status: map[string]*model.JobStatusResponse{}, results: map[string]*model.JobResultResponse{}}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Register(app, &Routes{
		Landing:   NewLandingHandler(LandingPage{Title: "Music Video Generator", DefaultVision: "hyperrealistic vibrant concert scene", SampleVideo: "/static/sample_result.mp4"}),
		Health:    NewHealthHandler(ServiceStatus{Pipeline: "inprocess"}),
		Create:    NewCreateHandler(pipeline.NewOrchestrator(runner, workDir), nil),
		Jobs:      NewJobsHandler(jobs),
		Limits:    config.RateLimitConfig{CreatePerHour: 10000, JobsPerHour: 10000},
		StaticDir: staticDir,
	})

	return &testApp{app: app, jobs: jobs, workDir: workDir}
}

func doRequest(app *fiber.App, method, path, body string) (*http.Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return app.Test(req, 10000)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}
