package pipeline

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/model"
)

// Result is what a completed job hands back to the caller.
type Result struct {
	JobID     string
	AudioPath string
	VideoURL  string
}

// Orchestrator drives one job through the music and video stages.
type Orchestrator struct {
	runner  StageRunner
	workDir string
}

func NewOrchestrator(runner StageRunner, workDir string) *Orchestrator {
	return &Orchestrator{runner: runner, workDir: workDir}
}

// Run executes the job described by raw. Any stage failure ends the job.
func (o *Orchestrator) Run(ctx context.Context, jobID string, raw []byte, tracker Tracker) (*Result, error) {
	if tracker == nil {
		tracker = NopTracker{}
	}
	logger := log.With().Str("job_id", jobID).Logger()

	ws, err := NewWorkspace(o.workDir, jobID)
	if err != nil {
		return nil, err
	}
	if err := ws.WriteJobConfig(raw); err != nil {
		return nil, err
	}

	track := func(state model.JobState, detail string) {
		if err := tracker.Transition(ctx, jobID, state, detail); err != nil {
			logger.Warn().Err(err).Str("state", string(state)).Msg("failed to record job transition")
		}
	}

	track(model.JobStateMusicInProgress, "")
	music, err := o.runner.RunMusic(ctx, ws)
	if err == nil {
		err = requireAudio(music)
	}
	if err != nil {
		logger.Error().Err(err).Msg("music stage failed")
		track(model.JobStateMusicFailed, errorMessage(err))
		return nil, err
	}
	track(model.JobStateMusicDone, music.ArtifactPath)

	track(model.JobStateVideoInProgress, "")
	video, err := o.runner.RunVideo(ctx, ws, music.ArtifactPath)
	if err == nil && (video == nil || video.URL == "") {
		err = ArtifactMissingError(StageVideo, "Final video URL not found")
	}
	if err != nil {
		logger.Error().Err(err).Msg("video stage failed")
		track(model.JobStateVideoFailed, errorMessage(err))
		return nil, err
	}
	track(model.JobStateVideoDone, video.URL)

	logger.Info().Str("video_url", video.URL).Msg("job completed")
	return &Result{JobID: jobID, AudioPath: music.ArtifactPath, VideoURL: video.URL}, nil
}

func requireAudio(res *StageResult) error {
	if res == nil || res.ArtifactPath == "" {
		return ArtifactMissingError(StageMusic, "Generated audio file not found")
	}
	if _, err := os.Stat(res.ArtifactPath); err != nil {
		return ArtifactMissingError(StageMusic, "Generated audio file not found")
	}
	return nil
}

func errorMessage(err error) string {
	msg, _ := Describe(err)
	return msg
}
