package pipeline

import (
	"context"
	"errors"
)

// StageRunner executes the two pipeline stages against a workspace.
type StageRunner interface {
	RunMusic(ctx context.Context, ws *Workspace) (*StageResult, error)
	RunVideo(ctx context.Context, ws *Workspace, audioPath string) (*StageResult, error)
}

// InProcessRunner calls the stages directly.
type InProcessRunner struct {
	Music *MusicStage
	Video *VideoStage
}

func (r *InProcessRunner) RunMusic(ctx context.Context, ws *Workspace) (*StageResult, error) {
	res, err := r.Music.Run(ctx, ws)
	if err != nil {
		return nil, classify(StageMusic, "Music generation failed", err)
	}
	return res, nil
}

func (r *InProcessRunner) RunVideo(ctx context.Context, ws *Workspace, audioPath string) (*StageResult, error) {
	res, err := r.Video.Run(ctx, ws, audioPath)
	if err != nil {
		return nil, classify(StageVideo, "Video generation failed", err)
	}
	return res, nil
}

// classify keeps typed errors and wraps anything else as a stage failure.
func classify(op, message string, err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return StageProcessError(op, message, "", err)
}
