package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ExecRunner runs each stage as a child process:
//
//	<command> [args...] music <job_config>
//	<command> [args...] video <audio_path> <job_config>
//
// Exit code 0 plus a prefixed stdout line signals success.
type ExecRunner struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

type execOutput struct {
	stdout string
	stderr string
}

func (r *ExecRunner) RunMusic(ctx context.Context, ws *Workspace) (*StageResult, error) {
	out, err := r.run(ctx, StageMusic, ws.JobConfigPath())
	if err != nil {
		return nil, StageProcessError(StageMusic, "Music generation failed", out.stderr, err)
	}

	path, ok := ParseLine(out.stdout, AudioPathPrefix)
	if !ok {
		return nil, ArtifactMissingError(StageMusic, "Generated audio file not found")
	}
	return &StageResult{Stage: StageMusic, ArtifactPath: path}, nil
}

func (r *ExecRunner) RunVideo(ctx context.Context, ws *Workspace, audioPath string) (*StageResult, error) {
	out, err := r.run(ctx, StageVideo, audioPath, ws.JobConfigPath())
	if err != nil {
		return nil, StageProcessError(StageVideo, "Video generation failed", out.stderr, err)
	}

	url, ok := ParseLine(out.stdout, VideoURLPrefix)
	if !ok {
		return nil, ArtifactMissingError(StageVideo, "Final video URL not found")
	}
	return &StageResult{Stage: StageVideo, ArtifactPath: ws.VideoPath(), URL: url}, nil
}

func (r *ExecRunner) run(ctx context.Context, stage string, args ...string) (execOutput, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	argv := append(append([]string{}, r.Args...), stage)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, r.Command, argv...)
	cmd.Env = append(os.Environ(), r.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	out := execOutput{stdout: stdout.String(), stderr: strings.TrimSpace(stderr.String())}

	logger := log.With().Str("stage", stage).Dur("elapsed", time.Since(start)).Logger()
	if err == nil {
		logger.Debug().Msg("stage process finished")
		return out, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("stage timed out after %s: %w", r.Timeout, err)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Error().Int("exit_code", exitErr.ExitCode()).Str("stderr", out.stderr).Msg("stage process failed")
	} else {
		logger.Error().Err(err).Msg("stage process could not run")
	}
	if out.stderr == "" {
		out.stderr = err.Error()
	}
	return out, err
}
