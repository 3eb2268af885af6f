package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Stage names.
const (
	StageMusic = "music"
	StageVideo = "video"
)

// StageResult is the typed outcome of a successful stage. The music stage
// sets ArtifactPath; the video stage sets both ArtifactPath and URL.
type StageResult struct {
	Stage        string
	ArtifactPath string
	URL          string
}

// MusicStage turns a job config into an audio track.
type MusicStage struct {
	Resolver       TagResolver
	Synthesizer    MusicSynthesizer
	FallbackPrompt string
}

func (s *MusicStage) Run(ctx context.Context, ws *Workspace) (*StageResult, error) {
	cfg, err := ws.ReadJobConfig()
	if err != nil {
		return nil, err
	}

	prompt, err := BuildPrompt(ctx, cfg, s.Resolver, s.FallbackPrompt)
	if err != nil {
		return nil, err
	}
	log.Info().Str("job_id", ws.JobID).Str("prompt", prompt).Msg("synthesizing music")

	path, err := s.Synthesizer.Synthesize(ctx, prompt, ws.AudioPath())
	if err != nil {
		return nil, err
	}
	return &StageResult{Stage: StageMusic, ArtifactPath: path}, nil
}

// VideoStage turns an audio track into a published video.
type VideoStage struct {
	Beats         BeatAnalyzer
	Images        ImageSynthesizer
	Assembler     VideoAssembler
	Publisher     VideoPublisher
	DefaultVision string
}

func (s *VideoStage) Run(ctx context.Context, ws *Workspace, audioPath string) (*StageResult, error) {
	cfg, err := ws.ReadJobConfig()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, ArtifactMissingError(StageVideo, fmt.Sprintf("Audio file not found: %s", audioPath))
	}

	beats, err := s.Beats.CountBeats(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	images, err := s.Images.Generate(ctx, ImageRequest{
		Count:     beats,
		Prompt:    cfg.VisualPrompt(s.DefaultVision),
		OutputDir: ws.Dir,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("job_id", ws.JobID).Int("beats", beats).Int("images", len(images)).Msg("assembling video")

	videoPath, err := s.Assembler.Assemble(ctx, audioPath, images, ws.VideoPath())
	if err != nil {
		return nil, err
	}

	url, err := s.Publisher.Publish(ctx, ws.JobID, videoPath)
	if err != nil {
		return nil, err
	}
	return &StageResult{Stage: StageVideo, ArtifactPath: videoPath, URL: url}, nil
}
