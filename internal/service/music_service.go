package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/client"
	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/pipeline"
)

// SunoSynthesizer renders prompts into audio through Suno.
type SunoSynthesizer struct {
	suno         *client.SunoClient
	pollInterval time.Duration
	maxWait      time.Duration
}

func NewSunoSynthesizer(suno *client.SunoClient, cfg *config.SunoConfig) *SunoSynthesizer {
	return &SunoSynthesizer{
		suno:         suno,
		pollInterval: time.Duration(cfg.PollInterval) * time.Second,
		maxWait:      time.Duration(cfg.MaxWait) * time.Second,
	}
}

// NewMusicSynthesizer picks Suno when it has credentials and the placeholder
// otherwise.
func NewMusicSynthesizer(cfg *config.SunoConfig) pipeline.MusicSynthesizer {
	suno := client.NewSunoClient(cfg)
	if !suno.IsConfigured() {
		log.Info().Msg("SUNO_API_KEY not set, using placeholder music synthesizer")
		return pipeline.PlaceholderMusic{}
	}
	return NewSunoSynthesizer(suno, cfg)
}

func (s *SunoSynthesizer) Synthesize(ctx context.Context, prompt, outputPath string) (string, error) {
	gen, err := s.suno.GenerateMusic(ctx, &client.GenerateMusicRequest{
		Prompt:           prompt,
		Style:            prompt,
		MakeInstrumental: true,
	})
	if err != nil {
		return "", upstream("Music generation request failed", err)
	}

	result, err := s.suno.PollMusicStatus(ctx, gen.TaskID, s.pollInterval, s.maxWait)
	if err != nil {
		return "", upstream("Music generation failed", err)
	}
	if result.AudioURL == "" {
		return "", pipeline.ArtifactMissingError("music", fmt.Sprintf("Suno task %s returned no audio", gen.TaskID))
	}

	if err := s.suno.Download(ctx, result.AudioURL, outputPath); err != nil {
		return "", upstream("Audio download failed", err)
	}

	log.Info().Str("task_id", gen.TaskID).Float64("duration", result.Duration).Msg("music synthesized")
	return outputPath, nil
}

func upstream(message string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return pipeline.UpstreamAPIError("music", message, apiErr.Body, err)
	}
	return pipeline.UpstreamAPIError("music", message, "", err)
}
