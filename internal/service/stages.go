package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/makeasinger/musicvideo/internal/client"
	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/pipeline"
)

// NewStages wires both pipeline stages to the backends cfg enables.
func NewStages(cfg *config.Config) (*pipeline.MusicStage, *pipeline.VideoStage, error) {
	publisher, err := NewVideoPublisher(&cfg.R2, cfg.Pipeline.FallbackVideoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up video publisher: %w", err)
	}

	music := &pipeline.MusicStage{
		Resolver:       NewTagService(client.NewGrokClient(&cfg.Grok)),
		Synthesizer:    NewMusicSynthesizer(&cfg.Suno),
		FallbackPrompt: cfg.Pipeline.FallbackPrompt,
	}
	video := &pipeline.VideoStage{
		Beats:         pipeline.FixedBeats{Count: cfg.Pipeline.BeatCount},
		Images:        pipeline.PlaceholderImages{},
		Assembler:     pipeline.PlaceholderVideo{},
		Publisher:     publisher,
		DefaultVision: cfg.Pipeline.DefaultVision,
	}
	return music, video, nil
}

// NewStageRunner returns the runner selected by PIPELINE_MODE.
func NewStageRunner(cfg *config.Config) (pipeline.StageRunner, error) {
	if cfg.Pipeline.Mode == "exec" {
		fields := strings.Fields(cfg.Pipeline.StageCommand)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty stage command")
		}
		return &pipeline.ExecRunner{
			Command: fields[0],
			Args:    fields[1:],
			Timeout: time.Duration(cfg.Pipeline.StageTimeout) * time.Second,
		}, nil
	}

	music, video, err := NewStages(cfg)
	if err != nil {
		return nil, err
	}
	return &pipeline.InProcessRunner{Music: music, Video: video}, nil
}
