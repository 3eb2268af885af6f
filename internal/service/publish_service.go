package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/client"
	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/pipeline"
)

// R2Publisher uploads finished videos to object storage. With a non-zero
// signedTTL it hands out presigned URLs instead of public ones.
type R2Publisher struct {
	storage   client.StorageClient
	signedTTL time.Duration
}

func NewR2Publisher(storage client.StorageClient, signedTTL time.Duration) *R2Publisher {
	return &R2Publisher{storage: storage, signedTTL: signedTTL}
}

// VideoKey is the object key for a job's final video.
func VideoKey(jobID string) string {
	return path.Join("videos", jobID, pipeline.VideoFile)
}

func (p *R2Publisher) Publish(ctx context.Context, jobID, videoPath string) (string, error) {
	f, err := os.Open(videoPath)
	if err != nil {
		return "", pipeline.ArtifactMissingError("publish", fmt.Sprintf("Video file not found: %s", videoPath))
	}
	defer f.Close()

	key := VideoKey(jobID)
	url, err := p.storage.Upload(ctx, key, f, "video/mp4")
	if err != nil {
		return "", pipeline.UpstreamAPIError("publish", "Video upload failed", "", err)
	}

	if p.signedTTL > 0 {
		url, err = p.storage.GetSignedURL(ctx, key, p.signedTTL)
		if err != nil {
			if delErr := p.storage.Delete(ctx, key); delErr != nil {
				log.Warn().Err(delErr).Str("key", key).Msg("failed to remove unpublished video")
			}
			return "", pipeline.UpstreamAPIError("publish", "Video URL signing failed", "", err)
		}
	}

	log.Info().Str("job_id", jobID).Str("url", url).Msg("video published")
	return url, nil
}

// NewVideoPublisher uploads to R2 when it is configured and otherwise
// returns fallbackURL for every job.
func NewVideoPublisher(cfg *config.R2Config, fallbackURL string) (pipeline.VideoPublisher, error) {
	if !cfg.Configured() {
		log.Info().Str("url", fallbackURL).Msg("R2 not configured, publishing to static URL")
		return pipeline.StaticPublisher{URL: fallbackURL}, nil
	}
	r2, err := client.NewR2Client(cfg)
	if err != nil {
		return nil, err
	}
	return NewR2Publisher(r2, time.Duration(cfg.SignedURLTTL)*time.Second), nil
}
