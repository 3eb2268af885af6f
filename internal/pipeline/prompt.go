package pipeline

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/model"
)

// BuildPrompt derives the music prompt for cfg. Jobs without a usable
// reference, or whose reference yields no tags, get fallback.
func BuildPrompt(ctx context.Context, cfg *model.JobConfig, resolver TagResolver, fallback string) (string, error) {
	reference, kind, ok := cfg.Reference()
	if !ok {
		if cfg.MusicStyle == model.MusicStyleSimilar {
			log.Warn().Msg("similar style requested without artist or song reference, using fallback prompt")
		}
		return fallback, nil
	}

	tags, err := resolver.ResolveTags(ctx, reference, kind)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		log.Warn().Str("kind", kind).Msg("tag resolver returned no tags, using fallback prompt")
		return fallback, nil
	}
	return strings.Join(tags, ", "), nil
}
