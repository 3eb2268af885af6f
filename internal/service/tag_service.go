package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/makeasinger/musicvideo/internal/client"
	"github.com/makeasinger/musicvideo/internal/pipeline"
)

const tagPromptTemplate = "Given the %s [%s], generate a comma-separated list of Suno-compatible tag words " +
	"that best represent the style, genre, mood, and production traits. Do NOT include the artist or song name."

// ChatCompleter is the subset of the Grok client the tag service needs.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, user string) (string, error)
	IsConfigured() bool
}

// TagService derives music style tags from an artist, song or vision.
type TagService struct {
	grok ChatCompleter
}

func NewTagService(grok ChatCompleter) *TagService {
	return &TagService{grok: grok}
}

// TagPrompt renders the completion prompt for a reference.
func TagPrompt(reference, kind string) string {
	return fmt.Sprintf(tagPromptTemplate, kind, reference)
}

// ResolveTags asks Grok for tags and returns them in the order given.
func (s *TagService) ResolveTags(ctx context.Context, reference, kind string) ([]string, error) {
	if !s.grok.IsConfigured() {
		return nil, pipeline.CredentialError("tags", "Missing GROK_API_KEY")
	}

	text, err := s.grok.ChatCompletion(ctx, TagPrompt(reference, kind))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			return nil, pipeline.UpstreamAPIError("tags", fmt.Sprintf("Grok API error (status %d)", apiErr.StatusCode), apiErr.Body, err)
		}
		return nil, pipeline.UpstreamAPIError("tags", "Grok API request failed", "", err)
	}

	return SplitTags(text), nil
}

// SplitTags splits a comma-separated completion, dropping blank entries.
func SplitTags(text string) []string {
	parts := strings.Split(text, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
