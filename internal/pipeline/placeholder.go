package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Marker payloads written by the placeholder backends.
var (
	PlaceholderAudioPayload = []byte("FAKEAUDIO")
	PlaceholderVideoPayload = []byte("FAKEVIDEO")
)

// PlaceholderMusic writes a fixed marker instead of real audio.
type PlaceholderMusic struct{}

func (PlaceholderMusic) Synthesize(ctx context.Context, prompt, outputPath string) (string, error) {
	if err := os.WriteFile(outputPath, PlaceholderAudioPayload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write placeholder audio: %w", err)
	}
	return outputPath, nil
}

// FixedBeats reports the same beat count for every track.
type FixedBeats struct {
	Count int
}

func (b FixedBeats) CountBeats(ctx context.Context, audioPath string) (int, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return 0, ArtifactMissingError("beats", fmt.Sprintf("Audio file not found: %s", audioPath))
	}
	if b.Count <= 0 {
		return 0, fmt.Errorf("beat count must be positive, got %d", b.Count)
	}
	return b.Count, nil
}

// PlaceholderImages returns deterministic image paths without creating them.
type PlaceholderImages struct{}

func (PlaceholderImages) Generate(ctx context.Context, req ImageRequest) ([]string, error) {
	if req.Count <= 0 {
		return nil, InputError("images", "Image count must be positive", nil)
	}
	paths := make([]string, req.Count)
	for i := range paths {
		paths[i] = filepath.Join(req.OutputDir, fmt.Sprintf("img_%d.png", i))
	}
	return paths, nil
}

// PlaceholderVideo writes a fixed marker instead of an encoded video.
type PlaceholderVideo struct{}

func (PlaceholderVideo) Assemble(ctx context.Context, audioPath string, imagePaths []string, outputPath string) (string, error) {
	if len(imagePaths) == 0 {
		return "", InputError("video", "No images to assemble", nil)
	}
	if err := os.WriteFile(outputPath, PlaceholderVideoPayload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write placeholder video: %w", err)
	}
	return outputPath, nil
}

// StaticPublisher hands back a fixed URL, used when no object store is set up.
type StaticPublisher struct {
	URL string
}

func (p StaticPublisher) Publish(ctx context.Context, jobID, videoPath string) (string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return "", ArtifactMissingError("publish", fmt.Sprintf("Video file not found: %s", videoPath))
	}
	return p.URL, nil
}
