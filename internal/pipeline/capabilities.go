package pipeline

import "context"

// TagResolver turns a reference (artist, song or free-text vision) into an
// ordered list of style tags.
type TagResolver interface {
	ResolveTags(ctx context.Context, reference, kind string) ([]string, error)
}

// MusicSynthesizer renders prompt into an audio file at outputPath and
// returns the path it wrote.
type MusicSynthesizer interface {
	Synthesize(ctx context.Context, prompt, outputPath string) (string, error)
}

// BeatAnalyzer estimates how many visual segments an audio track needs.
// The result is always positive.
type BeatAnalyzer interface {
	CountBeats(ctx context.Context, audioPath string) (int, error)
}

// ImageRequest asks for Count images for Prompt, written under OutputDir.
type ImageRequest struct {
	Count     int
	Prompt    string
	OutputDir string
}

// ImageSynthesizer returns exactly req.Count image paths, in order.
type ImageSynthesizer interface {
	Generate(ctx context.Context, req ImageRequest) ([]string, error)
}

// VideoAssembler combines audio and ordered images into one video file.
type VideoAssembler interface {
	Assemble(ctx context.Context, audioPath string, imagePaths []string, outputPath string) (string, error)
}

// VideoPublisher makes a finished video reachable and returns its URL.
type VideoPublisher interface {
	Publish(ctx context.Context, jobID, videoPath string) (string, error)
}
