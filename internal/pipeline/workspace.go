package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/makeasinger/musicvideo/internal/model"
)

// Artifact file names inside a job workspace.
const (
	JobConfigFile = "job_config.json"
	AudioFile     = "generated_audio.mp3"
	VideoFile     = "final_video.mp4"
)

// Workspace is the per-job directory holding every intermediate and final
// artifact. Namespacing by job ID keeps concurrent jobs apart.
type Workspace struct {
	JobID string
	Dir   string
	// ConfigPath is the job config file. Empty means Dir/job_config.json.
	ConfigPath string
}

// NewWorkspace creates root/jobID.
func NewWorkspace(root, jobID string) (*Workspace, error) {
	if jobID == "" || jobID != filepath.Base(jobID) {
		return nil, fmt.Errorf("invalid job id %q", jobID)
	}
	dir := filepath.Join(root, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{JobID: jobID, Dir: dir}, nil
}

// OpenWorkspace recovers the workspace from a job config path handed to a
// stage process.
func OpenWorkspace(jobConfigPath string) (*Workspace, error) {
	abs, err := filepath.Abs(jobConfigPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("job config not readable: %w", err)
	}
	dir := filepath.Dir(abs)
	return &Workspace{JobID: filepath.Base(dir), Dir: dir, ConfigPath: abs}, nil
}

func (w *Workspace) JobConfigPath() string {
	if w.ConfigPath != "" {
		return w.ConfigPath
	}
	return filepath.Join(w.Dir, JobConfigFile)
}

func (w *Workspace) AudioPath() string { return filepath.Join(w.Dir, AudioFile) }
func (w *Workspace) VideoPath() string { return filepath.Join(w.Dir, VideoFile) }

func (w *Workspace) ImagePath(i int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("img_%d.png", i))
}

// WriteJobConfig stores the request body verbatim.
func (w *Workspace) WriteJobConfig(raw []byte) error {
	if err := os.WriteFile(w.JobConfigPath(), raw, 0o644); err != nil {
		return fmt.Errorf("failed to write job config: %w", err)
	}
	return nil
}

func (w *Workspace) ReadJobConfig() (*model.JobConfig, error) {
	raw, err := os.ReadFile(w.JobConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read job config: %w", err)
	}
	cfg, err := model.ParseJobConfig(raw)
	if err != nil {
		return nil, InputError("job config", "Invalid job configuration", err)
	}
	return cfg, nil
}
