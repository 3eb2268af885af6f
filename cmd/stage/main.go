package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/logging"
	"github.com/makeasinger/musicvideo/internal/pipeline"
	"github.com/makeasinger/musicvideo/internal/service"
)

var logLevelFlag string

// rootCmd runs one pipeline stage as a standalone process. Results go to
// stdout as a single prefixed line; logs and errors go to stderr.
var rootCmd = &cobra.Command{
	Use:   "stage",
	Short: "Run a single music video pipeline stage",
	Long: `Stage runs one step of the music video pipeline against a job workspace.

On success it prints exactly one result line on stdout and exits 0:
  GENERATED_AUDIO_PATH: <path>   (music)
  FINAL_VIDEO_URL: <url>         (video)

On failure it prints the error on stderr and exits 1.

Examples:
  stage music /tmp/musicvideo-jobs/<id>/job_config.json
  stage video /tmp/musicvideo-jobs/<id>/generated_audio.mp3 /tmp/musicvideo-jobs/<id>/job_config.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevelFlag
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		logging.Init(level, "production")
		return nil
	},
}

var musicCmd = &cobra.Command{
	Use:   "music <job_config.json>",
	Short: "Derive a prompt and synthesize the audio track",
	Args:  cobra.ExactArgs(1),
	RunE:  runMusic,
}

var videoCmd = &cobra.Command{
	Use:   "video <audio_path> <job_config.json>",
	Short: "Generate images, assemble and publish the video",
	Args:  cobra.ExactArgs(2),
	RunE:  runVideo,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")
	rootCmd.AddCommand(musicCmd, videoCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		msg, detail := pipeline.Describe(err)
		fmt.Fprintln(os.Stderr, msg)
		if detail != "" {
			fmt.Fprintln(os.Stderr, detail)
		}
		stop()
		os.Exit(1)
	}
}

func loadStages() (*pipeline.MusicStage, *pipeline.VideoStage, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return service.NewStages(cfg)
}

func runMusic(cmd *cobra.Command, args []string) error {
	ws, err := pipeline.OpenWorkspace(args[0])
	if err != nil {
		return err
	}
	music, _, err := loadStages()
	if err != nil {
		return err
	}

	res, err := music.Run(cmd.Context(), ws)
	if err != nil {
		return err
	}

	log.Info().Str("job_id", ws.JobID).Str("audio", res.ArtifactPath).Msg("music stage finished")
	fmt.Fprintln(cmd.OutOrStdout(), pipeline.FormatLine(pipeline.AudioPathPrefix, res.ArtifactPath))
	return nil
}

func runVideo(cmd *cobra.Command, args []string) error {
	ws, err := pipeline.OpenWorkspace(args[1])
	if err != nil {
		return err
	}
	_, video, err := loadStages()
	if err != nil {
		return err
	}

	res, err := video.Run(cmd.Context(), ws, args[0])
	if err != nil {
		return err
	}

	log.Info().Str("job_id", ws.JobID).Str("url", res.URL).Msg("video stage finished")
	fmt.Fprintln(cmd.OutOrStdout(), pipeline.FormatLine(pipeline.VideoURLPrefix, res.URL))
	return nil
}
