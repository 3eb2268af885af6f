package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	filePath := os.Getenv(envKey + "_FILE")
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	os.Setenv(envKey, strings.TrimSpace(string(data)))
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Grok      GrokConfig
	Suno      SunoConfig
	R2        R2Config
	Pipeline  PipelineConfig
}

type ServerConfig struct {
	Port      string `validate:"required,numeric"`
	Env       string `validate:"required"`
	LogLevel  string `validate:"required,oneof=debug info warn error"`
	StaticDir string `validate:"required"`
}

type RedisConfig struct {
	Addr     string `validate:"required"`
	Password string
	DB       int `validate:"gte=0"`
}

type RateLimitConfig struct {
	CreatePerHour int `validate:"gt=0"`
	JobsPerHour   int `validate:"gt=0"`
}

type GrokConfig struct {
	APIKey  string
	BaseURL string `validate:"required,url"`
	Model   string `validate:"required"`
	Timeout int    `validate:"gt=0"` // seconds
}

type SunoConfig struct {
	APIKey       string
	BaseURL      string `validate:"required,url"`
	PollInterval int    `validate:"gt=0"` // seconds
	MaxWait      int    `validate:"gt=0"` // seconds
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	SignedURLTTL    int `validate:"gte=0"` // seconds, 0 serves the public URL
}

// Configured reports whether enough R2 settings are present to upload.
func (c R2Config) Configured() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

type PipelineConfig struct {
	Mode             string `validate:"required,oneof=inprocess exec"`
	StageCommand     string `validate:"required"`
	StageTimeout     int    `validate:"gt=0"` // seconds
	WorkDir          string `validate:"required"`
	FallbackPrompt   string `validate:"required"`
	DefaultVision    string `validate:"required"`
	BeatCount        int    `validate:"gt=0"`
	FallbackVideoURL string `validate:"required"`
}

// Load reads config.yaml (optional) and the environment.
func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("GROK_API_KEY")
	readSecret("SUNO_API_KEY")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()

	// PORT is what most PaaS platforms inject; SERVER_PORT is kept for parity
	_ = v.BindEnv("server.port", "PORT", "SERVER_PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.static_dir", "STATIC_DIR")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("ratelimit.create_per_hour", "RATELIMIT_CREATE_PER_HOUR")
	_ = v.BindEnv("ratelimit.jobs_per_hour", "RATELIMIT_JOBS_PER_HOUR")
	_ = v.BindEnv("grok.api_key", "GROK_API_KEY")
	_ = v.BindEnv("grok.base_url", "GROK_BASE_URL")
	_ = v.BindEnv("grok.model", "GROK_MODEL")
	_ = v.BindEnv("grok.timeout", "GROK_TIMEOUT")
	_ = v.BindEnv("suno.api_key", "SUNO_API_KEY")
	_ = v.BindEnv("suno.base_url", "SUNO_BASE_URL")
	_ = v.BindEnv("suno.poll_interval", "SUNO_POLL_INTERVAL")
	_ = v.BindEnv("suno.max_wait", "SUNO_MAX_WAIT")
	_ = v.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = v.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = v.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = v.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = v.BindEnv("r2.public_url", "R2_PUBLIC_URL")
	_ = v.BindEnv("r2.signed_url_ttl", "R2_SIGNED_URL_TTL")
	_ = v.BindEnv("pipeline.mode", "PIPELINE_MODE")
	_ = v.BindEnv("pipeline.stage_command", "PIPELINE_STAGE_COMMAND")
	_ = v.BindEnv("pipeline.stage_timeout", "PIPELINE_STAGE_TIMEOUT")
	_ = v.BindEnv("pipeline.work_dir", "PIPELINE_WORK_DIR")
	_ = v.BindEnv("pipeline.fallback_prompt", "PIPELINE_FALLBACK_PROMPT")
	_ = v.BindEnv("pipeline.default_vision", "PIPELINE_DEFAULT_VISION")
	_ = v.BindEnv("pipeline.beat_count", "PIPELINE_BEAT_COUNT")
	_ = v.BindEnv("pipeline.fallback_video_url", "PIPELINE_FALLBACK_VIDEO_URL")

	// Defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ratelimit.create_per_hour", 30)
	v.SetDefault("ratelimit.jobs_per_hour", 30)

	// Grok defaults
	v.SetDefault("grok.base_url", "https://api.x.ai/v1")
	v.SetDefault("grok.model", "grok-2-latest")
	v.SetDefault("grok.timeout", 60)

	// Suno defaults
	v.SetDefault("suno.base_url", "https://api.sunoapi.org")
	v.SetDefault("suno.poll_interval", 5)
	v.SetDefault("suno.max_wait", 600)

	// Pipeline defaults
	v.SetDefault("r2.signed_url_ttl", 0)

	v.SetDefault("pipeline.mode", "inprocess")
	v.SetDefault("pipeline.stage_command", "stage")
	v.SetDefault("pipeline.stage_timeout", 600)
	v.SetDefault("pipeline.work_dir", filepath.Join(os.TempDir(), "musicvideo-jobs"))
	v.SetDefault("pipeline.fallback_prompt", "pop, upbeat")
	v.SetDefault("pipeline.default_vision", "hyperrealistic vibrant concert scene")
	v.SetDefault("pipeline.beat_count", 24)
	v.SetDefault("pipeline.fallback_video_url", "/static/sample_result.mp4")

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetString("server.port"),
			Env:       v.GetString("server.env"),
			LogLevel:  strings.ToLower(v.GetString("server.log_level")),
			StaticDir: v.GetString("server.static_dir"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			CreatePerHour: v.GetInt("ratelimit.create_per_hour"),
			JobsPerHour:   v.GetInt("ratelimit.jobs_per_hour"),
		},
		Grok: GrokConfig{
			APIKey:  v.GetString("grok.api_key"),
			BaseURL: v.GetString("grok.base_url"),
			Model:   v.GetString("grok.model"),
			Timeout: v.GetInt("grok.timeout"),
		},
		Suno: SunoConfig{
			APIKey:       v.GetString("suno.api_key"),
			BaseURL:      v.GetString("suno.base_url"),
			PollInterval: v.GetInt("suno.poll_interval"),
			MaxWait:      v.GetInt("suno.max_wait"),
		},
		R2: R2Config{
			AccountID:       v.GetString("r2.account_id"),
			AccessKeyID:     v.GetString("r2.access_key_id"),
			SecretAccessKey: v.GetString("r2.secret_access_key"),
			BucketName:      v.GetString("r2.bucket_name"),
			PublicURL:       v.GetString("r2.public_url"),
			SignedURLTTL:    v.GetInt("r2.signed_url_ttl"),
		},
		Pipeline: PipelineConfig{
			Mode:             strings.ToLower(v.GetString("pipeline.mode")),
			StageCommand:     v.GetString("pipeline.stage_command"),
			StageTimeout:     v.GetInt("pipeline.stage_timeout"),
			WorkDir:          v.GetString("pipeline.work_dir"),
			FallbackPrompt:   v.GetString("pipeline.fallback_prompt"),
			DefaultVision:    v.GetString("pipeline.default_vision"),
			BeatCount:        v.GetInt("pipeline.beat_count"),
			FallbackVideoURL: v.GetString("pipeline.fallback_video_url"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
