package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/config"
)

// SunoClient drives the Suno music generation API.
type SunoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     zerolog.Logger
}

// GenerateMusicRequest represents the request for music generation
type GenerateMusicRequest struct {
	Prompt           string `json:"prompt"`
	Style            string `json:"style,omitempty"`
	Title            string `json:"title,omitempty"`
	MakeInstrumental bool   `json:"make_instrumental,omitempty"`
}

// GenerateMusicResponse represents the response from music generation
type GenerateMusicResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// MusicResult represents a music generation task
type MusicResult struct {
	ID       string  `json:"id"`
	AudioURL string  `json:"audio_url"`
	Duration float64 `json:"duration"`
	Status   string  `json:"status"`
	Title    string  `json:"title,omitempty"`
	Style    string  `json:"style,omitempty"`
}

func NewSunoClient(cfg *config.SunoConfig) *SunoClient {
	return &SunoClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  log.With().Str("client", "suno").Logger(),
	}
}

// GenerateMusic initiates music generation
func (c *SunoClient) GenerateMusic(ctx context.Context, req *GenerateMusicRequest) (*GenerateMusicResponse, error) {
	var result GenerateMusicResponse
	if err := c.post(ctx, "/v1/music/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMusicStatus retrieves the status of a music generation task
func (c *SunoClient) GetMusicStatus(ctx context.Context, taskID string) (*MusicResult, error) {
	var result MusicResult
	if err := c.get(ctx, fmt.Sprintf("/v1/music/status/%s", taskID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PollMusicStatus polls until the task completes, fails or maxWait elapses.
func (c *SunoClient) PollMusicStatus(ctx context.Context, taskID string, interval, maxWait time.Duration) (*MusicResult, error) {
	deadline := time.Now().Add(maxWait)
	attempt := 0

	for time.Now().Before(deadline) {
		attempt++
		result, err := c.GetMusicStatus(ctx, taskID)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("task_id", taskID).Msg("poll music failed")
			return nil, err
		}

		c.logger.Debug().Int("attempt", attempt).Str("task_id", taskID).Str("status", result.Status).Msg("poll music")

		switch result.Status {
		case "completed", "success":
			return result, nil
		case "failed", "error":
			return nil, fmt.Errorf("music generation failed: %s", result.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}

	return nil, fmt.Errorf("music generation timed out after %v", maxWait)
}

// Download streams url into path.
func (c *SunoClient) Download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Service: "suno", StatusCode: resp.StatusCode, Body: string(body)}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return f.Close()
}

// IsConfigured returns true if the client has valid configuration
func (c *SunoClient) IsConfigured() bool {
	return c.apiKey != ""
}

func (c *SunoClient) post(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *SunoClient) get(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *SunoClient) doRequest(req *http.Request, result interface{}) error {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Str("method", req.Method).Str("url", req.URL.String()).Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Service: "suno", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
