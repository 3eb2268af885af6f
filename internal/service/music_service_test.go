package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/musicvideo/internal/client"
	"github.com/makeasinger/musicvideo/internal/config"
	"github.com/makeasinger/musicvideo/internal/pipeline"
)

func TestNewMusicSynthesizerWithoutKey(t *testing.T) {
	synth := NewMusicSynthesizer(&config.SunoConfig{BaseURL: "https://api.sunoapi.org"})
	assert.IsType(t, pipeline.PlaceholderMusic{}, synth)
}

func TestSunoSynthesizer(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/music/generate", func(w http.ResponseWriter, r *http.Request) {
		var req client.GenerateMusicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dreamy, synthwave", req.Prompt)
		_, _ = w.Write([]byte(`{"task_id":"t-9","status":"pending"}`))
	})
	mux.HandleFunc("/v1/music/status/t-9", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"t-9","status":"success","audio_url":"` + srv.URL + `/dl/t-9.mp3","duration":182.5}`))
	})
	mux.HandleFunc("/dl/t-9.mp3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mp3-bytes"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	cfg := &config.SunoConfig{APIKey: "k", BaseURL: srv.URL, PollInterval: 1, MaxWait: 5}
	synth := NewMusicSynthesizer(cfg)
	require.IsType(t, &SunoSynthesizer{}, synth)

	out := filepath.Join(t.TempDir(), pipeline.AudioFile)
	path, err := synth.Synthesize(context.Background(), "dreamy, synthwave", out)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
}

func TestSunoSynthesizerUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"msg":"model overloaded"}`))
	}))
	defer srv.Close()

	cfg := &config.SunoConfig{APIKey: "k", BaseURL: srv.URL, PollInterval: 1, MaxWait: 5}
	_, err := NewMusicSynthesizer(cfg).Synthesize(context.Background(), "pop, upbeat", filepath.Join(t.TempDir(), "a.mp3"))

	require.Error(t, err)
	assert.Equal(t, pipeline.KindUpstreamAPI, pipeline.KindOf(err))
	_, detail := pipeline.Describe(err)
	assert.Equal(t, `{"msg":"model overloaded"}`, detail)
}
