package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	ta := setupApp(t, nil)

	resp, err := doRequest(ta.app, http.MethodGet, "/healthz", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", readBody(t, resp))
}

func TestHealth(t *testing.T) {
	ta := setupApp(t, nil)

	resp, err := doRequest(ta.app, http.MethodGet, "/health", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := parseJSON(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "services")
}

func TestLandingPage(t *testing.T) {
	ta := setupApp(t, nil)

	resp, err := doRequest(ta.app, http.MethodGet, "/", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body := readBody(t, resp)
	assert.Contains(t, body, "<title>Music Video Generator</title>")
	assert.Contains(t, body, `placeholder="hyperrealistic vibrant concert scene"`)
}

func TestStaticFiles(t *testing.T) {
	ta := setupApp(t, nil)

	resp, err := doRequest(ta.app, http.MethodGet, "/static/sample_result.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "sample", readBody(t, resp))
}
