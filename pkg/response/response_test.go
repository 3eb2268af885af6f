package response

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makeasinger/musicvideo/internal/pipeline"
)

func render(t *testing.T, h fiber.Handler) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestBadRequestIsFlat(t *testing.T) {
	status, body := render(t, func(c *fiber.Ctx) error { return BadRequest(c, "No data provided") })
	assert.Equal(t, 400, status)
	assert.Equal(t, `{"error":"No data provided"}`, body)
}

func TestPipelineError(t *testing.T) {
	status, body := render(t, func(c *fiber.Ctx) error {
		return PipelineError(c, pipeline.StageProcessError("music", "Music generation failed", "Traceback: boom", errors.New("exit status 1")))
	})
	assert.Equal(t, 500, status)
	assert.JSONEq(t, `{"error":"Music generation failed","details":"Traceback: boom"}`, body)

	status, _ = render(t, func(c *fiber.Ctx) error {
		return PipelineError(c, pipeline.InputError("job config", "Invalid job configuration", nil))
	})
	assert.Equal(t, 400, status)
}
