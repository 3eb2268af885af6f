package response

import (
	"github.com/gofiber/fiber/v2"

	"github.com/makeasinger/musicvideo/internal/pipeline"
)

// ErrorResponse is the body of every failed request. Details carries raw
// upstream diagnostics (stage stderr, API response body) when available.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func Error(c *fiber.Ctx, status int, message, details string) error {
	return c.Status(status).JSON(ErrorResponse{
		Error:   message,
		Details: details,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message, "")
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message, "")
}

func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message, "")
}

func RateLimited(c *fiber.Ctx) error {
	return Error(c, fiber.StatusTooManyRequests, "Rate limit exceeded", "")
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message, "")
}

// PipelineError renders a pipeline failure with the status its kind maps to.
func PipelineError(c *fiber.Ctx, err error) error {
	message, details := pipeline.Describe(err)
	return Error(c, pipeline.HTTPStatus(err), message, details)
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

func Accepted(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusAccepted).JSON(data)
}
