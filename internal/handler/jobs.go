package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/makeasinger/musicvideo/internal/model"
	"github.com/makeasinger/musicvideo/internal/service"
	"github.com/makeasinger/musicvideo/pkg/response"
)

// JobQueue is the part of the job service the HTTP layer uses.
type JobQueue interface {
	Submit(ctx context.Context, body []byte) (*model.JobSubmitResponse, error)
	GetStatus(ctx context.Context, jobID string) (*model.JobStatusResponse, error)
	GetResult(ctx context.Context, jobID string) (*model.JobResultResponse, error)
}

type JobsHandler struct {
	jobs JobQueue
}

func NewJobsHandler(jobs JobQueue) *JobsHandler {
	return &JobsHandler{jobs: jobs}
}

// Submit handles POST /api/jobs
// @Summary      Queue a music video job
// @Description  Queue a job for background processing and return its ID
// @Tags         Jobs
// @Accept       json
// @Produce      json
// @Param        request body model.JobConfig true "Job configuration"
// @Success      202 {object} model.JobSubmitResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobsHandler) Submit(c *fiber.Ctx) error {
	body, msg := readJobBody(c)
	if msg != "" {
		return response.BadRequest(c, msg)
	}

	result, err := h.jobs.Submit(c.UserContext(), body)
	if err != nil {
		log.Error().Err(err).Msg("failed to queue job")
		return response.ServiceError(c, "Failed to queue job")
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/jobs/:jobId
// @Summary      Get job status
// @Tags         Jobs
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} model.JobStatusResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /api/jobs/{jobId} [get]
func (h *JobsHandler) Status(c *fiber.Ctx) error {
	result, err := h.jobs.GetStatus(c.UserContext(), c.Params("jobId"))
	if err != nil {
		return jobError(c, err)
	}
	return response.OK(c, result)
}

// Result handles GET /api/jobs/:jobId/result
// @Summary      Get job result
// @Tags         Jobs
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} model.JobResultResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /api/jobs/{jobId}/result [get]
func (h *JobsHandler) Result(c *fiber.Ctx) error {
	result, err := h.jobs.GetResult(c.UserContext(), c.Params("jobId"))
	if err != nil {
		return jobError(c, err)
	}
	return response.OK(c, result)
}

func jobError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrJobNotFound):
		return response.NotFound(c, "Job not found")
	case errors.Is(err, service.ErrJobNotCompleted):
		return response.Conflict(c, "Job not completed")
	default:
		log.Error().Err(err).Str("job_id", c.Params("jobId")).Msg("job lookup failed")
		return response.ServiceError(c, "Failed to load job")
	}
}
