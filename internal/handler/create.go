package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/makeasinger/musicvideo/internal/model"
	"github.com/makeasinger/musicvideo/internal/pipeline"
	"github.com/makeasinger/musicvideo/internal/service"
	"github.com/makeasinger/musicvideo/pkg/response"
)

type CreateHandler struct {
	orchestrator *pipeline.Orchestrator
	tracker      pipeline.Tracker
}

// NewCreateHandler builds the synchronous handler. tracker may be nil.
func NewCreateHandler(orchestrator *pipeline.Orchestrator, tracker pipeline.Tracker) *CreateHandler {
	if tracker == nil {
		tracker = pipeline.NopTracker{}
	}
	return &CreateHandler{
		orchestrator: orchestrator,
		tracker:      tracker,
	}
}

// Create handles POST /create
// @Summary      Create a music video
// @Description  Run the music and video stages for a job and return the video URL
// @Tags         Create
// @Accept       json
// @Produce      json
// @Param        request body model.JobConfig true "Job configuration"
// @Success      200 {object} model.CreateResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /create [post]
func (h *CreateHandler) Create(c *fiber.Ctx) error {
	body, msg := readJobBody(c)
	if msg != "" {
		return response.BadRequest(c, msg)
	}

	jobID := service.NewJobID()
	c.Set("X-Job-Id", jobID)

	result, err := h.orchestrator.Run(c.UserContext(), jobID, body, h.tracker)
	if err != nil {
		return response.PipelineError(c, err)
	}

	return response.OK(c, model.CreateResponse{VideoURL: result.VideoURL})
}

// readJobBody returns a private copy of a valid job body, or the message to
// reject it with.
func readJobBody(c *fiber.Ctx) ([]byte, string) {
	body := append([]byte(nil), c.Body()...)
	if _, err := model.ParseJobConfig(body); err != nil {
		if errors.Is(err, model.ErrNoData) {
			return nil, "No data provided"
		}
		return nil, "Invalid JSON body"
	}
	return body, ""
}
