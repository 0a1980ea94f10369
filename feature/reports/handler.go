package reports

import (
	"errors"
	"io"

	"inventory-api/core/logger"
	"inventory-api/feature/assets"
	"inventory-api/feature/assets/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for report jobs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Post("/", h.HandleSubmit)
	group.Get("/:id", h.HandlePoll)
	group.Get("/:id/result", h.HandleFetchResult)
}

// submitRequest is the export request body, mirroring the asset list filter.
type submitRequest struct {
	InternalID  string        `json:"internal_id,omitempty"`
	ExternalTag string        `json:"external_tag,omitempty"`
	Installer   string        `json:"installer,omitempty"`
	ElementType string        `json:"element_type,omitempty"`
	Location    string        `json:"location,omitempty"`
	Status      models.Status `json:"status,omitempty"`
}

// HandleSubmit accepts an export job.
// @Summary Submit report job
// @Description Starts an asynchronous asset export over the committed listing. Poll the returned job id for completion.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body submitRequest true "Export filter"
// @Success 202 {object} Job "Accepted job"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /reports [post]
func (h *Handler) HandleSubmit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	job, err := h.service.Submit(c.Context(), assets.ListFilter{
		InternalID:  req.InternalID,
		ExternalTag: req.ExternalTag,
		Installer:   req.Installer,
		ElementType: req.ElementType,
		Location:    req.Location,
		Status:      req.Status,
	})
	if err != nil {
		l.Error("Report submission failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusAccepted).JSON(job)
}

// HandlePoll returns the state of a report job.
// @Summary Poll report job
// @Tags reports
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {object} Job "Job state"
// @Failure 404 {object} map[string]string "Not found"
// @Router /reports/{id} [get]
func (h *Handler) HandlePoll(c *fiber.Ctx) error {
	job, err := h.service.Poll(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
		}
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Report poll failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(job)
}

// HandleFetchResult streams the rendered artifact.
// @Summary Fetch report result
// @Tags reports
// @Produce json
// @Param id path string true "Job id"
// @Success 200 {string} string "Export artifact (JSON)"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Job not finished"
// @Router /reports/{id}/result [get]
func (h *Handler) HandleFetchResult(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reader, err := h.service.FetchResult(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
		}
		if errors.Is(err, ErrNotReady) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "job not finished"})
		}
		l.Error("Report fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		l.Error("Report artifact read failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}
