package assets

import (
	"errors"
	"strconv"
	"time"

	"inventory-api/core/logger"
	"inventory-api/feature/assets/models"
	"inventory-api/feature/assets/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for assets and conflict review.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the asset and conflict routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	assets := app.Group("/assets")
	assets.Post("/sync", h.HandleSyncBatch)
	assets.Post("/", h.HandleCreateAsset)
	assets.Get("/", h.HandleListAssets)
	assets.Get("/tag/:tag", h.HandleGetAssetByTag)
	assets.Get("/:internalID", h.HandleGetAsset)
	assets.Delete("/:internalID", h.HandleRetireAsset)

	conflicts := app.Group("/conflicts")
	conflicts.Get("/", h.HandleListConflicts)
	conflicts.Get("/:id", h.HandleGetConflict)
	conflicts.Delete("/:id", h.HandleDeleteConflict)
	conflicts.Post("/:id/resolve", h.HandleResolveConflict)
}

// syncRequest is the bulk ingest request body.
type syncRequest struct {
	Records []sync.Record `json:"records"`
}

// syncResponse extends the batch result with the malformed records that were
// excluded before the pipeline ran.
type syncResponse struct {
	sync.BatchResult
	Invalid []InvalidRecord `json:"invalid"`
}

// listResponse is a paginated collection envelope.
type listResponse struct {
	Total int64 `json:"total"`
	Items any   `json:"items"`
}

// HandleSyncBatch ingests a batch of asset records from an offline client.
// @Summary Sync asset batch
// @Description Accepts an ordered batch of asset records, reconciles each against server state by version, and returns the per-record dispositions. Conflicting records are quarantined, never silently dropped.
// @Tags assets
// @Accept json
// @Produce json
// @Param request body syncRequest true "Batch of records"
// @Success 200 {object} syncResponse "Per-record dispositions"
// @Failure 400 {object} map[string]string "Malformed request body"
// @Failure 413 {object} map[string]string "Batch size exceeded"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /assets/sync [post]
func (h *Handler) HandleSyncBatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, invalid, err := h.service.SyncBatch(c.Context(), req.Records)
	if err != nil {
		return h.syncError(c, l, err)
	}

	return c.JSON(syncResponse{BatchResult: *result, Invalid: invalid})
}

// HandleCreateAsset creates a single asset.
// @Summary Create asset
// @Description Creates one asset at version 1 through the same pipeline as a single-record batch.
// @Tags assets
// @Accept json
// @Produce json
// @Param request body sync.Record true "Asset record"
// @Success 201 {object} models.Asset "Created asset"
// @Failure 400 {object} map[string]string "Malformed record"
// @Failure 409 {object} map[string]string "Duplicate key or version conflict"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /assets [post]
func (h *Handler) HandleCreateAsset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var rec sync.Record
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	asset, err := h.service.CreateAsset(c.Context(), rec)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":  "submission rejected",
				"reason": string(conflict.Reason),
			})
		}
		return h.syncError(c, l, err)
	}

	return c.Status(fiber.StatusCreated).JSON(asset)
}

// HandleListAssets returns the filtered asset listing.
// @Summary List assets
// @Description Lists committed assets matching the filter. Retired assets are excluded unless status=retired is requested.
// @Tags assets
// @Produce json
// @Param internal_id query string false "Internal id"
// @Param external_tag query string false "External tag"
// @Param installer query string false "Installer"
// @Param element_type query string false "Element type"
// @Param location query string false "Location"
// @Param status query string false "Status (active, retired)"
// @Param installed_from query string false "Installed-at lower bound (RFC 3339)"
// @Param installed_to query string false "Installed-at upper bound (RFC 3339)"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {object} listResponse "Assets"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /assets [get]
func (h *Handler) HandleListAssets(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	f := ListFilter{
		InternalID:  c.Query("internal_id"),
		ExternalTag: c.Query("external_tag"),
		Installer:   c.Query("installer"),
		ElementType: c.Query("element_type"),
		Location:    c.Query("location"),
		Status:      models.Status(c.Query("status")),
		Offset:      c.QueryInt("offset"),
		Limit:       c.QueryInt("limit"),
	}
	if from := c.Query("installed_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid installed_from"})
		}
		f.InstalledFrom = &t
	}
	if to := c.Query("installed_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid installed_to"})
		}
		f.InstalledTo = &t
	}

	items, total, err := h.service.ListAssets(c.Context(), f)
	if err != nil {
		l.Error("Asset listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(listResponse{Total: total, Items: items})
}

// HandleGetAsset returns one asset by internal id.
// @Summary Get asset
// @Tags assets
// @Produce json
// @Param internalID path string true "Internal id"
// @Success 200 {object} models.Asset "Asset"
// @Failure 404 {object} map[string]string "Not found"
// @Router /assets/{internalID} [get]
func (h *Handler) HandleGetAsset(c *fiber.Ctx) error {
	return h.getAsset(c, func() (*models.Asset, error) {
		return h.service.GetAsset(c.Context(), c.Params("internalID"))
	})
}

// HandleGetAssetByTag returns one asset by external tag.
// @Summary Get asset by tag
// @Description Field lookup by externally scanned identifier (e.g. barcode).
// @Tags assets
// @Produce json
// @Param tag path string true "External tag"
// @Success 200 {object} models.Asset "Asset"
// @Failure 404 {object} map[string]string "Not found"
// @Router /assets/tag/{tag} [get]
func (h *Handler) HandleGetAssetByTag(c *fiber.Ctx) error {
	return h.getAsset(c, func() (*models.Asset, error) {
		return h.service.GetAssetByTag(c.Context(), c.Params("tag"))
	})
}

// HandleRetireAsset soft deletes an asset.
// @Summary Retire asset
// @Description Soft delete: the row persists with status retired and a bumped version.
// @Tags assets
// @Produce json
// @Param internalID path string true "Internal id"
// @Success 200 {object} models.Asset "Retired asset"
// @Failure 404 {object} map[string]string "Not found"
// @Router /assets/{internalID} [delete]
func (h *Handler) HandleRetireAsset(c *fiber.Ctx) error {
	return h.getAsset(c, func() (*models.Asset, error) {
		return h.service.RetireAsset(c.Context(), c.Params("internalID"))
	})
}

// HandleListConflicts returns quarantined submissions.
// @Summary List conflicts
// @Description Lists quarantined submissions for manual review, newest first.
// @Tags conflicts
// @Produce json
// @Param reason query string false "Reason (duplicate_key, version_mismatch)"
// @Param from query string false "Created-at lower bound (RFC 3339)"
// @Param to query string false "Created-at upper bound (RFC 3339)"
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size"
// @Success 200 {object} listResponse "Conflicts"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /conflicts [get]
func (h *Handler) HandleListConflicts(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	f := ConflictFilter{
		Reason: c.Query("reason"),
		Offset: c.QueryInt("offset"),
		Limit:  c.QueryInt("limit"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from"})
		}
		f.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to"})
		}
		f.To = &t
	}

	items, total, err := h.service.ListConflicts(c.Context(), f)
	if err != nil {
		l.Error("Conflict listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(listResponse{Total: total, Items: items})
}

// HandleGetConflict returns one quarantined submission.
// @Summary Get conflict
// @Tags conflicts
// @Produce json
// @Param id path int true "Conflict id"
// @Success 200 {object} models.ConflictiveAsset "Conflict"
// @Failure 404 {object} map[string]string "Not found"
// @Router /conflicts/{id} [get]
func (h *Handler) HandleGetConflict(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conflict id"})
	}

	row, svcErr := h.service.GetConflict(c.Context(), uint(id))
	if svcErr != nil {
		if errors.Is(svcErr, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conflict not found"})
		}
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Conflict fetch failed", zap.Error(svcErr))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": svcErr.Error()})
	}

	return c.JSON(row)
}

// HandleDeleteConflict discards a quarantined submission.
// @Summary Delete conflict
// @Tags conflicts
// @Produce json
// @Param id path int true "Conflict id"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Router /conflicts/{id} [delete]
func (h *Handler) HandleDeleteConflict(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conflict id"})
	}

	if err := h.service.DeleteConflict(c.Context(), uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conflict not found"})
		}
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Conflict deletion failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// HandleResolveConflict re-submits a corrected record through the pipeline.
// @Summary Resolve conflict
// @Description Administrative resolution: the corrected record re-enters the normal pipeline as a single-record batch. On acceptance the quarantine entry is deleted.
// @Tags conflicts
// @Accept json
// @Produce json
// @Param id path int true "Conflict id"
// @Param request body sync.Record true "Corrected record"
// @Success 200 {object} sync.BatchResult "Disposition of the re-submission"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 503 {object} map[string]string "Store unavailable"
// @Router /conflicts/{id}/resolve [post]
func (h *Handler) HandleResolveConflict(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid conflict id"})
	}

	var rec sync.Record
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, svcErr := h.service.ResolveConflict(c.Context(), uint(id), rec)
	if svcErr != nil {
		if errors.Is(svcErr, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conflict not found"})
		}
		return h.syncError(c, l, svcErr)
	}

	return c.JSON(result)
}

// getAsset handles the shared not-found and error mapping of single-asset reads.
func (h *Handler) getAsset(c *fiber.Ctx, fetch func() (*models.Asset, error)) error {
	asset, err := fetch()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "asset not found"})
		}
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Asset operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(asset)
}

// syncError maps engine errors onto HTTP statuses. The caller either gets a
// complete disposition summary or a single clear fatal error, never a silent
// partial list.
func (h *Handler) syncError(c *fiber.Ctx, l *zap.Logger, err error) error {
	var sizeErr *sync.BatchSizeError
	if errors.As(err, &sizeErr) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": sizeErr.Error(),
		})
	}

	var valErr *sync.ValidationError
	if errors.As(err, &valErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": valErr.Error(),
		})
	}

	var unavailable *sync.UnavailableError
	if errors.As(err, &unavailable) {
		l.Error("Store unavailable", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "store unavailable, retry the full batch",
		})
	}

	l.Error("Sync failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
