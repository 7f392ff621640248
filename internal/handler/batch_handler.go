package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/service"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// BatchHandler exposes batch endpoints.
type BatchHandler struct {
	catalog *service.CatalogService
}

// NewBatchHandler constructs the handler.
func NewBatchHandler(catalog *service.CatalogService) *BatchHandler {
	return &BatchHandler{catalog: catalog}
}

// List godoc
// @Summary List batches
// @Tags Batches
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	response.OK(c, view.Batches, map[string]interface{}{"total": len(view.Batches), "version": view.Version})
}

// Create godoc
// @Summary Create batch
// @Tags Batches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.BatchRequest true "Batch payload"
// @Success 201 {object} response.Envelope
// @Router /batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	batch, err := h.catalog.AddBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// Update godoc
// @Summary Update batch
// @Tags Batches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.BatchRequest true "Batch payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /batches/{id} [put]
func (h *BatchHandler) Update(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.catalog.UpdateBatch(c.Request.Context(), view, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
