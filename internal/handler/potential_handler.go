package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/service"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// PotentialHandler exposes potential endpoints.
type PotentialHandler struct {
	lifecycle *service.LifecycleService
}

// NewPotentialHandler constructs the handler.
func NewPotentialHandler(lifecycle *service.LifecycleService) *PotentialHandler {
	return &PotentialHandler{lifecycle: lifecycle}
}

// List godoc
// @Summary List potentials
// @Tags Potentials
// @Security BearerAuth
// @Produce json
// @Param q query string false "Name or phone"
// @Success 200 {object} response.Envelope
// @Router /potentials [get]
func (h *PotentialHandler) List(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var filter dto.InquiryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	potentials := service.PotentialViews(view, service.FilterPotentials(view.Potentials, filter))
	response.OK(c, potentials, map[string]interface{}{"total": len(potentials), "version": view.Version})
}

// Update godoc
// @Summary Replace potential
// @Tags Potentials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Potential ID"
// @Param payload body dto.PotentialRequest true "Potential payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /potentials/{id} [put]
func (h *PotentialHandler) Update(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.PotentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.lifecycle.EditPotential(c.Request.Context(), view, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Enroll godoc
// @Summary Enroll a potential as a student
// @Description Fields left out of the body are derived from the potential and the configured defaults
// @Tags Potentials
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Potential ID"
// @Param payload body dto.EnrollPotentialRequest false "Student overrides"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /potentials/{id}/enroll [post]
func (h *PotentialHandler) Enroll(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.EnrollPotentialRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}

	student, err := h.lifecycle.EnrollPotential(c.Request.Context(), view, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}
