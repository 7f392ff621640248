package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/repository"
	"github.com/noah-isme/sci-crm-api/internal/service"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// InquiryHandler exposes inquiry endpoints, including promotion to potential.
type InquiryHandler struct {
	lifecycle *service.LifecycleService
	bulk      *service.BulkService
}

// NewInquiryHandler constructs the handler.
func NewInquiryHandler(lifecycle *service.LifecycleService, bulk *service.BulkService) *InquiryHandler {
	return &InquiryHandler{lifecycle: lifecycle, bulk: bulk}
}

// List godoc
// @Summary List inquiries
// @Tags Inquiries
// @Security BearerAuth
// @Produce json
// @Param q query string false "Name or phone"
// @Success 200 {object} response.Envelope
// @Router /inquiries [get]
func (h *InquiryHandler) List(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var filter dto.InquiryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	inquiries := service.InquiryViews(view, service.FilterInquiries(view.Inquiries, filter))
	response.OK(c, inquiries, map[string]interface{}{"total": len(inquiries), "version": view.Version})
}

// Create godoc
// @Summary Create inquiry
// @Description Status defaults to New, source to Other and employee to the signed-in employee
// @Tags Inquiries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.CreateInquiryRequest true "Inquiry payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /inquiries [post]
func (h *InquiryHandler) Create(c *gin.Context) {
	session, _, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	inquiry, err := h.lifecycle.CreateInquiry(c.Request.Context(), session.EmployeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inquiry)
}

// Update godoc
// @Summary Edit inquiry
// @Description Merges the supplied fields. Changing status never moves the inquiry
// @Tags Inquiries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param payload body dto.UpdateInquiryRequest true "Fields to change"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /inquiries/{id} [patch]
func (h *InquiryHandler) Update(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.lifecycle.EditInquiry(c.Request.Context(), view, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete several inquiries
// @Tags Inquiries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.BulkDeleteRequest true "Inquiry IDs"
// @Success 200 {object} response.Envelope
// @Router /inquiries/bulk-delete [post]
func (h *InquiryHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.bulk.BulkDelete(c.Request.Context(), repository.CollectionInquiries, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// MoveToPotential godoc
// @Summary Promote an inquiry to a potential
// @Tags Inquiries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Inquiry ID"
// @Param payload body dto.MoveToPotentialRequest true "Remark"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /inquiries/{id}/move-to-potential [post]
func (h *InquiryHandler) MoveToPotential(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.MoveToPotentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	inquiryID := c.Param("id")
	potentialID, err := h.lifecycle.MoveToPotential(c.Request.Context(), view, inquiryID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"inquiryId": inquiryID, "potentialId": potentialID})
}

// MoveManyToPotentials godoc
// @Summary Promote several inquiries to potentials
// @Description All found inquiries move in one atomic write. Missing IDs are reported as skipped
// @Tags Inquiries
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.MoveManyToPotentialsRequest true "Inquiry IDs and remark"
// @Success 200 {object} response.Envelope
// @Router /inquiries/move-to-potential [post]
func (h *InquiryHandler) MoveManyToPotentials(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.MoveManyToPotentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.lifecycle.MoveManyToPotentials(c.Request.Context(), view, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
