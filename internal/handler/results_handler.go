package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/service"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// ResultsHandler exposes the exam results showcase.
type ResultsHandler struct {
	results *service.ResultsService
}

// NewResultsHandler constructs the handler.
func NewResultsHandler(results *service.ResultsService) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// List godoc
// @Summary List exam results
// @Description Results grouped by exam with years newest first
// @Tags Results
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultsHandler) List(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	response.OK(c, h.results.List(view))
}

// Create godoc
// @Summary Add an exam result
// @Tags Results
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param exam path string true "Exam name"
// @Param year path string true "Year"
// @Param payload body dto.ExamRecordRequest true "Result payload"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /results/{exam}/{year} [post]
func (h *ResultsHandler) Create(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.ExamRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.results.Add(c.Request.Context(), view, c.Param("exam"), c.Param("year"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Update godoc
// @Summary Replace an exam result
// @Tags Results
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param exam path string true "Exam name"
// @Param year path string true "Year"
// @Param index path int true "Position within the year"
// @Param payload body dto.ExamRecordRequest true "Result payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /results/{exam}/{year}/{index} [put]
func (h *ResultsHandler) Update(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	index, ok := recordIndex(c)
	if !ok {
		return
	}
	var req dto.ExamRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.results.Replace(c.Request.Context(), view, c.Param("exam"), c.Param("year"), index, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Remove an exam result
// @Tags Results
// @Security BearerAuth
// @Param exam path string true "Exam name"
// @Param year path string true "Year"
// @Param index path int true "Position within the year"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /results/{exam}/{year}/{index} [delete]
func (h *ResultsHandler) Delete(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	index, ok := recordIndex(c)
	if !ok {
		return
	}

	if err := h.results.Remove(c.Request.Context(), view, c.Param("exam"), c.Param("year"), index); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func recordIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "index must be a non-negative integer"))
		return 0, false
	}
	return index, true
}
