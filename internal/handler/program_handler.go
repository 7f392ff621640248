package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/service"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// ProgramHandler exposes program endpoints.
type ProgramHandler struct {
	catalog *service.CatalogService
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(catalog *service.CatalogService) *ProgramHandler {
	return &ProgramHandler{catalog: catalog}
}

// List godoc
// @Summary List programs
// @Tags Programs
// @Security BearerAuth
// @Produce json
// @Param q query string false "Name or code"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var filter dto.ProgramFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	programs := service.FilterPrograms(view.Programs, filter)
	response.OK(c, programs, map[string]interface{}{"total": len(programs), "version": view.Version})
}

// Create godoc
// @Summary Create program
// @Tags Programs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.ProgramRequest true "Program payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /programs [post]
func (h *ProgramHandler) Create(c *gin.Context) {
	var req dto.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	program, err := h.catalog.AddProgram(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, program)
}

// Update godoc
// @Summary Update program
// @Tags Programs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param payload body dto.ProgramRequest true "Program payload"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /programs/{id} [put]
func (h *ProgramHandler) Update(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.ProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.catalog.UpdateProgram(c.Request.Context(), view, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
