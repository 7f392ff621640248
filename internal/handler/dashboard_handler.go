package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
	appErrors "github.com/noah-isme/sci-crm-api/pkg/errors"
	"github.com/noah-isme/sci-crm-api/pkg/response"
)

type dashboardService interface {
	Summary(view *models.Snapshot) dto.DashboardSummary
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Totals, students per program, enrollment leaderboard and the seven day trend
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	response.OK(c, h.service.Summary(view))
}
