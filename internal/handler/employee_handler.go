package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/pkg/response"
)

// EmployeeHandler lists employees for assignment pickers and the leaderboard.
type EmployeeHandler struct{}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler() *EmployeeHandler {
	return &EmployeeHandler{}
}

// List godoc
// @Summary List employees
// @Tags Employees
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	response.OK(c, view.Employees, map[string]interface{}{"total": len(view.Employees)})
}
