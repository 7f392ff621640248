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

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	catalog *service.CatalogService
	bulk    *service.BulkService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(catalog *service.CatalogService, bulk *service.BulkService) *StudentHandler {
	return &StudentHandler{catalog: catalog, bulk: bulk}
}

// List godoc
// @Summary List students
// @Description Lists students from the session snapshot with program, batch and employee names
// @Tags Students
// @Security BearerAuth
// @Produce json
// @Param batchId query string false "Batch ID"
// @Param q query string false "Name, enrollment ID, email or phone"
// @Param enrollmentId query string false "Exact enrollment ID"
// @Param email query string false "Exact email"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var filter dto.StudentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	students := service.StudentViews(view, service.FilterStudents(view.Students, filter))
	response.OK(c, students, map[string]interface{}{"total": len(students), "version": view.Version})
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	session, _, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	student, err := h.catalog.AddStudent(c.Request.Context(), session.EmployeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.StudentRequest true "Student payload"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.catalog.UpdateStudent(c.Request.Context(), view, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDelete godoc
// @Summary Delete several students
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.BulkDeleteRequest true "Student IDs"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/bulk-delete [post]
func (h *StudentHandler) BulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.bulk.BulkDelete(c.Request.Context(), repository.CollectionStudents, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ReassignBatch godoc
// @Summary Move students into a batch
// @Description Students missing from the session snapshot are reported as skipped
// @Tags Students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body dto.ReassignBatchRequest true "Student IDs and target batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/reassign-batch [post]
func (h *StudentHandler) ReassignBatch(c *gin.Context) {
	_, view, ok := viewFromContext(c)
	if !ok {
		return
	}
	var req dto.ReassignBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.bulk.BulkReassignBatch(c.Request.Context(), view, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
