package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sci-crm-api/internal/middleware"
)

// Handlers groups every HTTP handler served under the API prefix.
type Handlers struct {
	Auth       *AuthHandler
	Students   *StudentHandler
	Inquiries  *InquiryHandler
	Potentials *PotentialHandler
	Programs   *ProgramHandler
	Batches    *BatchHandler
	Results    *ResultsHandler
	Employees  *EmployeeHandler
	Dashboard  *DashboardHandler
	Exports    *ExportHandler
}

// RouteConfig toggles the optional route groups.
type RouteConfig struct {
	DashboardEnabled bool
	ExportsEnabled   bool
}

// RegisterRoutes mounts the API on group. session guards every route that
// reads or writes records.
func RegisterRoutes(group *gin.RouterGroup, session gin.HandlerFunc, cfg RouteConfig, h Handlers) {
	auth := group.Group("/auth")
	auth.POST("/sign-in", h.Auth.SignIn)
	auth.POST("/sign-in/federated", h.Auth.SignInFederated)
	auth.POST("/sign-up", h.Auth.SignUp)
	auth.POST("/sign-out", session, h.Auth.SignOut)
	auth.GET("/me", session, h.Auth.Me)

	// Signed download links carry their own credential.
	exportsEnabled := middleware.Feature("exports", cfg.ExportsEnabled)
	group.GET("/exports/download/:token", exportsEnabled, h.Exports.Download)

	secured := group.Group("")
	secured.Use(session)

	secured.GET("/students", h.Students.List)
	secured.POST("/students", h.Students.Create)
	secured.PUT("/students/:id", h.Students.Update)
	secured.DELETE("/students/:id", h.Students.Delete)
	secured.POST("/students/bulk-delete", h.Students.BulkDelete)
	secured.POST("/students/reassign-batch", h.Students.ReassignBatch)

	secured.GET("/inquiries", h.Inquiries.List)
	secured.POST("/inquiries", h.Inquiries.Create)
	secured.PATCH("/inquiries/:id", h.Inquiries.Update)
	secured.POST("/inquiries/bulk-delete", h.Inquiries.BulkDelete)
	secured.POST("/inquiries/move-to-potential", h.Inquiries.MoveManyToPotentials)
	secured.POST("/inquiries/:id/move-to-potential", h.Inquiries.MoveToPotential)

	secured.GET("/potentials", h.Potentials.List)
	secured.PUT("/potentials/:id", h.Potentials.Update)
	secured.POST("/potentials/:id/enroll", h.Potentials.Enroll)

	secured.GET("/programs", h.Programs.List)
	secured.POST("/programs", h.Programs.Create)
	secured.PUT("/programs/:id", h.Programs.Update)

	secured.GET("/batches", h.Batches.List)
	secured.POST("/batches", h.Batches.Create)
	secured.PUT("/batches/:id", h.Batches.Update)

	secured.GET("/results", h.Results.List)
	secured.POST("/results/:exam/:year", h.Results.Create)
	secured.PUT("/results/:exam/:year/:index", h.Results.Update)
	secured.DELETE("/results/:exam/:year/:index", h.Results.Delete)

	secured.GET("/employees", h.Employees.List)
	secured.GET("/dashboard", middleware.Feature("dashboard", cfg.DashboardEnabled), h.Dashboard.Summary)

	exports := secured.Group("/exports", exportsEnabled)
	exports.POST("", h.Exports.Create)
	exports.GET("/:id", h.Exports.Get)
}
