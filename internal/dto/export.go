package dto

import "github.com/noah-isme/sci-crm-api/internal/models"

// ExportRequest asks for an asynchronous export of one collection.
type ExportRequest struct {
	Dataset models.ExportDataset `json:"dataset" validate:"required,oneof=students inquiries potentials"`
	Format  models.ExportFormat  `json:"format" validate:"required,oneof=csv pdf"`
	Query   string               `json:"query"`
	BatchID string               `json:"batchId"`
}
