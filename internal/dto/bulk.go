package dto

// BulkDeleteRequest lists record ids to delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ReassignBatchRequest moves students into one batch.
type ReassignBatchRequest struct {
	IDs     []string `json:"ids" validate:"required,min=1,dive,required"`
	BatchID string   `json:"batchId" validate:"required"`
}

// BulkResult reports which ids a bulk mutation touched and which it skipped.
type BulkResult struct {
	Affected  []string `json:"affected"`
	Skipped   []string `json:"skipped,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}
