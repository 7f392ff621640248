package models

import "time"

// ExportDataset enumerates the collections that can be exported.
type ExportDataset string

const (
	ExportDatasetStudents   ExportDataset = "students"
	ExportDatasetInquiries  ExportDataset = "inquiries"
	ExportDatasetPotentials ExportDataset = "potentials"
)

// ExportFormat enumerates supported export encodings.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob tracks one asynchronous export.
type ExportJob struct {
	ID           string        `json:"id"`
	Dataset      ExportDataset `json:"dataset"`
	Format       ExportFormat  `json:"format"`
	Query        string        `json:"query,omitempty"`
	BatchID      string        `json:"batchId,omitempty"`
	Status       ExportStatus  `json:"status"`
	ResultURL    string        `json:"resultUrl,omitempty"`
	ObjectKey    string        `json:"objectKey,omitempty"`
	RequestedBy  string        `json:"requestedBy"`
	CreatedAt    time.Time     `json:"createdAt"`
	FinishedAt   *time.Time    `json:"finishedAt,omitempty"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
}
