package models

// BatchStatus enumerates batch availability.
type BatchStatus string

const (
	BatchStatusActive   BatchStatus = "active"
	BatchStatusInactive BatchStatus = "inactive"
)

// Batch is a cohort that students are grouped into.
type Batch struct {
	ID           string      `json:"id,omitempty"`
	Name         string      `json:"name" validate:"required"`
	Code         string      `json:"code"`
	Remarks      string      `json:"remarks"`
	Status       BatchStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	StudentCount *int        `json:"studentCount,omitempty"`
	CreatedAt    string      `json:"createdAt,omitempty"`
	UpdatedAt    string      `json:"updatedAt,omitempty"`
}

// SetID implements Keyed.
func (b *Batch) SetID(id string) { b.ID = id }
