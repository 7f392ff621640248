package models

// ProgramStatus enumerates program availability.
type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"
	ProgramStatusInactive ProgramStatus = "inactive"
)

// Program is a course offering.
type Program struct {
	ID             string        `json:"id,omitempty"`
	Name           string        `json:"name" validate:"required"`
	Category       string        `json:"category"`
	Code           string        `json:"code"`
	Description    string        `json:"description"`
	Duration       string        `json:"duration"`
	Fee            float64       `json:"fee" validate:"gte=0"`
	Status         ProgramStatus `json:"status" validate:"omitempty,oneof=active inactive"`
	TargetAudience string        `json:"targetAudience"`
	CreatedAt      string        `json:"createdAt,omitempty"`
	UpdatedAt      string        `json:"updatedAt,omitempty"`
}

// SetID implements Keyed.
func (p *Program) SetID(id string) { p.ID = id }
