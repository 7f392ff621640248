package models

// StudentStatus enumerates enrolment states.
type StudentStatus string

const (
	StudentStatusActive    StudentStatus = "active"
	StudentStatusInactive  StudentStatus = "inactive"
	StudentStatusCompleted StudentStatus = "completed"
)

// Student is an enrolled learner. Records live under the users collection.
type Student struct {
	ID           string        `json:"id,omitempty"`
	FullName     string        `json:"fullName" validate:"required"`
	EnrollmentID string        `json:"enrollmentId"`
	DOB          string        `json:"dob"`
	ClassName    string        `json:"className"`
	School       string        `json:"school"`
	ProgramID    string        `json:"programId"`
	BatchID      string        `json:"batchId"`
	Medium       string        `json:"medium"`
	Board        string        `json:"board"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email" validate:"omitempty,email"`
	Address      string        `json:"address"`
	Status       StudentStatus `json:"status" validate:"omitempty,oneof=active inactive completed"`
	EmployeeID   string        `json:"employeeId,omitempty"`
	CreatedAt    string        `json:"createdAt,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"`
}

// SetID implements Keyed.
func (s *Student) SetID(id string) { s.ID = id }
