package models

// EmployeeStatusApproved is the only status that admits an identity.
const EmployeeStatusApproved = "approved"

// Employee is a staff member allowed to use the dashboard once approved. The
// record key is derived from the employee's email.
type Employee struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
}

// SetID implements Keyed.
func (e *Employee) SetID(id string) { e.ID = id }

// Approved reports whether the employee may access the platform.
func (e *Employee) Approved() bool {
	return e != nil && e.Status == EmployeeStatusApproved
}
