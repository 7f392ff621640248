package dto

import "github.com/noah-isme/sci-crm-api/internal/models"

// CreateInquiryRequest captures a new lead. EmployeeID defaults to the
// signed-in employee.
type CreateInquiryRequest struct {
	Name                string               `json:"name" validate:"required"`
	Phone               string               `json:"phone" validate:"required"`
	Email               string               `json:"email" validate:"omitempty,email"`
	Address             string               `json:"address"`
	ProgramOfInterestID string               `json:"programOfInterestId"`
	EmployeeID          string               `json:"employeeId"`
	Status              models.InquiryStatus `json:"status" validate:"omitempty,oneof=New Follow-up Enrolled Dropped"`
	Source              models.InquirySource `json:"source" validate:"omitempty,oneof=Walk-in Website Referral 'Social Media' Other"`
	Notes               string               `json:"notes"`
	InquiryDate         string               `json:"inquiryDate" validate:"required"`
	FollowUpDate        string               `json:"followUpDate"`
}

// UpdateInquiryRequest merges only the supplied fields into an inquiry.
type UpdateInquiryRequest struct {
	Name                *string               `json:"name" validate:"omitempty,min=1"`
	Phone               *string               `json:"phone" validate:"omitempty,min=1"`
	Email               *string               `json:"email" validate:"omitempty,email"`
	Address             *string               `json:"address"`
	ProgramOfInterestID *string               `json:"programOfInterestId"`
	EmployeeID          *string               `json:"employeeId"`
	Status              *models.InquiryStatus `json:"status" validate:"omitempty,oneof=New Follow-up Enrolled Dropped"`
	Source              *models.InquirySource `json:"source" validate:"omitempty,oneof=Walk-in Website Referral 'Social Media' Other"`
	Notes               *string               `json:"notes"`
	InquiryDate         *string               `json:"inquiryDate" validate:"omitempty,min=1"`
	FollowUpDate        *string               `json:"followUpDate"`
}

// Fields returns the supplied fields keyed by their stored names.
func (r UpdateInquiryRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	put := func(key string, value *string) {
		if value != nil {
			fields[key] = *value
		}
	}
	put("name", r.Name)
	put("phone", r.Phone)
	put("email", r.Email)
	put("address", r.Address)
	put("programOfInterestId", r.ProgramOfInterestID)
	put("employeeId", r.EmployeeID)
	put("notes", r.Notes)
	put("inquiryDate", r.InquiryDate)
	put("followUpDate", r.FollowUpDate)
	if r.Status != nil {
		fields["status"] = string(*r.Status)
	}
	if r.Source != nil {
		fields["source"] = string(*r.Source)
	}
	return fields
}

// MoveToPotentialRequest promotes one inquiry.
type MoveToPotentialRequest struct {
	Remark string `json:"remark" validate:"required"`
}

// MoveManyToPotentialsRequest promotes several inquiries with one remark.
type MoveManyToPotentialsRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Remark string   `json:"remark" validate:"required"`
}

// MoveResult maps each promoted inquiry to its new potential and lists the
// requested inquiries that were not found.
type MoveResult struct {
	Potentials map[string]string `json:"potentials"`
	Skipped    []string          `json:"skipped"`
}

// PotentialRequest is the full replacement body for a potential.
type PotentialRequest struct {
	Name                string               `json:"name" validate:"required"`
	Phone               string               `json:"phone" validate:"required"`
	Email               string               `json:"email" validate:"omitempty,email"`
	Address             string               `json:"address"`
	ProgramOfInterestID string               `json:"programOfInterestId"`
	EmployeeID          string               `json:"employeeId"`
	Status              models.InquiryStatus `json:"status" validate:"omitempty,oneof=New Follow-up Enrolled Dropped"`
	Source              models.InquirySource `json:"source" validate:"omitempty,oneof=Walk-in Website Referral 'Social Media' Other"`
	Notes               string               `json:"notes"`
	InquiryDate         string               `json:"inquiryDate"`
	FollowUpDate        string               `json:"followUpDate"`
	Remark              string               `json:"remark" validate:"required"`
}

// Potential converts the request into the stored record.
func (r PotentialRequest) Potential() models.Potential {
	return models.Potential{
		Inquiry: models.Inquiry{
			Name:                r.Name,
			Phone:               r.Phone,
			Email:               r.Email,
			Address:             r.Address,
			ProgramOfInterestID: r.ProgramOfInterestID,
			EmployeeID:          r.EmployeeID,
			Status:              r.Status,
			Source:              r.Source,
			Notes:               r.Notes,
			InquiryDate:         r.InquiryDate,
			FollowUpDate:        r.FollowUpDate,
		},
		Remark: r.Remark,
	}
}

// EnrollPotentialRequest overrides the defaults derived from the potential
// when creating the student. Empty fields keep the derived value.
type EnrollPotentialRequest struct {
	FullName     string               `json:"fullName"`
	EnrollmentID string               `json:"enrollmentId"`
	DOB          string               `json:"dob"`
	ClassName    string               `json:"className"`
	School       string               `json:"school"`
	ProgramID    string               `json:"programId"`
	BatchID      string               `json:"batchId"`
	Medium       string               `json:"medium"`
	Board        string               `json:"board"`
	Phone        string               `json:"phone"`
	Email        string               `json:"email" validate:"omitempty,email"`
	Address      string               `json:"address"`
	Status       models.StudentStatus `json:"status" validate:"omitempty,oneof=active inactive completed"`
}
