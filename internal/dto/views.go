package dto

import "github.com/noah-isme/sci-crm-api/internal/models"

// StudentView decorates a student with display names of its references.
type StudentView struct {
	models.Student
	ProgramName  string `json:"programName"`
	BatchName    string `json:"batchName"`
	EmployeeName string `json:"employeeName"`
}

// InquiryView decorates an inquiry with display names of its references.
type InquiryView struct {
	models.Inquiry
	ProgramName  string `json:"programName"`
	EmployeeName string `json:"employeeName"`
}

// PotentialView decorates a potential with display names of its references.
type PotentialView struct {
	models.Potential
	ProgramName  string `json:"programName"`
	EmployeeName string `json:"employeeName"`
}

// StudentFilter narrows the student list. All criteria combine.
type StudentFilter struct {
	BatchID      string `form:"batchId"`
	Query        string `form:"q"`
	EnrollmentID string `form:"enrollmentId"`
	Email        string `form:"email"`
}

// InquiryFilter narrows the inquiry list by name or phone.
type InquiryFilter struct {
	Query string `form:"q"`
}

// ExamYear groups the records of one year.
type ExamYear struct {
	Year    string              `json:"year"`
	Records []models.ExamRecord `json:"records"`
}

// ExamGroup lists one exam's years, newest first.
type ExamGroup struct {
	Exam  string     `json:"exam"`
	Years []ExamYear `json:"years"`
}

// ProgramFilter narrows the program list by name or code.
type ProgramFilter struct {
	Query string `form:"q"`
}
