package dto

import "github.com/noah-isme/sci-crm-api/internal/models"

// StudentRequest is the body for creating or updating a student.
type StudentRequest struct {
	FullName     string               `json:"fullName" validate:"required"`
	EnrollmentID string               `json:"enrollmentId" validate:"required"`
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
	Status       models.StudentStatus `json:"status" validate:"required,oneof=active inactive completed"`
	EmployeeID   string               `json:"employeeId"`
}

// Student converts the request into the stored record.
func (r StudentRequest) Student() models.Student {
	return models.Student{
		FullName:     r.FullName,
		EnrollmentID: r.EnrollmentID,
		DOB:          r.DOB,
		ClassName:    r.ClassName,
		School:       r.School,
		ProgramID:    r.ProgramID,
		BatchID:      r.BatchID,
		Medium:       r.Medium,
		Board:        r.Board,
		Phone:        r.Phone,
		Email:        r.Email,
		Address:      r.Address,
		Status:       r.Status,
		EmployeeID:   r.EmployeeID,
	}
}

// ProgramRequest is the body for creating or updating a program.
type ProgramRequest struct {
	Name           string               `json:"name" validate:"required"`
	Category       string               `json:"category"`
	Code           string               `json:"code"`
	Description    string               `json:"description"`
	Duration       string               `json:"duration"`
	Fee            float64              `json:"fee" validate:"gte=0"`
	Status         models.ProgramStatus `json:"status" validate:"required,oneof=active inactive"`
	TargetAudience string               `json:"targetAudience"`
}

// Program converts the request into the stored record.
func (r ProgramRequest) Program() models.Program {
	return models.Program{
		Name:           r.Name,
		Category:       r.Category,
		Code:           r.Code,
		Description:    r.Description,
		Duration:       r.Duration,
		Fee:            r.Fee,
		Status:         r.Status,
		TargetAudience: r.TargetAudience,
	}
}

// BatchRequest is the body for creating or updating a batch.
type BatchRequest struct {
	Name    string             `json:"name" validate:"required"`
	Code    string             `json:"code"`
	Remarks string             `json:"remarks"`
	Status  models.BatchStatus `json:"status" validate:"required,oneof=active inactive"`
}

// Batch converts the request into the stored record.
func (r BatchRequest) Batch() models.Batch {
	return models.Batch{Name: r.Name, Code: r.Code, Remarks: r.Remarks, Status: r.Status}
}

// ExamRecordRequest is the body for adding or replacing an exam result.
type ExamRecordRequest struct {
	AIR     models.Scalar `json:"air"`
	Name    string        `json:"name" validate:"required"`
	Program string        `json:"program"`
	Score   models.Scalar `json:"score"`
	URL     string        `json:"url" validate:"omitempty,url"`
}

// Record converts the request into the stored record.
func (r ExamRecordRequest) Record() models.ExamRecord {
	return models.ExamRecord{AIR: r.AIR, Name: r.Name, Program: r.Program, Score: r.Score, URL: r.URL}
}
