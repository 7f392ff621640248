package service

import (
	"strings"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
)

// MissingLabel stands in for references that no longer resolve.
const MissingLabel = "N/A"

// FilterStudents applies every non-empty criterion. Name matching is
// case-insensitive; phone matching is literal.
func FilterStudents(students []models.Student, filter dto.StudentFilter) []models.Student {
	query := strings.ToLower(filter.Query)
	enrollment := strings.ToLower(filter.EnrollmentID)
	email := strings.ToLower(filter.Email)

	out := make([]models.Student, 0, len(students))
	for _, student := range students {
		if filter.BatchID != "" && student.BatchID != filter.BatchID {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(student.FullName), query) &&
			!(student.Phone != "" && strings.Contains(student.Phone, filter.Query)) {
			continue
		}
		if enrollment != "" && !strings.Contains(strings.ToLower(student.EnrollmentID), enrollment) {
			continue
		}
		if email != "" && (student.Email == "" || !strings.Contains(strings.ToLower(student.Email), email)) {
			continue
		}
		out = append(out, student)
	}
	return out
}

// FilterInquiries keeps inquiries whose name or phone matches the query.
func FilterInquiries(inquiries []models.Inquiry, filter dto.InquiryFilter) []models.Inquiry {
	if filter.Query == "" {
		return inquiries
	}
	query := strings.ToLower(filter.Query)
	out := make([]models.Inquiry, 0, len(inquiries))
	for _, inquiry := range inquiries {
		if strings.Contains(strings.ToLower(inquiry.Name), query) ||
			(inquiry.Phone != "" && strings.Contains(inquiry.Phone, filter.Query)) {
			out = append(out, inquiry)
		}
	}
	return out
}

// FilterPotentials applies the inquiry query rules to potentials.
func FilterPotentials(potentials []models.Potential, filter dto.InquiryFilter) []models.Potential {
	if filter.Query == "" {
		return potentials
	}
	query := strings.ToLower(filter.Query)
	out := make([]models.Potential, 0, len(potentials))
	for _, potential := range potentials {
		if strings.Contains(strings.ToLower(potential.Name), query) ||
			(potential.Phone != "" && strings.Contains(potential.Phone, filter.Query)) {
			out = append(out, potential)
		}
	}
	return out
}

// FilterPrograms keeps programs whose name or code matches the query.
func FilterPrograms(programs []models.Program, filter dto.ProgramFilter) []models.Program {
	if filter.Query == "" {
		return programs
	}
	query := strings.ToLower(filter.Query)
	out := make([]models.Program, 0, len(programs))
	for _, program := range programs {
		if strings.Contains(strings.ToLower(program.Name), query) || strings.Contains(strings.ToLower(program.Code), query) {
			out = append(out, program)
		}
	}
	return out
}

// StudentViews resolves program, batch and employee names for display.
func StudentViews(view *models.Snapshot, students []models.Student) []dto.StudentView {
	programs, batches, employees := view.ProgramNames(), view.BatchNames(), view.EmployeeNames()
	out := make([]dto.StudentView, 0, len(students))
	for _, student := range students {
		out = append(out, dto.StudentView{
			Student:      student,
			ProgramName:  label(programs, student.ProgramID),
			BatchName:    label(batches, student.BatchID),
			EmployeeName: label(employees, student.EmployeeID),
		})
	}
	return out
}

// InquiryViews resolves program and employee names for display.
func InquiryViews(view *models.Snapshot, inquiries []models.Inquiry) []dto.InquiryView {
	programs, employees := view.ProgramNames(), view.EmployeeNames()
	out := make([]dto.InquiryView, 0, len(inquiries))
	for _, inquiry := range inquiries {
		out = append(out, dto.InquiryView{
			Inquiry:      inquiry,
			ProgramName:  label(programs, inquiry.ProgramOfInterestID),
			EmployeeName: label(employees, inquiry.EmployeeID),
		})
	}
	return out
}

// PotentialViews resolves program and employee names for display.
func PotentialViews(view *models.Snapshot, potentials []models.Potential) []dto.PotentialView {
	programs, employees := view.ProgramNames(), view.EmployeeNames()
	out := make([]dto.PotentialView, 0, len(potentials))
	for _, potential := range potentials {
		out = append(out, dto.PotentialView{
			Potential:    potential,
			ProgramName:  label(programs, potential.ProgramOfInterestID),
			EmployeeName: label(employees, potential.EmployeeID),
		})
	}
	return out
}

func label(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return MissingLabel
}
