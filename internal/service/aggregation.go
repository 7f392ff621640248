package service

import (
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
)

const trendDays = 7

// ActiveInquiryCount counts inquiries still marked New or Follow-up.
func ActiveInquiryCount(inquiries []models.Inquiry) int {
	count := 0
	for _, inquiry := range inquiries {
		if inquiry.Status.Active() {
			count++
		}
	}
	return count
}

// StudentsPerProgram counts students per program, in program order.
func StudentsPerProgram(programs []models.Program, students []models.Student) []dto.ProgramCount {
	counts := make(map[string]int, len(programs))
	for _, student := range students {
		counts[student.ProgramID]++
	}
	out := make([]dto.ProgramCount, 0, len(programs))
	for _, program := range programs {
		out = append(out, dto.ProgramCount{ProgramID: program.ID, Name: program.Name, Students: counts[program.ID]})
	}
	return out
}

// EmployeeLeaderboard ranks every employee by enrolled students, most first.
// Ties keep the employees' input order.
func EmployeeLeaderboard(employees []models.Employee, students []models.Student) []dto.LeaderboardEntry {
	counts := make(map[string]int, len(employees))
	for _, student := range students {
		if student.EmployeeID != "" {
			counts[student.EmployeeID]++
		}
	}
	out := make([]dto.LeaderboardEntry, 0, len(employees))
	for _, employee := range employees {
		out = append(out, dto.LeaderboardEntry{EmployeeID: employee.ID, Name: employee.Name, Conversions: counts[employee.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Conversions > out[j].Conversions
	})
	return out
}

// WeeklyEnrollmentTrend counts students created on each of the seven UTC
// days ending with today, oldest first. Days without enrollments report zero.
func WeeklyEnrollmentTrend(students []models.Student, today time.Time) []dto.TrendPoint {
	today = today.UTC()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(trendDays - 1))

	out := make([]dto.TrendPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := start.AddDate(0, 0, i)
		prefix := day.Format("2006-01-02")
		count := 0
		for _, student := range students {
			if strings.HasPrefix(student.CreatedAt, prefix) {
				count++
			}
		}
		out = append(out, dto.TrendPoint{Date: prefix, Label: day.Format("Jan 2"), Enrollments: count})
	}
	return out
}
