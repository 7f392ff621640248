package service

import (
	"time"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
)

// DashboardService composes the landing page summary from a session snapshot.
type DashboardService struct {
	now func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService() *DashboardService {
	return &DashboardService{now: time.Now}
}

// Summary recomputes every counter from view.
func (s *DashboardService) Summary(view *models.Snapshot) dto.DashboardSummary {
	return dto.DashboardSummary{
		Version:            view.Version,
		TotalStudents:      len(view.Students),
		ActiveInquiries:    ActiveInquiryCount(view.Inquiries),
		TotalPrograms:      len(view.Programs),
		StudentsPerProgram: StudentsPerProgram(view.Programs, view.Students),
		Leaderboard:        EmployeeLeaderboard(view.Employees, view.Students),
		WeeklyTrend:        WeeklyEnrollmentTrend(view.Students, s.now()),
	}
}
