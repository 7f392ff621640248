package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sci-crm-api/internal/dto"
	"github.com/noah-isme/sci-crm-api/internal/models"
)

func TestActiveInquiryCount(t *testing.T) {
	assert.Equal(t, 2, ActiveInquiryCount(sampleSnapshot().Inquiries))
	assert.Equal(t, 0, ActiveInquiryCount(nil))
}

func TestStudentsPerProgram(t *testing.T) {
	view := sampleSnapshot()
	counts := StudentsPerProgram(view.Programs, view.Students)
	assert.Equal(t, []dto.ProgramCount{
		{ProgramID: "p1", Name: "JEE Foundation", Students: 2},
		{ProgramID: "p2", Name: "NEET Crash", Students: 0},
	}, counts)
}

func TestEmployeeLeaderboardIsStable(t *testing.T) {
	employees := []models.Employee{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}, {ID: "d", Name: "D"}}
	students := []models.Student{{EmployeeID: "c"}, {EmployeeID: "c"}, {EmployeeID: "b"}, {EmployeeID: "d"}, {EmployeeID: "zz"}, {}}

	board := EmployeeLeaderboard(employees, students)
	require.Len(t, board, 4)
	ids := make([]string, 0, len(board))
	for _, entry := range board {
		ids = append(ids, entry.EmployeeID)
	}
	assert.Equal(t, []string{"c", "b", "d", "a"}, ids)
	assert.Equal(t, 2, board[0].Conversions)
	assert.Equal(t, 0, board[3].Conversions)
}

func TestEmployeeLeaderboardWithoutStudents(t *testing.T) {
	employees := []models.Employee{{ID: "m", Name: "M"}, {ID: "a", Name: "A"}, {ID: "z", Name: "Z"}}

	board := EmployeeLeaderboard(employees, nil)
	assert.Equal(t, []dto.LeaderboardEntry{
		{EmployeeID: "m", Name: "M", Conversions: 0},
		{EmployeeID: "a", Name: "A", Conversions: 0},
		{EmployeeID: "z", Name: "Z", Conversions: 0},
	}, board)
}

func TestLeaderboardEntryJSON(t *testing.T) {
	data, err := json.Marshal(dto.LeaderboardEntry{EmployeeID: "a", Name: "A"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"employeeId":"a","name":"A","conversions":0}`, string(data))
}

func TestWeeklyEnrollmentTrend(t *testing.T) {
	trend := WeeklyEnrollmentTrend(sampleSnapshot().Students, fixedNow)
	require.Len(t, trend, 7)
	assert.Equal(t, "2024-05-04", trend[0].Date)
	assert.Equal(t, "May 4", trend[0].Label)
	assert.Equal(t, "2024-05-10", trend[6].Date)
	assert.Equal(t, 1, trend[6].Enrollments)
	assert.Equal(t, 1, trend[4].Enrollments)

	total := 0
	for _, point := range trend {
		total += point.Enrollments
	}
	assert.Equal(t, 2, total, "students outside the window are ignored")

	empty := WeeklyEnrollmentTrend(nil, fixedNow)
	for _, point := range empty {
		assert.Zero(t, point.Enrollments)
	}
}

func TestWeeklyEnrollmentTrendUsesUTCDays(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2024, 5, 11, 2, 0, 0, 0, ist)
	trend := WeeklyEnrollmentTrend(nil, late)
	assert.Equal(t, "2024-05-10", trend[6].Date)
}

func TestDashboardSummary(t *testing.T) {
	svc := NewDashboardService()
	svc.now = func() time.Time { return fixedNow }

	summary := svc.Summary(sampleSnapshot())
	assert.Equal(t, uint64(3), summary.Version)
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, 2, summary.ActiveInquiries)
	assert.Equal(t, 2, summary.TotalPrograms)
	assert.Len(t, summary.StudentsPerProgram, 2)
	require.Len(t, summary.Leaderboard, 2)
	assert.Equal(t, "meenagmailcom", summary.Leaderboard[0].EmployeeID)
	assert.Len(t, summary.WeeklyTrend, 7)
}

func TestFilterStudents(t *testing.T) {
	students := sampleSnapshot().Students

	assert.Len(t, FilterStudents(students, dto.StudentFilter{}), 3)
	assert.Len(t, FilterStudents(students, dto.StudentFilter{BatchID: "b1"}), 2)
	assert.Len(t, FilterStudents(students, dto.StudentFilter{Query: "asha"}), 1)
	assert.Len(t, FilterStudents(students, dto.StudentFilter{Query: "9900"}), 1)
	assert.Len(t, FilterStudents(students, dto.StudentFilter{EnrollmentID: "enr"}), 3)
	assert.Len(t, FilterStudents(students, dto.StudentFilter{Email: "ASHA@"}), 1)
	assert.Empty(t, FilterStudents(students, dto.StudentFilter{BatchID: "b1", Query: "kiran"}))
}

func TestFilterInquiriesProgramsPotentials(t *testing.T) {
	view := sampleSnapshot()

	assert.Len(t, FilterInquiries(view.Inquiries, dto.InquiryFilter{Query: "PRI"}), 1)
	assert.Len(t, FilterInquiries(view.Inquiries, dto.InquiryFilter{Query: "9000"}), 3)
	assert.Len(t, FilterPrograms(view.Programs, dto.ProgramFilter{Query: "nc"}), 1)
	assert.Len(t, FilterPotentials(view.Potentials, dto.InquiryFilter{Query: "tara"}), 1)
	assert.Len(t, FilterPotentials(view.Potentials, dto.InquiryFilter{}), 2)
}

func TestViewsResolveMissingReferences(t *testing.T) {
	view := sampleSnapshot()

	students := StudentViews(view, view.Students)
	require.Len(t, students, 3)
	assert.Equal(t, "JEE Foundation", students[0].ProgramName)
	assert.Equal(t, "Morning", students[0].BatchName)
	assert.Equal(t, "Meena", students[0].EmployeeName)
	assert.Equal(t, MissingLabel, students[2].ProgramName)

	inquiries := InquiryViews(view, view.Inquiries)
	assert.Equal(t, "NEET Crash", inquiries[0].ProgramName)
	assert.Equal(t, MissingLabel, inquiries[2].ProgramName)
	assert.Equal(t, MissingLabel, inquiries[2].EmployeeName)

	potentials := PotentialViews(view, view.Potentials)
	assert.Equal(t, "Ravi", potentials[0].EmployeeName)
	assert.Equal(t, MissingLabel, potentials[1].ProgramName)
}
