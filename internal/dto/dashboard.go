package dto

// ProgramCount is the number of students enrolled in one program.
type ProgramCount struct {
	ProgramID string `json:"programId"`
	Name      string `json:"name"`
	Students  int    `json:"students"`
}

// LeaderboardEntry is the number of students an employee converted.
type LeaderboardEntry struct {
	EmployeeID  string `json:"employeeId"`
	Name        string `json:"name"`
	Conversions int    `json:"conversions"`
}

// TrendPoint is the number of students created on one calendar day.
type TrendPoint struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Enrollments int    `json:"enrollments"`
}

// DashboardSummary aggregates the session's snapshot for the landing page.
type DashboardSummary struct {
	Version            uint64             `json:"version"`
	TotalStudents      int                `json:"totalStudents"`
	ActiveInquiries    int                `json:"activeInquiries"`
	TotalPrograms      int                `json:"totalPrograms"`
	StudentsPerProgram []ProgramCount     `json:"studentsPerProgram"`
	Leaderboard        []LeaderboardEntry `json:"leaderboard"`
	WeeklyTrend        []TrendPoint       `json:"weeklyTrend"`
}
