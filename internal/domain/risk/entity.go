package risk

import (
	"time"
)

type Level string

const (
	LevelHigh             Level = "High"
	LevelModerate         Level = "Moderate"
	LevelLow              Level = "Low"
	LevelInsufficientData Level = "Insufficient Data"
)

// FactorScores are the four independent sub-scores, each in [0,100].
// Higher means higher risk.
type FactorScores struct {
	Absenteeism  float64 `json:"absenteeism"`
	LeavePattern float64 `json:"leave_pattern"`
	Consistency  float64 `json:"consistency"`
	RecentTrend  float64 `json:"recent_trend"`
}

// Statistics summarizes the record window an assessment was computed over.
// Rates are percentage strings with two decimal places.
type Statistics struct {
	TotalDays          int    `json:"total_days"`
	PresentDays        int    `json:"present_days"`
	AbsentDays         int    `json:"absent_days"`
	PlannedLeaveDays   int    `json:"planned_leave_days"`
	UnplannedLeaveDays int    `json:"unplanned_leave_days"`
	AttendanceRate     string `json:"attendance_rate"`
	AbsenteeismRate    string `json:"absenteeism_rate"`
}

// Assessment is one employee's attrition-risk result. Immutable once produced.
type Assessment struct {
	EmployeeID     string       `json:"employee_id"`
	Name           string       `json:"name"`
	Score          float64      `json:"score"`
	RiskLevel      Level        `json:"risk_level"`
	Factors        FactorScores `json:"factors"`
	Statistics     Statistics   `json:"statistics"`
	Recommendation string       `json:"recommendation"`
}

// CompanyReport is the ranked company-wide snapshot. Employees are sorted by
// score descending; ties keep discovery order. Never mutated after creation.
type CompanyReport struct {
	PeriodMonths     int          `json:"period_months"`
	TotalEmployees   int          `json:"total_employees"`
	HighRisk         int          `json:"high_risk"`
	ModerateRisk     int          `json:"moderate_risk"`
	LowRisk          int          `json:"low_risk"`
	InsufficientData int          `json:"insufficient_data"`
	Employees        []Assessment `json:"employees"`
	GeneratedAt      string       `json:"generated_at"`
}

// ReportSnapshot is a persisted CompanyReport.
type ReportSnapshot struct {
	ID           string        `json:"id"`
	CompanyID    string        `json:"-"`
	PeriodMonths int           `json:"period_months"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Report       CompanyReport `json:"report"`
}

// SnapshotMeta is the history listing of a snapshot, without the payload.
type SnapshotMeta struct {
	ID             string    `json:"id"`
	PeriodMonths   int       `json:"period_months"`
	TotalEmployees int       `json:"total_employees"`
	HighRisk       int       `json:"high_risk"`
	GeneratedAt    time.Time `json:"generated_at"`
}
