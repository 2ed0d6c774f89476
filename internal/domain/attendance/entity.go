package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent        Status = "Present"
	StatusPlannedLeave   Status = "Planned Leave"
	StatusUnplannedLeave Status = "Unplanned Leave"
	StatusAbsent         Status = "Absent"
)

// ValidStatuses returns the accepted status values in upload order of preference.
func ValidStatuses() []string {
	return []string{
		string(StatusPresent),
		string(StatusPlannedLeave),
		string(StatusUnplannedLeave),
		string(StatusAbsent),
	}
}

// IsLeave reports whether the status is either leave type.
func (s Status) IsLeave() bool {
	return s == StatusPlannedLeave || s == StatusUnplannedLeave
}

// Record is one employee-day attendance entry. Unique per
// (company_id, employee_id, date).
type Record struct {
	ID           string     `json:"id,omitempty"`
	CompanyID    string     `json:"-"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name"`
	Date         time.Time  `json:"date"`
	Status       Status     `json:"status"`
	InformedTime *time.Time `json:"informed_time,omitempty"`
	Department   string     `json:"department"`
	ManagerEmail string     `json:"manager_email"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

// EmployeeRef identifies one employee discovered in the attendance store.
type EmployeeRef struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}
