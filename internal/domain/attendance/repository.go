package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include companyID to prevent cross-company data access.
type AttendanceRepository interface {
	// UpsertBatch inserts records, replacing existing rows on the
	// (company_id, employee_id, date) key. Returns the number of rows written.
	UpsertBatch(ctx context.Context, records []Record, companyID string) (int, error)

	// GetEmployee resolves an employee identifier seen in the store.
	// Returns ErrEmployeeNotFound when the identifier has no records at all.
	GetEmployee(ctx context.Context, employeeID string, companyID string) (EmployeeRef, error)

	// ListByEmployeeWindow retrieves one employee's records with
	// from <= date <= to, ordered by date ascending.
	ListByEmployeeWindow(ctx context.Context, employeeID string, companyID string, from, to time.Time) ([]Record, error)

	// ListEmployees retrieves every distinct employee of a company in a
	// stable order, each with the most recently recorded name.
	ListEmployees(ctx context.Context, companyID string) ([]EmployeeRef, error)
}
