package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// UpsertBatch implements attendance.AttendanceRepository.
// The unique constraint on (company_id, employee_id, date) serializes
// concurrent writes for the same employee-day.
func (a *attendanceRepository) UpsertBatch(ctx context.Context, records []attendance.Record, companyID string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO attendance_records (
			company_id, employee_id, employee_name, date, status,
			informed_time, department, manager_email
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, employee_id, date) DO UPDATE SET
			employee_name = EXCLUDED.employee_name,
			status        = EXCLUDED.status,
			informed_time = EXCLUDED.informed_time,
			department    = EXCLUDED.department,
			manager_email = EXCLUDED.manager_email,
			updated_at    = NOW()
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query,
			companyID,
			rec.EmployeeID,
			rec.EmployeeName,
			rec.Date,
			rec.Status,
			rec.InformedTime,
			rec.Department,
			rec.ManagerEmail,
		)
	}

	results := a.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range records {
		if _, err := results.Exec(); err != nil {
			return written, fmt.Errorf("failed to upsert attendance record: %w", err)
		}
		written++
	}

	return written, nil
}

// GetEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetEmployee(ctx context.Context, employeeID string, companyID string) (attendance.EmployeeRef, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id, employee_name
		FROM attendance_records
		WHERE employee_id = $1
		  AND company_id = $2
		ORDER BY date DESC
		LIMIT 1
	`

	var ref attendance.EmployeeRef
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(&ref.EmployeeID, &ref.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.EmployeeRef{}, attendance.ErrEmployeeNotFound
		}
		return attendance.EmployeeRef{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return ref, nil
}

// ListByEmployeeWindow implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeWindow(ctx context.Context, employeeID string, companyID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, company_id, employee_id, employee_name, date, status,
			   informed_time, department, manager_email, created_at, updated_at
		FROM attendance_records
		WHERE employee_id = $1
		  AND company_id = $2
		  AND date >= $3
		  AND date <= $4
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		err := rows.Scan(
			&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.Status,
			&rec.InformedTime, &rec.Department, &rec.ManagerEmail, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance records: %w", err)
	}

	return records, nil
}

// ListEmployees implements attendance.AttendanceRepository.
// Ordered by employee_id so report discovery order is deterministic.
func (a *attendanceRepository) ListEmployees(ctx context.Context, companyID string) ([]attendance.EmployeeRef, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT DISTINCT ON (employee_id) employee_id, employee_name
		FROM attendance_records
		WHERE company_id = $1
		ORDER BY employee_id, date DESC
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []attendance.EmployeeRef
	for rows.Next() {
		var ref attendance.EmployeeRef
		if err := rows.Scan(&ref.EmployeeID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}
