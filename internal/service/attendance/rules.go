package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/validator"
)

// requiredColumns is the upload contract: the header row must carry at
// least these columns. Extra columns are ignored.
var requiredColumns = []string{
	"employee_id",
	"employee_name",
	"date",
	"status",
	"informed_time",
	"department",
	"manager_email",
}

const (
	maxEmployeeIDLen   = 20
	maxEmployeeNameLen = 100
	maxDepartmentLen   = 50

	// Expected valid rows per employee for a standard 3-month upload:
	// about 63 working days on a 5-day week, with tolerance either side.
	minEmployeeRows = 55
	maxEmployeeRows = 70

	// An unplanned leave must have been called in within a day of the date.
	unplannedInformWindow = 24 * time.Hour
)

// missingColumns returns required columns absent from the header, in
// contract order.
func missingColumns(headers []string) []string {
	var missing []string
	for _, col := range requiredColumns {
		if !validator.IsInSlice(col, headers) {
			missing = append(missing, col)
		}
	}
	return missing
}

// validateRow applies the field and cross-field rules to one row mapping and
// returns the normalized record. All failing rules are collected; a row with
// any error is excluded from valid output.
func validateRow(row map[string]string) (attendance.Record, validator.ValidationErrors) {
	var errs validator.ValidationErrors

	employeeID := strings.TrimSpace(row["employee_id"])
	if employeeID == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if len(employeeID) > maxEmployeeIDLen {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: fmt.Sprintf("employee_id must not exceed %d characters", maxEmployeeIDLen),
		})
	}

	employeeName := strings.TrimSpace(row["employee_name"])
	if employeeName == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	} else if len(employeeName) > maxEmployeeNameLen {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: fmt.Sprintf("employee_name must not exceed %d characters", maxEmployeeNameLen),
		})
	}

	dateStr := strings.TrimSpace(row["date"])
	date, dateOK := validator.IsValidDate(dateStr)
	if !dateOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a valid YYYY-MM-DD date",
		})
	} else if validator.IsWeekend(date) {
		// 5-day work-week assumption: weekend rows are rejected outright.
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date falls on a weekend; only weekday records are accepted",
		})
	}

	statusStr := strings.TrimSpace(row["status"])
	status := attendance.Status(statusStr)
	if !validator.IsInSlice(statusStr, attendance.ValidStatuses()) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("status must be one of: %s", strings.Join(attendance.ValidStatuses(), ", ")),
		})
	}

	var informedTime *time.Time
	informedStr := strings.TrimSpace(row["informed_time"])
	if informedStr != "" {
		informed, ok := validator.IsValidDateTime(informedStr)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "informed_time",
				Message: "informed_time must be a valid timestamp",
			})
		} else {
			informedTime = &informed
			if dateOK {
				switch status {
				case attendance.StatusPlannedLeave:
					if !informed.Before(date) {
						errs = append(errs, validator.ValidationError{
							Field:   "informed_time",
							Message: "planned leave must be informed before the leave date",
						})
					}
				case attendance.StatusUnplannedLeave:
					diff := informed.Sub(date)
					if diff < 0 {
						diff = -diff
					}
					if diff > unplannedInformWindow {
						errs = append(errs, validator.ValidationError{
							Field:   "informed_time",
							Message: "unplanned leave must be informed within 24 hours of the leave date",
						})
					}
				}
			}
		}
	} else if status.IsLeave() {
		errs = append(errs, validator.ValidationError{
			Field:   "informed_time",
			Message: "informed_time is required for leave statuses",
		})
	}

	department := strings.TrimSpace(row["department"])
	if department == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department is required",
		})
	} else if len(department) > maxDepartmentLen {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: fmt.Sprintf("department must not exceed %d characters", maxDepartmentLen),
		})
	}

	managerEmail := strings.TrimSpace(row["manager_email"])
	if managerEmail == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_email",
			Message: "manager_email is required",
		})
	} else if !validator.IsValidEmail(managerEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_email",
			Message: "manager_email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return attendance.Record{}, errs
	}

	return attendance.Record{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Date:         date,
		Status:       status,
		InformedTime: informedTime,
		Department:   department,
		ManagerEmail: managerEmail,
	}, nil
}
