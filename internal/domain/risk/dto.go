package risk

import (
	"fmt"

	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/validator"
)

const (
	MinPeriodMonths = 1
	MaxPeriodMonths = 24
)

// ========================================
// ASSESSMENT / REPORT DTOs
// ========================================

type AssessEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
	Months     int    `json:"months"`
}

func (r *AssessEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Months < MinPeriodMonths || r.Months > MaxPeriodMonths {
		errs = append(errs, validator.ValidationError{
			Field:   "months",
			Message: fmt.Sprintf("months must be between %d and %d", MinPeriodMonths, MaxPeriodMonths),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateReportRequest struct {
	Months int `json:"months"`
}

func (r *GenerateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Months < MinPeriodMonths || r.Months > MaxPeriodMonths {
		errs = append(errs, validator.ValidationError{
			Field:   "months",
			Message: fmt.Sprintf("months must be between %d and %d", MinPeriodMonths, MaxPeriodMonths),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HighRiskRequest struct {
	Months    int     `json:"months"`
	Threshold float64 `json:"threshold"`
}

func (r *HighRiskRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Months < MinPeriodMonths || r.Months > MaxPeriodMonths {
		errs = append(errs, validator.ValidationError{
			Field:   "months",
			Message: fmt.Sprintf("months must be between %d and %d", MinPeriodMonths, MaxPeriodMonths),
		})
	}

	if r.Threshold < 0 || r.Threshold > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "threshold",
			Message: "threshold must be between 0 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
