package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Whole-file ingestion failure carries the missing column set
	var missingCols *attendance.MissingColumnsError
	if errors.As(err, &missingCols) {
		UnprocessableFile(w, err.Error(), map[string]string{
			"missing_columns": strings.Join(missingCols.Missing, ", "),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrEmptyFile):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Risk domain errors
	case errors.Is(err, risk.ErrReportNotFound):
		NotFound(w, "Risk report not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
