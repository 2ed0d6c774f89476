package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/validator"
)

// ========================================
// UPLOAD / INGESTION DTOs
// ========================================

// RowError collects every failing field of one data row. Row numbers are
// 1-based over data rows (the header is row 0).
type RowError struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

// VolumeWarning flags an employee whose surviving valid row count falls
// outside the expected upload window. Advisory only: the employee's rows
// stay in the valid output.
type VolumeWarning struct {
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

// ParseResult is the outcome of running one uploaded file through the
// validation pipeline. Partial success is a first-class outcome: RowErrors
// and VolumeWarnings accumulate while ValidRecords carries whatever survived.
type ParseResult struct {
	Valid          bool            `json:"valid"`
	ValidRecords   []Record        `json:"valid_records"`
	InvalidRecords int             `json:"invalid_records"`
	RowErrors      []RowError      `json:"row_errors,omitempty"`
	VolumeWarnings []VolumeWarning `json:"volume_warnings,omitempty"`
}

type UploadRequest struct {
	Filename   string                `json:"-"`
	FileBytes  []byte                `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

var uploadExts = []string{".csv", ".xlsx", ".xls"}

func (r *UploadRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "attendance file is required",
		})
	} else {
		ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
		if !validator.IsInSlice(ext, uploadExts) {
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "invalid file type: only csv, xlsx, xls allowed",
			})
		}
		if r.FileHeader.Size > 20<<20 { // 20MB
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: "attendance file size must not exceed 20MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UploadResponse reports how an upload went: rows persisted, rows rejected,
// and the normalized records that made it through.
type UploadResponse struct {
	Processed      int             `json:"processed"`
	InvalidRecords int             `json:"invalid_records"`
	RowErrors      []RowError      `json:"errors,omitempty"`
	VolumeWarnings []VolumeWarning `json:"volume_warnings,omitempty"`
	Records        []Record        `json:"records"`
}
