package attendance

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/storage"
)

type attendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	fileStorage    storage.FileStorage
}

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, fileStorage storage.FileStorage) attendance.AttendanceService {
	return &attendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		fileStorage:    fileStorage,
	}
}

// getCompanyIDFromContext extracts company_id from JWT claims
func (s *attendanceServiceImpl) getCompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// Parse implements attendance.AttendanceService.
func (s *attendanceServiceImpl) Parse(fileBytes []byte, filename string) (attendance.ParseResult, error) {
	headers, rows, err := parseRows(fileBytes, filename)
	if err != nil {
		return attendance.ParseResult{}, err
	}

	// File-structure check is fatal: nothing is collected per row when the
	// header contract is broken.
	if missing := missingColumns(headers); len(missing) > 0 {
		return attendance.ParseResult{}, &attendance.MissingColumnsError{Missing: missing}
	}

	result := attendance.ParseResult{}
	// File-order duplicate detection: first occurrence of an
	// (employee_id, date) key wins, every later one is rejected.
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		rowNum := i + 1 // 1-based over data rows, header is row 0

		rec, errs := validateRow(row)
		if len(errs) > 0 {
			result.RowErrors = append(result.RowErrors, attendance.RowError{
				Row:    rowNum,
				Fields: errs.ToMap(),
			})
			continue
		}

		key := rec.EmployeeID + "|" + rec.Date.Format("2006-01-02")
		if _, dup := seen[key]; dup {
			result.RowErrors = append(result.RowErrors, attendance.RowError{
				Row: rowNum,
				Fields: map[string]string{
					"employee_id": fmt.Sprintf("duplicate record for employee %s on %s", rec.EmployeeID, rec.Date.Format("2006-01-02")),
				},
			})
			continue
		}
		seen[key] = struct{}{}

		result.ValidRecords = append(result.ValidRecords, rec)
	}

	result.InvalidRecords = len(result.RowErrors)
	result.VolumeWarnings = volumeWarnings(result.ValidRecords)
	result.Valid = len(result.RowErrors) == 0 && len(result.VolumeWarnings) == 0

	return result, nil
}

// volumeWarnings flags employees whose surviving row count falls outside
// [minEmployeeRows, maxEmployeeRows]. Advisory only: flagged employees keep
// their rows, since scoring handles sparse histories through its own
// insufficient-data path.
func volumeWarnings(records []attendance.Record) []attendance.VolumeWarning {
	counts := make(map[string]int, len(records))
	var order []string
	for _, rec := range records {
		if _, ok := counts[rec.EmployeeID]; !ok {
			order = append(order, rec.EmployeeID)
		}
		counts[rec.EmployeeID]++
	}

	var warnings []attendance.VolumeWarning
	for _, employeeID := range order {
		n := counts[employeeID]
		if n < minEmployeeRows || n > maxEmployeeRows {
			warnings = append(warnings, attendance.VolumeWarning{
				EmployeeID: employeeID,
				Message:    fmt.Sprintf("expected between %d and %d working days per employee, got %d", minEmployeeRows, maxEmployeeRows, n),
			})
		}
	}

	return warnings
}

// Upload implements attendance.AttendanceService.
func (s *attendanceServiceImpl) Upload(ctx context.Context, req attendance.UploadRequest) (attendance.UploadResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.UploadResponse{}, err
	}

	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return attendance.UploadResponse{}, err
	}

	result, err := s.Parse(req.FileBytes, req.Filename)
	if err != nil {
		return attendance.UploadResponse{}, err
	}

	written, err := s.attendanceRepo.UpsertBatch(ctx, result.ValidRecords, companyID)
	if err != nil {
		return attendance.UploadResponse{}, fmt.Errorf("failed to persist attendance records: %w", err)
	}

	s.archiveUpload(ctx, companyID, req.Filename, req.FileBytes)

	return attendance.UploadResponse{
		Processed:      written,
		InvalidRecords: result.InvalidRecords,
		RowErrors:      result.RowErrors,
		VolumeWarnings: result.VolumeWarnings,
		Records:        result.ValidRecords,
	}, nil
}

// archiveUpload keeps the raw file for audit. Archive failures are logged,
// never surfaced: the records are already persisted.
func (s *attendanceServiceImpl) archiveUpload(ctx context.Context, companyID string, filename string, fileBytes []byte) {
	if s.fileStorage == nil {
		return
	}

	path := fmt.Sprintf("attendance/%s/%s_%s", companyID, time.Now().UTC().Format("20060102T150405"), filename)
	if _, err := s.fileStorage.Upload(ctx, bytes.NewReader(fileBytes), path); err != nil {
		slog.Error("Failed to archive attendance upload", "company_id", companyID, "path", path, "error", err)
	}
}
