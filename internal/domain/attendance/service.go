package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance ingestion
type AttendanceService interface {
	// Parse runs one uploaded file through the validation pipeline without
	// touching the store. Fatal file-structure problems (unsupported format,
	// missing columns) come back as errors; row-level problems accumulate
	// inside the ParseResult.
	Parse(fileBytes []byte, filename string) (ParseResult, error)

	// Upload parses the file, persists the surviving records for the
	// caller's company and archives the raw upload for audit.
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)
}
