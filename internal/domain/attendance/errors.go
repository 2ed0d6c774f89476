package attendance

import (
	"errors"
	"fmt"
	"strings"
)

// Attendance domain errors
var (
	// Upload errors
	ErrUnsupportedFormat = errors.New("unsupported file format: only csv, xlsx and xls files are accepted")
	ErrEmptyFile         = errors.New("file contains no data rows")

	// General errors
	ErrEmployeeNotFound = errors.New("employee not found")
)

// MissingColumnsError is a whole-file failure: the header row does not carry
// every required column. No per-row validation happens after it.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
