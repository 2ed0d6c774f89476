package risk

import "errors"

// Risk domain errors
var (
	ErrReportNotFound = errors.New("risk report not found")
)
