package risk

import (
	"context"
)

// RiskService defines business logic for attrition-risk scoring
type RiskService interface {
	// AssessEmployee scores one employee over a lookback window.
	// Returns attendance.ErrEmployeeNotFound for unknown identifiers; an
	// empty window is not an error and yields the Insufficient Data level.
	AssessEmployee(ctx context.Context, req AssessEmployeeRequest) (Assessment, error)

	// GenerateReport scores every employee of the caller's company, ranks
	// the results and persists the snapshot. One employee's failure is
	// logged and skipped, never aborting the report.
	GenerateReport(ctx context.Context, req GenerateReportRequest) (CompanyReport, error)

	// ComposeReport builds the same ranked report as GenerateReport but
	// persists nothing and sends no alerts. Read-side views build on it.
	ComposeReport(ctx context.Context, req GenerateReportRequest) (CompanyReport, error)

	// HighRisk generates a report and filters employees whose composite
	// score is at or above the threshold. No scores are recomputed on top
	// of the generated report.
	HighRisk(ctx context.Context, req HighRiskRequest) ([]Assessment, error)

	// ListReportHistory retrieves prior snapshots, newest first.
	ListReportHistory(ctx context.Context, limit int) ([]SnapshotMeta, error)

	// GetReport retrieves one persisted snapshot by id.
	GetReport(ctx context.Context, id string) (ReportSnapshot, error)
}
