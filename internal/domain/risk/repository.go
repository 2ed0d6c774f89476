package risk

import (
	"context"
)

// ReportRepository persists immutable report snapshots. Snapshots are never
// updated or deleted here; history grows append-only.
type ReportRepository interface {
	// SaveSnapshot stores a generated report and returns its identifier.
	SaveSnapshot(ctx context.Context, snapshot ReportSnapshot) (string, error)

	// GetSnapshot retrieves one snapshot with its full payload.
	// Returns ErrReportNotFound when id is unknown for the company.
	GetSnapshot(ctx context.Context, id string, companyID string) (ReportSnapshot, error)

	// ListSnapshots retrieves snapshot history, newest first.
	ListSnapshots(ctx context.Context, companyID string, limit int) ([]SnapshotMeta, error)
}
