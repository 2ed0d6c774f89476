package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) risk.ReportRepository {
	return &reportRepository{db: db}
}

// SaveSnapshot implements risk.ReportRepository. Snapshots are insert-only.
func (r *reportRepository) SaveSnapshot(ctx context.Context, snapshot risk.ReportSnapshot) (string, error) {
	q := GetQuerier(ctx, r.db)

	payload, err := json.Marshal(snapshot.Report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report payload: %w", err)
	}

	query := `
		INSERT INTO risk_reports (id, company_id, period_months, generated_at, report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id string
	err = q.QueryRow(ctx, query,
		snapshot.ID,
		snapshot.CompanyID,
		snapshot.PeriodMonths,
		snapshot.GeneratedAt,
		payload,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to save report snapshot: %w", err)
	}

	return id, nil
}

// GetSnapshot implements risk.ReportRepository.
func (r *reportRepository) GetSnapshot(ctx context.Context, id string, companyID string) (risk.ReportSnapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_months, generated_at, report
		FROM risk_reports
		WHERE id = $1
		  AND company_id = $2
	`

	var snapshot risk.ReportSnapshot
	var payload []byte
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&snapshot.ID, &snapshot.CompanyID, &snapshot.PeriodMonths, &snapshot.GeneratedAt, &payload,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return risk.ReportSnapshot{}, risk.ErrReportNotFound
		}
		return risk.ReportSnapshot{}, fmt.Errorf("failed to get report snapshot: %w", err)
	}

	if err := json.Unmarshal(payload, &snapshot.Report); err != nil {
		return risk.ReportSnapshot{}, fmt.Errorf("failed to unmarshal report payload: %w", err)
	}

	return snapshot, nil
}

// ListSnapshots implements risk.ReportRepository.
func (r *reportRepository) ListSnapshots(ctx context.Context, companyID string, limit int) ([]risk.SnapshotMeta, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, period_months, generated_at,
			   (report->>'total_employees')::int,
			   (report->>'high_risk')::int
		FROM risk_reports
		WHERE company_id = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list report snapshots: %w", err)
	}
	defer rows.Close()

	var metas []risk.SnapshotMeta
	for rows.Next() {
		var meta risk.SnapshotMeta
		err := rows.Scan(&meta.ID, &meta.PeriodMonths, &meta.GeneratedAt, &meta.TotalEmployees, &meta.HighRisk)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report snapshot: %w", err)
		}
		metas = append(metas, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report snapshots: %w", err)
	}

	return metas, nil
}
