package risk

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/email"
)

const defaultHistoryLimit = 20

type riskServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	reportRepo     risk.ReportRepository
	alerts         email.AlertSender
	concurrency    int
}

func NewRiskService(
	attendanceRepo attendance.AttendanceRepository,
	reportRepo risk.ReportRepository,
	alerts email.AlertSender,
	concurrency int,
) risk.RiskService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &riskServiceImpl{
		attendanceRepo: attendanceRepo,
		reportRepo:     reportRepo,
		alerts:         alerts,
		concurrency:    concurrency,
	}
}

// getCompanyIDFromContext extracts company_id from JWT claims
func (s *riskServiceImpl) getCompanyIDFromContext(ctx context.Context) (string, error) {
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

// AssessEmployee implements risk.RiskService.
func (s *riskServiceImpl) AssessEmployee(ctx context.Context, req risk.AssessEmployeeRequest) (risk.Assessment, error) {
	if err := req.Validate(); err != nil {
		return risk.Assessment{}, err
	}

	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return risk.Assessment{}, err
	}

	emp, err := s.attendanceRepo.GetEmployee(ctx, req.EmployeeID, companyID)
	if err != nil {
		return risk.Assessment{}, err
	}

	records, err := s.windowedRecords(ctx, emp.EmployeeID, companyID, req.Months)
	if err != nil {
		return risk.Assessment{}, err
	}

	return Assess(emp.EmployeeID, emp.Name, records), nil
}

func (s *riskServiceImpl) windowedRecords(ctx context.Context, employeeID string, companyID string, months int) ([]attendance.Record, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, -months, 0)
	records, err := s.attendanceRepo.ListByEmployeeWindow(ctx, employeeID, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance window: %w", err)
	}
	return records, nil
}

// managerAlert carries what the alert mail needs; manager contacts live on
// attendance records, not on assessments.
type managerAlert struct {
	managerEmail string
	employeeID   string
	employeeName string
	score        float64
}

// GenerateReport implements risk.RiskService. Composes the ranked report,
// persists it as a snapshot and alerts managers of high-risk employees.
func (s *riskServiceImpl) GenerateReport(ctx context.Context, req risk.GenerateReportRequest) (risk.CompanyReport, error) {
	if err := req.Validate(); err != nil {
		return risk.CompanyReport{}, err
	}

	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return risk.CompanyReport{}, err
	}

	report, alerts, err := s.composeReport(ctx, companyID, req.Months)
	if err != nil {
		return risk.CompanyReport{}, err
	}

	snapshot := risk.ReportSnapshot{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		PeriodMonths: req.Months,
		GeneratedAt:  time.Now().UTC(),
		Report:       report,
	}
	if _, err := s.reportRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return risk.CompanyReport{}, fmt.Errorf("failed to persist report snapshot: %w", err)
	}

	s.notifyManagers(alerts)

	return report, nil
}

// ComposeReport implements risk.RiskService. Same ranking as GenerateReport
// with no snapshot written and no alerts sent.
func (s *riskServiceImpl) ComposeReport(ctx context.Context, req risk.GenerateReportRequest) (risk.CompanyReport, error) {
	if err := req.Validate(); err != nil {
		return risk.CompanyReport{}, err
	}

	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return risk.CompanyReport{}, err
	}

	report, _, err := s.composeReport(ctx, companyID, req.Months)
	return report, err
}

// composeReport scores every employee of the company concurrently; each
// iteration is an independent pure computation over its own fetched window,
// so ordering only matters at the final sort.
func (s *riskServiceImpl) composeReport(ctx context.Context, companyID string, months int) (risk.CompanyReport, []*managerAlert, error) {
	employees, err := s.attendanceRepo.ListEmployees(ctx, companyID)
	if err != nil {
		return risk.CompanyReport{}, nil, fmt.Errorf("failed to list employees: %w", err)
	}

	// Index-addressed results keep discovery order for the stable sort; a
	// single employee's failure leaves a hole, never aborts the report.
	results := make([]*risk.Assessment, len(employees))
	alerts := make([]*managerAlert, len(employees))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			records, err := s.windowedRecords(gCtx, emp.EmployeeID, companyID, months)
			if err != nil {
				slog.Error("Skipping employee in risk report", "employee_id", emp.EmployeeID, "error", err)
				return nil
			}
			assessment := Assess(emp.EmployeeID, emp.Name, records)
			results[i] = &assessment
			if assessment.RiskLevel == risk.LevelHigh && len(records) > 0 {
				alerts[i] = &managerAlert{
					managerEmail: records[len(records)-1].ManagerEmail,
					employeeID:   assessment.EmployeeID,
					employeeName: assessment.Name,
					score:        assessment.Score,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return risk.CompanyReport{}, nil, err
	}

	report := risk.CompanyReport{
		PeriodMonths: months,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		report.Employees = append(report.Employees, *res)
	}
	sort.SliceStable(report.Employees, func(i, j int) bool {
		return report.Employees[i].Score > report.Employees[j].Score
	})

	report.TotalEmployees = len(report.Employees)
	for _, emp := range report.Employees {
		switch emp.RiskLevel {
		case risk.LevelHigh:
			report.HighRisk++
		case risk.LevelModerate:
			report.ModerateRisk++
		case risk.LevelLow:
			report.LowRisk++
		case risk.LevelInsufficientData:
			report.InsufficientData++
		}
	}

	return report, alerts, nil
}

// notifyManagers mails each high-risk employee's manager. Fire-and-forget:
// delivery failures are logged and never fail the report.
func (s *riskServiceImpl) notifyManagers(alerts []*managerAlert) {
	if s.alerts == nil {
		return
	}
	go func() {
		for _, alert := range alerts {
			if alert == nil || alert.managerEmail == "" {
				continue
			}
			err := s.alerts.SendHighRiskAlert(alert.managerEmail, alert.employeeName, alert.employeeID, alert.score)
			if err != nil {
				slog.Error("Failed to send high-risk alert", "employee_id", alert.employeeID, "manager_email", alert.managerEmail, "error", err)
			}
		}
	}()
}

// HighRisk implements risk.RiskService. A pure filter over a composed
// report; nothing is rescored and nothing is persisted.
func (s *riskServiceImpl) HighRisk(ctx context.Context, req risk.HighRiskRequest) ([]risk.Assessment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	report, err := s.ComposeReport(ctx, risk.GenerateReportRequest{Months: req.Months})
	if err != nil {
		return nil, err
	}

	return FilterHighRisk(report, req.Threshold), nil
}

// FilterHighRisk returns the report's employees with a composite score at or
// above the threshold, preserving report order.
func FilterHighRisk(report risk.CompanyReport, threshold float64) []risk.Assessment {
	filtered := make([]risk.Assessment, 0)
	for _, emp := range report.Employees {
		if emp.Score >= threshold {
			filtered = append(filtered, emp)
		}
	}
	return filtered
}

// ListReportHistory implements risk.RiskService.
func (s *riskServiceImpl) ListReportHistory(ctx context.Context, limit int) ([]risk.SnapshotMeta, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = defaultHistoryLimit
	}

	return s.reportRepo.ListSnapshots(ctx, companyID, limit)
}

// GetReport implements risk.RiskService.
func (s *riskServiceImpl) GetReport(ctx context.Context, id string) (risk.ReportSnapshot, error) {
	companyID, err := s.getCompanyIDFromContext(ctx)
	if err != nil {
		return risk.ReportSnapshot{}, err
	}

	return s.reportRepo.GetSnapshot(ctx, id, companyID)
}
