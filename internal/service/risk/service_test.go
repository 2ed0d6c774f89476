package risk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
)

type stubAttendanceRepo struct {
	employees []attendance.EmployeeRef
	windows   map[string][]attendance.Record
	failFor   map[string]bool
}

func (s *stubAttendanceRepo) UpsertBatch(ctx context.Context, records []attendance.Record, companyID string) (int, error) {
	return len(records), nil
}

func (s *stubAttendanceRepo) GetEmployee(ctx context.Context, employeeID string, companyID string) (attendance.EmployeeRef, error) {
	for _, emp := range s.employees {
		if emp.EmployeeID == employeeID {
			return emp, nil
		}
	}
	return attendance.EmployeeRef{}, attendance.ErrEmployeeNotFound
}

func (s *stubAttendanceRepo) ListByEmployeeWindow(ctx context.Context, employeeID string, companyID string, from time.Time, to time.Time) ([]attendance.Record, error) {
	if s.failFor[employeeID] {
		return nil, errors.New("window query failed")
	}
	return s.windows[employeeID], nil
}

func (s *stubAttendanceRepo) ListEmployees(ctx context.Context, companyID string) ([]attendance.EmployeeRef, error) {
	return s.employees, nil
}

type stubReportRepo struct {
	mu        sync.Mutex
	snapshots []risk.ReportSnapshot
}

func (s *stubReportRepo) SaveSnapshot(ctx context.Context, snapshot risk.ReportSnapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return snapshot.ID, nil
}

func (s *stubReportRepo) GetSnapshot(ctx context.Context, id string, companyID string) (risk.ReportSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.snapshots {
		if snap.ID == id && snap.CompanyID == companyID {
			return snap, nil
		}
	}
	return risk.ReportSnapshot{}, risk.ErrReportNotFound
}

func (s *stubReportRepo) ListSnapshots(ctx context.Context, companyID string, limit int) ([]risk.SnapshotMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []risk.SnapshotMeta
	for i := len(s.snapshots) - 1; i >= 0 && len(out) < limit; i-- {
		snap := s.snapshots[i]
		if snap.CompanyID != companyID {
			continue
		}
		out = append(out, risk.SnapshotMeta{
			ID:             snap.ID,
			PeriodMonths:   snap.PeriodMonths,
			GeneratedAt:    snap.GeneratedAt,
			TotalEmployees: snap.Report.TotalEmployees,
			HighRisk:       snap.Report.HighRisk,
		})
	}
	return out, nil
}

type recordedAlert struct {
	to         string
	employeeID string
	score      float64
}

type stubAlertSender struct {
	mu   sync.Mutex
	sent []recordedAlert
}

func (s *stubAlertSender) SendHighRiskAlert(to string, employeeName string, employeeID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, recordedAlert{to: to, employeeID: employeeID, score: score})
	return nil
}

func (s *stubAlertSender) alerts() []recordedAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedAlert(nil), s.sent...)
}

func riskTestContext(t *testing.T, companyID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": companyID,
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// recentWeekdayHistory lays the statuses over the most recent weekdays, oldest
// first, so the whole history falls inside any reasonable lookback window.
func recentWeekdayHistory(employeeID, name, managerEmail string, statuses []attendance.Status) []attendance.Record {
	records := make([]attendance.Record, len(statuses))
	day := time.Now().UTC().AddDate(0, 0, -1)
	for i := len(statuses) - 1; i >= 0; i-- {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, -1)
		}
		records[i] = attendance.Record{
			EmployeeID:   employeeID,
			EmployeeName: name,
			Date:         day.Truncate(24 * time.Hour),
			Status:       statuses[i],
			Department:   "Engineering",
			ManagerEmail: managerEmail,
		}
		day = day.AddDate(0, 0, -1)
	}
	return records
}

func highRiskStatuses() []attendance.Status {
	statuses := repeatStatus(attendance.StatusPresent, 63)
	for i := 49; i < 63; i++ {
		statuses[i] = attendance.StatusAbsent
	}
	return statuses
}

func TestGenerateReport_RanksAndCounts(t *testing.T) {
	attendanceRepo := &stubAttendanceRepo{
		employees: []attendance.EmployeeRef{
			{EmployeeID: "E-LOW", Name: "Lee"},
			{EmployeeID: "E-HIGH", Name: "Harper"},
			{EmployeeID: "E-NEW", Name: "Noor"},
		},
		windows: map[string][]attendance.Record{
			"E-LOW":  recentWeekdayHistory("E-LOW", "Lee", "mgr@example.com", repeatStatus(attendance.StatusPresent, 63)),
			"E-HIGH": recentWeekdayHistory("E-HIGH", "Harper", "mgr@example.com", highRiskStatuses()),
			"E-NEW":  nil,
		},
	}
	reportRepo := &stubReportRepo{}
	svc := NewRiskService(attendanceRepo, reportRepo, nil, 4)
	ctx := riskTestContext(t, "company-1")

	report, err := svc.GenerateReport(ctx, risk.GenerateReportRequest{Months: 6})

	require.NoError(t, err)
	assert.Equal(t, 6, report.PeriodMonths)
	assert.Equal(t, 3, report.TotalEmployees)
	assert.Equal(t, 1, report.HighRisk)
	assert.Equal(t, 1, report.LowRisk)
	assert.Equal(t, 1, report.InsufficientData)
	assert.Equal(t, 0, report.ModerateRisk)

	require.Len(t, report.Employees, 3)
	assert.Equal(t, "E-HIGH", report.Employees[0].EmployeeID)
	// zero-score tie keeps discovery order (stable sort)
	assert.Equal(t, "E-LOW", report.Employees[1].EmployeeID)
	assert.Equal(t, "E-NEW", report.Employees[2].EmployeeID)

	// scores are non-increasing
	for i := 1; i < len(report.Employees); i++ {
		assert.GreaterOrEqual(t, report.Employees[i-1].Score, report.Employees[i].Score)
	}

	// snapshot persisted with the same report
	require.Len(t, reportRepo.snapshots, 1)
	assert.NotEmpty(t, reportRepo.snapshots[0].ID)
	assert.Equal(t, "company-1", reportRepo.snapshots[0].CompanyID)
	assert.Equal(t, report.TotalEmployees, reportRepo.snapshots[0].Report.TotalEmployees)
}

func TestGenerateReport_SkipsFailingEmployee(t *testing.T) {
	attendanceRepo := &stubAttendanceRepo{
		employees: []attendance.EmployeeRef{
			{EmployeeID: "E-OK", Name: "Olivia"},
			{EmployeeID: "E-BROKEN", Name: "Blake"},
		},
		windows: map[string][]attendance.Record{
			"E-OK": recentWeekdayHistory("E-OK", "Olivia", "mgr@example.com", repeatStatus(attendance.StatusPresent, 63)),
		},
		failFor: map[string]bool{"E-BROKEN": true},
	}
	svc := NewRiskService(attendanceRepo, &stubReportRepo{}, nil, 2)
	ctx := riskTestContext(t, "company-1")

	report, err := svc.GenerateReport(ctx, risk.GenerateReportRequest{Months: 6})

	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalEmployees)
	assert.Equal(t, "E-OK", report.Employees[0].EmployeeID)
}

func TestGenerateReport_AlertsManagersOfHighRiskEmployees(t *testing.T) {
	sender := &stubAlertSender{}
	attendanceRepo := &stubAttendanceRepo{
		employees: []attendance.EmployeeRef{
			{EmployeeID: "E-HIGH", Name: "Harper"},
			{EmployeeID: "E-LOW", Name: "Lee"},
		},
		windows: map[string][]attendance.Record{
			"E-HIGH": recentWeekdayHistory("E-HIGH", "Harper", "mgr-high@example.com", highRiskStatuses()),
			"E-LOW":  recentWeekdayHistory("E-LOW", "Lee", "mgr-low@example.com", repeatStatus(attendance.StatusPresent, 63)),
		},
	}
	svc := NewRiskService(attendanceRepo, &stubReportRepo{}, sender, 2)
	ctx := riskTestContext(t, "company-1")

	_, err := svc.GenerateReport(ctx, risk.GenerateReportRequest{Months: 6})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(sender.alerts()) == 1
	}, time.Second, 10*time.Millisecond)

	alert := sender.alerts()[0]
	assert.Equal(t, "mgr-high@example.com", alert.to)
	assert.Equal(t, "E-HIGH", alert.employeeID)
	assert.GreaterOrEqual(t, alert.score, 70.0)
}

func TestHighRisk_LeavesNoSnapshotAndSendsNoAlerts(t *testing.T) {
	sender := &stubAlertSender{}
	attendanceRepo := &stubAttendanceRepo{
		employees: []attendance.EmployeeRef{
			{EmployeeID: "E-HIGH", Name: "Harper"},
			{EmployeeID: "E-LOW", Name: "Lee"},
		},
		windows: map[string][]attendance.Record{
			"E-HIGH": recentWeekdayHistory("E-HIGH", "Harper", "mgr@example.com", highRiskStatuses()),
			"E-LOW":  recentWeekdayHistory("E-LOW", "Lee", "mgr@example.com", repeatStatus(attendance.StatusPresent, 63)),
		},
	}
	reportRepo := &stubReportRepo{}
	svc := NewRiskService(attendanceRepo, reportRepo, sender, 2)
	ctx := riskTestContext(t, "company-1")

	filtered, err := svc.HighRisk(ctx, risk.HighRiskRequest{Months: 6, Threshold: 70})

	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "E-HIGH", filtered[0].EmployeeID)

	// reading the high-risk view must not touch report history or managers
	assert.Empty(t, reportRepo.snapshots)
	assert.Empty(t, sender.alerts())

	history, err := svc.ListReportHistory(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestComposeReport_MatchesGenerateReportWithoutPersisting(t *testing.T) {
	attendanceRepo := &stubAttendanceRepo{
		employees: []attendance.EmployeeRef{{EmployeeID: "E-HIGH", Name: "Harper"}},
		windows: map[string][]attendance.Record{
			"E-HIGH": recentWeekdayHistory("E-HIGH", "Harper", "mgr@example.com", highRiskStatuses()),
		},
	}
	reportRepo := &stubReportRepo{}
	svc := NewRiskService(attendanceRepo, reportRepo, nil, 2)
	ctx := riskTestContext(t, "company-1")

	composed, err := svc.ComposeReport(ctx, risk.GenerateReportRequest{Months: 6})
	require.NoError(t, err)
	assert.Empty(t, reportRepo.snapshots)

	generated, err := svc.GenerateReport(ctx, risk.GenerateReportRequest{Months: 6})
	require.NoError(t, err)
	require.Len(t, reportRepo.snapshots, 1)

	assert.Equal(t, generated.TotalEmployees, composed.TotalEmployees)
	assert.Equal(t, generated.HighRisk, composed.HighRisk)
	require.Len(t, composed.Employees, 1)
	assert.Equal(t, generated.Employees[0].Score, composed.Employees[0].Score)
}

func TestHighRisk_ThresholdIsInclusive(t *testing.T) {
	report := risk.CompanyReport{
		Employees: []risk.Assessment{
			{EmployeeID: "A", Score: 90},
			{EmployeeID: "B", Score: 70},
			{EmployeeID: "C", Score: 69.9},
			{EmployeeID: "D", Score: 0},
		},
	}

	filtered := FilterHighRisk(report, 70)

	require.Len(t, filtered, 2)
	assert.Equal(t, "A", filtered[0].EmployeeID)
	assert.Equal(t, "B", filtered[1].EmployeeID)

	assert.Len(t, FilterHighRisk(report, 0), 4)
	assert.Empty(t, FilterHighRisk(report, 100))
}

func TestAssessEmployee(t *testing.T) {
	attendanceRepo := &stubAttendanceRepo{
		employees: []attendance.EmployeeRef{{EmployeeID: "E-1", Name: "Avery"}},
		windows: map[string][]attendance.Record{
			"E-1": recentWeekdayHistory("E-1", "Avery", "mgr@example.com", repeatStatus(attendance.StatusPresent, 63)),
		},
	}
	svc := NewRiskService(attendanceRepo, &stubReportRepo{}, nil, 2)
	ctx := riskTestContext(t, "company-1")

	t.Run("known employee", func(t *testing.T) {
		assessment, err := svc.AssessEmployee(ctx, risk.AssessEmployeeRequest{EmployeeID: "E-1", Months: 6})
		require.NoError(t, err)
		assert.Equal(t, "E-1", assessment.EmployeeID)
		assert.Equal(t, risk.LevelLow, assessment.RiskLevel)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := svc.AssessEmployee(ctx, risk.AssessEmployeeRequest{EmployeeID: "E-404", Months: 6})
		assert.ErrorIs(t, err, attendance.ErrEmployeeNotFound)
	})

	t.Run("months out of range", func(t *testing.T) {
		_, err := svc.AssessEmployee(ctx, risk.AssessEmployeeRequest{EmployeeID: "E-1", Months: 0})
		assert.Error(t, err)
	})
}

func TestReportHistoryRoundTrip(t *testing.T) {
	attendanceRepo := &stubAttendanceRepo{
		employees: []attendance.EmployeeRef{{EmployeeID: "E-1", Name: "Avery"}},
		windows: map[string][]attendance.Record{
			"E-1": recentWeekdayHistory("E-1", "Avery", "mgr@example.com", repeatStatus(attendance.StatusPresent, 63)),
		},
	}
	reportRepo := &stubReportRepo{}
	svc := NewRiskService(attendanceRepo, reportRepo, nil, 2)
	ctx := riskTestContext(t, "company-1")

	_, err := svc.GenerateReport(ctx, risk.GenerateReportRequest{Months: 3})
	require.NoError(t, err)
	_, err = svc.GenerateReport(ctx, risk.GenerateReportRequest{Months: 6})
	require.NoError(t, err)

	history, err := svc.ListReportHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// newest first
	assert.Equal(t, 6, history[0].PeriodMonths)
	assert.Equal(t, 3, history[1].PeriodMonths)

	snapshot, err := svc.GetReport(ctx, history[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 6, snapshot.PeriodMonths)

	_, err = svc.GetReport(ctx, "missing-id")
	assert.ErrorIs(t, err, risk.ErrReportNotFound)
}
