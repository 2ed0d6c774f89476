package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
)

var reportColumns = []string{
	"Rank",
	"Employee ID",
	"Name",
	"Score",
	"Risk Level",
	"Absenteeism",
	"Leave Pattern",
	"Consistency",
	"Recent Trend",
	"Attendance Rate",
	"Recommendation",
}

// WriteReportXLSX renders a company risk report as a spreadsheet.
func WriteReportXLSX(report risk.CompanyReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Risk Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	// Summary block
	summary := [][]interface{}{
		{"Period (months)", report.PeriodMonths},
		{"Generated at", report.GeneratedAt},
		{"Total employees", report.TotalEmployees},
		{"High risk", report.HighRisk},
		{"Moderate risk", report.ModerateRisk},
		{"Low risk", report.LowRisk},
		{"Insufficient data", report.InsufficientData},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	headerRow := len(summary) + 2
	headerCell, err := excelize.CoordinatesToCellName(1, headerRow)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(reportColumns))
	for i, c := range reportColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, headerCell, &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, emp := range report.Employees {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err != nil {
			return err
		}
		row := []interface{}{
			i + 1,
			emp.EmployeeID,
			emp.Name,
			emp.Score,
			string(emp.RiskLevel),
			emp.Factors.Absenteeism,
			emp.Factors.LeavePattern,
			emp.Factors.Consistency,
			emp.Factors.RecentTrend,
			emp.Statistics.AttendanceRate,
			emp.Recommendation,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write employee row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
