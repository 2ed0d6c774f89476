package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
)

// WriteReportPDF renders a company risk report as a PDF document.
func WriteReportPDF(report risk.CompanyReport, w io.Writer) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Attrition Risk Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Attrition Risk Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: last %d months    Generated: %s", report.PeriodMonths, report.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Employees: %d    High: %d    Moderate: %d    Low: %d    Insufficient data: %d",
		report.TotalEmployees, report.HighRisk, report.ModerateRisk, report.LowRisk, report.InsufficientData), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	type column struct {
		title string
		width float64
	}
	columns := []column{
		{"#", 10},
		{"Employee ID", 30},
		{"Name", 50},
		{"Score", 18},
		{"Level", 28},
		{"Absent.", 18},
		{"Leave", 18},
		{"Consist.", 18},
		{"Trend", 18},
		{"Attendance", 24},
		{"Recommendation", 45},
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, col := range columns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for i, emp := range report.Employees {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			emp.EmployeeID,
			emp.Name,
			fmt.Sprintf("%.1f", emp.Score),
			string(emp.RiskLevel),
			fmt.Sprintf("%.1f", emp.Factors.Absenteeism),
			fmt.Sprintf("%.1f", emp.Factors.LeavePattern),
			fmt.Sprintf("%.1f", emp.Factors.Consistency),
			fmt.Sprintf("%.1f", emp.Factors.RecentTrend),
			emp.Statistics.AttendanceRate,
			emp.Recommendation,
		}
		for j, col := range columns {
			pdf.CellFormat(col.width, 6, cells[j], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}
