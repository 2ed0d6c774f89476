package risk

import (
	"fmt"
	"math"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
)

// Composite weights. They sum to 1.0, so the composite stays inside [0,100];
// changing them recalibrates the score without changing the contract.
const (
	weightAbsenteeism  = 0.35
	weightLeavePattern = 0.25
	weightConsistency  = 0.25
	weightRecentTrend  = 0.15
)

const (
	// consistency partitions the ordered history into 5-day work weeks
	chunkSize = 5

	// recent trend needs enough history to compare two windows
	trendMinRecords = 20
	trendWindow     = 15
)

// Risk level bands, inclusive at the lower bound.
const (
	highThreshold     = 70.0
	moderateThreshold = 40.0
)

// Assess scores one employee over an ordered record window. An empty window
// short-circuits to the Insufficient Data level without touching the
// sub-score formulas.
func Assess(employeeID string, name string, records []attendance.Record) risk.Assessment {
	if len(records) == 0 {
		return risk.Assessment{
			EmployeeID:     employeeID,
			Name:           name,
			Score:          0,
			RiskLevel:      risk.LevelInsufficientData,
			Factors:        risk.FactorScores{},
			Statistics:     buildStatistics(records),
			Recommendation: recommendationFor(risk.LevelInsufficientData),
		}
	}

	factors := risk.FactorScores{
		Absenteeism:  scoreAbsenteeism(records),
		LeavePattern: scoreLeavePattern(records),
		Consistency:  scoreConsistency(records),
		RecentTrend:  scoreRecentTrend(records),
	}

	score := composite(factors)
	level := classify(score)

	return risk.Assessment{
		EmployeeID:     employeeID,
		Name:           name,
		Score:          score,
		RiskLevel:      level,
		Factors:        factors,
		Statistics:     buildStatistics(records),
		Recommendation: recommendationFor(level),
	}
}

// scoreAbsenteeism maps the overall absence rate onto [0,100]. Below the 5%
// threshold the score ramps linearly (rate*800), meeting the first step at
// exactly 40 so the two branches agree at the boundary.
func scoreAbsenteeism(records []attendance.Record) float64 {
	total := len(records)
	absent := 0
	for _, rec := range records {
		if rec.Status == attendance.StatusAbsent {
			absent++
		}
	}

	rate := float64(absent) / float64(total)
	switch {
	case rate >= 0.20:
		return 100
	case rate >= 0.15:
		return 85
	case rate >= 0.10:
		return 65
	case rate >= 0.05:
		return 40
	default:
		return rate * 800
	}
}

// scoreLeavePattern looks at the unplanned share of all leave days. No leave
// at all is zero risk.
func scoreLeavePattern(records []attendance.Record) float64 {
	leave := 0
	unplanned := 0
	for _, rec := range records {
		if rec.Status.IsLeave() {
			leave++
			if rec.Status == attendance.StatusUnplannedLeave {
				unplanned++
			}
		}
	}
	if leave == 0 {
		return 0
	}

	ratio := float64(unplanned) / float64(leave)
	switch {
	case ratio >= 0.80:
		return 90
	case ratio >= 0.60:
		return 70
	case ratio >= 0.40:
		return 50
	case ratio >= 0.20:
		return 30
	default:
		return ratio * 100
	}
}

// scoreConsistency measures how erratic the absence pattern is across
// consecutive 5-day chunks: the population standard deviation of per-chunk
// absence rates, scaled by 200 and capped at 100.
func scoreConsistency(records []attendance.Record) float64 {
	var rates []float64
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]
		absent := 0
		for _, rec := range chunk {
			if rec.Status == attendance.StatusAbsent {
				absent++
			}
		}
		rates = append(rates, float64(absent)/float64(len(chunk)))
	}

	if len(rates) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range rates {
		mean += r
	}
	mean /= float64(len(rates))

	variance := 0.0
	for _, r := range rates {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(rates))

	return math.Min(math.Sqrt(variance)*200, 100)
}

// scoreRecentTrend compares the absence rate of the last 15 records against
// the 15 before them. An improving or flat trend contributes zero risk.
func scoreRecentTrend(records []attendance.Record) float64 {
	n := len(records)
	if n < trendMinRecords {
		return 0
	}

	prevStart := n - 2*trendWindow
	if prevStart < 0 {
		prevStart = 0
	}
	previous := records[prevStart : n-trendWindow]
	recent := records[n-trendWindow:]

	trend := absenceRate(recent) - absenceRate(previous)
	switch {
	case trend >= 0.15:
		return 100
	case trend >= 0.10:
		return 75
	case trend >= 0.05:
		return 50
	case trend > 0:
		return trend * 500
	default:
		return 0
	}
}

func absenceRate(records []attendance.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	absent := 0
	for _, rec := range records {
		if rec.Status == attendance.StatusAbsent {
			absent++
		}
	}
	return float64(absent) / float64(len(records))
}

// composite is the weighted sum of the four sub-scores, rounded to one
// decimal place.
func composite(f risk.FactorScores) float64 {
	score := f.Absenteeism*weightAbsenteeism +
		f.LeavePattern*weightLeavePattern +
		f.Consistency*weightConsistency +
		f.RecentTrend*weightRecentTrend
	return math.Round(score*10) / 10
}

func classify(score float64) risk.Level {
	switch {
	case score >= highThreshold:
		return risk.LevelHigh
	case score >= moderateThreshold:
		return risk.LevelModerate
	default:
		return risk.LevelLow
	}
}

func recommendationFor(level risk.Level) string {
	switch level {
	case risk.LevelHigh:
		return "Urgent: schedule a retention conversation and review workload, engagement and growth opportunities for this employee."
	case risk.LevelModerate:
		return "Monitor attendance over the next review cycle and check in with the employee's manager."
	case risk.LevelLow:
		return "Maintain current engagement practices; no intervention needed."
	default:
		return "Insufficient attendance history to assess risk; provide at least 3 months of records."
	}
}

func buildStatistics(records []attendance.Record) risk.Statistics {
	stats := risk.Statistics{
		TotalDays:       len(records),
		AttendanceRate:  "0.00%",
		AbsenteeismRate: "0.00%",
	}

	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			stats.PresentDays++
		case attendance.StatusAbsent:
			stats.AbsentDays++
		case attendance.StatusPlannedLeave:
			stats.PlannedLeaveDays++
		case attendance.StatusUnplannedLeave:
			stats.UnplannedLeaveDays++
		}
	}

	if stats.TotalDays > 0 {
		stats.AttendanceRate = fmt.Sprintf("%.2f%%", float64(stats.PresentDays)/float64(stats.TotalDays)*100)
		stats.AbsenteeismRate = fmt.Sprintf("%.2f%%", float64(stats.AbsentDays)/float64(stats.TotalDays)*100)
	}

	return stats
}
