package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/risk"
	"github.com/cmlabs-hris/attrition-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attrition-backend-go/internal/pkg/export"
	"github.com/go-chi/chi/v5"
)

const defaultHighRiskThreshold = 70.0

type RiskHandler interface {
	GetEmployeeRisk(w http.ResponseWriter, r *http.Request)
	GenerateReport(w http.ResponseWriter, r *http.Request)
	HighRisk(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	GetReport(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type riskHandlerImpl struct {
	riskService   risk.RiskService
	defaultMonths int
}

func NewRiskHandler(riskService risk.RiskService, defaultMonths int) RiskHandler {
	return &riskHandlerImpl{
		riskService:   riskService,
		defaultMonths: defaultMonths,
	}
}

func (h *riskHandlerImpl) parseMonths(r *http.Request) (int, error) {
	monthsStr := r.URL.Query().Get("months")
	if monthsStr == "" {
		return h.defaultMonths, nil
	}
	return strconv.Atoi(monthsStr)
}

// GetEmployeeRisk handles GET /risk/employees/{employeeID}
func (h *riskHandlerImpl) GetEmployeeRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months, err := h.parseMonths(r)
	if err != nil {
		response.BadRequest(w, "invalid months parameter", nil)
		return
	}

	req := risk.AssessEmployeeRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Months:     months,
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.riskService.AssessEmployee(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GenerateReport handles GET /risk/report
func (h *riskHandlerImpl) GenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months, err := h.parseMonths(r)
	if err != nil {
		response.BadRequest(w, "invalid months parameter", nil)
		return
	}

	req := risk.GenerateReportRequest{Months: months}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.riskService.GenerateReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// HighRisk handles GET /risk/report/high
func (h *riskHandlerImpl) HighRisk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months, err := h.parseMonths(r)
	if err != nil {
		response.BadRequest(w, "invalid months parameter", nil)
		return
	}

	threshold := defaultHighRiskThreshold
	if thresholdStr := r.URL.Query().Get("threshold"); thresholdStr != "" {
		threshold, err = strconv.ParseFloat(thresholdStr, 64)
		if err != nil {
			response.BadRequest(w, "invalid threshold parameter", nil)
			return
		}
	}

	req := risk.HighRiskRequest{Months: months, Threshold: threshold}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.riskService.HighRisk(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// History handles GET /risk/reports
func (h *riskHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			response.BadRequest(w, "invalid limit parameter", nil)
			return
		}
	}

	result, err := h.riskService.ListReportHistory(ctx, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetReport handles GET /risk/reports/{reportID}
func (h *riskHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reportID := chi.URLParam(r, "reportID")
	if reportID == "" {
		response.BadRequest(w, "report id is required", nil)
		return
	}

	result, err := h.riskService.GetReport(ctx, reportID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export handles GET /risk/report/export
func (h *riskHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	months, err := h.parseMonths(r)
	if err != nil {
		response.BadRequest(w, "invalid months parameter", nil)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	if format != "xlsx" && format != "pdf" {
		response.BadRequest(w, "format must be xlsx or pdf", nil)
		return
	}

	req := risk.GenerateReportRequest{Months: months}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Exports render the current standings without writing a snapshot.
	report, err := h.riskService.ComposeReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("risk_report_%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		err = export.WriteReportPDF(report, w)
	default:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		err = export.WriteReportXLSX(report, w)
	}
	if err != nil {
		slog.Error("Failed to write report export", "error", err, "format", format)
	}
}
