package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attrition-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attrition-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Upload implements AttendanceHandler.
func (h *attendanceHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	var req attendance.UploadRequest

	// Parse multipart form (max 20MB)
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	// Get file from form
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Attendance file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	// Attach file to request
	req.File = file
	req.FileHeader = fileHeader
	req.Filename = fileHeader.Filename

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Failed to read uploaded file", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	req.FileBytes = fileBytes

	// Call service
	result, err := h.attendanceService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance file processed successfully", result)
}
