package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/handler/http/response"
	"github.com/terralogix/hr-backend-go/internal/pkg/export"
)

type AttendanceHandler interface {
	TimeIn(w http.ResponseWriter, r *http.Request)
	TimeOut(w http.ResponseWriter, r *http.Request)
	GenerateQR(w http.ResponseWriter, r *http.Request)
	QRCheckIn(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	ListAttendance(w http.ResponseWriter, r *http.Request)
	ExportMyAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// decodeOptional accepts an empty body for endpoints whose fields are all optional.
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func attendanceFilterFromQuery(r *http.Request) attendance.AttendanceFilter {
	return attendance.AttendanceFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		Search:     getStringQueryParam(r, "search"),
		StartDate:  getStringQueryParam(r, "start_date"),
		EndDate:    getStringQueryParam(r, "end_date"),
		Status:     getStringQueryParam(r, "status"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
}

func (h *attendanceHandlerImpl) TimeIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.TimeInRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.TimeIn(r.Context(), req)
	if err != nil {
		slog.Warn("TimeIn failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time in recorded", resp)
}

func (h *attendanceHandlerImpl) TimeOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.TimeOutRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.TimeOut(r.Context(), req)
	if err != nil {
		slog.Warn("TimeOut failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time out recorded", resp)
}

func (h *attendanceHandlerImpl) GenerateQR(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.GenerateQR(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *attendanceHandlerImpl) QRCheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.QRCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.QRCheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, resp.Message, resp)
}

// GetMyAttendance handles GET /attendance/my?start_date=&end_date=&page=&limit=
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.GetMyAttendance(r.Context(), attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *attendanceHandlerImpl) ListAttendance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.ListAttendance(r.Context(), attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// ExportMyAttendance handles GET /attendance/export/{format} for csv and excel.
func (h *attendanceHandlerImpl) ExportMyAttendance(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil || format == export.FormatPDF {
		response.BadRequest(w, "Unsupported export format", nil)
		return
	}

	file, err := h.attendanceService.ExportMyAttendance(r.Context(), attendanceFilterFromQuery(r), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, file.Name, file.ContentType, file.Data)
}
