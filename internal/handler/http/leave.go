package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/leave"
	"github.com/terralogix/hr-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	// Leave types
	ListLeaveTypes(w http.ResponseWriter, r *http.Request)
	GetLeaveType(w http.ResponseWriter, r *http.Request)
	CreateLeaveType(w http.ResponseWriter, r *http.Request)
	UpdateLeaveType(w http.ResponseWriter, r *http.Request)
	DeleteLeaveType(w http.ResponseWriter, r *http.Request)

	// Leave requests
	ListLeaveRequests(w http.ResponseWriter, r *http.Request)
	GetLeaveRequest(w http.ResponseWriter, r *http.Request)
	CreateLeaveRequest(w http.ResponseWriter, r *http.Request)
	DeleteLeaveRequest(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

func (h *leaveHandlerImpl) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	resp, err := h.leaveService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *leaveHandlerImpl) GetLeaveType(w http.ResponseWriter, r *http.Request) {
	resp, err := h.leaveService.GetLeaveType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *leaveHandlerImpl) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leaveService.CreateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave type created successfully", resp)
}

func (h *leaveHandlerImpl) UpdateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.leaveService.UpdateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave type updated successfully", resp)
}

func (h *leaveHandlerImpl) DeleteLeaveType(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.DeleteLeaveType(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave type deleted successfully", nil)
}

// ListLeaveRequests handles GET /leaves?status=&employee_id=&search=&page=&limit=
func (h *leaveHandlerImpl) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveRequestFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		Search:     getStringQueryParam(r, "search"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
	}
	if status := getStringQueryParam(r, "status"); status != nil {
		s := leave.Status(*status)
		filter.Status = &s
	}

	resp, err := h.leaveService.ListLeaveRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *leaveHandlerImpl) GetLeaveRequest(w http.ResponseWriter, r *http.Request) {
	resp, err := h.leaveService.GetLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *leaveHandlerImpl) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leaveService.CreateLeaveRequest(r.Context(), req)
	if err != nil {
		slog.Warn("CreateLeaveRequest failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", resp)
}

func (h *leaveHandlerImpl) DeleteLeaveRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.leaveService.DeleteLeaveRequest(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request deleted", nil)
}

func (h *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	resp, err := h.leaveService.ApproveLeaveRequest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request approved", resp)
}

type rejectRequest struct {
	Remarks *string `json:"remarks,omitempty"`
}

func (h *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leaveService.RejectLeaveRequest(r.Context(), chi.URLParam(r, "id"), req.Remarks)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request rejected", resp)
}

// Decide handles POST /admin/leaves/{id}/decide with {status, remarks}.
func (h *leaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req leave.DecideLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.leaveService.DecideLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request "+string(resp.Status), resp)
}
