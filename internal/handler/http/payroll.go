package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/terralogix/hr-backend-go/internal/domain/payroll"
	"github.com/terralogix/hr-backend-go/internal/handler/http/response"
	"github.com/terralogix/hr-backend-go/internal/pkg/export"
)

type PayrollHandler interface {
	Compute(w http.ResponseWriter, r *http.Request)
	CreatePayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DeletePayslip(w http.ResponseWriter, r *http.Request)
	ExportPayslips(w http.ResponseWriter, r *http.Request)
	ExportMyPayslips(w http.ResponseWriter, r *http.Request)
	PayslipPDF(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

func payslipFilterFromQuery(r *http.Request) payroll.PayslipFilter {
	return payroll.PayslipFilter{
		EmployeeID: getStringQueryParam(r, "employee_id"),
		Search:     getStringQueryParam(r, "search"),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 20),
		SortBy:     r.URL.Query().Get("sort_by"),
		SortOrder:  r.URL.Query().Get("sort_order"),
	}
}

func writeExport(w http.ResponseWriter, file export.File, err error) {
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, file.Name, file.ContentType, file.Data)
}

// Compute previews a payroll result without saving it.
func (h *payrollHandlerImpl) Compute(w http.ResponseWriter, r *http.Request) {
	var req payroll.ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.Compute(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *payrollHandlerImpl) CreatePayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.CreatePayslip(r.Context(), req)
	if err != nil {
		slog.Error("CreatePayslip service error", "employee_id", req.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payslip created successfully", resp)
}

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.ListPayslips(r.Context(), payslipFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	resp, err := h.payrollService.GetPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *payrollHandlerImpl) DeletePayslip(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.DeletePayslip(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payslip deleted successfully", nil)
}

// ExportPayslips handles GET /admin/payslips/export/{format}.
func (h *payrollHandlerImpl) ExportPayslips(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	file, err := h.payrollService.ExportPayslips(r.Context(), payslipFilterFromQuery(r), format)
	writeExport(w, file, err)
}

// ExportMyPayslips handles GET /payslips/export/{format}.
func (h *payrollHandlerImpl) ExportMyPayslips(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	file, err := h.payrollService.ExportMyPayslips(r.Context(), format)
	writeExport(w, file, err)
}

func (h *payrollHandlerImpl) PayslipPDF(w http.ResponseWriter, r *http.Request) {
	file, err := h.payrollService.PayslipPDF(r.Context(), chi.URLParam(r, "id"))
	writeExport(w, file, err)
}
