package http

import (
	"net/http"

	"github.com/terralogix/hr-backend-go/internal/domain/dashboard"
	"github.com/terralogix/hr-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	GetStats(w http.ResponseWriter, r *http.Request)
	GetAttendanceTrend(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
	}
}

func (h *dashboardHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// GetAttendanceTrend handles GET /admin/attendance-trend?days=30
func (h *dashboardHandlerImpl) GetAttendanceTrend(w http.ResponseWriter, r *http.Request) {
	resp, err := h.dashboardService.GetAttendanceTrend(r.Context(), dashboard.TrendRequest{
		Days: getIntQueryParam(r, "days", dashboard.DefaultTrendDays),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
