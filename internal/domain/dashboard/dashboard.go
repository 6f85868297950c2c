package dashboard

import (
	"context"
	"time"

	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

// Stats holds the counters read from the employee, attendance and payslip tables
type Stats struct {
	EmployeeCount int64
	PresentToday  int64
	OnLeaveToday  int64
	PayslipCount  int64
}

type DashboardRepository interface {
	Stats(ctx context.Context, day time.Time) (Stats, error)
}

type DashboardService interface {
	GetStats(ctx context.Context) (StatsResponse, error)

	// GetAttendanceTrend returns one point per day ending today, oldest first
	GetAttendanceTrend(ctx context.Context, req TrendRequest) ([]TrendPointResponse, error)
}

// StatsResponse is returned by GET /admin/dashboard-stats
type StatsResponse struct {
	EmployeeCount int64  `json:"employee_count"`
	PresentToday  int64  `json:"present_today"`
	OnLeaveToday  int64  `json:"on_leave_today"`
	PendingLeaves int64  `json:"pending_leaves"`
	PayslipCount  int64  `json:"payslip_count"`
	Date          string `json:"date"` // Format: "YYYY-MM-DD"
}

const (
	DefaultTrendDays = 30
	MaxTrendDays     = 366
)

type TrendRequest struct {
	Days int
}

func (r *TrendRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Days == 0 {
		r.Days = DefaultTrendDays
	}
	if r.Days < 0 || r.Days > MaxTrendDays {
		errs.Add("days", "days must be between 1 and 366")
	}
	return errs.Err()
}

type TrendPointResponse struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
