package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/terralogix/hr-backend-go/internal/domain/dashboard"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// Stats returns the headcount and day counters in a single query
func (r *dashboardRepositoryImpl) Stats(ctx context.Context, day time.Time) (dashboard.Stats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			(SELECT COUNT(*) FROM employees),
			(SELECT COUNT(*) FROM attendances WHERE date = $1 AND status IN ('Present', 'Late')),
			(SELECT COUNT(DISTINCT employee_id) FROM leave_requests
			  WHERE status = 'Approved' AND $1 BETWEEN start_date AND end_date),
			(SELECT COUNT(*) FROM payslips)
	`

	var stats dashboard.Stats
	err := q.QueryRow(ctx, query, day).Scan(
		&stats.EmployeeCount, &stats.PresentToday, &stats.OnLeaveToday, &stats.PayslipCount,
	)
	if err != nil {
		return dashboard.Stats{}, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return stats, nil
}
