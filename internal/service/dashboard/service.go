package dashboard

import (
	"context"
	"time"

	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/domain/dashboard"
	"github.com/terralogix/hr-backend-go/internal/domain/leave"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	leaveRepo      leave.LeaveRequestRepository
	attendanceRepo attendance.AttendanceRepository
	loc            *time.Location
	now            func() time.Time
}

func NewDashboardService(
	repo dashboard.DashboardRepository,
	leaveRepo leave.LeaveRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	loc *time.Location,
) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		leaveRepo:           leaveRepo,
		attendanceRepo:      attendanceRepo,
		loc:                 loc,
		now:                 time.Now,
	}
}

func (s *DashboardServiceImpl) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func requireReports(ctx context.Context) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if !claims.Can(user.PermissionReportsView) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// GetStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetStats(ctx context.Context) (dashboard.StatsResponse, error) {
	if err := requireReports(ctx); err != nil {
		return dashboard.StatsResponse{}, err
	}

	day := s.today()

	var (
		stats   dashboard.Stats
		pending int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		stats, err = s.DashboardRepository.Stats(gCtx, day)
		return err
	})

	g.Go(func() error {
		var err error
		pending, err = s.leaveRepo.CountPending(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		return dashboard.StatsResponse{}, err
	}

	return dashboard.StatsResponse{
		EmployeeCount: stats.EmployeeCount,
		PresentToday:  stats.PresentToday,
		OnLeaveToday:  stats.OnLeaveToday,
		PendingLeaves: pending,
		PayslipCount:  stats.PayslipCount,
		Date:          day.Format(dateLayout),
	}, nil
}

// GetAttendanceTrend implements dashboard.DashboardService. Days without
// attendance are reported with a zero count.
func (s *DashboardServiceImpl) GetAttendanceTrend(ctx context.Context, req dashboard.TrendRequest) ([]dashboard.TrendPointResponse, error) {
	if err := requireReports(ctx); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	to := s.today()
	from := to.AddDate(0, 0, -(req.Days - 1))

	points, err := s.attendanceRepo.Trend(ctx, from, to)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(points))
	for _, p := range points {
		counts[p.Date.Format(dateLayout)] += int64(p.Count)
	}

	trend := make([]dashboard.TrendPointResponse, 0, req.Days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		trend = append(trend, dashboard.TrendPointResponse{Date: key, Count: counts[key]})
	}
	return trend, nil
}
