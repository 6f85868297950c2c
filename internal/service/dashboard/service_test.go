package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/domain/dashboard"
	"github.com/terralogix/hr-backend-go/internal/domain/leave"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
)

type fakeDashboardRepository struct {
	day time.Time
	err error
}

func (f *fakeDashboardRepository) Stats(ctx context.Context, day time.Time) (dashboard.Stats, error) {
	f.day = day
	return dashboard.Stats{EmployeeCount: 12, PresentToday: 9, OnLeaveToday: 1, PayslipCount: 40}, f.err
}

type fakeLeaveRepository struct {
	leave.LeaveRequestRepository
}

func (f *fakeLeaveRepository) CountPending(ctx context.Context) (int64, error) {
	return 3, nil
}

type fakeAttendanceRepository struct {
	attendance.AttendanceRepository
	from, to time.Time
	points   []attendance.TrendPoint
}

func (f *fakeAttendanceRepository) Trend(ctx context.Context, from, to time.Time) ([]attendance.TrendPoint, error) {
	f.from, f.to = from, to
	return f.points, nil
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func newTestService(repo *fakeDashboardRepository, att *fakeAttendanceRepository) *DashboardServiceImpl {
	svc := NewDashboardService(repo, &fakeLeaveRepository{}, att, time.FixedZone("PHT", 8*3600)).(*DashboardServiceImpl)
	// 2025-03-14 23:30 UTC is already the 15th in Manila
	svc.now = func() time.Time { return time.Date(2025, time.March, 14, 23, 30, 0, 0, time.UTC) }
	return svc
}

func adminContext() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: "admin-1", Role: user.RoleAdmin})
}

func TestGetStats(t *testing.T) {
	repo := &fakeDashboardRepository{}
	svc := newTestService(repo, &fakeAttendanceRepository{})

	stats, err := svc.GetStats(adminContext())
	require.NoError(t, err)

	assert.Equal(t, dashboard.StatsResponse{
		EmployeeCount: 12,
		PresentToday:  9,
		OnLeaveToday:  1,
		PendingLeaves: 3,
		PayslipCount:  40,
		Date:          "2025-03-15",
	}, stats)
	assert.Equal(t, day("2025-03-15"), repo.day)
}

func TestGetStats_Errors(t *testing.T) {
	svc := newTestService(&fakeDashboardRepository{err: errors.New("boom")}, &fakeAttendanceRepository{})

	_, err := svc.GetStats(adminContext())
	assert.EqualError(t, err, "boom")

	staff := jwt.NewContext(context.Background(), jwt.Claims{UserID: "u", Role: user.RoleStaff})
	_, err = svc.GetStats(staff)
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestGetAttendanceTrend_ZeroFilled(t *testing.T) {
	att := &fakeAttendanceRepository{points: []attendance.TrendPoint{
		{Date: day("2025-03-13"), Count: 8},
		{Date: day("2025-03-15"), Count: 5},
	}}
	svc := newTestService(&fakeDashboardRepository{}, att)

	trend, err := svc.GetAttendanceTrend(adminContext(), dashboard.TrendRequest{Days: 4})
	require.NoError(t, err)

	assert.Equal(t, []dashboard.TrendPointResponse{
		{Date: "2025-03-12", Count: 0},
		{Date: "2025-03-13", Count: 8},
		{Date: "2025-03-14", Count: 0},
		{Date: "2025-03-15", Count: 5},
	}, trend)
	assert.Equal(t, day("2025-03-12"), att.from)
	assert.Equal(t, day("2025-03-15"), att.to)
}

func TestGetAttendanceTrend_DefaultAndBounds(t *testing.T) {
	svc := newTestService(&fakeDashboardRepository{}, &fakeAttendanceRepository{})

	trend, err := svc.GetAttendanceTrend(adminContext(), dashboard.TrendRequest{})
	require.NoError(t, err)
	assert.Len(t, trend, dashboard.DefaultTrendDays)
	assert.Equal(t, "2025-03-15", trend[len(trend)-1].Date)

	_, err = svc.GetAttendanceTrend(adminContext(), dashboard.TrendRequest{Days: 400})
	assert.Error(t, err)
}
