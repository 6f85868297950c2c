package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/config"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/export"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/qrcode"
)

// fakeAttendanceRepository keeps records in memory keyed by employee and date.
type fakeAttendanceRepository struct {
	records    map[string]attendance.Attendance
	absentDate time.Time
	lastFilter attendance.AttendanceFilter
}

func newFakeAttendanceRepository() *fakeAttendanceRepository {
	return &fakeAttendanceRepository{records: map[string]attendance.Attendance{}}
}

func key(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	k := key(a.EmployeeID, a.Date)
	if _, ok := f.records[k]; ok {
		return attendance.Attendance{}, attendance.ErrAlreadyTimedIn
	}
	a.ID = k
	f.records[k] = a
	return a, nil
}

func (f *fakeAttendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	if _, ok := f.records[a.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[a.ID] = a
	return nil
}

func (f *fakeAttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	a, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (f *fakeAttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return f.GetByID(ctx, key(employeeID, date))
}

func (f *fakeAttendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, a := range f.records {
		if a.EmployeeID == employeeID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	f.lastFilter = filter
	var out []attendance.Attendance
	for _, a := range f.records {
		if filter.EmployeeID == nil || a.EmployeeID == *filter.EmployeeID {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepository) MarkAbsent(ctx context.Context, date time.Time) (int64, error) {
	f.absentDate = date
	return 3, nil
}

func (f *fakeAttendanceRepository) CreateOnLeave(ctx context.Context, employeeID string, dates []time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAttendanceRepository) Trend(ctx context.Context, from, to time.Time) ([]attendance.TrendPoint, error) {
	return nil, nil
}

var manila = time.FixedZone("PHT", 8*60*60)

func newTestService(repo *fakeAttendanceRepository, now time.Time) *AttendanceServiceImpl {
	svc := NewAttendanceService(repo, config.AttendanceConfig{
		WorkStart:    "08:00",
		GraceMinutes: 10,
	}, manila).(*AttendanceServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func staffContext() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{
		UserID:     "user-1",
		Email:      "staff@terralogix.test",
		EmployeeID: "emp-1",
		Role:       user.RoleStaff,
	})
}

func TestTimeIn_OnTimeWithinGrace(t *testing.T) {
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, time.March, 3, 8, 9, 0, 0, manila))

	resp, err := svc.TimeIn(staffContext(), attendance.TimeInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Present", resp.Status)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, "2025-03-03", resp.Date)
}

func TestTimeIn_LateCountsFromWorkStart(t *testing.T) {
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, time.March, 3, 8, 25, 30, 0, manila))

	resp, err := svc.TimeIn(staffContext(), attendance.TimeInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Late", resp.Status)
	assert.Equal(t, 25, resp.LateMinutes)
}

func TestTimeIn_UsesConfiguredTimezoneForDate(t *testing.T) {
	repo := newFakeAttendanceRepository()
	// 23:30 UTC on the 2nd is 07:30 on the 3rd in Manila.
	svc := newTestService(repo, time.Date(2025, time.March, 2, 23, 30, 0, 0, time.UTC))

	resp, err := svc.TimeIn(staffContext(), attendance.TimeInRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03", resp.Date)
	assert.Equal(t, "Present", resp.Status)
}

func TestTimeIn_Twice(t *testing.T) {
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, time.March, 3, 8, 0, 0, 0, manila))

	_, err := svc.TimeIn(staffContext(), attendance.TimeInRequest{})
	require.NoError(t, err)

	_, err = svc.TimeIn(staffContext(), attendance.TimeInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyTimedIn)
}

func TestTimeIn_RequiresEmployee(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepository(), time.Now())
	ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "admin-1", Role: user.RoleAdmin})

	_, err := svc.TimeIn(ctx, attendance.TimeInRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoEmployeeRecord)
}

func TestTimeOut(t *testing.T) {
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, time.March, 3, 8, 0, 0, 0, manila))

	_, err := svc.TimeOut(staffContext(), attendance.TimeOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotTimedIn)

	_, err = svc.TimeIn(staffContext(), attendance.TimeInRequest{})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, time.March, 3, 17, 0, 0, 0, manila) }
	resp, err := svc.TimeOut(staffContext(), attendance.TimeOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.TimeOut)
	require.NotNil(t, resp.WorkingHours)
	assert.InDelta(t, 9.0, *resp.WorkingHours, 0.01)

	_, err = svc.TimeOut(staffContext(), attendance.TimeOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyTimedOut)
}

func TestQRCheckIn(t *testing.T) {
	today := time.Date(2025, time.March, 3, 7, 50, 0, 0, manila)
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		payload string
		wantErr error
		wantMsg string
	}{
		{"valid", qrcode.Payload("emp-1", date), nil, "Time in recorded"},
		{"malformed", "garbage", attendance.ErrInvalidQRCode, ""},
		{"other employee", qrcode.Payload("emp-2", date), attendance.ErrQRCodeNotYours, ""},
		{"stale", qrcode.Payload("emp-1", date.AddDate(0, 0, -1)), attendance.ErrQRCodeExpired, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(newFakeAttendanceRepository(), today)

			resp, err := svc.QRCheckIn(staffContext(), attendance.QRCheckInRequest{QRData: tt.payload})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, resp.Message)
		})
	}
}

func TestQRCheckIn_AlreadyTimedInIsIdempotent(t *testing.T) {
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, time.March, 3, 7, 50, 0, 0, manila))

	qr, err := svc.GenerateQR(staffContext())
	require.NoError(t, err)
	assert.NotEmpty(t, qr.Image)

	_, err = svc.QRCheckIn(staffContext(), attendance.QRCheckInRequest{QRData: qr.Payload})
	require.NoError(t, err)

	resp, err := svc.QRCheckIn(staffContext(), attendance.QRCheckInRequest{QRData: qr.Payload})
	require.NoError(t, err)
	assert.Equal(t, "Already timed in today", resp.Message)
}

func TestListAttendance_RequiresPermission(t *testing.T) {
	svc := newTestService(newFakeAttendanceRepository(), time.Now())

	_, err := svc.ListAttendance(staffContext(), attendance.AttendanceFilter{})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestExportMyAttendance(t *testing.T) {
	repo := newFakeAttendanceRepository()
	svc := newTestService(repo, time.Date(2025, time.March, 3, 8, 0, 0, 0, manila))
	_, err := svc.TimeIn(staffContext(), attendance.TimeInRequest{})
	require.NoError(t, err)

	file, err := svc.ExportMyAttendance(staffContext(), attendance.AttendanceFilter{}, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "attendance_20250303.csv", file.Name)
	assert.Contains(t, string(file.Data), "2025-03-03")
	assert.Equal(t, 0, repo.lastFilter.Limit)
	require.NotNil(t, repo.lastFilter.EmployeeID)
	assert.Equal(t, "emp-1", *repo.lastFilter.EmployeeID)

	_, err = svc.ExportMyAttendance(staffContext(), attendance.AttendanceFilter{}, export.FormatPDF)
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestMarkAbsentEmployees_SkipsWeekend(t *testing.T) {
	repo := newFakeAttendanceRepository()
	// Monday
	svc := newTestService(repo, time.Date(2025, time.March, 3, 1, 0, 0, 0, manila))

	require.NoError(t, svc.MarkAbsentEmployees(context.Background()))
	assert.Equal(t, "2025-02-28", repo.absentDate.Format("2006-01-02"))
}
