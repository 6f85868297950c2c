package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/terralogix/hr-backend-go/internal/config"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/export"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
	"github.com/terralogix/hr-backend-go/internal/pkg/qrcode"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository

	workStartHour   int
	workStartMinute int
	graceMinutes    int
	loc             *time.Location
	now             func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	cfg config.AttendanceConfig,
	loc *time.Location,
) attendance.AttendanceService {
	// config.Validate has already rejected a malformed clock.
	start, _ := time.Parse("15:04", cfg.WorkStart)
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		workStartHour:        start.Hour(),
		workStartMinute:      start.Minute(),
		graceMinutes:         cfg.GraceMinutes,
		loc:                  loc,
		now:                  time.Now,
	}
}

func (s *AttendanceServiceImpl) employeeClaims(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.HasEmployee() {
		return jwt.Claims{}, attendance.ErrNoEmployeeRecord
	}
	return claims, nil
}

// today returns the current instant and its calendar date in the attendance timezone.
func (s *AttendanceServiceImpl) today() (time.Time, time.Time) {
	nowLocal := s.now().In(s.loc)
	y, m, d := nowLocal.Date()
	return nowLocal, time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// lateness compares nowLocal with the configured work start. Minutes are
// counted from the scheduled start, not from the end of the grace period.
func (s *AttendanceServiceImpl) lateness(nowLocal time.Time) (attendance.Status, int) {
	scheduledIn := time.Date(
		nowLocal.Year(), nowLocal.Month(), nowLocal.Day(),
		s.workStartHour, s.workStartMinute, 0, 0,
		s.loc,
	)
	graceLimit := scheduledIn.Add(time.Duration(s.graceMinutes) * time.Minute)

	if !nowLocal.After(graceLimit) {
		return attendance.StatusPresent, 0
	}
	return attendance.StatusLate, int(math.Floor(nowLocal.Sub(scheduledIn).Minutes()))
}

func (s *AttendanceServiceImpl) timeIn(ctx context.Context, employeeID string, lat, long *float64) (attendance.Attendance, error) {
	nowLocal, date := s.today()

	_, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err == nil {
		return attendance.Attendance{}, attendance.ErrAlreadyTimedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	status, lateMinutes := s.lateness(nowLocal)
	timeIn := nowLocal.UTC()

	return s.AttendanceRepository.Create(ctx, attendance.Attendance{
		EmployeeID:  employeeID,
		Date:        date,
		TimeIn:      &timeIn,
		Status:      status,
		LateMinutes: lateMinutes,
		TimeInLat:   lat,
		TimeInLong:  long,
	})
}

// TimeIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TimeIn(ctx context.Context, req attendance.TimeInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created, err := s.timeIn(ctx, claims.EmployeeID, req.Latitude, req.Longitude)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(created), nil
}

// TimeOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TimeOut(ctx context.Context, req attendance.TimeOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowLocal, date := s.today()
	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, claims.EmployeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotTimedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record.TimeIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotTimedIn
	}
	if record.TimeOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyTimedOut
	}

	timeOut := nowLocal.UTC()
	record.TimeOut = &timeOut
	record.TimeOutLat = req.Latitude
	record.TimeOutLong = req.Longitude

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.AttendanceRepository.GetByID(ctx, record.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToResponse(updated), nil
}

// GenerateQR implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GenerateQR(ctx context.Context) (attendance.QRCodeResponse, error) {
	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.QRCodeResponse{}, err
	}

	_, date := s.today()
	payload := qrcode.Payload(claims.EmployeeID, date)
	image, err := qrcode.EncodeBase64PNG(payload)
	if err != nil {
		return attendance.QRCodeResponse{}, err
	}

	return attendance.QRCodeResponse{Payload: payload, Image: image}, nil
}

// QRCheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) QRCheckIn(ctx context.Context, req attendance.QRCheckInRequest) (attendance.QRCheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.QRCheckInResponse{}, err
	}

	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.QRCheckInResponse{}, err
	}

	employeeID, qrDate, err := qrcode.ParsePayload(req.QRData)
	if err != nil {
		return attendance.QRCheckInResponse{}, attendance.ErrInvalidQRCode
	}
	if employeeID != claims.EmployeeID {
		return attendance.QRCheckInResponse{}, attendance.ErrQRCodeNotYours
	}
	_, date := s.today()
	if !qrDate.Equal(date) {
		return attendance.QRCheckInResponse{}, attendance.ErrQRCodeExpired
	}

	created, err := s.timeIn(ctx, employeeID, req.Latitude, req.Longitude)
	if errors.Is(err, attendance.ErrAlreadyTimedIn) {
		existing, getErr := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
		if getErr != nil {
			return attendance.QRCheckInResponse{}, getErr
		}
		return attendance.QRCheckInResponse{
			Message:    "Already timed in today",
			Attendance: attendance.ToResponse(existing),
		}, nil
	}
	if err != nil {
		return attendance.QRCheckInResponse{}, err
	}

	return attendance.QRCheckInResponse{
		Message:    "Time in recorded",
		Attendance: attendance.ToResponse(created),
	}, nil
}

func (s *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  pagination.TotalPages(total, filter.Limit),
		Showing:     pagination.Showing(filter.Page, filter.Limit, total),
		Attendances: responses,
	}, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter.EmployeeID = &claims.EmployeeID
	return s.list(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if !claims.Can(user.PermissionAttendanceViewAll) {
		return attendance.ListAttendanceResponse{}, user.ErrInsufficientPermissions
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	return s.list(ctx, filter)
}

// ExportMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportMyAttendance(ctx context.Context, filter attendance.AttendanceFilter, format export.Format) (export.File, error) {
	claims, err := s.employeeClaims(ctx)
	if err != nil {
		return export.File{}, err
	}
	if err := filter.Validate(); err != nil {
		return export.File{}, err
	}

	filter.EmployeeID = &claims.EmployeeID
	filter.SortBy = "date"
	filter.SortOrder = "asc"
	filter.Limit = 0

	records, _, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return export.File{}, err
	}

	rows := make([]attendance.ExportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, attendance.ToExportRow(r))
	}

	_, today := s.today()
	baseName := "attendance_" + today.Format("20060102")

	switch format {
	case export.FormatCSV:
		return export.CSV(baseName, rows)
	case export.FormatExcel:
		sheet := export.Sheet{
			Name:    "Attendance",
			Title:   "Attendance Report",
			Headers: []string{"Date", "Time In", "Time Out", "Status", "Late Minutes"},
		}
		for _, r := range rows {
			sheet.Rows = append(sheet.Rows, []interface{}{r.Date, r.TimeIn, r.TimeOut, r.Status, r.LateMinutes})
		}
		return export.Excel(baseName, sheet)
	}
	return export.File{}, fmt.Errorf("%w: %s", export.ErrUnsupportedFormat, format)
}

// previousWorkingDay steps back from date over Saturday and Sunday.
func previousWorkingDay(date time.Time) time.Time {
	d := date.AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// MarkAbsentEmployees implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAbsentEmployees(ctx context.Context) error {
	_, today := s.today()
	day := previousWorkingDay(today)

	marked, err := s.AttendanceRepository.MarkAbsent(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees: %w", err)
	}

	slog.Info("Marked absent employees", "date", day.Format("2006-01-02"), "count", marked)
	return nil
}
