package attendance

import (
	"context"

	"github.com/terralogix/hr-backend-go/internal/pkg/export"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// TimeIn records the caller's arrival for today
	TimeIn(ctx context.Context, req TimeInRequest) (AttendanceResponse, error)

	// TimeOut closes the caller's open record for today
	TimeOut(ctx context.Context, req TimeOutRequest) (AttendanceResponse, error)

	GenerateQR(ctx context.Context) (QRCodeResponse, error)
	QRCheckIn(ctx context.Context, req QRCheckInRequest) (QRCheckInResponse, error)

	GetMyAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// ExportMyAttendance renders the caller's records in the given format
	ExportMyAttendance(ctx context.Context, filter AttendanceFilter, format export.Format) (export.File, error)

	// MarkAbsentEmployees is run by the scheduler for the previous working day
	MarkAbsentEmployees(ctx context.Context) error
}
