package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	Update(ctx context.Context, a Attendance) error
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)

	// ListByEmployeeAndRange returns the records dated within [from, to], oldest first.
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	// List pages through records matching filter; a zero Limit returns every row.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// MarkAbsent inserts Absent records dated date for every employee hired
	// on or before date that has no record for it.
	MarkAbsent(ctx context.Context, date time.Time) (int64, error)

	// CreateOnLeave inserts OnLeave records for the given dates, skipping
	// dates that already have a record.
	CreateOnLeave(ctx context.Context, employeeID string, dates []time.Time) (int64, error)

	// Trend counts Present and Late records per day in [from, to].
	Trend(ctx context.Context, from, to time.Time) ([]TrendPoint, error)
}
