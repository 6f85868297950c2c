package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
	StatusOnLeave Status = "OnLeave"
)

var ValidStatuses = []string{string(StatusPresent), string(StatusAbsent), string(StatusLate), string(StatusOnLeave)}

type Attendance struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	TimeIn      *time.Time
	TimeOut     *time.Time
	Status      Status
	LateMinutes int
	TimeInLat   *float64
	TimeInLong  *float64
	TimeOutLat  *float64
	TimeOutLong *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Join
	EmployeeName     *string
	EmployeePosition *string
}

// WorkedHours returns the hours between time in and time out, or nil while
// the session is still open.
func (a Attendance) WorkedHours() *float64 {
	if a.TimeIn == nil || a.TimeOut == nil {
		return nil
	}
	h := a.TimeOut.Sub(*a.TimeIn).Hours()
	h = float64(int(h*100+0.5)) / 100
	return &h
}

// TrendPoint is a single day of the attendance trend.
type TrendPoint struct {
	Date  time.Time
	Count int
}
