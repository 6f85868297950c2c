package leave

import "time"

type LeaveType struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type LeaveRequest struct {
	ID            string
	EmployeeID    string
	LeaveTypeID   *string
	StartDate     time.Time
	EndDate       time.Time
	Reason        string
	Status        Status
	Remarks       *string
	DecidedBy     *string
	DateRequested time.Time
	DateDecided   *time.Time

	// Relationships (for responses)
	LeaveTypeName *string
	EmployeeName  *string
	UserID        *string
}

// Dates lists every calendar day in [StartDate, EndDate].
func (r LeaveRequest) Dates() []time.Time {
	var dates []time.Time
	for d := r.StartDate; !d.After(r.EndDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
