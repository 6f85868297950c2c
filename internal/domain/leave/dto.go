package leave

import (
	"strings"
	"time"

	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type CreateLeaveTypeRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validator.Struct(r)
}

type UpdateLeaveTypeRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" {
			errs.Add("name", "name must not be empty")
		}
		if len(name) > 50 {
			errs.Add("name", "name must not exceed 50 characters")
		}
	}

	return errs.Err()
}

type LeaveTypeResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func ToLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{ID: t.ID, Name: t.Name, Description: t.Description}
}

type CreateLeaveRequestRequest struct {
	LeaveTypeID *string `json:"leave_type_id,omitempty" validate:"omitempty,uuid"`
	StartDate   string  `json:"start_date" validate:"required,date"`
	EndDate     string  `json:"end_date" validate:"required,date"`
	Reason      string  `json:"reason" validate:"required"`

	startDate time.Time
	endDate   time.Time
}

func (r *CreateLeaveRequestRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if err := validator.Struct(r); err != nil {
		return err
	}

	r.startDate, _ = validator.IsValidDate(r.StartDate)
	r.endDate, _ = validator.IsValidDate(r.EndDate)

	var errs validator.ValidationErrors
	if r.startDate.After(r.endDate) {
		errs.Add("end_date", "end_date must be on or after start_date")
	}
	return errs.Err()
}

// Period returns the parsed dates; valid only after Validate succeeded.
func (r *CreateLeaveRequestRequest) Period() (time.Time, time.Time) {
	return r.startDate, r.endDate
}

type DecideLeaveRequest struct {
	ID      string  `json:"-"`
	Status  Status  `json:"status" validate:"required,oneof=Approved Rejected"`
	Remarks *string `json:"remarks,omitempty"`
}

func (r *DecideLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveRequestFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *Status `json:"status,omitempty"`
	Search     *string `json:"search,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}
	if f.Status != nil && !validator.IsInSlice(string(*f.Status), []string{
		string(StatusPending), string(StatusApproved), string(StatusRejected),
	}) {
		errs.Add("status", "status must be one of: Pending, Approved, Rejected")
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	LeaveTypeID   *string `json:"leave_type_id,omitempty"`
	LeaveTypeName *string `json:"leave_type_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	Reason        string  `json:"reason"`
	Status        Status  `json:"status"`
	Remarks       *string `json:"remarks,omitempty"`
	DecidedBy     *string `json:"decided_by,omitempty"`
	DateRequested string  `json:"date_requested"`
	DateDecided   *string `json:"date_decided,omitempty"`
}

func ToLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.Format(dateLayout),
		EndDate:       r.EndDate.Format(dateLayout),
		Reason:        r.Reason,
		Status:        r.Status,
		Remarks:       r.Remarks,
		DecidedBy:     r.DecidedBy,
		DateRequested: r.DateRequested.Format(time.RFC3339),
	}
	if r.DateDecided != nil {
		s := r.DateDecided.Format(time.RFC3339)
		resp.DateDecided = &s
	}
	return resp
}

type ListLeaveRequestResponse struct {
	TotalCount    int64                  `json:"total_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Showing       string                 `json:"showing"`
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
}
