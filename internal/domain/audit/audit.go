package audit

import (
	"context"
	"time"

	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

// Actions recorded by the services.
const (
	ActionPayslipCreated   = "payslip.create"
	ActionPayslipDeleted   = "payslip.delete"
	ActionLeaveApproved    = "leave.approve"
	ActionLeaveRejected    = "leave.reject"
	ActionUserDemoted      = "user.demote"
	ActionPasswordReset    = "user.reset_password"
	ActionInvitationSent   = "invitation.send"
	ActionEmployeeCreated  = "employee.create"
	ActionEmployeeDeleted  = "employee.delete"
	ActionPushSent         = "push.send"
	ActionAnnouncementPost = "announcement.create"
)

type Log struct {
	ID        string
	UserID    *string
	Action    string
	Details   string
	CreatedAt time.Time

	UserEmail *string
}

type Repository interface {
	Create(ctx context.Context, l Log) error
	List(ctx context.Context, filter Filter) ([]Log, int64, error)
}

type Service interface {
	// Log records an action; failures are logged and never returned
	Log(ctx context.Context, userID *string, action, details string)
	List(ctx context.Context, filter Filter) (ListResponse, error)
}

type Filter struct {
	Search *string // action or user email
	Page   int
	Limit  int
}

func (f *Filter) Validate() error {
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
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs.Add("limit", "limit must not exceed 200")
	}

	return errs.Err()
}

type LogResponse struct {
	ID        string  `json:"id"`
	UserID    *string `json:"user_id,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
	Action    string  `json:"action"`
	Details   string  `json:"details"`
	Timestamp string  `json:"timestamp"`
}

func ToResponse(l Log) LogResponse {
	return LogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		UserEmail: l.UserEmail,
		Action:    l.Action,
		Details:   l.Details,
		Timestamp: l.CreatedAt.Format(time.RFC3339),
	}
}

type ListResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Logs       []LogResponse `json:"logs"`
}
