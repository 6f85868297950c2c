package leave

import "context"

type LeaveService interface {
	// Type
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetLeaveType(ctx context.Context, id string) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	DeleteLeaveType(ctx context.Context, id string) error
	// Request
	CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	DeleteLeaveRequest(ctx context.Context, id string) error
	ApproveLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	RejectLeaveRequest(ctx context.Context, id string, remarks *string) (LeaveRequestResponse, error)
	DecideLeaveRequest(ctx context.Context, req DecideLeaveRequest) (LeaveRequestResponse, error)
}
