package leave

import (
	"context"
	"time"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// Decide moves a Pending request to status; it returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer Pending.
	Decide(ctx context.Context, id string, status Status, decidedBy string, remarks *string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountPending(ctx context.Context) (int64, error)
}
