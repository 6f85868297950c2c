package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/leave"
	"github.com/terralogix/hr-backend-go/internal/domain/notification"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type LeaveServiceImpl struct {
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	attendance.AttendanceRepository
	transactor   database.Transactor
	auditService audit.Service
	notifier     notification.Service
	now          func() time.Time
}

func NewLeaveService(
	leaveTypeRepo leave.LeaveTypeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	transactor database.Transactor,
	auditService audit.Service,
	notifier notification.Service,
) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveTypeRepository:    leaveTypeRepo,
		LeaveRequestRepository: leaveRequestRepo,
		AttendanceRepository:   attendanceRepo,
		transactor:             transactor,
		auditService:           auditService,
		notifier:               notifier,
		now:                    time.Now,
	}
}

func requirePermission(ctx context.Context, permission user.Permission) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(permission) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// CreateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionLeaveManageTypes); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	exists, err := l.LeaveTypeRepository.ExistsByName(ctx, req.Name, "")
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if exists {
		return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNameExists
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.ToLeaveTypeResponse(created), nil
}

// UpdateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if _, err := requirePermission(ctx, user.PermissionLeaveManageTypes); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	if req.Name != nil && *req.Name != lt.Name {
		exists, err := l.LeaveTypeRepository.ExistsByName(ctx, *req.Name, lt.ID)
		if err != nil {
			return leave.LeaveTypeResponse{}, err
		}
		if exists {
			return leave.LeaveTypeResponse{}, leave.ErrLeaveTypeNameExists
		}
		lt.Name = *req.Name
	}
	if req.Description != nil {
		lt.Description = req.Description
	}

	if err := l.LeaveTypeRepository.Update(ctx, lt); err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.ToLeaveTypeResponse(lt), nil
}

// GetLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveType(ctx context.Context, id string) (leave.LeaveTypeResponse, error) {
	lt, err := l.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveTypeResponse{}, err
	}
	return leave.ToLeaveTypeResponse(lt), nil
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, lt := range types {
		responses = append(responses, leave.ToLeaveTypeResponse(lt))
	}
	return responses, nil
}

// DeleteLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) DeleteLeaveType(ctx context.Context, id string) error {
	if _, err := requirePermission(ctx, user.PermissionLeaveManageTypes); err != nil {
		return err
	}
	return l.LeaveTypeRepository.Delete(ctx, id)
}

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !claims.HasEmployee() {
		return leave.LeaveRequestResponse{}, leave.ErrNoEmployeeRecord
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if req.LeaveTypeID != nil {
		if _, err := l.LeaveTypeRepository.GetByID(ctx, *req.LeaveTypeID); err != nil {
			return leave.LeaveRequestResponse{}, err
		}
	}

	start, end := req.Period()
	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:  claims.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToLeaveRequestResponse(created), nil
}

// ListLeaveRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	if !claims.Can(user.PermissionLeaveViewAll) {
		if !claims.HasEmployee() {
			return leave.ListLeaveRequestResponse{}, leave.ErrNoEmployeeRecord
		}
		filter.EmployeeID = &claims.EmployeeID
	}

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.ToLeaveRequestResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    pagination.TotalPages(total, filter.Limit),
		Showing:       pagination.Showing(filter.Page, filter.Limit, total),
		LeaveRequests: responses,
	}, nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if !claims.Can(user.PermissionLeaveViewAll) && request.EmployeeID != claims.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestForbidden
	}
	return leave.ToLeaveRequestResponse(request), nil
}

// DeleteLeaveRequest implements leave.LeaveService.
// Owners may withdraw their own pending requests; approvers may remove any pending request.
func (l *LeaveServiceImpl) DeleteLeaveRequest(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if request.EmployeeID != claims.EmployeeID && !claims.Can(user.PermissionLeaveApprove) {
		return leave.ErrLeaveRequestForbidden
	}
	if request.Status != leave.StatusPending {
		return leave.ErrLeaveRequestAlreadyProcessed
	}

	return l.LeaveRequestRepository.Delete(ctx, id)
}

// ApproveLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return l.DecideLeaveRequest(ctx, leave.DecideLeaveRequest{ID: id, Status: leave.StatusApproved})
}

// RejectLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectLeaveRequest(ctx context.Context, id string, remarks *string) (leave.LeaveRequestResponse, error) {
	return l.DecideLeaveRequest(ctx, leave.DecideLeaveRequest{ID: id, Status: leave.StatusRejected, Remarks: remarks})
}

// DecideLeaveRequest implements leave.LeaveService. Approval and the OnLeave
// attendance rows it produces are committed together.
func (l *LeaveServiceImpl) DecideLeaveRequest(ctx context.Context, req leave.DecideLeaveRequest) (leave.LeaveRequestResponse, error) {
	claims, err := requirePermission(ctx, user.PermissionLeaveApprove)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var decided leave.LeaveRequest
	err = l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := l.LeaveRequestRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		if err := l.LeaveRequestRepository.Decide(ctx, req.ID, req.Status, claims.UserID, req.Remarks, l.now()); err != nil {
			return err
		}

		if req.Status == leave.StatusApproved {
			if _, err := l.AttendanceRepository.CreateOnLeave(ctx, request.EmployeeID, request.Dates()); err != nil {
				return fmt.Errorf("failed to record leave attendance: %w", err)
			}
		}

		decided, err = l.LeaveRequestRepository.GetByID(ctx, req.ID)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	action, notifType, verb := audit.ActionLeaveApproved, notification.TypeLeaveApproved, "approved"
	if decided.Status == leave.StatusRejected {
		action, notifType, verb = audit.ActionLeaveRejected, notification.TypeLeaveRejected, "rejected"
	}

	name := ""
	if decided.EmployeeName != nil {
		name = *decided.EmployeeName
	}
	l.auditService.Log(ctx, &claims.UserID, action, fmt.Sprintf(
		"Leave request %s for %s (%s to %s) %s",
		decided.ID, name, decided.StartDate.Format("2006-01-02"), decided.EndDate.Format("2006-01-02"), verb,
	))

	if decided.UserID != nil {
		link := "/leaves/" + decided.ID
		body := fmt.Sprintf("Your leave from %s to %s was %s.",
			decided.StartDate.Format("Jan 2"), decided.EndDate.Format("Jan 2, 2006"), verb)
		if decided.Remarks != nil && *decided.Remarks != "" {
			body += " Remarks: " + *decided.Remarks
		}
		err := l.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
			UserID: *decided.UserID,
			Type:   notifType,
			Title:  "Leave request " + verb,
			Body:   body,
			Link:   &link,
			Data:   map[string]interface{}{"leave_request_id": decided.ID, "status": string(decided.Status)},
		})
		if err != nil {
			slog.Warn("Failed to queue leave notification", "leave_request_id", decided.ID, "error", err)
		}
	}

	return leave.ToLeaveRequestResponse(decided), nil
}
