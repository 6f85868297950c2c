package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

type AuditServiceImpl struct {
	audit.Repository
	now func() time.Time
}

func NewAuditService(repo audit.Repository) audit.Service {
	return &AuditServiceImpl{Repository: repo, now: time.Now}
}

// Log implements audit.Service. A failed write never fails the caller.
func (s *AuditServiceImpl) Log(ctx context.Context, userID *string, action, details string) {
	err := s.Repository.Create(ctx, audit.Log{
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: s.now(),
	})
	if err != nil {
		slog.Error("Failed to write audit log", "action", action, "error", err)
	}
}

// List implements audit.Service.
func (s *AuditServiceImpl) List(ctx context.Context, filter audit.Filter) (audit.ListResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return audit.ListResponse{}, err
	}
	if !claims.Can(user.PermissionAuditView) {
		return audit.ListResponse{}, user.ErrInsufficientPermissions
	}
	if err := filter.Validate(); err != nil {
		return audit.ListResponse{}, err
	}

	logs, total, err := s.Repository.List(ctx, filter)
	if err != nil {
		return audit.ListResponse{}, err
	}

	responses := make([]audit.LogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, audit.ToResponse(l))
	}

	return audit.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Logs:       responses,
	}, nil
}
