package announcement

import (
	"context"
	"log/slog"

	"github.com/terralogix/hr-backend-go/internal/domain/announcement"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/notification"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
)

const (
	defaultLimit = 20
	maxLimit     = 100
	previewLen   = 140
)

type AnnouncementServiceImpl struct {
	announcement.Repository
	userRepo     user.UserRepository
	auditService audit.Service
	notifier     notification.Service
}

func NewAnnouncementService(
	repo announcement.Repository,
	userRepo user.UserRepository,
	auditService audit.Service,
	notifier notification.Service,
) announcement.Service {
	return &AnnouncementServiceImpl{
		Repository:   repo,
		userRepo:     userRepo,
		auditService: auditService,
		notifier:     notifier,
	}
}

func requireManage(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(user.PermissionAnnouncementManage) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// Create implements announcement.Service. Every user receives a notification.
func (s *AnnouncementServiceImpl) Create(ctx context.Context, req announcement.CreateRequest) (announcement.Response, error) {
	claims, err := requireManage(ctx)
	if err != nil {
		return announcement.Response{}, err
	}
	if err := req.Validate(); err != nil {
		return announcement.Response{}, err
	}

	created, err := s.Repository.Create(ctx, announcement.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		CreatedBy: &claims.UserID,
	})
	if err != nil {
		return announcement.Response{}, err
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionAnnouncementPost, "Announcement posted: "+created.Title)
	s.broadcast(ctx, created)

	return announcement.ToResponse(created), nil
}

func (s *AnnouncementServiceImpl) broadcast(ctx context.Context, a announcement.Announcement) {
	userIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		slog.Warn("Failed to load announcement recipients", "announcement_id", a.ID, "error", err)
		return
	}

	link := "/announcements/" + a.ID
	body := a.Body
	if r := []rune(body); len(r) > previewLen {
		body = string(r[:previewLen]) + "…"
	}

	reqs := make([]notification.CreateNotificationRequest, 0, len(userIDs))
	for _, id := range userIDs {
		reqs = append(reqs, notification.CreateNotificationRequest{
			UserID: id,
			Type:   notification.TypeAnnouncement,
			Title:  a.Title,
			Body:   body,
			Link:   &link,
			Data:   map[string]interface{}{"announcement_id": a.ID},
		})
	}
	if err := s.notifier.QueueBulkNotification(ctx, reqs); err != nil {
		slog.Warn("Failed to queue announcement notifications", "announcement_id", a.ID, "error", err)
	}
}

// Get implements announcement.Service.
func (s *AnnouncementServiceImpl) Get(ctx context.Context, id string) (announcement.Response, error) {
	a, err := s.Repository.GetByID(ctx, id)
	if err != nil {
		return announcement.Response{}, err
	}
	return announcement.ToResponse(a), nil
}

// List implements announcement.Service.
func (s *AnnouncementServiceImpl) List(ctx context.Context, page, limit int) (announcement.ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	items, total, err := s.Repository.List(ctx, page, limit)
	if err != nil {
		return announcement.ListResponse{}, err
	}

	responses := make([]announcement.Response, 0, len(items))
	for _, a := range items {
		responses = append(responses, announcement.ToResponse(a))
	}

	return announcement.ListResponse{
		TotalCount:    total,
		Page:          page,
		Limit:         limit,
		TotalPages:    pagination.TotalPages(total, limit),
		Announcements: responses,
	}, nil
}

// Update implements announcement.Service.
func (s *AnnouncementServiceImpl) Update(ctx context.Context, req announcement.UpdateRequest) (announcement.Response, error) {
	if _, err := requireManage(ctx); err != nil {
		return announcement.Response{}, err
	}
	if err := req.Validate(); err != nil {
		return announcement.Response{}, err
	}

	a, err := s.Repository.GetByID(ctx, req.ID)
	if err != nil {
		return announcement.Response{}, err
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Body != nil {
		a.Body = *req.Body
	}

	if err := s.Repository.Update(ctx, a); err != nil {
		return announcement.Response{}, err
	}
	return s.Get(ctx, a.ID)
}

// Delete implements announcement.Service.
func (s *AnnouncementServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := requireManage(ctx); err != nil {
		return err
	}
	return s.Repository.Delete(ctx, id)
}
