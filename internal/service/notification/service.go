package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terralogix/hr-backend-go/internal/config"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/notification"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
	"github.com/terralogix/hr-backend-go/internal/pkg/push"
	"github.com/terralogix/hr-backend-go/internal/pkg/sse"
)

const (
	EventNotification = "notification"

	defaultFlushInterval = 2 * time.Second
	flushTimeout         = 30 * time.Second
)

type service struct {
	repo         notification.Repository
	tokens       notification.PushTokenRepository
	hub          *sse.Hub
	sender       push.Sender
	auditService audit.Service
	cfg          config.NotificationConfig

	flushInterval time.Duration
	queue         chan notification.CreateNotificationRequest
	wg            sync.WaitGroup
	stopCh        chan struct{}
	stopOnce      sync.Once
	now           func() time.Time
}

// NewNotificationService starts cfg.Workers background workers that batch
// queued notifications into the database, the SSE hub and Expo push.
func NewNotificationService(
	repo notification.Repository,
	tokens notification.PushTokenRepository,
	hub *sse.Hub,
	sender push.Sender,
	auditService audit.Service,
	cfg config.NotificationConfig,
) notification.Service {
	return newService(repo, tokens, hub, sender, auditService, cfg, defaultFlushInterval)
}

func newService(
	repo notification.Repository,
	tokens notification.PushTokenRepository,
	hub *sse.Hub,
	sender push.Sender,
	auditService audit.Service,
	cfg config.NotificationConfig,
	flushInterval time.Duration,
) *service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:          repo,
		tokens:        tokens,
		hub:           hub,
		sender:        sender,
		auditService:  auditService,
		cfg:           cfg,
		flushInterval: flushInterval,
		queue:         make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh:        make(chan struct{}),
		now:           time.Now,
	}

	for i := 0; i < cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.Workers, "batch_size", cfg.BatchSize, "flush_interval", flushInterval)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.cfg.BatchSize)
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()

		s.deliver(ctx, id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.cfg.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what is already queued before exiting
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					if len(batch) >= s.cfg.BatchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *service) build(req notification.CreateNotificationRequest) notification.Notification {
	return notification.Notification{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Body:      req.Body,
		Link:      req.Link,
		Data:      req.Data,
		CreatedAt: s.now(),
	}
}

// deliver persists the batch, then fans each row out to SSE and push.
func (s *service) deliver(ctx context.Context, workerID int, reqs []notification.CreateNotificationRequest) {
	notifications := make([]notification.Notification, len(reqs))
	for i, req := range reqs {
		notifications[i] = s.build(req)
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("Failed to insert notification batch", "worker", workerID, "count", len(notifications), "error", err)
		return
	}
	slog.Debug("Inserted notifications", "worker", workerID, "count", len(notifications))

	for _, n := range notifications {
		s.fanOut(ctx, n)
	}
}

func (s *service) fanOut(ctx context.Context, n notification.Notification) {
	s.hub.Publish(n.UserID, sse.Event{Name: EventNotification, Data: notification.ToResponse(n)})

	token, err := s.tokens.GetByUserID(ctx, n.UserID)
	if err != nil {
		if !errors.Is(err, notification.ErrPushTokenNotFound) {
			slog.Warn("Failed to load push token", "user_id", n.UserID, "error", err)
		}
		return
	}

	data := map[string]interface{}{"notification_id": n.ID, "type": string(n.Type)}
	if n.Link != nil {
		data["link"] = *n.Link
	}
	if _, err := s.sender.Send(ctx, push.Message{To: token.Token, Title: n.Title, Body: n.Body, Data: data}); err != nil {
		slog.Warn("Failed to send push notification", "user_id", n.UserID, "error", err)
	}
}

// QueueNotification hands req to the workers; when the queue is full the
// notification is written synchronously instead.
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return s.directInsert(ctx, req)
	}
}

func (s *service) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, req := range reqs {
		if err := s.QueueNotification(ctx, req); err != nil {
			slog.Warn("Failed to queue notification", "user_id", req.UserID, "error", err)
		}
	}
	return nil
}

func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := s.build(req)
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.fanOut(ctx, n)
	return nil
}

func (s *service) List(ctx context.Context, filter notification.ListFilter) (notification.ListNotificationResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return notification.ListNotificationResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return notification.ListNotificationResponse{}, err
	}

	notifications, total, err := s.repo.List(ctx, claims.UserID, filter)
	if err != nil {
		return notification.ListNotificationResponse{}, err
	}
	unread, err := s.repo.UnreadCount(ctx, claims.UserID)
	if err != nil {
		return notification.ListNotificationResponse{}, err
	}

	responses := make([]notification.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notification.ToResponse(n))
	}

	return notification.ListNotificationResponse{
		TotalCount:    total,
		UnreadCount:   unread,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    pagination.TotalPages(total, filter.Limit),
		Notifications: responses,
	}, nil
}

func (s *service) UnreadCount(ctx context.Context) (int64, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.UnreadCount(ctx, claims.UserID)
}

func (s *service) MarkAsRead(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, id, claims.UserID)
}

func (s *service) MarkAllAsRead(ctx context.Context) (int64, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllAsRead(ctx, claims.UserID)
}

func (s *service) Delete(ctx context.Context, id string) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, claims.UserID)
}

func (s *service) SavePushToken(ctx context.Context, req notification.SavePushTokenRequest) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.tokens.Upsert(ctx, notification.PushToken{
		UserID:    claims.UserID,
		Token:     req.Token,
		UpdatedAt: s.now(),
	})
}

// SendPush delivers an ad-hoc push message. Expo failures are reported in
// the response rather than as an error.
func (s *service) SendPush(ctx context.Context, req notification.SendPushRequest) (notification.SendPushResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return notification.SendPushResponse{}, err
	}
	if !claims.Can(user.PermissionPushSend) {
		return notification.SendPushResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return notification.SendPushResponse{}, err
	}

	token, err := s.tokens.GetByUserID(ctx, req.UserID)
	if err != nil {
		return notification.SendPushResponse{}, err
	}

	result, err := s.sender.Send(ctx, push.Message{To: token.Token, Title: req.Title, Body: req.Body, Data: req.Data})
	if err != nil {
		slog.Warn("Ad-hoc push failed", "user_id", req.UserID, "error", err)
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionPushSent, "Push sent to user "+req.UserID+": "+req.Title)

	return notification.SendPushResponse{OK: result.OK, Raw: result.Raw}, nil
}

func (s *service) Subscribe(ctx context.Context, userID string) (<-chan notification.NotificationResponse, func()) {
	events, cancel := s.hub.Subscribe(userID)

	out := make(chan notification.NotificationResponse, 10)
	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- resp:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cancel
}

// Stop flushes queued notifications and waits for the workers to exit.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
