package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/config"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/notification"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/push"
	"github.com/terralogix/hr-backend-go/internal/pkg/sse"
)

type fakeRepository struct {
	notification.Repository
	batches  [][]notification.Notification
	listUser string
}

func (f *fakeRepository) CreateBatch(ctx context.Context, ns []notification.Notification) error {
	f.batches = append(f.batches, append([]notification.Notification(nil), ns...))
	return nil
}

func (f *fakeRepository) List(ctx context.Context, userID string, filter notification.ListFilter) ([]notification.Notification, int64, error) {
	f.listUser = userID
	return []notification.Notification{{ID: "n-1", UserID: userID, Title: "Hello"}}, 1, nil
}

func (f *fakeRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return 1, nil
}

type fakeTokens struct {
	notification.PushTokenRepository
	tokens map[string]string
}

func (f *fakeTokens) GetByUserID(ctx context.Context, userID string) (notification.PushToken, error) {
	token, ok := f.tokens[userID]
	if !ok {
		return notification.PushToken{}, notification.ErrPushTokenNotFound
	}
	return notification.PushToken{UserID: userID, Token: token}, nil
}

func (f *fakeTokens) Upsert(ctx context.Context, t notification.PushToken) error {
	f.tokens[t.UserID] = t.Token
	return nil
}

type fakeSender struct {
	sent []push.Message
}

func (f *fakeSender) Send(ctx context.Context, msg push.Message) (push.Result, error) {
	f.sent = append(f.sent, msg)
	return push.Result{OK: true, Raw: json.RawMessage(`{"data":{"status":"ok"}}`)}, nil
}

type fakeAudit struct {
	audit.Service
	actions []string
}

func (f *fakeAudit) Log(ctx context.Context, userID *string, action, details string) {
	f.actions = append(f.actions, action)
}

type fixture struct {
	svc    *service
	repo   *fakeRepository
	tokens *fakeTokens
	sender *fakeSender
	audit  *fakeAudit
	hub    *sse.Hub
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		repo:   &fakeRepository{},
		tokens: &fakeTokens{tokens: map[string]string{"user-1": "ExponentPushToken[abc]"}},
		sender: &fakeSender{},
		audit:  &fakeAudit{},
		hub:    sse.NewHub(),
	}
	f.svc = newService(f.repo, f.tokens, f.hub, f.sender, f.audit,
		config.NotificationConfig{Workers: 1, QueueSize: 10, BatchSize: 50}, time.Hour)
	t.Cleanup(f.svc.Stop)
	return f
}

func userContext(userID string, role user.Role) context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: userID, Role: role})
}

func TestQueueNotification_FlushedOnStop(t *testing.T) {
	f := newFixture(t)
	events, cancel := f.hub.Subscribe("user-1")
	defer cancel()

	ctx := context.Background()
	require.NoError(t, f.svc.QueueNotification(ctx, notification.CreateNotificationRequest{
		UserID: "user-1", Type: notification.TypePayslipIssued, Title: "Payslip issued", Body: "Net pay 4,000.00",
	}))
	require.NoError(t, f.svc.QueueNotification(ctx, notification.CreateNotificationRequest{
		UserID: "user-2", Type: notification.TypeAnnouncement, Title: "Town hall",
	}))

	f.svc.Stop()

	var total int
	for _, b := range f.repo.batches {
		total += len(b)
	}
	assert.Equal(t, 2, total)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "ExponentPushToken[abc]", f.sender.sent[0].To)
	assert.Equal(t, "Payslip issued", f.sender.sent[0].Title)

	select {
	case event := <-events:
		assert.Equal(t, EventNotification, event.Name)
		resp, ok := event.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, "Payslip issued", resp.Title)
	default:
		t.Fatal("expected an SSE event for user-1")
	}
}

func TestStop_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.svc.Stop()
	f.svc.Stop()
}

func TestList_ScopedToCaller(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.List(userContext("user-9", user.RoleStaff), notification.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "user-9", f.repo.listUser)
	assert.Equal(t, int64(1), resp.UnreadCount)
	assert.Equal(t, 20, resp.Limit)
	assert.Len(t, resp.Notifications, 1)
}

func TestSavePushToken(t *testing.T) {
	f := newFixture(t)
	ctx := userContext("user-3", user.RoleStaff)

	err := f.svc.SavePushToken(ctx, notification.SavePushTokenRequest{Token: "not-a-token"})
	assert.Error(t, err)

	require.NoError(t, f.svc.SavePushToken(ctx, notification.SavePushTokenRequest{Token: " ExpoPushToken[xyz] "}))
	assert.Equal(t, "ExpoPushToken[xyz]", f.tokens.tokens["user-3"])
}

func TestSendPush(t *testing.T) {
	f := newFixture(t)
	admin := userContext("admin-1", user.RoleAdmin)

	_, err := f.svc.SendPush(userContext("user-1", user.RoleStaff), notification.SendPushRequest{
		UserID: "0190a8a4-0000-7000-8000-000000000001", Body: "hi",
	})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = f.svc.SendPush(admin, notification.SendPushRequest{
		UserID: "0190a8a4-0000-7000-8000-000000000001", Body: "hi",
	})
	assert.ErrorIs(t, err, notification.ErrPushTokenNotFound)

	f.tokens.tokens["0190a8a4-0000-7000-8000-000000000002"] = "ExponentPushToken[def]"
	resp, err := f.svc.SendPush(admin, notification.SendPushRequest{
		UserID: "0190a8a4-0000-7000-8000-000000000002", Body: "Please update your profile",
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "Notification", f.sender.sent[0].Title)
	assert.Equal(t, []string{audit.ActionPushSent}, f.audit.actions)
}

func TestSubscribe_ForwardsResponses(t *testing.T) {
	f := newFixture(t)
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	out, cancel := f.svc.Subscribe(ctx, "user-5")
	defer cancel()

	f.hub.Publish("user-5", sse.Event{Name: EventNotification, Data: notification.NotificationResponse{ID: "n-5"}})

	select {
	case resp := <-out:
		assert.Equal(t, "n-5", resp.ID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}
