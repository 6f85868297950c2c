package announcement

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/announcement"
	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/notification"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
)

type fakeRepository struct {
	items map[string]announcement.Announcement
}

func (f *fakeRepository) Create(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	a.ID = "ann-1"
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id string) (announcement.Announcement, error) {
	a, ok := f.items[id]
	if !ok {
		return announcement.Announcement{}, announcement.ErrAnnouncementNotFound
	}
	return a, nil
}

func (f *fakeRepository) List(ctx context.Context, page, limit int) ([]announcement.Announcement, int64, error) {
	var out []announcement.Announcement
	for _, a := range f.items {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) Update(ctx context.Context, a announcement.Announcement) error {
	f.items[a.ID] = a
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return announcement.ErrAnnouncementNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeUserRepository struct {
	user.UserRepository
}

func (fakeUserRepository) ListIDs(ctx context.Context) ([]string, error) {
	return []string{"u-1", "u-2", "u-3"}, nil
}

type fakeAudit struct {
	audit.Service
	actions []string
}

func (f *fakeAudit) Log(ctx context.Context, userID *string, action, details string) {
	f.actions = append(f.actions, action)
}

type fakeNotifier struct {
	notification.Service
	queued []notification.CreateNotificationRequest
}

func (f *fakeNotifier) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	f.queued = append(f.queued, reqs...)
	return nil
}

func hrContext() context.Context {
	return jwt.NewContext(context.Background(), jwt.Claims{UserID: "hr-1", Role: user.RoleHR})
}

func TestCreate_BroadcastsToAllUsers(t *testing.T) {
	repo := &fakeRepository{items: map[string]announcement.Announcement{}}
	auditSvc := &fakeAudit{}
	notifier := &fakeNotifier{}
	svc := NewAnnouncementService(repo, fakeUserRepository{}, auditSvc, notifier)

	resp, err := svc.Create(hrContext(), announcement.CreateRequest{
		Title: " Office closed ",
		Body:  strings.Repeat("a", 200),
	})
	require.NoError(t, err)

	assert.Equal(t, "Office closed", resp.Title)
	assert.Equal(t, []string{audit.ActionAnnouncementPost}, auditSvc.actions)
	require.Len(t, notifier.queued, 3)
	assert.Equal(t, notification.TypeAnnouncement, notifier.queued[0].Type)
	assert.Equal(t, previewLen+1, len([]rune(notifier.queued[0].Body)))
}

func TestCreate_RequiresPermission(t *testing.T) {
	svc := NewAnnouncementService(&fakeRepository{items: map[string]announcement.Announcement{}}, fakeUserRepository{}, &fakeAudit{}, &fakeNotifier{})
	staff := jwt.NewContext(context.Background(), jwt.Claims{UserID: "s", Role: user.RoleStaff})

	_, err := svc.Create(staff, announcement.CreateRequest{Title: "x", Body: "y"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)

	_, err = svc.Create(hrContext(), announcement.CreateRequest{Title: "", Body: "y"})
	assert.Error(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := &fakeRepository{items: map[string]announcement.Announcement{
		"ann-1": {ID: "ann-1", Title: "Old", Body: "Body"},
	}}
	svc := NewAnnouncementService(repo, fakeUserRepository{}, &fakeAudit{}, &fakeNotifier{})

	title := "New"
	resp, err := svc.Update(hrContext(), announcement.UpdateRequest{ID: "ann-1", Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", resp.Title)
	assert.Equal(t, "Body", resp.Body)

	list, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, list.Limit)
	assert.Len(t, list.Announcements, 1)

	require.NoError(t, svc.Delete(hrContext(), "ann-1"))
	assert.ErrorIs(t, svc.Delete(hrContext(), "ann-1"), announcement.ErrAnnouncementNotFound)
}
