package notification

import "context"

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, n Notification) error
	CreateBatch(ctx context.Context, notifications []Notification) error
	List(ctx context.Context, userID string, filter ListFilter) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// MarkAsRead returns ErrNotificationNotFound when no row of the user matched.
	MarkAsRead(ctx context.Context, id string, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string, userID string) error
}

type PushTokenRepository interface {
	Upsert(ctx context.Context, t PushToken) error
	GetByUserID(ctx context.Context, userID string) (PushToken, error)
}
