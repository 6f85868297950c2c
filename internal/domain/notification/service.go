package notification

import "context"

// Service defines the notification service interface
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	List(ctx context.Context, filter ListFilter) (ListNotificationResponse, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error

	// Push
	SavePushToken(ctx context.Context, req SavePushTokenRequest) error
	SendPush(ctx context.Context, req SendPushRequest) (SendPushResponse, error)

	// Subscribe streams the caller's notifications until ctx is done
	Subscribe(ctx context.Context, userID string) (<-chan NotificationResponse, func())

	// Lifecycle
	Stop()
}
