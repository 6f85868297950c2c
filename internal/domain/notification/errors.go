package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPushTokenNotFound    = errors.New("user has no push token")
	ErrInvalidPushToken     = errors.New("invalid expo push token")
	ErrQueueFull            = errors.New("notification queue is full")
)
