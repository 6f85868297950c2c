package notification

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

// CreateNotificationRequest is queued by other services; it is never bound from HTTP.
type CreateNotificationRequest struct {
	UserID string
	Type   NotificationType
	Title  string
	Body   string
	Link   *string
	Data   map[string]interface{}
}

type ListFilter struct {
	UnreadOnly bool
	Page       int
	Limit      int
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	return errs.Err()
}

type SavePushTokenRequest struct {
	Token string `json:"expo_push_token" validate:"required"`
}

func (r *SavePushTokenRequest) Validate() error {
	r.Token = strings.TrimSpace(r.Token)
	if err := validator.Struct(r); err != nil {
		return err
	}
	if !IsExpoPushToken(r.Token) {
		var errs validator.ValidationErrors
		errs.Add("expo_push_token", ErrInvalidPushToken.Error())
		return errs
	}
	return nil
}

// IsExpoPushToken accepts ExponentPushToken[...] and ExpoPushToken[...] tokens.
func IsExpoPushToken(token string) bool {
	for _, prefix := range []string{"ExponentPushToken[", "ExpoPushToken["} {
		if strings.HasPrefix(token, prefix) && strings.HasSuffix(token, "]") && len(token) > len(prefix)+1 {
			return true
		}
	}
	return false
}

type SendPushRequest struct {
	UserID string                 `json:"user_id" validate:"required,uuid"`
	Title  string                 `json:"title"`
	Body   string                 `json:"body" validate:"required"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

func (r *SendPushRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		r.Title = "Notification"
	}
	return validator.Struct(r)
}

type SendPushResponse struct {
	OK  bool            `json:"ok"`
	Raw json.RawMessage `json:"raw"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        string                 `json:"id"`
	Type      NotificationType       `json:"type"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Link      *string                `json:"link,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func ToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Link:      n.Link,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

type ListNotificationResponse struct {
	TotalCount    int64                  `json:"total_count"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"total_pages"`
	Notifications []NotificationResponse `json:"notifications"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

// SSETokenResponse represents the SSE token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
