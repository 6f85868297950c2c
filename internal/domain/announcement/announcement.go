package announcement

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

type Announcement struct {
	ID        string
	Title     string
	Body      string
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time

	AuthorEmail *string
}

type Repository interface {
	Create(ctx context.Context, a Announcement) (Announcement, error)
	GetByID(ctx context.Context, id string) (Announcement, error)
	List(ctx context.Context, page, limit int) ([]Announcement, int64, error)
	Update(ctx context.Context, a Announcement) error
	Delete(ctx context.Context, id string) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, page, limit int) (ListResponse, error)
	Update(ctx context.Context, req UpdateRequest) (Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Title string `json:"title" validate:"required,max=255"`
	Body  string `json:"body" validate:"required"`
}

func (r *CreateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Body = strings.TrimSpace(r.Body)
	return validator.Struct(r)
}

type UpdateRequest struct {
	ID    string  `json:"-"`
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs.Add("title", "title must not be empty")
	}
	if r.Title != nil && len(*r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	if r.Body != nil && validator.IsEmpty(*r.Body) {
		errs.Add("body", "body must not be empty")
	}
	return errs.Err()
}

type Response struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Body        string  `json:"body"`
	CreatedBy   *string `json:"created_by,omitempty"`
	AuthorEmail *string `json:"author_email,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func ToResponse(a Announcement) Response {
	return Response{
		ID:          a.ID,
		Title:       a.Title,
		Body:        a.Body,
		CreatedBy:   a.CreatedBy,
		AuthorEmail: a.AuthorEmail,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

type ListResponse struct {
	TotalCount    int64      `json:"total_count"`
	Page          int        `json:"page"`
	Limit         int        `json:"limit"`
	TotalPages    int        `json:"total_pages"`
	Announcements []Response `json:"announcements"`
}
