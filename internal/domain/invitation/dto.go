package invitation

import (
	"strings"
	"time"

	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
)

type InviteRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

func (r *InviteRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validator.Struct(r)
}

type InviteResponse struct {
	Status    string `json:"status"`
	InviteURL string `json:"invite_url"`
	Email     string `json:"email"`
}

// AcceptRequest for accepting an invitation
type AcceptRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=255"`
}

func (r *AcceptRequest) Validate() error {
	return validator.Struct(r)
}

// AcceptResponse for invitation acceptance result
type AcceptResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

type InvitationResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	InvitedBy  *string `json:"invited_by,omitempty"`
	Accepted   bool    `json:"accepted"`
	AcceptedAt *string `json:"accepted_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func ToResponse(i Invitation) InvitationResponse {
	resp := InvitationResponse{
		ID:        i.ID,
		Email:     i.Email,
		InvitedBy: i.InvitedBy,
		Accepted:  i.Accepted,
		CreatedAt: i.CreatedAt.Format(time.RFC3339),
	}
	if i.AcceptedAt != nil {
		s := i.AcceptedAt.Format(time.RFC3339)
		resp.AcceptedAt = &s
	}
	return resp
}
