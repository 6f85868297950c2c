package invitation

import "context"

// InvitationService defines the interface for invitation business logic
type InvitationService interface {
	// Invite gets or creates the invitation for an email and sends the invite link
	Invite(ctx context.Context, req InviteRequest) (InviteResponse, error)

	List(ctx context.Context) ([]InvitationResponse, error)
	Delete(ctx context.Context, id string) error

	// Accept creates a staff account for the invited email
	Accept(ctx context.Context, req AcceptRequest) (AcceptResponse, error)
}
