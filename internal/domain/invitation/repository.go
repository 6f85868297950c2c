package invitation

import "context"

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// GetOrCreate returns the invitation for email, creating it when none exists.
	// created reports whether a new row was inserted.
	GetOrCreate(ctx context.Context, inv Invitation) (result Invitation, created bool, err error)

	GetByToken(ctx context.Context, token string) (Invitation, error)
	List(ctx context.Context) ([]Invitation, error)

	// MarkAccepted flags the invitation accepted; ErrInvitationAlreadyUsed when it already was.
	MarkAccepted(ctx context.Context, id string) error

	Delete(ctx context.Context, id string) error
}
