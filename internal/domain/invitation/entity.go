package invitation

import "time"

// Invitation lets an admin onboard a staff account by email
type Invitation struct {
	ID         string
	Email      string
	Token      string
	InvitedBy  *string
	Accepted   bool
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// CanBeAccepted checks if the invitation can be accepted
func (i *Invitation) CanBeAccepted() bool {
	return !i.Accepted
}
