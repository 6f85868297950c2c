package invitation

import "errors"

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationAlreadyUsed = errors.New("invitation has already been used")
	ErrEmailAlreadyAccepted  = errors.New("user already accepted invitation")
)
