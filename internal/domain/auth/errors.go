package auth

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
	ErrRegistrationDisabled = errors.New("self registration is disabled")
	ErrIncorrectPassword    = errors.New("old password is incorrect")
	ErrSamePassword         = errors.New("new password must differ from the old password")
)
