package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidEmailFormat      = errors.New("invalid email format")
	ErrInvalidPasswordLength   = errors.New("password must be at least 8 characters")
	ErrInvalidRole             = errors.New("invalid role")
	ErrAlreadyStaff            = errors.New("user is already staff")
	ErrCannotDemoteSelf        = errors.New("cannot demote your own account")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
