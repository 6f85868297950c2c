package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeIDNoExists   = errors.New("employee ID number already exists")
	ErrUserAlreadyLinked    = errors.New("user is already linked to another employee")
	ErrUnauthorized         = errors.New("unauthorized to access this employee")
	ErrFutureDateNotAllowed = errors.New("date cannot be in the future")
)
