package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyTimedIn   = errors.New("you have already timed in today")
	ErrNotTimedIn       = errors.New("you have not timed in yet")
	ErrAlreadyTimedOut  = errors.New("you have already timed out today")
	ErrNoEmployeeRecord = errors.New("no employee record linked to this account")

	ErrInvalidQRCode  = errors.New("invalid QR code")
	ErrQRCodeNotYours = errors.New("QR code belongs to another employee")
	ErrQRCodeExpired  = errors.New("QR code is not valid for today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
