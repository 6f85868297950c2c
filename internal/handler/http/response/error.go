package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/terralogix/hr-backend-go/internal/domain/announcement"
	"github.com/terralogix/hr-backend-go/internal/domain/attendance"
	"github.com/terralogix/hr-backend-go/internal/domain/auth"
	"github.com/terralogix/hr-backend-go/internal/domain/department"
	"github.com/terralogix/hr-backend-go/internal/domain/employee"
	"github.com/terralogix/hr-backend-go/internal/domain/invitation"
	"github.com/terralogix/hr-backend-go/internal/domain/leave"
	"github.com/terralogix/hr-backend-go/internal/domain/notification"
	"github.com/terralogix/hr-backend-go/internal/domain/payroll"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/export"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/qrcode"
	"github.com/terralogix/hr-backend-go/internal/pkg/validator"
	"github.com/terralogix/hr-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked), errors.Is(err, jwt.ErrTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRegistrationDisabled):
		Forbidden(w, "Registration is disabled")
	case errors.Is(err, auth.ErrIncorrectPassword), errors.Is(err, auth.ErrSamePassword):
		BadRequest(w, err.Error(), nil)

	// User domain errors
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAlreadyStaff), errors.Is(err, user.ErrCannotDemoteSelf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrInvalidEmailFormat), errors.Is(err, user.ErrInvalidPasswordLength), errors.Is(err, user.ErrInvalidRole):
		ValidationError(w, map[string]string{"error": err.Error()})

	// Employee and department errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDNoExists):
		Conflict(w, "Employee ID number already exists")
	case errors.Is(err, employee.ErrUserAlreadyLinked):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrFutureDateNotAllowed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyTimedIn), errors.Is(err, attendance.ErrAlreadyTimedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotTimedIn), errors.Is(err, attendance.ErrInvalidQRCode),
		errors.Is(err, attendance.ErrQRCodeExpired), errors.Is(err, qrcode.ErrMalformedPayload):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrQRCodeNotYours):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrNoEmployeeRecord), errors.Is(err, leave.ErrNoEmployeeRecord),
		errors.Is(err, payroll.ErrNoEmployeeRecord):
		Forbidden(w, "No employee record linked to this account")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPayslipForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidRange):
		ValidationError(w, map[string]string{"period_to": err.Error()})

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeNameExists):
		Conflict(w, "Leave type name already exists")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrLeaveRequestForbidden):
		Forbidden(w, err.Error())

	// Notification, announcement and invitation errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrPushTokenNotFound):
		NotFound(w, "User has no push token")
	case errors.Is(err, notification.ErrInvalidPushToken):
		ValidationError(w, map[string]string{"token": err.Error()})
	case errors.Is(err, notification.ErrQueueFull):
		ServiceUnavailable(w, "Notification queue is full")
	case errors.Is(err, announcement.ErrAnnouncementNotFound):
		NotFound(w, "Announcement not found")
	case errors.Is(err, invitation.ErrInvitationNotFound):
		NotFound(w, "Invitation not found")
	case errors.Is(err, invitation.ErrInvitationAlreadyUsed), errors.Is(err, invitation.ErrEmailAlreadyAccepted):
		Conflict(w, err.Error())

	// Files and exports
	case errors.Is(err, file.ErrInvalidFileType), errors.Is(err, file.ErrInvalidImage):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, file.ErrFileTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, Response{
			Success: false,
			Error:   &ErrorDetail{Code: "PAYLOAD_TOO_LARGE", Message: err.Error()},
		})
	case errors.Is(err, export.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
