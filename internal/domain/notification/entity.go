package notification

import "time"

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveRequest     NotificationType = "leave_request"
	TypeLeaveApproved    NotificationType = "leave_approved"
	TypeLeaveRejected    NotificationType = "leave_rejected"
	TypePayslipIssued    NotificationType = "payslip_issued"
	TypeAnnouncement     NotificationType = "announcement"
	TypeAttendanceMarked NotificationType = "attendance_marked"
	TypeGeneral          NotificationType = "general"
)

// Notification represents an in-app notification addressed to one user
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Body      string
	Link      *string
	Data      map[string]interface{}
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

// PushToken is the Expo push token last registered by a user's device
type PushToken struct {
	UserID    string
	Token     string
	UpdatedAt time.Time
}
