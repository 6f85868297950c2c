package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Leave Management
	PermissionLeaveViewOwn     Permission = "leave.view_own"
	PermissionLeaveCreate      Permission = "leave.create"
	PermissionLeaveViewAll     Permission = "leave.view_all"
	PermissionLeaveApprove     Permission = "leave.approve"
	PermissionLeaveManageTypes Permission = "leave.manage_types"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Employee Management
	PermissionEmployeeViewAll  Permission = "employee.view_all"
	PermissionEmployeeManage   Permission = "employee.manage"
	PermissionDepartmentManage Permission = "department.manage"

	// Payroll
	PermissionPayrollViewOwn Permission = "payroll.view_own"
	PermissionPayrollViewAll Permission = "payroll.view_all"
	PermissionPayrollManage  Permission = "payroll.manage"

	// Communication
	PermissionAnnouncementManage Permission = "announcement.manage"
	PermissionPushSend           Permission = "push.send"

	// Reports
	PermissionReportsView Permission = "reports.view"
	PermissionAuditView   Permission = "audit.view"

	// User Management
	PermissionUserManage       Permission = "user.manage"
	PermissionInvitationManage Permission = "invitation.manage"
)

var selfService = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionLeaveViewOwn,
	PermissionLeaveCreate,
	PermissionAttendanceViewOwn,
	PermissionAttendanceCreate,
	PermissionPayrollViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: append(append([]Permission{}, selfService...),
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionAttendanceViewAll,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionDepartmentManage,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionAnnouncementManage,
		PermissionPushSend,
		PermissionReportsView,
		PermissionAuditView,
		PermissionUserManage,
		PermissionInvitationManage,
	),
	RoleHR: append(append([]Permission{}, selfService...),
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageTypes,
		PermissionAttendanceViewAll,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionDepartmentManage,
		PermissionPayrollViewAll,
		PermissionPayrollManage,
		PermissionAnnouncementManage,
		PermissionReportsView,
	),
	RoleManager: append(append([]Permission{}, selfService...),
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewAll,
		PermissionEmployeeViewAll,
		PermissionReportsView,
	),
	RoleStaff: append([]Permission{}, selfService...),
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
