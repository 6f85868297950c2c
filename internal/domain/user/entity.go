package user

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"   // Full access, including user management
	RoleHR      Role = "hr"      // Payroll, employees and leave administration
	RoleManager Role = "manager" // Can approve leave and view team data
	RoleStaff   Role = "staff"   // Regular employee
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeID *string
	FullName   *string
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff checks if user has no elevated privileges
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
