package employee

import (
	"context"
	"io"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// GetEmployee retrieves a single employee; staff may only read their own record
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// GetMyEmployee returns the caller's own employee record
	GetMyEmployee(ctx context.Context) (EmployeeResponse, error)

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id string) error

	// ListEmployees returns every employee for privileged roles, otherwise only the caller
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	UploadPhoto(ctx context.Context, id string, file io.Reader, filename string) (EmployeeResponse, error)

	// LinkUser attaches an existing login to the employee record
	LinkUser(ctx context.Context, id string, userID string) (EmployeeResponse, error)
}
