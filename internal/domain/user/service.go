package user

import "context"

// UserService covers the administrator user-management endpoints
type UserService interface {
	List(ctx context.Context, filter UserFilter) (ListUserResponse, error)

	// Demote moves an elevated account back to staff
	Demote(ctx context.Context, userID string) (UserResponse, error)

	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}
