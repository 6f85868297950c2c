package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	ListIDs(ctx context.Context) ([]string, error)
	UpdateRole(ctx context.Context, userID string, role Role) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
