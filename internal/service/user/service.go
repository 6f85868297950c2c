package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/terralogix/hr-backend-go/internal/domain/audit"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/email"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/pkg/pagination"
	"github.com/terralogix/hr-backend-go/internal/repository/postgresql"
	authService "github.com/terralogix/hr-backend-go/internal/service/auth"
)

type UserServiceImpl struct {
	user.UserRepository
	refreshTokens postgresql.RefreshTokenRepository
	emailService  email.EmailService
	auditService  audit.Service
	appName       string
}

func NewUserService(
	userRepository user.UserRepository,
	refreshTokens postgresql.RefreshTokenRepository,
	emailService email.EmailService,
	auditService audit.Service,
	appName string,
) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		refreshTokens:  refreshTokens,
		emailService:   emailService,
		auditService:   auditService,
		appName:        appName,
	}
}

func requireUserManage(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !claims.Can(user.PermissionUserManage) {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	return claims, nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) (user.ListUserResponse, error) {
	if _, err := requireUserManage(ctx); err != nil {
		return user.ListUserResponse{}, err
	}
	filter.Normalize()

	users, total, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return user.ListUserResponse{}, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}

	return user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Users:      responses,
	}, nil
}

// Demote implements user.UserService.
func (s *UserServiceImpl) Demote(ctx context.Context, userID string) (user.UserResponse, error) {
	claims, err := requireUserManage(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if claims.UserID == userID {
		return user.UserResponse{}, user.ErrCannotDemoteSelf
	}

	target, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	if target.IsStaff() {
		return user.UserResponse{}, user.ErrAlreadyStaff
	}

	if err := s.UserRepository.UpdateRole(ctx, userID, user.RoleStaff); err != nil {
		return user.UserResponse{}, err
	}
	s.auditService.Log(ctx, &claims.UserID, audit.ActionUserDemoted,
		fmt.Sprintf("Demoted %s from %s to staff", target.Email, target.Role))

	target.Role = user.RoleStaff
	return user.ToResponse(target), nil
}

// ResetPassword implements user.UserService. Existing sessions are revoked
// and the user is told by email.
func (s *UserServiceImpl) ResetPassword(ctx context.Context, req user.ResetPasswordRequest) error {
	claims, err := requireUserManage(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	target, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	hashed, err := authService.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.UserRepository.UpdatePassword(ctx, target.ID, hashed); err != nil {
		return err
	}
	if _, err := s.refreshTokens.RevokeAllForUser(ctx, target.ID); err != nil {
		slog.Warn("Failed to revoke sessions after password reset", "user_id", target.ID, "error", err)
	}

	s.auditService.Log(ctx, &claims.UserID, audit.ActionPasswordReset, "Password reset for "+target.Email)

	if err := s.emailService.SendPasswordResetNotice(target.Email, s.appName); err != nil {
		slog.Warn("Failed to send password reset notice", "user_id", target.ID, "error", err)
	}
	return nil
}
