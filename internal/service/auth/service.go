package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terralogix/hr-backend-go/internal/domain/auth"
	"github.com/terralogix/hr-backend-go/internal/domain/employee"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/database"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	transactor database.Transactor
	user.UserRepository
	jwt.Service
	refreshTokens     postgresql.RefreshTokenRepository
	employeeRepo      employee.EmployeeRepository
	photoURL          func(string) string
	allowRegistration bool
}

func NewAuthService(
	transactor database.Transactor,
	userRepository user.UserRepository,
	employeeRepository employee.EmployeeRepository,
	jwtService jwt.Service,
	refreshTokens postgresql.RefreshTokenRepository,
	photoURL func(string) string,
	allowRegistration bool,
) auth.AuthService {
	return &AuthServiceImpl{
		transactor:        transactor,
		UserRepository:    userRepository,
		Service:           jwtService,
		refreshTokens:     refreshTokens,
		employeeRepo:      employeeRepository,
		photoURL:          photoURL,
		allowRegistration: allowRegistration,
	}
}

// HashPassword is shared by every flow that sets a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// issueTokens creates the access/refresh pair and records the refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionInfo) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u.ID, u.Email, u.EmployeeID, u.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.refreshTokens.Create(ctx, u.ID, resp.RefreshToken, time.Unix(resp.RefreshTokenExpiresIn, 0), postgresql.SessionInfo{
		UserAgent: session.UserAgent,
		IPAddress: session.IPAddress,
	})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	resp.Role = string(u.Role)
	return resp, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData, session)
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	if !a.allowRegistration {
		return auth.TokenResponse{}, auth.ErrRegistrationDisabled
	}
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	exists, err := a.UserRepository.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if exists {
		return auth.TokenResponse{}, user.ErrUserEmailExists
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	var tokens auth.TokenResponse
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err := a.UserRepository.Create(ctx, user.User{
			Email:        req.Email,
			PasswordHash: hashed,
			Role:         user.RoleStaff,
		})
		if err != nil {
			return err
		}
		tokens, err = a.issueTokens(ctx, created, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return tokens, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return a.refreshTokens.Revoke(ctx, refreshToken)
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	userID, err := a.Service.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenRevoked) {
			return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
		}
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.refreshTokens.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Profile implements auth.AuthService.
func (a *AuthServiceImpl) Profile(ctx context.Context) (auth.ProfileResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	userData, err := a.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		return auth.ProfileResponse{}, err
	}

	resp := auth.ProfileResponse{
		User:        user.ToResponse(userData),
		Permissions: user.RolePermissions[userData.Role],
	}

	emp, err := a.employeeRepo.GetByUserID(ctx, userData.ID)
	switch {
	case err == nil:
		empResp := employee.ToResponse(emp, a.photoURL)
		resp.Employee = &empResp
	case !errors.Is(err, employee.ErrEmployeeNotFound):
		return auth.ProfileResponse{}, err
	}

	return resp, nil
}

// ChangePassword implements auth.AuthService. Every session of the user is
// revoked once the new password is stored.
func (a *AuthServiceImpl) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) error {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if req.OldPassword == req.NewPassword {
		return auth.ErrSamePassword
	}

	userData, err := a.UserRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.OldPassword)); err != nil {
		return auth.ErrIncorrectPassword
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.UserRepository.UpdatePassword(ctx, userData.ID, hashed); err != nil {
			return err
		}
		_, err := a.refreshTokens.RevokeAllForUser(ctx, userData.ID)
		return err
	})
}
