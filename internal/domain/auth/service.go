package auth

import "context"

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest, session SessionInfo) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionInfo) (TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)

	// Profile returns the caller's account and linked employee
	Profile(ctx context.Context) (ProfileResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
}
