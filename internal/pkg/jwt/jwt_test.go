package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewJWTService("test-secret", "1h", "168h", false)
	require.NoError(t, err)
	return svc
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("secret", "soon", "168h", false)
	assert.Error(t, err)
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "a@b.cd", &employeeID, user.RoleHR)
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, user.RoleHR, claims.Role)
	assert.True(t, claims.HasEmployee())
}

func TestRefreshToken_ValidateAndRevoke(t *testing.T) {
	svc := newTestService(t)

	token, expiresAt, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	svc.RevokeToken(token, expiresAt)
	assert.True(t, svc.IsTokenRevoked(token))

	_, err = svc.ValidateRefreshToken(token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	access, _, err := svc.GenerateAccessToken("user-1", "a@b.cd", nil, user.RoleStaff)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestSSEToken(t *testing.T) {
	svc := newTestService(t)

	token, expiresIn, err := svc.GenerateSSEToken("user-9")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)

	_, err = svc.ValidateSSEToken("garbage")
	assert.Error(t, err)
}

func TestClaimsFromContext_Missing(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.Error(t, err)
}

func TestNewContext(t *testing.T) {
	ctx := NewContext(context.Background(), Claims{UserID: "u", Role: user.RoleAdmin})

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u", claims.UserID)
	assert.False(t, claims.HasEmployee())
	assert.True(t, claims.Can(user.PermissionPayrollManage))
}
