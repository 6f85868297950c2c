package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/auth"
	"github.com/terralogix/hr-backend-go/internal/domain/employee"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
	"github.com/terralogix/hr-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type fakeUserRepository struct {
	user.UserRepository
	byEmail map[string]user.User
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	u.ID = "user-new"
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepository) UpdatePassword(ctx context.Context, userID, hash string) error {
	for email, u := range f.byEmail {
		if u.ID == userID {
			u.PasswordHash = hash
			f.byEmail[email] = u
			return nil
		}
	}
	return user.ErrUserNotFound
}

type fakeRefreshTokens struct {
	postgresql.RefreshTokenRepository
	active      map[string]string
	sessions    []postgresql.SessionInfo
	revokedUser []string
}

func (f *fakeRefreshTokens) Create(ctx context.Context, userID, token string, expiresAt time.Time, session postgresql.SessionInfo) error {
	f.active[token] = userID
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeRefreshTokens) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, ok := f.active[token]
	return !ok, nil
}

func (f *fakeRefreshTokens) Revoke(ctx context.Context, token string) error {
	delete(f.active, token)
	return nil
}

func (f *fakeRefreshTokens) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	f.revokedUser = append(f.revokedUser, userID)
	var n int64
	for token, owner := range f.active {
		if owner == userID {
			delete(f.active, token)
			n++
		}
	}
	return n, nil
}

type fakeEmployeeRepository struct {
	employee.EmployeeRepository
}

func (fakeEmployeeRepository) GetByUserID(ctx context.Context, userID string) (employee.Employee, error) {
	if userID != "user-1" {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: "emp-1", FullName: "Maria Santos"}, nil
}

type inlineTransactor struct{}

func (inlineTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixture struct {
	svc    auth.AuthService
	users  *fakeUserRepository
	tokens *fakeRefreshTokens
	jwt    jwt.Service
}

func newFixture(t *testing.T, allowRegistration bool) *fixture {
	t.Helper()

	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, false)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	employeeID := "emp-1"

	f := &fixture{
		users: &fakeUserRepository{byEmail: map[string]user.User{
			"maria@terralogix.test": {
				ID:           "user-1",
				Email:        "maria@terralogix.test",
				PasswordHash: string(hash),
				Role:         user.RoleStaff,
				EmployeeID:   &employeeID,
			},
		}},
		tokens: &fakeRefreshTokens{active: map[string]string{}},
		jwt:    jwtService,
	}
	f.svc = NewAuthService(inlineTransactor{}, f.users, fakeEmployeeRepository{}, jwtService, f.tokens,
		func(key string) string { return "/uploads/" + key }, allowRegistration)
	return f
}

func TestLogin(t *testing.T) {
	f := newFixture(t, false)
	session := auth.SessionInfo{UserAgent: "test-agent", IPAddress: "127.0.0.1"}

	resp, err := f.svc.Login(context.Background(), auth.LoginRequest{
		Email:    " Maria@Terralogix.test ",
		Password: "password123",
	}, session)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "staff", resp.Role)
	assert.Equal(t, []postgresql.SessionInfo{{UserAgent: "test-agent", IPAddress: "127.0.0.1"}}, f.tokens.sessions)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t, false)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@terralogix.test", "password123"},
		{"wrong password", "maria@terralogix.test", "wrong-password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Login(context.Background(), auth.LoginRequest{Email: tt.email, Password: tt.password}, auth.SessionInfo{})
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: "maria@terralogix.test", Password: "password123"}, auth.SessionInfo{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRegister(t *testing.T) {
	req := auth.RegisterRequest{Email: "new@terralogix.test", Password: "password123", ConfirmPassword: "password123"}

	_, err := newFixture(t, false).svc.Register(context.Background(), req, auth.SessionInfo{})
	assert.ErrorIs(t, err, auth.ErrRegistrationDisabled)

	f := newFixture(t, true)
	resp, err := f.svc.Register(context.Background(), req, auth.SessionInfo{})
	require.NoError(t, err)
	assert.Equal(t, "staff", resp.Role)
	assert.Equal(t, user.RoleStaff, f.users.byEmail["new@terralogix.test"].Role)

	_, err = f.svc.Register(context.Background(), req, auth.SessionInfo{})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestProfile(t *testing.T) {
	f := newFixture(t, false)
	ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "user-1", Role: user.RoleStaff, EmployeeID: "emp-1"})

	profile, err := f.svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "maria@terralogix.test", profile.User.Email)
	require.NotNil(t, profile.Employee)
	assert.Equal(t, "emp-1", profile.Employee.ID)
	assert.Contains(t, profile.Permissions, user.PermissionPayrollViewOwn)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, false)
	ctx := jwt.NewContext(context.Background(), jwt.Claims{UserID: "user-1", Role: user.RoleStaff})

	err := f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{OldPassword: "nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, auth.ErrIncorrectPassword)

	err = f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{OldPassword: "password123", NewPassword: "password123"})
	assert.ErrorIs(t, err, auth.ErrSamePassword)

	require.NoError(t, f.svc.ChangePassword(ctx, auth.ChangePasswordRequest{OldPassword: "password123", NewPassword: "new-password"}))
	assert.Equal(t, []string{"user-1"}, f.tokens.revokedUser)

	_, err = f.svc.Login(context.Background(), auth.LoginRequest{Email: "maria@terralogix.test", Password: "new-password"}, auth.SessionInfo{})
	assert.NoError(t, err)
}
