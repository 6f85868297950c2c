package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terralogix/hr-backend-go/internal/domain/auth"
	"github.com/terralogix/hr-backend-go/internal/domain/invitation"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
	"github.com/terralogix/hr-backend-go/internal/handler/http/middleware"
	"github.com/terralogix/hr-backend-go/internal/pkg/jwt"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

type fakeAuthService struct {
	auth.AuthService
	jwtService jwt.Service

	loggedOut []string
	session   auth.SessionInfo
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	if req.Password != "password123" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	f.session = session

	employeeID := "emp-1"
	access, accessExp, err := f.jwtService.GenerateAccessToken("user-1", req.Email, &employeeID, user.RoleStaff)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	refresh, refreshExp, err := f.jwtService.GenerateRefreshToken("user-1")
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return auth.TokenResponse{
		AccessToken:           access,
		AccessTokenExpiresIn:  accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresIn: refreshExp,
		Role:                  string(user.RoleStaff),
	}, nil
}

func (f *fakeAuthService) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionInfo) (auth.TokenResponse, error) {
	return auth.TokenResponse{}, auth.ErrRegistrationDisabled
}

func (f *fakeAuthService) Logout(ctx context.Context, refreshToken string) error {
	f.loggedOut = append(f.loggedOut, refreshToken)
	return nil
}

func (f *fakeAuthService) Profile(ctx context.Context) (auth.ProfileResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return auth.ProfileResponse{}, err
	}
	return auth.ProfileResponse{User: user.UserResponse{ID: claims.UserID, Email: claims.Email, Role: string(claims.Role)}}, nil
}

type fakeInvitationService struct {
	invitation.InvitationService
}

func (fakeInvitationService) Accept(ctx context.Context, req invitation.AcceptRequest) (invitation.AcceptResponse, error) {
	if req.Token != "good" {
		return invitation.AcceptResponse{}, invitation.ErrInvitationNotFound
	}
	return invitation.AcceptResponse{Message: "Account created", UserID: "user-2", Email: "new@example.com"}, nil
}

func newTestJWTService(t *testing.T) jwt.Service {
	t.Helper()
	svc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)
	require.NoError(t, err)
	return svc
}

// newAuthTestRouter wires the auth routes with the production middleware.
func newAuthTestRouter(t *testing.T) (http.Handler, *fakeAuthService, jwt.Service) {
	t.Helper()
	jwtSvc := newTestJWTService(t)
	authSvc := &fakeAuthService{jwtService: jwtSvc}
	handler := NewAuthHandler(jwtSvc, authSvc, fakeInvitationService{})

	r := chi.NewRouter()
	r.Post("/auth/login", handler.Login)
	r.Post("/auth/register", handler.Register)
	r.Post("/auth/accept-invite", handler.AcceptInvitation)
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtSvc.JWTAuth()))
		r.Use(middleware.AuthRequired(jwtSvc))
		r.Post("/auth/logout", handler.Logout)
		r.Get("/profile", handler.Profile)
		r.With(middleware.RequirePermission(user.PermissionUserManage)).Get("/admin/users", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r, authSvc, jwtSvc
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("User-Agent", "hr-test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func login(t *testing.T, h http.Handler) (string, *http.Cookie) {
	t.Helper()
	w := postJSON(t, h, "/auth/login", auth.LoginRequest{Email: "staff@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	var refresh *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == jwt.RefreshCookieName {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	return data["access_token"].(string), refresh
}

func TestAuthHandler_Login_Success(t *testing.T) {
	h, authSvc, _ := newAuthTestRouter(t)

	access, refresh := login(t, h)

	assert.NotEmpty(t, access)
	assert.True(t, refresh.HttpOnly)
	assert.NotEmpty(t, refresh.Value)
	assert.Equal(t, "hr-test", authSvc.session.UserAgent)
}

func TestAuthHandler_Login_RefreshTokenNotInBody(t *testing.T) {
	h, _, _ := newAuthTestRouter(t)

	w := postJSON(t, h, "/auth/login", auth.LoginRequest{Email: "staff@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.NotContains(t, data, "refresh_token")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h, _, _ := newAuthTestRouter(t)

	w := postJSON(t, h, "/auth/login", auth.LoginRequest{Email: "staff@example.com", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeBody(t, w)
	assert.False(t, resp["success"].(bool))
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	h, _, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_Disabled(t *testing.T) {
	h, _, _ := newAuthTestRouter(t)

	w := postJSON(t, h, "/auth/register", auth.RegisterRequest{Email: "a@example.com", Password: "password123", ConfirmPassword: "password123"})

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthHandler_AcceptInvitation(t *testing.T) {
	h, _, _ := newAuthTestRouter(t)

	w := postJSON(t, h, "/auth/accept-invite", invitation.AcceptRequest{Token: "good", Password: "password123"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, h, "/auth/accept-invite", invitation.AcceptRequest{Token: "bad", Password: "password123"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Profile_RequiresToken(t *testing.T) {
	h, _, _ := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_RevokesAccessToken(t *testing.T) {
	h, authSvc, jwtSvc := newAuthTestRouter(t)
	access, refresh := login(t, h)

	profile := func() int {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusOK, profile())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.AddCookie(refresh)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{refresh.Value}, authSvc.loggedOut)
	assert.True(t, jwtSvc.IsTokenRevoked(access))

	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.True(t, cleared[0].MaxAge < 0)

	assert.Equal(t, http.StatusUnauthorized, profile())
}

func TestRequirePermission(t *testing.T) {
	h, _, jwtSvc := newAuthTestRouter(t)

	call := func(role user.Role) int {
		token, _, err := jwtSvc.GenerateAccessToken("user-9", "u@example.com", nil, role)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, call(user.RoleStaff))
	assert.Equal(t, http.StatusForbidden, call(user.RoleHR))
	assert.Equal(t, http.StatusOK, call(user.RoleAdmin))
}

func TestAuthRequired_RejectsRefreshToken(t *testing.T) {
	h, _, jwtSvc := newAuthTestRouter(t)

	refresh, _, err := jwtSvc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
