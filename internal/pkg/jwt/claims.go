package jwt

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/terralogix/hr-backend-go/internal/domain/user"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeSSE     = "sse"

	RefreshCookieName = "refresh_token"
)

var (
	ErrMissingClaims = errors.New("authentication claims missing from context")
	ErrTokenRevoked  = errors.New("token revoked")
)

// Claims is the typed view of an access token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID string
	Role       user.Role
}

func (c Claims) Can(permission user.Permission) bool {
	return user.HasPermission(c.Role, permission)
}

// HasEmployee reports whether the caller is linked to an employee record.
func (c Claims) HasEmployee() bool {
	return c.EmployeeID != ""
}

// ClaimsFromContext extracts the verified access token claims placed on the
// request context by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	if claims == nil {
		return Claims{}, ErrMissingClaims
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return Claims{}, ErrMissingClaims
	}
	email, _ := claims["email"].(string)
	employeeID, _ := claims["employee_id"].(string)
	role, _ := claims["role"].(string)

	return Claims{
		UserID:     userID,
		Email:      email,
		EmployeeID: employeeID,
		Role:       user.Role(role),
	}, nil
}

// NewContext stores c on ctx the same way jwtauth.Verifier does. Background
// jobs and tests use it to act on behalf of a user.
func NewContext(ctx context.Context, c Claims) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", c.UserID)
	_ = token.Set("email", c.Email)
	if c.EmployeeID != "" {
		_ = token.Set("employee_id", c.EmployeeID)
	}
	_ = token.Set("role", string(c.Role))
	_ = token.Set("type", TokenTypeAccess)
	return jwtauth.NewContext(ctx, token, nil)
}
