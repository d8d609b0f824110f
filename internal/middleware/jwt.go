package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

// Authenticator resolves a raw bearer token to an account.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*model.User, error)
}

// bearerToken reads the Authorization header. The "Bearer " prefix is
// optional; older clients send the bare token.
func bearerToken(c echo.Context) string {
	h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return h
}

// BearerAuth rejects the request unless the Authorization header carries a
// valid token for an active account. The account is stored for
// CurrentUser; the authenticator's error is returned as is so the error
// handler can map it.
func BearerAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := a.Authenticate(c.Request().Context(), bearerToken(c))
			if err != nil {
				return err
			}
			SetUser(c, u)
			return next(c)
		}
	}
}

// OptionalBearer attaches the account when a valid token is present and
// lets the request through as a guest otherwise.
func OptionalBearer(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := bearerToken(c); raw != "" {
				if u, err := a.Authenticate(c.Request().Context(), raw); err == nil {
					SetUser(c, u)
				}
			}
			return next(c)
		}
	}
}
