package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/auth"
	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

// RequireRole lets the request through only when the account attached by
// BearerAuth holds one of roles. It must run after BearerAuth.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch auth.Authorize(CurrentUser(c), roles...) {
			case auth.Authorized:
				return next(c)
			case auth.Unauthenticated:
				return &service.Error{Kind: service.ErrUnauthenticated, Message: "Token is missing"}
			default:
				return &service.Error{Kind: service.ErrForbidden, Message: "Admin access required"}
			}
		}
	}
}
