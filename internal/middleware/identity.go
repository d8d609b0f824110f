package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/model"
)

// userKey is where the bearer guards store the resolved account.
const userKey = "user"

// CurrentUser returns the account resolved for this request, or nil for a
// guest.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}

// SetUser attaches an account to the request context.
func SetUser(c echo.Context, u *model.User) { c.Set(userKey, u) }

// actorID names the caller for rate limit keys: the account id when one is
// attached, "anon" otherwise.
func actorID(c echo.Context) string {
	if u := CurrentUser(c); u != nil {
		return strconv.FormatUint(u.ID, 10)
	}
	return "anon"
}
