package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
)

// RegisterDashboard registers the routes for any authenticated account.
// Profile and quote routes are reachable both at the API root and under
// /dashboard.
func RegisterDashboard(api *echo.Group, h Handlers, d Deps) {
	bearer := middleware.BearerAuth(d.Auth)

	api.GET("/profile", h.Auth.Profile, bearer)
	api.PUT("/profile", h.Auth.UpdateProfile, bearer)
	api.GET("/quotes/user", h.Quotes.Mine, bearer)
	api.POST("/quotes/:id/respond", h.Quotes.Respond, bearer)

	g := api.Group("/dashboard", bearer)
	g.GET("/profile", h.Auth.Profile)
	g.PUT("/profile", h.Auth.UpdateProfile)
	g.DELETE("/account", h.Auth.DeleteAccount)
	g.GET("/orders", h.Orders.Mine)
	g.GET("/messages", h.Messages.Inbox)
	g.POST("/messages", h.Messages.SendToAdmin)
	g.PUT("/messages/:id/read", h.Messages.MarkRead)
	g.GET("/stats", h.Stats.User)
	g.GET("/quotes", h.Quotes.Mine)
	g.POST("/quotes/:id/respond", h.Quotes.Respond)
}
