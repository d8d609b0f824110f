package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/middleware"
	"github.com/iliyamo/buildrr-backend/internal/model"
)

// RegisterAdmin registers the admin-only routes. The two top level
// listings (/contacts, /quotes) are admin-only as well.
func RegisterAdmin(api *echo.Group, h Handlers, d Deps) {
	guard := []echo.MiddlewareFunc{middleware.BearerAuth(d.Auth), middleware.RequireRole(model.RoleAdmin)}

	api.GET("/contacts", h.Contacts.List, guard...)
	api.GET("/quotes", h.Quotes.List, guard...)

	g := api.Group("/admin", guard...)

	g.GET("/users", h.Users.List)
	g.POST("/users", h.Users.Create)
	g.GET("/users/:id", h.Users.Get)
	g.PUT("/users/:id", h.Users.Update)
	g.DELETE("/users/:id", h.Users.Delete)

	g.GET("/orders", h.Orders.List)
	g.POST("/orders", h.Orders.Create)
	g.PUT("/orders/:id", h.Orders.Update)
	g.DELETE("/orders/:id", h.Orders.Delete)

	g.GET("/quotes", h.Quotes.List)
	g.PUT("/quotes/:id", h.Quotes.SetStatus)
	g.DELETE("/quotes/:id", h.Quotes.Delete)
	g.POST("/quotes/:id/respond", h.Quotes.AdminRespond)

	g.GET("/contacts", h.Contacts.List)
	g.PUT("/contacts/:id", h.Contacts.SetStatus)
	g.DELETE("/contacts/:id", h.Contacts.Delete)

	g.GET("/messages", h.Messages.List)
	g.POST("/messages", h.Messages.Send)
	g.PUT("/messages/:id/read", h.Messages.MarkRead)

	g.GET("/content", h.Content.List)
	g.POST("/content", h.Content.Create)
	g.PUT("/content/:id", h.Content.Update)
	g.DELETE("/content/:id", h.Content.Delete)

	g.GET("/stats", h.Stats.Admin)
	g.GET("/export/:type", h.Stats.Export)
}
