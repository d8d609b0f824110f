// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/buildrr-backend/internal/config"
	"github.com/iliyamo/buildrr-backend/internal/handler"
	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/middleware"
)

// Handlers is everything the routes dispatch to.
type Handlers struct {
	Auth     *handler.AuthHandler
	Quotes   *handler.QuoteHandler
	Contacts *handler.ContactHandler
	Orders   *handler.OrderHandler
	Messages *handler.MessageHandler
	Content  *handler.ContentHandler
	Users    *handler.UserHandler
	Stats    *handler.StatsHandler
	Health   echo.HandlerFunc
}

// Deps are the cross-cutting pieces the middleware needs.
type Deps struct {
	Auth      middleware.Authenticator
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     *middleware.ResponseCache
	Log       logger.Logger
}

// New builds the Echo instance with the error handler, request logging and
// every route group.
func New(h Handlers, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())

	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	RegisterPublic(api, h, d)
	RegisterDashboard(api, h, d)
	RegisterAdmin(api, h, d)
	return e
}

// RegisterPublic registers the routes open to guests. Form submissions sit
// behind the Redis token bucket; content reads behind the response cache.
func RegisterPublic(api *echo.Group, h Handlers, d Deps) {
	limit := middleware.RateLimit(d.RateLimit, d.Redis, d.Log)

	api.POST("/register", h.Auth.Register, limit)
	api.POST("/login", h.Auth.Login, limit)
	api.POST("/contact", h.Contacts.Submit, limit)
	api.POST("/quote", h.Quotes.Submit, middleware.OptionalBearer(d.Auth), limit)
	api.GET("/content", h.Content.Published, d.Cache.Middleware())
}
