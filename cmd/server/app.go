package main

import (
	"database/sql"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/buildrr-backend/internal/config"
	"github.com/iliyamo/buildrr-backend/internal/database"
	"github.com/iliyamo/buildrr-backend/internal/handler"
	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/mailer"
	"github.com/iliyamo/buildrr-backend/internal/middleware"
	"github.com/iliyamo/buildrr-backend/internal/queue"
	"github.com/iliyamo/buildrr-backend/internal/repository"
	"github.com/iliyamo/buildrr-backend/internal/router"
	"github.com/iliyamo/buildrr-backend/internal/service"
)

func openDB(cfg config.Config) (*sql.DB, error) {
	return database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

func smtpMailer(cfg config.Config) *mailer.SMTPMailer {
	return mailer.NewSMTPMailer(mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.FromEmail,
		FromName:  cfg.SMTP.FromName,
	})
}

// notificationMailer picks the delivery path for request-time mail. In
// queue mode the API only publishes; the worker does the SMTP work.
func notificationMailer(cfg config.Config, log logger.Logger) mailer.Mailer {
	switch cfg.NotifyMode {
	case config.NotifySMTP:
		return smtpMailer(cfg)
	case config.NotifyQueue:
		return queue.NewPublisher(cfg.RabbitURL, log)
	default:
		return mailer.NewConsoleMailer(log)
	}
}

// newServer assembles repositories, services, handlers and routes.
func newServer(cfg config.Config, db *sql.DB, log logger.Logger) (*echo.Echo, error) {
	users := repository.NewUserRepo(db)
	orders := repository.NewOrderRepo(db)
	quotes := repository.NewQuoteRepo(db)
	contacts := repository.NewContactRepo(db)
	messages := repository.NewMessageRepo(db)
	content := repository.NewContentRepo(db)
	stats := repository.NewStatsRepo(db)

	notify, err := service.NewNotifier(notificationMailer(cfg, log), log, cfg.AdminEmail, cfg.DashboardURL)
	if err != nil {
		return nil, err
	}
	accounts := service.NewAccountService(users, cfg.JWTSecret, time.Duration(cfg.AccessTTLHours)*time.Hour, cfg.BcryptCost)

	rdb := config.NewRedisClient()
	cache := middleware.NewResponseCache(cfg.Cache, rdb, log)

	return router.New(router.Handlers{
		Auth:     handler.NewAuthHandler(accounts),
		Quotes:   handler.NewQuoteHandler(service.NewQuoteService(quotes, notify)),
		Contacts: handler.NewContactHandler(service.NewContactService(contacts, notify)),
		Orders:   handler.NewOrderHandler(service.NewOrderService(orders, users)),
		Messages: handler.NewMessageHandler(service.NewMessageService(messages, users)),
		Content:  handler.NewContentHandler(service.NewContentService(content), cache, log),
		Users:    handler.NewUserHandler(service.NewAdminService(users, cfg.BcryptCost)),
		Stats: handler.NewStatsHandler(
			service.NewStatsService(stats, messages),
			service.NewExportService(users, orders, quotes, contacts),
		),
		Health: handler.Health(db),
	}, router.Deps{
		Auth:      accounts,
		Redis:     rdb,
		RateLimit: cfg.RateLimit,
		Cache:     cache,
		Log:       log,
	}), nil
}
