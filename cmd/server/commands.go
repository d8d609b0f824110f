package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/buildrr-backend/internal/config"
	"github.com/iliyamo/buildrr-backend/internal/database"
	"github.com/iliyamo/buildrr-backend/internal/logger"
	"github.com/iliyamo/buildrr-backend/internal/queue"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		withWorker, _ := cmd.Flags().GetBool("with-worker")
		cfg := config.Load()
		log := logger.New(cfg.LogLevel).WithField("env", cfg.Env)

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		e, err := newServer(cfg, db, log)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			log.WithField("addr", ":"+cfg.Port).Info("http server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(sctx)
		})
		if withWorker {
			if cfg.NotifyMode != config.NotifyQueue {
				log.WithField("notify_mode", cfg.NotifyMode).Warn("worker not started: notifications are not queued")
			} else {
				consumer := queue.NewConsumer(cfg.RabbitURL, smtpMailer(cfg), log)
				g.Go(func() error { return consumer.Run(gctx) })
			}
		}

		err = g.Wait()
		log.Info("server stopped")
		return err
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(*cobra.Command, []string) error {
		cfg := config.Load()
		log := logger.New(cfg.LogLevel)

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema up to date")
		return nil
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver queued notification emails over SMTP",
	RunE: func(*cobra.Command, []string) error {
		cfg := config.Load()
		log := logger.New(cfg.LogLevel).WithField("component", "worker")

		ctx, stop := signalContext()
		defer stop()
		log.WithField("queue", queue.NotificationQueue).Info("notification worker started")
		return queue.NewConsumer(cfg.RabbitURL, smtpMailer(cfg), log).Run(ctx)
	},
}
