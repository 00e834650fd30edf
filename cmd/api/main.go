package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/cyberfit/membership-service/internal/api/http"
	"github.com/cyberfit/membership-service/internal/api/http/handlers"
	"github.com/cyberfit/membership-service/internal/auth"
	"github.com/cyberfit/membership-service/internal/config"
	"github.com/cyberfit/membership-service/internal/events"
	"github.com/cyberfit/membership-service/internal/gateway"
	"github.com/cyberfit/membership-service/internal/mail"
	"github.com/cyberfit/membership-service/internal/observability"
	"github.com/cyberfit/membership-service/internal/persistence"
	"github.com/cyberfit/membership-service/internal/repository"
	"github.com/cyberfit/membership-service/internal/service"
	"github.com/cyberfit/membership-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	accountRepo := repository.NewAccountRepository(pg.PoolHandle())
	sessionStore := auth.NewRedisSessionStore(redis.Client, cfg.Auth.SessionTTL())

	dispatcher := events.NewInMemoryDispatcher()
	notifier := mail.NewSMTPNotifier(cfg.Mail)
	notificationService := service.NewNotificationService(dispatcher, notifier, logger)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Accounts:   accountRepo,
		Sessions:   sessionStore,
		Dispatcher: dispatcher,
	})

	gw := gateway.NewHTTPGateway(cfg.Gateway)
	paymentService := service.NewPaymentService(*cfg, accountRepo, gw, dispatcher, logger)

	sessionMiddleware := auth.NewSessionMiddleware(sessionStore, accountRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Pages:             handlers.NewPagesHandler(),
		Accounts:          handlers.NewAccountsHandler(authService),
		Password:          handlers.NewPasswordHandler(authService),
		Payments:          handlers.NewPaymentsHandler(paymentService, logger, metrics),
		SessionMiddleware: sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
