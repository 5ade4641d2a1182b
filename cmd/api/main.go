package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/mail"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/persistence"
	"github.com/spec-kit/auth-service/internal/repository"
	"github.com/spec-kit/auth-service/internal/service"
	"github.com/spec-kit/auth-service/internal/worker"
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

	pingers := map[string]handlers.Pinger{}

	userRepo, closeStore := openUserStore(ctx, cfg, logger, pingers)
	defer closeStore()

	var dispatcher events.Dispatcher
	var workerDone <-chan struct{}
	switch cfg.Events.Backend {
	case config.EventsRedis:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		pingers["redis"] = redis

		queue := events.NewRedisDispatcher(redis.Client, cfg.Events.QueueKey)
		workerDone = worker.StartNotificationWorker(ctx, queue, logger, worker.DefaultPollWait)
		dispatcher = queue
	default:
		dispatcher = events.NewInMemoryDispatcher()
	}

	var mailer mail.Mailer
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.Mail, logger)
	} else {
		logger.Warn("SMTP_HOST not set; outgoing mail is logged only")
		mailer = mail.NewLogMailer(logger)
	}
	service.NewNotificationService(dispatcher, mailer, logger, cfg.Mail).RegisterHandlers()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Events:   dispatcher,
		Logger:   logger,
	})
	userService := service.NewUserService(userRepo)
	cookie := auth.NewSessionCookie(cfg.Auth.CookieName, cfg.Auth.TokenTTL(), cfg.App.IsProduction())
	session := auth.NewSessionMiddleware(authService.TokenManager(), cfg.Auth.CookieName)

	metrics := observability.NewMetrics("auth_service")

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:        cfg.App.RequestTimeout(),
		UniformStatus:  cfg.App.UniformStatus,
		AllowedOrigins: cfg.App.AllowedOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pingers),
		Auth:    handlers.NewAuthHandler(authService, cookie),
		Users:   handlers.NewUsersHandler(userService),
		Session: session,
		Metrics: metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	if workerDone != nil {
		<-workerDone
	}
}

// openUserStore connects the configured backend and returns its repository with a release func.
func openUserStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, pingers map[string]handlers.Pinger) (repository.UserRepository, func()) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		pingers["postgres"] = pg
		return repository.NewPostgresUserRepository(pg.PoolHandle()), pg.Close

	case config.StoreMemory:
		logger.Warn("using in-memory user store; data is lost on restart")
		return repository.NewMemoryUserRepository(), func() {}

	default:
		mg, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			logger.Fatal("failed to connect mongodb", zap.Error(err))
		}
		coll := mg.Collection(cfg.Mongo.Collection)
		if err := repository.EnsureUserIndexes(ctx, coll); err != nil {
			logger.Fatal("failed to ensure user indexes", zap.Error(err))
		}
		pingers["mongodb"] = mg
		return repository.NewMongoUserRepository(coll), func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mg.Close(closeCtx)
		}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
