package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/nomedigasn781-code/proyec/api/routes"
	"github.com/nomedigasn781-code/proyec/internal/auth"
	"github.com/nomedigasn781-code/proyec/internal/orders"
	"github.com/nomedigasn781-code/proyec/internal/users"
	"github.com/nomedigasn781-code/proyec/pkg/auth/session"
	"github.com/nomedigasn781-code/proyec/pkg/config"
	"github.com/nomedigasn781-code/proyec/pkg/db"
	"github.com/nomedigasn781-code/proyec/pkg/instance"
	"github.com/nomedigasn781-code/proyec/pkg/logger"
	"github.com/nomedigasn781-code/proyec/pkg/metrics"
	"github.com/nomedigasn781-code/proyec/pkg/migrate"
	"github.com/nomedigasn781-code/proyec/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeAutoMigrate(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
	} else {
		logg.Warn(ctx, "redis not configured; auth rate limiting disabled")
	}

	registry := metrics.NewRegistry()

	userRepo := users.NewRepository(dbClient.DB())
	sessionManager, err := session.NewManager(session.NewRepository(dbClient.DB()), cfg.Session)
	if err != nil {
		return err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		PasswordConfig: cfg.Password,
		FeatureFlags:   cfg.FeatureFlags,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       userRepo,
		Notifier:       auth.NewLogNotifier(logg, cfg.App.IsDev()),
		PasswordConfig: cfg.Password,
		FeatureFlags:   cfg.FeatureFlags,
		Logger:         logg,
	})
	if err != nil {
		return err
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:    orders.NewRepository(dbClient.DB()),
		Tx:      dbClient,
		Config:  cfg.Orders,
		Metrics: metrics.NewOrderMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return err
	}

	deps := routes.Deps{
		DB:              dbClient,
		Redis:           redisClient,
		Sessions:        sessionManager,
		AuthService:     authService,
		RegisterService: registerService,
		OrdersService:   ordersService,
		HTTPMetrics:     metrics.NewHTTPMetrics(registry),
		Metrics:         registry,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
