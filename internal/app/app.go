// Package app wires configuration, storage and services into a runnable
// library server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"libmanage/database"
	"libmanage/internal/config"
	"libmanage/internal/microservices/http-api/handler"
	"libmanage/internal/microservices/http-api/middleware"
	"libmanage/internal/microservices/http-api/repository"
	"libmanage/internal/microservices/http-api/service"
	"libmanage/internal/notify"
	"libmanage/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Redis  *redis.Client // nil when REDIS_ENABLED=false or unreachable

	Tokens        *middleware.TokenManager
	Catalog       service.CatalogService
	Lending       service.LendingService
	Notifications service.NotificationService
	Stats         service.StatsService
	Router        *gin.Engine

	limiter *ratelimit.KeyedRateLimiter
}

// Build connects to the configured database (and Redis when enabled) and
// assembles the services and router.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisEnabled {
		rdb, err = notify.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			// live push and shared dedup degrade, the ledger keeps working
			logger.Warn("redis_unavailable", "error", err)
			rdb = nil
		} else {
			logger.Info("redis_connected", "url", cfg.RedisURL)
		}
	}

	return New(cfg, logger, db, rdb), nil
}

// New assembles the app on already opened connections. rdb may be nil.
func New(cfg *config.Config, logger *slog.Logger, db *gorm.DB, rdb *redis.Client) *App {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		publisher *notify.RedisPublisher
		deduper   service.ReminderDeduper
	)
	if rdb != nil {
		publisher = notify.NewRedisPublisher(rdb, logger)
		deduper = notify.NewRedisDeduper(rdb)
	} else if cfg.ReminderDedup {
		logger.Warn("reminder_dedup_in_memory", "reason", "redis not available, dedup is per process")
		deduper = notify.NewMemoryDeduper()
	}

	books := repository.NewBookRepository(db)
	categories := repository.NewCategoryRepository(db)
	validator := service.NewValidator()

	// keep the interfaces nil rather than holding a nil *RedisPublisher
	var (
		pub    service.Publisher
		stream handler.Subscriber
	)
	if publisher != nil {
		pub, stream = publisher, publisher
	}
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), pub, logger)

	lendingCfg := service.LendingConfig{
		DefaultLoanDays: cfg.DefaultLoanDays,
		ReminderWindow:  cfg.ReminderWindow,
		MaxAttempts:     cfg.LendingMaxRetries,
		DedupReminders:  cfg.ReminderDedup,
		DedupTTL:        cfg.ReminderDedupTTL,
	}
	var opts []service.LendingOption
	if deduper != nil {
		opts = append(opts, service.WithDeduper(deduper))
	}

	a := &App{
		Config:        cfg,
		Logger:        logger,
		DB:            db,
		Redis:         rdb,
		Tokens:        middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Catalog:       service.NewCatalogService(books, categories, validator),
		Lending:       service.NewLendingService(repository.NewLendingRepository(db), notifications, lendingCfg, logger, opts...),
		Notifications: notifications,
		Stats:         service.NewStatsService(repository.NewStatsRepository(db), nil),
		limiter:       ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	a.Router = handler.NewRouter(handler.RouterDeps{
		Logger:        logger,
		Tokens:        a.Tokens,
		Throttle:      middleware.RateLimit(a.limiter),
		CORSOrigins:   cfg.CORSOrigins,
		Books:         handler.NewBookHandler(a.Catalog),
		Lending:       handler.NewLendingHandler(a.Lending, nil),
		Notifications: handler.NewNotificationHandler(notifications, stream),
		Stats:         handler.NewStatsHandler(a.Stats),
		Profiles:      handler.NewProfileHandler(service.NewProfileService(repository.NewProfileRepository(db), validator), a.Stats),
		Comments:      handler.NewCommentHandler(service.NewCommentService(repository.NewCommentRepository(db), books)),
	})
	return a
}

// ScanOnce runs a single overdue pass as of now.
func (a *App) ScanOnce(ctx context.Context) (*service.ScanSummary, error) {
	return a.Lending.ScanOverdue(ctx, time.Now().UTC())
}

// RunScanner scans every OVERDUE_SCAN_INTERVAL until ctx ends. It returns
// immediately when the interval is zero.
func (a *App) RunScanner(ctx context.Context) {
	interval := a.Config.OverdueScanInterval
	if interval <= 0 {
		return
	}
	a.Logger.Info("overdue_scanner_started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Logger.Info("overdue_scanner_stopped")
			return
		case <-ticker.C:
			if _, err := a.ScanOnce(ctx); err != nil {
				a.Logger.Error("overdue_scan_failed", "error", err)
			}
		}
	}
}

// Serve listens on HTTP_PORT until ctx ends, then drains in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Config.HTTPPort),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		a.Logger.Info("http_server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.Logger.Info("http_server_stopped")
	return nil
}

func (a *App) Close() error {
	a.limiter.Stop()

	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	errs = append(errs, database.Close(a.DB))
	return errors.Join(errs...)
}
