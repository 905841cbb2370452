package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-vitals/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/kanso-vitals/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-vitals/internal/adapters/provider/garmin"
	"github.com/comitanigiacomo/kanso-vitals/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-vitals/internal/config"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/domain"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/services"
	"github.com/comitanigiacomo/kanso-vitals/internal/core/workers"
	"github.com/comitanigiacomo/kanso-vitals/internal/instrumentation"
	"github.com/comitanigiacomo/kanso-vitals/internal/logging"
)

type application struct {
	router  *gin.Engine
	worker  *workers.SyncWorker
	closers []func() error
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Errorf("failed to release resource: %v", err)
		}
	}
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApplication(ctx, cfg, instrumentation.SetupPrometheus())
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer app.Close()

	app.worker.Start(ctx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("Kanso Vitals running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Forced shutdown error: %v", err)
	}

	select {
	case <-app.worker.Done():
	case <-shutdownCtx.Done():
		log.Warn("Sync worker did not stop in time")
	}

	log.Info("Server stopped gracefully.")
}

// buildApplication wires storage, provider, services and the router from cfg.
// Postgres is used when configured, Redis when reachable, memory otherwise.
func buildApplication(ctx context.Context, cfg *config.Config, reg *prometheus.Registry) (*application, error) {
	app := &application{}
	startTime := time.Now()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, continuing without it: %v", err)
			rdb = nil
		} else {
			app.closers = append(app.closers, rdb.Close)
		}
	}

	var (
		db   *sqlx.DB
		repo domain.SnapshotRepository
	)
	switch {
	case cfg.DB.Enabled():
		log.Info("Connecting to database...")
		db, err = sqlx.Connect("pgx", cfg.DB.DSN())
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.closers = append(app.closers, db.Close)

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		pg := repository.NewPostgresSnapshotRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			app.Close()
			return nil, err
		}
		log.Info("Database connected successfully.")

		repo = pg
		if rdb != nil {
			repo = repository.NewCachedSnapshotRepository(pg, rdb)
		}
	case rdb != nil:
		log.Info("Storing the snapshot in Redis")
		repo = repository.NewRedisSnapshotRepository(rdb, "")
	default:
		log.Warn("No storage configured, data lives in memory only")
		repo = repository.NewInMemorySnapshotRepository()
	}

	metricsManager := instrumentation.NewManager("vitals", "main", reg)
	store := services.NewSnapshotLock(repo)

	trackerService := services.NewTrackerService(store, metricsManager, loc)
	syncService, err := services.NewSyncService(store, garmin.NewClient(cfg.Garmin), metricsManager, cfg.Sync.StartDate, loc)
	if err != nil {
		app.Close()
		return nil, err
	}
	dashboardService := services.NewDashboardService(repo, cfg.WaterTargetML, loc)

	if cfg.Admin.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, admin endpoints will reject every token")
	}
	if cfg.Admin.PasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH is not set, admin login is disabled")
	}
	tokenService := services.NewTokenService(cfg.Admin.JWTSecret, cfg.Admin.Issuer, cfg.Admin.TokenTTL)
	authService := services.NewAuthService(cfg.Admin.PasswordHash, tokenService)

	app.worker = workers.NewSyncWorker(syncService, cfg.Sync.Interval)

	app.router = adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authService),
		TrackerHandler:   adapterHTTP.NewTrackerHandler(trackerService, cfg.Profile),
		AdminHandler:     adapterHTTP.NewAdminHandler(trackerService, syncService, app.worker),
		DashboardHandler: adapterHTTP.NewDashboardHandler(dashboardService),
		TokenService:     tokenService,
		Metrics:          metricsManager,
		Gatherer:         reg,
		DB:               db,
		Redis:            rdb,
		RateLimit:        cfg.RateLimit,
		StartTime:        startTime,
	})

	return app, nil
}
