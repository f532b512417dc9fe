package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/roamly/travelbook/internal/api"
	"github.com/roamly/travelbook/internal/auth"
	"github.com/roamly/travelbook/internal/ports"
	"github.com/roamly/travelbook/internal/ratelim"
	"github.com/roamly/travelbook/internal/repository"
	"github.com/roamly/travelbook/internal/service"
	"github.com/roamly/travelbook/pkg/config"
	"github.com/roamly/travelbook/pkg/health"
	"github.com/roamly/travelbook/pkg/logger"
	"github.com/roamly/travelbook/pkg/migrate"
)

const version = "1.0.0"

type App struct {
	config *config.Config
	log    *zap.Logger
	server *http.Server
	db     *pgxpool.Pool
}

func NewApp(cfg *config.Config, log *zap.Logger) *App {
	return &App{
		config: cfg,
		log:    log,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.setupDatabase(ctx); err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}

	if a.config.Migrations.AutoRun {
		if err := a.runMigrations(ctx); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
	}

	a.setupServer()
	return nil
}

func (a *App) setupDatabase(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	return nil
}

func (a *App) runMigrations(ctx context.Context) error {
	migrator, err := migrate.NewMigrator(a.db, a.config.Migrations.Dir)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		return err
	}

	v, err := migrator.Version(ctx)
	if err != nil {
		return err
	}
	a.log.Info("database migrations applied", zap.Int64("version", v))
	return nil
}

func (a *App) setupServer() {
	services := a.setupServices()
	router := a.setupRouter(services)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(a.loggingMiddleware(router))

	a.server = &http.Server{
		Addr:         a.config.Server.Address,
		Handler:      handler,
		WriteTimeout: a.config.Server.WriteTimeout,
		ReadTimeout:  a.config.Server.ReadTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}
}

type Services struct {
	BookingService ports.BookingService
}

func (a *App) setupServices() Services {
	bookingRepo := repository.NewBookingRepository(a.db)
	packageRepo := repository.NewPackageRepository(a.db)

	return Services{
		BookingService: service.NewBookingService(bookingRepo, packageRepo),
	}
}

func (a *App) setupRouter(services Services) http.Handler {
	router := httprouter.New()
	const versionPrefix = "/v1"

	bookings := api.NewBookingHandler(services.BookingService, a.log)
	guard := auth.New([]byte(a.config.Auth.JWTSecret))
	trackLimiter := ratelim.NewRateLimiter(rate.Limit(5), 10)

	router.HandlerFunc(http.MethodGet, versionPrefix+"/health", health.HealthGet(version, a.db))

	router.POST(versionPrefix+"/bookings", guard.OptionalAuth(bookings.Create))
	router.GET(versionPrefix+"/bookings/:id", guard.OptionalAuth(bookings.Get))
	router.PATCH(versionPrefix+"/bookings/:id", guard.OptionalAuth(bookings.Update))
	router.DELETE(versionPrefix+"/bookings/:id", guard.OptionalAuth(bookings.Cancel))

	router.GET(versionPrefix+"/users/:id/bookings", guard.Authenticate(bookings.ListByUser))
	router.GET(versionPrefix+"/packages/:id/bookings", guard.Authenticate(bookings.ListByPackage))

	// public, unauthenticated tracking lookup
	router.GET(versionPrefix+"/track/:code", trackLimiter.Limit(bookings.Track))

	return router
}

func (a *App) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		a.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (a *App) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		a.log.Info("starting server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-shutdown:
		a.log.Info("starting graceful shutdown")
		return a.Shutdown()
	case <-ctx.Done():
		return a.Shutdown()
	}
}

func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if a.db != nil {
		a.db.Close()
	}

	return nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	app := NewApp(cfg, log)
	if err := app.Initialize(ctx); err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal("application error", zap.Error(err))
	}
}
