package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/domain/assignments"
	"ems/internal/domain/directory"
	"ems/internal/domain/leave"
	"ems/internal/domain/metrics"
	"ems/internal/domain/projects"
	"ems/internal/domain/reports"
	"ems/internal/domain/timetracking"
	"ems/internal/platform/config"
	"ems/internal/platform/db"
	assignmentshandler "ems/internal/transport/http/handlers/assignments"
	authhandler "ems/internal/transport/http/handlers/auth"
	directoryhandler "ems/internal/transport/http/handlers/directory"
	leavehandler "ems/internal/transport/http/handlers/leave"
	metricshandler "ems/internal/transport/http/handlers/metrics"
	projectshandler "ems/internal/transport/http/handlers/projects"
	reportshandler "ems/internal/transport/http/handlers/reports"
	timehandler "ems/internal/transport/http/handlers/timetracking"
	"ems/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler
}

// New connects the pool, applies migrations and seed data per the config,
// and wires the full router. Tests use it to get a routable application
// without the process lifecycle.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &App{Config: cfg, Pool: pool, Router: buildRouter(cfg, pool)}, nil
}

func (a *App) Close() {
	a.Pool.Close()
}

func buildRouter(cfg config.Config, pool *pgxpool.Pool) http.Handler {
	directoryService := directory.NewService(directory.NewStore(pool))
	projectStore := projects.NewStore(pool)
	assignmentStore := assignments.NewStore(pool)
	metricsService := metrics.NewService(metrics.NewStore(pool))
	timeService := timetracking.NewService(timetracking.NewStore(pool))
	leaveService := leave.NewService(leave.NewStore(pool))
	reportStore := reports.NewStore(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors(cfg.AllowedOrigin))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api", func(r chi.Router) {
		authhandler.NewHandler(directoryService, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		directoryhandler.NewHandler(directoryService).RegisterRoutes(r)
		projectshandler.NewHandler(projectStore, directoryService, metricsService).RegisterRoutes(r)
		assignmentshandler.NewHandler(assignmentStore, directoryService, projectStore, metricsService).RegisterRoutes(r)
		metricshandler.NewHandler(metricsService, directoryService).RegisterRoutes(r)
		timehandler.NewHandler(timeService, directoryService).RegisterRoutes(r)
		leavehandler.NewHandler(leaveService, directoryService).RegisterRoutes(r)
		reportshandler.NewHandler(reportStore).RegisterRoutes(r)
	})

	return router
}

func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("Access-Control-Allow-Origin", origin)
			headers.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			headers.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{Addr: cfg.Addr, Handler: app.Router}

	go func() {
		slog.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
