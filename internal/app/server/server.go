package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"

	"kiwihr/internal/domain/audit"
	"kiwihr/internal/domain/auth"
	"kiwihr/internal/domain/core"
	"kiwihr/internal/domain/leave"
	"kiwihr/internal/domain/payroll"
	"kiwihr/internal/domain/reports"
	"kiwihr/internal/platform/config"
	cryptoutil "kiwihr/internal/platform/crypto"
	"kiwihr/internal/platform/db"
	"kiwihr/internal/platform/metrics"
	"kiwihr/internal/platform/requestctx"
	"kiwihr/internal/transport/http/api"
	authhandler "kiwihr/internal/transport/http/handlers/auth"
	compliancehandler "kiwihr/internal/transport/http/handlers/compliance"
	corehandler "kiwihr/internal/transport/http/handlers/core"
	leavehandler "kiwihr/internal/transport/http/handlers/leave"
	payrollhandler "kiwihr/internal/transport/http/handlers/payroll"
	reportshandler "kiwihr/internal/transport/http/handlers/reports"
	"kiwihr/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Auth    *auth.Service
	Metrics *metrics.Collector
	Router  http.Handler
}

// New wires the full application: config, database, demo accounts, session
// service and the guarded router. The caller owns the pool's lifetime.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cryptoService, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("crypto init: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	accounts, err := auth.DemoAccounts()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("demo accounts: %w", err)
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, accounts); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	sessions := auth.NewSessionStore(cfg.SessionTTL)
	authService := auth.NewService(accounts, sessions, cryptoService, cfg.JWTSecret, cfg.SessionTTL)

	collector := metrics.New()
	app := &App{
		Config:  cfg,
		DB:      pool,
		Auth:    authService,
		Metrics: collector,
	}
	app.Router = app.buildRouter(cryptoService, collector)
	return app, nil
}

func (a *App) buildRouter(cryptoService *cryptoutil.Service, collector *metrics.Collector) http.Handler {
	coreStore := core.NewStore(a.DB, cryptoService)
	leaveStore := leave.NewStore(a.DB)
	payrollStore := payroll.NewStore(a.DB, cryptoService)
	payrollService := payroll.NewService(payrollStore, coreStore)
	auditService := audit.New(a.DB)
	reportsService := reports.NewService(coreStore, leaveStore, payrollStore)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))
	router.Use(httprate.LimitByIP(a.Config.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(a.Auth))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Config.MetricsEnabled {
		router.Group(func(r chi.Router) {
			r.Use(middleware.RequireAnyRole(auth.RoleSuperAdmin))
			r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
				api.Success(w, collector.Snapshot(), requestctx.GetRequestID(req.Context()))
			})
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(a.Auth)
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuthenticated)

			authHandler.RegisterRoutes(r)
			corehandler.NewHandler(coreStore, auditService).RegisterRoutes(r)
			leavehandler.NewHandler(leaveStore, auditService).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollService, coreStore, auditService).RegisterRoutes(r)
			compliancehandler.NewHandler(auditService).RegisterRoutes(r)
			reportshandler.NewHandler(reportsService).RegisterRoutes(r)
		})
	})

	return router
}

func Run() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.DB.Close()

	log.Printf("KiwiHR server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
