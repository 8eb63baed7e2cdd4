package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"peoplehub/internal/domain/analytics"
	"peoplehub/internal/domain/announcement"
	"peoplehub/internal/domain/attendance"
	"peoplehub/internal/domain/audit"
	"peoplehub/internal/domain/auth"
	"peoplehub/internal/domain/calendar"
	"peoplehub/internal/domain/employee"
	"peoplehub/internal/domain/expense"
	"peoplehub/internal/domain/leave"
	"peoplehub/internal/domain/notifications"
	"peoplehub/internal/domain/payroll"
	"peoplehub/internal/domain/project"
	"peoplehub/internal/domain/shift"
	"peoplehub/internal/domain/ticket"
	"peoplehub/internal/platform/config"
	"peoplehub/internal/platform/db"
	"peoplehub/internal/platform/docstore"
	"peoplehub/internal/platform/email"
	"peoplehub/internal/platform/jobs"
	"peoplehub/internal/platform/metrics"
	"peoplehub/internal/platform/realtime"
	"peoplehub/internal/platform/storage"
	adminhandler "peoplehub/internal/transport/http/handlers/admin"
	analyticshandler "peoplehub/internal/transport/http/handlers/analytics"
	announcementshandler "peoplehub/internal/transport/http/handlers/announcements"
	attendancehandler "peoplehub/internal/transport/http/handlers/attendance"
	audithandler "peoplehub/internal/transport/http/handlers/audit"
	authhandler "peoplehub/internal/transport/http/handlers/auth"
	calendarhandler "peoplehub/internal/transport/http/handlers/calendar"
	employeeshandler "peoplehub/internal/transport/http/handlers/employees"
	expenseshandler "peoplehub/internal/transport/http/handlers/expenses"
	leavehandler "peoplehub/internal/transport/http/handlers/leave"
	notificationshandler "peoplehub/internal/transport/http/handlers/notifications"
	payrollhandler "peoplehub/internal/transport/http/handlers/payroll"
	projectshandler "peoplehub/internal/transport/http/handlers/projects"
	shiftshandler "peoplehub/internal/transport/http/handlers/shifts"
	ticketshandler "peoplehub/internal/transport/http/handlers/tickets"
	"peoplehub/internal/transport/http/middleware"
	"peoplehub/internal/transport/http/shared"
)

const realtimePrefix = "/api/realtime"

type App struct {
	Config  config.Config
	DB      *db.Pool
	Docs    *docstore.Client
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler
}

// New connects the stores, runs migrations and seed when enabled and builds
// the HTTP router. Background jobs start only with Run.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := shared.TrustProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	files, err := storage.New(cfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	docs, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		slog.Warn("analytics archive disabled", "err", err)
		docs = nil
	}

	collector := metrics.New()
	if !cfg.MetricsEnabled {
		collector = nil
	}
	jobsSvc := jobs.New(pool)
	hub := realtime.NewHub()

	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	auditSvc := audit.New(pool)
	notifySvc := notifications.New(notifications.NewStore(pool), email.New(cfg))
	notifySvc.Pusher = realtime.Publisher{Hub: hub}
	if cfg.EmailFrom != "" {
		notifySvc.DefaultFrom = cfg.EmailFrom
	}
	notifier := &shared.Notifier{Service: notifySvc, Metrics: collector, Concurrent: cfg.NotifyConcurrent}

	employees := employee.NewService(employee.NewStore(pool))
	calendars := calendar.NewService(calendar.NewStore(pool))
	shifts := shift.NewService(shift.NewStore(pool))
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), shifts, calendars)
	expenses := expense.NewService(expense.NewStore(pool))
	payrollSvc := payroll.NewService(payroll.NewStore(pool), employees, attendanceSvc, expenses, files, cfg.PayslipVerifyURL)
	leaveSvc := leave.NewService(leave.NewStore(pool), employees)
	projects := project.NewService(project.NewStore(pool))
	tickets := ticket.NewService(ticket.NewStore(pool), files)
	announcements := announcement.NewService(announcement.NewStore(pool), employees)
	var snapshots *analytics.SnapshotStore
	if docs != nil {
		snapshots = analytics.NewSnapshotStore(docs)
	}
	analyticsSvc := analytics.NewService(analytics.NewStore(pool), snapshots)

	triggers := map[string]jobs.TenantFunc{
		jobs.JobPayrollAutorun:    payrollAutorun(payrollSvc),
		jobs.JobAnalyticsSnapshot: analyticsSvc.MonthlySnapshot,
	}
	jobsSvc.Every(jobs.JobPayrollAutorun, cfg.PayrollAutorunInterval, triggers[jobs.JobPayrollAutorun])
	if snapshots != nil {
		jobsSvc.Every(jobs.JobAnalyticsSnapshot, cfg.AnalyticsSnapshotInterval, triggers[jobs.JobAnalyticsSnapshot])
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Total-Count", "X-Payslip-URL"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	// Auth runs first so the limiters key on the caller rather than the IP.
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(max(cfg.RateLimitPerMinute/10, 5), time.Minute))

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

	authHandler := authhandler.NewHandler(authSvc, auditSvc)
	payrollHandler := payrollhandler.NewHandler(payrollSvc, authSvc, auditSvc, notifier, jobsSvc, middleware.NewIdempotencyStore(pool), collector)

	router.Mount(realtimePrefix, realtime.Handler(realtimePrefix, cfg.JWTSecret, hub, collector))
	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterPublic(r)
		payrollHandler.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			authHandler.RegisterRoutes(r)
			employeeshandler.NewHandler(employees, authSvc, auditSvc, notifier).RegisterRoutes(r)
			calendarhandler.NewHandler(calendars, authSvc, auditSvc).RegisterRoutes(r)
			shiftshandler.NewHandler(shifts, authSvc, auditSvc).RegisterRoutes(r)
			attendancehandler.NewHandler(attendanceSvc, employees, authSvc, auditSvc).RegisterRoutes(r)
			expenseshandler.NewHandler(expenses, authSvc, auditSvc, collector).RegisterRoutes(r)
			payrollHandler.RegisterRoutes(r)
			leavehandler.NewHandler(leaveSvc, employees, authSvc, auditSvc, notifier, collector).RegisterRoutes(r)
			projectshandler.NewHandler(projects, employees, authSvc, auditSvc, notifier).RegisterRoutes(r)
			ticketshandler.NewHandler(tickets, authSvc, auditSvc, notifier).RegisterRoutes(r)
			announcementshandler.NewHandler(announcements, authSvc, auditSvc, notifier).RegisterRoutes(r)
			analyticshandler.NewHandler(analyticsSvc, authSvc, auditSvc, collector).RegisterRoutes(r)
			notificationshandler.NewHandler(notifySvc, authSvc, auditSvc).RegisterRoutes(r)
			audithandler.NewHandler(auditSvc, authSvc).RegisterRoutes(r)
			adminhandler.NewHandler(collector, jobsSvc, triggers, authSvc, auditSvc).RegisterRoutes(r)
		})
	})

	if info, err := os.Stat(cfg.FrontendDir); err == nil && info.IsDir() {
		router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	}

	return &App{
		Config:  cfg,
		DB:      pool,
		Docs:    docs,
		Jobs:    jobsSvc,
		Metrics: collector,
		Router:  otelhttp.NewHandler(router, cfg.OTELServiceName),
	}, nil
}

// payrollAutorun generates the previous month's payroll for every active employee.
func payrollAutorun(svc *payroll.Service) jobs.TenantFunc {
	return func(ctx context.Context, tenantID string) (any, error) {
		prev := time.Now().UTC().AddDate(0, -1, 0)
		return svc.GenerateBulk(ctx, tenantID, "", int(prev.Month()), prev.Year(), false)
	}
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Docs.Close(ctx); err != nil {
		slog.Warn("mongo disconnect failed", "err", err)
	}
	a.DB.Close()
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
