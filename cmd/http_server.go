package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/auth"
	authPostgres "github.com/frahmantamala/sales-crm/internal/auth/postgres"
	"github.com/frahmantamala/sales-crm/internal/cohort"
	cohortPostgres "github.com/frahmantamala/sales-crm/internal/cohort/postgres"
	"github.com/frahmantamala/sales-crm/internal/core/events"
	"github.com/frahmantamala/sales-crm/internal/emi"
	emiPostgres "github.com/frahmantamala/sales-crm/internal/emi/postgres"
	"github.com/frahmantamala/sales-crm/internal/enrollment"
	enrollmentPostgres "github.com/frahmantamala/sales-crm/internal/enrollment/postgres"
	"github.com/frahmantamala/sales-crm/internal/member"
	memberPostgres "github.com/frahmantamala/sales-crm/internal/member/postgres"
	"github.com/frahmantamala/sales-crm/internal/observability"
	"github.com/frahmantamala/sales-crm/internal/organization"
	organizationPostgres "github.com/frahmantamala/sales-crm/internal/organization/postgres"
	"github.com/frahmantamala/sales-crm/internal/transport"
	"github.com/frahmantamala/sales-crm/internal/transport/rest"
	"github.com/frahmantamala/sales-crm/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
	cancel   context.CancelFunc
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.cancel()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight event handlers finish before the pool goes away
		deps.EventBus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logging := config.Observability.Logging
	logger.Configure(os.Stdout, logging.Level, logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := events.NewEventBus(lg)
	events.SubscribeAuditLog(bus, lg)

	var metrics *observability.Metrics
	metricsPath := ""
	if config.Observability.Metrics.Enabled {
		metrics = observability.NewMetrics()
		metricsPath = config.Observability.Metrics.Path
	}

	routes := access.DefaultRoutes()
	base := transport.NewBaseHandler(lg)

	orgService := organization.NewService(organizationPostgres.NewOrganizationRepository(gormDB), bus, config.Organization.DefaultTimezone, lg)
	cohortService := cohort.NewService(cohortPostgres.NewCohortRepository(gormDB), lg)
	memberService := member.NewService(memberPostgres.NewMemberRepository(gormDB), cohortService, routes, lg)
	enrollmentService := enrollment.NewService(enrollmentPostgres.NewEnrollmentRepository(gormDB), cohortService, orgService, bus, metrics, lg)
	emiService := emi.NewService(emiPostgres.NewEMIRepository(gormDB), bus, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen, orgService, lg)

	rateLimit := config.RateLimit
	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		DB: db,
		Handlers: rest.Handlers{
			Auth:         auth.NewHandler(authService, lg),
			Member:       member.NewHandler(base, memberService),
			Organization: organization.NewHandler(base, orgService),
			Cohort:       cohort.NewHandler(base, cohortService),
			Enrollment:   enrollment.NewHandler(base, enrollmentService),
			EMI:          emi.NewHandler(base, emiService),
		},
		RBAC:           auth.NewRBACAuthorization(auth.NewPermissionChecker(routes, lg), metrics, lg),
		LoginLimiter:   auth.NewLoginLimiter(ctx, rateLimit.LoginPerSecond, rateLimit.LoginBurst, rateLimit.EvictAfter),
		Metrics:        metrics,
		MetricsPath:    metricsPath,
		AllowedOrigins: config.Server.AllowedOrigins,
		Logger:         lg,
	})

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gormDB,
		EventBus: bus,
		Router:   router,
		Logger:   lg,
		cancel:   cancel,
	}, nil
}

// initDB opens the pgx-backed pool shared by sqlx and gorm.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
