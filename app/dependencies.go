package app

import (
	"context"
	"fmt"

	"github.com/healthbridge/backend/config"
	"github.com/healthbridge/backend/internal/observability"
	"github.com/healthbridge/backend/middleware"
	"github.com/healthbridge/backend/repositories"
	"github.com/healthbridge/backend/repositories/postgres"
	"github.com/healthbridge/backend/services"
	"github.com/healthbridge/backend/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Doctors   repositories.DoctorRepository
	TxManager repositories.TransactionManager

	// Metrics
	Registry    *prometheus.Registry
	AuthMetrics *observability.AuthMetrics

	// Auth
	Verifier   *token.HMACVerifier
	DoctorGate *middleware.DoctorGate

	// Services
	DoctorService *services.DoctorService
}

// NewDependencies connects to the database and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := NewDependenciesWithFactory(ctx, cfg, logger, factory)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesWithFactory wires dependencies around an already opened pool
func NewDependenciesWithFactory(ctx context.Context, cfg *config.Config, logger *zap.Logger, factory *postgres.RepositoryFactory) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initMetrics()

	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	deps.DoctorService = services.NewDoctorService(deps.Doctors, deps.TxManager, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase checks the pool and optionally creates the schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if cfg.Database.InitSchema {
		if err := d.RepoFactory.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
		d.Logger.Info("database schema initialized")
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))
	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Doctors = repos.Doctors
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initMetrics builds a private registry so tests can create several Dependencies
func (d *Dependencies) initMetrics() {
	d.Registry = prometheus.NewRegistry()
	d.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	d.AuthMetrics = observability.NewAuthMetrics(d.Registry)
}

// initAuth builds the verifier from the configured secret and the gate around it
func (d *Dependencies) initAuth(cfg *config.Config) error {
	verifier, err := token.NewHMACVerifier(token.Config{
		Secret: cfg.Auth.DoctorSecret,
		Issuer: cfg.Auth.Issuer,
		Leeway: cfg.Auth.Leeway,
	})
	if err != nil {
		return err
	}

	d.Verifier = verifier
	d.DoctorGate = middleware.NewDoctorGate(verifier, d.Doctors, d.Logger, d.AuthMetrics,
		middleware.WithCookieName(cfg.Auth.CookieName))

	d.Logger.Info("doctor gate initialized", zap.String("cookie", cfg.Auth.CookieName))
	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
