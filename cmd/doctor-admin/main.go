package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/healthbridge/backend/app"
	"github.com/healthbridge/backend/config"
	"github.com/healthbridge/backend/internal/observability"
	"github.com/healthbridge/backend/models"
	"github.com/healthbridge/backend/services"
	"github.com/spf13/cobra"
)

// doctorAdmin is the part of services.DoctorService the CLI drives
type doctorAdmin interface {
	Register(ctx context.Context, input services.RegisterDoctorInput) (*models.Doctor, error)
	GetProfile(ctx context.Context, id string) (*models.Doctor, error)
}

// connectFunc opens the doctor service and returns a release func for it
type connectFunc func(ctx context.Context) (doctorAdmin, func(), error)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "doctor-admin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(connectService).ExecuteContext(ctx)
}

func newRootCmd(connect connectFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doctor-admin",
		Short: "Provision and inspect doctor accounts",
		Long: `doctor-admin manages the doctors table behind the doctor API.

It reads the same environment as api-server (DATABASE_URL or DB_*,
JWT_DOCTOR_SECRET, LOG_LEVEL) and talks to the database directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		createCmd(connect),
		showCmd(connect),
	)

	return rootCmd
}

// connectService wires the full dependency graph so the CLI writes through
// the same service and repositories as the API
func connectService(ctx context.Context) (doctorAdmin, func(), error) {
	cfg, err := config.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return nil, nil, err
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}

	release := func() {
		_ = deps.Close(context.Background())
	}
	return deps.DoctorService, release, nil
}
