package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sewasangat/attendance/cmd/server/commands"
	"github.com/sewasangat/attendance/internal/config"
	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/postgres"
	"github.com/sewasangat/attendance/pkg/utils/logging"
)

var (
	configPath string

	// Commands capture this pointer at registration time; initApp fills it in
	// before any RunE executes.
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Sewa Sangat Attendance - sewadar records and attendance tracking",
		Long:  `The attendance server: sewadar imports, event scheduling, and attendance submission for an area's sewa centers.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Database != nil {
					app.Database.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: sewa_config.yaml)")

	// Add all commands
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.MigrateCmd(app))
	rootCmd.AddCommand(commands.ImportCmd(app))
	rootCmd.AddCommand(commands.CreateAdminCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database, and the job store
func initApp() error {
	var err error
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger("server")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application")

	// Load configuration
	app.Logger.Info("Loading configuration")
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Connect to Postgres
	app.Logger.Info("Connecting to database")
	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Logger.Info("Database connected successfully")

	// Import jobs live in memory; they do not survive a restart
	app.Jobs = importer.NewMemoryJobStore()

	return nil
}
