package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/core/services"
	"github.com/taskboard/backend/internal/infrastructure/db"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/infrastructure/metrics"
	transporthttp "github.com/taskboard/backend/internal/transport/http"
	httpmw "github.com/taskboard/backend/internal/transport/http/middleware"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "taskboard",
	Short:         "Kanban task board backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		database, err := db.NewConnection(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close(database)

		if err := db.RunMigrations(database); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Infow("database migrations completed", "driver", cfg.Database.Driver)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default config/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	path := "config/config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "../config/config.yaml"
	}
	return path
}

func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func serve(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	database, err := db.NewConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Infow("database connection established", "driver", cfg.Database.Driver)

	if err := db.RunMigrations(database); err != nil {
		_ = db.Close(database)
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations completed")

	tags := db.NewTagRegistry(database)
	taskService := services.NewTaskService(services.TaskServiceConfig{
		Tasks:   db.NewTaskRepository(database, tags),
		Tags:    tags,
		Timeout: cfg.Database.StatementTimeout,
	})

	var m *metrics.Metrics
	if cfg.Features.EnableMetrics {
		m = metrics.New()
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		ErrorHandler:          transporthttp.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.Auth.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Admin-Token, " + cfg.Features.RequestIDHeader,
		AllowMethods: "GET, POST, HEAD, DELETE, PATCH",
	}))

	app.Use(httpmw.RequestID(cfg.Features.RequestIDHeader))
	if m != nil {
		app.Use(httpmw.Instrument(m))
	}
	if cfg.Features.EnableRequestLogging {
		app.Use(httpmw.AccessLog(log))
	}

	transporthttp.SetupRoutes(app, transporthttp.RouterConfig{
		Service: taskService,
		Logger:  log,
		Metrics: m,
		Config:  cfg,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Address())
	}()
	log.Infof("server started on %s", cfg.Server.Address())

	select {
	case err := <-errCh:
		_ = db.Close(database)
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	gracefulShutdown(app, database, log)
	return nil
}

func gracefulShutdown(app *fiber.App, database *gorm.DB, log *logger.Logger) {
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	if err := db.Close(database); err != nil {
		log.Errorf("failed to close database connection: %v", err)
	}

	log.Info("server exited gracefully")
}
