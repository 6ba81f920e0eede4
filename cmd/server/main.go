package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-society/auth"
	"github.com/diewo77/go-society/internal/config"
	"github.com/diewo77/go-society/internal/db"
	"github.com/diewo77/go-society/internal/logging"
	"github.com/diewo77/go-society/internal/models"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "society",
		Short: "Society management API",
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, initializes logging and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	logging.Init(cfg.App.Name, cfg.App.LogLevel)
	conn, err := db.Connect(cfg.Database, cfg.App.Dev)
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			logging.Logger.Info("Migrations completed successfully")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo society and accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			return db.Seed(conn)
		},
	}
}

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap()
			if err != nil {
				return err
			}
			if migrate || cfg.App.Migrations {
				if err := db.Migrate(conn); err != nil {
					return err
				}
				logging.Logger.Info("Migrations completed")
			}
			return serve(cfg, conn)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before serving")
	return cmd
}

func serve(cfg *config.Config, conn *gorm.DB) error {
	// Sessions of deleted users are rejected.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		conn.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	routerCfg := NewRouterConfig(conn, cfg.App)
	app := NewApp(routerCfg)

	sweep, err := startOverdueSweep(cfg.App.OverdueSweepSchedule, routerCfg.PaymentService)
	if err != nil {
		return fmt.Errorf("schedule overdue sweep: %w", err)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      co.Handler(app),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Logger.Infof("Server starting on port %s (dev=%v)", cfg.Server.Port, cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		logging.Logger.Info("Shutdown signal received")
	}

	if sweep != nil {
		<-sweep.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.WithError(err).Error("Error during shutdown")
	}
	logging.Logger.Info("Server stopped gracefully")
	return nil
}
