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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/japanesestudent/learning-summary/docs"
	"github.com/japanesestudent/learning-summary/internal/auth/middleware"
	"github.com/japanesestudent/learning-summary/internal/auth/service"
	"github.com/japanesestudent/learning-summary/internal/config"
	"github.com/japanesestudent/learning-summary/internal/database"
	"github.com/japanesestudent/learning-summary/internal/handlers"
	"github.com/japanesestudent/learning-summary/internal/logger"
	loggerMiddleware "github.com/japanesestudent/learning-summary/internal/logger/middleware"
	"github.com/japanesestudent/learning-summary/internal/middlewares"
	"github.com/japanesestudent/learning-summary/internal/repositories"
	"github.com/japanesestudent/learning-summary/internal/services"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting JapaneseStudent Learning Summary Service",
		zap.String("db_driver", cfg.Database.Driver),
	)

	// Connect to database
	db, err := database.Connect(ctx, cfg, logger.Logger)
	if err != nil {
		logger.Logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      newRouter(cfg, db, logger.Logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal or server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			logger.Logger.Error("Server failed to start", zap.Error(err))
			return err
		}
		return nil
	case <-quit:
	}

	logger.Logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Logger.Info("Server exited")
	return nil
}

// newRouter builds the HTTP router with the shared middleware chain and all API routes
func newRouter(cfg *config.Config, db *sqlx.DB, log *zap.Logger) chi.Router {
	// Initialize JWT token validation
	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	authMiddleware := middleware.AuthMiddleware(middleware.NewTokenResolver(tokenGenerator))

	learningDataRepo := repositories.NewLearningDataRepository(db, log)
	summaryService := services.NewSummaryService(learningDataRepo)
	summaryHandler := handlers.NewSummaryHandler(summaryService, log)

	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(log))
	r.Use(middlewares.RecoveryMiddleware(log))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.Server.RateLimitPerMinute, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(middlewares.DefaultMaxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		summaryHandler.RegisterRoutes(r, authMiddleware)
	})

	return r
}
