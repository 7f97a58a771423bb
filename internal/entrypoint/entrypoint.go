// Package entrypoint assembles the library API from configuration and runs it.
package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"library-api/internal/config"
	"library-api/internal/covers"
	"library-api/internal/database"
	"library-api/internal/handlers"
	"library-api/internal/logging"
	"library-api/internal/passwords"
	"library-api/internal/repositories"
	"library-api/internal/services"
)

// NewService wires repositories, the cover client and the password hasher
// into a LibraryService.
func NewService(db *gorm.DB, cfg *config.Config) services.LibraryService {
	return services.NewLibraryService(
		db,
		repositories.NewAuthorRepository(db),
		repositories.NewPublisherRepository(db),
		repositories.NewBookRepository(db),
		repositories.NewMemberRepository(db),
		repositories.NewLoanRepository(db),
		covers.NewClient(cfg.Covers.BaseURL, cfg.Covers.Timeout),
		passwords.NewHasher(cfg.Auth.HashPasswords, cfg.Auth.BcryptCost),
	)
}

// NewServer builds the HTTP server for cfg on top of db.
func NewServer(db *gorm.DB, cfg *config.Config, logger *slog.Logger) *http.Server {
	if cfg.Global.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(NewService(db, cfg), handlers.RouterConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Logger:         logger,
		DB:             db,
	})

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
}

// Run opens the database and serves until ctx is cancelled, then shuts the
// server down within the configured timeout.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("error closing database", slog.Any("error", err))
		}
	}()

	if cfg.Covers.BaseURL == "" {
		logger.Warn("BOOK_COVER_BASE_URL is not set, book covers will be empty")
	}

	return Serve(ctx, NewServer(db, cfg, logger), cfg.Global.ShutdownTimeout, logger)
}

// Serve runs srv until ctx is done or the listener fails.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", slog.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server exiting")
	return nil
}

// Migrate creates or upgrades the schema and returns.
func Migrate(cfg *config.Config) error {
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	logger.Info("schema is up to date", slog.String("driver", cfg.Database.Driver))
	return nil
}
