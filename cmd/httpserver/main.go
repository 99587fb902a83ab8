package main

import (
	"context"
	"errors"
	"fmt"
	"moviecatalog/auth"
	"moviecatalog/bootstrap"
	"moviecatalog/httpserver"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	pkgjwt "moviecatalog/pkg/jwt"
	"moviecatalog/pkg/logger"
	"moviecatalog/pkg/password"
	"moviecatalog/pkg/sentry"
	"moviecatalog/storage"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{AppEnv: cfg.AppEnv, Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		sentrygo.Flush(sentry.FlushTime)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	err := sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	if cfg.Auth.AdminEmail == "" {
		log.Warn("ADMIN_EMAIL is not set, admin login is disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Warn("close stores", zap.Error(err))
		}
	}()

	posters, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.Prefix)
	if err != nil {
		return err
	}

	server := httpserver.Default(cfg)
	server.Addr = fmt.Sprintf(":%d", cfg.Port)
	server.Logger = log
	server.Posters = posters
	server.MovieService = movie.NewUsecase(stores.Movies, movie.NewPosterDecorator(publicBaseURL(cfg)))
	server.AuthService = auth.NewUsecase(
		auth.Credentials{Email: cfg.Auth.AdminEmail, PasswordHash: cfg.Auth.AdminPasswordHash},
		stores.LoginAttempts,
		password.NewBcryptHasher(bcrypt.DefaultCost),
		pkgjwt.NewJWTProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", server.Addr), zap.String("db_driver", cfg.DB.Driver))
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// publicBaseURL is prepended to stored poster paths. It defaults to the
// local listen address.
func publicBaseURL(cfg *config.Config) string {
	base := cfg.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return strings.TrimRight(base, "/") + "/"
}
