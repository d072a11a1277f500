package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alphabot-ai/skillswap/internal/auth"
	"github.com/alphabot-ai/skillswap/internal/config"
	httpapp "github.com/alphabot-ai/skillswap/internal/http"
	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/rate"
	"github.com/alphabot-ai/skillswap/internal/store"
	"github.com/alphabot-ai/skillswap/internal/store/postgres"
	"github.com/alphabot-ai/skillswap/internal/store/sqlite"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})).With("service", "skillswap")
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.Open(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	default:
		return sqlite.Open(cfg.DBPath)
	}
}

func newLimiter(cfg config.Config, logger *slog.Logger) (rate.Limiter, func(), error) {
	if cfg.RedisURL == "" {
		return rate.NewMemory(), func() {}, nil
	}
	client, err := rate.Connect(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return rate.NewRedis(client, logger), func() { _ = client.Close() }, nil
}

// schedulePurge drops expired challenges and tokens on cfg.PurgeSchedule.
func schedulePurge(authSvc *auth.Service, spec string, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := authSvc.Purge(ctx)
		if err != nil {
			logger.Error("auth purge failed", "operation", "auth_purge", "outcome", "failure", "error", err.Error())
			return
		}
		logger.Info("auth purge completed", "operation", "auth_purge", "outcome", "success", "purged", n)
	})
	if err != nil {
		return nil, fmt.Errorf("purge schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

func serveAction(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if cfg.TokenSecret == config.DefaultTokenSecret {
		logger.Warn("using the default token secret; set SKILLSWAP_TOKEN_SECRET",
			"operation", "serve",
			"db_driver", cfg.DBDriver,
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	limiter, closeLimiter, err := newLimiter(cfg, logger)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	defer closeLimiter()

	authSvc := auth.NewService(st, cfg.TokenSecret, cfg.TokenTTL, cfg.ChallengeTTL)
	purger, err := schedulePurge(authSvc, cfg.PurgeSchedule, logger)
	if err != nil {
		return err
	}
	defer func() { <-purger.Stop().Done() }()

	server := httpapp.NewServer(st, authSvc, limiter, cfg, logger)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("skillswap listening", "addr", cfg.Addr, "db_driver", cfg.DBDriver, "version", httpapp.Version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func promoteAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: skillswap promote <account-id>", 1)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(c.Args().First()), 10, 64)
	if err != nil {
		return cli.Exit("account id must be a number", 1)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStore(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	role := model.RoleAdmin
	if c.Bool("revoke") {
		role = model.RoleUser
	}
	if err := st.SetAccountRole(c.Context, id, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return cli.Exit(fmt.Sprintf("account %d not found", id), 1)
		}
		return err
	}
	fmt.Printf("✓ Account %d is now %s\n", id, role)
	return nil
}
