package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/clubworks/clubd/internal/account"
	"github.com/clubworks/clubd/internal/announcement"
	"github.com/clubworks/clubd/internal/api"
	"github.com/clubworks/clubd/internal/config"
	"github.com/clubworks/clubd/internal/contact"
	"github.com/clubworks/clubd/internal/crypto"
	"github.com/clubworks/clubd/internal/event"
	"github.com/clubworks/clubd/internal/gallery"
	"github.com/clubworks/clubd/internal/leadership"
	"github.com/clubworks/clubd/internal/member"
	"github.com/clubworks/clubd/internal/metrics"
	"github.com/clubworks/clubd/internal/news"
	"github.com/clubworks/clubd/internal/ratelimit"
	"github.com/clubworks/clubd/internal/report"
	"github.com/clubworks/clubd/internal/resource"
	"github.com/clubworks/clubd/internal/settings"
	"github.com/clubworks/clubd/internal/stats"
	"github.com/clubworks/clubd/internal/token"
	"github.com/clubworks/clubd/internal/upload"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the clubd server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	issuer, err := token.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("configuring token issuer: %w", err)
	}

	cipher, err := crypto.New(cfg.Auth.SettingsKey)
	if err != nil {
		return fmt.Errorf("configuring settings cipher: %w", err)
	}

	saver, err := upload.NewSaver(cfg.Uploads.Dir, cfg.Uploads.MaxImageSize, cfg.Uploads.MaxMediaSize)
	if err != nil {
		return fmt.Errorf("preparing uploads directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		st := pool.Stat()
		return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
	})

	router := api.NewRouter(api.RouterDeps{
		Accounts:      account.NewStore(pool),
		MemberStore:   member.NewStore(pool),
		Issuer:        issuer,
		LoginLimiter:  ratelimit.New(cfg.LoginLimit.Attempts, cfg.LoginLimit.Window),
		Metrics:       m,
		Uploads:       saver,
		CORSOrigins:   cfg.CORS.AllowedOrigins,
		Stats:         stats.NewService(pool),
		EventStore:    event.NewStore(pool),
		NewsStore:     news.NewStore(pool),
		Announcements: announcement.NewStore(pool),
		Gallery:       gallery.NewStore(pool),
		Leadership:    leadership.NewStore(pool),
		Resources:     resource.NewStore(pool),
		Reports:       report.NewStore(pool),
		Contacts:      contact.NewStore(pool),
		Settings:      settings.NewStore(pool, cipher),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
