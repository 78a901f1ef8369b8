package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/clubworks/clubd/internal/account"
	"github.com/clubworks/clubd/internal/announcement"
	"github.com/clubworks/clubd/internal/auth"
	"github.com/clubworks/clubd/internal/config"
	"github.com/clubworks/clubd/internal/event"
	"github.com/clubworks/clubd/internal/leadership"
	"github.com/clubworks/clubd/internal/news"
	"github.com/clubworks/clubd/internal/settings"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default super admin and sample content",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	accounts := account.NewStore(pool)

	// Seeding is idempotent: rerunning never duplicates the admin or resets
	// its password.
	if _, err := accounts.GetByLogin(ctx, "admin"); err == nil {
		slog.Info("super admin already exists, skipping account seed")
	} else if errors.Is(err, pgx.ErrNoRows) {
		admin, err := accounts.Create(ctx, account.CreateInput{
			Username:  "admin",
			Email:     "admin@club.local",
			Password:  "admin123",
			FirstName: "Site",
			LastName:  "Admin",
			Role:      auth.RoleSuperAdmin,
			Status:    auth.StatusActive,
		})
		if err != nil {
			return err
		}
		slog.Info("seeded super admin", "id", admin.ID, "username", admin.Username)
		slog.Warn("default credentials are admin/admin123, change them immediately")
	} else {
		return err
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM announcements`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		slog.Info("sample content already present, skipping")
		return nil
	}

	announcements := announcement.NewStore(pool)
	if _, err := announcements.Create(ctx, announcement.CreateInput{
		Title:    "Welcome to the club site",
		Body:     "The new club site is live. Check the events page for upcoming activities.",
		Priority: announcement.PriorityHigh,
	}); err != nil {
		return err
	}

	events := event.NewStore(pool)
	if _, err := events.Create(ctx, event.CreateInput{
		Title:       "Monthly general meeting",
		Description: "Open to all members. Agenda will be posted a week in advance.",
		Location:    "Community hall",
		Category:    "meeting",
		EventDate:   time.Now().AddDate(0, 0, 14),
	}); err != nil {
		return err
	}

	posts := news.NewStore(pool)
	if _, err := posts.Create(ctx, news.CreateInput{
		Title:     "Site launched",
		Body:      "Our club now has an online home. News, events and announcements will be posted here.",
		Category:  "general",
		Published: true,
	}); err != nil {
		return err
	}

	positions := leadership.NewStore(pool)
	if _, err := positions.Create(ctx, leadership.CreateInput{
		Name:         "To be announced",
		Title:        "Chairperson",
		DisplayOrder: 1,
	}); err != nil {
		return err
	}

	siteSettings := settings.NewStore(pool, nil)
	for key, value := range map[string]string{
		"site_name":     "Club Site",
		"contact_email": "info@club.local",
	} {
		if _, err := siteSettings.Upsert(ctx, settings.UpsertInput{Key: key, Value: value}, "seed"); err != nil {
			return err
		}
	}

	for _, f := range []settings.FlagInput{
		{Name: "news_comments", Enabled: true, Description: "Allow comments on news posts"},
		{Name: "member_registration", Enabled: true, Description: "Allow public member registration"},
	} {
		if _, err := siteSettings.CreateFlag(ctx, f, "seed"); err != nil {
			return err
		}
	}

	slog.Info("seeded sample content")
	return nil
}
