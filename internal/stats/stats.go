package stats

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Summary is the dashboard overview: entity counts plus attention flags.
type Summary struct {
	Members       int `json:"members"`
	ActiveMembers int `json:"activeMembers"`
	Events        int `json:"events"`
	NewsPosts     int `json:"newsPosts"`
	Announcements int `json:"announcements"`
	GalleryItems  int `json:"galleryItems"`
	Resources     int `json:"resources"`
	Reports       int `json:"reports"`
	NewMessages   int `json:"newMessages"`
	Accounts      int `json:"accounts"`
}

// Service computes dashboard statistics directly against the pool. The counts
// run concurrently since none depends on another.
type Service struct {
	pool *pgxpool.Pool
}

// NewService creates a stats service backed by the given connection pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

func (s *Service) count(ctx context.Context, query string, dst *int, args ...any) func() error {
	return func() error {
		if err := s.pool.QueryRow(ctx, query, args...).Scan(dst); err != nil {
			return fmt.Errorf("stats query %q: %w", query, err)
		}
		return nil
	}
}

// Summarize gathers all dashboard counts. A failure in any count fails the
// whole summary.
func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	sum := &Summary{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(s.count(ctx, `SELECT count(*) FROM members`, &sum.Members))
	g.Go(s.count(ctx, `SELECT count(*) FROM members WHERE status = 'active'`, &sum.ActiveMembers))
	g.Go(s.count(ctx, `SELECT count(*) FROM events`, &sum.Events))
	g.Go(s.count(ctx, `SELECT count(*) FROM news`, &sum.NewsPosts))
	g.Go(s.count(ctx, `SELECT count(*) FROM announcements WHERE active = true`, &sum.Announcements))
	g.Go(s.count(ctx, `SELECT count(*) FROM gallery_items`, &sum.GalleryItems))
	g.Go(s.count(ctx, `SELECT count(*) FROM resources`, &sum.Resources))
	g.Go(s.count(ctx, `SELECT count(*) FROM reports`, &sum.Reports))
	g.Go(s.count(ctx, `SELECT count(*) FROM contact_messages WHERE status = 'new'`, &sum.NewMessages))
	g.Go(s.count(ctx, `SELECT count(*) FROM accounts`, &sum.Accounts))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sum, nil
}
