package announcement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for announcements.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new announcement store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const announcementColumns = `id, title, body, priority, active, publish_date,
	expiry_date, created_by, created_at, updated_at`

// priorityRankSQL mirrors PriorityRank for in-store ordering. The ELSE arm
// covers unknown priorities the same way the Go mapping does.
const priorityRankSQL = `CASE priority
	WHEN 'urgent' THEN 0
	WHEN 'high' THEN 1
	WHEN 'low' THEN 3
	ELSE 2 END`

func scanAnnouncement(row pgx.Row) (*Announcement, error) {
	a := &Announcement{}
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Body,
		&a.Priority,
		&a.Active,
		&a.PublishDate,
		&a.ExpiryDate,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new announcement and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Announcement, error) {
	priority := in.Priority
	if priority == "" {
		priority = PriorityNormal
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	publishDate := time.Now().UTC()
	if in.PublishDate != nil {
		publishDate = *in.PublishDate
	}

	query := fmt.Sprintf(`INSERT INTO announcements
		(title, body, priority, active, publish_date, expiry_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, announcementColumns)

	a, err := scanAnnouncement(s.pool.QueryRow(ctx, query,
		in.Title, in.Body, priority, active, publishDate, in.ExpiryDate, in.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("creating announcement: %w", err)
	}
	return a, nil
}

// GetByID retrieves an announcement by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Announcement, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcements WHERE id = $1`, announcementColumns)
	return scanAnnouncement(s.pool.QueryRow(ctx, query, id))
}

// List returns a filtered page of announcements in display order, plus the
// total count matching the filters.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Announcement, int, error) {
	var whereClauses []string
	var args []any
	argIdx := 1

	if params.ActiveOnly {
		whereClauses = append(whereClauses, "active = true")
	}
	if params.Priority != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, params.Priority)
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM announcements %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting announcements: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT %s FROM announcements %s ORDER BY %s ASC, publish_date DESC LIMIT $%d OFFSET $%d`,
		announcementColumns, where, priorityRankSQL, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning announcement row: %w", err)
		}
		announcements = append(announcements, a)
	}
	return announcements, total, rows.Err()
}

// Update performs a partial update on the announcement with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Announcement, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Body != nil {
		setClauses = append(setClauses, fmt.Sprintf("body = $%d", argIdx))
		args = append(args, *in.Body)
		argIdx++
	}
	if in.Priority != nil {
		setClauses = append(setClauses, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, *in.Priority)
		argIdx++
	}
	if in.Active != nil {
		setClauses = append(setClauses, fmt.Sprintf("active = $%d", argIdx))
		args = append(args, *in.Active)
		argIdx++
	}
	if in.PublishDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("publish_date = $%d", argIdx))
		args = append(args, *in.PublishDate)
		argIdx++
	}
	if in.ExpiryDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("expiry_date = $%d", argIdx))
		args = append(args, *in.ExpiryDate)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE announcements SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, announcementColumns)

	return scanAnnouncement(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes an announcement by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting announcement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
