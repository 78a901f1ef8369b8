package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for events.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new event store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const eventColumns = `id, title, description, location, category, status,
	event_date, photo_path, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	e := &Event{}
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Location,
		&e.Category,
		&e.Status,
		&e.EventDate,
		&e.PhotoPath,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts a new event and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Event, error) {
	status := in.Status
	if status == "" {
		status = "upcoming"
	}

	query := fmt.Sprintf(`INSERT INTO events
		(title, description, location, category, status, event_date, photo_path, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, eventColumns)

	e, err := scanEvent(s.pool.QueryRow(ctx, query,
		in.Title, in.Description, in.Location, in.Category, status,
		in.EventDate, in.PhotoPath, in.CreatedBy))
	if err != nil {
		return nil, fmt.Errorf("creating event: %w", err)
	}
	return e, nil
}

// GetByID retrieves an event by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	return scanEvent(s.pool.QueryRow(ctx, query, id))
}

// List returns a filtered page of events ordered by event_date DESC, plus the
// total count matching the filters.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Event, int, error) {
	var whereClauses []string
	var args []any
	argIdx := 1

	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}
	if params.Category != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, params.Category)
		argIdx++
	}
	if params.Query != "" {
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Query+"%")
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM events %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting events: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM events %s ORDER BY event_date DESC LIMIT $%d OFFSET $%d`,
		eventColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

// Update performs a partial update on the event with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Event, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", argIdx))
		args = append(args, *in.Title)
		argIdx++
	}
	if in.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *in.Description)
		argIdx++
	}
	if in.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", argIdx))
		args = append(args, *in.Location)
		argIdx++
	}
	if in.Category != nil {
		setClauses = append(setClauses, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, *in.Category)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
	}
	if in.EventDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("event_date = $%d", argIdx))
		args = append(args, *in.EventDate)
		argIdx++
	}
	if in.PhotoPath != nil {
		setClauses = append(setClauses, fmt.Sprintf("photo_path = $%d", argIdx))
		args = append(args, *in.PhotoPath)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, eventColumns)

	return scanEvent(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes an event by id and returns the stored photo path so the
// caller can remove the file from disk.
func (s *Store) Delete(ctx context.Context, id string) (string, error) {
	var photoPath string
	err := s.pool.QueryRow(ctx,
		`DELETE FROM events WHERE id = $1 RETURNING photo_path`, id).Scan(&photoPath)
	if err != nil {
		return "", err
	}
	return photoPath, nil
}
