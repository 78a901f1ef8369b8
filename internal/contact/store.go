package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for contact messages.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new contact store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const messageColumns = `id, name, email, phone, subject, body, status,
	reply, replied_by, replied_at, created_at, updated_at`

func scanMessage(row pgx.Row) (*Message, error) {
	m := &Message{}
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Phone,
		&m.Subject,
		&m.Body,
		&m.Status,
		&m.Reply,
		&m.RepliedBy,
		&m.RepliedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new message with status "new" and returns the full row.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Message, error) {
	query := fmt.Sprintf(`INSERT INTO contact_messages
		(name, email, phone, subject, body, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, messageColumns)

	m, err := scanMessage(s.pool.QueryRow(ctx, query,
		in.Name, in.Email, in.Phone, in.Subject, in.Body, StatusNew))
	if err != nil {
		return nil, fmt.Errorf("creating contact message: %w", err)
	}
	return m, nil
}

// GetByID retrieves a message by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM contact_messages WHERE id = $1`, messageColumns)
	return scanMessage(s.pool.QueryRow(ctx, query, id))
}

// List returns a filtered page of messages ordered newest first, plus the
// total count matching the filters and the count of unhandled messages.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Message, int, error) {
	var whereClauses []string
	var args []any
	argIdx := 1

	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}
	if params.Query != "" {
		whereClauses = append(whereClauses,
			fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR subject ILIKE $%d)",
				argIdx, argIdx, argIdx))
		args = append(args, "%"+params.Query+"%")
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT count(*) FROM contact_messages %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting contact messages: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(
		`SELECT %s FROM contact_messages %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		messageColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning contact row: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, total, rows.Err()
}

// CountNew returns the number of unhandled messages.
func (s *Store) CountNew(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM contact_messages WHERE status = $1`, StatusNew).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting new messages: %w", err)
	}
	return count, nil
}

// UpdateStatus changes only the workflow status of a message. The submitted
// content is never touched by status transitions.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (*Message, error) {
	query := fmt.Sprintf(`UPDATE contact_messages
		SET status = $1, updated_at = $2
		WHERE id = $3
		RETURNING %s`, messageColumns)

	return scanMessage(s.pool.QueryRow(ctx, query, status, time.Now().UTC(), id))
}

// Reply records a staff reply and moves the message to "replied".
func (s *Store) Reply(ctx context.Context, id, reply, repliedBy string) (*Message, error) {
	now := time.Now().UTC()
	query := fmt.Sprintf(`UPDATE contact_messages
		SET reply = $1, replied_by = $2, replied_at = $3, status = $4, updated_at = $3
		WHERE id = $5
		RETURNING %s`, messageColumns)

	return scanMessage(s.pool.QueryRow(ctx, query, reply, repliedBy, now, StatusReplied, id))
}

// Delete removes a message by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
