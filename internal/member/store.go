package member

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for the member roster.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new member store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const memberColumns = `id, full_name, email, phone, occupation, status,
	joined_at, created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID,
		&m.FullName,
		&m.Email,
		&m.Phone,
		&m.Occupation,
		&m.Status,
		&m.JoinedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new member. Duplicate emails are rejected by the unique
// index on members.email; the check-then-insert race the handler's pre-check
// leaves open is closed at the storage layer.
func (s *Store) Create(ctx context.Context, in CreateInput) (*Member, error) {
	status := in.Status
	if status == "" {
		status = "pending"
	}

	query := fmt.Sprintf(`INSERT INTO members
		(full_name, email, phone, occupation, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, memberColumns)

	m, err := scanMember(s.pool.QueryRow(ctx, query,
		in.FullName, in.Email, in.Phone, in.Occupation, status))
	if err != nil {
		return nil, fmt.Errorf("creating member: %w", err)
	}
	return m, nil
}

// GetByID retrieves a member by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Member, error) {
	query := fmt.Sprintf(`SELECT %s FROM members WHERE id = $1`, memberColumns)
	return scanMember(s.pool.QueryRow(ctx, query, id))
}

// EmailExists reports whether a member with the given email already exists.
// Advisory only: the unique index is the authoritative guard.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM members WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking member email: %w", err)
	}
	return exists, nil
}

// List returns a filtered page of members ordered newest first, plus the
// total count matching the filters.
func (s *Store) List(ctx context.Context, params ListParams) ([]*Member, int, error) {
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
			fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+params.Query+"%")
		argIdx++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM members %s`, where)
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting members: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM members %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		memberColumns, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, m)
	}
	return members, total, rows.Err()
}

// Update performs a partial update on the member with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateInput) (*Member, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.FullName != nil {
		setClauses = append(setClauses, fmt.Sprintf("full_name = $%d", argIdx))
		args = append(args, *in.FullName)
		argIdx++
	}
	if in.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, *in.Email)
		argIdx++
	}
	if in.Phone != nil {
		setClauses = append(setClauses, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, *in.Phone)
		argIdx++
	}
	if in.Occupation != nil {
		setClauses = append(setClauses, fmt.Sprintf("occupation = $%d", argIdx))
		args = append(args, *in.Occupation)
		argIdx++
	}
	if in.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *in.Status)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now().UTC())
	argIdx++

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE members SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, memberColumns)

	return scanMember(s.pool.QueryRow(ctx, query, args...))
}

// Delete removes a member by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
